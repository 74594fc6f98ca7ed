// Copyright 2025 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package model contains the shared model for OpenStreetMap XML entities.
package model

// ID is the primary key of an entity.  OSM element IDs exceed 32 bits on
// real planet extracts, so IDs are 64-bit everywhere.
type ID uint64

// MaxTagLength is the maximum byte length of a tag key, tag value or
// member role.  Longer text is truncated by the parser.
const MaxTagLength = 255

// Tag is a single key/value attribute attached to an entity.  Unlike a
// map, a slice of tags preserves the order in which the tags appeared in
// the source document.
type Tag struct {
	Key   string
	Value string
}

type Entity interface {
	isEntity() // prevents extensions

	GetID() ID

	GetTags() []Tag
}

// Node represents a specific point on the earth's surface defined by its
// latitude and longitude. Each node comprises at least an id number and a
// pair of coordinates.
type Node struct {
	ID   ID
	Lat  Degrees
	Lon  Degrees
	Tags []Tag
}

var _ Entity = Node{}

func (n Node) isEntity() {}

func (n Node) GetID() ID {
	return n.ID
}

func (n Node) GetTags() []Tag {
	return n.Tags
}

// Way is an ordered list of nodes that define a polyline.  The order of
// NodeIDs is the geometry of the way and must survive a round trip.
type Way struct {
	ID      ID
	NodeIDs []ID
	Tags    []Tag
}

var _ Entity = Way{}

func (w Way) isEntity() {}

func (w Way) GetID() ID {
	return w.ID
}

func (w Way) GetTags() []Tag {
	return w.Tags
}

// EntityType is an enumeration of OSM entity types.
type EntityType int32

const (
	// NODE denotes that the member is a node.
	NODE EntityType = iota

	// WAY denotes that the member is a way.
	WAY

	// RELATION denotes that the member is a relation.
	RELATION
)

// Member represents an entity referenced by a relation, together with the
// free-text role the entity plays in the relation.
type Member struct {
	ID   ID
	Type EntityType
	Role string
}

// Relation is a multipurpose data structure that documents a relationship
// between two or more data entities (nodes and/or ways).
type Relation struct {
	ID      ID
	Members []Member
	Tags    []Tag
}

var _ Entity = Relation{}

func (r Relation) isEntity() {}

func (r Relation) GetID() ID {
	return r.ID
}

func (r Relation) GetTags() []Tag {
	return r.Tags
}
