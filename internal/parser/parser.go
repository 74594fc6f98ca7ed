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

// Package parser reconstructs OSM entities from line-fragmented XML.  It
// is a single-pass state machine: one line in, at most one tag of
// interest consumed, callbacks fired as entities complete.  The whole
// document is never buffered; the parser holds only the entity in
// progress.
package parser

import (
	"log/slog"
	"strconv"
	"strings"

	"m4o.io/osmx/internal/xmltext"
	"m4o.io/osmx/model"
)

// Handlers receives completed entities.  The entity values are owned by
// the parser and reused across entities of the same kind; a handler must
// copy anything it retains past the call.
type Handlers struct {
	Node     func(*model.Node)
	Way      func(*model.Way)
	Relation func(*model.Relation)
}

type state int

const (
	outside state = iota
	inDocument
	inNode
	inWay
	inRelation
)

// Parser is a streaming OSM XML parser.  It is exclusively owned by its
// caller and not safe for concurrent use; independent Parser instances
// are safe to run side by side.
type Parser struct {
	handlers Handlers

	state state
	skip  bool // opening tag was malformed; consume children, fire nothing

	node     model.Node
	way      model.Way
	relation model.Relation

	truncations int64
}

// New returns a parser delivering completed entities to h.
func New(h Handlers) *Parser {
	return &Parser{handlers: h}
}

// Truncations returns the number of attribute values cut at
// model.MaxTagLength so far.
func (p *Parser) Truncations() int64 {
	return p.truncations
}

// Ingest consumes one line, without CR/LF.  It returns true when the
// document's closing tag has been seen and no more data will follow.
func (p *Parser) Ingest(line string) bool {
	name, rest, closing, ok := splitTag(line)
	if !ok {
		// no XML tag on this line
		return false
	}

	switch p.state {
	case outside:
		if !closing && name == "osm" {
			p.state = inDocument
		}
	case inDocument:
		return p.ingestDocument(name, rest, closing, line)
	case inNode:
		p.ingestNode(name, rest, closing, line)
	case inWay:
		p.ingestWay(name, rest, closing, line)
	case inRelation:
		p.ingestRelation(name, rest, closing, line)
	}

	return false
}

func (p *Parser) ingestDocument(name, rest string, closing bool, line string) bool {
	if closing {
		return name == "osm"
	}

	switch name {
	case "node":
		p.openNode(rest, line)
	case "way":
		p.openWay(rest, line)
	case "relation":
		p.openRelation(rest, line)
	}

	return false
}

func (p *Parser) openNode(rest, line string) {
	n := &p.node
	n.Tags = n.Tags[:0]
	p.skip = false

	id, ok1 := idAttr(rest, "id")
	lat, ok2 := degAttr(rest, "lat")
	lon, ok3 := degAttr(rest, "lon")

	if !ok1 || !ok2 || !ok3 {
		slog.Warn("malformed node element", "line", line)
		p.skip = true
	} else {
		n.ID, n.Lat, n.Lon = id, lat, lon
	}

	if selfClosing(rest) {
		p.finishNode()
	} else {
		p.state = inNode
	}
}

func (p *Parser) openWay(rest, line string) {
	w := &p.way
	w.NodeIDs = w.NodeIDs[:0]
	w.Tags = w.Tags[:0]
	p.skip = false

	id, ok := idAttr(rest, "id")
	if !ok {
		slog.Warn("malformed way element", "line", line)
		p.skip = true
	} else {
		w.ID = id
	}

	if selfClosing(rest) {
		p.finishWay()
	} else {
		p.state = inWay
	}
}

func (p *Parser) openRelation(rest, line string) {
	r := &p.relation
	r.Members = r.Members[:0]
	r.Tags = r.Tags[:0]
	p.skip = false

	id, ok := idAttr(rest, "id")
	if !ok {
		slog.Warn("malformed relation element", "line", line)
		p.skip = true
	} else {
		r.ID = id
	}

	if selfClosing(rest) {
		p.finishRelation()
	} else {
		p.state = inRelation
	}
}

func (p *Parser) ingestNode(name, rest string, closing bool, line string) {
	if closing && name == "node" {
		p.finishNode()

		return
	}

	if name == "tag" {
		if tag, ok := p.parseTag(rest, line); ok {
			p.node.Tags = append(p.node.Tags, tag)
		}
	}
}

func (p *Parser) ingestWay(name, rest string, closing bool, line string) {
	if closing && name == "way" {
		p.finishWay()

		return
	}

	switch name {
	case "nd":
		ref, ok := idAttr(rest, "ref")
		if !ok {
			slog.Warn("malformed way member node", "line", line)

			return
		}

		p.way.NodeIDs = append(p.way.NodeIDs, ref)
	case "tag":
		if tag, ok := p.parseTag(rest, line); ok {
			p.way.Tags = append(p.way.Tags, tag)
		}
	}
}

func (p *Parser) ingestRelation(name, rest string, closing bool, line string) {
	if closing && name == "relation" {
		p.finishRelation()

		return
	}

	switch name {
	case "member":
		p.parseMember(rest, line)
	case "tag":
		if tag, ok := p.parseTag(rest, line); ok {
			p.relation.Tags = append(p.relation.Tags, tag)
		}
	}
}

func (p *Parser) parseMember(rest, line string) {
	kind, ok := attr(rest, "type")
	if !ok {
		slog.Warn("malformed relation member", "line", line)

		return
	}

	var mt model.EntityType

	switch kind {
	case "node":
		mt = model.NODE
	case "way":
		mt = model.WAY
	case "relation":
		// nested relations are not followed; closure stops at
		// node and way members
		slog.Debug("skipping relation member of type relation", "line", line)

		return
	default:
		slog.Warn("unknown relation member type", "type", kind, "line", line)

		return
	}

	ref, ok := idAttr(rest, "ref")
	if !ok {
		slog.Warn("malformed relation member", "line", line)

		return
	}

	role, ok := attr(rest, "role")
	if !ok {
		slog.Warn("relation member missing role", "line", line)

		return
	}

	p.relation.Members = append(p.relation.Members, model.Member{
		ID:   ref,
		Type: mt,
		Role: p.text(role),
	})
}

func (p *Parser) finishNode() {
	p.state = inDocument

	if !p.skip && p.handlers.Node != nil {
		p.handlers.Node(&p.node)
	}
}

func (p *Parser) finishWay() {
	p.state = inDocument

	if !p.skip && p.handlers.Way != nil {
		p.handlers.Way(&p.way)
	}
}

func (p *Parser) finishRelation() {
	p.state = inDocument

	if !p.skip && p.handlers.Relation != nil {
		p.handlers.Relation(&p.relation)
	}
}

// parseTag extracts a k="…" v="…" attribute pair.
func (p *Parser) parseTag(rest, line string) (model.Tag, bool) {
	k, ok1 := attr(rest, "k")
	v, ok2 := attr(rest, "v")

	if !ok1 || !ok2 {
		slog.Warn("malformed tag element", "line", line)

		return model.Tag{}, false
	}

	return model.Tag{Key: p.text(k), Value: p.text(v)}, true
}

// text unescapes attribute text and enforces the format's length bound.
// Truncation is counted rather than silent.
func (p *Parser) text(raw string) string {
	v := xmltext.Unescape(raw)
	if len(v) > model.MaxTagLength {
		p.truncations++
		v = v[:model.MaxTagLength]
	}

	return v
}

// splitTag extracts the element name from the single tag on the line.
// rest is everything after the name, still inside the tag.
func splitTag(line string) (name, rest string, closing, ok bool) {
	i := strings.IndexByte(line, '<')
	if i < 0 {
		return "", "", false, false
	}

	s := line[i+1:]
	s = strings.TrimLeft(s, " \t")

	if strings.HasPrefix(s, "/") {
		closing = true
		s = s[1:]
	}

	end := strings.IndexAny(s, " \t/>")
	if end < 0 {
		return s, "", closing, s != ""
	}

	return s[:end], s[end:], closing, end > 0
}

// selfClosing reports whether the opening tag closes itself on the same
// line.
func selfClosing(rest string) bool {
	return strings.Contains(rest, "/>")
}

// attr returns the raw text of the first key="value" occurrence.  The
// scan is literal, matching the source format's convention of
// double-quoted, unabbreviated attributes.
func attr(s, key string) (string, bool) {
	marker := key + `="`

	for off := 0; ; {
		i := strings.Index(s[off:], marker)
		if i < 0 {
			return "", false
		}

		i += off

		// skip a longer attribute name ending in key, e.g. uid matching id
		if i > 0 && s[i-1] != ' ' && s[i-1] != '\t' {
			off = i + len(marker)

			continue
		}

		v := s[i+len(marker):]

		end := strings.IndexByte(v, '"')
		if end < 0 {
			return "", false
		}

		return v[:end], true
	}
}

func idAttr(s, key string) (model.ID, bool) {
	raw, ok := attr(s, key)
	if !ok {
		return 0, false
	}

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}

	return model.ID(id), true
}

func degAttr(s, key string) (model.Degrees, bool) {
	raw, ok := attr(s, key)
	if !ok {
		return 0, false
	}

	d, err := model.ParseDegrees(raw)
	if err != nil {
		return 0, false
	}

	return d, true
}
