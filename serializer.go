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

package osmx

import (
	"bufio"
	"io"
	"strconv"

	"m4o.io/osmx/internal/xmltext"
	"m4o.io/osmx/model"
)

// serializer re-emits retained entities as OSM XML, reproducing the line
// shapes of the source format: two-space indented elements, four-space
// indented children, members before tags, original order throughout.
type serializer struct {
	w         *bufio.Writer
	generator string
}

func newSerializer(out io.Writer, generator string) *serializer {
	return &serializer{w: bufio.NewWriter(out), generator: generator}
}

func (s *serializer) header() {
	s.w.WriteString("<?xml version='1.0' encoding='UTF-8'?>\n")
	s.w.WriteString(`<osm version="0.6" generator="`)
	s.w.WriteString(xmltext.Escape(s.generator))
	s.w.WriteString("\">\n")
}

func (s *serializer) footer() {
	s.w.WriteString("</osm>\n")
}

func (s *serializer) flush() error {
	return s.w.Flush()
}

func (s *serializer) node(n *model.Node) {
	s.w.WriteString(`  <node id="`)
	s.id(n.ID)
	s.w.WriteString(`" lat="`)
	s.w.WriteString(n.Lat.Format())
	s.w.WriteString(`" lon="`)
	s.w.WriteString(n.Lon.Format())
	s.w.WriteByte('"')

	if len(n.Tags) == 0 {
		s.w.WriteString("/>\n")

		return
	}

	s.w.WriteString(">\n")
	s.tags(n.Tags)
	s.w.WriteString("  </node>\n")
}

func (s *serializer) way(w *model.Way) {
	s.w.WriteString(`  <way id="`)
	s.id(w.ID)
	s.w.WriteString("\">\n")

	for _, ref := range w.NodeIDs {
		s.w.WriteString(`    <nd ref="`)
		s.id(ref)
		s.w.WriteString("\"/>\n")
	}

	s.tags(w.Tags)
	s.w.WriteString("  </way>\n")
}

func (s *serializer) relation(r *model.Relation) {
	s.w.WriteString(`  <relation id="`)
	s.id(r.ID)
	s.w.WriteString("\">\n")

	for _, m := range r.Members {
		s.w.WriteString(`    <member type="`)
		s.w.WriteString(memberType(m.Type))
		s.w.WriteString(`" ref="`)
		s.id(m.ID)
		s.w.WriteString(`" role="`)
		s.w.WriteString(xmltext.Escape(m.Role))
		s.w.WriteString("\"/>\n")
	}

	s.tags(r.Tags)
	s.w.WriteString("  </relation>\n")
}

func (s *serializer) tags(tags []model.Tag) {
	for _, t := range tags {
		s.w.WriteString(`    <tag k="`)
		s.w.WriteString(xmltext.Escape(t.Key))
		s.w.WriteString(`" v="`)
		s.w.WriteString(xmltext.Escape(t.Value))
		s.w.WriteString("\" />\n")
	}
}

func (s *serializer) id(id model.ID) {
	s.w.WriteString(strconv.FormatUint(uint64(id), 10))
}

func memberType(t model.EntityType) string {
	switch t {
	case model.NODE:
		return "node"
	case model.WAY:
		return "way"
	default:
		return "relation"
	}
}
