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
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"m4o.io/osmx/model"
)

func render(t *testing.T, emit func(*serializer)) string {
	t.Helper()

	var buf bytes.Buffer

	s := newSerializer(&buf, DefaultGenerator)
	emit(s)
	require.NoError(t, s.flush())

	return buf.String()
}

func TestSerializeHeaderFooter(t *testing.T) {
	out := render(t, func(s *serializer) {
		s.header()
		s.footer()
	})

	assert.Equal(t, "<?xml version='1.0' encoding='UTF-8'?>\n"+
		"<osm version=\"0.6\" generator=\"osmx\">\n"+
		"</osm>\n", out)
}

func TestSerializeTaglessNode(t *testing.T) {
	out := render(t, func(s *serializer) {
		s.node(&model.Node{ID: 2, Lat: 51.501, Lon: -0.101})
	})

	assert.Equal(t, "  <node id=\"2\" lat=\"51.5010000\" lon=\"-0.1010000\"/>\n", out)
}

func TestSerializeTaggedNode(t *testing.T) {
	out := render(t, func(s *serializer) {
		s.node(&model.Node{
			ID:  1,
			Lat: 51.5007320,
			Lon: -0.1275000,
			Tags: []model.Tag{
				{Key: "railway", Value: "station"},
				{Key: "name", Value: "Charing Cross"},
			},
		})
	})

	assert.Equal(t, "  <node id=\"1\" lat=\"51.5007320\" lon=\"-0.1275000\">\n"+
		"    <tag k=\"railway\" v=\"station\" />\n"+
		"    <tag k=\"name\" v=\"Charing Cross\" />\n"+
		"  </node>\n", out)
}

func TestSerializeWay(t *testing.T) {
	out := render(t, func(s *serializer) {
		s.way(&model.Way{
			ID:      10,
			NodeIDs: []model.ID{2, 3, 2},
			Tags:    []model.Tag{{Key: "railway", Value: "rail"}},
		})
	})

	assert.Equal(t, "  <way id=\"10\">\n"+
		"    <nd ref=\"2\"/>\n"+
		"    <nd ref=\"3\"/>\n"+
		"    <nd ref=\"2\"/>\n"+
		"    <tag k=\"railway\" v=\"rail\" />\n"+
		"  </way>\n", out)
}

func TestSerializeRelation(t *testing.T) {
	out := render(t, func(s *serializer) {
		s.relation(&model.Relation{
			ID: 20,
			Members: []model.Member{
				{ID: 10, Type: model.WAY, Role: "outer"},
				{ID: 4, Type: model.NODE, Role: "stop"},
			},
			Tags: []model.Tag{{Key: "route", Value: "train"}},
		})
	})

	assert.Equal(t, "  <relation id=\"20\">\n"+
		"    <member type=\"way\" ref=\"10\" role=\"outer\"/>\n"+
		"    <member type=\"node\" ref=\"4\" role=\"stop\"/>\n"+
		"    <tag k=\"route\" v=\"train\" />\n"+
		"  </relation>\n", out)
}

func TestSerializeEscapesText(t *testing.T) {
	out := render(t, func(s *serializer) {
		s.node(&model.Node{
			ID:   1,
			Tags: []model.Tag{{Key: "name", Value: `Marks & Spencer "M&S"`}},
		})
		s.relation(&model.Relation{
			ID:      2,
			Members: []model.Member{{ID: 3, Type: model.WAY, Role: "<odd>"}},
		})
	})

	assert.Contains(t, out, `v="Marks &amp; Spencer &quot;M&amp;S&quot;"`)
	assert.Contains(t, out, `role="&lt;odd&gt;"`)
}

func TestSerializeGeneratorEscaped(t *testing.T) {
	var buf bytes.Buffer

	s := newSerializer(&buf, `tool "x" & co`)
	s.header()
	require.NoError(t, s.flush())

	assert.Contains(t, buf.String(), `generator="tool &quot;x&quot; &amp; co"`)
}
