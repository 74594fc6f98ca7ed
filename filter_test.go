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

package osmx_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"m4o.io/osmx"
	"m4o.io/osmx/model"
)

var railPatterns = []model.TagPattern{
	{Key: "railway", Value: model.Wildcard},
	{Key: "route", Value: "train"},
}

const sampleDocument = `<?xml version='1.0' encoding='UTF-8'?>
<osm version="0.6" generator="test">
  <node id="1" lat="51.5007320" lon="-0.1275000">
    <tag k="railway" v="station" />
    <tag k="name" v="Central" />
  </node>
  <node id="2" lat="51.5010000" lon="-0.1010000"/>
  <node id="3" lat="51.5020000" lon="-0.1020000"/>
  <node id="4" lat="51.5030000" lon="-0.1030000">
    <tag k="amenity" v="cafe" />
  </node>
  <way id="10">
    <nd ref="2"/>
    <nd ref="3"/>
    <tag k="highway" v="service" />
  </way>
  <way id="11">
    <nd ref="2"/>
    <tag k="railway" v="rail" />
  </way>
  <relation id="20">
    <member type="way" ref="10" role="outer"/>
    <member type="node" ref="4" role="stop"/>
    <tag k="route" v="train" />
  </relation>
</osm>
`

// The closure over sampleDocument retains node 1 (matches), nodes 2 and 3
// (members of retained ways), ways 10 (member of relation 20) and 11
// (matches), and relation 20 (matches).  Node 4 is referenced by relation
// 20, but node members of relations are not pulled in; its member line
// still carries the dangling reference.
const filteredDocument = `<?xml version='1.0' encoding='UTF-8'?>
<osm version="0.6" generator="osmx">
  <node id="1" lat="51.5007320" lon="-0.1275000">
    <tag k="railway" v="station" />
    <tag k="name" v="Central" />
  </node>
  <node id="2" lat="51.5010000" lon="-0.1010000"/>
  <node id="3" lat="51.5020000" lon="-0.1020000"/>
  <way id="10">
    <nd ref="2"/>
    <nd ref="3"/>
    <tag k="highway" v="service" />
  </way>
  <way id="11">
    <nd ref="2"/>
    <tag k="railway" v="rail" />
  </way>
  <relation id="20">
    <member type="way" ref="10" role="outer"/>
    <member type="node" ref="4" role="stop"/>
    <tag k="route" v="train" />
  </relation>
</osm>
`

func writeSample(t *testing.T, doc string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "sample.osm.gz")

	f, err := os.Create(path)
	require.NoError(t, err)

	zw := gzip.NewWriter(f)
	_, err = zw.Write([]byte(doc))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	return path
}

func TestFilterRun(t *testing.T) {
	path := writeSample(t, sampleDocument)

	var buf bytes.Buffer

	f := osmx.New(railPatterns, osmx.WithBlockSize(64))
	require.NoError(t, f.Run(context.Background(), path, &buf))

	assert.Equal(t, filteredDocument, buf.String())
}

func TestFilterRunNoMatches(t *testing.T) {
	path := writeSample(t, sampleDocument)

	var buf bytes.Buffer

	f := osmx.New([]model.TagPattern{{Key: "waterway", Value: model.Wildcard}})
	require.NoError(t, f.Run(context.Background(), path, &buf))

	assert.Equal(t, "<?xml version='1.0' encoding='UTF-8'?>\n"+
		"<osm version=\"0.6\" generator=\"osmx\">\n"+
		"</osm>\n", buf.String())
}

func TestFilterRunGenerator(t *testing.T) {
	path := writeSample(t, sampleDocument)

	var buf bytes.Buffer

	f := osmx.New(railPatterns, osmx.WithGenerator("osmx test"))
	require.NoError(t, f.Run(context.Background(), path, &buf))

	assert.Contains(t, buf.String(), `<osm version="0.6" generator="osmx test">`)
}

func TestFilterRunMissingFile(t *testing.T) {
	f := osmx.New(railPatterns)

	err := f.Run(context.Background(), filepath.Join(t.TempDir(), "nope.osm.gz"), &bytes.Buffer{})
	assert.Error(t, err)
}

func TestFilterRunCancelled(t *testing.T) {
	path := writeSample(t, sampleDocument)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := osmx.New(railPatterns)

	err := f.Run(ctx, path, &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}
