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

// Package osmx extracts the subset of an OpenStreetMap XML export that
// matches a tag filter, together with everything a match transitively
// references, and re-serializes it.  The reference closure is computed in
// three sequential passes over the source, holding only sorted integer ID
// sets in memory between passes:
//
//  1. record the IDs of matching nodes, ways and relations, plus the way
//     members of matching relations;
//  2. record the node members of every retained way;
//  3. emit every retained entity, in file order.
//
// Relations referenced only by other relations are not pulled in; the
// closure follows node and way members only.
package osmx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/dustin/go-humanize"

	"m4o.io/osmx/internal/feed"
	"m4o.io/osmx/internal/idset"
	"m4o.io/osmx/internal/parser"
	"m4o.io/osmx/model"
)

// Filter drives the three-pass closure computation.  A Filter performs a
// single Run and is not safe for concurrent use.
type Filter struct {
	patterns []model.TagPattern
	cfg      filterOptions

	nodes     idset.Builder[model.ID]
	ways      idset.Builder[model.ID]
	relations idset.Builder[model.ID]

	nodeSet     idset.Set[model.ID]
	waySet      idset.Set[model.ID]
	relationSet idset.Set[model.ID]

	out *serializer
}

// New returns a filter retaining entities that match any of the patterns,
// along with their reference closure.
func New(patterns []model.TagPattern, opts ...Option) *Filter {
	cfg := defaultFilterConfig

	for _, opt := range opts {
		opt(&cfg)
	}

	return &Filter{patterns: patterns, cfg: cfg}
}

// Run scans the compressed file at path three times and writes the
// filtered document to out.  Diagnostics go to the default slog handler,
// never to out.  Any failure to open, read or close the source aborts the
// run; output already written stands.
func (f *Filter) Run(ctx context.Context, path string, out io.Writer) error {
	slog.Info("first pass", "file", path)

	err := f.runPass(ctx, path, parser.Handlers{
		Node:     f.loadNode,
		Way:      f.loadWay,
		Relation: f.loadRelation,
	})
	if err != nil {
		return err
	}

	// way and relation sets are complete after the first pass
	f.waySet = f.ways.Finalize()
	f.relationSet = f.relations.Finalize()

	slog.Info("second pass", "file", path)

	if err := f.runPass(ctx, path, parser.Handlers{Way: f.loadWayNodes}); err != nil {
		return err
	}

	f.nodeSet = f.nodes.Finalize()

	slog.Info("finished loading",
		"nodes", humanize.Comma(int64(f.nodeSet.Len())),
		"ways", humanize.Comma(int64(f.waySet.Len())),
		"relations", humanize.Comma(int64(f.relationSet.Len())))

	slog.Info("third pass", "file", path)

	f.out = newSerializer(out, f.cfg.generator)
	f.out.header()

	err = f.runPass(ctx, path, parser.Handlers{
		Node:     f.emitNode,
		Way:      f.emitWay,
		Relation: f.emitRelation,
	})
	if err != nil {
		return err
	}

	f.out.footer()

	if err := f.out.flush(); err != nil {
		return fmt.Errorf("osmx: unable to write output: %w", err)
	}

	return nil
}

// runPass opens, drains and closes one feed over the source, delivering
// every line to a fresh parser wired to h.
func (f *Filter) runPass(ctx context.Context, path string, h parser.Handlers) error {
	fd, err := feed.Open(path, f.cfg.feedOptions()...)
	if err != nil {
		return err
	}

	p := parser.New(h)

	for {
		select {
		case <-ctx.Done():
			_ = fd.Close()

			return ctx.Err()
		default:
		}

		line, err := fd.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}

			_ = fd.Close()

			return err
		}

		if p.Ingest(line) {
			// logical end of data; stop before physical EOF
			break
		}
	}

	if n := p.Truncations(); n > 0 {
		slog.Warn("attribute text truncated to format bound", "count", n)
	}

	return fd.Close()
}

func (f *Filter) matches(tags []model.Tag) bool {
	return model.AnyMatch(tags, f.patterns)
}

// loadNode records the ID of a node matching the filter.
func (f *Filter) loadNode(n *model.Node) {
	if f.matches(n.Tags) {
		f.nodes.Append(n.ID)
	}
}

// loadWay records the ID of a way matching the filter.
func (f *Filter) loadWay(w *model.Way) {
	if f.matches(w.Tags) {
		f.ways.Append(w.ID)
	}
}

// loadRelation records a matching relation and pulls in its way members,
// whether or not those ways match the filter on their own.
func (f *Filter) loadRelation(r *model.Relation) {
	if !f.matches(r.Tags) {
		return
	}

	f.relations.Append(r.ID)

	for _, m := range r.Members {
		if m.Type == model.WAY {
			f.ways.Append(m.ID)
		}
	}
}

// loadWayNodes pulls in the member nodes of every retained way.
func (f *Filter) loadWayNodes(w *model.Way) {
	if f.waySet.Contains(w.ID) {
		f.nodes.AppendAll(w.NodeIDs...)
	}
}

func (f *Filter) emitNode(n *model.Node) {
	if f.nodeSet.Contains(n.ID) {
		f.out.node(n)
	}
}

func (f *Filter) emitWay(w *model.Way) {
	if f.waySet.Contains(w.ID) {
		f.out.way(w)
	}
}

func (f *Filter) emitRelation(r *model.Relation) {
	if f.relationSet.Contains(r.ID) {
		f.out.relation(r)
	}
}
