/*
	Copyright 2024 Google Inc.

	Licensed under the Apache License, Version 2.0 (the "License");
	you may not use this file except in compliance with the License.
	You may obtain a copy of the License at

			http://www.apache.org/licenses/LICENSE-2.0

	Unless required by applicable law or agreed to in writing, software
	distributed under the License is distributed on an "AS IS" BASIS,
	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
	See the License for the specific language governing permissions and
	limitations under the License.
*/

package criticalpath

import (
	"github.com/ilhamster/critpath/graph"
)

// BoundedAlgorithm computes critical paths whose blocking explanations never
// reach back before the start of the blocking interval they explain.  When
// walking back through a waker's history, it prefers following the waker's
// own timeline, and backtracks to the most recently skipped incoming vertical
// edge when that timeline dead-ends.
type BoundedAlgorithm[W comparable] struct {
	base[W]
}

// NewBounded returns a BoundedAlgorithm operating on the provided graph.
func NewBounded[W comparable](g *graph.Graph[W], opts ...Option) *BoundedAlgorithm[W] {
	return &BoundedAlgorithm[W]{
		base: newBase(g, opts...),
	}
}

// Strategy returns Bounded.
func (ba *BoundedAlgorithm[W]) Strategy() Strategy {
	return Bounded
}

// Compute returns the bounded critical path from start to end.
func (ba *BoundedAlgorithm[W]) Compute(start, end *graph.Vertex) (*graph.Graph[W], error) {
	br := &boundedRun[W]{
		run: ba.newRun(Bounded),
	}
	return br.walk(br, start, end)
}

type boundedRun[W comparable] struct {
	*run[W]
}

func (br *boundedRun[W]) resolve(blocking *graph.Edge) ([]*graph.Edge, error) {
	return br.resolveWithin(blocking, blocking.From())
}

// Resolves the provided blocking edge without reaching back before bound or
// the start of the blocking edge, whichever is later.  The returned chain is
// most recent first.
func (br *boundedRun[W]) resolveWithin(blocking *graph.Edge, bound *graph.Vertex) ([]*graph.Edge, error) {
	if err := br.enter(blocking); err != nil {
		return nil, err
	}
	defer br.leave(blocking)
	junction := findIncoming(blocking.To(), graph.OutgoingHorizontal)
	if junction == nil {
		br.noteUnresolved(blocking)
		return nil, nil
	}
	down := junction.Edge(graph.IncomingVertical)
	chain := []*graph.Edge{down}
	boundTS := max(bound.Timestamp(), blocking.From().Timestamp())
	// A vertex at which the walk preferred the horizontal predecessor over the
	// vertical one, and the chain length on reaching it.
	type candidate struct {
		v        *graph.Vertex
		chainLen int
	}
	var candidates []candidate
	pushed := map[*graph.Vertex]struct{}{}
	cursor := down.From()
	for cursor != nil && cursor.Timestamp() > boundTS {
		inV := cursor.Edge(graph.IncomingVertical)
		if inV != nil && inV.From().Timestamp() <= boundTS {
			chain = append(chain, inV)
			break
		}
		inH := cursor.Edge(graph.IncomingHorizontal)
		if inV != nil && inH != nil && !inH.Type().IsBlocking() {
			if _, ok := pushed[cursor]; !ok {
				pushed[cursor] = struct{}{}
				candidates = append(candidates, candidate{cursor, len(chain)})
			}
		}
		if inH == nil {
			if len(candidates) == 0 {
				break
			}
			c := candidates[len(candidates)-1]
			candidates = candidates[:len(candidates)-1]
			inV := c.v.Edge(graph.IncomingVertical)
			chain = append(chain[:c.chainLen], inV)
			cursor = inV.From()
			continue
		}
		if inH.Type() == graph.Blocked {
			nested, err := br.resolveWithin(inH, bound)
			if err != nil {
				return nil, err
			}
			chain = append(chain, nested...)
		} else {
			chain = append(chain, inH)
		}
		cursor = inH.From()
	}
	return chain, nil
}

func (br *boundedRun[W]) splice(
	out *graph.Graph[W],
	curr *graph.Vertex,
	blocking *graph.Edge,
	links []*graph.Edge,
) error {
	currWorker, err := br.parentOf(curr)
	if err != nil {
		return err
	}
	if len(links) == 0 {
		_, err := out.Append(currWorker, out.CopyVertex(blocking.To()), graph.Unknown)
		return err
	}
	anchor := out.Tail(currWorker)
	if anchor == nil {
		return graph.NewInvariantViolation(blocking, nil, "no output vertex precedes blocking edge")
	}
	first := links[0]
	srcWorker, err := br.parentOf(first.From())
	if err != nil {
		return err
	}
	if srcWorker != currWorker {
		bridge := out.CopyVertex(curr)
		if _, err := anchor.LinkVertical(bridge); err != nil {
			return err
		}
		if err := out.Add(srcWorker, bridge); err != nil {
			return err
		}
		anchor = bridge
		if first.From().Timestamp() > anchor.Timestamp() {
			gap := out.CopyVertex(first.From())
			if _, err := out.Append(srcWorker, gap, graph.Unknown); err != nil {
				return err
			}
			anchor = gap
		}
	}
	var prev *graph.Edge
	for _, link := range links {
		if prev != nil && prev.To() != link.From() {
			gapEnd := max(prev.To().Timestamp(), link.From().Timestamp())
			anchor, err = br.copyLink(out, anchor, prev.To(), link.From(), gapEnd, graph.Default)
			if err != nil {
				return err
			}
		}
		anchor, err = br.copyLink(out, anchor, link.From(), link.To(), link.To().Timestamp(), link.Type())
		if err != nil {
			return err
		}
		prev = link
	}
	return nil
}
