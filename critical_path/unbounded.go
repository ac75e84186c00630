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

// UnboundedAlgorithm computes critical paths whose blocking explanations may
// reach back as far as the start of the path.  Resolution follows a waker's
// timeline backwards, recursing through its own blocking intervals, until it
// converges on a vertical edge from the path's starting worker.  Splicing
// such an explanation in rewinds the output to where it diverged.
type UnboundedAlgorithm[W comparable] struct {
	base[W]
}

// NewUnbounded returns an UnboundedAlgorithm operating on the provided graph.
func NewUnbounded[W comparable](g *graph.Graph[W], opts ...Option) *UnboundedAlgorithm[W] {
	return &UnboundedAlgorithm[W]{
		base: newBase(g, opts...),
	}
}

// Strategy returns Unbounded.
func (ua *UnboundedAlgorithm[W]) Strategy() Strategy {
	return Unbounded
}

// Compute returns the unbounded critical path from start to end.
func (ua *UnboundedAlgorithm[W]) Compute(start, end *graph.Vertex) (*graph.Graph[W], error) {
	ur := &unboundedRun[W]{
		run:   ua.newRun(Unbounded),
		bound: start,
	}
	return ur.walk(ur, start, end)
}

type unboundedRun[W comparable] struct {
	*run[W]
	bound *graph.Vertex
}

// Resolves the provided blocking edge back to the path's start, or to the
// first vertical edge from the start's worker.  The returned chain is most
// recent first.
func (ur *unboundedRun[W]) resolve(blocking *graph.Edge) ([]*graph.Edge, error) {
	if err := ur.enter(blocking); err != nil {
		return nil, err
	}
	defer ur.leave(blocking)
	junction := findIncoming(blocking.To(), graph.OutgoingHorizontal)
	if junction == nil {
		ur.noteUnresolved(blocking)
		return nil, nil
	}
	boundWorker, err := ur.parentOf(ur.bound)
	if err != nil {
		return nil, err
	}
	down := junction.Edge(graph.IncomingVertical)
	chain := []*graph.Edge{down}
	for cursor := down.From(); cursor != nil && cursor.Timestamp() > ur.bound.Timestamp(); {
		if inV := cursor.Edge(graph.IncomingVertical); inV != nil {
			if w, ok := ur.graph.ParentOf(inV.From()); ok && w == boundWorker {
				chain = append(chain, inV)
				break
			}
		}
		inH := cursor.Edge(graph.IncomingHorizontal)
		if inH == nil {
			break
		}
		if inH.Type().IsBlocking() {
			nested, err := ur.resolve(inH)
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

// Removes worker's tail from out, detaching all of its edges.
func popTail[W comparable](out *graph.Graph[W], worker W) error {
	v, err := out.RemoveTail(worker)
	if err != nil {
		return err
	}
	for _, dir := range []graph.EdgeDirection{
		graph.IncomingHorizontal, graph.IncomingVertical,
		graph.OutgoingHorizontal, graph.OutgoingVertical,
	} {
		v.Detach(dir)
	}
	return nil
}

// Pops worker's output vertices later than ts, stopping at keep.
func truncate[W comparable](out *graph.Graph[W], worker W, ts int64, keep *graph.Vertex) error {
	for tail := out.Tail(worker); tail != nil && tail != keep && tail.Timestamp() > ts; tail = out.Tail(worker) {
		if err := popTail(out, worker); err != nil {
			return err
		}
	}
	return nil
}

// Like copyLink, but first clears any output on the target worker later than
// ts.
func (ur *unboundedRun[W]) transplant(
	out *graph.Graph[W],
	anchor, from, to *graph.Vertex,
	ts int64,
	edgeType graph.EdgeType,
) (*graph.Vertex, error) {
	toWorker, err := ur.parentOf(to)
	if err != nil {
		return nil, err
	}
	if err := truncate(out, toWorker, ts, anchor); err != nil {
		return nil, err
	}
	return ur.copyLink(out, anchor, from, to, ts, edgeType)
}

func (ur *unboundedRun[W]) splice(
	out *graph.Graph[W],
	curr *graph.Vertex,
	blocking *graph.Edge,
	links []*graph.Edge,
) error {
	currWorker, err := ur.parentOf(curr)
	if err != nil {
		return err
	}
	if len(links) == 0 {
		_, err := out.Append(currWorker, out.CopyVertex(blocking.To()), graph.Unknown)
		return err
	}
	first := links[0]
	// Rewind the blocked worker's current run to where the explanation
	// diverges from it.
	anchor := out.Tail(currWorker)
	for anchor != nil && first.From().Timestamp() < anchor.Timestamp() && anchor.HasNeighbor(graph.IncomingHorizontal) {
		if err := popTail(out, currWorker); err != nil {
			return err
		}
		anchor = out.Tail(currWorker)
	}
	if anchor == nil {
		return graph.NewInvariantViolation(blocking, nil, "no output vertex precedes blocking edge")
	}
	srcWorker, err := ur.parentOf(first.From())
	if err != nil {
		return err
	}
	if srcWorker != currWorker {
		if err := truncate(out, srcWorker, anchor.Timestamp(), nil); err != nil {
			return err
		}
		bridge := out.NewVertex(anchor.Timestamp())
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
		// Links ending before the anchor are already superseded by the output.
		if link.To().Timestamp() < anchor.Timestamp() {
			continue
		}
		if prev != nil && prev.To() != link.From() {
			gapEnd := max(prev.To().Timestamp(), link.From().Timestamp())
			anchor, err = ur.transplant(out, anchor, prev.To(), link.From(), gapEnd, graph.Default)
			if err != nil {
				return err
			}
		}
		anchor, err = ur.transplant(out, anchor, link.From(), link.To(), link.To().Timestamp(), link.Type())
		if err != nil {
			return err
		}
		prev = link
	}
	if prev == nil {
		_, err := out.Append(currWorker, out.CopyVertex(blocking.To()), graph.Unknown)
		return err
	}
	return nil
}
