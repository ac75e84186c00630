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

package graph

import (
	"fmt"
)

type checkHelper struct {
	logAll  bool // True if all errors should be logged to stdout.
	lastErr error
}

func (ch *checkHelper) error(err error) {
	if ch.logAll {
		fmt.Println(err.Error())
	}
	ch.lastErr = err
}

// Check checks the provided graph for violated invariants which would likely
// compromise the correctness of anything computed from it, returning an
// arbitrary violated invariant.  Invariants tested by this function include:
//   - Every registered vertex must be minted by the graph, and must appear
//     exactly once, in its parent worker's sequence;
//   - Each worker's sequence must have non-decreasing timestamps;
//   - Any incoming horizontal edge must come from the preceding vertex in
//     the sequence;
//   - Every edge must be non-negative, must lie between registered
//     vertices, must be recorded symmetrically at both of its endpoints, and
//     must be horizontal exactly when both endpoints share a worker;
//   - Epsilon edges must have zero duration.
//
// If logAll is true, all errors are also logged to stdout.
func Check[W comparable](g *Graph[W], logAll bool) error {
	ch := &checkHelper{
		logAll: logAll,
	}
	seen := make(map[*Vertex]struct{}, len(g.parents))
	for _, worker := range g.workers {
		seq := g.sequences[worker]
		for idx, v := range seq {
			if !g.Owns(v) {
				ch.error(fmt.Errorf("worker %v vertex %d (%s) was minted by another graph", worker, idx, v))
			}
			if _, ok := seen[v]; ok {
				ch.error(fmt.Errorf("vertex %s appears more than once", v))
			}
			seen[v] = struct{}{}
			if parent, ok := g.parents[v]; !ok || parent != worker {
				ch.error(fmt.Errorf("worker %v vertex %d (%s) is not parented by that worker", worker, idx, v))
			}
			if idx > 0 {
				prev := seq[idx-1]
				if v.ts < prev.ts {
					ch.error(fmt.Errorf("worker %v vertices %d and %d are out of order (%d > %d)", worker, idx-1, idx, prev.ts, v.ts))
				}
			}
			if inh := v.Edge(IncomingHorizontal); inh != nil && (idx == 0 || inh.from != seq[idx-1]) {
				ch.error(fmt.Errorf("worker %v vertex %d (%s) is horizontally linked from a non-adjacent vertex %s", worker, idx, v, inh.from))
			}
		}
	}
	if len(seen) != len(g.parents) {
		ch.error(fmt.Errorf("%d vertices are parented but not in any sequence", len(g.parents)-len(seen)))
	}
	for v := range seen {
		for _, dir := range []EdgeDirection{OutgoingVertical, OutgoingHorizontal} {
			e := v.Edge(dir)
			if e == nil {
				continue
			}
			if e.from != v || e.to.Edge(dir.Opposite()) != e {
				ch.error(fmt.Errorf("edge %s is not recorded symmetrically", e))
			}
			if e.Duration() < 0 {
				ch.error(fmt.Errorf("edge %s is negative", e))
			}
			if e.edgeType == Epsilon && e.Duration() != 0 {
				ch.error(fmt.Errorf("epsilon edge %s has nonzero duration %d", e, e.Duration()))
			}
			toWorker, ok := g.parents[e.to]
			if !ok {
				ch.error(fmt.Errorf("edge %s leads to an unregistered vertex", e))
				continue
			}
			if sameWorker := toWorker == g.parents[v]; sameWorker != e.horizontal {
				ch.error(fmt.Errorf("edge %s is horizontal=%t, but its endpoints share a worker=%t", e, e.horizontal, sameWorker))
			}
		}
	}
	return ch.lastErr
}
