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

// ConnectedAlgorithm returns the subgraph of all vertices lying on any path
// between its endpoints, rather than a single critical path.  It is useful
// for inspecting all the activity that could have influenced an interval.
type ConnectedAlgorithm[W comparable] struct {
	base[W]
}

// NewConnected returns a ConnectedAlgorithm operating on the provided graph.
func NewConnected[W comparable](g *graph.Graph[W], opts ...Option) *ConnectedAlgorithm[W] {
	return &ConnectedAlgorithm[W]{
		base: newBase(g, opts...),
	}
}

// Strategy returns Connected.
func (ca *ConnectedAlgorithm[W]) Strategy() Strategy {
	return Connected
}

type direction bool

const (
	forwards  direction = true
	backwards direction = false
)

// Returns the set of all vertices reachable by scanning from one endpoint
// towards the other, excluding vertices lying temporally past the distal
// endpoint.  If limit is non-nil, vertices not in limit are not traversed.
// Scanning forwards follows outgoing edges from start; scanning backwards
// follows incoming edges from end.
func findReachable(
	dir direction,
	start, end *graph.Vertex,
	limit map[*graph.Vertex]struct{},
) map[*graph.Vertex]struct{} {
	inLimit := func(v *graph.Vertex) bool {
		if limit == nil {
			return true
		}
		_, ok := limit[v]
		return ok
	}
	inRange := func(v *graph.Vertex) bool {
		if dir == forwards {
			return v.Timestamp() <= end.Timestamp()
		}
		return v.Timestamp() >= start.Timestamp()
	}
	edgeDirs := []graph.EdgeDirection{graph.OutgoingHorizontal, graph.OutgoingVertical}
	queue := []*graph.Vertex{start}
	if dir == backwards {
		edgeDirs = []graph.EdgeDirection{graph.IncomingHorizontal, graph.IncomingVertical}
		queue = []*graph.Vertex{end}
	}
	if !inLimit(queue[0]) {
		return map[*graph.Vertex]struct{}{}
	}
	ret := make(map[*graph.Vertex]struct{}, len(limit))
	for len(queue) != 0 {
		v := queue[0]
		queue = queue[1:]
		if _, ok := ret[v]; ok {
			continue
		}
		ret[v] = struct{}{}
		for _, edgeDir := range edgeDirs {
			if next := v.Neighbor(edgeDir); next != nil && inRange(next) && inLimit(next) {
				queue = append(queue, next)
			}
		}
	}
	return ret
}

// Compute returns the subgraph of vertices lying on any path from start to
// end.  If end is nil, the last vertex of start's worker is used.  If end is
// unreachable from start, the returned graph is empty.
func (ca *ConnectedAlgorithm[W]) Compute(start, end *graph.Vertex) (out *graph.Graph[W], err error) {
	r := ca.newRun(Connected)
	defer func() {
		r.report(out, err)
	}()
	if err := ca.checkEndpoints(start, end); err != nil {
		return nil, err
	}
	if end == nil {
		startWorker, err := ca.parentOf(start)
		if err != nil {
			return nil, err
		}
		end = ca.graph.Tail(startWorker)
	}
	reachable := findReachable(backwards, start, end, findReachable(forwards, start, end, nil))
	out = graph.New[W]()
	copies := make(map[*graph.Vertex]*graph.Vertex, len(reachable))
	for _, worker := range ca.graph.Workers() {
		for _, v := range ca.graph.Vertices(worker) {
			if _, ok := reachable[v]; !ok {
				continue
			}
			cp := out.CopyVertex(v)
			if err := out.Add(worker, cp); err != nil {
				return nil, err
			}
			copies[v] = cp
		}
	}
	for _, worker := range ca.graph.Workers() {
		for _, v := range ca.graph.Vertices(worker) {
			from, ok := copies[v]
			if !ok {
				continue
			}
			for _, edgeDir := range []graph.EdgeDirection{graph.OutgoingHorizontal, graph.OutgoingVertical} {
				e := v.Edge(edgeDir)
				if e == nil {
					continue
				}
				to, ok := copies[e.To()]
				if !ok {
					continue
				}
				if _, err := out.Link(from, to, e.Type()); err != nil {
					return nil, err
				}
			}
		}
	}
	out.CloseGraph()
	return out, nil
}
