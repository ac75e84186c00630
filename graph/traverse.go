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

// Visitor receives the vertices and edges encountered by ScanLineTraverse.
type Visitor interface {
	VisitVertex(v *Vertex)
	VisitEdge(e *Edge, horizontal bool)
}

// VisitorFuncs adapts a pair of functions to a Visitor.  Either may be nil.
type VisitorFuncs struct {
	Vertex func(v *Vertex)
	Edge   func(e *Edge, horizontal bool)
}

// VisitVertex implements Visitor.
func (vf VisitorFuncs) VisitVertex(v *Vertex) {
	if vf.Vertex != nil {
		vf.Vertex(v)
	}
}

// VisitEdge implements Visitor.
func (vf VisitorFuncs) VisitEdge(e *Edge, horizontal bool) {
	if vf.Edge != nil {
		vf.Edge(e, horizontal)
	}
}

// ScanLineTraverse visits everything reachable from the head of start's
// horizontal run.  Each horizontal run is scanned in order; the targets of
// outgoing vertical edges are stacked and scanned once the current run
// ends.  Each vertex, and so each edge, is visited at most once.
func (g *Graph[W]) ScanLineTraverse(start *Vertex, visitor Visitor) {
	if start == nil {
		return
	}
	visited := map[*Vertex]struct{}{}
	stack := []*Vertex{g.HeadOf(start)}
	for len(stack) > 0 {
		cursor := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for cursor != nil {
			if _, ok := visited[cursor]; ok {
				break
			}
			visited[cursor] = struct{}{}
			visitor.VisitVertex(cursor)
			if e := cursor.Edge(OutgoingVertical); e != nil {
				visitor.VisitEdge(e, false)
				stack = append(stack, e.to)
			}
			var next *Vertex
			if e := cursor.Edge(OutgoingHorizontal); e != nil {
				visitor.VisitEdge(e, true)
				next = e.to
			}
			cursor = next
		}
	}
}
