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

// arena mints the vertices of a single graph.  Vertex IDs are unique within
// an arena, and a vertex's arena identifies the graph it may belong to.
type arena struct {
	nextID uint64
}

func (a *arena) newVertex(ts int64) *Vertex {
	ret := &Vertex{
		id:    a.nextID,
		ts:    ts,
		arena: a,
	}
	a.nextID++
	return ret
}

// Vertex is a point in time on a single worker's timeline.  Its timestamp
// never changes; its four edge slots are populated by linking.
type Vertex struct {
	id    uint64
	ts    int64
	arena *arena
	edges [numEdgeDirections]*Edge
}

// ID returns the vertex's creation-order identifier within its graph.
func (v *Vertex) ID() uint64 {
	return v.id
}

// Timestamp returns the vertex's timestamp, in nanoseconds.
func (v *Vertex) Timestamp() int64 {
	return v.ts
}

func (v *Vertex) String() string {
	if v == nil {
		return "<nil>"
	}
	return fmt.Sprintf("#%d@%d", v.id, v.ts)
}

// Compare orders vertices by timestamp, breaking ties by creation order.
func (v *Vertex) Compare(other *Vertex) int {
	switch {
	case v.ts < other.ts:
		return -1
	case v.ts > other.ts:
		return 1
	case v.id < other.id:
		return -1
	case v.id > other.id:
		return 1
	}
	return 0
}

// Edge returns the edge in the specified slot, or nil.
func (v *Vertex) Edge(dir EdgeDirection) *Edge {
	return v.edges[dir]
}

// HasNeighbor returns true if the specified slot holds an edge.
func (v *Vertex) HasNeighbor(dir EdgeDirection) bool {
	return v.edges[dir] != nil
}

// Neighbor returns the vertex at the far end of the edge in the specified
// slot, or nil.
func (v *Vertex) Neighbor(dir EdgeDirection) *Vertex {
	e := v.edges[dir]
	if e == nil {
		return nil
	}
	if dir.IsOutgoing() {
		return e.to
	}
	return e.from
}

func (v *Vertex) link(other *Vertex, horizontal bool) (*Edge, error) {
	if other.ts < v.ts {
		return nil, fmt.Errorf("%w: can't link %s to earlier vertex %s", ErrInvalidOrdering, v, other)
	}
	e := &Edge{
		from:       v,
		to:         other,
		horizontal: horizontal,
	}
	if horizontal {
		v.edges[OutgoingHorizontal] = e
		other.edges[IncomingHorizontal] = e
	} else {
		v.edges[OutgoingVertical] = e
		other.edges[IncomingVertical] = e
	}
	return e, nil
}

// LinkHorizontal links the receiver to a later vertex on the same worker,
// replacing any edges already in the affected slots.
func (v *Vertex) LinkHorizontal(other *Vertex) (*Edge, error) {
	return v.link(other, true)
}

// LinkVertical links the receiver to a later vertex on another worker,
// replacing any edges already in the affected slots.
func (v *Vertex) LinkVertical(other *Vertex) (*Edge, error) {
	return v.link(other, false)
}

// Detach removes the edge in the specified slot from both of its endpoints,
// returning it (or nil if the slot was empty).
func (v *Vertex) Detach(dir EdgeDirection) *Edge {
	e := v.edges[dir]
	if e == nil {
		return nil
	}
	outDir, inDir := OutgoingVertical, IncomingVertical
	if e.horizontal {
		outDir, inDir = OutgoingHorizontal, IncomingHorizontal
	}
	if e.from.edges[outDir] == e {
		e.from.edges[outDir] = nil
	}
	if e.to.edges[inDir] == e {
		e.to.edges[inDir] = nil
	}
	return e
}

// Edge is a directed, typed connection between two vertices.  Edges are
// created by linking vertices, and do not own their endpoints.
type Edge struct {
	from, to   *Vertex
	edgeType   EdgeType
	typed      bool
	horizontal bool
}

// From returns the edge's origin.
func (e *Edge) From() *Vertex {
	return e.from
}

// To returns the edge's destination.
func (e *Edge) To() *Vertex {
	return e.to
}

// Type returns the edge's type.
func (e *Edge) Type() EdgeType {
	return e.edgeType
}

// Horizontal returns true if the edge connects two vertices of one worker.
func (e *Edge) Horizontal() bool {
	return e.horizontal
}

// Duration returns the edge's duration in nanoseconds.
func (e *Edge) Duration() int64 {
	return e.to.ts - e.from.ts
}

// SetType sets the edge's type.  An edge's type may be set only once.
func (e *Edge) SetType(edgeType EdgeType) error {
	if e.typed {
		return fmt.Errorf("%w: %s", ErrEdgeTypeSet, e)
	}
	e.edgeType, e.typed = edgeType, true
	return nil
}

func (e *Edge) String() string {
	if e == nil {
		return "<nil>"
	}
	arrow := "|"
	if e.horizontal {
		arrow = "-"
	}
	return fmt.Sprintf("%s %s[%s]-> %s", e.from, arrow, e.edgeType, e.to)
}
