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

// Package graph defines a timed dependency graph of concurrent workers.
// Each worker (a thread, a CPU, a process...) owns an ordered sequence of
// Vertices linked by 'horizontal' Edges; 'vertical' Edges link vertices of
// different workers, representing causal handoffs such as wakeups or IPC.
//
// A Graph is built in a single phase, usually by a producer that decodes a
// trace, and is then closed.  Once closed it is immutable, and may be read
// concurrently by any number of consumers.
package graph

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// Graph maps opaque workers to their ordered vertex sequences.
type Graph[W comparable] struct {
	id        uuid.UUID
	arena     *arena
	workers   []W
	sequences map[W][]*Vertex
	parents   map[*Vertex]W

	closeOnce sync.Once
	done      chan struct{}
}

// New returns a new, empty Graph.
func New[W comparable]() *Graph[W] {
	return &Graph[W]{
		id:        uuid.New(),
		arena:     &arena{},
		sequences: map[W][]*Vertex{},
		parents:   map[*Vertex]W{},
		done:      make(chan struct{}),
	}
}

// ID returns the graph's unique identity.
func (g *Graph[W]) ID() uuid.UUID {
	return g.id
}

// NewVertex mints a new, unregistered vertex at the specified timestamp.
func (g *Graph[W]) NewVertex(ts int64) *Vertex {
	return g.arena.newVertex(ts)
}

// CopyVertex mints a shallow copy of the provided vertex, which may belong
// to any graph: the copy has the same timestamp but no edges.
func (g *Graph[W]) CopyVertex(v *Vertex) *Vertex {
	return g.arena.newVertex(v.ts)
}

// Owns returns true if the provided vertex was minted by the receiver.
func (g *Graph[W]) Owns(v *Vertex) bool {
	return v != nil && v.arena == g.arena
}

// Contains returns true if the provided vertex is registered to a worker.
func (g *Graph[W]) Contains(v *Vertex) bool {
	_, ok := g.parents[v]
	return ok
}

// ParentOf returns the worker owning the provided vertex.
func (g *Graph[W]) ParentOf(v *Vertex) (W, bool) {
	w, ok := g.parents[v]
	return w, ok
}

// Workers returns the graph's workers, in the order they were first seen.
func (g *Graph[W]) Workers() []W {
	return slices.Clone(g.workers)
}

// Vertices returns the provided worker's vertices in sequence order.
func (g *Graph[W]) Vertices(worker W) []*Vertex {
	return slices.Clone(g.sequences[worker])
}

// Size returns the number of registered vertices.
func (g *Graph[W]) Size() int {
	return len(g.parents)
}

func (g *Graph[W]) checkWritable() error {
	if g.IsDoneBuilding() {
		return ErrGraphClosed
	}
	return nil
}

func (g *Graph[W]) checkAddable(v *Vertex) error {
	if err := g.checkWritable(); err != nil {
		return err
	}
	if !g.Owns(v) {
		return fmt.Errorf("%w: %s", ErrForeignVertex, v)
	}
	if g.Contains(v) {
		return fmt.Errorf("%w: %s", ErrVertexRegistered, v)
	}
	return nil
}

func (g *Graph[W]) register(worker W, v *Vertex) {
	seq, ok := g.sequences[worker]
	if !ok {
		g.workers = append(g.workers, worker)
	}
	g.sequences[worker] = append(seq, v)
	g.parents[v] = worker
}

// Add appends the provided vertex to the worker's sequence without linking
// it to the worker's previous tail.
func (g *Graph[W]) Add(worker W, v *Vertex) error {
	if err := g.checkAddable(v); err != nil {
		return err
	}
	g.register(worker, v)
	return nil
}

// Append appends the provided vertex to the worker's sequence.  If the
// worker already has a tail, the tail is linked horizontally to the new
// vertex with the specified type, and the new edge is returned; otherwise
// Append returns a nil edge.
func (g *Graph[W]) Append(worker W, v *Vertex, edgeType EdgeType) (*Edge, error) {
	if err := g.checkAddable(v); err != nil {
		return nil, err
	}
	var e *Edge
	if tail := g.Tail(worker); tail != nil {
		var err error
		if e, err = tail.LinkHorizontal(v); err != nil {
			return nil, err
		}
		e.edgeType, e.typed = edgeType, true
	}
	g.register(worker, v)
	return e, nil
}

// Replace swaps the worker's tail, if any, for the provided vertex without
// linking it.
func (g *Graph[W]) Replace(worker W, v *Vertex) error {
	if err := g.checkAddable(v); err != nil {
		return err
	}
	if _, err := g.RemoveTail(worker); err != nil {
		return err
	}
	g.register(worker, v)
	return nil
}

// Link links from to to with the specified type.  from must be registered.
// If to is unregistered, it is appended to from's worker and linked
// horizontally; if it belongs to from's worker it is linked horizontally;
// otherwise it is linked vertically.
func (g *Graph[W]) Link(from, to *Vertex, edgeType EdgeType) (*Edge, error) {
	if err := g.checkWritable(); err != nil {
		return nil, err
	}
	fromWorker, ok := g.parents[from]
	if !ok {
		return nil, fmt.Errorf("%w: can't link from %s", ErrUnregisteredVertex, from)
	}
	toWorker, ok := g.parents[to]
	if !ok {
		if err := g.checkAddable(to); err != nil {
			return nil, err
		}
		e, err := from.LinkHorizontal(to)
		if err != nil {
			return nil, err
		}
		e.edgeType, e.typed = edgeType, true
		g.register(fromWorker, to)
		return e, nil
	}
	var e *Edge
	var err error
	if fromWorker == toWorker {
		e, err = from.LinkHorizontal(to)
	} else {
		e, err = from.LinkVertical(to)
	}
	if err != nil {
		return nil, err
	}
	e.edgeType, e.typed = edgeType, true
	return e, nil
}

// Tail returns the last vertex of the worker's sequence, or nil.
func (g *Graph[W]) Tail(worker W) *Vertex {
	seq := g.sequences[worker]
	if len(seq) == 0 {
		return nil
	}
	return seq[len(seq)-1]
}

// Head returns the first vertex of the worker's sequence, or nil.
func (g *Graph[W]) Head(worker W) *Vertex {
	seq := g.sequences[worker]
	if len(seq) == 0 {
		return nil
	}
	return seq[0]
}

// RemoveTail removes and returns the last vertex of the worker's sequence,
// or nil if the worker has none.  The removed vertex's edges are left in
// place.
func (g *Graph[W]) RemoveTail(worker W) (*Vertex, error) {
	if err := g.checkWritable(); err != nil {
		return nil, err
	}
	seq := g.sequences[worker]
	if len(seq) == 0 {
		return nil, nil
	}
	tail := seq[len(seq)-1]
	g.sequences[worker] = seq[:len(seq)-1]
	delete(g.parents, tail)
	return tail, nil
}

// HeadOf returns the first vertex of the horizontal run containing v: the
// earliest vertex reachable from v along incoming horizontal edges.  This
// need not be its worker's Head.
func (g *Graph[W]) HeadOf(v *Vertex) *Vertex {
	cursor := v
	for cursor.HasNeighbor(IncomingHorizontal) {
		cursor = cursor.Neighbor(IncomingHorizontal)
	}
	return cursor
}

// VertexAt returns the first vertex of the worker's sequence with a
// timestamp at or after ts, or nil.
func (g *Graph[W]) VertexAt(ts int64, worker W) *Vertex {
	for _, v := range g.sequences[worker] {
		if v.ts >= ts {
			return v
		}
	}
	return nil
}

// CloseGraph marks the graph done building.  It is idempotent, and a closed
// graph can't be reopened.
func (g *Graph[W]) CloseGraph() {
	g.closeOnce.Do(func() {
		close(g.done)
	})
}

// IsDoneBuilding returns true if the graph has been closed.
func (g *Graph[W]) IsDoneBuilding() bool {
	select {
	case <-g.done:
		return true
	default:
		return false
	}
}

// WaitDone blocks until the graph is closed or the provided context is
// done, returning the context's error in the latter case.
func (g *Graph[W]) WaitDone(ctx context.Context) error {
	select {
	case <-g.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
