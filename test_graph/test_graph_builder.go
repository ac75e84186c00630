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

// Package testgraph provides tools for fluently constructing 'interesting'
// dependency graphs for testing.
package testgraph

import (
	"fmt"
	"testing"

	"github.com/ilhamster/critpath/graph"
)

// GraphBuilder facilitates fluently building test graphs in tests.  Workers
// and vertices are identified by name.
type GraphBuilder struct {
	err      func(error)
	graph    *graph.Graph[string]
	vertices map[string]*graph.Vertex
}

// NewTestingGraphBuilder returns a new, empty GraphBuilder.  Any errors
// encountered in graph construction yield a t.Fatal() in the provided
// testing.TB.
func NewTestingGraphBuilder(t testing.TB) *GraphBuilder {
	return NewGraphBuilderWithErrorHandler(func(err error) {
		t.Helper()
		t.Fatal(err.Error())
	})
}

// NewGraphBuilderWithErrorHandler returns a new, empty GraphBuilder.  Any
// errors encountered in graph construction are passed to the provided error
// handler.
func NewGraphBuilderWithErrorHandler(err func(error)) *GraphBuilder {
	return &GraphBuilder{
		err:      err,
		graph:    graph.New[string](),
		vertices: map[string]*graph.Vertex{},
	}
}

// StepFn describes a function adding a named vertex to a worker.
type StepFn func(gb *GraphBuilder, worker string) error

func (gb *GraphBuilder) newVertex(name string, ts int64) (*graph.Vertex, error) {
	if _, ok := gb.vertices[name]; ok {
		return nil, fmt.Errorf("vertex '%s' is defined twice", name)
	}
	v := gb.graph.NewVertex(ts)
	gb.vertices[name] = v
	return v, nil
}

// At adds the named vertex at ts, unlinked from its predecessor.
func At(name string, ts int64) StepFn {
	return func(gb *GraphBuilder, worker string) error {
		v, err := gb.newVertex(name, ts)
		if err != nil {
			return err
		}
		return gb.graph.Add(worker, v)
	}
}

// Then adds the named vertex at ts, linked from its predecessor by an edge
// of the provided type.
func Then(edgeType graph.EdgeType, name string, ts int64) StepFn {
	return func(gb *GraphBuilder, worker string) error {
		v, err := gb.newVertex(name, ts)
		if err != nil {
			return err
		}
		_, err = gb.graph.Append(worker, v, edgeType)
		return err
	}
}

// WithWorker adds the provided vertices, in order, to the named worker,
// returning the receiver for fluent invocation.
func (gb *GraphBuilder) WithWorker(worker string, steps ...StepFn) *GraphBuilder {
	for _, step := range steps {
		if err := step(gb, worker); err != nil {
			gb.err(fmt.Errorf("worker %s: %w", worker, err))
		}
	}
	return gb
}

// WithLink links the named vertices with an edge of the provided type,
// returning the receiver for fluent invocation.  The edge is vertical if the
// vertices belong to different workers.
func (gb *GraphBuilder) WithLink(from, to string, edgeType graph.EdgeType) *GraphBuilder {
	fromV, toV := gb.Vertex(from), gb.Vertex(to)
	if fromV == nil || toV == nil {
		return gb
	}
	if _, err := gb.graph.Link(fromV, toV, edgeType); err != nil {
		gb.err(fmt.Errorf("link %s -> %s: %w", from, to, err))
	}
	return gb
}

// WithWakeup adds an untyped vertical edge from one named vertex to another.
func (gb *GraphBuilder) WithWakeup(from, to string) *GraphBuilder {
	return gb.WithLink(from, to, graph.Default)
}

// Vertex returns the named vertex, or nil (reporting an error) if there is
// none.
func (gb *GraphBuilder) Vertex(name string) *graph.Vertex {
	v, ok := gb.vertices[name]
	if !ok {
		gb.err(fmt.Errorf("no vertex '%s'", name))
		return nil
	}
	return v
}

// Graph returns the graph under construction.
func (gb *GraphBuilder) Graph() *graph.Graph[string] {
	return gb.graph
}

// Build closes and returns the assembled graph.
func (gb *GraphBuilder) Build() *graph.Graph[string] {
	gb.graph.CloseGraph()
	return gb.graph
}
