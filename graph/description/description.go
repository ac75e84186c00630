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

// Package description loads dependency graphs from YAML descriptions:
//
//	workers: [w1, w2]
//	start: v0
//	vertices:
//	  - {name: v0, worker: w1, ts: 0}
//	  - {name: v1, worker: w1, ts: 10}
//	  - {name: u0, worker: w2, ts: 12}
//	edges:
//	  - {from: v0, to: v1, type: running}
//	  - {from: v1, to: u0}
//
// Vertices are added to their workers in the order listed.  Edges between
// vertices of one worker are horizontal, and others vertical; an edge with no
// type is untyped ('default').  The workers list is optional, and if present
// restricts and orders the graph's workers.
package description

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ilhamster/critpath/graph"
)

// Vertex describes a single named vertex.
type Vertex struct {
	Name   string `yaml:"name"`
	Worker string `yaml:"worker"`
	TS     int64  `yaml:"ts"`
}

// Edge describes an edge between two named vertices.
type Edge struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
	Type string `yaml:"type,omitempty"`
}

// Description describes a dependency graph, and optionally the default
// endpoints of critical paths through it.
type Description struct {
	Workers  []string `yaml:"workers,omitempty"`
	Start    string   `yaml:"start,omitempty"`
	End      string   `yaml:"end,omitempty"`
	Vertices []Vertex `yaml:"vertices"`
	Edges    []Edge   `yaml:"edges,omitempty"`
}

// Parse decodes a graph description from YAML bytes.  Unknown fields are
// rejected.
func Parse(data []byte) (*Description, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("description: payload is empty")
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	desc := &Description{}
	if err := dec.Decode(desc); err != nil {
		return nil, fmt.Errorf("description: decode: %w", err)
	}
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	return desc, nil
}

// LoadReader reads a graph description from an io.Reader.
func LoadReader(r io.Reader) (*Description, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("description: read: %w", err)
	}
	return Parse(content)
}

// LoadFile reads a graph description from the provided path.
func LoadFile(path string) (*Description, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("description: read %s: %w", path, err)
	}
	desc, err := Parse(content)
	if err != nil {
		return nil, fmt.Errorf("description: %s: %w", path, err)
	}
	return desc, nil
}

// Validate checks the description for structural errors: missing or
// duplicate names, references to undeclared workers or vertices, and unknown
// edge types.  Ordering errors are only detected by Build.
func (d *Description) Validate() error {
	workers := map[string]struct{}{}
	for _, w := range d.Workers {
		if w == "" {
			return fmt.Errorf("description: empty worker name")
		}
		if _, ok := workers[w]; ok {
			return fmt.Errorf("description: worker '%s' is declared twice", w)
		}
		workers[w] = struct{}{}
	}
	vertices := map[string]struct{}{}
	for idx, v := range d.Vertices {
		if v.Name == "" || v.Worker == "" {
			return fmt.Errorf("description: vertex %d lacks a name or worker", idx)
		}
		if _, ok := vertices[v.Name]; ok {
			return fmt.Errorf("description: vertex '%s' is declared twice", v.Name)
		}
		if _, ok := workers[v.Worker]; len(d.Workers) > 0 && !ok {
			return fmt.Errorf("description: vertex '%s' has undeclared worker '%s'", v.Name, v.Worker)
		}
		vertices[v.Name] = struct{}{}
	}
	for idx, e := range d.Edges {
		for _, name := range []string{e.From, e.To} {
			if _, ok := vertices[name]; !ok {
				return fmt.Errorf("description: edge %d (%s -> %s) references unknown vertex '%s'", idx, e.From, e.To, name)
			}
		}
		if e.Type != "" {
			if _, err := graph.ParseEdgeType(e.Type); err != nil {
				return fmt.Errorf("description: edge %d (%s -> %s): %w", idx, e.From, e.To, err)
			}
		}
	}
	for _, name := range []string{d.Start, d.End} {
		if _, ok := vertices[name]; name != "" && !ok {
			return fmt.Errorf("description: endpoint '%s' is not a declared vertex", name)
		}
	}
	return nil
}

// Graph is a graph built from a Description, with its named vertices.
type Graph struct {
	*graph.Graph[string]
	vertices map[string]*graph.Vertex
	desc     *Description
}

// Vertex returns the named vertex.
func (g *Graph) Vertex(name string) (*graph.Vertex, error) {
	v, ok := g.vertices[name]
	if !ok {
		return nil, fmt.Errorf("description: no vertex '%s'", name)
	}
	return v, nil
}

// Endpoints returns the description's default start and end vertices.
// Either may be nil if the description doesn't name it.
func (g *Graph) Endpoints() (start, end *graph.Vertex) {
	return g.vertices[g.desc.Start], g.vertices[g.desc.End]
}

// Build validates the description, then builds, checks, and closes the graph
// it describes.
func (d *Description) Build() (*Graph, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	ret := &Graph{
		Graph:    graph.New[string](),
		vertices: make(map[string]*graph.Vertex, len(d.Vertices)),
		desc:     d,
	}
	byWorker := map[string][]Vertex{}
	workers := d.Workers
	for _, v := range d.Vertices {
		if _, ok := byWorker[v.Worker]; !ok && len(d.Workers) == 0 {
			workers = append(workers, v.Worker)
		}
		byWorker[v.Worker] = append(byWorker[v.Worker], v)
	}
	for _, w := range workers {
		for _, v := range byWorker[w] {
			gv := ret.NewVertex(v.TS)
			if err := ret.Add(w, gv); err != nil {
				return nil, fmt.Errorf("description: vertex '%s': %w", v.Name, err)
			}
			ret.vertices[v.Name] = gv
		}
	}
	for idx, e := range d.Edges {
		edgeType := graph.Default
		if e.Type != "" {
			edgeType, _ = graph.ParseEdgeType(e.Type)
		}
		if _, err := ret.Link(ret.vertices[e.From], ret.vertices[e.To], edgeType); err != nil {
			return nil, fmt.Errorf("description: edge %d (%s -> %s): %w", idx, e.From, e.To, err)
		}
	}
	if err := graph.Check(ret.Graph, false); err != nil {
		return nil, fmt.Errorf("description: inconsistent graph: %w", err)
	}
	ret.CloseGraph()
	return ret, nil
}
