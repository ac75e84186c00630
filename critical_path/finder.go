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
	"fmt"
	"strconv"
	"strings"

	"github.com/ilhamster/critpath/graph"
)

// Type specifies how a Finder selects a critical path's endpoints.
type Type uint

const (
	// UnknownType indicates that the critical path type is unknown or
	// unspecified.
	UnknownType Type = iota
	// CustomType is a critical path type in which the user specifies custom
	// start and end positions.
	CustomType
	// WorkerLifetimeType spans a worker's entire timeline, from its first
	// vertex onwards.
	WorkerLifetimeType
)

// TypeData is a TypeEnumerationData specialized to critical path type.
type TypeData = TypeEnumerationData[Type]

// Types specifies a set of critical path types, along with their metadata.
type Types = TypeEnumeration[Type]

// NewTypes creates and returns a new, empty Types instance.
func NewTypes() *Types {
	return NewTypeEnumeration[Type]()
}

// CustomTypeData is a TypeData for custom critical path types.
var CustomTypeData = &TypeData{
	Type:        CustomType,
	Name:        "custom",
	Description: "Custom",
}

// WorkerLifetimeTypeData is a TypeData for worker lifetime critical paths.
var WorkerLifetimeTypeData = &TypeData{
	Type:        WorkerLifetimeType,
	Name:        "worker",
	Description: "Worker start to end",
}

// CommonTypes defines the critical path types supported by Finder.
var CommonTypes = NewTypes().
	With(CustomTypeData.Type, CustomTypeData.Name, CustomTypeData.Description).
	With(WorkerLifetimeTypeData.Type, WorkerLifetimeTypeData.Name, WorkerLifetimeTypeData.Description)

// Position identifies a point on a worker's timeline.  A Position without a
// timestamp refers to the worker's whole timeline.
type Position struct {
	Worker string
	At     int64
	HasAt  bool
}

// ParsePosition parses a position of the form 'worker' or 'worker@ts'.
func ParsePosition(str string) (*Position, error) {
	worker, at, hasAt := strings.Cut(str, "@")
	if worker == "" {
		return nil, fmt.Errorf("position '%s' lacks a worker", str)
	}
	ret := &Position{Worker: worker}
	if hasAt {
		ts, err := strconv.ParseInt(at, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("position '%s' has malformed timestamp: %w", str, err)
		}
		ret.At, ret.HasAt = ts, true
	}
	return ret, nil
}

func (p *Position) String() string {
	if p.HasAt {
		return fmt.Sprintf("%s@%d", p.Worker, p.At)
	}
	return p.Worker
}

// Finder finds a particular critical path of a particular type in a Graph.
// Workers are matched against positions by their default string
// representation.
type Finder struct {
	typeData   *TypeData
	strategy   Strategy
	opts       []Option
	start, end *Position
}

// NewFinder returns a new Finder.  For CustomType, the start position is
// required and the end position optional; for WorkerLifetimeType, the start
// position names the worker and the end position must be empty.
func NewFinder(
	typeData *TypeData,
	startPositionString, endPositionString string,
	strategy Strategy,
	opts ...Option,
) (*Finder, error) {
	ret := &Finder{
		typeData: typeData,
		strategy: strategy,
		opts:     opts,
	}
	var err error
	if startPositionString == "" {
		return nil, fmt.Errorf("critical path type '%s' requires a start position", typeData.Name)
	}
	if ret.start, err = ParsePosition(startPositionString); err != nil {
		return nil, err
	}
	switch typeData.Type {
	case CustomType:
		if endPositionString != "" {
			if ret.end, err = ParsePosition(endPositionString); err != nil {
				return nil, err
			}
		}
	case WorkerLifetimeType:
		if ret.start.HasAt || endPositionString != "" {
			return nil, fmt.Errorf("critical path type '%s' takes only a worker", typeData.Name)
		}
	default:
		return nil, fmt.Errorf("unsupported critical path type '%s'", typeData.Name)
	}
	return ret, nil
}

// Endpoints represents a {start, end} pair of vertices within a graph.  A
// nil End runs the path to the end of Start's timeline.
type Endpoints struct {
	Start, End *graph.Vertex
}

func findWorker[W comparable](g *graph.Graph[W], name string) (W, error) {
	for _, w := range g.Workers() {
		if fmt.Sprint(w) == name {
			return w, nil
		}
	}
	var zero W
	return zero, fmt.Errorf("no worker '%s'", name)
}

// Returns the receiver's endpoints within the provided graph, or an error if
// this is not possible.
func endpoints[W comparable](f *Finder, g *graph.Graph[W]) (*Endpoints, error) {
	locate := func(p *Position, atStart bool) (*graph.Vertex, error) {
		w, err := findWorker(g, p.Worker)
		if err != nil {
			return nil, err
		}
		// Without a timestamp, a start position is the worker's first vertex
		// and an end position is its last.
		var v *graph.Vertex
		switch {
		case p.HasAt:
			v = g.VertexAt(p.At, w)
		case atStart:
			v = g.Head(w)
		default:
			v = g.Tail(w)
		}
		if v == nil {
			return nil, fmt.Errorf("cannot find a vertex at or after position %s", p)
		}
		return v, nil
	}
	start, err := locate(f.start, true)
	if err != nil {
		return nil, err
	}
	ret := &Endpoints{Start: start}
	if f.end != nil {
		if ret.End, err = locate(f.end, false); err != nil {
			return nil, err
		}
	}
	return ret, nil
}

// Find returns the receiver's configured critical path from the specified
// graph.  If the provided cache is non-nil, it is used to fetch the critical
// path.
func Find[W comparable](
	f *Finder,
	g *graph.Graph[W],
	cache *Cache[W],
) (*graph.Graph[W], error) {
	eps, err := endpoints(f, g)
	if err != nil {
		return nil, err
	}
	if cache != nil {
		return cache.Get(g, eps.Start, eps.End, f.strategy, f.opts...)
	}
	alg, err := New(f.strategy, g, f.opts...)
	if err != nil {
		return nil, err
	}
	return alg.Compute(eps.Start, eps.End)
}
