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
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/ilhamster/critpath/graph"
)

type computedPath[W comparable] struct {
	err  error
	path *graph.Graph[W]
}

var errMissingEndpoint = errors.New("requested critical path lacks a start vertex")

// Cache caches computed critical paths to amortize the cost of computing
// expensive ones.  Since computation requires a closed, and therefore
// immutable, input graph, a path computed once stays valid.  Options are not
// part of the cache key.
type Cache[W comparable] struct {
	mu    sync.Mutex
	paths map[string]*computedPath[W]
	group singleflight.Group
}

// NewCache returns a new, empty Cache.
func NewCache[W comparable]() *Cache[W] {
	return &Cache[W]{
		paths: map[string]*computedPath[W]{},
	}
}

func cacheKey[W comparable](g *graph.Graph[W], start, end *graph.Vertex, strategy Strategy) string {
	endID := "-"
	if end != nil {
		endID = fmt.Sprintf("%d", end.ID())
	}
	return fmt.Sprintf("%s:%d:%s:%s", g.ID(), start.ID(), endID, strategy)
}

func (c *Cache[W]) lookup(key string) (*computedPath[W], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp, ok := c.paths[key]
	return cp, ok
}

// Get returns the critical path between the specified vertices of g,
// computed with the specified strategy, computing and caching it if
// necessary.  Concurrent requests for the same path share one computation.
// Get is thread-safe.
func (c *Cache[W]) Get(
	g *graph.Graph[W],
	start, end *graph.Vertex,
	strategy Strategy,
	opts ...Option,
) (*graph.Graph[W], error) {
	if start == nil {
		return nil, errMissingEndpoint
	}
	// Vertex ids are only unique within a graph.
	if !g.Contains(start) {
		return nil, fmt.Errorf("%w: start vertex %s", graph.ErrUnregisteredVertex, start)
	}
	if end != nil && !g.Contains(end) {
		return nil, fmt.Errorf("%w: end vertex %s", graph.ErrUnregisteredVertex, end)
	}
	key := cacheKey(g, start, end, strategy)
	if cp, ok := c.lookup(key); ok {
		return cp.path, cp.err
	}
	v, _, _ := c.group.Do(key, func() (any, error) {
		if cp, ok := c.lookup(key); ok {
			return cp, nil
		}
		cp := &computedPath[W]{}
		var alg Algorithm[W]
		alg, cp.err = New(strategy, g, opts...)
		if cp.err == nil {
			cp.path, cp.err = alg.Compute(start, end)
		}
		// Graphs that aren't closed yet may succeed later.
		if !errors.Is(cp.err, ErrGraphNotClosed) {
			c.mu.Lock()
			c.paths[key] = cp
			c.mu.Unlock()
		}
		return cp, nil
	})
	cp := v.(*computedPath[W])
	return cp.path, cp.err
}

// Len returns the number of cached computations.
func (c *Cache[W]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.paths)
}
