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
	"sync"
	"testing"

	"github.com/ilhamster/critpath/graph"
	tg "github.com/ilhamster/critpath/test_graph"
)

func TestCache(t *testing.T) {
	gb := mustBuild(t, tg.Relay)
	cache := NewCache[string]()
	first, err := cache.Get(gb.Graph(), gb.Vertex("m0"), nil, Unbounded)
	if err != nil {
		t.Fatalf("Get() yielded unexpected error %v", err)
	}
	second, err := cache.Get(gb.Graph(), gb.Vertex("m0"), nil, Unbounded)
	if err != nil {
		t.Fatalf("Get() yielded unexpected error %v", err)
	}
	if first != second {
		t.Errorf("repeated Get() didn't return the cached path")
	}
	bounded, err := cache.Get(gb.Graph(), gb.Vertex("m0"), nil, Bounded)
	if err != nil {
		t.Fatalf("Get() yielded unexpected error %v", err)
	}
	if bounded == first {
		t.Errorf("Get() with a different strategy returned the same path")
	}
	toEnd, err := cache.Get(gb.Graph(), gb.Vertex("m0"), gb.Vertex("m2"), Bounded)
	if err != nil {
		t.Fatalf("Get() yielded unexpected error %v", err)
	}
	if toEnd == bounded {
		t.Errorf("Get() with a different end returned the same path")
	}
	if got := cache.Len(); got != 3 {
		t.Errorf("cache holds %d paths, wanted 3", got)
	}
	if _, err := cache.Get(gb.Graph(), nil, nil, Bounded); err == nil {
		t.Errorf("Get() without a start yielded no error")
	}
}

func TestCacheConcurrentGets(t *testing.T) {
	gb := mustBuild(t, tg.Detour)
	cache := NewCache[string]()
	const n = 16
	paths := make([]*graph.Graph[string], n)
	var wg sync.WaitGroup
	for idx := 0; idx < n; idx++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			path, err := cache.Get(gb.Graph(), gb.Vertex("m0"), nil, Connected)
			if err != nil {
				t.Errorf("Get() yielded unexpected error %v", err)
			}
			paths[idx] = path
		}(idx)
	}
	wg.Wait()
	for idx := 1; idx < n; idx++ {
		if paths[idx] != paths[0] {
			t.Fatalf("concurrent Get() calls returned different paths")
		}
	}
	if got := cache.Len(); got != 1 {
		t.Errorf("cache holds %d paths, wanted 1", got)
	}
}

func TestCacheDoesNotKeepOpenGraphFailures(t *testing.T) {
	gb := tg.NewTestingGraphBuilder(t).
		WithWorker("a", tg.At("a0", 0), tg.Then(graph.Running, "a1", 10))
	cache := NewCache[string]()
	if _, err := cache.Get(gb.Graph(), gb.Vertex("a0"), nil, Bounded); !errors.Is(err, ErrGraphNotClosed) {
		t.Fatalf("Get() on an open graph yielded %v, wanted ErrGraphNotClosed", err)
	}
	if got := cache.Len(); got != 0 {
		t.Errorf("cache holds %d paths, wanted 0", got)
	}
	gb.Build()
	path, err := cache.Get(gb.Graph(), gb.Vertex("a0"), nil, Bounded)
	if err != nil {
		t.Fatalf("Get() yielded unexpected error %v", err)
	}
	if got := path.Size(); got != 2 {
		t.Errorf("path has %d vertices, wanted 2", got)
	}
}

func TestCacheRejectsForeignEndpoints(t *testing.T) {
	gb := mustBuild(t, tg.Wakeup)
	other := mustBuild(t, tg.Unresolved)
	cache := NewCache[string]()
	if _, err := cache.Get(gb.Graph(), gb.Vertex("v0"), nil, Bounded); err != nil {
		t.Fatalf("Get() yielded unexpected error %v", err)
	}
	// m0 and v0 share an id, since each is the first vertex of its graph.
	if _, err := cache.Get(gb.Graph(), other.Vertex("m0"), nil, Bounded); !errors.Is(err, graph.ErrUnregisteredVertex) {
		t.Errorf("Get() from a foreign start yielded %v, wanted ErrUnregisteredVertex", err)
	}
	if _, err := cache.Get(gb.Graph(), gb.Vertex("v0"), other.Vertex("m2"), Bounded); !errors.Is(err, graph.ErrUnregisteredVertex) {
		t.Errorf("Get() to a foreign end yielded %v, wanted ErrUnregisteredVertex", err)
	}
	if got := cache.Len(); got != 1 {
		t.Errorf("cache holds %d paths, wanted 1", got)
	}
}
