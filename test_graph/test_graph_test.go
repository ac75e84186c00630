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

package testgraph

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ilhamster/critpath/graph"
)

func TestCannedGraphs(t *testing.T) {
	for _, test := range []struct {
		description string
		build       func() (*GraphBuilder, error)
		wantStr     string
	}{{
		description: "wakeup",
		build:       Wakeup,
		wantStr: `
w1:
  @0 -running-> @10
  @10 -blocked-> @30 |default| w2@12
  @30
w2:
  @12 -running-> @28
  @28 |default| w1@30`,
	}, {
		description: "unresolved",
		build:       Unresolved,
		wantStr: `
main:
  @0 -running-> @10
  @10 -blocked-> @30
  @30`,
	}, {
		description: "relay",
		build:       Relay,
	}, {
		description: "detour",
		build:       Detour,
	}, {
		description: "late waker",
		build:       LateWaker,
	}} {
		t.Run(test.description, func(t *testing.T) {
			gb, err := test.build()
			if err != nil {
				t.Fatalf("build yielded unexpected error %v", err)
			}
			g := gb.Graph()
			if !g.IsDoneBuilding() {
				t.Errorf("canned graph isn't closed")
			}
			if err := graph.Check(g, true); err != nil {
				t.Errorf("Check() yielded unexpected error %v", err)
			}
			if test.wantStr == "" {
				return
			}
			got := "\n" + TPP.PrettyPrint(g)
			if diff := cmp.Diff(test.wantStr, got); diff != "" {
				t.Errorf("graph was\n%s\ndiff (-want +got) %s", got, diff)
			}
		})
	}
}

func TestBuilderErrors(t *testing.T) {
	for _, test := range []struct {
		description string
		build       func(gb *GraphBuilder) *GraphBuilder
		wantErr     error
	}{{
		description: "duplicate vertex name",
		build: func(gb *GraphBuilder) *GraphBuilder {
			return gb.WithWorker("a", At("a0", 0), At("a0", 1))
		},
	}, {
		description: "unknown vertex",
		build: func(gb *GraphBuilder) *GraphBuilder {
			return gb.WithWorker("a", At("a0", 0)).WithWakeup("a0", "b0")
		},
	}, {
		description: "out of order",
		build: func(gb *GraphBuilder) *GraphBuilder {
			return gb.WithWorker("a", At("a0", 10), Then(graph.Running, "a1", 5))
		},
		wantErr: graph.ErrInvalidOrdering,
	}} {
		t.Run(test.description, func(t *testing.T) {
			var errs []error
			gb := NewGraphBuilderWithErrorHandler(func(err error) {
				errs = append(errs, err)
			})
			test.build(gb)
			if len(errs) != 1 {
				t.Fatalf("builder reported %v, wanted exactly one error", errs)
			}
			if test.wantErr != nil && !errors.Is(errs[0], test.wantErr) {
				t.Errorf("builder reported %v, wanted %v", errs[0], test.wantErr)
			}
		})
	}
}
