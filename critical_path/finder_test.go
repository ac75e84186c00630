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
	"testing"

	"github.com/google/go-cmp/cmp"

	tg "github.com/ilhamster/critpath/test_graph"
)

func TestFinder(t *testing.T) {
	gb := mustBuild(t, tg.Wakeup)
	cache := NewCache[string]()
	for _, test := range []struct {
		description string
		finderFn    func() (*Finder, error)
		wantPathStr string
	}{{
		description: "worker lifetime",
		finderFn: func() (*Finder, error) {
			return NewFinder(WorkerLifetimeTypeData, "w1", "", Bounded)
		},
		wantPathStr: `
w1:
  @0 -running-> @10
  @10 |default| w2@12
  @30
w2:
  @12 -running-> @28
  @28 |default| w1@30`,
	}, {
		description: "custom start, rounded up to the next vertex",
		finderFn: func() (*Finder, error) {
			return NewFinder(CustomTypeData, "w1@1", "", Unbounded)
		},
		wantPathStr: `
w1:
  @10 |default| w2@12
  @30
w2:
  @12 -running-> @28
  @28 |default| w1@30`,
	}, {
		description: "custom start and end",
		finderFn: func() (*Finder, error) {
			return NewFinder(CustomTypeData, "w1", "w1@30", Connected)
		},
		wantPathStr: `
w1:
  @0 -running-> @10
  @10 -blocked-> @30 |default| w2@12
  @30
w2:
  @12 -running-> @28
  @28 |default| w1@30`,
	}, {
		description: "custom worker-only end is its last vertex",
		finderFn: func() (*Finder, error) {
			return NewFinder(CustomTypeData, "w1", "w1", Bounded)
		},
		wantPathStr: `
w1:
  @0 -running-> @10
  @10`,
	}} {
		t.Run(test.description, func(t *testing.T) {
			f, err := test.finderFn()
			if err != nil {
				t.Fatalf("NewFinder() yielded unexpected error %v", err)
			}
			for _, c := range []*Cache[string]{nil, cache} {
				path, err := Find(f, gb.Graph(), c)
				if err != nil {
					t.Fatalf("Find() yielded unexpected error %v", err)
				}
				gotPathStr := "\n" + tg.TPP.PrettyPrint(path)
				if diff := cmp.Diff(test.wantPathStr, gotPathStr); diff != "" {
					t.Errorf("got path\n%s\ndiff (-want +got) %s", gotPathStr, diff)
				}
			}
		})
	}
}

func TestFinderErrors(t *testing.T) {
	gb := mustBuild(t, tg.Wakeup)
	for _, test := range []struct {
		description             string
		typeData                *TypeData
		startPos, endPos        string
		wantNewErr, wantFindErr bool
	}{{
		description: "missing start",
		typeData:    CustomTypeData,
		wantNewErr:  true,
	}, {
		description: "malformed timestamp",
		typeData:    CustomTypeData,
		startPos:    "w1@soon",
		wantNewErr:  true,
	}, {
		description: "missing worker",
		typeData:    CustomTypeData,
		startPos:    "@10",
		wantNewErr:  true,
	}, {
		description: "lifetime with a timestamp",
		typeData:    WorkerLifetimeTypeData,
		startPos:    "w1@0",
		wantNewErr:  true,
	}, {
		description: "unsupported type",
		typeData:    &TypeData{Type: UnknownType, Name: "unknown"},
		startPos:    "w1",
		wantNewErr:  true,
	}, {
		description: "unknown worker",
		typeData:    CustomTypeData,
		startPos:    "w3@0",
		wantFindErr: true,
	}, {
		description: "nothing after start time",
		typeData:    CustomTypeData,
		startPos:    "w2@29",
		wantFindErr: true,
	}, {
		description: "nothing after end time",
		typeData:    CustomTypeData,
		startPos:    "w1@0",
		endPos:      "w1@31",
		wantFindErr: true,
	}} {
		t.Run(test.description, func(t *testing.T) {
			f, err := NewFinder(test.typeData, test.startPos, test.endPos, Bounded)
			if (err != nil) != test.wantNewErr {
				t.Fatalf("NewFinder() yielded error %v, wanted error: %t", err, test.wantNewErr)
			}
			if err != nil {
				return
			}
			_, err = Find(f, gb.Graph(), nil)
			if (err != nil) != test.wantFindErr {
				t.Errorf("Find() yielded error %v, wanted error: %t", err, test.wantFindErr)
			}
		})
	}
}
