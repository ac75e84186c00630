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

package description

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ilhamster/critpath/graph"
)

const wakeupYAML = `
workers: [w1, w2]
start: v0
vertices:
  - {name: v0, worker: w1, ts: 0}
  - {name: v1, worker: w1, ts: 10}
  - {name: v2, worker: w1, ts: 30}
  - {name: u0, worker: w2, ts: 12}
  - {name: u1, worker: w2, ts: 28}
edges:
  - {from: v0, to: v1, type: running}
  - {from: v1, to: v2, type: blocked}
  - {from: u0, to: u1, type: running}
  - {from: v1, to: u0}
  - {from: u1, to: v2}
`

func TestBuild(t *testing.T) {
	desc, err := Parse([]byte(wakeupYAML))
	require.NoError(t, err)
	g, err := desc.Build()
	require.NoError(t, err)
	require.True(t, g.IsDoneBuilding(), "built graph should be closed")
	require.Equal(t, []string{"w1", "w2"}, g.Workers())

	want := `w1:
  @0 -running-> @10
  @10 -blocked-> @30 |default| w2@12
  @30
w2:
  @12 -running-> @28
  @28 |default| w1@30`
	require.Equal(t, want, graph.NewPrettyPrinter[string]().PrettyPrint(g.Graph))

	start, end := g.Endpoints()
	v0, err := g.Vertex("v0")
	require.NoError(t, err)
	require.Same(t, v0, start)
	require.Nil(t, end)
	_, err = g.Vertex("v9")
	require.Error(t, err)
}

func TestBuildInfersWorkers(t *testing.T) {
	desc, err := Parse([]byte(`
vertices:
  - {name: b0, worker: b, ts: 5}
  - {name: a0, worker: a, ts: 0}
  - {name: b1, worker: b, ts: 9}
edges:
  - {from: b0, to: b1, type: preempted}
`))
	require.NoError(t, err)
	g, err := desc.Build()
	require.NoError(t, err)
	require.Equal(t, []string{"b", "a"}, g.Workers())
	b0, err := g.Vertex("b0")
	require.NoError(t, err)
	require.Equal(t, graph.Preempted, b0.Edge(graph.OutgoingHorizontal).Type())
}

func TestParseErrors(t *testing.T) {
	for _, test := range []struct {
		description string
		yaml        string
		wantErr     string
	}{{
		description: "empty",
		yaml:        "  \n",
		wantErr:     "payload is empty",
	}, {
		description: "unknown field",
		yaml:        "vertices: []\ncolor: red\n",
		wantErr:     "field color not found",
	}, {
		description: "duplicate vertex",
		yaml: `
vertices:
  - {name: a, worker: w, ts: 0}
  - {name: a, worker: w, ts: 1}
`,
		wantErr: "vertex 'a' is declared twice",
	}, {
		description: "undeclared worker",
		yaml: `
workers: [w]
vertices:
  - {name: a, worker: x, ts: 0}
`,
		wantErr: "undeclared worker 'x'",
	}, {
		description: "unknown vertex in edge",
		yaml: `
vertices:
  - {name: a, worker: w, ts: 0}
edges:
  - {from: a, to: b}
`,
		wantErr: "references unknown vertex 'b'",
	}, {
		description: "unknown edge type",
		yaml: `
vertices:
  - {name: a, worker: w, ts: 0}
  - {name: b, worker: w, ts: 1}
edges:
  - {from: a, to: b, type: sleeping}
`,
		wantErr: "unrecognized edge type 'sleeping'",
	}, {
		description: "unknown endpoint",
		yaml: `
start: z
vertices:
  - {name: a, worker: w, ts: 0}
`,
		wantErr: "endpoint 'z' is not a declared vertex",
	}} {
		t.Run(test.description, func(t *testing.T) {
			_, err := Parse([]byte(test.yaml))
			require.Error(t, err)
			require.Contains(t, err.Error(), test.wantErr)
		})
	}
}

func TestBuildErrors(t *testing.T) {
	for _, test := range []struct {
		description string
		yaml        string
		wantErr     error
	}{{
		description: "edge back in time",
		yaml: `
vertices:
  - {name: a, worker: w, ts: 10}
  - {name: b, worker: x, ts: 0}
edges:
  - {from: a, to: b}
`,
		wantErr: graph.ErrInvalidOrdering,
	}, {
		description: "horizontal edge skipping a vertex",
		yaml: `
vertices:
  - {name: a, worker: w, ts: 0}
  - {name: b, worker: w, ts: 5}
  - {name: c, worker: w, ts: 9}
edges:
  - {from: a, to: c, type: running}
`,
	}} {
		t.Run(test.description, func(t *testing.T) {
			desc, err := Parse([]byte(test.yaml))
			require.NoError(t, err)
			_, err = desc.Build()
			require.Error(t, err)
			if test.wantErr != nil {
				require.ErrorIs(t, err, test.wantErr)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wakeup.yaml")
	require.NoError(t, os.WriteFile(path, []byte(wakeupYAML), 0o644))
	desc, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, desc.Vertices, 5)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	desc, err = LoadReader(strings.NewReader(wakeupYAML))
	require.NoError(t, err)
	require.Equal(t, "v0", desc.Start)
}
