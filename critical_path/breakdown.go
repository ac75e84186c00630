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
	"strings"

	"github.com/ilhamster/critpath/graph"
)

// Breakdown summarizes where the time along a critical path went: the total
// duration of its edges, by edge type and by the worker each edge leaves.
type Breakdown[W comparable] struct {
	workers  []W
	byType   map[graph.EdgeType]int64
	byWorker map[W]map[graph.EdgeType]int64
}

// Summarize returns the Breakdown of the provided path.  Both horizontal and
// vertical edges are counted.
func Summarize[W comparable](path *graph.Graph[W]) *Breakdown[W] {
	ret := &Breakdown[W]{
		byType:   map[graph.EdgeType]int64{},
		byWorker: map[W]map[graph.EdgeType]int64{},
	}
	for _, worker := range path.Workers() {
		ret.workers = append(ret.workers, worker)
		byType := map[graph.EdgeType]int64{}
		ret.byWorker[worker] = byType
		for _, v := range path.Vertices(worker) {
			for _, dir := range []graph.EdgeDirection{graph.OutgoingHorizontal, graph.OutgoingVertical} {
				if e := v.Edge(dir); e != nil {
					byType[e.Type()] += e.Duration()
					ret.byType[e.Type()] += e.Duration()
				}
			}
		}
	}
	return ret
}

// Duration returns the total duration of edges of the specified type.
func (b *Breakdown[W]) Duration(edgeType graph.EdgeType) int64 {
	return b.byType[edgeType]
}

// WorkerDuration returns the total duration of edges of the specified type
// leaving the specified worker.
func (b *Breakdown[W]) WorkerDuration(worker W, edgeType graph.EdgeType) int64 {
	return b.byWorker[worker][edgeType]
}

// Total returns the total duration of all edges.
func (b *Breakdown[W]) Total() int64 {
	var ret int64
	for _, d := range b.byType {
		ret += d
	}
	return ret
}

func writeDurations(sb *strings.Builder, indent string, byType map[graph.EdgeType]int64) {
	for _, edgeType := range graph.EdgeTypes() {
		if d, ok := byType[edgeType]; ok {
			fmt.Fprintf(sb, "\n%s%s: %d", indent, edgeType, d)
		}
	}
}

func (b *Breakdown[W]) String() string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "total: %d", b.Total())
	writeDurations(sb, "  ", b.byType)
	for _, worker := range b.workers {
		fmt.Fprintf(sb, "\n%v:", worker)
		writeDurations(sb, "  ", b.byWorker[worker])
	}
	return sb.String()
}
