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

package graph

import (
	"fmt"
	"strings"
)

// PrettyPrinter renders graphs as text, one line per vertex, grouped by
// worker.  Each vertex line shows its timestamp and its outgoing edges:
//
//	w1:
//	  @0 -running-> @10
//	  @10 |default| w2@12
//
// A horizontal edge is drawn as '-type->' followed by its destination's
// timestamp; a vertical edge as '|type|' followed by its destination's worker
// and timestamp.
type PrettyPrinter[W comparable] struct {
	edgeTypePrinter func(EdgeType) string
	workerPrinter   func(W) string
}

// NewPrettyPrinter returns a new PrettyPrinter rendering workers with %v.
func NewPrettyPrinter[W comparable]() *PrettyPrinter[W] {
	return &PrettyPrinter[W]{}
}

// WithEdgeTypePrinter overrides the default edge type representation, for
// instance to colorize it.
func (pp *PrettyPrinter[W]) WithEdgeTypePrinter(etp func(EdgeType) string) *PrettyPrinter[W] {
	pp.edgeTypePrinter = etp
	return pp
}

// WithWorkerPrinter overrides the default '%v' worker representation.
func (pp *PrettyPrinter[W]) WithWorkerPrinter(wp func(W) string) *PrettyPrinter[W] {
	pp.workerPrinter = wp
	return pp
}

func (pp *PrettyPrinter[W]) printEdgeType(et EdgeType) string {
	if pp.edgeTypePrinter == nil {
		return et.String()
	}
	return pp.edgeTypePrinter(et)
}

func (pp *PrettyPrinter[W]) printWorker(w W) string {
	if pp.workerPrinter == nil {
		return fmt.Sprintf("%v", w)
	}
	return pp.workerPrinter(w)
}

// PrettyPrint renders the provided graph.
func (pp *PrettyPrinter[W]) PrettyPrint(g *Graph[W]) string {
	var ret []string
	for _, w := range g.Workers() {
		ret = append(ret, pp.printWorker(w)+":")
		for _, v := range g.Vertices(w) {
			line := fmt.Sprintf("  @%d", v.Timestamp())
			if e := v.Edge(OutgoingHorizontal); e != nil {
				line += fmt.Sprintf(" -%s-> @%d", pp.printEdgeType(e.Type()), e.To().Timestamp())
			}
			if e := v.Edge(OutgoingVertical); e != nil {
				to := "?"
				if toWorker, ok := g.ParentOf(e.To()); ok {
					to = pp.printWorker(toWorker)
				}
				line += fmt.Sprintf(" |%s| %s@%d", pp.printEdgeType(e.Type()), to, e.To().Timestamp())
			}
			ret = append(ret, line)
		}
	}
	return strings.Join(ret, "\n")
}
