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
	"github.com/ilhamster/critpath/graph"
)

// TPP is a test prettyprinter usable with the graphs defined in this file.
var TPP = graph.NewPrettyPrinter[string]()

func build(fn func(gb *GraphBuilder) *GraphBuilder) (gb *GraphBuilder, err error) {
	gb = NewGraphBuilderWithErrorHandler(func(gotErr error) {
		if err == nil {
			err = gotErr
		}
	})
	fn(gb).Build()
	return gb, err
}

// Wakeup is a two-worker graph in which w1 blocks from 10 to 30, and is
// woken by w2, which w1 itself started at 10.
//
//	w1: v0@0 -running-> v1@10 -blocked-> v2@30
//	w2: u0@12 -running-> u1@28
//	v1 |-> u0, u1 |-> v2
func Wakeup() (*GraphBuilder, error) {
	return build(func(gb *GraphBuilder) *GraphBuilder {
		return gb.
			WithWorker("w1",
				At("v0", 0),
				Then(graph.Running, "v1", 10),
				Then(graph.Blocked, "v2", 30),
			).
			WithWorker("w2",
				At("u0", 12),
				Then(graph.Running, "u1", 28),
			).
			WithWakeup("v1", "u0").
			WithWakeup("u1", "v2")
	})
}

// Unresolved is a single-worker graph whose blocking interval has no wakeup
// source.
//
//	main: m0@0 -running-> m1@10 -blocked-> m2@30
func Unresolved() (*GraphBuilder, error) {
	return build(func(gb *GraphBuilder) *GraphBuilder {
		return gb.
			WithWorker("main",
				At("m0", 0),
				Then(graph.Running, "m1", 10),
				Then(graph.Blocked, "m2", 30),
			)
	})
}

// Relay is a graph in which main's blocking interval is explained by y,
// which had itself been blocked until woken by x, which main started at its
// very beginning.  y's blocking interval ends before main's begins.
//
//	main: m0@0 -running-> m1@20 -blocked-> m2@50
//	x:    x0@1 -running-> x1@6
//	y:    y0@2 -blocked-> y1@8 -running-> y2@45
//	m0 |-> x0, x1 |-> y1, y2 |-> m2
func Relay() (*GraphBuilder, error) {
	return build(func(gb *GraphBuilder) *GraphBuilder {
		return gb.
			WithWorker("main",
				At("m0", 0),
				Then(graph.Running, "m1", 20),
				Then(graph.Blocked, "m2", 50),
			).
			WithWorker("x",
				At("x0", 1),
				Then(graph.Running, "x1", 6),
			).
			WithWorker("y",
				At("y0", 2),
				Then(graph.Blocked, "y1", 8),
				Then(graph.Running, "y2", 45),
			).
			WithWakeup("m0", "x0").
			WithWakeup("x1", "y1").
			WithWakeup("y2", "m2")
	})
}

// Detour is a graph in which main is woken by y, whose own timeline begins
// with no explanation, though y was also woken mid-run by x, which main
// started just as it blocked.
//
//	main: m0@0 -running-> m1@10 -blocked-> m2@50
//	x:    x0@15 -running-> x1@30
//	y:    y0@20 -running-> y1@30 -running-> y2@40
//	m1 |-> x0, x1 |-> y1, y2 |-> m2
func Detour() (*GraphBuilder, error) {
	return build(func(gb *GraphBuilder) *GraphBuilder {
		return gb.
			WithWorker("main",
				At("m0", 0),
				Then(graph.Running, "m1", 10),
				Then(graph.Blocked, "m2", 50),
			).
			WithWorker("x",
				At("x0", 15),
				Then(graph.Running, "x1", 30),
			).
			WithWorker("y",
				At("y0", 20),
				Then(graph.Running, "y1", 30),
				Then(graph.Running, "y2", 40),
			).
			WithWakeup("m1", "x0").
			WithWakeup("x1", "y1").
			WithWakeup("y2", "m2")
	})
}

// LateWaker is a graph in which main is woken by y, whose own blocking
// interval is explained by x, whose timeline begins with no explanation
// after y blocked.
//
//	main: m0@0 -running-> m1@10 -blocked-> m2@100
//	y:    yA@5 -running-> y0@20 -blocked-> y1@50 -running-> y2@90
//	x:    x0@30 -running-> x1@40
//	x1 |-> y1, y2 |-> m2
func LateWaker() (*GraphBuilder, error) {
	return build(func(gb *GraphBuilder) *GraphBuilder {
		return gb.
			WithWorker("main",
				At("m0", 0),
				Then(graph.Running, "m1", 10),
				Then(graph.Blocked, "m2", 100),
			).
			WithWorker("y",
				At("yA", 5),
				Then(graph.Running, "y0", 20),
				Then(graph.Blocked, "y1", 50),
				Then(graph.Running, "y2", 90),
			).
			WithWorker("x",
				At("x0", 30),
				Then(graph.Running, "x1", 40),
			).
			WithWakeup("x1", "y1").
			WithWakeup("y2", "m2")
	})
}
