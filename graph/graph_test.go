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
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func prettyPrint(g *Graph[string]) string {
	return "\n" + NewPrettyPrinter[string]().PrettyPrint(g)
}

func TestLinking(t *testing.T) {
	g := New[string]()
	a, b := g.NewVertex(10), g.NewVertex(5)
	if _, err := a.LinkHorizontal(b); !errors.Is(err, ErrInvalidOrdering) {
		t.Errorf("LinkHorizontal() to an earlier vertex yielded %v, wanted ErrInvalidOrdering", err)
	}
	if a.HasNeighbor(OutgoingHorizontal) || b.HasNeighbor(IncomingHorizontal) {
		t.Errorf("failed LinkHorizontal() modified its vertices")
	}
	c := g.NewVertex(10)
	e, err := a.LinkVertical(c)
	if err != nil {
		t.Fatalf("LinkVertical() yielded unexpected error %v", err)
	}
	if e.Duration() != 0 || e.Horizontal() || e.Type() != Default {
		t.Errorf("LinkVertical() yielded unexpected edge %s", e)
	}
	if a.Neighbor(OutgoingVertical) != c || c.Neighbor(IncomingVertical) != a {
		t.Errorf("LinkVertical() didn't populate both slots")
	}
	if err := e.SetType(Running); err != nil {
		t.Errorf("SetType() yielded unexpected error %v", err)
	}
	if err := e.SetType(Blocked); !errors.Is(err, ErrEdgeTypeSet) {
		t.Errorf("second SetType() yielded %v, wanted ErrEdgeTypeSet", err)
	}
	if got := a.Detach(OutgoingVertical); got != e {
		t.Errorf("Detach() returned %s, wanted %s", got, e)
	}
	if a.HasNeighbor(OutgoingVertical) || c.HasNeighbor(IncomingVertical) {
		t.Errorf("Detach() left an edge in place")
	}
	if a.Compare(c) != -1 || c.Compare(a) != 1 || a.Compare(a) != 0 || b.Compare(a) != -1 {
		t.Errorf("Compare() doesn't order by timestamp, then creation order")
	}
}

func TestGraphBuilding(t *testing.T) {
	for _, test := range []struct {
		description string
		build       func(g *Graph[string]) error
		wantStr     string
		wantErr     error
	}{{
		description: "append and link",
		build: func(g *Graph[string]) error {
			a0, a1, a2 := g.NewVertex(0), g.NewVertex(10), g.NewVertex(30)
			b0 := g.NewVertex(12)
			if err := g.Add("a", a0); err != nil {
				return err
			}
			if e, err := g.Append("a", a1, Running); err != nil || e == nil {
				return fmt.Errorf("append yielded %v, %v", e, err)
			}
			if _, err := g.Link(a1, a2, Blocked); err != nil {
				return err
			}
			if e, err := g.Append("b", b0, Running); err != nil || e != nil {
				return fmt.Errorf("append to empty worker yielded %v, %v", e, err)
			}
			if _, err := g.Link(a1, b0, Default); err != nil {
				return err
			}
			return nil
		},
		wantStr: `
a:
  @0 -running-> @10
  @10 -blocked-> @30 |default| b@12
  @30
b:
  @12`,
	}, {
		description: "replace swaps the tail without linking",
		build: func(g *Graph[string]) error {
			if _, err := g.Append("a", g.NewVertex(0), Running); err != nil {
				return err
			}
			if _, err := g.Append("a", g.NewVertex(5), Running); err != nil {
				return err
			}
			// An unlinked placeholder.
			if err := g.Add("a", g.NewVertex(6)); err != nil {
				return err
			}
			return g.Replace("a", g.NewVertex(7))
		},
		wantStr: `
a:
  @0 -running-> @5
  @7`,
	}, {
		description: "link from an unregistered vertex",
		build: func(g *Graph[string]) error {
			_, err := g.Link(g.NewVertex(0), g.NewVertex(1), Running)
			return err
		},
		wantErr: ErrUnregisteredVertex,
	}, {
		description: "add a foreign vertex",
		build: func(g *Graph[string]) error {
			return g.Add("a", New[string]().NewVertex(0))
		},
		wantErr: ErrForeignVertex,
	}, {
		description: "add a vertex twice",
		build: func(g *Graph[string]) error {
			v := g.NewVertex(0)
			if err := g.Add("a", v); err != nil {
				return err
			}
			return g.Add("b", v)
		},
		wantErr: ErrVertexRegistered,
	}, {
		description: "append out of order",
		build: func(g *Graph[string]) error {
			if err := g.Add("a", g.NewVertex(10)); err != nil {
				return err
			}
			_, err := g.Append("a", g.NewVertex(0), Running)
			return err
		},
		wantErr: ErrInvalidOrdering,
	}, {
		description: "mutate a closed graph",
		build: func(g *Graph[string]) error {
			g.CloseGraph()
			return g.Add("a", g.NewVertex(0))
		},
		wantErr: ErrGraphClosed,
	}} {
		t.Run(test.description, func(t *testing.T) {
			g := New[string]()
			err := test.build(g)
			if test.wantErr != nil {
				if !errors.Is(err, test.wantErr) {
					t.Fatalf("build yielded error %v, wanted %v", err, test.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("build yielded unexpected error %v", err)
			}
			if err := Check(g, true); err != nil {
				t.Errorf("Check() yielded unexpected error %v", err)
			}
			if diff := cmp.Diff(test.wantStr, prettyPrint(g)); diff != "" {
				t.Errorf("graph was\n%s\ndiff (-want +got) %s", prettyPrint(g), diff)
			}
		})
	}
}

func TestQueries(t *testing.T) {
	g := New[string]()
	a0, a1, a2, a3 := g.NewVertex(0), g.NewVertex(10), g.NewVertex(20), g.NewVertex(30)
	for _, v := range []*Vertex{a0, a1} {
		if _, err := g.Append("a", v, Running); err != nil {
			t.Fatal(err.Error())
		}
	}
	// a2 starts a second run, unlinked from a1.
	if err := g.Add("a", a2); err != nil {
		t.Fatal(err.Error())
	}
	if _, err := g.Append("a", a3, Running); err != nil {
		t.Fatal(err.Error())
	}
	if got := g.HeadOf(a3); got != a2 {
		t.Errorf("HeadOf(a3) = %s, wanted %s", got, a2)
	}
	if got := g.HeadOf(a1); got != a0 {
		t.Errorf("HeadOf(a1) = %s, wanted %s", got, a0)
	}
	if g.Head("a") != a0 || g.Tail("a") != a3 || g.Head("b") != nil {
		t.Errorf("unexpected Head() or Tail()")
	}
	for _, test := range []struct {
		at   int64
		want *Vertex
	}{
		{-5, a0}, {0, a0}, {1, a1}, {20, a2}, {25, a3}, {31, nil},
	} {
		if got := g.VertexAt(test.at, "a"); got != test.want {
			t.Errorf("VertexAt(%d) = %s, wanted %s", test.at, got, test.want)
		}
	}
	removed, err := g.RemoveTail("a")
	if err != nil || removed != a3 {
		t.Fatalf("RemoveTail() = %s, %v, wanted %s", removed, err, a3)
	}
	if g.Contains(a3) || g.Tail("a") != a2 {
		t.Errorf("RemoveTail() didn't unregister the tail")
	}
	if w, ok := g.ParentOf(a1); !ok || w != "a" {
		t.Errorf("ParentOf(a1) = %s, %t", w, ok)
	}
}

func TestScanLineTraverse(t *testing.T) {
	g := New[string]()
	a0, a1, a2 := g.NewVertex(0), g.NewVertex(10), g.NewVertex(30)
	b0, b1 := g.NewVertex(12), g.NewVertex(28)
	for _, step := range []func() error{
		func() error { return g.Add("a", a0) },
		func() error { _, err := g.Append("a", a1, Running); return err },
		func() error { _, err := g.Append("a", a2, Blocked); return err },
		func() error { return g.Add("b", b0) },
		func() error { _, err := g.Append("b", b1, Running); return err },
		func() error { _, err := g.Link(a1, b0, Default); return err },
		func() error { _, err := g.Link(b1, a2, Default); return err },
	} {
		if err := step(); err != nil {
			t.Fatal(err.Error())
		}
	}
	var got []string
	g.ScanLineTraverse(a1, VisitorFuncs{
		Vertex: func(v *Vertex) {
			got = append(got, fmt.Sprintf("@%d", v.Timestamp()))
		},
		Edge: func(e *Edge, horizontal bool) {
			got = append(got, fmt.Sprintf("%d->%d h=%t", e.From().Timestamp(), e.To().Timestamp(), horizontal))
		},
	})
	want := []string{
		"@0", "0->10 h=true",
		"@10", "10->12 h=false", "10->30 h=true",
		"@30",
		"@12", "12->28 h=true",
		"@28", "28->30 h=false",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ScanLineTraverse() visited %v\ndiff (-want +got) %s", got, diff)
	}
}

func TestCompletionLatch(t *testing.T) {
	g := New[string]()
	if g.IsDoneBuilding() {
		t.Fatalf("new graph is already done building")
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	if err := g.WaitDone(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("WaitDone() on an open graph yielded %v, wanted deadline exceeded", err)
	}
	waited := make(chan error)
	go func() {
		waited <- g.WaitDone(context.Background())
	}()
	g.CloseGraph()
	g.CloseGraph()
	if err := <-waited; err != nil {
		t.Errorf("WaitDone() yielded unexpected error %v", err)
	}
	if !g.IsDoneBuilding() {
		t.Errorf("closed graph isn't done building")
	}
}
