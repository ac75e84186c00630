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

// Package criticalpath computes critical paths through timed dependency
// graphs.  A critical path explains the elapsed time between two points on a
// worker's timeline: where the worker ran, the path simply follows it, but
// where it was blocked, the path detours through whatever other workers'
// activity eventually woke it up.
//
// Several algorithms are supported, differing chiefly in how far backwards in
// time a blocking explanation may reach: Bounded never explains a blocking
// interval with activity before that interval began, while Unbounded may
// reach all the way back to the start of the path.  Connected returns every
// vertex causally between the endpoints rather than a single path.
//
// All algorithms produce a fresh, closed output graph with the same worker
// identities as their input.  Each output vertex is a copy of an input vertex
// (or a synthetic vertex at an input vertex's timestamp), so output timestamps
// always correspond to input timestamps.
package criticalpath

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/ilhamster/critpath/graph"
)

// ErrGraphNotClosed is returned when a computation is requested on a graph
// that is still being built.
var ErrGraphNotClosed = errors.New("graph is still being built")

// ErrMaxDepthExceeded is wrapped by the invariant violation returned when
// blocking resolution recurses too deeply.
var ErrMaxDepthExceeded = errors.New("blocking resolution exceeded maximum depth")

// DefaultMaxDepth is the default nested blocking resolution depth limit.
const DefaultMaxDepth = 10000

// Algorithm computes a critical path between two vertices of the graph it
// was constructed with.
type Algorithm[W comparable] interface {
	// Strategy returns the strategy implemented by the algorithm.
	Strategy() Strategy
	// Compute returns a new, closed graph holding the critical path from start
	// to end.  If end is nil, the path runs to the end of start's timeline.
	// The input graph must be closed.
	Compute(start, end *graph.Vertex) (*graph.Graph[W], error)
}

type options struct {
	logger   *slog.Logger
	maxDepth int
	metrics  *Metrics
}

// Option instances are options to critical path algorithms.
type Option func(opts *options)

// WithLogger specifies a logger for algorithm diagnostics.  By default,
// nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

// WithMaxDepth bounds the depth of nested blocking resolution.  Exceeding it
// yields a graph invariant violation, since only a malformed graph can require
// unbounded recursion.
func WithMaxDepth(maxDepth int) Option {
	return func(opts *options) {
		opts.maxDepth = maxDepth
	}
}

// WithMetrics specifies a Metrics instance to which computations are
// reported.
func WithMetrics(metrics *Metrics) Option {
	return func(opts *options) {
		opts.metrics = metrics
	}
}

func buildOptions(opts ...Option) *options {
	ret := &options{
		logger:   slog.New(slog.DiscardHandler),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.logger == nil {
		ret.logger = slog.New(slog.DiscardHandler)
	}
	return ret
}

// base holds the state and helpers shared by all algorithms.
type base[W comparable] struct {
	graph *graph.Graph[W]
	opts  *options
}

func newBase[W comparable](g *graph.Graph[W], opts ...Option) base[W] {
	return base[W]{
		graph: g,
		opts:  buildOptions(opts...),
	}
}

// Graph returns the graph the algorithm operates on.
func (b *base[W]) Graph() *graph.Graph[W] {
	return b.graph
}

func (b *base[W]) parentOf(v *graph.Vertex) (W, error) {
	w, ok := b.graph.ParentOf(v)
	if !ok {
		return w, graph.NewInvariantViolation(nil, v, "vertex has no parent worker")
	}
	return w, nil
}

// Verifies that the input graph is closed and that both endpoints belong to
// it.
func (b *base[W]) checkEndpoints(start, end *graph.Vertex) error {
	if !b.graph.IsDoneBuilding() {
		return ErrGraphNotClosed
	}
	if start == nil || !b.graph.Contains(start) {
		return fmt.Errorf("%w: start vertex %s", graph.ErrUnregisteredVertex, start)
	}
	if end != nil && !b.graph.Contains(end) {
		return fmt.Errorf("%w: end vertex %s", graph.ErrUnregisteredVertex, end)
	}
	return nil
}

// Follows epsilon edges from v in the specified direction until reaching a
// vertex with an incoming vertical edge, which is returned.  Returns nil if
// the chain ends, or reaches a non-epsilon edge, first.
func findIncoming(v *graph.Vertex, dir graph.EdgeDirection) *graph.Vertex {
	for cursor := v; cursor != nil; {
		if cursor.HasNeighbor(graph.IncomingVertical) {
			return cursor
		}
		e := cursor.Edge(dir)
		if e == nil || e.Type() != graph.Epsilon {
			return nil
		}
		cursor = cursor.Neighbor(dir)
	}
	return nil
}

// Creates a vertex at ts on to's worker in out, links anchor, which stands
// for from in the output, to it, and returns it.  The link is horizontal if
// anchor already lies on to's worker, and vertical otherwise.
func (b *base[W]) copyLink(
	out *graph.Graph[W],
	anchor, from, to *graph.Vertex,
	ts int64,
	edgeType graph.EdgeType,
) (*graph.Vertex, error) {
	if _, err := b.parentOf(from); err != nil {
		return nil, err
	}
	toWorker, err := b.parentOf(to)
	if err != nil {
		return nil, err
	}
	anchorWorker, ok := out.ParentOf(anchor)
	if !ok {
		return nil, graph.NewInvariantViolation(nil, anchor, "output anchor has no parent worker")
	}
	ret := out.NewVertex(ts)
	var e *graph.Edge
	if anchorWorker == toWorker {
		e, err = anchor.LinkHorizontal(ret)
	} else {
		e, err = anchor.LinkVertical(ret)
	}
	if err != nil {
		return nil, err
	}
	if err := e.SetType(edgeType); err != nil {
		return nil, err
	}
	if err := out.Add(toWorker, ret); err != nil {
		return nil, err
	}
	return ret, nil
}

// resolver is implemented by the per-computation state of each path-walking
// algorithm.
type resolver[W comparable] interface {
	// Returns the chain of input edges explaining the provided blocking edge,
	// most recent first.
	resolve(blocking *graph.Edge) ([]*graph.Edge, error)
	// Splices the provided chain, oldest first, into out, which has been
	// built up to curr.
	splice(out *graph.Graph[W], curr *graph.Vertex, blocking *graph.Edge, links []*graph.Edge) error
}

// run holds the state of a single path-walking computation.
type run[W comparable] struct {
	*base[W]
	strategy   Strategy
	depth      int
	deepest    int
	unresolved int
	inFlight   map[*graph.Edge]struct{}
}

func (b *base[W]) newRun(strategy Strategy) *run[W] {
	return &run[W]{
		base:     b,
		strategy: strategy,
		inFlight: map[*graph.Edge]struct{}{},
	}
}

// Marks the start of the resolution of the provided blocking edge.  Each
// successful enter must be paired with a leave.
func (r *run[W]) enter(blocking *graph.Edge) error {
	if _, ok := r.inFlight[blocking]; ok {
		return graph.NewInvariantViolation(blocking, nil, "blocking edge is already being resolved")
	}
	if r.depth >= r.opts.maxDepth {
		return fmt.Errorf("%w: %w", graph.NewInvariantViolation(blocking, nil, "resolution depth %d", r.depth), ErrMaxDepthExceeded)
	}
	r.inFlight[blocking] = struct{}{}
	r.depth++
	r.deepest = max(r.deepest, r.depth)
	r.opts.logger.Debug("resolving blocking edge",
		"strategy", r.strategy,
		"edge", blocking.String(),
		"depth", r.depth,
	)
	return nil
}

func (r *run[W]) leave(blocking *graph.Edge) {
	delete(r.inFlight, blocking)
	r.depth--
}

func (r *run[W]) noteUnresolved(blocking *graph.Edge) {
	r.unresolved++
	r.opts.logger.Debug("no wakeup source for blocking edge",
		"strategy", r.strategy,
		"edge", blocking.String(),
	)
}

func (r *run[W]) report(out *graph.Graph[W], err error) {
	r.opts.metrics.observe(r.strategy, err, r.unresolved, r.deepest)
	if err != nil {
		r.opts.logger.Debug("critical path computation failed",
			"strategy", r.strategy,
			"error", err,
		)
		return
	}
	r.opts.logger.Debug("critical path computed",
		"strategy", r.strategy,
		"vertices", out.Size(),
		"unresolved", r.unresolved,
		"depth", r.deepest,
	)
}

// Walks the outgoing horizontal edges of start's worker up to end, copying
// work edges into the output and asking res to explain each blocking edge.
func (r *run[W]) walk(res resolver[W], start, end *graph.Vertex) (out *graph.Graph[W], err error) {
	defer func() {
		r.report(out, err)
	}()
	if err := r.checkEndpoints(start, end); err != nil {
		return nil, err
	}
	startWorker, err := r.parentOf(start)
	if err != nil {
		return nil, err
	}
	out = graph.New[W]()
	if err := out.Add(startWorker, out.CopyVertex(start)); err != nil {
		return nil, err
	}
	for curr := start; curr.HasNeighbor(graph.OutgoingHorizontal); {
		nextEdge := curr.Edge(graph.OutgoingHorizontal)
		next := nextEdge.To()
		if end != nil && next.Timestamp() >= end.Timestamp() {
			break
		}
		switch edgeType := nextEdge.Type(); edgeType {
		case graph.Running, graph.UserInput, graph.BlockDevice, graph.Timer, graph.Interrupted, graph.Preempted:
			worker, err := r.parentOf(next)
			if err != nil {
				return nil, err
			}
			if _, err := out.Append(worker, out.CopyVertex(next), edgeType); err != nil {
				return nil, err
			}
		case graph.Blocked, graph.Network:
			links, err := res.resolve(nextEdge)
			if err != nil {
				return nil, err
			}
			slices.Reverse(links)
			if err := res.splice(out, curr, nextEdge, links); err != nil {
				return nil, err
			}
		case graph.Epsilon:
			if nextEdge.Duration() != 0 {
				return nil, graph.NewInvariantViolation(nextEdge, nil, "epsilon duration is %d", nextEdge.Duration())
			}
		case graph.Unknown:
		case graph.Default:
			return nil, graph.NewInvariantViolation(nextEdge, nil, "untyped edge on a critical path")
		default:
			return nil, graph.NewInvariantViolation(nextEdge, nil, "unsupported edge type %s", edgeType)
		}
		curr = next
	}
	out.CloseGraph()
	return out, nil
}
