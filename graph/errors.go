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
	"errors"
	"fmt"
)

var (
	// ErrInvalidOrdering is returned when linking a vertex to an
	// earlier-timestamped vertex.
	ErrInvalidOrdering = errors.New("invalid vertex ordering")
	// ErrUnregisteredVertex is returned when an operation requires a vertex
	// registered to some worker of the graph.
	ErrUnregisteredVertex = errors.New("vertex is not registered in the graph")
	// ErrForeignVertex is returned when a vertex minted by one graph is
	// added to another.
	ErrForeignVertex = errors.New("vertex belongs to another graph")
	// ErrVertexRegistered is returned when a vertex is added to a graph
	// twice.
	ErrVertexRegistered = errors.New("vertex is already registered")
	// ErrGraphClosed is returned by mutations on a graph that is done
	// building.
	ErrGraphClosed = errors.New("graph is closed")
	// ErrEdgeTypeSet is returned when an edge's type is set a second time.
	ErrEdgeTypeSet = errors.New("edge type was already set")
	// ErrGraphInvariantViolation is wrapped by every InvariantViolationError.
	ErrGraphInvariantViolation = errors.New("graph invariant violation")
)

// InvariantViolationError reports a malformed graph: an edge or vertex that
// no well-formed graph builder would produce.
type InvariantViolationError struct {
	Reason string
	Edge   *Edge
	Vertex *Vertex
}

// NewInvariantViolation returns an InvariantViolationError with the
// provided diagnostic.  Either of edge or vertex may be nil.
func NewInvariantViolation(edge *Edge, vertex *Vertex, format string, args ...any) *InvariantViolationError {
	return &InvariantViolationError{
		Reason: fmt.Sprintf(format, args...),
		Edge:   edge,
		Vertex: vertex,
	}
}

func (ive *InvariantViolationError) Error() string {
	switch {
	case ive.Edge != nil:
		return fmt.Sprintf("%s: %s (edge %s)", ErrGraphInvariantViolation, ive.Reason, ive.Edge)
	case ive.Vertex != nil:
		return fmt.Sprintf("%s: %s (vertex %s)", ErrGraphInvariantViolation, ive.Reason, ive.Vertex)
	default:
		return fmt.Sprintf("%s: %s", ErrGraphInvariantViolation, ive.Reason)
	}
}

func (ive *InvariantViolationError) Unwrap() error {
	return ErrGraphInvariantViolation
}
