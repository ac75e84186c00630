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

import "fmt"

// EdgeType specifies the semantic type of an Edge: what the worker at the
// edge's origin was doing for the edge's duration.
type EdgeType uint8

const (
	// Default is the type of a freshly-linked Edge whose type was never set.
	// It should never be encountered on a well-formed input graph.
	Default EdgeType = iota
	// Epsilon marks a zero-duration, transparent edge.
	Epsilon
	// Unknown is an interval whose cause could not be determined.
	Unknown
	// Blocked is an interval spent waiting on another worker.
	Blocked
	// Network is an interval spent waiting on network I/O.
	Network
	// Running is an interval of real work.
	Running
	// UserInput is an interval spent waiting for user input.
	UserInput
	// BlockDevice is an interval spent waiting on a block device.
	BlockDevice
	// Timer is an interval spent waiting on a timer.
	Timer
	// Interrupted is an interval spent in an interrupt handler.
	Interrupted
	// Preempted is an interval during which the worker was runnable but
	// preempted.
	Preempted
	numEdgeTypes
)

var edgeTypeNames = [numEdgeTypes]string{
	Default:     "default",
	Epsilon:     "eps",
	Unknown:     "unknown",
	Blocked:     "blocked",
	Network:     "network",
	Running:     "running",
	UserInput:   "user_input",
	BlockDevice: "block_device",
	Timer:       "timer",
	Interrupted: "interrupted",
	Preempted:   "preempted",
}

func (et EdgeType) String() string {
	if et >= numEdgeTypes {
		return fmt.Sprintf("edgetype(%d)", uint8(et))
	}
	return edgeTypeNames[et]
}

// IsBlocking returns true for edge types whose duration must be explained
// by work performed elsewhere.
func (et EdgeType) IsBlocking() bool {
	return et == Blocked || et == Network
}

// ParseEdgeType returns the EdgeType with the provided name.
func ParseEdgeType(name string) (EdgeType, error) {
	for et, etName := range edgeTypeNames {
		if etName == name {
			return EdgeType(et), nil
		}
	}
	return Default, fmt.Errorf("unrecognized edge type '%s'", name)
}

// EdgeTypes returns all EdgeTypes in declaration order.
func EdgeTypes() []EdgeType {
	ret := make([]EdgeType, 0, numEdgeTypes)
	for et := Default; et < numEdgeTypes; et++ {
		ret = append(ret, et)
	}
	return ret
}

// EdgeDirection names one of a Vertex's four edge slots.
type EdgeDirection uint8

const (
	// OutgoingVertical is the slot of an edge to another worker.
	OutgoingVertical EdgeDirection = iota
	// IncomingVertical is the slot of an edge from another worker.
	IncomingVertical
	// OutgoingHorizontal is the slot of an edge to the same worker's next
	// vertex.
	OutgoingHorizontal
	// IncomingHorizontal is the slot of an edge from the same worker's
	// previous vertex.
	IncomingHorizontal
	numEdgeDirections
)

var edgeDirectionNames = [numEdgeDirections]string{
	OutgoingVertical:   "OUTV",
	IncomingVertical:   "INV",
	OutgoingHorizontal: "OUTH",
	IncomingHorizontal: "INH",
}

func (ed EdgeDirection) String() string {
	if ed >= numEdgeDirections {
		return fmt.Sprintf("direction(%d)", uint8(ed))
	}
	return edgeDirectionNames[ed]
}

// Opposite returns the slot occupied by the same edge at its other endpoint.
func (ed EdgeDirection) Opposite() EdgeDirection {
	switch ed {
	case OutgoingVertical:
		return IncomingVertical
	case IncomingVertical:
		return OutgoingVertical
	case OutgoingHorizontal:
		return IncomingHorizontal
	default:
		return OutgoingHorizontal
	}
}

// IsOutgoing returns true if the slot holds edges leaving the vertex.
func (ed EdgeDirection) IsOutgoing() bool {
	return ed == OutgoingVertical || ed == OutgoingHorizontal
}

// IsHorizontal returns true if the slot holds same-worker edges.
func (ed EdgeDirection) IsHorizontal() bool {
	return ed == OutgoingHorizontal || ed == IncomingHorizontal
}
