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

	"github.com/ilhamster/critpath/graph"
)

// Strategy specifies a particular critical path algorithm.
type Strategy uint

const (
	// Bounded resolves each blocking interval using only activity that
	// occurred during that interval.
	Bounded Strategy = iota
	// Unbounded resolves each blocking interval using activity reaching back
	// as far as the start of the path, preferring explanations that converge
	// on the starting worker.
	Unbounded
	// Connected yields all vertices lying on any path between the endpoints.
	Connected
)

// Strategies specifies a set of critical path strategies, along with their
// metadata.
type Strategies = TypeEnumeration[Strategy]

// StrategyData describes a single Strategy.
type StrategyData = TypeEnumerationData[Strategy]

// NewStrategies creates and returns a new, empty Strategies instance.
func NewStrategies() *Strategies {
	return NewTypeEnumeration[Strategy]()
}

// CommonStrategies defines all supported critical path strategies.  Its
// default is Bounded.
var CommonStrategies = NewStrategies().
	With(Bounded, "bounded", "Resolve blocking within its own interval").
	With(Unbounded, "unbounded", "Resolve blocking back to the path start").
	WithDescriptionAliases("Resolve blocking back to the path start", "Unbounded (can be slow!)").
	With(Connected, "connected", "All vertices between the endpoints")

func (s Strategy) String() string {
	if td := CommonStrategies.TypeData(s); td != nil {
		return td.Name
	}
	return fmt.Sprintf("strategy(%d)", uint(s))
}

// ParseStrategy returns the Strategy registered in CommonStrategies under the
// provided name.  An empty name yields the default strategy.
func ParseStrategy(name string) (Strategy, error) {
	if name == "" {
		return CommonStrategies.Default().Type, nil
	}
	td, ok := CommonStrategies.ByName(name)
	if !ok {
		return 0, fmt.Errorf("unknown critical path strategy '%s' (supported: %v)", name, CommonStrategies.Names())
	}
	return td.Type, nil
}

// New returns an Algorithm implementing the specified strategy over the
// provided graph.
func New[W comparable](strategy Strategy, g *graph.Graph[W], opts ...Option) (Algorithm[W], error) {
	switch strategy {
	case Bounded:
		return NewBounded(g, opts...), nil
	case Unbounded:
		return NewUnbounded(g, opts...), nil
	case Connected:
		return NewConnected(g, opts...), nil
	default:
		return nil, fmt.Errorf("unsupported critical path strategy %s", strategy)
	}
}
