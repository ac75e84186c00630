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
	"slices"
)

// TypeEnumerationData describes a single member of a TypeEnumeration.
type TypeEnumerationData[T comparable] struct {
	Type        T
	Name        string
	Description string
}

// TypeEnumeration is an ordered set of enumerated types, such as critical
// path strategies, with their names and human-readable descriptions.  The
// first registered member is the default.
type TypeEnumeration[T comparable] struct {
	data          []*TypeEnumerationData[T]
	byType        map[T]*TypeEnumerationData[T]
	byName        map[string]*TypeEnumerationData[T]
	byDescription map[string]*TypeEnumerationData[T]
}

// NewTypeEnumeration returns a new, empty TypeEnumeration.
func NewTypeEnumeration[T comparable]() *TypeEnumeration[T] {
	return &TypeEnumeration[T]{
		byType:        map[T]*TypeEnumerationData[T]{},
		byName:        map[string]*TypeEnumerationData[T]{},
		byDescription: map[string]*TypeEnumerationData[T]{},
	}
}

// With registers the specified type with the provided name and description,
// returning the receiver for chaining.  Re-registering a type or a name
// panics.
func (te *TypeEnumeration[T]) With(t T, name, description string) *TypeEnumeration[T] {
	if _, ok := te.byType[t]; ok {
		panic(fmt.Sprintf("type %v is already registered", t))
	}
	if _, ok := te.byName[name]; ok {
		panic(fmt.Sprintf("type name '%s' is already registered", name))
	}
	td := &TypeEnumerationData[T]{
		Type:        t,
		Name:        name,
		Description: description,
	}
	te.data = append(te.data, td)
	te.byType[t] = td
	te.byName[name] = td
	te.byDescription[description] = td
	return te
}

// WithDescriptionAliases registers additional descriptions for the type
// already registered under description.
func (te *TypeEnumeration[T]) WithDescriptionAliases(description string, aliases ...string) *TypeEnumeration[T] {
	td, ok := te.byDescription[description]
	if !ok {
		panic(fmt.Sprintf("no type has description '%s'", description))
	}
	for _, alias := range aliases {
		te.byDescription[alias] = td
	}
	return te
}

// TypeData returns the data registered for the specified type, or nil if
// there is none.
func (te *TypeEnumeration[T]) TypeData(t T) *TypeEnumerationData[T] {
	return te.byType[t]
}

// ByName returns the data registered under the specified name.
func (te *TypeEnumeration[T]) ByName(name string) (*TypeEnumerationData[T], bool) {
	td, ok := te.byName[name]
	return td, ok
}

// ByDescription returns the data registered under the specified description
// or one of its aliases.
func (te *TypeEnumeration[T]) ByDescription(description string) (*TypeEnumerationData[T], bool) {
	td, ok := te.byDescription[description]
	return td, ok
}

// Default returns the first registered member, or nil if the receiver is
// empty.
func (te *TypeEnumeration[T]) Default() *TypeEnumerationData[T] {
	if len(te.data) == 0 {
		return nil
	}
	return te.data[0]
}

// All returns all registered members in registration order.
func (te *TypeEnumeration[T]) All() []*TypeEnumerationData[T] {
	return slices.Clone(te.data)
}

// Names returns the names of all registered members in registration order.
func (te *TypeEnumeration[T]) Names() []string {
	ret := make([]string, len(te.data))
	for idx, td := range te.data {
		ret[idx] = td.Name
	}
	return ret
}
