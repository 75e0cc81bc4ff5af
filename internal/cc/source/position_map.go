// Copyright 2025 EngFlow Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package source

import "sort"

// Mapping is a single entry of a PositionMap: the position an expanded
// character occupies, the original position it came from, and the macro
// that produced it, if any.
type Mapping struct {
	Expanded  Position
	Original  Position
	MacroName string // empty when the text was not produced by macro expansion
}

// PositionMap is an append-only, offset-ordered sequence of Mappings.
// Invariant: entries are added in monotonically non-decreasing Expanded
// offset order (the driver only ever appends while moving forward through
// the expanded output).
type PositionMap struct {
	entries []Mapping
}

// Add appends a mapping. macroName is empty for text copied verbatim from
// the original source.
func (m *PositionMap) Add(expanded, original Position, macroName string) {
	m.entries = append(m.entries, Mapping{Expanded: expanded, Original: original, MacroName: macroName})
}

// Lookup resolves the most recent mapping at or before the queried expanded
// offset, and reports whether any mapping exists at or before it.
func (m *PositionMap) Lookup(expanded Position) (Position, bool) {
	entry, ok := m.entryBefore(expanded)
	if !ok {
		return Position{}, false
	}
	return entry.Original, true
}

// IsFromMacro reports whether the text at the given expanded position was
// produced by expanding a macro.
func (m *PositionMap) IsFromMacro(expanded Position) bool {
	entry, ok := m.entryBefore(expanded)
	return ok && entry.MacroName != ""
}

func (m *PositionMap) entryBefore(expanded Position) (Mapping, bool) {
	i := sort.Search(len(m.entries), func(i int) bool {
		return m.entries[i].Expanded.Offset > expanded.Offset
	})
	if i == 0 {
		return Mapping{}, false
	}
	return m.entries[i-1], true
}

// Entries returns a read-only snapshot of all recorded mappings, in order.
func (m *PositionMap) Entries() []Mapping {
	out := make([]Mapping, len(m.entries))
	copy(out, m.entries)
	return out
}

// Len reports the number of recorded mappings.
func (m *PositionMap) Len() int { return len(m.entries) }
