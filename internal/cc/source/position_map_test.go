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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionMapLookup(t *testing.T) {
	var m PositionMap
	m.Add(Position{Offset: 0}, Position{Offset: 0, Line: 1}, "")
	m.Add(Position{Offset: 10}, Position{Offset: 3, Line: 2}, "PI")
	m.Add(Position{Offset: 12}, Position{Offset: 5, Line: 2}, "")

	orig, ok := m.Lookup(Position{Offset: 10})
	require.True(t, ok)
	assert.Equal(t, 3, orig.Offset)
	assert.True(t, m.IsFromMacro(Position{Offset: 10}))

	orig, ok = m.Lookup(Position{Offset: 11})
	require.True(t, ok)
	assert.Equal(t, 3, orig.Offset)

	orig, ok = m.Lookup(Position{Offset: 20})
	require.True(t, ok)
	assert.Equal(t, 5, orig.Offset)
	assert.False(t, m.IsFromMacro(Position{Offset: 20}))
}

func TestPositionMapLookupBeforeAnyEntry(t *testing.T) {
	var m PositionMap
	m.Add(Position{Offset: 5}, Position{Offset: 5}, "")
	_, ok := m.Lookup(Position{Offset: 0})
	assert.False(t, ok)
}
