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
)

func TestPositionAdvancedBy(t *testing.T) {
	cases := []struct {
		name   string
		start  Position
		input  string
		expect Position
	}{
		{"same line", Zero, "abc", Position{Line: 1, Column: 4, Offset: 3}},
		{"single newline", Zero, "ab\n", Position{Line: 2, Column: 1, Offset: 3}},
		{"newline then text", Zero, "ab\ncd", Position{Line: 2, Column: 3, Offset: 5}},
		{"multiple newlines", Zero, "a\nb\nc", Position{Line: 3, Column: 2, Offset: 5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.start.AdvancedBy(tc.input)
			assert.Equal(t, tc.expect, got)
		})
	}
}

func TestSourceRangeContains(t *testing.T) {
	outer := SourceRange{Start: Position{Offset: 0}, End: Position{Offset: 10}}
	inner := SourceRange{Start: Position{Offset: 2}, End: Position{Offset: 5}}
	assert.True(t, outer.Contains(inner))
	assert.False(t, inner.Contains(outer))
}

func TestSourceRangeJoin(t *testing.T) {
	a := SourceRange{Start: Position{Offset: 2}, End: Position{Offset: 5}}
	b := SourceRange{Start: Position{Offset: 0}, End: Position{Offset: 3}}
	joined := a.Join(b)
	assert.Equal(t, 0, joined.Start.Offset)
	assert.Equal(t, 5, joined.End.Offset)
}
