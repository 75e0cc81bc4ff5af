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

package token

import (
	"strings"
	"testing"

	"github.com/EngFlow/ccfront/internal/cc/dialect"
	"github.com/EngFlow/ccfront/internal/cc/lexer"
	"github.com/EngFlow/ccfront/internal/cc/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func streamFor(t *testing.T, src string) *Stream {
	t.Helper()
	buf := lexer.NewLookaheadBuffer(strings.NewReader(src))
	lx := lexer.NewLexer(buf, dialect.C11)
	s, err := FromLexer(lx)
	require.NoError(t, err)
	return s
}

func TestStreamAdvanceWalksTokensInOrder(t *testing.T) {
	s := streamFor(t, "int x;")
	assert.Equal(t, lexer.KwInt, s.Advance().Kind)
	assert.Equal(t, lexer.Identifier, s.Advance().Kind)
	assert.Equal(t, lexer.Semicolon, s.Advance().Kind)
	assert.True(t, s.AtEOF())
}

func TestStreamPeekDoesNotConsume(t *testing.T) {
	s := streamFor(t, "int x;")
	assert.Equal(t, lexer.KwInt, s.Peek(0).Kind)
	assert.Equal(t, lexer.Identifier, s.Peek(1).Kind)
	assert.Equal(t, lexer.KwInt, s.Current().Kind, "Peek must not move the cursor")
}

func TestStreamPreviousAfterAdvance(t *testing.T) {
	s := streamFor(t, "int x;")
	s.Advance()
	s.Advance()
	assert.Equal(t, lexer.Identifier, s.Previous(1).Kind)
	assert.Equal(t, lexer.KwInt, s.Previous(2).Kind)
}

func TestStreamSaveReset(t *testing.T) {
	s := streamFor(t, "int x = 1;")
	mark := s.Save()
	s.Advance()
	s.Advance()
	s.Reset(mark)
	assert.Equal(t, lexer.KwInt, s.Current().Kind)
}

func TestStreamMatchAndCheck(t *testing.T) {
	s := streamFor(t, "int x;")
	assert.True(t, s.Check(lexer.KwInt))
	assert.True(t, s.Match(lexer.KwInt))
	assert.False(t, s.Match(lexer.Semicolon))
	assert.True(t, s.Match(lexer.Identifier))
}

func TestStreamExpectErrorsOnMismatch(t *testing.T) {
	s := streamFor(t, "int x;")
	_, err := s.Expect(lexer.Semicolon)
	assert.Error(t, err)
}

func TestStreamExpectConsumesOnMatch(t *testing.T) {
	s := streamFor(t, "int x;")
	tok, err := s.Expect(lexer.KwInt)
	require.NoError(t, err)
	assert.Equal(t, lexer.KwInt, tok.Kind)
	assert.Equal(t, lexer.Identifier, s.Current().Kind)
}

func TestStreamPeekClampsAtEOF(t *testing.T) {
	s := streamFor(t, "x")
	assert.Equal(t, lexer.Identifier, s.Peek(0).Kind)
	assert.Equal(t, lexer.EOF, s.Peek(5).Kind)
}

func TestStreamPreviousClampsAtStart(t *testing.T) {
	s := streamFor(t, "x")
	assert.Equal(t, lexer.Identifier, s.Previous(5).Kind)
}

func TestStreamRemapPositionsResolvesOriginalSource(t *testing.T) {
	s := streamFor(t, "int x;")
	posMap := &source.PositionMap{}
	posMap.Add(source.Zero, source.Position{File: "orig.h", Line: 5, Column: 1}, "")
	s.RemapPositions(posMap)
	assert.Equal(t, "orig.h", s.Current().Pos.File)
	assert.Equal(t, 5, s.Current().Pos.Line)
}

func TestStreamRemapPositionsLeavesUnmappedTokensUntouched(t *testing.T) {
	s := streamFor(t, "int x;")
	before := s.Current().Pos
	s.RemapPositions(&source.PositionMap{})
	assert.Equal(t, before, s.Current().Pos)
}
