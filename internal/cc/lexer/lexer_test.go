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

package lexer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EngFlow/ccfront/internal/cc/dialect"
)

func scanAll(t *testing.T, src string, d dialect.Dialect) []Token {
	t.Helper()
	lx := NewLexer(NewLookaheadBuffer(strings.NewReader(src)), d)
	var toks []Token
	for {
		tok, err := lx.Next()
		require.NoError(t, err)
		toks = append(toks, tok)
		if tok.Kind == EOF {
			break
		}
	}
	return toks
}

func kinds(toks []Token) []TokenKind {
	out := make([]TokenKind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestLexerIdentifiersAndKeywords(t *testing.T) {
	toks := scanAll(t, "int foo_bar return", dialect.C17)
	require.Len(t, toks, 4)
	assert.Equal(t, KwInt, toks[0].Kind)
	assert.Equal(t, Identifier, toks[1].Kind)
	assert.Equal(t, "foo_bar", toks[1].Lexeme)
	assert.Equal(t, KwReturn, toks[2].Kind)
	assert.Equal(t, EOF, toks[3].Kind)
}

func TestLexerDialectGatesKeywords(t *testing.T) {
	toks := scanAll(t, "inline", dialect.C89)
	assert.Equal(t, Identifier, toks[0].Kind)

	toks = scanAll(t, "inline", dialect.C99)
	assert.Equal(t, KwInline, toks[0].Kind)

	toks = scanAll(t, "_Alignof", dialect.C99)
	assert.Equal(t, Identifier, toks[0].Kind)

	toks = scanAll(t, "_Alignof", dialect.C11)
	assert.Equal(t, KwAlignof, toks[0].Kind)
}

func TestLexerNumericLiterals(t *testing.T) {
	cases := []struct {
		src  string
		kind TokenKind
	}{
		{"42", IntegerLiteral},
		{"0x2A", IntegerLiteral},
		{"0777", IntegerLiteral},
		{"3.14", FloatLiteral},
		{"1e10", FloatLiteral},
		{"0x1p4", FloatLiteral},
		{"42UL", IntegerLiteral},
		{"1.5f", FloatLiteral},
	}
	for _, tc := range cases {
		t.Run(tc.src, func(t *testing.T) {
			toks := scanAll(t, tc.src, dialect.C17)
			require.Len(t, toks, 2)
			assert.Equal(t, tc.kind, toks[0].Kind)
			assert.Equal(t, tc.src, toks[0].Lexeme)
		})
	}
}

func TestLexerStringAndCharLiterals(t *testing.T) {
	toks := scanAll(t, `"hello\nworld" 'a' '\0'`, dialect.C17)
	require.Len(t, toks, 4)
	assert.Equal(t, StringLiteral, toks[0].Kind)
	assert.Equal(t, `"hello\nworld"`, toks[0].Lexeme)
	assert.Equal(t, CharLiteral, toks[1].Kind)
	assert.Equal(t, `'a'`, toks[1].Lexeme)
	assert.Equal(t, CharLiteral, toks[2].Kind)
	assert.Equal(t, `'\0'`, toks[2].Lexeme)
}

func TestLexerPunctuatorsMaximalMunch(t *testing.T) {
	toks := scanAll(t, "<<= << < -> -- - ...", dialect.C17)
	assert.Equal(t, []TokenKind{ShlAssign, Shl, Less, Arrow, Decrement, Minus, Ellipsis, EOF}, kinds(toks))
}

func TestLexerSkipsComments(t *testing.T) {
	toks := scanAll(t, "int /* comment */ x; // trailing\nreturn", dialect.C17)
	assert.Equal(t, []TokenKind{KwInt, Identifier, Semicolon, KwReturn, EOF}, kinds(toks))
}

func TestLexerUnterminatedBlockCommentErrors(t *testing.T) {
	lx := NewLexer(NewLookaheadBuffer(strings.NewReader("/* not closed")), dialect.C17)
	_, err := lx.Next()
	assert.Error(t, err)
}

func TestLexerUnterminatedStringErrors(t *testing.T) {
	lx := NewLexer(NewLookaheadBuffer(strings.NewReader(`"abc`)), dialect.C17)
	_, err := lx.Next()
	assert.Error(t, err)
}
