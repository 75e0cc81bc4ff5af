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

// Package token provides the TokenStream the parser reads from: a fully
// materialized token buffer (C10) with the peek/advance/save-restore
// primitives recursive-descent parsing needs, generalizing the teacher's
// single-token-lookahead tokenReader to the full lexer.Token catalog and
// arbitrary lookahead.
package token

import (
	"fmt"

	"github.com/EngFlow/ccfront/internal/cc/lexer"
	"github.com/EngFlow/ccfront/internal/cc/source"
)

// Stream is a cursor over a fixed slice of Tokens, always terminated by
// an EOF token. It never mutates the underlying slice, so Mark/Reset are
// simple index copies.
type Stream struct {
	tokens []lexer.Token
	pos    int
}

// FromLexer drains lx completely into a Stream. The parser operates over
// already-expanded, fully-lexed input, so the whole translation unit's
// tokens are available for backtracking up front.
func FromLexer(lx *lexer.Lexer) (*Stream, error) {
	var toks []lexer.Token
	for {
		tok, err := lx.Next()
		if err != nil {
			return nil, fmt.Errorf("token: %w", err)
		}
		toks = append(toks, tok)
		if tok.Kind == lexer.EOF {
			break
		}
	}
	return New(toks), nil
}

// RemapPositions resolves every token's Pos and Range through posMap,
// replacing expanded-text offsets with the original source positions they
// trace back to (spec.md §4.9). Tokens with no mapping entry (possible
// only before the first emitted line) are left untouched. EOF's position
// is remapped the same as any other token so a trailing diagnostic still
// names a real source location.
func (s *Stream) RemapPositions(posMap *source.PositionMap) {
	if posMap == nil {
		return
	}
	for i := range s.tokens {
		tok := &s.tokens[i]
		if orig, ok := posMap.Lookup(tok.Pos); ok {
			tok.Pos = orig
		}
		if orig, ok := posMap.Lookup(tok.Range.Start); ok {
			tok.Range.Start = orig
		}
		if orig, ok := posMap.Lookup(tok.Range.End); ok {
			tok.Range.End = orig
		}
	}
}

// New wraps an already-materialized token slice. If it does not already
// end in an EOF token, one is appended at the final token's position.
func New(tokens []lexer.Token) *Stream {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != lexer.EOF {
		pos := source.Zero
		if len(tokens) > 0 {
			pos = tokens[len(tokens)-1].Pos
		}
		tokens = append(tokens, lexer.Token{Kind: lexer.EOF, Pos: pos})
	}
	return &Stream{tokens: tokens}
}

// Current returns the token at the cursor without advancing.
func (s *Stream) Current() lexer.Token { return s.at(s.pos) }

// Peek returns the token k positions ahead of the cursor (Peek(0) ==
// Current()), clamping to the trailing EOF token past the end.
func (s *Stream) Peek(k int) lexer.Token { return s.at(s.pos + k) }

// Advance consumes and returns the current token, moving the cursor
// forward by one. Advancing past EOF keeps returning EOF.
func (s *Stream) Advance() lexer.Token {
	tok := s.Current()
	if s.pos < len(s.tokens)-1 {
		s.pos++
	}
	return tok
}

// Previous returns the token k positions behind the cursor (Previous(1)
// is the token last returned by Advance), clamping to the first token.
func (s *Stream) Previous(k int) lexer.Token { return s.at(s.pos - k) }

// AtEOF reports whether the cursor is at the terminal EOF token.
func (s *Stream) AtEOF() bool { return s.Current().Kind == lexer.EOF }

// Mark is an opaque save point for backtracking; see Stream.Reset.
type Mark int

// Save captures the current cursor position for later Reset, supporting
// the parser's save/restore disambiguation technique (spec.md §4.10).
func (s *Stream) Save() Mark { return Mark(s.pos) }

// Reset restores the cursor to a position previously returned by Save.
func (s *Stream) Reset(m Mark) { s.pos = int(m) }

// Check reports whether the current token has the given kind without
// consuming it.
func (s *Stream) Check(kind lexer.TokenKind) bool { return s.Current().Kind == kind }

// Match consumes and returns true if the current token has the given
// kind; otherwise it leaves the cursor untouched and returns false.
func (s *Stream) Match(kind lexer.TokenKind) bool {
	if s.Check(kind) {
		s.Advance()
		return true
	}
	return false
}

// Expect consumes the current token if it has the given kind, or returns
// a descriptive error without consuming anything otherwise.
func (s *Stream) Expect(kind lexer.TokenKind) (lexer.Token, error) {
	if !s.Check(kind) {
		return lexer.Token{}, fmt.Errorf("token: expected %s but found %s at %s", kind, s.Current().Kind, s.Current().Pos)
	}
	return s.Advance(), nil
}

func (s *Stream) at(i int) lexer.Token {
	if i < 0 {
		i = 0
	}
	if i >= len(s.tokens) {
		i = len(s.tokens) - 1
	}
	return s.tokens[i]
}
