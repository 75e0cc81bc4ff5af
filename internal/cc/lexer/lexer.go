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

// Package lexer turns expanded C source text into a token stream: a
// bounded lookahead character buffer (LookaheadBuffer, spec component C3)
// feeds a maximal-munch scanner (Lexer, spec component C9) that emits
// Tokens over the closed TokenKind catalog.
package lexer

import (
	"fmt"
	"strings"

	"github.com/EngFlow/ccfront/internal/cc/dialect"
	"github.com/EngFlow/ccfront/internal/cc/source"
)

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentContinue(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isWhitespace(c byte) bool {
	switch c {
	case ' ', '\t', '\v', '\f', '\r', '\n':
		return true
	default:
		return false
	}
}

// Lexer scans Tokens out of a LookaheadBuffer. It is single-use and
// single-threaded, matching spec.md §5: one Lexer per translation unit,
// never shared.
type Lexer struct {
	buf      *LookaheadBuffer
	pos      source.Position
	dialect  dialect.Dialect
	keywords map[string]TokenKind
}

// NewLexer constructs a Lexer reading from buf, classifying identifiers
// against d's keyword set.
func NewLexer(buf *LookaheadBuffer, d dialect.Dialect) *Lexer {
	return &Lexer{buf: buf, pos: source.Zero, dialect: d, keywords: keywordTable(d)}
}

// Position reports the lexer's current position in the text it is reading
// (the expanded text if fed from the preprocessor driver; the caller is
// responsible for resolving this back to an original position through a
// source.PositionMap when one is in play).
func (lx *Lexer) Position() source.Position { return lx.pos }

func (lx *Lexer) advance() (byte, error) {
	c, err := lx.buf.Consume()
	if err != nil {
		return 0, err
	}
	lx.pos = lx.pos.AdvancedBy(string(c))
	return c, nil
}

func (lx *Lexer) peek(offset int) (byte, bool) {
	return lx.buf.Peek(offset)
}

// skipWhitespaceAndComments discards whitespace, `//` line comments, and
// `/* ... */` block comments, per spec.md §4.9. It returns an error only
// for an unterminated block comment.
func (lx *Lexer) skipWhitespaceAndComments() error {
	for {
		c, ok := lx.peek(0)
		if !ok {
			return nil
		}
		switch {
		case isWhitespace(c):
			lx.advance()
		case c == '/' && peekEquals(lx, 1, '/'):
			for {
				c, ok := lx.peek(0)
				if !ok || c == '\n' {
					break
				}
				lx.advance()
			}
		case c == '/' && peekEquals(lx, 1, '*'):
			start := lx.pos
			lx.advance()
			lx.advance()
			closed := false
			for {
				c, ok := lx.peek(0)
				if !ok {
					return fmt.Errorf("lexer: unterminated block comment starting at %s", start)
				}
				if c == '*' && peekEquals(lx, 1, '/') {
					lx.advance()
					lx.advance()
					closed = true
					break
				}
				lx.advance()
			}
			if !closed {
				return fmt.Errorf("lexer: unterminated block comment starting at %s", start)
			}
		default:
			return nil
		}
	}
}

func peekEquals(lx *Lexer, offset int, want byte) bool {
	c, ok := lx.peek(offset)
	return ok && c == want
}

// Next scans and returns the next Token, or the EOF token once input is
// exhausted.
func (lx *Lexer) Next() (Token, error) {
	if err := lx.skipWhitespaceAndComments(); err != nil {
		return Token{}, err
	}

	start := lx.pos
	c, ok := lx.peek(0)
	if !ok {
		return Token{Kind: EOF, Pos: start, Range: source.SourceRange{Start: start, End: start}}, nil
	}

	var tok Token
	var err error
	switch {
	case isIdentStart(c):
		tok, err = lx.scanIdentifier(start)
	case isDigit(c):
		tok, err = lx.scanNumber(start)
	case c == '.' && isDigitAt(lx, 1):
		tok, err = lx.scanNumber(start)
	case c == '"':
		tok, err = lx.scanString(start)
	case c == '\'':
		tok, err = lx.scanChar(start)
	default:
		tok, err = lx.scanPunctuator(start)
	}
	if err != nil {
		return Token{}, err
	}
	tok.Range = source.SourceRange{Start: start, End: lx.pos}
	return tok, nil
}

func isDigitAt(lx *Lexer, offset int) bool {
	c, ok := lx.peek(offset)
	return ok && isDigit(c)
}

func (lx *Lexer) scanIdentifier(start source.Position) (Token, error) {
	var sb strings.Builder
	for {
		c, ok := lx.peek(0)
		if !ok || !isIdentContinue(c) {
			break
		}
		lx.advance()
		sb.WriteByte(c)
	}
	text := sb.String()
	if kind, isKeyword := lx.keywords[text]; isKeyword {
		return Token{Kind: kind, Lexeme: text, Pos: start}, nil
	}
	return Token{Kind: Identifier, Lexeme: text, Pos: start}, nil
}

// scanNumber accepts decimal, octal, hex, and hex-float/decimal-float
// literals with standard suffixes, deciding INTEGER_LITERAL vs
// FLOAT_LITERAL by the presence of '.', 'e'/'E', or (for hex) 'p'/'P'.
func (lx *Lexer) scanNumber(start source.Position) (Token, error) {
	var sb strings.Builder
	isFloat := false

	readWhile := func(pred func(byte) bool) {
		for {
			c, ok := lx.peek(0)
			if !ok || !pred(c) {
				return
			}
			lx.advance()
			sb.WriteByte(c)
		}
	}

	isHex := false
	if c, ok := lx.peek(0); ok && c == '0' {
		if c1, ok1 := lx.peek(1); ok1 && (c1 == 'x' || c1 == 'X') {
			isHex = true
			lx.advance()
			sb.WriteByte('0')
			lx.advance()
			sb.WriteByte(c1)
			readWhile(isHexDigit)
		}
	}
	if !isHex {
		readWhile(isDigit)
	}

	if c, ok := lx.peek(0); ok && c == '.' {
		isFloat = true
		lx.advance()
		sb.WriteByte('.')
		if isHex {
			readWhile(isHexDigit)
		} else {
			readWhile(isDigit)
		}
	}

	expChars := "eE"
	if isHex {
		expChars = "pP"
	}
	if c, ok := lx.peek(0); ok && strings.IndexByte(expChars, c) >= 0 {
		isFloat = true
		lx.advance()
		sb.WriteByte(c)
		if c2, ok2 := lx.peek(0); ok2 && (c2 == '+' || c2 == '-') {
			lx.advance()
			sb.WriteByte(c2)
		}
		readWhile(isDigit)
	}

	// Suffixes: u/U, l/L (any combination/repetition), f/F for floats.
	readWhile(func(c byte) bool {
		switch c {
		case 'u', 'U', 'l', 'L', 'f', 'F':
			return true
		default:
			return false
		}
	})

	kind := IntegerLiteral
	if isFloat {
		kind = FloatLiteral
	}
	return Token{Kind: kind, Lexeme: sb.String(), Pos: start}, nil
}

// escapeSequenceChars are the single-character escapes spec.md §4.9 lists:
// \n \t \r \\ \" \' \0 \a \b \f \v, plus \xHH (hex) and \ooo (octal),
// handled separately below.
var escapeSequenceChars = map[byte]bool{
	'n': true, 't': true, 'r': true, '\\': true, '"': true, '\'': true,
	'0': true, 'a': true, 'b': true, 'f': true, 'v': true,
}

func (lx *Lexer) scanEscape(sb *strings.Builder) error {
	c, ok := lx.peek(0)
	if !ok {
		return fmt.Errorf("lexer: unterminated escape sequence")
	}
	switch {
	case c == 'x':
		lx.advance()
		sb.WriteByte('x')
		for {
			c, ok := lx.peek(0)
			if !ok || !isHexDigit(c) {
				break
			}
			lx.advance()
			sb.WriteByte(c)
		}
	case c >= '0' && c <= '7':
		for i := 0; i < 3; i++ {
			c, ok := lx.peek(0)
			if !ok || c < '0' || c > '7' {
				break
			}
			lx.advance()
			sb.WriteByte(c)
		}
	case escapeSequenceChars[c]:
		lx.advance()
		sb.WriteByte(c)
	default:
		return fmt.Errorf("lexer: unrecognized escape sequence '\\%c'", c)
	}
	return nil
}

func (lx *Lexer) scanString(start source.Position) (Token, error) {
	var sb strings.Builder
	sb.WriteByte('"')
	lx.advance()
	for {
		c, ok := lx.peek(0)
		if !ok || c == '\n' {
			return Token{}, fmt.Errorf("lexer: unterminated string literal starting at %s", start)
		}
		if c == '"' {
			lx.advance()
			sb.WriteByte('"')
			break
		}
		if c == '\\' {
			lx.advance()
			sb.WriteByte('\\')
			if err := lx.scanEscape(&sb); err != nil {
				return Token{}, err
			}
			continue
		}
		lx.advance()
		sb.WriteByte(c)
	}
	return Token{Kind: StringLiteral, Lexeme: sb.String(), Pos: start}, nil
}

func (lx *Lexer) scanChar(start source.Position) (Token, error) {
	var sb strings.Builder
	sb.WriteByte('\'')
	lx.advance()
	for {
		c, ok := lx.peek(0)
		if !ok || c == '\n' {
			return Token{}, fmt.Errorf("lexer: unterminated char literal starting at %s", start)
		}
		if c == '\'' {
			lx.advance()
			sb.WriteByte('\'')
			break
		}
		if c == '\\' {
			lx.advance()
			sb.WriteByte('\\')
			if err := lx.scanEscape(&sb); err != nil {
				return Token{}, err
			}
			continue
		}
		lx.advance()
		sb.WriteByte(c)
	}
	return Token{Kind: CharLiteral, Lexeme: sb.String(), Pos: start}, nil
}

func (lx *Lexer) scanPunctuator(start source.Position) (Token, error) {
	lookahead := make([]byte, 0, 3)
	for i := 0; i < 3; i++ {
		c, ok := lx.peek(i)
		if !ok {
			break
		}
		lookahead = append(lookahead, c)
	}
	rule, ok := matchPunctuator(lookahead)
	if !ok {
		c, _ := lx.peek(0)
		lx.advance()
		return Token{}, fmt.Errorf("lexer: unrecognized character %q at %s", c, start)
	}
	for i := 0; i < len(rule.spelling); i++ {
		lx.advance()
	}
	return Token{Kind: rule.kind, Lexeme: rule.spelling, Pos: start}, nil
}
