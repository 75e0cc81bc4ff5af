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

// Package parser builds an ast.TranslationUnit from a token.Stream by
// recursive descent: predictive dispatch on one or two tokens of
// lookahead, save/restore backtracking to disambiguate declarations from
// expression statements, and synchronizing error recovery, per spec.md
// §4.10.
package parser

import (
	"fmt"

	"github.com/EngFlow/ccfront/internal/cc/ast"
	"github.com/EngFlow/ccfront/internal/cc/ccerrors"
	"github.com/EngFlow/ccfront/internal/cc/lexer"
	"github.com/EngFlow/ccfront/internal/cc/source"
	"github.com/EngFlow/ccfront/internal/cc/token"
	"github.com/EngFlow/ccfront/internal/collections"
)

// Stats accumulates the counters spec.md §4.10 asks for: tokens consumed,
// AST nodes built, and how many times error recovery had to resynchronize.
type Stats struct {
	TokensProcessed  int
	NodesCreated     int
	RecoveryAttempts int
}

// Parser holds the mutable state of one recursive-descent pass: the token
// cursor, the error sink, a stack of typedef-name scopes, and run
// statistics. A Parser is single-use, matching spec.md §5 (one parser per
// translation unit, never shared across goroutines).
type Parser struct {
	stream  *token.Stream
	errors  *ccerrors.Handler
	recover bool

	typedefScopes []collections.Set[string]
	stats         Stats
}

// New builds a Parser over stream. recoveryEnabled mirrors the
// recovery_enabled configuration option (spec.md §6): when false, the
// first syntax error aborts parsing instead of resynchronizing.
func New(stream *token.Stream, errors *ccerrors.Handler, recoveryEnabled bool) *Parser {
	return &Parser{
		stream:        stream,
		errors:        errors,
		recover:       recoveryEnabled,
		typedefScopes: []collections.Set[string]{make(collections.Set[string])},
	}
}

// Stats returns the run statistics accumulated so far.
func (p *Parser) Stats() Stats { return p.stats }

// Parse consumes the entire stream and returns the resulting translation
// unit. Individual external declarations that fail to parse are recorded
// as ccerrors.Diagnostics and skipped via synchronize; Parse itself only
// returns an error when recovery is disabled or the error ceiling is hit.
func (p *Parser) Parse() (*ast.TranslationUnit, error) {
	start := p.current().Pos
	var decls []ast.Node
	for !p.atEOF() {
		decl, err := p.parseExternalDeclaration()
		if err != nil {
			if rerr := p.recoverFromError(err); rerr != nil {
				return nil, rerr
			}
			continue
		}
		if decl != nil {
			decls = append(decls, decl)
		}
	}
	tu := &ast.TranslationUnit{Base: ast.Base{SrcRange: p.spanFrom(start)}, Declarations: decls}
	p.countNode()
	return tu, nil
}

func (p *Parser) recoverFromError(err error) error {
	p.report(err)
	if !p.recover {
		return err
	}
	p.stats.RecoveryAttempts++
	p.synchronize()
	if p.errors != nil && p.errors.ShouldStop() {
		return fmt.Errorf("parser: error ceiling exceeded: %w", err)
	}
	return nil
}

func (p *Parser) report(err error) {
	if p.errors == nil {
		return
	}
	p.errors.Report(ccerrors.Diagnostic{
		Kind:      ccerrors.Syntax,
		Severity:  ccerrors.Error,
		Position:  p.current().Pos,
		Message:   err.Error(),
		Component: "parser",
	})
}

// synchronize discards tokens until it reaches one of spec.md §4.10's
// synchronization points: ';', '}', or a statement-starting keyword. The
// terminating ';'/'}' is consumed; a synchronizing keyword is left in
// place so the caller's next parse attempt sees it.
func (p *Parser) synchronize() {
	for !p.atEOF() {
		tok := p.current()
		if tok.Kind == lexer.Semicolon {
			p.advance()
			return
		}
		if tok.Kind == lexer.RBrace {
			p.advance()
			return
		}
		if isStatementStart(tok.Kind) {
			return
		}
		p.advance()
	}
}

func isStatementStart(k lexer.TokenKind) bool {
	switch k {
	case lexer.KwIf, lexer.KwWhile, lexer.KwFor, lexer.KwDo, lexer.KwSwitch,
		lexer.KwReturn, lexer.KwBreak, lexer.KwContinue, lexer.KwGoto,
		lexer.KwCase, lexer.KwDefault, lexer.LBrace,
		lexer.KwInt, lexer.KwChar, lexer.KwFloat, lexer.KwDouble, lexer.KwVoid,
		lexer.KwShort, lexer.KwLong, lexer.KwSigned, lexer.KwUnsigned,
		lexer.KwStruct, lexer.KwUnion, lexer.KwEnum, lexer.KwTypedef:
		return true
	default:
		return false
	}
}

// ---- token cursor helpers (wrap token.Stream, tracking stats) ----

func (p *Parser) current() lexer.Token { return p.stream.Current() }
func (p *Parser) peek(k int) lexer.Token { return p.stream.Peek(k) }
func (p *Parser) atEOF() bool { return p.stream.AtEOF() }

func (p *Parser) advance() lexer.Token {
	p.stats.TokensProcessed++
	return p.stream.Advance()
}

func (p *Parser) check(kind lexer.TokenKind) bool { return p.stream.Check(kind) }

func (p *Parser) match(kind lexer.TokenKind) bool {
	if p.check(kind) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(kind lexer.TokenKind) (lexer.Token, error) {
	if !p.check(kind) {
		return lexer.Token{}, fmt.Errorf("parser: expected %s but found %s at %s", kind, p.current().Kind, p.current().Pos)
	}
	return p.advance(), nil
}

func (p *Parser) save() token.Mark    { return p.stream.Save() }
func (p *Parser) reset(m token.Mark)  { p.stream.Reset(m) }

func (p *Parser) countNode() { p.stats.NodesCreated++ }

// spanFrom builds the SourceRange from start to the end of the last
// consumed token, as every constructed node's Range must per spec.md
// §4.10.
func (p *Parser) spanFrom(start source.Position) source.SourceRange {
	return source.SourceRange{Start: start, End: p.stream.Previous(1).Range.End}
}

// newRange is spanFrom plus the NodesCreated bookkeeping every node
// constructor needs; callers still build the struct literal themselves so
// each node type stays a plain, directly-constructible value.
func (p *Parser) newRange(start source.Position) ast.Base {
	p.countNode()
	return ast.Base{SrcRange: p.spanFrom(start)}
}

// ---- typedef-name scope stack ----

func (p *Parser) pushScope() {
	p.typedefScopes = append(p.typedefScopes, make(collections.Set[string]))
}

func (p *Parser) popScope() {
	p.typedefScopes = p.typedefScopes[:len(p.typedefScopes)-1]
}

func (p *Parser) declareTypedef(name string) {
	p.typedefScopes[len(p.typedefScopes)-1].Add(name)
}

func (p *Parser) isTypedefName(name string) bool {
	for i := len(p.typedefScopes) - 1; i >= 0; i-- {
		if p.typedefScopes[i].Contains(name) {
			return true
		}
	}
	return false
}
