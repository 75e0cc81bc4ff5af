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

package parser

import (
	"fmt"

	"github.com/EngFlow/ccfront/internal/cc/ast"
	"github.com/EngFlow/ccfront/internal/cc/lexer"
	"github.com/EngFlow/ccfront/internal/cc/source"
)

// parseCompoundStatement parses `{ block-item* }`, pushing a fresh
// typedef-name scope for the block per spec.md §4.10's scoping rule.
func (p *Parser) parseCompoundStatement() (*ast.CompoundStatement, error) {
	start := p.current().Pos
	if _, err := p.expect(lexer.LBrace); err != nil {
		return nil, err
	}
	p.pushScope()
	defer p.popScope()

	var stmts []ast.Node
	for !p.check(lexer.RBrace) && !p.atEOF() {
		stmt, err := p.parseBlockItem()
		if err != nil {
			if rerr := p.recoverFromError(err); rerr != nil {
				return nil, rerr
			}
			continue
		}
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	if _, err := p.expect(lexer.RBrace); err != nil {
		return nil, err
	}
	return &ast.CompoundStatement{Base: p.newRange(start), Statements: stmts}, nil
}

// parseBlockItem parses one declaration-or-statement inside a compound
// statement. C99 allows declarations anywhere in a block, so it first
// tries a declaration tentatively and falls back to a statement if that
// didn't pan out, per spec.md §4.10's disambiguation rule.
func (p *Parser) parseBlockItem() (ast.Node, error) {
	if p.isDeclarationStart(p.current()) {
		mark := p.save()
		decl, err := p.parseDeclarationOrDefinition(false)
		if err == nil {
			return decl, nil
		}
		p.reset(mark)
	}
	return p.parseStatement()
}

func (p *Parser) parseStatement() (ast.Node, error) {
	start := p.current().Pos
	switch p.current().Kind {
	case lexer.LBrace:
		return p.parseCompoundStatement()
	case lexer.KwIf:
		return p.parseIfStatement()
	case lexer.KwWhile:
		return p.parseWhileStatement()
	case lexer.KwDo:
		return p.parseDoWhileStatement()
	case lexer.KwFor:
		return p.parseForStatement()
	case lexer.KwSwitch:
		return p.parseSwitchStatement()
	case lexer.KwBreak:
		p.advance()
		if _, err := p.expect(lexer.Semicolon); err != nil {
			return nil, err
		}
		return &ast.BreakStatement{Base: p.newRange(start)}, nil
	case lexer.KwContinue:
		p.advance()
		if _, err := p.expect(lexer.Semicolon); err != nil {
			return nil, err
		}
		return &ast.ContinueStatement{Base: p.newRange(start)}, nil
	case lexer.KwReturn:
		p.advance()
		var expr ast.Node
		if !p.check(lexer.Semicolon) {
			var err error
			expr, err = p.parseExpression()
			if err != nil {
				return nil, err
			}
		}
		if _, err := p.expect(lexer.Semicolon); err != nil {
			return nil, err
		}
		return &ast.ReturnStatement{Base: p.newRange(start), Expression: expr}, nil
	case lexer.KwGoto:
		p.advance()
		labelTok, err := p.expect(lexer.Identifier)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.Semicolon); err != nil {
			return nil, err
		}
		return &ast.GotoStatement{Base: p.newRange(start), Label: labelTok.Lexeme}, nil
	case lexer.Semicolon:
		p.advance()
		return &ast.ExpressionStatement{Base: p.newRange(start)}, nil
	case lexer.Identifier:
		if p.peek(1).Kind == lexer.Colon {
			label := p.advance().Lexeme
			p.advance() // ':'
			stmt, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			return &ast.LabeledStatement{Base: p.newRange(start), Label: label, Statement: stmt}, nil
		}
		return p.parseExpressionStatement(start)
	default:
		return p.parseExpressionStatement(start)
	}
}

func (p *Parser) parseExpressionStatement(start source.Position) (ast.Node, error) {
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Semicolon); err != nil {
		return nil, err
	}
	return &ast.ExpressionStatement{Base: p.newRange(start), Expression: expr}, nil
}

func (p *Parser) parseIfStatement() (ast.Node, error) {
	start := p.current().Pos
	p.advance() // 'if'
	if _, err := p.expect(lexer.LParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RParen); err != nil {
		return nil, err
	}
	then, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	var elseStmt ast.Node
	if p.match(lexer.KwElse) {
		elseStmt, err = p.parseStatement()
		if err != nil {
			return nil, err
		}
	}
	return &ast.IfStatement{Base: p.newRange(start), Condition: cond, Then: then, Else: elseStmt}, nil
}

func (p *Parser) parseWhileStatement() (ast.Node, error) {
	start := p.current().Pos
	p.advance() // 'while'
	if _, err := p.expect(lexer.LParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RParen); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStatement{Base: p.newRange(start), Condition: cond, Body: body}, nil
}

func (p *Parser) parseDoWhileStatement() (ast.Node, error) {
	start := p.current().Pos
	p.advance() // 'do'
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.KwWhile); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Semicolon); err != nil {
		return nil, err
	}
	return &ast.DoWhileStatement{Base: p.newRange(start), Body: body, Condition: cond}, nil
}

func (p *Parser) parseForStatement() (ast.Node, error) {
	start := p.current().Pos
	p.advance() // 'for'
	if _, err := p.expect(lexer.LParen); err != nil {
		return nil, err
	}

	var init ast.Node
	switch {
	case p.check(lexer.Semicolon):
		p.advance()
	case p.isDeclarationStart(p.current()):
		var err error
		init, err = p.parseDeclarationOrDefinition(false)
		if err != nil {
			return nil, err
		}
	default:
		istart := p.current().Pos
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.Semicolon); err != nil {
			return nil, err
		}
		init = &ast.ExpressionStatement{Base: p.newRange(istart), Expression: expr}
	}

	var cond ast.Node
	if !p.check(lexer.Semicolon) {
		var err error
		cond, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.Semicolon); err != nil {
		return nil, err
	}

	var update ast.Node
	if !p.check(lexer.RParen) {
		var err error
		update, err = p.parseExpression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(lexer.RParen); err != nil {
		return nil, err
	}

	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &ast.ForStatement{Base: p.newRange(start), Init: init, Condition: cond, Update: update, Body: body}, nil
}

func (p *Parser) parseSwitchStatement() (ast.Node, error) {
	start := p.current().Pos
	p.advance() // 'switch'
	if _, err := p.expect(lexer.LParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.RParen); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LBrace); err != nil {
		return nil, err
	}

	var cases []ast.SwitchCase
	for !p.check(lexer.RBrace) && !p.atEOF() {
		var value ast.Node
		switch {
		case p.match(lexer.KwCase):
			value, err = p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.Colon); err != nil {
				return nil, err
			}
		case p.match(lexer.KwDefault):
			if _, err := p.expect(lexer.Colon); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("parser: expected 'case' or 'default' in switch body at %s", p.current().Pos)
		}

		var stmts []ast.Node
		for !p.check(lexer.KwCase) && !p.check(lexer.KwDefault) && !p.check(lexer.RBrace) && !p.atEOF() {
			stmt, err := p.parseBlockItem()
			if err != nil {
				if rerr := p.recoverFromError(err); rerr != nil {
					return nil, rerr
				}
				continue
			}
			if stmt != nil {
				stmts = append(stmts, stmt)
			}
		}
		cases = append(cases, ast.SwitchCase{Value: value, Statements: stmts})
	}
	if _, err := p.expect(lexer.RBrace); err != nil {
		return nil, err
	}
	return &ast.SwitchStatement{Base: p.newRange(start), Condition: cond, Cases: cases}, nil
}
