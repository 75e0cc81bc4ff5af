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
)

// precedence orders the binary operator ladder from spec.md §4.5/§4.10,
// lowest first. Climbing is the same minPrec/prec+1 recursion constexpr's
// parser uses for the constant-expression subset, generalized here to the
// full runtime-expression grammar.
type precedence int

const (
	precLogicalOr precedence = iota + 1
	precLogicalAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precRelational
	precShift
	precAdditive
	precMultiplicative
)

var binaryPrecedence = map[lexer.TokenKind]precedence{
	lexer.LogicalOr:  precLogicalOr,
	lexer.LogicalAnd: precLogicalAnd,
	lexer.Pipe:       precBitOr,
	lexer.Caret:      precBitXor,
	lexer.Amp:        precBitAnd,
	lexer.Eq:         precEquality,
	lexer.NotEq:      precEquality,
	lexer.Less:       precRelational,
	lexer.Greater:    precRelational,
	lexer.LessEq:     precRelational,
	lexer.GreaterEq:  precRelational,
	lexer.Shl:        precShift,
	lexer.Shr:        precShift,
	lexer.Plus:       precAdditive,
	lexer.Minus:      precAdditive,
	lexer.Star:       precMultiplicative,
	lexer.Slash:      precMultiplicative,
	lexer.Percent:    precMultiplicative,
}

var assignmentOperators = map[lexer.TokenKind]bool{
	lexer.Assign: true, lexer.PlusAssign: true, lexer.MinusAssign: true,
	lexer.StarAssign: true, lexer.SlashAssign: true, lexer.PercentAssign: true,
	lexer.AmpAssign: true, lexer.PipeAssign: true, lexer.CaretAssign: true,
	lexer.ShlAssign: true, lexer.ShrAssign: true,
}

var unaryPrefixOperators = map[lexer.TokenKind]bool{
	lexer.Plus: true, lexer.Minus: true, lexer.LogicalNot: true, lexer.Tilde: true,
	lexer.Star: true, lexer.Amp: true, lexer.Increment: true, lexer.Decrement: true,
}

// parseExpression parses the comma operator, the widest expression form,
// used wherever a full C `expression` is required (expression statements,
// for-loop clauses).
func (p *Parser) parseExpression() (ast.Node, error) {
	start := p.current().Pos
	first, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	if !p.check(lexer.Comma) {
		return first, nil
	}
	exprs := []ast.Node{first}
	for p.match(lexer.Comma) {
		next, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, next)
	}
	return &ast.CommaExpression{Base: p.newRange(start), Expressions: exprs}, nil
}

// parseAssignment parses right-associative assignment: `unary op
// assignment` for every compound-assignment operator, falling back to the
// ternary level when no assignment operator follows.
func (p *Parser) parseAssignment() (ast.Node, error) {
	start := p.current().Pos
	left, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if !assignmentOperators[p.current().Kind] {
		return left, nil
	}
	opTok := p.advance()
	right, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	return &ast.AssignmentExpression{Base: p.newRange(start), Op: opTok.Kind.String(), Left: left, Right: right}, nil
}

// parseTernary parses the right-associative `cond ? then : else_`.
func (p *Parser) parseTernary() (ast.Node, error) {
	start := p.current().Pos
	cond, err := p.parseBinary(precLogicalOr)
	if err != nil {
		return nil, err
	}
	if !p.match(lexer.Question) {
		return cond, nil
	}
	then, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Colon); err != nil {
		return nil, err
	}
	elseExpr, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	return &ast.TernaryExpression{Base: p.newRange(start), Condition: cond, Then: then, Else: elseExpr}, nil
}

// parseBinary climbs the binary operator ladder starting at minPrec,
// left-associatively combining operators at the same precedence level.
func (p *Parser) parseBinary(minPrec precedence) (ast.Node, error) {
	start := p.current().Pos
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		prec, ok := binaryPrecedence[p.current().Kind]
		if !ok || prec < minPrec {
			return left, nil
		}
		opTok := p.advance()
		right, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpression{Base: p.newRange(start), Op: opTok.Kind.String(), Left: left, Right: right}
	}
}

// parseUnary parses a prefix operator, sizeof, a possible cast, or falls
// through to postfix/primary. Cast and sizeof(type) both need a tentative
// parse to tell a parenthesized type name from a parenthesized expression,
// per spec.md §4.10's disambiguation rule.
func (p *Parser) parseUnary() (ast.Node, error) {
	start := p.current().Pos

	if unaryPrefixOperators[p.current().Kind] {
		opTok := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpression{Base: p.newRange(start), Op: opTok.Kind.String(), Operand: operand}, nil
	}

	if p.check(lexer.KwSizeof) {
		p.advance()
		if p.check(lexer.LParen) {
			mark := p.save()
			p.advance() // '('
			if typeName, ok := p.tryParseTypeName(); ok && p.check(lexer.RParen) {
				p.advance()
				return &ast.SizeofExpression{Base: p.newRange(start), Type: typeName}, nil
			}
			p.reset(mark)
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.SizeofExpression{Base: p.newRange(start), Expression: operand}, nil
	}

	if p.check(lexer.LParen) && p.isTypeSpecifierStart(p.peek(1)) {
		mark := p.save()
		p.advance() // '('
		if typeName, ok := p.tryParseTypeName(); ok && p.check(lexer.RParen) {
			p.advance()
			operand, err := p.parseUnary()
			if err == nil {
				return &ast.CastExpression{Base: p.newRange(start), TargetType: typeName, Expression: operand}, nil
			}
		}
		p.reset(mark)
	}

	return p.parsePostfix()
}

// tryParseTypeName parses a type-specifier sequence optionally followed by
// pointer stars, the grammar spec.md §4.10 calls a "type name" (used inside
// casts and sizeof). It reports ok=false, leaving the cursor untouched by
// its caller's responsibility to Reset, if no type specifier is present.
func (p *Parser) tryParseTypeName() (string, bool) {
	var words []string
	sawType := false
	for {
		tok := p.current()
		switch {
		case isQualifierKeyword(tok.Kind):
			words = append(words, tok.Kind.String())
			p.advance()
		case isBasicTypeKeyword(tok.Kind):
			words = append(words, tok.Kind.String())
			sawType = true
			p.advance()
		case tok.Kind == lexer.KwStruct || tok.Kind == lexer.KwUnion || tok.Kind == lexer.KwEnum:
			p.advance()
			tag := ""
			if p.check(lexer.Identifier) {
				tag = p.advance().Lexeme
			}
			text := tok.Kind.String()
			if tag != "" {
				text += " " + tag
			}
			words = append(words, text)
			sawType = true
		case tok.Kind == lexer.Identifier && !sawType && p.isTypedefName(tok.Lexeme):
			words = append(words, tok.Lexeme)
			sawType = true
			p.advance()
		default:
			if !sawType {
				return "", false
			}
			stars := 0
			for p.match(lexer.Star) {
				stars++
			}
			typeName := joinWords(words)
			if stars > 0 {
				typeName += " " + repeatStar(stars)
			}
			return typeName, true
		}
	}
}

func joinWords(words []string) string {
	out := ""
	for i, w := range words {
		if i > 0 {
			out += " "
		}
		out += w
	}
	return out
}

func repeatStar(n int) string {
	out := make([]byte, n)
	for i := range out {
		out[i] = '*'
	}
	return string(out)
}

func (p *Parser) parsePostfix() (ast.Node, error) {
	start := p.current().Pos
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.current().Kind {
		case lexer.LParen:
			p.advance()
			args, err := p.parseArgumentList()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.RParen); err != nil {
				return nil, err
			}
			expr = &ast.CallExpression{Base: p.newRange(start), Function: expr, Args: args}
		case lexer.Dot:
			p.advance()
			nameTok, err := p.expect(lexer.Identifier)
			if err != nil {
				return nil, err
			}
			expr = &ast.MemberExpression{Base: p.newRange(start), Object: expr, Member: nameTok.Lexeme}
		case lexer.Arrow:
			p.advance()
			nameTok, err := p.expect(lexer.Identifier)
			if err != nil {
				return nil, err
			}
			expr = &ast.MemberExpression{Base: p.newRange(start), Object: expr, Member: nameTok.Lexeme, ViaArrow: true}
		case lexer.LBracket:
			p.advance()
			index, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.RBracket); err != nil {
				return nil, err
			}
			expr = &ast.ArrayAccess{Base: p.newRange(start), Array: expr, Index: index}
		case lexer.Increment:
			p.advance()
			expr = &ast.PostfixExpression{Base: p.newRange(start), Op: "++", Operand: expr}
		case lexer.Decrement:
			p.advance()
			expr = &ast.PostfixExpression{Base: p.newRange(start), Op: "--", Operand: expr}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parseArgumentList() ([]ast.Node, error) {
	if p.check(lexer.RParen) {
		return nil, nil
	}
	var args []ast.Node
	for {
		arg, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !p.match(lexer.Comma) {
			return args, nil
		}
	}
}

func (p *Parser) parsePrimary() (ast.Node, error) {
	start := p.current().Pos
	tok := p.current()
	switch tok.Kind {
	case lexer.Identifier:
		p.advance()
		return &ast.Identifier{Base: p.newRange(start), Name: tok.Lexeme}, nil
	case lexer.IntegerLiteral:
		p.advance()
		value, err := parseIntegerLiteral(tok.Lexeme)
		if err != nil {
			return nil, err
		}
		return &ast.IntegerLiteral{Base: p.newRange(start), Value: value, Text: tok.Lexeme}, nil
	case lexer.FloatLiteral:
		p.advance()
		value, err := parseFloatLiteral(tok.Lexeme)
		if err != nil {
			return nil, err
		}
		return &ast.FloatLiteral{Base: p.newRange(start), Value: value, Text: tok.Lexeme}, nil
	case lexer.StringLiteral:
		p.advance()
		value, err := unescapeCString(tok.Lexeme)
		if err != nil {
			return nil, err
		}
		return &ast.StringLiteral{Base: p.newRange(start), Value: value}, nil
	case lexer.CharLiteral:
		p.advance()
		value, err := unescapeCChar(tok.Lexeme)
		if err != nil {
			return nil, err
		}
		return &ast.CharLiteral{Base: p.newRange(start), Value: value}, nil
	case lexer.LParen:
		p.advance()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RParen); err != nil {
			return nil, err
		}
		return inner, nil
	default:
		return nil, fmt.Errorf("parser: unexpected token %s at %s", tok.Kind, tok.Pos)
	}
}
