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
	"strings"

	"github.com/EngFlow/ccfront/internal/cc/ast"
	"github.com/EngFlow/ccfront/internal/cc/lexer"
)

func isStorageClassOrQualifier(k lexer.TokenKind) bool {
	switch k {
	case lexer.KwStatic, lexer.KwExtern, lexer.KwAuto, lexer.KwRegister,
		lexer.KwConst, lexer.KwVolatile, lexer.KwInline, lexer.KwRestrict,
		lexer.KwNoreturn, lexer.KwThreadLocal, lexer.KwAlignas:
		return true
	default:
		return false
	}
}

func isQualifierKeyword(k lexer.TokenKind) bool {
	switch k {
	case lexer.KwConst, lexer.KwVolatile, lexer.KwRestrict:
		return true
	default:
		return false
	}
}

func isBasicTypeKeyword(k lexer.TokenKind) bool {
	switch k {
	case lexer.KwInt, lexer.KwChar, lexer.KwFloat, lexer.KwDouble, lexer.KwVoid,
		lexer.KwShort, lexer.KwLong, lexer.KwSigned, lexer.KwUnsigned,
		lexer.KwBool, lexer.KwComplex:
		return true
	default:
		return false
	}
}

// isTypeSpecifierStart reports whether tok can begin a type-specifier
// sequence: a qualifier, a basic type keyword, a struct/union/enum tag, or
// an identifier already registered as a typedef name.
func (p *Parser) isTypeSpecifierStart(tok lexer.Token) bool {
	switch {
	case isStorageClassOrQualifier(tok.Kind), isBasicTypeKeyword(tok.Kind):
		return true
	case tok.Kind == lexer.KwStruct || tok.Kind == lexer.KwUnion || tok.Kind == lexer.KwEnum:
		return true
	case tok.Kind == lexer.Identifier:
		return p.isTypedefName(tok.Lexeme)
	default:
		return false
	}
}

func (p *Parser) isDeclarationStart(tok lexer.Token) bool {
	return tok.Kind == lexer.KwTypedef || p.isTypeSpecifierStart(tok)
}

// parseDeclarationSpecifiers consumes storage-class keywords, qualifiers,
// and the type-specifier sequence, per spec.md §4.10's DeclarationSpecifiers
// production. It returns the specifier text to use as a node's Type
// string, a StructDeclaration if a struct/union/enum was defined inline
// (nil otherwise), whether that struct/union/enum carried a body, and
// whether `typedef` appeared.
func (p *Parser) parseDeclarationSpecifiers() (specText string, structNode *ast.StructDeclaration, structHasBody bool, isTypedef bool, err error) {
	var words []string
	sawType := false

	for {
		tok := p.current()
		switch {
		case tok.Kind == lexer.KwTypedef:
			isTypedef = true
			p.advance()
		case isStorageClassOrQualifier(tok.Kind):
			words = append(words, tok.Kind.String())
			p.advance()
		case isBasicTypeKeyword(tok.Kind):
			words = append(words, tok.Kind.String())
			sawType = true
			p.advance()
		case tok.Kind == lexer.KwStruct || tok.Kind == lexer.KwUnion || tok.Kind == lexer.KwEnum:
			node, tagText, hasBody, serr := p.parseStructOrUnionOrEnum()
			if serr != nil {
				return "", nil, false, false, serr
			}
			structNode, structHasBody = node, hasBody
			words = append(words, tagText)
			sawType = true
		case tok.Kind == lexer.Identifier && !sawType && p.isTypedefName(tok.Lexeme):
			words = append(words, tok.Lexeme)
			sawType = true
			p.advance()
		default:
			if !sawType {
				return "", nil, false, false, fmt.Errorf("parser: expected a type specifier but found %s at %s", tok.Kind, tok.Pos)
			}
			return strings.Join(words, " "), structNode, structHasBody, isTypedef, nil
		}
	}
}

// parseStructOrUnionOrEnum parses `struct|union|enum [tag] [{ members }]`.
// It always returns a StructDeclaration so the caller can emit it directly
// when the specifier stands alone ("struct Foo { ... };"), alongside the
// plain "struct Foo" type text to use when a declarator follows.
func (p *Parser) parseStructOrUnionOrEnum() (*ast.StructDeclaration, string, bool, error) {
	start := p.current().Pos
	kindTok := p.advance()
	kind := kindTok.Kind.String()

	tag := ""
	if p.check(lexer.Identifier) {
		tag = p.advance().Lexeme
	}

	var members []*ast.VariableDeclaration
	hasBody := false
	if p.match(lexer.LBrace) {
		hasBody = true
		if kind == "enum" {
			var err error
			members, err = p.parseEnumerators()
			if err != nil {
				return nil, "", false, err
			}
		} else {
			var err error
			members, err = p.parseStructMembers()
			if err != nil {
				return nil, "", false, err
			}
		}
		if _, err := p.expect(lexer.RBrace); err != nil {
			return nil, "", false, err
		}
	}

	node := &ast.StructDeclaration{Base: p.newRange(start), Kind: kind, Tag: tag, Members: members}
	typeText := kind
	if tag != "" {
		typeText += " " + tag
	}
	return node, typeText, hasBody, nil
}

func (p *Parser) parseStructMembers() ([]*ast.VariableDeclaration, error) {
	var members []*ast.VariableDeclaration
	for !p.check(lexer.RBrace) && !p.atEOF() {
		specText, _, _, _, err := p.parseDeclarationSpecifiers()
		if err != nil {
			return nil, err
		}
		for {
			dstart := p.current().Pos
			name, declType, isFunc, _, _, err := p.parseDeclarator(specText)
			if err != nil {
				return nil, err
			}
			if isFunc {
				return nil, fmt.Errorf("parser: function declarator not allowed in a struct/union member at %s", p.current().Pos)
			}
			members = append(members, &ast.VariableDeclaration{Base: p.newRange(dstart), Name: name, Type: declType})
			if !p.match(lexer.Comma) {
				break
			}
		}
		if _, err := p.expect(lexer.Semicolon); err != nil {
			return nil, err
		}
	}
	return members, nil
}

// parseEnumerators parses `NAME [= constant-expression] (, NAME [= ...])*`,
// modeling each enumerator as a VariableDeclaration of type "int" so enums
// reuse the same StructDeclaration.Members shape as structs/unions rather
// than introducing a separate node variant for one extra case.
func (p *Parser) parseEnumerators() ([]*ast.VariableDeclaration, error) {
	var enumerators []*ast.VariableDeclaration
	for !p.check(lexer.RBrace) && !p.atEOF() {
		start := p.current().Pos
		nameTok, err := p.expect(lexer.Identifier)
		if err != nil {
			return nil, err
		}
		var value ast.Node
		if p.match(lexer.Assign) {
			value, err = p.parseAssignment()
			if err != nil {
				return nil, err
			}
		}
		enumerators = append(enumerators, &ast.VariableDeclaration{
			Base: p.newRange(start), Name: nameTok.Lexeme, Type: "int", Initializer: value,
		})
		if !p.match(lexer.Comma) {
			break
		}
	}
	return enumerators, nil
}

// parseDeclarator parses `'*'* IDENTIFIER (array-suffix | parameter-list)?`
// and combines baseType with the pointer/array spelling into the full
// type text stored on the resulting AST node.
func (p *Parser) parseDeclarator(baseType string) (name, declType string, isFunc bool, params []ast.Parameter, variadic bool, err error) {
	stars := 0
	for p.match(lexer.Star) {
		stars++
	}
	nameTok, err := p.expect(lexer.Identifier)
	if err != nil {
		return "", "", false, nil, false, err
	}
	name = nameTok.Lexeme

	declType = baseType
	if stars > 0 {
		declType = baseType + " " + strings.Repeat("*", stars)
	}

	switch {
	case p.match(lexer.LParen):
		isFunc = true
		params, variadic, err = p.parseParameterList()
		if err != nil {
			return "", "", false, nil, false, err
		}
	case p.check(lexer.LBracket):
		for p.match(lexer.LBracket) {
			dim := ""
			if p.check(lexer.IntegerLiteral) {
				dim = p.advance().Lexeme
			}
			if _, err := p.expect(lexer.RBracket); err != nil {
				return "", "", false, nil, false, err
			}
			declType += "[" + dim + "]"
		}
	}
	return name, declType, isFunc, params, variadic, nil
}

// parseParameterList parses a function declarator's parameter list after
// the opening '(' has already been consumed, through the closing ')'.
func (p *Parser) parseParameterList() ([]ast.Parameter, bool, error) {
	if p.match(lexer.RParen) {
		return nil, false, nil
	}
	if p.check(lexer.KwVoid) && p.peek(1).Kind == lexer.RParen {
		p.advance()
		p.advance()
		return nil, false, nil
	}

	var params []ast.Parameter
	variadic := false
	for {
		if p.match(lexer.Ellipsis) {
			variadic = true
			break
		}
		specText, _, _, _, err := p.parseDeclarationSpecifiers()
		if err != nil {
			return nil, false, err
		}
		stars := 0
		for p.match(lexer.Star) {
			stars++
		}
		name := ""
		if p.check(lexer.Identifier) {
			name = p.advance().Lexeme
		}
		ptype := specText
		if stars > 0 {
			ptype = specText + " " + strings.Repeat("*", stars)
		}
		for p.match(lexer.LBracket) {
			dim := ""
			if p.check(lexer.IntegerLiteral) {
				dim = p.advance().Lexeme
			}
			if _, err := p.expect(lexer.RBracket); err != nil {
				return nil, false, err
			}
			ptype += "[" + dim + "]"
		}
		params = append(params, ast.Parameter{Name: name, Type: ptype})
		if !p.match(lexer.Comma) {
			break
		}
	}
	if _, err := p.expect(lexer.RParen); err != nil {
		return nil, false, err
	}
	return params, variadic, nil
}

// parseExternalDeclaration parses one top-level construct: a typedef, a
// standalone struct/union/enum declaration, a function definition or
// prototype, or one or more variable declarations, per spec.md §4.10's
// ExternalDeclaration production.
func (p *Parser) parseExternalDeclaration() (ast.Node, error) {
	return p.parseDeclarationOrDefinition(true)
}

// parseDeclarationOrDefinition implements the shared grammar used both at
// file scope and at block scope (C99 allows declarations anywhere inside
// a compound statement); allowDefinition gates function bodies, which are
// only legal at file scope.
func (p *Parser) parseDeclarationOrDefinition(allowDefinition bool) (ast.Node, error) {
	start := p.current().Pos
	specText, structNode, structHasBody, isTypedef, err := p.parseDeclarationSpecifiers()
	if err != nil {
		return nil, err
	}

	if isTypedef {
		name, declType, isFunc, _, _, err := p.parseDeclarator(specText)
		if err != nil {
			return nil, err
		}
		if isFunc {
			return nil, fmt.Errorf("parser: function typedefs are not supported at %s", p.current().Pos)
		}
		if _, err := p.expect(lexer.Semicolon); err != nil {
			return nil, err
		}
		p.declareTypedef(name)
		return &ast.TypedefDeclaration{Base: p.newRange(start), Name: name, UnderlyingType: declType}, nil
	}

	if p.match(lexer.Semicolon) {
		if structNode != nil {
			structNode.Base = p.newRange(start)
			return structNode, nil
		}
		return nil, fmt.Errorf("parser: empty declaration at %s", start)
	}
	// A declarator follows ("struct Foo {...} x;" or "struct Foo x;"); fall
	// through using specText ("struct Foo") as its base type.
	_ = structHasBody

	name, declType, isFunc, params, variadic, err := p.parseDeclarator(specText)
	if err != nil {
		return nil, err
	}

	if isFunc {
		if allowDefinition && p.check(lexer.LBrace) {
			body, err := p.parseCompoundStatement()
			if err != nil {
				return nil, err
			}
			return &ast.FunctionDeclaration{
				Base: p.newRange(start), Name: name, ReturnType: specText,
				Parameters: params, Variadic: variadic, Body: body,
			}, nil
		}
		if _, err := p.expect(lexer.Semicolon); err != nil {
			return nil, err
		}
		return &ast.FunctionDeclaration{
			Base: p.newRange(start), Name: name, ReturnType: specText,
			Parameters: params, Variadic: variadic,
		}, nil
	}

	var initializer ast.Node
	if p.match(lexer.Assign) {
		initializer, err = p.parseAssignment()
		if err != nil {
			return nil, err
		}
	}
	first := &ast.VariableDeclaration{Base: p.newRange(start), Name: name, Type: declType, Initializer: initializer}

	if !p.check(lexer.Comma) {
		if _, err := p.expect(lexer.Semicolon); err != nil {
			return nil, err
		}
		return first, nil
	}

	decls := []*ast.VariableDeclaration{first}
	for p.match(lexer.Comma) {
		dstart := p.current().Pos
		dname, dtype, dIsFunc, _, _, err := p.parseDeclarator(specText)
		if err != nil {
			return nil, err
		}
		if dIsFunc {
			return nil, fmt.Errorf("parser: function declarator not allowed in a declarator list at %s", dstart)
		}
		var init ast.Node
		if p.match(lexer.Assign) {
			init, err = p.parseAssignment()
			if err != nil {
				return nil, err
			}
		}
		decls = append(decls, &ast.VariableDeclaration{Base: p.newRange(dstart), Name: dname, Type: dtype, Initializer: init})
	}
	if _, err := p.expect(lexer.Semicolon); err != nil {
		return nil, err
	}
	return &ast.DeclarationList{Base: p.newRange(start), Declarations: decls}, nil
}
