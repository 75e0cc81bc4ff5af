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

import "github.com/EngFlow/ccfront/internal/cc/source"

// TokenKind is the closed set of token categories the lexer produces. Exact
// names are the interface contract downstream tools (the parser, callers
// inspecting a token dump) rely on.
type TokenKind int

const (
	EOF TokenKind = iota
	Identifier

	// Literal categories.
	IntegerLiteral
	FloatLiteral
	CharLiteral
	StringLiteral

	// Keywords shared by every dialect.
	KwInt
	KwChar
	KwFloat
	KwDouble
	KwVoid
	KwShort
	KwLong
	KwSigned
	KwUnsigned
	KwConst
	KwVolatile
	KwStatic
	KwExtern
	KwAuto
	KwRegister
	KwIf
	KwElse
	KwWhile
	KwFor
	KwDo
	KwSwitch
	KwCase
	KwDefault
	KwBreak
	KwContinue
	KwReturn
	KwGoto
	KwSizeof
	KwStruct
	KwUnion
	KwEnum
	KwTypedef

	// C99+
	KwInline
	KwRestrict
	KwBool     // _Bool
	KwComplex  // _Complex

	// C11+
	KwStaticAssert // _Static_assert
	KwAlignof      // _Alignof
	KwAlignas      // _Alignas
	KwNoreturn     // _Noreturn
	KwGeneric      // _Generic
	KwThreadLocal  // _Thread_local

	// Punctuation and delimiters.
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Semicolon
	Comma
	Colon
	Question
	Dot
	Arrow
	Ellipsis

	// Arithmetic / unary.
	Plus
	Minus
	Star
	Slash
	Percent
	Increment
	Decrement
	Tilde

	// Bitwise.
	Amp
	Pipe
	Caret
	Shl
	Shr

	// Assignment.
	Assign
	PlusAssign
	MinusAssign
	StarAssign
	SlashAssign
	PercentAssign
	AmpAssign
	PipeAssign
	CaretAssign
	ShlAssign
	ShrAssign

	// Relational / equality.
	Eq
	NotEq
	Less
	Greater
	LessEq
	GreaterEq

	// Logical.
	LogicalAnd
	LogicalOr
	LogicalNot
)

var tokenKindNames = map[TokenKind]string{
	EOF:            "EOF",
	Identifier:     "IDENTIFIER",
	IntegerLiteral: "INTEGER_LITERAL",
	FloatLiteral:   "FLOAT_LITERAL",
	CharLiteral:    "CHAR_LITERAL",
	StringLiteral:  "STRING_LITERAL",
	KwInt:          "int", KwChar: "char", KwFloat: "float", KwDouble: "double",
	KwVoid: "void", KwShort: "short", KwLong: "long", KwSigned: "signed",
	KwUnsigned: "unsigned", KwConst: "const", KwVolatile: "volatile",
	KwStatic: "static", KwExtern: "extern", KwAuto: "auto", KwRegister: "register",
	KwIf: "if", KwElse: "else", KwWhile: "while", KwFor: "for", KwDo: "do",
	KwSwitch: "switch", KwCase: "case", KwDefault: "default", KwBreak: "break",
	KwContinue: "continue", KwReturn: "return", KwGoto: "goto", KwSizeof: "sizeof",
	KwStruct: "struct", KwUnion: "union", KwEnum: "enum", KwTypedef: "typedef",
	KwInline: "inline", KwRestrict: "restrict", KwBool: "_Bool", KwComplex: "_Complex",
	KwStaticAssert: "_Static_assert", KwAlignof: "_Alignof", KwAlignas: "_Alignas",
	KwNoreturn: "_Noreturn", KwGeneric: "_Generic", KwThreadLocal: "_Thread_local",
	LParen: "(", RParen: ")", LBrace: "{", RBrace: "}", LBracket: "[", RBracket: "]",
	Semicolon: ";", Comma: ",", Colon: ":", Question: "?", Dot: ".", Arrow: "->",
	Ellipsis: "...",
	Plus:     "+", Minus: "-", Star: "*", Slash: "/", Percent: "%",
	Increment: "++", Decrement: "--", Tilde: "~",
	Amp: "&", Pipe: "|", Caret: "^", Shl: "<<", Shr: ">>",
	Assign: "=", PlusAssign: "+=", MinusAssign: "-=", StarAssign: "*=",
	SlashAssign: "/=", PercentAssign: "%=", AmpAssign: "&=", PipeAssign: "|=",
	CaretAssign: "^=", ShlAssign: "<<=", ShrAssign: ">>=",
	Eq: "==", NotEq: "!=", Less: "<", Greater: ">", LessEq: "<=", GreaterEq: ">=",
	LogicalAnd: "&&", LogicalOr: "||", LogicalNot: "!",
}

func (k TokenKind) String() string {
	if s, ok := tokenKindNames[k]; ok {
		return s
	}
	return "UNKNOWN"
}

// IsKeyword reports whether k is one of the reserved keyword kinds.
func (k TokenKind) IsKeyword() bool {
	return k >= KwInt && k <= KwThreadLocal
}

// Token is a single lexical unit: its kind, the exact source text it was
// built from, and its position in the *original*, pre-expansion source
// (resolved through the position map by the component that drives the
// lexer over expanded text).
type Token struct {
	Kind    TokenKind
	Lexeme  string
	Pos     source.Position
	Range   source.SourceRange
}

func (t Token) String() string {
	if t.Kind == Identifier || t.Kind == IntegerLiteral || t.Kind == FloatLiteral ||
		t.Kind == StringLiteral || t.Kind == CharLiteral {
		return t.Kind.String() + "(" + t.Lexeme + ")"
	}
	return t.Kind.String()
}
