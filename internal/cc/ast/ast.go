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

// Package ast is the closed AST sum type the parser (C11) builds and the
// printer/compact-printer visitors (C12) walk: one small struct per node
// variant, each implementing Node via Accept, in the same shape the
// teacher's parser.Expr/Directive sum types use.
package ast

import "github.com/EngFlow/ccfront/internal/cc/source"

// Node is the interface every AST variant implements. Accept double
// dispatches into a Visitor's type-specific method.
type Node interface {
	Range() source.SourceRange
	Accept(v Visitor)
}

// Base carries the one field every variant needs and is embedded rather
// than repeated.
type Base struct {
	SrcRange source.SourceRange
}

func (b Base) Range() source.SourceRange { return b.SrcRange }

// ---- Translation unit ----

// TranslationUnit is the AST root: a sequence of external declarations.
type TranslationUnit struct {
	Base
	Declarations []Node
}

func (n *TranslationUnit) Accept(v Visitor) { v.VisitTranslationUnit(n) }

// ---- Declarations ----

// VariableDeclaration declares one name of a given type, with an
// optional initializer.
type VariableDeclaration struct {
	Base
	Name        string
	Type        string
	Initializer Node // nil if none
}

func (n *VariableDeclaration) Accept(v Visitor) { v.VisitVariableDeclaration(n) }

// DeclarationList groups the comma-separated declarators of one
// declaration statement ("int a, b = 1;").
type DeclarationList struct {
	Base
	Declarations []*VariableDeclaration
}

func (n *DeclarationList) Accept(v Visitor) { v.VisitDeclarationList(n) }

// Parameter is one function parameter's name/type pair.
type Parameter struct {
	Name string
	Type string
}

// FunctionDeclaration is either a prototype (Body == nil) or a full
// function definition.
type FunctionDeclaration struct {
	Base
	Name       string
	ReturnType string
	Parameters []Parameter
	Variadic   bool
	Body       *CompoundStatement // nil for a prototype
}

func (n *FunctionDeclaration) Accept(v Visitor) { v.VisitFunctionDeclaration(n) }

// StructDeclaration declares a struct/union/enum tag and its members or
// enumerators, per spec.md's ExternalDeclaration grammar.
type StructDeclaration struct {
	Base
	Kind    string // "struct", "union", or "enum"
	Tag     string
	Members []*VariableDeclaration // empty for an opaque forward declaration
}

func (n *StructDeclaration) Accept(v Visitor) { v.VisitStructDeclaration(n) }

// TypedefDeclaration introduces a typedef name for an underlying type.
type TypedefDeclaration struct {
	Base
	Name           string
	UnderlyingType string
}

func (n *TypedefDeclaration) Accept(v Visitor) { v.VisitTypedefDeclaration(n) }

// ---- Statements ----

// CompoundStatement is a `{ ... }` block.
type CompoundStatement struct {
	Base
	Statements []Node
}

func (n *CompoundStatement) Accept(v Visitor) { v.VisitCompoundStatement(n) }

// ExpressionStatement is a bare expression followed by `;`.
type ExpressionStatement struct {
	Base
	Expression Node // nil for a null statement ";"
}

func (n *ExpressionStatement) Accept(v Visitor) { v.VisitExpressionStatement(n) }

// ReturnStatement is `return [expr] ;`.
type ReturnStatement struct {
	Base
	Expression Node // nil for a bare "return;"
}

func (n *ReturnStatement) Accept(v Visitor) { v.VisitReturnStatement(n) }

// IfStatement is `if (cond) then [else else_]`.
type IfStatement struct {
	Base
	Condition Node
	Then      Node
	Else      Node // nil if no else clause
}

func (n *IfStatement) Accept(v Visitor) { v.VisitIfStatement(n) }

// WhileStatement is `while (cond) body`.
type WhileStatement struct {
	Base
	Condition Node
	Body      Node
}

func (n *WhileStatement) Accept(v Visitor) { v.VisitWhileStatement(n) }

// DoWhileStatement is `do body while (cond) ;`.
type DoWhileStatement struct {
	Base
	Body      Node
	Condition Node
}

func (n *DoWhileStatement) Accept(v Visitor) { v.VisitDoWhileStatement(n) }

// ForStatement is `for (init; cond; update) body`, any clause of which
// may be absent.
type ForStatement struct {
	Base
	Init      Node
	Condition Node
	Update    Node
	Body      Node
}

func (n *ForStatement) Accept(v Visitor) { v.VisitForStatement(n) }

// SwitchCase is one `case expr:`/`default:` arm of a SwitchStatement.
type SwitchCase struct {
	Value      Node // nil for the default case
	Statements []Node
}

// SwitchStatement is `switch (expr) { case ...: ... default: ... }`.
type SwitchStatement struct {
	Base
	Condition Node
	Cases     []SwitchCase
}

func (n *SwitchStatement) Accept(v Visitor) { v.VisitSwitchStatement(n) }

// BreakStatement is `break;`.
type BreakStatement struct{ Base }

func (n *BreakStatement) Accept(v Visitor) { v.VisitBreakStatement(n) }

// ContinueStatement is `continue;`.
type ContinueStatement struct{ Base }

func (n *ContinueStatement) Accept(v Visitor) { v.VisitContinueStatement(n) }

// GotoStatement is `goto label;`.
type GotoStatement struct {
	Base
	Label string
}

func (n *GotoStatement) Accept(v Visitor) { v.VisitGotoStatement(n) }

// LabeledStatement is `label: stmt`.
type LabeledStatement struct {
	Base
	Label     string
	Statement Node
}

func (n *LabeledStatement) Accept(v Visitor) { v.VisitLabeledStatement(n) }

// ---- Expressions ----

// Identifier is a bare name reference.
type Identifier struct {
	Base
	Name string
}

func (n *Identifier) Accept(v Visitor) { v.VisitIdentifier(n) }

// IntegerLiteral is an integer constant.
type IntegerLiteral struct {
	Base
	Value int64
	Text  string // original spelling, preserving suffix/Base
}

func (n *IntegerLiteral) Accept(v Visitor) { v.VisitIntegerLiteral(n) }

// FloatLiteral is a floating-point constant.
type FloatLiteral struct {
	Base
	Value float64
	Text  string
}

func (n *FloatLiteral) Accept(v Visitor) { v.VisitFloatLiteral(n) }

// StringLiteral is a string constant, value already unescaped.
type StringLiteral struct {
	Base
	Value string
}

func (n *StringLiteral) Accept(v Visitor) { v.VisitStringLiteral(n) }

// CharLiteral is a character constant, value already unescaped.
type CharLiteral struct {
	Base
	Value byte
}

func (n *CharLiteral) Accept(v Visitor) { v.VisitCharLiteral(n) }

// BinaryExpression is `left op right` for every C binary operator
// (arithmetic, bitwise, relational, logical).
type BinaryExpression struct {
	Base
	Op          string
	Left, Right Node
}

func (n *BinaryExpression) Accept(v Visitor) { v.VisitBinaryExpression(n) }

// UnaryExpression is a prefix operator applied to Operand: `+ - ! ~ * &
// sizeof ++ --`.
type UnaryExpression struct {
	Base
	Op      string
	Operand Node
}

func (n *UnaryExpression) Accept(v Visitor) { v.VisitUnaryExpression(n) }

// PostfixExpression is a postfix `++`/`--` applied to Operand.
type PostfixExpression struct {
	Base
	Op      string
	Operand Node
}

func (n *PostfixExpression) Accept(v Visitor) { v.VisitPostfixExpression(n) }

// AssignmentExpression is `left op right` for `=` and every compound
// assignment operator.
type AssignmentExpression struct {
	Base
	Op          string
	Left, Right Node
}

func (n *AssignmentExpression) Accept(v Visitor) { v.VisitAssignmentExpression(n) }

// TernaryExpression is `cond ? then : else_`.
type TernaryExpression struct {
	Base
	Condition, Then, Else Node
}

func (n *TernaryExpression) Accept(v Visitor) { v.VisitTernaryExpression(n) }

// CommaExpression is the left-associative comma operator `a, b, c`.
type CommaExpression struct {
	Base
	Expressions []Node
}

func (n *CommaExpression) Accept(v Visitor) { v.VisitCommaExpression(n) }

// CallExpression is `function(args...)`.
type CallExpression struct {
	Base
	Function Node
	Args     []Node
}

func (n *CallExpression) Accept(v Visitor) { v.VisitCallExpression(n) }

// MemberExpression is `object.Member` or `object->Member`.
type MemberExpression struct {
	Base
	Object   Node
	Member   string
	ViaArrow bool
}

func (n *MemberExpression) Accept(v Visitor) { v.VisitMemberExpression(n) }

// ArrayAccess is `array[index]`.
type ArrayAccess struct {
	Base
	Array, Index Node
}

func (n *ArrayAccess) Accept(v Visitor) { v.VisitArrayAccess(n) }

// CastExpression is `(TargetType) expr`.
type CastExpression struct {
	Base
	TargetType string
	Expression Node
}

func (n *CastExpression) Accept(v Visitor) { v.VisitCastExpression(n) }

// SizeofExpression is `sizeof expr` or `sizeof(Type)`.
type SizeofExpression struct {
	Base
	Expression Node   // set when applied to an expression
	Type       string // set when applied to a type name
}

func (n *SizeofExpression) Accept(v Visitor) { v.VisitSizeofExpression(n) }
