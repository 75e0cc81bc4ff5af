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

package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Printer renders a tree with branch-drawing characters, one node per
// line, the way a debugger dump of the AST would read.
type Printer struct {
	out        strings.Builder
	indentSize int
	showTypes  bool
	showRanges bool

	ancestors []bool // isLast flag for each strict ancestor above the current node
	isLast    bool
	isRoot    bool
}

// NewPrinter builds a tree Printer. indentSize controls the width of each
// nesting level; showTypes/showRanges toggle the per-node type name and
// source range annotations.
func NewPrinter(indentSize int, showTypes, showRanges bool) *Printer {
	if indentSize <= 0 {
		indentSize = 2
	}
	return &Printer{indentSize: indentSize, showTypes: showTypes, showRanges: showRanges, isRoot: true}
}

// Print renders n with default formatting options and returns the result.
func Print(n Node) string {
	p := NewPrinter(2, true, false)
	n.Accept(p)
	return p.Output()
}

// Output returns everything written so far.
func (p *Printer) Output() string { return p.out.String() }

// Reset clears the output buffer and tree position so the Printer can be
// reused on another root.
func (p *Printer) Reset() {
	p.out.Reset()
	p.ancestors = nil
	p.isLast = false
	p.isRoot = true
}

func (p *Printer) line(n Node, label string) {
	var sb strings.Builder
	for _, last := range p.ancestors {
		if last {
			sb.WriteString(strings.Repeat(" ", p.indentSize+2))
		} else {
			sb.WriteString("│" + strings.Repeat(" ", p.indentSize+1))
		}
	}
	if !p.isRoot {
		if p.isLast {
			sb.WriteString("└── ")
		} else {
			sb.WriteString("├── ")
		}
	}
	sb.WriteString(label)
	if p.showRanges {
		fmt.Fprintf(&sb, " @ %s", n.Range())
	}
	p.out.WriteString(sb.String())
	p.out.WriteByte('\n')
}

func (p *Printer) descend(n Node) {
	children := Children(n)
	savedAncestors, savedRoot, savedLast := p.ancestors, p.isRoot, p.isLast

	childAncestors := savedAncestors
	if !savedRoot {
		childAncestors = append(append([]bool{}, savedAncestors...), savedLast)
	}
	for i, c := range children {
		p.ancestors = childAncestors
		p.isLast = i == len(children)-1
		p.isRoot = false
		c.Accept(p)
	}
	p.ancestors, p.isRoot, p.isLast = savedAncestors, savedRoot, savedLast
}

func (p *Printer) visit(n Node, typeName, detail string) {
	label := typeName
	if p.showTypes && detail != "" {
		label = typeName + ": " + detail
	} else if !p.showTypes && detail != "" {
		label = detail
	}
	p.line(n, label)
	p.descend(n)
}

func (p *Printer) VisitTranslationUnit(n *TranslationUnit) { p.visit(n, "TranslationUnit", "") }
func (p *Printer) VisitVariableDeclaration(n *VariableDeclaration) {
	p.visit(n, "VariableDeclaration", n.Type+" "+n.Name)
}
func (p *Printer) VisitDeclarationList(n *DeclarationList) { p.visit(n, "DeclarationList", "") }
func (p *Printer) VisitFunctionDeclaration(n *FunctionDeclaration) {
	p.visit(n, "FunctionDeclaration", n.ReturnType+" "+n.Name+"(...)")
}
func (p *Printer) VisitStructDeclaration(n *StructDeclaration) {
	p.visit(n, "StructDeclaration", n.Kind+" "+n.Tag)
}
func (p *Printer) VisitTypedefDeclaration(n *TypedefDeclaration) {
	p.visit(n, "TypedefDeclaration", n.UnderlyingType+" "+n.Name)
}
func (p *Printer) VisitCompoundStatement(n *CompoundStatement) { p.visit(n, "CompoundStatement", "") }
func (p *Printer) VisitExpressionStatement(n *ExpressionStatement) {
	p.visit(n, "ExpressionStatement", "")
}
func (p *Printer) VisitReturnStatement(n *ReturnStatement) { p.visit(n, "ReturnStatement", "") }
func (p *Printer) VisitIfStatement(n *IfStatement)         { p.visit(n, "IfStatement", "") }
func (p *Printer) VisitWhileStatement(n *WhileStatement)   { p.visit(n, "WhileStatement", "") }
func (p *Printer) VisitDoWhileStatement(n *DoWhileStatement) {
	p.visit(n, "DoWhileStatement", "")
}
func (p *Printer) VisitForStatement(n *ForStatement) { p.visit(n, "ForStatement", "") }
func (p *Printer) VisitSwitchStatement(n *SwitchStatement) {
	p.visit(n, "SwitchStatement", fmt.Sprintf("%d case(s)", len(n.Cases)))
}
func (p *Printer) VisitBreakStatement(n *BreakStatement)       { p.visit(n, "BreakStatement", "") }
func (p *Printer) VisitContinueStatement(n *ContinueStatement) { p.visit(n, "ContinueStatement", "") }
func (p *Printer) VisitGotoStatement(n *GotoStatement)         { p.visit(n, "GotoStatement", n.Label) }
func (p *Printer) VisitLabeledStatement(n *LabeledStatement) {
	p.visit(n, "LabeledStatement", n.Label)
}
func (p *Printer) VisitIdentifier(n *Identifier) { p.visit(n, "Identifier", n.Name) }
func (p *Printer) VisitIntegerLiteral(n *IntegerLiteral) {
	p.visit(n, "IntegerLiteral", strconv.FormatInt(n.Value, 10))
}
func (p *Printer) VisitFloatLiteral(n *FloatLiteral) {
	p.visit(n, "FloatLiteral", strconv.FormatFloat(n.Value, 'g', -1, 64))
}
func (p *Printer) VisitStringLiteral(n *StringLiteral) {
	p.visit(n, "StringLiteral", strconv.Quote(n.Value))
}
func (p *Printer) VisitCharLiteral(n *CharLiteral) {
	p.visit(n, "CharLiteral", strconv.QuoteRune(rune(n.Value)))
}
func (p *Printer) VisitBinaryExpression(n *BinaryExpression) { p.visit(n, "BinaryExpression", n.Op) }
func (p *Printer) VisitUnaryExpression(n *UnaryExpression)   { p.visit(n, "UnaryExpression", n.Op) }
func (p *Printer) VisitPostfixExpression(n *PostfixExpression) {
	p.visit(n, "PostfixExpression", n.Op)
}
func (p *Printer) VisitAssignmentExpression(n *AssignmentExpression) {
	p.visit(n, "AssignmentExpression", n.Op)
}
func (p *Printer) VisitTernaryExpression(n *TernaryExpression) { p.visit(n, "TernaryExpression", "") }
func (p *Printer) VisitCommaExpression(n *CommaExpression)     { p.visit(n, "CommaExpression", "") }
func (p *Printer) VisitCallExpression(n *CallExpression)       { p.visit(n, "CallExpression", "") }
func (p *Printer) VisitMemberExpression(n *MemberExpression) {
	op := "."
	if n.ViaArrow {
		op = "->"
	}
	p.visit(n, "MemberExpression", op+n.Member)
}
func (p *Printer) VisitArrayAccess(n *ArrayAccess) { p.visit(n, "ArrayAccess", "") }
func (p *Printer) VisitCastExpression(n *CastExpression) {
	p.visit(n, "CastExpression", "("+n.TargetType+")")
}
func (p *Printer) VisitSizeofExpression(n *SizeofExpression) {
	detail := n.Type
	if detail == "" {
		detail = "<expr>"
	}
	p.visit(n, "SizeofExpression", detail)
}

var _ Visitor = (*Printer)(nil)

// CompactPrinter renders a node and its descendants as a single-line,
// parenthesized s-expression: "Type(detail, child, child)". It is meant
// for log lines and test fixtures, not for regenerating C source.
type CompactPrinter struct {
	out strings.Builder
}

// NewCompactPrinter returns a ready-to-use CompactPrinter.
func NewCompactPrinter() *CompactPrinter { return &CompactPrinter{} }

// PrintCompact renders n using default options.
func PrintCompact(n Node) string {
	p := NewCompactPrinter()
	n.Accept(p)
	return p.Output()
}

// Output returns everything written so far.
func (p *CompactPrinter) Output() string { return p.out.String() }

// Reset clears the output buffer for reuse on another root.
func (p *CompactPrinter) Reset() { p.out.Reset() }

func (p *CompactPrinter) node(n Node, typeName, detail string) {
	p.out.WriteString(typeName)
	parts := make([]string, 0, 2)
	if detail != "" {
		parts = append(parts, detail)
	}
	children := Children(n)
	if len(children) == 0 {
		if len(parts) > 0 {
			p.out.WriteByte('(')
			p.out.WriteString(strings.Join(parts, ", "))
			p.out.WriteByte(')')
		}
		return
	}

	childStrs := make([]string, len(children))
	for i, c := range children {
		cp := NewCompactPrinter()
		c.Accept(cp)
		childStrs[i] = cp.Output()
	}
	parts = append(parts, childStrs...)
	p.out.WriteByte('(')
	p.out.WriteString(strings.Join(parts, ", "))
	p.out.WriteByte(')')
}

func (p *CompactPrinter) VisitTranslationUnit(n *TranslationUnit) { p.node(n, "TranslationUnit", "") }
func (p *CompactPrinter) VisitVariableDeclaration(n *VariableDeclaration) {
	p.node(n, "VariableDeclaration", n.Type+" "+n.Name)
}
func (p *CompactPrinter) VisitDeclarationList(n *DeclarationList) { p.node(n, "DeclarationList", "") }
func (p *CompactPrinter) VisitFunctionDeclaration(n *FunctionDeclaration) {
	p.node(n, "FunctionDeclaration", n.ReturnType+" "+n.Name)
}
func (p *CompactPrinter) VisitStructDeclaration(n *StructDeclaration) {
	p.node(n, "StructDeclaration", n.Kind+" "+n.Tag)
}
func (p *CompactPrinter) VisitTypedefDeclaration(n *TypedefDeclaration) {
	p.node(n, "TypedefDeclaration", n.UnderlyingType+" "+n.Name)
}
func (p *CompactPrinter) VisitCompoundStatement(n *CompoundStatement) {
	p.node(n, "CompoundStatement", "")
}
func (p *CompactPrinter) VisitExpressionStatement(n *ExpressionStatement) {
	p.node(n, "ExpressionStatement", "")
}
func (p *CompactPrinter) VisitReturnStatement(n *ReturnStatement) { p.node(n, "ReturnStatement", "") }
func (p *CompactPrinter) VisitIfStatement(n *IfStatement)         { p.node(n, "IfStatement", "") }
func (p *CompactPrinter) VisitWhileStatement(n *WhileStatement)   { p.node(n, "WhileStatement", "") }
func (p *CompactPrinter) VisitDoWhileStatement(n *DoWhileStatement) {
	p.node(n, "DoWhileStatement", "")
}
func (p *CompactPrinter) VisitForStatement(n *ForStatement) { p.node(n, "ForStatement", "") }
func (p *CompactPrinter) VisitSwitchStatement(n *SwitchStatement) {
	p.node(n, "SwitchStatement", fmt.Sprintf("%d case(s)", len(n.Cases)))
}
func (p *CompactPrinter) VisitBreakStatement(n *BreakStatement) { p.node(n, "BreakStatement", "") }
func (p *CompactPrinter) VisitContinueStatement(n *ContinueStatement) {
	p.node(n, "ContinueStatement", "")
}
func (p *CompactPrinter) VisitGotoStatement(n *GotoStatement) { p.node(n, "GotoStatement", n.Label) }
func (p *CompactPrinter) VisitLabeledStatement(n *LabeledStatement) {
	p.node(n, "LabeledStatement", n.Label)
}
func (p *CompactPrinter) VisitIdentifier(n *Identifier) { p.node(n, "Identifier", n.Name) }
func (p *CompactPrinter) VisitIntegerLiteral(n *IntegerLiteral) {
	p.node(n, "IntegerLiteral", strconv.FormatInt(n.Value, 10))
}
func (p *CompactPrinter) VisitFloatLiteral(n *FloatLiteral) {
	p.node(n, "FloatLiteral", strconv.FormatFloat(n.Value, 'g', -1, 64))
}
func (p *CompactPrinter) VisitStringLiteral(n *StringLiteral) {
	p.node(n, "StringLiteral", strconv.Quote(n.Value))
}
func (p *CompactPrinter) VisitCharLiteral(n *CharLiteral) {
	p.node(n, "CharLiteral", strconv.QuoteRune(rune(n.Value)))
}
func (p *CompactPrinter) VisitBinaryExpression(n *BinaryExpression) {
	p.node(n, "BinaryExpression", n.Op)
}
func (p *CompactPrinter) VisitUnaryExpression(n *UnaryExpression) {
	p.node(n, "UnaryExpression", n.Op)
}
func (p *CompactPrinter) VisitPostfixExpression(n *PostfixExpression) {
	p.node(n, "PostfixExpression", n.Op)
}
func (p *CompactPrinter) VisitAssignmentExpression(n *AssignmentExpression) {
	p.node(n, "AssignmentExpression", n.Op)
}
func (p *CompactPrinter) VisitTernaryExpression(n *TernaryExpression) {
	p.node(n, "TernaryExpression", "")
}
func (p *CompactPrinter) VisitCommaExpression(n *CommaExpression) { p.node(n, "CommaExpression", "") }
func (p *CompactPrinter) VisitCallExpression(n *CallExpression)   { p.node(n, "CallExpression", "") }
func (p *CompactPrinter) VisitMemberExpression(n *MemberExpression) {
	op := "."
	if n.ViaArrow {
		op = "->"
	}
	p.node(n, "MemberExpression", op+n.Member)
}
func (p *CompactPrinter) VisitArrayAccess(n *ArrayAccess) { p.node(n, "ArrayAccess", "") }
func (p *CompactPrinter) VisitCastExpression(n *CastExpression) {
	p.node(n, "CastExpression", "("+n.TargetType+")")
}
func (p *CompactPrinter) VisitSizeofExpression(n *SizeofExpression) {
	detail := n.Type
	if detail == "" {
		detail = "<expr>"
	}
	p.node(n, "SizeofExpression", detail)
}

var _ Visitor = (*CompactPrinter)(nil)
