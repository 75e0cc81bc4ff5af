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

// Visitor double-dispatches over the closed Node set. Every variant's
// Accept calls back into its one matching method here.
type Visitor interface {
	VisitTranslationUnit(n *TranslationUnit)
	VisitVariableDeclaration(n *VariableDeclaration)
	VisitDeclarationList(n *DeclarationList)
	VisitFunctionDeclaration(n *FunctionDeclaration)
	VisitStructDeclaration(n *StructDeclaration)
	VisitTypedefDeclaration(n *TypedefDeclaration)

	VisitCompoundStatement(n *CompoundStatement)
	VisitExpressionStatement(n *ExpressionStatement)
	VisitReturnStatement(n *ReturnStatement)
	VisitIfStatement(n *IfStatement)
	VisitWhileStatement(n *WhileStatement)
	VisitDoWhileStatement(n *DoWhileStatement)
	VisitForStatement(n *ForStatement)
	VisitSwitchStatement(n *SwitchStatement)
	VisitBreakStatement(n *BreakStatement)
	VisitContinueStatement(n *ContinueStatement)
	VisitGotoStatement(n *GotoStatement)
	VisitLabeledStatement(n *LabeledStatement)

	VisitIdentifier(n *Identifier)
	VisitIntegerLiteral(n *IntegerLiteral)
	VisitFloatLiteral(n *FloatLiteral)
	VisitStringLiteral(n *StringLiteral)
	VisitCharLiteral(n *CharLiteral)
	VisitBinaryExpression(n *BinaryExpression)
	VisitUnaryExpression(n *UnaryExpression)
	VisitPostfixExpression(n *PostfixExpression)
	VisitAssignmentExpression(n *AssignmentExpression)
	VisitTernaryExpression(n *TernaryExpression)
	VisitCommaExpression(n *CommaExpression)
	VisitCallExpression(n *CallExpression)
	VisitMemberExpression(n *MemberExpression)
	VisitArrayAccess(n *ArrayAccess)
	VisitCastExpression(n *CastExpression)
	VisitSizeofExpression(n *SizeofExpression)
}

// Children returns n's direct AST children, in source order, per the
// position-ordered child access the original's getChild(index) gave
// each node. Used by the printers and by generic tree walks that don't
// need per-variant dispatch.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *TranslationUnit:
		return n.Declarations
	case *VariableDeclaration:
		return nonNil(n.Initializer)
	case *DeclarationList:
		out := make([]Node, len(n.Declarations))
		for i, d := range n.Declarations {
			out[i] = d
		}
		return out
	case *FunctionDeclaration:
		if n.Body != nil {
			return []Node{n.Body}
		}
		return nil
	case *StructDeclaration:
		out := make([]Node, len(n.Members))
		for i, m := range n.Members {
			out[i] = m
		}
		return out
	case *CompoundStatement:
		return n.Statements
	case *ExpressionStatement:
		return nonNil(n.Expression)
	case *ReturnStatement:
		return nonNil(n.Expression)
	case *IfStatement:
		return nonNil(n.Condition, n.Then, n.Else)
	case *WhileStatement:
		return nonNil(n.Condition, n.Body)
	case *DoWhileStatement:
		return nonNil(n.Body, n.Condition)
	case *ForStatement:
		return nonNil(n.Init, n.Condition, n.Update, n.Body)
	case *SwitchStatement:
		out := nonNil(n.Condition)
		for _, c := range n.Cases {
			out = append(out, nonNil(c.Value)...)
			out = append(out, c.Statements...)
		}
		return out
	case *GotoStatement, *BreakStatement, *ContinueStatement:
		return nil
	case *LabeledStatement:
		return nonNil(n.Statement)
	case *BinaryExpression:
		return nonNil(n.Left, n.Right)
	case *UnaryExpression:
		return nonNil(n.Operand)
	case *PostfixExpression:
		return nonNil(n.Operand)
	case *AssignmentExpression:
		return nonNil(n.Left, n.Right)
	case *TernaryExpression:
		return nonNil(n.Condition, n.Then, n.Else)
	case *CommaExpression:
		return n.Expressions
	case *CallExpression:
		return append(nonNil(n.Function), n.Args...)
	case *MemberExpression:
		return nonNil(n.Object)
	case *ArrayAccess:
		return nonNil(n.Array, n.Index)
	case *CastExpression:
		return nonNil(n.Expression)
	case *SizeofExpression:
		return nonNil(n.Expression)
	default:
		return nil
	}
}

func nonNil(nodes ...Node) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}
