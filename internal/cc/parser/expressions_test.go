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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/EngFlow/ccfront/internal/cc/ast"
)

func exprStmtExpr(t *testing.T, exprSrc string) ast.Node {
	t.Helper()
	body := bodyOf(t, exprSrc+";")
	stmt := body.Statements[0].(*ast.ExpressionStatement)
	return stmt.Expression
}

func TestParseBinaryPrecedence(t *testing.T) {
	// "a + b * c" should bind as "a + (b * c)".
	expr := exprStmtExpr(t, "a + b * c")
	top := expr.(*ast.BinaryExpression)
	require.Equal(t, "+", top.Op)
	_, leftIsIdent := top.Left.(*ast.Identifier)
	require.True(t, leftIsIdent)
	right := top.Right.(*ast.BinaryExpression)
	require.Equal(t, "*", right.Op)
}

func TestParseLeftAssociativity(t *testing.T) {
	// "a - b - c" should bind as "(a - b) - c".
	expr := exprStmtExpr(t, "a - b - c")
	top := expr.(*ast.BinaryExpression)
	require.Equal(t, "-", top.Op)
	_, rightIsIdent := top.Right.(*ast.Identifier)
	require.True(t, rightIsIdent)
	_, leftIsBinary := top.Left.(*ast.BinaryExpression)
	require.True(t, leftIsBinary)
}

func TestParseAssignmentIsRightAssociative(t *testing.T) {
	expr := exprStmtExpr(t, "a = b = c")
	top := expr.(*ast.AssignmentExpression)
	_, rightIsAssign := top.Right.(*ast.AssignmentExpression)
	require.True(t, rightIsAssign)
}

func TestParseTernaryExpression(t *testing.T) {
	expr := exprStmtExpr(t, "a ? b : c")
	tern := expr.(*ast.TernaryExpression)
	require.NotNil(t, tern.Condition)
	require.NotNil(t, tern.Then)
	require.NotNil(t, tern.Else)
}

func TestParseCommaExpression(t *testing.T) {
	expr := exprStmtExpr(t, "a = 1, b = 2")
	comma := expr.(*ast.CommaExpression)
	require.Len(t, comma.Expressions, 2)
}

func TestParseUnaryAndSizeofExpr(t *testing.T) {
	expr := exprStmtExpr(t, "-a")
	un := expr.(*ast.UnaryExpression)
	require.Equal(t, "-", un.Op)

	sz := exprStmtExpr(t, "sizeof a")
	sizeofExpr := sz.(*ast.SizeofExpression)
	require.NotNil(t, sizeofExpr.Expression)
	require.Empty(t, sizeofExpr.Type)
}

func TestParseSizeofType(t *testing.T) {
	sz := exprStmtExpr(t, "sizeof(int)")
	sizeofExpr := sz.(*ast.SizeofExpression)
	require.Equal(t, "int", sizeofExpr.Type)
	require.Nil(t, sizeofExpr.Expression)
}

func TestParseCastExpression(t *testing.T) {
	expr := exprStmtExpr(t, "(int) f")
	cast := expr.(*ast.CastExpression)
	require.Equal(t, "int", cast.TargetType)
	_, ok := cast.Expression.(*ast.Identifier)
	require.True(t, ok)
}

func TestParseParenthesizedExpressionIsNotMisreadAsCast(t *testing.T) {
	expr := exprStmtExpr(t, "(a + b) * c")
	top := expr.(*ast.BinaryExpression)
	require.Equal(t, "*", top.Op)
	_, leftIsBinary := top.Left.(*ast.BinaryExpression)
	require.True(t, leftIsBinary)
}

func TestParseCallExpressionWithArguments(t *testing.T) {
	expr := exprStmtExpr(t, "add(1, 2)")
	call := expr.(*ast.CallExpression)
	fn := call.Function.(*ast.Identifier)
	require.Equal(t, "add", fn.Name)
	require.Len(t, call.Args, 2)
}

func TestParseMemberAndArrowAccess(t *testing.T) {
	expr := exprStmtExpr(t, "p->next.value")
	outer := expr.(*ast.MemberExpression)
	require.False(t, outer.ViaArrow)
	require.Equal(t, "value", outer.Member)
	inner := outer.Object.(*ast.MemberExpression)
	require.True(t, inner.ViaArrow)
	require.Equal(t, "next", inner.Member)
}

func TestParseArrayAccessExpression(t *testing.T) {
	expr := exprStmtExpr(t, "arr[i + 1]")
	access := expr.(*ast.ArrayAccess)
	_, ok := access.Index.(*ast.BinaryExpression)
	require.True(t, ok)
}

func TestParsePostfixIncrementDecrement(t *testing.T) {
	expr := exprStmtExpr(t, "i++")
	post := expr.(*ast.PostfixExpression)
	require.Equal(t, "++", post.Op)
}

func TestParseIntegerLiteralValues(t *testing.T) {
	v, err := parseIntegerLiteral("0x1F")
	require.NoError(t, err)
	require.Equal(t, int64(31), v)

	v, err = parseIntegerLiteral("42UL")
	require.NoError(t, err)
	require.Equal(t, int64(42), v)

	v, err = parseIntegerLiteral("010")
	require.NoError(t, err)
	require.Equal(t, int64(8), v)
}

func TestParseStringAndCharLiteralEscapes(t *testing.T) {
	s, err := unescapeCString(`"hi\n"`)
	require.NoError(t, err)
	require.Equal(t, "hi\n", s)

	c, err := unescapeCChar(`'\0'`)
	require.NoError(t, err)
	require.Equal(t, byte(0), c)

	c, err = unescapeCChar(`'\x41'`)
	require.NoError(t, err)
	require.Equal(t, byte('A'), c)
}
