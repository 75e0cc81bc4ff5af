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

func bodyOf(t *testing.T, src string) *ast.CompoundStatement {
	t.Helper()
	tu, _ := parseSource(t, "void f(void) {"+src+"}")
	fn := tu.Declarations[0].(*ast.FunctionDeclaration)
	return fn.Body
}

func TestParseIfElseStatement(t *testing.T) {
	body := bodyOf(t, "if (x) y = 1; else y = 2;")
	ifStmt := body.Statements[0].(*ast.IfStatement)
	require.NotNil(t, ifStmt.Then)
	require.NotNil(t, ifStmt.Else)
}

func TestParseIfWithoutElse(t *testing.T) {
	body := bodyOf(t, "if (x) y = 1;")
	ifStmt := body.Statements[0].(*ast.IfStatement)
	require.Nil(t, ifStmt.Else)
}

func TestParseWhileLoop(t *testing.T) {
	body := bodyOf(t, "while (x < 10) x = x + 1;")
	_, ok := body.Statements[0].(*ast.WhileStatement)
	require.True(t, ok)
}

func TestParseDoWhileLoop(t *testing.T) {
	body := bodyOf(t, "do { x = x + 1; } while (x < 10);")
	dw, ok := body.Statements[0].(*ast.DoWhileStatement)
	require.True(t, ok)
	require.NotNil(t, dw.Condition)
}

func TestParseForLoopWithDeclarationInit(t *testing.T) {
	body := bodyOf(t, "for (int i = 0; i < 10; i = i + 1) sum = sum + i;")
	forStmt, ok := body.Statements[0].(*ast.ForStatement)
	require.True(t, ok)
	_, isDecl := forStmt.Init.(*ast.VariableDeclaration)
	require.True(t, isDecl)
	require.NotNil(t, forStmt.Condition)
	require.NotNil(t, forStmt.Update)
}

func TestParseForLoopWithEmptyClauses(t *testing.T) {
	body := bodyOf(t, "for (;;) { break; }")
	forStmt := body.Statements[0].(*ast.ForStatement)
	require.Nil(t, forStmt.Init)
	require.Nil(t, forStmt.Condition)
	require.Nil(t, forStmt.Update)
}

func TestParseSwitchStatementWithDefault(t *testing.T) {
	body := bodyOf(t, "switch (x) { case 1: y = 1; break; default: y = 0; }")
	sw, ok := body.Statements[0].(*ast.SwitchStatement)
	require.True(t, ok)
	require.Len(t, sw.Cases, 2)
	require.NotNil(t, sw.Cases[0].Value)
	require.Nil(t, sw.Cases[1].Value)
}

func TestParseLabeledStatementAndGoto(t *testing.T) {
	body := bodyOf(t, "goto done; done: x = 1;")
	gotoStmt, ok := body.Statements[0].(*ast.GotoStatement)
	require.True(t, ok)
	require.Equal(t, "done", gotoStmt.Label)

	labeled, ok := body.Statements[1].(*ast.LabeledStatement)
	require.True(t, ok)
	require.Equal(t, "done", labeled.Label)
}

func TestParseNullStatement(t *testing.T) {
	body := bodyOf(t, ";")
	stmt, ok := body.Statements[0].(*ast.ExpressionStatement)
	require.True(t, ok)
	require.Nil(t, stmt.Expression)
}

func TestParseLocalDeclarationInsideBlock(t *testing.T) {
	body := bodyOf(t, "int local = 5; local = local + 1;")
	_, ok := body.Statements[0].(*ast.VariableDeclaration)
	require.True(t, ok)
	_, ok = body.Statements[1].(*ast.ExpressionStatement)
	require.True(t, ok)
}

func TestParseNestedBlockGetsOwnTypedefScope(t *testing.T) {
	body := bodyOf(t, "typedef int Local; { Local inner; } Local outer;")
	_, ok := body.Statements[2].(*ast.VariableDeclaration)
	require.True(t, ok)
}
