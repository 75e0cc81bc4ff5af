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

package ccfront

import (
	"testing/fstest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/EngFlow/ccfront/enginecfg"
	"github.com/EngFlow/ccfront/internal/cc/ast"
	"github.com/EngFlow/ccfront/internal/cc/include"
)

func TestProcessExpandsAndParsesSimpleUnit(t *testing.T) {
	e := NewEngine(enginecfg.New())
	result, err := e.Process("t.c", "#define N 10\nint a[N];\n")
	require.NoError(t, err)
	require.Contains(t, result.ExpandedCode, "int a[10];")
	require.NotNil(t, result.TranslationUnit)
	require.Len(t, result.TranslationUnit.Declarations, 1)
	require.Equal(t, 0, result.Stats.Errors)
}

func TestProcessReportsSyntaxErrorsWithoutAborting(t *testing.T) {
	e := NewEngine(enginecfg.New())
	result, err := e.Process("t.c", "int a = ;\nint b = 1;\n")
	require.NoError(t, err)
	require.NotNil(t, result.TranslationUnit)
	require.Greater(t, result.Diagnostics.TotalErrors, 0)
}

func TestProcessReportsOriginalPositionsAcrossIncludes(t *testing.T) {
	fsys := fstest.MapFS{
		"main.c": &fstest.MapFile{Data: []byte("#include \"decl.h\"\nint after;\n")},
		"decl.h": &fstest.MapFile{Data: []byte("int from_header;\n")},
	}
	e := NewEngine(enginecfg.New(), WithResolver(include.NewPathResolver(fsys, nil, nil)))
	result, err := e.ProcessFile(fsys, "main.c")
	require.NoError(t, err)
	require.Len(t, result.TranslationUnit.Declarations, 2)

	fromHeader := result.TranslationUnit.Declarations[0]
	require.Equal(t, "decl.h", fromHeader.Range().Start.File)
	require.Equal(t, 1, fromHeader.Range().Start.Line)

	after := result.TranslationUnit.Declarations[1]
	require.Equal(t, "main.c", after.Range().Start.File)
	require.Equal(t, 2, after.Range().Start.Line)
}

func TestProcessInstallsPredefinedMacros(t *testing.T) {
	e := NewEngine(enginecfg.New())
	result, err := e.Process("t.c", "int x;\n")
	require.NoError(t, err)
	require.Equal(t, "1", result.FinalMacros["__STDC__"])
}

func TestProcessFileReadsFromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"main.c": &fstest.MapFile{Data: []byte("int main(void) { return 0; }\n")},
	}
	e := NewEngine(enginecfg.New())
	result, err := e.ProcessFile(fsys, "main.c")
	require.NoError(t, err)
	fn, ok := result.TranslationUnit.Declarations[0].(*ast.FunctionDeclaration)
	require.True(t, ok)
	require.Equal(t, "main", fn.Name)
}

func TestProcessBatchProcessesAllFilesConcurrently(t *testing.T) {
	fsys := fstest.MapFS{
		"a.c": &fstest.MapFile{Data: []byte("int a;\n")},
		"b.c": &fstest.MapFile{Data: []byte("int b;\n")},
		"c.c": &fstest.MapFile{Data: []byte("int c;\n")},
	}
	e := NewEngine(enginecfg.New())
	results, err := e.ProcessBatch(fsys, []string{"a.c", "b.c", "c.c"})
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, name := range []string{"a.c", "b.c", "c.c"} {
		require.Equal(t, name, results[i].File)
	}
}

func TestProcessBatchPropagatesFirstError(t *testing.T) {
	fsys := fstest.MapFS{
		"a.c": &fstest.MapFile{Data: []byte("int a;\n")},
	}
	e := NewEngine(enginecfg.New())
	_, err := e.ProcessBatch(fsys, []string{"a.c", "missing.c"})
	require.Error(t, err)
}
