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

package ccerrors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EngFlow/ccfront/internal/cc/source"
)

func TestHandlerReportsUntilCeiling(t *testing.T) {
	h := NewHandler(2)

	ok := h.Report(Diagnostic{Kind: Syntax, Severity: Error, Message: "first"})
	assert.True(t, ok)
	ok = h.Report(Diagnostic{Kind: Syntax, Severity: Error, Message: "second"})
	assert.True(t, ok)
	ok = h.Report(Diagnostic{Kind: Syntax, Severity: Error, Message: "third"})
	assert.False(t, ok)
	assert.True(t, h.ShouldStop())

	require.Len(t, h.Errors(), 3)
}

func TestHandlerWarningsDoNotCountTowardCeiling(t *testing.T) {
	h := NewHandler(1)
	h.Report(Diagnostic{Kind: Preprocessor, Severity: Warning, Message: "redefinition"})
	h.Report(Diagnostic{Kind: Preprocessor, Severity: Warning, Message: "redefinition2"})
	assert.False(t, h.ShouldStop())
	assert.Len(t, h.Warnings(), 2)
	assert.Empty(t, h.Errors())
}

func TestHandlerReportSortsByPositionAndAggregates(t *testing.T) {
	h := NewHandler(10)
	h.Report(Diagnostic{Kind: Syntax, Severity: Error, Component: "parser", Position: source.Position{Offset: 20}, Message: "c"})
	h.Report(Diagnostic{Kind: Lexical, Severity: Error, Component: "lexer", Position: source.Position{Offset: 5}, Message: "a"})
	h.Report(Diagnostic{Kind: Preprocessor, Severity: Warning, Component: "preprocessor", Position: source.Position{Offset: 10}, Message: "b"})

	summary := h.Summarize()
	assert.Equal(t, 2, summary.TotalErrors)
	assert.Equal(t, 1, summary.TotalWarnings)
	assert.Equal(t, 1, summary.ByKind[Syntax])
	assert.Equal(t, 1, summary.ByKind[Lexical])
	assert.Equal(t, 1, summary.ByComponent["parser"])

	require.Len(t, summary.SortedByPosition, 3)
	assert.Equal(t, "a", summary.SortedByPosition[0].Message)
	assert.Equal(t, "b", summary.SortedByPosition[1].Message)
	assert.Equal(t, "c", summary.SortedByPosition[2].Message)
}

func TestHandlerOnDiagnosticCallback(t *testing.T) {
	h := NewHandler(10)
	var seen []string
	h.OnDiagnostic(func(d Diagnostic) { seen = append(seen, d.Message) })
	h.Report(Diagnostic{Message: "one"})
	h.Report(Diagnostic{Message: "two"})
	assert.Equal(t, []string{"one", "two"}, seen)
}

func TestFatalError(t *testing.T) {
	f := &Fatal{Diagnostic: Diagnostic{Kind: Integration, Severity: Error, Message: "stack underflow"}}
	assert.Contains(t, f.Error(), "stack underflow")
}

func TestKindAndSeverityStrings(t *testing.T) {
	assert.Equal(t, "LexicalError", Lexical.String())
	assert.Equal(t, "warning", Warning.String())
	assert.Equal(t, "error", Error.String())
}
