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

// Package ccerrors implements the taxonomy and accumulation policy shared
// by every stage of the front end: lexer, preprocessor, and parser all
// report into the same Handler, which classifies, counts, and eventually
// renders a single consistent diagnostic shape.
package ccerrors

import (
	"fmt"

	"github.com/EngFlow/ccfront/internal/cc/source"
	"github.com/EngFlow/ccfront/internal/collections"
)

// Kind is the closed set of diagnostic categories produced by the engine.
type Kind int

const (
	Lexical Kind = iota
	Preprocessor
	Syntax
	SemanticHint
	Integration
)

func (k Kind) String() string {
	switch k {
	case Lexical:
		return "LexicalError"
	case Preprocessor:
		return "PreprocessorError"
	case Syntax:
		return "SyntaxError"
	case SemanticHint:
		return "SemanticHint"
	case Integration:
		return "IntegrationError"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Severity distinguishes diagnostics that halt acceptance of a construct
// from those that are merely informative.
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}
	return "error"
}

// Diagnostic is the unified shape every stage reports through.
type Diagnostic struct {
	Kind      Kind
	Severity  Severity
	Position  source.Position
	Message   string
	Component string // e.g. "lexer", "preprocessor", "parser"
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s [%s] (%s): %s", d.Position, d.Severity, d.Kind, d.Component, d.Message)
}

// Less implements collections.Ordered so Diagnostics can be sorted by
// source position for reporting, lowest offset first.
func (d Diagnostic) Less(other Diagnostic) bool {
	return d.Position.Offset < other.Position.Offset
}

// Fatal marks an error as fatal per spec.md §7: #error while active,
// recursive-macro/max-depth breach, error-ceiling breach, conditional
// stack underflow, or position-map inconsistency. Fatal errors still flow
// through Handler.Report normally; this wrapper only tags them so callers
// can distinguish "processing must stop now" from "recorded and
// continuing".
type Fatal struct {
	Diagnostic Diagnostic
}

func (f *Fatal) Error() string { return f.Diagnostic.String() }

// Handler accumulates diagnostics up to a configured ceiling. Warnings
// never count against the ceiling or halt processing.
type Handler struct {
	maxErrors  int
	diagnostic []Diagnostic
	errorCount int
	callbacks  []func(Diagnostic)
}

// NewHandler constructs a Handler with the given error ceiling. A ceiling
// of 0 or less falls back to the spec default of 100.
func NewHandler(maxErrors int) *Handler {
	if maxErrors <= 0 {
		maxErrors = 100
	}
	return &Handler{maxErrors: maxErrors}
}

// OnDiagnostic registers a callback invoked synchronously for every
// reported diagnostic, in report order.
func (h *Handler) OnDiagnostic(cb func(Diagnostic)) {
	h.callbacks = append(h.callbacks, cb)
}

// Report records a diagnostic. It returns false once the error ceiling has
// been exceeded, counting this diagnostic, signalling the caller to stop
// accepting further input; the diagnostic is still recorded so callers get
// a complete trailing picture.
func (h *Handler) Report(d Diagnostic) bool {
	h.diagnostic = append(h.diagnostic, d)
	if d.Severity == Error {
		h.errorCount++
	}
	for _, cb := range h.callbacks {
		cb(d)
	}
	return !h.ShouldStop()
}

// ShouldStop reports whether the error ceiling has been exceeded.
func (h *Handler) ShouldStop() bool {
	return h.errorCount > h.maxErrors
}

// Errors returns all recorded diagnostics with Severity == Error, in
// report order.
func (h *Handler) Errors() []Diagnostic {
	return collections.FilterSlice(h.diagnostic, func(d Diagnostic) bool { return d.Severity == Error })
}

// Warnings returns all recorded diagnostics with Severity == Warning, in
// report order.
func (h *Handler) Warnings() []Diagnostic {
	return collections.FilterSlice(h.diagnostic, func(d Diagnostic) bool { return d.Severity == Warning })
}

// All returns every recorded diagnostic, in report order.
func (h *Handler) All() []Diagnostic {
	out := make([]Diagnostic, len(h.diagnostic))
	copy(out, h.diagnostic)
	return out
}

// Summary aggregates counts by Kind and by Component, for the report
// described in spec.md §7.
type Summary struct {
	TotalErrors   int
	TotalWarnings int
	ByKind        map[Kind]int
	ByComponent   map[string]int
	// SortedByPosition lists every diagnostic ordered by source position,
	// ascending. Populated via a PriorityQueue so reporting order does not
	// depend on the accumulation order.
	SortedByPosition []Diagnostic
}

// Summarize builds a Summary of all diagnostics accumulated so far.
func (h *Handler) Summarize() Summary {
	s := Summary{
		ByKind:      make(map[Kind]int),
		ByComponent: make(map[string]int),
	}
	pq := collections.NewEmptyPriorityQueue[Diagnostic]()
	for _, d := range h.diagnostic {
		if d.Severity == Error {
			s.TotalErrors++
		} else {
			s.TotalWarnings++
		}
		s.ByKind[d.Kind]++
		s.ByComponent[d.Component]++
		pq.Push(d)
	}
	s.SortedByPosition = make([]Diagnostic, 0, len(h.diagnostic))
	for !pq.Empty() {
		s.SortedByPosition = append(s.SortedByPosition, pq.Pop())
	}
	return s
}
