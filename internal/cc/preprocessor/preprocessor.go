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

// Package preprocessor drives macro expansion and directive dispatch
// line by line, producing fully expanded text plus a position map that
// traces every expanded character back to where the user actually wrote
// it (C8).
package preprocessor

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/EngFlow/ccfront/internal/cc/ccerrors"
	"github.com/EngFlow/ccfront/internal/cc/directives"
	"github.com/EngFlow/ccfront/internal/cc/include"
	"github.com/EngFlow/ccfront/internal/cc/macros"
	"github.com/EngFlow/ccfront/internal/cc/source"
)

// Result is the output of processing one translation unit: the fully
// expanded text ready for the lexer, and the map tracing it back to
// original source positions.
type Result struct {
	Expanded    string
	PositionMap *source.PositionMap
}

// Driver orchestrates the macro table, conditional stack, and directive
// interpreter over one file at a time, per spec.md §4.8. #include is
// handled by recursively inlining the resolved file's content at the
// point of the directive.
type Driver struct {
	interp *directives.Interpreter
	errors *ccerrors.Handler
	loc    *Location
}

// NewDriver constructs a Driver around an already-seeded macro table and
// include resolver. errors, if non-nil, receives #error/#warning
// diagnostics and halts processing once its error ceiling is exceeded.
func NewDriver(table *macros.Table, resolver include.Resolver, maxIncludeDepth int, errors *ccerrors.Handler) *Driver {
	return &Driver{
		interp: directives.NewInterpreter(table, resolver, maxIncludeDepth),
		errors: errors,
	}
}

// Interpreter exposes the underlying directive interpreter, e.g. so a
// caller can seed predefined macros through its Macros field before the
// first call to Process.
func (d *Driver) Interpreter() *directives.Interpreter { return d.interp }

// Location tracks the file and line the driver is currently expanding.
// It satisfies macros.FileLineProvider, letting __FILE__/__LINE__
// resolve to wherever expansion is actually happening (including inside
// a nested #include) rather than a value fixed at table construction.
type Location struct {
	file string
	line int
}

// NewLocation returns a Location usable as the FileLineProvider passed
// to macros.NewTable, to be handed to TrackLocation once the Driver that
// will keep it updated exists.
func NewLocation() *Location { return &Location{} }

func (l *Location) CurrentFile() string { return l.file }
func (l *Location) CurrentLine() int    { return l.line }

// TrackLocation makes d update loc with the file/line of whatever source
// line it is currently expanding, for the lifetime of every subsequent
// call to Process.
func (d *Driver) TrackLocation(loc *Location) { d.loc = loc }

// Process expands file's content in full, inlining every #include it
// encounters (honoring the interpreter's configured max include depth)
// and returns the fully expanded text plus its position map.
//
// Coordination invariant (spec.md §4.8): on success, the conditional
// stack is back to depth 0 — every #if/#ifdef/#ifndef opened while
// processing file (and its transitive includes) was matched by an
// #endif.
func (d *Driver) Process(file, text string) (Result, error) {
	var out strings.Builder
	posMap := &source.PositionMap{}
	expandedPos := source.Zero

	if err := d.run(file, text, &out, posMap, &expandedPos); err != nil {
		return Result{}, err
	}
	if depth := d.interp.Stack.Depth(); depth != 0 {
		return Result{}, fmt.Errorf("preprocessor: %d unterminated conditional block(s) at end of %s", depth, file)
	}
	return Result{Expanded: out.String(), PositionMap: posMap}, nil
}

// run scans file's text line by line, per spec.md §4.8's three-way
// dispatch: directive lines are parsed and dispatched (possibly
// recursing into an #include'd file); suppressed non-directive lines
// become a blank line, to preserve line numbering; everything else is
// macro-expanded and appended.
func (d *Driver) run(file, text string, out *strings.Builder, posMap *source.PositionMap, expandedPos *source.Position) error {
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	emit := func(origPos source.Position, text string) {
		posMap.Add(*expandedPos, origPos, "")
		out.WriteString(text)
		out.WriteByte('\n')
		*expandedPos = expandedPos.AdvancedBy(text + "\n")
	}

	line := 1
	for scanner.Scan() {
		raw := scanner.Text()
		origPos := source.Position{File: file, Line: line, Column: 1}
		if d.loc != nil {
			d.loc.file, d.loc.line = file, line
		}
		line++

		if strings.HasPrefix(strings.TrimLeft(raw, " \t"), "#") {
			dir, err := directives.ParseLine(raw, origPos)
			if err != nil {
				return fmt.Errorf("preprocessor: %w", err)
			}
			action, err := d.interp.Dispatch(dir, file)
			if err != nil {
				return fmt.Errorf("preprocessor: %s: %w", origPos, err)
			}
			if action.ConditionWarn != "" && d.errors != nil {
				d.errors.Report(ccerrors.Diagnostic{
					Kind: ccerrors.Preprocessor, Severity: ccerrors.Warning,
					Position: origPos, Message: action.ConditionWarn, Component: "preprocessor",
				})
			}
			if action.Kind == directives.Include && action.Emit {
				d.interp.EnterInclude()
				err := d.run(action.Include.Path, action.Include.Content, out, posMap, expandedPos)
				d.interp.LeaveInclude()
				if err != nil {
					return err
				}
				continue
			}
			if action.Kind == directives.Error && action.Emit {
				d.reportDirective(action, origPos)
				return fmt.Errorf("preprocessor: %s: #error: %s", origPos, action.Message)
			}
			emit(origPos, d.reportDirective(action, origPos))
			continue
		}

		var expanded string
		if d.interp.Stack.EmitEnabled() {
			var err error
			expanded, err = d.interp.Macros.Expand(raw)
			if err != nil {
				return fmt.Errorf("preprocessor: %s: %w", origPos, err)
			}
		}
		emit(origPos, expanded)

		if d.errors != nil && d.errors.ShouldStop() {
			return fmt.Errorf("preprocessor: error ceiling exceeded at %s", origPos)
		}
	}
	return scanner.Err()
}

// reportDirective surfaces #error/#warning as diagnostics on d.errors and
// always returns the empty string: directives never contribute text to
// the expanded output.
func (d *Driver) reportDirective(action directives.Action, pos source.Position) string {
	if d.errors == nil || !action.Emit {
		return ""
	}
	switch action.Kind {
	case directives.Error:
		d.errors.Report(ccerrors.Diagnostic{
			Kind: ccerrors.Preprocessor, Severity: ccerrors.Error,
			Position: pos, Message: action.Message, Component: "preprocessor",
		})
	case directives.Warning:
		d.errors.Report(ccerrors.Diagnostic{
			Kind: ccerrors.Preprocessor, Severity: ccerrors.Warning,
			Position: pos, Message: action.Message, Component: "preprocessor",
		})
	}
	return ""
}
