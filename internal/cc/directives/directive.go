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

package directives

import (
	"fmt"
	"strings"

	"github.com/EngFlow/ccfront/internal/cc/source"
)

// DirectiveKind is the closed tag set spec.md §3 assigns every
// preprocessor directive.
type DirectiveKind int

const (
	Include DirectiveKind = iota
	Define
	Undef
	IfKind
	IfdefKind
	IfndefKind
	ElseKind
	ElifKind
	Endif
	Error
	Warning
	Pragma
	Line
)

var directiveNames = map[string]DirectiveKind{
	"include":      Include,
	"include_next": Include,
	"define":       Define,
	"undef":        Undef,
	"if":           IfKind,
	"ifdef":        IfdefKind,
	"ifndef":       IfndefKind,
	"else":         ElseKind,
	"elif":         ElifKind,
	"elifdef":      ElifKind,
	"elifndef":     ElifKind,
	"endif":        Endif,
	"error":        Error,
	"warning":      Warning,
	"pragma":       Pragma,
	"line":         Line,
}

// Directive is one parsed #-line, per spec.md §3's data model.
type Directive struct {
	Kind      DirectiveKind
	Name      string // the directive keyword actually written (e.g. "elifdef")
	RawLine   string
	Arguments string // everything after the keyword, unparsed
	Position  source.Position
}

// ErrNotADirective is returned by ParseLine when the line does not begin
// with '#'.
var ErrNotADirective = fmt.Errorf("directives: not a preprocessor line")

// ParseLine recognizes whether line (already stripped of its trailing
// newline) is a preprocessor directive, and if so splits it into its
// keyword and raw argument text. It does not interpret the arguments:
// that is each directive handler's job in Interpreter.Dispatch.
func ParseLine(line string, pos source.Position) (Directive, error) {
	trimmed := strings.TrimLeft(line, " \t")
	if !strings.HasPrefix(trimmed, "#") {
		return Directive{}, ErrNotADirective
	}
	rest := strings.TrimLeft(trimmed[1:], " \t")
	if rest == "" {
		// A bare '#' is a valid null directive; treat as #pragma no-op.
		return Directive{Kind: Pragma, Name: "", RawLine: line, Position: pos}, nil
	}
	i := 0
	for i < len(rest) && !isSpace(rest[i]) {
		i++
	}
	name := rest[:i]
	kind, ok := directiveNames[name]
	if !ok {
		return Directive{}, fmt.Errorf("directives: unrecognized directive %q at %s", name, pos)
	}
	args := strings.TrimLeft(rest[i:], " \t")
	return Directive{Kind: kind, Name: name, RawLine: line, Arguments: args, Position: pos}, nil
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\v', '\f', '\r':
		return true
	}
	return false
}
