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

// Package macros implements the preprocessor's macro table: object-like
// and function-like definitions, parameter substitution with
// stringification (#) and concatenation (##), self-reference painting,
// __VA_ARGS__, and the predefined macros every translation unit starts
// with.
package macros

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/EngFlow/ccfront/internal/cc/dialect"
)

// VariadicParam is the parameter name spec.md's grammar binds to the
// trailing "..." in a function-like macro's parameter list.
const VariadicParam = "__VA_ARGS__"

// IdentifierRegex matches a valid C identifier / macro name.
var IdentifierRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Macro is a single preprocessor definition.
type Macro struct {
	Name         string
	FunctionLike bool
	Params       []string // for function-like macros; does not include "..." itself
	Variadic     bool
	Body         string
}

// normalizedBody returns Body with interior whitespace runs collapsed to a
// single space and leading/trailing whitespace trimmed, used to decide
// whether a redefinition is benign (spec.md §9 Open Question: warn only
// when the normalized body actually differs).
func (m *Macro) normalizedBody() string {
	return collapseWhitespace(m.Body)
}

// Equivalent reports whether m and other would expand identically: same
// shape (function-like/variadic/params) and the same normalized body.
func (m *Macro) Equivalent(other *Macro) bool {
	if m.FunctionLike != other.FunctionLike || m.Variadic != other.Variadic {
		return false
	}
	if len(m.Params) != len(other.Params) {
		return false
	}
	for i := range m.Params {
		if m.Params[i] != other.Params[i] {
			return false
		}
	}
	return m.normalizedBody() == other.normalizedBody()
}

// FileLineProvider supplies the dynamic values of __FILE__ and __LINE__,
// which spec.md §4.4 requires to be re-evaluated at each expansion site
// rather than fixed at definition time.
type FileLineProvider interface {
	CurrentFile() string
	CurrentLine() int
}

// Table holds the active macro definitions for one translation unit. Per
// spec.md §5 it is owned by exactly one preprocessor/directive interpreter
// and mutated only by that component.
type Table struct {
	macros            map[string]*Macro
	maxExpansionSize  int
	maxRecursionDepth int
	location          FileLineProvider
	onRedefineWarning func(name string)
}

// NewTable constructs an empty Table. maxExpansionSize bounds any single
// expansion in bytes (0 or less selects 1 MiB); maxRecursionDepth bounds
// how deeply macro substitutions may nest, object-like and function-like
// alike (0 or less selects 200). ccfront.Engine passes
// Configuration.MaxRecursionDepth as maxRecursionDepth.
func NewTable(maxExpansionSize, maxRecursionDepth int, loc FileLineProvider) *Table {
	if maxExpansionSize <= 0 {
		maxExpansionSize = 1 << 20
	}
	if maxRecursionDepth <= 0 {
		maxRecursionDepth = 200
	}
	return &Table{
		macros:            make(map[string]*Macro),
		maxExpansionSize:  maxExpansionSize,
		maxRecursionDepth: maxRecursionDepth,
		location:          loc,
	}
}

// OnRedefineWarning registers a callback invoked when Define silently
// detects a non-equivalent redefinition, so callers can route it to
// ccerrors.Handler as a Warning.
func (t *Table) OnRedefineWarning(cb func(name string)) { t.onRedefineWarning = cb }

// Define installs m, replacing any existing definition of the same name.
// Per spec.md §4.4's lifecycle note, a redefinition with a body that is
// not normalized-equivalent to the prior one triggers the redefine
// warning callback; an equivalent redefinition is silent.
func (t *Table) Define(m *Macro) {
	if existing, ok := t.macros[m.Name]; ok && !existing.Equivalent(m) {
		if t.onRedefineWarning != nil {
			t.onRedefineWarning(m.Name)
		}
	}
	t.macros[m.Name] = m
}

// Undefine removes name's definition. A no-op when name is not defined.
func (t *Table) Undefine(name string) {
	delete(t.macros, name)
}

// IsDefined reports whether name currently has a definition.
func (t *Table) IsDefined(name string) bool {
	_, ok := t.macros[name]
	return ok
}

// Lookup returns name's current definition, if any.
func (t *Table) Lookup(name string) (*Macro, bool) {
	m, ok := t.macros[name]
	return m, ok
}

// Names returns every currently-defined macro name, unordered.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.macros))
	for name := range t.macros {
		names = append(names, name)
	}
	return names
}

// InstallPredefined populates the table with the macros spec.md §6
// mandates at engine initialization: __STDC__, __STDC_VERSION__, and an
// initial __DATE__/__TIME__ pair, plus any caller-supplied
// predefined_macros (which take precedence, matching gcc/clang -D
// semantics: user definitions override implicit ones when both name the
// same macro).
func (t *Table) InstallPredefined(d dialect.Dialect, now time.Time, userDefined map[string]string) {
	t.Define(&Macro{Name: "__STDC__", Body: "1"})
	t.Define(&Macro{Name: "__STDC_VERSION__", Body: d.StdcVersion()})
	t.Define(&Macro{Name: "__DATE__", Body: quoteString(now.Format("Jan  2 2006"))})
	t.Define(&Macro{Name: "__TIME__", Body: quoteString(now.Format("15:04:05"))})
	// __FILE__ and __LINE__ are dynamic (see expandDynamic) and are not
	// installed as ordinary table entries; IsDefinedAny still reports them as
	// defined so #ifdef __FILE__ behaves as users expect.
	for name, body := range userDefined {
		t.Define(&Macro{Name: name, Body: body})
	}
}

func quoteString(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// isDynamicName reports whether name is one of the two macros re-evaluated
// at each use site instead of stored as a fixed body.
func isDynamicName(name string) bool {
	return name == "__FILE__" || name == "__LINE__"
}

// IsDefinedAny reports whether name is defined, including the two dynamic
// predefined names which are not stored as ordinary Table entries.
func (t *Table) IsDefinedAny(name string) bool {
	return isDynamicName(name) || t.IsDefined(name)
}

func collapseWhitespace(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}

// parseErrorf builds a plain error with the package's "macro expansion:"
// prefix; callers wrap further with position information as needed.
func parseErrorf(format string, args ...any) error {
	return fmt.Errorf("macro expansion: "+format, args...)
}


// ParseDefine parses the text following "#define" (the directive keyword
// and the whitespace after it already stripped) into a Macro, per
// spec.md §6's directive grammar:
//
//	define := identifier ( parameter-list )? WS* body?
//	parameter-list := '(' (identifier (',' identifier)*)? (',' '...')? ')'
//	                 | '(' '...' ')'
//
// Whether the macro is function-like depends on whether '(' immediately
// follows the name with no intervening whitespace — the classic C
// disambiguation rule.
func ParseDefine(text string) (*Macro, error) {
	i := 0
	for i < len(text) && isSpaceByte(text[i]) {
		i++
	}
	if i >= len(text) || !isIdentStartByte(text[i]) {
		return nil, parseErrorf("#define missing macro name")
	}
	name, n := scanIdentifier(text[i:])
	i += n
	if !IdentifierRegex.MatchString(name) {
		return nil, parseErrorf("invalid macro name %q", name)
	}

	m := &Macro{Name: name}
	if i < len(text) && text[i] == '(' {
		m.FunctionLike = true
		params, rest, err := parseParameterList(text[i+1:])
		if err != nil {
			return nil, err
		}
		m.Params = params.names
		m.Variadic = params.variadic
		i = len(text) - len(rest)
	}
	for i < len(text) && isSpaceByte(text[i]) {
		i++
	}
	m.Body = text[i:]
	return m, nil
}

type parsedParams struct {
	names    []string
	variadic bool
}

// parseParameterList parses a function-like macro's parameter list,
// starting right after the opening '(' (already consumed). It returns the
// parsed parameters and the remainder of text starting right after the
// matching ')'.
func parseParameterList(text string) (parsedParams, string, error) {
	var out parsedParams
	i := 0
	for {
		for i < len(text) && isSpaceByte(text[i]) {
			i++
		}
		if i >= len(text) {
			return parsedParams{}, "", parseErrorf("unterminated macro parameter list")
		}
		if text[i] == ')' {
			return out, text[i+1:], nil
		}
		if strings.HasPrefix(text[i:], "...") {
			out.variadic = true
			i += 3
			for i < len(text) && isSpaceByte(text[i]) {
				i++
			}
			if i >= len(text) || text[i] != ')' {
				return parsedParams{}, "", parseErrorf("'...' must be the last macro parameter")
			}
			return out, text[i+1:], nil
		}
		if !isIdentStartByte(text[i]) {
			return parsedParams{}, "", parseErrorf("invalid character %q in macro parameter list", text[i])
		}
		name, n := scanIdentifier(text[i:])
		out.names = append(out.names, name)
		i += n
		for i < len(text) && isSpaceByte(text[i]) {
			i++
		}
		if i < len(text) && text[i] == ',' {
			i++
			continue
		}
		if i < len(text) && text[i] == ')' {
			return out, text[i+1:], nil
		}
		return parsedParams{}, "", parseErrorf("expected ',' or ')' in macro parameter list")
	}
}
