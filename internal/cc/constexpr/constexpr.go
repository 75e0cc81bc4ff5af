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

// Package constexpr evaluates the constant integer expressions that appear
// in #if and #elif directives: defined() is substituted pre-expansion,
// the remaining text is macro-expanded, then tokenized and evaluated over
// the full C operator-precedence table with 64-bit signed arithmetic.
package constexpr

import (
	"fmt"
	"regexp"

	"github.com/EngFlow/ccfront/internal/cc/macros"
)

var (
	definedCallRegex = regexp.MustCompile(`\bdefined\s*\(\s*([A-Za-z_][A-Za-z0-9_]*)\s*\)`)
	definedBareRegex = regexp.MustCompile(`\bdefined\s+([A-Za-z_][A-Za-z0-9_]*)`)
)

// substituteDefined replaces every defined(X) or defined X with a literal
// "1" or "0", before macro expansion runs — defined's operand must never
// itself be macro-expanded.
func substituteDefined(text string, table *macros.Table) string {
	replace := func(name string) string {
		if table.IsDefinedAny(name) {
			return "1"
		}
		return "0"
	}
	text = definedCallRegex.ReplaceAllStringFunc(text, func(m string) string {
		sub := definedCallRegex.FindStringSubmatch(m)
		return replace(sub[1])
	})
	text = definedBareRegex.ReplaceAllStringFunc(text, func(m string) string {
		sub := definedBareRegex.FindStringSubmatch(m)
		return replace(sub[1])
	})
	return text
}

// Evaluate computes the 64-bit signed value of a #if/#elif condition,
// following spec.md §4.5's pipeline: defined() substitution, then macro
// expansion, then tokenize-and-evaluate over the full precedence table.
func Evaluate(text string, table *macros.Table) (int64, error) {
	substituted := substituteDefined(text, table)
	expanded, err := table.Expand(substituted)
	if err != nil {
		return 0, fmt.Errorf("constant expression: %w", err)
	}
	toks, err := tokenize(expanded)
	if err != nil {
		return 0, fmt.Errorf("constant expression: %w", err)
	}
	p := &parser{toks: toks}
	expr, err := p.parseExpr(precedenceLowest)
	if err != nil {
		return 0, fmt.Errorf("constant expression: %w", err)
	}
	if p.current().kind != tokEOF {
		return 0, fmt.Errorf("constant expression: unexpected trailing token %q", p.current().text)
	}
	return expr.Eval()
}

// EvaluateBool is Evaluate's boolean form: result != 0.
func EvaluateBool(text string, table *macros.Table) (bool, error) {
	v, err := Evaluate(text, table)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}
