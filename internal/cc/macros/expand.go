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

package macros

import (
	"fmt"
	"maps"
	"regexp"
	"strconv"
	"strings"

	"github.com/EngFlow/ccfront/internal/cc/dialect"
	"github.com/EngFlow/ccfront/internal/cc/lexer"
	"github.com/EngFlow/ccfront/internal/collections"
)

// ErrRecursionLimit is returned when nested macro substitution (each
// object-like or function-like replacement adds one level) exceeds the
// table's configured maxRecursionDepth.
var ErrRecursionLimit = fmt.Errorf("macro expansion: recursion depth exceeded")

// Expand fully macro-expands text: every occurrence of a defined
// object-like or function-like macro name is replaced by its body
// (recursively, subject to self-reference painting), until no further
// substitution applies. It is the entry point the directive interpreter
// and constant-expression evaluator both call.
func (t *Table) Expand(text string) (string, error) {
	return t.expand(text, make(collections.Set[string]), 0)
}

func (t *Table) expand(text string, painted collections.Set[string], depth int) (string, error) {
	if depth > t.maxRecursionDepth {
		return "", ErrRecursionLimit
	}
	var out strings.Builder
	i := 0
	for i < len(text) {
		c := text[i]
		switch {
		case c == '"' || c == '\'':
			lit, n := scanLiteral(text[i:], c)
			out.WriteString(lit)
			i += n
		case isIdentStartByte(c):
			name, n := scanIdentifier(text[i:])
			i += n
			if painted.Contains(name) || !t.IsDefined(name) {
				if isDynamicName(name) {
					out.WriteString(t.expandDynamic(name))
				} else {
					out.WriteString(name)
				}
				continue
			}
			m, _ := t.Lookup(name)
			replaced, consumedAfter, applied, err := t.invoke(m, text[i:])
			if err != nil {
				return "", err
			}
			if !applied {
				// Function-like macro not followed by '(': name stands for
				// itself, unexpanded.
				out.WriteString(name)
				continue
			}
			i += consumedAfter
			next := maps.Clone(painted)
			next.Add(name)
			expanded, err := t.expand(replaced, next, depth+1)
			if err != nil {
				return "", err
			}
			if out.Len()+len(expanded) > t.maxExpansionSize {
				return "", fmt.Errorf("macro expansion: expansion of %q exceeds max_macro_expansion_size", name)
			}
			out.WriteString(expanded)
		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.String(), nil
}

// expandDynamic renders __FILE__/__LINE__ at the current location.
func (t *Table) expandDynamic(name string) string {
	if t.location == nil {
		if name == "__FILE__" {
			return `""`
		}
		return "0"
	}
	if name == "__FILE__" {
		return quoteString(t.location.CurrentFile())
	}
	return strconv.Itoa(t.location.CurrentLine())
}

// invoke attempts to apply m. For an object-like macro, applied is always
// true and rest is unused. For a function-like macro, applied is false
// (and consumed 0) if m.Name is not immediately followed by '(' in rest
// (after skipping whitespace/newlines, per C's call-site matching rule).
func (t *Table) invoke(m *Macro, rest string) (replaced string, consumed int, applied bool, err error) {
	if !m.FunctionLike {
		return m.Body, 0, true, nil
	}
	j := 0
	for j < len(rest) && isSpaceByte(rest[j]) {
		j++
	}
	if j >= len(rest) || rest[j] != '(' {
		return "", 0, false, nil
	}
	args, afterParen, err := splitArguments(rest[j+1:])
	if err != nil {
		return "", 0, false, err
	}
	if err := checkArity(m, args); err != nil {
		return "", 0, false, err
	}
	bindings, err := bindArguments(m, args)
	if err != nil {
		return "", 0, false, err
	}
	body, err := t.substituteBody(m, bindings)
	if err != nil {
		return "", 0, false, err
	}
	return body, j + 1 + afterParen, true, nil
}

func checkArity(m *Macro, args []string) error {
	if m.Variadic {
		n := len(args)
		if n == 1 && strings.TrimSpace(args[0]) == "" {
			n = 0 // LOG() supplies no arguments at all
		}
		if n < len(m.Params) {
			return fmt.Errorf("macro expansion: %s requires at least %d arguments, got %d", m.Name, len(m.Params), n)
		}
		return nil
	}
	if len(m.Params) == 0 && len(args) == 1 && strings.TrimSpace(args[0]) == "" {
		return nil // FOO() with zero-parameter FOO
	}
	if len(args) != len(m.Params) {
		return fmt.Errorf("macro expansion: %s expects %d arguments, got %d", m.Name, len(m.Params), len(args))
	}
	return nil
}

func bindArguments(m *Macro, args []string) (map[string]string, error) {
	bindings := make(map[string]string, len(m.Params)+1)
	for i, p := range m.Params {
		if i < len(args) {
			bindings[p] = strings.TrimSpace(args[i])
		} else {
			bindings[p] = ""
		}
	}
	if m.Variadic {
		rest := args[min(len(m.Params), len(args)):]
		bindings[VariadicParam] = strings.TrimSpace(strings.Join(rest, ","))
	}
	return bindings, nil
}

// splitArguments parses comma-separated macro arguments starting right
// after the opening '(' (already consumed by the caller), honoring
// nested (), [], {} and suspending nesting tracking inside string/char
// literals, per spec.md §4.4. It returns the raw argument texts and the
// number of bytes consumed up to and including the matching ')'.
func splitArguments(s string) (args []string, consumed int, err error) {
	depth := 0
	start := 0
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == '"' || c == '\'':
			_, n := scanLiteral(s[i:], c)
			i += n
			continue
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			if c == ')' && depth == 0 {
				args = append(args, s[start:i])
				return args, i + 1, nil
			}
			depth--
		case c == ',' && depth == 0:
			args = append(args, s[start:i])
			start = i + 1
		}
		i++
	}
	return nil, 0, fmt.Errorf("macro expansion: unterminated macro invocation, missing ')'")
}

// scanLiteral scans a string or char literal starting at s[0] == quote,
// returning the literal text (including delimiters) and its byte length.
// Used both by argument splitting (suspends nesting tracking) and by
// Expand (macro names inside literals are never substituted).
func scanLiteral(s string, quote byte) (string, int) {
	i := 1
	for i < len(s) {
		if s[i] == '\\' && i+1 < len(s) {
			i += 2
			continue
		}
		if s[i] == quote {
			i++
			break
		}
		i++
	}
	return s[:i], i
}

func isIdentStartByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentByte(c byte) bool {
	return isIdentStartByte(c) || (c >= '0' && c <= '9')
}

func isSpaceByte(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func scanIdentifier(s string) (string, int) {
	i := 1
	for i < len(s) && isIdentByte(s[i]) {
		i++
	}
	return s[:i], i
}

// bodyToken is one element of a tokenized macro body: either literal text
// or a reference to a parameter, optionally marked for stringification or
// for concatenation with its neighbor.
type bodyToken struct {
	isParam     bool
	text        string // literal text, when !isParam
	param       string // parameter name, when isParam
	stringify   bool
	concatPrev  bool
}

var bodyTokenPattern = regexp.MustCompile(`##|#|[A-Za-z_][A-Za-z0-9_]*|\s+|.`)

// substituteBody performs parameter substitution (with # and ##) over
// m.Body using bindings, which maps each parameter name (and
// VariadicParam, for variadic macros) to its already-trimmed, unexpanded
// argument text.
func (t *Table) substituteBody(m *Macro, bindings map[string]string) (string, error) {
	isParam := func(name string) bool {
		_, ok := bindings[name]
		return ok
	}

	raw := bodyTokenPattern.FindAllString(m.Body, -1)
	isWhitespaceTok := func(tok string) bool {
		return tok != "" && strings.TrimSpace(tok) == ""
	}

	var tokens []bodyToken
	pendingConcat := false
	i := 0
	for i < len(raw) {
		tok := raw[i]
		switch {
		case isWhitespaceTok(tok):
			// Whitespace flanking a "##" is dropped entirely (the operands
			// join with no space); whitespace elsewhere is kept as literal
			// text so the rendered output preserves the body's own
			// spacing instead of a synthesized approximation of it.
			prevIsConcat := i > 0 && raw[i-1] == "##"
			nextIsConcat := i+1 < len(raw) && raw[i+1] == "##"
			if prevIsConcat || nextIsConcat {
				i++
				continue
			}
			tokens = appendLiteral(tokens, tok, false)
			i++
		case tok == "##":
			pendingConcat = true
			i++
		case tok == "#":
			j := i + 1
			for j < len(raw) && isWhitespaceTok(raw[j]) {
				j++
			}
			if j < len(raw) && isParam(raw[j]) {
				tokens = append(tokens, bodyToken{isParam: true, param: raw[j], stringify: true, concatPrev: pendingConcat})
				pendingConcat = false
				i = j + 1
			} else {
				tokens = appendLiteral(tokens, tok, pendingConcat)
				pendingConcat = false
				i++
			}
		case isParam(tok):
			tokens = append(tokens, bodyToken{isParam: true, param: tok, concatPrev: pendingConcat})
			pendingConcat = false
			i++
		default:
			tokens = appendLiteral(tokens, tok, pendingConcat)
			pendingConcat = false
			i++
		}
	}

	var out strings.Builder
	var pending string
	havePending := false
	for idx, bt := range tokens {
		var rendered string
		if bt.isParam {
			arg := bindings[bt.param]
			switch {
			case bt.stringify:
				rendered = stringifyArgument(arg)
			case bt.concatPrev || (idx+1 < len(tokens) && tokens[idx+1].concatPrev):
				rendered = arg
			default:
				expanded, err := t.expand(arg, make(collections.Set[string]), 0)
				if err != nil {
					return "", err
				}
				rendered = expanded
			}
		} else {
			rendered = bt.text
		}
		if bt.concatPrev {
			// A chain like "A ## B ## C" pastes left to right, validating
			// each intermediate result (AB, then ABC) as it goes.
			pasted := pending + rendered
			if !isSingleValidToken(pasted) {
				return "", fmt.Errorf("macro expansion: %q: ## paste %q does not form a valid token", m.Name, pasted)
			}
			pending = pasted
		} else {
			if havePending {
				out.WriteString(pending)
			}
			pending = rendered
			havePending = true
		}
	}
	if havePending {
		out.WriteString(pending)
	}
	return out.String(), nil
}

// isSingleValidToken reports whether s lexes as exactly one token (per
// spec.md §4.4's requirement that a ## paste "form a single valid
// token"). The dialect choice only affects keyword-vs-identifier
// classification, which is immaterial here: both are one token.
func isSingleValidToken(s string) bool {
	if strings.TrimSpace(s) == "" {
		return false
	}
	buf := lexer.NewLookaheadBuffer(strings.NewReader(s))
	lx := lexer.NewLexer(buf, dialect.C17)
	first, err := lx.Next()
	if err != nil || first.Kind == lexer.EOF {
		return false
	}
	if first.Range.End.Offset != len(s) {
		return false
	}
	second, err := lx.Next()
	if err != nil || second.Kind != lexer.EOF {
		return false
	}
	return true
}

func appendLiteral(tokens []bodyToken, text string, concatPrev bool) []bodyToken {
	if len(tokens) > 0 && !tokens[len(tokens)-1].isParam && !concatPrev {
		tokens[len(tokens)-1].text += text
		return tokens
	}
	return append(tokens, bodyToken{text: text, concatPrev: concatPrev})
}

// stringifyArgument implements the `#param` operator: trims leading and
// trailing whitespace, collapses interior whitespace runs to a single
// space, and escapes '"' and '\' before wrapping the result in quotes.
func stringifyArgument(arg string) string {
	collapsed := collapseWhitespace(arg)
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(collapsed)
	return `"` + escaped + `"`
}
