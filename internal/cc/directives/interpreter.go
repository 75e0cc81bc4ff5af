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

	"github.com/EngFlow/ccfront/internal/cc/constexpr"
	"github.com/EngFlow/ccfront/internal/cc/include"
	"github.com/EngFlow/ccfront/internal/cc/macros"
)

// Action reports the effect a dispatched Directive has on the
// preprocessor driver: most directives are fully handled inside
// Dispatch and need no further driver action, but #include hands back
// the resolved file for the driver to recurse into.
type Action struct {
	Kind          DirectiveKind
	Include       include.Resolved // populated when Kind == Include and emission was enabled
	Message       string           // the (already macro-expanded) #error/#warning text
	Emit          bool             // whether the directive fired at all (false if skipped by conditional nesting)
	ConditionWarn string           // non-empty when an #if/#elif expression was malformed and recovered as false
}

// Interpreter dispatches one parsed Directive at a time against a shared
// macro table, conditional stack, and include resolver — the three
// collaborators spec.md §4.7 names for C7.
type Interpreter struct {
	Macros          *macros.Table
	Stack           *ConditionalStack
	Resolver        include.Resolver
	MaxIncludeDepth int
	includeDepth    int
}

// NewInterpreter wires a fresh Interpreter around an existing macro
// table (already seeded with predefined macros) and include resolver.
// maxIncludeDepth defaults to 200 when non-positive.
func NewInterpreter(table *macros.Table, resolver include.Resolver, maxIncludeDepth int) *Interpreter {
	if maxIncludeDepth <= 0 {
		maxIncludeDepth = 200
	}
	return &Interpreter{
		Macros:          table,
		Stack:           NewConditionalStack(),
		Resolver:        resolver,
		MaxIncludeDepth: maxIncludeDepth,
	}
}

// Dispatch processes one Directive, per spec.md §4.6's table of
// directive effects. Structural directives (#if family, #else, #endif)
// always run, since the conditional stack must track nesting regardless
// of whether the surrounding code is being emitted. Every other
// directive only takes effect while EmitEnabled() is true at dispatch
// time — a #define, #include, or #error inside a skipped branch is
// inert, matching standard C semantics.
func (in *Interpreter) Dispatch(d Directive, currentFile string) (Action, error) {
	switch d.Kind {
	case IfKind, IfdefKind, IfndefKind:
		return in.handleIf(d)
	case ElifKind:
		return in.handleElif(d)
	case ElseKind:
		if err := in.Stack.Else(); err != nil {
			return Action{}, err
		}
		return Action{Kind: ElseKind, Emit: true}, nil
	case Endif:
		if _, err := in.Stack.Pop(); err != nil {
			return Action{}, err
		}
		return Action{Kind: Endif, Emit: true}, nil
	}

	if !in.Stack.EmitEnabled() {
		return Action{Kind: d.Kind, Emit: false}, nil
	}

	switch d.Kind {
	case Define:
		m, err := macros.ParseDefine(d.Arguments)
		if err != nil {
			return Action{}, fmt.Errorf("directives: %w", err)
		}
		in.Macros.Define(m)
		return Action{Kind: Define, Emit: true}, nil
	case Undef:
		in.Macros.Undefine(strings.TrimSpace(d.Arguments))
		return Action{Kind: Undef, Emit: true}, nil
	case Include:
		return in.handleInclude(d, currentFile)
	case Error:
		msg, err := in.Macros.Expand(d.Arguments)
		if err != nil {
			return Action{}, err
		}
		return Action{Kind: Error, Message: msg, Emit: true}, nil
	case Warning:
		msg, err := in.Macros.Expand(d.Arguments)
		if err != nil {
			return Action{}, err
		}
		return Action{Kind: Warning, Message: msg, Emit: true}, nil
	case Pragma, Line:
		return Action{Kind: d.Kind, Emit: true}, nil
	default:
		return Action{}, fmt.Errorf("directives: unhandled directive kind %v", d.Kind)
	}
}

func (in *Interpreter) handleIf(d Directive) (Action, error) {
	var kind FrameKind
	switch d.Kind {
	case IfKind:
		kind = If
	case IfdefKind:
		kind = Ifdef
	case IfndefKind:
		kind = Ifndef
	}

	var taken bool
	var warn string
	if in.Stack.EmitEnabled() {
		var err error
		taken, err = in.evalCondition(kind, d.Arguments)
		if err != nil {
			// A malformed constant expression is recovered locally (spec.md
			// §7): the branch is treated as false and dispatch continues
			// rather than aborting the whole translation unit.
			taken = false
			warn = err.Error()
		}
	}
	in.Stack.PushIf(kind, taken, d.Position)
	return Action{Kind: d.Kind, Emit: true, ConditionWarn: warn}, nil
}

func (in *Interpreter) handleElif(d Directive) (Action, error) {
	should, err := in.Stack.ShouldEvaluateBranch()
	if err != nil {
		return Action{}, err
	}
	var taken bool
	var warn string
	if should {
		taken, err = in.evalCondition(Elif, d.Arguments)
		if err != nil {
			taken = false
			warn = err.Error()
		}
	}
	if err := in.Stack.Elif(taken); err != nil {
		return Action{}, err
	}
	return Action{Kind: ElifKind, Emit: true, ConditionWarn: warn}, nil
}

func (in *Interpreter) evalCondition(kind FrameKind, args string) (bool, error) {
	switch kind {
	case Ifdef:
		return in.Macros.IsDefinedAny(strings.TrimSpace(args)), nil
	case Ifndef:
		return !in.Macros.IsDefinedAny(strings.TrimSpace(args)), nil
	default: // If, Elif
		return constexpr.EvaluateBool(args, in.Macros)
	}
}

func (in *Interpreter) handleInclude(d Directive, currentFile string) (Action, error) {
	path, kind, err := parseIncludeArgs(d.Arguments)
	if err != nil {
		return Action{}, err
	}
	if in.includeDepth >= in.MaxIncludeDepth {
		return Action{}, fmt.Errorf("directives: #include nesting exceeds max_include_depth (%d) at %s", in.MaxIncludeDepth, d.Position)
	}
	resolved, err := in.Resolver.Resolve(path, kind, currentFile)
	if err != nil {
		return Action{}, fmt.Errorf("directives: %w", err)
	}
	return Action{Kind: Include, Include: resolved, Emit: true}, nil
}

// EnterInclude/LeaveInclude bracket the driver's recursive processing of
// an included file's content, keeping includeDepth in sync with
// MaxIncludeDepth.
func (in *Interpreter) EnterInclude() { in.includeDepth++ }
func (in *Interpreter) LeaveInclude() { in.includeDepth-- }

// IncludeDepth reports the current include-nesting depth.
func (in *Interpreter) IncludeDepth() int { return in.includeDepth }

// parseIncludeArgs splits a #include's raw arguments into the path and
// whether it was written with angle brackets (system) or quotes
// (quoted), per spec.md §3's IncludeDirective shape.
func parseIncludeArgs(args string) (string, include.Kind, error) {
	args = strings.TrimSpace(args)
	if len(args) >= 2 && args[0] == '"' && args[len(args)-1] == '"' {
		return args[1 : len(args)-1], include.Quoted, nil
	}
	if len(args) >= 2 && args[0] == '<' && args[len(args)-1] == '>' {
		return args[1 : len(args)-1], include.System, nil
	}
	return "", include.Quoted, fmt.Errorf("directives: malformed #include argument %q", args)
}
