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

// Package directives implements the conditional-compilation stack (C6)
// and the directive dispatch/interpreter (C7) that drives it, the macro
// table, and the constant-expression evaluator from one #-line at a time.
package directives

import (
	"fmt"

	"github.com/EngFlow/ccfront/internal/cc/source"
)

// FrameKind identifies which directive is currently governing a
// ConditionalFrame's active branch.
type FrameKind int

const (
	If FrameKind = iota
	Ifdef
	Ifndef
	Elif
	Else
)

func (k FrameKind) String() string {
	switch k {
	case If:
		return "if"
	case Ifdef:
		return "ifdef"
	case Ifndef:
		return "ifndef"
	case Elif:
		return "elif"
	case Else:
		return "else"
	default:
		return "unknown"
	}
}

// ConditionalFrame tracks one nested #if/#ifdef/#ifndef block, per
// spec.md §3's data model.
type ConditionalFrame struct {
	Kind                FrameKind
	CurrentBranchActive bool
	AnyBranchTaken      bool
	HasSeenElse         bool
	Origin              source.Position
}

// ConditionalStack is the live push/pop state machine backing nested
// conditional compilation. Per spec.md §4.6, emission is enabled only
// while every frame on the stack has its current branch active.
type ConditionalStack struct {
	frames []ConditionalFrame
}

// NewConditionalStack returns an empty stack (emission enabled, since an
// empty AND over zero frames is vacuously true).
func NewConditionalStack() *ConditionalStack {
	return &ConditionalStack{}
}

// Depth reports the number of open conditional blocks.
func (s *ConditionalStack) Depth() int { return len(s.frames) }

// EmitEnabled reports whether text at the current nesting level should be
// emitted: true iff every open frame has its current branch active.
func (s *ConditionalStack) EmitEnabled() bool {
	for _, f := range s.frames {
		if !f.CurrentBranchActive {
			return false
		}
	}
	return true
}

// PushIf opens a new conditional block for #if/#ifdef/#ifndef. taken is
// the already-evaluated truth value of the opening condition.
func (s *ConditionalStack) PushIf(kind FrameKind, taken bool, origin source.Position) {
	s.frames = append(s.frames, ConditionalFrame{
		Kind:                kind,
		CurrentBranchActive: taken,
		AnyBranchTaken:      taken,
		Origin:              origin,
	})
}

// Elif processes a #elif/#elifdef/#elifndef at the current nesting
// level. taken is the already-evaluated truth value of its condition; it
// is ignored (the branch is forced inactive) once an earlier branch at
// this level already fired, matching spec.md §4.6's any_branch_taken
// rule. Returns an error if there is no open block, or #elif follows
// #else.
func (s *ConditionalStack) Elif(taken bool) error {
	top, err := s.top()
	if err != nil {
		return err
	}
	if top.HasSeenElse {
		return fmt.Errorf("directives: #elif after #else at %s", top.Origin)
	}
	top.Kind = Elif
	if top.AnyBranchTaken {
		top.CurrentBranchActive = false
	} else {
		top.CurrentBranchActive = taken
		top.AnyBranchTaken = taken
	}
	return nil
}

// Else processes a #else at the current nesting level: active iff no
// earlier branch at this level fired. Returns an error if there is no
// open block, or a second #else is seen.
func (s *ConditionalStack) Else() error {
	top, err := s.top()
	if err != nil {
		return err
	}
	if top.HasSeenElse {
		return fmt.Errorf("directives: duplicate #else at %s", top.Origin)
	}
	top.Kind = Else
	top.HasSeenElse = true
	top.CurrentBranchActive = !top.AnyBranchTaken
	top.AnyBranchTaken = true
	return nil
}

// Pop closes the innermost conditional block for #endif. Returns an
// error if there is no open block.
func (s *ConditionalStack) Pop() (ConditionalFrame, error) {
	top, err := s.top()
	if err != nil {
		return ConditionalFrame{}, err
	}
	frame := *top
	s.frames = s.frames[:len(s.frames)-1]
	return frame, nil
}

// ShouldEvaluateBranch reports whether a #elif at the current nesting
// level needs its condition evaluated at all: false when an earlier
// branch at this level already fired (the result is moot) or when an
// enclosing frame is already inactive (the condition might reference
// macros or syntax that's only valid once expanded code runs, and its
// value can't affect the (already-false) AND across frames either way).
func (s *ConditionalStack) ShouldEvaluateBranch() (bool, error) {
	if len(s.frames) == 0 {
		return false, fmt.Errorf("directives: no open conditional block")
	}
	top := s.frames[len(s.frames)-1]
	if top.AnyBranchTaken {
		return false, nil
	}
	for _, f := range s.frames[:len(s.frames)-1] {
		if !f.CurrentBranchActive {
			return false, nil
		}
	}
	return true, nil
}

func (s *ConditionalStack) top() (*ConditionalFrame, error) {
	if len(s.frames) == 0 {
		return nil, fmt.Errorf("directives: no open conditional block")
	}
	return &s.frames[len(s.frames)-1], nil
}
