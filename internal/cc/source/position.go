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

// Package source carries the position and range types shared by every
// stage of the front end, along with the append-only mapping that lets a
// position in the fully-expanded text be traced back to the line the user
// actually wrote.
package source

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Position locates a single character in a file. Line and Column are
// 1-based; Offset counts bytes from 0.
type Position struct {
	File   string
	Line   int
	Column int
	Offset int
}

// Zero is the reported position before any input has been consumed.
var Zero = Position{Line: 1, Column: 1}

func (p Position) IsZero() bool {
	return p == Position{} || p == Zero
}

func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// AdvancedBy returns a new Position advanced by lookAhead, which is assumed
// to start exactly at p. Newlines increment Line and reset Column; other
// runes increment Column and Offset by their byte length.
func (p Position) AdvancedBy(lookAhead string) Position {
	newlines := strings.Count(lookAhead, "\n")
	tailBegin := 1 + strings.LastIndex(lookAhead, "\n")
	tailRunes := utf8.RuneCountInString(lookAhead[tailBegin:])

	p.Offset += len(lookAhead)
	if newlines == 0 {
		p.Column += tailRunes
	} else {
		p.Line += newlines
		p.Column = 1 + tailRunes
	}
	return p
}

// SourceRange is a half-open-in-spirit (but inclusive end token) span
// between two Positions in lex order: End is never before Start.
type SourceRange struct {
	Start Position
	End   Position
}

func (r SourceRange) String() string {
	if r.Start.File == r.End.File {
		return fmt.Sprintf("%s-%d:%d", r.Start, r.End.Line, r.End.Column)
	}
	return fmt.Sprintf("%s-%s", r.Start, r.End)
}

// Contains reports whether r fully contains other, as required by the AST
// well-formedness invariant (every node's range contains its children's).
func (r SourceRange) Contains(other SourceRange) bool {
	return !before(other.Start, r.Start) && !before(r.End, other.End)
}

// Join returns the smallest SourceRange containing both r and other.
func (r SourceRange) Join(other SourceRange) SourceRange {
	joined := r
	if before(other.Start, joined.Start) {
		joined.Start = other.Start
	}
	if before(joined.End, other.End) {
		joined.End = other.End
	}
	return joined
}

func before(a, b Position) bool {
	return a.Offset < b.Offset
}
