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

// Package include resolves #include directives to file content. Per
// spec.md's explicit non-goal, the search logic itself stays deliberately
// minimal (no compiler-builtin search path emulation); what's fully wired
// is the collaborator contract the directive interpreter dispatches
// through, and glob-capable include_paths entries via doublestar.
package include

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Kind distinguishes `#include <...>` (System) from `#include "..."` (Quoted).
type Kind int

const (
	Quoted Kind = iota
	System
)

// Resolved is the content of one successfully resolved #include target.
type Resolved struct {
	Path    string // path resolved_path, relative to the Resolver's fs.FS root
	Content string
}

// Resolver is the directive interpreter's collaborator for #include: given
// a path as written and the including file's own path, it returns the
// resolved file's content or a not-found error.
type Resolver interface {
	Resolve(path string, kind Kind, fromFile string) (Resolved, error)
}

// PathResolver is the minimal path-searching Resolver: quoted includes
// search the including file's directory first, then quoteDirs; system
// includes search only systemDirs. Entries in either list may be plain
// directories or doublestar glob patterns (e.g. "vendor/**"), expanded
// against fsys at resolve time.
type PathResolver struct {
	fsys       fs.FS
	quoteDirs  []string
	systemDirs []string
}

// NewPathResolver constructs a PathResolver reading from fsys (typically
// os.DirFS(projectRoot)).
func NewPathResolver(fsys fs.FS, quoteDirs, systemDirs []string) *PathResolver {
	return &PathResolver{fsys: fsys, quoteDirs: quoteDirs, systemDirs: systemDirs}
}

func (r *PathResolver) Resolve(p string, kind Kind, fromFile string) (Resolved, error) {
	for _, dir := range r.candidateDirs(kind, fromFile) {
		full := path.Join(dir, p)
		data, err := fs.ReadFile(r.fsys, full)
		if err == nil {
			return Resolved{Path: full, Content: string(data)}, nil
		}
	}
	return Resolved{}, fmt.Errorf("include: %q not found (quoted=%v)", p, kind == Quoted)
}

func (r *PathResolver) candidateDirs(kind Kind, fromFile string) []string {
	var dirs []string
	if kind == Quoted {
		dirs = append(dirs, path.Dir(fromFile))
		dirs = append(dirs, r.expandDirs(r.quoteDirs)...)
	}
	dirs = append(dirs, r.expandDirs(r.systemDirs)...)
	return dirs
}

// expandDirs resolves any glob-pattern entries (those containing
// doublestar/glob metacharacters) against fsys, passing plain directories
// through unchanged.
func (r *PathResolver) expandDirs(patterns []string) []string {
	var out []string
	for _, p := range patterns {
		if !strings.ContainsAny(p, "*?[{") {
			out = append(out, p)
			continue
		}
		if !doublestar.ValidatePattern(p) {
			continue
		}
		matches, err := doublestar.Glob(r.fsys, p, doublestar.WithNoFollow())
		if err != nil {
			continue
		}
		out = append(out, matches...)
	}
	return out
}
