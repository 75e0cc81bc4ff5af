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

// Package ccfront is the public surface of the C front end engine:
// preprocess, lex, and parse one or many translation units under a
// shared Configuration, per spec.md §6 ("Input: a source filename or a
// string of C source; a configuration object" / "Output: a
// ProcessingResult").
package ccfront

import (
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/EngFlow/ccfront/internal/cc/ast"
	"github.com/EngFlow/ccfront/internal/cc/ccerrors"
	"github.com/EngFlow/ccfront/internal/cc/include"
	"github.com/EngFlow/ccfront/internal/cc/lexer"
	"github.com/EngFlow/ccfront/internal/cc/macros"
	"github.com/EngFlow/ccfront/internal/cc/parser"
	"github.com/EngFlow/ccfront/internal/cc/preprocessor"
	"github.com/EngFlow/ccfront/internal/cc/source"
	"github.com/EngFlow/ccfront/internal/cc/token"
	"github.com/EngFlow/ccfront/enginecfg"
)

// Stats summarizes one Process call's outcome for callers that don't
// need the full diagnostic list. ProcessedAt uses the well-known
// Timestamp type so processing metadata has a stable wire representation
// for a downstream code-generation stage, without this repo needing any
// generated .proto schema of its own.
type Stats struct {
	ProcessedAt   *timestamppb.Timestamp
	ExpandedBytes int
	IncludedFiles int
	Errors        int
	Warnings      int
}

// ProcessingResult is the engine's output for one translation unit, per
// spec.md §6.
type ProcessingResult struct {
	File          string
	ExpandedCode  string
	PositionMap   *source.PositionMap
	IncludedFiles []string
	FinalMacros   map[string]string
	Diagnostics   ccerrors.Summary
	// TranslationUnit is non-nil only when preprocessing succeeded and
	// the parser ran (spec.md §6: "On successful parse, additionally a
	// TranslationUnit AST").
	TranslationUnit *ast.TranslationUnit
	Stats           Stats
}

// Engine runs the preprocessor/lexer/parser pipeline against one
// Configuration. Per spec.md §5 ("no shared state" across translation
// units), an Engine holds no per-unit state between calls to Process;
// every call builds its own macro table, conditional stack, and error
// handler from scratch.
type Engine struct {
	config   *enginecfg.Configuration
	resolver include.Resolver
	logger   *log.Logger
}

// EngineOption configures an Engine at construction.
type EngineOption func(*Engine)

// WithResolver overrides the default include.PathResolver (rooted at the
// OS filesystem, searching Configuration.IncludePaths) with a caller
// supplied collaborator, e.g. a gomock-backed one in tests.
func WithResolver(r include.Resolver) EngineOption {
	return func(e *Engine) { e.resolver = r }
}

// WithLogger overrides the default discard logger.
func WithLogger(l *log.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// NewEngine builds an Engine around cfg. A nil cfg falls back to
// enginecfg.New()'s defaults.
func NewEngine(cfg *enginecfg.Configuration, opts ...EngineOption) *Engine {
	if cfg == nil {
		cfg = enginecfg.New()
	}
	e := &Engine{
		config: cfg,
		logger: log.New(io.Discard, "", 0),
	}
	if e.resolver == nil {
		e.resolver = include.NewPathResolver(os.DirFS("."), cfg.IncludePaths, cfg.IncludePaths)
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// recordingResolver decorates a Resolver, appending every successfully
// resolved file's path so Process can report IncludedFiles.
type recordingResolver struct {
	inner   include.Resolver
	visited []string
}

func (r *recordingResolver) Resolve(p string, kind include.Kind, fromFile string) (include.Resolved, error) {
	resolved, err := r.inner.Resolve(p, kind, fromFile)
	if err != nil {
		return resolved, err
	}
	r.visited = append(r.visited, resolved.Path)
	return resolved, nil
}

// Process preprocesses, lexes, and parses the given source text as if it
// were file's content. Preprocessing errors and lexical errors abort with
// a non-nil error; the lexer does not recover, so a lexical error yields
// no result. Syntax errors are accumulated into the returned result's
// Diagnostics while parser recovery is enabled and the error ceiling has
// not been exceeded; otherwise they also abort with a non-nil error.
func (e *Engine) Process(file, src string) (*ProcessingResult, error) {
	cfg := e.config
	handler := ccerrors.NewHandler(cfg.MaxErrors)
	loc := preprocessor.NewLocation()
	table := macros.NewTable(cfg.MaxMacroExpansionSize, cfg.MaxRecursionDepth, loc)
	table.OnRedefineWarning(func(name string) {
		e.logger.Printf("ccfront: %s: macro %q redefined with a different body", file, name)
		handler.Report(ccerrors.Diagnostic{
			Kind: ccerrors.Preprocessor, Severity: ccerrors.Warning,
			Message: fmt.Sprintf("macro %q redefined with a different body", name),
			Component: "preprocessor",
		})
	})
	table.InstallPredefined(cfg.CStandard, time.Now(), cfg.PredefinedMacros)

	resolver := &recordingResolver{inner: e.resolver}
	driver := preprocessor.NewDriver(table, resolver, cfg.MaxIncludeDepth, handler)
	driver.TrackLocation(loc)

	ppResult, err := driver.Process(file, src)
	if err != nil {
		return nil, fmt.Errorf("ccfront: preprocessing %s: %w", file, err)
	}

	result := &ProcessingResult{
		File:          file,
		ExpandedCode:  ppResult.Expanded,
		PositionMap:   ppResult.PositionMap,
		IncludedFiles: resolver.visited,
		FinalMacros:   snapshotMacros(table),
		Stats: Stats{
			ProcessedAt:   timestamppb.Now(),
			ExpandedBytes: len(ppResult.Expanded),
			IncludedFiles: len(resolver.visited),
		},
	}

	tu, parseErr := e.parse(file, ppResult.Expanded, ppResult.PositionMap, handler)
	if parseErr != nil {
		return nil, fmt.Errorf("ccfront: lexing %s: %w", file, parseErr)
	}
	result.TranslationUnit = tu

	summary := handler.Summarize()
	result.Diagnostics = summary
	result.Stats.Errors = summary.TotalErrors
	result.Stats.Warnings = summary.TotalWarnings
	return result, nil
}

// parse lexes and parses expanded. Token positions come out of the lexer
// as offsets into expanded (the macro-expanded text); posMap, the same
// position map the preprocessor built while producing expanded, resolves
// each one back to where the user actually wrote it before the parser
// (and thus every downstream diagnostic and AST node) ever sees it, per
// spec.md §4.9 and §7.
func (e *Engine) parse(file, expanded string, posMap *source.PositionMap, handler *ccerrors.Handler) (*ast.TranslationUnit, error) {
	buf := lexer.NewLookaheadBuffer(strings.NewReader(expanded))
	lx := lexer.NewLexer(buf, e.config.CStandard)
	stream, err := token.FromLexer(lx)
	if err != nil {
		return nil, err
	}
	stream.RemapPositions(posMap)
	p := parser.New(stream, handler, e.config.RecoveryEnabled)
	return p.Parse()
}

func snapshotMacros(t *macros.Table) map[string]string {
	out := make(map[string]string, len(t.Names()))
	for _, name := range t.Names() {
		if m, ok := t.Lookup(name); ok {
			out[name] = m.Body
		}
	}
	return out
}

// ProcessFile reads path from fsys and processes its content.
func (e *Engine) ProcessFile(fsys fs.FS, path string) (*ProcessingResult, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("ccfront: reading %s: %w", path, err)
	}
	return e.Process(path, string(data))
}

// ProcessBatch processes every file in paths concurrently, one Engine
// invocation per file so no preprocessor/macro-table state is shared
// across goroutines (spec.md §5). On success it returns one
// ProcessingResult per input path, in the same order. If any file fails,
// it returns nil results and the first error encountered (via errgroup);
// other in-flight units are still allowed to finish.
func (e *Engine) ProcessBatch(fsys fs.FS, paths []string) ([]*ProcessingResult, error) {
	results := make([]*ProcessingResult, len(paths))
	var g errgroup.Group
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			result, err := e.ProcessFile(fsys, p)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
