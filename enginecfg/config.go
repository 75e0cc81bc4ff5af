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

// Package enginecfg holds the closed set of options the front end engine
// accepts (spec.md §6): which C standard to parse, where to look for
// included headers, preseeded macros, and the resource ceilings that
// bound a malicious or runaway translation unit. A Configuration is built
// either with New plus Option values, or loaded from a YAML document with
// LoadFile/Load.
package enginecfg

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/EngFlow/ccfront/internal/cc/dialect"
	"github.com/EngFlow/ccfront/internal/cc/platform"
)

// Configuration is the closed set of options recognized by the engine.
// Zero value is not valid on its own; use New to get the documented
// defaults.
type Configuration struct {
	CStandard             dialect.Dialect   `yaml:"c_standard"`
	IncludePaths          []string          `yaml:"include_paths"`
	PredefinedMacros      map[string]string `yaml:"predefined_macros"`
	MaxErrors             int               `yaml:"max_errors"`
	MaxIncludeDepth       int               `yaml:"max_include_depth"`
	MaxMacroExpansionSize int               `yaml:"max_macro_expansion_size"`
	MaxRecursionDepth     int               `yaml:"max_recursion_depth"`
	StrictMode            bool              `yaml:"strict_mode"`
	RecoveryEnabled       bool              `yaml:"recovery_enabled"`
}

// Option mutates a Configuration under construction.
type Option func(*Configuration)

// New builds a Configuration with spec.md §6's documented defaults,
// applying opts in order.
func New(opts ...Option) *Configuration {
	c := &Configuration{
		CStandard:             dialect.C17,
		PredefinedMacros:      map[string]string{},
		MaxErrors:             100,
		MaxIncludeDepth:       200,
		MaxMacroExpansionSize: 1 << 20,
		MaxRecursionDepth:     1000,
		RecoveryEnabled:       true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithDialect selects the C standard revision.
func WithDialect(d dialect.Dialect) Option {
	return func(c *Configuration) { c.CStandard = d }
}

// WithIncludePaths sets the ordered list of directories (or doublestar
// glob patterns) searched for #include targets.
func WithIncludePaths(paths ...string) Option {
	return func(c *Configuration) { c.IncludePaths = paths }
}

// WithPredefinedMacro adds a single name->body entry to the predefined
// macro table installed before processing begins.
func WithPredefinedMacro(name, body string) Option {
	return func(c *Configuration) {
		if c.PredefinedMacros == nil {
			c.PredefinedMacros = map[string]string{}
		}
		c.PredefinedMacros[name] = body
	}
}

// WithPlatform pre-populates PredefinedMacros with every macro p's target
// would have a real compiler define (_WIN32, __linux__, __APPLE__, ...),
// letting a caller select a target platform instead of hand-listing its
// macros.
func WithPlatform(p platform.Platform) Option {
	return func(c *Configuration) {
		if c.PredefinedMacros == nil {
			c.PredefinedMacros = map[string]string{}
		}
		for _, name := range p.Macros() {
			c.PredefinedMacros[name] = "1"
		}
	}
}

// WithMaxErrors overrides the error ceiling (spec.md default: 100).
func WithMaxErrors(n int) Option {
	return func(c *Configuration) { c.MaxErrors = n }
}

// WithMaxIncludeDepth overrides the nested #include cap (default: 200).
func WithMaxIncludeDepth(n int) Option {
	return func(c *Configuration) { c.MaxIncludeDepth = n }
}

// WithMaxMacroExpansionSize overrides the single-expansion byte cap
// (default: 1 MiB).
func WithMaxMacroExpansionSize(n int) Option {
	return func(c *Configuration) { c.MaxMacroExpansionSize = n }
}

// WithMaxRecursionDepth overrides MaxRecursionDepth (default: 1000), which
// the engine hands to the macro table as its bound on nested macro
// expansion. The parser does not read it and has no recursion cap.
func WithMaxRecursionDepth(n int) Option {
	return func(c *Configuration) { c.MaxRecursionDepth = n }
}

// WithStrictMode rejects nonstandard extensions when enabled.
func WithStrictMode(strict bool) Option {
	return func(c *Configuration) { c.StrictMode = strict }
}

// WithRecoveryEnabled toggles parser error recovery (default: enabled).
func WithRecoveryEnabled(enabled bool) Option {
	return func(c *Configuration) { c.RecoveryEnabled = enabled }
}

// Load parses a YAML document into a Configuration seeded with New's
// defaults, so a partial document only overrides the fields it mentions.
func Load(data []byte) (*Configuration, error) {
	c := New()
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("enginecfg: parsing configuration: %w", err)
	}
	return c, nil
}

// LoadFile reads and parses a Configuration from the YAML file at path.
func LoadFile(path string) (*Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("enginecfg: reading %s: %w", path, err)
	}
	return Load(data)
}

// Save writes c to path as a YAML document.
func (c *Configuration) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("enginecfg: marshaling configuration: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("enginecfg: writing %s: %w", path, err)
	}
	return nil
}
