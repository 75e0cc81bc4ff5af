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

package enginecfg

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/EngFlow/ccfront/internal/cc/dialect"
	"github.com/EngFlow/ccfront/internal/cc/platform"
)

func TestNewAppliesDocumentedDefaults(t *testing.T) {
	c := New()
	require.Equal(t, dialect.C17, c.CStandard)
	require.Equal(t, 100, c.MaxErrors)
	require.Equal(t, 200, c.MaxIncludeDepth)
	require.Equal(t, 1<<20, c.MaxMacroExpansionSize)
	require.Equal(t, 1000, c.MaxRecursionDepth)
	require.True(t, c.RecoveryEnabled)
	require.False(t, c.StrictMode)
}

func TestOptionsOverrideDefaults(t *testing.T) {
	c := New(
		WithDialect(dialect.C89),
		WithIncludePaths("vendor", "include/**"),
		WithPredefinedMacro("DEBUG", "1"),
		WithMaxErrors(5),
		WithMaxIncludeDepth(10),
		WithMaxMacroExpansionSize(4096),
		WithMaxRecursionDepth(50),
		WithStrictMode(true),
		WithRecoveryEnabled(false),
	)
	require.Equal(t, dialect.C89, c.CStandard)
	require.Equal(t, []string{"vendor", "include/**"}, c.IncludePaths)
	require.Equal(t, "1", c.PredefinedMacros["DEBUG"])
	require.Equal(t, 5, c.MaxErrors)
	require.Equal(t, 10, c.MaxIncludeDepth)
	require.Equal(t, 4096, c.MaxMacroExpansionSize)
	require.Equal(t, 50, c.MaxRecursionDepth)
	require.True(t, c.StrictMode)
	require.False(t, c.RecoveryEnabled)
}

func TestWithPlatformSeedsPredefinedMacros(t *testing.T) {
	p, err := platform.Create(platform.Linux, platform.X86_64)
	require.NoError(t, err)
	c := New(WithPlatform(p))
	require.Equal(t, "1", c.PredefinedMacros["__linux__"])
	require.Equal(t, "1", c.PredefinedMacros["unix"])
}

func TestLoadParsesPartialDocumentOverDefaults(t *testing.T) {
	c, err := Load([]byte("c_standard: c99\nmax_errors: 3\n"))
	require.NoError(t, err)
	require.Equal(t, dialect.C99, c.CStandard)
	require.Equal(t, 3, c.MaxErrors)
	// Untouched fields keep New's defaults.
	require.Equal(t, 200, c.MaxIncludeDepth)
}

func TestLoadRejectsUnknownDialect(t *testing.T) {
	_, err := Load([]byte("c_standard: c42\n"))
	require.Error(t, err)
}

func TestSaveLoadFileRoundTrips(t *testing.T) {
	c := New(
		WithDialect(dialect.C11),
		WithIncludePaths("a", "b"),
		WithPredefinedMacro("FOO", "bar"),
		WithStrictMode(true),
	)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, c.Save(path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, c.CStandard, loaded.CStandard)
	require.Equal(t, c.IncludePaths, loaded.IncludePaths)
	require.Equal(t, c.PredefinedMacros, loaded.PredefinedMacros)
	require.Equal(t, c.StrictMode, loaded.StrictMode)
}
