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

package platform

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/EngFlow/ccfront/internal/cc/macros"
)

func TestCreateResolvesAliases(t *testing.T) {
	p, err := Create(OS("macos"), Arch("arm64"))
	require.NoError(t, err)
	require.Equal(t, OSX, p.OS)
	require.Equal(t, Aarch64, p.Arch)
}

func TestCreateRejectsUnknownOS(t *testing.T) {
	_, err := Create(OS("beos"), X86_64)
	require.Error(t, err)
}

func TestCreateRejectsUnknownArch(t *testing.T) {
	_, err := Create(Linux, Arch("vax"))
	require.Error(t, err)
}

func TestLinuxX86_64Macros(t *testing.T) {
	p, err := Create(Linux, X86_64)
	require.NoError(t, err)
	macroNames := p.Macros()
	require.Contains(t, macroNames, "__linux__")
	require.Contains(t, macroNames, "__gnu_linux__")
	require.Contains(t, macroNames, "unix")
	require.Contains(t, macroNames, "__x86_64__")
}

func TestWindowsX86_64Macros(t *testing.T) {
	p, err := Create(Windows, X86_64)
	require.NoError(t, err)
	macroNames := p.Macros()
	require.Contains(t, macroNames, "_WIN32")
	require.Contains(t, macroNames, "_WIN64")
	require.NotContains(t, macroNames, "unix")
}

func TestOSXAarch64Macros(t *testing.T) {
	p, err := Create(OSX, Aarch64)
	require.NoError(t, err)
	macroNames := p.Macros()
	require.Contains(t, macroNames, "__APPLE__")
	require.Contains(t, macroNames, "TARGET_OS_OSX")
	require.NotContains(t, macroNames, "unix")
}

func TestMacrosAreSorted(t *testing.T) {
	p, err := Create(Linux, X86_64)
	require.NoError(t, err)
	names := p.Macros()
	for i := 1; i < len(names); i++ {
		require.LessOrEqual(t, names[i-1], names[i])
	}
}

func TestInstallIntoDefinesEachMacro(t *testing.T) {
	p, err := Create(Linux, X86_64)
	require.NoError(t, err)
	table := macros.NewTable(4096, 64, nil)
	p.InstallInto(table)
	require.True(t, table.IsDefined("__linux__"))
	require.True(t, table.IsDefined("unix"))
	m, ok := table.Lookup("__x86_64__")
	require.True(t, ok)
	require.Equal(t, "1", m.Body)
}

func TestCompareOrdersByOSThenArch(t *testing.T) {
	a := Platform{OS: Linux, Arch: Aarch64}
	b := Platform{OS: Linux, Arch: X86_64}
	require.Negative(t, Compare(a, b))

	c := Platform{OS: Windows, Arch: I386}
	require.Negative(t, Compare(a, c))
}

func TestPlatformString(t *testing.T) {
	p := Platform{OS: Linux, Arch: X86_64}
	require.Equal(t, "linux/x86_64", p.String())
}
