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

// Package platform normalizes OS/architecture target pairs and maps each
// pair to the predefined macros (_WIN32, __linux__, __APPLE__, ...) a real
// compiler would define for it, so a Configuration (spec.md §6) can ask to
// preprocess "as if" targeting a given platform without the caller having
// to spell out every macro by hand.
package platform

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/EngFlow/ccfront/internal/cc/macros"
)

// Platform is an OS/Arch combination identifying a compilation target.
type Platform struct {
	OS   OS
	Arch Arch
}

func (p Platform) String() string {
	return fmt.Sprintf("%s/%s", p.OS, p.Arch)
}

// Compare orders first by OS, then by Arch, both by string ordering.
func Compare(a, b Platform) int {
	if d := cmp.Compare(a.OS, b.OS); d != 0 {
		return d
	}
	return cmp.Compare(a.Arch, b.Arch)
}

// Create builds a Platform from an OS/Arch pair, resolving common aliases
// ("macos" -> osx, "arm64" -> aarch64, ...) and rejecting unknown values.
func Create(os OS, arch Arch) (Platform, error) {
	p := Platform{OS: dealias(os, osAlias), Arch: dealias(arch, archAlias)}
	if !slices.Contains(allKnownOS, p.OS) {
		return p, fmt.Errorf("platform: unknown OS %q, expected one of %v or an alias of %v", p.OS, allKnownOS, osAlias)
	}
	if !slices.Contains(allKnownArch, p.Arch) {
		return p, fmt.Errorf("platform: unknown architecture %q, expected one of %v or an alias of %v", p.Arch, allKnownArch, archAlias)
	}
	return p, nil
}

// Macros returns the predefined object-like macro names (each implicitly
// valued "1") a real compiler targeting p would define, sorted for
// deterministic iteration.
func (p Platform) Macros() []string {
	names := knownPlatformMacros[p].Values()
	slices.Sort(names)
	return names
}

// InstallInto defines every one of p's predefined macros in t, each with
// body "1": the same names and values enginecfg.WithPlatform adds to
// Configuration.PredefinedMacros.
func (p Platform) InstallInto(t *macros.Table) {
	for _, name := range p.Macros() {
		t.Define(&macros.Macro{Name: name, Body: "1"})
	}
}

// OS identifies an operating system, matching the constraint value names
// defined in Bazel's @platforms//os.
type OS string

const (
	Android    OS = "android"
	ChromiumOS OS = "chromiumos"
	Emscripten OS = "emscripten"
	FreeBSD    OS = "freebsd"
	Fuchsia    OS = "fuchsia"
	Haiku      OS = "haiku"
	IOS        OS = "ios"
	Linux      OS = "linux"
	NetBSD     OS = "netbsd"
	NixOS      OS = "nixos"
	NoOS       OS = "none" // bare-metal
	OpenBSD    OS = "openbsd"
	OSX        OS = "osx"
	QNX        OS = "qnx"
	TVOS       OS = "tvos"
	UEFI       OS = "uefi"
	VisionOS   OS = "visionos"
	VxWorks    OS = "vxworks"
	WASI       OS = "wasi"
	WatchOS    OS = "watchos"
	Windows    OS = "windows"
)

var osAlias = map[string]OS{"macos": OSX}

var allKnownOS = []OS{
	Android, ChromiumOS, Emscripten, FreeBSD, Fuchsia, Haiku, IOS,
	Linux, NetBSD, NixOS, NoOS, OpenBSD, OSX, QNX, TVOS,
	UEFI, VisionOS, VxWorks, WASI, WatchOS, Windows,
}

// Arch identifies a CPU architecture, matching the constraint value names
// defined in Bazel's @platforms//cpu.
type Arch string

const (
	Aarch32   Arch = "aarch32"
	Aarch64   Arch = "aarch64"
	Arm6432   Arch = "arm64_32"
	Arm64e    Arch = "arm64e"
	Armv6M    Arch = "armv6-m"
	Armv7     Arch = "armv7"
	Armv7eM   Arch = "armv7e-m"
	Armv7eMF  Arch = "armv7e-mf"
	Armv7k    Arch = "armv7k"
	Armv7M    Arch = "armv7-m"
	Armv8M    Arch = "armv8-m"
	I386      Arch = "i386"
	MIPS64    Arch = "mips64"
	PPC32     Arch = "ppc32"
	PPC64le   Arch = "ppc64le"
	RISCV32   Arch = "riscv32"
	RISCV64   Arch = "riscv64"
	S390x     Arch = "s390x"
	Wasm32    Arch = "wasm32"
	Wasm64    Arch = "wasm64"
	X86_32    Arch = "x86_32"
	X86_64    Arch = "x86_64"
)

var archAlias = map[string]Arch{
	"arm":   Aarch32,
	"arm64": Aarch64,
	"amd64": X86_64,
}

var allKnownArch = []Arch{
	Aarch32, Aarch64, Arm6432, Arm64e, Armv6M, Armv7, Armv7eM, Armv7eMF,
	Armv7k, Armv7M, Armv8M, I386, MIPS64, PPC32,
	PPC64le, RISCV32, RISCV64, S390x, Wasm32, Wasm64, X86_32, X86_64,
}

func dealias[T ~string](value T, aliases map[string]T) T {
	if dealiased, exists := aliases[string(value)]; exists {
		return dealiased
	}
	return value
}
