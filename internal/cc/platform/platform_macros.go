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
	"slices"

	"github.com/EngFlow/ccfront/internal/collections"
)

// knownPlatformMacros maps each known Platform to the set of predefined
// macro names a real compiler targeting it would define.
var knownPlatformMacros = map[Platform]collections.Set[string]{}

func init() {
	//----------------------------------------------------------------------
	//                                Windows
	//----------------------------------------------------------------------
	windowsArchs := []Arch{I386, X86_32, X86_64, Aarch32, Aarch64}
	addMacro("_WIN32", osArchPlatforms(Windows, windowsArchs))
	addMacro("_WIN64", osArchPlatforms(Windows, []Arch{X86_64, Aarch64}))
	addMacro("__MINGW32__", osArchPlatform(Windows, I386))
	addMacro("__MINGW64__", osArchPlatform(Windows, X86_64))
	addMacro("_M_IX86", osArchPlatform(Windows, I386))
	addMacro("_M_X64", osArchPlatform(Windows, X86_64))
	addMacro("_M_ARM", osArchPlatform(Windows, Aarch32))
	addMacro("_M_ARM64", osArchPlatform(Windows, Aarch64))

	//----------------------------------------------------------------------
	//                          Linux / Android family
	//----------------------------------------------------------------------
	linuxArchs := allKnownArch
	addMacros(
		[]string{"linux", "__linux__", "__linux", "__gnu_linux__"},
		osArchPlatforms(Linux, linuxArchs),
	)
	addMacro("__NIX__", osArchPlatforms(NixOS, linuxArchs))
	addMacro("__NIXOS__", osArchPlatforms(NixOS, linuxArchs))

	androidArchs := []Arch{Aarch32, Aarch64, X86_32, X86_64, RISCV64}
	addMacro("__ANDROID__", osArchPlatforms(Android, androidArchs))

	chromeArchs := []Arch{X86_64, Aarch64, RISCV64}
	addMacro("__CHROMEOS__", osArchPlatforms(ChromiumOS, chromeArchs))

	// Apple does not define unix even though it's unix-like.
	unixOS := []OS{Linux, Android, ChromiumOS, NixOS, FreeBSD, NetBSD, OpenBSD, Haiku, QNX}
	addMacros(
		[]string{"unix", "__unix", "__unix__"},
		platformsMatrix(unixOS, allKnownArch),
	)

	//----------------------------------------------------------------------
	//  WebAssembly (Emscripten & WASI)
	//----------------------------------------------------------------------
	wasmArchs := []Arch{Wasm32, Wasm64}
	addMacro("__EMSCRIPTEN__", platformsMatrix([]OS{Emscripten}, wasmArchs))
	addMacro("__wasi__", platformsMatrix([]OS{WASI}, wasmArchs))
	addMacro("__wasm__", platformsMatrix([]OS{Emscripten, WASI}, wasmArchs))
	addMacro("__wasm32__", platformsMatrix([]OS{Emscripten, WASI}, []Arch{Wasm32}))
	addMacro("__wasm64__", platformsMatrix([]OS{Emscripten, WASI}, []Arch{Wasm64}))

	//----------------------------------------------------------------------
	//  BSD family
	//----------------------------------------------------------------------
	bsdArchs := []Arch{I386, X86_64, Aarch64, RISCV64, PPC64le}
	addMacro("__FreeBSD__", platformsMatrix([]OS{FreeBSD}, bsdArchs))
	addMacro("__NetBSD__", platformsMatrix([]OS{NetBSD}, bsdArchs))
	addMacro("__OpenBSD__", platformsMatrix([]OS{OpenBSD}, bsdArchs))

	//----------------------------------------------------------------------
	//  QNX, Haiku, Fuchsia, VxWorks, UEFI
	//----------------------------------------------------------------------
	qnxArchs := []Arch{Aarch32, Aarch64, PPC32, PPC64le, X86_32, X86_64}
	addMacro("__QNX__", osArchPlatforms(QNX, qnxArchs))
	addMacro("__QNXNTO__", osArchPlatforms(QNX, qnxArchs))

	haikuArchs := []Arch{X86_32, X86_64}
	addMacro("__HAIKU__", osArchPlatforms(Haiku, haikuArchs))

	fuchsiaArchs := []Arch{Aarch64, X86_64}
	addMacro("__FUCHSIA__", osArchPlatforms(Fuchsia, fuchsiaArchs))
	addMacro("__Fuchsia__", osArchPlatforms(Fuchsia, fuchsiaArchs))

	vxworksArchs := []Arch{Aarch32, Aarch64, PPC32, PPC64le, X86_32, X86_64}
	addMacro("__VXWORKS__", osArchPlatforms(VxWorks, vxworksArchs))
	addMacro("__vxworks", osArchPlatforms(VxWorks, vxworksArchs))

	uefiArchs := []Arch{Aarch32, Aarch64, X86_32, X86_64, RISCV64}
	addMacro("__UEFI__", osArchPlatforms(UEFI, uefiArchs))
	addMacro("__EFI__", osArchPlatforms(UEFI, uefiArchs))

	//----------------------------------------------------------------------
	//  Apple family
	//----------------------------------------------------------------------
	macArchs := []Arch{X86_64, Aarch64, Arm64e}
	iosArchs := []Arch{Aarch64, Arm64e}
	tvosArchs := []Arch{Aarch64}
	watchArchs := []Arch{Armv7k, Arm6432}
	visionArchs := []Arch{Aarch64}
	applePlatforms := slices.Concat(
		osArchPlatforms(OSX, macArchs),
		osArchPlatforms(IOS, iosArchs),
		osArchPlatforms(TVOS, tvosArchs),
		osArchPlatforms(WatchOS, watchArchs),
		osArchPlatforms(VisionOS, visionArchs),
	)
	addMacro("__APPLE__", applePlatforms)
	addMacro("__MACH__", applePlatforms)
	addMacro("TARGET_OS_OSX", osArchPlatforms(OSX, macArchs))
	addMacro("TARGET_OS_MAC", osArchPlatforms(OSX, macArchs))
	addMacro("TARGET_OS_IPHONE", osArchPlatforms(IOS, iosArchs))
	addMacro("TARGET_OS_IOS", osArchPlatforms(IOS, iosArchs))
	addMacro("TARGET_OS_TV", osArchPlatforms(TVOS, tvosArchs))
	addMacro("TARGET_OS_WATCH", osArchPlatforms(WatchOS, watchArchs))
	addMacro("TARGET_OS_VISION", osArchPlatforms(VisionOS, visionArchs))

	//----------------------------------------------------------------------
	//  Generic CPU-only macros
	//----------------------------------------------------------------------
	addMacros(
		[]string{"__x86_64__", "__x86_64", "__amd64", "__amd64__"},
		archOSPlatforms(X86_64, allKnownOS),
	)
	addMacros(
		[]string{"__i386__", "__i386"},
		archOSPlatforms(I386, allKnownOS),
	)
	addMacros(
		[]string{"__arm__", "__arm", "__thumb__", "__thumb"},
		archOSPlatforms(Aarch32, allKnownOS),
	)
	addMacros(
		[]string{"__aarch64__", "__arm64", "__arm64__"},
		archOSPlatforms(Aarch64, allKnownOS),
	)
	addMacros(
		[]string{"__ARM64_32__", "__ARM64_32"},
		osArchPlatform(WatchOS, Arm6432),
	)
	addMacros(
		[]string{"__arm64e__", "__arm64e"},
		archOSPlatforms(Arm64e, []OS{OSX, IOS}),
	)

	// Fine-grained Arm (mostly bare-metal).
	addMacro("__ARM_ARCH_6M__", osArchPlatform(NoOS, Armv6M))
	addMacro("__ARM_ARCH_7__", osArchPlatform(NoOS, Armv7))
	addMacro("__ARM_ARCH_7A__", osArchPlatform(NoOS, Armv7))
	addMacro("__ARM_ARCH_7M__", osArchPlatform(NoOS, Armv7M))
	addMacro("__ARM_ARCH_7EM__", osArchPlatform(NoOS, Armv7eM))
	addMacro("__ARM_ARCH_8M_BASE__", osArchPlatform(NoOS, Armv8M))
	addMacro("__ARM_ARCH_8M_MAIN__", osArchPlatform(NoOS, Armv8M))

	//----------------------------------------------------------------------
	//  PowerPC
	//----------------------------------------------------------------------
	powerPCOS := []OS{Linux, FreeBSD, NetBSD, OpenBSD, QNX, VxWorks}
	addMacro("__powerpc__", archOSPlatforms(PPC32, powerPCOS))
	addMacro("__PPC__", archOSPlatforms(PPC32, powerPCOS))
	addMacro("__powerpc64__", archOSPlatforms(PPC64le, powerPCOS))
	addMacro("__ppc64__", archOSPlatforms(PPC64le, powerPCOS))

	//----------------------------------------------------------------------
	//  MIPS
	//----------------------------------------------------------------------
	mipsOS := []OS{Linux, NetBSD, OpenBSD, QNX, VxWorks}
	addMacro("__mips64", archOSPlatforms(MIPS64, mipsOS))

	//----------------------------------------------------------------------
	//  s390
	//----------------------------------------------------------------------
	addMacro("__s390x__", osArchPlatform(Linux, S390x))
	addMacro("__s390__", osArchPlatform(Linux, S390x))

	//----------------------------------------------------------------------
	//  RISC-V
	//----------------------------------------------------------------------
	riscvOS := []OS{Linux, FreeBSD, NetBSD, OpenBSD, QNX, VxWorks, Android, ChromiumOS, Fuchsia, NixOS}
	addMacro("__riscv", archOSPlatforms(RISCV64, riscvOS))
}

func addMacro(name string, platforms []Platform) {
	for _, p := range platforms {
		if knownPlatformMacros[p] == nil {
			knownPlatformMacros[p] = make(collections.Set[string])
		}
		knownPlatformMacros[p].Add(name)
	}
}

func addMacros(names []string, platforms []Platform) {
	for _, name := range names {
		addMacro(name, platforms)
	}
}

func osArchPlatform(os OS, arch Arch) []Platform {
	return []Platform{{OS: os, Arch: arch}}
}

func osArchPlatforms(os OS, archs []Arch) []Platform {
	return append(platformsMatrix([]OS{os}, archs), Platform{OS: os})
}

func archOSPlatforms(arch Arch, oses []OS) []Platform {
	return append(platformsMatrix(oses, []Arch{arch}), Platform{Arch: arch})
}

func platformsMatrix(oses []OS, archs []Arch) []Platform {
	result := make([]Platform, 0, len(oses)*len(archs))
	for _, os := range oses {
		for _, arch := range archs {
			result = append(result, Platform{OS: os, Arch: arch})
		}
	}
	return result
}
