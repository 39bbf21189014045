package toolchain

import "go.trai.ch/anvil/internal/core/domain"

// Triple returns the clang target triple for a platform and architecture. ArchAny selects
// the host architecture.
func Triple(p domain.Platform, arch domain.Architecture) string {
	if arch == domain.ArchAny {
		arch = domain.HostArchitecture()
	}
	cpu := "x86_64"
	if arch == domain.ArchArm64 {
		cpu = "aarch64"
	}

	switch p {
	case domain.PlatformMacOS:
		return appleCPU(arch) + "-apple-macos"
	case domain.PlatformIOS:
		return appleCPU(arch) + "-apple-ios"
	case domain.PlatformTVOS:
		return appleCPU(arch) + "-apple-tvos"
	case domain.PlatformVisionOS:
		return appleCPU(arch) + "-apple-xros"
	case domain.PlatformAndroid:
		return cpu + "-linux-android"
	case domain.PlatformWindows:
		return cpu + "-pc-windows-msvc"
	default:
		return cpu + "-unknown-linux-gnu"
	}
}

func appleCPU(arch domain.Architecture) string {
	if arch == domain.ArchX64 {
		return "x86_64"
	}
	return "arm64"
}

func appleSDK(p domain.Platform) string {
	switch p {
	case domain.PlatformIOS:
		return "iphoneos"
	case domain.PlatformTVOS:
		return "appletvos"
	case domain.PlatformVisionOS:
		return "xros"
	default:
		return "macosx"
	}
}
