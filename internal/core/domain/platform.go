package domain

import (
	"runtime"
	"strings"

	"go.trai.ch/zerr"
)

// Platform identifies a build target operating system.
type Platform int

// Supported platforms. PlatformAny carries settings shared by every platform.
const (
	PlatformAny Platform = iota
	PlatformIOS
	PlatformTVOS
	PlatformVisionOS
	PlatformMacOS
	PlatformAndroid
	PlatformWindows
	PlatformLinux
)

// PlatformGroup clusters platforms sharing a vendor toolchain.
type PlatformGroup int

// Platform groups.
const (
	GroupAny PlatformGroup = iota
	GroupApple
	GroupGoogle
	GroupMicrosoft
	GroupUnix
)

// PlatformType distinguishes desktop from mobile targets.
type PlatformType int

// Platform types.
const (
	TypeAny PlatformType = iota
	TypeMobile
	TypeDesktop
)

// Architecture is a target CPU architecture.
type Architecture int

// Architectures.
const (
	ArchAny Architecture = iota
	ArchX64
	ArchArm64
)

// Configuration is a build configuration.
type Configuration int

// Build configurations.
const (
	ConfigurationDebug Configuration = iota
	ConfigurationRelease
)

type platformInfo struct {
	name       string
	sourceName string
	group      PlatformGroup
	kind       PlatformType
}

var platforms = [...]platformInfo{
	PlatformAny:      {name: "Any", group: GroupAny, kind: TypeAny},
	PlatformIOS:      {name: "iOS", sourceName: "IOS", group: GroupApple, kind: TypeMobile},
	PlatformTVOS:     {name: "tvOS", sourceName: "TVOS", group: GroupApple, kind: TypeMobile},
	PlatformVisionOS: {name: "visionOS", sourceName: "VisionOS", group: GroupApple, kind: TypeMobile},
	PlatformMacOS:    {name: "macOS", sourceName: "Mac", group: GroupApple, kind: TypeDesktop},
	PlatformAndroid:  {name: "Android", sourceName: "Android", group: GroupGoogle, kind: TypeMobile},
	PlatformWindows:  {name: "Windows", sourceName: "Windows", group: GroupMicrosoft, kind: TypeDesktop},
	PlatformLinux:    {name: "Linux", sourceName: "Linux", group: GroupUnix, kind: TypeDesktop},
}

var (
	groupNames  = [...]string{"Any", "Apple", "Google", "Microsoft", "Unix"}
	typeNames   = [...]string{"Any", "Mobile", "Desktop"}
	archNames   = [...]string{"Any", "x64", "Arm64"}
	configNames = [...]string{"Debug", "Release"}
)

// AllPlatforms returns every concrete platform, excluding PlatformAny.
func AllPlatforms() []Platform {
	out := make([]Platform, 0, len(platforms)-1)
	for p := range platforms {
		if Platform(p) != PlatformAny {
			out = append(out, Platform(p))
		}
	}
	return out
}

// AllConfigurations returns every build configuration.
func AllConfigurations() []Configuration {
	return []Configuration{ConfigurationDebug, ConfigurationRelease}
}

func (p Platform) valid() bool {
	return p >= 0 && int(p) < len(platforms)
}

func (p Platform) String() string {
	if !p.valid() {
		return "Unknown"
	}
	return platforms[p].name
}

// SourceName is the directory name that marks platform specific sources, e.g. "Mac".
func (p Platform) SourceName() string {
	if !p.valid() {
		return ""
	}
	return platforms[p].sourceName
}

// Group returns the platform group.
func (p Platform) Group() PlatformGroup {
	if !p.valid() {
		return GroupAny
	}
	return platforms[p].group
}

// Type returns the platform type.
func (p Platform) Type() PlatformType {
	if !p.valid() {
		return TypeAny
	}
	return platforms[p].kind
}

func (g PlatformGroup) String() string {
	if g < 0 || int(g) >= len(groupNames) {
		return "Unknown"
	}
	return groupNames[g]
}

func (t PlatformType) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "Unknown"
	}
	return typeNames[t]
}

func (a Architecture) String() string {
	if a < 0 || int(a) >= len(archNames) {
		return "Unknown"
	}
	return archNames[a]
}

func (c Configuration) String() string {
	if c < 0 || int(c) >= len(configNames) {
		return "Unknown"
	}
	return configNames[c]
}

// ParsePlatform parses a platform name case-insensitively. Source names such as "Mac" are accepted too.
func ParsePlatform(name string) (Platform, error) {
	for i, info := range platforms {
		if strings.EqualFold(name, info.name) || (info.sourceName != "" && strings.EqualFold(name, info.sourceName)) {
			return Platform(i), nil
		}
	}
	return PlatformAny, zerr.With(zerr.Wrap(ErrUnknownPlatform, "invalid platform"), "platform", name)
}

// ParseConfiguration parses a configuration name case-insensitively.
func ParseConfiguration(name string) (Configuration, error) {
	for i, n := range configNames {
		if strings.EqualFold(name, n) {
			return Configuration(i), nil
		}
	}
	return ConfigurationDebug, zerr.With(zerr.Wrap(ErrUnknownConfiguration, "invalid configuration"), "configuration", name)
}

// ParseArchitecture parses an architecture name. "amd64" and "arm64" are accepted as aliases.
func ParseArchitecture(name string) (Architecture, error) {
	switch strings.ToLower(name) {
	case "", "any":
		return ArchAny, nil
	case "x64", "amd64", "x86_64":
		return ArchX64, nil
	case "arm64", "aarch64":
		return ArchArm64, nil
	}
	return ArchAny, zerr.With(zerr.Wrap(ErrUnknownArchitecture, "invalid architecture"), "arch", name)
}

// HostPlatform returns the platform the process is running on.
func HostPlatform() Platform {
	switch runtime.GOOS {
	case "darwin":
		return PlatformMacOS
	case "windows":
		return PlatformWindows
	case "android":
		return PlatformAndroid
	case "ios":
		return PlatformIOS
	default:
		return PlatformLinux
	}
}

// HostArchitecture returns the architecture the process is running on.
func HostArchitecture() Architecture {
	switch runtime.GOARCH {
	case "amd64":
		return ArchX64
	case "arm64":
		return ArchArm64
	default:
		return ArchAny
	}
}

// ExcludedSourceDirs lists the "/<Name>/" path fragments whose sources belong to other platforms,
// other groups or other types than p.
func ExcludedSourceDirs(p Platform) []string {
	var out []string
	for _, other := range AllPlatforms() {
		if other != p {
			out = append(out, "/"+other.SourceName()+"/")
		}
	}
	for g := GroupApple; int(g) < len(groupNames); g++ {
		if g != p.Group() {
			out = append(out, "/"+g.String()+"/")
		}
	}
	for t := TypeMobile; int(t) < len(typeNames); t++ {
		if t != p.Type() {
			out = append(out, "/"+t.String()+"/")
		}
	}
	return out
}

// AutomaticDefinitions returns the preprocessor definitions derived from the target platform
// and configuration, e.g. PLATFORM_MACOS=1, PLATFORM_GROUP_NAME=Apple and WITH_DEBUG=1.
func AutomaticDefinitions(p Platform, c Configuration) []string {
	var defs []string
	for _, other := range AllPlatforms() {
		defs = append(defs, flag("PLATFORM_"+strings.ToUpper(other.String()), other == p))
		if other == p {
			defs = append(defs, "PLATFORM_NAME="+other.SourceName())
		}
	}
	for g := GroupApple; int(g) < len(groupNames); g++ {
		defs = append(defs, flag("PLATFORM_GROUP_"+strings.ToUpper(g.String()), g == p.Group()))
		if g == p.Group() {
			defs = append(defs, "PLATFORM_GROUP_NAME="+g.String())
		}
	}
	for t := TypeMobile; int(t) < len(typeNames); t++ {
		defs = append(defs, flag("PLATFORM_TYPE_"+strings.ToUpper(t.String()), t == p.Type()))
		if t == p.Type() {
			defs = append(defs, "PLATFORM_TYPE_NAME="+t.String())
		}
	}
	for _, cfg := range AllConfigurations() {
		defs = append(defs, flag("WITH_"+strings.ToUpper(cfg.String()), cfg == c))
	}
	return defs
}

func flag(name string, on bool) string {
	if on {
		return name + "=1"
	}
	return name + "=0"
}
