package domain

import (
	"regexp"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// BinaryType is the kind of artifact a module links into.
type BinaryType int

// Binary types.
const (
	BinaryApplication BinaryType = iota
	BinaryStaticLibrary
	BinaryDynamicLibrary
	BinaryShaderLibrary
)

var binaryTypeNames = [...]string{"Application", "StaticLibrary", "DynamicLibrary", "ShaderLibrary"}

func (b BinaryType) String() string {
	if b < 0 || int(b) >= len(binaryTypeNames) {
		return "Unknown"
	}
	return binaryTypeNames[b]
}

// IsLibrary reports whether other modules can link against the artifact.
func (b BinaryType) IsLibrary() bool {
	return b == BinaryStaticLibrary || b == BinaryDynamicLibrary
}

// ParseBinaryType accepts both "StaticLibrary" and "static_library" spellings.
func ParseBinaryType(name string) (BinaryType, error) {
	normalized := strings.ReplaceAll(strings.ToLower(name), "_", "")
	for i, n := range binaryTypeNames {
		if normalized == strings.ToLower(n) {
			return BinaryType(i), nil
		}
	}
	return BinaryApplication, zerr.With(zerr.Wrap(ErrUnknownBinaryType, "invalid binary type"), "type", name)
}

var moduleNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateName reports whether name can be used as a module or project name.
func ValidateName(name string) bool {
	return moduleNamePattern.MatchString(name)
}

// PlatformSettings holds the per-platform declarations of a module.
type PlatformSettings struct {
	Dependencies      []string
	HeaderSearchPaths []string
	Definitions       []string
	LinkLibraries     []string
}

// Module is a named compilation unit owned by a Project.
type Module struct {
	Name       string
	OutputName string
	BinaryType BinaryType

	// RootDirectory and SourcesDirectory are absolute paths.
	RootDirectory    string
	SourcesDirectory string

	LibrarySearchPaths  []string
	ResourceDirectories []string

	Platforms map[Platform]*PlatformSettings

	// flattened holds the transitive dependency closure per concrete platform, filled by Project.Resolve.
	flattened map[Platform][]string
}

// NewModule creates a module with an empty settings table.
func NewModule(name string, binaryType BinaryType) *Module {
	return &Module{
		Name:       name,
		OutputName: name,
		BinaryType: binaryType,
		Platforms:  make(map[Platform]*PlatformSettings),
	}
}

// Settings returns the mutable settings for platform, creating them on first use.
func (m *Module) Settings(p Platform) *PlatformSettings {
	if m.Platforms == nil {
		m.Platforms = make(map[Platform]*PlatformSettings)
	}
	s, ok := m.Platforms[p]
	if !ok {
		s = &PlatformSettings{}
		m.Platforms[p] = s
	}
	return s
}

func (m *Module) collect(p Platform, pick func(*PlatformSettings) []string) []string {
	var out []string
	if s, ok := m.Platforms[PlatformAny]; ok {
		out = append(out, pick(s)...)
	}
	if p != PlatformAny {
		if s, ok := m.Platforms[p]; ok {
			out = append(out, pick(s)...)
		}
	}
	return out
}

// DeclaredDependencies returns the direct dependencies declared for Any and p, without duplicates.
func (m *Module) DeclaredDependencies(p Platform) []string {
	deps := m.collect(p, func(s *PlatformSettings) []string { return s.Dependencies })
	slices.Sort(deps)
	return slices.Compact(deps)
}

// Dependencies returns the flattened dependency set for p. It is only complete after Project.Resolve.
func (m *Module) Dependencies(p Platform) []string {
	if deps, ok := m.flattened[p]; ok {
		return deps
	}
	return m.DeclaredDependencies(p)
}

// HeaderSearchPaths returns the module's include directories for Any and p.
func (m *Module) HeaderSearchPaths(p Platform) []string {
	return m.collect(p, func(s *PlatformSettings) []string { return s.HeaderSearchPaths })
}

// Definitions returns the module's preprocessor definitions for Any and p. Macro names are
// upper-cased, values are kept as declared.
func (m *Module) Definitions(p Platform) []string {
	defs := m.collect(p, func(s *PlatformSettings) []string { return s.Definitions })
	for i, d := range defs {
		name, value, ok := strings.Cut(d, "=")
		if ok {
			defs[i] = strings.ToUpper(name) + "=" + value
		} else {
			defs[i] = strings.ToUpper(name)
		}
	}
	return defs
}

// LinkLibraries returns the libraries the module links with for Any and p.
func (m *Module) LinkLibraries(p Platform) []string {
	return m.collect(p, func(s *PlatformSettings) []string { return s.LinkLibraries })
}

// FileName returns the linked artifact name for a toolchain prefix and extension.
func (m *Module) FileName(prefix, ext string) string {
	name := m.OutputName
	if name == "" {
		name = m.Name
	}
	return prefix + name + ext
}
