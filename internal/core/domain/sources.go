package domain

import (
	"path/filepath"
	"slices"
	"strings"
)

// Extension sets recognised by the source collections.
var (
	CSourceExtensions      = []string{".c", ".i"}
	CppSourceExtensions    = []string{".cpp", ".cc", ".cxx", ".c++", ".ii"}
	CHeaderExtensions      = []string{".h"}
	CppHeaderExtensions    = []string{".hh", ".hpp", ".hxx"}
	ObjCSourceExtensions   = []string{".m", ".mi"}
	ObjCppSourceExtensions = []string{".mm", ".mii"}
	MetalSourceExtensions  = []string{".metal"}
	MetalHeaderExtensions  = []string{".h", ".hpp"}
)

// SourceKinds describes which files a module compiles on one platform.
type SourceKinds struct {
	Sources []string
	Headers []string
	// TracksHeaders is false for toolchains that never emit a dependency listing.
	TracksHeaders bool
	// Excluded holds "/<Name>/" fragments that disqualify a path.
	Excluded []string
}

// SourceKindsFor returns the source collection rules for a binary type on platform.
func SourceKindsFor(p Platform, binaryType BinaryType) SourceKinds {
	excluded := ExcludedSourceDirs(p)
	if p.Group() == GroupApple && binaryType == BinaryShaderLibrary {
		return SourceKinds{
			Sources:  MetalSourceExtensions,
			Headers:  MetalHeaderExtensions,
			Excluded: excluded,
		}
	}

	kinds := SourceKinds{
		Sources:       slices.Concat(CSourceExtensions, CppSourceExtensions),
		Headers:       slices.Concat(CHeaderExtensions, CppHeaderExtensions),
		TracksHeaders: true,
		Excluded:      excluded,
	}
	if p.Group() == GroupApple {
		kinds.Sources = slices.Concat(kinds.Sources, ObjCSourceExtensions, ObjCppSourceExtensions)
	}
	return kinds
}

// IsSource reports whether path has a source extension.
func (k SourceKinds) IsSource(path string) bool {
	return hasExt(k.Sources, path)
}

// IsHeader reports whether path has a header extension.
func (k SourceKinds) IsHeader(path string) bool {
	return hasExt(k.Headers, path)
}

// Excludes reports whether a slash separated path relative to the sources root belongs to
// another platform, group or type.
func (k SourceKinds) Excludes(rel string) bool {
	rel = "/" + strings.TrimPrefix(filepath.ToSlash(rel), "/")
	for _, fragment := range k.Excluded {
		if strings.Contains(rel, fragment) {
			return true
		}
	}
	return false
}

func hasExt(exts []string, path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext != "" && slices.Contains(exts, ext)
}

// SourceSet is the result of gathering a module's files.
type SourceSet struct {
	Root    string
	Sources []string
	Headers []string
}
