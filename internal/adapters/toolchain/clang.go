// Package toolchain drives clang, ar and the Metal compiler for every target platform.
package toolchain

import (
	"bufio"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/anvil/internal/core/domain"
	"go.trai.ch/anvil/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Toolchain = (*Clang)(nil)

// Clang is the toolchain of one target platform and architecture.
type Clang struct {
	executor ports.Executor
	settings domain.ToolchainSettings
	platform domain.Platform
	arch     domain.Architecture
}

// NewClang creates a Clang toolchain running its processes through executor.
func NewClang(executor ports.Executor, settings domain.ToolchainSettings, platform domain.Platform, arch domain.Architecture) *Clang {
	return &Clang{executor: executor, settings: settings, platform: platform, arch: arch}
}

// Name identifies the toolchain in progress output.
func (c *Clang) Name() string {
	return "clang (" + Triple(c.platform, c.arch) + ")"
}

// CompileCommandLine returns the compiler argv for info.
func (c *Clang) CompileCommandLine(info domain.CompileCommandInfo) []string {
	if isMetal(info.TargetFile) {
		argv := slices.Concat(c.metalTool("metal"), []string{"-c", info.TargetFile, "-o", info.ObjectFile})
		for _, dir := range info.HeaderSearchPaths {
			argv = append(argv, "-I", dir)
		}
		return argv
	}

	argv := []string{c.compiler(info.TargetFile), "-c", info.TargetFile, "-o", info.ObjectFile, "-target", Triple(c.platform, c.arch)}
	argv = append(argv, configurationFlags(info.Configuration)...)
	argv = append(argv, c.settings.Flags...)
	for _, dir := range info.HeaderSearchPaths {
		argv = append(argv, "-I", dir)
	}
	for _, def := range info.Definitions {
		argv = append(argv, "-D"+def)
	}
	if c.settings.HeaderCapture {
		return append(argv, "-H")
	}
	return append(argv, "-MMD", "-MF", info.DependencyFile)
}

// LinkCommandLine returns the archiver or linker argv for info.
func (c *Clang) LinkCommandLine(info domain.LinkCommandInfo) []string {
	switch info.Module.BinaryType {
	case domain.BinaryStaticLibrary:
		return slices.Concat([]string{c.settings.AR, "rcs", info.LinkedFile}, info.ObjectFiles)
	case domain.BinaryShaderLibrary:
		return slices.Concat(c.metalTool("metallib"), []string{"-o", info.LinkedFile}, info.ObjectFiles)
	}

	argv := []string{c.settings.CXX}
	if info.Module.BinaryType == domain.BinaryDynamicLibrary {
		argv = append(argv, "-shared")
	}
	argv = append(argv, "-o", info.LinkedFile, "-target", Triple(c.platform, c.arch))
	argv = append(argv, info.ObjectFiles...)
	for _, dir := range info.LibrarySearchPaths {
		argv = append(argv, "-L", dir)
	}
	argv = append(argv, info.LibraryFiles...)
	for _, lib := range info.LinkLibraries {
		if framework, ok := strings.CutPrefix(lib, "framework:"); ok {
			argv = append(argv, "-framework", framework)
			continue
		}
		argv = append(argv, "-l"+lib)
	}
	return append(argv, c.settings.LinkFlags...)
}

// ObjectFileExtension returns ".air" for Metal sources and ".o" otherwise.
func (c *Clang) ObjectFileExtension(source string) string {
	if isMetal(source) {
		return ".air"
	}
	return ".o"
}

// BinaryPrefix returns "lib" for libraries outside Windows.
func (c *Clang) BinaryPrefix(binaryType domain.BinaryType) string {
	if binaryType.IsLibrary() && c.platform != domain.PlatformWindows {
		return "lib"
	}
	return ""
}

// BinaryExtension returns the artifact extension of the target platform.
func (c *Clang) BinaryExtension(binaryType domain.BinaryType) string {
	windows := c.platform == domain.PlatformWindows
	switch binaryType {
	case domain.BinaryStaticLibrary:
		if windows {
			return ".lib"
		}
		return ".a"
	case domain.BinaryDynamicLibrary:
		switch {
		case windows:
			return ".dll"
		case c.platform.Group() == domain.GroupApple:
			return ".dylib"
		default:
			return ".so"
		}
	case domain.BinaryShaderLibrary:
		return ".metallib"
	default:
		if windows {
			return ".exe"
		}
		return ""
	}
}

// Compile runs the compiler. With header capture enabled the included headers are taken
// from stderr and written to info.DependencyFile.
func (c *Clang) Compile(ctx context.Context, info domain.CompileCommandInfo) (domain.ProcessResult, error) {
	result, err := c.executor.Run(ctx, info.SourcesDirectory, c.CompileCommandLine(info))
	if err != nil || !c.settings.HeaderCapture || isMetal(info.TargetFile) {
		return result, err
	}

	headers, diagnostics := splitHeaderTrace(result.Stderr)
	result.Stderr = diagnostics
	if !result.Success() {
		return result, nil
	}

	dep := domain.CompileDependency{ObjectFile: info.ObjectFile, SourceFile: info.TargetFile, Headers: headers}
	if err := writeDependency(info.DependencyFile, dep); err != nil {
		return result, zerr.With(zerr.Wrap(err, "failed to write dependency listing"), "path", info.DependencyFile)
	}
	return result, nil
}

// Link runs the archiver or linker. Static archives are recreated from scratch.
func (c *Clang) Link(ctx context.Context, info domain.LinkCommandInfo) (domain.ProcessResult, error) {
	if info.Module.BinaryType == domain.BinaryStaticLibrary {
		if err := os.Remove(info.LinkedFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return domain.ProcessResult{}, zerr.With(zerr.Wrap(err, "failed to remove stale archive"), "path", info.LinkedFile)
		}
	}
	return c.executor.Run(ctx, filepath.Dir(info.LinkedFile), c.LinkCommandLine(info))
}

func (c *Clang) compiler(source string) string {
	switch strings.ToLower(filepath.Ext(source)) {
	case ".c", ".i", ".m", ".mi":
		return c.settings.CC
	default:
		return c.settings.CXX
	}
}

func (c *Clang) metalTool(tool string) []string {
	return []string{"xcrun", "-sdk", appleSDK(c.platform), tool}
}

// splitHeaderTrace separates the "-H" include trace, lines made of dots followed by a path,
// from the remaining compiler diagnostics. Headers keep their first occurrence order.
func splitHeaderTrace(stderr string) ([]string, string) {
	var (
		headers []string
		rest    []string
		seen    = make(map[string]struct{})
	)
	scanner := bufio.NewScanner(strings.NewReader(stderr))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimLeft(line, ".")
		if trimmed == line || !strings.HasPrefix(trimmed, " ") {
			rest = append(rest, line)
			continue
		}
		header := filepath.Clean(strings.TrimSpace(trimmed))
		if _, dup := seen[header]; dup {
			continue
		}
		seen[header] = struct{}{}
		headers = append(headers, header)
	}
	if len(rest) == 0 {
		return headers, ""
	}
	return headers, strings.Join(rest, "\n") + "\n"
}

func writeDependency(path string, dep domain.CompileDependency) error {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return err
	}
	//nolint:gosec // Dependency listings live next to the object files.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, domain.FilePerm)
	if err != nil {
		return err
	}
	if _, err := dep.WriteTo(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func isMetal(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".metal")
}

func configurationFlags(c domain.Configuration) []string {
	if c == domain.ConfigurationRelease {
		return []string{"-O2"}
	}
	return []string{"-O0", "-g"}
}
