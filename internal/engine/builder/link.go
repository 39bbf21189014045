package builder

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/anvil/internal/core/domain"
	"go.trai.ch/zerr"
)

// LinkModule waits for the module's own compile and for the link of every dependency, then
// links the module or decides it is up to date or must be skipped. infos holds every module
// of the build by name.
func (b *Builder) LinkModule(
	ctx context.Context,
	info *domain.CompileModuleInfo,
	infos map[string]*domain.CompileModuleInfo,
	w io.Writer,
) domain.LinkResult {
	result, _ := b.linkModule(ctx, info, infos, w)
	return result
}

// linkModule is LinkModule that also returns why the module did not link.
func (b *Builder) linkModule(
	ctx context.Context,
	info *domain.CompileModuleInfo,
	infos map[string]*domain.CompileModuleInfo,
	w io.Writer,
) (domain.LinkResult, error) {
	m := info.Module
	fail := func(err error) (domain.LinkResult, error) {
		info.SetLinkResult(domain.LinkFailed)
		return info.LinkResult(), zerr.With(zerr.Wrap(err, "module build failed"), "module", m.Name)
	}

	names := m.Dependencies(b.opts.Platform)
	deps := make([]*domain.CompileModuleInfo, 0, len(names))
	for _, name := range names {
		dep, ok := infos[name]
		if !ok {
			err := zerr.With(zerr.Wrap(domain.ErrMissingDependency, "dependency is not part of the build"), "dependency", name)
			fmt.Fprintf(w, "Link [%s]: %v\n", m.Name, err)
			return fail(err)
		}
		deps = append(deps, dep)
	}

	waitFor := make([]<-chan struct{}, 0, len(deps)+1)
	for _, dep := range deps {
		waitFor = append(waitFor, dep.LinkDone())
	}
	waitFor = append(waitFor, info.CompileDone())
	for _, done := range waitFor {
		if err := await(ctx, done); err != nil {
			fmt.Fprintf(w, "Link [%s]: %v\n", m.Name, err)
			return fail(err)
		}
	}

	linked := b.linkedFile(m)
	compiled := info.CompileResult()

	depsUpToDate := true
	depFailed := false
	for _, dep := range deps {
		depsUpToDate = depsUpToDate && dep.UpToDate()
		depFailed = depFailed || dep.Failed()
	}

	switch {
	case compiled == domain.NothingToCompile && depsUpToDate && exists(linked):
		fmt.Fprintf(w, "Link [%s]: Up to date\n", m.Name)
		info.SetLinkResult(domain.LinkUpToDate)
		return info.LinkResult(), nil
	case compiled == domain.CompilationFailed:
		fmt.Fprintf(w, "Link [%s]: Skipped due to compile errors\n", m.Name)
		return fail(domain.ErrCompileFailed)
	case depFailed:
		fmt.Fprintf(w, "Link [%s]: Skipped due to dependency failure\n", m.Name)
		return fail(domain.ErrDependencyFailed)
	}

	cmd := domain.LinkCommandInfo{
		Module:             m,
		LinkedFile:         linked,
		ObjectFiles:        objectFiles(info.Actions()),
		LibrarySearchPaths: slices.Concat([]string{b.layout.BinariesDir()}, m.LibrarySearchPaths),
		LinkLibraries:      m.LinkLibraries(b.opts.Platform),
		Platform:           b.opts.Platform,
		Architecture:       b.opts.Architecture,
		Configuration:      b.opts.Configuration,
		LibraryFiles:       b.libraryFiles(m),
	}
	info.SetLinkCommand(cmd)

	if b.opts.PrintLinkCommands {
		fmt.Fprintf(w, "    INFO: %s\n", strings.Join(b.toolchain.LinkCommandLine(cmd), " "))
	}

	if err := os.MkdirAll(filepath.Dir(linked), domain.DirPerm); err != nil {
		err = zerr.With(zerr.Wrap(err, "failed to create binaries directory"), "path", filepath.Dir(linked))
		fmt.Fprintf(w, "Link [%s]: %s\n%v\n", m.Name, filepath.Base(linked), err)
		return fail(err)
	}

	result, err := b.toolchain.Link(ctx, cmd)
	if err != nil || !result.Success() {
		diagnostics := result.Diagnostics()
		if err != nil {
			diagnostics = err.Error()
		}
		fmt.Fprintf(w, "Link [%s]: %s\n%s\n", m.Name, filepath.Base(linked), diagnostics)
		return fail(domain.ErrLinkFailed)
	}

	fmt.Fprintf(w, "Link [%s]: %s\n", m.Name, filepath.Base(linked))
	info.SetLinkResult(domain.LinkSuccess)
	return info.LinkResult(), nil
}

// libraryFiles returns the artifacts of m's library dependencies, dependents first so static
// archives resolve in one linker pass. Static libraries do not absorb their dependencies.
func (b *Builder) libraryFiles(m *domain.Module) []string {
	if m.BinaryType != domain.BinaryApplication && m.BinaryType != domain.BinaryDynamicLibrary {
		return nil
	}
	order, err := b.project.BuildOrder(b.opts.Platform, m.Dependencies(b.opts.Platform))
	if err != nil {
		return nil
	}
	var files []string
	for _, dep := range slices.Backward(order) {
		if dep.BinaryType.IsLibrary() {
			files = append(files, b.linkedFile(dep))
		}
	}
	return files
}

func objectFiles(actions []*domain.CompileAction) []string {
	files := make([]string, len(actions))
	for i, a := range actions {
		files[i] = a.Info.ObjectFile
	}
	return files
}

func await(ctx context.Context, done <-chan struct{}) error {
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
