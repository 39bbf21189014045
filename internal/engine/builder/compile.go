package builder

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sync/atomic"

	"go.trai.ch/anvil/internal/core/domain"
	"go.trai.ch/anvil/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// CompileModule gathers the module's sources, compiles the stale ones and resolves the
// module's compile future. Progress and compiler diagnostics are written to w.
func (b *Builder) CompileModule(ctx context.Context, info *domain.CompileModuleInfo, w io.Writer) domain.CompileResult {
	m := info.Module
	kinds := domain.SourceKindsFor(b.opts.Platform, m.BinaryType)

	set, err := b.sources.Collect(ctx, m.SourcesDirectory, kinds)
	if err != nil {
		fmt.Fprintf(w, "Compile [%s]: %v\n", m.Name, err)
		return finishCompile(info, domain.CompilationFailed)
	}
	info.SetSources(set)

	includes := b.headerSearchPaths(m)
	definitions := slices.Concat(
		domain.AutomaticDefinitions(b.opts.Platform, b.opts.Configuration),
		m.Definitions(b.opts.Platform),
	)

	actions := make([]*domain.CompileAction, len(set.Sources))
	stale := make([]bool, len(set.Sources))
	b.pool.ForEachIndex(len(set.Sources), func(i int) {
		actions[i] = b.newCompileAction(m, set.Sources[i], kinds, includes, definitions)
		stale[i] = b.cache.ShouldRecompile(actions[i])
	})
	info.SetActions(actions)

	var pending []*domain.CompileAction
	for i, a := range actions {
		if stale[i] {
			pending = append(pending, a)
		}
	}

	if len(pending) == 0 {
		fmt.Fprintf(w, "Nothing to compile, module %s is up to date.\n", m.Name)
		return finishCompile(info, domain.NothingToCompile)
	}

	fmt.Fprintf(w, "Compiling module %s with %d actions\n", m.Name, len(pending))

	var completed, failed atomic.Int64
	scheduler.ForEach(b.pool, pending, func(a *domain.CompileAction) {
		name := filepath.Base(a.Info.TargetFile)
		fmt.Fprintf(w, "Compile [%s]: %s\n", m.Name, name)
		if b.opts.PrintCompileCommands {
			fmt.Fprintf(w, "    INFO: %s\n", a.CommandLineString())
		}

		result, err := b.compile(ctx, a)
		n := completed.Add(1)
		if err == nil && result.Success() {
			b.cache.RecordSuccess(a)
			fmt.Fprintf(w, "Compile [%d/%d] [%s]: %s\n", n, len(pending), m.Name, name)
			return
		}

		failed.Add(1)
		b.cache.RecordFailure(a)
		diagnostics := result.Diagnostics()
		if err != nil {
			diagnostics = err.Error()
		}
		fmt.Fprintf(w, "Compile [%d/%d] [%s]: %s\n%s\n", n, len(pending), m.Name, name, diagnostics)
	})

	if failed.Load() > 0 {
		return finishCompile(info, domain.CompilationFailed)
	}
	return finishCompile(info, domain.CompilationSuccess)
}

func finishCompile(info *domain.CompileModuleInfo, r domain.CompileResult) domain.CompileResult {
	info.SetCompileResult(r)
	return info.CompileResult()
}

func (b *Builder) compile(ctx context.Context, a *domain.CompileAction) (domain.ProcessResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.ProcessResult{}, err
	}
	if err := os.MkdirAll(filepath.Dir(a.Info.ObjectFile), domain.DirPerm); err != nil {
		return domain.ProcessResult{}, zerr.With(zerr.Wrap(err, "failed to create object directory"), "path", a.Info.ObjectFile)
	}
	return b.toolchain.Compile(ctx, a.Info)
}

// newCompileAction describes the compilation of one source. Objects mirror the source tree
// below the module's object directory so equal file names in different folders never collide.
func (b *Builder) newCompileAction(
	m *domain.Module,
	source string,
	kinds domain.SourceKinds,
	includes, definitions []string,
) *domain.CompileAction {
	rel, err := filepath.Rel(m.SourcesDirectory, source)
	if err != nil || !filepath.IsLocal(rel) {
		rel = filepath.Base(source)
	}
	objectExt := b.toolchain.ObjectFileExtension(source)
	object := filepath.Join(b.layout.ObjectsDir(m.Name), rel+objectExt)

	info := domain.CompileCommandInfo{
		Module:            m,
		SourcesDirectory:  m.SourcesDirectory,
		TargetFile:        source,
		ObjectFile:        object,
		DependencyFile:    object + domain.DependencyFileExt,
		HeaderSearchPaths: includes,
		Definitions:       definitions,
		Platform:          b.opts.Platform,
		Architecture:      b.opts.Architecture,
		Configuration:     b.opts.Configuration,
	}
	return domain.NewCompileAction(b.layout.Rel(source), info, b.toolchain.CompileCommandLine(info), objectExt, kinds)
}

// headerSearchPaths returns the module's own include directories followed by the source
// directories of its dependencies.
func (b *Builder) headerSearchPaths(m *domain.Module) []string {
	paths := slices.Clone(m.HeaderSearchPaths(b.opts.Platform))
	for _, name := range m.Dependencies(b.opts.Platform) {
		if dep, ok := b.project.Module(name); ok {
			paths = append(paths, dep.SourcesDirectory)
		}
	}
	return paths
}
