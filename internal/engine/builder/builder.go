// Package builder compiles, links and cleans the modules of a project for one target.
package builder

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/anvil/internal/core/domain"
	"go.trai.ch/anvil/internal/core/ports"
	"go.trai.ch/anvil/internal/engine/checksum"
	"go.trai.ch/anvil/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// Options select the build target and the diagnostics printed while building.
type Options struct {
	Platform      domain.Platform
	Architecture  domain.Architecture
	Configuration domain.Configuration

	PrintCompileCommands bool
	PrintLinkCommands    bool
}

// Request is one invocation of Build.
type Request struct {
	// Modules are the requested module names. Empty means every module of the project.
	Modules []string
	// Recompile cleans the selected modules before building.
	Recompile bool
}

// ModuleReport is the outcome of one module.
type ModuleReport struct {
	Name      string
	Compile   domain.CompileResult
	Link      domain.LinkResult
	Resources error
}

// Succeeded reports whether the module compiled, linked and copied its resources.
func (r ModuleReport) Succeeded() bool {
	return r.Compile.Succeeded() && r.Link.Succeeded() && r.Resources == nil
}

// Report summarizes a build in build order.
type Report struct {
	Project string
	Modules []ModuleReport
	Success bool
}

// Failed returns the names of the modules that did not build.
func (r *Report) Failed() []string {
	var names []string
	for _, m := range r.Modules {
		if !m.Succeeded() {
			names = append(names, m.Name)
		}
	}
	return names
}

// Builder drives compile, resource copy and link for the modules of one project.
type Builder struct {
	project   *domain.Project
	toolchain ports.Toolchain
	sources   ports.SourceCollector
	hasher    ports.Hasher
	cache     *checksum.Cache
	pool      *scheduler.Pool
	tracer    ports.Tracer
	logger    ports.Logger

	opts   Options
	layout domain.Layout
}

// New creates a Builder for project. The cache is loaded and saved by Build.
func New(
	project *domain.Project,
	toolchain ports.Toolchain,
	sources ports.SourceCollector,
	hasher ports.Hasher,
	cache *checksum.Cache,
	pool *scheduler.Pool,
	tracer ports.Tracer,
	logger ports.Logger,
	opts Options,
) *Builder {
	return &Builder{
		project:   project,
		toolchain: toolchain,
		sources:   sources,
		hasher:    hasher,
		cache:     cache,
		pool:      pool,
		tracer:    tracer,
		logger:    logger,
		opts:      opts,
		layout:    domain.NewLayout(project.Root, opts.Platform, opts.Configuration),
	}
}

// Layout returns the output layout of the build target.
func (b *Builder) Layout() domain.Layout {
	return b.layout
}

// Build compiles and links the requested modules together with everything they depend on.
//
// Modules run on the pool in dependency order. Each one compiles, copies its resources and
// then links once every dependency has linked. Toolchain failures are reported in the
// Report and turn the returned error into domain.ErrBuildFailed. Configuration problems
// such as unknown modules are returned before anything runs.
func (b *Builder) Build(ctx context.Context, req Request) (*Report, error) {
	if len(req.Modules) == 0 {
		var names []string
		for _, m := range b.project.Modules() {
			names = append(names, m.Name)
		}
		b.logger.Warn(fmt.Sprintf("No module specified, will compile all: %s", strings.Join(names, ", ")))
	}

	order, err := b.project.BuildOrder(b.opts.Platform, req.Modules)
	if err != nil {
		return nil, err
	}
	b.emitPlan(ctx, order, req.Modules)

	if req.Recompile {
		if err := b.CleanModules(ctx, order); err != nil {
			return nil, err
		}
	}

	b.cache.Load(b.opts.Platform, b.opts.Configuration)

	infos := make(map[string]*domain.CompileModuleInfo, len(order))
	for _, m := range order {
		infos[m.Name] = domain.NewCompileModuleInfo(m)
	}

	var (
		mu           sync.Mutex
		resourceErrs = make(map[string]error)
	)
	scheduler.ForEach(b.pool, order, func(m *domain.Module) {
		if err := b.buildModule(ctx, infos[m.Name], infos); err != nil {
			mu.Lock()
			resourceErrs[m.Name] = err
			mu.Unlock()
		}
	})

	report := &Report{Project: b.project.Name, Success: true}
	for _, m := range order {
		info := infos[m.Name]
		r := ModuleReport{
			Name:      m.Name,
			Compile:   info.CompileResult(),
			Link:      info.LinkResult(),
			Resources: resourceErrs[m.Name],
		}
		report.Modules = append(report.Modules, r)
		report.Success = report.Success && r.Succeeded()
	}

	if err := b.cache.Save(b.opts.Platform, b.opts.Configuration); err != nil {
		return report, err
	}
	if !report.Success {
		return report, zerr.With(
			zerr.Wrap(domain.ErrBuildFailed, fmt.Sprintf("Project %s generated compile errors", b.project.Name)),
			"modules", strings.Join(report.Failed(), ", "),
		)
	}
	return report, nil
}

// buildModule runs one module inside its own span. It returns the resource copy error, if any.
func (b *Builder) buildModule(ctx context.Context, info *domain.CompileModuleInfo, infos map[string]*domain.CompileModuleInfo) error {
	ctx, span := b.tracer.Start(ctx, info.Module.Name)
	defer span.End()

	// Both futures must resolve whatever happens, dependents are waiting on them.
	defer func() {
		info.SetCompileResult(domain.CompilationFailed)
		info.SetLinkResult(domain.LinkFailed)
	}()

	w := &lockedWriter{w: span}

	b.CompileModule(ctx, info, w)

	resourceErr := b.CopyResources(ctx, info.Module, w)
	if resourceErr != nil {
		fmt.Fprintf(w, "Copy [%s]: %v\n", info.Module.Name, resourceErr)
		span.RecordError(resourceErr)
	}

	if _, err := b.linkModule(ctx, info, infos, w); err != nil {
		span.RecordError(err)
	}
	if info.UpToDate() {
		span.SetAttribute(ports.UpToDateAttribute, true)
	}
	return resourceErr
}

func (b *Builder) emitPlan(ctx context.Context, order []*domain.Module, targets []string) {
	names := make([]string, len(order))
	deps := make(map[string][]string, len(order))
	for i, m := range order {
		names[i] = m.Name
		deps[m.Name] = slices.Clone(m.Dependencies(b.opts.Platform))
	}
	if len(targets) == 0 {
		targets = names
	}
	b.tracer.EmitPlan(ctx, names, deps, targets)
}

// linkedFile returns the artifact path of m for the target toolchain.
func (b *Builder) linkedFile(m *domain.Module) string {
	prefix := b.toolchain.BinaryPrefix(m.BinaryType)
	ext := b.toolchain.BinaryExtension(m.BinaryType)
	return b.layout.LinkedFile(m.FileName(prefix, ext))
}

// lockedWriter serializes writes from the compile actions of one module.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
