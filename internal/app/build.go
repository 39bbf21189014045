package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/anvil/internal/adapters/detector"
	"go.trai.ch/anvil/internal/adapters/linear"
	"go.trai.ch/anvil/internal/adapters/telemetry"
	"go.trai.ch/anvil/internal/adapters/tui"
	"go.trai.ch/anvil/internal/adapters/watcher"
	"go.trai.ch/anvil/internal/core/domain"
	"go.trai.ch/anvil/internal/core/ports"
	"go.trai.ch/anvil/internal/engine/builder"
	"go.trai.ch/anvil/internal/engine/checksum"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// BuildOptions configures the Build method.
type BuildOptions struct {
	Modules       []string
	Platform      string
	Architecture  string
	Configuration string

	Recompile            bool
	PrintCompileCommands bool
	PrintLinkCommands    bool

	Threads        int
	SingleThreaded bool

	OutputMode string
	Watch      bool
}

// Build compiles and links the requested modules of the project found from the working
// directory. With Watch set it keeps rebuilding on source changes until ctx is done.
func (a *App) Build(ctx context.Context, opts BuildOptions) error {
	mode, err := detector.ParseMode(opts.OutputMode)
	if err != nil {
		return err
	}
	target, err := ResolveTarget(opts.Platform, opts.Architecture, opts.Configuration)
	if err != nil {
		return err
	}
	if err := a.configurePool(opts.Threads, opts.SingleThreaded); err != nil {
		return err
	}

	project, err := a.loadProject()
	if err != nil {
		return err
	}

	buildErr := a.buildOnce(ctx, project, target, mode, opts)
	if !opts.Watch {
		return buildErr
	}
	if buildErr != nil {
		if errors.Is(buildErr, domain.ErrBuildInterrupted) {
			return buildErr
		}
		a.logger.Error(buildErr)
	}
	return a.watch(ctx, project, target, mode, opts)
}

func (a *App) loadProject() (*domain.Project, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to get working directory")
	}
	project, err := a.configLoader.Load(cwd)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load project")
	}
	return project, nil
}

// buildOnce runs one build with a fresh renderer. The renderer and the builder run
// concurrently; quitting the interactive view cancels the build.
//
//nolint:cyclop // orchestration function
func (a *App) buildOnce(
	ctx context.Context,
	project *domain.Project,
	target Target,
	mode detector.OutputMode,
	opts BuildOptions,
) error {
	toolchain, err := a.toolchains.ForPlatform(target.Platform, target.Architecture, project.Toolchain)
	if err != nil {
		return err
	}

	renderer := a.newRenderer(ctx, mode)

	provider := telemetry.Setup(renderer)
	defer func() {
		_ = provider.Shutdown(context.Background())
	}()
	tracer := telemetry.NewOTelTracer("anvil").WithRenderer(renderer)

	cache := checksum.New(a.store, a.hasher, a.logger, project.Root)
	b := builder.New(project, toolchain, a.sources, a.hasher, cache, a.pool, tracer, a.logger, builder.Options{
		Platform:             target.Platform,
		Architecture:         target.Architecture,
		Configuration:        target.Configuration,
		PrintCompileCommands: opts.PrintCompileCommands,
		PrintLinkCommands:    opts.PrintLinkCommands,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := renderer.Start(gctx); err != nil {
			return err
		}
		return renderer.Wait()
	})

	var report *builder.Report
	g.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = zerr.With(zerr.Wrap(domain.ErrBuildFailed, "builder panicked"), "panic", fmt.Sprint(r))
			}
			_ = renderer.Stop()
		}()

		report, err = b.Build(gctx, builder.Request{Modules: opts.Modules, Recompile: opts.Recompile})
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}
	a.logger.Info(fmt.Sprintf("Project %s compiled successfully", report.Project))
	return nil
}

func (a *App) newRenderer(ctx context.Context, mode detector.OutputMode) ports.Renderer {
	mode = detector.ResolveMode(detector.Detect(a.environment()), mode)
	if mode != detector.ModeTUI {
		return linear.NewRenderer(a.stdout, a.stderr)
	}

	model := tui.NewModel(a.stderr)
	if a.disableTick {
		model = model.WithDisableTick()
	}
	teaOpts := append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithOutput(a.stderr)}, a.teaOptions...)
	return tui.NewRenderer(model, teaOpts...)
}

// watch rebuilds whenever a file below one of the selected modules changes.
func (a *App) watch(
	ctx context.Context,
	project *domain.Project,
	target Target,
	mode detector.OutputMode,
	opts BuildOptions,
) error {
	roots, err := watchRoots(project, target.Platform, opts.Modules)
	if err != nil {
		return err
	}

	w, err := a.watchers()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if err := w.Start(ctx, roots); err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	changes := make(chan []string, 1)
	debouncer := watcher.NewDebouncer(watcher.DefaultDebounceWindow, func(paths []string) {
		// A rebuild is already queued when the channel is full.
		select {
		case changes <- paths:
		default:
		}
	})
	defer debouncer.Stop()

	go func() {
		for event := range w.Events() {
			if watcher.Relevant(event.Path) {
				debouncer.Add(event.Path)
			}
		}
	}()

	a.logger.Info(fmt.Sprintf("Watching %d directories of project %s for changes", len(roots), project.Name))

	opts.Recompile = false
	for {
		select {
		case <-ctx.Done():
			return nil
		case paths := <-changes:
			a.logger.Info(fmt.Sprintf("Detected %d changed file(s), rebuilding", len(paths)))
			next, err := a.loadProject()
			if err != nil {
				a.logger.Error(err)
				continue
			}
			project = next
			err = a.buildOnce(ctx, project, target, mode, opts)
			switch {
			case errors.Is(err, domain.ErrBuildInterrupted):
				return err
			case err != nil && ctx.Err() == nil:
				a.logger.Error(err)
			}
		}
	}
}

// watchRoots returns the module directories and include directories of the selected
// modules and everything they depend on.
func watchRoots(project *domain.Project, platform domain.Platform, selected []string) ([]string, error) {
	order, err := project.BuildOrder(platform, selected)
	if err != nil {
		return nil, err
	}

	var roots []string
	for _, m := range order {
		for _, dir := range append([]string{m.RootDirectory, m.SourcesDirectory}, m.HeaderSearchPaths(platform)...) {
			if dir != "" {
				roots = append(roots, dir)
			}
		}
	}
	slices.Sort(roots)
	return slices.Compact(roots), nil
}
