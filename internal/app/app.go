// Package app implements the application layer for anvil.
package app

import (
	"errors"
	"io"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/anvil/internal/adapters/detector"
	"go.trai.ch/anvil/internal/core/domain"
	"go.trai.ch/anvil/internal/core/ports"
	"go.trai.ch/anvil/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	toolchains   ports.ToolchainFactory
	sources      ports.SourceCollector
	hasher       ports.Hasher
	store        ports.ChecksumStore
	pool         *scheduler.Pool
	watchers     ports.WatcherFactory
	logger       ports.Logger

	stdout      io.Writer
	stderr      io.Writer
	environment func() detector.Environment
	teaOptions  []tea.ProgramOption
	disableTick bool

	poolOnce sync.Once
	poolErr  error
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	toolchains ports.ToolchainFactory,
	sources ports.SourceCollector,
	hasher ports.Hasher,
	store ports.ChecksumStore,
	pool *scheduler.Pool,
	watchers ports.WatcherFactory,
	log ports.Logger,
) *App {
	return &App{
		configLoader: loader,
		toolchains:   toolchains,
		sources:      sources,
		hasher:       hasher,
		store:        store,
		pool:         pool,
		watchers:     watchers,
		logger:       log,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
		environment:  detector.CurrentEnvironment,
	}
}

// WithOutput redirects compiler output and progress rendering.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// WithEnvironment replaces terminal detection for the "auto" output mode.
func (a *App) WithEnvironment(env detector.Environment) *App {
	a.environment = func() detector.Environment { return env }
	return a
}

// WithTeaOptions adds bubbletea program options to the App.
// This is primarily used for testing to disable input/output.
func (a *App) WithTeaOptions(opts ...tea.ProgramOption) *App {
	a.teaOptions = append(a.teaOptions, opts...)
	return a
}

// WithDisableTick disables the TUI spinner.
func (a *App) WithDisableTick() *App {
	a.disableTick = true
	return a
}

// SetJSONLog switches the logger to JSON output when it supports it.
func (a *App) SetJSONLog(enable bool) {
	if l, ok := a.logger.(interface{ SetJSON(bool) }); ok {
		l.SetJSON(enable)
	}
}

// Target is the platform, architecture and configuration a command operates on.
type Target struct {
	Platform      domain.Platform
	Architecture  domain.Architecture
	Configuration domain.Configuration
}

// ResolveTarget parses the target flags. Empty values select the host platform, the host
// architecture and the Debug configuration.
func ResolveTarget(platform, arch, configuration string) (Target, error) {
	t := Target{
		Platform:      domain.HostPlatform(),
		Architecture:  domain.HostArchitecture(),
		Configuration: domain.ConfigurationDebug,
	}

	var err error
	if platform != "" {
		if t.Platform, err = domain.ParsePlatform(platform); err != nil {
			return t, err
		}
		if t.Platform == domain.PlatformAny {
			return t, zerr.With(zerr.Wrap(domain.ErrUnknownPlatform, "cannot build for every platform at once"), "platform", platform)
		}
	}
	if arch != "" {
		if t.Architecture, err = domain.ParseArchitecture(arch); err != nil {
			return t, err
		}
	}
	if configuration != "" {
		if t.Configuration, err = domain.ParseConfiguration(configuration); err != nil {
			return t, err
		}
	}
	return t, nil
}

// configurePool sizes the shared worker pool once per process. Later calls reuse the first
// configuration, which watch mode relies on.
func (a *App) configurePool(threads int, singleThreaded bool) error {
	a.poolOnce.Do(func() {
		if singleThreaded {
			a.poolErr = a.pool.SingleThreaded()
		} else {
			a.poolErr = a.pool.Configure(threads)
		}
		if errors.Is(a.poolErr, domain.ErrPoolConfigured) {
			a.poolErr = nil
		}
	})
	return a.poolErr
}

// Close stops the worker pool.
func (a *App) Close() {
	a.pool.Shutdown()
}
