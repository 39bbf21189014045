package app

import (
	"context"
	"fmt"

	"go.trai.ch/anvil/internal/adapters/telemetry"
	"go.trai.ch/anvil/internal/core/domain"
	"go.trai.ch/anvil/internal/engine/builder"
	"go.trai.ch/anvil/internal/engine/checksum"
)

// CleanOptions configures the Clean method.
type CleanOptions struct {
	Modules       []string
	Platform      string
	Configuration string
	// Checksums also deletes the persisted checksums of the platform and configuration.
	Checksums bool
}

// Clean deletes the linked artifacts and intermediate files of the named modules, or of
// every module when none is named.
func (a *App) Clean(ctx context.Context, opts CleanOptions) error {
	target, err := ResolveTarget(opts.Platform, "", opts.Configuration)
	if err != nil {
		return err
	}
	if err := a.configurePool(0, false); err != nil {
		return err
	}

	project, err := a.loadProject()
	if err != nil {
		return err
	}

	modules, err := selectModules(project, opts.Modules)
	if err != nil {
		return err
	}

	toolchain, err := a.toolchains.ForPlatform(target.Platform, target.Architecture, project.Toolchain)
	if err != nil {
		return err
	}

	cache := checksum.New(a.store, a.hasher, a.logger, project.Root)
	b := builder.New(project, toolchain, a.sources, a.hasher, cache, a.pool, telemetry.NewNoOpTracer(), a.logger, builder.Options{
		Platform:      target.Platform,
		Architecture:  target.Architecture,
		Configuration: target.Configuration,
	})

	if err := b.CleanModules(ctx, modules); err != nil {
		return err
	}

	if opts.Checksums {
		if err := b.CleanChecksums(); err != nil {
			return err
		}
		a.logger.Info(fmt.Sprintf("Removed %s checksums for %s %s", project.Name, target.Platform, target.Configuration))
	}
	return nil
}

// selectModules looks up the named modules without their dependencies.
func selectModules(project *domain.Project, names []string) ([]*domain.Module, error) {
	if len(names) == 0 {
		return project.Modules(), nil
	}

	// Validates the names the same way a build does.
	if _, err := project.BuildOrder(domain.PlatformAny, names); err != nil {
		return nil, err
	}

	modules := make([]*domain.Module, 0, len(names))
	for _, name := range names {
		m, _ := project.Module(name)
		modules = append(modules, m)
	}
	return modules, nil
}
