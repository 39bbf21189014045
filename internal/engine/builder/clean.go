package builder

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"go.trai.ch/anvil/internal/core/domain"
	"go.trai.ch/anvil/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// CleanModules deletes the linked artifact and the intermediate directory of every module.
// Modules are cleaned in parallel. All failures are returned joined.
func (b *Builder) CleanModules(ctx context.Context, modules []*domain.Module) error {
	var (
		mu   sync.Mutex
		errs []error
	)
	scheduler.ForEach(b.pool, modules, func(m *domain.Module) {
		if err := b.cleanModule(ctx, m); err != nil {
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
		}
	})
	return errors.Join(errs...)
}

func (b *Builder) cleanModule(ctx context.Context, m *domain.Module) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if dirExists(b.layout.BinariesDir()) {
		linked := b.linkedFile(m)
		if err := os.Remove(linked); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return zerr.With(zerr.With(zerr.Wrap(err, domain.ErrCleanFailed.Error()), "module", m.Name), "path", linked)
		}
	}

	dir := b.layout.ModuleIntermediateDir(m.Name)
	if !dirExists(dir) {
		return nil
	}
	b.logger.Info(fmt.Sprintf("Cleaning %s's Intermediate for module: %s", b.project.Name, m.Name))
	if err := os.RemoveAll(dir); err != nil {
		return zerr.With(zerr.With(zerr.Wrap(err, domain.ErrCleanFailed.Error()), "module", m.Name), "path", dir)
	}
	return nil
}

// CleanChecksums deletes the persisted checksums of the build target.
func (b *Builder) CleanChecksums() error {
	path := b.cache.Path(b.opts.Platform, b.opts.Configuration)
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.With(zerr.Wrap(err, domain.ErrCleanFailed.Error()), "path", path)
	}
	return nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
