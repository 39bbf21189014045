package fs

import (
	"context"
	"path/filepath"
	"slices"

	"go.trai.ch/anvil/internal/core/domain"
	"go.trai.ch/anvil/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.SourceCollector = (*SourceCollector)(nil)

// SourceCollector gathers the compilable sources and headers of a module directory.
type SourceCollector struct {
	walker *Walker
}

// NewSourceCollector creates a SourceCollector walking with walker.
func NewSourceCollector(walker *Walker) *SourceCollector {
	return &SourceCollector{walker: walker}
}

// Collect returns the sources and headers below root that match kinds. Files inside a
// directory named after another platform, platform group or platform type are skipped.
func (c *SourceCollector) Collect(ctx context.Context, root string, kinds domain.SourceKinds) (domain.SourceSet, error) {
	set := domain.SourceSet{Root: root}

	var walkErr error
	for path := range c.walker.WalkFiles(root, nil, &walkErr) {
		if err := ctx.Err(); err != nil {
			return domain.SourceSet{}, err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil || kinds.Excludes(rel) {
			continue
		}
		switch {
		case kinds.IsSource(path):
			set.Sources = append(set.Sources, path)
		case kinds.IsHeader(path):
			set.Headers = append(set.Headers, path)
		}
	}
	if walkErr != nil {
		return domain.SourceSet{}, zerr.With(zerr.Wrap(walkErr, domain.ErrSourceWalkFailed.Error()), "path", root)
	}

	slices.Sort(set.Sources)
	slices.Sort(set.Headers)
	return set, nil
}

// Files lists the regular files below root relative to root.
func (c *SourceCollector) Files(ctx context.Context, root string) ([]string, error) {
	var (
		files   []string
		walkErr error
	)
	for path := range c.walker.WalkFiles(root, nil, &walkErr) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			continue
		}
		files = append(files, filepath.ToSlash(rel))
	}
	if walkErr != nil {
		return nil, zerr.With(zerr.Wrap(walkErr, domain.ErrSourceWalkFailed.Error()), "path", root)
	}

	slices.Sort(files)
	return files, nil
}
