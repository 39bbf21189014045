package ports

import (
	"context"

	"go.trai.ch/anvil/internal/core/domain"
)

// SourceCollector gathers a module's source, header and resource files.
//
//go:generate mockgen -source=source_collector.go -destination=mocks/mock_source_collector.go -package=mocks
type SourceCollector interface {
	// Collect walks root recursively and returns every file matching kinds that is not
	// excluded for the target platform. Results are sorted.
	Collect(ctx context.Context, root string, kinds domain.SourceKinds) (domain.SourceSet, error)

	// Files returns every regular file below root as a slash separated path relative to
	// root, sorted. A missing root yields an error matching fs.ErrNotExist.
	Files(ctx context.Context, root string) ([]string, error)
}
