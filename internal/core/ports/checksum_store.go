package ports

import "go.trai.ch/anvil/internal/core/domain"

// ChecksumStore persists the incremental build records of one platform and configuration.
//
//go:generate mockgen -source=checksum_store.go -destination=mocks/mock_checksum_store.go -package=mocks
type ChecksumStore interface {
	// Load reads the records stored at path. A missing file returns an empty map and no error.
	Load(path string) (domain.Checksums, error)

	// Save replaces the file at path with records in a single atomic step.
	Save(path string, records domain.Checksums) error
}
