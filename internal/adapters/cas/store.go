// Package cas persists the incremental build records of a project.
package cas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/anvil/internal/core/domain"
	"go.trai.ch/zerr"
)

// Store implements ports.ChecksumStore with one JSON file per platform and configuration.
type Store struct{}

// NewStore creates a new ChecksumStore.
func NewStore() *Store {
	return &Store{}
}

// Load reads the records at path. A missing file yields an empty set.
func (s *Store) Load(path string) (domain.Checksums, error) {
	//nolint:gosec // Path is derived from the project layout.
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Checksums{}, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrChecksumStoreReadFailed.Error()), "path", path)
	}

	records := domain.Checksums{}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrChecksumStoreUnmarshalFailed.Error()), "path", path)
	}
	return records, nil
}

// Save writes records next to path and renames the result over it, so readers never see a
// partially written file.
func (s *Store) Save(path string, records domain.Checksums) error {
	if records == nil {
		records = domain.Checksums{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return zerr.Wrap(err, domain.ErrChecksumStoreMarshalFailed.Error())
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrChecksumStoreCreateFailed.Error()), "path", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrChecksumStoreWriteFailed.Error()), "path", path)
	}
	if err := writeAndClose(tmp, data); err != nil {
		_ = os.Remove(tmp.Name())
		return zerr.With(zerr.Wrap(err, domain.ErrChecksumStoreWriteFailed.Error()), "path", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return zerr.With(zerr.Wrap(err, domain.ErrChecksumStoreWriteFailed.Error()), "path", path)
	}
	return nil
}

func writeAndClose(f *os.File, data []byte) error {
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Chmod(domain.FilePerm); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
