// Package fs provides file system adapters for walking, hashing and collecting sources.
package fs

import (
	"io/fs"
	"iter"
	"path/filepath"
)

// Walker provides file walking functionality.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields every regular file below root in lexical order, skipping VCS metadata
// and entries whose name matches one of ignores. Walk errors end the sequence and are
// reported through errp when it is not nil.
func (w *Walker) WalkFiles(root string, ignores []string, errp *error) iter.Seq[string] {
	return func(yield func(string) bool) {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if path != root && skip(d, ignores) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
		if errp != nil {
			*errp = err
		}
	}
}

func skip(d fs.DirEntry, ignores []string) bool {
	name := d.Name()
	if d.IsDir() && (name == ".git" || name == ".jj") {
		return true
	}
	for _, ignore := range ignores {
		if matched, _ := filepath.Match(ignore, name); matched {
			return true
		}
	}
	return false
}
