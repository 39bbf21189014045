package fs

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/anvil/internal/core/domain"
	"go.trai.ch/anvil/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher computes the digests persisted in the checksum file and the fingerprints used to
// compare resources.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// HashFile returns the uppercase hex SHA-256 digest of the file content.
func (h *Hasher) HashFile(path string) (string, error) {
	digest := sha256.New()
	if err := copyFile(digest, path); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(digest.Sum(nil))), nil
}

// HashString returns the uppercase hex SHA-256 digest of s.
func (h *Hasher) HashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// Fingerprint computes the XXHash of a file's content.
func (h *Hasher) Fingerprint(path string) (uint64, error) {
	digest := xxhash.New()
	if err := copyFile(digest, path); err != nil {
		return 0, err
	}
	return digest.Sum64(), nil
}

func copyFile(w io.Writer, path string) error {
	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrFileOpenFailed.Error()), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	if _, err := io.Copy(w, f); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrFileHashFailed.Error()), "path", path)
	}
	return nil
}
