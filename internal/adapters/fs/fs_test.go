package fs_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/anvil/internal/adapters/fs"
	"go.trai.ch/anvil/internal/core/domain"
)

func TestHasher_HashFile(t *testing.T) {
	hasher := fs.NewHasher()

	t.Run("Content Change", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file.cpp")
		require.NoError(t, os.WriteFile(file, []byte("content1"), 0o600))

		hash1, err := hasher.HashFile(file)
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(file, []byte("content2"), 0o600))
		hash2, err := hasher.HashFile(file)
		require.NoError(t, err)

		assert.NotEqual(t, hash1, hash2, "Hash should change when content changes")
	})

	t.Run("Metadata Change", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file.cpp")
		require.NoError(t, os.WriteFile(file, []byte("content"), 0o600))

		hash1, err := hasher.HashFile(file)
		require.NoError(t, err)

		futureTime := time.Now().Add(1 * time.Hour)
		require.NoError(t, os.Chtimes(file, futureTime, futureTime))

		hash2, err := hasher.HashFile(file)
		require.NoError(t, err)

		assert.Equal(t, hash1, hash2, "Hash should NOT change when only metadata (mtime) changes")
	})

	t.Run("Uppercase Hex", func(t *testing.T) {
		hash := hasher.HashString("")
		assert.Len(t, hash, 64)
		assert.Regexp(t, "^[0-9A-F]+$", hash)
	})

	t.Run("Missing File", func(t *testing.T) {
		_, err := hasher.HashFile(filepath.Join(t.TempDir(), "missing.cpp"))
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrFileOpenFailed.Error())
	})
}

func TestHasher_Fingerprint(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.png")
	b := filepath.Join(dir, "b.png")
	c := filepath.Join(dir, "c.png")
	require.NoError(t, os.WriteFile(a, []byte("pixels"), 0o600))
	require.NoError(t, os.WriteFile(b, []byte("pixels"), 0o600))
	require.NoError(t, os.WriteFile(c, []byte("pixelz"), 0o600))

	hasher := fs.NewHasher()
	fa, err := hasher.Fingerprint(a)
	require.NoError(t, err)
	fb, err := hasher.Fingerprint(b)
	require.NoError(t, err)
	fc, err := hasher.Fingerprint(c)
	require.NoError(t, err)

	assert.Equal(t, fa, fb)
	assert.NotEqual(t, fa, fc)

	_, err = hasher.Fingerprint(filepath.Join(dir, "missing.png"))
	require.Error(t, err)
}
