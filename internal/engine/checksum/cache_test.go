package checksum_test

import (
	"errors"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/anvil/internal/core/domain"
	"go.trai.ch/anvil/internal/core/ports/mocks"
	"go.trai.ch/anvil/internal/engine/checksum"
	"go.uber.org/mock/gomock"
)

// contentHasher uses file contents as their digest so tests can reason about changes.
type contentHasher struct{}

func (contentHasher) HashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.ToUpper(string(data)), nil
}

func (contentHasher) HashString(s string) string { return "LINE:" + s }

func (contentHasher) Fingerprint(string) (uint64, error) { return 0, nil }

// memStore keeps saved records in memory, deep copied like a file round trip.
type memStore struct {
	files map[string]domain.Checksums
}

func (s *memStore) Load(path string) (domain.Checksums, error) {
	records, ok := s.files[path]
	if !ok {
		return domain.Checksums{}, nil
	}
	return clone(records), nil
}

func (s *memStore) Save(path string, records domain.Checksums) error {
	s.files[path] = clone(records)
	return nil
}

func clone(in domain.Checksums) domain.Checksums {
	out := make(domain.Checksums, len(in))
	for k, v := range in {
		cp := *v
		cp.HeaderChecksums = maps.Clone(v.HeaderChecksums)
		out[k] = &cp
	}
	return out
}

type fixture struct {
	root   string
	store  *memStore
	logger *mocks.MockLogger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	return &fixture{
		root:   t.TempDir(),
		store:  &memStore{files: map[string]domain.Checksums{}},
		logger: mocks.NewMockLogger(ctrl),
	}
}

// cache starts a new build: a fresh cache loaded from the store.
func (f *fixture) cache() *checksum.Cache {
	c := checksum.New(f.store, contentHasher{}, f.logger, f.root)
	c.Load(domain.PlatformLinux, domain.ConfigurationDebug)
	return c
}

func (f *fixture) save(t *testing.T, c *checksum.Cache) {
	t.Helper()
	require.NoError(t, c.Save(domain.PlatformLinux, domain.ConfigurationDebug))
}

func (f *fixture) write(t *testing.T, rel, content string) string {
	t.Helper()
	path := filepath.Join(f.root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// action builds a compile action for Sources/main.cpp that includes the given headers.
func (f *fixture) action(t *testing.T, cmdline string, headers ...string) *domain.CompileAction {
	t.Helper()
	src := filepath.Join(f.root, "Sources", "main.cpp")
	obj := filepath.Join(f.root, "Intermediate", "main.o")
	depFile := obj + domain.DependencyFileExt

	dep := domain.CompileDependency{ObjectFile: obj, SourceFile: src}
	for _, h := range headers {
		dep.Headers = append(dep.Headers, filepath.Join(f.root, h))
	}
	require.NoError(t, os.MkdirAll(filepath.Dir(depFile), 0o750))
	require.NoError(t, os.WriteFile(depFile, []byte(dep.String()), 0o600))

	info := domain.CompileCommandInfo{TargetFile: src, ObjectFile: obj, DependencyFile: depFile}
	kinds := domain.SourceKindsFor(domain.PlatformLinux, domain.BinaryStaticLibrary)
	return domain.NewCompileAction("Sources/main.cpp", info, strings.Fields(cmdline), ".o", kinds)
}

// compiled simulates a successful compile of a.
func (f *fixture) compiled(t *testing.T, c *checksum.Cache, a *domain.CompileAction) {
	t.Helper()
	f.write(t, "Intermediate/main.o", "object")
	c.RecordSuccess(a)
}

func TestShouldRecompile_NoRecord(t *testing.T) {
	f := newFixture(t)
	f.write(t, "Sources/main.cpp", "int main() {}")

	c := f.cache()
	assert.True(t, c.ShouldRecompile(f.action(t, "clang++ -c")))
}

func TestShouldRecompile_UpToDateAfterSuccess(t *testing.T) {
	f := newFixture(t)
	f.write(t, "Sources/main.cpp", "v1")
	f.write(t, "Sources/a.h", "a1")

	c := f.cache()
	f.compiled(t, c, f.action(t, "clang++ -c", "Sources/a.h"))
	f.save(t, c)

	next := f.cache()
	assert.False(t, next.ShouldRecompile(f.action(t, "clang++ -c", "Sources/a.h")))

	rec, ok := next.Record("Sources/main.cpp")
	require.True(t, ok)
	assert.True(t, rec.CompileSucceeded)
	assert.Equal(t, "V1", rec.FileChecksum)
	assert.Equal(t, "LINE:clang++ -c", rec.CommandLineChecksum)
	assert.Equal(t, map[string]string{"Sources/a.h": "A1"}, rec.HeaderChecksums)
}

func TestShouldRecompile_Triggers(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(t *testing.T, f *fixture)
		cmd    string
	}{
		{
			name: "source changed",
			mutate: func(t *testing.T, f *fixture) {
				f.write(t, "Sources/main.cpp", "v2")
			},
		},
		{
			name:   "command line changed",
			mutate: func(*testing.T, *fixture) {},
			cmd:    "clang++ -c -O2",
		},
		{
			name: "header changed",
			mutate: func(t *testing.T, f *fixture) {
				f.write(t, "Sources/a.h", "a2")
			},
		},
		{
			name: "object missing",
			mutate: func(t *testing.T, f *fixture) {
				require.NoError(t, os.Remove(filepath.Join(f.root, "Intermediate", "main.o")))
			},
		},
		{
			name: "source missing",
			mutate: func(t *testing.T, f *fixture) {
				require.NoError(t, os.Remove(filepath.Join(f.root, "Sources", "main.cpp")))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.write(t, "Sources/main.cpp", "v1")
			f.write(t, "Sources/a.h", "a1")

			c := f.cache()
			f.compiled(t, c, f.action(t, "clang++ -c", "Sources/a.h"))
			f.save(t, c)

			tt.mutate(t, f)
			cmd := tt.cmd
			if cmd == "" {
				cmd = "clang++ -c"
			}
			assert.True(t, f.cache().ShouldRecompile(f.action(t, cmd, "Sources/a.h")))
		})
	}
}

func TestShouldRecompile_NewHeaderInListing(t *testing.T) {
	f := newFixture(t)
	f.write(t, "Sources/main.cpp", "v1")
	f.write(t, "Sources/a.h", "a1")
	f.write(t, "Sources/b.h", "b1")

	c := f.cache()
	f.compiled(t, c, f.action(t, "clang++ -c", "Sources/a.h"))
	f.save(t, c)

	assert.True(t, f.cache().ShouldRecompile(f.action(t, "clang++ -c", "Sources/a.h", "Sources/b.h")))
}

func TestShouldRecompile_RefreshesHeaderChecksums(t *testing.T) {
	f := newFixture(t)
	f.write(t, "Sources/main.cpp", "v1")
	f.write(t, "Sources/a.h", "a1")

	c := f.cache()
	f.compiled(t, c, f.action(t, "clang++ -c", "Sources/a.h"))
	f.save(t, c)

	f.write(t, "Sources/a.h", "a2")
	next := f.cache()
	a := f.action(t, "clang++ -c", "Sources/a.h")
	require.True(t, next.ShouldRecompile(a))

	rec, ok := next.Record("Sources/main.cpp")
	require.True(t, ok)
	assert.Equal(t, "A2", rec.HeaderChecksums["Sources/a.h"])
	assert.False(t, next.ShouldRecompile(a), "second scan sees the refreshed checksum")
}

func TestShouldRecompile_PrunesVanishedHeaders(t *testing.T) {
	f := newFixture(t)
	f.write(t, "Sources/main.cpp", "v1")
	f.write(t, "Sources/a.h", "a1")
	gone := f.write(t, "Sources/gone.h", "g1")

	c := f.cache()
	f.compiled(t, c, f.action(t, "clang++ -c", "Sources/a.h", "Sources/gone.h"))
	f.save(t, c)

	require.NoError(t, os.Remove(gone))
	next := f.cache()
	assert.False(t, next.ShouldRecompile(f.action(t, "clang++ -c", "Sources/a.h", "Sources/gone.h")))

	rec, ok := next.Record("Sources/main.cpp")
	require.True(t, ok)
	assert.NotContains(t, rec.HeaderChecksums, "Sources/gone.h")
	assert.Contains(t, rec.HeaderChecksums, "Sources/a.h")
}

func TestRecordSuccess_HeaderKeysRelativeToRoot(t *testing.T) {
	f := newFixture(t)
	f.write(t, "Sources/main.cpp", "v1")
	f.write(t, "Sources/a.h", "a1")
	f.write(t, "Include/Core/b.h", "b1")

	c := f.cache()
	f.compiled(t, c, f.action(t, "clang++ -c", "Sources/a.h", "Include/Core/b.h"))
	f.save(t, c)

	rec, ok := c.Record("Sources/main.cpp")
	require.True(t, ok)
	for header := range rec.HeaderChecksums {
		assert.False(t, filepath.IsAbs(header), header)
	}
	assert.Equal(t, map[string]string{"Sources/a.h": "A1", "Include/Core/b.h": "B1"}, rec.HeaderChecksums)

	// Relative listings resolve against the root and land on the same keys.
	rel := f.action(t, "clang++ -c")
	dep := domain.CompileDependency{
		ObjectFile: rel.Info.ObjectFile,
		SourceFile: rel.Info.TargetFile,
		Headers:    []string{"Sources/a.h", "Include/Core/b.h"},
	}
	require.NoError(t, os.WriteFile(rel.Info.DependencyFile, []byte(dep.String()), 0o600))
	assert.False(t, f.cache().ShouldRecompile(rel))
}

func TestRecordFailure(t *testing.T) {
	f := newFixture(t)
	f.write(t, "Sources/main.cpp", "v1")

	t.Run("creates an empty record", func(t *testing.T) {
		c := f.cache()
		c.RecordFailure(f.action(t, "clang++ -c"))

		rec, ok := c.Record("Sources/main.cpp")
		require.True(t, ok)
		assert.False(t, rec.CompileSucceeded)
		assert.Empty(t, rec.FileChecksum)
	})

	t.Run("keeps hashes and forces a recompile", func(t *testing.T) {
		c := f.cache()
		a := f.action(t, "clang++ -c")
		f.compiled(t, c, a)
		c.RecordFailure(a)
		f.save(t, c)

		next := f.cache()
		rec, ok := next.Record("Sources/main.cpp")
		require.True(t, ok)
		assert.False(t, rec.CompileSucceeded)
		assert.Equal(t, "V1", rec.FileChecksum)
		assert.True(t, next.ShouldRecompile(f.action(t, "clang++ -c")))
	})
}

func TestLoad_UnreadableStoreStartsEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockChecksumStore(ctrl)
	logger := mocks.NewMockLogger(ctrl)
	root := t.TempDir()

	want := domain.NewLayout(root, domain.PlatformLinux, domain.ConfigurationRelease).ChecksumFile()
	store.EXPECT().Load(want).Return(nil, errors.New("unexpected end of JSON input"))
	logger.EXPECT().Warn(gomock.Any()).Do(func(msg string) {
		assert.Contains(t, msg, "unexpected end of JSON input")
	})
	store.EXPECT().Save(want, domain.Checksums{}).Return(nil)

	c := checksum.New(store, contentHasher{}, logger, root)
	c.Load(domain.PlatformLinux, domain.ConfigurationRelease)
	assert.Empty(t, c.Snapshot())
	require.NoError(t, c.Save(domain.PlatformLinux, domain.ConfigurationRelease))
}

func TestForget(t *testing.T) {
	f := newFixture(t)
	f.write(t, "Sources/main.cpp", "v1")

	c := f.cache()
	c.RecordFailure(f.action(t, "clang++ -c"))
	c.Forget("Other/")
	_, ok := c.Record("Sources/main.cpp")
	assert.True(t, ok)

	c.Forget("Sources/")
	_, ok = c.Record("Sources/main.cpp")
	assert.False(t, ok)
}
