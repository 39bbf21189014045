package builder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/anvil/internal/core/domain"
	"go.trai.ch/zerr"
)

// CopyResources mirrors every resource directory of m into the binaries directory.
// A file is copied when its destination is missing or differs in size or fingerprint, and
// destination files without a source counterpart are removed.
func (b *Builder) CopyResources(ctx context.Context, m *domain.Module, w io.Writer) error {
	if len(m.ResourceDirectories) == 0 {
		return nil
	}
	fmt.Fprintf(w, "Copying resources for module: %s\n", m.Name)

	var errs []error
	for _, dir := range m.ResourceDirectories {
		dest := b.layout.ResourcesDir(filepath.Base(dir))
		if err := b.mirror(ctx, dir, dest); err != nil {
			errs = append(errs, zerr.With(zerr.With(zerr.Wrap(err, domain.ErrCopyResourcesFailed.Error()), "module", m.Name), "directory", dir))
		}
	}
	return errors.Join(errs...)
}

func (b *Builder) mirror(ctx context.Context, src, dest string) error {
	sources, err := b.sources.Files(ctx, src)
	if err != nil {
		return err
	}
	existing, err := b.sources.Files(ctx, dest)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	stale := make(map[string]struct{}, len(existing))
	for _, rel := range existing {
		stale[rel] = struct{}{}
	}

	for _, rel := range sources {
		delete(stale, rel)
		from := filepath.Join(src, filepath.FromSlash(rel))
		to := filepath.Join(dest, filepath.FromSlash(rel))
		same, err := b.sameFile(from, to)
		if err != nil {
			return err
		}
		if !same {
			if err := copyFile(from, to); err != nil {
				return err
			}
		}
	}

	for rel := range stale {
		if err := os.Remove(filepath.Join(dest, filepath.FromSlash(rel))); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// sameFile compares sizes first and fingerprints only when they match.
func (b *Builder) sameFile(from, to string) (bool, error) {
	dst, err := os.Stat(to)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	src, err := os.Stat(from)
	if err != nil {
		return false, err
	}
	if src.Size() != dst.Size() {
		return false, nil
	}

	want, err := b.hasher.Fingerprint(from)
	if err != nil {
		return false, err
	}
	got, err := b.hasher.Fingerprint(to)
	if err != nil {
		return false, err
	}
	return want == got, nil
}

func copyFile(from, to string) error {
	if err := os.MkdirAll(filepath.Dir(to), domain.DirPerm); err != nil {
		return err
	}

	//nolint:gosec // Resource paths come from the project file.
	in, err := os.Open(from)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	//nolint:gosec // Destination lies below the binaries directory.
	out, err := os.OpenFile(to, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, domain.FilePerm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
