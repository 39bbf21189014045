package builder_test

import (
	"bufio"
	"bytes"
	"context"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/anvil/internal/core/domain"
	"go.trai.ch/anvil/internal/core/ports"
)

// fakeToolchain "compiles" by writing the object and a dependency listing built from the
// quoted includes of the source. A source containing #error fails to compile.
type fakeToolchain struct {
	mu        sync.Mutex
	compiled  []string
	linked    []string
	links     map[string]domain.LinkCommandInfo
	failLinks map[string]bool
}

func newFakeToolchain() *fakeToolchain {
	return &fakeToolchain{
		links:     make(map[string]domain.LinkCommandInfo),
		failLinks: make(map[string]bool),
	}
}

func (f *fakeToolchain) Name() string { return "fake" }

func (f *fakeToolchain) CompileCommandLine(info domain.CompileCommandInfo) []string {
	argv := []string{"cc", "-c", info.TargetFile, "-o", info.ObjectFile}
	for _, d := range info.Definitions {
		argv = append(argv, "-D"+d)
	}
	return argv
}

func (f *fakeToolchain) LinkCommandLine(info domain.LinkCommandInfo) []string {
	return slices.Concat([]string{"ld", "-o", info.LinkedFile}, info.ObjectFiles, info.LibraryFiles)
}

func (f *fakeToolchain) ObjectFileExtension(string) string { return ".o" }

func (f *fakeToolchain) BinaryPrefix(bt domain.BinaryType) string {
	if bt.IsLibrary() {
		return "lib"
	}
	return ""
}

func (f *fakeToolchain) BinaryExtension(bt domain.BinaryType) string {
	switch bt {
	case domain.BinaryStaticLibrary:
		return ".a"
	case domain.BinaryDynamicLibrary:
		return ".so"
	default:
		return ""
	}
}

func (f *fakeToolchain) Compile(_ context.Context, info domain.CompileCommandInfo) (domain.ProcessResult, error) {
	f.mu.Lock()
	f.compiled = append(f.compiled, filepath.Base(info.TargetFile))
	f.mu.Unlock()

	src, err := os.ReadFile(info.TargetFile)
	if err != nil {
		return domain.ProcessResult{}, err
	}
	if bytes.Contains(src, []byte("#error")) {
		return domain.ProcessResult{ExitCode: 1, Stderr: filepath.Base(info.TargetFile) + ":1: error: boom\n"}, nil
	}

	dep := domain.CompileDependency{ObjectFile: info.ObjectFile, SourceFile: info.TargetFile}
	scanner := bufio.NewScanner(bytes.NewReader(src))
	for scanner.Scan() {
		name, ok := strings.CutPrefix(scanner.Text(), `#include "`)
		if !ok {
			continue
		}
		name = strings.TrimSuffix(name, `"`)
		for _, dir := range slices.Concat([]string{info.SourcesDirectory}, info.HeaderSearchPaths) {
			if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
				dep.Headers = append(dep.Headers, filepath.Join(dir, name))
				break
			}
		}
	}

	if err := os.WriteFile(info.ObjectFile, src, 0o600); err != nil {
		return domain.ProcessResult{}, err
	}
	if err := os.WriteFile(info.DependencyFile, []byte(dep.String()), 0o600); err != nil {
		return domain.ProcessResult{}, err
	}
	return domain.ProcessResult{}, nil
}

func (f *fakeToolchain) Link(_ context.Context, info domain.LinkCommandInfo) (domain.ProcessResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.linked = append(f.linked, info.Module.Name)
	f.links[info.Module.Name] = info
	if f.failLinks[info.Module.Name] {
		return domain.ProcessResult{ExitCode: 1, Stderr: "undefined reference to `main'\n"}, nil
	}
	return domain.ProcessResult{}, os.WriteFile(info.LinkedFile, []byte(info.Module.Name), 0o600)
}

func (f *fakeToolchain) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.compiled = nil
	f.linked = nil
	clear(f.links)
}

func (f *fakeToolchain) compiledSorted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := slices.Clone(f.compiled)
	slices.Sort(out)
	return out
}

func (f *fakeToolchain) linkedModules() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.linked)
}

// walkCollector gathers sources the way the filesystem adapter does.
type walkCollector struct{}

func (walkCollector) Collect(_ context.Context, root string, kinds domain.SourceKinds) (domain.SourceSet, error) {
	set := domain.SourceSet{Root: root}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		switch {
		case kinds.Excludes(rel):
		case kinds.IsSource(path):
			set.Sources = append(set.Sources, path)
		case kinds.IsHeader(path):
			set.Headers = append(set.Headers, path)
		}
		return nil
	})
	return set, err
}

func (walkCollector) Files(_ context.Context, root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	return files, err
}

// contentHasher uses the file content as its digest.
type contentHasher struct{}

func (contentHasher) HashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	return string(data), err
}

func (contentHasher) HashString(s string) string { return s }

func (contentHasher) Fingerprint(path string) (uint64, error) {
	data, err := os.ReadFile(path)
	var sum uint64
	for _, c := range data {
		sum = sum*31 + uint64(c)
	}
	return sum, err
}

// memStore persists checksums in memory across builds.
type memStore struct {
	mu    sync.Mutex
	files map[string]domain.Checksums
}

func (s *memStore) Load(path string) (domain.Checksums, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneChecksums(s.files[path]), nil
}

func (s *memStore) Save(path string, records domain.Checksums) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.files == nil {
		s.files = make(map[string]domain.Checksums)
	}
	s.files[path] = cloneChecksums(records)
	return nil
}

func cloneChecksums(in domain.Checksums) domain.Checksums {
	out := make(domain.Checksums, len(in))
	for k, v := range in {
		cp := *v
		cp.HeaderChecksums = maps.Clone(v.HeaderChecksums)
		out[k] = &cp
	}
	return out
}

// recordingTracer keeps the output and errors of every span by name.
type recordingTracer struct {
	mu    sync.Mutex
	spans map[string]*recordingSpan
	plan  []string
}

func newRecordingTracer() *recordingTracer {
	return &recordingTracer{spans: make(map[string]*recordingSpan)}
}

func (t *recordingTracer) Start(ctx context.Context, name string, _ ...ports.SpanOption) (context.Context, ports.Span) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := &recordingSpan{}
	t.spans[name] = s
	return ctx, s
}

func (t *recordingTracer) EmitPlan(_ context.Context, modules []string, _ map[string][]string, _ []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.plan = slices.Clone(modules)
}

func (t *recordingTracer) output(name string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.spans[name]; ok {
		return s.String()
	}
	return ""
}

func (t *recordingTracer) span(name string) *recordingSpan {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.spans[name]
}

type recordingSpan struct {
	mu    sync.Mutex
	buf   bytes.Buffer
	errs  []error
	ended bool
}

func (s *recordingSpan) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *recordingSpan) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ended = true
}

func (s *recordingSpan) RecordError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs = append(s.errs, err)
}

func (s *recordingSpan) SetAttribute(string, any) {}

func (s *recordingSpan) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func (s *recordingSpan) errors() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.errs)
}
