package domain

import (
	"os"
	"strings"
	"sync"
)

// CompileCommandInfo describes one compiler invocation. Toolchains turn it into a command line.
type CompileCommandInfo struct {
	Module            *Module
	SourcesDirectory  string
	TargetFile        string
	ObjectFile        string
	DependencyFile    string
	HeaderSearchPaths []string
	Definitions       []string
	Platform          Platform
	Architecture      Architecture
	Configuration     Configuration
}

// LinkCommandInfo describes one linker invocation.
type LinkCommandInfo struct {
	Module             *Module
	LinkedFile         string
	ObjectFiles        []string
	LibrarySearchPaths []string
	LinkLibraries      []string
	Platform           Platform
	Architecture       Architecture
	Configuration      Configuration

	// LibraryFiles are the artifacts of library dependencies, dependents before their dependencies.
	LibraryFiles []string
}

// ProcessResult is the outcome of a toolchain process.
type ProcessResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success reports whether the process exited with status zero.
func (r ProcessResult) Success() bool {
	return r.ExitCode == 0
}

// Diagnostics returns the non-empty output streams, stderr first.
func (r ProcessResult) Diagnostics() string {
	parts := make([]string, 0, 2)
	if s := strings.TrimRight(r.Stderr, "\n"); s != "" {
		parts = append(parts, s)
	}
	if s := strings.TrimRight(r.Stdout, "\n"); s != "" {
		parts = append(parts, s)
	}
	return strings.Join(parts, "\n")
}

// CompileAction is one source file's compilation unit for a single build.
type CompileAction struct {
	// Key is the source path relative to the project root, slash separated.
	Key         string
	Info        CompileCommandInfo
	CommandLine []string

	objectExt string
	kinds     SourceKinds

	mu     sync.Mutex
	loaded bool
	dep    CompileDependency
}

// NewCompileAction creates an action. objectExt and kinds classify the dependency listing.
func NewCompileAction(key string, info CompileCommandInfo, commandLine []string, objectExt string, kinds SourceKinds) *CompileAction {
	return &CompileAction{
		Key:         key,
		Info:        info,
		CommandLine: commandLine,
		objectExt:   objectExt,
		kinds:       kinds,
	}
}

// CommandLineString returns the expanded command line joined by spaces.
func (a *CompileAction) CommandLineString() string {
	return strings.Join(a.CommandLine, " ")
}

// Dependency reads and parses the dependency listing on first use and caches it.
// A missing or unparsable listing yields an invalid CompileDependency.
func (a *CompileAction) Dependency() CompileDependency {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.loaded {
		a.dep = a.readDependency()
		a.loaded = true
	}
	return a.dep
}

// ReloadDependency re-reads the listing, which a successful compile has just rewritten.
func (a *CompileAction) ReloadDependency() CompileDependency {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.dep = a.readDependency()
	a.loaded = true
	return a.dep
}

func (a *CompileAction) readDependency() CompileDependency {
	if !a.kinds.TracksHeaders || a.Info.DependencyFile == "" {
		return CompileDependency{}
	}
	data, err := os.ReadFile(a.Info.DependencyFile)
	if err != nil {
		return CompileDependency{}
	}
	return ParseCompileDependency(string(data), a.objectExt, a.kinds)
}

// DependencyHeaders returns the headers of a valid dependency listing, nil otherwise.
func (a *CompileAction) DependencyHeaders() []string {
	return validHeaders(a.Dependency())
}

// ReloadDependencyHeaders is DependencyHeaders after ReloadDependency.
func (a *CompileAction) ReloadDependencyHeaders() []string {
	return validHeaders(a.ReloadDependency())
}

func validHeaders(dep CompileDependency) []string {
	if !dep.Valid() {
		return nil
	}
	return dep.Headers
}
