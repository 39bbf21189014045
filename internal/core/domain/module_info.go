package domain

import "sync"

// CompileModuleInfo aggregates one module's state for a single build. Compile and link
// results are one-shot futures: the matching Done channel closes when the result turns
// terminal, and later assignments are ignored.
type CompileModuleInfo struct {
	Module *Module

	mu          sync.Mutex
	sources     SourceSet
	actions     []*CompileAction
	link        LinkCommandInfo
	compile     CompileResult
	linkResult  LinkResult
	compileDone chan struct{}
	linkDone    chan struct{}
}

// NewCompileModuleInfo creates the info for a module with both results Waiting.
func NewCompileModuleInfo(m *Module) *CompileModuleInfo {
	return &CompileModuleInfo{
		Module:      m,
		compileDone: make(chan struct{}),
		linkDone:    make(chan struct{}),
	}
}

// CompileDone is closed once the compile result is terminal.
func (i *CompileModuleInfo) CompileDone() <-chan struct{} {
	return i.compileDone
}

// LinkDone is closed once the link result is terminal.
func (i *CompileModuleInfo) LinkDone() <-chan struct{} {
	return i.linkDone
}

// SetCompileResult records a terminal compile result. It reports false when the result was
// already terminal or r is CompileWaiting.
func (i *CompileModuleInfo) SetCompileResult(r CompileResult) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	if !r.Terminal() || i.compile.Terminal() {
		return false
	}
	i.compile = r
	close(i.compileDone)
	return true
}

// SetLinkResult records a terminal link result. It reports false when the result was
// already terminal or r is LinkWaiting.
func (i *CompileModuleInfo) SetLinkResult(r LinkResult) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	if !r.Terminal() || i.linkResult.Terminal() {
		return false
	}
	i.linkResult = r
	close(i.linkDone)
	return true
}

// CompileResult returns the current compile result.
func (i *CompileModuleInfo) CompileResult() CompileResult {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.compile
}

// LinkResult returns the current link result.
func (i *CompileModuleInfo) LinkResult() LinkResult {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.linkResult
}

// UpToDate reports whether the module neither compiled nor linked anything.
func (i *CompileModuleInfo) UpToDate() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.compile == NothingToCompile && i.linkResult == LinkUpToDate
}

// Failed reports whether compile or link ended in failure.
func (i *CompileModuleInfo) Failed() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.compile == CompilationFailed || i.linkResult == LinkFailed
}

// Succeeded reports whether the module compiled (or had nothing to compile) and linked
// (or was up to date).
func (i *CompileModuleInfo) Succeeded() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.compile.Succeeded() && i.linkResult.Succeeded()
}

// SetSources records the gathered source set.
func (i *CompileModuleInfo) SetSources(s SourceSet) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.sources = s
}

// Sources returns the gathered source set.
func (i *CompileModuleInfo) Sources() SourceSet {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.sources
}

// SetActions records every compile action of the module, including up-to-date ones.
func (i *CompileModuleInfo) SetActions(actions []*CompileAction) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.actions = actions
}

// Actions returns every compile action of the module.
func (i *CompileModuleInfo) Actions() []*CompileAction {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.actions
}

// SetLinkCommand records the link descriptor.
func (i *CompileModuleInfo) SetLinkCommand(info LinkCommandInfo) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.link = info
}

// LinkCommand returns the link descriptor.
func (i *CompileModuleInfo) LinkCommand() LinkCommandInfo {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.link
}
