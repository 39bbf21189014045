package domain

// CompileResult is the compile state of a module during one build.
type CompileResult int

// Compile results. Every value except CompileWaiting is terminal.
const (
	CompileWaiting CompileResult = iota
	NothingToCompile
	CompilationSuccess
	CompilationFailed
)

func (r CompileResult) String() string {
	switch r {
	case CompileWaiting:
		return "Waiting"
	case NothingToCompile:
		return "NothingToCompile"
	case CompilationSuccess:
		return "CompilationSuccess"
	case CompilationFailed:
		return "CompilationFailed"
	}
	return "Unknown"
}

// Terminal reports whether the result can no longer change.
func (r CompileResult) Terminal() bool {
	return r != CompileWaiting
}

// Succeeded reports whether the module compiled or had nothing to compile.
func (r CompileResult) Succeeded() bool {
	return r == NothingToCompile || r == CompilationSuccess
}

// LinkResult is the link state of a module during one build.
type LinkResult int

// Link results. Every value except LinkWaiting is terminal.
const (
	LinkWaiting LinkResult = iota
	LinkUpToDate
	LinkSuccess
	LinkFailed
)

func (r LinkResult) String() string {
	switch r {
	case LinkWaiting:
		return "Waiting"
	case LinkUpToDate:
		return "LinkUpToDate"
	case LinkSuccess:
		return "LinkSuccess"
	case LinkFailed:
		return "LinkFailed"
	}
	return "Unknown"
}

// Terminal reports whether the result can no longer change.
func (r LinkResult) Terminal() bool {
	return r != LinkWaiting
}

// Succeeded reports whether the module linked or was already up to date.
func (r LinkResult) Succeeded() bool {
	return r == LinkUpToDate || r == LinkSuccess
}
