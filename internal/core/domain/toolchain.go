package domain

// ToolchainSettings configures the compiler driver used for a project.
type ToolchainSettings struct {
	CC        string
	CXX       string
	AR        string
	Flags     []string
	LinkFlags []string
	// HeaderCapture makes the toolchain report included headers on stderr and lets the
	// orchestrator author the dependency listing instead of the compiler.
	HeaderCapture bool
}

// DefaultToolchainSettings returns a clang based toolchain.
func DefaultToolchainSettings() ToolchainSettings {
	return ToolchainSettings{CC: "clang", CXX: "clang++", AR: "ar"}
}
