package ports

import (
	"context"

	"go.trai.ch/anvil/internal/core/domain"
)

//go:generate mockgen -source=toolchain.go -destination=mocks/mock_toolchain.go -package=mocks

// Toolchain turns compile and link descriptors into compiler and linker invocations for
// one target platform.
type Toolchain interface {
	// Name identifies the toolchain in progress output.
	Name() string

	// CompileCommandLine returns the fully expanded compiler argv.
	CompileCommandLine(info domain.CompileCommandInfo) []string
	// LinkCommandLine returns the fully expanded linker or archiver argv.
	LinkCommandLine(info domain.LinkCommandInfo) []string

	// ObjectFileExtension returns the object extension for a source file, e.g. ".o".
	ObjectFileExtension(source string) string
	// BinaryPrefix returns the artifact prefix for a binary type, e.g. "lib".
	BinaryPrefix(binaryType domain.BinaryType) string
	// BinaryExtension returns the artifact extension for a binary type, e.g. ".a".
	BinaryExtension(binaryType domain.BinaryType) string

	// Compile runs the compiler. Process failures are reported in the result.
	Compile(ctx context.Context, info domain.CompileCommandInfo) (domain.ProcessResult, error)
	// Link runs the linker. Process failures are reported in the result.
	Link(ctx context.Context, info domain.LinkCommandInfo) (domain.ProcessResult, error)
}

// ToolchainFactory creates the toolchain for a target platform.
type ToolchainFactory interface {
	// ForPlatform returns a toolchain configured with settings targeting platform and arch.
	ForPlatform(platform domain.Platform, arch domain.Architecture, settings domain.ToolchainSettings) (Toolchain, error)
}
