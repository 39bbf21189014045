package domain

import "go.trai.ch/zerr"

var (
	// ErrModuleAlreadyExists is returned when attempting to add a module with a name that already exists.
	ErrModuleAlreadyExists = zerr.New("module already exists")

	// ErrMissingDependency is returned when a module references a dependency that doesn't exist in the project.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrCycleDetected is returned when a cycle is detected in the module dependency graph.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrModuleNotFound is returned when a requested module is not found in the project.
	ErrModuleNotFound = zerr.New("module not found")

	// ErrInvalidModuleName is returned when a module name contains invalid characters.
	ErrInvalidModuleName = zerr.New("module name can only contain alphanumeric characters, hyphens and underscores")

	// ErrInvalidProjectName is returned when a project name is invalid.
	ErrInvalidProjectName = zerr.New("project name can only contain alphanumeric characters, hyphens and underscores")

	// ErrProjectNotResolved is returned when a project is used before its dependency graph was resolved.
	ErrProjectNotResolved = zerr.New("project dependencies have not been resolved")

	// ErrUnknownPlatform is returned when a platform name cannot be parsed.
	ErrUnknownPlatform = zerr.New("unknown platform")

	// ErrUnknownConfiguration is returned when a build configuration name cannot be parsed.
	ErrUnknownConfiguration = zerr.New("unknown configuration")

	// ErrUnknownArchitecture is returned when an architecture name cannot be parsed.
	ErrUnknownArchitecture = zerr.New("unknown architecture")

	// ErrUnknownBinaryType is returned when a module binary type cannot be parsed.
	ErrUnknownBinaryType = zerr.New("unknown binary type")

	// ErrConfigReadFailed is returned when the project file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read project file")

	// ErrConfigParseFailed is returned when the project file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse project file")

	// ErrConfigNotFound is returned when the project file cannot be found.
	ErrConfigNotFound = zerr.New("could not find anvil.yaml")

	// ErrUnsupportedConfigVersion is returned when the project file declares an unknown schema version.
	ErrUnsupportedConfigVersion = zerr.New("unsupported project file version")

	// ErrChecksumStoreReadFailed is returned when the persisted checksums cannot be read.
	ErrChecksumStoreReadFailed = zerr.New("failed to read checksums")

	// ErrChecksumStoreUnmarshalFailed is returned when the persisted checksums cannot be decoded.
	ErrChecksumStoreUnmarshalFailed = zerr.New("failed to unmarshal checksums")

	// ErrChecksumStoreMarshalFailed is returned when the checksums cannot be encoded.
	ErrChecksumStoreMarshalFailed = zerr.New("failed to marshal checksums")

	// ErrChecksumStoreWriteFailed is returned when the checksums cannot be written.
	ErrChecksumStoreWriteFailed = zerr.New("failed to write checksums")

	// ErrChecksumStoreCreateFailed is returned when the checksum directory cannot be created.
	ErrChecksumStoreCreateFailed = zerr.New("failed to create checksum directory")

	// ErrFileOpenFailed is returned when a file cannot be opened.
	ErrFileOpenFailed = zerr.New("failed to open file")

	// ErrFileHashFailed is returned when hashing a file fails.
	ErrFileHashFailed = zerr.New("failed to hash file content")

	// ErrSourceWalkFailed is returned when a module's source directory cannot be traversed.
	ErrSourceWalkFailed = zerr.New("failed to collect module sources")

	// ErrDuplicateResourceDestination is returned when two resource directories share a base name.
	ErrDuplicateResourceDestination = zerr.New("duplicate resource destination")

	// ErrCopyResourcesFailed is returned when resource directories cannot be copied to the binaries directory.
	ErrCopyResourcesFailed = zerr.New("failed to copy resources")

	// ErrCleanFailed is returned when removing build outputs fails.
	ErrCleanFailed = zerr.New("failed to clean module outputs")

	// ErrCompileFailed is recorded on a module whose sources failed to compile.
	ErrCompileFailed = zerr.New("module failed to compile")

	// ErrLinkFailed is recorded on a module whose linker invocation failed.
	ErrLinkFailed = zerr.New("module failed to link")

	// ErrDependencyFailed is recorded on a module skipped because a dependency failed.
	ErrDependencyFailed = zerr.New("module skipped due to dependency failure")

	// ErrBuildFailed is returned when at least one module failed to compile or link.
	ErrBuildFailed = zerr.New("build failed")

	// ErrProcessStartFailed is returned when a toolchain process cannot be started at all.
	ErrProcessStartFailed = zerr.New("failed to start process")

	// ErrPoolConfigured is returned when the worker pool is configured more than once.
	ErrPoolConfigured = zerr.New("worker pool already configured")

	// ErrPoolShutdown is returned when configuring a worker pool that has been shut down.
	ErrPoolShutdown = zerr.New("worker pool has been shut down")

	// ErrInvalidOutputMode is returned when an unknown output mode is requested.
	ErrInvalidOutputMode = zerr.New("invalid output mode, expected 'auto', 'tui' or 'linear'")

	// ErrBuildInterrupted is returned when the user quits the interactive view before the build is over.
	ErrBuildInterrupted = zerr.New("build interrupted")

	// ErrWatcherFailed is returned when the file watcher cannot be started.
	ErrWatcherFailed = zerr.New("failed to watch module sources")
)
