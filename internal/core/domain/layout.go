package domain

import "path/filepath"

const (
	// BinariesDirName is the name of the directory holding linked artifacts.
	BinariesDirName = "Binaries"

	// IntermediateDirName is the name of the directory holding objects and caches.
	IntermediateDirName = "Intermediate"

	// ObjectsDirName is the name of the per-module object directory.
	ObjectsDirName = "Objects"

	// ChecksumsDirName is the name of the directory holding persisted checksums.
	ChecksumsDirName = "Checksums"

	// ChecksumFileName is the name of the persisted checksum file.
	ChecksumFileName = "Cached.checksums"

	// ProjectFileName is the name of the project configuration file.
	ProjectFileName = "anvil.yaml"

	// DefaultSourcesDirName is the default name of a module's source directory.
	DefaultSourcesDirName = "Sources"

	// DependencyFileExt is appended to an object file path to form its dependency listing path.
	DependencyFileExt = ".d"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// Layout resolves the on-disk locations of build outputs for one platform and configuration.
type Layout struct {
	Root          string
	Platform      Platform
	Configuration Configuration
}

// NewLayout returns the layout for a project root, target platform and configuration.
func NewLayout(root string, platform Platform, configuration Configuration) Layout {
	return Layout{Root: root, Platform: platform, Configuration: configuration}
}

// BinariesDir returns Binaries/<Platform>/<Configuration>.
func (l Layout) BinariesDir() string {
	return filepath.Join(l.Root, BinariesDirName, l.Platform.String(), l.Configuration.String())
}

// IntermediateDir returns Intermediate/<Platform>/<Configuration>.
func (l Layout) IntermediateDir() string {
	return filepath.Join(l.Root, IntermediateDirName, l.Platform.String(), l.Configuration.String())
}

// ModuleIntermediateDir returns the intermediate directory owned by a single module.
func (l Layout) ModuleIntermediateDir(module string) string {
	return filepath.Join(l.IntermediateDir(), module)
}

// ObjectsDir returns the directory holding a module's object files.
func (l Layout) ObjectsDir(module string) string {
	return filepath.Join(l.ModuleIntermediateDir(module), ObjectsDirName)
}

// ChecksumsDir returns Intermediate/Checksums/<Platform>/<Configuration>.
func (l Layout) ChecksumsDir() string {
	return filepath.Join(l.Root, IntermediateDirName, ChecksumsDirName, l.Platform.String(), l.Configuration.String())
}

// ChecksumFile returns the path of the persisted checksum file.
func (l Layout) ChecksumFile() string {
	return filepath.Join(l.ChecksumsDir(), ChecksumFileName)
}

// LinkedFile returns the path of the artifact produced by linking a module.
func (l Layout) LinkedFile(fileName string) string {
	return filepath.Join(l.BinariesDir(), fileName)
}

// ResourcesDir returns the destination of a copied resource directory.
func (l Layout) ResourcesDir(name string) string {
	return filepath.Join(l.BinariesDir(), name)
}

// Rel returns path relative to the project root, falling back to path itself.
func (l Layout) Rel(path string) string {
	rel, err := filepath.Rel(l.Root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
