// Package config loads the anvil.yaml project file.
package config

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/anvil/internal/core/domain"
	"go.trai.ch/anvil/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// anyPlatformKey selects the settings shared by every platform.
const anyPlatformKey = "any"

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
	FS     FileSystem
}

// NewLoader creates a new Loader reading from the host filesystem.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger, FS: NewOSFS()}
}

// Load finds anvil.yaml from cwd upwards and returns the resolved project.
func (l *Loader) Load(cwd string) (*domain.Project, error) {
	dir, err := l.DiscoverRoot(cwd)
	if err != nil {
		return nil, err
	}
	configPath := filepath.Join(dir, domain.ProjectFileName)

	var file Anvilfile
	if err := l.readAndUnmarshalYAML(configPath, &file); err != nil {
		return nil, err
	}
	return l.buildProject(configPath, &file)
}

// DiscoverRoot walks up from cwd and returns the first directory containing anvil.yaml.
func (l *Loader) DiscoverRoot(cwd string) (string, error) {
	currentDir := filepath.Clean(cwd)
	for {
		if info, err := l.FS.Stat(filepath.Join(currentDir, domain.ProjectFileName)); err == nil && !info.IsDir() {
			return currentDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", zerr.With(zerr.Wrap(domain.ErrConfigNotFound, "no project file found"), "cwd", cwd)
		}
		currentDir = parentDir
	}
}

func (l *Loader) buildProject(configPath string, file *Anvilfile) (*domain.Project, error) {
	if file.Version != "" && file.Version != "1" {
		return nil, zerr.With(zerr.Wrap(domain.ErrUnsupportedConfigVersion, "cannot load project"), "version", file.Version)
	}

	name := file.Project
	if name == "" {
		name = filepath.Base(filepath.Dir(configPath))
	}
	if !domain.ValidateName(name) {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidProjectName, "cannot load project"), "project_name", name)
	}

	project := domain.NewProject(name, resolvePath(filepath.Dir(configPath), file.Root))
	if file.Toolchain != nil {
		project.Toolchain = toolchainSettings(file.Toolchain)
	}

	// Sorted for deterministic errors and warnings.
	for _, moduleName := range slices.Sorted(maps.Keys(file.Modules)) {
		module, err := l.buildModule(project.Root, moduleName, file.Modules[moduleName])
		if err != nil {
			return nil, zerr.With(err, "module", moduleName)
		}
		if err := project.AddModule(module); err != nil {
			return nil, err
		}
	}

	if err := project.Resolve(); err != nil {
		return nil, err
	}
	return project, nil
}

func (l *Loader) buildModule(root, name string, dto *ModuleDTO) (*domain.Module, error) {
	if dto == nil {
		dto = &ModuleDTO{}
	}

	binaryType := domain.BinaryApplication
	if dto.Type != "" {
		var err error
		if binaryType, err = domain.ParseBinaryType(dto.Type); err != nil {
			return nil, err
		}
	}

	module := domain.NewModule(name, binaryType)
	if dto.OutputName != "" {
		module.OutputName = dto.OutputName
	}

	module.RootDirectory = resolvePath(root, defaultString(dto.Path, name))
	module.SourcesDirectory = resolvePath(module.RootDirectory, defaultString(dto.Sources, domain.DefaultSourcesDirName))
	if info, err := l.FS.Stat(module.SourcesDirectory); err != nil || !info.IsDir() {
		l.Logger.Warn(fmt.Sprintf("Module %s has no sources directory at %s", name, module.SourcesDirectory))
	}

	for _, dir := range dto.LibrarySearchPaths {
		module.LibrarySearchPaths = append(module.LibrarySearchPaths, resolvePath(root, dir))
	}
	for _, dir := range dto.Resources {
		module.ResourceDirectories = append(module.ResourceDirectories, resolvePath(module.RootDirectory, dir))
	}

	for key, p := range dto.Platforms {
		if p == nil {
			continue
		}
		platform := domain.PlatformAny
		if !strings.EqualFold(key, anyPlatformKey) {
			var err error
			if platform, err = domain.ParsePlatform(key); err != nil {
				return nil, err
			}
		}

		settings := module.Settings(platform)
		settings.Dependencies = append(settings.Dependencies, p.Dependencies...)
		settings.Definitions = append(settings.Definitions, p.Defines...)
		settings.LinkLibraries = append(settings.LinkLibraries, p.Link...)
		for _, dir := range p.Include {
			settings.HeaderSearchPaths = append(settings.HeaderSearchPaths, resolvePath(module.RootDirectory, dir))
		}
	}
	return module, nil
}

func toolchainSettings(dto *ToolchainDTO) domain.ToolchainSettings {
	settings := domain.DefaultToolchainSettings()
	settings.CC = defaultString(dto.CC, settings.CC)
	settings.CXX = defaultString(dto.CXX, settings.CXX)
	settings.AR = defaultString(dto.AR, settings.AR)
	settings.Flags = dto.Flags
	settings.LinkFlags = dto.LinkFlags
	settings.HeaderCapture = dto.HeaderCapture
	return settings
}

// resolvePath joins a relative path with base. Absolute paths are kept.
func resolvePath(base, path string) string {
	if path == "" {
		return filepath.Clean(base)
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Clean(filepath.Join(base, path))
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func (l *Loader) readAndUnmarshalYAML(configPath string, target *Anvilfile) error {
	configFile, err := l.FS.ReadFile(configPath)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", configPath)
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.With(zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error()), "path", configPath)
	}
	return nil
}
