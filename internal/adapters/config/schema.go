package config

// Anvilfile represents the structure of the anvil.yaml project file.
type Anvilfile struct {
	Version   string                `yaml:"version"`
	Project   string                `yaml:"project"`
	Root      string                `yaml:"root"`
	Toolchain *ToolchainDTO         `yaml:"toolchain"`
	Modules   map[string]*ModuleDTO `yaml:"modules"`
}

// ToolchainDTO configures the compiler driver.
type ToolchainDTO struct {
	CC            string   `yaml:"cc"`
	CXX           string   `yaml:"cxx"`
	AR            string   `yaml:"ar"`
	Flags         []string `yaml:"flags"`
	LinkFlags     []string `yaml:"link_flags"`
	HeaderCapture bool     `yaml:"header_capture"`
}

// ModuleDTO represents a module definition in the project file.
type ModuleDTO struct {
	Type               string                  `yaml:"type"`
	OutputName         string                  `yaml:"output_name"`
	Path               string                  `yaml:"path"`
	Sources            string                  `yaml:"sources"`
	LibrarySearchPaths []string                `yaml:"library_search_paths"`
	Resources          []string                `yaml:"resources"`
	Platforms          map[string]*PlatformDTO `yaml:"platforms"`
}

// PlatformDTO holds the declarations of a module for one platform, or for all of them
// under the "any" key.
type PlatformDTO struct {
	Dependencies []string `yaml:"dependencies"`
	Include      []string `yaml:"include"`
	Defines      []string `yaml:"defines"`
	Link         []string `yaml:"link"`
}
