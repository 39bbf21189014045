package domain

import (
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Project is the collection of modules built together.
type Project struct {
	Name      string
	Root      string
	Toolchain ToolchainSettings

	modules  map[string]*Module
	resolved bool
}

// NewProject creates an empty project rooted at root.
func NewProject(name, root string) *Project {
	return &Project{
		Name:      name,
		Root:      root,
		Toolchain: DefaultToolchainSettings(),
		modules:   make(map[string]*Module),
	}
}

// AddModule adds a module to the project.
// It returns an error if the name is invalid or already taken.
func (p *Project) AddModule(m *Module) error {
	if !ValidateName(m.Name) {
		return zerr.With(zerr.Wrap(ErrInvalidModuleName, "cannot add module"), "module", m.Name)
	}
	if _, exists := p.modules[m.Name]; exists {
		return zerr.With(zerr.Wrap(ErrModuleAlreadyExists, "cannot add module"), "module", m.Name)
	}
	p.modules[m.Name] = m
	p.resolved = false
	return nil
}

// Module returns the module with the given name.
func (p *Project) Module(name string) (*Module, bool) {
	m, ok := p.modules[name]
	return m, ok
}

// Modules returns every module sorted by name.
func (p *Project) Modules() []*Module {
	out := make([]*Module, 0, len(p.modules))
	for _, name := range p.names() {
		out = append(out, p.modules[name])
	}
	return out
}

func (p *Project) names() []string {
	names := make([]string, 0, len(p.modules))
	for name := range p.modules {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Resolved reports whether Resolve succeeded since the last AddModule.
func (p *Project) Resolved() bool {
	return p.resolved
}

// Resolve validates every declared dependency, rejects cycles and flattens each module's
// dependency set transitively for every concrete platform. Resource directories must not
// share a destination below the binaries directory.
func (p *Project) Resolve() error {
	if err := p.checkResourceDestinations(); err != nil {
		return err
	}
	for _, platform := range AllPlatforms() {
		order, err := p.topoSort(platform, p.names())
		if err != nil {
			return zerr.With(err, "platform", platform.String())
		}

		// Post-order guarantees every dependency is flattened before its dependents.
		for _, name := range order {
			m := p.modules[name]
			set := make(map[string]struct{})
			for _, dep := range m.DeclaredDependencies(platform) {
				set[dep] = struct{}{}
				for _, transitive := range p.modules[dep].flattened[platform] {
					set[transitive] = struct{}{}
				}
			}
			flat := make([]string, 0, len(set))
			for dep := range set {
				flat = append(flat, dep)
			}
			slices.Sort(flat)
			if m.flattened == nil {
				m.flattened = make(map[Platform][]string)
			}
			m.flattened[platform] = flat
		}
	}
	p.resolved = true
	return nil
}

// checkResourceDestinations rejects resource directories with the same base name. Modules
// mirror their resources concurrently and would delete each other's files.
func (p *Project) checkResourceDestinations() error {
	owners := make(map[string]string)
	for _, name := range p.names() {
		for _, dir := range p.modules[name].ResourceDirectories {
			dest := filepath.Base(dir)
			if owner, ok := owners[dest]; ok {
				err := zerr.Wrap(ErrDuplicateResourceDestination, "resource directories mirror into the same destination")
				err = zerr.With(err, "destination", dest)
				err = zerr.With(err, "module", name)
				return zerr.With(err, "conflicts_with", owner)
			}
			owners[dest] = name
		}
	}
	return nil
}

// BuildOrder expands the selected modules with their dependency closure on platform and returns
// them with every dependency ordered before its dependents. An empty selection means all modules.
func (p *Project) BuildOrder(platform Platform, selected []string) ([]*Module, error) {
	if !p.resolved {
		return nil, ErrProjectNotResolved
	}
	roots := selected
	if len(roots) == 0 {
		roots = p.names()
	}
	for _, name := range roots {
		if _, ok := p.modules[name]; !ok {
			return nil, zerr.With(zerr.Wrap(ErrModuleNotFound, "invalid module selection"), "module", name)
		}
	}
	order, err := p.topoSort(platform, roots)
	if err != nil {
		return nil, err
	}
	out := make([]*Module, 0, len(order))
	for _, name := range order {
		out = append(out, p.modules[name])
	}
	return out, nil
}

// topoSort walks the graph from roots depth first and returns nodes in post-order.
func (p *Project) topoSort(platform Platform, roots []string) ([]string, error) {
	order := make([]string, 0, len(p.modules))
	visited := make(map[string]int) // 0: unvisited, 1: visiting, 2: visited
	var path []string

	var visit func(name string) error
	visit = func(name string) error {
		visited[name] = 1
		path = append(path, name)

		for _, dep := range p.modules[name].DeclaredDependencies(platform) {
			if _, exists := p.modules[dep]; !exists {
				return zerr.With(
					zerr.With(zerr.Wrap(ErrMissingDependency, "invalid module graph"), "module", name),
					"dependency", dep,
				)
			}
			if visited[dep] == 1 {
				return buildCycleError(path, dep)
			}
			if visited[dep] == 0 {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		visited[name] = 2
		path = path[:len(path)-1]
		order = append(order, name)
		return nil
	}

	for _, name := range roots {
		if visited[name] == 0 {
			if err := visit(name); err != nil {
				return nil, err
			}
		}
	}
	return order, nil
}

// buildCycleError constructs an error with cycle path metadata.
func buildCycleError(path []string, dep string) error {
	start := slices.Index(path, dep)
	cycle := append(slices.Clone(path[start:]), dep)
	return zerr.With(zerr.Wrap(ErrCycleDetected, "invalid module graph"), "cycle", strings.Join(cycle, " -> "))
}
