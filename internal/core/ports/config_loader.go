package ports

import "go.trai.ch/anvil/internal/core/domain"

// ConfigLoader defines the interface for loading the project definition.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load finds the project file from cwd upwards and returns the resolved project.
	// The returned project has its dependency graph validated and flattened.
	Load(cwd string) (*domain.Project, error)

	// DiscoverRoot walks up from cwd to find the directory containing anvil.yaml.
	DiscoverRoot(cwd string) (string, error)
}
