package app

import "go.trai.ch/anvil/internal/core/domain"

func WatchRoots(project *domain.Project, platform domain.Platform, selected []string) ([]string, error) {
	return watchRoots(project, platform, selected)
}
