// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/anvil/internal/adapters/cas"
	_ "go.trai.ch/anvil/internal/adapters/config"
	_ "go.trai.ch/anvil/internal/adapters/fs"
	_ "go.trai.ch/anvil/internal/adapters/logger"
	_ "go.trai.ch/anvil/internal/adapters/toolchain"
	_ "go.trai.ch/anvil/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/anvil/internal/app"
	_ "go.trai.ch/anvil/internal/engine/scheduler"
)
