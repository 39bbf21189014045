package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/anvil/internal/adapters/cas"       //nolint:depguard // Wired in app layer
	"go.trai.ch/anvil/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/anvil/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.trai.ch/anvil/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/anvil/internal/adapters/toolchain" //nolint:depguard // Wired in app layer
	"go.trai.ch/anvil/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/anvil/internal/core/ports"
	"go.trai.ch/anvil/internal/engine/scheduler"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains the initialized application components the CLI layer needs.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			toolchain.NodeID,
			fs.CollectorNodeID,
			fs.HasherNodeID,
			cas.NodeID,
			scheduler.NodeID,
			watcher.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: a, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}
	toolchains, err := graft.Dep[ports.ToolchainFactory](ctx)
	if err != nil {
		return nil, err
	}
	sources, err := graft.Dep[ports.SourceCollector](ctx)
	if err != nil {
		return nil, err
	}
	hasher, err := graft.Dep[ports.Hasher](ctx)
	if err != nil {
		return nil, err
	}
	store, err := graft.Dep[ports.ChecksumStore](ctx)
	if err != nil {
		return nil, err
	}
	pool, err := graft.Dep[*scheduler.Pool](ctx)
	if err != nil {
		return nil, err
	}
	watchers, err := graft.Dep[ports.WatcherFactory](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, toolchains, sources, hasher, store, pool, watchers, log), nil
}
