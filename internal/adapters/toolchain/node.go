package toolchain

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/anvil/internal/adapters/shell"
	"go.trai.ch/anvil/internal/core/ports"
)

// NodeID is the unique identifier for the toolchain factory Graft node.
const NodeID graft.ID = "adapter.toolchain"

func init() {
	// Compilers are the only processes anvil starts, so the executor is owned here.
	graft.Register(graft.Node[ports.ToolchainFactory]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ToolchainFactory, error) {
			return NewFactory(shell.NewExecutor()), nil
		},
	})
}
