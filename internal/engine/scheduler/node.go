package scheduler

import (
	"context"

	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the worker pool Graft node.
const NodeID graft.ID = "engine.pool"

func init() {
	graft.Register(graft.Node[*Pool]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Pool, error) {
			return NewPool(), nil
		},
	})
}
