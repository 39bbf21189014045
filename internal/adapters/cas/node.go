package cas

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/anvil/internal/core/ports"
)

// NodeID is the unique identifier for the checksum store Graft node.
const NodeID graft.ID = "adapter.checksum_store"

func init() {
	graft.Register(graft.Node[ports.ChecksumStore]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ChecksumStore, error) {
			return NewStore(), nil
		},
	})
}
