// Package ports declares the collaborator boundaries the validation core
// depends on. The core never fetches anything itself; it consumes the typed
// results these interfaces supply.
package ports

import (
	"context"

	"github.com/rcosmos/metricaudit/internal/domain"
	"github.com/rcosmos/metricaudit/internal/exposition"
)

// ChainReader reads ground-truth data from a node's RPC interface.
type ChainReader interface {
	// LatestHeight returns the chain's latest block height.
	LatestHeight(ctx context.Context) (int64, error)
	// Block returns a summary of the block at the given height.
	Block(ctx context.Context, height int64) (domain.BlockSummary, error)
	// Validators returns the addresses of the current validator set.
	Validators(ctx context.Context) ([]string, error)
}

// MetricsSource captures a point-in-time snapshot of the exporter's
// metrics endpoint.
type MetricsSource interface {
	Snapshot(ctx context.Context) (exposition.Snapshot, error)
}
