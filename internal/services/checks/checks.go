// Package checks implements the correctness analyses run against a pair of
// metric snapshots: monotonicity, gap/catch-up trend, missed-block to
// signature correlation, sequential processing and per-block sampling.
package checks

import (
	"github.com/rcosmos/metricaudit/internal/exposition"
	"github.com/rcosmos/metricaudit/internal/ports"
)

// Metric families consumed by the validator. All of them carry the chain
// and network identifiers as labels; the missed-blocks counter additionally
// carries the validator address.
const (
	MetricCurrentHeight = "rcosmos_cometbft_current_block_height"
	MetricBlockGap      = "rcosmos_cometbft_block_gap"
	MetricBlockTxs      = "rcosmos_cometbft_block_txs"
	MetricMissedBlocks  = "rcosmos_cometbft_validator_missed_blocks"
)

const (
	// validatorCap bounds per-validator work to keep RPC cost flat.
	validatorCap = 10
	// missedUpperBound is the sanity ceiling for a missed-blocks counter.
	missedUpperBound = 1_000_000
)

// Service evaluates snapshots for one chain/network pair, reading ground
// truth through the chain boundary.
type Service struct {
	chain   ports.ChainReader
	chainID string
	network string
}

// New builds a check service.
func New(chain ports.ChainReader, chainID, network string) *Service {
	return &Service{chain: chain, chainID: chainID, network: network}
}

func (s *Service) chainLabels() []exposition.Label {
	return []exposition.Label{
		exposition.L("chain_id", s.chainID),
		exposition.L("network", s.network),
	}
}

func (s *Service) validatorLabels(addr string) []exposition.Label {
	return []exposition.Label{
		exposition.L("address", addr),
		exposition.L("chain_id", s.chainID),
		exposition.L("network", s.network),
	}
}

// Height reads the exporter's current block height from a snapshot.
func (s *Service) Height(snap exposition.Snapshot) (int64, bool) {
	v, ok := snap.Lookup(MetricCurrentHeight, s.chainLabels()...)
	if !ok {
		return 0, false
	}
	return int64(v), true
}

// Gap reads the exporter's reported block gap from a snapshot.
func (s *Service) Gap(snap exposition.Snapshot) (int64, bool) {
	v, ok := snap.Lookup(MetricBlockGap, s.chainLabels()...)
	if !ok {
		return 0, false
	}
	return int64(v), true
}

func (s *Service) missed(snap exposition.Snapshot, addr string) (float64, bool) {
	return snap.Lookup(MetricMissedBlocks, s.validatorLabels(addr)...)
}

func shortAddr(addr string) string {
	if len(addr) <= 8 {
		return addr
	}
	return addr[:8] + "..."
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
