package checks

import (
	"context"

	"github.com/rcosmos/metricaudit/internal/domain"
	"github.com/rcosmos/metricaudit/internal/exposition"
)

// BlockSample compares one sampled block against the current snapshot.
// Every outcome is a warning: the sample block is historical while the
// block_txs gauge reflects whichever block the exporter processed last, and
// nothing confirms the two line up.
func (s *Service) BlockSample(block domain.BlockSummary, snap exposition.Snapshot) []domain.Finding {
	var findings []domain.Finding

	txs, ok := snap.Lookup(MetricBlockTxs, s.chainLabels()...)
	if ok && int(txs) != block.TxCount {
		findings = append(findings, domain.Warningf(domain.KindTxMismatch,
			"block %d: block_txs mismatch - expected %d, got %.0f (may be from a different block)",
			block.Height, block.TxCount, txs))
	}
	return findings
}

// Presence summarizes which of the inspected validators carry a
// missed-blocks counter.
type Presence struct {
	Found      int
	Reasonable int
	Absent     int
}

// ValidatorPresence inspects the missed-blocks counters of the first ten
// validators. A missing counter is expected (the exporter only emits it
// once a validator misses a block) and is merely counted; a counter outside
// [0, 1e6) is flagged as unusual.
func (s *Service) ValidatorPresence(ctx context.Context, snap exposition.Snapshot) (Presence, []domain.Finding) {
	var p Presence
	var findings []domain.Finding

	validators, err := s.chain.Validators(ctx)
	if err != nil {
		return p, append(findings, domain.Warningf(domain.KindCheckSkipped,
			"could not check validator metrics: %v", err))
	}
	if len(validators) > validatorCap {
		validators = validators[:validatorCap]
	}
	for _, addr := range validators {
		missed, ok := s.missed(snap, addr)
		if !ok {
			p.Absent++
			continue
		}
		p.Found++
		if missed >= 0 && missed < missedUpperBound {
			p.Reasonable++
		} else {
			findings = append(findings, domain.Warningf(domain.KindUnusualValue,
				"validator %s has unusual missed_blocks value: %g", shortAddr(addr), missed))
		}
	}
	if p.Reasonable < p.Found {
		findings = append(findings, domain.Warningf(domain.KindUnusualValue,
			"some validator metrics have unusual values (%d/%d reasonable)", p.Reasonable, p.Found))
	}
	return p, findings
}
