package checks

import (
	"context"

	"github.com/rcosmos/metricaudit/internal/domain"
	"github.com/rcosmos/metricaudit/internal/exposition"
)

// Monotonicity verifies that the aggregate height and per-validator
// missed-blocks counters never move backwards between two snapshots.
//
// A decreased height is an error; an unchanged height only a warning, since
// a caught-up exporter looks identical to a stalled one. Per validator, a
// decrease is an error when the counter is present on both sides; a
// validator absent from either snapshot is skipped, because not being
// tracked yet is expected rather than a defect. Validators are checked
// independently, capped at the first ten.
func (s *Service) Monotonicity(ctx context.Context, baseline, current exposition.Snapshot) []domain.Finding {
	var findings []domain.Finding

	base, okBase := s.Height(baseline)
	cur, okCur := s.Height(current)
	if okBase && okCur {
		switch {
		case cur < base:
			findings = append(findings, domain.Errorf(domain.KindHeightDecreased,
				"current block height decreased: %d -> %d (should be monotonic)", base, cur))
		case cur == base:
			findings = append(findings, domain.Warningf(domain.KindHeightStalled,
				"current block height unchanged at %d (exporter may be caught up or stalled)", cur))
		}
	}

	validators, err := s.chain.Validators(ctx)
	if err != nil {
		return append(findings, domain.Warningf(domain.KindCheckSkipped,
			"could not check validator monotonicity: %v", err))
	}
	if len(validators) > validatorCap {
		validators = validators[:validatorCap]
	}
	for _, addr := range validators {
		before, okBefore := s.missed(baseline, addr)
		after, okAfter := s.missed(current, addr)
		if !okBefore || !okAfter {
			continue
		}
		if after < before {
			findings = append(findings, domain.Errorf(domain.KindCounterDecreased,
				"validator %s missed_blocks decreased: %.0f -> %.0f (should be monotonic)",
				shortAddr(addr), before, after))
		}
	}
	return findings
}
