package checks

import (
	"context"

	"github.com/rcosmos/metricaudit/internal/domain"
)

// Sequential fetches every block in [start, end] and reports an error for
// each unfetchable height, plus a gap error when the fetched heights do not
// form a contiguous run. It is independent of the snapshot checks and may
// be invoked on its own.
func (s *Service) Sequential(ctx context.Context, start, end int64) []domain.Finding {
	var findings []domain.Finding

	fetched := make(map[int64]struct{})
	for h := start; h <= end; h++ {
		if _, err := s.chain.Block(ctx, h); err != nil {
			findings = append(findings, domain.Errorf(domain.KindBlockFetch,
				"could not fetch block %d: %v", h, err))
			continue
		}
		fetched[h] = struct{}{}
	}
	if len(fetched) == 0 {
		return findings
	}

	lo, hi := end, start
	for h := range fetched {
		lo = min(lo, h)
		hi = max(hi, h)
	}
	if want := hi - lo + 1; int64(len(fetched)) != want {
		findings = append(findings, domain.Errorf(domain.KindSequenceGap,
			"gap detected: expected %d consecutive blocks, got %d blocks", want, len(fetched)))
	}
	return findings
}
