package checks

import (
	"time"

	"github.com/rcosmos/metricaudit/internal/domain"
)

const (
	// gapDivergence is how much the gap may grow before the exporter is
	// considered to be falling behind.
	gapDivergence = 10
	// hugeGap is the size past which a gap must visibly close.
	hugeGap = 1000
	// minCatchup is the minimum gap change demanded of a huge gap.
	minCatchup = 10
	// acceptableGap needs no catch-up at all.
	acceptableGap = 100
	// gapSkewTolerance absorbs the non-atomicity of the RPC and metrics
	// fetches when comparing the reported gap against the computed one.
	gapSkewTolerance = 5
)

// GapReading is the input to the gap/catch-up analysis.
type GapReading struct {
	// BaselineGap is latest RPC height minus exporter height at baseline.
	BaselineGap int64
	// CurrentGap is the gap the exporter itself reports now.
	CurrentGap int64
	// ExpectedGap is latest RPC height minus exporter height now.
	ExpectedGap int64
	// Elapsed is the wall-clock time between the two readings.
	Elapsed time.Duration
}

// GapTrend judges whether the exporter is keeping up with the chain. An
// exporter may legitimately start with a large gap (initial backfill), so
// the catch-up rate matters more than the absolute size.
func (s *Service) GapTrend(r GapReading) []domain.Finding {
	var findings []domain.Finding

	change := r.BaselineGap - r.CurrentGap // positive = catching up
	secs := int64(r.Elapsed.Seconds())
	if secs < 1 {
		secs = 1
	}

	switch {
	case r.CurrentGap > r.BaselineGap+gapDivergence:
		findings = append(findings, domain.Errorf(domain.KindGapDiverging,
			"block gap increasing: %d -> %d blocks (exporter is falling behind)",
			r.BaselineGap, r.CurrentGap))
	case r.CurrentGap > hugeGap && change < minCatchup:
		findings = append(findings, domain.Errorf(domain.KindGapTooLarge,
			"block gap too large (%d blocks) and not catching up (only %d blocks in %ds)",
			r.CurrentGap, change, secs))
	case r.CurrentGap > acceptableGap && change > 0:
		// Large but improving: fine during initial backfill.
	case r.CurrentGap <= acceptableGap:
		// Close enough to the chain tip.
	default:
		findings = append(findings, domain.Warningf(domain.KindGapSlowCatchup,
			"block gap large (%d blocks) but catching up slowly (%d blocks in %ds)",
			r.CurrentGap, change, secs))
	}

	if d := abs(r.CurrentGap - r.ExpectedGap); d > gapSkewTolerance {
		findings = append(findings, domain.Warningf(domain.KindTimingSkew,
			"block gap metric mismatch: calculated from RPC: %d blocks, exporter reports: %d blocks (difference: %d, likely timing skew between fetches)",
			r.ExpectedGap, r.CurrentGap, d))
	}
	return findings
}
