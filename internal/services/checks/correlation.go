package checks

import (
	"context"

	"github.com/rcosmos/metricaudit/internal/domain"
	"github.com/rcosmos/metricaudit/internal/exposition"
)

const (
	// sampleCap bounds how many blocks the correlation check fetches.
	sampleCap = 20
	// correlationTolerance absorbs block-boundary timing skew between the
	// sampled range and the snapshot pair.
	correlationTolerance = 2
)

// SampleHeights picks the heights the correlation check inspects within
// the inclusive range [start, end]: up to sampleCap evenly spaced heights
// using an integer stride, or every height when the range is small.
func SampleHeights(start, end int64) []int64 {
	size := min(int64(sampleCap), end-start+1)
	if end-start >= size {
		step := max(int64(1), (end-start)/size)
		heights := make([]int64, 0, size)
		for i := int64(0); i < size; i++ {
			heights = append(heights, start+i*step)
		}
		return heights
	}
	heights := make([]int64, 0, end-start+1)
	for h := start; h <= end; h++ {
		heights = append(heights, h)
	}
	return heights
}

// Correlation cross-checks missed-blocks counters against actual signature
// absence over [start, end]. It samples blocks, counts how many each
// validator signed, and compares the counter increase with the expected
// number of misses.
//
// Only tracked validators are correlated: ones with a missed-blocks counter
// in either snapshot. No tracked validators at all is the cold-start state
// right after exporter startup and succeeds vacuously. Sampling is
// inherently approximate, so a drift outside the tolerance is a warning,
// never an error; likewise an individual block that cannot be fetched.
func (s *Service) Correlation(ctx context.Context, start, end int64, baseline, current exposition.Snapshot) []domain.Finding {
	var findings []domain.Finding

	validators, err := s.chain.Validators(ctx)
	if err != nil {
		return append(findings, domain.Warningf(domain.KindCheckSkipped,
			"could not check missed blocks correlation: %v", err))
	}
	inSet := make(map[string]struct{}, len(validators))
	for _, addr := range validators {
		inSet[addr] = struct{}{}
	}

	heights := SampleHeights(start, end)
	signed := make(map[string]int)
	for _, h := range heights {
		block, err := s.chain.Block(ctx, h)
		if err != nil {
			findings = append(findings, domain.Warningf(domain.KindBlockFetch,
				"could not fetch block %d: %v", h, err))
			continue
		}
		for addr := range block.Signers {
			if _, ok := inSet[addr]; ok {
				signed[addr]++
			}
		}
	}

	var tracked []string
	for _, addr := range validators {
		_, okBase := s.missed(baseline, addr)
		_, okCur := s.missed(current, addr)
		if okBase || okCur {
			tracked = append(tracked, addr)
		}
	}
	if len(tracked) == 0 {
		return append(findings, domain.Warningf(domain.KindColdStart,
			"no validators are tracked yet (exporter may have just started)"))
	}
	if len(tracked) > validatorCap {
		tracked = tracked[:validatorCap]
	}

	total := len(heights)
	for _, addr := range tracked {
		before, okBefore := s.missed(baseline, addr)
		after, okAfter := s.missed(current, addr)
		if !okAfter || !okBefore {
			// Counter appeared mid-run: no baseline to correlate against.
			continue
		}
		expected := int64(total - signed[addr])
		increase := int64(after - before)
		if abs(increase-expected) > correlationTolerance {
			findings = append(findings, domain.Warningf(domain.KindCorrelationDrift,
				"validator %s missed blocks correlation: expected %d increase, got %d (sampled %d blocks)",
				shortAddr(addr), expected, increase, total))
		}
	}
	return findings
}
