// Package audit sequences a full validation run against a live exporter:
// baseline capture, a bounded wait for progress, and the correctness checks
// over the resulting snapshot pair.
package audit

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rcosmos/metricaudit/internal/domain"
	"github.com/rcosmos/metricaudit/internal/exposition"
	"github.com/rcosmos/metricaudit/internal/misc"
	"github.com/rcosmos/metricaudit/internal/ports"
	"github.com/rcosmos/metricaudit/internal/services/checks"
)

const (
	defaultPollInterval = 5 * time.Second
	// correlationTrigger is the minimum advance since baseline before the
	// correlation check has enough range to be meaningful.
	correlationTrigger = 5
)

// Params configures a validation run.
type Params struct {
	// NumBlocks is both the progress target for the wait loop and the
	// number of recent blocks sampled afterwards.
	NumBlocks int
	// WaitTime bounds the wait-for-progress loop.
	WaitTime time.Duration
	// PollInterval is the fixed probe cadence; zero means 5s.
	PollInterval time.Duration
}

// Runner drives a validation run. It never raises findings past its own
// boundary: Run returns the ordered findings and leaves severity
// re-classification and display to the caller.
type Runner struct {
	chain   ports.ChainReader
	metrics ports.MetricsSource
	checks  *checks.Service
	log     *zap.Logger
	params  Params
}

// New builds a runner.
func New(chain ports.ChainReader, metrics ports.MetricsSource, svc *checks.Service, log *zap.Logger, p Params) *Runner {
	if p.PollInterval <= 0 {
		p.PollInterval = defaultPollInterval
	}
	return &Runner{chain: chain, metrics: metrics, checks: svc, log: log, params: p}
}

// Report is the outcome of a run before re-classification.
type Report struct {
	Findings []domain.Finding
}

func (r *Report) add(fs ...domain.Finding) {
	r.Findings = append(r.Findings, fs...)
}

// Run executes the full sequence. A non-nil error means a mandatory fetch
// point (baseline capture or the final snapshot) was unreachable and the
// run aborted; all other trouble lands in the report as findings.
func (r *Runner) Run(ctx context.Context) (Report, error) {
	var rep Report

	r.log.Info("capturing baseline metrics")
	baseline, err := r.metrics.Snapshot(ctx)
	if err != nil {
		return rep, fmt.Errorf("capture baseline metrics: %w", err)
	}
	baselineHeight, ok := r.checks.Height(baseline)
	if !ok {
		rep.add(domain.Errorf(domain.KindHeightMetricMissing,
			"baseline %s metric not found", checks.MetricCurrentHeight))
		return rep, nil
	}
	baselineLatest, err := r.chain.LatestHeight(ctx)
	if err != nil {
		return rep, fmt.Errorf("baseline latest height: %w", err)
	}
	baselineGap := baselineLatest - baselineHeight
	r.log.Info("baseline captured",
		zap.Int64("height", baselineHeight),
		zap.Int64("latest", baselineLatest),
		zap.Int64("gap", baselineGap),
	)

	elapsed := r.waitForProgress(ctx, baselineHeight)
	if ctx.Err() != nil {
		return rep, ctx.Err()
	}

	current, err := r.metrics.Snapshot(ctx)
	if err != nil {
		return rep, fmt.Errorf("fetch metrics: %w", err)
	}
	r.log.Info("fetched metrics", zap.Int("series", len(current)))

	latest, err := r.chain.LatestHeight(ctx)
	if err != nil {
		return rep, fmt.Errorf("latest height: %w", err)
	}

	currentHeight, ok := r.checks.Height(current)
	if !ok {
		rep.add(domain.Errorf(domain.KindHeightMetricMissing,
			"%s metric not found", checks.MetricCurrentHeight))
		return rep, nil
	}

	if gap, ok := r.checks.Gap(current); ok {
		processed := currentHeight - baselineHeight
		secs := elapsed.Seconds()
		if secs < 1 {
			secs = 1
		}
		r.log.Info("gap trend",
			zap.Int64("current_gap", gap),
			zap.Int64("gap_change", baselineGap-gap),
			zap.Float64("blocks_per_sec", float64(processed)/secs),
		)
		rep.add(r.checks.GapTrend(checks.GapReading{
			BaselineGap: baselineGap,
			CurrentGap:  gap,
			ExpectedGap: latest - currentHeight,
			Elapsed:     elapsed,
		})...)
	} else {
		rep.add(domain.Warningf(domain.KindGapMetricMissing,
			"%s metric not found", checks.MetricBlockGap))
	}

	r.sampleRecentBlocks(ctx, &rep, currentHeight, current)

	presence, fs := r.checks.ValidatorPresence(ctx, current)
	rep.add(fs...)
	r.log.Info("validator metrics",
		zap.Int("found", presence.Found),
		zap.Int("absent", presence.Absent),
	)

	rep.add(r.checks.Monotonicity(ctx, baseline, current)...)

	if currentHeight > baselineHeight+correlationTrigger {
		rep.add(r.checks.Correlation(ctx, baselineHeight+1, currentHeight, baseline, current)...)
	}
	return rep, nil
}

// waitForProgress polls the metrics endpoint until the exporter has
// advanced NumBlocks past the baseline or the wait budget runs out. Probe
// failures are ignored; the exporter may still be warming up.
func (r *Runner) waitForProgress(ctx context.Context, baselineHeight int64) time.Duration {
	target := int64(r.params.NumBlocks)
	r.log.Info("waiting for exporter progress",
		zap.Int64("target_blocks", target),
		zap.Duration("budget", r.params.WaitTime),
	)
	start := time.Now()
	done := misc.Poll(ctx, r.params.PollInterval, r.params.WaitTime, func() bool {
		snap, err := r.metrics.Snapshot(ctx)
		if err != nil {
			return false
		}
		h, ok := r.checks.Height(snap)
		if !ok {
			return false
		}
		processed := h - baselineHeight
		r.log.Info("progress",
			zap.Int64("processed", processed),
			zap.Int64("target", target),
			zap.Duration("elapsed", time.Since(start).Truncate(time.Second)),
		)
		return processed >= target
	})
	elapsed := time.Since(start)
	if done {
		r.log.Info("ready for validation", zap.Duration("elapsed", elapsed.Truncate(time.Second)))
	} else {
		r.log.Info("wait budget spent, proceeding with validation")
	}
	return elapsed
}

// sampleRecentBlocks runs the per-block transaction check over the most
// recent processed blocks. Everything here is a warning: historical sample
// blocks are compared against a possibly-advanced snapshot.
func (r *Runner) sampleRecentBlocks(ctx context.Context, rep *Report, currentHeight int64, current exposition.Snapshot) {
	sampled, flagged := 0, 0
	for i := 0; i < r.params.NumBlocks; i++ {
		h := currentHeight - int64(i)
		if h < 1 {
			break
		}
		block, err := r.chain.Block(ctx, h)
		if err != nil {
			rep.add(domain.Warningf(domain.KindBlockFetch,
				"block %d: could not validate - %v", h, err))
			flagged++
			continue
		}
		sampled++
		fs := r.checks.BlockSample(block, current)
		if len(fs) > 0 {
			flagged++
		}
		rep.add(fs...)
	}
	r.log.Info("sampled recent blocks",
		zap.Int("sampled", sampled),
		zap.Int("flagged", flagged),
	)
}
