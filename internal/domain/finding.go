// Package domain holds the value types shared across the validator.
package domain

import "fmt"

// Severity classifies a finding.
type Severity string

const (
	// SeverityError marks an invariant violation that must fail the run.
	SeverityError Severity = "error"
	// SeverityWarning marks a suspicious but tolerable observation.
	SeverityWarning Severity = "warning"
)

// Kind identifies the condition that produced a finding.
type Kind string

const (
	KindHeightMetricMissing Kind = "height_metric_missing"
	KindHeightDecreased     Kind = "height_decreased"
	KindHeightStalled       Kind = "height_stalled"
	KindCounterDecreased    Kind = "counter_decreased"
	KindGapDiverging        Kind = "gap_diverging"
	KindGapTooLarge         Kind = "gap_too_large"
	KindGapSlowCatchup      Kind = "gap_slow_catchup"
	KindGapMetricMissing    Kind = "gap_metric_missing"
	KindTimingSkew          Kind = "timing_skew"
	KindTxMismatch          Kind = "tx_mismatch"
	KindUnusualValue        Kind = "unusual_value"
	KindColdStart           Kind = "cold_start"
	KindCorrelationDrift    Kind = "correlation_drift"
	KindBlockFetch          Kind = "block_fetch_failed"
	KindSequenceGap         Kind = "sequence_gap"
	KindCheckSkipped        Kind = "check_skipped"
)

// Finding is a single check outcome. Findings accumulate across checks and
// are never retracted.
type Finding struct {
	Kind     Kind
	Severity Severity
	Message  string
}

// Errorf builds an error-severity finding.
func Errorf(kind Kind, format string, args ...any) Finding {
	return Finding{Kind: kind, Severity: SeverityError, Message: fmt.Sprintf(format, args...)}
}

// Warningf builds a warning-severity finding.
func Warningf(kind Kind, format string, args ...any) Finding {
	return Finding{Kind: kind, Severity: SeverityWarning, Message: fmt.Sprintf(format, args...)}
}

// Blocking reports whether the finding's kind is allowed to fail a run.
// Only a gap that is too large and not closing, or a missing mandatory
// height metric, block a release; everything else is worth human attention
// but must not gate it.
func (f Finding) Blocking() bool {
	return f.Kind == KindGapTooLarge || f.Kind == KindHeightMetricMissing
}

// Reclassify demotes every error whose kind is not blocking to a warning.
// The input is not modified.
func Reclassify(in []Finding) []Finding {
	out := make([]Finding, len(in))
	for i, f := range in {
		if f.Severity == SeverityError && !f.Blocking() {
			f.Severity = SeverityWarning
		}
		out[i] = f
	}
	return out
}

// Split partitions findings into errors and warnings, preserving order.
func Split(findings []Finding) (errs, warns []Finding) {
	for _, f := range findings {
		if f.Severity == SeverityError {
			errs = append(errs, f)
		} else {
			warns = append(warns, f)
		}
	}
	return errs, warns
}
