package checks

import (
	"context"
	"errors"
	"testing"

	"github.com/rcosmos/metricaudit/internal/domain"
)

func TestBlockSample(t *testing.T) {
	t.Parallel()

	svc := New(&fakeChain{}, testChainID, testNetwork)

	t.Run("matching_tx_count_is_clean", func(t *testing.T) {
		t.Parallel()
		requireNoFindings(t, svc.BlockSample(testBlock(50, 7), testSnapshot(txsLine(7))))
	})

	t.Run("mismatch_is_warning_only", func(t *testing.T) {
		t.Parallel()
		got := svc.BlockSample(testBlock(50, 5), testSnapshot(txsLine(7)))
		if len(got) != 1 || got[0].Kind != domain.KindTxMismatch || got[0].Severity != domain.SeverityWarning {
			t.Fatalf("BlockSample() = %v, want one tx_mismatch warning", got)
		}
	})

	t.Run("absent_gauge_is_clean", func(t *testing.T) {
		t.Parallel()
		requireNoFindings(t, svc.BlockSample(testBlock(50, 5), testSnapshot(heightLine(50))))
	})
}

func TestValidatorPresence(t *testing.T) {
	t.Parallel()

	t.Run("counts_found_and_absent", func(t *testing.T) {
		t.Parallel()
		svc := New(&fakeChain{validators: []string{"VAL01", "VAL02", "VAL03"}}, testChainID, testNetwork)
		p, got := svc.ValidatorPresence(context.Background(),
			testSnapshot(missedLine("VAL01", 3), missedLine("VAL02", 0)),
		)
		requireNoFindings(t, got)
		if p.Found != 2 || p.Reasonable != 2 || p.Absent != 1 {
			t.Fatalf("Presence = %+v, want found=2 reasonable=2 absent=1", p)
		}
	})

	t.Run("out_of_range_counter_is_flagged", func(t *testing.T) {
		t.Parallel()
		svc := New(&fakeChain{validators: []string{"VAL01", "VAL02"}}, testChainID, testNetwork)
		p, got := svc.ValidatorPresence(context.Background(),
			testSnapshot(missedLine("VAL01", -1), missedLine("VAL02", 2)),
		)
		if p.Found != 2 || p.Reasonable != 1 {
			t.Fatalf("Presence = %+v, want found=2 reasonable=1", p)
		}
		if countKind(got, domain.KindUnusualValue) != 2 {
			t.Fatalf("want per-validator and summary unusual_value warnings, got %v", kinds(got))
		}
	})

	t.Run("validator_set_unreachable_is_warning", func(t *testing.T) {
		t.Parallel()
		svc := New(&fakeChain{valErr: errors.New("rpc down")}, testChainID, testNetwork)
		_, got := svc.ValidatorPresence(context.Background(), testSnapshot())
		if len(got) != 1 || got[0].Kind != domain.KindCheckSkipped {
			t.Fatalf("ValidatorPresence() = %v, want one check_skipped warning", got)
		}
	})
}
