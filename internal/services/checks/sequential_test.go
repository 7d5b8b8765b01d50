package checks

import (
	"context"
	"testing"

	"github.com/rcosmos/metricaudit/internal/domain"
)

func TestSequential(t *testing.T) {
	t.Parallel()

	fullRange := func(start, end int64) map[int64]domain.BlockSummary {
		blocks := make(map[int64]domain.BlockSummary)
		for h := start; h <= end; h++ {
			blocks[h] = testBlock(h, 1)
		}
		return blocks
	}

	t.Run("contiguous_range_is_clean", func(t *testing.T) {
		t.Parallel()
		svc := New(&fakeChain{blocks: fullRange(1, 5)}, testChainID, testNetwork)
		requireNoFindings(t, svc.Sequential(context.Background(), 1, 5))
	})

	t.Run("missing_height_is_fetch_error_plus_gap_error", func(t *testing.T) {
		t.Parallel()
		blocks := fullRange(1, 5)
		delete(blocks, 3)
		svc := New(&fakeChain{blocks: blocks}, testChainID, testNetwork)
		got := svc.Sequential(context.Background(), 1, 5)
		if countKind(got, domain.KindBlockFetch) != 1 || countKind(got, domain.KindSequenceGap) != 1 {
			t.Fatalf("Sequential() = %v, want one block_fetch and one sequence_gap", kinds(got))
		}
		for _, f := range got {
			if f.Severity != domain.SeverityError {
				t.Fatalf("finding %+v should be an error", f)
			}
		}
	})

	t.Run("missing_edge_height_shrinks_range_without_gap", func(t *testing.T) {
		t.Parallel()
		blocks := fullRange(2, 5)
		svc := New(&fakeChain{blocks: blocks}, testChainID, testNetwork)
		got := svc.Sequential(context.Background(), 1, 5)
		if countKind(got, domain.KindBlockFetch) != 1 || countKind(got, domain.KindSequenceGap) != 0 {
			t.Fatalf("Sequential() = %v, want one block_fetch and no sequence_gap", kinds(got))
		}
	})

	t.Run("nothing_fetchable_reports_each_height", func(t *testing.T) {
		t.Parallel()
		svc := New(&fakeChain{}, testChainID, testNetwork)
		got := svc.Sequential(context.Background(), 1, 3)
		if countKind(got, domain.KindBlockFetch) != 3 || countKind(got, domain.KindSequenceGap) != 0 {
			t.Fatalf("Sequential() = %v, want three block_fetch and no sequence_gap", kinds(got))
		}
	})
}
