package checks

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rcosmos/metricaudit/internal/domain"
)

func TestMonotonicityHeight(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name         string
		baseline     int64
		current      int64
		wantKind     domain.Kind
		wantSeverity domain.Severity
	}{
		{name: "decreased_is_error", baseline: 100, current: 95, wantKind: domain.KindHeightDecreased, wantSeverity: domain.SeverityError},
		{name: "unchanged_is_warning", baseline: 100, current: 100, wantKind: domain.KindHeightStalled, wantSeverity: domain.SeverityWarning},
		{name: "advanced_is_clean", baseline: 100, current: 120},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			svc := New(&fakeChain{}, testChainID, testNetwork)
			got := svc.Monotonicity(context.Background(),
				testSnapshot(heightLine(tc.baseline)),
				testSnapshot(heightLine(tc.current)),
			)
			if tc.wantKind == "" {
				requireNoFindings(t, got)
				return
			}
			if len(got) != 1 || got[0].Kind != tc.wantKind || got[0].Severity != tc.wantSeverity {
				t.Fatalf("Monotonicity() = %v, want one %s/%s", got, tc.wantKind, tc.wantSeverity)
			}
		})
	}
}

func TestMonotonicityValidators(t *testing.T) {
	t.Parallel()

	t.Run("decreased_counter_is_error", func(t *testing.T) {
		t.Parallel()
		svc := New(&fakeChain{validators: []string{"AAAA1111BBBB"}}, testChainID, testNetwork)
		got := svc.Monotonicity(context.Background(),
			testSnapshot(heightLine(100), missedLine("AAAA1111BBBB", 5)),
			testSnapshot(heightLine(110), missedLine("AAAA1111BBBB", 3)),
		)
		if countKind(got, domain.KindCounterDecreased) != 1 {
			t.Fatalf("want one counter_decreased, got %v", kinds(got))
		}
	})

	t.Run("absent_on_either_side_is_skipped", func(t *testing.T) {
		t.Parallel()
		svc := New(&fakeChain{validators: []string{"AAAA1111BBBB"}}, testChainID, testNetwork)
		got := svc.Monotonicity(context.Background(),
			testSnapshot(heightLine(100)),
			testSnapshot(heightLine(110), missedLine("AAAA1111BBBB", 3)),
		)
		requireNoFindings(t, got)
	})

	t.Run("only_first_ten_checked", func(t *testing.T) {
		t.Parallel()
		var validators []string
		for i := 0; i < 12; i++ {
			validators = append(validators, fmt.Sprintf("VAL%02d", i))
		}
		base := []string{heightLine(100)}
		cur := []string{heightLine(110)}
		for _, v := range validators {
			base = append(base, missedLine(v, 5))
			cur = append(cur, missedLine(v, 1)) // every counter decreased
		}
		svc := New(&fakeChain{validators: validators}, testChainID, testNetwork)
		got := svc.Monotonicity(context.Background(), testSnapshot(base...), testSnapshot(cur...))
		if n := countKind(got, domain.KindCounterDecreased); n != 10 {
			t.Fatalf("want 10 counter_decreased (cap), got %d", n)
		}
	})

	t.Run("validator_set_unreachable_is_warning", func(t *testing.T) {
		t.Parallel()
		svc := New(&fakeChain{valErr: errors.New("rpc down")}, testChainID, testNetwork)
		got := svc.Monotonicity(context.Background(),
			testSnapshot(heightLine(100)),
			testSnapshot(heightLine(110)),
		)
		if len(got) != 1 || got[0].Kind != domain.KindCheckSkipped || got[0].Severity != domain.SeverityWarning {
			t.Fatalf("Monotonicity() = %v, want one check_skipped warning", got)
		}
	})
}
