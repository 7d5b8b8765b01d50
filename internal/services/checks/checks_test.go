package checks

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/rcosmos/metricaudit/internal/domain"
	"github.com/rcosmos/metricaudit/internal/exposition"
)

const (
	testChainID = "test-1"
	testNetwork = "mainnet"
)

type fakeChain struct {
	latest     int64
	latestErr  error
	blocks     map[int64]domain.BlockSummary
	validators []string
	valErr     error
}

func (f *fakeChain) LatestHeight(_ context.Context) (int64, error) {
	if f.latestErr != nil {
		return 0, f.latestErr
	}
	return f.latest, nil
}

func (f *fakeChain) Block(_ context.Context, height int64) (domain.BlockSummary, error) {
	b, ok := f.blocks[height]
	if !ok {
		return domain.BlockSummary{}, fmt.Errorf("%w: no block at height %d", domain.ErrUnavailable, height)
	}
	return b, nil
}

func (f *fakeChain) Validators(_ context.Context) ([]string, error) {
	if f.valErr != nil {
		return nil, f.valErr
	}
	return f.validators, nil
}

func testBlock(height int64, txs int, signers ...string) domain.BlockSummary {
	b := domain.BlockSummary{Height: height, TxCount: txs, Signers: make(map[string]struct{})}
	for _, s := range signers {
		b.Signers[s] = struct{}{}
	}
	return b
}

func heightLine(h int64) string {
	return fmt.Sprintf(`%s{chain_id="%s",network="%s"} %d`, MetricCurrentHeight, testChainID, testNetwork, h)
}

func gapLine(g int64) string {
	return fmt.Sprintf(`%s{chain_id="%s",network="%s"} %d`, MetricBlockGap, testChainID, testNetwork, g)
}

func txsLine(n int) string {
	return fmt.Sprintf(`%s{chain_id="%s",network="%s"} %d`, MetricBlockTxs, testChainID, testNetwork, n)
}

func missedLine(addr string, v float64) string {
	return fmt.Sprintf(`%s{address="%s",chain_id="%s",network="%s"} %g`, MetricMissedBlocks, addr, testChainID, testNetwork, v)
}

func testSnapshot(lines ...string) exposition.Snapshot {
	return exposition.Parse(strings.Join(lines, "\n"))
}

func kinds(findings []domain.Finding) []domain.Kind {
	out := make([]domain.Kind, 0, len(findings))
	for _, f := range findings {
		out = append(out, f.Kind)
	}
	return out
}

func countKind(findings []domain.Finding, kind domain.Kind) int {
	n := 0
	for _, f := range findings {
		if f.Kind == kind {
			n++
		}
	}
	return n
}

func requireNoFindings(t *testing.T, findings []domain.Finding) {
	t.Helper()
	if len(findings) != 0 {
		t.Fatalf("unexpected findings: %v", findings)
	}
}
