// Command validate cross-checks a running exporter's metrics against the
// chain's RPC interface and exits non-zero when a release-blocking
// discrepancy is found.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/rcosmos/metricaudit/internal/adapters/cometbft"
	"github.com/rcosmos/metricaudit/internal/adapters/scrape"
	"github.com/rcosmos/metricaudit/internal/config"
	"github.com/rcosmos/metricaudit/internal/domain"
	"github.com/rcosmos/metricaudit/internal/services/audit"
	"github.com/rcosmos/metricaudit/internal/services/checks"
)

func main() {
	cfg, err := config.Load(os.Args[1:], nil)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if !cfg.Enabled {
		log.Printf("cometbft block module not enabled, skipping validation")
		return
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	chain, err := cometbft.New(cfg.RPCURL, nil)
	if err != nil {
		log.Fatalf("failed to init rpc client: %v", err)
	}
	metrics := scrape.New(cfg.MetricsURL, nil)
	svc := checks.New(chain, cfg.ChainID, cfg.Network)
	runner := audit.New(chain, metrics, svc, logger, audit.Params{
		NumBlocks: cfg.NumBlocks,
		WaitTime:  cfg.WaitTime,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("validation started",
		zap.String("chain_id", cfg.ChainID),
		zap.String("network", cfg.Network),
		zap.String("rpc", cfg.RPCURL),
		zap.String("metrics", cfg.MetricsURL),
	)

	report, err := runner.Run(ctx)
	if err != nil {
		log.Fatalf("validation aborted: %v", err)
	}

	errs, warns := domain.Split(domain.Reclassify(report.Findings))
	printSummary(os.Stdout, errs, warns)
	if len(errs) > 0 {
		log.Fatalf("validation failed: %d error(s)", len(errs))
	}
	log.Printf("validation passed")
}
