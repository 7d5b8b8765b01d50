// Package config loads the validator's configuration: the exporter's YAML
// config file for chain identity and RPC nodes, plus CLI flags and
// environment overrides for the run parameters.
package config

import (
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	defaultNumBlocks  = 5
	defaultWaitTime   = 60 * time.Second
	defaultMetricsURL = "http://localhost:9100/metrics"
)

// Config carries everything a validation run needs.
type Config struct {
	ChainID    string
	Network    string
	RPCURL     string
	MetricsURL string
	NumBlocks  int
	WaitTime   time.Duration
	// Enabled mirrors network.cometbft.block.enabled from the config file.
	// A disabled module means the run should be skipped, not failed.
	Enabled bool
}

// file mirrors the slice of the exporter's YAML config the validator reads.
type file struct {
	General struct {
		ChainID string `yaml:"chain_id"`
		Network string `yaml:"network"`
		Nodes   struct {
			RPC []struct {
				URL string `yaml:"url"`
			} `yaml:"rpc"`
		} `yaml:"nodes"`
	} `yaml:"general"`
	Network struct {
		CometBFT struct {
			Block struct {
				Enabled bool `yaml:"enabled"`
			} `yaml:"block"`
		} `yaml:"cometbft"`
	} `yaml:"network"`
}

// overrides are the CI-facing environment knobs.
type overrides struct {
	MetricsURL string `env:"METRICS_URL"`
	NumBlocks  int    `env:"NUM_BLOCKS"`
	WaitTime   int    `env:"WAIT_TIME"`
}

// Load parses flags from args, reads the YAML config given as the first
// positional argument and applies ENV > CLI > defaults precedence to the
// run parameters.
func Load(args []string, out io.Writer) (Config, error) {
	if out == nil {
		out = io.Discard
	}

	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(out)

	numOpt := fs.Int("num-blocks", 0, fmt.Sprintf("number of blocks to sample, default: %d", defaultNumBlocks))
	waitOpt := fs.Int("wait-time", 0, fmt.Sprintf("wait time for exporter progress in seconds, default: %d", int(defaultWaitTime.Seconds())))
	urlOpt := fs.String("metrics-url", "", fmt.Sprintf("metrics endpoint URL, default: %s", defaultMetricsURL))

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	path := fs.Arg(0)
	if path == "" {
		return Config{}, fmt.Errorf("config file path is required")
	}

	var ov overrides
	if err := env.Parse(&ov); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	cfg := Config{
		MetricsURL: defaultMetricsURL,
		NumBlocks:  defaultNumBlocks,
		WaitTime:   defaultWaitTime,
	}
	if *urlOpt != "" {
		cfg.MetricsURL = *urlOpt
	}
	if ov.MetricsURL != "" {
		cfg.MetricsURL = ov.MetricsURL
	}
	if _, err := url.ParseRequestURI(cfg.MetricsURL); err != nil {
		return Config{}, fmt.Errorf("invalid metrics url: %q", cfg.MetricsURL)
	}
	if *numOpt > 0 {
		cfg.NumBlocks = *numOpt
	}
	if ov.NumBlocks > 0 {
		cfg.NumBlocks = ov.NumBlocks
	}
	if *waitOpt > 0 {
		cfg.WaitTime = time.Duration(*waitOpt) * time.Second
	}
	if ov.WaitTime > 0 {
		cfg.WaitTime = time.Duration(ov.WaitTime) * time.Second
	}

	if err := loadFile(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	if len(f.General.Nodes.RPC) == 0 {
		return fmt.Errorf("no rpc nodes found in config")
	}
	rpcURL := strings.TrimRight(strings.TrimSpace(f.General.Nodes.RPC[0].URL), "/")
	if rpcURL == "" {
		return fmt.Errorf("no rpc url found in config")
	}

	cfg.ChainID = f.General.ChainID
	cfg.Network = f.General.Network
	cfg.RPCURL = rpcURL
	cfg.Enabled = f.Network.CometBFT.Block.Enabled
	if !cfg.Enabled {
		// Identity is irrelevant for a skipped run.
		return nil
	}
	if cfg.ChainID == "" || cfg.Network == "" {
		return fmt.Errorf("missing chain_id or network in config")
	}
	return nil
}
