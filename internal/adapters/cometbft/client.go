// Package cometbft is a minimal read-only client for the CometBFT RPC
// surface the validator needs: status, block and validators.
package cometbft

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rcosmos/metricaudit/internal/domain"
)

const defaultTimeout = 30 * time.Second

// Client implements ports.ChainReader over plain HTTP GET requests.
type Client struct {
	base string
	hc   *http.Client
}

// New builds a client for the given RPC base URL. A nil http.Client gets a
// 30s timeout default.
func New(rpcURL string, hc *http.Client) (*Client, error) {
	if hc == nil {
		hc = &http.Client{Timeout: defaultTimeout}
	}
	base := normalizeBase(rpcURL)
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("invalid rpc url %q: %w", rpcURL, err)
	}
	return &Client{base: base, hc: hc}, nil
}

func normalizeBase(s string) string {
	s = strings.TrimRight(strings.TrimSpace(s), "/")
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return s
	}
	return "http://" + s
}

// get fetches base/path and decodes the JSON body into out. Any transport,
// status or decode failure is reported as domain.ErrUnavailable so callers
// can treat it uniformly as "could not fetch".
func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/"+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: rpc request failed: %v", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: rpc status %s", domain.ErrUnavailable, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: rpc decode failed: %v", domain.ErrUnavailable, err)
	}
	return nil
}

type statusResponse struct {
	Result struct {
		SyncInfo struct {
			LatestBlockHeight string `json:"latest_block_height"`
		} `json:"sync_info"`
	} `json:"result"`
}

// LatestHeight returns the chain's latest block height from GET /status.
func (c *Client) LatestHeight(ctx context.Context) (int64, error) {
	var sr statusResponse
	if err := c.get(ctx, "status", &sr); err != nil {
		return 0, err
	}
	h, err := strconv.ParseInt(sr.Result.SyncInfo.LatestBlockHeight, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad latest height %q", domain.ErrUnavailable, sr.Result.SyncInfo.LatestBlockHeight)
	}
	return h, nil
}

type blockResponse struct {
	Result struct {
		Block struct {
			Data struct {
				Txs []string `json:"txs"`
			} `json:"data"`
			LastCommit struct {
				Signatures []struct {
					ValidatorAddress string `json:"validator_address"`
				} `json:"signatures"`
			} `json:"last_commit"`
		} `json:"block"`
	} `json:"result"`
}

// Block returns a summary of the block at the given height. A signature
// with an empty validator address counts as absent.
func (c *Client) Block(ctx context.Context, height int64) (domain.BlockSummary, error) {
	var br blockResponse
	if err := c.get(ctx, fmt.Sprintf("block?height=%d", height), &br); err != nil {
		return domain.BlockSummary{}, err
	}
	sum := domain.BlockSummary{
		Height:  height,
		TxCount: len(br.Result.Block.Data.Txs),
		Signers: make(map[string]struct{}),
	}
	for _, sig := range br.Result.Block.LastCommit.Signatures {
		if sig.ValidatorAddress != "" {
			sum.Signers[sig.ValidatorAddress] = struct{}{}
		}
	}
	return sum, nil
}

type validatorsResponse struct {
	Result struct {
		Validators []struct {
			Address string `json:"address"`
		} `json:"validators"`
	} `json:"result"`
}

// Validators returns the addresses of the current validator set.
func (c *Client) Validators(ctx context.Context) ([]string, error) {
	var vr validatorsResponse
	if err := c.get(ctx, "validators", &vr); err != nil {
		return nil, err
	}
	addrs := make([]string, 0, len(vr.Result.Validators))
	for _, v := range vr.Result.Validators {
		addrs = append(addrs, v.Address)
	}
	return addrs, nil
}
