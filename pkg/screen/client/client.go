// Package client talks to the external options analysis service. It only
// shapes requests and decodes responses; all pricing, filtering tiers and
// scoring live on the service side.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/komsit37/optscreen/pkg/screen/types"
)

// Analyzer runs one screening request against the analysis service.
type Analyzer interface {
	Analyze(ctx context.Context, req Request) (types.ResultSet, error)
}

// Client is the HTTP implementation of Analyzer.
type Client struct {
	endpoint string
	httpc    *http.Client
	log      *slog.Logger
}

// New creates a client for the service at endpoint (scheme://host[:port],
// no trailing path). Every request carries the given timeout so a hung
// service can never leave a session loading forever.
func New(endpoint string, timeout time.Duration, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		httpc:    &http.Client{Timeout: timeout},
		log:      log,
	}
}

// Analyze posts the request to the /analyze endpoint and decodes the named
// result lists. Any transport failure or non-success status is returned as
// an error; the caller surfaces a single generic message and keeps its
// previous results.
func (c *Client) Analyze(ctx context.Context, req Request) (types.ResultSet, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return types.ResultSet{}, fmt.Errorf("encode analyze request: %w", err)
	}

	url := c.endpoint + "/analyze"
	c.log.Debug("analyze request", "url", url, "screenerType", req.ScreenerType,
		"putTickers", req.PutTickers, "callTickers", req.CallTickers)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return types.ResultSet{}, fmt.Errorf("build analyze request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return types.ResultSet{}, fmt.Errorf("call analysis service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain so the connection can be reused; the body content is not
		// part of the error contract.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return types.ResultSet{}, fmt.Errorf("analysis service returned status %d", resp.StatusCode)
	}

	var rs types.ResultSet
	if err := json.NewDecoder(resp.Body).Decode(&rs); err != nil {
		return types.ResultSet{}, fmt.Errorf("decode analyze response: %w", err)
	}

	c.log.Debug("analyze response", "elapsed", time.Since(start),
		"puts", len(rs.Puts), "calls", len(rs.Calls),
		"bullish_calls", len(rs.BullishCalls), "bearish_puts", len(rs.BearishPuts))
	return rs, nil
}
