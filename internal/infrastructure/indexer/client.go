// Package indexer implements the HTTP client for the secondary deploy
// lookup service. The indexer is optional: every failure here degrades to
// the block-scan fallback, never to a user-visible error.
package indexer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cosmossdk.io/log"

	"github.com/altuslabsxyz/revwallet/internal/application/ports"
	"github.com/altuslabsxyz/revwallet/internal/domain"
)

// DefaultTimeout bounds indexer lookups. Kept short: a slow indexer is
// treated as unavailable so confirmation falls back to block scanning.
const DefaultTimeout = 10 * time.Second

// Client queries the indexer's deploy lookup API.
type Client struct {
	baseURL    string
	pageOrigin string
	http       *http.Client
	logger     log.Logger
}

// NewClient creates an indexer client. pageOrigin is the scheme+host the
// embedding application is served from; when it is https and the indexer
// endpoint is plain http, lookups are refused locally (mixed content) and
// classified as unavailable without issuing a request.
func NewClient(baseURL, pageOrigin string, logger log.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		pageOrigin: pageOrigin,
		http:       &http.Client{Timeout: DefaultTimeout},
		logger:     logger.With("component", "indexer-client"),
	}
}

// WithHTTPClient overrides the underlying HTTP client. Used by tests.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.http = h
	return c
}

// DeployRecord returns the indexer's record for a deploy, or (nil, nil)
// when the indexer has no record yet.
func (c *Client) DeployRecord(ctx context.Context, id domain.DeployID) (*ports.DeployRecord, error) {
	if c.baseURL == "" {
		return nil, &domain.IndexerUnavailableError{Endpoint: "", Reason: "no indexer configured"}
	}
	if c.mixedContent() {
		c.logger.Debug("refusing mixed-content indexer call", "endpoint", c.baseURL, "origin", c.pageOrigin)
		return nil, &domain.IndexerUnavailableError{
			Endpoint: c.baseURL,
			Reason:   "mixed content: page origin is https but indexer endpoint is http",
		}
	}

	url := fmt.Sprintf("%s/api/deploy/%s", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &domain.IndexerUnavailableError{Endpoint: c.baseURL, Reason: err.Error()}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &domain.IndexerUnavailableError{Endpoint: c.baseURL, Reason: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &domain.IndexerUnavailableError{
			Endpoint: c.baseURL,
			Reason:   fmt.Sprintf("HTTP %d", resp.StatusCode),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.IndexerUnavailableError{Endpoint: c.baseURL, Reason: err.Error()}
	}

	var record ports.DeployRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, &domain.IndexerUnavailableError{Endpoint: c.baseURL, Reason: "unparseable response"}
	}
	return &record, nil
}

// mixedContent reports whether calling the indexer would be blocked by a
// secure page origin.
func (c *Client) mixedContent() bool {
	return strings.HasPrefix(c.pageOrigin, "https://") && strings.HasPrefix(c.baseURL, "http://")
}

// Ensure Client implements ports.Indexer.
var _ ports.Indexer = (*Client)(nil)
