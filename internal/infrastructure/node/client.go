// Package node implements the HTTP client for the node web API. It routes
// each operation to the validator, read-only or admin endpoint and
// normalizes transport failures into the domain error taxonomy.
package node

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cosmossdk.io/log"

	"github.com/altuslabsxyz/revwallet/internal/application/ports"
	"github.com/altuslabsxyz/revwallet/internal/domain"
)

const (
	// DefaultTimeout bounds every node call.
	DefaultTimeout = 30 * time.Second

	// StatusTimeout bounds the lightweight liveness probe.
	StatusTimeout = 5 * time.Second
)

// Endpoints holds the per-network endpoint URLs by role. Admin may be empty
// when the network exposes no admin surface.
type Endpoints struct {
	Validator string
	ReadOnly  string
	Admin     string
}

// Client is the node web API client.
type Client struct {
	endpoints Endpoints
	http      *http.Client
	statusCli *http.Client
	logger    log.Logger
}

// NewClient creates a node client for one network's endpoints.
func NewClient(endpoints Endpoints, logger log.Logger) *Client {
	return &Client{
		endpoints: endpoints,
		http:      &http.Client{Timeout: DefaultTimeout},
		statusCli: &http.Client{Timeout: StatusTimeout},
		logger:    logger.With("component", "node-client"),
	}
}

// WithHTTPClient overrides the underlying HTTP client. Used by tests.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.http = h
	c.statusCli = h
	return c
}

// Identity names the read-only endpoint this client queries.
func (c *Client) Identity() string { return c.endpoints.ReadOnly }

// SubmitDeploy sends a signed deploy to the validator and returns the raw
// response message.
func (c *Client) SubmitDeploy(ctx context.Context, d domain.SignedDeploy) (string, error) {
	payload := struct {
		Data struct {
			Term                  string `json:"term"`
			Timestamp             int64  `json:"timestamp"`
			PhloPrice             int64  `json:"phloPrice"`
			PhloLimit             int64  `json:"phloLimit"`
			ValidAfterBlockNumber int64  `json:"validAfterBlockNumber"`
			ShardID               string `json:"shardId"`
		} `json:"data"`
		SigAlgorithm string `json:"sigAlgorithm"`
		Signature    string `json:"signature"`
		Deployer     string `json:"deployer"`
	}{
		SigAlgorithm: d.SigAlgorithm,
		Signature:    d.Signature,
		Deployer:     d.Deployer,
	}
	payload.Data.Term = d.Term
	payload.Data.Timestamp = d.Timestamp
	payload.Data.PhloPrice = d.PhloPrice
	payload.Data.PhloLimit = d.PhloLimit
	payload.Data.ValidAfterBlockNumber = d.ValidAfterBlockNumber
	payload.Data.ShardID = d.ShardID

	body, err := json.Marshal(payload)
	if err != nil {
		return "", &domain.RequestError{Message: fmt.Sprintf("encode deploy: %v", err)}
	}

	resp, err := c.call(ctx, "deploy", "", body)
	if err != nil {
		return "", err
	}
	return decodeMessage(resp), nil
}

// ExploreDeploy executes a read-only contract call. The term is sent as the
// raw contract-code string with content type text/plain, not as JSON; the
// read-only node rejects anything else.
func (c *Client) ExploreDeploy(ctx context.Context, term string) (ports.ExprResult, error) {
	if strings.TrimSpace(term) == "" {
		return ports.ExprResult{}, &domain.RequestError{Message: "empty exploratory term"}
	}

	resp, err := c.call(ctx, "explore-deploy", "", []byte(term))
	if err != nil {
		return ports.ExprResult{}, err
	}

	var decoded struct {
		Expr []struct {
			ExprInt *struct {
				Data int64 `json:"data"`
			} `json:"ExprInt,omitempty"`
			ExprString *struct {
				Data string `json:"data"`
			} `json:"ExprString,omitempty"`
		} `json:"expr"`
	}
	if err := json.Unmarshal(resp, &decoded); err != nil {
		return ports.ExprResult{}, &domain.APIError{Status: http.StatusOK, Body: "unparseable explore-deploy response"}
	}

	for _, e := range decoded.Expr {
		if e.ExprInt != nil {
			return ports.ExprResult{IsInt: true, Int: e.ExprInt.Data}, nil
		}
		if e.ExprString != nil {
			return ports.ExprResult{IsString: true, String: e.ExprString.Data}, nil
		}
	}
	return ports.ExprResult{}, &domain.APIError{Status: http.StatusOK, Body: "explore-deploy returned no expression"}
}

// LatestBlocks returns summaries of the most recent depth blocks.
func (c *Client) LatestBlocks(ctx context.Context, depth int) ([]ports.BlockSummary, error) {
	if depth <= 0 {
		depth = 1
	}

	resp, err := c.call(ctx, "blocks", "/"+strconv.Itoa(depth), nil)
	if err != nil {
		return nil, err
	}

	var blocks []ports.BlockSummary
	if err := json.Unmarshal(resp, &blocks); err != nil {
		return nil, &domain.APIError{Status: http.StatusOK, Body: "unparseable blocks response"}
	}
	return blocks, nil
}

// BlockByHash returns the full block including its deploy list.
func (c *Client) BlockByHash(ctx context.Context, hash string) (ports.Block, error) {
	if hash == "" {
		return ports.Block{}, &domain.RequestError{Message: "empty block hash"}
	}

	resp, err := c.call(ctx, "block", "/"+hash, nil)
	if err != nil {
		return ports.Block{}, err
	}

	var block ports.Block
	if err := json.Unmarshal(resp, &block); err != nil {
		return ports.Block{}, &domain.APIError{Status: http.StatusOK, Body: "unparseable block response"}
	}
	return block, nil
}

// Status probes node liveness on the read-only endpoint.
func (c *Client) Status(ctx context.Context) error {
	_, err := c.callWith(ctx, c.statusCli, "status", "", nil)
	return err
}

// Propose asks the admin endpoint to propose a block.
func (c *Client) Propose(ctx context.Context) (string, error) {
	resp, err := c.call(ctx, "propose", "", nil)
	if err != nil {
		return "", err
	}
	return decodeMessage(resp), nil
}

// call routes one operation through the static table.
func (c *Client) call(ctx context.Context, op, pathSuffix string, body []byte) ([]byte, error) {
	return c.callWith(ctx, c.http, op, pathSuffix, body)
}

func (c *Client) callWith(ctx context.Context, cli *http.Client, op, pathSuffix string, body []byte) ([]byte, error) {
	r, ok := routes[op]
	if !ok {
		return nil, &domain.RequestError{Message: fmt.Sprintf("unknown operation %q", op)}
	}

	base, err := c.baseURL(r.class)
	if err != nil {
		return nil, err
	}
	url := base + r.path + pathSuffix

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, url, reader)
	if err != nil {
		return nil, &domain.RequestError{Message: err.Error()}
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}

	resp, err := cli.Do(req)
	if err != nil {
		c.logger.Debug("node call failed", "operation", op, "endpoint", base, "err", err)
		return nil, &domain.NetworkError{Endpoint: base, Cause: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.NetworkError{Endpoint: base, Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	return data, nil
}

func (c *Client) baseURL(class endpointClass) (string, error) {
	switch class {
	case classValidator:
		return c.endpoints.Validator, nil
	case classReadOnly:
		return c.endpoints.ReadOnly, nil
	case classAdmin:
		if c.endpoints.Admin == "" {
			return "", &domain.RequestError{Message: "network has no admin endpoint"}
		}
		return c.endpoints.Admin, nil
	}
	return "", &domain.RequestError{Message: "unknown endpoint class"}
}

// decodeMessage unwraps the node's plain-string responses, which arrive
// either as a JSON string or as raw text.
func decodeMessage(data []byte) string {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(data))
}

// Ensure Client implements ports.NodeAPI.
var _ ports.NodeAPI = (*Client)(nil)
