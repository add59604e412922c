package node

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"cosmossdk.io/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altuslabsxyz/revwallet/internal/domain"
)

func TestSubmitDeploy_HitsValidator(t *testing.T) {
	var gotPath, gotContentType string
	var gotBody map[string]any

	validator := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`"Success! DeployId is: abc123"`))
	}))
	defer validator.Close()

	readOnly := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("deploy must not reach the read-only endpoint")
	}))
	defer readOnly.Close()

	c := NewClient(Endpoints{Validator: validator.URL, ReadOnly: readOnly.URL}, log.NewNopLogger())

	msg, err := c.SubmitDeploy(context.Background(), domain.SignedDeploy{
		Deploy: domain.Deploy{
			Term:      "Nil",
			PhloLimit: 100_000,
			PhloPrice: 1,
			ShardID:   "root",
		},
		Deployer:     "04aa",
		Signature:    "bb",
		SigAlgorithm: "secp256k1",
	})
	require.NoError(t, err)

	assert.Equal(t, "Success! DeployId is: abc123", msg)
	assert.Equal(t, "/api/deploy", gotPath)
	assert.Equal(t, "application/json", gotContentType)

	data, ok := gotBody["data"].(map[string]any)
	require.True(t, ok, "deploy fields must nest under data")
	assert.Equal(t, "Nil", data["term"])
	assert.Equal(t, "secp256k1", gotBody["sigAlgorithm"])
}

func TestExploreDeploy_RoutedReadOnlyAsRawText(t *testing.T) {
	const term = `new return in { return!(42) }`

	readOnly := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/explore-deploy", r.URL.Path)
		assert.Equal(t, "text/plain", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, term, string(body), "term must be sent raw, not JSON-wrapped")

		w.Write([]byte(`{"expr":[{"ExprInt":{"data":12345}}]}`))
	}))
	defer readOnly.Close()

	validator := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("explore-deploy must not reach the validator")
	}))
	defer validator.Close()

	c := NewClient(Endpoints{Validator: validator.URL, ReadOnly: readOnly.URL}, log.NewNopLogger())

	res, err := c.ExploreDeploy(context.Background(), term)
	require.NoError(t, err)
	assert.True(t, res.IsInt)
	assert.Equal(t, int64(12345), res.Int)
}

func TestExploreDeploy_StringResult(t *testing.T) {
	readOnly := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"expr":[{"ExprString":{"data":"no vault"}}]}`))
	}))
	defer readOnly.Close()

	c := NewClient(Endpoints{ReadOnly: readOnly.URL}, log.NewNopLogger())

	res, err := c.ExploreDeploy(context.Background(), "term")
	require.NoError(t, err)
	assert.True(t, res.IsString)
	assert.Equal(t, "no vault", res.String)
}

func TestExploreDeploy_EmptyTerm(t *testing.T) {
	c := NewClient(Endpoints{ReadOnly: "http://localhost:0"}, log.NewNopLogger())

	_, err := c.ExploreDeploy(context.Background(), "   ")
	var reqErr *domain.RequestError
	require.ErrorAs(t, err, &reqErr)
}

func TestLatestBlocks_DepthInPath(t *testing.T) {
	readOnly := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/blocks/5", r.URL.Path)
		w.Write([]byte(`[{"blockHash":"aa","blockNumber":10,"timestamp":1700000000000}]`))
	}))
	defer readOnly.Close()

	c := NewClient(Endpoints{ReadOnly: readOnly.URL}, log.NewNopLogger())

	blocks, err := c.LatestBlocks(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "aa", blocks[0].BlockHash)
	assert.Equal(t, int64(10), blocks[0].BlockNumber)
}

func TestCall_ErrorTaxonomy(t *testing.T) {
	t.Run("http error status becomes APIError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "internal failure", http.StatusInternalServerError)
		}))
		defer srv.Close()

		c := NewClient(Endpoints{ReadOnly: srv.URL}, log.NewNopLogger())
		err := c.Status(context.Background())

		var apiErr *domain.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
		assert.Contains(t, apiErr.Body, "internal failure")
		assert.False(t, domain.IsTransport(err))
	})

	t.Run("unreachable endpoint becomes NetworkError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // closed on purpose

		c := NewClient(Endpoints{ReadOnly: srv.URL}, log.NewNopLogger())
		err := c.Status(context.Background())

		var netErr *domain.NetworkError
		require.ErrorAs(t, err, &netErr)
		assert.True(t, domain.IsTransport(err))
		assert.NotNil(t, errors.Unwrap(netErr))
	})

	t.Run("propose without admin endpoint becomes RequestError", func(t *testing.T) {
		c := NewClient(Endpoints{ReadOnly: "http://localhost:0"}, log.NewNopLogger())
		_, err := c.Propose(context.Background())

		var reqErr *domain.RequestError
		require.ErrorAs(t, err, &reqErr)
	})
}

func TestDecodeMessage(t *testing.T) {
	assert.Equal(t, "abc", decodeMessage([]byte(`"abc"`)))
	assert.Equal(t, "raw text", decodeMessage([]byte(" raw text\n")))
}
