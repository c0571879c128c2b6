package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thanhnp/minima-wallet-api/internal/config"
	"github.com/thanhnp/minima-wallet-api/internal/metrics"
	"github.com/thanhnp/minima-wallet-api/internal/models"
	"github.com/thanhnp/minima-wallet-api/internal/storage"
)

type stubNode struct {
	reply string
}

func (n stubNode) RunCommand(context.Context, string) *models.Envelope {
	env, _ := models.NewEnvelope([]byte(n.reply))
	return env
}

func newTestRouter(t *testing.T) *Router {
	t.Helper()
	labels := storage.NewFileLabelStore(filepath.Join(t.TempDir(), "address_labels.json"))
	node := stubNode{reply: `{"status":true,"response":[{"address":"Mx1","publickey":"p","simple":true,"default":true}]}`}
	return NewRouter(node, labels, config.NodeConfig{TokenID: "0x00"}, metrics.New())
}

func serve(r *Router, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.Engine().ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestRouter(t *testing.T) {
	r := newTestRouter(t)

	t.Run("health", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/health")
		require.Equal(t, http.StatusOK, w.Code)
		require.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	})

	t.Run("addresses", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/addresses")
		require.Equal(t, http.StatusOK, w.Code)
		require.JSONEq(t, `[{"address":"Mx1","publickey":"p","simple":true,"default":true,"label":null}]`, w.Body.String())
	})

	t.Run("cors preflight", func(t *testing.T) {
		w := serve(r, http.MethodOptions, "/send")
		require.Equal(t, http.StatusNoContent, w.Code)
		require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("unknown route", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/nope")
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("metrics", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/metrics")
		require.Equal(t, http.StatusOK, w.Code)
		require.True(t, strings.Contains(w.Body.String(), `wallet_api_http_requests_total{method="GET",route="/addresses",status="200"} 1`))
	})
}
