package rpc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/thanhnp/minima-wallet-api/internal/config"
	"github.com/thanhnp/minima-wallet-api/internal/metrics"
)

// fakeNode answers POST /command with the reply returned by reply
func fakeNode(t *testing.T, reply func(command string) (int, string)) (*httptest.Server, *[]string) {
	t.Helper()
	var received []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/command", r.URL.Path)

		var body struct {
			Command string `json:"command"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		received = append(received, body.Command)

		status, payload := reply(body.Command)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(payload))
	}))
	t.Cleanup(srv.Close)
	return srv, &received
}

func newTestClient(url string, timeout int, m *metrics.Metrics) *Client {
	return NewClient(config.NodeConfig{URL: url, Timeout: timeout, TokenID: "0x00"}, m)
}

func TestRunCommand(t *testing.T) {
	t.Run("returns node reply verbatim", func(t *testing.T) {
		reply := `{"command":"balance","status":true,"pending":false,"response":[{"tokenid":"0x00"}]}`
		srv, received := fakeNode(t, func(string) (int, string) { return http.StatusOK, reply })
		m := metrics.New()

		env := newTestClient(srv.URL+"/", 15, m).RunCommand(context.Background(), "balance")
		require.True(t, env.Status)
		require.False(t, env.Unreachable)
		require.Equal(t, reply, string(env.Raw()))
		require.Equal(t, []string{"balance"}, *received)
		count, err := testutil.GatherAndCount(m.Registry(), "wallet_api_node_commands_total")
		require.NoError(t, err)
		require.Equal(t, 1, count)
	})

	t.Run("node reported failure", func(t *testing.T) {
		srv, _ := fakeNode(t, func(string) (int, string) {
			return http.StatusOK, `{"status":false,"error":"Insufficient funds"}`
		})
		env := newTestClient(srv.URL, 15, nil).RunCommand(context.Background(), "send amount:1 address:Mx1 tokenid:0x00")
		require.False(t, env.Status)
		require.False(t, env.Unreachable)
		require.Equal(t, "Insufficient funds", env.Error)
	})

	t.Run("malformed reply", func(t *testing.T) {
		srv, _ := fakeNode(t, func(string) (int, string) { return http.StatusInternalServerError, `<html>oops</html>` })
		env := newTestClient(srv.URL, 15, nil).RunCommand(context.Background(), "keys")
		require.False(t, env.Status)
		require.True(t, env.Unreachable)
		require.Contains(t, env.Error, "malformed node reply")
	})

	t.Run("connection refused", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		env := newTestClient(url, 15, nil).RunCommand(context.Background(), "keys")
		require.False(t, env.Status)
		require.True(t, env.Unreachable)
		require.NotEmpty(t, env.Error)
	})

	t.Run("timeout", func(t *testing.T) {
		block := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-block:
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		defer close(block)

		client := newTestClient(srv.URL, 15, nil)
		client.timeout = 50 * time.Millisecond

		start := time.Now()
		env := client.RunCommand(context.Background(), "keys")
		require.True(t, env.Unreachable)
		require.Less(t, time.Since(start), 5*time.Second)
	})
}

func TestCheckNodeVersion(t *testing.T) {
	t.Run("compatible", func(t *testing.T) {
		srv, received := fakeNode(t, func(string) (int, string) {
			return http.StatusOK, `{"status":true,"response":{"version":"1.0.45","chain":{"block":1}}}`
		})
		ver, err := newTestClient(srv.URL, 15, nil).CheckNodeVersion(context.Background())
		require.NoError(t, err)
		require.Equal(t, "1.0.45", ver.String())
		require.Equal(t, []string{"status"}, *received)
	})

	t.Run("incompatible", func(t *testing.T) {
		srv, _ := fakeNode(t, func(string) (int, string) {
			return http.StatusOK, `{"status":true,"response":{"version":"0.98.1"}}`
		})
		_, err := newTestClient(srv.URL, 15, nil).CheckNodeVersion(context.Background())
		require.ErrorContains(t, err, "compatible version")
	})

	t.Run("missing version", func(t *testing.T) {
		srv, _ := fakeNode(t, func(string) (int, string) { return http.StatusOK, `{"status":true,"response":{}}` })
		_, err := newTestClient(srv.URL, 15, nil).CheckNodeVersion(context.Background())
		require.Error(t, err)
	})
}

func TestCommandVerb(t *testing.T) {
	require.Equal(t, "send", commandVerb("send amount:1 address:Mx1"))
	require.Equal(t, "keys", commandVerb("  keys"))
	require.Equal(t, "empty", commandVerb(""))
}
