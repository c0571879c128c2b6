package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserveCommand(t *testing.T) {
	m := New()
	m.ObserveCommand("send", OutcomeOK, 10*time.Millisecond)
	m.ObserveCommand("send", OutcomeOK, 20*time.Millisecond)
	m.ObserveCommand("keys", OutcomeUnreachable, time.Second)

	require.Equal(t, 2.0, testutil.ToFloat64(m.commands.WithLabelValues("send", OutcomeOK)))
	require.Equal(t, 1.0, testutil.ToFloat64(m.commands.WithLabelValues("keys", OutcomeUnreachable)))
}

func TestObserveRequest(t *testing.T) {
	m := New()
	m.ObserveRequest("GET", "/balance", 404)
	require.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/balance", "404")))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.ObserveCommand("balance", OutcomeOK, time.Millisecond)
	m.ObserveRequest("GET", "/balance", 200)
}
