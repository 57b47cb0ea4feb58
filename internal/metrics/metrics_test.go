package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()
	m.Dispatch("send", OutcomeSent)
	m.Dispatch("send", OutcomeSent)
	m.Deletion(OutcomeFailed)
	m.Webhook("status", OutcomeSent)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Dispatches.WithLabelValues("send", OutcomeSent)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Deletions.WithLabelValues(OutcomeFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Webhooks.WithLabelValues("status", OutcomeSent)))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Dispatch("send", OutcomeSent)
		m.Deletion(OutcomeDeleted)
		m.Webhook("misc", OutcomeFailed)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.Dispatch("edit", OutcomeTooLarge)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `axon_dispatch_total{op="edit",outcome="too_large"} 1`)
}
