package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := InitMetrics("eas-attestation-api", registry)

	m.IncRequest("/register-schema", http.StatusOK)
	m.IncRequest("/register-schema", http.StatusOK)
	m.IncRequest("/register-schema", http.StatusBadRequest)
	m.IncTransaction("attest", nil)
	m.IncTransaction("attest", errors.New("reverted"))
	m.IncValidationFailure("schema")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.requests.WithLabelValues("/register-schema", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.requests.WithLabelValues("/register-schema", "400")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.transactions.WithLabelValues("attest", OutcomeSuccess)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.transactions.WithLabelValues("attest", OutcomeFailure)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.validation.WithLabelValues("schema")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncRequest("/livez", http.StatusOK)
		m.IncTransaction("revoke", nil)
		m.IncValidationFailure("data")
	})
}

func TestMetricsServer_Handler(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := InitMetrics("eas", registry)
	m.IncValidationFailure("schemaUID")

	srv := New(registry, "127.0.0.1:0")
	rr := httptest.NewRecorder()
	srv.srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `eas_validation_failures_total{field="schemaUID"} 1`)
}
