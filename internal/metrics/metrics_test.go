package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m, err := New(nil)
	require.NoError(t, err)

	m.Login("ok")
	m.Login("ok")
	m.Login("invalid_credentials")
	m.Refresh("revoked")
	m.AuthFailure("expired")
	m.Denied("report", "update")
	m.OwnerProtected()
	m.RoleCache(true)
	m.RoleCache(false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.loginTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.loginTotal.WithLabelValues("invalid_credentials")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.refreshTotal.WithLabelValues("revoked")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.authFailures.WithLabelValues("expired")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.authzDenied.WithLabelValues("report", "update")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ownerProtected))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.roleCache.WithLabelValues("miss")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.Login("ok")
	m.Refresh("ok")
	m.AuthFailure("malformed")
	m.Denied("bill", "read")
	m.OwnerProtected()
	m.RoleCache(true)
	m.ObserveHTTP("GET", "/x", 200, time.Millisecond)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 404, rr.Code)
}

func TestMetrics_RegisterTwiceOnSameRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)
	_, err = New(reg)
	require.NoError(t, err)
}

func TestMetrics_Handler(t *testing.T) {
	m, err := New(nil)
	require.NoError(t, err)
	m.ObserveHTTP("POST", "/api/auth/login", 200, 20*time.Millisecond)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rr.Body)
	assert.Contains(t, string(body), `http_requests_total{method="POST",route="/api/auth/login",status="200"} 1`)
}
