package observability

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"massa-autoroll/internal/massa"
)

func TestObserveCall(t *testing.T) {
	m := NewMetrics("test", prometheus.NewRegistry())

	m.ObserveCall("get_status", 10*time.Millisecond, nil)
	m.ObserveCall("get_status", 10*time.Millisecond, &massa.RPCError{Method: "get_status", Code: -32000})
	m.ObserveCall("get_status", time.Millisecond, &massa.RPCError{Method: "get_status", Err: errors.New("refused")})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RPCCalls.WithLabelValues("get_status", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RPCCalls.WithLabelValues("get_status", OutcomeNodeError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RPCCalls.WithLabelValues("get_status", OutcomeTransportError)))
}

func TestRecordRun(t *testing.T) {
	m := NewMetrics("test", prometheus.NewRegistry())
	finished := time.Unix(1_700_000_000, 0)

	m.RecordRun("failure", time.Second, finished)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.LastSuccessfulRun))

	m.RecordRun("success", time.Second, finished)
	assert.Equal(t, 1_700_000_000.0, testutil.ToFloat64(m.LastSuccessfulRun))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("success")))
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics("", reg)
	m.RollsBought.Add(2)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "massa_autoroll_operations_rolls_bought_total 2"))
}
