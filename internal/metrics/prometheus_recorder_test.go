package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/docforge.net/internal/domain"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)

	pr.IncAttempt("nonstop", "no_artifact")
	pr.IncAttempt("batch", "artifact")
	pr.ObserveOutcome(domain.ErrorKindNone, 800*time.Millisecond)
	pr.ObserveOutcome(domain.ErrorKindTimeout, 30*time.Second)
	pr.AddActiveWorkspaces(1)
	pr.AddActiveWorkspaces(-1)
	pr.IncToolResolution(true)
	pr.IncGeneration("ok")
	pr.AddSweptWorkspaces(3)
	pr.AddPrunedJobs(0)

	assert.InDelta(t, 1, testutil.ToFloat64(pr.attempts.WithLabelValues("batch", "artifact")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pr.outcomes.WithLabelValues("ok")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pr.outcomes.WithLabelValues("TIMEOUT")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(pr.activeWorkspaces), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(pr.sweptWorkspaces), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(pr.prunedJobs), 0)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
}

func TestNilRecorderIsSafe(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.IncAttempt("nonstop", "timeout")
		pr.ObserveOutcome(domain.ErrorKindCompilationFailed, time.Second)
		pr.AddActiveWorkspaces(1)
		pr.IncToolResolution(false)
		pr.IncGeneration("api_error")
		pr.AddSweptWorkspaces(1)
		pr.AddPrunedJobs(1)
	})
}

func TestHTTPHandler(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncToolResolution(false)

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `docforge_tool_resolutions_total{result="failed"} 1`)
}
