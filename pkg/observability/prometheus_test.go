package observability

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scrape fetches the metrics page in the plain text exposition format.
func scrape(t *testing.T, h *PrometheusHooks) string {
	t.Helper()
	rec := httptest.NewRecorder()
	h.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestPrometheusHooksPipeline(t *testing.T) {
	ctx := context.Background()
	h := NewPrometheusHooks(prom.NewRegistry())

	h.OnArrangeStart(ctx, 40, 4)
	h.OnAttempt(ctx, 24, false, 120)
	h.OnAttempt(ctx, 32, true, 150)
	h.OnArrangeComplete(ctx, 32, 3*time.Millisecond, nil)
	h.OnArrangeComplete(ctx, 0, time.Millisecond, errors.New("infeasible"))

	body := scrape(t, h)
	assert.Contains(t, body, `acrostic_arrange_results_total{result="success"} 1`)
	assert.Contains(t, body, `acrostic_arrange_results_total{result="failed"} 1`)
	assert.Contains(t, body, `acrostic_cap_attempts_total{cap="24",feasible="false"} 1`)
	assert.Contains(t, body, `acrostic_cap_attempts_total{cap="32",feasible="true"} 1`)
	assert.Contains(t, body, "acrostic_input_words_count 1")
}

func TestPrometheusHooksCache(t *testing.T) {
	ctx := context.Background()
	h := NewPrometheusHooks(nil)

	h.OnCacheMiss(ctx, "layout")
	h.OnCacheSet(ctx, "layout", 512)
	h.OnCacheHit(ctx, "layout")
	h.OnCacheHit(ctx, "layout")

	body := scrape(t, h)
	assert.Contains(t, body, `acrostic_cache_events_total{event="hit",key_type="layout"} 2`)
	assert.Contains(t, body, `acrostic_cache_events_total{event="miss",key_type="layout"} 1`)
	assert.Contains(t, body, "acrostic_cache_written_bytes_total 512")
}

func TestPrometheusHooksHTTP(t *testing.T) {
	ctx := context.Background()
	h := NewPrometheusHooks(nil)

	h.OnRequest(ctx, "POST", "/v1/arrange")
	assert.Contains(t, scrape(t, h), "acrostic_http_requests_in_flight 1")

	h.OnResponse(ctx, "POST", "/v1/arrange", 422, time.Millisecond)
	body := scrape(t, h)
	assert.Contains(t, body, "acrostic_http_requests_in_flight 0")
	assert.Contains(t, body, `acrostic_http_requests_total{method="POST",route="/v1/arrange",status="422"} 1`)
}

func TestPrometheusHooksSeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewPrometheusHooks(nil)
		NewPrometheusHooks(nil)
	})
}
