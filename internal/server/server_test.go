package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/acrostic/internal/config"
	"github.com/matzehuels/acrostic/pkg/acrostic"
	errs "github.com/matzehuels/acrostic/pkg/errors"
	"github.com/matzehuels/acrostic/pkg/observability"
	"github.com/matzehuels/acrostic/pkg/pipeline"
)

const lyrics = "...I bomb atomically, socrates, ^^^philosophies and hypoth&&&ses can't define h***ow I be dropping these mockeries..."

func newTestServer(t *testing.T, cfg *config.Config, metrics http.Handler) *httptest.Server {
	t.Helper()
	logger := log.New(io.Discard)
	srv := New(pipeline.NewRunner(nil, nil, logger), cfg, logger, metrics)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, ts *httptest.Server, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	resp, err := ts.Client().Post(ts.URL+path, "application/json", &buf)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestArrange(t *testing.T) {
	ts := newTestServer(t, nil, nil)

	resp := post(t, ts, "/v1/arrange", ArrangeRequest{Text: lyrics, Token: "cebi"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	body := decode[ArrangeResponse](t, resp)
	assert.Equal(t, "      Cant\n     dEfine\nhow i Be\n droppIng", body.Text)
	assert.Equal(t, 6, body.Column)
	assert.Equal(t, 13.0, body.Cost)
	assert.Equal(t, 24, body.Cap)
	assert.Len(t, body.Lines, 4)
	assert.False(t, body.Cached)

	_, err := uuid.Parse(body.ID)
	assert.NoError(t, err)
	assert.Equal(t, body.ID, resp.Header.Get(requestIDHeader))
}

func TestArrangeKeepsCallerRequestID(t *testing.T) {
	ts := newTestServer(t, nil, nil)
	id := uuid.NewString()

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/v1/arrange",
		strings.NewReader(`{"text":"Sometimes under the sun","token":"tus"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(requestIDHeader, id)

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, id, resp.Header.Get(requestIDHeader))
	assert.Equal(t, id, decode[ArrangeResponse](t, resp).ID)
}

func TestArrangeCustomBounds(t *testing.T) {
	ts := newTestServer(t, nil, nil)
	text := "a " + strings.Repeat("x", 30) + " b"

	resp := post(t, ts, "/v1/arrange", ArrangeRequest{Text: text, Token: "ab", CapSchedule: []int{24}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = post(t, ts, "/v1/arrange", ArrangeRequest{Text: text, Token: "ab"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 32, decode[ArrangeResponse](t, resp).Cap)
}

func TestArrangeConfigDefaults(t *testing.T) {
	cfg := config.Default()
	cfg.Layout.CapSchedule = []int{24}
	ts := newTestServer(t, cfg, nil)

	text := "a " + strings.Repeat("x", 30) + " b"
	resp := post(t, ts, "/v1/arrange", ArrangeRequest{Text: text, Token: "ab"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, "configured schedule stops at 24")

	resp = post(t, ts, "/v1/arrange", ArrangeRequest{Text: text, Token: "ab", CapSchedule: []int{40}})
	assert.Equal(t, http.StatusOK, resp.StatusCode, "request values win over config")
}

func TestArrangeErrors(t *testing.T) {
	ts := newTestServer(t, nil, nil)

	tests := []struct {
		name     string
		body     any
		status   int
		code     errs.Code
		sentinel string
	}{
		{"infeasible", ArrangeRequest{Text: "alpha beta gamma", Token: "az"}, 422, errs.ErrCodeInfeasible, acrostic.Sentinel},
		{"too many letters", ArrangeRequest{Text: "aaa", Token: "aaaa"}, 422, errs.ErrCodeTokenTooLong, acrostic.Sentinel},
		{"empty text", ArrangeRequest{Token: "aba"}, 422, errs.ErrCodeEmptyInput, acrostic.Sentinel},
		{"control characters", ArrangeRequest{Text: "a\x01b", Token: "ab"}, 422, errs.ErrCodeInvalidInput, ""},
		{"bad options", ArrangeRequest{Text: "a b", Token: "ab", MinLineChars: -1}, 422, errs.ErrCodeInvalidConfig, ""},
		{"malformed json", `{"text": `, 400, errs.ErrCodeInvalidFormat, ""},
		{"unknown field", `{"text":"a b","token":"ab","colour":"red"}`, 400, errs.ErrCodeInvalidFormat, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts, "/v1/arrange", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)

			body := decode[ErrorResponse](t, resp)
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.sentinel, body.Sentinel)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestArrangeBodyTooLarge(t *testing.T) {
	cfg := config.Default()
	cfg.Server.MaxBodyBytes = 64
	ts := newTestServer(t, cfg, nil)

	resp := post(t, ts, "/v1/arrange", ArrangeRequest{Text: strings.Repeat("word ", 100), Token: "w"})
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestArrangeRequiresJSON(t *testing.T) {
	ts := newTestServer(t, nil, nil)

	resp, err := ts.Client().Post(ts.URL+"/v1/arrange", "text/plain", strings.NewReader("lyrics"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestAlternatives(t *testing.T) {
	ts := newTestServer(t, nil, nil)

	resp := post(t, ts, "/v1/alternatives", ArrangeRequest{Text: lyrics, Token: "cebi"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[AlternativesResponse](t, resp)
	require.Len(t, body.Layouts, 2)
	assert.Equal(t, "      Cant\n     dEfine\nhow i Be\n droppIng", body.Layouts[0].Text)

	resp = post(t, ts, "/v1/alternatives?limit=1", ArrangeRequest{Text: lyrics, Token: "cebi"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[AlternativesResponse](t, resp).Layouts, 1)

	resp = post(t, ts, "/v1/alternatives?limit=zero", ArrangeRequest{Text: lyrics, Token: "cebi"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil, nil)

	resp, err := ts.Client().Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]any](t, resp)
	assert.Equal(t, "ok", body["status"])
	assert.Contains(t, body, "build")
}

func TestMetrics(t *testing.T) {
	hooks := observability.NewPrometheusHooks(nil)
	observability.SetHTTPHooks(hooks)
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	ts := newTestServer(t, nil, hooks.Handler())
	post(t, ts, "/v1/arrange", ArrangeRequest{Text: lyrics, Token: "cebi"})

	resp, err := ts.Client().Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(data), `acrostic_http_requests_total{method="POST",route="/v1/arrange",status="200"} 1`)
	assert.Contains(t, string(data), `acrostic_arrange_results_total{result="success"} 1`)
}

func TestMetricsDisabled(t *testing.T) {
	ts := newTestServer(t, nil, nil)
	resp, err := ts.Client().Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServeShutdown(t *testing.T) {
	logger := log.New(io.Discard)
	srv := New(pipeline.NewRunner(nil, nil, logger), nil, logger, nil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
