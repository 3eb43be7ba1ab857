package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niprotogeros/epw-visualizer/internal/adapter/httpapi"
	"github.com/niprotogeros/epw-visualizer/internal/epw"
	"github.com/niprotogeros/epw-visualizer/internal/observability"
	"github.com/niprotogeros/epw-visualizer/internal/pipeline"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(readyErr error) *httpapi.Server {
	p := pipeline.New(discardLogger(), observability.NewMetricsForTesting(), epw.DefaultUnifiedYear, nil, nil)
	ready := httpapi.ReadyFunc(func(context.Context) error { return readyErr })
	return httpapi.NewServer(":0", p, ready, discardLogger(), 1<<20)
}

// validEPW is a minimal single-row EPW payload.
func validEPW() []byte {
	lines := []string{
		"LOCATION,Testville,ST,USA,TMY3,999999,40.0,-105.0,-7.0,1650.0",
		"x", "x", "x", "x", "x", "x", "x",
	}
	filler := strings.TrimSuffix(strings.Repeat("1.0,", 30), ",")
	lines = append(lines, "2000,1,1,1,60,"+filler)
	return []byte(strings.Join(lines, "\n"))
}

func TestParseEndpointReturnsResult(t *testing.T) {
	srv := newTestServer(nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/parse", bytes.NewReader(validEPW()))

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var result pipeline.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.NotNil(t, result.Dataset)
	assert.Len(t, result.Dataset.Records, 1)
	assert.Equal(t, "Testville", result.Metadata.City)
	assert.NotEmpty(t, result.Diagnostics)
}

func TestParseEndpointFatalInputReturns422(t *testing.T) {
	srv := newTestServer(nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/parse", strings.NewReader("not an epw file"))

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var result pipeline.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Nil(t, result.Dataset)
	assert.Equal(t, "Unknown", result.Metadata.City)
	assert.NotEmpty(t, result.Diagnostics, "diagnostics explain the failure")
}

func TestParseEndpointEmptyBodyReturns400(t *testing.T) {
	srv := newTestServer(nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/parse", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParseEndpointOversizedBodyReturns413(t *testing.T) {
	srv := newTestServer(nil)
	rec := httptest.NewRecorder()
	big := bytes.Repeat([]byte("a"), 2<<20)
	req := httptest.NewRequest(http.MethodPost, "/v1/parse", bytes.NewReader(big))

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestParseEndpointRejectsGet(t *testing.T) {
	srv := newTestServer(nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/parse", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestFieldsEndpoint(t *testing.T) {
	srv := newTestServer(nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/fields", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string][]epw.FieldSpec
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body["time"], 5)
	assert.Len(t, body["data"], 14)
	assert.Equal(t, "dry_bulb_temperature", body["data"][0].Name)
	assert.Equal(t, 6, body["data"][0].Column)
}

func TestHealthzReturns200(t *testing.T) {
	srv := newTestServer(nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyzReturns200WhenReady(t *testing.T) {
	srv := newTestServer(nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
}

func TestReadyzReturns503WhenNotReady(t *testing.T) {
	srv := newTestServer(fmt.Errorf("db unreachable"))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body["status"])
	assert.Equal(t, "db unreachable", body["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
