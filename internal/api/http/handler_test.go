package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"log/slog"

	"github.com/stretchr/testify/assert"

	"github.com/bbockelm/cellpainting-download/internal/domain"
)

type mockStatusSource struct{}

func (m *mockStatusSource) Status() domain.FetchStatus {
	return domain.FetchStatus{
		Measurement: "plate1/wellA",
		Stage:       domain.StageMirroring,
		StartedAt:   time.Now(),
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStatusHandler_GetStatus(t *testing.T) {
	handler := NewStatusHandler(&mockStatusSource{}, testLogger())

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	w := httptest.NewRecorder()

	handler.GetStatus(w, req)

	resp := w.Result()
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var status domain.FetchStatus
	_ = json.NewDecoder(resp.Body).Decode(&status)
	assert.Equal(t, "plate1/wellA", status.Measurement)
	assert.Equal(t, domain.StageMirroring, status.Stage)
}

func TestRouter_Endpoints(t *testing.T) {
	r := NewRouter(&mockStatusSource{}, testLogger())

	for _, path := range []string{"/health", "/status", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Result().StatusCode, "path %s", path)
	}
}
