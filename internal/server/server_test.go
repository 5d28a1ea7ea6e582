// internal/server/server_test.go
package server

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/bristermitten/hot-takes/internal/common/logger"
	"github.com/bristermitten/hot-takes/internal/datastore"
	"github.com/bristermitten/hot-takes/internal/generator"
	"github.com/bristermitten/hot-takes/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// ==========================
// Test Helper Functions
// ==========================

func createTestServer(t *testing.T, data *models.HotTakeData) *Server {
	store := datastore.NewStore(data)
	log := logger.NewTestLogger(t)
	return New(Options{
		Address:        "127.0.0.1:0",
		Generator:      generator.New(store, generator.NewSeededRandom(3), log),
		Store:          store,
		Logger:         log,
		MetricsHandler: http.NotFoundHandler(),
	})
}

func goData() *models.HotTakeData {
	data := models.Empty()
	data.Takes = []models.TakeDefinition{models.Template("{language} is fine", "fine.png")}
	data.Languages = []models.TakeItem{models.Bare("Go")}
	return data
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

// ==========================
// Take Endpoint Tests
// ==========================

func TestServer_Take(t *testing.T) {
	srv := createTestServer(t, goData())

	rec := get(t, srv.Handler(), "/take")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"take": "Go is fine", "images": ["fine.png"]}`, rec.Body.String())
}

func TestServer_Take_Extras(t *testing.T) {
	data := models.Empty()
	data.Takes = []models.TakeDefinition{models.Template("{person} is right")}
	srv := createTestServer(t, data)

	rec := get(t, srv.Handler(), "/take?extra=Ada")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"take": "Ada is right"}`, rec.Body.String())
}

func TestServer_Take_Errors(t *testing.T) {
	tooMany := models.Empty()
	tooMany.Takes = []models.TakeDefinition{models.Template("{language}", "1", "2", "3", "4")}
	tooMany.Languages = []models.TakeItem{models.WithImage("Go", "5")}

	tests := []struct {
		name string
		data *models.HotTakeData
		code string
	}{
		{name: "no templates", data: models.Empty(), code: "EMPTY_DATA"},
		{name: "too many images", data: tooMany, code: "TOO_MANY_IMAGES"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := createTestServer(t, tt.data)

			rec := get(t, srv.Handler(), "/take")

			require.Equal(t, http.StatusInternalServerError, rec.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body["code"])
			assert.Equal(t, false, body["retryable"])
		})
	}
}

func TestServer_Take_MethodNotAllowed(t *testing.T) {
	srv := createTestServer(t, goData())
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/take", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodGet, rec.Header().Get("Allow"))
}

// ==========================
// Health & Request Id Tests
// ==========================

func TestServer_HealthAndReady(t *testing.T) {
	tests := []struct {
		name       string
		data       *models.HotTakeData
		path       string
		wantStatus int
	}{
		{name: "health", data: models.Empty(), path: "/health", wantStatus: http.StatusOK},
		{name: "ready with takes", data: goData(), path: "/ready", wantStatus: http.StatusOK},
		{name: "not ready without takes", data: models.Empty(), path: "/ready", wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := createTestServer(t, tt.data)

			rec := get(t, srv.Handler(), tt.path)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), `"status"`)
		})
	}
}

func TestServer_RequestID(t *testing.T) {
	srv := createTestServer(t, goData())

	generated := get(t, srv.Handler(), "/health").Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
}

// ==========================
// Lifecycle Tests
// ==========================

func TestServer_ServeAndShutdown(t *testing.T) {
	srv := createTestServer(t, goData())
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(ctx, ln)
	}()

	client := &http.Client{
		Timeout:   5 * time.Second,
		Transport: &http.Transport{DisableKeepAlives: true},
	}
	resp, err := client.Get("http://" + ln.Addr().String() + "/take")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Go is fine")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}
