package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/config"
	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/pipeline"
	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/store"
)

// testServer wires a server around an offline service: no provider or
// search credentials, memory-only persistence.
func testServer(t *testing.T) *Server {
	t.Helper()
	cfg := &config.Config{
		ProbeTimeout:    time.Second,
		FetchTimeout:    time.Second,
		SearchTimeout:   time.Second,
		GenerateTimeout: time.Second,
	}
	svc := pipeline.NewService(cfg, store.NewLayered(store.NewMemoryStore()))
	return New(Config{Port: 0}, svc)
}

func doRequest(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr *strings.Reader
	if body == "" {
		rdr = strings.NewReader("")
	} else {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHandleAnalyzeAmbiguousSubject(t *testing.T) {
	srv := testServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/analyze", `{"input":"apple"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["needs_disambiguation"])
	options, ok := body["options"].([]any)
	require.True(t, ok)
	assert.GreaterOrEqual(t, len(options), 2)
}

func TestHandleAnalyzeValidation(t *testing.T) {
	srv := testServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"input":`},
		{"missing input", `{}`},
		{"empty input", `{"input":""}`},
		{"input too long", `{"input":"` + strings.Repeat("a", 301) + `"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, srv, http.MethodPost, "/analyze", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			body := decodeBody(t, rec)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestHandleGetJobUnknown(t *testing.T) {
	srv := testServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/jobs/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	body := decodeBody(t, rec)
	assert.Contains(t, body["error"], "not found")
}

func TestHandleGetJobInvalidID(t *testing.T) {
	srv := testServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/jobs/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGetIdeaUnknown(t *testing.T) {
	srv := testServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/ideas/"+uuid.NewString(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleGeneratePlanUnknownIdea(t *testing.T) {
	srv := testServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/ideas/"+uuid.NewString()+"/plan", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleCreateCustomIdeaValidation(t *testing.T) {
	srv := testServer(t)
	path := "/jobs/" + uuid.NewString() + "/ideas"

	// Too short, too long and missing descriptions fail before any
	// lookup happens.
	tests := []struct {
		name string
		body string
	}{
		{"too short", `{"description":"tiny"}`},
		{"too long", `{"description":"` + strings.Repeat("a", 601) + `"}`},
		{"missing", `{}`},
		{"malformed", `{"description"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, srv, http.MethodPost, path, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandleCreateCustomIdeaUnknownJob(t *testing.T) {
	srv := testServer(t)

	desc := strings.Repeat("a concrete prototype description ", 3)
	rec := doRequest(t, srv, http.MethodPost, "/jobs/"+uuid.NewString()+"/ideas",
		`{"description":"`+desc+`"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleRegenerateIdeaEmptyBodyAllowed(t *testing.T) {
	srv := testServer(t)

	// An empty body is valid for regeneration; the idea lookup still 404s.
	rec := doRequest(t, srv, http.MethodPost, "/ideas/"+uuid.NewString()+"/regenerate", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleRegenerateIdeaValidatesChunkedBody(t *testing.T) {
	srv := testServer(t)

	// Wrapping the reader leaves ContentLength at -1, as a chunked request
	// would. A too-short description must still fail validation.
	body := io.MultiReader(strings.NewReader(`{"description":"tiny"}`))
	req := httptest.NewRequest(http.MethodPost, "/ideas/"+uuid.NewString()+"/regenerate", body)
	require.Equal(t, int64(-1), req.ContentLength)

	rec := httptest.NewRecorder()
	srv.httpServer.Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	srv := testServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])
}

func TestCORSHeaders(t *testing.T) {
	srv := testServer(t)

	rec := doRequest(t, srv, http.MethodOptions, "/analyze", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(&store.NotFoundError{Kind: "job", ID: "x"}))
	assert.Equal(t, http.StatusConflict, HTTPStatus(&pipeline.NotReadyError{ID: uuid.New()}))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(&ErrValidation{Field: "input", Message: "required"}))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(assert.AnError))
}
