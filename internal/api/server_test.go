package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/connection-matcher/backend/internal/api"
	"github.com/connection-matcher/backend/internal/config"
	"github.com/connection-matcher/backend/internal/engine"
	"github.com/connection-matcher/backend/internal/metrics"
)

func setupServer(t *testing.T) *api.Server {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{Port: "0"},
		Index: config.IndexConfig{
			MaxVocabulary:   10000,
			NgramMin:        1,
			NgramMax:        2,
			DefaultTopK:     10,
			MaxTopK:         100,
			DefaultMinScore: 0.8,
		},
	}

	logger := logrus.New().WithField("test", "api")
	m := metrics.New(prometheus.NewRegistry())
	eng := engine.NewEngine(cfg, logger, nil, m)
	return api.NewServer(eng, logger)
}

func doJSON(t *testing.T, server *api.Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(method, path, strings.NewReader(body))
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	server.Router.ServeHTTP(rr, req)
	return rr
}

const uploadBody = `{"people": [
	{"id": "p1", "name": "Dana Ellis", "employment": "chief executive officer of Acme Corp 2010-2015", "board_service": "Acme community trust"},
	{"id": "p2", "name": "Rob Vance", "employment": "retired", "board_service": "no known board roles"},
	{"id": "p3", "name": "Mia Cho", "employment": "litigation counsel", "board_service": "legal aid society"}
]}`

func TestHandleHealth(t *testing.T) {
	server := setupServer(t)

	rr := doJSON(t, server, http.MethodGet, "/api/v1/health", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp api.HealthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.False(t, resp.DatasetLoaded)
	assert.Zero(t, resp.DatasetSize)

	doJSON(t, server, http.MethodPost, "/api/v1/upload", uploadBody)

	rr = doJSON(t, server, http.MethodGet, "/api/v1/health", "")
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.DatasetLoaded)
	assert.Equal(t, 3, resp.DatasetSize)
}

func TestHandleUpload(t *testing.T) {
	server := setupServer(t)

	rr := doJSON(t, server, http.MethodPost, "/api/v1/upload", uploadBody)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp api.UploadResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, 3, resp.RowsLoaded)
}

func TestHandleUploadRejectsBadInput(t *testing.T) {
	server := setupServer(t)

	rr := doJSON(t, server, http.MethodPost, "/api/v1/upload", "{not json")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(t, server, http.MethodPost, "/api/v1/upload", `{"people": []}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(t, server, http.MethodGet, "/api/v1/upload", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestHandleMatch(t *testing.T) {
	server := setupServer(t)
	doJSON(t, server, http.MethodPost, "/api/v1/upload", uploadBody)

	rr := doJSON(t, server, http.MethodPost, "/api/v1/match",
		`{"query": "Acme executive", "top_k": 10, "min_score": 0.5}`)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp api.MatchResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "Acme executive", resp.Query)
	require.NotZero(t, resp.TotalMatches)

	top := resp.Matches[0]
	assert.Equal(t, "p1", top.RecordID)
	assert.Equal(t, "Dana Ellis", top.Name)
	assert.Equal(t, 1, top.Rank)
	assert.Equal(t, 1.0, top.Score)
}

func TestHandleMatchDefaults(t *testing.T) {
	server := setupServer(t)
	doJSON(t, server, http.MethodPost, "/api/v1/upload", uploadBody)

	// top_k and min_score omitted: defaults (10, 0.8) apply.
	rr := doJSON(t, server, http.MethodPost, "/api/v1/match", `{"query": "Acme executive"}`)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp api.MatchResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	for _, m := range resp.Matches {
		assert.GreaterOrEqual(t, m.Score, 0.8)
	}
}

func TestHandleMatchNoResults(t *testing.T) {
	server := setupServer(t)
	doJSON(t, server, http.MethodPost, "/api/v1/upload", uploadBody)

	rr := doJSON(t, server, http.MethodPost, "/api/v1/match",
		`{"query": "deep sea welding", "min_score": 0.9}`)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp api.MatchResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Zero(t, resp.TotalMatches)
	assert.Empty(t, resp.Matches)
}

func TestHandleMatchValidation(t *testing.T) {
	server := setupServer(t)
	doJSON(t, server, http.MethodPost, "/api/v1/upload", uploadBody)

	tests := []struct {
		name string
		body string
	}{
		{"Empty query", `{"query": ""}`},
		{"Whitespace query", `{"query": "   "}`},
		{"Zero top_k", `{"query": "acme", "top_k": 0}`},
		{"top_k above cap", `{"query": "acme", "top_k": 101}`},
		{"Negative min_score", `{"query": "acme", "min_score": -0.1}`},
		{"min_score above one", `{"query": "acme", "min_score": 1.5}`},
		{"Invalid JSON", `{"query":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doJSON(t, server, http.MethodPost, "/api/v1/match", tt.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestHandleMatchWithoutDataset(t *testing.T) {
	server := setupServer(t)

	rr := doJSON(t, server, http.MethodPost, "/api/v1/match", `{"query": "acme"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "No dataset loaded")
}

func TestHandleExport(t *testing.T) {
	server := setupServer(t)

	body := `{"matches": [
		{"record_id": "p1", "name": "Dana Ellis", "employment": "CEO", "board_service": "Acme trust", "score": 1.0, "rank": 1},
		{"record_id": "p3", "name": "Mia Cho", "employment": "counsel", "board_service": "legal aid", "score": 0.82, "rank": 2}
	]}`
	rr := doJSON(t, server, http.MethodPost, "/api/v1/export", body)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "board_matches.xlsx")

	workbook, err := excelize.OpenReader(bytes.NewReader(rr.Body.Bytes()))
	require.NoError(t, err)
	defer workbook.Close()

	rows, err := workbook.GetRows("Matches")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Name", "Employment", "Board Service", "Match Score", "Rank"}, rows[0])
	assert.Equal(t, "Dana Ellis", rows[1][0])
	assert.Equal(t, "2", rows[2][4])
}

func TestHandleExportRejectsEmpty(t *testing.T) {
	server := setupServer(t)

	rr := doJSON(t, server, http.MethodPost, "/api/v1/export", `{"matches": []}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
