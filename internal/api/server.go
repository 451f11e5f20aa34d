package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/connection-matcher/backend/internal/engine"
	"github.com/connection-matcher/backend/internal/export"
	"github.com/connection-matcher/backend/internal/search"
	"github.com/connection-matcher/backend/internal/storage"
)

type Server struct {
	Engine *engine.Engine
	Logger *logrus.Entry
	Router *http.ServeMux
}

func NewServer(eng *engine.Engine, logger *logrus.Entry) *Server {
	s := &Server{
		Engine: eng,
		Logger: logger,
		Router: http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.Router.HandleFunc("/api/v1/health", s.handleHealth)
	s.Router.HandleFunc("/api/v1/upload", s.handleUpload)
	s.Router.HandleFunc("/api/v1/match", s.handleMatch)
	s.Router.HandleFunc("/api/v1/export", s.handleExport)
	s.Router.Handle("/metrics", promhttp.Handler())
}

func (s *Server) Start(addr string) error {
	s.Logger.Infof("Starting API Server on %s", addr)
	return http.ListenAndServe(addr, s.Router)
}

// Requests and responses

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status        string `json:"status"`
	DatasetLoaded bool   `json:"dataset_loaded"`
	DatasetSize   int    `json:"dataset_size"`
}

type UploadRequest struct {
	People []storage.Person `json:"people"`
}

type UploadResponse struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	RowsLoaded int    `json:"rows_loaded"`
}

type MatchRequest struct {
	Query string `json:"query"`
	// Pointers so an explicit 0 is distinguishable from an omitted field.
	TopK     *int     `json:"top_k"`
	MinScore *float64 `json:"min_score"`
}

type MatchResultView struct {
	RecordID     string  `json:"record_id"`
	Name         string  `json:"name"`
	Employment   string  `json:"employment"`
	BoardService string  `json:"board_service"`
	Score        float64 `json:"score"`
	Rank         int     `json:"rank"`
}

type MatchResponse struct {
	Query        string            `json:"query"`
	TotalMatches int               `json:"total_matches"`
	Matches      []MatchResultView `json:"matches"`
}

type ExportRequest struct {
	Matches []MatchResultView `json:"matches"`
}

// Handlers

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	jsonResponse(w, http.StatusOK, HealthResponse{
		Status:        "healthy",
		DatasetLoaded: s.Engine.IsLoaded(),
		DatasetSize:   s.Engine.DatasetSize(),
	})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON"})
		return
	}

	if len(req.People) == 0 {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "Dataset must contain at least one person"})
		return
	}

	if err := s.Engine.LoadDataset(req.People); err != nil {
		s.Logger.WithError(err).Error("Failed to load dataset")
		jsonResponse(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	jsonResponse(w, http.StatusOK, UploadResponse{
		Status:     "success",
		Message:    "Dataset uploaded and indexed successfully",
		RowsLoaded: len(req.People),
	})
}

func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON"})
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "Query cannot be empty"})
		return
	}

	indexCfg := s.Engine.Config.Index

	topK := indexCfg.DefaultTopK
	if req.TopK != nil {
		topK = *req.TopK
	}
	if topK < 1 || topK > indexCfg.MaxTopK {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "top_k must be between 1 and " + strconv.Itoa(indexCfg.MaxTopK)})
		return
	}

	minScore := indexCfg.DefaultMinScore
	if req.MinScore != nil {
		minScore = *req.MinScore
	}
	if minScore < 0 || minScore > 1 {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "min_score must be between 0.0 and 1.0"})
		return
	}

	results, err := s.Engine.Match(req.Query, topK, minScore)
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrNoDataset):
			jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "No dataset loaded. Please upload a dataset first."})
		case errors.Is(err, search.ErrEmptyQuery),
			errors.Is(err, search.ErrInvalidTopK),
			errors.Is(err, search.ErrInvalidMinScore):
			jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			s.Logger.WithError(err).Error("Match failed")
			jsonResponse(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		}
		return
	}

	matches := make([]MatchResultView, len(results))
	for i, res := range results {
		matches[i] = MatchResultView{
			RecordID:     res.Record.ID,
			Name:         res.Record.Name,
			Employment:   res.Record.Fields[engine.FieldEmployment],
			BoardService: res.Record.Fields[engine.FieldBoardService],
			Score:        res.Score,
			Rank:         res.Rank,
		}
	}

	jsonResponse(w, http.StatusOK, MatchResponse{
		Query:        req.Query,
		TotalMatches: len(matches),
		Matches:      matches,
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON"})
		return
	}

	if len(req.Matches) == 0 {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "No matches to export"})
		return
	}

	rows := make([]export.Row, len(req.Matches))
	for i, m := range req.Matches {
		rows[i] = export.Row{
			Name:         m.Name,
			Employment:   m.Employment,
			BoardService: m.BoardService,
			Score:        m.Score,
			Rank:         m.Rank,
		}
	}

	workbook, err := export.Workbook(rows)
	if err != nil {
		s.Logger.WithError(err).Error("Failed to build export workbook")
		jsonResponse(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename=board_matches.xlsx`)
	w.WriteHeader(http.StatusOK)
	w.Write(workbook.Bytes())
}

func jsonResponse(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
