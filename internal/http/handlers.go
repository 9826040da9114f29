package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"ecospend/internal/cache"
	"ecospend/internal/core"
	"ecospend/internal/ingest"
)

type predictResponse struct {
	AnalysisID int64                `json:"analysis_id"`
	Results    []core.MonthlyResult `json:"results"`
}

type predictTextRequest struct {
	Text string `json:"text"`
	Date string `json:"date"`
}

type analysisResponse struct {
	AnalysisID int64                `json:"analysis_id"`
	CreatedAt  string               `json:"created_at"`
	Source     string               `json:"source"`
	RowCount   int                  `json:"row_count"`
	Results    []core.MonthlyResult `json:"results"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handlePredict accepts a multipart CSV upload under "file", or form fields
// "text" plus optional "date". The file wins when both are present.
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "invalid form body")
			return
		}
	}

	if file, _, err := r.FormFile("file"); err == nil {
		defer file.Close()

		payload, err := io.ReadAll(file)
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to read uploaded file")
			return
		}

		records, err := ingest.ParseCSV(payload)
		if err != nil {
			slog.WarnContext(r.Context(), "CSV parse failed", "error", err)
			writeError(w, http.StatusBadRequest, "invalid CSV file")
			return
		}

		s.analyze(w, r, "csv", payload, records)
		return
	}

	text := strings.TrimSpace(r.FormValue("text"))
	if text == "" {
		writeError(w, http.StatusBadRequest, "file or text is required")
		return
	}
	date := strings.TrimSpace(r.FormValue("date"))

	payload := []byte("text\x00" + date + "\x00" + text)
	s.analyze(w, r, "text", payload, ingest.ParseText(text, date))
}

// handlePredictText accepts a JSON body {"text": ..., "date": ...}.
func (s *Server) handlePredictText(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	var req predictTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	payload := []byte("text\x00" + req.Date + "\x00" + text)
	s.analyze(w, r, "text", payload, ingest.ParseText(text, req.Date))
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid analysis id")
		return
	}

	analysis, results, err := s.service.Get(r.Context(), id)
	if err != nil {
		slog.WarnContext(r.Context(), "Analysis lookup failed", "analysis_id", id, "error", err)
		writeError(w, http.StatusNotFound, fmt.Sprintf("analysis %d not found", id))
		return
	}

	writeJSON(w, http.StatusOK, analysisResponse{
		AnalysisID: analysis.ID,
		CreatedAt:  analysis.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		Source:     analysis.Source,
		RowCount:   analysis.RowCount,
		Results:    results,
	})
}

// analyze runs the pipeline behind the payload-checksum cache.
func (s *Server) analyze(w http.ResponseWriter, r *http.Request, source string, payload []byte, records []core.Record) {
	key := cache.Key(payload)
	if entry, ok := s.results.Get(key); ok {
		slog.InfoContext(r.Context(), "Serving cached analysis",
			"analysis_id", entry.AnalysisID, "source", source)
		writeJSON(w, http.StatusOK, predictResponse{
			AnalysisID: entry.AnalysisID,
			Results:    entry.Results,
		})
		return
	}

	analysisID, results, err := s.service.Analyze(r.Context(), source, records)
	if err != nil {
		if errors.Is(err, core.ErrNoUsableRecords) {
			writeError(w, http.StatusBadRequest, "no usable records")
			return
		}
		slog.ErrorContext(r.Context(), "Analysis failed", "source", source, "error", err)
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	s.results.Set(key, cache.Entry{AnalysisID: analysisID, Results: results})

	writeJSON(w, http.StatusOK, predictResponse{AnalysisID: analysisID, Results: results})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
