package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	docflow "github.com/shinZoro/docFlow"
)

type handler struct {
	pipe docflow.Pipeline
}

func newHandler(p docflow.Pipeline) *handler {
	return &handler{pipe: p}
}

// POST /intake
// Runs one input through classify -> extract -> persist.
func (h *handler) handleIntake(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	var req struct {
		Input string `json:"input"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Input == "" {
		writeError(w, http.StatusBadRequest, "input is required")
		return
	}

	res, err := h.pipe.Process(ctx, req.Input)
	if err != nil {
		writeError(w, intakeStatus(err), err.Error())
		slog.Error("intake error", "error", err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// intakeStatus maps pipeline failures to HTTP status codes. Bad input
// is the caller's problem; everything else is ours.
func intakeStatus(err error) int {
	switch {
	case errors.Is(err, docflow.ErrSourceUnavailable):
		return http.StatusNotFound
	case errors.Is(err, docflow.ErrClassification):
		return http.StatusUnprocessableEntity
	case errors.Is(err, docflow.ErrMalformedExtraction):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// POST /search
func (h *handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	var req struct {
		Query string `json:"query"`
		Limit int    `json:"limit,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}
	if req.Limit < 0 || req.Limit > 100 {
		req.Limit = 0 // use default
	}

	results, err := h.pipe.Search(ctx, req.Query, req.Limit)
	if err != nil {
		if errors.Is(err, docflow.ErrInvalidConfig) {
			writeError(w, http.StatusNotImplemented, "semantic search is not configured")
			return
		}
		writeError(w, http.StatusInternalServerError, "search failed")
		slog.Error("search error", "query", req.Query, "error", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
	})
}

// GET /records
func (h *handler) handleListRecords(w http.ResponseWriter, r *http.Request) {
	recs, err := h.pipe.Records(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list records")
		slog.Error("list records error", "error", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"records": recs,
	})
}

// GET /records/{id}
func (h *handler) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	idStr := r.PathValue("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid record id")
		return
	}

	rec, err := h.pipe.Record(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "record not found")
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// GET /export
// Streams the full record log as an XLSX workbook.
func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := h.pipe.ExportXLSX(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "export failed")
		slog.Error("export error", "error", err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="records.xlsx"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// GET /health
func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": fmt.Sprintf("%s", msg)})
}
