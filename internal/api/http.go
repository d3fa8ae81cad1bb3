// Package api exposes the profile and tailoring pipeline over HTTP and MCP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tailorcv/tailorcv/internal/history"
	"github.com/tailorcv/tailorcv/internal/profile"
	"github.com/tailorcv/tailorcv/internal/tailor"
)

const maxTailorBodySize = 1 << 20 // 1MB

// Tailorer abstracts the tailoring pipeline for the API layer.
type Tailorer interface {
	Run(ctx context.Context, offer string) (tailor.Result, error)
}

type AppDeps struct {
	Profile  *profile.Store
	Pipeline Tailorer
	History  *history.Store // optional; if nil, runs are not recorded or listed
	Token    string
	Model    string
}

func NewAppHandler(deps AppDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(BearerAuth(deps.Token))

	r.Get("/profile", handleGetProfile(deps))
	r.Put("/profile/notes/{title}", handlePutNote(deps))
	r.Post("/tailor", handleTailor(deps))
	r.Get("/runs", handleListRuns(deps))

	return r
}

func handleGetProfile(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := deps.Profile.Load()
		if err != nil {
			if errors.Is(err, profile.ErrNotFound) {
				httpError(w, http.StatusNotFound, "not_found_error", "no profile exists yet")
				return
			}
			httpError(w, http.StatusInternalServerError, "api_error", "loading profile: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

type noteRequest struct {
	Note string `json:"note"`
}

func handlePutNote(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		title := chi.URLParam(r, "title")
		if title == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "note title is required")
			return
		}

		var req noteRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if req.Note == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "note is required")
			return
		}

		if err := deps.Profile.RecordAdaptationNote(title, req.Note); err != nil {
			if errors.Is(err, profile.ErrNotFound) {
				httpError(w, http.StatusNotFound, "not_found_error", "no profile exists yet")
				return
			}
			httpError(w, http.StatusInternalServerError, "api_error", "recording note: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"title": title, "note": req.Note})
	}
}

type tailorRequest struct {
	Offer string `json:"offer"`
}

type tailorResponse struct {
	JobTitle   string `json:"job_title"`
	Language   string `json:"language"`
	Summary    string `json:"summary"`
	OutputFile string `json:"output_file"`
}

func handleTailor(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxTailorBodySize)
		defer r.Body.Close()

		var req tailorRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}

		res, err := deps.Pipeline.Run(r.Context(), req.Offer)
		if err != nil {
			switch {
			case errors.Is(err, tailor.ErrEmptyOffer):
				httpError(w, http.StatusBadRequest, "invalid_request_error", "offer is required")
			case errors.Is(err, profile.ErrNotFound):
				httpError(w, http.StatusNotFound, "not_found_error", "no profile exists yet")
			default:
				httpError(w, http.StatusInternalServerError, "api_error", "tailoring failed: %v", err)
			}
			return
		}

		recordRun(deps, res)

		writeJSON(w, http.StatusOK, tailorResponse{
			JobTitle:   res.JobTitle,
			Language:   string(res.Language),
			Summary:    res.Summary,
			OutputFile: res.OutputFile,
		})
	}
}

func handleListRuns(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.History == nil {
			writeJSON(w, http.StatusOK, []history.Run{})
			return
		}

		limit := 20
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				httpError(w, http.StatusBadRequest, "invalid_request_error", "limit must be a positive integer")
				return
			}
			limit = n
		}

		runs, err := deps.History.ListRuns(limit)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "listing runs: %v", err)
			return
		}
		if runs == nil {
			runs = []history.Run{}
		}
		writeJSON(w, http.StatusOK, runs)
	}
}

func recordRun(deps AppDeps, res tailor.Result) {
	if deps.History == nil {
		return
	}
	_, err := deps.History.RecordRun(history.Run{
		JobTitle:   res.JobTitle,
		Language:   string(res.Language),
		Backend:    res.Backend,
		Model:      deps.Model,
		OutputFile: res.OutputFile,
	})
	if err != nil {
		// History is advisory; the tailored resume already exists.
		slog.Warn("could not record run", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
