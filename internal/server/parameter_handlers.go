package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/labtrack/backend/internal/auth"
	"github.com/labtrack/backend/internal/extraction"
	"github.com/labtrack/backend/internal/store"
)

type ingestRequest struct {
	Parameters []extraction.Parameter `json:"parameters"`
}

type ingestResponse struct {
	Added      int                   `json:"added"`
	Skipped    int                   `json:"skipped"`
	Errors     int                   `json:"errors"`
	Parameters []*store.LabParameter `json:"parameters"`
}

func (s *Server) handleListParameters(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())

	params, err := s.parameters.List(r.Context(), identity.UserID)
	if err != nil {
		s.logger.Error().Err(err).Msg("list parameters failed")
		writeError(w, http.StatusInternalServerError, "failed to fetch lab parameters")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"parameters": params})
}

func (s *Server) handleIngestParameters(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())

	var req ingestRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Parameters) == 0 {
		writeError(w, http.StatusBadRequest, "parameters array is required")
		return
	}

	result, inserted := s.parameters.Ingest(r.Context(), identity.UserID, req.Parameters)
	writeJSON(w, http.StatusOK, ingestResponse{
		Added:      result.Added,
		Skipped:    result.Skipped,
		Errors:     result.Errors,
		Parameters: inserted,
	})
}

func (s *Server) handleDeleteAllParameters(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())

	count, err := s.parameters.DeleteAll(r.Context(), identity.UserID)
	if err != nil {
		s.logger.Error().Err(err).Msg("delete all parameters failed")
		writeError(w, http.StatusInternalServerError, "failed to delete lab parameters")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"deletedCount": count})
}

func (s *Server) handleDeleteParameter(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	paramID := chi.URLParam(r, "id")

	if err := s.parameters.Delete(r.Context(), identity.UserID, paramID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "lab parameter not found")
			return
		}
		s.logger.Error().Err(err).Msg("delete parameter failed")
		writeError(w, http.StatusInternalServerError, "failed to delete lab parameter")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())

	stats, err := s.parameters.GetStats(r.Context(), identity.UserID)
	if err != nil {
		s.logger.Error().Err(err).Msg("stats failed")
		writeError(w, http.StatusInternalServerError, "failed to compute stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())

	trends, err := s.parameters.GetTrends(r.Context(), identity.UserID)
	if err != nil {
		s.logger.Error().Err(err).Msg("trends failed")
		writeError(w, http.StatusInternalServerError, "failed to compute trends")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"trends": trends})
}
