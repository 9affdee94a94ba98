package api

import (
	"net/http"

	"github.com/finance-dashboard/internal/service"
	"github.com/gorilla/mux"
)

// handleCreatePosition handles POST /api/investments
func (s *Server) handleCreatePosition(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Authentication required", nil)
		return
	}

	var req service.CreatePositionInput
	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	position, err := s.investmentService.CreatePosition(r.Context(), userID, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, position)
}

// handleListPositions handles GET /api/investments
func (s *Server) handleListPositions(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Authentication required", nil)
		return
	}

	positions, err := s.investmentService.ListPositions(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, positions)
}

// handleDeletePosition handles DELETE /api/investments/:id
func (s *Server) handleDeletePosition(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Authentication required", nil)
		return
	}

	positionID := mux.Vars(r)["id"]

	if err := s.investmentService.DeletePosition(r.Context(), positionID, userID); err != nil {
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleGetPerformance handles GET /api/investments/performance
func (s *Server) handleGetPerformance(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Authentication required", nil)
		return
	}

	performance, err := s.investmentService.GetPerformance(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, performance)
}
