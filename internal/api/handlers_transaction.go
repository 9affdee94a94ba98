package api

import (
	"net/http"
	"strconv"

	"github.com/finance-dashboard/internal/service"
	"github.com/gorilla/mux"
)

// maxUploadSize caps CSV uploads at 10 MiB
const maxUploadSize = 10 << 20

// handleCreateTransaction handles POST /api/transactions
func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Authentication required", nil)
		return
	}

	var req service.CreateTransactionInput
	if err := parseJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	txn, err := s.transactionService.Create(r.Context(), userID, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, txn)
}

// handleListTransactions handles GET /api/transactions?limit=&skip=
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Authentication required", nil)
		return
	}

	limit := queryInt(r, "limit", 0)
	offset := queryInt(r, "skip", 0)

	transactions, err := s.transactionService.List(r.Context(), userID, limit, offset)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, transactions)
}

// handleDeleteTransaction handles DELETE /api/transactions/:id
func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Authentication required", nil)
		return
	}

	transactionID := mux.Vars(r)["id"]

	if err := s.transactionService.Delete(r.Context(), transactionID, userID); err != nil {
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleUploadTransactions handles POST /api/transactions/upload with a
// multipart CSV file. The optional account_id form field picks the target
// account; without it the batch lands in the caller's first account.
func (s *Server) handleUploadTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Authentication required", nil)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "Invalid multipart form", nil)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, ErrCodeInvalidInput, "A file field is required", nil)
		return
	}
	defer file.Close()

	accountID := r.FormValue("account_id")

	result, err := s.ingestService.UploadCSV(r.Context(), userID, accountID, file)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, result)
}

// queryInt parses an integer query parameter with a default
func queryInt(r *http.Request, key string, defaultValue int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return value
}
