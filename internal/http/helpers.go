package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"finances/internal/services"
	"finances/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// writeError translates the core's error taxonomy onto HTTP statuses:
// validation problems are the caller's fault, missing entities are 404,
// store failures are upstream errors, and a partial transfer gets its own
// kind so clients can present the reconciliation case distinctly.
func writeError(w http.ResponseWriter, err error) {
	var (
		validationErr *services.ValidationError
		excessErr     *services.ExcessPaymentError
		partialErr    *services.PartialTransferError
	)
	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: "validation"})
	case errors.As(err, &excessErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: "excess_payment"})
	case errors.As(err, &partialErr):
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error(), Kind: "partial_transfer"})
	case store.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error(), Kind: "not_found"})
	case store.KindOf(err) == store.KindValidation:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: "validation"})
	default:
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error(), Kind: "store"})
	}
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body: " + err.Error(), Kind: "validation"})
		return false
	}
	return true
}
