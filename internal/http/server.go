// Package http exposes the derived ledger views and the money-movement
// operations as a JSON API. Handlers fetch a fresh snapshot per request
// and hand it to the ledger engine; nothing is cached between requests.
package http

import (
	"net/http"
	"time"

	"finances/internal/services"
	"finances/internal/store"
)

type Server struct {
	store         store.EntityStore
	movements     *services.MovementService
	userID        int64
	historyPoints int
}

// NewServer wires the API routes and returns a configured *http.Server
// listening on addr.
func NewServer(addr string, st store.EntityStore, movements *services.MovementService, userID int64, historyPoints int) *http.Server {
	s := &Server{
		store:         st,
		movements:     movements,
		userID:        userID,
		historyPoints: historyPoints,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/accounts/{id}/history", s.handleAccountHistory)
	mux.HandleFunc("GET /api/transactions", s.handleTransactions)
	mux.HandleFunc("POST /api/transfers", s.handleTransfer)
	mux.HandleFunc("POST /api/debts/{id}/payments", s.handleDebtPayment)

	return &http.Server{
		Addr:           addr,
		Handler:        mux,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
