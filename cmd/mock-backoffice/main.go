// Command mock-backoffice serves canned customer and product snapshots so the
// affiliation API can run locally without the real back-office services.
package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"

	"github.com/mguerra/affiliation-service/internal/domain"
	"github.com/mguerra/affiliation-service/internal/logging"
)

var customers = map[string]domain.Customer{
	"C1": {ID: "C1", Segment: domain.SegmentEnterprise},
	"C2": {ID: "C2", Segment: domain.SegmentPersonal},
}

var accounts = map[string]domain.Account{
	"A1": {ID: "A1", Kind: domain.AccountKindChecking},
	"A2": {ID: "A2", Kind: domain.AccountKindSavings},
	"A3": {ID: "A3", Kind: domain.AccountKindFixedTerm},
}

var credits = map[string]domain.Credit{
	"CR1": {ID: "CR1", Kind: domain.CreditKindEnterpriseLoan},
	"CR2": {ID: "CR2", Kind: domain.CreditKindEnterpriseCard},
	"CR3": {ID: "CR3", Kind: domain.CreditKindPersonalLoan},
	"CR4": {ID: "CR4", Kind: domain.CreditKindPersonalCard},
}

func main() {
	logging.Init("mock-backoffice", "info", os.Getenv("APP_ENV"))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /customers/{id}", serveSnapshot(customers))
	mux.HandleFunc("GET /products/accounts/{id}", serveSnapshot(accounts))
	mux.HandleFunc("GET /products/credits/{id}", serveSnapshot(credits))

	slog.Info("mock backoffice started", "addr", ":8081")
	if err := http.ListenAndServe(":8081", mux); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func serveSnapshot[T any](store map[string]T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, ok := store[r.PathValue("id")]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
			return
		}
		writeJSON(w, http.StatusOK, snapshot)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}
