// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/fedicontest/ledger"
	"github.com/danielhkuo/fedicontest/middleware"
)

// ResultsHandler serves the final tallies once the result window opens.
type ResultsHandler struct {
	ledger *ledger.Ledger
}

func NewResultsHandler(ledger *ledger.Ledger) *ResultsHandler {
	return &ResultsHandler{ledger: ledger}
}

// GetLiteratureResults handles GET /api/contest/result/literature
func (h *ResultsHandler) GetLiteratureResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.ledger.ListLiteratureResults(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, results)
}

// GetArtResults handles GET /api/contest/result/art
func (h *ResultsHandler) GetArtResults(w http.ResponseWriter, r *http.Request) {
	results, err := h.ledger.ListArtResults(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, results)
}
