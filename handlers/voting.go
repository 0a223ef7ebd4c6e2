// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/fedicontest/identity"
	"github.com/danielhkuo/fedicontest/ledger"
	"github.com/danielhkuo/fedicontest/middleware"
	"github.com/danielhkuo/fedicontest/models"
)

// VotingHandler serves vote casting and per-voter vote state.
type VotingHandler struct {
	ledger *ledger.Ledger
	bridge *identity.Bridge
}

func NewVotingHandler(ledger *ledger.Ledger, bridge *identity.Bridge) *VotingHandler {
	return &VotingHandler{ledger: ledger, bridge: bridge}
}

// PostVote handles POST /api/contest/voting/{category}/{id}
func (h *VotingHandler) PostVote(w http.ResponseWriter, r *http.Request) {
	category, err := pathCategory(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	voter, err := requireIdentity(r, h.bridge)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.ledger.CastVote(r.Context(), voter, category, id); err != nil {
		writeError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, models.CastVoteResponse{OK: true})
}

// GetVote handles GET /api/contest/voting/{category}/{id}
func (h *VotingHandler) GetVote(w http.ResponseWriter, r *http.Request) {
	category, err := pathCategory(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	voter, err := requireIdentity(r, h.bridge)
	if err != nil {
		writeError(w, err)
		return
	}

	state, err := h.ledger.GetVoteState(r.Context(), voter, category, id)
	if err != nil {
		writeError(w, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, state)
}
