// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/fedicontest/cliparse"
	"github.com/danielhkuo/fedicontest/contest"
	"github.com/danielhkuo/fedicontest/middleware"
	"github.com/danielhkuo/fedicontest/models"
)

// ContestHandler serves the contest directory: display name, enabled
// categories, and phase window status.
type ContestHandler struct {
	cfg  cliparse.Config
	gate *contest.Gate
}

func NewContestHandler(cfg cliparse.Config, gate *contest.Gate) *ContestHandler {
	return &ContestHandler{cfg: cfg, gate: gate}
}

// GetName handles GET /api/contest/name
func (h *ContestHandler) GetName(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(h.cfg.ContestName))
}

// GetEnabled handles GET /api/contest/enabled
func (h *ContestHandler) GetEnabled(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, models.GetEnabledResponse{
		Literature: h.gate.IsEnabled(contest.CategoryLiterature),
		Art:        h.gate.IsEnabled(contest.CategoryArt),
	})
}

// GetSubmissionOpened handles GET /api/contest/submission/opened
func (h *ContestHandler) GetSubmissionOpened(w http.ResponseWriter, r *http.Request) {
	h.opened(w, r, contest.PhaseSubmission)
}

// GetVotingOpened handles GET /api/contest/voting/opened
func (h *ContestHandler) GetVotingOpened(w http.ResponseWriter, r *http.Request) {
	h.opened(w, r, contest.PhaseVoting)
}

// GetResultOpened handles GET /api/contest/result/opened
func (h *ContestHandler) GetResultOpened(w http.ResponseWriter, r *http.Request) {
	h.opened(w, r, contest.PhaseResult)
}

func (h *ContestHandler) opened(w http.ResponseWriter, r *http.Request, phase contest.Phase) {
	category := contest.CategoryLiterature
	if q := r.URL.Query().Get("category"); q != "" {
		var err error
		category, err = contest.ParseCategory(q)
		if err != nil {
			writeError(w, err)
			return
		}
	}
	if !h.gate.IsEnabled(category) {
		writeError(w, contest.ErrFeatureDisabled)
		return
	}

	status := h.gate.Check(category, phase)
	middleware.JSONResponse(w, http.StatusOK, models.GetOpenedResponse{
		Opened:  status.Open,
		OpenAt:  status.OpensAt,
		CloseAt: status.ClosesAt,
	})
}
