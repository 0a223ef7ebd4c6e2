// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/fedicontest/contest"
	"github.com/danielhkuo/fedicontest/identity"
	"github.com/danielhkuo/fedicontest/middleware"
)

// writeError maps domain errors to HTTP statuses. Anything outside the
// known taxonomy is logged server-side and answered with an opaque 500.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, contest.ErrValidation),
		errors.Is(err, identity.ErrInvalidDomain),
		errors.Is(err, identity.ErrStateMismatch):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, contest.ErrUnauthenticated):
		middleware.ErrorResponse(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, contest.ErrPhaseClosed):
		middleware.ErrorResponse(w, http.StatusForbidden, err.Error())
	case errors.Is(err, contest.ErrNotFound),
		errors.Is(err, contest.ErrFeatureDisabled):
		middleware.ErrorResponse(w, http.StatusNotFound, err.Error())
	case errors.Is(err, contest.ErrSelfVote),
		errors.Is(err, contest.ErrAlreadyVoted),
		errors.Is(err, contest.ErrQuotaExceeded),
		errors.Is(err, contest.ErrAlreadySubmitted):
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())
	case errors.Is(err, identity.ErrDiscoveryFailed),
		errors.Is(err, identity.ErrExchangeFailed):
		middleware.ErrorResponse(w, http.StatusBadGateway, err.Error())
	default:
		slog.Error("request failed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "internal error")
	}
}

// pathID parses the {id} path segment. A malformed id identifies
// nothing, so it reads as a missing resource rather than bad input.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, contest.ErrNotFound
	}
	return id, nil
}

func pathCategory(r *http.Request) (contest.Category, error) {
	return contest.ParseCategory(r.PathValue("category"))
}
