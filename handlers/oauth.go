// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"net/http"

	"github.com/danielhkuo/fedicontest/contest"
	"github.com/danielhkuo/fedicontest/identity"
	"github.com/danielhkuo/fedicontest/middleware"
	"github.com/danielhkuo/fedicontest/models"
)

// OAuthHandler serves the login flow against federated instances.
type OAuthHandler struct {
	bridge *identity.Bridge
}

func NewOAuthHandler(bridge *identity.Bridge) *OAuthHandler {
	return &OAuthHandler{bridge: bridge}
}

// Authorize handles POST /api/oauth/authorize
func (h *OAuthHandler) Authorize(w http.ResponseWriter, r *http.Request) {
	var req models.PostAuthorizeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	authorizeURL, state, err := h.bridge.BeginAuthorization(r.Context(), req.Instance)
	if err != nil {
		writeError(w, err)
		return
	}

	// Misskey-family instances don't echo the state back on the
	// callback, so it also travels in a short-lived cookie.
	http.SetCookie(w, &http.Cookie{
		Name:     loginStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	middleware.JSONResponse(w, http.StatusOK, models.PostAuthorizeResponse{URL: authorizeURL})
}

// Redirect handles GET /api/oauth/redirect
func (h *OAuthHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		code = r.URL.Query().Get("token")
	}
	state := r.URL.Query().Get("state")
	if state == "" {
		if c, err := r.Cookie(loginStateCookie); err == nil {
			state = c.Value
		}
	}
	if code == "" {
		writeError(w, fmt.Errorf("missing authorization code: %w", contest.ErrValidation))
		return
	}
	if state == "" {
		writeError(w, identity.ErrStateMismatch)
		return
	}

	credential, _, err := h.bridge.CompleteAuthorization(r.Context(), code, state)
	if err != nil {
		writeError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     loginStateCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    credential,
		Path:     "/",
		MaxAge:   86400,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// GetUser handles GET /api/user
func (h *OAuthHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	ident, err := sessionIdentity(r, h.bridge)
	if err != nil {
		writeError(w, err)
		return
	}
	if ident == nil {
		writeError(w, contest.ErrUnauthenticated)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.User{
		Handle:   ident.Handle,
		Instance: ident.Instance,
	})
}

// Logout handles POST /api/oauth/logout
func (h *OAuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if err := h.bridge.Logout(r.Context(), c.Value); err != nil {
			writeError(w, err)
			return
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	w.WriteHeader(http.StatusNoContent)
}
