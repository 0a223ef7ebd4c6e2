// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/fedicontest/contest"
	"github.com/danielhkuo/fedicontest/identity"
)

const (
	sessionCookie    = "SESSION"
	loginStateCookie = "LOGIN_STATE"
)

// sessionIdentity resolves the SESSION cookie to an identity. A nil
// identity with nil error means the request is simply unauthenticated.
func sessionIdentity(r *http.Request, bridge *identity.Bridge) (*identity.Identity, error) {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil, nil
	}
	return bridge.Resolve(r.Context(), c.Value)
}

// requireIdentity is sessionIdentity for endpoints where anonymous
// access is an error.
func requireIdentity(r *http.Request, bridge *identity.Bridge) (identity.Identity, error) {
	ident, err := sessionIdentity(r, bridge)
	if err != nil {
		return identity.Identity{}, err
	}
	if ident == nil {
		return identity.Identity{}, contest.ErrUnauthenticated
	}
	return *ident, nil
}
