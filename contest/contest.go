// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package contest

import (
	"errors"
	"fmt"
)

// Category is a contest content track. Each category has its own phase
// windows, its own enable flag, and its own per-voter quota.
type Category string

const (
	CategoryLiterature Category = "literature"
	CategoryArt        Category = "art"
)

// ParseCategory maps a URL path segment to a Category. Unknown values
// behave like a missing resource, matching how the client treats them.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryLiterature:
		return CategoryLiterature, nil
	case CategoryArt:
		return CategoryArt, nil
	}
	return "", fmt.Errorf("unknown category %q: %w", s, ErrNotFound)
}

// Domain error taxonomy. Handlers map these to HTTP statuses; anything
// not in this set is an internal failure and is never echoed to clients.
var (
	ErrValidation       = errors.New("invalid input")
	ErrPhaseClosed      = errors.New("not available in the current phase")
	ErrFeatureDisabled  = errors.New("category not enabled")
	ErrNotFound         = errors.New("not found")
	ErrSelfVote         = errors.New("cannot vote for own submission")
	ErrAlreadyVoted     = errors.New("already voted")
	ErrQuotaExceeded    = errors.New("vote limit reached")
	ErrAlreadySubmitted = errors.New("already submitted")
	ErrUnauthenticated  = errors.New("user not authorized")
)
