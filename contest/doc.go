// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package contest defines categories, the phase gate, and the domain
error taxonomy shared by the other packages.

# Categories

Two content tracks, each independently enabled and scheduled:

	contest.CategoryLiterature
	contest.CategoryArt

# Phase Gate

The Gate is the single source of truth for what is allowed right now.
Every state-mutating operation re-checks it server-side:

	if !gate.Check(contest.CategoryArt, contest.PhaseVoting).Open {
		return contest.ErrPhaseClosed
	}

A window is open iff opensAt <= now < closesAt. The close instant is
already closed, so two requests straddling the boundary can never both
be "open" under the same clock reading.

# Errors

Sentinel errors for everything a client can cause; handlers map them to
HTTP statuses. Wrap with %w so errors.Is works through added context.
*/
package contest
