// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package contest

import (
	"time"

	"github.com/danielhkuo/fedicontest/cliparse"
)

// Phase is one kind of time-gated contest activity.
type Phase string

const (
	PhaseSubmission Phase = "submission"
	PhaseVoting     Phase = "voting"
	PhaseResult     Phase = "result"
)

// PhaseStatus reports whether a window is currently open and its bounds.
type PhaseStatus struct {
	Open     bool
	OpensAt  time.Time
	ClosesAt time.Time
}

type window struct {
	opensAt  time.Time
	closesAt time.Time
}

// Gate is the single source of truth for phase decisions. Every
// state-mutating operation re-checks the gate server-side; callers are
// not trusted to have checked first.
type Gate struct {
	windows map[Category]map[Phase]window
	enabled map[Category]bool

	// Now is the clock used for open checks. Tests override it.
	Now func() time.Time
}

// NewGate builds a gate from the parsed configuration.
func NewGate(cfg cliparse.Config) *Gate {
	return &Gate{
		windows: map[Category]map[Phase]window{
			CategoryLiterature: windowsOf(cfg.Literature),
			CategoryArt:        windowsOf(cfg.Art),
		},
		enabled: map[Category]bool{
			CategoryLiterature: cfg.LiteratureEnabled,
			CategoryArt:        cfg.ArtEnabled,
		},
		Now: time.Now,
	}
}

func windowsOf(w cliparse.Windows) map[Phase]window {
	return map[Phase]window{
		PhaseSubmission: {w.SubmissionOpenAt, w.SubmissionCloseAt},
		PhaseVoting:     {w.VotingOpenAt, w.VotingCloseAt},
		PhaseResult:     {w.ResultOpenAt, w.ResultCloseAt},
	}
}

// Check reports the window for (category, phase). A window is open iff
// now is in [opensAt, closesAt) - the close instant itself is already
// closed, so no two callers can disagree about the boundary.
func (g *Gate) Check(c Category, p Phase) PhaseStatus {
	w := g.windows[c][p]
	now := g.Now()
	open := !now.Before(w.opensAt) && now.Before(w.closesAt)
	return PhaseStatus{Open: open, OpensAt: w.opensAt, ClosesAt: w.closesAt}
}

// IsEnabled reports whether a category is turned on by configuration.
func (g *Gate) IsEnabled(c Category) bool {
	return g.enabled[c]
}
