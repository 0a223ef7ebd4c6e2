package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Windows holds the three phase windows for one category.
type Windows struct {
	SubmissionOpenAt  time.Time
	SubmissionCloseAt time.Time
	VotingOpenAt      time.Time
	VotingCloseAt     time.Time
	ResultOpenAt      time.Time
	ResultCloseAt     time.Time
}

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	BaseURL      string
	ContestName  string

	SessionSecret string

	LiteratureEnabled bool
	ArtEnabled        bool

	Literature Windows
	Art        Windows
}

// ParseFlags validates flags and environment variables and assembles
// the runtime configuration.
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("fedicontest", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")
	fs.StringVar(&cfg.BaseURL, "b", "", "Public base URL (for OAuth redirects)")
	fs.StringVar(&cfg.ContestName, "n", "", "Contest display name")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.SessionSecret, "session-secret", "", "Session signing secret (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3000 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "file:contest.sqlite"
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = os.Getenv("BASE_URL")
	}
	if cfg.BaseURL == "" {
		return Config{}, errors.New("base URL required (use -b or BASE_URL env)")
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if cfg.ContestName == "" {
		cfg.ContestName = os.Getenv("CONTEST_NAME")
	}
	if cfg.ContestName == "" {
		return Config{}, errors.New("contest name required (use -n or CONTEST_NAME env)")
	}

	// Secrets - MUST be provided
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = os.Getenv("SESSION_SECRET")
	}
	if cfg.SessionSecret == "" {
		return Config{}, errors.New("SESSION_SECRET required")
	}

	var err error
	if cfg.LiteratureEnabled, err = parseEnabled("LITERATURE_ENABLED"); err != nil {
		return Config{}, err
	}
	if cfg.ArtEnabled, err = parseEnabled("ART_ENABLED"); err != nil {
		return Config{}, err
	}

	if cfg.Literature, err = parseWindows("LITERATURE"); err != nil {
		return Config{}, err
	}
	if cfg.Art, err = parseWindows("ART"); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func parseEnabled(key string) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return true, nil
	}
	enabled, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s env variable: %q", key, v)
	}
	return enabled, nil
}

// parseWindows reads the phase instants for one category. A
// category-prefixed variable (e.g. ART_VOTING_OPEN_AT) overrides the
// shared one (VOTING_OPEN_AT), so categories can run on independent
// schedules without duplicating config when they don't.
func parseWindows(prefix string) (Windows, error) {
	var w Windows
	var ok bool
	var err error

	if w.SubmissionOpenAt, ok, err = lookupTime(prefix+"_SUBMISSION_OPEN_AT", "SUBMISSION_OPEN_AT"); err != nil {
		return Windows{}, err
	} else if !ok {
		return Windows{}, errors.New("SUBMISSION_OPEN_AT required (RFC3339)")
	}
	if w.SubmissionCloseAt, ok, err = lookupTime(prefix+"_SUBMISSION_CLOSE_AT", "SUBMISSION_CLOSE_AT"); err != nil {
		return Windows{}, err
	} else if !ok {
		return Windows{}, errors.New("SUBMISSION_CLOSE_AT required (RFC3339)")
	}
	if w.VotingOpenAt, ok, err = lookupTime(prefix+"_VOTING_OPEN_AT", "VOTING_OPEN_AT"); err != nil {
		return Windows{}, err
	} else if !ok {
		return Windows{}, errors.New("VOTING_OPEN_AT required (RFC3339)")
	}
	if w.VotingCloseAt, ok, err = lookupTime(prefix+"_VOTING_CLOSE_AT", "VOTING_CLOSE_AT"); err != nil {
		return Windows{}, err
	} else if !ok {
		return Windows{}, errors.New("VOTING_CLOSE_AT required (RFC3339)")
	}

	// Results default to opening the moment voting closes and staying
	// open for a year.
	if w.ResultOpenAt, ok, err = lookupTime(prefix+"_RESULT_OPEN_AT", "RESULT_OPEN_AT"); err != nil {
		return Windows{}, err
	} else if !ok {
		w.ResultOpenAt = w.VotingCloseAt
	}
	if w.ResultCloseAt, ok, err = lookupTime(prefix+"_RESULT_CLOSE_AT", "RESULT_CLOSE_AT"); err != nil {
		return Windows{}, err
	} else if !ok {
		w.ResultCloseAt = w.ResultOpenAt.Add(365 * 24 * time.Hour)
	}

	for _, pair := range []struct {
		name        string
		open, close time.Time
	}{
		{"submission", w.SubmissionOpenAt, w.SubmissionCloseAt},
		{"voting", w.VotingOpenAt, w.VotingCloseAt},
		{"result", w.ResultOpenAt, w.ResultCloseAt},
	} {
		if !pair.open.Before(pair.close) {
			return Windows{}, fmt.Errorf("%s window must open before it closes", pair.name)
		}
	}

	return w, nil
}

func lookupTime(keys ...string) (time.Time, bool, error) {
	for _, key := range keys {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}, false, fmt.Errorf("invalid %s env variable: %v", key, err)
		}
		return t, true, nil
	}
	return time.Time{}, false, nil
}
