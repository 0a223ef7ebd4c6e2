// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/danielhkuo/fedicontest/cliparse"
)

var (
	ErrInvalidDomain   = errors.New("invalid instance domain")
	ErrDiscoveryFailed = errors.New("instance is not a supported fediverse server")
	ErrStateMismatch   = errors.New("unknown or expired login attempt")
	ErrExchangeFailed  = errors.New("authentication with instance failed")
)

// Identity is a federated account: a handle plus the domain of its home
// instance. Equality is exact string equality on both fields.
type Identity struct {
	Handle   string
	Instance string
}

const (
	pendingTTL = 10 * time.Minute
	sessionTTL = 24 * time.Hour
)

// Bridge resolves federated instances to their auth endpoints and owns
// sessions. Instances are mutually untrusting, so the instance half of
// every Identity comes from the domain the user typed, never from a
// token response.
type Bridge struct {
	db      *sql.DB
	client  *http.Client
	scheme  string // "https" outside of tests
	appName string
	baseURL string
	secret  []byte
	pending *pendingStore
}

func NewBridge(db *sql.DB, cfg cliparse.Config) *Bridge {
	return &Bridge{
		db:      db,
		client:  &http.Client{Timeout: 15 * time.Second},
		scheme:  "https",
		appName: fmt.Sprintf("fedicontest/%s", cfg.ContestName),
		baseURL: cfg.BaseURL,
		secret:  []byte(cfg.SessionSecret),
		pending: newPendingStore(pendingTTL),
	}
}

func (b *Bridge) redirectURL() string {
	return b.baseURL + "/api/oauth/redirect"
}

// BeginAuthorization discovers the instance behind a user-typed domain,
// makes sure an app is registered there, and returns the URL the
// browser should be sent to plus the single-use state token correlating
// the attempt.
func (b *Bridge) BeginAuthorization(ctx context.Context, instance string) (authorizeURL, state string, err error) {
	host, err := parseInstanceDomain(instance)
	if err != nil {
		return "", "", err
	}

	software, err := detectSoftware(ctx, b.client, b.scheme, host)
	if err != nil {
		slog.Warn("instance discovery failed", "host", host, "error", err)
		return "", "", fmt.Errorf("%s: %w", host, ErrDiscoveryFailed)
	}

	provider := b.providerFor(software)

	app, err := b.appFor(ctx, provider, host, software)
	if err != nil {
		return "", "", err
	}

	state = uuid.NewString()
	authorizeURL, err = provider.AuthorizeURL(ctx, app, state)
	if err != nil {
		slog.Warn("authorize URL generation failed", "host", host, "error", err)
		return "", "", fmt.Errorf("%s: %w", host, ErrDiscoveryFailed)
	}

	b.pending.put(state, pendingAuth{host: host, software: software})
	return authorizeURL, state, nil
}

// CompleteAuthorization consumes a pending attempt, exchanges the code
// with the originating instance, and mints a session. The state token
// is single-use: success or failure, a second completion with the same
// state fails with ErrStateMismatch.
func (b *Bridge) CompleteAuthorization(ctx context.Context, code, state string) (credential string, ident Identity, err error) {
	p, ok := b.pending.take(state)
	if !ok {
		return "", Identity{}, ErrStateMismatch
	}

	provider := b.providerFor(p.software)
	app, err := b.loadApp(ctx, p.host)
	if err != nil {
		return "", Identity{}, err
	}

	handle, err := provider.Authenticate(ctx, app, code, state)
	if err != nil {
		slog.Warn("authentication failed", "host", p.host, "error", err)
		return "", Identity{}, fmt.Errorf("%s: %w", p.host, ErrExchangeFailed)
	}

	ident = Identity{Handle: handle, Instance: p.host}
	credential, err = b.MintSession(ctx, ident)
	if err != nil {
		return "", Identity{}, err
	}
	return credential, ident, nil
}

type sessionClaims struct {
	Handle   string `json:"handle"`
	Instance string `json:"instance"`
	jwt.RegisteredClaims
}

// MintSession creates a session row and signs the matching credential.
func (b *Bridge) MintSession(ctx context.Context, ident Identity) (string, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(sessionTTL)
	jti := uuid.NewString()

	_, err := b.db.ExecContext(ctx, `
		INSERT INTO session (id, handle, instance, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
	`, jti, ident.Handle, ident.Instance, now, expiresAt)
	if err != nil {
		return "", fmt.Errorf("failed to insert session: %w", err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		Handle:   ident.Handle,
		Instance: ident.Instance,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	signed, err := token.SignedString(b.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Resolve returns the identity bound to a credential, or nil when the
// credential is absent, malformed, expired, or revoked. None of those
// are errors - unauthenticated is an ordinary state.
func (b *Bridge) Resolve(ctx context.Context, credential string) (*Identity, error) {
	claims, ok := b.verify(credential)
	if !ok {
		return nil, nil
	}

	// The session row is authoritative: a deleted row means the
	// credential was revoked even if the JWT is still within expiry.
	var handle, instance string
	var expiresAt time.Time
	err := b.db.QueryRowContext(ctx, `
		SELECT handle, instance, expires_at FROM session WHERE id = $1
	`, claims.ID).Scan(&handle, &instance, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}
	if !time.Now().Before(expiresAt) {
		b.sweepExpired(ctx)
		return nil, nil
	}

	return &Identity{Handle: handle, Instance: instance}, nil
}

// sweepExpired deletes every session past its expiry. Runs whenever a
// resolve lands on an expired row; a failed sweep only logs, the
// resolve already has its answer.
func (b *Bridge) sweepExpired(ctx context.Context) {
	_, err := b.db.ExecContext(ctx, `DELETE FROM session WHERE expires_at < $1`, time.Now().UTC())
	if err != nil {
		slog.Warn("expired session sweep failed", "error", err)
	}
}

// Logout revokes the session bound to a credential. Idempotent: an
// already-revoked or garbage credential is a no-op.
func (b *Bridge) Logout(ctx context.Context, credential string) error {
	claims, ok := b.verify(credential)
	if !ok {
		return nil
	}
	_, err := b.db.ExecContext(ctx, `DELETE FROM session WHERE id = $1`, claims.ID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (b *Bridge) verify(credential string) (*sessionClaims, bool) {
	if credential == "" {
		return nil, false
	}
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(credential, &claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", t.Method.Alg())
		}
		return b.secret, nil
	})
	if err != nil || !parsed.Valid || claims.ID == "" {
		return nil, false
	}
	return &claims, true
}

// appFor returns the app credentials registered at an instance,
// registering and caching them on first contact.
func (b *Bridge) appFor(ctx context.Context, provider Provider, host, software string) (App, error) {
	app, err := b.loadApp(ctx, host)
	if err == nil {
		return app, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return App{}, err
	}

	app, err = provider.RegisterApp(ctx, host)
	if err != nil {
		slog.Warn("app registration failed", "host", host, "error", err)
		return App{}, fmt.Errorf("%s: %w", host, ErrDiscoveryFailed)
	}

	// Two concurrent first logins may race here; the loser keeps the
	// winner's credentials.
	res, err := b.db.ExecContext(ctx, `
		INSERT INTO instance (hostname, software, client_id, client_secret, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (hostname) DO NOTHING
	`, host, software, app.ClientID, app.ClientSecret, time.Now().UTC())
	if err != nil {
		return App{}, fmt.Errorf("failed to insert instance: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return b.loadApp(ctx, host)
	}
	return app, nil
}

func (b *Bridge) loadApp(ctx context.Context, host string) (App, error) {
	app := App{Hostname: host}
	err := b.db.QueryRowContext(ctx, `
		SELECT client_id, client_secret FROM instance WHERE hostname = $1
	`, host).Scan(&app.ClientID, &app.ClientSecret)
	if err == sql.ErrNoRows {
		return App{}, err
	}
	if err != nil {
		return App{}, fmt.Errorf("failed to query instance: %w", err)
	}
	return app, nil
}

// parseInstanceDomain accepts "name@host" or a bare "host" and returns
// the host, validating it syntactically.
func parseInstanceDomain(instance string) (string, error) {
	raw := strings.TrimSpace(instance)
	if i := strings.LastIndex(raw, "@"); i >= 0 {
		raw = raw[i+1:]
	}
	if raw == "" || strings.ContainsAny(raw, "/\\ ?#") {
		return "", fmt.Errorf("%q: %w", instance, ErrInvalidDomain)
	}
	u, err := url.Parse("https://" + raw)
	if err != nil || u.Host != raw || u.Hostname() == "" {
		return "", fmt.Errorf("%q: %w", instance, ErrInvalidDomain)
	}
	return raw, nil
}
