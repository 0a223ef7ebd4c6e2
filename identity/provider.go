// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// App is the credential pair our service holds at one federated
// instance, registered on first contact and cached in the database.
type App struct {
	Hostname     string
	ClientID     string
	ClientSecret string
}

// Provider is one protocol family's auth capability set. Selection
// happens per domain at BeginAuthorization time, based on what the
// instance's NodeInfo document says it runs.
type Provider interface {
	// RegisterApp registers this service as a client app at the host.
	RegisterApp(ctx context.Context, host string) (App, error)
	// AuthorizeURL builds the URL the user's browser is redirected to.
	AuthorizeURL(ctx context.Context, app App, state string) (string, error)
	// Authenticate trades the callback code for the authenticated
	// account's handle.
	Authenticate(ctx context.Context, app App, code, state string) (string, error)
}

// Misskey forks keep the Misskey API surface; everything else on the
// fediverse speaks the Mastodon-compatible OAuth flow.
var misskeyFamily = map[string]bool{
	"misskey":    true,
	"cherrypick": true,
	"castella":   true,
	"sharkey":    true,
}

func (b *Bridge) providerFor(software string) Provider {
	if misskeyFamily[software] {
		return &misskeyProvider{
			client:      b.client,
			scheme:      b.scheme,
			appName:     b.appName,
			redirectURL: b.redirectURL(),
		}
	}
	return &mastodonProvider{
		client:      b.client,
		scheme:      b.scheme,
		appName:     b.appName,
		website:     b.baseURL,
		redirectURL: b.redirectURL(),
	}
}

func postJSON(ctx context.Context, client *http.Client, url string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("POST %s: unexpected status %d", url, resp.StatusCode)
	}
	return json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(out)
}
