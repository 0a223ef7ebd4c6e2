// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

const mastodonScope = "read:accounts"

// mastodonProvider speaks the standard Mastodon OAuth 2 flow:
// app registration, authorization-code redirect, token exchange, and
// verify_credentials for the handle.
type mastodonProvider struct {
	client      *http.Client
	scheme      string
	appName     string
	website     string
	redirectURL string
}

func (p *mastodonProvider) RegisterApp(ctx context.Context, host string) (App, error) {
	var resp struct {
		ClientID     string `json:"client_id"`
		ClientSecret string `json:"client_secret"`
	}
	err := postJSON(ctx, p.client, p.scheme+"://"+host+"/api/v1/apps", map[string]string{
		"client_name":   p.appName,
		"redirect_uris": p.redirectURL,
		"scopes":        mastodonScope,
		"website":       p.website,
	}, &resp)
	if err != nil {
		return App{}, err
	}
	if resp.ClientID == "" || resp.ClientSecret == "" {
		return App{}, fmt.Errorf("app registration at %s returned empty credentials", host)
	}
	return App{Hostname: host, ClientID: resp.ClientID, ClientSecret: resp.ClientSecret}, nil
}

func (p *mastodonProvider) AuthorizeURL(_ context.Context, app App, state string) (string, error) {
	q := url.Values{}
	q.Set("client_id", app.ClientID)
	q.Set("scope", mastodonScope)
	q.Set("redirect_uri", p.redirectURL)
	q.Set("response_type", "code")
	q.Set("state", state)
	return p.scheme + "://" + app.Hostname + "/oauth/authorize?" + q.Encode(), nil
}

// Authenticate runs the token exchange and then verify_credentials for
// the handle.
func (p *mastodonProvider) Authenticate(ctx context.Context, app App, code, state string) (string, error) {
	accessToken, err := p.exchangeCode(ctx, app, code, state)
	if err != nil {
		return "", err
	}
	return p.fetchAccount(ctx, app, accessToken)
}

func (p *mastodonProvider) exchangeCode(ctx context.Context, app App, code, state string) (string, error) {
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	err := postJSON(ctx, p.client, p.scheme+"://"+app.Hostname+"/oauth/token", map[string]string{
		"grant_type":    "authorization_code",
		"redirect_uri":  p.redirectURL,
		"client_id":     app.ClientID,
		"client_secret": app.ClientSecret,
		"code":          code,
		"state":         state,
	}, &resp)
	if err != nil {
		return "", err
	}
	if resp.AccessToken == "" {
		return "", fmt.Errorf("token exchange at %s returned no access token", app.Hostname)
	}
	return resp.AccessToken, nil
}

func (p *mastodonProvider) fetchAccount(ctx context.Context, app App, accessToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		p.scheme+"://"+app.Hostname+"/api/v1/accounts/verify_credentials", nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	httpResp, err := p.client.Do(req)
	if err != nil {
		return "", err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("verify_credentials at %s: unexpected status %d", app.Hostname, httpResp.StatusCode)
	}

	var resp struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(io.LimitReader(httpResp.Body, 1<<20)).Decode(&resp); err != nil {
		return "", err
	}
	if resp.Username == "" {
		return "", fmt.Errorf("verify_credentials at %s returned no username", app.Hostname)
	}
	return resp.Username, nil
}
