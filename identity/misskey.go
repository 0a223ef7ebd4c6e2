// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package identity

import (
	"context"
	"fmt"
	"net/http"
)

// misskeyProvider speaks the Misskey app-auth flow. It maps onto the
// same capability interface as OAuth: the session URL from
// session/generate is the authorize URL, and the callback token plays
// the role of the authorization code.
type misskeyProvider struct {
	client      *http.Client
	scheme      string
	appName     string
	redirectURL string
}

func (p *misskeyProvider) RegisterApp(ctx context.Context, host string) (App, error) {
	var resp struct {
		ID     string `json:"id"`
		Secret string `json:"secret"`
	}
	err := postJSON(ctx, p.client, p.scheme+"://"+host+"/api/app/create", map[string]any{
		"name":        p.appName,
		"description": "contest controller",
		"permission":  []string{},
		"callbackUrl": p.redirectURL,
	}, &resp)
	if err != nil {
		return App{}, err
	}
	if resp.ID == "" || resp.Secret == "" {
		return App{}, fmt.Errorf("app registration at %s returned empty credentials", host)
	}
	return App{Hostname: host, ClientID: resp.ID, ClientSecret: resp.Secret}, nil
}

func (p *misskeyProvider) AuthorizeURL(ctx context.Context, app App, _ string) (string, error) {
	var resp struct {
		URL string `json:"url"`
	}
	err := postJSON(ctx, p.client, p.scheme+"://"+app.Hostname+"/api/auth/session/generate", map[string]string{
		"appSecret": app.ClientSecret,
	}, &resp)
	if err != nil {
		return "", err
	}
	if resp.URL == "" {
		return "", fmt.Errorf("session generation at %s returned no URL", app.Hostname)
	}
	return resp.URL, nil
}

// Authenticate trades the callback session token for the account
// handle. The userkey response already carries the user object, so no
// follow-up account call is made; /api/i would require a credential
// derived from the app secret, which this flow never builds.
func (p *misskeyProvider) Authenticate(ctx context.Context, app App, code, _ string) (string, error) {
	var resp struct {
		AccessToken string `json:"accessToken"`
		User        struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	err := postJSON(ctx, p.client, p.scheme+"://"+app.Hostname+"/api/auth/session/userkey", map[string]string{
		"appSecret": app.ClientSecret,
		"token":     code,
	}, &resp)
	if err != nil {
		return "", err
	}
	if resp.User.Username == "" {
		return "", fmt.Errorf("userkey exchange at %s returned no user", app.Hostname)
	}
	return resp.User.Username, nil
}
