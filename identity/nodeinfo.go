// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// The fediverse has no central registry; every domain describes itself
// through the NodeInfo well-known document.
const nodeInfoRel = "http://nodeinfo.diaspora.software/ns/schema/2.0"

type nodeInfoLink struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}

type nodeInfoIndex struct {
	Links []nodeInfoLink `json:"links"`
}

type nodeInfo struct {
	Software struct {
		Name string `json:"name"`
	} `json:"software"`
}

// detectSoftware resolves a host to the name of the server software it
// runs (e.g. "mastodon", "misskey") via NodeInfo discovery.
func detectSoftware(ctx context.Context, client *http.Client, scheme, host string) (string, error) {
	var index nodeInfoIndex
	if err := getJSON(ctx, client, scheme+"://"+host+"/.well-known/nodeinfo", &index); err != nil {
		return "", fmt.Errorf("failed to fetch nodeinfo index: %w", err)
	}

	var href string
	for _, link := range index.Links {
		if link.Rel == nodeInfoRel {
			href = link.Href
			break
		}
	}
	if href == "" {
		return "", fmt.Errorf("no nodeinfo 2.0 document advertised by %s", host)
	}
	if !strings.HasPrefix(href, "http://") && !strings.HasPrefix(href, "https://") {
		return "", fmt.Errorf("nodeinfo link %q is not an http(s) URL", href)
	}

	var info nodeInfo
	if err := getJSON(ctx, client, href, &info); err != nil {
		return "", fmt.Errorf("failed to fetch nodeinfo document: %w", err)
	}
	if info.Software.Name == "" {
		return "", fmt.Errorf("nodeinfo document from %s names no software", host)
	}
	return info.Software.Name, nil
}

func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %d", url, resp.StatusCode)
	}
	return json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(out)
}
