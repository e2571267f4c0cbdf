// Package urlutil normalizes endpoint references before they are handed to
// the API client, so that config values like "LOCALHOST:8080/" and
// "http://localhost:8080" name the same endpoint.
package urlutil

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

// NormalizeEndpoint canonicalizes a base endpoint URL: lower-cases scheme and
// host, punycodes international hostnames, drops default ports and trailing
// slashes, and strips any fragment. A missing scheme defaults to http, which
// matches how the demo server is addressed during development.
func NormalizeEndpoint(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("endpoint is empty")
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("couldn't parse endpoint %s: %w", raw, err)
	}

	u.Fragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported endpoint scheme %q", u.Scheme)
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", fmt.Errorf("endpoint %s has no host", raw)
	}
	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return "", fmt.Errorf("couldn't punycode host %s: %w", host, err)
	}

	port := u.Port()
	if (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443") {
		port = ""
	}
	if port != "" {
		u.Host = ascii + ":" + port
	} else {
		u.Host = ascii
	}

	u.Path = strings.TrimRight(u.Path, "/")
	return u.String(), nil
}

// Join appends a path to a normalized base endpoint.
func Join(base, path string) string {
	if path == "" {
		return base
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}
