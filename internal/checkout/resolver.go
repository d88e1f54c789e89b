package checkout

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const (
	// DefaultBackendPort is the port the backend listens on in development.
	DefaultBackendPort = "3000"
	// LocalBackendBase is preferred when the page is not served by the backend.
	LocalBackendBase = "http://127.0.0.1:" + DefaultBackendPort
)

// fallbackBases are tried after the preferred and same-origin candidates.
var fallbackBases = []string{
	"http://127.0.0.1:" + DefaultBackendPort,
	"http://localhost:" + DefaultBackendPort,
}

var errNoSameOrigin = errors.New("page origin cannot serve same-origin requests")

// Resolver works out which backend base URLs to try for a given page origin.
type Resolver struct {
	origin *url.URL
}

// NewResolver creates a resolver for the page origin, e.g.
// "http://127.0.0.1:5500" or "file:///home/shop/index.html".
func NewResolver(pageOrigin string) (*Resolver, error) {
	u, err := url.Parse(strings.TrimSpace(pageOrigin))
	if err != nil {
		return nil, fmt.Errorf("parse page origin: %w", err)
	}
	if u.Scheme == "" {
		return nil, fmt.Errorf("page origin %q has no scheme", pageOrigin)
	}
	return &Resolver{origin: u}, nil
}

// PreferredBase is the first base to try. An empty string means same-origin.
func (r *Resolver) PreferredBase() string {
	if r.origin.Scheme == "file" {
		return LocalBackendBase
	}
	host := r.origin.Hostname()
	if (host == "localhost" || host == "127.0.0.1") && r.origin.Port() != DefaultBackendPort {
		return LocalBackendBase
	}
	return ""
}

// Candidates returns the base URLs to try, in order, without duplicates.
func (r *Resolver) Candidates() []string {
	bases := make([]string, 0, 2+len(fallbackBases))
	bases = append(bases, r.PreferredBase(), "")
	bases = append(bases, fallbackBases...)

	seen := make(map[string]struct{}, len(bases))
	out := bases[:0]
	for _, b := range bases {
		if _, ok := seen[b]; ok {
			continue
		}
		seen[b] = struct{}{}
		out = append(out, b)
	}
	return out
}

// Endpoint joins a candidate base and an API path. The same-origin
// candidate resolves against the page origin, which only works for
// http(s) pages.
func (r *Resolver) Endpoint(base, path string) (string, error) {
	if base != "" {
		return strings.TrimRight(base, "/") + path, nil
	}
	if r.origin.Scheme != "http" && r.origin.Scheme != "https" {
		return "", errNoSameOrigin
	}
	return r.origin.Scheme + "://" + r.origin.Host + path, nil
}
