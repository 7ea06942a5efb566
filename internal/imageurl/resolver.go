// Package imageurl turns stored image paths into URLs a client can fetch.
// Resolution happens when a response is built, never when a path is stored.
package imageurl

import (
	"net/http"
	"strings"
)

// placeholderHosts mark seed/test URLs that must not reach clients.
var placeholderHosts = []string{"placeholder.com", "via.placeholder"}

// Addresser maps a stored path to the store's own address for it, which is
// either absolute or root-relative. imagestore.Store satisfies it.
type Addresser interface {
	URL(path string) string
}

// Resolver resolves stored image paths against the serving origin.
type Resolver struct {
	images  Addresser
	baseURL string
}

// NewResolver builds a Resolver. When baseURL is non-empty it replaces the
// request origin, for deployments behind a proxy that rewrites Host.
func NewResolver(images Addresser, baseURL string) *Resolver {
	return &Resolver{images: images, baseURL: strings.TrimRight(baseURL, "/")}
}

// Resolve returns the client URL for a stored path. An empty path, a
// placeholder URL or a missing origin all resolve to "".
func (r *Resolver) Resolve(req *http.Request, stored string) string {
	if stored == "" {
		return ""
	}
	origin := r.baseURL
	if origin == "" {
		origin = Origin(req)
	}
	return Resolve(origin, r.images.URL(stored))
}

// Resolve applies the resolution rules to an already addressed path.
func Resolve(origin, p string) string {
	if p == "" {
		return ""
	}
	if isAbsolute(p) {
		for _, h := range placeholderHosts {
			if strings.Contains(p, h) {
				return ""
			}
		}
		return p
	}
	if origin == "" {
		return ""
	}
	return origin + "/" + strings.TrimLeft(p, "/")
}

// Origin returns scheme://host for the request, honouring
// X-Forwarded-Proto. A nil request has no origin.
func Origin(req *http.Request) string {
	if req == nil || req.Host == "" {
		return ""
	}
	scheme := "http"
	if req.TLS != nil {
		scheme = "https"
	}
	if p := req.Header.Get("X-Forwarded-Proto"); p == "http" || p == "https" {
		scheme = p
	}
	return scheme + "://" + req.Host
}

func isAbsolute(p string) bool {
	lower := strings.ToLower(p)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
