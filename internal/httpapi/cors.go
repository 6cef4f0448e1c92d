package httpapi

import "net/http"

// corsPolicy enforces an origin allow-list and answers preflight requests,
// grounded on the validate-then-respond shape of the CORS handling this is
// adapted from, with one deliberate fix: the Access-Control-Allow-Origin
// header on a matched request echoes back only the single matched origin
// (or "*" when every origin is allowed), never every configured origin
// joined together — browsers reject a comma-joined allow-origin value, so
// the original behavior this replaces never actually worked for a
// multi-origin allow-list.
type corsPolicy struct {
	allowAll bool
	allowed  map[string]bool
}

func newCORSPolicy(origins []string) *corsPolicy {
	p := &corsPolicy{allowed: make(map[string]bool, len(origins))}
	for _, o := range origins {
		if o == "*" {
			p.allowAll = true
		}
		p.allowed[o] = true
	}
	return p
}

// allow reports whether origin may proceed, and the value to echo back in
// Access-Control-Allow-Origin when it does.
func (p *corsPolicy) allow(origin string) (string, bool) {
	if p.allowAll {
		return "*", true
	}
	if origin == "" {
		// Same-origin or non-browser requests carry no Origin header.
		return "", true
	}
	if p.allowed[origin] {
		return origin, true
	}
	return "", false
}

func (p *corsPolicy) wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		allowOrigin, ok := p.allow(origin)

		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if allowOrigin != "" {
			w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
		}

		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "DELETE, GET, HEAD, OPTIONS, PATCH, POST, PUT")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
