// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"strings"
)

// apiCSP applies to every response; the API serves only JSON and XML.
const apiCSP = "default-src 'none'; frame-ancestors 'none'"

// hstsValue is sent only on requests that arrived over HTTPS.
const hstsValue = "max-age=31536000; includeSubDomains"

// SecureHeaders adds security headers to every response. Admin responses
// are also marked no-store.
func SecureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()

		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Content-Security-Policy", apiCSP)
		h.Set("X-XSS-Protection", "0")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Permissions-Policy", "interest-cohort=()")

		// Feeds are read by aggregators on other origins, API JSON is not.
		if !isSyndication(r.URL.Path) {
			h.Set("Cross-Origin-Resource-Policy", "same-origin")
		}

		if isHTTPS(r) {
			h.Set("Strict-Transport-Security", hstsValue)
		}

		if strings.HasPrefix(r.URL.Path, adminPrefix) {
			h.Set("Cache-Control", "no-store")
		}

		next.ServeHTTP(w, r)
	})
}

func isSyndication(path string) bool {
	switch path {
	case "/feed.json", "/rss.xml", "/sitemap.xml":
		return true
	}
	return false
}

// isHTTPS reports whether the client connection used TLS, directly or
// through a terminating proxy.
func isHTTPS(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
