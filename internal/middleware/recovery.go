// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// Recoverer turns a handler panic into a logged stack trace and a JSON 500.
// http.ErrAbortHandler is re-raised so the server can drop the connection,
// and nothing is written when the handler already started its response.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}

			slog.Error("panic recovered",
				"error", v,
				"method", r.Method,
				"path", r.URL.Path,
				"route", routePattern(r),
				"request_id", chimw.GetReqID(r.Context()),
				"committed", rec.wrote,
				"stack", string(debug.Stack()),
			)
			if !rec.wrote {
				writeError(w, http.StatusInternalServerError, "Internal server error")
			}
		}()

		next.ServeHTTP(rec, r)
	})
}
