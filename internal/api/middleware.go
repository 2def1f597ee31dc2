// Package api implements the Othala REST API using chi.
package api

import (
	"context"
	"net/http"
)

type ctxKey int

const subjectKey ctxKey = iota

// Subject returns the caller identity stored by IdentityMiddleware, or the
// empty string when no identity was resolved.
func Subject(ctx context.Context) string {
	s, _ := ctx.Value(subjectKey).(string)
	return s
}

// IdentityMiddleware resolves the pre-verified caller identity and stores it
// in the request context. The service never validates tokens itself; the
// front door is trusted to have done that.
//
// If staticSubject is non-empty every request runs as that identity (local
// single-user mode). Otherwise the subject is read from headerName and
// requests without it are rejected with 401.
func IdentityMiddleware(headerName, staticSubject string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject := staticSubject
			if subject == "" {
				subject = r.Header.Get(headerName)
			}
			if subject == "" {
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), subjectKey, subject)))
		})
	}
}
