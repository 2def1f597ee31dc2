package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"github.com/starford/othala/internal/noteservice"
)

// NewRouter creates a chi router with all API routes mounted.
// headerName and staticSubject configure the identity middleware (see
// IdentityMiddleware). eventsHandler, if non-nil, is mounted at GET /events
// behind the same identity middleware.
//
// CORS is applied before identity resolution so that pre-flight requests
// always succeed with a fixed 200 and empty body, independent of identity.
func NewRouter(svc *noteservice.Service, headerName, staticSubject string, eventsHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(corsPolicy().Handler)
	r.Use(IdentityMiddleware(headerName, staticSubject))

	// Notes CRUD.
	r.Get("/notes", h.ListNotes)
	r.Post("/notes", h.CreateNote)
	r.Get("/notes/{id}", h.GetNote)
	r.Put("/notes/{id}", h.UpdateNote)
	r.Delete("/notes/{id}", h.DeleteNote)

	// Search.
	r.Get("/search", h.Search)

	// SSE endpoint (behind the same identity middleware).
	if eventsHandler != nil {
		r.Get("/events", eventsHandler.ServeHTTP)
	}

	return r
}

// corsPolicy builds the uniform cross-origin policy applied to every
// response: wildcard origin with credentials, the verbs the API serves, and
// the Content-Type/Authorization request headers.
func corsPolicy() *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:       []string{"Content-Type", "Authorization"},
		AllowCredentials:     true,
		OptionsSuccessStatus: http.StatusOK,
	})
}
