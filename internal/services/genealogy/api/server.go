// Package api exposes the genealogy operations over HTTP JSON.
package api

import (
	"net/http"
	"strings"

	apperrors "github.com/louisbranch/arbor.space/internal/platform/errors"
	"github.com/louisbranch/arbor.space/internal/platform/httpx"
	"github.com/louisbranch/arbor.space/internal/platform/requestctx"
	"github.com/louisbranch/arbor.space/internal/services/genealogy/app"
	"github.com/louisbranch/arbor.space/internal/session"
)

// TokenVerifier turns a bearer token into an identity.
type TokenVerifier interface {
	Verify(token string) (requestctx.Identity, error)
}

var _ TokenVerifier = (*session.Verifier)(nil)

// Handler serves the genealogy HTTP API.
type Handler struct {
	svc      *app.Service
	verifier TokenVerifier
}

// New builds the HTTP handler with routing and middleware applied.
func New(svc *app.Service, verifier TokenVerifier) http.Handler {
	h := &Handler{svc: svc, verifier: verifier}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /up", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("GET /trees", h.handleListTrees)
	mux.HandleFunc("POST /trees", h.handleCreateTree)
	mux.HandleFunc("GET /trees/{treeID}", h.handleGetTree)
	mux.HandleFunc("PATCH /trees/{treeID}", h.handleUpdateTree)
	mux.HandleFunc("DELETE /trees/{treeID}", h.handleDeleteTree)
	mux.HandleFunc("GET /trees/{treeID}/people", h.handleListPeople)
	mux.HandleFunc("POST /trees/{treeID}/people", h.handleCreatePerson)
	mux.HandleFunc("GET /trees/{treeID}/layout", h.handleLayout)
	mux.HandleFunc("GET /trees/{treeID}/export", h.handleExport)
	mux.HandleFunc("POST /trees/{treeID}/share", h.handleGenerateShareToken)
	mux.HandleFunc("PATCH /trees/{treeID}/share", h.handleUpdateShareSettings)
	mux.HandleFunc("GET /trees/{treeID}/share/access", h.handleListAccess)
	mux.HandleFunc("POST /trees/{treeID}/invite", h.handleInvite)
	mux.HandleFunc("DELETE /trees/{treeID}/invite", h.handleRevoke)

	mux.HandleFunc("GET /people/{personID}", h.handleGetPerson)
	mux.HandleFunc("PATCH /people/{personID}", h.handleUpdatePerson)
	mux.HandleFunc("DELETE /people/{personID}", h.handleDeletePerson)
	mux.HandleFunc("GET /people/{personID}/events", h.handleListEvents)
	mux.HandleFunc("POST /people/{personID}/events", h.handleCreateEvent)
	mux.HandleFunc("GET /people/{personID}/notes", h.handleListNotes)
	mux.HandleFunc("POST /people/{personID}/notes", h.handleCreateNote)
	mux.HandleFunc("GET /people/{personID}/spouses", h.handleListSpouses)
	mux.HandleFunc("POST /people/{personID}/spouses", h.handleCreateSpouse)

	mux.HandleFunc("GET /share/{token}", h.handleSharedTree)

	return httpx.Chain(mux,
		httpx.RequestID(),
		httpx.RecoverPanic(),
		httpx.Trace("genealogy"),
		h.authenticate(),
	)
}

// authenticate resolves an optional bearer token into the request
// identity. Requests without a token stay anonymous; invalid tokens
// are rejected so a caller never silently loses their identity.
func (h *Handler) authenticate() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := strings.TrimSpace(r.Header.Get("Authorization"))
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				httpx.WriteError(w, apperrors.E(apperrors.KindUnauthorized, "authorization header must use the Bearer scheme"))
				return
			}
			identity, err := h.verifier.Verify(strings.TrimSpace(token))
			if err != nil {
				httpx.WriteError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(requestctx.WithIdentity(r.Context(), identity)))
		})
	}
}

// viewer builds the visibility viewer for a request: the verified
// identity plus any share token passed as a query parameter.
func viewer(r *http.Request) app.Viewer {
	identity := requestctx.IdentityFromContext(r.Context())
	return app.Viewer{
		UserID:     identity.UserID,
		Email:      identity.Email,
		ShareToken: strings.TrimSpace(r.URL.Query().Get("token")),
	}
}

// requireUser rejects anonymous requests before a handler runs.
func requireUser(w http.ResponseWriter, r *http.Request) (requestctx.Identity, bool) {
	identity := requestctx.IdentityFromContext(r.Context())
	if identity.IsAnonymous() {
		httpx.WriteError(w, apperrors.E(apperrors.KindUnauthorized, "authentication required"))
		return requestctx.Identity{}, false
	}
	return identity, true
}
