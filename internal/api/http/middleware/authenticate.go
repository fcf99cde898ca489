package middleware

import (
	"context"
	"net/http"

	"github.com/dtroode/interview-assistant/internal/logger"
	"github.com/dtroode/interview-assistant/internal/model"
)

// IdentityResolver turns a request path and Authorization header into a caller identity.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, path, authorization string) (model.Identity, bool)
}

// Authenticate attaches the caller identity to every request it can resolve.
type Authenticate struct {
	resolver       IdentityResolver
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware.
func NewAuthenticate(resolver IdentityResolver, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{
		resolver:       resolver,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Resolve never rejects a request. Unresolved requests pass through without identity
// and protected routes are expected to be wrapped by Require.
func (a *Authenticate) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := a.resolver.ResolveIdentity(r.Context(), r.URL.Path, r.Header.Get("Authorization"))
		if ok {
			r = r.WithContext(a.contextManager.SetIdentityToContext(r.Context(), identity))
		}
		next.ServeHTTP(w, r)
	})
}

// Require answers 401 when no identity was resolved for the request.
func (a *Authenticate) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := a.contextManager.GetIdentityFromContext(r.Context()); !ok {
			a.logger.Debug("unauthenticated request",
				"method", r.Method,
				"path", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"unauthorized"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
