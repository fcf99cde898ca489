package context

import (
	"context"

	"github.com/dtroode/interview-assistant/internal/model"
)

type identityKey struct{}

// Manager stores the resolved caller identity in a request context.
// It implements model.ContextManager for the HTTP transport.
type Manager struct{}

// NewManager creates a new HTTP context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetIdentityToContext returns a copy of ctx carrying identity.
func (m *Manager) SetIdentityToContext(ctx context.Context, identity model.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// GetIdentityFromContext returns the identity set by the authentication middleware.
// A zero user id is treated as absent.
func (m *Manager) GetIdentityFromContext(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(model.Identity)
	if !ok || identity.UserID == 0 {
		return model.Identity{}, false
	}
	return identity, true
}
