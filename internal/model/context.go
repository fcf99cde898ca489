package model

import "context"

// ContextManager carries a resolved identity from transport middleware to handlers.
type ContextManager interface {
	SetIdentityToContext(ctx context.Context, identity Identity) context.Context
	GetIdentityFromContext(ctx context.Context) (Identity, bool)
}
