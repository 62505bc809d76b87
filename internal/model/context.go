package model

import (
	"context"

	"github.com/google/uuid"
)

// Identity is the authenticated caller attached to a request.
type Identity struct {
	ID uuid.UUID `json:"id"`
}

type ContextManager interface {
	SetIdentityToContext(ctx context.Context, identity Identity) context.Context
	GetIdentityFromContext(ctx context.Context) (Identity, bool)
}
