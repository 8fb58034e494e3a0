package middleware

import (
	"context"

	"github.com/google/uuid"

	"github.com/ambernegi/rha/pkg/enums"
)

type contextKey string

const (
	ctxUserID contextKey = "user_id"
	ctxRole   contextKey = "actor_role"
	ctxEmail  contextKey = "actor_email"
	ctxName   contextKey = "actor_name"
)

// Identity is the authenticated caller seeded by Auth.
type Identity struct {
	UserID uuid.UUID
	Role   enums.ActorRole
	Email  string
	Name   string
}

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUserID).(string); ok {
		return v
	}
	return ""
}

func RoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(string); ok {
		return v
	}
	return ""
}

// IdentityFromContext returns the caller, or false when the request is anonymous.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	raw := UserIDFromContext(ctx)
	if raw == "" {
		return Identity{}, false
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return Identity{}, false
	}
	identity := Identity{
		UserID: userID,
		Role:   enums.ActorRole(RoleFromContext(ctx)),
	}
	if v, ok := ctx.Value(ctxEmail).(string); ok {
		identity.Email = v
	}
	if v, ok := ctx.Value(ctxName).(string); ok {
		identity.Name = v
	}
	return identity, true
}

// WithIdentity injects the caller into the context.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxUserID, identity.UserID.String())
	ctx = context.WithValue(ctx, ctxRole, string(identity.Role))
	if identity.Email != "" {
		ctx = context.WithValue(ctx, ctxEmail, identity.Email)
	}
	if identity.Name != "" {
		ctx = context.WithValue(ctx, ctxName, identity.Name)
	}
	return ctx
}
