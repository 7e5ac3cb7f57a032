package security

import (
	"context"

	"plate-server/internal/common"
)

// Principal is the authenticated user as seen by handlers and services.
type Principal struct {
	ID       string
	Email    string
	Name     string
	Role     string
	TenantID string
}

func NewPrincipal(id, email, name, role, tenantID string) Principal {
	if role == "" {
		role = common.DefaultRole
	}
	return Principal{ID: id, Email: email, Name: name, Role: role, TenantID: tenantID}
}

func (p Principal) Authorities() []string {
	return []string{"ROLE_" + p.Role}
}

func (p Principal) HasRole(role string) bool {
	return p.Role == role
}

type principalKey struct{}

// WithPrincipal stores p in ctx and records it as the acting user.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	ctx = context.WithValue(ctx, principalKey{}, p)
	return common.WithActor(ctx, p.ID)
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
