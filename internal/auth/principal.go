// Package auth holds the authenticated principal passed into every admin
// operation and the role checks applied to it.
package auth

import (
	"context"

	"backoffice/internal/apperr"
)

type Role string

const (
	RoleSuperAdmin    Role = "super_admin"
	RolePlatformAdmin Role = "platform_admin"
	RoleModerator     Role = "moderator"
	RoleSalonOwner    Role = "salon_owner"
	RoleStaff         Role = "staff"
	RoleCustomer      Role = "customer"
)

var knownRoles = map[Role]struct{}{
	RoleSuperAdmin:    {},
	RolePlatformAdmin: {},
	RoleModerator:     {},
	RoleSalonOwner:    {},
	RoleStaff:         {},
	RoleCustomer:      {},
}

// ParseRole returns the role named s and whether it is known.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	_, ok := knownRoles[r]
	return r, ok
}

// Role sets used by the admin services.
var (
	AdminRoles      = []Role{RoleSuperAdmin, RolePlatformAdmin}
	ModerationRoles = []Role{RoleSuperAdmin, RolePlatformAdmin, RoleModerator}
	SuperAdminOnly  = []Role{RoleSuperAdmin}
)

// Principal is the authenticated caller of an admin operation.
type Principal struct {
	UserID string
	Roles  []Role
}

func (p *Principal) HasRole(role Role) bool {
	if p == nil {
		return false
	}
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// RequireAnyRole fails with a forbidden error unless p holds one of roles.
func RequireAnyRole(p *Principal, roles ...Role) error {
	if p == nil || p.UserID == "" {
		return apperr.Forbidden("authentication required")
	}
	for _, r := range roles {
		if p.HasRole(r) {
			return nil
		}
	}
	return apperr.Forbidden("insufficient permissions")
}

type ctxKey struct{}

// WithPrincipal stores p on ctx. Only the HTTP layer should call this; services
// receive the principal as an argument.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

func PrincipalFrom(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(*Principal)
	return p, ok && p != nil
}
