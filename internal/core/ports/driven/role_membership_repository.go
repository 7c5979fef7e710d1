package driven

import "context"

// RoleMembershipRepository defines the interface for the role membership store.
// HasRole must query the store on every call; results are never cached.
type RoleMembershipRepository interface {
	HasRole(ctx context.Context, user, role string) (bool, error)
	AddRoleForUser(ctx context.Context, user, role string) (bool, error)
	RemoveRoleForUser(ctx context.Context, user, role string) (bool, error)
	GetRolesForUser(ctx context.Context, user string) ([]string, error)
}
