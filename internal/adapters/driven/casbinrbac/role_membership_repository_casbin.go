package casbinrbac

import (
	"context"
	"fmt"
	"sort"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"

	"sensitive-field-gate/internal/core/ports/driven"
)

// RBAC model definition. Only the role definition (g) is consulted for membership.
const rbacModel = `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act`

// RoleMembershipRepositoryImpl implements driven.RoleMembershipRepository with a Casbin RBAC enforcer.
type RoleMembershipRepositoryImpl struct {
	enforcer *casbin.SyncedEnforcer
}

// NewRoleMembershipRepository creates a Casbin-backed role store persisting to table in db.
func NewRoleMembershipRepository(db *gorm.DB, table string) (driven.RoleMembershipRepository, error) {
	adapter, err := gormadapter.NewAdapterByDBUseTableName(db, "", table)
	if err != nil {
		return nil, fmt.Errorf("failed to create RBAC adapter: %w", err)
	}

	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("failed to create RBAC model: %w", err)
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("failed to create RBAC enforcer: %w", err)
	}
	enforcer.EnableAutoSave(true)

	return &RoleMembershipRepositoryImpl{enforcer: enforcer}, nil
}

// HasRole reloads the policy from the database before answering, so membership
// changes made by other processes are seen on the next call.
func (r *RoleMembershipRepositoryImpl) HasRole(ctx context.Context, user, role string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := r.enforcer.LoadPolicy(); err != nil {
		return false, fmt.Errorf("failed to load RBAC policy: %w", err)
	}
	return r.enforcer.HasRoleForUser(user, role)
}

func (r *RoleMembershipRepositoryImpl) AddRoleForUser(ctx context.Context, user, role string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return r.enforcer.AddRoleForUser(user, role)
}

func (r *RoleMembershipRepositoryImpl) RemoveRoleForUser(ctx context.Context, user, role string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return r.enforcer.DeleteRoleForUser(user, role)
}

func (r *RoleMembershipRepositoryImpl) GetRolesForUser(ctx context.Context, user string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := r.enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("failed to load RBAC policy: %w", err)
	}
	roles, err := r.enforcer.GetRolesForUser(user)
	if err != nil {
		return nil, err
	}
	sort.Strings(roles)
	return roles, nil
}
