package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"sensitive-field-gate/internal/core/ports/driven"
)

// Role represents a row in the roles table
type Role struct {
	RoleID    string `gorm:"primaryKey;size:36"`
	Name      string `gorm:"size:100;index"`
	CreatedAt time.Time
}

// SystemUserRole represents a row in the system_user_roles table, joining a user to a role
type SystemUserRole struct {
	SystemUserRoleID string `gorm:"primaryKey;size:36"`
	SystemUserID     string `gorm:"size:100;index"`
	RoleID           string `gorm:"size:36;index"`
	CreatedAt        time.Time
}

// RoleMembershipRepositoryImpl implements driven.RoleMembershipRepository on gorm.
type RoleMembershipRepositoryImpl struct {
	db *gorm.DB
}

// NewRoleMembershipRepository creates a new RoleMembershipRepositoryImpl.
func NewRoleMembershipRepository(db *gorm.DB) driven.RoleMembershipRepository {
	return &RoleMembershipRepositoryImpl{db: db}
}

// HasRole reports whether a system_user_roles row joins user to a role with exactly this name.
func (r *RoleMembershipRepositoryImpl) HasRole(ctx context.Context, user, role string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&SystemUserRole{}).
		Joins("JOIN roles ON roles.role_id = system_user_roles.role_id").
		Where("system_user_roles.system_user_id = ? AND roles.name = ?", user, role).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}

func (r *RoleMembershipRepositoryImpl) AddRoleForUser(ctx context.Context, user, role string) (bool, error) {
	db := r.db.WithContext(ctx)

	var existingRole Role
	res := db.Where("name = ?", role).First(&existingRole)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		existingRole = Role{RoleID: uuid.NewString(), Name: role}
		if err := db.Create(&existingRole).Error; err != nil {
			return false, err
		}
	} else if res.Error != nil {
		return false, res.Error
	}

	// Check if role assignment already exists
	var existingMembership SystemUserRole
	res = db.Where("system_user_id = ? AND role_id = ?", user, existingRole.RoleID).First(&existingMembership)
	if res.Error == nil {
		return false, nil
	}
	if !errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return false, res.Error
	}

	membership := SystemUserRole{
		SystemUserRoleID: uuid.NewString(),
		SystemUserID:     user,
		RoleID:           existingRole.RoleID,
	}
	if err := db.Create(&membership).Error; err != nil {
		return false, err
	}
	return true, nil
}

func (r *RoleMembershipRepositoryImpl) RemoveRoleForUser(ctx context.Context, user, role string) (bool, error) {
	db := r.db.WithContext(ctx)
	roleIDs := db.Model(&Role{}).Select("role_id").Where("name = ?", role)
	result := db.Where("system_user_id = ? AND role_id IN (?)", user, roleIDs).Delete(&SystemUserRole{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *RoleMembershipRepositoryImpl) GetRolesForUser(ctx context.Context, user string) ([]string, error) {
	var roles []string
	result := r.db.WithContext(ctx).
		Model(&SystemUserRole{}).
		Joins("JOIN roles ON roles.role_id = system_user_roles.role_id").
		Where("system_user_roles.system_user_id = ?", user).
		Order("roles.name").
		Pluck("roles.name", &roles)
	if result.Error != nil {
		return nil, result.Error
	}
	return roles, nil
}
