package services

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"sensitive-field-gate/internal/core/domain"
	"sensitive-field-gate/internal/core/ports/driven"
	"sensitive-field-gate/internal/core/ports/driving"
)

// EntitlementCheckerImpl implements the EntitlementChecker interface.
type EntitlementCheckerImpl struct {
	repo     driven.RoleMembershipRepository
	roleName string
	options
}

// NewEntitlementCheckerImpl creates a new EntitlementCheckerImpl for the policy's role.
func NewEntitlementCheckerImpl(repo driven.RoleMembershipRepository, policy domain.Policy, opts ...Option) driving.EntitlementChecker {
	return &EntitlementCheckerImpl{
		repo:     repo,
		roleName: policy.RoleName,
		options:  newOptions(opts),
	}
}

// HasProtectedRole looks the membership up in the store on every call.
// A failed lookup is returned as ErrEntitlementCheck and never read as allow or deny.
func (c *EntitlementCheckerImpl) HasProtectedRole(ctx context.Context, identity domain.Identity) (bool, error) {
	if err := identity.Validate(); err != nil {
		return false, err
	}

	ctx, span := c.tracer.Start(ctx, "EntitlementChecker.HasProtectedRole")
	defer span.End()
	span.SetAttributes(attribute.String("role.name", c.roleName))

	hasRole, err := c.repo.HasRole(ctx, string(identity), c.roleName)
	if err != nil {
		c.metrics.IncrementEntitlementCheck("error")
		span.RecordError(err)
		span.SetStatus(codes.Error, "role lookup failed")
		c.logger.ErrorContext(ctx, "protected role lookup failed",
			"user_id", identity,
			"role", c.roleName,
			"error", err,
		)
		return false, fmt.Errorf("%w: role %q for user %s: %w", domain.ErrEntitlementCheck, c.roleName, identity, err)
	}

	if hasRole {
		c.metrics.IncrementEntitlementCheck("granted")
	} else {
		c.metrics.IncrementEntitlementCheck("denied")
	}
	span.SetAttributes(attribute.Bool("role.granted", hasRole))
	return hasRole, nil
}
