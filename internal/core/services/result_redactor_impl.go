package services

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"sensitive-field-gate/internal/core/domain"
	"sensitive-field-gate/internal/core/ports/driving"
)

// ResultRedactorImpl implements the ResultRedactor interface.
type ResultRedactorImpl struct {
	checker driving.EntitlementChecker
	policy  domain.Policy
	options
}

// NewResultRedactorImpl creates a new ResultRedactorImpl.
func NewResultRedactorImpl(checker driving.EntitlementChecker, policy domain.Policy, opts ...Option) driving.ResultRedactor {
	return &ResultRedactorImpl{
		checker: checker,
		policy:  policy,
		options: newOptions(opts),
	}
}

// Redact overwrites the protected attribute with the placeholder on every secret record,
// in place, when the identity lacks the protected role.
func (r *ResultRedactorImpl) Redact(ctx context.Context, identity domain.Identity, results *domain.EntityCollection) (*domain.RedactOutcome, error) {
	if results == nil {
		return nil, fmt.Errorf("%w: result collection is nil", domain.ErrInvalidInput)
	}

	ctx, span := r.tracer.Start(ctx, "ResultRedactor.Redact")
	defer span.End()

	authorized, err := r.checker.HasProtectedRole(ctx, identity)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "entitlement check failed")
		return nil, err
	}
	outcome := &domain.RedactOutcome{}
	if authorized {
		span.SetAttributes(attribute.Bool("gate.authorized", true))
		return outcome, nil
	}

	for _, entity := range results.Entities {
		if entity == nil {
			continue
		}
		outcome.Inspected++
		if !r.isSecret(entity) {
			continue
		}
		if _, ok := entity.Attributes[r.policy.ProtectedAttribute]; !ok {
			continue
		}
		entity.Attributes[r.policy.ProtectedAttribute] = r.policy.Placeholder
		outcome.Redacted++
	}

	span.SetAttributes(
		attribute.Int("results.inspected", outcome.Inspected),
		attribute.Int("results.redacted", outcome.Redacted),
	)
	r.metrics.AddRecordsRedacted(outcome.Redacted)
	if outcome.Redacted > 0 {
		r.logger.DebugContext(ctx, "masked protected attribute on secret records",
			"user_id", identity,
			"attribute", r.policy.ProtectedAttribute,
			"redacted", outcome.Redacted,
		)
	}
	return outcome, nil
}

// isSecret reads the secrecy flag. A present flag that is not a boolean counts as secret.
func (r *ResultRedactorImpl) isSecret(entity *domain.Entity) bool {
	value, ok := entity.Attributes[r.policy.SecretAttribute]
	if !ok || value == nil {
		return false
	}
	if secret, isBool := value.(bool); isBool {
		return secret
	}
	return true
}
