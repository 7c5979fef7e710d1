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

// QueryFilterRewriterImpl implements the QueryFilterRewriter interface.
type QueryFilterRewriterImpl struct {
	checker  driving.EntitlementChecker
	notifier driven.Notifier
	policy   domain.Policy
	options
}

// NewQueryFilterRewriterImpl creates a new QueryFilterRewriterImpl.
// notifier may be nil, in which case stripped filters are only logged.
func NewQueryFilterRewriterImpl(checker driving.EntitlementChecker, notifier driven.Notifier, policy domain.Policy, opts ...Option) driving.QueryFilterRewriter {
	return &QueryFilterRewriterImpl{
		checker:  checker,
		notifier: notifier,
		policy:   policy,
		options:  newOptions(opts),
	}
}

// RewriteIfUnauthorized removes every predicate on the protected attribute when the
// identity lacks the protected role. Users holding the role get the query back untouched.
func (r *QueryFilterRewriterImpl) RewriteIfUnauthorized(ctx context.Context, identity domain.Identity, query domain.Query) (*domain.RewriteOutcome, error) {
	ctx, span := r.tracer.Start(ctx, "QueryFilterRewriter.RewriteIfUnauthorized")
	defer span.End()

	authorized, err := r.checker.HasProtectedRole(ctx, identity)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "entitlement check failed")
		return nil, err
	}

	outcome := &domain.RewriteOutcome{Query: query}
	if authorized {
		span.SetAttributes(attribute.Bool("gate.authorized", true))
		return outcome, nil
	}

	var (
		rewritten domain.Query
		removed   int
	)
	switch q := query.(type) {
	case *domain.QueryExpression:
		if q == nil {
			return nil, fmt.Errorf("%w: query expression is nil", domain.ErrInvalidInput)
		}
		outcome.Variant = domain.VariantQueryExpression
		rewritten, removed = r.rewriteQueryExpression(q)
	case *domain.FetchExpression:
		if q == nil {
			return nil, fmt.Errorf("%w: fetch expression is nil", domain.ErrInvalidInput)
		}
		outcome.Variant = domain.VariantFetchExpression
		rewritten, removed, err = r.rewriteFetchExpression(q)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "malformed fetch expression")
			r.logger.WarnContext(ctx, "rejecting unparsable fetch expression", "user_id", identity, "error", err)
			return nil, err
		}
	case *domain.QueryByAttribute:
		// No filter tree, so no predicate on an arbitrary attribute can be expressed.
		outcome.Variant = domain.VariantQueryByAttribute
		return outcome, nil
	default:
		err := fmt.Errorf("%w: %T", domain.ErrUnsupportedQuery, query)
		span.RecordError(err)
		span.SetStatus(codes.Error, "unsupported query variant")
		return nil, err
	}

	span.SetAttributes(
		attribute.String("query.variant", string(outcome.Variant)),
		attribute.Int("query.removed_conditions", removed),
	)
	if removed == 0 {
		return outcome, nil
	}

	outcome.Query = rewritten
	outcome.Rewritten = true
	outcome.RemovedConditions = removed
	r.metrics.ObserveRewrite(string(outcome.Variant), removed)
	r.logger.InfoContext(ctx, "removed protected attribute filter conditions",
		"user_id", identity,
		"variant", outcome.Variant,
		"attribute", r.policy.ProtectedAttribute,
		"removed", removed,
	)

	outcome.NotificationID = r.notify(ctx, identity)
	return outcome, nil
}

func (r *QueryFilterRewriterImpl) rewriteQueryExpression(q *domain.QueryExpression) (domain.Query, int) {
	if q.EntityName != r.policy.EntityName {
		return q, 0
	}
	criteria, removed := PruneFilterConditions(q.Criteria, r.policy.ProtectedAttribute)
	if removed == 0 {
		return q, 0
	}
	return &domain.QueryExpression{
		EntityName: q.EntityName,
		ColumnSet:  q.ColumnSet,
		Criteria:   criteria,
	}, removed
}

func (r *QueryFilterRewriterImpl) rewriteFetchExpression(q *domain.FetchExpression) (domain.Query, int, error) {
	result, err := PruneFetchConditions(q.Query, r.policy.EntityName, r.policy.ProtectedAttribute)
	if err != nil {
		return nil, 0, err
	}
	if result.Removed == 0 {
		return q, 0, nil
	}
	return &domain.FetchExpression{Query: result.FetchXML}, result.Removed, nil
}

// notify is best effort: a failed delivery never fails the rewrite.
func (r *QueryFilterRewriterImpl) notify(ctx context.Context, identity domain.Identity) string {
	if r.notifier == nil {
		return ""
	}
	id, err := r.notifier.Send(ctx, r.policy.Notification(identity))
	if err != nil {
		r.metrics.IncrementNotificationFailure()
		r.logger.WarnContext(ctx, "filter stripped notification not delivered",
			"user_id", identity,
			"error", fmt.Errorf("%w: %w", domain.ErrNotificationDelivery, err),
		)
		return ""
	}
	return id
}
