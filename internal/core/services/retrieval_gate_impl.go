package services

import (
	"context"
	"fmt"

	"sensitive-field-gate/internal/core/domain"
	"sensitive-field-gate/internal/core/ports/driving"
)

// RetrievalGateImpl implements the RetrievalGate interface.
// It binds the rewriter to the pre-operation stage and the redactor to the post-operation stage.
type RetrievalGateImpl struct {
	rewriter driving.QueryFilterRewriter
	redactor driving.ResultRedactor
	options
}

// NewRetrievalGateImpl creates a new RetrievalGateImpl.
func NewRetrievalGateImpl(rewriter driving.QueryFilterRewriter, redactor driving.ResultRedactor, opts ...Option) driving.RetrievalGate {
	return &RetrievalGateImpl{
		rewriter: rewriter,
		redactor: redactor,
		options:  newOptions(opts),
	}
}

// PreOperation rewrites the Query input parameter in place. Contexts without a Query are left alone.
func (g *RetrievalGateImpl) PreOperation(ctx context.Context, pc *domain.PluginContext) (*domain.StageResult, error) {
	if pc == nil {
		return nil, fmt.Errorf("%w: plugin context is nil", domain.ErrInvalidInput)
	}
	raw, ok := pc.InputParameters[domain.ParamQuery]
	if !ok {
		return &domain.StageResult{}, nil
	}
	query, ok := raw.(domain.Query)
	if !ok {
		return nil, fmt.Errorf("%w: %s parameter holds %T", domain.ErrUnsupportedQuery, domain.ParamQuery, raw)
	}

	outcome, err := g.rewriter.RewriteIfUnauthorized(ctx, pc.InitiatingUserID, query)
	if err != nil {
		g.logger.ErrorContext(ctx, "pre-operation stage blocked retrieval",
			"message", pc.MessageName,
			"entity", pc.PrimaryEntityName,
			"user_id", pc.InitiatingUserID,
			"error", err,
		)
		return nil, err
	}
	if outcome.Rewritten {
		pc.InputParameters[domain.ParamQuery] = outcome.Query
	}
	return &domain.StageResult{Applied: true, Rewrite: outcome}, nil
}

// PostOperation redacts the BusinessEntityCollection output parameter in place.
func (g *RetrievalGateImpl) PostOperation(ctx context.Context, pc *domain.PluginContext) (*domain.StageResult, error) {
	if pc == nil {
		return nil, fmt.Errorf("%w: plugin context is nil", domain.ErrInvalidInput)
	}
	raw, ok := pc.OutputParameters[domain.ParamBusinessEntityCollection]
	if !ok {
		return &domain.StageResult{}, nil
	}
	results, ok := raw.(*domain.EntityCollection)
	if !ok {
		return nil, fmt.Errorf("%w: %s parameter holds %T", domain.ErrInvalidInput, domain.ParamBusinessEntityCollection, raw)
	}

	outcome, err := g.redactor.Redact(ctx, pc.InitiatingUserID, results)
	if err != nil {
		g.logger.ErrorContext(ctx, "post-operation stage blocked retrieval",
			"message", pc.MessageName,
			"entity", pc.PrimaryEntityName,
			"user_id", pc.InitiatingUserID,
			"error", err,
		)
		return nil, err
	}
	return &domain.StageResult{Applied: true, Redact: outcome}, nil
}
