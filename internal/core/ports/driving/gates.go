package driving

import (
	"context"

	"sensitive-field-gate/internal/core/domain"
)

// EntitlementChecker answers whether a user holds the protected role.
type EntitlementChecker interface {
	HasProtectedRole(ctx context.Context, identity domain.Identity) (bool, error)
}

// QueryFilterRewriter strips predicates on the protected attribute before a retrieval executes.
type QueryFilterRewriter interface {
	RewriteIfUnauthorized(ctx context.Context, identity domain.Identity, query domain.Query) (*domain.RewriteOutcome, error)
}

// ResultRedactor masks the protected attribute on secret records after a retrieval executes.
type ResultRedactor interface {
	Redact(ctx context.Context, identity domain.Identity, results *domain.EntityCollection) (*domain.RedactOutcome, error)
}

// RetrievalGate is the plugin-stage entry point used by the host pipeline.
type RetrievalGate interface {
	PreOperation(ctx context.Context, pc *domain.PluginContext) (*domain.StageResult, error)
	PostOperation(ctx context.Context, pc *domain.PluginContext) (*domain.StageResult, error)
}
