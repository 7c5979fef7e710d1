package domain

import "fmt"

// QueryEnvelope is the wire form of a Query: a type tag plus exactly one body.
type QueryEnvelope struct {
	Type             QueryVariant      `json:"type"`
	QueryExpression  *QueryExpression  `json:"query_expression,omitempty"`
	FetchExpression  *FetchExpression  `json:"fetch_expression,omitempty"`
	QueryByAttribute *QueryByAttribute `json:"query_by_attribute,omitempty"`
}

// Query unwraps the envelope. Unknown type tags fail closed.
func (e QueryEnvelope) Query() (Query, error) {
	switch e.Type {
	case VariantQueryExpression:
		if e.QueryExpression == nil {
			return nil, fmt.Errorf("%w: query_expression body is missing", ErrInvalidInput)
		}
		return e.QueryExpression, nil
	case VariantFetchExpression:
		if e.FetchExpression == nil {
			return nil, fmt.Errorf("%w: fetch_expression body is missing", ErrInvalidInput)
		}
		return e.FetchExpression, nil
	case VariantQueryByAttribute:
		if e.QueryByAttribute == nil {
			return nil, fmt.Errorf("%w: query_by_attribute body is missing", ErrInvalidInput)
		}
		return e.QueryByAttribute, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedQuery, e.Type)
	}
}

// NewQueryEnvelope wraps a Query for transport
func NewQueryEnvelope(q Query) (QueryEnvelope, error) {
	switch v := q.(type) {
	case *QueryExpression:
		return QueryEnvelope{Type: VariantQueryExpression, QueryExpression: v}, nil
	case *FetchExpression:
		return QueryEnvelope{Type: VariantFetchExpression, FetchExpression: v}, nil
	case *QueryByAttribute:
		return QueryEnvelope{Type: VariantQueryByAttribute, QueryByAttribute: v}, nil
	default:
		return QueryEnvelope{}, fmt.Errorf("%w: %T", ErrUnsupportedQuery, q)
	}
}
