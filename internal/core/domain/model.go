package domain

import (
	"fmt"
	"strings"
)

// Identity is the opaque handle of the user who initiated a retrieval.
type Identity string

// Validate checks that the identity is usable for a role lookup
func (i Identity) Validate() error {
	if strings.TrimSpace(string(i)) == "" {
		return fmt.Errorf("%w: initiating user id cannot be empty", ErrInvalidInput)
	}
	return nil
}

// LogicalOperator combines the conditions and child filters of a FilterExpression
type LogicalOperator string

const (
	LogicalAnd LogicalOperator = "and"
	LogicalOr  LogicalOperator = "or"
)

// QueryVariant names the concrete shape of a Query
type QueryVariant string

const (
	VariantQueryExpression  QueryVariant = "query_expression"
	VariantFetchExpression  QueryVariant = "fetch_expression"
	VariantQueryByAttribute QueryVariant = "query_by_attribute"
)

// Query is a retrieval request as handed over by the host pipeline.
// The set of implementations is closed: QueryExpression, FetchExpression and QueryByAttribute.
type Query interface {
	Variant() QueryVariant
	sealed()
}

// ConditionExpression is a single predicate on an attribute
type ConditionExpression struct {
	EntityName    string `json:"entity_name,omitempty"`
	AttributeName string `json:"attribute_name"`
	Operator      string `json:"operator"`
	Values        []any  `json:"values,omitempty"`
}

// FilterExpression is a logical group of conditions and nested filter groups
type FilterExpression struct {
	FilterOperator LogicalOperator       `json:"filter_operator"`
	Conditions     []ConditionExpression `json:"conditions,omitempty"`
	Filters        []FilterExpression    `json:"filters,omitempty"`
}

// QueryExpression is the typed filter tree form of a query
type QueryExpression struct {
	EntityName string           `json:"entity_name"`
	ColumnSet  []string         `json:"column_set,omitempty"`
	Criteria   FilterExpression `json:"criteria"`
}

// FetchExpression carries a FetchXML document
type FetchExpression struct {
	Query string `json:"query"`
}

// QueryByAttribute is the flat attribute/value form. It has no filter tree.
type QueryByAttribute struct {
	EntityName string   `json:"entity_name"`
	ColumnSet  []string `json:"column_set,omitempty"`
	Attributes []string `json:"attributes,omitempty"`
	Values     []any    `json:"values,omitempty"`
}

func (*QueryExpression) Variant() QueryVariant  { return VariantQueryExpression }
func (*FetchExpression) Variant() QueryVariant  { return VariantFetchExpression }
func (*QueryByAttribute) Variant() QueryVariant { return VariantQueryByAttribute }

func (*QueryExpression) sealed()  {}
func (*FetchExpression) sealed()  {}
func (*QueryByAttribute) sealed() {}

// Entity is a single retrieved record
type Entity struct {
	LogicalName string         `json:"logical_name"`
	ID          string         `json:"id,omitempty"`
	Attributes  map[string]any `json:"attributes"`
}

// EntityCollection is the result set of a retrieval
type EntityCollection struct {
	EntityName string    `json:"entity_name,omitempty"`
	Entities   []*Entity `json:"entities"`
}

// RewriteOutcome reports what the query filter rewriter did
type RewriteOutcome struct {
	Query             Query        `json:"-"`
	Variant           QueryVariant `json:"variant,omitempty"`
	Rewritten         bool         `json:"rewritten"`
	RemovedConditions int          `json:"removed_conditions"`
	NotificationID    string       `json:"notification_id,omitempty"`
}

// RedactOutcome reports what the result redactor did
type RedactOutcome struct {
	Inspected int `json:"inspected"`
	Redacted  int `json:"redacted"`
}

// AppNotification is an in-app toast sent to a single user
type AppNotification struct {
	Recipient Identity `json:"recipient"`
	Title     string   `json:"title"`
	Body      string   `json:"body"`
	IconType  int      `json:"icon_type"`
	ToastType int      `json:"toast_type"`
}
