package services

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sensitive-field-gate/internal/core/domain"
)

const protected = "vlj_sensitivefield"

func condition(attribute string, values ...any) domain.ConditionExpression {
	return domain.ConditionExpression{AttributeName: attribute, Operator: "eq", Values: values}
}

func TestPruneFilterConditions_NestedGroups(t *testing.T) {
	filter := domain.FilterExpression{
		FilterOperator: domain.LogicalAnd,
		Conditions: []domain.ConditionExpression{
			condition(protected, "X"),
			condition("name", "Contoso"),
		},
		Filters: []domain.FilterExpression{
			{
				FilterOperator: domain.LogicalOr,
				Conditions:     []domain.ConditionExpression{condition(protected, "Y")},
				Filters: []domain.FilterExpression{
					{
						FilterOperator: domain.LogicalAnd,
						Conditions: []domain.ConditionExpression{
							condition("revenue", 10),
							condition(protected, "Z"),
						},
					},
				},
			},
			{
				FilterOperator: domain.LogicalOr,
				Conditions:     []domain.ConditionExpression{condition("city", "Oslo")},
			},
		},
	}

	pruned, removed := PruneFilterConditions(filter, protected)

	assert.Equal(t, 3, removed)
	assert.Zero(t, countFilterConditions(pruned, protected))
	assert.Equal(t, domain.FilterExpression{
		FilterOperator: domain.LogicalAnd,
		Conditions:     []domain.ConditionExpression{condition("name", "Contoso")},
		Filters: []domain.FilterExpression{
			{
				FilterOperator: domain.LogicalOr,
				Conditions:     []domain.ConditionExpression{},
				Filters: []domain.FilterExpression{
					{
						FilterOperator: domain.LogicalAnd,
						Conditions:     []domain.ConditionExpression{condition("revenue", 10)},
					},
				},
			},
			{
				FilterOperator: domain.LogicalOr,
				Conditions:     []domain.ConditionExpression{condition("city", "Oslo")},
			},
		},
	}, pruned)

	// input is left as it was
	assert.Equal(t, 3, countFilterConditions(filter, protected))
}

func TestPruneFilterConditions_MatchOnlyDeepInside(t *testing.T) {
	// no match at the top levels must not stop the walk
	deep := domain.FilterExpression{FilterOperator: domain.LogicalAnd, Conditions: []domain.ConditionExpression{condition(protected, 1)}}
	for i := 0; i < 12; i++ {
		deep = domain.FilterExpression{FilterOperator: domain.LogicalOr, Filters: []domain.FilterExpression{deep}}
	}

	pruned, removed := PruneFilterConditions(deep, protected)
	assert.Equal(t, 1, removed)
	assert.Zero(t, countFilterConditions(pruned, protected))
}

func TestPruneFilterConditions_ExactNameMatch(t *testing.T) {
	filter := domain.FilterExpression{
		Conditions: []domain.ConditionExpression{
			condition("VLJ_SensitiveField"),
			condition(protected + "_other"),
		},
	}
	pruned, removed := PruneFilterConditions(filter, protected)
	assert.Zero(t, removed)
	assert.Equal(t, filter, pruned)
}

func TestPruneFilterConditions_RandomTrees(t *testing.T) {
	for seed := int64(1); seed <= 300; seed++ {
		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			original := randomFilter(rand.New(rand.NewSource(seed)), 5)
			snapshot := randomFilter(rand.New(rand.NewSource(seed)), 5)
			expected := countFilterConditions(original, protected)

			pruned, removed := PruneFilterConditions(original, protected)

			require.Equal(t, expected, removed)
			assert.Zero(t, countFilterConditions(pruned, protected))
			assertSameShapeWithout(t, original, pruned, protected)
			assert.Equal(t, snapshot, original, "input tree must not be modified")

			again, removedAgain := PruneFilterConditions(pruned, protected)
			assert.Zero(t, removedAgain)
			assert.Equal(t, pruned, again)
		})
	}
}

func randomFilter(rng *rand.Rand, depth int) domain.FilterExpression {
	operators := []domain.LogicalOperator{domain.LogicalAnd, domain.LogicalOr}
	filter := domain.FilterExpression{FilterOperator: operators[rng.Intn(len(operators))]}

	for i, n := 0, rng.Intn(4); i < n; i++ {
		attribute := fmt.Sprintf("attr_%d", rng.Intn(5))
		if rng.Intn(3) == 0 {
			attribute = protected
		}
		filter.Conditions = append(filter.Conditions, condition(attribute, rng.Intn(100)))
	}
	if depth > 0 {
		for i, n := 0, rng.Intn(3); i < n; i++ {
			filter.Filters = append(filter.Filters, randomFilter(rng, depth-1))
		}
	}
	return filter
}

// assertSameShapeWithout checks that pruned is original minus the conditions on attribute.
func assertSameShapeWithout(t *testing.T, original, pruned domain.FilterExpression, attribute string) {
	t.Helper()
	assert.Equal(t, original.FilterOperator, pruned.FilterOperator)

	var kept []domain.ConditionExpression
	for _, c := range original.Conditions {
		if c.AttributeName != attribute {
			kept = append(kept, c)
		}
	}
	assert.Equal(t, len(kept), len(pruned.Conditions))
	for i := range kept {
		if i < len(pruned.Conditions) {
			assert.Equal(t, kept[i], pruned.Conditions[i])
		}
	}

	require.Equal(t, len(original.Filters), len(pruned.Filters))
	for i := range original.Filters {
		assertSameShapeWithout(t, original.Filters[i], pruned.Filters[i], attribute)
	}
}
