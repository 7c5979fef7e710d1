package services

import "sensitive-field-gate/internal/core/domain"

// PruneFilterConditions returns a copy of filter with every condition on attribute removed,
// at any depth, and the number of conditions removed. filter is not modified.
// Child groups are always kept, even when pruning leaves them empty.
func PruneFilterConditions(filter domain.FilterExpression, attribute string) (domain.FilterExpression, int) {
	pruned := domain.FilterExpression{FilterOperator: filter.FilterOperator}
	removed := 0

	if filter.Conditions != nil {
		pruned.Conditions = make([]domain.ConditionExpression, 0, len(filter.Conditions))
		for _, condition := range filter.Conditions {
			if condition.AttributeName == attribute {
				removed++
				continue
			}
			pruned.Conditions = append(pruned.Conditions, condition)
		}
	}

	// Matches are independent of ancestors, so every child group is visited.
	if filter.Filters != nil {
		pruned.Filters = make([]domain.FilterExpression, 0, len(filter.Filters))
		for _, child := range filter.Filters {
			prunedChild, n := PruneFilterConditions(child, attribute)
			pruned.Filters = append(pruned.Filters, prunedChild)
			removed += n
		}
	}

	return pruned, removed
}
