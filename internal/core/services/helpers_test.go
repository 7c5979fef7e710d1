package services

import (
	"github.com/beevik/etree"

	"sensitive-field-gate/internal/core/domain"
)

// countFilterConditions counts conditions on attribute at any depth.
func countFilterConditions(filter domain.FilterExpression, attribute string) int {
	count := 0
	for _, c := range filter.Conditions {
		if c.AttributeName == attribute {
			count++
		}
	}
	for _, child := range filter.Filters {
		count += countFilterConditions(child, attribute)
	}
	return count
}

// countFetchConditions counts conditions on attribute below any filter element.
func countFetchConditions(fetchXML, attribute string) (int, error) {
	doc, err := parseFetchXML(fetchXML)
	if err != nil {
		return 0, err
	}
	var matches []*etree.Element
	collectFetchConditions(&doc.Element, false, attribute, &matches)
	return len(matches), nil
}
