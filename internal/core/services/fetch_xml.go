package services

import (
	"fmt"

	"github.com/beevik/etree"

	"sensitive-field-gate/internal/core/domain"
)

const (
	fetchEntityTag    = "entity"
	fetchFilterTag    = "filter"
	fetchConditionTag = "condition"
)

// FetchPruneResult is the outcome of PruneFetchConditions.
type FetchPruneResult struct {
	// FetchXML is the re-serialised document, or the input text when nothing was removed.
	FetchXML string
	Removed  int
}

// PruneFetchConditions removes every condition on attribute that sits anywhere below a filter
// element of the first entity element, provided that entity is named entityName.
// Documents that cannot be parsed, or have no named entity, are rejected with ErrMalformedQuery.
func PruneFetchConditions(fetchXML, entityName, attribute string) (FetchPruneResult, error) {
	result := FetchPruneResult{FetchXML: fetchXML}

	doc, err := parseFetchXML(fetchXML)
	if err != nil {
		return result, err
	}

	entity := findFirstElement(doc.Root(), fetchEntityTag)
	if entity == nil {
		return result, fmt.Errorf("%w: document has no %s element", domain.ErrMalformedQuery, fetchEntityTag)
	}
	name := entity.SelectAttr("name")
	if name == nil {
		return result, fmt.Errorf("%w: %s element has no name attribute", domain.ErrMalformedQuery, fetchEntityTag)
	}
	if name.Value != entityName {
		return result, nil
	}

	var matches []*etree.Element
	collectFetchConditions(entity, false, attribute, &matches)
	if len(matches) == 0 {
		return result, nil
	}
	for _, condition := range matches {
		condition.Parent().RemoveChild(condition)
	}

	out, err := doc.WriteToString()
	if err != nil {
		return FetchPruneResult{FetchXML: fetchXML}, fmt.Errorf("%w: serialise: %v", domain.ErrMalformedQuery, err)
	}
	result.FetchXML = out
	result.Removed = len(matches)
	return result, nil
}

// findFirstElement does a depth-first, document-order search including el itself.
func findFirstElement(el *etree.Element, tag string) *etree.Element {
	if el.Tag == tag {
		return el
	}
	for _, child := range el.ChildElements() {
		if found := findFirstElement(child, tag); found != nil {
			return found
		}
	}
	return nil
}

// collectFetchConditions walks the whole subtree; filters may nest irregularly,
// including inside link-entity elements.
func collectFetchConditions(el *etree.Element, underFilter bool, attribute string, out *[]*etree.Element) {
	for _, child := range el.ChildElements() {
		if underFilter && child.Tag == fetchConditionTag && child.SelectAttrValue("attribute", "") == attribute {
			*out = append(*out, child)
			continue
		}
		collectFetchConditions(child, underFilter || child.Tag == fetchFilterTag, attribute, out)
	}
}

// parseFetchXML reads a document with exactly one root element and no repeated attributes.
// etree tokenizes without these well-formedness checks, so they are done here.
func parseFetchXML(fetchXML string) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(fetchXML); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedQuery, err)
	}
	switch roots := len(doc.ChildElements()); {
	case roots == 0:
		return nil, fmt.Errorf("%w: document has no root element", domain.ErrMalformedQuery)
	case roots > 1:
		return nil, fmt.Errorf("%w: document has %d root elements", domain.ErrMalformedQuery, roots)
	}
	if err := checkUniqueAttributes(doc.Root()); err != nil {
		return nil, err
	}
	return doc, nil
}

func checkUniqueAttributes(el *etree.Element) error {
	seen := make(map[string]struct{}, len(el.Attr))
	for _, attr := range el.Attr {
		key := attr.FullKey()
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: attribute %q repeated on <%s>", domain.ErrMalformedQuery, key, el.FullTag())
		}
		seen[key] = struct{}{}
	}
	for _, child := range el.ChildElements() {
		if err := checkUniqueAttributes(child); err != nil {
			return err
		}
	}
	return nil
}
