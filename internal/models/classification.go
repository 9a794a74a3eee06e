package models

import "strings"

// CategoryPath addresses a node of the three level taxonomy by name. Lower
// levels are only meaningful while the levels above them are set.
type CategoryPath struct {
	Category    string `json:"category" yaml:"category"`
	Subcategory string `json:"subcategory,omitempty" yaml:"subcategory,omitempty"`
	Leaf        string `json:"leaf,omitempty" yaml:"leaf,omitempty"`
}

// IsEmpty reports whether no level is set.
func (p CategoryPath) IsEmpty() bool {
	return p.Category == "" && p.Subcategory == "" && p.Leaf == ""
}

// String renders the set levels joined by " > ".
func (p CategoryPath) String() string {
	parts := make([]string, 0, 3)
	for _, part := range []string{p.Category, p.Subcategory, p.Leaf} {
		if part == "" {
			break
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, PathSeparator)
}

// Merge returns p with every level overwritten by the non-empty levels of other.
func (p CategoryPath) Merge(other CategoryPath) CategoryPath {
	if other.Category != "" {
		p.Category = other.Category
	}
	if other.Subcategory != "" {
		p.Subcategory = other.Subcategory
	}
	if other.Leaf != "" {
		p.Leaf = other.Leaf
	}
	return p
}

// ParseCategoryPath splits "A>B>C" (spaces around the separator are ignored).
func ParseCategoryPath(s string) CategoryPath {
	var levels [3]string
	for i, part := range strings.SplitN(s, ">", 3) {
		levels[i] = strings.TrimSpace(part)
	}
	return CategoryPath{Category: levels[0], Subcategory: levels[1], Leaf: levels[2]}
}

// ClassificationRule maps a memo keyword to a category path and optionally a
// counterparty, referenced by ID or by name.
type ClassificationRule struct {
	ID             string       `json:"id"`
	Keyword        string       `json:"keyword"`
	Path           CategoryPath `json:"path"`
	Counterparty   string       `json:"counterparty,omitempty"`
	CounterpartyID string       `json:"counterpartyId,omitempty"`
}

// Assignment is the outcome of classifying one transaction.
type Assignment struct {
	Path         CategoryPath
	Counterparty string
	RuleID       string
}

// Matched reports whether a rule produced the assignment.
func (a Assignment) Matched() bool {
	return a.RuleID != ""
}

// CounterpartyRole tells whether a party pays us or gets paid by us.
type CounterpartyRole string

// Counterparty is a known client or supplier.
type Counterparty struct {
	ID   string           `json:"id" yaml:"id"`
	Name string           `json:"name" yaml:"name"`
	Role CounterpartyRole `json:"role" yaml:"role"`
}
