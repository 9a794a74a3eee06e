// Package rules keeps the ordered keyword rule book used to classify
// transactions.
package rules

import (
	"strings"

	"fjacquet/ofx-import/internal/models"
	"fjacquet/ofx-import/internal/textutils"
)

// Rule is a classification rule.
type Rule = models.ClassificationRule

// RuleSet is an ordered, in-memory rule list. Lookup scans in stored order
// and the first rule whose keyword occurs in the memo wins, so "PIX" stored
// before "PIXCARD" shadows it.
type RuleSet struct {
	rules []Rule
	index map[string]int
}

// NewRuleSet builds a RuleSet, dropping later duplicates of a keyword.
func NewRuleSet(initial ...Rule) *RuleSet {
	rs := &RuleSet{index: map[string]int{}}
	for _, r := range initial {
		rs.Add(r)
	}
	return rs
}

// Lookup returns the first rule whose keyword is a case-insensitive substring
// of memo.
func (rs *RuleSet) Lookup(memo string) (Rule, bool) {
	upper := strings.ToUpper(memo)
	for _, r := range rs.rules {
		if strings.Contains(upper, textutils.NormalizeKeyword(r.Keyword)) {
			return r, true
		}
	}
	return Rule{}, false
}

// Contains reports whether a rule with this keyword exists, ignoring case.
func (rs *RuleSet) Contains(keyword string) bool {
	_, ok := rs.index[textutils.NormalizeKeyword(keyword)]
	return ok
}

// Add appends rule. A blank or already present keyword is a no-op that
// returns false.
func (rs *RuleSet) Add(rule Rule) bool {
	key := textutils.NormalizeKeyword(rule.Keyword)
	if key == "" {
		return false
	}
	if _, dup := rs.index[key]; dup {
		return false
	}
	rule.Keyword = strings.TrimSpace(rule.Keyword)
	rs.index[key] = len(rs.rules)
	rs.rules = append(rs.rules, rule)
	return true
}

// Remove deletes the rule with the given ID.
func (rs *RuleSet) Remove(id string) bool {
	for i, r := range rs.rules {
		if r.ID == id {
			rs.rules = append(rs.rules[:i], rs.rules[i+1:]...)
			rs.reindex()
			return true
		}
	}
	return false
}

// Get returns the rule with the given ID.
func (rs *RuleSet) Get(id string) (Rule, bool) {
	for _, r := range rs.rules {
		if r.ID == id {
			return r, true
		}
	}
	return Rule{}, false
}

// List returns a copy of the rules in stored order.
func (rs *RuleSet) List() []Rule {
	out := make([]Rule, len(rs.rules))
	copy(out, rs.rules)
	return out
}

// Len returns the number of rules.
func (rs *RuleSet) Len() int {
	return len(rs.rules)
}

func (rs *RuleSet) reindex() {
	rs.index = make(map[string]int, len(rs.rules))
	for i, r := range rs.rules {
		rs.index[textutils.NormalizeKeyword(r.Keyword)] = i
	}
}
