package engine

import (
	"sort"

	"meetbot/db"
)

// Evaluator produces, for one meeting, the ordered list of rules that
// match it.
type Evaluator struct {
	cache *RuleCache
}

func NewEvaluator(cache *RuleCache) *Evaluator {
	return &Evaluator{cache: cache}
}

// ApplicableRules returns the matching rules sorted by priority descending.
// Ties keep the store order, which is creation time ascending, so the
// oldest of two equal-priority rules wins. An empty result is not an error.
func (e *Evaluator) ApplicableRules(meeting *db.Meeting, accountID string) ([]db.Rule, error) {
	rules, err := e.cache.RulesFor(accountID)
	if err != nil {
		return nil, err
	}

	var applicable []db.Rule
	for i := range rules {
		if Matches(&rules[i], meeting) {
			applicable = append(applicable, rules[i])
		}
	}

	sort.SliceStable(applicable, func(i, j int) bool {
		return applicable[i].Priority > applicable[j].Priority
	})

	return applicable, nil
}

// Cache exposes the underlying rule cache for invalidation by rule
// mutation paths.
func (e *Evaluator) Cache() *RuleCache {
	return e.cache
}
