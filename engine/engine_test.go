package engine

import (
	"testing"
	"time"

	"meetbot/db"
)

func newTestEvaluator(rules []db.Rule) *Evaluator {
	source := &fakeRuleSource{rules: map[string][]db.Rule{"acc1": rules}}
	return NewEvaluator(NewRuleCache(source, DefaultRuleTTL))
}

func TestApplicableRulesPriorityOrdering(t *testing.T) {
	evaluator := newTestEvaluator([]db.Rule{
		{ID: "r2", Name: "high", Priority: 10},
		{ID: "r1", Name: "low", Priority: 5},
	})

	applicable, err := evaluator.ApplicableRules(testMeeting(), "acc1")
	if err != nil {
		t.Fatalf("ApplicableRules: %v", err)
	}
	if len(applicable) != 2 {
		t.Fatalf("expected 2 matching rules, got %d", len(applicable))
	}
	if applicable[0].ID != "r2" || applicable[1].ID != "r1" {
		t.Errorf("expected priority-descending order r2, r1; got %s, %s", applicable[0].ID, applicable[1].ID)
	}
}

func TestApplicableRulesTiebreakKeepsStoreOrder(t *testing.T) {
	older := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)

	// Store order is created_at ascending within equal priority.
	evaluator := newTestEvaluator([]db.Rule{
		{ID: "rA", Priority: 5, CreatedAt: older},
		{ID: "rB", Priority: 5, CreatedAt: newer},
	})

	applicable, err := evaluator.ApplicableRules(testMeeting(), "acc1")
	if err != nil {
		t.Fatalf("ApplicableRules: %v", err)
	}
	if applicable[0].ID != "rA" {
		t.Errorf("equal-priority tie should keep the older rule first, got %s", applicable[0].ID)
	}
}

func TestApplicableRulesFiltersNonMatching(t *testing.T) {
	evaluator := newTestEvaluator([]db.Rule{
		{ID: "r1", Priority: 10, Conditions: db.RuleConditions{TitleKeywords: []string{"retro"}}},
		{ID: "r2", Priority: 1, Conditions: db.RuleConditions{TitleKeywords: []string{"standup"}}},
	})

	applicable, err := evaluator.ApplicableRules(testMeeting(), "acc1")
	if err != nil {
		t.Fatalf("ApplicableRules: %v", err)
	}
	if len(applicable) != 1 || applicable[0].ID != "r2" {
		t.Errorf("expected only r2 to match, got %+v", applicable)
	}
}

func TestApplicableRulesEmptyResultIsNotAnError(t *testing.T) {
	evaluator := newTestEvaluator(nil)

	applicable, err := evaluator.ApplicableRules(testMeeting(), "acc1")
	if err != nil {
		t.Fatalf("ApplicableRules: %v", err)
	}
	if len(applicable) != 0 {
		t.Errorf("expected no matches, got %d", len(applicable))
	}
}
