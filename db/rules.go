package db

import (
	"fmt"
	"time"
)

// RuleStore is the rule source handed to the engine's cache. Results are
// ordered priority descending with older rules winning ties, so the head of
// the list is always the primary candidate.
type RuleStore struct{}

func (RuleStore) RulesForAccount(accountID string) ([]Rule, error) {
	var rules []Rule
	err := DB.
		Where("(account_id = ? OR is_global = ?) AND is_active = ?", accountID, true, true).
		Order("priority DESC, created_at ASC, id ASC").
		Find(&rules).Error
	if err != nil {
		return nil, fmt.Errorf("RulesForAccount: failed to fetch rules for account %s: %w", accountID, err)
	}
	return rules, nil
}

func CreateRule(rule *Rule) error {
	now := time.Now().UTC()
	rule.ID = newID()
	rule.CreatedAt = now
	rule.UpdatedAt = now

	if err := DB.Create(rule).Error; err != nil {
		return fmt.Errorf("CreateRule: failed to save rule %q: %w", rule.Name, err)
	}
	return nil
}

func GetRule(id string) (*Rule, error) {
	var rule Rule
	err := DB.Where("id = ?", id).First(&rule).Error
	return &rule, err
}

// ListRules returns every rule visible to an account: its own plus the
// global ones. Inactive rules are included so the API can show them.
func ListRules(accountID string) ([]Rule, error) {
	var rules []Rule
	err := DB.
		Where("account_id = ? OR is_global = ?", accountID, true).
		Order("priority DESC, created_at ASC, id ASC").
		Find(&rules).Error
	return rules, err
}

func UpdateRule(rule *Rule) error {
	rule.UpdatedAt = time.Now().UTC()
	err := DB.Model(&Rule{}).Where("id = ?", rule.ID).
		Select("name", "description", "conditions", "actions", "priority", "is_active", "updated_at").
		Updates(rule).Error
	if err != nil {
		return fmt.Errorf("UpdateRule: failed to update rule %s: %w", rule.ID, err)
	}
	return nil
}

func DeleteRule(id string) error {
	return DB.Where("id = ?", id).Delete(&Rule{}).Error
}

// SeedGlobalRules inserts the given rules as active global rules unless a
// global rule with the same name already exists. Used for the boot-time
// rule seed file.
func SeedGlobalRules(rules []Rule) (int, error) {
	created := 0
	for i := range rules {
		rule := rules[i]

		var count int64
		if err := DB.Model(&Rule{}).
			Where("name = ? AND is_global = ?", rule.Name, true).
			Count(&count).Error; err != nil {
			return created, fmt.Errorf("SeedGlobalRules: failed to check rule %q: %w", rule.Name, err)
		}
		if count > 0 {
			continue
		}

		rule.IsGlobal = true
		rule.AccountID = ""
		rule.IsActive = true
		if err := CreateRule(&rule); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
