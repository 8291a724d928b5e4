package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"meetbot/db"
	"meetbot/engine"
)

// seedRule is the YAML shape of one entry in the optional RULES_FILE, used
// to give fresh deployments a default global rule set.
type seedRule struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Priority    int    `yaml:"priority"`
	Conditions  struct {
		MinDuration       *int     `yaml:"minDuration"`
		MaxDuration       *int     `yaml:"maxDuration"`
		MinAttendees      *int     `yaml:"minAttendees"`
		MaxAttendees      *int     `yaml:"maxAttendees"`
		TitleKeywords     []string `yaml:"titleKeywords"`
		TitleExclusions   []string `yaml:"titleExclusions"`
		AttendeeKeywords  []string `yaml:"attendeeKeywords"`
		TimeOfDay         *struct {
			Start string `yaml:"start"`
			End   string `yaml:"end"`
		} `yaml:"timeOfDay"`
		DaysOfWeek        []int    `yaml:"daysOfWeek"`
		RequiredPlatforms []string `yaml:"requiredPlatforms"`
	} `yaml:"conditions"`
	Actions struct {
		InviteBot     bool   `yaml:"inviteBot"`
		NotifyUser    bool   `yaml:"notifyUser"`
		CustomMessage string `yaml:"customMessage"`
	} `yaml:"actions"`
}

// LoadRuleSeed parses the YAML rule seed file into rule records ready for
// db.SeedGlobalRules.
func LoadRuleSeed(path string) ([]db.Rule, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadRuleSeed: failed to read %s: %w", path, err)
	}

	var seeds []seedRule
	if err := yaml.Unmarshal(raw, &seeds); err != nil {
		return nil, fmt.Errorf("LoadRuleSeed: failed to parse %s: %w", path, err)
	}

	rules := make([]db.Rule, 0, len(seeds))
	for _, seed := range seeds {
		rule := db.Rule{
			Name:        seed.Name,
			Description: seed.Description,
			IsGlobal:    true,
			Priority:    seed.Priority,
			IsActive:    true,
			Conditions: db.RuleConditions{
				MinDuration:      seed.Conditions.MinDuration,
				MaxDuration:      seed.Conditions.MaxDuration,
				MinAttendees:     seed.Conditions.MinAttendees,
				MaxAttendees:     seed.Conditions.MaxAttendees,
				TitleKeywords:    seed.Conditions.TitleKeywords,
				TitleExclusions:  seed.Conditions.TitleExclusions,
				AttendeeKeywords: seed.Conditions.AttendeeKeywords,
				DaysOfWeek:       seed.Conditions.DaysOfWeek,
			},
			Actions: db.RuleActions{
				InviteBot:     seed.Actions.InviteBot,
				NotifyUser:    seed.Actions.NotifyUser,
				CustomMessage: seed.Actions.CustomMessage,
			},
		}
		if seed.Conditions.TimeOfDay != nil {
			rule.Conditions.TimeOfDay = &db.TimeWindow{
				Start: seed.Conditions.TimeOfDay.Start,
				End:   seed.Conditions.TimeOfDay.End,
			}
		}
		for _, platform := range seed.Conditions.RequiredPlatforms {
			rule.Conditions.RequiredPlatforms = append(rule.Conditions.RequiredPlatforms, db.Platform(platform))
		}

		// Seeded rules go through the same validation as API-created ones;
		// a bad seed file fails startup instead of planting a rule the
		// evaluator can never match.
		if err := engine.ValidateRule(&rule); err != nil {
			return nil, fmt.Errorf("LoadRuleSeed: invalid rule %q in %s: %w", rule.Name, path, err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}
