package engine

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"meetbot/db"
)

// ValidateRule rejects malformed rules at creation time, so evaluation can
// trust the stored shape.
func ValidateRule(rule *db.Rule) error {
	if rule.Name == "" {
		return errors.New("rule name is required")
	}
	if rule.AccountID == "" && !rule.IsGlobal {
		return errors.New("rule must be account-scoped or marked global")
	}
	if rule.AccountID != "" && rule.IsGlobal {
		return errors.New("rule cannot be both account-scoped and global")
	}
	return ValidateConditions(&rule.Conditions)
}

func ValidateConditions(c *db.RuleConditions) error {
	if err := validateBounds("duration", c.MinDuration, c.MaxDuration); err != nil {
		return err
	}
	if err := validateBounds("attendees", c.MinAttendees, c.MaxAttendees); err != nil {
		return err
	}

	if c.TimeOfDay != nil {
		if c.TimeOfDay.Start == "" || c.TimeOfDay.End == "" {
			return errors.New("timeOfDay requires both start and end")
		}
		for _, value := range []string{c.TimeOfDay.Start, c.TimeOfDay.End} {
			if _, err := time.Parse("15:04", value); err != nil {
				return fmt.Errorf("invalid timeOfDay value %q, expected HH:MM", value)
			}
		}
		if c.TimeOfDay.Start > c.TimeOfDay.End {
			return fmt.Errorf("timeOfDay start %q is after end %q", c.TimeOfDay.Start, c.TimeOfDay.End)
		}
	}

	for _, day := range c.DaysOfWeek {
		if day < 0 || day > 6 {
			return fmt.Errorf("invalid day of week %d, expected 0-6", day)
		}
	}

	for _, platform := range c.RequiredPlatforms {
		if !slices.Contains(db.KnownPlatforms, platform) {
			return fmt.Errorf("unknown platform %q", platform)
		}
	}

	return nil
}

func validateBounds(name string, min, max *int) error {
	if min != nil && *min < 0 {
		return fmt.Errorf("%s lower bound must not be negative", name)
	}
	if max != nil && *max < 0 {
		return fmt.Errorf("%s upper bound must not be negative", name)
	}
	if min != nil && max != nil && *min > *max {
		return fmt.Errorf("%s lower bound %d exceeds upper bound %d", name, *min, *max)
	}
	return nil
}
