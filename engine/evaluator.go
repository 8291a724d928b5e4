// Package engine decides, per calendar meeting, whether a recorder bot
// should be invited. It evaluates prioritized per-account and global rules
// against meetings and drives the resulting side effects.
package engine

import (
	"slices"
	"strings"

	"meetbot/db"
)

// Matches reports whether a rule's condition set holds for a meeting.
// Absent conditions impose no constraint; present ones are ANDed. A title
// exclusion hit vetoes the rule no matter what else matches.
func Matches(rule *db.Rule, meeting *db.Meeting) bool {
	c := rule.Conditions
	title := strings.ToLower(meeting.Title)

	for _, exclusion := range c.TitleExclusions {
		if strings.Contains(title, strings.ToLower(exclusion)) {
			return false
		}
	}

	if c.MinDuration != nil || c.MaxDuration != nil {
		duration := meeting.Duration()
		if c.MinDuration != nil && duration < *c.MinDuration {
			return false
		}
		if c.MaxDuration != nil && duration > *c.MaxDuration {
			return false
		}
	}

	if c.MinAttendees != nil && len(meeting.Attendees) < *c.MinAttendees {
		return false
	}
	if c.MaxAttendees != nil && len(meeting.Attendees) > *c.MaxAttendees {
		return false
	}

	if len(c.TitleKeywords) > 0 && !containsAny(title, c.TitleKeywords) {
		return false
	}

	if len(c.AttendeeKeywords) > 0 {
		attendees := strings.ToLower(strings.Join(meeting.Attendees, " "))
		if !containsAny(attendees, c.AttendeeKeywords) {
			return false
		}
	}

	if c.TimeOfDay != nil && c.TimeOfDay.Start != "" && c.TimeOfDay.End != "" {
		// "HH:MM" compares correctly as a string.
		startOfDay := meeting.StartTime.Format("15:04")
		if startOfDay < c.TimeOfDay.Start || startOfDay > c.TimeOfDay.End {
			return false
		}
	}

	if len(c.DaysOfWeek) > 0 && !slices.Contains(c.DaysOfWeek, int(meeting.StartTime.Weekday())) {
		return false
	}

	if len(c.RequiredPlatforms) > 0 && !slices.Contains(c.RequiredPlatforms, meeting.Platform) {
		return false
	}

	return true
}

func containsAny(haystack string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(haystack, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}
