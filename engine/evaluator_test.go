package engine

import (
	"testing"
	"time"

	"meetbot/db"
)

func intPtr(v int) *int { return &v }

// Monday 2026-03-02, 10:00-10:30 UTC.
func testMeeting() *db.Meeting {
	return &db.Meeting{
		ID:        "m1",
		AccountID: "acc1",
		Title:     "Daily Standup",
		StartTime: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC),
		Attendees: []string{"alice@example.com", "bob@example.com", "carol@example.com"},
		Platform:  db.PlatformZoom,
		Status:    db.StatusPending,
	}
}

func TestMatchesEmptyConditions(t *testing.T) {
	rule := &db.Rule{Name: "catch-all"}
	if !Matches(rule, testMeeting()) {
		t.Error("rule with no conditions should match every meeting")
	}
}

func TestMatchesStandupScenario(t *testing.T) {
	rule := &db.Rule{
		Name:     "record standups",
		Priority: 5,
		Conditions: db.RuleConditions{
			MinDuration:       intPtr(15),
			TitleKeywords:     []string{"standup"},
			RequiredPlatforms: []db.Platform{db.PlatformZoom},
		},
		Actions: db.RuleActions{InviteBot: true},
	}
	if !Matches(rule, testMeeting()) {
		t.Error("expected standup rule to match the standup meeting")
	}
}

func TestMatchesTitleExclusionVeto(t *testing.T) {
	rule := &db.Rule{
		Conditions: db.RuleConditions{
			MinDuration:       intPtr(15),
			TitleKeywords:     []string{"standup"},
			TitleExclusions:   []string{"Standup"},
			RequiredPlatforms: []db.Platform{db.PlatformZoom},
		},
	}
	if Matches(rule, testMeeting()) {
		t.Error("exclusion keyword in title must veto the rule regardless of other conditions")
	}
}

func TestMatchesDurationBounds(t *testing.T) {
	meeting := testMeeting() // 30 minutes

	cases := []struct {
		name     string
		min, max *int
		want     bool
	}{
		{"inside bounds", intPtr(15), intPtr(60), true},
		{"equal to min", intPtr(30), intPtr(60), true},
		{"equal to max", intPtr(15), intPtr(30), true},
		{"below min", intPtr(31), nil, false},
		{"above max", nil, intPtr(29), false},
		{"zero max is a real constraint", nil, intPtr(0), false},
		{"zero min still matches", intPtr(0), nil, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rule := &db.Rule{Conditions: db.RuleConditions{MinDuration: tc.min, MaxDuration: tc.max}}
			if got := Matches(rule, meeting); got != tc.want {
				t.Errorf("Matches = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMatchesAttendeeBounds(t *testing.T) {
	meeting := testMeeting() // 3 attendees

	rule := &db.Rule{Conditions: db.RuleConditions{MinAttendees: intPtr(3), MaxAttendees: intPtr(3)}}
	if !Matches(rule, meeting) {
		t.Error("boundary attendee count should match inclusive bounds")
	}

	rule = &db.Rule{Conditions: db.RuleConditions{MinAttendees: intPtr(4)}}
	if Matches(rule, meeting) {
		t.Error("meeting with 3 attendees should not meet a minimum of 4")
	}
}

func TestMatchesTitleKeywordsCaseInsensitive(t *testing.T) {
	rule := &db.Rule{Conditions: db.RuleConditions{TitleKeywords: []string{"STANDUP"}}}
	if !Matches(rule, testMeeting()) {
		t.Error("title keyword match should be case-insensitive")
	}

	rule = &db.Rule{Conditions: db.RuleConditions{TitleKeywords: []string{"retro", "planning"}}}
	if Matches(rule, testMeeting()) {
		t.Error("rule should not match when no title keyword appears")
	}
}

func TestMatchesAttendeeKeywords(t *testing.T) {
	rule := &db.Rule{Conditions: db.RuleConditions{AttendeeKeywords: []string{"Bob@"}}}
	if !Matches(rule, testMeeting()) {
		t.Error("attendee keyword should match case-insensitively across the attendee list")
	}

	rule = &db.Rule{Conditions: db.RuleConditions{AttendeeKeywords: []string{"dave@"}}}
	if Matches(rule, testMeeting()) {
		t.Error("rule should not match when no attendee keyword appears")
	}
}

func TestMatchesTimeOfDay(t *testing.T) {
	meeting := testMeeting() // starts 10:00

	cases := []struct {
		name       string
		start, end string
		want       bool
	}{
		{"inside window", "09:00", "12:00", true},
		{"start boundary inclusive", "10:00", "12:00", true},
		{"end boundary inclusive", "08:00", "10:00", true},
		{"before window", "10:01", "12:00", false},
		{"after window", "08:00", "09:59", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rule := &db.Rule{Conditions: db.RuleConditions{
				TimeOfDay: &db.TimeWindow{Start: tc.start, End: tc.end},
			}}
			if got := Matches(rule, meeting); got != tc.want {
				t.Errorf("Matches = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMatchesDaysOfWeek(t *testing.T) {
	meeting := testMeeting() // Monday

	rule := &db.Rule{Conditions: db.RuleConditions{DaysOfWeek: []int{1, 2, 3, 4, 5}}}
	if !Matches(rule, meeting) {
		t.Error("Monday meeting should match weekday rule")
	}

	rule = &db.Rule{Conditions: db.RuleConditions{DaysOfWeek: []int{0, 6}}}
	if Matches(rule, meeting) {
		t.Error("Monday meeting should not match weekend rule")
	}
}

func TestMatchesRequiredPlatforms(t *testing.T) {
	rule := &db.Rule{Conditions: db.RuleConditions{RequiredPlatforms: []db.Platform{db.PlatformMeet, db.PlatformTeams}}}
	if Matches(rule, testMeeting()) {
		t.Error("zoom meeting should not match a meet/teams-only rule")
	}
}
