package config

import (
	"os"
	"path/filepath"
	"testing"

	"meetbot/db"
)

const seedYAML = `
- name: Record team standups
  description: Invite the bot to short recurring standups
  priority: 10
  conditions:
    minDuration: 10
    maxDuration: 45
    titleKeywords: [standup, daily]
    titleExclusions: [cancelled]
    daysOfWeek: [1, 2, 3, 4, 5]
    requiredPlatforms: [zoom, meet]
    timeOfDay:
      start: "08:00"
      end: "12:00"
  actions:
    inviteBot: true
    notifyUser: true
    customMessage: Standing invite per team policy
- name: Skip one-on-ones
  priority: 20
  conditions:
    maxAttendees: 2
  actions:
    inviteBot: false
`

func TestLoadRuleSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte(seedYAML), 0o644); err != nil {
		t.Fatalf("write seed file: %v", err)
	}

	rules, err := LoadRuleSeed(path)
	if err != nil {
		t.Fatalf("LoadRuleSeed: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(rules))
	}

	first := rules[0]
	if first.Name != "Record team standups" || first.Priority != 10 {
		t.Errorf("unexpected first rule: %+v", first)
	}
	if !first.IsGlobal || !first.IsActive {
		t.Error("seeded rules must be global and active")
	}
	if first.Conditions.MinDuration == nil || *first.Conditions.MinDuration != 10 {
		t.Errorf("minDuration not parsed: %+v", first.Conditions.MinDuration)
	}
	if first.Conditions.TimeOfDay == nil || first.Conditions.TimeOfDay.Start != "08:00" {
		t.Errorf("timeOfDay not parsed: %+v", first.Conditions.TimeOfDay)
	}
	if len(first.Conditions.RequiredPlatforms) != 2 || first.Conditions.RequiredPlatforms[0] != db.PlatformZoom {
		t.Errorf("requiredPlatforms not parsed: %+v", first.Conditions.RequiredPlatforms)
	}
	if !first.Actions.InviteBot || first.Actions.CustomMessage == "" {
		t.Errorf("actions not parsed: %+v", first.Actions)
	}

	second := rules[1]
	if second.Conditions.MaxAttendees == nil || *second.Conditions.MaxAttendees != 2 {
		t.Errorf("maxAttendees not parsed: %+v", second.Conditions.MaxAttendees)
	}
	if second.Actions.InviteBot {
		t.Error("second rule must not invite the bot")
	}
}

func TestLoadRuleSeedMissingFile(t *testing.T) {
	if _, err := LoadRuleSeed(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing seed file")
	}
}

func TestLoadRuleSeedRejectsInvalidRules(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"inverted duration bounds", `
- name: bad bounds
  conditions:
    minDuration: 60
    maxDuration: 30
  actions:
    inviteBot: true
`},
		{"day of week out of range", `
- name: bad day
  conditions:
    daysOfWeek: [9]
  actions:
    inviteBot: true
`},
		{"malformed time window", `
- name: bad window
  conditions:
    timeOfDay:
      start: 9am
      end: "17:00"
  actions:
    inviteBot: true
`},
		{"missing name", `
- description: nameless
  actions:
    inviteBot: true
`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "rules.yaml")
			if err := os.WriteFile(path, []byte(tc.yaml), 0o644); err != nil {
				t.Fatalf("write seed file: %v", err)
			}
			if _, err := LoadRuleSeed(path); err == nil {
				t.Error("expected seed validation to reject the rule")
			}
		})
	}
}
