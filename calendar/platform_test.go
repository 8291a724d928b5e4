package calendar

import (
	"testing"

	"meetbot/db"
)

func TestDetectPlatform(t *testing.T) {
	cases := []struct {
		name     string
		url      string
		location string
		want     db.Platform
	}{
		{"zoom link", "https://us02web.zoom.us/j/123456", "", db.PlatformZoom},
		{"meet link", "https://meet.google.com/abc-defg-hij", "", db.PlatformMeet},
		{"teams link", "https://teams.microsoft.com/l/meetup-join/xyz", "", db.PlatformTeams},
		{"no link with room", "", "Conference Room 4", db.PlatformInPerson},
		{"no link no location", "", "", db.PlatformOther},
		{"unknown link", "https://example.com/call", "Room 1", db.PlatformOther},
		{"case insensitive", "https://ZOOM.US/j/99", "", db.PlatformZoom},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DetectPlatform(tc.url, tc.location); got != tc.want {
				t.Errorf("DetectPlatform(%q, %q) = %s, want %s", tc.url, tc.location, got, tc.want)
			}
		})
	}
}
