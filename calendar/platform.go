package calendar

import (
	"strings"

	"meetbot/db"
)

// DetectPlatform classifies a meeting from its conferencing URL, falling
// back to the event location. An event with no URL but a physical location
// is in-person.
func DetectPlatform(meetingURL, location string) db.Platform {
	url := strings.ToLower(meetingURL)
	switch {
	case strings.Contains(url, "zoom.us"):
		return db.PlatformZoom
	case strings.Contains(url, "meet.google.com"):
		return db.PlatformMeet
	case strings.Contains(url, "teams.microsoft.com"):
		return db.PlatformTeams
	}

	if meetingURL == "" && strings.TrimSpace(location) != "" {
		return db.PlatformInPerson
	}
	return db.PlatformOther
}
