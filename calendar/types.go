package calendar

import "time"

type eventTime struct {
	DateTime *time.Time `json:"dateTime,omitempty"`
	Date     string     `json:"date,omitempty"`
}

type eventAttendee struct {
	Email    string `json:"email"`
	Resource bool   `json:"resource,omitempty"`
}

type entryPoint struct {
	EntryPointType string `json:"entryPointType"`
	URI            string `json:"uri"`
}

type conferenceData struct {
	EntryPoints []entryPoint `json:"entryPoints"`
}

type calendarEvent struct {
	ID             string          `json:"id"`
	Status         string          `json:"status"`
	Summary        string          `json:"summary"`
	Description    string          `json:"description"`
	Location       string          `json:"location"`
	Start          eventTime       `json:"start"`
	End            eventTime       `json:"end"`
	Attendees      []eventAttendee `json:"attendees"`
	HangoutLink    string          `json:"hangoutLink"`
	ConferenceData *conferenceData `json:"conferenceData"`
}

type eventListResponse struct {
	Items         []calendarEvent `json:"items"`
	NextPageToken string          `json:"nextPageToken"`
}

// meetingURL prefers the explicit video entry point over the hangout link.
func (e *calendarEvent) meetingURL() string {
	if e.ConferenceData != nil {
		for _, ep := range e.ConferenceData.EntryPoints {
			if ep.EntryPointType == "video" && ep.URI != "" {
				return ep.URI
			}
		}
	}
	return e.HangoutLink
}
