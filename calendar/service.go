// Package calendar wraps the Google Calendar API: syncing upcoming events
// into meeting records and patching events to invite the recorder bot.
package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	log15 "github.com/inconshreveable/log15/v3"

	"meetbot/db"
	"meetbot/utils"
)

const (
	googleCalendarBaseURL = "https://www.googleapis.com/calendar/v3"

	defaultSyncWindowHrs = 24
	eventsPageSize       = 100
)

type Service struct {
	client  *http.Client
	baseURL string
	log     log15.Logger
}

func NewService() *Service {
	return &Service{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: googleCalendarBaseURL,
		log:     log15.New("module", "calendar"),
	}
}

// ListMeetings pulls the account's upcoming events, normalizes them and
// upserts each as a meeting record. Cancelled and all-day events are
// skipped.
func (s *Service) ListMeetings(ctx context.Context, accountID string) ([]db.Meeting, error) {
	account, err := db.GetAccount(accountID)
	if err != nil {
		return nil, fmt.Errorf("ListMeetings: failed to load account %s: %w", accountID, err)
	}

	token, err := utils.Decrypt(account.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("ListMeetings: failed to decrypt token for account %s: %w", accountID, err)
	}

	windowHrs := account.Settings.SyncWindowHrs
	if windowHrs <= 0 {
		windowHrs = defaultSyncWindowHrs
	}

	events, err := s.fetchEvents(ctx, token, account.CalendarID, windowHrs)
	if err != nil {
		return nil, err
	}

	var meetings []db.Meeting
	for _, event := range events {
		if event.Status == "cancelled" || event.Start.DateTime == nil || event.End.DateTime == nil {
			continue
		}

		meetingURL := event.meetingURL()
		attendees := make([]string, 0, len(event.Attendees))
		for _, attendee := range event.Attendees {
			if !attendee.Resource {
				attendees = append(attendees, attendee.Email)
			}
		}

		meeting := &db.Meeting{
			AccountID:       account.ID,
			ExternalEventID: event.ID,
			Title:           event.Summary,
			Description:     event.Description,
			StartTime:       *event.Start.DateTime,
			EndTime:         *event.End.DateTime,
			Attendees:       attendees,
			MeetingURL:      meetingURL,
			Platform:        DetectPlatform(meetingURL, event.Location),
		}

		saved, err := db.UpsertMeeting(meeting)
		if err != nil {
			return nil, fmt.Errorf("ListMeetings: failed to upsert event %s: %w", event.ID, err)
		}
		meetings = append(meetings, *saved)
	}

	s.log.Info("synced meetings", "accountID", accountID, "count", len(meetings))
	return meetings, nil
}

// InviteBot adds the bot identity as an attendee of the meeting's calendar
// event.
func (s *Service) InviteBot(ctx context.Context, accountID, meetingID, botEmail string) error {
	account, err := db.GetAccount(accountID)
	if err != nil {
		return fmt.Errorf("InviteBot: failed to load account %s: %w", accountID, err)
	}

	meeting, err := db.GetMeeting(meetingID)
	if err != nil {
		return fmt.Errorf("InviteBot: failed to load meeting %s: %w", meetingID, err)
	}

	token, err := utils.Decrypt(account.AccessToken)
	if err != nil {
		return fmt.Errorf("InviteBot: failed to decrypt token for account %s: %w", accountID, err)
	}

	calendarID := account.CalendarID
	if calendarID == "" {
		calendarID = "primary"
	}

	event, err := s.fetchEvent(ctx, token, calendarID, meeting.ExternalEventID)
	if err != nil {
		return err
	}

	for _, attendee := range event.Attendees {
		if attendee.Email == botEmail {
			s.log.Info("bot already on event", "meetingID", meetingID)
			return nil
		}
	}

	patch := map[string]any{
		"attendees": append(event.Attendees, eventAttendee{Email: botEmail}),
	}
	body, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("InviteBot: failed to marshal patch: %w", err)
	}

	endpoint := fmt.Sprintf("%s/calendars/%s/events/%s", s.baseURL, url.PathEscape(calendarID), url.PathEscape(meeting.ExternalEventID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint+"?sendUpdates=none", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("InviteBot: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("InviteBot: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("InviteBot: calendar API responded with status %s: %s", resp.Status, payload)
	}

	s.log.Info("bot invited via calendar API", "meetingID", meetingID, "eventID", meeting.ExternalEventID)
	return nil
}

func (s *Service) fetchEvents(ctx context.Context, token, calendarID string, windowHrs int) ([]calendarEvent, error) {
	if calendarID == "" {
		calendarID = "primary"
	}

	now := time.Now().UTC()
	endpoint := fmt.Sprintf("%s/calendars/%s/events", s.baseURL, url.PathEscape(calendarID))

	var events []calendarEvent
	pageToken := ""
	for {
		query := url.Values{
			"timeMin":      {now.Format(time.RFC3339)},
			"timeMax":      {now.Add(time.Duration(windowHrs) * time.Hour).Format(time.RFC3339)},
			"singleEvents": {"true"},
			"orderBy":      {"startTime"},
			"maxResults":   {strconv.Itoa(eventsPageSize)},
		}
		if pageToken != "" {
			query.Set("pageToken", pageToken)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
		if err != nil {
			return nil, fmt.Errorf("fetchEvents: failed to create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := s.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetchEvents: request failed: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			payload, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return nil, fmt.Errorf("fetchEvents: calendar API responded with status %s: %s", resp.Status, payload)
		}

		var list eventListResponse
		err = json.NewDecoder(resp.Body).Decode(&list)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("fetchEvents: failed to decode response: %w", err)
		}

		events = append(events, list.Items...)
		if list.NextPageToken == "" {
			return events, nil
		}
		pageToken = list.NextPageToken
	}
}

func (s *Service) fetchEvent(ctx context.Context, token, calendarID, eventID string) (*calendarEvent, error) {
	if calendarID == "" {
		calendarID = "primary"
	}

	endpoint := fmt.Sprintf("%s/calendars/%s/events/%s", s.baseURL, url.PathEscape(calendarID), url.PathEscape(eventID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("fetchEvent: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetchEvent: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetchEvent: calendar API responded with status %s: %s", resp.Status, payload)
	}

	var event calendarEvent
	if err := json.NewDecoder(resp.Body).Decode(&event); err != nil {
		return nil, fmt.Errorf("fetchEvent: failed to decode response: %w", err)
	}
	return &event, nil
}

// BotEmail is the identity invited to matching meetings.
func BotEmail() string {
	email := os.Getenv("BOT_EMAIL")
	if email == "" {
		email = "recorder@meetbot.local"
	}
	return email
}
