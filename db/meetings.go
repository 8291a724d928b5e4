package db

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// UpsertMeeting records a meeting discovered during calendar sync, keyed by
// (accountID, externalEventID). Re-syncs refresh the calendar-owned fields
// but never touch processing state (status, botInvited, appliedRules).
func UpsertMeeting(m *Meeting) (*Meeting, error) {
	var existing Meeting
	err := DB.
		Where("account_id = ? AND external_event_id = ?", m.AccountID, m.ExternalEventID).
		First(&existing).Error

	now := time.Now().UTC()
	if err == gorm.ErrRecordNotFound {
		m.ID = newID()
		m.Status = StatusPending
		m.CreatedAt = now
		m.UpdatedAt = now
		if err := DB.Create(m).Error; err != nil {
			return nil, fmt.Errorf("UpsertMeeting: failed to create meeting for event %s: %w", m.ExternalEventID, err)
		}
		return m, nil
	}
	if err != nil {
		return nil, fmt.Errorf("UpsertMeeting: failed to look up event %s: %w", m.ExternalEventID, err)
	}

	existing.Title = m.Title
	existing.Description = m.Description
	existing.StartTime = m.StartTime
	existing.EndTime = m.EndTime
	existing.Attendees = m.Attendees
	existing.MeetingURL = m.MeetingURL
	existing.Platform = m.Platform
	existing.UpdatedAt = now
	err = DB.Model(&Meeting{}).Where("id = ?", existing.ID).
		Select("title", "description", "start_time", "end_time", "attendees", "meeting_url", "platform", "updated_at").
		Updates(&existing).Error
	if err != nil {
		return nil, fmt.Errorf("UpsertMeeting: failed to update meeting %s: %w", existing.ID, err)
	}
	return &existing, nil
}

func GetMeeting(id string) (*Meeting, error) {
	var meeting Meeting
	err := DB.Where("id = ?", id).First(&meeting).Error
	return &meeting, err
}

// UpcomingMeetings returns the account's pending and bot-invited meetings
// starting within the next `hours` hours, soonest first.
func UpcomingMeetings(accountID string, hours int) ([]Meeting, error) {
	now := time.Now().UTC()
	until := now.Add(time.Duration(hours) * time.Hour)

	var meetings []Meeting
	err := DB.
		Where("account_id = ? AND start_time >= ? AND start_time <= ? AND status IN ?",
			accountID, now, until, []MeetingStatus{StatusPending, StatusBotInvited}).
		Order("start_time ASC").
		Find(&meetings).Error
	if err != nil {
		return nil, fmt.Errorf("UpcomingMeetings: failed to fetch meetings for account %s: %w", accountID, err)
	}
	return meetings, nil
}

// AttachRecording stores the recording outcome delivered by the recorder
// webhook and moves the meeting to the given status.
func AttachRecording(meetingID, recordingURL, summary string, status MeetingStatus) error {
	return DB.Model(&Meeting{}).Where("id = ?", meetingID).Updates(map[string]any{
		"recording_url": recordingURL,
		"summary":       summary,
		"status":        status,
		"updated_at":    time.Now().UTC(),
	}).Error
}

func SetNotionPage(meetingID, pageID string) error {
	return DB.Model(&Meeting{}).Where("id = ?", meetingID).Updates(map[string]any{
		"notion_page_id": pageID,
		"updated_at":     time.Now().UTC(),
	}).Error
}

// MeetingStore is the persistence collaborator handed to the engine's
// processor for recording evaluation outcomes.
type MeetingStore struct{}

func (MeetingStore) ApplyOutcome(meetingID string, appliedRuleIDs []string, status MeetingStatus, botInvited bool, inviteTime *time.Time) error {
	meeting := Meeting{
		AppliedRules:  appliedRuleIDs,
		Status:        status,
		BotInvited:    botInvited,
		BotInviteTime: inviteTime,
		UpdatedAt:     time.Now().UTC(),
	}
	err := DB.Model(&Meeting{}).Where("id = ?", meetingID).
		Select("applied_rules", "status", "bot_invited", "bot_invite_time", "updated_at").
		Updates(&meeting).Error
	if err != nil {
		return fmt.Errorf("ApplyOutcome: failed to update meeting %s: %w", meetingID, err)
	}
	return nil
}

func (MeetingStore) MarkFailed(meetingID string) error {
	return DB.Model(&Meeting{}).Where("id = ?", meetingID).Updates(map[string]any{
		"status":     StatusFailed,
		"updated_at": time.Now().UTC(),
	}).Error
}
