package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"gorm.io/gorm"

	"meetbot/db"
)

// HandleRecordingWebhook receives the recorder bot's callback once a
// recording starts or finishes. Delivery is at-least-once, so replays must
// be harmless: updates are plain overwrites and the Notion page is only
// created the first time.
func HandleRecordingWebhook(w http.ResponseWriter, r *http.Request) {
	var req recordingWebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid webhook payload")
		return
	}
	if req.MeetingID == "" {
		writeError(w, http.StatusBadRequest, "meetingId is required")
		return
	}

	status := db.MeetingStatus(req.Status)
	switch status {
	case "":
		status = db.StatusCompleted
	case db.StatusRecording, db.StatusCompleted:
	default:
		writeError(w, http.StatusBadRequest, "status must be recording or completed")
		return
	}

	meeting, err := db.GetMeeting(req.MeetingID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeError(w, http.StatusNotFound, "meeting not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch meeting")
		return
	}

	if err := db.AttachRecording(meeting.ID, req.RecordingURL, req.Summary, status); err != nil {
		log.Error("failed to attach recording", "meetingID", meeting.ID, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to update meeting")
		return
	}
	meeting.RecordingURL = req.RecordingURL
	meeting.Summary = req.Summary
	meeting.Status = status

	if status == db.StatusCompleted && notionClient.Configured() && meeting.NotionPageID == "" {
		pageID, err := notionClient.CreateMeetingPage(r.Context(), meeting)
		if err != nil {
			// The meeting record is already updated; Notion is best-effort.
			log.Warn("failed to create notion page", "meetingID", meeting.ID, "err", err)
		} else if err := db.SetNotionPage(meeting.ID, pageID); err != nil {
			log.Error("failed to save notion page id", "meetingID", meeting.ID, "err", err)
		} else {
			meeting.NotionPageID = pageID
		}
	}

	log.Info("recording webhook processed", "meetingID", meeting.ID, "status", status)
	writeJSON(w, http.StatusOK, meeting)
}
