package api

import "meetbot/db"

type ruleRequest struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	AccountID   string            `json:"accountId"`
	IsGlobal    bool              `json:"isGlobal"`
	Conditions  db.RuleConditions `json:"conditions"`
	Actions     db.RuleActions    `json:"actions"`
	Priority    int               `json:"priority"`
	IsActive    *bool             `json:"isActive"`
}

type recordingWebhookRequest struct {
	MeetingID    string `json:"meetingId"`
	RecordingURL string `json:"recordingUrl"`
	Summary      string `json:"summary"`
	Status       string `json:"status"`
}

type googleTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
	Error        string `json:"error,omitempty"`
}

type googleUserInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}
