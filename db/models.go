package db

import "time"

type Platform string

const (
	PlatformZoom     Platform = "zoom"
	PlatformMeet     Platform = "meet"
	PlatformTeams    Platform = "teams"
	PlatformInPerson Platform = "in-person"
	PlatformOther    Platform = "other"
)

// KnownPlatforms is the closed set a rule's requiredPlatforms may draw from.
var KnownPlatforms = []Platform{PlatformZoom, PlatformMeet, PlatformTeams, PlatformInPerson, PlatformOther}

type MeetingStatus string

const (
	StatusPending    MeetingStatus = "pending"
	StatusSynced     MeetingStatus = "synced"
	StatusBotInvited MeetingStatus = "bot_invited"
	StatusRecording  MeetingStatus = "recording"
	StatusCompleted  MeetingStatus = "completed"
	StatusFailed     MeetingStatus = "failed"
)

// TimeWindow bounds a meeting's start time-of-day, both ends inclusive,
// in "HH:MM" 24-hour form.
type TimeWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// RuleConditions is the predicate set of a rule. Every field is optional;
// an absent field imposes no constraint. Numeric bounds use pointers so a
// zero bound is a real constraint and nil means unset.
type RuleConditions struct {
	MinDuration       *int        `json:"minDuration,omitempty"`
	MaxDuration       *int        `json:"maxDuration,omitempty"`
	MinAttendees      *int        `json:"minAttendees,omitempty"`
	MaxAttendees      *int        `json:"maxAttendees,omitempty"`
	TitleKeywords     []string    `json:"titleKeywords,omitempty"`
	TitleExclusions   []string    `json:"titleExclusions,omitempty"`
	AttendeeKeywords  []string    `json:"attendeeKeywords,omitempty"`
	TimeOfDay         *TimeWindow `json:"timeOfDay,omitempty"`
	DaysOfWeek        []int       `json:"daysOfWeek,omitempty"`
	RequiredPlatforms []Platform  `json:"requiredPlatforms,omitempty"`
}

type RuleActions struct {
	InviteBot     bool   `json:"inviteBot"`
	NotifyUser    bool   `json:"notifyUser"`
	CustomMessage string `json:"customMessage,omitempty"`
}

type Rule struct {
	ID          string `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description,omitempty"`
	// AccountID is empty for global rules.
	AccountID  string         `gorm:"index" json:"accountId,omitempty"`
	IsGlobal   bool           `json:"isGlobal"`
	Conditions RuleConditions `gorm:"serializer:json" json:"conditions"`
	Actions    RuleActions    `gorm:"serializer:json" json:"actions"`
	Priority   int            `json:"priority"`
	IsActive   bool           `json:"isActive"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

type Meeting struct {
	ID              string        `gorm:"primaryKey" json:"id"`
	AccountID       string        `gorm:"index:idx_account_event,unique;not null" json:"accountId"`
	ExternalEventID string        `gorm:"index:idx_account_event,unique;not null" json:"externalEventId"`
	Title           string        `json:"title"`
	Description     string        `json:"description,omitempty"`
	MeetingURL      string        `json:"meetingUrl,omitempty"`
	StartTime       time.Time     `json:"startTime"`
	EndTime         time.Time     `json:"endTime"`
	Attendees       []string      `gorm:"serializer:json" json:"attendees"`
	Platform        Platform      `json:"platform"`
	Status          MeetingStatus `json:"status"`
	BotInvited      bool          `json:"botInvited"`
	BotInviteTime   *time.Time    `json:"botInviteTime,omitempty"`
	RecordingURL    string        `json:"recordingUrl,omitempty"`
	NotionPageID    string        `json:"notionPageId,omitempty"`
	Summary         string        `json:"summary,omitempty"`
	// AppliedRules holds the ordered ids of every rule that matched on the
	// most recent evaluation pass. Overwritten, never appended.
	AppliedRules []string  `gorm:"serializer:json" json:"appliedRules,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Duration is the meeting length in whole minutes.
func (m *Meeting) Duration() int {
	return int(m.EndTime.Sub(m.StartTime).Minutes())
}

type AccountSettings struct {
	AutoInviteBot bool `json:"autoInviteBot"`
	SyncWindowHrs int  `json:"syncWindowHrs,omitempty"`
}

type Account struct {
	ID       string `gorm:"primaryKey" json:"id"`
	UserID   string `gorm:"index" json:"userId"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Provider string `json:"provider"`
	// Tokens are stored AES-GCM encrypted, never in the clear.
	AccessToken  string          `json:"-"`
	RefreshToken string          `json:"-"`
	TokenExpiry  time.Time       `json:"-"`
	CalendarID   string          `json:"calendarId"`
	IsActive     bool            `json:"isActive"`
	Settings     AccountSettings `gorm:"serializer:json" json:"settings"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}
