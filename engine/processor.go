package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	log15 "github.com/inconshreveable/log15/v3"
	"golang.org/x/sync/errgroup"

	"meetbot/db"
)

// CalendarService is the external calendar collaborator.
type CalendarService interface {
	// ListMeetings syncs the account's upcoming events and returns them
	// normalized as meeting records.
	ListMeetings(ctx context.Context, accountID string) ([]db.Meeting, error)
	InviteBot(ctx context.Context, accountID, meetingID, botEmail string) error
}

// Notifier tells the meeting owner that a rule fired. Best-effort; failures
// never fail processing.
type Notifier interface {
	Notify(ctx context.Context, meeting *db.Meeting, rule *db.Rule) error
}

// MeetingStore persists processing outcomes.
type MeetingStore interface {
	ApplyOutcome(meetingID string, appliedRuleIDs []string, status db.MeetingStatus, botInvited bool, inviteTime *time.Time) error
	MarkFailed(meetingID string) error
}

// AccountStore lists the accounts the bulk pass covers.
type AccountStore interface {
	FindActive() ([]db.Account, error)
}

// Processor drives side effects from rule evaluation: bot invites, user
// notifications, and meeting state updates. A per-account in-flight set
// makes concurrent passes over the same account a no-op.
type Processor struct {
	calendar  CalendarService
	notifier  Notifier
	meetings  MeetingStore
	accounts  AccountStore
	evaluator *Evaluator
	botEmail  string
	clock     func() time.Time
	log       log15.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewProcessor(calendar CalendarService, notifier Notifier, meetings MeetingStore, accounts AccountStore, evaluator *Evaluator, botEmail string) *Processor {
	return &Processor{
		calendar:  calendar,
		notifier:  notifier,
		meetings:  meetings,
		accounts:  accounts,
		evaluator: evaluator,
		botEmail:  botEmail,
		clock:     time.Now,
		log:       log15.New("module", "engine"),
		inFlight:  make(map[string]struct{}),
	}
}

// ProcessAccountMeetings syncs one account's meetings and runs each through
// the rule engine, sequentially. If the account is already being processed
// the call is a logged no-op. A failing meeting aborts the rest of the
// account's pass.
func (p *Processor) ProcessAccountMeetings(ctx context.Context, accountID string) error {
	if !p.acquire(accountID) {
		p.log.Info("already processing meetings for account", "accountID", accountID)
		return nil
	}
	defer p.release(accountID)

	p.log.Info("processing meetings for account", "accountID", accountID)

	meetings, err := p.calendar.ListMeetings(ctx, accountID)
	if err != nil {
		return fmt.Errorf("ProcessAccountMeetings: failed to list meetings for account %s: %w", accountID, err)
	}

	for i := range meetings {
		if _, err := p.ProcessSingleMeeting(ctx, &meetings[i]); err != nil {
			return err
		}
	}

	p.log.Info("processed meetings for account", "accountID", accountID, "count", len(meetings))
	return nil
}

// ProcessSingleMeeting evaluates one meeting and applies the primary rule's
// actions. Meetings already bot-invited or completed are skipped, so
// repeated passes never produce a second invite. An invite failure marks
// the meeting failed and propagates; a notify failure is logged and
// swallowed.
func (p *Processor) ProcessSingleMeeting(ctx context.Context, meeting *db.Meeting) (*db.Meeting, error) {
	if meeting.Status == db.StatusBotInvited || meeting.Status == db.StatusCompleted {
		return meeting, nil
	}

	applicable, err := p.evaluator.ApplicableRules(meeting, meeting.AccountID)
	if err != nil {
		return nil, fmt.Errorf("ProcessSingleMeeting: failed to evaluate meeting %s: %w", meeting.ID, err)
	}

	if len(applicable) == 0 {
		p.log.Debug("no applicable rules for meeting", "meetingID", meeting.ID)
		return meeting, nil
	}

	primary := &applicable[0]

	if primary.Actions.InviteBot && !meeting.BotInvited {
		if err := p.calendar.InviteBot(ctx, meeting.AccountID, meeting.ID, p.botEmail); err != nil {
			if markErr := p.meetings.MarkFailed(meeting.ID); markErr != nil {
				p.log.Error("failed to mark meeting failed", "meetingID", meeting.ID, "err", markErr)
			}
			meeting.Status = db.StatusFailed
			return nil, fmt.Errorf("ProcessSingleMeeting: failed to invite bot to meeting %s: %w", meeting.ID, err)
		}
		now := p.clock()
		meeting.BotInvited = true
		meeting.BotInviteTime = &now
		p.log.Info("bot invited to meeting", "meetingID", meeting.ID, "rule", primary.Name)
	}

	if primary.Actions.NotifyUser {
		if err := p.notifier.Notify(ctx, meeting, primary); err != nil {
			p.log.Warn("failed to notify user", "meetingID", meeting.ID, "rule", primary.Name, "err", err)
		}
	}

	appliedIDs := make([]string, len(applicable))
	for i := range applicable {
		appliedIDs[i] = applicable[i].ID
	}
	meeting.AppliedRules = appliedIDs

	status := db.StatusPending
	if meeting.BotInvited {
		status = db.StatusBotInvited
	}
	meeting.Status = status

	if err := p.meetings.ApplyOutcome(meeting.ID, appliedIDs, status, meeting.BotInvited, meeting.BotInviteTime); err != nil {
		return nil, fmt.Errorf("ProcessSingleMeeting: failed to persist outcome for meeting %s: %w", meeting.ID, err)
	}

	p.log.Info("processed meeting", "meetingID", meeting.ID, "rules", len(applicable), "status", status)
	return meeting, nil
}

// ProcessAllActiveAccounts runs the account passes concurrently. A single
// account's failure is logged and isolated; only a failure to list the
// accounts themselves propagates.
func (p *Processor) ProcessAllActiveAccounts(ctx context.Context) error {
	accounts, err := p.accounts.FindActive()
	if err != nil {
		return fmt.Errorf("ProcessAllActiveAccounts: failed to fetch active accounts: %w", err)
	}

	p.log.Info("processing all active accounts", "count", len(accounts))

	var g errgroup.Group
	for _, account := range accounts {
		accountID := account.ID
		g.Go(func() error {
			if err := p.ProcessAccountMeetings(ctx, accountID); err != nil {
				p.log.Error("failed to process account", "accountID", accountID, "err", err)
			}
			return nil
		})
	}
	g.Wait()

	p.log.Info("completed processing all active accounts")
	return nil
}

func (p *Processor) acquire(accountID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, busy := p.inFlight[accountID]; busy {
		return false
	}
	p.inFlight[accountID] = struct{}{}
	return true
}

func (p *Processor) release(accountID string) {
	p.mu.Lock()
	delete(p.inFlight, accountID)
	p.mu.Unlock()
}
