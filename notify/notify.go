// Package notify delivers best-effort "a rule fired for your meeting"
// messages over a Slack incoming webhook.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	log15 "github.com/inconshreveable/log15/v3"

	"meetbot/db"
)

type SlackNotifier struct {
	webhookURL string
	client     *http.Client
	log        log15.Logger
}

func NewSlackNotifier() *SlackNotifier {
	return &SlackNotifier{
		webhookURL: os.Getenv("NOTIFY_WEBHOOK_URL"),
		client:     &http.Client{Timeout: 10 * time.Second},
		log:        log15.New("module", "notify"),
	}
}

type slackMessage struct {
	Text string `json:"text"`
}

func (n *SlackNotifier) Notify(ctx context.Context, meeting *db.Meeting, rule *db.Rule) error {
	if n.webhookURL == "" {
		n.log.Debug("notify webhook not configured, skipping", "meetingID", meeting.ID)
		return nil
	}

	text := rule.Actions.CustomMessage
	if text == "" {
		text = fmt.Sprintf("Rule %q matched your meeting *%s* (%s, %d attendees, starts %s).",
			rule.Name, meeting.Title, meeting.Platform, len(meeting.Attendees),
			meeting.StartTime.Format("Mon 15:04"))
	}

	body, err := json.Marshal(slackMessage{Text: text})
	if err != nil {
		return fmt.Errorf("Notify: failed to marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("Notify: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("Notify: failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Notify: webhook responded with status %s", resp.Status)
	}

	n.log.Info("user notified", "meetingID", meeting.ID, "rule", rule.Name)
	return nil
}
