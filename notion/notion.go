// Package notion creates meeting record pages in a Notion database when a
// recording lands.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	log15 "github.com/inconshreveable/log15/v3"

	"meetbot/db"
)

const (
	pagesURL      = "https://api.notion.com/v1/pages"
	notionVersion = "2022-06-28"
)

type Client struct {
	token      string
	databaseID string
	client     *http.Client
	log        log15.Logger
}

func NewClient() *Client {
	return &Client{
		token:      os.Getenv("NOTION_API_KEY"),
		databaseID: os.Getenv("NOTION_DATABASE_ID"),
		client:     &http.Client{Timeout: 15 * time.Second},
		log:        log15.New("module", "notion"),
	}
}

// Configured reports whether Notion credentials are present. Page creation
// is skipped entirely when they are not.
func (c *Client) Configured() bool {
	return c.token != "" && c.databaseID != ""
}

// CreateMeetingPage writes the meeting's record into the configured
// database and returns the new page id.
func (c *Client) CreateMeetingPage(ctx context.Context, meeting *db.Meeting) (string, error) {
	properties := map[string]any{
		"Name": map[string]any{
			"title": []any{richText(meeting.Title)},
		},
		"Date": map[string]any{
			"date": map[string]any{
				"start": meeting.StartTime.Format(time.RFC3339),
				"end":   meeting.EndTime.Format(time.RFC3339),
			},
		},
		"Platform": map[string]any{
			"select": map[string]any{"name": platformName(meeting.Platform)},
		},
		"Attendees": map[string]any{
			"rich_text": []any{richText(strings.Join(meeting.Attendees, ", "))},
		},
		"Duration": map[string]any{
			"number": meeting.Duration(),
		},
	}
	if meeting.RecordingURL != "" {
		properties["Recording"] = map[string]any{"url": meeting.RecordingURL}
	}
	if meeting.Summary != "" {
		properties["Summary"] = map[string]any{
			"rich_text": []any{richText(meeting.Summary)},
		}
	}

	payload := map[string]any{
		"parent":     map[string]any{"database_id": c.databaseID},
		"properties": properties,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("CreateMeetingPage: failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, pagesURL, bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("CreateMeetingPage: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", notionVersion)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("CreateMeetingPage: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("CreateMeetingPage: Notion API responded with status %s: %s", resp.Status, raw)
	}

	var page struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return "", fmt.Errorf("CreateMeetingPage: failed to decode response: %w", err)
	}

	c.log.Info("notion page created", "meetingID", meeting.ID, "pageID", page.ID)
	return page.ID, nil
}

func richText(content string) map[string]any {
	return map[string]any{
		"text": map[string]any{"content": content},
	}
}

func platformName(platform db.Platform) string {
	if platform == "" {
		return "Other"
	}
	return string(platform)
}
