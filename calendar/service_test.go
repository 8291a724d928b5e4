package calendar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	log15 "github.com/inconshreveable/log15/v3"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return &Service{
		client:  server.Client(),
		baseURL: server.URL,
		log:     log15.New("module", "calendar"),
	}
}

func TestFetchEventsFollowsPagination(t *testing.T) {
	var requests int
	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("unexpected Authorization header %q", got)
		}

		var page eventListResponse
		switch r.URL.Query().Get("pageToken") {
		case "":
			page = eventListResponse{
				Items:         []calendarEvent{{ID: "e1", Summary: "First"}},
				NextPageToken: "page2",
			}
		case "page2":
			page = eventListResponse{
				Items: []calendarEvent{{ID: "e2", Summary: "Second"}},
			}
		default:
			t.Errorf("unexpected pageToken %q", r.URL.Query().Get("pageToken"))
		}
		json.NewEncoder(w).Encode(page)
	})

	events, err := service.fetchEvents(context.Background(), "tok", "primary", 24)
	if err != nil {
		t.Fatalf("fetchEvents: %v", err)
	}

	if requests != 2 {
		t.Errorf("expected 2 page requests, got %d", requests)
	}
	if len(events) != 2 {
		t.Fatalf("expected events from every page, got %d", len(events))
	}
	if events[0].ID != "e1" || events[1].ID != "e2" {
		t.Errorf("expected page order preserved, got %s, %s", events[0].ID, events[1].ID)
	}
}

func TestFetchEventsSinglePage(t *testing.T) {
	var requests int
	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		json.NewEncoder(w).Encode(eventListResponse{
			Items: []calendarEvent{{ID: "e1"}},
		})
	})

	events, err := service.fetchEvents(context.Background(), "tok", "primary", 24)
	if err != nil {
		t.Fatalf("fetchEvents: %v", err)
	}
	if requests != 1 {
		t.Errorf("expected a single request when no pageToken is returned, got %d", requests)
	}
	if len(events) != 1 {
		t.Errorf("expected 1 event, got %d", len(events))
	}
}

func TestFetchEventsAPIError(t *testing.T) {
	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "invalid_grant"}`, http.StatusUnauthorized)
	})

	if _, err := service.fetchEvents(context.Background(), "tok", "primary", 24); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}
