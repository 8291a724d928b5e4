package main

import (
	"net/http"

	"meetbot/api"

	"github.com/go-chi/chi/v5"
)

func SetupRouter() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", api.HandleHealthCheck)

	r.Get("/calendar/connect", api.HandleCalendarConnect)
	r.Get("/calendar/oauth/callback", api.HandleCalendarOAuthCallback)

	r.Post("/rules", api.HandleCreateRule)
	r.Get("/rules", api.HandleListRules)
	r.Get("/rules/{id}", api.HandleGetRule)
	r.Patch("/rules/{id}", api.HandleUpdateRule)
	r.Delete("/rules/{id}", api.HandleDeleteRule)

	r.Post("/sync", api.HandleSyncAll)
	r.Post("/accounts/{id}/sync", api.HandleSyncAccount)
	r.Get("/accounts/{id}/meetings", api.HandleUpcomingMeetings)

	r.Post("/webhooks/recording", api.HandleRecordingWebhook)

	return r
}
