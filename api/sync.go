package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"meetbot/db"
)

// HandleSyncAll kicks off a processing pass over every active account, the
// same pass the scheduler runs.
func HandleSyncAll(w http.ResponseWriter, r *http.Request) {
	go func() {
		if err := processor.ProcessAllActiveAccounts(context.Background()); err != nil {
			log.Error("manual sync failed", "err", err)
		}
	}()
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "processing"})
}

func HandleSyncAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")

	_, err := db.GetAccount(accountID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		writeError(w, http.StatusNotFound, "account not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch account")
		return
	}

	go func() {
		if err := processor.ProcessAccountMeetings(context.Background(), accountID); err != nil {
			log.Error("manual account sync failed", "accountID", accountID, "err", err)
		}
	}()
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "processing", "accountId": accountID})
}

func HandleUpcomingMeetings(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")

	hours := 24
	if raw := r.URL.Query().Get("hours"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "hours must be a positive integer")
			return
		}
		hours = parsed
	}

	meetings, err := db.UpcomingMeetings(accountID, hours)
	if err != nil {
		log.Error("failed to fetch upcoming meetings", "accountID", accountID, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch meetings")
		return
	}
	writeJSON(w, http.StatusOK, meetings)
}
