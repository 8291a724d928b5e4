package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/oklog/ulid/v2"

	"meetbot/db"
	"meetbot/utils"
)

// HandleCalendarConnect starts the Google OAuth flow. The state nonce lives
// in redis for a few minutes and is consumed exactly once by the callback.
func HandleCalendarConnect(w http.ResponseWriter, r *http.Request) {
	clientID := os.Getenv("GOOGLE_CLIENT_ID")
	baseURL := os.Getenv("BASE_URL")
	if clientID == "" || baseURL == "" {
		log.Error("GOOGLE_CLIENT_ID or BASE_URL not set")
		writeError(w, http.StatusInternalServerError, "Google client ID or base URL not configured")
		return
	}

	state := ulid.Make().String()
	record := utils.OAuthState{
		UserID:    r.URL.Query().Get("user"),
		CreatedAt: time.Now().UTC(),
	}
	if err := utils.SetOAuthState(r.Context(), state, record); err != nil {
		log.Error("failed to store oauth state", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to start OAuth flow")
		return
	}

	query := url.Values{
		"client_id":     {clientID},
		"redirect_uri":  {baseURL + googleCallbackEndpoint},
		"response_type": {"code"},
		"scope":         {googleCalendarScope},
		"access_type":   {"offline"},
		"prompt":        {"consent"},
		"state":         {state},
	}

	redirect := googleOAuthAuthorizeURL + "?" + query.Encode()
	log.Info("redirecting to Google OAuth", "state", state)
	http.Redirect(w, r, redirect, http.StatusFound)
}

func HandleCalendarOAuthCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" || state == "" {
		writeError(w, http.StatusBadRequest, "missing authorization code or state")
		return
	}

	record, err := utils.ConsumeOAuthState(r.Context(), state)
	if err != nil {
		log.Error("invalid or expired oauth state", "state", state, "err", err)
		writeError(w, http.StatusBadRequest, "invalid or expired OAuth state")
		return
	}

	clientID := os.Getenv("GOOGLE_CLIENT_ID")
	clientSecret := os.Getenv("GOOGLE_CLIENT_SECRET")
	baseURL := os.Getenv("BASE_URL")
	if clientID == "" || clientSecret == "" || baseURL == "" {
		writeError(w, http.StatusInternalServerError, "missing Google credentials or base URL")
		return
	}

	resp, err := http.PostForm(googleOAuthTokenURL, url.Values{
		"code":          {code},
		"client_id":     {clientID},
		"client_secret": {clientSecret},
		"redirect_uri":  {baseURL + googleCallbackEndpoint},
		"grant_type":    {"authorization_code"},
	})
	if err != nil {
		log.Error("OAuth token request failed", "err", err)
		writeError(w, http.StatusInternalServerError, "OAuth token request failed")
		return
	}
	defer resp.Body.Close()

	var token googleTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		log.Error("failed to decode OAuth token response", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to parse token response")
		return
	}
	if token.Error != "" || token.AccessToken == "" {
		log.Error("Google OAuth returned error", "error", token.Error)
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Google error: %s", token.Error))
		return
	}

	email, err := fetchAccountEmail(token.AccessToken)
	if err != nil {
		log.Error("failed to fetch account email", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to identify Google account")
		return
	}

	encryptedAccess, err := utils.Encrypt(token.AccessToken)
	if err != nil {
		log.Error("failed to encrypt access token", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to store credentials")
		return
	}
	encryptedRefresh := ""
	if token.RefreshToken != "" {
		if encryptedRefresh, err = utils.Encrypt(token.RefreshToken); err != nil {
			log.Error("failed to encrypt refresh token", "err", err)
			writeError(w, http.StatusInternalServerError, "failed to store credentials")
			return
		}
	}

	account := db.Account{
		UserID:       record.UserID,
		Email:        email,
		Provider:     "google",
		AccessToken:  encryptedAccess,
		RefreshToken: encryptedRefresh,
		TokenExpiry:  time.Now().UTC().Add(time.Duration(token.ExpiresIn) * time.Second),
		CalendarID:   "primary",
		IsActive:     true,
		Settings:     db.AccountSettings{AutoInviteBot: true},
	}
	if err := db.SaveAccount(&account); err != nil {
		log.Error("failed to save account", "email", email, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to save account")
		return
	}

	log.Info("calendar connected", "accountID", account.ID, "email", email)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Calendar connected. Matching meetings will now get the recorder bot."))
}

func fetchAccountEmail(accessToken string) (string, error) {
	req, err := http.NewRequest(http.MethodGet, googleUserInfoURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("userinfo responded with status %s: %s", resp.Status, payload)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", err
	}
	if info.Email == "" {
		return "", fmt.Errorf("userinfo response missing email")
	}
	return info.Email, nil
}
