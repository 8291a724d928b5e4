package api

const (
	googleOAuthAuthorizeURL = "https://accounts.google.com/o/oauth2/v2/auth"
	googleOAuthTokenURL     = "https://oauth2.googleapis.com/token"
	googleUserInfoURL       = "https://www.googleapis.com/oauth2/v2/userinfo"
	googleCalendarScope     = "https://www.googleapis.com/auth/calendar.events https://www.googleapis.com/auth/userinfo.email"
	googleCallbackEndpoint  = "/calendar/oauth/callback"
)
