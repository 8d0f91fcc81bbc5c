package calendar

import (
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
)

// Scopes needed for free/busy lookups and event creation.
var Scopes = []string{gcal.CalendarReadonlyScope, gcal.CalendarEventsScope}

// ConsentConfig is the OAuth client used by operators to mint the refresh
// token the service runs on. It returns nil unless every value is set.
func ConsentConfig(clientID, clientSecret, redirectURL string) *oauth2.Config {
	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil
	}
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes:       Scopes,
		Endpoint:     google.Endpoint,
	}
}
