package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"booking-service/internal/apperr"
)

// TokenProvider returns a bearer token for the Calendar API.
type TokenProvider interface {
	Get(ctx context.Context) (string, error)
	Invalidate()
}

// Google talks to the Google Calendar v3 API.
type Google struct {
	Tokens TokenProvider
	// Options are appended to every service construction (tests point the
	// endpoint at an httptest server).
	Options []option.ClientOption
}

func NewGoogle(tokens TokenProvider, opts ...option.ClientOption) *Google {
	return &Google{Tokens: tokens, Options: opts}
}

func (g *Google) service(ctx context.Context) (*gcal.Service, error) {
	token, err := g.Tokens.Get(ctx)
	if err != nil {
		return nil, err
	}
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}))
	opts := append([]option.ClientOption{option.WithHTTPClient(client)}, g.Options...)
	srv, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, apperr.Upstream("failed to create calendar service", err)
	}
	return srv, nil
}

func (g *Google) QueryFreeBusy(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]Interval, error) {
	srv, err := g.service(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := srv.Freebusy.Query(&gcal.FreeBusyRequest{
		TimeMin: timeMin.UTC().Format(time.RFC3339),
		TimeMax: timeMax.UTC().Format(time.RFC3339),
		Items:   []*gcal.FreeBusyRequestItem{{Id: calendarID}},
	}).Context(ctx).Do()
	if err != nil {
		g.invalidateOnAuthError(err)
		return nil, apperr.Upstream("calendar freebusy", err)
	}

	cal, ok := resp.Calendars[calendarID]
	if !ok {
		return nil, nil
	}
	if len(cal.Errors) > 0 {
		reasons := make([]string, 0, len(cal.Errors))
		for _, e := range cal.Errors {
			reasons = append(reasons, e.Domain+"/"+e.Reason)
		}
		return nil, apperr.Upstream("calendar freebusy", errors.New(strings.Join(reasons, ", ")))
	}

	busy := make([]Interval, 0, len(cal.Busy))
	for _, p := range cal.Busy {
		start, err := time.Parse(time.RFC3339, p.Start)
		if err != nil {
			return nil, apperr.Upstream("calendar freebusy", fmt.Errorf("bad busy start %q: %w", p.Start, err))
		}
		end, err := time.Parse(time.RFC3339, p.End)
		if err != nil {
			return nil, apperr.Upstream("calendar freebusy", fmt.Errorf("bad busy end %q: %w", p.End, err))
		}
		busy = append(busy, Interval{Start: start, End: end})
	}
	return busy, nil
}

const localDateTime = "2006-01-02T15:04:05"

func (g *Google) CreateEvent(ctx context.Context, calendarID string, spec EventSpec) (CreatedEvent, error) {
	srv, err := g.service(ctx)
	if err != nil {
		return CreatedEvent{}, err
	}

	ev := &gcal.Event{
		Summary:     spec.Summary,
		Description: spec.Description,
		Start:       &gcal.EventDateTime{DateTime: spec.Start.Format(localDateTime), TimeZone: spec.TimeZone},
		End:         &gcal.EventDateTime{DateTime: spec.End.Format(localDateTime), TimeZone: spec.TimeZone},
	}
	for _, email := range spec.Attendees {
		ev.Attendees = append(ev.Attendees, &gcal.EventAttendee{Email: email})
	}
	if spec.ConferenceRequestID != "" {
		ev.ConferenceData = &gcal.ConferenceData{
			CreateRequest: &gcal.CreateConferenceRequest{
				RequestId:             spec.ConferenceRequestID,
				ConferenceSolutionKey: &gcal.ConferenceSolutionKey{Type: "hangoutsMeet"},
			},
		}
	}
	if len(spec.Reminders) > 0 {
		rem := &gcal.EventReminders{
			UseDefault:      false,
			ForceSendFields: []string{"UseDefault"},
		}
		for _, r := range spec.Reminders {
			rem.Overrides = append(rem.Overrides, &gcal.EventReminder{Method: r.Method, Minutes: r.Minutes})
		}
		ev.Reminders = rem
	}

	created, err := srv.Events.Insert(calendarID, ev).
		ConferenceDataVersion(1).
		SendUpdates("all").
		Context(ctx).
		Do()
	if err != nil {
		g.invalidateOnAuthError(err)
		return CreatedEvent{}, apperr.Upstream("calendar event insert", err)
	}

	return CreatedEvent{ID: created.Id, MeetLink: meetLink(created)}, nil
}

func meetLink(ev *gcal.Event) string {
	if ev.HangoutLink != "" {
		return ev.HangoutLink
	}
	if ev.ConferenceData != nil {
		for _, p := range ev.ConferenceData.EntryPoints {
			if p != nil && p.Uri != "" {
				return p.Uri
			}
		}
	}
	return ""
}

// invalidateOnAuthError drops a token Google rejected so the next call refreshes.
func (g *Google) invalidateOnAuthError(err error) {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusUnauthorized {
		g.Tokens.Invalidate()
	}
}
