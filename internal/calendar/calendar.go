// Package calendar defines the calendar collaborators the booking core
// depends on and their Google Calendar implementation.
package calendar

import (
	"context"
	"time"
)

// Interval is a half-open range [Start, End) in absolute time.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether the two half-open intervals share any instant.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

// FreeBusy returns the busy intervals of a calendar between timeMin and timeMax.
type FreeBusy interface {
	QueryFreeBusy(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]Interval, error)
}

type Reminder struct {
	Method  string
	Minutes int64
}

// EventSpec is the event the booking orchestrator asks the calendar to create.
// Start and End are wall-clock values interpreted in TimeZone.
type EventSpec struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	TimeZone    string
	Attendees   []string
	// ConferenceRequestID, when set, asks the provider to provision a video call.
	ConferenceRequestID string
	Reminders           []Reminder
}

type CreatedEvent struct {
	ID string
	// MeetLink is empty when the provider did not provision a conference.
	MeetLink string
}

type EventCreator interface {
	CreateEvent(ctx context.Context, calendarID string, spec EventSpec) (CreatedEvent, error)
}
