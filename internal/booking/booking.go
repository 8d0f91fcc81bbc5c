// Package booking turns a validated booking request into a calendar event.
package booking

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"booking-service/internal/apperr"
	"booking-service/internal/calendar"
	"booking-service/internal/locale"
)

const EventLength = 30 * time.Minute

type Request struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Date  string `json:"date"`
	Time  string `json:"time"`
	Notes string `json:"notes,omitempty"`
	Lang  string `json:"lang,omitempty"`
}

type Confirmation struct {
	EventID string
	// MeetLink is empty when the calendar did not provision a conference.
	MeetLink string
}

// Record is what the ledger keeps about a created booking.
type Record struct {
	EventID  string
	Name     string
	Email    string
	Date     string
	Time     string
	Notes    string
	MeetLink string
	Lang     locale.Lang
}

type Ledger interface {
	Record(ctx context.Context, r Record) error
}

// Invalidator drops cached availability for a date.
type Invalidator interface {
	Invalidate(ctx context.Context, date string) error
}

type Orchestrator struct {
	Calendar   calendar.EventCreator
	CalendarID string
	Location   *time.Location
	Ledger     Ledger
	Cache      Invalidator
	Logger     *zap.Logger
	// NewRequestID is replaceable in tests.
	NewRequestID func() string
}

var reminders = []calendar.Reminder{
	{Method: "email", Minutes: 24 * 60},
	{Method: "email", Minutes: 60},
}

// CreateBooking validates req and creates a 30 minute event with a video
// conference. Availability is not re-checked here, the calendar is the
// final arbiter.
func (o *Orchestrator) CreateBooking(ctx context.Context, req Request, lang locale.Lang) (Confirmation, error) {
	v, err := Validate(req, lang)
	if err != nil {
		return Confirmation{}, err
	}

	start, err := time.ParseInLocation("2006-01-02 15:04", v.Date+" "+v.Time, o.Location)
	if err != nil {
		return Confirmation{}, apperr.Validation(locale.T(lang, locale.InvalidTime))
	}

	spec := calendar.EventSpec{
		Summary:             locale.T(lang, locale.EventSummary) + v.Name,
		Description:         describe(v, lang),
		Start:               start,
		End:                 start.Add(EventLength),
		TimeZone:            o.Location.String(),
		Attendees:           []string{v.Email},
		ConferenceRequestID: o.requestID(),
		Reminders:           reminders,
	}

	ev, err := o.Calendar.CreateEvent(ctx, o.CalendarID, spec)
	if err != nil {
		o.logger().Error("calendar event creation failed",
			zap.String("date", v.Date),
			zap.String("time", v.Time),
			zap.Error(err),
		)
		return Confirmation{}, err
	}
	o.logger().Info("booking created",
		zap.String("event_id", ev.ID),
		zap.String("date", v.Date),
		zap.String("time", v.Time),
		zap.Bool("meet_link", ev.MeetLink != ""),
	)

	// The event exists at this point; follow-up failures are only logged.
	if o.Cache != nil {
		if err := o.Cache.Invalidate(ctx, v.Date); err != nil {
			o.logger().Warn("slots cache invalidation failed", zap.String("date", v.Date), zap.Error(err))
		}
	}
	if o.Ledger != nil {
		rec := Record{
			EventID:  ev.ID,
			Name:     v.Name,
			Email:    v.Email,
			Date:     v.Date,
			Time:     v.Time,
			Notes:    v.Notes,
			MeetLink: ev.MeetLink,
			Lang:     lang,
		}
		if err := o.Ledger.Record(ctx, rec); err != nil {
			o.logger().Warn("booking ledger write failed", zap.String("event_id", ev.ID), zap.Error(err))
		}
	}

	return Confirmation{EventID: ev.ID, MeetLink: ev.MeetLink}, nil
}

func describe(v Validated, lang locale.Lang) string {
	var b strings.Builder
	b.WriteString(locale.T(lang, locale.EventIntro))
	b.WriteString("\n" + locale.T(lang, locale.LabelName) + ": " + v.Name)
	b.WriteString("\n" + locale.T(lang, locale.LabelEmail) + ": " + v.Email)
	if v.Notes != "" {
		b.WriteString("\n" + locale.T(lang, locale.LabelNotes) + ": " + v.Notes)
	}
	return b.String()
}

func (o *Orchestrator) requestID() string {
	if o.NewRequestID != nil {
		return o.NewRequestID()
	}
	return "booking-" + uuid.NewString()
}

func (o *Orchestrator) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}
