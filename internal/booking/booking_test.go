package booking

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"booking-service/internal/apperr"
	"booking-service/internal/calendar"
	"booking-service/internal/locale"
)

type fakeCreator struct {
	calls int
	spec  calendar.EventSpec
	calID string
	ev    calendar.CreatedEvent
	err   error
}

func (f *fakeCreator) CreateEvent(_ context.Context, calendarID string, spec calendar.EventSpec) (calendar.CreatedEvent, error) {
	f.calls++
	f.calID = calendarID
	f.spec = spec
	return f.ev, f.err
}

type fakeLedger struct {
	records []Record
	err     error
}

func (l *fakeLedger) Record(_ context.Context, r Record) error {
	l.records = append(l.records, r)
	return l.err
}

type fakeInvalidator struct{ dates []string }

func (f *fakeInvalidator) Invalidate(_ context.Context, date string) error {
	f.dates = append(f.dates, date)
	return nil
}

var cst = time.FixedZone("America/Mexico_City", -6*60*60)

func newTestOrchestrator(cal *fakeCreator) (*Orchestrator, *fakeLedger, *fakeInvalidator) {
	led := &fakeLedger{}
	inv := &fakeInvalidator{}
	return &Orchestrator{
		Calendar:     cal,
		CalendarID:   "primary",
		Location:     cst,
		Ledger:       led,
		Cache:        inv,
		NewRequestID: func() string { return "req-fixed" },
	}, led, inv
}

func validRequest() Request {
	return Request{Name: "Ana López", Email: "Ana@Example.COM", Date: "2025-10-15", Time: "10:30", Notes: "Talk about <b>agents</b>"}
}

func TestCreateBooking_BuildsEvent(t *testing.T) {
	cal := &fakeCreator{ev: calendar.CreatedEvent{ID: "evt-1", MeetLink: "https://meet.google.com/xyz"}}
	o, led, inv := newTestOrchestrator(cal)

	conf, err := o.CreateBooking(context.Background(), validRequest(), locale.EN)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conf.EventID != "evt-1" || conf.MeetLink != "https://meet.google.com/xyz" {
		t.Fatalf("unexpected confirmation %+v", conf)
	}
	if cal.calls != 1 || cal.calID != "primary" {
		t.Fatalf("expected one call to primary, got %d to %q", cal.calls, cal.calID)
	}

	spec := cal.spec
	if !spec.Start.Equal(time.Date(2025, 10, 15, 10, 30, 0, 0, cst)) || spec.End.Sub(spec.Start) != 30*time.Minute {
		t.Fatalf("unexpected event window %s - %s", spec.Start, spec.End)
	}
	if spec.TimeZone != "America/Mexico_City" {
		t.Fatalf("unexpected timezone %q", spec.TimeZone)
	}
	if len(spec.Attendees) != 1 || spec.Attendees[0] != "ana@example.com" {
		t.Fatalf("expected lowercased attendee, got %v", spec.Attendees)
	}
	if spec.ConferenceRequestID != "req-fixed" {
		t.Fatalf("expected conference request, got %q", spec.ConferenceRequestID)
	}
	if len(spec.Reminders) != 2 || spec.Reminders[0].Minutes != 1440 || spec.Reminders[1].Minutes != 60 {
		t.Fatalf("unexpected reminders %+v", spec.Reminders)
	}
	if !strings.HasSuffix(spec.Summary, "Ana López") {
		t.Fatalf("expected name in summary, got %q", spec.Summary)
	}
	if strings.ContainsAny(spec.Description, "<>") || !strings.Contains(spec.Description, "Notes: Talk about bagents/b") {
		t.Fatalf("expected sanitized notes, got %q", spec.Description)
	}

	if len(inv.dates) != 1 || inv.dates[0] != "2025-10-15" {
		t.Fatalf("expected cache invalidation for the date, got %v", inv.dates)
	}
	if len(led.records) != 1 || led.records[0].EventID != "evt-1" {
		t.Fatalf("expected ledger record, got %+v", led.records)
	}
}

func TestCreateBooking_SpanishText(t *testing.T) {
	cal := &fakeCreator{ev: calendar.CreatedEvent{ID: "evt-2"}}
	o, _, _ := newTestOrchestrator(cal)
	req := validRequest()
	req.Notes = ""

	conf, err := o.CreateBooking(context.Background(), req, locale.ES)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if conf.MeetLink != "" {
		t.Fatalf("expected empty meet link, got %q", conf.MeetLink)
	}
	if !strings.HasPrefix(cal.spec.Summary, "Consulta") || !strings.Contains(cal.spec.Description, "Nombre: Ana López") {
		t.Fatalf("expected spanish text, got %q / %q", cal.spec.Summary, cal.spec.Description)
	}
	if strings.Contains(cal.spec.Description, "Notas") {
		t.Fatalf("notes line must be omitted when empty")
	}
}

func TestCreateBooking_InvalidEmailNeverCallsCalendar(t *testing.T) {
	cal := &fakeCreator{}
	o, led, _ := newTestOrchestrator(cal)
	req := validRequest()
	req.Email = "not-an-email"

	_, err := o.CreateBooking(context.Background(), req, locale.EN)
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err.Error() != "Invalid email" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if cal.calls != 0 || len(led.records) != 0 {
		t.Fatalf("expected no side effects, calendar=%d ledger=%d", cal.calls, len(led.records))
	}
}

func TestCreateBooking_UpstreamFailure(t *testing.T) {
	cal := &fakeCreator{err: apperr.Upstream("calendar event insert", errors.New("409 conflict"))}
	o, led, inv := newTestOrchestrator(cal)

	_, err := o.CreateBooking(context.Background(), validRequest(), locale.EN)
	if apperr.KindOf(err) != apperr.KindUpstream {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if len(led.records) != 0 || len(inv.dates) != 0 {
		t.Fatalf("expected no follow-up on failure")
	}
}

func TestCreateBooking_LedgerFailureIsNotFatal(t *testing.T) {
	cal := &fakeCreator{ev: calendar.CreatedEvent{ID: "evt-3"}}
	o, led, _ := newTestOrchestrator(cal)
	led.err = errors.New("db down")

	conf, err := o.CreateBooking(context.Background(), validRequest(), locale.EN)
	if err != nil || conf.EventID != "evt-3" {
		t.Fatalf("expected booking to succeed, got %+v err=%v", conf, err)
	}
}

func TestCreateBooking_OutOfRangeTime(t *testing.T) {
	cal := &fakeCreator{}
	o, _, _ := newTestOrchestrator(cal)
	req := validRequest()
	req.Time = "25:99"

	if _, err := o.CreateBooking(context.Background(), req, locale.EN); apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if cal.calls != 0 {
		t.Fatalf("expected no calendar call")
	}
}
