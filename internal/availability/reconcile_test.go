package availability

import (
	"testing"
	"time"

	"booking-service/internal/calendar"
	"booking-service/internal/clock"
)

var cst = time.FixedZone("CST", -6*60*60)

func asStrings(ts []TimeOfDay) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.String()
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestReconcile_ExcludesBusyAndKeepsOrder(t *testing.T) {
	// Wednesday; now is the evening before, so lead time is satisfied.
	date := time.Date(2025, 10, 15, 0, 0, 0, 0, cst)
	r := Reconciler{
		Location: cst,
		Step:     30 * time.Minute,
		LeadTime: DefaultLeadTime,
		Clock:    clock.NewManual(time.Date(2025, 10, 14, 18, 0, 0, 0, cst)),
	}
	busy := []calendar.Interval{{
		Start: time.Date(2025, 10, 15, 10, 0, 0, 0, cst),
		End:   time.Date(2025, 10, 15, 10, 30, 0, 0, cst),
	}}

	got := asStrings(r.Reconcile(date, testPolicy(t).Candidates(Weekday, r.Step), busy))

	if len(got) != 17 {
		t.Fatalf("expected 17 open slots, got %d: %v", len(got), got)
	}
	if got[0] != "09:00" || got[1] != "09:30" || got[2] != "10:30" {
		t.Fatalf("expected 09:00, 09:30 then 10:30, got %v", got[:3])
	}
	if contains(got, "10:00") {
		t.Fatalf("busy slot 10:00 must be excluded")
	}
	for _, s := range []string{"16:00", "16:30", "17:00", "17:30", "18:00", "18:30", "19:00", "19:30"} {
		if !contains(got, s) {
			t.Fatalf("expected afternoon slot %s in %v", s, got)
		}
	}
}

func TestReconcile_BusyInUTCMatchesLocalSlot(t *testing.T) {
	date := time.Date(2025, 10, 15, 0, 0, 0, 0, cst)
	r := Reconciler{Location: cst, Step: 30 * time.Minute, Clock: clock.NewManual(date.Add(-24 * time.Hour))}
	// 16:00Z is 10:00 CST.
	busy := []calendar.Interval{{
		Start: time.Date(2025, 10, 15, 16, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 10, 15, 16, 45, 0, 0, time.UTC),
	}}
	cands := []TimeOfDay{NewTimeOfDay(9, 30), NewTimeOfDay(10, 0), NewTimeOfDay(10, 30), NewTimeOfDay(11, 0)}

	got := asStrings(r.Reconcile(date, cands, busy))
	want := []string{"09:30", "11:00"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestReconcile_NeverReturnsSlotInsideLeadTime(t *testing.T) {
	date := time.Date(2025, 10, 15, 0, 0, 0, 0, cst)
	now := time.Date(2025, 10, 15, 9, 10, 0, 0, cst)
	r := Reconciler{Location: cst, Step: 30 * time.Minute, LeadTime: DefaultLeadTime, Clock: clock.NewManual(now)}
	cutoff := now.Add(DefaultLeadTime) // 12:40

	got := r.Reconcile(date, testPolicy(t).Candidates(Weekday, r.Step), nil)
	if len(got) == 0 {
		t.Fatalf("expected some afternoon slots")
	}
	for _, s := range got {
		if s.On(date, cst).Before(cutoff) {
			t.Fatalf("slot %s starts before cutoff %s", s, cutoff.Format("15:04"))
		}
	}
	if got[0].String() != "13:00" {
		t.Fatalf("expected first open slot 13:00, got %s", got[0])
	}
}

func TestReconcile_ExcludesExactlyOverlappingSlots(t *testing.T) {
	date := time.Date(2025, 10, 16, 0, 0, 0, 0, cst)
	r := Reconciler{Location: cst, Step: 30 * time.Minute, Clock: clock.NewManual(date.Add(-48 * time.Hour))}
	cands := testPolicy(t).Candidates(Weekday, r.Step)
	busy := []calendar.Interval{
		{Start: time.Date(2025, 10, 16, 11, 15, 0, 0, cst), End: time.Date(2025, 10, 16, 12, 5, 0, 0, cst)},
		{Start: time.Date(2025, 10, 16, 17, 0, 0, 0, cst), End: time.Date(2025, 10, 16, 17, 0, 0, 0, cst).Add(time.Minute)},
	}

	got := r.Reconcile(date, cands, busy)
	kept := map[TimeOfDay]bool{}
	for _, s := range got {
		kept[s] = true
	}
	for _, c := range cands {
		start := c.On(date, cst)
		slot := calendar.Interval{Start: start, End: start.Add(r.Step)}
		overlapping := slot.Overlaps(busy[0]) || slot.Overlaps(busy[1])
		if overlapping == kept[c] {
			t.Fatalf("slot %s: overlapping=%v kept=%v", c, overlapping, kept[c])
		}
	}
}

func TestReconcile_SundayHasNoCandidates(t *testing.T) {
	date := time.Date(2025, 10, 19, 0, 0, 0, 0, cst)
	if ClassOf(date.Weekday()) != Sunday {
		t.Fatalf("test date must be a Sunday")
	}
	r := Reconciler{Location: cst, Step: 30 * time.Minute, Clock: clock.NewManual(date.Add(-72 * time.Hour))}
	got := r.Reconcile(date, testPolicy(t).Candidates(ClassOf(date.Weekday()), r.Step), nil)
	if len(got) != 0 {
		t.Fatalf("expected no Sunday slots, got %v", got)
	}
}
