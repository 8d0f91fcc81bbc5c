package availability

import (
	"testing"
	"time"
)

func mustBlock(t *testing.T, s string) Block {
	t.Helper()
	b, err := ParseBlock(s)
	if err != nil {
		t.Fatalf("ParseBlock(%q): %v", s, err)
	}
	return b
}

func testPolicy(t *testing.T) Policy {
	return NewPolicy(
		[]Block{mustBlock(t, "09:00-14:00"), mustBlock(t, "16:00-20:00")},
		mustBlock(t, "09:00-13:00"),
	)
}

func TestClassOf(t *testing.T) {
	want := map[time.Weekday]DayClass{
		time.Sunday:    Sunday,
		time.Monday:    Weekday,
		time.Wednesday: Weekday,
		time.Friday:    Weekday,
		time.Saturday:  Saturday,
	}
	for d, c := range want {
		if got := ClassOf(d); got != c {
			t.Errorf("ClassOf(%s) = %s, want %s", d, got, c)
		}
	}
}

func TestParseBlock_Rejects(t *testing.T) {
	for _, bad := range []string{"09:00", "14:00-09:00", "09:00-09:00", "09:00-14:00-16:00", "nine-ten"} {
		if _, err := ParseBlock(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestPolicy_SundayClosed(t *testing.T) {
	p := testPolicy(t)
	if got := p.Blocks(Sunday); len(got) != 0 {
		t.Fatalf("expected no Sunday blocks, got %v", got)
	}
	if got := p.Candidates(Sunday, 30*time.Minute); len(got) != 0 {
		t.Fatalf("expected no Sunday candidates, got %v", got)
	}
}

func TestPolicy_WeekdayCandidatesSkipLunch(t *testing.T) {
	p := testPolicy(t)
	got := p.Candidates(Weekday, 30*time.Minute)
	if len(got) != 18 {
		t.Fatalf("expected 10 morning + 8 afternoon slots, got %d", len(got))
	}
	if got[9].String() != "13:30" || got[10].String() != "16:00" {
		t.Fatalf("expected gap between 13:30 and 16:00, got %s then %s", got[9], got[10])
	}
	if got[len(got)-1].String() != "19:30" {
		t.Fatalf("expected last slot 19:30, got %s", got[len(got)-1])
	}
}

func TestPolicy_SaturdaySingleBlock(t *testing.T) {
	p := testPolicy(t)
	got := p.Candidates(Saturday, 30*time.Minute)
	if len(got) != 8 || got[0].String() != "09:00" || got[7].String() != "12:30" {
		t.Fatalf("unexpected saturday slots %v", got)
	}
}
