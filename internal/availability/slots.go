package availability

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is a wall-clock time expressed as minutes since midnight.
type TimeOfDay int

func NewTimeOfDay(hour, minute int) TimeOfDay {
	return TimeOfDay(hour*60 + minute)
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// On places the time of day on the given date in loc.
func (t TimeOfDay) On(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, loc)
}

// ParseTimeOfDay accepts "HH:MM", and longer strings such as "09:00:00"
// whose first five characters are HH:MM.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	if len(s) < 5 || s[2] != ':' {
		return 0, fmt.Errorf("invalid time string: %q", s)
	}
	h, err := strconv.Atoi(s[:2])
	if err != nil {
		return 0, fmt.Errorf("invalid time string: %q", s)
	}
	m, err := strconv.Atoi(s[3:5])
	if err != nil {
		return 0, fmt.Errorf("invalid time string: %q", s)
	}
	// 24:00 is allowed as the end of a block.
	if h < 0 || h > 24 || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("time out of range: %q", s)
	}
	return NewTimeOfDay(h, m), nil
}

// GenerateSlots returns the start of every slot of length step that fits
// entirely inside [start, end), in chronological order.
func GenerateSlots(start, end TimeOfDay, step time.Duration) []TimeOfDay {
	stepMin := TimeOfDay(step / time.Minute)
	if stepMin <= 0 || start >= end {
		return nil
	}
	out := make([]TimeOfDay, 0, int(end-start)/int(stepMin))
	for t := start; t+stepMin <= end; t += stepMin {
		out = append(out, t)
	}
	return out
}
