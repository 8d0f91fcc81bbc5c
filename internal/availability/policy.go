package availability

import (
	"fmt"
	"strings"
	"time"
)

// DayClass groups weekdays that share business hours.
type DayClass int

const (
	Weekday DayClass = iota
	Saturday
	Sunday
)

func (c DayClass) String() string {
	switch c {
	case Saturday:
		return "saturday"
	case Sunday:
		return "sunday"
	default:
		return "weekday"
	}
}

func ClassOf(d time.Weekday) DayClass {
	switch d {
	case time.Sunday:
		return Sunday
	case time.Saturday:
		return Saturday
	default:
		return Weekday
	}
}

// Block is a [Start, End) range of business hours.
type Block struct {
	Start TimeOfDay
	End   TimeOfDay
}

func (b Block) String() string { return b.Start.String() + "-" + b.End.String() }

// ParseBlock parses "HH:MM-HH:MM".
func ParseBlock(s string) (Block, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 2 {
		return Block{}, fmt.Errorf("invalid hours block %q, want HH:MM-HH:MM", s)
	}
	start, err := ParseTimeOfDay(parts[0])
	if err != nil {
		return Block{}, err
	}
	end, err := ParseTimeOfDay(parts[1])
	if err != nil {
		return Block{}, err
	}
	if end <= start {
		return Block{}, fmt.Errorf("hours block %q ends before it starts", s)
	}
	return Block{Start: start, End: end}, nil
}

// Policy maps day classes to business hours. It is built once at start-up.
type Policy struct {
	weekday  []Block
	saturday []Block
}

func NewPolicy(weekday []Block, saturday Block) Policy {
	return Policy{
		weekday:  append([]Block(nil), weekday...),
		saturday: []Block{saturday},
	}
}

// Blocks returns the business hours for a day class. Sunday is always closed.
func (p Policy) Blocks(c DayClass) []Block {
	switch c {
	case Sunday:
		return nil
	case Saturday:
		return p.saturday
	default:
		return p.weekday
	}
}

// Candidates concatenates the slots of every block of the class, in block order.
func (p Policy) Candidates(c DayClass, step time.Duration) []TimeOfDay {
	var out []TimeOfDay
	for _, b := range p.Blocks(c) {
		out = append(out, GenerateSlots(b.Start, b.End, step)...)
	}
	return out
}
