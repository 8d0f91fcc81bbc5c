// Package availability computes open meeting slots for a calendar date from
// business hours, the calendar's busy intervals and a minimum lead time.
package availability

import (
	"context"
	"regexp"
	"time"

	"go.uber.org/zap"

	"booking-service/internal/apperr"
	"booking-service/internal/calendar"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// SlotCache is the subset of the slots cache the service needs.
type SlotCache interface {
	Get(ctx context.Context, date string) ([]string, bool, error)
	Put(ctx context.Context, date string, slots []string) error
}

type Result struct {
	Slots  []string
	Cached bool
}

type Service struct {
	Policy     Policy
	Reconciler Reconciler
	Calendar   calendar.FreeBusy
	CalendarID string
	Cache      SlotCache
	Logger     *zap.Logger
}

// ParseDate validates a YYYY-MM-DD string and returns midnight of that date in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if !datePattern.MatchString(s) {
		return time.Time{}, apperr.Validation("Invalid date format. Use YYYY-MM-DD")
	}
	d, err := time.ParseInLocation("2006-01-02", s, loc)
	if err != nil {
		return time.Time{}, apperr.Validation("Invalid date format. Use YYYY-MM-DD")
	}
	return d, nil
}

// Slots returns the available slot start times ("HH:MM") for dateStr.
// With skipCache the cache is not read, but the fresh result is still stored.
func (s *Service) Slots(ctx context.Context, dateStr string, skipCache bool) (Result, error) {
	date, err := ParseDate(dateStr, s.Reconciler.Location)
	if err != nil {
		return Result{}, err
	}

	if !skipCache && s.Cache != nil {
		cached, ok, err := s.Cache.Get(ctx, dateStr)
		if err != nil {
			s.logger().Warn("slots cache read failed", zap.String("date", dateStr), zap.Error(err))
		} else if ok {
			return Result{Slots: cached, Cached: true}, nil
		}
	}

	slots, err := s.compute(ctx, date)
	if err != nil {
		return Result{}, err
	}

	if s.Cache != nil {
		if err := s.Cache.Put(ctx, dateStr, slots); err != nil {
			s.logger().Warn("slots cache write failed", zap.String("date", dateStr), zap.Error(err))
		}
	}
	return Result{Slots: slots}, nil
}

func (s *Service) compute(ctx context.Context, date time.Time) ([]string, error) {
	class := ClassOf(date.Weekday())
	blocks := s.Policy.Blocks(class)
	if len(blocks) == 0 {
		return []string{}, nil
	}

	loc := s.Reconciler.Location
	first, last := blocks[0].Start, blocks[0].End
	for _, b := range blocks[1:] {
		first = min(first, b.Start)
		last = max(last, b.End)
	}
	timeMin := first.On(date, loc)
	timeMax := last.On(date, loc)

	busy, err := s.Calendar.QueryFreeBusy(ctx, s.CalendarID, timeMin, timeMax)
	if err != nil {
		s.logger().Error("freebusy query failed",
			zap.String("date", date.Format("2006-01-02")),
			zap.Error(err),
		)
		return nil, err
	}

	open := s.Reconciler.Reconcile(date, s.Policy.Candidates(class, s.Reconciler.Step), busy)
	out := make([]string, len(open))
	for i, t := range open {
		out[i] = t.String()
	}
	s.logger().Debug("slots computed",
		zap.String("date", date.Format("2006-01-02")),
		zap.Stringer("day_class", class),
		zap.Int("busy", len(busy)),
		zap.Int("open", len(out)),
	)
	return out, nil
}

func (s *Service) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
