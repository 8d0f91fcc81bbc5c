package booking

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"booking-service/internal/apperr"
	"booking-service/internal/locale"
)

const maxFieldLen = 200

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]{2,}$`)
	datePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern  = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

// Sanitize trims s, caps it at 200 characters and removes angle brackets and
// control characters so it can be embedded in calendar event text.
func Sanitize(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > maxFieldLen {
		s = string([]rune(s)[:maxFieldLen])
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r == '<' || r == '>':
			return -1
		case r < 0x20 || r == 0x7f:
			return -1
		}
		return r
	}, s)
}

// Validated is a request that passed validation, with sanitized fields.
type Validated struct {
	Name  string
	Email string
	Date  string
	Time  string
	Notes string
}

// Validate checks req in order and reports the first failure.
func Validate(req Request, lang locale.Lang) (Validated, error) {
	if req.Name == "" || req.Email == "" || req.Date == "" || req.Time == "" {
		return Validated{}, apperr.Validation(locale.T(lang, locale.MissingFields))
	}

	v := Validated{
		Name:  Sanitize(req.Name),
		Email: strings.ToLower(Sanitize(req.Email)),
		Date:  req.Date,
		Time:  req.Time,
		Notes: Sanitize(req.Notes),
	}
	if !emailPattern.MatchString(v.Email) {
		return Validated{}, apperr.Validation(locale.T(lang, locale.InvalidEmail))
	}
	if !datePattern.MatchString(v.Date) {
		return Validated{}, apperr.Validation(locale.T(lang, locale.InvalidDate))
	}
	if !timePattern.MatchString(v.Time) {
		return Validated{}, apperr.Validation(locale.T(lang, locale.InvalidTime))
	}
	return v, nil
}
