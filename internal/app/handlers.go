package app

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"booking-service/internal/apperr"
	"booking-service/internal/availability"
	"booking-service/internal/booking"
	"booking-service/internal/locale"
)

func language(c *gin.Context) locale.Lang {
	return locale.Detect(c.Query("lang"), c.GetHeader("Accept-Language"))
}

// GET /
func (a *App) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{
		OK:        true,
		Service:   serviceName,
		Endpoints: []string{"/slots/:date", "/book"},
	})
}

// GET /slots/:date?lang=en|es&nocache=1
func (a *App) SlotsHandler(c *gin.Context) {
	res, err := a.Slots.Slots(c.Request.Context(), c.Param("date"), c.Query("nocache") == "1")
	if err != nil {
		a.fail(c, err)
		return
	}
	slots := res.Slots
	if slots == nil {
		slots = []string{}
	}
	c.JSON(http.StatusOK, slotsResponse{OK: true, Slots: slots, Cached: res.Cached})
}

// POST /book
// An empty body decodes as an empty request and fails field validation.
func (a *App) BookHandler(c *gin.Context) {
	lang := language(c)

	var req booking.Request
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		a.fail(c, apperr.Validation(locale.T(lang, locale.InvalidJSON)))
		return
	}
	if c.Query("lang") == "" && req.Lang != "" {
		lang = locale.Detect(req.Lang, "")
	}

	conf, err := a.Bookings.CreateBooking(c.Request.Context(), req, lang)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, bookResponse{
		OK:       true,
		EventID:  conf.EventID,
		MeetLink: optional(conf.MeetLink),
		Message:  locale.T(lang, locale.BookSuccess),
	})
}

// GET /debug
func (a *App) DebugHandler(c *gin.Context) {
	cfg := a.Config
	origins := "* (default)"
	if len(cfg.Origins()) > 0 {
		origins = "(configured)"
	}
	c.JSON(http.StatusOK, debugResponse{
		OK: true,
		EnvCheck: envCheck{
			HasGoogleClientID:     cfg.GoogleClientID != "",
			HasGoogleClientSecret: cfg.GoogleClientSecret != "",
			HasGoogleRefreshToken: cfg.GoogleRefreshToken != "",
			HasCalendarID:         cfg.Calendar() != "",
			Timezone:              cfg.Timezone,
			WeekdayMorning:        cfg.WeekdayMorningHours,
			WeekdayAfternoon:      cfg.WeekdayAfternoonHours,
			SaturdayHours:         cfg.SaturdayHours,
			AllowedOrigins:        origins,
			SharedStore:           cfg.RedisAddr != "",
			Ledger:                a.Ledger != nil,
		},
	})
}

// GET /debug/bookings/:date
func (a *App) DebugBookingsHandler(c *gin.Context) {
	if a.Ledger == nil {
		a.fail(c, apperr.NotFound("Booking ledger is not configured"))
		return
	}
	date := c.Param("date")
	if _, err := availability.ParseDate(date, a.Config.Location); err != nil {
		a.fail(c, err)
		return
	}
	entries, err := a.Ledger.ListByDate(c.Request.Context(), date)
	if err != nil {
		a.fail(c, apperr.Upstream("Booking ledger error", err))
		return
	}
	out := make([]ledgerEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, ledgerEntry{
			EventID:   e.EventID,
			Name:      e.Name,
			Email:     e.Email,
			Time:      e.Time,
			MeetLink:  optional(e.MeetLink),
			CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "date": date, "bookings": out})
}

// NoRouteHandler answers preflights that carry no Origin and 404s the rest.
func (a *App) NoRouteHandler(c *gin.Context) {
	if c.Request.Method == http.MethodOptions {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusNotFound, errorResponse{OK: false, Error: "Not found"})
}
