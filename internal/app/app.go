// Package app exposes the booking service over HTTP.
package app

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"booking-service/internal/availability"
	"booking-service/internal/booking"
	"booking-service/internal/config"
	"booking-service/internal/ledger"
	"booking-service/internal/locale"
	"booking-service/internal/ratelimit"
)

const serviceName = "CushLabs Booking API v1"

type SlotFinder interface {
	Slots(ctx context.Context, date string, skipCache bool) (availability.Result, error)
}

type Booker interface {
	CreateBooking(ctx context.Context, req booking.Request, lang locale.Lang) (booking.Confirmation, error)
}

// BookingLister is implemented by the Postgres ledger.
type BookingLister interface {
	ListByDate(ctx context.Context, date string) ([]ledger.Entry, error)
}

type App struct {
	Config   *config.Config
	Slots    SlotFinder
	Bookings Booker
	// Limiter guards POST /book.
	Limiter *ratelimit.Limiter
	// Throttle guards GET /slots; nil disables it.
	Throttle *ratelimit.Throttle
	// Ledger is optional.
	Ledger BookingLister
	// Consent is the operator OAuth flow; nil disables it.
	Consent *oauth2.Config
	Logger  *zap.Logger
	Now     func() time.Time
}

func (a *App) logger() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}

func (a *App) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}

// Router registers every route and the global middleware chain.
func (a *App) Router() *gin.Engine {
	r := gin.New()
	r.Use(a.recovery(), a.requestLog(), a.cors())

	r.GET("/", a.HealthHandler)
	r.GET("/slots/:date", a.throttleSlots(), a.SlotsHandler)
	r.POST("/book", a.limitBookings(), a.BookHandler)

	debug := r.Group("/debug", a.debugEnabled(), a.debugAuth())
	{
		debug.GET("", a.DebugHandler)
		debug.GET("/bookings/:date", a.DebugBookingsHandler)
		debug.GET("/oauth/start", a.OAuthStartHandler)
	}
	r.GET("/oauth2callback", a.debugEnabled(), a.OAuthCallbackHandler)

	r.NoRoute(a.NoRouteHandler)
	return r
}
