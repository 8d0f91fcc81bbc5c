package app

import (
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"booking-service/internal/apperr"
	"booking-service/internal/locale"
	"booking-service/internal/ratelimit"
)

func (a *App) recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, rec any) {
		a.logger().Error("panic while handling request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Any("panic", rec),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{OK: false, Error: "Internal server error"})
	})
}

func (a *App) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		a.logger().Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client", ratelimit.ClientKey(c.Request)),
		)
	}
}

// cors allows the configured origins, or every origin when the list is
// unset or contains "*". A disallowed origin is rejected with 403.
func (a *App) cors() gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Content-Type", "X-Debug-Key", "Authorization"},
		MaxAge:       12 * time.Hour,
	}

	origins := a.Config.Origins()
	wildcard := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			wildcard = true
		}
	}
	switch {
	case len(origins) == 0:
		a.logger().Warn("ALLOWED_ORIGINS not set, allowing every origin")
		cfg.AllowAllOrigins = true
	case wildcard:
		cfg.AllowAllOrigins = true
	default:
		allowed := make(map[string]struct{}, len(origins))
		for _, o := range origins {
			allowed[o] = struct{}{}
		}
		cfg.AllowOriginFunc = func(origin string) bool {
			_, ok := allowed[origin]
			return ok
		}
	}
	return cors.New(cfg)
}

// limitBookings applies the fixed-window limit to POST /book before the
// body is read.
func (a *App) limitBookings() gin.HandlerFunc {
	maxRequests := a.Config.RateLimitMax
	window := a.Config.RateLimitWindow()

	return func(c *gin.Context) {
		client := ratelimit.ClientKey(c.Request)
		res, err := a.Limiter.Check(c.Request.Context(), client, maxRequests, window)
		if err != nil {
			a.fail(c, apperr.Upstream("Rate limit store error", err))
			return
		}
		if !res.Allowed {
			a.logger().Warn("booking rate limit exceeded",
				zap.String("client", client),
				zap.Int("retry_after", res.ResetInSeconds()),
			)
			a.fail(c, apperr.RateLimited(locale.T(language(c), locale.RateLimited), res.ResetInSeconds()))
			return
		}
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		c.Next()
	}
}

func (a *App) throttleSlots() gin.HandlerFunc {
	return func(c *gin.Context) {
		if a.Throttle == nil {
			c.Next()
			return
		}
		client := ratelimit.ClientKey(c.Request)
		ok, wait := a.Throttle.Allow(client)
		if !ok {
			retry := int(math.Ceil(wait.Seconds()))
			if retry < 1 {
				retry = 1
			}
			a.logger().Warn("slots throttle exceeded", zap.String("client", client))
			a.fail(c, apperr.RateLimited(locale.T(language(c), locale.SlowDown), retry))
			return
		}
		c.Next()
	}
}
