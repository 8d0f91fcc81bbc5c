package app

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"booking-service/internal/apperr"
)

// fail is the single place errors become responses.
func (a *App) fail(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	body := errorResponse{OK: false, Error: err.Error()}

	var ae *apperr.Error
	if errors.As(err, &ae) && ae.Kind == apperr.KindRateLimited {
		retry := ae.RetryAfter
		body.RetryAfter = &retry
		c.Header("Retry-After", strconv.Itoa(retry))
	}

	if status >= http.StatusInternalServerError {
		a.logger().Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}
	c.AbortWithStatusJSON(status, body)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

var errNoRefreshToken = errors.New("no refresh token returned, revoke access and retry")
