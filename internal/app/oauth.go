package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"booking-service/internal/apperr"
)

const (
	consentStateTTL = 10 * time.Minute
	consentSubject  = "oauth-consent"
)

// OAuthStartHandler returns the Google consent URL an operator opens to
// mint a new refresh token. The state is a short-lived JWT.
//
// GET /debug/oauth/start
func (a *App) OAuthStartHandler(c *gin.Context) {
	if a.Consent == nil || a.Config.DebugJWTSecret == "" {
		a.fail(c, apperr.NotFound("OAuth consent flow is not configured"))
		return
	}
	now := a.now()
	state, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   consentSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(consentStateTTL)),
	}).SignedString([]byte(a.Config.DebugJWTSecret))
	if err != nil {
		a.fail(c, err)
		return
	}
	url := a.Consent.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	c.JSON(http.StatusOK, gin.H{"ok": true, "authUrl": url})
}

// OAuthCallbackHandler exchanges the authorization code and returns the
// refresh token to put in GOOGLE_REFRESH_TOKEN.
//
// GET /oauth2callback?code=...&state=...
func (a *App) OAuthCallbackHandler(c *gin.Context) {
	if a.Consent == nil || a.Config.DebugJWTSecret == "" {
		a.fail(c, apperr.NotFound("OAuth consent flow is not configured"))
		return
	}
	tok, err := parseHS256(c.Query("state"), a.Config.DebugJWTSecret, a.now)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{OK: false, Error: "Invalid state"})
		return
	}
	if sub, _ := tok.Claims.GetSubject(); sub != consentSubject {
		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{OK: false, Error: "Invalid state"})
		return
	}
	code := c.Query("code")
	if code == "" {
		a.fail(c, apperr.Validation("Missing authorization code"))
		return
	}

	token, err := a.Consent.Exchange(c.Request.Context(), code)
	if err != nil {
		a.fail(c, apperr.Upstream("OAuth error", err))
		return
	}
	if token.RefreshToken == "" {
		a.fail(c, apperr.Upstream("OAuth error", errNoRefreshToken))
		return
	}
	a.logger().Info("oauth consent completed", zap.Time("expiry", token.Expiry))
	c.JSON(http.StatusOK, gin.H{"ok": true, "refreshToken": token.RefreshToken})
}
