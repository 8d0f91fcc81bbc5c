package app

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// debugEnabled hides the operator endpoints unless DEBUG_ENABLED is true.
func (a *App) debugEnabled() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.Config.DebugEnabled {
			c.AbortWithStatusJSON(http.StatusNotFound, errorResponse{OK: false, Error: "Debug endpoint is disabled"})
			return
		}
		c.Next()
	}
}

// debugAuth accepts X-Debug-Key equal to DEBUG_KEY or a Bearer HS256 JWT
// signed with DEBUG_JWT_SECRET. With neither configured the endpoints are open.
func (a *App) debugAuth() gin.HandlerFunc {
	key := strings.TrimSpace(a.Config.DebugKey)
	secret := strings.TrimSpace(a.Config.DebugJWTSecret)

	return func(c *gin.Context) {
		if key == "" && secret == "" {
			c.Next()
			return
		}

		if key != "" {
			if got := c.GetHeader("X-Debug-Key"); got != "" && subtle.ConstantTimeCompare([]byte(got), []byte(key)) == 1 {
				c.Next()
				return
			}
		}

		if secret != "" {
			parts := strings.Fields(c.GetHeader("Authorization"))
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				// Consent states travel in URLs and never grant debug access.
				if tok, err := parseHS256(parts[1], secret, a.now); err == nil {
					if sub, _ := tok.Claims.GetSubject(); sub != consentSubject {
						c.Next()
						return
					}
				}
			}
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{OK: false, Error: "Unauthorized"})
	}
}

func parseHS256(tokenStr, secret string, now func() time.Time) (*jwt.Token, error) {
	return jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return []byte(secret), nil
	}, jwt.WithLeeway(5*time.Second), jwt.WithTimeFunc(now), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
}
