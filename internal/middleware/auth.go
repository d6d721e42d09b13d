package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"jobguard/internal/service"
)

// SessionCookie is the cookie carrying the signed session token.
const SessionCookie = "jobguard_session"

// usernameKey is the gin context key holding the authenticated
// username once the session has been resolved.
const usernameKey = "username"

// Username returns the authenticated username set by the auth
// middleware, or "" when the request is anonymous.
func Username(c *gin.Context) string {
	return c.GetString(usernameKey)
}

// resolveToken extracts the session token from the cookie or from a
// Bearer Authorization header. The cookie is how the HTML UI carries
// its session; the header serves API clients.
func resolveToken(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie
	}
	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// RequireSessionPage gates an HTML endpoint: anonymous requests are
// redirected to the login form with no side effects.
func RequireSessionPage(auth service.AuthService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := resolveToken(c)
		if token == "" {
			c.Redirect(http.StatusSeeOther, "/admin_login")
			c.Abort()
			return
		}
		claims, err := auth.VerifyToken(token)
		if err != nil {
			logger.Debug("Rejected session token", zap.Error(err))
			c.Redirect(http.StatusSeeOther, "/admin_login")
			c.Abort()
			return
		}
		c.Set(usernameKey, claims.Username)
		c.Next()
	}
}

// RequireSessionAPI gates a JSON endpoint: anonymous requests get a
// 401 payload instead of a redirect.
func RequireSessionAPI(auth service.AuthService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := resolveToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}
		claims, err := auth.VerifyToken(token)
		if err != nil {
			logger.Debug("Rejected session token", zap.Error(err))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}
		c.Set(usernameKey, claims.Username)
		c.Next()
	}
}
