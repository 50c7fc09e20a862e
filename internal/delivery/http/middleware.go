package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/styleseeker/client/internal/domain"
	"github.com/styleseeker/client/internal/usecase"
	"github.com/styleseeker/client/pkg/log"
)

const sessionContextKey = "session"

// CORSMiddleware handles CORS for browser frontends on other origins
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		if isAllowedOrigin(origin, allowedOrigins) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Requested-With")
			c.Writer.Header().Set("Access-Control-Max-Age", "3600")
		}

		// Handle preflight requests
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// isAllowedOrigin checks if the origin is in the allowed list
func isAllowedOrigin(origin string, allowedOrigins []string) bool {
	for _, allowed := range allowedOrigins {
		// Trailing * matches any suffix
		if strings.HasSuffix(allowed, "*") {
			prefix := strings.TrimSuffix(allowed, "*")
			if strings.HasPrefix(origin, prefix) {
				return true
			}
		} else if origin == allowed {
			return true
		}
	}
	return false
}

// LoggerMiddleware writes one structured log line per request.
// Bodies are not logged since they carry image uploads.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		log.Infow("HTTP request",
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"clientIP", c.ClientIP(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)
	}
}

// RecoveryMiddleware recovers from panics
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.Recovery()
}

// SessionMiddleware attaches the caller's session, issuing a cookie for new ones.
func SessionMiddleware(sessions *usecase.SessionService, cookieName string, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(cookieName)

		session, created, err := sessions.GetOrCreate(c.Request.Context(), id)
		if err != nil {
			log.Error("SessionMiddleware: failed to load session", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session unavailable"})
			return
		}

		if created {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cookieName, session.ID, int(sessions.TTL().Seconds()), "/", "", secure, true)
		}

		c.Set(sessionContextKey, session)
		c.Next()
	}
}

// ResetSessionHandler ends the caller's session and expires its cookie, so
// the next page view starts with no file and no results.
func ResetSessionHandler(sessions *usecase.SessionService, cookieName string, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessionFrom(c)

		if err := sessions.Delete(c.Request.Context(), session.ID); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
			log.Error("ResetSession: failed to delete session", err)
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cookieName, "", -1, "/", "", secure, true)
		c.Redirect(http.StatusSeeOther, "/")
	}
}

// sessionFrom returns the session set by SessionMiddleware
func sessionFrom(c *gin.Context) *domain.Session {
	return c.MustGet(sessionContextKey).(*domain.Session)
}
