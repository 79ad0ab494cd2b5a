package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	SessionCookie = "booking_session"
	SessionHeader = "X-Session-ID"

	sessionIDKey = "sessionID"
)

// SessionID gives every caller a booking session id. An id sent in the
// X-Session-ID header wins over the cookie; with neither a new one is issued.
func SessionID(ttl time.Duration) gin.HandlerFunc {
	maxAge := int(ttl / time.Second)
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(SessionHeader))
		if id == "" {
			if v, err := c.Cookie(SessionCookie); err == nil {
				id = strings.TrimSpace(v)
			}
		}
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, id, maxAge, "/", "", false, true)
		}
		c.Header(SessionHeader, id)
		c.Set(sessionIDKey, id)
		c.Next()
	}
}

// CurrentSessionID returns the id set by SessionID, or "".
func CurrentSessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}
