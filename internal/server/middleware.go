package server

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const sessionCookie = "ledgerpad_session"

// AuthRequired gates the API behind the local session. During first-run
// setup no credentials exist yet, and the API stays open so the owner
// can reach it before creating an account.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		state := s.authSvc.State(c.Request.Context())
		if !state.HasCredentials {
			c.Next()
			return
		}

		if !s.authSvc.ValidateSession(c.Request.Context(), sessionToken(c)) {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		c.Next()
	}
}

func sessionToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(after)
	}
	if cookie, err := c.Cookie(sessionCookie); err == nil {
		return cookie
	}
	return ""
}
