package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	CSRFCookieName = "csrf_token"
	CSRFHeaderName = "X-CSRF-TOKEN"
)

// CSRF enforces the double-submit check on state-changing methods: the
// X-CSRF-TOKEN header must equal the csrf_token cookie.
func CSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		cookie, err := c.Cookie(CSRFCookieName)
		header := c.GetHeader(CSRFHeaderName)
		if err != nil || cookie == "" || header == "" ||
			subtle.ConstantTimeCompare([]byte(cookie), []byte(header)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid or missing CSRF token"})
			return
		}
		c.Next()
	}
}

// IssueCSRFToken sets a fresh csrf_token cookie and returns the same value
// in the body for the client to echo in the header.
func IssueCSRFToken(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := uuid.NewString()
		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(CSRFCookieName, token, 0, "/", "", secure, true)
		c.JSON(http.StatusOK, gin.H{"token": token})
	}
}
