package middleware

import (
	"net/http"

	"payments-backend/internal/logging"
	"payments-backend/internal/services/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const principalKey = "principal"

// Principal is the authenticated caller, passed explicitly to services.
type Principal struct {
	UserID uuid.UUID
	Role   string
	Name   string
}

// RequireSession rejects requests without a valid session cookie and stores
// the Principal on the gin context.
func RequireSession(issuer *auth.TokenIssuer, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(cookieName)
		if err != nil || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		claims, err := issuer.Parse(raw)
		if err != nil {
			logging.FromContext(c.Request.Context()).Debug("session rejected", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
			return
		}

		userID, _ := claims.UserID()
		p := Principal{UserID: userID, Role: claims.Role, Name: claims.FullName}
		c.Set(principalKey, p)

		ctx := logging.ContextWithLogger(c.Request.Context(),
			logging.FromContext(c.Request.Context()).With(zap.Stringer("principal_id", userID)))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireRole allows the request only when the principal has one of roles.
// It must run after RequireSession.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if _, ok := allowed[p.Role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
			return
		}
		c.Next()
	}
}

func PrincipalFrom(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}
