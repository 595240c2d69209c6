package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/guardia/backend/internal/infrastructure/auth"
	"github.com/guardia/backend/internal/interfaces/http/dto"
)

// Session context keys
const (
	SessionClaimsKey = "session_claims"
	SessionUserIDKey = "session_user_id"
	AuthHeaderKey    = "Authorization"
	BearerPrefix     = "Bearer "
)

// SessionAuth gates report generation behind a valid session token with an
// approved account. Unapproved users hold valid sessions but may not submit.
func SessionAuth(jwtService *auth.JWTService, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthHeaderKey)
		if !strings.HasPrefix(authHeader, BearerPrefix) {
			abortUnauthorized(c)
			return
		}
		tokenString := strings.TrimPrefix(authHeader, BearerPrefix)
		if tokenString == "" {
			abortUnauthorized(c)
			return
		}

		claims, err := jwtService.ValidateSessionToken(tokenString)
		if err != nil {
			logger.Warn("session token rejected",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err))
			abortUnauthorized(c)
			return
		}

		if !claims.Approved {
			logger.Warn("unapproved account blocked",
				zap.String("user_id", claims.UserID),
				zap.String("path", c.Request.URL.Path))
			abortUnauthorized(c)
			return
		}

		c.Set(SessionClaimsKey, claims)
		c.Set(SessionUserIDKey, claims.UserID)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse("authentication required"))
}

// GetSessionClaims retrieves session claims from gin.Context
func GetSessionClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(SessionClaimsKey); exists {
		if sessionClaims, ok := claims.(*auth.Claims); ok {
			return sessionClaims
		}
	}
	return nil
}
