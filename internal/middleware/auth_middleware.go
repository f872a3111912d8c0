package middleware

import (
	"strings"

	"rideadmin/internal/models"
	"rideadmin/internal/services"
	"rideadmin/internal/utils"
	"rideadmin/pkg/logger"

	"github.com/gin-gonic/gin"
)

// AuthRequired resolves the bearer token to a live admin session and stores
// it on the context. Browsers cannot set headers on a websocket handshake, so
// a token query parameter is accepted as well.
func AuthRequired(authService services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		session, err := authService.Authenticate(c.Request.Context(), token)
		if err != nil {
			utils.UnauthorizedResponse(c)
			c.Abort()
			return
		}

		c.Set(utils.ContextKeySession, session)
		c.Request = c.Request.WithContext(logger.ContextWithAdminID(c.Request.Context(), session.UID))

		c.Next()
	}
}

// GetSession returns the session stored by AuthRequired.
func GetSession(c *gin.Context) (*models.Session, bool) {
	value, exists := c.Get(utils.ContextKeySession)
	if !exists {
		return nil, false
	}
	session, ok := value.(*models.Session)
	return session, ok
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header != "" {
		token, found := strings.CutPrefix(header, utils.SessionTokenType+" ")
		if !found {
			return ""
		}
		return strings.TrimSpace(token)
	}
	return c.Query("token")
}
