package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/vinesrealty/leadsecure-backend/pkg/jwt"
)

// SessionContextKey is the key used to store the admin session in Gin context
const SessionContextKey = "admin_session"

// AdminAuthMiddleware creates a middleware that validates admin session
// tokens minted by the validate-passcode endpoint
func AdminAuthMiddleware(jwtService *jwt.Service, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.WithFields(logrus.Fields{
				"path": c.Request.URL.Path,
				"ip":   c.ClientIP(),
			}).Warn("Auth failed: missing authorization header")
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "unauthorized",
				"code":  "MISSING_AUTH_HEADER",
			})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			logger.WithFields(logrus.Fields{
				"path": c.Request.URL.Path,
				"ip":   c.ClientIP(),
			}).Warn("Auth failed: invalid authorization header format")
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "unauthorized",
				"code":  "INVALID_AUTH_FORMAT",
			})
			c.Abort()
			return
		}

		tokenString := strings.TrimSpace(parts[1])

		claims, err := jwtService.ValidateSessionToken(tokenString)
		if err != nil {
			code := "INVALID_TOKEN"
			if jwtService.IsTokenExpired(tokenString) {
				code = "TOKEN_EXPIRED"
			}
			logger.WithFields(logrus.Fields{
				"path": c.Request.URL.Path,
				"ip":   c.ClientIP(),
				"code": code,
			}).WithError(err).Warn("Auth failed: token rejected")
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "unauthorized",
				"code":  code,
			})
			c.Abort()
			return
		}

		c.Set(SessionContextKey, claims.SessionID)
		c.Next()
	}
}
