package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"seguimientos/backend/internal/api/handler"
	"seguimientos/backend/internal/service"
	"seguimientos/backend/pkg/jwt"
	"seguimientos/backend/pkg/response"
)

// JWTAuth verifies the "Authorization: Bearer <token>" access token and
// injects its claims. A nil blacklist skips the revocation check.
func JWTAuth(jwtMgr *jwt.Manager, blacklist service.TokenBlacklist, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "malformed authorization header")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, 10002, "token is invalid or expired")
			c.Abort()
			return
		}

		if claims.TokenType != jwt.TokenTypeAccess {
			response.Unauthorized(c, 10002, "wrong token type")
			c.Abort()
			return
		}

		if blacklist != nil {
			revoked, err := blacklist.IsBlacklisted(c.Request.Context(), claims.ID)
			if err != nil {
				// Redis down: let the request through rather than locking everyone out
				logger.Warn("blacklist lookup failed", zap.Error(err))
			} else if revoked {
				response.Unauthorized(c, 10002, "token has been revoked")
				c.Abort()
				return
			}
		}

		c.Set(handler.ClaimsKey, claims)
		c.Set(handler.TeacherIDKey, claims.TeacherID)
		c.Set(handler.IsAdminKey, claims.IsAdmin)

		c.Next()
	}
}

// AdminOnly 403s callers whose token does not carry the admin flag.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		isAdmin, exists := c.Get(handler.IsAdminKey)
		if !exists {
			response.Unauthorized(c, 10002, "not authenticated")
			c.Abort()
			return
		}

		if ok, _ := isAdmin.(bool); !ok {
			response.Forbidden(c, 10003, "administrator access required")
			c.Abort()
			return
		}

		c.Next()
	}
}
