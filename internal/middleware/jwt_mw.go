package middleware

import (
	"strings"

	"project_tracker/internal/model"
	"project_tracker/internal/service"
	"project_tracker/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	AuthUserKey = "authUser"
	AuthRoleKey = "authRole"
)

// JWTAuthMiddleware rejects requests without a valid bearer token and stores the caller in the context
func JWTAuthMiddleware(jwtUtil *utils.JWTUtil) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.Error(service.ErrUnauthorized)
			c.Abort()
			return
		}

		claims, err := jwtUtil.ValidateToken(parts[1])
		if err != nil {
			c.Error(service.ErrUnauthorized)
			c.Abort()
			return
		}

		c.Set(AuthUserKey, claims.UserID)
		c.Set(AuthRoleKey, claims.Role)

		c.Next()
	}
}

// ActorFrom returns the caller stored by JWTAuthMiddleware
func ActorFrom(c *gin.Context) (model.Actor, bool) {
	userID, ok := c.Get(AuthUserKey)
	if !ok {
		return model.Actor{}, false
	}
	id, ok := userID.(int64)
	if !ok {
		return model.Actor{}, false
	}
	return model.Actor{UserID: id, Role: c.GetString(AuthRoleKey)}, true
}
