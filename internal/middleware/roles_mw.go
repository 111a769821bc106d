package middleware

import (
	"slices"

	"project_tracker/internal/model"
	"project_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// RoleMiddleware lets the request through only when the caller holds one of allowedRoles.
// It must run after JWTAuthMiddleware.
func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok {
			c.Error(service.ErrUnauthorized)
			c.Abort()
			return
		}

		if !slices.Contains(allowedRoles, actor.Role) {
			c.Error(service.ErrForbidden)
			c.Abort()
			return
		}

		c.Next()
	}
}

// AdminMiddleware checks if the user is an admin
func AdminMiddleware() gin.HandlerFunc {
	return RoleMiddleware(model.RoleAdmin)
}
