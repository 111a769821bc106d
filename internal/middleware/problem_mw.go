package middleware

import (
	"fmt"
	"log"

	"project_tracker/internal/problem"

	"github.com/gin-gonic/gin"
)

// ProblemHandler renders the last error recorded on the context as a Problem document.
// Handlers report failures with c.Error and return without writing a body.
func ProblemHandler(t *problem.Translator) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil {
			return
		}

		status, body := t.Translate(last.Err)
		if status >= 500 {
			log.Printf("request %s %s failed [%s]: %v", c.Request.Method, c.Request.URL.Path, c.GetString(RequestIDKey), last.Err)
		}
		if c.Writer.Written() {
			return
		}
		c.AbortWithStatusJSON(status, body)
	}
}

// Recovery turns a panic into an internal error for ProblemHandler to render
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		c.Error(fmt.Errorf("panic recovered: %v", recovered))
		c.Abort()
	})
}

// NoRoute reports an unmatched route
func NoRoute(c *gin.Context) {
	c.Error(&problem.RouteNotFoundError{Method: c.Request.Method, Path: c.Request.URL.Path})
}
