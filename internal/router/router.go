// Package router assembles the gin engine serving the project tracker API.
package router

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"project_tracker/internal/config"
	"project_tracker/internal/handler"
	"project_tracker/internal/middleware"
	"project_tracker/internal/problem"
	"project_tracker/internal/service"
	"project_tracker/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Deps are the collaborators the routes are served by
type Deps struct {
	Users    service.UserService
	Projects service.ProjectService
	JWT      *utils.JWTUtil
	Ping     func(ctx context.Context) error
}

// New builds the engine. Every failure is rendered by the problem middleware.
func New(cfg *config.ServerConfig, deps Deps) (*gin.Engine, error) {
	binding.EnableDecoderDisallowUnknownFields = true

	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil, fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	translator, err := problem.NewTranslator(cfg.ProblemBaseURI, v)
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(
		gin.Logger(),
		middleware.RequestID(),
		cors.New(corsConfig(cfg.CORSAllowedOrigins)),
		middleware.ProblemHandler(translator),
		middleware.Recovery(),
	)
	r.NoRoute(middleware.NoRoute)

	r.GET("/health", health(deps.Ping))

	jwtAuthMW := middleware.JWTAuthMiddleware(deps.JWT)
	adminRoleMW := middleware.AdminMiddleware()

	api := r.Group("")
	handler.NewAuthHandler(deps.Users).RegisterAuthRoutes(api)
	handler.NewUserHandler(deps.Users).RegisterUserRoutes(api, jwtAuthMW, adminRoleMW)
	handler.NewProjectHandler(deps.Projects).RegisterProjectRoutes(api, jwtAuthMW)

	return r, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

func health(ping func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ping != nil {
			if err := ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "db": "unhealthy"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "healthy"})
	}
}
