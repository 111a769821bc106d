package handler

import (
	"net/http"

	"project_tracker/internal/model"
	"project_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles registration and login
type AuthHandler struct {
	service service.UserService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(s service.UserService) *AuthHandler {
	return &AuthHandler{service: s}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}

	resp, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	resp, err := h.service.CheckLogin(c.Request.Context(), c.Param("userName"), c.Param("password"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RegisterAuthRoutes registers the public login routes
func (h *AuthHandler) RegisterAuthRoutes(rg *gin.RouterGroup) {
	authGroup := rg.Group("/login")
	{
		authGroup.POST("", h.Register)
		authGroup.GET("/:userName/:password", h.Login)
	}
}
