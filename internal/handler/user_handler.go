package handler

import (
	"encoding/json"
	"net/http"

	"project_tracker/internal/model"
	"project_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler handles account maintenance requests
type UserHandler struct {
	service service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(s service.UserService) *UserHandler {
	return &UserHandler{service: s}
}

func (h *UserHandler) List(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		c.Error(err)
		return
	}
	users, err := h.service.List(c.Request.Context(), actor)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) Get(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		c.Error(err)
		return
	}
	id, err := parseID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	user, err := h.service.Find(c.Request.Context(), actor, id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Update(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		c.Error(err)
		return
	}
	id, err := parseID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	var req model.UserUpdateRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}
	user, err := h.service.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Patch(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		c.Error(err)
		return
	}
	id, err := parseID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	var changes map[string]json.RawMessage
	if err := bindJSON(c, &changes); err != nil {
		c.Error(err)
		return
	}
	user, err := h.service.UpdatePartial(c.Request.Context(), actor, id, changes)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		c.Error(err)
		return
	}
	id, err := parseID(c, "id")
	if err != nil {
		c.Error(err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), actor, id); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RegisterUserRoutes registers the account routes. Listing every account needs adminMW.
func (h *UserHandler) RegisterUserRoutes(rg *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	users := rg.Group("/users", authMW)
	{
		users.GET("", adminMW, h.List)
		users.GET("/:id", h.Get)
		users.PUT("/:id", h.Update)
		users.PATCH("/:id", h.Patch)
		users.DELETE("/:id", h.Delete)
	}
}
