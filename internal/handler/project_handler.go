package handler

import (
	"encoding/json"
	"net/http"

	"project_tracker/internal/model"
	"project_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// ProjectHandler handles project requests
type ProjectHandler struct {
	service service.ProjectService
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(s service.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: s}
}

// List returns the projects of ?userId=, or of the caller when the parameter is absent
func (h *ProjectHandler) List(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		c.Error(err)
		return
	}
	ownerID := actor.UserID
	if raw, ok := c.GetQuery("userId"); ok {
		if ownerID, err = parseInt("userId", raw); err != nil {
			c.Error(err)
			return
		}
	}
	projects, err := h.service.All(c.Request.Context(), actor, ownerID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (h *ProjectHandler) Get(c *gin.Context) {
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
	project, err := h.service.Find(c.Request.Context(), actor, id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) Create(c *gin.Context) {
	actor, err := getActor(c)
	if err != nil {
		c.Error(err)
		return
	}
	var req model.ProjectRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}
	project, err := h.service.Add(c.Request.Context(), actor, req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

func (h *ProjectHandler) Update(c *gin.Context) {
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
	var req model.ProjectRequest
	if err := bindJSON(c, &req); err != nil {
		c.Error(err)
		return
	}
	project, err := h.service.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) Patch(c *gin.Context) {
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
	project, err := h.service.UpdatePartial(c.Request.Context(), actor, id, changes)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *ProjectHandler) Delete(c *gin.Context) {
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

// RegisterProjectRoutes registers the project routes behind authMW
func (h *ProjectHandler) RegisterProjectRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	projects := rg.Group("/projects", authMW)
	{
		projects.GET("", h.List)
		projects.POST("", h.Create)
		projects.GET("/:id", h.Get)
		projects.PUT("/:id", h.Update)
		projects.PATCH("/:id", h.Patch)
		projects.DELETE("/:id", h.Delete)
	}
}
