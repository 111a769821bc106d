package handler

import (
	"errors"
	"strconv"

	"project_tracker/internal/middleware"
	"project_tracker/internal/model"
	"project_tracker/internal/problem"
	"project_tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// parseID reads a numeric path parameter
func parseID(c *gin.Context, name string) (int64, error) {
	return parseInt(name, c.Param(name))
}

func parseInt(name, raw string) (int64, error) {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &problem.InvalidParameterError{Name: name, Value: raw, Type: "integer"}
	}
	return v, nil
}

// getActor returns the authenticated caller
func getActor(c *gin.Context) (model.Actor, error) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return model.Actor{}, service.ErrUnauthorized
	}
	return actor, nil
}

// bindJSON decodes and validates the body. Decode failures are reported as a malformed body.
func bindJSON(c *gin.Context, obj any) error {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return nil
	}
	var invalid validator.ValidationErrors
	if errors.As(err, &invalid) {
		return err
	}
	return &problem.MalformedBodyError{Err: err}
}
