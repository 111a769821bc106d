// Package problem renders every request failure as a uniform JSON error document.
package problem

import (
	"fmt"
	"time"
)

const (
	UserMessageSystemError = "An unexpected internal system error has occurred. Try again and if the problem persists, contact your system administrator."
	UserMessageEntityInUse = "The resource you are trying to remove is in use by another resource and cannot be deleted."
	DetailInvalidData      = "One or more fields are invalid. Fill in correctly and try again."
	DetailMalformedBody    = "The request body is invalid. Check syntax error."
)

// Problem is the error response body
type Problem struct {
	Timestamp   time.Time `json:"timestamp"`
	Status      int       `json:"status"`
	Type        string    `json:"type,omitempty"`
	Title       string    `json:"title"`
	Detail      string    `json:"detail,omitempty"`
	UserMessage string    `json:"userMessage,omitempty"`
	Fields      []Field   `json:"fields,omitempty"`
}

// Field describes one invalid property of a request body
type Field struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// InvalidParameterError is raised when a path or query parameter does not parse as its declared type.
type InvalidParameterError struct {
	Name  string
	Value string
	Type  string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("The URL parameter '%s' received the value '%s', which is an invalid type. Correct and enter a value compatible with type '%s'.", e.Name, e.Value, e.Type)
}

// RouteNotFoundError is raised when no route matches the request.
type RouteNotFoundError struct {
	Method string
	Path   string
}

func (e *RouteNotFoundError) Error() string {
	return fmt.Sprintf("The resource '%s' you tried to access does not exist.", e.Path)
}

// MalformedBodyError wraps a failure to decode the request body.
type MalformedBodyError struct {
	Err error
}

func (e *MalformedBodyError) Error() string {
	return "malformed request body: " + e.Err.Error()
}

func (e *MalformedBodyError) Unwrap() error {
	return e.Err
}
