package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid user name or password")
	ErrUnauthorized       = errors.New("authentication required")
	ErrForbidden          = errors.New("forbidden: user does not have permission for this action")
)

// EntityNotFoundError reports that the resource addressed by the request does not exist.
type EntityNotFoundError struct {
	Message string
}

func (e *EntityNotFoundError) Error() string { return e.Message }

// ReferenceNotFoundError reports that an entity referenced from the request body does not exist.
type ReferenceNotFoundError struct {
	Message string
}

func (e *ReferenceNotFoundError) Error() string { return e.Message }

// EntityAlreadyExistsError reports a clash with a unique field.
type EntityAlreadyExistsError struct {
	Message string
}

func (e *EntityAlreadyExistsError) Error() string { return e.Message }

// EntityInUseError reports a delete rejected because other records still reference the entity.
type EntityInUseError struct {
	Message string
	Err     error
}

func (e *EntityInUseError) Error() string { return e.Message }

func (e *EntityInUseError) Unwrap() error { return e.Err }

func userNotFound(id int64) error {
	return &EntityNotFoundError{Message: fmt.Sprintf("User with id %d is not registered.", id)}
}

func projectNotFound(id int64) error {
	return &EntityNotFoundError{Message: fmt.Sprintf("Project with id %d is not registered.", id)}
}

func ownerNotFound(id int64) error {
	return &ReferenceNotFoundError{Message: fmt.Sprintf("User with id %d is not registered.", id)}
}
