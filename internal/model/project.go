package model

import "time"

// Project is a named piece of work owned by exactly one user
type Project struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	UserID      int64     `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProjectRequest is used for creating and fully replacing a project.
// A zero UserID on creation binds the project to the caller.
type ProjectRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=500"`
	UserID      int64  `json:"userId" binding:"omitempty,gt=0"`
}
