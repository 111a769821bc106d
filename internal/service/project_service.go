package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"project_tracker/internal/model"
	"project_tracker/internal/patch"
	"project_tracker/internal/repository"
)

// projectFields lists the project properties a PATCH body may name
var projectFields = patch.Fields[model.ProjectRequest]{
	"name":        patch.Field(func(r *model.ProjectRequest, v string) { r.Name = v }),
	"description": patch.Field(func(r *model.ProjectRequest, v string) { r.Description = v }),
	"userId":      patch.Field(func(r *model.ProjectRequest, v int64) { r.UserID = v }),
}

// ProjectService defines operations for projects
type ProjectService interface {
	All(ctx context.Context, actor model.Actor, ownerID int64) ([]model.Project, error)
	Find(ctx context.Context, actor model.Actor, id int64) (*model.Project, error)
	Add(ctx context.Context, actor model.Actor, req model.ProjectRequest) (*model.Project, error)
	Update(ctx context.Context, actor model.Actor, id int64, req model.ProjectRequest) (*model.Project, error)
	UpdatePartial(ctx context.Context, actor model.Actor, id int64, changes map[string]json.RawMessage) (*model.Project, error)
	Delete(ctx context.Context, actor model.Actor, id int64) error
}

type projectService struct {
	store     repository.Store
	validator StructValidator
}

// NewProjectService creates a new ProjectService
func NewProjectService(store repository.Store, validator StructValidator) ProjectService {
	return &projectService{store: store, validator: validator}
}

// All lists the projects owned by ownerID
func (s *projectService) All(ctx context.Context, actor model.Actor, ownerID int64) ([]model.Project, error) {
	owner, err := s.store.Users().FindByID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find project owner: %w", err)
	}
	if owner == nil {
		return nil, userNotFound(ownerID)
	}
	if !actor.CanAccess(owner.ID) {
		return nil, ErrForbidden
	}

	projects, err := s.store.Projects().FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get projects from repo: %w", err)
	}
	return projects, nil
}

func (s *projectService) Find(ctx context.Context, actor model.Actor, id int64) (*model.Project, error) {
	return s.load(ctx, s.store.Projects(), actor, id)
}

// Add creates a project. A zero UserID binds the project to the actor.
func (s *projectService) Add(ctx context.Context, actor model.Actor, req model.ProjectRequest) (*model.Project, error) {
	ownerID := req.UserID
	if ownerID == 0 {
		ownerID = actor.UserID
	}

	var created *model.Project
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		existing, err := tx.Projects().FindByOwnerAndName(ctx, ownerID, req.Name)
		if err != nil {
			return fmt.Errorf("failed to check project name: %w", err)
		}
		if existing != nil {
			return projectNameTaken(req.Name)
		}

		if err := s.checkOwner(ctx, tx.Users(), actor, ownerID); err != nil {
			return err
		}

		now := time.Now()
		project := &model.Project{
			Name:        req.Name,
			Description: req.Description,
			UserID:      ownerID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.Projects().Create(ctx, project); err != nil {
			return s.persistError(err, req.Name, ownerID, "create")
		}
		created = project
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update replaces every field of the project except its ID. A zero UserID keeps the current owner.
func (s *projectService) Update(ctx context.Context, actor model.Actor, id int64, req model.ProjectRequest) (*model.Project, error) {
	var updated *model.Project
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		current, err := s.load(ctx, tx.Projects(), actor, id)
		if err != nil {
			return err
		}
		updated, err = s.apply(ctx, tx, actor, current, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdatePartial changes only the fields named in changes
func (s *projectService) UpdatePartial(ctx context.Context, actor model.Actor, id int64, changes map[string]json.RawMessage) (*model.Project, error) {
	var updated *model.Project
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		current, err := s.load(ctx, tx.Projects(), actor, id)
		if err != nil {
			return err
		}

		req := model.ProjectRequest{Name: current.Name, Description: current.Description, UserID: current.UserID}
		if err := patch.Apply(&req, projectFields, changes); err != nil {
			return err
		}
		if err := s.validator.ValidateStruct(&req); err != nil {
			return err
		}

		updated, err = s.apply(ctx, tx, actor, current, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a project that nothing references
func (s *projectService) Delete(ctx context.Context, actor model.Actor, id int64) error {
	return s.store.WithinTx(ctx, func(tx repository.Store) error {
		if _, err := s.load(ctx, tx.Projects(), actor, id); err != nil {
			return err
		}
		if err := tx.Projects().Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrForeignKeyViolation) {
				return &EntityInUseError{
					Message: fmt.Sprintf("Project with id %d cannot be deleted as it is in use.", id),
					Err:     err,
				}
			}
			return fmt.Errorf("failed to delete project in repo: %w", err)
		}
		return nil
	})
}

func (s *projectService) load(ctx context.Context, projects repository.ProjectRepository, actor model.Actor, id int64) (*model.Project, error) {
	project, err := projects.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	if project == nil {
		return nil, projectNotFound(id)
	}
	if !actor.CanAccess(project.UserID) {
		return nil, ErrForbidden
	}
	return project, nil
}

// checkOwner fails unless ownerID names an existing user the actor may act for
func (s *projectService) checkOwner(ctx context.Context, users repository.UserRepository, actor model.Actor, ownerID int64) error {
	owner, err := users.FindByID(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("failed to find project owner: %w", err)
	}
	if owner == nil {
		return ownerNotFound(ownerID)
	}
	if !actor.CanAccess(owner.ID) {
		return ErrForbidden
	}
	return nil
}

func (s *projectService) apply(ctx context.Context, tx repository.Store, actor model.Actor, current *model.Project, req model.ProjectRequest) (*model.Project, error) {
	ownerID := req.UserID
	if ownerID == 0 {
		ownerID = current.UserID
	}
	if err := s.checkOwner(ctx, tx.Users(), actor, ownerID); err != nil {
		return nil, err
	}

	other, err := tx.Projects().FindByOwnerAndName(ctx, ownerID, req.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to check project name: %w", err)
	}
	if other != nil && other.ID != current.ID {
		return nil, projectNameTaken(req.Name)
	}

	current.Name = req.Name
	current.Description = req.Description
	current.UserID = ownerID

	if err := tx.Projects().Update(ctx, current); err != nil {
		return nil, s.persistError(err, req.Name, ownerID, "update")
	}
	return current, nil
}

// persistError classifies constraint failures raised while writing a project
func (s *projectService) persistError(err error, name string, ownerID int64, op string) error {
	switch {
	case errors.Is(err, repository.ErrUniqueViolation):
		return projectNameTaken(name)
	case errors.Is(err, repository.ErrForeignKeyViolation):
		return ownerNotFound(ownerID)
	}
	return fmt.Errorf("failed to %s project in repo: %w", op, err)
}

func projectNameTaken(name string) error {
	return &EntityAlreadyExistsError{Message: fmt.Sprintf("There is already a project called \"%s\".", name)}
}
