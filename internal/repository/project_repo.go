package repository

import (
	"context"
	"errors"
	"fmt"

	"project_tracker/internal/model"

	"github.com/jackc/pgx/v5"
)

// ProjectRepository defines operations for project data
type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	FindByID(ctx context.Context, id int64) (*model.Project, error)
	FindByOwner(ctx context.Context, userID int64) ([]model.Project, error)
	FindByOwnerAndName(ctx context.Context, userID int64, name string) (*model.Project, error)
	Update(ctx context.Context, project *model.Project) error
	Delete(ctx context.Context, id int64) error
}

type projectRepository struct {
	db DBTX
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db DBTX) ProjectRepository {
	return &projectRepository{db: db}
}

const projectColumns = `id, name, description, user_id, created_at, updated_at`

// Create inserts a new project into the database
func (r *projectRepository) Create(ctx context.Context, p *model.Project) error {
	sql := `INSERT INTO projects (name, description, user_id, created_at, updated_at)
            VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, sql, p.Name, p.Description, p.UserID, p.CreatedAt, p.UpdatedAt).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if cErr := constraintError(err); cErr != nil {
			return cErr
		}
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

// FindByID retrieves a project by its ID
func (r *projectRepository) FindByID(ctx context.Context, id int64) (*model.Project, error) {
	p := &model.Project{}
	sql := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	err := r.db.QueryRow(ctx, sql, id).Scan(&p.ID, &p.Name, &p.Description, &p.UserID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to find project by ID: %w", err)
	}
	return p, nil
}

// FindByOwner lists the projects owned by a user
func (r *projectRepository) FindByOwner(ctx context.Context, userID int64) ([]model.Project, error) {
	sql := `SELECT ` + projectColumns + ` FROM projects WHERE user_id = $1 ORDER BY id`
	rows, err := r.db.Query(ctx, sql, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects by owner: %w", err)
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.UserID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project row: %w", err)
		}
		projects = append(projects, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}
	return projects, nil
}

// FindByOwnerAndName looks up a project by name within one owner's projects
func (r *projectRepository) FindByOwnerAndName(ctx context.Context, userID int64, name string) (*model.Project, error) {
	p := &model.Project{}
	sql := `SELECT ` + projectColumns + ` FROM projects WHERE user_id = $1 AND name = $2`
	err := r.db.QueryRow(ctx, sql, userID, name).Scan(&p.ID, &p.Name, &p.Description, &p.UserID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find project by owner and name: %w", err)
	}
	return p, nil
}

// Update modifies an existing project
func (r *projectRepository) Update(ctx context.Context, p *model.Project) error {
	sql := `UPDATE projects
            SET name = $1, description = $2, user_id = $3, updated_at = NOW()
            WHERE id = $4 RETURNING updated_at`
	err := r.db.QueryRow(ctx, sql, p.Name, p.Description, p.UserID, p.ID).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("project %d not found for update", p.ID)
		}
		if cErr := constraintError(err); cErr != nil {
			return cErr
		}
		return fmt.Errorf("failed to update project: %w", err)
	}
	return nil
}

// Delete removes a project from the database
func (r *projectRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		if cErr := constraintError(err); cErr != nil {
			return cErr
		}
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("project %d not found for deletion", id)
	}
	return nil
}
