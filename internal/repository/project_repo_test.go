package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"project_tracker/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var projectCols = []string{"id", "name", "description", "user_id", "created_at", "updated_at"}

func TestProjectRepository_Create(t *testing.T) {
	mock := newMock(t)
	repo := NewProjectRepository(mock)
	now := time.Now()
	p := &model.Project{Name: "p1", Description: "first", UserID: 1, CreatedAt: now, UpdatedAt: now}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO projects")).
		WithArgs("p1", "first", int64(1), now, now).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(10), now, now))

	require.NoError(t, repo.Create(context.Background(), p))
	assert.Equal(t, int64(10), p.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_Create_MissingOwner(t *testing.T) {
	mock := newMock(t)
	repo := NewProjectRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO projects")).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	err := repo.Create(context.Background(), &model.Project{Name: "p1", UserID: 99})
	assert.ErrorIs(t, err, ErrForeignKeyViolation)
}

func TestProjectRepository_FindByOwner(t *testing.T) {
	mock := newMock(t)
	repo := NewProjectRepository(mock)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM projects WHERE user_id = $1 ORDER BY id")).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows(projectCols).
			AddRow(int64(1), "p1", "", int64(1), now, now).
			AddRow(int64(3), "p2", "second", int64(1), now, now))

	projects, err := repo.FindByOwner(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	for _, p := range projects {
		assert.Equal(t, int64(1), p.UserID)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_FindByOwner_Empty(t *testing.T) {
	mock := newMock(t)
	repo := NewProjectRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("FROM projects WHERE user_id = $1")).
		WithArgs(int64(2)).
		WillReturnRows(pgxmock.NewRows(projectCols))

	projects, err := repo.FindByOwner(context.Background(), 2)
	require.NoError(t, err)
	assert.NotNil(t, projects)
	assert.Empty(t, projects)
}

func TestProjectRepository_FindByOwnerAndName_NotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewProjectRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE user_id = $1 AND name = $2")).
		WithArgs(int64(1), "p1").
		WillReturnError(pgx.ErrNoRows)

	p, err := repo.FindByOwnerAndName(context.Background(), 1, "p1")
	assert.NoError(t, err)
	assert.Nil(t, p)
}

func TestProjectRepository_Update_NotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewProjectRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE projects")).
		WithArgs("p1", "", int64(1), int64(8)).
		WillReturnError(pgx.ErrNoRows)

	err := repo.Update(context.Background(), &model.Project{ID: 8, Name: "p1", UserID: 1})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_Delete(t *testing.T) {
	mock := newMock(t)
	repo := NewProjectRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM projects WHERE id = $1")).
		WithArgs(int64(4)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	assert.NoError(t, repo.Delete(context.Background(), 4))
	assert.NoError(t, mock.ExpectationsWereMet())
}
