package service

import (
	"context"
	"errors"
	"testing"

	"project_tracker/internal/model"
	"project_tracker/internal/patch"
	"project_tracker/internal/testutil"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type projectFixture struct {
	store *testutil.MemStore
	svc   ProjectService
	alice model.User
	bob   model.User
	admin model.User
}

func newProjectFixture(t *testing.T) *projectFixture {
	store := testutil.NewMemStore()
	return &projectFixture{
		store: store,
		svc:   NewProjectService(store, binding.Validator),
		alice: testutil.SeedUser(t, store, "alice", "a@x.com", "secret1", model.RoleUser),
		bob:   testutil.SeedUser(t, store, "bob", "b@x.com", "secret1", model.RoleUser),
		admin: testutil.SeedUser(t, store, "root", "root@x.com", "secret1", model.RoleAdmin),
	}
}

func actorOf(u model.User) model.Actor {
	return model.Actor{UserID: u.ID, Role: u.Role}
}

func TestProjectService_All_OnlyOwnersProjects(t *testing.T) {
	f := newProjectFixture(t)
	f.store.AddProject(model.Project{Name: "a1", UserID: f.alice.ID})
	f.store.AddProject(model.Project{Name: "b1", UserID: f.bob.ID})
	f.store.AddProject(model.Project{Name: "a2", UserID: f.alice.ID})

	for _, owner := range []model.User{f.alice, f.bob, f.admin} {
		projects, err := f.svc.All(context.Background(), actorOf(f.admin), owner.ID)
		require.NoError(t, err)
		for _, p := range projects {
			assert.Equal(t, owner.ID, p.UserID)
		}
	}

	projects, err := f.svc.All(context.Background(), actorOf(f.alice), f.alice.ID)
	require.NoError(t, err)
	assert.Len(t, projects, 2)
}

func TestProjectService_All_UnknownOwner(t *testing.T) {
	f := newProjectFixture(t)

	_, err := f.svc.All(context.Background(), actorOf(f.admin), 404)

	var notFound *EntityNotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestProjectService_All_OtherUserForbidden(t *testing.T) {
	f := newProjectFixture(t)

	_, err := f.svc.All(context.Background(), actorOf(f.bob), f.alice.ID)

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestProjectService_Add_NameUniquePerOwner(t *testing.T) {
	f := newProjectFixture(t)
	ctx := context.Background()

	p, err := f.svc.Add(ctx, actorOf(f.alice), model.ProjectRequest{Name: "p1", UserID: f.alice.ID})
	require.NoError(t, err)
	assert.Equal(t, f.alice.ID, p.UserID)
	assert.NotZero(t, p.ID)

	_, err = f.svc.Add(ctx, actorOf(f.alice), model.ProjectRequest{Name: "p1", UserID: f.alice.ID})
	var exists *EntityAlreadyExistsError
	require.True(t, errors.As(err, &exists))
	assert.Equal(t, `There is already a project called "p1".`, exists.Message)

	p, err = f.svc.Add(ctx, actorOf(f.bob), model.ProjectRequest{Name: "p1", UserID: f.bob.ID})
	require.NoError(t, err)
	assert.Equal(t, f.bob.ID, p.UserID)
}

func TestProjectService_Add_DefaultsOwnerToActor(t *testing.T) {
	f := newProjectFixture(t)

	p, err := f.svc.Add(context.Background(), actorOf(f.bob), model.ProjectRequest{Name: "mine"})

	require.NoError(t, err)
	assert.Equal(t, f.bob.ID, p.UserID)
}

func TestProjectService_Add_UnknownOwner(t *testing.T) {
	f := newProjectFixture(t)

	_, err := f.svc.Add(context.Background(), actorOf(f.admin), model.ProjectRequest{Name: "p1", UserID: 404})

	var refErr *ReferenceNotFoundError
	assert.True(t, errors.As(err, &refErr))
}

func TestProjectService_Add_ForOtherUserForbidden(t *testing.T) {
	f := newProjectFixture(t)

	_, err := f.svc.Add(context.Background(), actorOf(f.bob), model.ProjectRequest{Name: "p1", UserID: f.alice.ID})

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestProjectService_Update(t *testing.T) {
	f := newProjectFixture(t)
	p := f.store.AddProject(model.Project{Name: "p1", Description: "old", UserID: f.alice.ID})
	f.store.AddProject(model.Project{Name: "p2", UserID: f.alice.ID})
	ctx := context.Background()

	updated, err := f.svc.Update(ctx, actorOf(f.alice), p.ID, model.ProjectRequest{Name: "p1-renamed", Description: "new"})
	require.NoError(t, err)
	assert.Equal(t, "p1-renamed", updated.Name)
	assert.Equal(t, "new", updated.Description)
	assert.Equal(t, f.alice.ID, updated.UserID)

	// Keeping its own name is not a clash
	_, err = f.svc.Update(ctx, actorOf(f.alice), p.ID, model.ProjectRequest{Name: "p1-renamed"})
	assert.NoError(t, err)

	_, err = f.svc.Update(ctx, actorOf(f.alice), p.ID, model.ProjectRequest{Name: "p2"})
	var exists *EntityAlreadyExistsError
	assert.True(t, errors.As(err, &exists))
}

func TestProjectService_Update_UnknownOwnerKeepsStoredOwner(t *testing.T) {
	f := newProjectFixture(t)
	p := f.store.AddProject(model.Project{Name: "p1", UserID: f.alice.ID})
	ctx := context.Background()

	_, err := f.svc.Update(ctx, actorOf(f.admin), p.ID, model.ProjectRequest{Name: "p1", UserID: 404})

	var refErr *ReferenceNotFoundError
	require.True(t, errors.As(err, &refErr))

	stored, err := f.svc.Find(ctx, actorOf(f.admin), p.ID)
	require.NoError(t, err)
	assert.Equal(t, f.alice.ID, stored.UserID)
}

func TestProjectService_Update_NotFound(t *testing.T) {
	f := newProjectFixture(t)

	_, err := f.svc.Update(context.Background(), actorOf(f.admin), 404, model.ProjectRequest{Name: "p1"})

	var notFound *EntityNotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestProjectService_UpdatePartial_ChangesOnlyNamedFields(t *testing.T) {
	f := newProjectFixture(t)
	p := f.store.AddProject(model.Project{Name: "p1", Description: "keep me", UserID: f.alice.ID})

	updated, err := f.svc.UpdatePartial(context.Background(), actorOf(f.alice), p.ID, rawChanges(t, `{"name":"p1-new"}`))

	require.NoError(t, err)
	expected := p
	expected.Name = "p1-new"
	assert.Equal(t, expected, *updated)
}

func TestProjectService_UpdatePartial_UnknownPropertyNoMutation(t *testing.T) {
	f := newProjectFixture(t)
	p := f.store.AddProject(model.Project{Name: "p1", Description: "keep me", UserID: f.alice.ID})
	ctx := context.Background()

	_, err := f.svc.UpdatePartial(ctx, actorOf(f.alice), p.ID, rawChanges(t, `{"name":"p1-new","owner":3}`))

	var notExist *patch.PropertyNotExistError
	require.True(t, errors.As(err, &notExist))
	assert.Equal(t, "owner", notExist.Property)

	stored, err := f.svc.Find(ctx, actorOf(f.alice), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, *stored)
}

func TestProjectService_UpdatePartial_InvalidValue(t *testing.T) {
	f := newProjectFixture(t)
	p := f.store.AddProject(model.Project{Name: "p1", UserID: f.alice.ID})

	_, err := f.svc.UpdatePartial(context.Background(), actorOf(f.alice), p.ID, rawChanges(t, `{"userId":"two"}`))

	var invalid *patch.InvalidValueError
	assert.True(t, errors.As(err, &invalid))
}

func TestProjectService_UpdatePartial_MoveToUnknownOwner(t *testing.T) {
	f := newProjectFixture(t)
	p := f.store.AddProject(model.Project{Name: "p1", UserID: f.alice.ID})

	_, err := f.svc.UpdatePartial(context.Background(), actorOf(f.admin), p.ID, rawChanges(t, `{"userId":404}`))

	var refErr *ReferenceNotFoundError
	assert.True(t, errors.As(err, &refErr))
}

func TestProjectService_Delete(t *testing.T) {
	f := newProjectFixture(t)
	p := f.store.AddProject(model.Project{Name: "p1", UserID: f.alice.ID})
	ctx := context.Background()

	require.NoError(t, f.svc.Delete(ctx, actorOf(f.alice), p.ID))

	_, err := f.svc.Find(ctx, actorOf(f.alice), p.ID)
	var notFound *EntityNotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestProjectService_Delete_OtherUserForbidden(t *testing.T) {
	f := newProjectFixture(t)
	p := f.store.AddProject(model.Project{Name: "p1", UserID: f.alice.ID})

	err := f.svc.Delete(context.Background(), actorOf(f.bob), p.ID)

	assert.ErrorIs(t, err, ErrForbidden)
}
