// Package testutil holds test doubles shared by the service and router tests.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"project_tracker/internal/model"
	"project_tracker/internal/repository"
)

// MemStore is an in-memory repository.Store that enforces the same unique and
// foreign key constraints as the PostgreSQL schema. WithinTx restores the
// previous state when fn fails.
type MemStore struct {
	mu       *sync.Mutex
	state    *memState
	inTx     bool
	FailNext error // returned once by the next repository call, then cleared
}

type memState struct {
	users    map[int64]model.User
	projects map[int64]model.Project
	nextID   int64
}

func (s *memState) clone() *memState {
	c := &memState{
		users:    make(map[int64]model.User, len(s.users)),
		projects: make(map[int64]model.Project, len(s.projects)),
		nextID:   s.nextID,
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.projects {
		c.projects[k] = v
	}
	return c
}

// NewMemStore creates an empty store
func NewMemStore() *MemStore {
	return &MemStore{
		mu: &sync.Mutex{},
		state: &memState{
			users:    map[int64]model.User{},
			projects: map[int64]model.Project{},
		},
	}
}

func (s *MemStore) Users() repository.UserRepository       { return &memUsers{s} }
func (s *MemStore) Projects() repository.ProjectRepository { return &memProjects{s} }

func (s *MemStore) WithinTx(ctx context.Context, fn func(repository.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.mu.Lock()
	snapshot := s.state.clone()
	s.mu.Unlock()

	if err := fn(&MemStore{mu: s.mu, state: s.state, inTx: true, FailNext: s.takeFailure()}); err != nil {
		s.mu.Lock()
		*s.state = *snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// AddUser stores a user directly, bypassing the services
func (s *MemStore) AddUser(u model.User) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.nextID++
	u.ID = s.state.nextID
	s.state.users[u.ID] = u
	return u
}

// AddProject stores a project directly, bypassing the services
func (s *MemStore) AddProject(p model.Project) model.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.nextID++
	p.ID = s.state.nextID
	s.state.projects[p.ID] = p
	return p
}

func (s *MemStore) takeFailure() error {
	err := s.FailNext
	s.FailNext = nil
	return err
}

type memUsers struct{ s *MemStore }

func (r *memUsers) Create(ctx context.Context, user *model.User) error {
	if err := r.s.takeFailure(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.state.users {
		if u.Name == user.Name || u.Email == user.Email {
			return fmt.Errorf("%w: users", repository.ErrUniqueViolation)
		}
	}
	r.s.state.nextID++
	user.ID = r.s.state.nextID
	r.s.state.users[user.ID] = *user
	return nil
}

func (r *memUsers) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return r.find(func(u model.User) bool { return u.ID == id })
}

func (r *memUsers) FindByName(ctx context.Context, name string) (*model.User, error) {
	return r.find(func(u model.User) bool { return u.Name == name })
}

func (r *memUsers) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.find(func(u model.User) bool { return u.Email == email })
}

func (r *memUsers) FindAll(ctx context.Context) ([]model.User, error) {
	if err := r.s.takeFailure(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	users := []model.User{}
	for _, u := range r.s.state.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *memUsers) Update(ctx context.Context, user *model.User) error {
	if err := r.s.takeFailure(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.state.users[user.ID]; !ok {
		return fmt.Errorf("user %d not found for update", user.ID)
	}
	for _, u := range r.s.state.users {
		if u.ID != user.ID && (u.Name == user.Name || u.Email == user.Email) {
			return fmt.Errorf("%w: users", repository.ErrUniqueViolation)
		}
	}
	r.s.state.users[user.ID] = *user
	return nil
}

func (r *memUsers) Delete(ctx context.Context, id int64) error {
	if err := r.s.takeFailure(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.state.users[id]; !ok {
		return fmt.Errorf("user %d not found for deletion", id)
	}
	for _, p := range r.s.state.projects {
		if p.UserID == id {
			return fmt.Errorf("%w: projects_user_id_fkey", repository.ErrForeignKeyViolation)
		}
	}
	delete(r.s.state.users, id)
	return nil
}

func (r *memUsers) find(match func(model.User) bool) (*model.User, error) {
	if err := r.s.takeFailure(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.state.users {
		if match(u) {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

type memProjects struct{ s *MemStore }

func (r *memProjects) Create(ctx context.Context, p *model.Project) error {
	if err := r.s.takeFailure(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.check(p); err != nil {
		return err
	}
	r.s.state.nextID++
	p.ID = r.s.state.nextID
	r.s.state.projects[p.ID] = *p
	return nil
}

func (r *memProjects) FindByID(ctx context.Context, id int64) (*model.Project, error) {
	if err := r.s.takeFailure(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.state.projects[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (r *memProjects) FindByOwner(ctx context.Context, userID int64) ([]model.Project, error) {
	if err := r.s.takeFailure(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	projects := []model.Project{}
	for _, p := range r.s.state.projects {
		if p.UserID == userID {
			projects = append(projects, p)
		}
	}
	sort.Slice(projects, func(i, j int) bool { return projects[i].ID < projects[j].ID })
	return projects, nil
}

func (r *memProjects) FindByOwnerAndName(ctx context.Context, userID int64, name string) (*model.Project, error) {
	if err := r.s.takeFailure(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.state.projects {
		if p.UserID == userID && p.Name == name {
			found := p
			return &found, nil
		}
	}
	return nil, nil
}

func (r *memProjects) Update(ctx context.Context, p *model.Project) error {
	if err := r.s.takeFailure(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.state.projects[p.ID]; !ok {
		return fmt.Errorf("project %d not found for update", p.ID)
	}
	if err := r.check(p); err != nil {
		return err
	}
	r.s.state.projects[p.ID] = *p
	return nil
}

func (r *memProjects) Delete(ctx context.Context, id int64) error {
	if err := r.s.takeFailure(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.state.projects[id]; !ok {
		return fmt.Errorf("project %d not found for deletion", id)
	}
	delete(r.s.state.projects, id)
	return nil
}

// check enforces UNIQUE (user_id, name) and the owner foreign key
func (r *memProjects) check(p *model.Project) error {
	if _, ok := r.s.state.users[p.UserID]; !ok {
		return fmt.Errorf("%w: projects_user_id_fkey", repository.ErrForeignKeyViolation)
	}
	for _, other := range r.s.state.projects {
		if other.ID != p.ID && other.UserID == p.UserID && other.Name == p.Name {
			return fmt.Errorf("%w: projects_user_id_name_key", repository.ErrUniqueViolation)
		}
	}
	return nil
}
