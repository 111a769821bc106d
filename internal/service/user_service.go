package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"project_tracker/internal/model"
	"project_tracker/internal/patch"
	"project_tracker/internal/repository"
)

// userFields lists the user properties a PATCH body may name
var userFields = patch.Fields[model.UserUpdateRequest]{
	"name":     patch.Field(func(r *model.UserUpdateRequest, v string) { r.Name = v }),
	"email":    patch.Field(func(r *model.UserUpdateRequest, v string) { r.Email = v }),
	"password": patch.Field(func(r *model.UserUpdateRequest, v string) { r.Password = v }),
	"role":     patch.Field(func(r *model.UserUpdateRequest, v string) { r.Role = v }),
}

// UserService provides registration, login and account maintenance
type UserService interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error)
	CheckLogin(ctx context.Context, name, password string) (*model.AuthResponse, error)
	List(ctx context.Context, actor model.Actor) ([]model.User, error)
	Find(ctx context.Context, actor model.Actor, id int64) (*model.User, error)
	Update(ctx context.Context, actor model.Actor, id int64, req model.UserUpdateRequest) (*model.User, error)
	UpdatePartial(ctx context.Context, actor model.Actor, id int64, changes map[string]json.RawMessage) (*model.User, error)
	Delete(ctx context.Context, actor model.Actor, id int64) error
}

type userService struct {
	store            repository.Store
	hasher           PasswordHasher
	tokens           TokenIssuer
	validator        StructValidator
	initialAdminName string
}

// NewUserService creates a new UserService. A user registering with initialAdminName gets the ADMIN role.
func NewUserService(store repository.Store, hasher PasswordHasher, tokens TokenIssuer, validator StructValidator, initialAdminName string) UserService {
	return &userService{
		store:            store,
		hasher:           hasher,
		tokens:           tokens,
		validator:        validator,
		initialAdminName: initialAdminName,
	}
}

// Register creates a new user account. Name uniqueness is checked before email uniqueness.
func (s *userService) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	var resp *model.AuthResponse
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		users := tx.Users()

		existing, err := users.FindByName(ctx, req.Name)
		if err != nil {
			return fmt.Errorf("failed to check existing user name: %w", err)
		}
		if existing != nil {
			return nameUnavailable(req.Name)
		}

		existing, err = users.FindByEmail(ctx, req.Email)
		if err != nil {
			return fmt.Errorf("failed to check existing user email: %w", err)
		}
		if existing != nil {
			return emailUnavailable(req.Email)
		}

		hashedPassword, err := s.hasher.Hash(req.Password)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		role := model.RoleUser
		if s.initialAdminName != "" && req.Name == s.initialAdminName {
			role = model.RoleAdmin
			log.Printf("INFO: User %s is being registered as ADMIN via INITIAL_ADMIN_NAME.", req.Name)
		}

		now := time.Now()
		user := &model.User{
			Name:         req.Name,
			Email:        req.Email,
			PasswordHash: hashedPassword,
			Role:         role,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := users.Create(ctx, user); err != nil {
			if errors.Is(err, repository.ErrUniqueViolation) {
				return nameUnavailable(req.Name)
			}
			return fmt.Errorf("failed to create user in repository: %w", err)
		}

		token, err := s.tokens.GenerateToken(user.ID, user.Role)
		if err != nil {
			return fmt.Errorf("failed to generate token: %w", err)
		}
		resp = &model.AuthResponse{User: user, Token: token}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// CheckLogin verifies a user's credentials and issues a fresh token
func (s *userService) CheckLogin(ctx context.Context, name, password string) (*model.AuthResponse, error) {
	user, err := s.store.Users().FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("error finding user by name: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if !s.hasher.Matches(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &model.AuthResponse{User: user, Token: token}, nil
}

func (s *userService) List(ctx context.Context, actor model.Actor) ([]model.User, error) {
	if !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	users, err := s.store.Users().FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *userService) Find(ctx context.Context, actor model.Actor, id int64) (*model.User, error) {
	return s.load(ctx, s.store.Users(), actor, id)
}

// Update replaces every field of the user except its ID
func (s *userService) Update(ctx context.Context, actor model.Actor, id int64, req model.UserUpdateRequest) (*model.User, error) {
	var updated *model.User
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		current, err := s.load(ctx, tx.Users(), actor, id)
		if err != nil {
			return err
		}
		updated, err = s.apply(ctx, tx.Users(), actor, current, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdatePartial changes only the fields named in changes
func (s *userService) UpdatePartial(ctx context.Context, actor model.Actor, id int64, changes map[string]json.RawMessage) (*model.User, error) {
	var updated *model.User
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		current, err := s.load(ctx, tx.Users(), actor, id)
		if err != nil {
			return err
		}

		req := model.UserUpdateRequest{Name: current.Name, Email: current.Email, Role: current.Role}
		if err := patch.Apply(&req, userFields, changes); err != nil {
			return err
		}
		if err := s.validator.ValidateStruct(&req); err != nil {
			return err
		}

		updated, err = s.apply(ctx, tx.Users(), actor, current, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a user that no project references
func (s *userService) Delete(ctx context.Context, actor model.Actor, id int64) error {
	return s.store.WithinTx(ctx, func(tx repository.Store) error {
		if _, err := s.load(ctx, tx.Users(), actor, id); err != nil {
			return err
		}
		if err := tx.Users().Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrForeignKeyViolation) {
				return &EntityInUseError{
					Message: fmt.Sprintf("User with id %d cannot be deleted as it is in use.", id),
					Err:     err,
				}
			}
			return fmt.Errorf("failed to delete user in repository: %w", err)
		}
		return nil
	})
}

func (s *userService) load(ctx context.Context, users repository.UserRepository, actor model.Actor, id int64) (*model.User, error) {
	user, err := users.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, userNotFound(id)
	}
	if !actor.CanAccess(user.ID) {
		return nil, ErrForbidden
	}
	return user, nil
}

func (s *userService) apply(ctx context.Context, users repository.UserRepository, actor model.Actor, current *model.User, req model.UserUpdateRequest) (*model.User, error) {
	if req.Name != current.Name {
		other, err := users.FindByName(ctx, req.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to check user name: %w", err)
		}
		if other != nil && other.ID != current.ID {
			return nil, nameUnavailable(req.Name)
		}
	}
	if req.Email != current.Email {
		other, err := users.FindByEmail(ctx, req.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to check user email: %w", err)
		}
		if other != nil && other.ID != current.ID {
			return nil, emailUnavailable(req.Email)
		}
	}
	if req.Role != "" && req.Role != current.Role {
		if !actor.IsAdmin() {
			return nil, ErrForbidden
		}
		current.Role = req.Role
	}
	if req.Password != "" {
		hashedPassword, err := s.hasher.Hash(req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		current.PasswordHash = hashedPassword
	}
	current.Name = req.Name
	current.Email = req.Email

	if err := users.Update(ctx, current); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil, nameUnavailable(req.Name)
		}
		return nil, fmt.Errorf("failed to update user in repository: %w", err)
	}
	return current, nil
}

func nameUnavailable(name string) error {
	return &EntityAlreadyExistsError{Message: fmt.Sprintf("Name '%s' unavailable.", name)}
}

func emailUnavailable(email string) error {
	return &EntityAlreadyExistsError{Message: fmt.Sprintf("Email '%s' is already registered.", email)}
}
