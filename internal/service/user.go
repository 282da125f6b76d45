package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/castleviz/castleviz/internal/auth"
	"github.com/castleviz/castleviz/internal/events"
	"github.com/castleviz/castleviz/internal/metrics"
	"github.com/castleviz/castleviz/internal/model"
	"github.com/castleviz/castleviz/internal/repository"
)

// UserInput holds the client-supplied fields of a user.
type UserInput struct {
	Name     string
	Email    string
	Password string
}

func (in UserInput) validate() error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return invalidInput("name is required")
	case strings.TrimSpace(in.Email) == "":
		return invalidInput("email is required")
	case in.Password == "":
		return invalidInput("password is required")
	}
	return nil
}

// UserService handles user business logic.
type UserService struct {
	store    UserStore
	hasher   *auth.Hasher
	notifier mutationNotifier
}

// NewUserService creates a new UserService. A nil hasher uses auth.DefaultParams.
func NewUserService(store UserStore, hasher *auth.Hasher, recorder metrics.Recorder, publisher events.Publisher) *UserService {
	if hasher == nil {
		hasher = auth.NewHasher(auth.DefaultParams)
	}
	return &UserService{
		store:    store,
		hasher:   hasher,
		notifier: newMutationNotifier("user", recorder, publisher),
	}
}

// Create stores a new user with a hashed password.
func (s *UserService) Create(ctx context.Context, in UserInput) (*model.User, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:       uuid.New(),
		Name:     in.Name,
		Email:    in.Email,
		Password: hash,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.notifier.notify(events.ActionCreated, user.ID, uuid.Nil)
	return user, nil
}

// Get retrieves a user by ID.
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// List returns users ordered by name.
func (s *UserService) List(ctx context.Context, skip, limit int) ([]*model.User, error) {
	if err := checkWindow(skip, limit); err != nil {
		return nil, err
	}
	return s.store.ListUsers(ctx, skip, limit)
}

// GetByEmail returns the first user with the email, or nil when there is none.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// Update replaces every client field of the user. The password is re-hashed.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, in UserInput) (*model.User, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{ID: id, Name: in.Name, Email: in.Email, Password: hash}
	if err := s.store.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	s.notifier.notify(events.ActionUpdated, user.ID, uuid.Nil)
	return user, nil
}
