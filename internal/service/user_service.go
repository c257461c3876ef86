package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/labtrack/backend/internal/store"
)

// Account operation failures the HTTP layer maps to client errors.
var (
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidInput       = errors.New("invalid input")
)

const minPasswordLength = 6

// UserService manages account registration and credential checks.
type UserService struct {
	store  store.Store
	logger zerolog.Logger
}

// NewUserService creates a user service.
func NewUserService(s store.Store, logger zerolog.Logger) *UserService {
	return &UserService{store: s, logger: logger}
}

// Register creates a new account. Emails are stored lowercase and must
// be unique.
func (s *UserService) Register(ctx context.Context, email, name, password string) (*store.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)

	switch {
	case email == "" || !strings.Contains(email, "@"):
		return nil, ErrInvalidInput
	case name == "":
		return nil, ErrInvalidInput
	case len(password) < minPasswordLength:
		return nil, ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &store.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.logger.Info().Str("userId", user.ID).Msg("user registered")
	return user, nil
}

// Login checks credentials and returns the account. The same error is
// returned for an unknown email and a wrong password.
func (s *UserService) Login(ctx context.Context, email, password string) (*store.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
