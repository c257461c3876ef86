package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labtrack/backend/internal/store"
)

func newTestUserService() *UserService {
	return NewUserService(store.NewMemoryStore(), zerolog.Nop())
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestUserService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "Jane@Example.com", "Jane", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.NotEqual(t, "secret123", user.PasswordHash)

	logged, err := svc.Login(ctx, "jane@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestUserService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "jane@example.com", "Jane", "secret123")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "JANE@EXAMPLE.COM", "Impostor", "other-secret")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestUserService()
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		userName string
		password string
	}{
		{"empty email", "", "Jane", "secret123"},
		{"email without at sign", "janeexample.com", "Jane", "secret123"},
		{"empty name", "jane@example.com", "", "secret123"},
		{"short password", "jane@example.com", "Jane", "12345"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.email, tt.userName, tt.password)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestUserService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "jane@example.com", "Jane", "secret123")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "jane@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newTestUserService()

	// Same error as a wrong password, so responses don't reveal which
	// emails are registered.
	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
