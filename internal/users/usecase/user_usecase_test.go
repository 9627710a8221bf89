package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/keywhiz/internal/errors"
	usersDomain "github.com/allisson/keywhiz/internal/users/domain"
	usersRepository "github.com/allisson/keywhiz/internal/users/repository"
)

func newTestUseCase(t *testing.T) UserUseCase {
	t.Helper()
	uc, err := NewUserUseCase(usersRepository.NewMemoryUserRepository())
	require.NoError(t, err)
	return uc
}

func validInput() RegisterUserInput {
	return RegisterUserInput{
		Username: "operator",
		Email:    "operator@example.com",
		Password: "SecurePass123!",
	}
}

func TestUserUseCase_Register(t *testing.T) {
	uc := newTestUseCase(t)
	ctx := context.Background()

	user, err := uc.Register(ctx, validInput())
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, "operator", user.Username)
	assert.Equal(t, "operator@example.com", user.Email)
	assert.NotEqual(t, "SecurePass123!", user.HashedPassword)
	assert.NotEmpty(t, user.HashedPassword)
}

func TestUserUseCase_Register_Validation(t *testing.T) {
	uc := newTestUseCase(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*RegisterUserInput)
	}{
		{"empty username", func(i *RegisterUserInput) { i.Username = "" }},
		{"blank username", func(i *RegisterUserInput) { i.Username = "   " }},
		{"invalid email", func(i *RegisterUserInput) { i.Email = "not-an-email" }},
		{"short password", func(i *RegisterUserInput) { i.Password = "Ab1!" }},
		{"weak password", func(i *RegisterUserInput) { i.Password = "alllowercase" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput()
			tc.mutate(&input)
			_, err := uc.Register(ctx, input)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}
}

func TestUserUseCase_Register_Duplicate(t *testing.T) {
	uc := newTestUseCase(t)
	ctx := context.Background()

	_, err := uc.Register(ctx, validInput())
	require.NoError(t, err)

	_, err = uc.Register(ctx, validInput())
	assert.ErrorIs(t, err, usersDomain.ErrUserExists)
}

func TestUserUseCase_Login(t *testing.T) {
	uc := newTestUseCase(t)
	ctx := context.Background()

	_, err := uc.Register(ctx, validInput())
	require.NoError(t, err)

	principal, err := uc.Login(ctx, "operator", "SecurePass123!")
	require.NoError(t, err)
	assert.Equal(t, "operator", principal.PrincipalName())
	assert.False(t, principal.IsAutomation())

	// Bad password and unknown user produce the same error.
	_, err = uc.Login(ctx, "operator", "WrongPass123!")
	assert.ErrorIs(t, err, usersDomain.ErrInvalidCredentials)

	_, err = uc.Login(ctx, "ghost", "SecurePass123!")
	assert.ErrorIs(t, err, usersDomain.ErrInvalidCredentials)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestUserUseCase_Delete(t *testing.T) {
	uc := newTestUseCase(t)
	ctx := context.Background()

	_, err := uc.Register(ctx, validInput())
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, "operator"))

	_, err = uc.Get(ctx, "operator")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	err = uc.Delete(ctx, "operator")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// recordingMetrics captures operation records for assertions.
type recordingMetrics struct {
	mu         sync.Mutex
	operations map[string]string
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{operations: make(map[string]string)}
}

func (r *recordingMetrics) RecordOperation(_ context.Context, domain, operation, status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.operations[domain+"/"+operation] = status
}

func (r *recordingMetrics) RecordDuration(
	_ context.Context,
	domain, operation string,
	_ time.Duration,
	status string,
) {
}

func TestUserUseCaseWithMetrics(t *testing.T) {
	recorder := newRecordingMetrics()
	uc := NewUserUseCaseWithMetrics(newTestUseCase(t), recorder)
	ctx := context.Background()

	_, err := uc.Register(ctx, validInput())
	require.NoError(t, err)
	assert.Equal(t, "success", recorder.operations["users/user_register"])

	_, err = uc.Login(ctx, "operator", "nope")
	require.Error(t, err)
	assert.Equal(t, "error", recorder.operations["users/user_login"])
}
