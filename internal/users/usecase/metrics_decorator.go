package usecase

import (
	"context"
	"time"

	aclDomain "github.com/allisson/keywhiz/internal/acl/domain"
	"github.com/allisson/keywhiz/internal/metrics"
	usersDomain "github.com/allisson/keywhiz/internal/users/domain"
)

// userUseCaseWithMetrics decorates UserUseCase with metrics instrumentation.
type userUseCaseWithMetrics struct {
	next    UserUseCase
	metrics metrics.BusinessMetrics
}

// NewUserUseCaseWithMetrics wraps a UserUseCase with metrics recording.
func NewUserUseCaseWithMetrics(useCase UserUseCase, m metrics.BusinessMetrics) UserUseCase {
	return &userUseCaseWithMetrics{next: useCase, metrics: m}
}

func (u *userUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	u.metrics.RecordOperation(ctx, "users", operation, status)
	u.metrics.RecordDuration(ctx, "users", operation, time.Since(start), status)
}

func (u *userUseCaseWithMetrics) Register(
	ctx context.Context,
	input RegisterUserInput,
) (*usersDomain.User, error) {
	start := time.Now()
	user, err := u.next.Register(ctx, input)
	u.record(ctx, "user_register", start, err)
	return user, err
}

func (u *userUseCaseWithMetrics) Get(ctx context.Context, username string) (*usersDomain.User, error) {
	start := time.Now()
	user, err := u.next.Get(ctx, username)
	u.record(ctx, "user_get", start, err)
	return user, err
}

func (u *userUseCaseWithMetrics) List(ctx context.Context) ([]*usersDomain.User, error) {
	start := time.Now()
	users, err := u.next.List(ctx)
	u.record(ctx, "user_list", start, err)
	return users, err
}

func (u *userUseCaseWithMetrics) Delete(ctx context.Context, username string) error {
	start := time.Now()
	err := u.next.Delete(ctx, username)
	u.record(ctx, "user_delete", start, err)
	return err
}

func (u *userUseCaseWithMetrics) Login(
	ctx context.Context,
	username, password string,
) (*aclDomain.OperatorUser, error) {
	start := time.Now()
	principal, err := u.next.Login(ctx, username, password)
	u.record(ctx, "user_login", start, err)
	return principal, err
}
