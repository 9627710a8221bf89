package usecase

import (
	"context"
	"time"

	"github.com/allisson/keywhiz/internal/metrics"
	secretsDomain "github.com/allisson/keywhiz/internal/secrets/domain"
)

// secretUseCaseWithMetrics decorates SecretUseCase with metrics instrumentation.
type secretUseCaseWithMetrics struct {
	next    SecretUseCase
	metrics metrics.BusinessMetrics
}

// NewSecretUseCaseWithMetrics wraps a SecretUseCase with metrics recording.
func NewSecretUseCaseWithMetrics(useCase SecretUseCase, m metrics.BusinessMetrics) SecretUseCase {
	return &secretUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (s *secretUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "secrets", operation, status)
	s.metrics.RecordDuration(ctx, "secrets", operation, time.Since(start), status)
}

func (s *secretUseCaseWithMetrics) Create(
	ctx context.Context,
	input CreateSecretInput,
) (*secretsDomain.Secret, error) {
	start := time.Now()
	secret, err := s.next.Create(ctx, input)
	s.record(ctx, "secret_create", start, err)
	return secret, err
}

func (s *secretUseCaseWithMetrics) Get(ctx context.Context, name string) (*secretsDomain.Secret, error) {
	start := time.Now()
	secret, err := s.next.Get(ctx, name)
	s.record(ctx, "secret_get", start, err)
	return secret, err
}

func (s *secretUseCaseWithMetrics) GetVersion(
	ctx context.Context,
	name, version string,
) (*secretsDomain.Secret, error) {
	start := time.Now()
	secret, err := s.next.GetVersion(ctx, name, version)
	s.record(ctx, "secret_get_version", start, err)
	return secret, err
}

func (s *secretUseCaseWithMetrics) GetByID(ctx context.Context, seriesID int64) (*secretsDomain.Secret, error) {
	start := time.Now()
	secret, err := s.next.GetByID(ctx, seriesID)
	s.record(ctx, "secret_get_by_id", start, err)
	return secret, err
}

func (s *secretUseCaseWithMetrics) GetVersionByID(
	ctx context.Context,
	seriesID int64,
	version string,
) (*secretsDomain.Secret, error) {
	start := time.Now()
	secret, err := s.next.GetVersionByID(ctx, seriesID, version)
	s.record(ctx, "secret_get_version_by_id", start, err)
	return secret, err
}

func (s *secretUseCaseWithMetrics) ListByID(
	ctx context.Context,
	seriesID int64,
) ([]*secretsDomain.Secret, error) {
	start := time.Now()
	result, err := s.next.ListByID(ctx, seriesID)
	s.record(ctx, "secret_list_by_id", start, err)
	return result, err
}

func (s *secretUseCaseWithMetrics) List(ctx context.Context) ([]secretsDomain.SanitizedSecret, error) {
	start := time.Now()
	result, err := s.next.List(ctx)
	s.record(ctx, "secret_list", start, err)
	return result, err
}

func (s *secretUseCaseWithMetrics) ListAll(ctx context.Context) ([]secretsDomain.SanitizedSecret, error) {
	start := time.Now()
	result, err := s.next.ListAll(ctx)
	s.record(ctx, "secret_list_all", start, err)
	return result, err
}

func (s *secretUseCaseWithMetrics) ListVersions(ctx context.Context, name string) ([]string, error) {
	start := time.Now()
	versions, err := s.next.ListVersions(ctx, name)
	s.record(ctx, "secret_list_versions", start, err)
	return versions, err
}

func (s *secretUseCaseWithMetrics) Delete(ctx context.Context, name string) error {
	start := time.Now()
	err := s.next.Delete(ctx, name)
	s.record(ctx, "secret_delete", start, err)
	return err
}

func (s *secretUseCaseWithMetrics) DeleteVersion(ctx context.Context, name, version string) error {
	start := time.Now()
	err := s.next.DeleteVersion(ctx, name, version)
	s.record(ctx, "secret_delete_version", start, err)
	return err
}
