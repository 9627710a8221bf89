package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/keywhiz/internal/errors"
)

// recordingMetrics captures operation records for assertions.
type recordingMetrics struct {
	mu         sync.Mutex
	operations map[string]string
	durations  map[string]string
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{
		operations: make(map[string]string),
		durations:  make(map[string]string),
	}
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
	r.mu.Lock()
	defer r.mu.Unlock()
	r.durations[domain+"/"+operation] = status
}

func TestSecretUseCaseWithMetrics(t *testing.T) {
	recorder := newRecordingMetrics()
	uc := NewSecretUseCaseWithMetrics(newTestUseCase(t), recorder)
	ctx := context.Background()

	secret, err := uc.Create(ctx, validInput())
	require.NoError(t, err)
	assert.Equal(t, "DB_Pass", secret.Series.Name)
	assert.Equal(t, "success", recorder.operations["secrets/secret_create"])
	assert.Equal(t, "success", recorder.durations["secrets/secret_create"])

	_, err = uc.Get(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, "error", recorder.operations["secrets/secret_get"])

	_, err = uc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "success", recorder.operations["secrets/secret_list"])
}
