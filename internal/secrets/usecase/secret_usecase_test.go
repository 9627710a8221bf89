package usecase

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/keywhiz/internal/crypto/domain"
	cryptoService "github.com/allisson/keywhiz/internal/crypto/service"
	apperrors "github.com/allisson/keywhiz/internal/errors"
	secretsDomain "github.com/allisson/keywhiz/internal/secrets/domain"
	secretsRepository "github.com/allisson/keywhiz/internal/secrets/repository"
)

// passTxManager runs the function without a real transaction. The in-memory
// repositories have nothing to roll back, so atomicity itself is covered by
// the repository and txmanager tests.
type passTxManager struct{}

func (passTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestUseCase(t *testing.T) SecretUseCase {
	t.Helper()

	key := bytes.Repeat([]byte{0x42}, 32)
	chain, err := cryptoDomain.NewContentKeyChain("key-1", []*cryptoDomain.ContentKey{
		{ID: "key-1", Key: key},
	})
	require.NoError(t, err)
	t.Cleanup(chain.Close)

	store := secretsRepository.NewMemorySecretStore()
	return NewSecretUseCase(
		passTxManager{},
		secretsRepository.NewMemorySeriesRepository(store),
		secretsRepository.NewMemoryContentRepository(store),
		cryptoService.NewCryptographer(chain),
	)
}

func validInput() CreateSecretInput {
	return CreateSecretInput{
		Name:    "DB_Pass",
		Content: []byte("hunter2"),
		Creator: "automation-client",
	}
}

func TestSecretUseCase_Create(t *testing.T) {
	uc := newTestUseCase(t)
	ctx := context.Background()

	input := validInput()
	input.Description = "production database password"
	input.Metadata = map[string]string{"owner": "payments"}

	secret, err := uc.Create(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, "DB_Pass", secret.Series.Name)
	assert.Equal(t, "production database password", secret.Series.Description)
	assert.Empty(t, secret.Content.Version)
	assert.NotEqual(t, "hunter2", secret.Content.EncryptedContent)

	plaintext, err := secret.Plaintext()
	require.NoError(t, err)
	assert.Equal(t, []byte("hunter2"), plaintext)
}

func TestSecretUseCase_Create_Validation(t *testing.T) {
	uc := newTestUseCase(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input CreateSecretInput
	}{
		{"empty name", CreateSecretInput{Content: []byte("x"), Creator: "c"}},
		{"name with display delimiter", CreateSecretInput{Name: "a..b", Content: []byte("x"), Creator: "c"}},
		{"empty creator", CreateSecretInput{Name: "DB_Pass", Content: []byte("x")}},
		{
			"blank metadata key",
			CreateSecretInput{
				Name:     "DB_Pass",
				Content:  []byte("x"),
				Creator:  "c",
				Metadata: map[string]string{"": "v"},
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Create(ctx, tc.input)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}
}

func TestSecretUseCase_Create_AutoVersion(t *testing.T) {
	uc := newTestUseCase(t)
	ctx := context.Background()

	input := validInput()
	input.WithVersion = true

	secret, err := uc.Create(ctx, input)
	require.NoError(t, err)
	assert.Len(t, secret.Content.Version, 16)

	_, err = secretsDomain.ParseStamp(secret.Content.Version)
	assert.NoError(t, err)
}

func TestSecretUseCase_Create_ExplicitVersion(t *testing.T) {
	uc := newTestUseCase(t)
	ctx := context.Background()

	input := validInput()
	input.WithVersion = true
	input.Version = "rollout-v2"

	secret, err := uc.Create(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, "rollout-v2", secret.Content.Version)
}

func TestSecretUseCase_Create_DuplicateVersionConflicts(t *testing.T) {
	uc := newTestUseCase(t)
	ctx := context.Background()

	_, err := uc.Create(ctx, validInput())
	require.NoError(t, err)

	// Second unversioned create targets the same (series, "") slot.
	_, err = uc.Create(ctx, validInput())
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestSecretUseCase_Create_GrowsSeries(t *testing.T) {
	uc := newTestUseCase(t)
	ctx := context.Background()

	_, err := uc.Create(ctx, validInput())
	require.NoError(t, err)

	versioned := validInput()
	versioned.WithVersion = true
	versioned.Version = "v1"
	_, err = uc.Create(ctx, versioned)
	require.NoError(t, err)

	versions, err := uc.ListVersions(ctx, "DB_Pass")
	require.NoError(t, err)
	assert.Equal(t, []string{"", "v1"}, versions)
}

func TestSecretUseCase_Get_ReturnsLatest(t *testing.T) {
	uc := newTestUseCase(t)
	ctx := context.Background()

	first := validInput()
	first.WithVersion = true
	first.Version = "v1"
	first.Content = []byte("old")
	_, err := uc.Create(ctx, first)
	require.NoError(t, err)

	second := validInput()
	second.WithVersion = true
	second.Version = "v2"
	second.Content = []byte("new")
	_, err = uc.Create(ctx, second)
	require.NoError(t, err)

	secret, err := uc.Get(ctx, "DB_Pass")
	require.NoError(t, err)
	assert.Equal(t, "v2", secret.Content.Version)

	plaintext, err := secret.Plaintext()
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), plaintext)
}

func TestSecretUseCase_GetVersion_EmptySelectsUnversioned(t *testing.T) {
	uc := newTestUseCase(t)
	ctx := context.Background()

	unversioned := validInput()
	unversioned.Content = []byte("unversioned")
	_, err := uc.Create(ctx, unversioned)
	require.NoError(t, err)

	versioned := validInput()
	versioned.WithVersion = true
	versioned.Version = "v1"
	versioned.Content = []byte("versioned")
	_, err = uc.Create(ctx, versioned)
	require.NoError(t, err)

	// The empty version is an exact match on the unversioned row, even
	// though a newer versioned revision exists.
	secret, err := uc.GetVersion(ctx, "DB_Pass", "")
	require.NoError(t, err)
	plaintext, err := secret.Plaintext()
	require.NoError(t, err)
	assert.Equal(t, []byte("unversioned"), plaintext)
}

func TestSecretUseCase_Get_NotFound(t *testing.T) {
	uc := newTestUseCase(t)
	ctx := context.Background()

	_, err := uc.Get(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = uc.GetVersion(ctx, "missing", "v1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = uc.GetByID(ctx, 404)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSecretUseCase_GetVersion_UnknownVersion(t *testing.T) {
	uc := newTestUseCase(t)
	ctx := context.Background()

	_, err := uc.Create(ctx, validInput())
	require.NoError(t, err)

	_, err = uc.GetVersion(ctx, "DB_Pass", "nope")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSecretUseCase_GetByID(t *testing.T) {
	uc := newTestUseCase(t)
	ctx := context.Background()

	created, err := uc.Create(ctx, validInput())
	require.NoError(t, err)

	secret, err := uc.GetByID(ctx, created.Series.ID)
	require.NoError(t, err)
	assert.Equal(t, "DB_Pass", secret.Series.Name)
}

func TestSecretUseCase_GetVersionByID(t *testing.T) {
	uc := newTestUseCase(t)
	ctx := context.Background()

	input := validInput()
	input.WithVersion = true
	input.Version = "v1"
	created, err := uc.Create(ctx, input)
	require.NoError(t, err)

	secret, err := uc.GetVersionByID(ctx, created.Series.ID, "v1")
	require.NoError(t, err)
	assert.Equal(t, "v1", secret.Content.Version)

	_, err = uc.GetVersionByID(ctx, created.Series.ID, "nope")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSecretUseCase_ListByID(t *testing.T) {
	uc := newTestUseCase(t)
	ctx := context.Background()

	var seriesID int64
	for _, version := range []string{"v1", "v2"} {
		input := validInput()
		input.WithVersion = true
		input.Version = version
		created, err := uc.Create(ctx, input)
		require.NoError(t, err)
		seriesID = created.Series.ID
	}

	secrets, err := uc.ListByID(ctx, seriesID)
	require.NoError(t, err)
	require.Len(t, secrets, 2)
	assert.Equal(t, "v1", secrets[0].Content.Version)
	assert.Equal(t, "v2", secrets[1].Content.Version)
}

func TestSecretUseCase_List(t *testing.T) {
	uc := newTestUseCase(t)
	ctx := context.Background()

	first := validInput()
	first.Content = []byte("hunter2")
	_, err := uc.Create(ctx, first)
	require.NoError(t, err)

	second := validInput()
	second.Name = "API_Key"
	second.Content = []byte("0123456789")
	_, err = uc.Create(ctx, second)
	require.NoError(t, err)

	result, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "DB_Pass", result[0].Name)
	assert.Equal(t, 7, result[0].Length)
	assert.Equal(t, "API_Key", result[1].Name)
	assert.Equal(t, 10, result[1].Length)
}

func TestSecretUseCase_ListAll(t *testing.T) {
	uc := newTestUseCase(t)
	ctx := context.Background()

	for _, version := range []string{"v1", "v2"} {
		input := validInput()
		input.WithVersion = true
		input.Version = version
		_, err := uc.Create(ctx, input)
		require.NoError(t, err)
	}

	other := validInput()
	other.Name = "API_Key"
	_, err := uc.Create(ctx, other)
	require.NoError(t, err)

	// One entry per revision, series order then content order.
	result, err := uc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, result, 3)
	assert.Equal(t, "DB_Pass..v1", result[0].DisplayName())
	assert.Equal(t, "DB_Pass..v2", result[1].DisplayName())
	assert.Equal(t, "API_Key", result[2].DisplayName())
}

func TestSecretUseCase_Delete(t *testing.T) {
	uc := newTestUseCase(t)
	ctx := context.Background()

	input := validInput()
	input.WithVersion = true
	input.Version = "v1"
	_, err := uc.Create(ctx, input)
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, "DB_Pass"))

	_, err = uc.Get(ctx, "DB_Pass")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// A delete of an unknown series reports NotFound rather than silence.
	err = uc.Delete(ctx, "DB_Pass")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSecretUseCase_DeleteVersion(t *testing.T) {
	uc := newTestUseCase(t)
	ctx := context.Background()

	for _, version := range []string{"v1", "v2"} {
		input := validInput()
		input.WithVersion = true
		input.Version = version
		_, err := uc.Create(ctx, input)
		require.NoError(t, err)
	}

	require.NoError(t, uc.DeleteVersion(ctx, "DB_Pass", "v1"))

	versions, err := uc.ListVersions(ctx, "DB_Pass")
	require.NoError(t, err)
	assert.Equal(t, []string{"v2"}, versions)

	err = uc.DeleteVersion(ctx, "DB_Pass", "v1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
