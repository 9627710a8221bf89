package usecase

import (
	"context"
	"time"

	validation "github.com/jellydator/validation"

	cryptoService "github.com/allisson/keywhiz/internal/crypto/service"
	"github.com/allisson/keywhiz/internal/database"
	apperrors "github.com/allisson/keywhiz/internal/errors"
	secretsDomain "github.com/allisson/keywhiz/internal/secrets/domain"
	appValidation "github.com/allisson/keywhiz/internal/validation"
)

// secretUseCase implements SecretUseCase on top of the series and content
// repositories and the content cryptographer.
type secretUseCase struct {
	txManager     database.TxManager
	seriesRepo    SeriesRepository
	contentRepo   ContentRepository
	cryptographer cryptoService.Cryptographer
}

// NewSecretUseCase creates a new secret use case instance with the provided dependencies.
func NewSecretUseCase(
	txManager database.TxManager,
	seriesRepo SeriesRepository,
	contentRepo ContentRepository,
	cryptographer cryptoService.Cryptographer,
) SecretUseCase {
	return &secretUseCase{
		txManager:     txManager,
		seriesRepo:    seriesRepo,
		contentRepo:   contentRepo,
		cryptographer: cryptographer,
	}
}

func (s *secretUseCase) validateCreateSecretInput(input CreateSecretInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Name,
			validation.Required.Error("name is required"),
			appValidation.SecretName,
			validation.Length(1, 255).Error("name must be between 1 and 255 characters"),
		),
		validation.Field(&input.Creator,
			validation.Required.Error("creator is required"),
			appValidation.NotBlank,
		),
		validation.Field(&input.Metadata, appValidation.MetadataKeys{}),
		validation.Field(&input.GenerationOptions, appValidation.MetadataKeys{}),
	)
	return appValidation.WrapValidationError(err)
}

// Create stores a new secret revision. The ciphertext envelope is produced
// before the transaction opens; everything that touches the store happens
// inside it, so a version conflict also rolls back a series created on this
// call.
func (s *secretUseCase) Create(
	ctx context.Context,
	input CreateSecretInput,
) (*secretsDomain.Secret, error) {
	if err := s.validateCreateSecretInput(input); err != nil {
		return nil, err
	}

	version := input.Version
	if version == "" && input.WithVersion {
		version = secretsDomain.NewStamp().Hex()
	}

	envelope, err := s.cryptographer.Encrypt(input.Name, input.Content)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var series *secretsDomain.SecretSeries
	var content *secretsDomain.SecretContent

	err = s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		series, err = s.seriesRepo.GetByName(txCtx, input.Name)
		switch {
		case err == nil:
		case apperrors.Is(err, apperrors.ErrNotFound):
			series = &secretsDomain.SecretSeries{
				Name:              input.Name,
				Description:       input.Description,
				CreatedAt:         now,
				CreatedBy:         input.Creator,
				UpdatedAt:         now,
				UpdatedBy:         input.Creator,
				Type:              input.Type,
				GenerationOptions: input.GenerationOptions,
				Metadata:          input.Metadata,
			}
			series.ID, err = s.seriesRepo.Create(txCtx, series)
			if err != nil {
				return err
			}
		default:
			return err
		}

		content = &secretsDomain.SecretContent{
			SeriesID:         series.ID,
			EncryptedContent: envelope,
			Version:          version,
			CreatedAt:        now,
			CreatedBy:        input.Creator,
			UpdatedAt:        now,
			UpdatedBy:        input.Creator,
		}
		content.ID, err = s.contentRepo.Create(txCtx, content)
		return err
	})
	if err != nil {
		return nil, err
	}

	return secretsDomain.NewSecret(*series, *content, s.cryptographer.Decrypt), nil
}

// Get retrieves the newest revision of the named secret.
func (s *secretUseCase) Get(ctx context.Context, name string) (*secretsDomain.Secret, error) {
	series, err := s.seriesRepo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}

	content, err := s.contentRepo.LatestBySeries(ctx, series.ID)
	if err != nil {
		return nil, err
	}

	return secretsDomain.NewSecret(*series, *content, s.cryptographer.Decrypt), nil
}

// GetVersion retrieves the revision carrying the exact version token.
func (s *secretUseCase) GetVersion(
	ctx context.Context,
	name, version string,
) (*secretsDomain.Secret, error) {
	series, err := s.seriesRepo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}

	content, err := s.contentRepo.GetBySeriesAndVersion(ctx, series.ID, version)
	if err != nil {
		return nil, err
	}

	return secretsDomain.NewSecret(*series, *content, s.cryptographer.Decrypt), nil
}

// GetByID retrieves the newest revision of the series with the given id.
func (s *secretUseCase) GetByID(ctx context.Context, seriesID int64) (*secretsDomain.Secret, error) {
	series, err := s.seriesRepo.GetByID(ctx, seriesID)
	if err != nil {
		return nil, err
	}

	content, err := s.contentRepo.LatestBySeries(ctx, series.ID)
	if err != nil {
		return nil, err
	}

	return secretsDomain.NewSecret(*series, *content, s.cryptographer.Decrypt), nil
}

// GetVersionByID retrieves the revision of the series with the given id
// carrying the exact version token.
func (s *secretUseCase) GetVersionByID(
	ctx context.Context,
	seriesID int64,
	version string,
) (*secretsDomain.Secret, error) {
	series, err := s.seriesRepo.GetByID(ctx, seriesID)
	if err != nil {
		return nil, err
	}

	content, err := s.contentRepo.GetBySeriesAndVersion(ctx, series.ID, version)
	if err != nil {
		return nil, err
	}

	return secretsDomain.NewSecret(*series, *content, s.cryptographer.Decrypt), nil
}

// ListByID returns every revision of the series with the given id.
func (s *secretUseCase) ListByID(
	ctx context.Context,
	seriesID int64,
) ([]*secretsDomain.Secret, error) {
	series, err := s.seriesRepo.GetByID(ctx, seriesID)
	if err != nil {
		return nil, err
	}

	contents, err := s.contentRepo.ListBySeries(ctx, series.ID)
	if err != nil {
		return nil, err
	}

	result := make([]*secretsDomain.Secret, 0, len(contents))
	for _, content := range contents {
		result = append(result, secretsDomain.NewSecret(*series, *content, s.cryptographer.Decrypt))
	}
	return result, nil
}

// List returns a sanitized projection of the newest revision of every series.
func (s *secretUseCase) List(ctx context.Context) ([]secretsDomain.SanitizedSecret, error) {
	allSeries, err := s.seriesRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]secretsDomain.SanitizedSecret, 0, len(allSeries))
	for _, series := range allSeries {
		content, err := s.contentRepo.LatestBySeries(ctx, series.ID)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrNotFound) {
				continue
			}
			return nil, err
		}

		length, err := s.cryptographer.DecodedLength(content.EncryptedContent)
		if err != nil {
			return nil, err
		}

		secret := secretsDomain.NewSecret(*series, *content, nil)
		result = append(result, secretsDomain.Sanitize(secret, length))
	}

	return result, nil
}

// ListAll returns a sanitized projection of every revision of every series,
// ordered by series id then content id.
func (s *secretUseCase) ListAll(ctx context.Context) ([]secretsDomain.SanitizedSecret, error) {
	allSeries, err := s.seriesRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	var result []secretsDomain.SanitizedSecret
	for _, series := range allSeries {
		contents, err := s.contentRepo.ListBySeries(ctx, series.ID)
		if err != nil {
			return nil, err
		}

		for _, content := range contents {
			length, err := s.cryptographer.DecodedLength(content.EncryptedContent)
			if err != nil {
				return nil, err
			}

			secret := secretsDomain.NewSecret(*series, *content, nil)
			result = append(result, secretsDomain.Sanitize(secret, length))
		}
	}

	return result, nil
}

// ListVersions returns the version tokens of the named secret.
func (s *secretUseCase) ListVersions(ctx context.Context, name string) ([]string, error) {
	series, err := s.seriesRepo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.contentRepo.VersionsBySeries(ctx, series.ID)
}

// Delete removes the named series and every revision under it.
func (s *secretUseCase) Delete(ctx context.Context, name string) error {
	if _, err := s.seriesRepo.GetByName(ctx, name); err != nil {
		return err
	}
	return s.seriesRepo.DeleteByName(ctx, name)
}

// DeleteVersion removes a single revision of the named secret.
func (s *secretUseCase) DeleteVersion(ctx context.Context, name, version string) error {
	series, err := s.seriesRepo.GetByName(ctx, name)
	if err != nil {
		return err
	}

	if _, err := s.contentRepo.GetBySeriesAndVersion(ctx, series.ID, version); err != nil {
		return err
	}
	return s.contentRepo.DeleteBySeriesAndVersion(ctx, series.ID, version)
}
