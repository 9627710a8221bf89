package usecase

import (
	"context"

	aclDomain "github.com/allisson/keywhiz/internal/acl/domain"
	cryptoService "github.com/allisson/keywhiz/internal/crypto/service"
	apperrors "github.com/allisson/keywhiz/internal/errors"
	secretsDomain "github.com/allisson/keywhiz/internal/secrets/domain"
)

// aclUseCase implements the access engine over the membership edges.
type aclUseCase struct {
	clientRepo     ClientRepository
	groupRepo      GroupRepository
	membershipRepo MembershipRepository
	seriesReader   SeriesReader
	contentReader  ContentReader
	cryptographer  cryptoService.Cryptographer
}

// NewAclUseCase creates a new access engine instance.
func NewAclUseCase(
	clientRepo ClientRepository,
	groupRepo GroupRepository,
	membershipRepo MembershipRepository,
	seriesReader SeriesReader,
	contentReader ContentReader,
	cryptographer cryptoService.Cryptographer,
) AclUseCase {
	return &aclUseCase{
		clientRepo:     clientRepo,
		groupRepo:      groupRepo,
		membershipRepo: membershipRepo,
		seriesReader:   seriesReader,
		contentReader:  contentReader,
		cryptographer:  cryptographer,
	}
}

// Enroll adds the named client to the named group.
func (a *aclUseCase) Enroll(ctx context.Context, clientName, groupName string) error {
	client, err := a.clientRepo.GetByName(ctx, clientName)
	if err != nil {
		return err
	}
	group, err := a.groupRepo.GetByName(ctx, groupName)
	if err != nil {
		return err
	}
	return a.membershipRepo.Enroll(ctx, client.ID, group.ID)
}

// Evict removes the named client from the named group.
func (a *aclUseCase) Evict(ctx context.Context, clientName, groupName string) error {
	client, err := a.clientRepo.GetByName(ctx, clientName)
	if err != nil {
		return err
	}
	group, err := a.groupRepo.GetByName(ctx, groupName)
	if err != nil {
		return err
	}
	return a.membershipRepo.Evict(ctx, client.ID, group.ID)
}

// Allow grants the named group access to the named secret.
func (a *aclUseCase) Allow(ctx context.Context, groupName, secretName string) error {
	group, err := a.groupRepo.GetByName(ctx, groupName)
	if err != nil {
		return err
	}
	series, err := a.seriesReader.GetByName(ctx, secretName)
	if err != nil {
		return err
	}
	return a.membershipRepo.Allow(ctx, group.ID, series.ID)
}

// Disallow revokes the named group's access to the named secret.
func (a *aclUseCase) Disallow(ctx context.Context, groupName, secretName string) error {
	group, err := a.groupRepo.GetByName(ctx, groupName)
	if err != nil {
		return err
	}
	series, err := a.seriesReader.GetByName(ctx, secretName)
	if err != nil {
		return err
	}
	return a.membershipRepo.Disallow(ctx, group.ID, series.ID)
}

// MayAccess reports whether the named client can read the named secret.
// A missing client or secret reads as a plain "no".
func (a *aclUseCase) MayAccess(ctx context.Context, clientName, secretName string) (bool, error) {
	client, err := a.clientRepo.GetByName(ctx, clientName)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	series, err := a.seriesReader.GetByName(ctx, secretName)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	return a.membershipRepo.MayAccess(ctx, client.ID, series.ID)
}

// GetSecretForClient returns the newest revision of the named secret for the
// named client. Denied and nonexistent collapse into the same NotFound so a
// client cannot probe which names exist.
func (a *aclUseCase) GetSecretForClient(
	ctx context.Context,
	clientName, secretName string,
) (*secretsDomain.Secret, error) {
	client, err := a.clientRepo.GetByName(ctx, clientName)
	if err != nil {
		return nil, err
	}

	series, err := a.seriesReader.GetByName(ctx, secretName)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, secretsDomain.ErrSecretNotFound
		}
		return nil, err
	}

	allowed, err := a.membershipRepo.MayAccess(ctx, client.ID, series.ID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, secretsDomain.ErrSecretNotFound
	}

	content, err := a.contentReader.LatestBySeries(ctx, series.ID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, secretsDomain.ErrSecretNotFound
		}
		return nil, err
	}

	return secretsDomain.NewSecret(*series, *content, a.cryptographer.Decrypt), nil
}

// SecretsForClient lists sanitized projections of every secret the client can read.
func (a *aclUseCase) SecretsForClient(
	ctx context.Context,
	clientName string,
) ([]secretsDomain.SanitizedSecret, error) {
	client, err := a.clientRepo.GetByName(ctx, clientName)
	if err != nil {
		return nil, err
	}

	series, err := a.membershipRepo.SeriesForClient(ctx, client.ID)
	if err != nil {
		return nil, err
	}

	return a.sanitizeLatest(ctx, series)
}

// GroupsForClient lists the groups the named client is enrolled in.
func (a *aclUseCase) GroupsForClient(ctx context.Context, clientName string) ([]*aclDomain.Group, error) {
	client, err := a.clientRepo.GetByName(ctx, clientName)
	if err != nil {
		return nil, err
	}
	return a.membershipRepo.GroupsForClient(ctx, client.ID)
}

// ClientsForGroup lists the clients enrolled in the named group.
func (a *aclUseCase) ClientsForGroup(ctx context.Context, groupName string) ([]*aclDomain.Client, error) {
	group, err := a.groupRepo.GetByName(ctx, groupName)
	if err != nil {
		return nil, err
	}
	return a.membershipRepo.ClientsForGroup(ctx, group.ID)
}

// SecretsForGroup lists sanitized projections of the secrets granted to the group.
func (a *aclUseCase) SecretsForGroup(
	ctx context.Context,
	groupName string,
) ([]secretsDomain.SanitizedSecret, error) {
	group, err := a.groupRepo.GetByName(ctx, groupName)
	if err != nil {
		return nil, err
	}

	series, err := a.membershipRepo.SeriesForGroup(ctx, group.ID)
	if err != nil {
		return nil, err
	}

	return a.sanitizeLatest(ctx, series)
}

// GroupsForSecret lists the groups holding a grant on the named secret.
func (a *aclUseCase) GroupsForSecret(ctx context.Context, secretName string) ([]*aclDomain.Group, error) {
	series, err := a.seriesReader.GetByName(ctx, secretName)
	if err != nil {
		return nil, err
	}
	return a.membershipRepo.GroupsForSeries(ctx, series.ID)
}

// ClientsForSecret lists every client able to read the named secret.
func (a *aclUseCase) ClientsForSecret(ctx context.Context, secretName string) ([]*aclDomain.Client, error) {
	series, err := a.seriesReader.GetByName(ctx, secretName)
	if err != nil {
		return nil, err
	}
	return a.membershipRepo.ClientsForSeries(ctx, series.ID)
}

func (a *aclUseCase) sanitizeLatest(
	ctx context.Context,
	series []*secretsDomain.SecretSeries,
) ([]secretsDomain.SanitizedSecret, error) {
	result := make([]secretsDomain.SanitizedSecret, 0, len(series))
	for _, s := range series {
		content, err := a.contentReader.LatestBySeries(ctx, s.ID)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrNotFound) {
				continue
			}
			return nil, err
		}

		length, err := a.cryptographer.DecodedLength(content.EncryptedContent)
		if err != nil {
			return nil, err
		}

		secret := secretsDomain.NewSecret(*s, *content, nil)
		result = append(result, secretsDomain.Sanitize(secret, length))
	}
	return result, nil
}
