package usecase

import (
	"context"
	"time"

	aclDomain "github.com/allisson/keywhiz/internal/acl/domain"
	"github.com/allisson/keywhiz/internal/metrics"
	secretsDomain "github.com/allisson/keywhiz/internal/secrets/domain"
)

func record(ctx context.Context, m metrics.BusinessMetrics, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	m.RecordOperation(ctx, "acl", operation, status)
	m.RecordDuration(ctx, "acl", operation, time.Since(start), status)
}

// clientUseCaseWithMetrics decorates ClientUseCase with metrics instrumentation.
type clientUseCaseWithMetrics struct {
	next    ClientUseCase
	metrics metrics.BusinessMetrics
}

// NewClientUseCaseWithMetrics wraps a ClientUseCase with metrics recording.
func NewClientUseCaseWithMetrics(useCase ClientUseCase, m metrics.BusinessMetrics) ClientUseCase {
	return &clientUseCaseWithMetrics{next: useCase, metrics: m}
}

func (c *clientUseCaseWithMetrics) Create(ctx context.Context, input CreateClientInput) (*aclDomain.Client, error) {
	start := time.Now()
	client, err := c.next.Create(ctx, input)
	record(ctx, c.metrics, "client_create", start, err)
	return client, err
}

func (c *clientUseCaseWithMetrics) Get(ctx context.Context, name string) (*aclDomain.Client, error) {
	start := time.Now()
	client, err := c.next.Get(ctx, name)
	record(ctx, c.metrics, "client_get", start, err)
	return client, err
}

func (c *clientUseCaseWithMetrics) List(ctx context.Context) ([]*aclDomain.Client, error) {
	start := time.Now()
	clients, err := c.next.List(ctx)
	record(ctx, c.metrics, "client_list", start, err)
	return clients, err
}

func (c *clientUseCaseWithMetrics) Delete(ctx context.Context, name string) error {
	start := time.Now()
	err := c.next.Delete(ctx, name)
	record(ctx, c.metrics, "client_delete", start, err)
	return err
}

// groupUseCaseWithMetrics decorates GroupUseCase with metrics instrumentation.
type groupUseCaseWithMetrics struct {
	next    GroupUseCase
	metrics metrics.BusinessMetrics
}

// NewGroupUseCaseWithMetrics wraps a GroupUseCase with metrics recording.
func NewGroupUseCaseWithMetrics(useCase GroupUseCase, m metrics.BusinessMetrics) GroupUseCase {
	return &groupUseCaseWithMetrics{next: useCase, metrics: m}
}

func (g *groupUseCaseWithMetrics) Create(ctx context.Context, input CreateGroupInput) (*aclDomain.Group, error) {
	start := time.Now()
	group, err := g.next.Create(ctx, input)
	record(ctx, g.metrics, "group_create", start, err)
	return group, err
}

func (g *groupUseCaseWithMetrics) Get(ctx context.Context, name string) (*aclDomain.Group, error) {
	start := time.Now()
	group, err := g.next.Get(ctx, name)
	record(ctx, g.metrics, "group_get", start, err)
	return group, err
}

func (g *groupUseCaseWithMetrics) List(ctx context.Context) ([]*aclDomain.Group, error) {
	start := time.Now()
	groups, err := g.next.List(ctx)
	record(ctx, g.metrics, "group_list", start, err)
	return groups, err
}

func (g *groupUseCaseWithMetrics) Delete(ctx context.Context, name string) error {
	start := time.Now()
	err := g.next.Delete(ctx, name)
	record(ctx, g.metrics, "group_delete", start, err)
	return err
}

// aclUseCaseWithMetrics decorates AclUseCase with metrics instrumentation.
type aclUseCaseWithMetrics struct {
	next    AclUseCase
	metrics metrics.BusinessMetrics
}

// NewAclUseCaseWithMetrics wraps an AclUseCase with metrics recording.
func NewAclUseCaseWithMetrics(useCase AclUseCase, m metrics.BusinessMetrics) AclUseCase {
	return &aclUseCaseWithMetrics{next: useCase, metrics: m}
}

func (a *aclUseCaseWithMetrics) Enroll(ctx context.Context, clientName, groupName string) error {
	start := time.Now()
	err := a.next.Enroll(ctx, clientName, groupName)
	record(ctx, a.metrics, "acl_enroll", start, err)
	return err
}

func (a *aclUseCaseWithMetrics) Evict(ctx context.Context, clientName, groupName string) error {
	start := time.Now()
	err := a.next.Evict(ctx, clientName, groupName)
	record(ctx, a.metrics, "acl_evict", start, err)
	return err
}

func (a *aclUseCaseWithMetrics) Allow(ctx context.Context, groupName, secretName string) error {
	start := time.Now()
	err := a.next.Allow(ctx, groupName, secretName)
	record(ctx, a.metrics, "acl_allow", start, err)
	return err
}

func (a *aclUseCaseWithMetrics) Disallow(ctx context.Context, groupName, secretName string) error {
	start := time.Now()
	err := a.next.Disallow(ctx, groupName, secretName)
	record(ctx, a.metrics, "acl_disallow", start, err)
	return err
}

func (a *aclUseCaseWithMetrics) MayAccess(ctx context.Context, clientName, secretName string) (bool, error) {
	start := time.Now()
	allowed, err := a.next.MayAccess(ctx, clientName, secretName)
	record(ctx, a.metrics, "acl_may_access", start, err)
	return allowed, err
}

func (a *aclUseCaseWithMetrics) GetSecretForClient(
	ctx context.Context,
	clientName, secretName string,
) (*secretsDomain.Secret, error) {
	start := time.Now()
	secret, err := a.next.GetSecretForClient(ctx, clientName, secretName)
	record(ctx, a.metrics, "acl_get_secret", start, err)
	return secret, err
}

func (a *aclUseCaseWithMetrics) SecretsForClient(
	ctx context.Context,
	clientName string,
) ([]secretsDomain.SanitizedSecret, error) {
	start := time.Now()
	result, err := a.next.SecretsForClient(ctx, clientName)
	record(ctx, a.metrics, "acl_secrets_for_client", start, err)
	return result, err
}

func (a *aclUseCaseWithMetrics) GroupsForClient(
	ctx context.Context,
	clientName string,
) ([]*aclDomain.Group, error) {
	start := time.Now()
	groups, err := a.next.GroupsForClient(ctx, clientName)
	record(ctx, a.metrics, "acl_groups_for_client", start, err)
	return groups, err
}

func (a *aclUseCaseWithMetrics) ClientsForGroup(
	ctx context.Context,
	groupName string,
) ([]*aclDomain.Client, error) {
	start := time.Now()
	clients, err := a.next.ClientsForGroup(ctx, groupName)
	record(ctx, a.metrics, "acl_clients_for_group", start, err)
	return clients, err
}

func (a *aclUseCaseWithMetrics) SecretsForGroup(
	ctx context.Context,
	groupName string,
) ([]secretsDomain.SanitizedSecret, error) {
	start := time.Now()
	result, err := a.next.SecretsForGroup(ctx, groupName)
	record(ctx, a.metrics, "acl_secrets_for_group", start, err)
	return result, err
}

func (a *aclUseCaseWithMetrics) GroupsForSecret(
	ctx context.Context,
	secretName string,
) ([]*aclDomain.Group, error) {
	start := time.Now()
	groups, err := a.next.GroupsForSecret(ctx, secretName)
	record(ctx, a.metrics, "acl_groups_for_secret", start, err)
	return groups, err
}

func (a *aclUseCaseWithMetrics) ClientsForSecret(
	ctx context.Context,
	secretName string,
) ([]*aclDomain.Client, error) {
	start := time.Now()
	clients, err := a.next.ClientsForSecret(ctx, secretName)
	record(ctx, a.metrics, "acl_clients_for_secret", start, err)
	return clients, err
}
