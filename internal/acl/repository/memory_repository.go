package repository

import (
	"context"
	"maps"
	"sort"
	"sync"

	aclDomain "github.com/allisson/keywhiz/internal/acl/domain"
	apperrors "github.com/allisson/keywhiz/internal/errors"
	secretsDomain "github.com/allisson/keywhiz/internal/secrets/domain"
)

type edge struct {
	left  int64
	right int64
}

// MemoryAclStore holds clients, groups and the access edges in process
// memory. It backs the in-memory repositories used by tests and by the local
// development mode.
type MemoryAclStore struct {
	mu           sync.RWMutex
	nextClientID int64
	nextGroupID  int64
	clients      map[int64]*aclDomain.Client
	groups       map[int64]*aclDomain.Group
	memberships  map[edge]struct{}
	grants       map[edge]struct{}
}

// NewMemoryAclStore creates an empty in-memory access-control store.
func NewMemoryAclStore() *MemoryAclStore {
	return &MemoryAclStore{
		nextClientID: 1,
		nextGroupID:  1,
		clients:      make(map[int64]*aclDomain.Client),
		groups:       make(map[int64]*aclDomain.Group),
		memberships:  make(map[edge]struct{}),
		grants:       make(map[edge]struct{}),
	}
}

func copyClient(c *aclDomain.Client) *aclDomain.Client {
	out := *c
	return &out
}

func copyGroup(g *aclDomain.Group) *aclDomain.Group {
	out := *g
	out.Metadata = maps.Clone(g.Metadata)
	return &out
}

// MemoryClientRepository implements client persistence over a MemoryAclStore.
type MemoryClientRepository struct {
	store *MemoryAclStore
}

// NewMemoryClientRepository creates a client repository bound to the store.
func NewMemoryClientRepository(store *MemoryAclStore) *MemoryClientRepository {
	return &MemoryClientRepository{store: store}
}

func (m *MemoryClientRepository) Create(_ context.Context, client *aclDomain.Client) (int64, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	for _, existing := range m.store.clients {
		if existing.Name == client.Name {
			return 0, aclDomain.ErrClientExists
		}
	}

	stored := copyClient(client)
	stored.ID = m.store.nextClientID
	m.store.nextClientID++
	m.store.clients[stored.ID] = stored

	return stored.ID, nil
}

func (m *MemoryClientRepository) GetByID(_ context.Context, id int64) (*aclDomain.Client, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()

	client, ok := m.store.clients[id]
	if !ok {
		return nil, aclDomain.ErrClientNotFound
	}
	return copyClient(client), nil
}

func (m *MemoryClientRepository) GetByName(_ context.Context, name string) (*aclDomain.Client, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()

	for _, client := range m.store.clients {
		if client.Name == name {
			return copyClient(client), nil
		}
	}
	return nil, aclDomain.ErrClientNotFound
}

func (m *MemoryClientRepository) List(_ context.Context) ([]*aclDomain.Client, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()

	result := make([]*aclDomain.Client, 0, len(m.store.clients))
	for _, client := range m.store.clients {
		result = append(result, copyClient(client))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	return result, nil
}

func (m *MemoryClientRepository) DeleteByName(_ context.Context, name string) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	for id, client := range m.store.clients {
		if client.Name != name {
			continue
		}
		delete(m.store.clients, id)
		for e := range m.store.memberships {
			if e.left == id {
				delete(m.store.memberships, e)
			}
		}
		return nil
	}
	return nil
}

// MemoryGroupRepository implements group persistence over a MemoryAclStore.
type MemoryGroupRepository struct {
	store *MemoryAclStore
}

// NewMemoryGroupRepository creates a group repository bound to the store.
func NewMemoryGroupRepository(store *MemoryAclStore) *MemoryGroupRepository {
	return &MemoryGroupRepository{store: store}
}

func (m *MemoryGroupRepository) Create(_ context.Context, group *aclDomain.Group) (int64, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	for _, existing := range m.store.groups {
		if existing.Name == group.Name {
			return 0, aclDomain.ErrGroupExists
		}
	}

	stored := copyGroup(group)
	stored.ID = m.store.nextGroupID
	m.store.nextGroupID++
	m.store.groups[stored.ID] = stored

	return stored.ID, nil
}

func (m *MemoryGroupRepository) GetByID(_ context.Context, id int64) (*aclDomain.Group, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()

	group, ok := m.store.groups[id]
	if !ok {
		return nil, aclDomain.ErrGroupNotFound
	}
	return copyGroup(group), nil
}

func (m *MemoryGroupRepository) GetByName(_ context.Context, name string) (*aclDomain.Group, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()

	for _, group := range m.store.groups {
		if group.Name == name {
			return copyGroup(group), nil
		}
	}
	return nil, aclDomain.ErrGroupNotFound
}

func (m *MemoryGroupRepository) List(_ context.Context) ([]*aclDomain.Group, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()

	result := make([]*aclDomain.Group, 0, len(m.store.groups))
	for _, group := range m.store.groups {
		result = append(result, copyGroup(group))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	return result, nil
}

func (m *MemoryGroupRepository) DeleteByName(_ context.Context, name string) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	for id, group := range m.store.groups {
		if group.Name != name {
			continue
		}
		delete(m.store.groups, id)
		for e := range m.store.memberships {
			if e.right == id {
				delete(m.store.memberships, e)
			}
		}
		for e := range m.store.grants {
			if e.left == id {
				delete(m.store.grants, e)
			}
		}
		return nil
	}
	return nil
}

// SeriesGetter resolves secret series by id for the membership views.
type SeriesGetter interface {
	GetByID(ctx context.Context, id int64) (*secretsDomain.SecretSeries, error)
}

// MemoryMembershipRepository implements the access edges over a MemoryAclStore.
// Series objects are resolved through the injected getter so the store does
// not duplicate secret rows.
type MemoryMembershipRepository struct {
	store  *MemoryAclStore
	series SeriesGetter
}

// NewMemoryMembershipRepository creates a membership repository bound to the store.
func NewMemoryMembershipRepository(store *MemoryAclStore, series SeriesGetter) *MemoryMembershipRepository {
	return &MemoryMembershipRepository{store: store, series: series}
}

func (m *MemoryMembershipRepository) Enroll(_ context.Context, clientID, groupID int64) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	m.store.memberships[edge{clientID, groupID}] = struct{}{}
	return nil
}

func (m *MemoryMembershipRepository) Evict(_ context.Context, clientID, groupID int64) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	delete(m.store.memberships, edge{clientID, groupID})
	return nil
}

func (m *MemoryMembershipRepository) Allow(_ context.Context, groupID, seriesID int64) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	m.store.grants[edge{groupID, seriesID}] = struct{}{}
	return nil
}

func (m *MemoryMembershipRepository) Disallow(_ context.Context, groupID, seriesID int64) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	delete(m.store.grants, edge{groupID, seriesID})
	return nil
}

// RevokeSeries drops every grant on a series. Mirrors the FK cascade the SQL
// schema applies when a series row is deleted.
func (m *MemoryMembershipRepository) RevokeSeries(_ context.Context, seriesID int64) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	for e := range m.store.grants {
		if e.right == seriesID {
			delete(m.store.grants, e)
		}
	}
	return nil
}

func (m *MemoryMembershipRepository) GroupsForClient(
	_ context.Context,
	clientID int64,
) ([]*aclDomain.Group, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()

	var result []*aclDomain.Group
	for e := range m.store.memberships {
		if e.left != clientID {
			continue
		}
		if group, ok := m.store.groups[e.right]; ok {
			result = append(result, copyGroup(group))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	return result, nil
}

func (m *MemoryMembershipRepository) ClientsForGroup(
	_ context.Context,
	groupID int64,
) ([]*aclDomain.Client, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()

	var result []*aclDomain.Client
	for e := range m.store.memberships {
		if e.right != groupID {
			continue
		}
		if client, ok := m.store.clients[e.left]; ok {
			result = append(result, copyClient(client))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	return result, nil
}

func (m *MemoryMembershipRepository) SeriesForGroup(
	ctx context.Context,
	groupID int64,
) ([]*secretsDomain.SecretSeries, error) {
	m.store.mu.RLock()
	var ids []int64
	for e := range m.store.grants {
		if e.left == groupID {
			ids = append(ids, e.right)
		}
	}
	m.store.mu.RUnlock()

	return m.resolveSeries(ctx, ids)
}

func (m *MemoryMembershipRepository) GroupsForSeries(
	_ context.Context,
	seriesID int64,
) ([]*aclDomain.Group, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()

	var result []*aclDomain.Group
	for e := range m.store.grants {
		if e.right != seriesID {
			continue
		}
		if group, ok := m.store.groups[e.left]; ok {
			result = append(result, copyGroup(group))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	return result, nil
}

func (m *MemoryMembershipRepository) SeriesForClient(
	ctx context.Context,
	clientID int64,
) ([]*secretsDomain.SecretSeries, error) {
	m.store.mu.RLock()
	seen := make(map[int64]bool)
	var ids []int64
	for membership := range m.store.memberships {
		if membership.left != clientID {
			continue
		}
		for grant := range m.store.grants {
			if grant.left == membership.right && !seen[grant.right] {
				seen[grant.right] = true
				ids = append(ids, grant.right)
			}
		}
	}
	m.store.mu.RUnlock()

	return m.resolveSeries(ctx, ids)
}

func (m *MemoryMembershipRepository) ClientsForSeries(
	_ context.Context,
	seriesID int64,
) ([]*aclDomain.Client, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()

	seen := make(map[int64]bool)
	var result []*aclDomain.Client
	for grant := range m.store.grants {
		if grant.right != seriesID {
			continue
		}
		for membership := range m.store.memberships {
			if membership.right != grant.left || seen[membership.left] {
				continue
			}
			seen[membership.left] = true
			if client, ok := m.store.clients[membership.left]; ok {
				result = append(result, copyClient(client))
			}
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	return result, nil
}

func (m *MemoryMembershipRepository) MayAccess(
	_ context.Context,
	clientID, seriesID int64,
) (bool, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()

	for membership := range m.store.memberships {
		if membership.left != clientID {
			continue
		}
		if _, ok := m.store.grants[edge{membership.right, seriesID}]; ok {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryMembershipRepository) resolveSeries(
	ctx context.Context,
	ids []int64,
) ([]*secretsDomain.SecretSeries, error) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	result := make([]*secretsDomain.SecretSeries, 0, len(ids))
	for _, id := range ids {
		series, err := m.series.GetByID(ctx, id)
		if err != nil {
			// A dangling grant on a deleted series is skipped, matching the
			// FK cascade of the SQL schema.
			if apperrors.Is(err, apperrors.ErrNotFound) {
				continue
			}
			return nil, err
		}
		result = append(result, series)
	}
	return result, nil
}
