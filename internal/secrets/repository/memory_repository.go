package repository

import (
	"context"
	"maps"
	"sort"
	"sync"

	secretsDomain "github.com/allisson/keywhiz/internal/secrets/domain"
)

// MemorySecretStore holds series and content rows in process memory. It backs
// the in-memory repositories used by tests and by the local development mode.
type MemorySecretStore struct {
	mu           sync.RWMutex
	nextSeriesID int64
	nextContent  int64
	series       map[int64]*secretsDomain.SecretSeries
	content      map[int64]*secretsDomain.SecretContent
}

// NewMemorySecretStore creates an empty in-memory secret store.
func NewMemorySecretStore() *MemorySecretStore {
	return &MemorySecretStore{
		nextSeriesID: 1,
		nextContent:  1,
		series:       make(map[int64]*secretsDomain.SecretSeries),
		content:      make(map[int64]*secretsDomain.SecretContent),
	}
}

func copySeries(s *secretsDomain.SecretSeries) *secretsDomain.SecretSeries {
	out := *s
	out.GenerationOptions = maps.Clone(s.GenerationOptions)
	out.Metadata = maps.Clone(s.Metadata)
	return &out
}

func copyContent(c *secretsDomain.SecretContent) *secretsDomain.SecretContent {
	out := *c
	return &out
}

// MemorySeriesRepository implements series persistence over a MemorySecretStore.
type MemorySeriesRepository struct {
	store *MemorySecretStore
}

// NewMemorySeriesRepository creates a series repository bound to the store.
func NewMemorySeriesRepository(store *MemorySecretStore) *MemorySeriesRepository {
	return &MemorySeriesRepository{store: store}
}

func (m *MemorySeriesRepository) Create(
	_ context.Context,
	series *secretsDomain.SecretSeries,
) (int64, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	for _, existing := range m.store.series {
		if existing.Name == series.Name {
			return 0, secretsDomain.ErrSeriesExists
		}
	}

	stored := copySeries(series)
	stored.ID = m.store.nextSeriesID
	m.store.nextSeriesID++
	m.store.series[stored.ID] = stored

	return stored.ID, nil
}

func (m *MemorySeriesRepository) GetByID(
	_ context.Context,
	id int64,
) (*secretsDomain.SecretSeries, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()

	series, ok := m.store.series[id]
	if !ok {
		return nil, secretsDomain.ErrSeriesNotFound
	}
	return copySeries(series), nil
}

func (m *MemorySeriesRepository) GetByName(
	_ context.Context,
	name string,
) (*secretsDomain.SecretSeries, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()

	for _, series := range m.store.series {
		if series.Name == name {
			return copySeries(series), nil
		}
	}
	return nil, secretsDomain.ErrSeriesNotFound
}

func (m *MemorySeriesRepository) List(_ context.Context) ([]*secretsDomain.SecretSeries, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()

	result := make([]*secretsDomain.SecretSeries, 0, len(m.store.series))
	for _, series := range m.store.series {
		result = append(result, copySeries(series))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	return result, nil
}

func (m *MemorySeriesRepository) DeleteByName(_ context.Context, name string) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	for id, series := range m.store.series {
		if series.Name != name {
			continue
		}
		delete(m.store.series, id)
		for contentID, content := range m.store.content {
			if content.SeriesID == id {
				delete(m.store.content, contentID)
			}
		}
		return nil
	}
	return nil
}

// MemoryContentRepository implements content persistence over a MemorySecretStore.
type MemoryContentRepository struct {
	store *MemorySecretStore
}

// NewMemoryContentRepository creates a content repository bound to the store.
func NewMemoryContentRepository(store *MemorySecretStore) *MemoryContentRepository {
	return &MemoryContentRepository{store: store}
}

func (m *MemoryContentRepository) Create(
	_ context.Context,
	content *secretsDomain.SecretContent,
) (int64, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	for _, existing := range m.store.content {
		if existing.SeriesID == content.SeriesID && existing.Version == content.Version {
			return 0, secretsDomain.ErrSecretExists
		}
	}

	stored := copyContent(content)
	stored.ID = m.store.nextContent
	m.store.nextContent++
	m.store.content[stored.ID] = stored

	return stored.ID, nil
}

func (m *MemoryContentRepository) GetByID(
	_ context.Context,
	id int64,
) (*secretsDomain.SecretContent, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()

	content, ok := m.store.content[id]
	if !ok {
		return nil, secretsDomain.ErrContentNotFound
	}
	return copyContent(content), nil
}

func (m *MemoryContentRepository) GetBySeriesAndVersion(
	_ context.Context,
	seriesID int64,
	version string,
) (*secretsDomain.SecretContent, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()

	for _, content := range m.store.content {
		if content.SeriesID == seriesID && content.Version == version {
			return copyContent(content), nil
		}
	}
	return nil, secretsDomain.ErrContentNotFound
}

func (m *MemoryContentRepository) LatestBySeries(
	_ context.Context,
	seriesID int64,
) (*secretsDomain.SecretContent, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()

	var latest *secretsDomain.SecretContent
	for _, content := range m.store.content {
		if content.SeriesID != seriesID {
			continue
		}
		if latest == nil || content.ID > latest.ID {
			latest = content
		}
	}
	if latest == nil {
		return nil, secretsDomain.ErrContentNotFound
	}
	return copyContent(latest), nil
}

func (m *MemoryContentRepository) ListBySeries(
	_ context.Context,
	seriesID int64,
) ([]*secretsDomain.SecretContent, error) {
	m.store.mu.RLock()
	defer m.store.mu.RUnlock()

	var result []*secretsDomain.SecretContent
	for _, content := range m.store.content {
		if content.SeriesID == seriesID {
			result = append(result, copyContent(content))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })

	return result, nil
}

func (m *MemoryContentRepository) VersionsBySeries(
	ctx context.Context,
	seriesID int64,
) ([]string, error) {
	contents, err := m.ListBySeries(ctx, seriesID)
	if err != nil {
		return nil, err
	}

	versions := make([]string, 0, len(contents))
	for _, content := range contents {
		versions = append(versions, content.Version)
	}
	return versions, nil
}

func (m *MemoryContentRepository) DeleteBySeries(_ context.Context, seriesID int64) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	for id, content := range m.store.content {
		if content.SeriesID == seriesID {
			delete(m.store.content, id)
		}
	}
	return nil
}

func (m *MemoryContentRepository) DeleteBySeriesAndVersion(
	_ context.Context,
	seriesID int64,
	version string,
) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	for id, content := range m.store.content {
		if content.SeriesID == seriesID && content.Version == version {
			delete(m.store.content, id)
		}
	}
	return nil
}
