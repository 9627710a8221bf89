package repository

import (
	"context"
	"sync"

	usersDomain "github.com/allisson/keywhiz/internal/users/domain"
)

// MemoryUserRepository is an in-memory user repository used by tests.
type MemoryUserRepository struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*usersDomain.User
}

// NewMemoryUserRepository creates an empty in-memory user repository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[int64]*usersDomain.User)}
}

// Create stores a new user, enforcing username uniqueness.
func (m *MemoryUserRepository) Create(_ context.Context, user *usersDomain.User) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.Username == user.Username {
			return 0, usersDomain.ErrUserExists
		}
	}

	m.nextID++
	stored := *user
	stored.ID = m.nextID
	m.users[stored.ID] = &stored

	return stored.ID, nil
}

// GetByID retrieves a user by its id.
func (m *MemoryUserRepository) GetByID(_ context.Context, id int64) (*usersDomain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok {
		return nil, usersDomain.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

// GetByUsername retrieves a user by its unique username.
func (m *MemoryUserRepository) GetByUsername(_ context.Context, username string) (*usersDomain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, user := range m.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, usersDomain.ErrUserNotFound
}

// List retrieves every user in id order.
func (m *MemoryUserRepository) List(_ context.Context) ([]*usersDomain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	result := make([]*usersDomain.User, 0, len(m.users))
	for id := int64(1); id <= m.nextID; id++ {
		if user, ok := m.users[id]; ok {
			copied := *user
			result = append(result, &copied)
		}
	}
	return result, nil
}

// DeleteByUsername deletes a user by username. Succeeds silently when absent.
func (m *MemoryUserRepository) DeleteByUsername(_ context.Context, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, user := range m.users {
		if user.Username == username {
			delete(m.users, id)
			return nil
		}
	}
	return nil
}
