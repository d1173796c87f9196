package mock

import (
	"context"
	"sync"

	"github.com/trackline/tracking-api/src/models"
	"github.com/trackline/tracking-api/src/repositories"
)

// AdminRepository is a mock implementation of repositories.AdminRepository.
// Without overrides it behaves as an in-memory store.
type AdminRepository struct {
	// Function stubs that can be overridden in tests
	GetByUsernameFunc func(ctx context.Context, username string) (*models.Admin, error)
	CreateFunc        func(ctx context.Context, admin *models.Admin) error
	CountFunc         func(ctx context.Context) (int, error)

	// Call tracking
	Calls map[string][]interface{}

	mu     sync.Mutex
	admins map[string]*models.Admin
	nextID int64
}

// NewAdminRepository creates a new mock admin repository
func NewAdminRepository() *AdminRepository {
	return &AdminRepository{
		Calls:  make(map[string][]interface{}),
		admins: make(map[string]*models.Admin),
	}
}

func (m *AdminRepository) record(method string, arg interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls[method] = append(m.Calls[method], arg)
}

func (m *AdminRepository) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	m.record("GetByUsername", username)
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	admin, ok := m.admins[username]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *admin
	return &cp, nil
}

func (m *AdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	m.record("Create", admin)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, admin)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.admins[admin.Username]; exists {
		return &repositories.ConstraintError{Constraint: "admins_username_key"}
	}
	m.nextID++
	admin.ID = m.nextID
	cp := *admin
	m.admins[admin.Username] = &cp
	return nil
}

func (m *AdminRepository) Count(ctx context.Context) (int, error) {
	m.record("Count", nil)
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.admins), nil
}

// Ensure AdminRepository implements the interface
var _ repositories.AdminRepository = (*AdminRepository)(nil)
