package mock

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/trackline/tracking-api/src/models"
	"github.com/trackline/tracking-api/src/repositories"
)

// TrackingRepository is a mock implementation of repositories.TrackingRepository.
// Without overrides it behaves as an in-memory store with a unique
// tracking number index.
type TrackingRepository struct {
	CreateFunc                 func(ctx context.Context, tracking *models.Tracking) error
	GetByTrackingNumberFunc    func(ctx context.Context, trackingNumber string) (*models.Tracking, error)
	ListFunc                   func(ctx context.Context) ([]*models.Tracking, error)
	SearchByTrackingNumberFunc func(ctx context.Context, fragment string) ([]*models.Tracking, error)
	UpdateFunc                 func(ctx context.Context, trackingNumber string, patch models.TrackingPatch) (*models.Tracking, error)
	DeleteFunc                 func(ctx context.Context, trackingNumber string) (bool, error)

	// Call tracking
	Calls map[string][]interface{}

	mu        sync.Mutex
	trackings map[string]*models.Tracking
	nextID    int64
}

// NewTrackingRepository creates a new mock tracking repository
func NewTrackingRepository() *TrackingRepository {
	return &TrackingRepository{
		Calls:     make(map[string][]interface{}),
		trackings: make(map[string]*models.Tracking),
	}
}

// TotalCalls returns the number of repository calls of any kind
func (m *TrackingRepository) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, calls := range m.Calls {
		total += len(calls)
	}
	return total
}

func (m *TrackingRepository) record(method string, arg interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls[method] = append(m.Calls[method], arg)
}

func (m *TrackingRepository) Create(ctx context.Context, tracking *models.Tracking) error {
	m.record("Create", tracking)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tracking)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.trackings[tracking.TrackingNumber]; exists {
		return &repositories.ConstraintError{Constraint: "trackings_tracking_number_key"}
	}
	m.nextID++
	tracking.ID = m.nextID
	m.trackings[tracking.TrackingNumber] = clone(tracking)
	return nil
}

func (m *TrackingRepository) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*models.Tracking, error) {
	m.record("GetByTrackingNumber", trackingNumber)
	if m.GetByTrackingNumberFunc != nil {
		return m.GetByTrackingNumberFunc(ctx, trackingNumber)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.trackings[trackingNumber]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return clone(t), nil
}

func (m *TrackingRepository) List(ctx context.Context) ([]*models.Tracking, error) {
	m.record("List", nil)
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return m.filter(func(*models.Tracking) bool { return true }), nil
}

func (m *TrackingRepository) SearchByTrackingNumber(ctx context.Context, fragment string) ([]*models.Tracking, error) {
	m.record("SearchByTrackingNumber", fragment)
	if m.SearchByTrackingNumberFunc != nil {
		return m.SearchByTrackingNumberFunc(ctx, fragment)
	}
	return m.filter(func(t *models.Tracking) bool {
		return strings.Contains(t.TrackingNumber, fragment)
	}), nil
}

func (m *TrackingRepository) Update(ctx context.Context, trackingNumber string, patch models.TrackingPatch) (*models.Tracking, error) {
	m.record("Update", trackingNumber)
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, trackingNumber, patch)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.trackings[trackingNumber]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if patch.ShipDate != nil {
		t.ShipDate = *patch.ShipDate
	}
	if patch.DeliveryDate != nil {
		t.DeliveryDate = *patch.DeliveryDate
	}
	if patch.EstimatedDeliveryDate != nil {
		t.EstimatedDeliveryDate = *patch.EstimatedDeliveryDate
	}
	setString(&t.RecipientName, patch.RecipientName)
	setString(&t.RecipientPhone, patch.RecipientPhone)
	setString(&t.Destination, patch.Destination)
	setString(&t.Origin, patch.Origin)
	setString(&t.Status, patch.Status)
	setString(&t.Service, patch.Service)
	return clone(t), nil
}

func (m *TrackingRepository) Delete(ctx context.Context, trackingNumber string) (bool, error) {
	m.record("Delete", trackingNumber)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, trackingNumber)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trackings[trackingNumber]; !ok {
		return false, nil
	}
	delete(m.trackings, trackingNumber)
	return true, nil
}

func (m *TrackingRepository) filter(keep func(*models.Tracking) bool) []*models.Tracking {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Tracking, 0, len(m.trackings))
	for _, t := range m.trackings {
		if keep(t) {
			out = append(out, clone(t))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func clone(t *models.Tracking) *models.Tracking {
	cp := *t
	return &cp
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// Ensure TrackingRepository implements the interface
var _ repositories.TrackingRepository = (*TrackingRepository)(nil)
