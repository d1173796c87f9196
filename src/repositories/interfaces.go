package repositories

import (
	"context"

	"github.com/trackline/tracking-api/src/models"
)

// AdminRepository defines the interface for admin credential access
type AdminRepository interface {
	GetByUsername(ctx context.Context, username string) (*models.Admin, error)

	// Provisioning only; not reachable over HTTP
	Create(ctx context.Context, admin *models.Admin) error
	Count(ctx context.Context) (int, error)
}

// TrackingRepository defines the interface for tracking record access
type TrackingRepository interface {
	Create(ctx context.Context, tracking *models.Tracking) error
	GetByTrackingNumber(ctx context.Context, trackingNumber string) (*models.Tracking, error)
	List(ctx context.Context) ([]*models.Tracking, error)
	SearchByTrackingNumber(ctx context.Context, fragment string) ([]*models.Tracking, error)
	Update(ctx context.Context, trackingNumber string, patch models.TrackingPatch) (*models.Tracking, error)
	Delete(ctx context.Context, trackingNumber string) (bool, error)
}
