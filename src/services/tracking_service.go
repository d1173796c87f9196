package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/trackline/tracking-api/src/logging"
	"github.com/trackline/tracking-api/src/models"
	"github.com/trackline/tracking-api/src/repositories"
)

// Cache is the byte-oriented cache used for tracking lookups.
// SetNX stores value only when key is absent and reports whether it did.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
}

// CreateTrackingInput carries the client-supplied fields of a new record.
// Nil ShipDate defaults to the creation time.
type CreateTrackingInput struct {
	ShipDate              *time.Time
	DeliveryDate          *time.Time
	EstimatedDeliveryDate *time.Time
	RecipientName         string
	RecipientPhone        string
	Destination           string
	Origin                string
	Status                string
	Service               string
}

// TrackingService implements tracking record use cases on top of the store
type TrackingService struct {
	repo     repositories.TrackingRepository
	cache    Cache
	cacheTTL time.Duration
	generate TrackingNumberGenerator
	now      func() time.Time
	logger   zerolog.Logger
}

// TrackingOption configures a TrackingService
type TrackingOption func(*TrackingService)

// WithCache enables read-through caching of lookups by tracking number
func WithCache(cache Cache, ttl time.Duration) TrackingOption {
	return func(s *TrackingService) {
		s.cache = cache
		s.cacheTTL = ttl
	}
}

// WithGenerator replaces the tracking number generator
func WithGenerator(gen TrackingNumberGenerator) TrackingOption {
	return func(s *TrackingService) {
		s.generate = gen
	}
}

// WithClock replaces the clock used for default ship dates
func WithClock(now func() time.Time) TrackingOption {
	return func(s *TrackingService) {
		s.now = now
	}
}

// NewTrackingService creates a new tracking service
func NewTrackingService(repo repositories.TrackingRepository, opts ...TrackingOption) *TrackingService {
	s := &TrackingService{
		repo:     repo,
		generate: GenerateTrackingNumber,
		now:      time.Now,
		logger:   logging.NewLogger("tracking"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// deletedMarker occupies the key of a removed record so a lookup that read
// the row before the delete cannot repopulate it.
var deletedMarker = []byte("deleted")

func cacheKey(trackingNumber string) string {
	return "tracking:" + trackingNumber
}

// Create validates in, assigns a fresh tracking number and stores the record
func (s *TrackingService) Create(ctx context.Context, in CreateTrackingInput) (*models.Tracking, error) {
	if missing := missingFields(in); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrValidation, strings.Join(missing, ", "))
	}

	number, err := s.generate()
	if err != nil {
		return nil, err
	}

	shipDate := s.now().UTC()
	if in.ShipDate != nil {
		shipDate = *in.ShipDate
	}

	tracking := &models.Tracking{
		TrackingNumber:        number,
		ShipDate:              shipDate,
		DeliveryDate:          in.DeliveryDate,
		EstimatedDeliveryDate: in.EstimatedDeliveryDate,
		RecipientName:         in.RecipientName,
		RecipientPhone:        in.RecipientPhone,
		Destination:           in.Destination,
		Origin:                in.Origin,
		Status:                in.Status,
		Service:               in.Service,
	}

	if err := s.repo.Create(ctx, tracking); err != nil {
		if errors.Is(err, repositories.ErrUniqueViolation) {
			var ce *repositories.ConstraintError
			constraint := ""
			if errors.As(err, &ce) {
				constraint = ce.Constraint
			}
			s.logger.Warn().
				Str("tracking_number", number).
				Str("constraint", constraint).
				Msg("tracking number collision")
			return nil, fmt.Errorf("%w: %v", ErrConflict, err)
		}
		return nil, fmt.Errorf("failed to create tracking: %w", err)
	}

	return tracking, nil
}

// Get looks a record up by exact tracking number, consulting the cache first
func (s *TrackingService) Get(ctx context.Context, trackingNumber string) (*models.Tracking, error) {
	if cached := s.fromCache(ctx, trackingNumber); cached != nil {
		return cached, nil
	}

	tracking, err := s.repo.GetByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTrackingNotFound
		}
		return nil, fmt.Errorf("failed to get tracking: %w", err)
	}

	s.fillCache(ctx, tracking)
	return tracking, nil
}

// List returns every record ordered by id
func (s *TrackingService) List(ctx context.Context) ([]*models.Tracking, error) {
	trackings, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list trackings: %w", err)
	}
	return trackings, nil
}

// Search returns records whose tracking number contains fragment (case-sensitive)
func (s *TrackingService) Search(ctx context.Context, fragment string) ([]*models.Tracking, error) {
	trackings, err := s.repo.SearchByTrackingNumber(ctx, fragment)
	if err != nil {
		return nil, fmt.Errorf("failed to search trackings: %w", err)
	}
	return trackings, nil
}

// Update applies patch to the record. The tracking number and id never change.
func (s *TrackingService) Update(ctx context.Context, trackingNumber string, patch models.TrackingPatch) (*models.Tracking, error) {
	if empty := emptyPatchFields(patch); len(empty) > 0 {
		return nil, fmt.Errorf("%w: empty %s", ErrValidation, strings.Join(empty, ", "))
	}

	tracking, err := s.repo.Update(ctx, trackingNumber, patch)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTrackingNotFound
		}
		return nil, fmt.Errorf("failed to update tracking: %w", err)
	}

	s.storeCache(ctx, tracking)
	return tracking, nil
}

// Delete removes the record, returning ErrTrackingNotFound when nothing matched
func (s *TrackingService) Delete(ctx context.Context, trackingNumber string) error {
	deleted, err := s.repo.Delete(ctx, trackingNumber)
	if err != nil {
		return fmt.Errorf("failed to delete tracking: %w", err)
	}

	if !deleted {
		return ErrTrackingNotFound
	}

	s.markDeleted(ctx, trackingNumber)
	return nil
}

func (s *TrackingService) fromCache(ctx context.Context, trackingNumber string) *models.Tracking {
	if s.cache == nil {
		return nil
	}

	data, ok, err := s.cache.Get(ctx, cacheKey(trackingNumber))
	if err != nil {
		s.logger.Warn().Err(err).Str("tracking_number", trackingNumber).Msg("cache read failed")
		return nil
	}
	if !ok || bytes.Equal(data, deletedMarker) {
		return nil
	}

	var tracking models.Tracking
	if err := json.Unmarshal(data, &tracking); err != nil {
		s.logger.Warn().Err(err).Str("tracking_number", trackingNumber).Msg("discarding corrupt cache entry")
		return nil
	}
	return &tracking
}

// fillCache populates a missed key without replacing anything written
// meanwhile by Update or Delete.
func (s *TrackingService) fillCache(ctx context.Context, tracking *models.Tracking) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(tracking)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode tracking for cache")
		return
	}
	if _, err := s.cache.SetNX(ctx, cacheKey(tracking.TrackingNumber), data, s.cacheTTL); err != nil {
		s.logger.Warn().Err(err).Str("tracking_number", tracking.TrackingNumber).Msg("cache write failed")
	}
}

// storeCache overwrites the cached copy with the committed record
func (s *TrackingService) storeCache(ctx context.Context, tracking *models.Tracking) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(tracking)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode tracking for cache")
		s.invalidate(ctx, tracking.TrackingNumber)
		return
	}
	if err := s.cache.Set(ctx, cacheKey(tracking.TrackingNumber), data, s.cacheTTL); err != nil {
		s.logger.Warn().Err(err).Str("tracking_number", tracking.TrackingNumber).Msg("cache write failed")
		s.invalidate(ctx, tracking.TrackingNumber)
	}
}

func (s *TrackingService) markDeleted(ctx context.Context, trackingNumber string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(trackingNumber), deletedMarker, s.cacheTTL); err != nil {
		s.logger.Warn().Err(err).Str("tracking_number", trackingNumber).Msg("cache write failed")
		s.invalidate(ctx, trackingNumber)
	}
}

func (s *TrackingService) invalidate(ctx context.Context, trackingNumber string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cacheKey(trackingNumber)); err != nil {
		s.logger.Warn().Err(err).Str("tracking_number", trackingNumber).Msg("cache invalidation failed")
	}
}

func missingFields(in CreateTrackingInput) []string {
	var missing []string
	required := []struct {
		name  string
		value string
	}{
		{"recipientName", in.RecipientName},
		{"recipientPhone", in.RecipientPhone},
		{"destination", in.Destination},
		{"origin", in.Origin},
		{"status", in.Status},
		{"service", in.Service},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

func emptyPatchFields(p models.TrackingPatch) []string {
	var empty []string
	fields := []struct {
		name  string
		value *string
	}{
		{"recipientName", p.RecipientName},
		{"recipientPhone", p.RecipientPhone},
		{"destination", p.Destination},
		{"origin", p.Origin},
		{"status", p.Status},
		{"service", p.Service},
	}
	for _, f := range fields {
		if f.value != nil && strings.TrimSpace(*f.value) == "" {
			empty = append(empty, f.name)
		}
	}
	return empty
}
