package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/trackline/tracking-api/src/logging"
	"github.com/trackline/tracking-api/src/models"
	"github.com/trackline/tracking-api/src/repositories"
	"golang.org/x/crypto/bcrypt"
)

// MinAdminPasswordLength is enforced when seeding an admin
const MinAdminPasswordLength = 8

// AdminService verifies admin credentials and provisions the initial admin
type AdminService struct {
	repo   repositories.AdminRepository
	cost   int
	logger zerolog.Logger
}

// NewAdminService creates a new admin service
func NewAdminService(repo repositories.AdminRepository) *AdminService {
	return &AdminService{
		repo:   repo,
		cost:   bcrypt.DefaultCost,
		logger: logging.NewLogger("admin"),
	}
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// equalizeTiming burns one bcrypt comparison so unknown usernames take as
// long as wrong passwords
func equalizeTiming(password string) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

// Authenticate verifies username and password.
// Unknown usernames and wrong passwords both return ErrInvalidCredentials.
func (as *AdminService) Authenticate(ctx context.Context, username, password string) (*models.Admin, error) {
	admin, err := as.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			equalizeTiming(password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up admin: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if admin.ID <= 0 {
		return nil, fmt.Errorf("admin %q has no identifier", admin.Username)
	}

	return admin, nil
}

// EnsureAdmin creates the given admin when no admin exists yet.
// Returns true if an admin was created.
func (as *AdminService) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	if len(username) < 1 || len(username) > 255 {
		return false, fmt.Errorf("%w: username must be between 1 and 255 characters", ErrValidation)
	}
	if len(password) < MinAdminPasswordLength {
		return false, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, MinAdminPasswordLength)
	}

	count, err := as.repo.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check admin users: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), as.cost)
	if err != nil {
		return false, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.Admin{Username: username, PasswordHash: string(hash)}
	if err := as.repo.Create(ctx, admin); err != nil {
		return false, fmt.Errorf("failed to create admin user: %w", err)
	}

	as.logger.Info().Int64("admin_id", admin.ID).Str("username", username).Msg("admin user created")
	return true, nil
}
