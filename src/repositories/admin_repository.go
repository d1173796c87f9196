package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/trackline/tracking-api/src/models"
)

// PgAdminRepository reads admin credentials from PostgreSQL
type PgAdminRepository struct {
	pool *pgxpool.Pool
}

// NewPgAdminRepository creates a new admin repository
func NewPgAdminRepository(pool *pgxpool.Pool) *PgAdminRepository {
	return &PgAdminRepository{pool: pool}
}

// GetByUsername returns ErrNotFound when no admin has that username
func (r *PgAdminRepository) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	admin := &models.Admin{}
	err := r.pool.QueryRow(ctx,
		"SELECT id, username, password FROM admins WHERE username = $1",
		username,
	).Scan(&admin.ID, &admin.Username, &admin.PasswordHash)
	if err != nil {
		return nil, translateError(err)
	}
	return admin, nil
}

// Create inserts an admin and fills in the assigned ID
func (r *PgAdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	err := r.pool.QueryRow(ctx,
		"INSERT INTO admins (username, password) VALUES ($1, $2) RETURNING id",
		admin.Username, admin.PasswordHash,
	).Scan(&admin.ID)
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", translateError(err))
	}
	return nil
}

// Count returns the number of stored admins
func (r *PgAdminRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM admins").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count admins: %w", err)
	}
	return count, nil
}

var _ AdminRepository = (*PgAdminRepository)(nil)
