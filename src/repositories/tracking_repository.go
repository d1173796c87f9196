package repositories

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/trackline/tracking-api/src/models"
)

const trackingColumns = `
  id, tracking_number, ship_date, delivery_date, estimated_delivery_date,
  recipient_name, recipient_phone, destination, origin, status, service`

// PgTrackingRepository stores tracking records in PostgreSQL
type PgTrackingRepository struct {
	pool *pgxpool.Pool
}

// NewPgTrackingRepository creates a new tracking repository
func NewPgTrackingRepository(pool *pgxpool.Pool) *PgTrackingRepository {
	return &PgTrackingRepository{pool: pool}
}

// Create inserts the record and refreshes it with the stored values.
// A duplicate tracking number yields an error matching ErrUniqueViolation.
func (r *PgTrackingRepository) Create(ctx context.Context, t *models.Tracking) error {
	row := r.pool.QueryRow(ctx, `
INSERT INTO trackings (
  tracking_number, ship_date, delivery_date, estimated_delivery_date,
  recipient_name, recipient_phone, destination, origin, status, service
)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
RETURNING`+trackingColumns,
		t.TrackingNumber, t.ShipDate, t.DeliveryDate, t.EstimatedDeliveryDate,
		t.RecipientName, t.RecipientPhone, t.Destination, t.Origin, t.Status, t.Service,
	)
	if err := scanTracking(row, t); err != nil {
		return fmt.Errorf("failed to insert tracking: %w", translateError(err))
	}
	return nil
}

// GetByTrackingNumber returns ErrNotFound when nothing matches exactly
func (r *PgTrackingRepository) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*models.Tracking, error) {
	row := r.pool.QueryRow(ctx, `SELECT`+trackingColumns+` FROM trackings WHERE tracking_number = $1`, trackingNumber)

	var t models.Tracking
	if err := scanTracking(row, &t); err != nil {
		return nil, translateError(err)
	}
	return &t, nil
}

// List returns every record ordered by id
func (r *PgTrackingRepository) List(ctx context.Context) ([]*models.Tracking, error) {
	return r.query(ctx, `SELECT`+trackingColumns+` FROM trackings ORDER BY id`)
}

// SearchByTrackingNumber matches fragment as a literal, case-sensitive substring
func (r *PgTrackingRepository) SearchByTrackingNumber(ctx context.Context, fragment string) ([]*models.Tracking, error) {
	return r.query(ctx,
		`SELECT`+trackingColumns+` FROM trackings WHERE tracking_number LIKE $1 ESCAPE '\' ORDER BY id`,
		"%"+escapeLike(fragment)+"%",
	)
}

// Update applies the non-nil fields of patch. An empty patch reads the
// current row. Returns ErrNotFound when no record has that number.
func (r *PgTrackingRepository) Update(ctx context.Context, trackingNumber string, patch models.TrackingPatch) (*models.Tracking, error) {
	if patch.IsEmpty() {
		return r.GetByTrackingNumber(ctx, trackingNumber)
	}

	var (
		sets []string
		args []any
	)
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.ShipDate != nil {
		set("ship_date", *patch.ShipDate)
	}
	if patch.DeliveryDate != nil {
		set("delivery_date", *patch.DeliveryDate)
	}
	if patch.EstimatedDeliveryDate != nil {
		set("estimated_delivery_date", *patch.EstimatedDeliveryDate)
	}
	if patch.RecipientName != nil {
		set("recipient_name", *patch.RecipientName)
	}
	if patch.RecipientPhone != nil {
		set("recipient_phone", *patch.RecipientPhone)
	}
	if patch.Destination != nil {
		set("destination", *patch.Destination)
	}
	if patch.Origin != nil {
		set("origin", *patch.Origin)
	}
	if patch.Status != nil {
		set("status", *patch.Status)
	}
	if patch.Service != nil {
		set("service", *patch.Service)
	}

	args = append(args, trackingNumber)
	query := fmt.Sprintf(`UPDATE trackings SET %s WHERE tracking_number = $%d RETURNING`+trackingColumns,
		strings.Join(sets, ", "), len(args))

	var t models.Tracking
	if err := scanTracking(r.pool.QueryRow(ctx, query, args...), &t); err != nil {
		return nil, translateError(err)
	}
	return &t, nil
}

// Delete reports whether a row was removed
func (r *PgTrackingRepository) Delete(ctx context.Context, trackingNumber string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM trackings WHERE tracking_number = $1`, trackingNumber)
	if err != nil {
		return false, fmt.Errorf("failed to delete tracking: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PgTrackingRepository) query(ctx context.Context, sql string, args ...any) ([]*models.Tracking, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trackings: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Tracking, 0)
	for rows.Next() {
		var t models.Tracking
		if err := scanTracking(rows, &t); err != nil {
			return nil, fmt.Errorf("failed to scan tracking: %w", err)
		}
		out = append(out, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trackings: %w", err)
	}
	return out, nil
}

func scanTracking(row pgx.Row, t *models.Tracking) error {
	return row.Scan(
		&t.ID, &t.TrackingNumber, &t.ShipDate, &t.DeliveryDate, &t.EstimatedDeliveryDate,
		&t.RecipientName, &t.RecipientPhone, &t.Destination, &t.Origin, &t.Status, &t.Service,
	)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var _ TrackingRepository = (*PgTrackingRepository)(nil)
