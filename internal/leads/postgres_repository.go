package leads

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

type db interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresRepository stores leads in the relational database.
type PostgresRepository struct {
	db db
}

// NewPostgresRepository initializes a repo backed by a pgx pool (or a mock
// in tests).
func NewPostgresRepository(db db) *PostgresRepository {
	if db == nil {
		panic("leads: pgx pool required")
	}
	return &PostgresRepository{db: db}
}

// Create inserts a new row.
func (r *PostgresRepository) Create(ctx context.Context, lead *Lead) error {
	query := `
		INSERT INTO leads (id, email, name, phone, coupon_code, discount, expires_at, used)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`
	if err := r.db.QueryRow(ctx, query,
		lead.ID,
		lead.Email,
		lead.Name,
		lead.Phone,
		lead.CouponCode,
		lead.Discount,
		lead.ExpiresAt,
		lead.Used,
	).Scan(&lead.CreatedAt); err != nil {
		return fmt.Errorf("leads: insert failed: %w", err)
	}
	return nil
}

// GetByEmail fetches the lead for a normalized email address.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*Lead, error) {
	query := `
		SELECT id, email, name, phone, coupon_code, discount, created_at, expires_at, used
		FROM leads
		WHERE email = lower($1)
	`
	row := r.db.QueryRow(ctx, query, email)
	var lead Lead
	if err := row.Scan(
		&lead.ID,
		&lead.Email,
		&lead.Name,
		&lead.Phone,
		&lead.CouponCode,
		&lead.Discount,
		&lead.CreatedAt,
		&lead.ExpiresAt,
		&lead.Used,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("leads: select failed: %w", err)
	}
	return &lead, nil
}

// List returns all leads, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]*Lead, error) {
	query := `
		SELECT id, email, name, phone, coupon_code, discount, created_at, expires_at, used
		FROM leads
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("leads: list failed: %w", err)
	}
	defer rows.Close()

	var out []*Lead
	for rows.Next() {
		var lead Lead
		if err := rows.Scan(
			&lead.ID,
			&lead.Email,
			&lead.Name,
			&lead.Phone,
			&lead.CouponCode,
			&lead.Discount,
			&lead.CreatedAt,
			&lead.ExpiresAt,
			&lead.Used,
		); err != nil {
			return nil, fmt.Errorf("leads: scan failed: %w", err)
		}
		out = append(out, &lead)
	}
	return out, rows.Err()
}

// Stats aggregates totals in a single query.
func (r *PostgresRepository) Stats(ctx context.Context, recentWindow time.Duration) (*Stats, error) {
	query := `
		SELECT count(*),
		       count(*) FILTER (WHERE used),
		       count(*) FILTER (WHERE created_at >= $1)
		FROM leads
	`
	cutoff := time.Now().UTC().Add(-recentWindow)
	var stats Stats
	if err := r.db.QueryRow(ctx, query, cutoff).Scan(
		&stats.TotalLeads,
		&stats.UsedCoupons,
		&stats.RecentLeads,
	); err != nil {
		return nil, fmt.Errorf("leads: stats failed: %w", err)
	}
	stats.ConversionRate = conversionRate(stats.UsedCoupons, stats.TotalLeads)
	return &stats, nil
}
