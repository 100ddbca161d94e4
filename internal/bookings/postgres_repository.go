package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type db interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresRepository stores bookings in the relational database.
type PostgresRepository struct {
	db db
}

// NewPostgresRepository initializes a repo backed by a pgx pool (or a mock
// in tests).
func NewPostgresRepository(db db) *PostgresRepository {
	if db == nil {
		panic("bookings: pgx pool required")
	}
	return &PostgresRepository{db: db}
}

// Create inserts a new row.
func (r *PostgresRepository) Create(ctx context.Context, b *Booking) error {
	query := `
		INSERT INTO bookings (id, service_package, preferred_date, preferred_time,
			customer_name, customer_email, customer_phone, special_requests, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`
	if err := r.db.QueryRow(ctx, query,
		b.ID,
		b.ServicePackage,
		b.PreferredDate,
		b.PreferredTime,
		b.CustomerName,
		b.CustomerEmail,
		b.CustomerPhone,
		b.SpecialRequests,
		b.Status,
	).Scan(&b.CreatedAt); err != nil {
		return fmt.Errorf("bookings: insert failed: %w", err)
	}
	return nil
}

// GetByID fetches a booking.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	query := `
		SELECT id, service_package, preferred_date, preferred_time,
		       customer_name, customer_email, customer_phone, special_requests, status, created_at
		FROM bookings
		WHERE id = $1
	`
	row := r.db.QueryRow(ctx, query, id)
	var b Booking
	if err := row.Scan(
		&b.ID,
		&b.ServicePackage,
		&b.PreferredDate,
		&b.PreferredTime,
		&b.CustomerName,
		&b.CustomerEmail,
		&b.CustomerPhone,
		&b.SpecialRequests,
		&b.Status,
		&b.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("bookings: select failed: %w", err)
	}
	return &b, nil
}

// UpdateStatus sets the booking status.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.db.Exec(ctx, `UPDATE bookings SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("bookings: update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBookingNotFound
	}
	return nil
}
