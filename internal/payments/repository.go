package payments

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrPaymentNotFound is returned when no payment matches a session id.
var ErrPaymentNotFound = errors.New("payment not found")

// Repository persists checkout sessions and their settlement state.
type Repository interface {
	CreatePending(ctx context.Context, p *Payment) error
	GetBySessionID(ctx context.Context, sessionID string) (*Payment, error)
	// MarkPaid transitions the payment for sessionID to paid. Returns true
	// only on the pending→paid transition, so callers can fire one-shot
	// side effects (operator notification) idempotently.
	MarkPaid(ctx context.Context, sessionID string, amountCents int64, currency string) (bool, error)
	MarkExpired(ctx context.Context, sessionID string) error
}

type db interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresRepository stores payments in the relational database.
type PostgresRepository struct {
	db db
}

// NewPostgresRepository initializes a repo backed by a pgx pool (or a mock
// in tests).
func NewPostgresRepository(db db) *PostgresRepository {
	if db == nil {
		panic("payments: pgx pool required")
	}
	return &PostgresRepository{db: db}
}

// CreatePending inserts a pending payment row for a freshly created session.
func (r *PostgresRepository) CreatePending(ctx context.Context, p *Payment) error {
	query := `
		INSERT INTO payments (id, session_id, service_package, customer_name,
			customer_email, units, amount_cents, currency, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`
	if err := r.db.QueryRow(ctx, query,
		p.ID,
		p.SessionID,
		p.ServicePackage,
		p.CustomerName,
		p.CustomerEmail,
		p.Units,
		p.AmountCents,
		p.Currency,
		StatusPending,
	).Scan(&p.CreatedAt); err != nil {
		return fmt.Errorf("payments: insert failed: %w", err)
	}
	p.Status = StatusPending
	return nil
}

// GetBySessionID fetches a payment by its Stripe session id.
func (r *PostgresRepository) GetBySessionID(ctx context.Context, sessionID string) (*Payment, error) {
	query := `
		SELECT id, session_id, service_package, customer_name, customer_email,
		       units, amount_cents, currency, status, created_at
		FROM payments
		WHERE session_id = $1
	`
	row := r.db.QueryRow(ctx, query, sessionID)
	var p Payment
	if err := row.Scan(
		&p.ID,
		&p.SessionID,
		&p.ServicePackage,
		&p.CustomerName,
		&p.CustomerEmail,
		&p.Units,
		&p.AmountCents,
		&p.Currency,
		&p.Status,
		&p.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("payments: select failed: %w", err)
	}
	return &p, nil
}

// MarkPaid flips the pending row to paid. The WHERE status filter makes the
// transition first-writer-wins under concurrent polls.
func (r *PostgresRepository) MarkPaid(ctx context.Context, sessionID string, amountCents int64, currency string) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE payments
		SET status = $2, amount_cents = $3, currency = $4
		WHERE session_id = $1 AND status = $5
	`, sessionID, StatusPaid, amountCents, currency, StatusPending)
	if err != nil {
		return false, fmt.Errorf("payments: mark paid: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// MarkExpired records that the session lapsed without payment.
func (r *PostgresRepository) MarkExpired(ctx context.Context, sessionID string) error {
	if _, err := r.db.Exec(ctx, `
		UPDATE payments SET status = $2 WHERE session_id = $1 AND status = $3
	`, sessionID, StatusExpired, StatusPending); err != nil {
		return fmt.Errorf("payments: mark expired: %w", err)
	}
	return nil
}

// InMemoryRepository is a Repository backed by a map, used in tests and
// local development without Postgres.
type InMemoryRepository struct {
	mu        sync.Mutex
	bySession map[string]*Payment
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{bySession: make(map[string]*Payment)}
}

// CreatePending stores a pending payment.
func (r *InMemoryRepository) CreatePending(ctx context.Context, p *Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.Status = StatusPending
	copied := *p
	r.bySession[p.SessionID] = &copied
	return nil
}

// GetBySessionID fetches a payment.
func (r *InMemoryRepository) GetBySessionID(ctx context.Context, sessionID string) (*Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.bySession[sessionID]
	if !ok {
		return nil, ErrPaymentNotFound
	}
	copied := *p
	return &copied, nil
}

// MarkPaid transitions pending→paid.
func (r *InMemoryRepository) MarkPaid(ctx context.Context, sessionID string, amountCents int64, currency string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.bySession[sessionID]
	if !ok || p.Status != StatusPending {
		return false, nil
	}
	p.Status = StatusPaid
	p.AmountCents = amountCents
	p.Currency = currency
	return true, nil
}

// MarkExpired transitions pending→expired.
func (r *InMemoryRepository) MarkExpired(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.bySession[sessionID]; ok && p.Status == StatusPending {
		p.Status = StatusExpired
	}
	return nil
}
