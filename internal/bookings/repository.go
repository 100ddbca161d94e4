package bookings

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for booking storage
type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

// InMemoryRepository is a Repository backed by a map, used in tests and
// local development without Postgres.
type InMemoryRepository struct {
	mu       sync.RWMutex
	bookings map[string]*Booking
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{bookings: make(map[string]*Booking)}
}

// Create stores a booking.
func (r *InMemoryRepository) Create(ctx context.Context, b *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *b
	r.bookings[b.ID] = &copied
	return nil
}

// GetByID retrieves a booking.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

// UpdateStatus sets the booking status.
func (r *InMemoryRepository) UpdateStatus(ctx context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return ErrBookingNotFound
	}
	b.Status = status
	return nil
}

// NewBooking builds a pending Booking from a validated request.
func NewBooking(req *CreateBookingRequest) *Booking {
	return &Booking{
		ID:              uuid.NewString(),
		ServicePackage:  req.ServicePackage,
		PreferredDate:   req.PreferredDate,
		PreferredTime:   req.PreferredTime,
		CustomerName:    strings.TrimSpace(req.CustomerName),
		CustomerEmail:   strings.ToLower(strings.TrimSpace(req.CustomerEmail)),
		CustomerPhone:   strings.TrimSpace(req.CustomerPhone),
		SpecialRequests: req.SpecialRequests,
		Status:          StatusPending,
		CreatedAt:       time.Now().UTC(),
	}
}
