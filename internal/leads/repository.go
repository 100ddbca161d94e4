package leads

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for lead storage
type Repository interface {
	// Create stores a new lead. The caller has already generated the coupon.
	Create(ctx context.Context, lead *Lead) error
	// GetByEmail returns the lead previously captured for email, or
	// ErrLeadNotFound.
	GetByEmail(ctx context.Context, email string) (*Lead, error)
	// List returns all leads, newest first.
	List(ctx context.Context) ([]*Lead, error)
	// Stats aggregates totals for the admin dashboard.
	Stats(ctx context.Context, recentWindow time.Duration) (*Stats, error)
}

// InMemoryRepository is a Repository backed by a map, used in tests and
// local development without Postgres.
type InMemoryRepository struct {
	mu      sync.RWMutex
	byEmail map[string]*Lead
	order   []string
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{byEmail: make(map[string]*Lead)}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create stores the lead keyed by normalized email.
func (r *InMemoryRepository) Create(ctx context.Context, lead *Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := normalizeEmail(lead.Email)
	if _, exists := r.byEmail[key]; !exists {
		r.order = append(r.order, key)
	}
	copied := *lead
	r.byEmail[key] = &copied
	return nil
}

// GetByEmail retrieves a lead by email.
func (r *InMemoryRepository) GetByEmail(ctx context.Context, email string) (*Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lead, ok := r.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, ErrLeadNotFound
	}
	copied := *lead
	return &copied, nil
}

// List returns all captured leads, newest first.
func (r *InMemoryRepository) List(ctx context.Context) ([]*Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Lead, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		copied := *r.byEmail[r.order[i]]
		out = append(out, &copied)
	}
	return out, nil
}

// Stats aggregates lead counts.
func (r *InMemoryRepository) Stats(ctx context.Context, recentWindow time.Duration) (*Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &Stats{}
	cutoff := time.Now().UTC().Add(-recentWindow)
	for _, lead := range r.byEmail {
		stats.TotalLeads++
		if lead.Used {
			stats.UsedCoupons++
		}
		if lead.CreatedAt.After(cutoff) {
			stats.RecentLeads++
		}
	}
	stats.ConversionRate = conversionRate(stats.UsedCoupons, stats.TotalLeads)
	return stats, nil
}

// NewLead builds a Lead with a fresh coupon for the given request.
func NewLead(req *CreateLeadRequest, discount string, validity time.Duration) *Lead {
	now := time.Now().UTC()
	return &Lead{
		ID:         uuid.NewString(),
		Email:      normalizeEmail(req.Email),
		Name:       strings.TrimSpace(req.Name),
		Phone:      strings.TrimSpace(req.Phone),
		CouponCode: GenerateCouponCode(),
		Discount:   discount,
		CreatedAt:  now,
		ExpiresAt:  now.Add(validity),
	}
}
