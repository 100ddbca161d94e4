package leads

import (
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func TestPostgresCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	lead := NewLead(&CreateLeadRequest{Email: "VIP@Example.com", Name: "Dana"}, "15%", 30*24*time.Hour)
	created := time.Now().UTC()

	mock.ExpectQuery("INSERT INTO leads").
		WithArgs(lead.ID, lead.Email, lead.Name, lead.Phone, lead.CouponCode, lead.Discount, lead.ExpiresAt, false).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(created))

	repo := NewPostgresRepository(mock)
	if err := repo.Create(t.Context(), lead); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !lead.CreatedAt.Equal(created) {
		t.Errorf("expected created_at backfilled, got %v", lead.CreatedAt)
	}
	if lead.Email != "vip@example.com" {
		t.Errorf("expected email normalized, got %q", lead.Email)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestPostgresGetByEmail_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery("SELECT id, email").
		WithArgs("nobody@example.com").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "email", "name", "phone", "coupon_code", "discount", "created_at", "expires_at", "used",
		}))

	repo := NewPostgresRepository(mock)
	if _, err := repo.GetByEmail(t.Context(), "nobody@example.com"); err != ErrLeadNotFound {
		t.Errorf("expected ErrLeadNotFound, got %v", err)
	}
}

func TestPostgresStats(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery("SELECT count").
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"count", "used", "recent"}).AddRow(10, 4, 3))

	repo := NewPostgresRepository(mock)
	stats, err := repo.Stats(t.Context(), 7*24*time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalLeads != 10 || stats.UsedCoupons != 4 || stats.RecentLeads != 3 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if stats.ConversionRate != "40.0%" {
		t.Errorf("expected 40.0%% conversion, got %q", stats.ConversionRate)
	}
}
