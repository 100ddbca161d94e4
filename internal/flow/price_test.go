package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snatchedbeauties/booking-platform/internal/catalog"
)

func TestTotal_UnitBased(t *testing.T) {
	svc := &catalog.ServiceOffering{ID: "fat_dissolve_injections", Price: 10, UnitBased: true}

	assert.Equal(t, "$30", Total(svc, 3))
	assert.Equal(t, "$10", Total(svc, 1))
	// Nonsense unit counts fall back to a single unit.
	assert.Equal(t, "$10", Total(svc, 0))
	assert.Equal(t, "$10", Total(svc, -2))
}

func TestTotal_FlatPriceIgnoresUnits(t *testing.T) {
	svc := &catalog.ServiceOffering{ID: "wood_therapy", Price: 110}

	assert.Equal(t, "$110", Total(svc, 1))
	assert.Equal(t, "$110", Total(svc, 7))
}

func TestTotal_VariablePricing(t *testing.T) {
	svc := &catalog.ServiceOffering{ID: "weight_loss_program", VariablePricing: true}

	assert.Equal(t, "Consultation Required", Total(svc, 1))
	assert.Equal(t, "Consultation Required", Total(svc, 12))
}

func TestTotal_Complimentary(t *testing.T) {
	svc := &catalog.ServiceOffering{ID: "consultation", Price: 0}

	assert.Equal(t, "Complimentary", Total(svc, 1))
}

func TestTotal_CentsKeepDecimals(t *testing.T) {
	svc := &catalog.ServiceOffering{ID: "addon", Price: 49.99}

	assert.Equal(t, "$49.99", Total(svc, 1))
}

func TestTotal_NilService(t *testing.T) {
	require.Empty(t, Total(nil, 3))
}

func TestFormatSettledAmount(t *testing.T) {
	assert.Equal(t, "$30.00 USD", FormatSettledAmount(3000, "usd"))
	assert.Equal(t, "$135.00 USD", FormatSettledAmount(13500, ""))
	assert.Equal(t, "$1.50 EUR", FormatSettledAmount(150, "eur"))
}
