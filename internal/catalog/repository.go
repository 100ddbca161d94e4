package catalog

import (
	"context"
	"errors"
	"sort"
)

// ErrServiceNotFound is returned when a service id is not in the catalog.
var ErrServiceNotFound = errors.New("service not found")

// Repository defines read access to the service catalog.
type Repository interface {
	Get(ctx context.Context, id string) (*ServiceOffering, error)
	List(ctx context.Context) (map[string]ServiceOffering, error)
}

// StaticRepository serves a fixed catalog. The treatment menu is marketing
// content that changes a few times a year, so it ships with the binary
// rather than living in the database.
type StaticRepository struct {
	services map[string]ServiceOffering
}

// NewStaticRepository creates a repository over the given offerings keyed by id.
func NewStaticRepository(offerings []ServiceOffering) *StaticRepository {
	services := make(map[string]ServiceOffering, len(offerings))
	for _, o := range offerings {
		services[o.ID] = o
	}
	return &StaticRepository{services: services}
}

// DefaultOfferings is the studio's current treatment menu.
func DefaultOfferings() []ServiceOffering {
	return []ServiceOffering{
		{
			ID:          "ultrasonic_cavitation",
			Name:        "Ultrasonic Cavitation",
			Description: "Break down stubborn fat with advanced, non-invasive technology that targets and eliminates fat cells.",
			Duration:    60,
			Price:       150,
		},
		{
			ID:          "ems_body_sculpting",
			Name:        "EMS Body Sculpting",
			Description: "Boost muscle tone and strength with electrical muscle stimulation for a sculpted physique.",
			Duration:    45,
			Price:       120,
		},
		{
			ID:          "vacuum_therapy_bbl",
			Name:        "Vacuum Therapy BBL",
			Description: "Lift and shape your buttocks with cutting-edge vacuum sculpting techniques.",
			Duration:    60,
			Price:       180,
		},
		{
			ID:          "radio_frequency",
			Name:        "Radio Frequency (RF)",
			Description: "Skin tightening, wrinkle reduction, and body contouring using electromagnetic waves.",
			Duration:    45,
			Price:       140,
		},
		{
			ID:          "lymphatic_massage",
			Name:        "Lymphatic Massage",
			Description: "Gentle massage stimulating the lymphatic system, perfect for post-op care and detox.",
			Duration:    60,
			Price:       100,
		},
		{
			ID:          "wood_therapy",
			Name:        "Wood Therapy",
			Description: "Vigorous massage using wooden tools to break down fat and reduce cellulite naturally.",
			Duration:    60,
			Price:       110,
		},
		{
			ID:          "fat_dissolve_injections",
			Name:        "Fat Dissolve Injections",
			Description: "Naturally eliminate unwanted fat through targeted injection therapies.",
			Duration:    30,
			Price:       45,
			UnitBased:   true,
		},
		{
			ID:              "weight_loss_program",
			Name:            "Weight Loss Programs",
			Description:     "FDA-approved personalized plans to help you achieve and maintain your ideal weight.",
			Duration:        30,
			VariablePricing: true,
		},
		{
			ID:          "consultation",
			Name:        "Initial Consultation",
			Description: "Meet with our specialist to map out your body goals and treatment plan.",
			Duration:    30,
			Price:       0,
		},
	}
}

// Get returns the offering for id.
func (r *StaticRepository) Get(ctx context.Context, id string) (*ServiceOffering, error) {
	svc, ok := r.services[id]
	if !ok {
		return nil, ErrServiceNotFound
	}
	return &svc, nil
}

// Exists reports whether id is in the catalog.
func (r *StaticRepository) Exists(ctx context.Context, id string) bool {
	_, ok := r.services[id]
	return ok
}

// List returns the full catalog keyed by service id.
func (r *StaticRepository) List(ctx context.Context) (map[string]ServiceOffering, error) {
	out := make(map[string]ServiceOffering, len(r.services))
	for id, svc := range r.services {
		out[id] = svc
	}
	return out, nil
}

// IDs returns the catalog's service ids in sorted order. Used by tests and
// the e2e script.
func (r *StaticRepository) IDs() []string {
	ids := make([]string, 0, len(r.services))
	for id := range r.services {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
