package catalog

import (
	"encoding/json"
	"net/http"

	"github.com/snatchedbeauties/booking-platform/pkg/logging"
)

// Handler serves the public service catalog.
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a catalog handler.
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

type listResponse struct {
	Services map[string]ServiceOffering `json:"services"`
}

// ListServices handles GET /api/services.
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list services", "error", err)
		http.Error(w, "failed to load services", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(listResponse{Services: services})
}
