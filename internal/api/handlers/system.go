package handlers

import (
	"net/http"

	"github.com/rirwin/stock-analysis/internal/api/response"
	"github.com/rirwin/stock-analysis/internal/service"
)

// SystemHandler handles system-related HTTP requests
type SystemHandler struct {
	systemService *service.SystemService
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(systemService *service.SystemService) *SystemHandler {
	return &SystemHandler{
		systemService: systemService,
	}
}

// HealthResponse represents the health check response.
// The counts are only set when the database is reachable.
type HealthResponse struct {
	Status        string `json:"status"`
	Database      string `json:"database"`
	SchemaVersion int64  `json:"schema_version,omitempty"`
	Orders        int64  `json:"orders"`
	Prices        int64  `json:"prices"`
	Error         string `json:"error,omitempty"`
}

// Health checks database connectivity and reports what the store holds.
//
// Endpoint: GET /api/system/health
// Response: 200 OK with HealthResponse
// Error: 503 Service Unavailable if the database cannot be reached or read
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	unhealthy := func(err error) {
		response.RespondJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:   "unhealthy",
			Database: "disconnected",
			Error:    err.Error(),
		})
	}

	if err := h.systemService.CheckHealth(r.Context()); err != nil {
		unhealthy(err)
		return
	}

	status, err := h.systemService.Status(r.Context())
	if err != nil {
		unhealthy(err)
		return
	}

	response.RespondJSON(w, http.StatusOK, HealthResponse{
		Status:        "healthy",
		Database:      "connected",
		SchemaVersion: status.SchemaVersion,
		Orders:        status.Orders,
		Prices:        status.Prices,
	})
}
