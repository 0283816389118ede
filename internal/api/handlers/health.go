package handlers

import (
	"net/http"

	"github.com/villarosa-rentals/backend/internal/api/middleware"
	"github.com/villarosa-rentals/backend/internal/storage"
	"github.com/villarosa-rentals/backend/internal/websocket"
)

// HealthResponse is the health check response.
type HealthResponse struct {
	Status      string `json:"status"`
	DBConnected bool   `json:"db_connected"`
}

// HealthCheck reports service health.
func HealthCheck(db *storage.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dbConnected := db.Ping() == nil

		status := "healthy"
		code := http.StatusOK
		if !dbConnected {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		writeJSON(w, code, HealthResponse{Status: status, DBConnected: dbConnected})
	}
}

// StatusResponse summarizes system state for the admin dashboard.
type StatusResponse struct {
	PropertiesCount   int    `json:"properties_count"`
	EventsCount       int    `json:"events_count"`
	ConfirmedBookings int    `json:"confirmed_bookings"`
	ConnectedClients  int    `json:"connected_clients"`
	LastSyncAt        string `json:"last_sync_at,omitempty"`
}

// Status reports aggregate counts for the admin dashboard.
func Status(db *storage.DB, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var response StatusResponse
		counts := []struct {
			query string
			dest  *int
		}{
			{"SELECT COUNT(*) FROM properties", &response.PropertiesCount},
			{"SELECT COUNT(*) FROM calendar_events", &response.EventsCount},
			{"SELECT COUNT(*) FROM bookings WHERE status = 'confirmed'", &response.ConfirmedBookings},
		}
		for _, c := range counts {
			if err := db.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
				middleware.WriteError(w, http.StatusServiceUnavailable, middleware.ErrInternalError, "Failed to query status counts")
				return
			}
		}

		var lastSync *string
		if err := db.QueryRowContext(ctx, "SELECT MAX(ical_last_sync) FROM properties").Scan(&lastSync); err != nil {
			middleware.WriteError(w, http.StatusServiceUnavailable, middleware.ErrInternalError, "Failed to query last sync")
			return
		}
		if lastSync != nil {
			response.LastSyncAt = *lastSync
		}

		if hub != nil {
			response.ConnectedClients = hub.ClientCount()
		}

		writeJSON(w, http.StatusOK, response)
	}
}
