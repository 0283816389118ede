// Package api provides HTTP routing and handlers for the REST API.
package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/villarosa-rentals/backend/internal/api/handlers"
	"github.com/villarosa-rentals/backend/internal/api/middleware"
	"github.com/villarosa-rentals/backend/internal/calendar"
	"github.com/villarosa-rentals/backend/internal/metrics"
	"github.com/villarosa-rentals/backend/internal/storage"
	"github.com/villarosa-rentals/backend/internal/websocket"
)

// Services bundles the constructed services the routes depend on.
type Services struct {
	DB           *storage.DB
	Properties   *storage.PropertyRepository
	Events       *storage.EventRepository
	Bookings     *storage.BookingRepository
	Sync         *calendar.SyncService
	Availability *calendar.AvailabilityService
	Fetcher      *calendar.Fetcher
	Hub          *websocket.Hub
}

// NewRouter creates and configures the HTTP router with all API routes.
func NewRouter(s Services, staticDir string) *mux.Router {
	r := mux.NewRouter()

	r.Use(middleware.Logging)
	r.Use(middleware.ErrorRecovery)
	r.Use(metrics.Middleware)

	r.Handle("/metrics", metrics.Handler()).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Health and status
	api.HandleFunc("/health", handlers.HealthCheck(s.DB)).Methods("GET")
	api.HandleFunc("/status", handlers.Status(s.DB, s.Hub)).Methods("GET")

	// WebSocket
	api.HandleFunc("/ws", handlers.WebSocketUpgrade(s.Hub)).Methods("GET")

	// Properties
	api.HandleFunc("/properties", handlers.ListProperties(s.Properties)).Methods("GET")
	api.HandleFunc("/properties", handlers.CreateProperty(s.Properties)).Methods("POST")
	api.HandleFunc("/properties/{slug}", handlers.GetProperty(s.Properties)).Methods("GET")
	api.HandleFunc("/properties/{id}", handlers.UpdateProperty(s.Properties)).Methods("PUT")
	api.HandleFunc("/properties/{id}", handlers.DeleteProperty(s.Properties)).Methods("DELETE")

	// Property photos
	api.HandleFunc("/properties/{id}/photos", handlers.ListPropertyPhotos(s.DB)).Methods("GET")
	api.HandleFunc("/properties/{id}/photos", handlers.AddPropertyPhoto(s.DB)).Methods("POST")
	api.HandleFunc("/photos/{id}", handlers.DeletePropertyPhoto(s.DB)).Methods("DELETE")

	// Calendar events
	api.HandleFunc("/properties/{id}/events", handlers.ListPropertyEvents(s.Events)).Methods("GET")
	api.HandleFunc("/properties/{id}/events", handlers.CreateManualBlock(s.Properties, s.Events)).Methods("POST")
	api.HandleFunc("/properties/{id}/events/classify", handlers.ClassifyPropertyDay(s.Events)).Methods("GET")
	api.HandleFunc("/events/{id}", handlers.DeleteManualBlock(s.Events)).Methods("DELETE")

	// Availability
	api.HandleFunc("/properties/{id}/availability", handlers.CheckAvailability(s.Availability)).Methods("GET")

	// Sync
	api.HandleFunc("/properties/{slug}/sync", handlers.SyncProperty(s.Sync, s.Hub)).Methods("POST")
	api.HandleFunc("/sync", handlers.SyncAllProperties(s.Sync, s.Hub)).Methods("POST")
	api.HandleFunc("/ical/proxy", handlers.ICalProxy(s.Fetcher)).Methods("POST")

	// Bookings
	api.HandleFunc("/bookings", handlers.CreateBooking(s.Properties, s.Bookings, s.Availability, s.Hub)).Methods("POST")
	api.HandleFunc("/bookings", handlers.ListBookings(s.Bookings)).Methods("GET")
	api.HandleFunc("/bookings/{id}", handlers.CancelBooking(s.Bookings)).Methods("DELETE")

	// Blog
	api.HandleFunc("/blog", handlers.ListBlogPosts(s.DB)).Methods("GET")
	api.HandleFunc("/blog", handlers.CreateBlogPost(s.DB)).Methods("POST")
	api.HandleFunc("/blog/{slug}", handlers.GetBlogPost(s.DB)).Methods("GET")
	api.HandleFunc("/blog/{id}", handlers.UpdateBlogPost(s.DB)).Methods("PUT")
	api.HandleFunc("/blog/{id}", handlers.DeleteBlogPost(s.DB)).Methods("DELETE")

	// Settings
	api.HandleFunc("/settings", handlers.GetSettings(s.DB)).Methods("GET")
	api.HandleFunc("/settings", handlers.UpdateSettings(s.DB)).Methods("PUT")

	// Static frontend
	r.PathPrefix("/").Handler(http.FileServer(http.Dir(staticDir)))

	return r
}
