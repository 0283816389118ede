package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/villarosa-rentals/backend/internal/api/middleware"
	"github.com/villarosa-rentals/backend/internal/calendar"
	"github.com/villarosa-rentals/backend/internal/storage"
	"github.com/villarosa-rentals/backend/internal/storage/models"
	"github.com/villarosa-rentals/backend/internal/websocket"
)

// BookingRequest is the body for creating a booking.
type BookingRequest struct {
	PropertyID string `json:"property_id"`
	GuestName  string `json:"guest_name"`
	GuestEmail string `json:"guest_email"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
}

// CreateBooking records a confirmed booking after re-checking the dates
// are still free, blocking them with a booking-sourced calendar event.
func CreateBooking(
	properties *storage.PropertyRepository,
	bookings *storage.BookingRepository,
	availability *calendar.AvailabilityService,
	hub *websocket.Hub,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BookingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}
		if req.PropertyID == "" || req.GuestName == "" || req.GuestEmail == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "property_id, guest_name and guest_email are required")
			return
		}
		if !isValidDate(req.CheckIn) || !isValidDate(req.CheckOut) {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "check_in and check_out must be YYYY-MM-DD dates")
			return
		}
		if req.CheckIn >= req.CheckOut {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "check_out must be after check_in")
			return
		}

		property, err := properties.GetByID(r.Context(), req.PropertyID)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query property")
			return
		}
		if property == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Property not found")
			return
		}

		available, reason, err := availability.IsRangeAvailable(r.Context(), req.PropertyID, req.CheckIn, req.CheckOut)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to check availability")
			return
		}
		if !available {
			middleware.WriteError(w, http.StatusConflict, middleware.ErrConflict, reason)
			return
		}

		booking := &models.Booking{
			PropertyID: req.PropertyID,
			GuestName:  req.GuestName,
			GuestEmail: req.GuestEmail,
			CheckIn:    req.CheckIn,
			CheckOut:   req.CheckOut,
		}
		if err := bookings.Create(r.Context(), booking); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to create booking")
			return
		}

		if hub != nil {
			websocket.NewEventBroadcaster(hub).BroadcastBookingCreated(*booking)
		}

		writeJSON(w, http.StatusCreated, booking)
	}
}

// ListBookings returns bookings, optionally limited to ?property_id=.
func ListBookings(bookings *storage.BookingRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := bookings.List(r.Context(), r.URL.Query().Get("property_id"))
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query bookings")
			return
		}
		if list == nil {
			list = []models.Booking{}
		}

		writeJSON(w, http.StatusOK, list)
	}
}

// CancelBooking cancels a booking and frees its dates.
func CancelBooking(bookings *storage.BookingRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		booking, err := bookings.GetByID(r.Context(), id)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query booking")
			return
		}
		if booking == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Booking not found")
			return
		}

		if err := bookings.Cancel(r.Context(), id); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to cancel booking")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
