package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/villarosa-rentals/backend/internal/api/middleware"
	"github.com/villarosa-rentals/backend/internal/calendar"
)

// AvailabilityResponse answers the booking widget's range check.
type AvailabilityResponse struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// CheckAvailability reports whether ?check_in=&check_out= is free for
// the property. The checkout day itself is not blocked, so a range
// starting on another stay's checkout is available.
func CheckAvailability(availability *calendar.AvailabilityService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID := mux.Vars(r)["id"]
		checkIn := r.URL.Query().Get("check_in")
		checkOut := r.URL.Query().Get("check_out")

		if !isValidDate(checkIn) || !isValidDate(checkOut) {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "check_in and check_out must be YYYY-MM-DD dates")
			return
		}
		if checkIn >= checkOut {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "check_out must be after check_in")
			return
		}

		available, reason, err := availability.IsRangeAvailable(r.Context(), propertyID, checkIn, checkOut)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to check availability")
			return
		}

		writeJSON(w, http.StatusOK, AvailabilityResponse{Available: available, Reason: reason})
	}
}
