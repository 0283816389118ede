package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/villarosa-rentals/backend/internal/api/middleware"
	"github.com/villarosa-rentals/backend/internal/calendar"
	"github.com/villarosa-rentals/backend/internal/storage"
	"github.com/villarosa-rentals/backend/internal/storage/models"
)

// ListPropertyEvents returns a property's calendar events ordered by
// start date, optionally limited to a ?start=&end= window.
func ListPropertyEvents(events *storage.EventRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID := mux.Vars(r)["id"]

		var rng *storage.DateRange
		start := r.URL.Query().Get("start")
		end := r.URL.Query().Get("end")
		if start != "" || end != "" {
			if !isValidDate(start) || !isValidDate(end) {
				middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "start and end must be YYYY-MM-DD dates")
				return
			}
			rng = &storage.DateRange{Start: start, End: end}
		}

		list, err := events.ListEvents(r.Context(), propertyID, rng)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query events")
			return
		}
		if list == nil {
			list = []models.CalendarEvent{}
		}

		writeJSON(w, http.StatusOK, list)
	}
}

// ManualBlockRequest is the body for creating a manual block.
type ManualBlockRequest struct {
	Title     string `json:"title"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// CreateManualBlock adds a manual blocked range to a property's calendar.
func CreateManualBlock(properties *storage.PropertyRepository, events *storage.EventRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID := mux.Vars(r)["id"]

		var req ManualBlockRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}
		if !isValidDate(req.StartDate) || !isValidDate(req.EndDate) {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "start_date and end_date must be YYYY-MM-DD dates")
			return
		}
		if req.StartDate >= req.EndDate {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "end_date must be after start_date")
			return
		}

		property, err := properties.GetByID(r.Context(), propertyID)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query property")
			return
		}
		if property == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Property not found")
			return
		}

		title := req.Title
		if title == "" {
			title = "Blocked"
		}

		event := &models.CalendarEvent{
			PropertyID: propertyID,
			Title:      title,
			StartDate:  req.StartDate,
			EndDate:    req.EndDate,
			Source:     models.SourceManual,
		}
		if err := events.AddEvent(r.Context(), event); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to create block")
			return
		}

		writeJSON(w, http.StatusCreated, event)
	}
}

// DeleteManualBlock removes a manually created block. Events owned by
// the sync or booking flows are refused with a conflict so the UI can
// tell "externally blocked" apart from "no block".
func DeleteManualBlock(events *storage.EventRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		event, err := events.GetEvent(r.Context(), id)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query event")
			return
		}
		if event == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Event not found")
			return
		}
		if event.Source != models.SourceManual {
			middleware.WriteError(w, http.StatusConflict, middleware.ErrConflict,
				fmt.Sprintf("Event is %s-sourced and cannot be removed here", event.Source))
			return
		}

		if err := events.RemoveEvent(r.Context(), id); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to delete event")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// ClassifyPropertyDay returns the rendering classification for one day
// of a property's calendar grid.
func ClassifyPropertyDay(events *storage.EventRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID := mux.Vars(r)["id"]
		date := r.URL.Query().Get("date")
		if !isValidDate(date) {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "date must be a YYYY-MM-DD date")
			return
		}

		list, err := events.ListEvents(r.Context(), propertyID, nil)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query events")
			return
		}

		writeJSON(w, http.StatusOK, calendar.ClassifyDay(date, list))
	}
}
