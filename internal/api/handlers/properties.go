// Package handlers provides HTTP request handlers for the API endpoints.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/villarosa-rentals/backend/internal/api/middleware"
	"github.com/villarosa-rentals/backend/internal/storage"
	"github.com/villarosa-rentals/backend/internal/storage/models"
)

// PropertyRequest is the create/update body for a property.
type PropertyRequest struct {
	Name         string  `json:"name"`
	Slug         string  `json:"slug"`
	Description  string  `json:"description"`
	Location     string  `json:"location"`
	AirbnbURL    *string `json:"airbnb_url"`
	ICalURL      *string `json:"ical_url"`
	Featured     bool    `json:"featured"`
	Active       bool    `json:"active"`
	DisplayOrder int     `json:"display_order"`
}

// ListProperties returns all properties; active listings only unless
// ?all=1 is given.
func ListProperties(properties *storage.PropertyRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		activeOnly := r.URL.Query().Get("all") != "1"

		list, err := properties.List(r.Context(), activeOnly)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query properties")
			return
		}
		if list == nil {
			list = []models.Property{}
		}

		writeJSON(w, http.StatusOK, list)
	}
}

// GetProperty returns a single property by slug.
func GetProperty(properties *storage.PropertyRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := mux.Vars(r)["slug"]

		property, err := properties.GetBySlug(r.Context(), slug)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query property")
			return
		}
		if property == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Property not found")
			return
		}

		writeJSON(w, http.StatusOK, property)
	}
}

// CreateProperty adds a new property.
func CreateProperty(properties *storage.PropertyRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PropertyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}
		if req.Name == "" || req.Slug == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Name and slug are required")
			return
		}

		property := &models.Property{
			Name:         req.Name,
			Slug:         req.Slug,
			Description:  req.Description,
			Location:     req.Location,
			AirbnbURL:    req.AirbnbURL,
			ICalURL:      req.ICalURL,
			Featured:     req.Featured,
			Active:       req.Active,
			DisplayOrder: req.DisplayOrder,
		}
		if err := properties.Create(r.Context(), property); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to create property")
			return
		}

		writeJSON(w, http.StatusCreated, property)
	}
}

// UpdateProperty updates an existing property.
func UpdateProperty(properties *storage.PropertyRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		existing, err := properties.GetByID(r.Context(), id)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query property")
			return
		}
		if existing == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Property not found")
			return
		}

		var req PropertyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}
		if req.Name == "" || req.Slug == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Name and slug are required")
			return
		}

		existing.Name = req.Name
		existing.Slug = req.Slug
		existing.Description = req.Description
		existing.Location = req.Location
		existing.AirbnbURL = req.AirbnbURL
		existing.ICalURL = req.ICalURL
		existing.Featured = req.Featured
		existing.Active = req.Active
		existing.DisplayOrder = req.DisplayOrder

		if err := properties.Update(r.Context(), existing); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to update property")
			return
		}

		writeJSON(w, http.StatusOK, existing)
	}
}

// DeleteProperty removes a property and, via cascade, its events and
// bookings.
func DeleteProperty(properties *storage.PropertyRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		if err := properties.Delete(r.Context(), id); err != nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Property not found")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// isValidDate reports whether s is a well-formed ISO YYYY-MM-DD date.
func isValidDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}
