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

// PhotoRequest is the body for adding a property photo.
type PhotoRequest struct {
	URL          string `json:"url"`
	Caption      string `json:"caption"`
	DisplayOrder int    `json:"display_order"`
}

// ListPropertyPhotos returns a property's gallery ordered for display.
func ListPropertyPhotos(db *storage.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID := mux.Vars(r)["id"]

		rows, err := db.QueryContext(r.Context(), `
			SELECT id, property_id, url, caption, display_order, created_at
			FROM property_photos WHERE property_id = ?
			ORDER BY display_order, created_at
		`, propertyID)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query photos")
			return
		}
		defer rows.Close()

		var photos []models.PropertyPhoto
		for rows.Next() {
			var p models.PropertyPhoto
			if err := rows.Scan(&p.ID, &p.PropertyID, &p.URL, &p.Caption,
				&p.DisplayOrder, &p.CreatedAt); err != nil {
				middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to scan photo")
				return
			}
			photos = append(photos, p)
		}
		if photos == nil {
			photos = []models.PropertyPhoto{}
		}

		writeJSON(w, http.StatusOK, photos)
	}
}

// AddPropertyPhoto appends a photo to a property's gallery.
func AddPropertyPhoto(db *storage.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID := mux.Vars(r)["id"]

		var req PhotoRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}
		if req.URL == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "url is required")
			return
		}

		var exists int
		err := db.QueryRowContext(r.Context(),
			"SELECT COUNT(*) FROM properties WHERE id = ?", propertyID).Scan(&exists)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query property")
			return
		}
		if exists == 0 {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Property not found")
			return
		}

		photo := models.PropertyPhoto{
			ID:           storage.GenerateID(),
			PropertyID:   propertyID,
			URL:          req.URL,
			Caption:      req.Caption,
			DisplayOrder: req.DisplayOrder,
			CreatedAt:    time.Now().UTC(),
		}

		_, err = db.ExecContext(r.Context(), `
			INSERT INTO property_photos (id, property_id, url, caption, display_order, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, photo.ID, photo.PropertyID, photo.URL, photo.Caption,
			photo.DisplayOrder, photo.CreatedAt)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to create photo")
			return
		}

		writeJSON(w, http.StatusCreated, photo)
	}
}

// DeletePropertyPhoto removes a photo from a gallery.
func DeletePropertyPhoto(db *storage.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		result, err := db.ExecContext(r.Context(), "DELETE FROM property_photos WHERE id = ?", id)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to delete photo")
			return
		}

		rowsAffected, _ := result.RowsAffected()
		if rowsAffected == 0 {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Photo not found")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
