package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/villarosa-rentals/backend/internal/storage"
	"github.com/villarosa-rentals/backend/internal/storage/models"
)

func newTestDB(t *testing.T) *storage.DB {
	t.Helper()

	db, err := storage.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := storage.RunMigrations(db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	return db
}

func createTestProperty(t *testing.T, db *storage.DB, slug string) *models.Property {
	t.Helper()

	repo := storage.NewPropertyRepository(db)
	p := &models.Property{Name: "Test " + slug, Slug: slug, Active: true}
	if err := repo.Create(context.Background(), p); err != nil {
		t.Fatalf("creating property: %v", err)
	}
	return p
}

func addPhoto(t *testing.T, db *storage.DB, propertyID, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest("POST", "/api/properties/"+propertyID+"/photos", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"id": propertyID})
	rec := httptest.NewRecorder()
	AddPropertyPhoto(db)(rec, req)
	return rec
}

func TestPropertyPhotos_AddListDelete(t *testing.T) {
	db := newTestDB(t)
	property := createTestProperty(t, db, "villa-rosa")

	rec := addPhoto(t, db, property.ID, `{"url": "https://img.example.com/pool.jpg", "caption": "Pool", "display_order": 2}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add photo status = %d, body %s", rec.Code, rec.Body.String())
	}
	rec = addPhoto(t, db, property.ID, `{"url": "https://img.example.com/front.jpg", "caption": "Front", "display_order": 1}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add photo status = %d, body %s", rec.Code, rec.Body.String())
	}

	req := httptest.NewRequest("GET", "/api/properties/"+property.ID+"/photos", nil)
	req = mux.SetURLVars(req, map[string]string{"id": property.ID})
	rec = httptest.NewRecorder()
	ListPropertyPhotos(db)(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("list photos status = %d", rec.Code)
	}

	var photos []models.PropertyPhoto
	if err := json.Unmarshal(rec.Body.Bytes(), &photos); err != nil {
		t.Fatalf("decoding photos: %v", err)
	}
	if len(photos) != 2 {
		t.Fatalf("expected 2 photos, got %d", len(photos))
	}
	if photos[0].Caption != "Front" || photos[1].Caption != "Pool" {
		t.Errorf("photos not ordered for display: %s, %s", photos[0].Caption, photos[1].Caption)
	}

	req = httptest.NewRequest("DELETE", "/api/photos/"+photos[0].ID, nil)
	req = mux.SetURLVars(req, map[string]string{"id": photos[0].ID})
	rec = httptest.NewRecorder()
	DeletePropertyPhoto(db)(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete photo status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	DeletePropertyPhoto(db)(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("repeat delete status = %d, want 404", rec.Code)
	}
}

func TestAddPropertyPhoto_Validation(t *testing.T) {
	db := newTestDB(t)
	property := createTestProperty(t, db, "villa-rosa")

	if rec := addPhoto(t, db, property.ID, `{"caption": "no url"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("missing url status = %d, want 400", rec.Code)
	}
	if rec := addPhoto(t, db, "missing-id", `{"url": "https://img.example.com/x.jpg"}`); rec.Code != http.StatusNotFound {
		t.Errorf("unknown property status = %d, want 404", rec.Code)
	}
}

func TestPropertyPhotos_DeleteCascadesWithProperty(t *testing.T) {
	db := newTestDB(t)
	property := createTestProperty(t, db, "villa-rosa")

	ctx := context.Background()
	rec := addPhoto(t, db, property.ID, `{"url": "https://img.example.com/pool.jpg"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add photo status = %d", rec.Code)
	}

	if err := storage.NewPropertyRepository(db).Delete(ctx, property.ID); err != nil {
		t.Fatalf("deleting property: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM property_photos").Scan(&count); err != nil {
		t.Fatalf("counting photos: %v", err)
	}
	if count != 0 {
		t.Errorf("photos survived property deletion: %d left", count)
	}
}
