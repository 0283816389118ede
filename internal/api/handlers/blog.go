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

// BlogPostRequest is the create/update body for a blog post.
type BlogPostRequest struct {
	Title   string `json:"title"`
	Slug    string `json:"slug"`
	Excerpt string `json:"excerpt"`
	Content string `json:"content"`
	Author  string `json:"author"`
	Status  string `json:"status"`
}

const blogColumns = `id, title, slug, excerpt, content, author, status, published_at, created_at, updated_at`

// ListBlogPosts returns blog posts, published only unless ?all=1.
func ListBlogPosts(db *storage.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := `SELECT ` + blogColumns + ` FROM blog_posts`
		if r.URL.Query().Get("all") != "1" {
			query += ` WHERE status = 'published'`
		}
		query += ` ORDER BY published_at DESC, created_at DESC`

		rows, err := db.QueryContext(r.Context(), query)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query posts")
			return
		}
		defer rows.Close()

		var posts []models.BlogPost
		for rows.Next() {
			var p models.BlogPost
			if err := rows.Scan(&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content,
				&p.Author, &p.Status, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
				middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to scan post")
				return
			}
			posts = append(posts, p)
		}
		if posts == nil {
			posts = []models.BlogPost{}
		}

		writeJSON(w, http.StatusOK, posts)
	}
}

// GetBlogPost returns a single post by slug.
func GetBlogPost(db *storage.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := mux.Vars(r)["slug"]

		var p models.BlogPost
		err := db.QueryRowContext(r.Context(),
			`SELECT `+blogColumns+` FROM blog_posts WHERE slug = ?`, slug,
		).Scan(&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content,
			&p.Author, &p.Status, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Post not found")
			return
		}

		writeJSON(w, http.StatusOK, p)
	}
}

// CreateBlogPost adds a new blog post. Publishing stamps published_at.
func CreateBlogPost(db *storage.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BlogPostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}
		if req.Title == "" || req.Slug == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Title and slug are required")
			return
		}
		if req.Status == "" {
			req.Status = models.PostStatusDraft
		}
		if req.Status != models.PostStatusDraft && req.Status != models.PostStatusPublished {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Status must be draft or published")
			return
		}

		now := time.Now().UTC()
		post := models.BlogPost{
			ID:        storage.GenerateID(),
			Title:     req.Title,
			Slug:      req.Slug,
			Excerpt:   req.Excerpt,
			Content:   req.Content,
			Author:    req.Author,
			Status:    req.Status,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if post.Status == models.PostStatusPublished {
			post.PublishedAt = &now
		}

		_, err := db.ExecContext(r.Context(), `
			INSERT INTO blog_posts (id, title, slug, excerpt, content, author, status, published_at, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, post.ID, post.Title, post.Slug, post.Excerpt, post.Content,
			post.Author, post.Status, post.PublishedAt, post.CreatedAt, post.UpdatedAt)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to create post")
			return
		}

		writeJSON(w, http.StatusCreated, post)
	}
}

// UpdateBlogPost updates an existing post. A draft moving to published
// gets its published_at stamped; an already-published post keeps its
// original timestamp.
func UpdateBlogPost(db *storage.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		var req BlogPostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		var currentStatus string
		var publishedAt *time.Time
		err := db.QueryRowContext(r.Context(),
			"SELECT status, published_at FROM blog_posts WHERE id = ?", id,
		).Scan(&currentStatus, &publishedAt)
		if err != nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Post not found")
			return
		}

		now := time.Now().UTC()
		if req.Status == models.PostStatusPublished && publishedAt == nil {
			publishedAt = &now
		}

		_, err = db.ExecContext(r.Context(), `
			UPDATE blog_posts SET
				title = ?, slug = ?, excerpt = ?, content = ?, author = ?,
				status = ?, published_at = ?, updated_at = ?
			WHERE id = ?
		`, req.Title, req.Slug, req.Excerpt, req.Content, req.Author,
			req.Status, publishedAt, now, id)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to update post")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// DeleteBlogPost removes a post.
func DeleteBlogPost(db *storage.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		result, err := db.ExecContext(r.Context(), "DELETE FROM blog_posts WHERE id = ?", id)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to delete post")
			return
		}

		rowsAffected, _ := result.RowsAffected()
		if rowsAffected == 0 {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Post not found")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
