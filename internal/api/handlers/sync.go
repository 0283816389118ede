package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/villarosa-rentals/backend/internal/api/middleware"
	"github.com/villarosa-rentals/backend/internal/calendar"
	"github.com/villarosa-rentals/backend/internal/websocket"
)

// SyncProperty triggers a sync pass for one property and returns its
// result. A sync failure is still a 200: the outcome lives in the result
// body so batch-style callers see one consistent shape.
func SyncProperty(syncService *calendar.SyncService, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := mux.Vars(r)["slug"]

		result := syncService.SyncProperty(r.Context(), slug)

		if hub != nil {
			websocket.NewEventBroadcaster(hub).BroadcastSyncResult(result)
		}

		writeJSON(w, http.StatusOK, result)
	}
}

// SyncAllProperties triggers a batch sync across every property with a
// feed URL and returns the per-property results.
func SyncAllProperties(syncService *calendar.SyncService, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		results := syncService.SyncAll(r.Context())

		if hub != nil {
			broadcaster := websocket.NewEventBroadcaster(hub)
			for _, result := range results {
				broadcaster.BroadcastSyncResult(result)
			}
		}

		writeJSON(w, http.StatusOK, results)
	}
}

// ProxyRequest is the body for the iCal proxy endpoint.
type ProxyRequest struct {
	URL string `json:"url"`
}

// ProxyResponse carries the fetched feed body.
type ProxyResponse struct {
	Data string `json:"data"`
}

// ICalProxy fetches a remote feed on behalf of browser-side callers,
// which cannot reach third-party calendar hosts cross-origin.
func ICalProxy(fetcher *calendar.Fetcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ProxyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}
		if req.URL == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "url is required")
			return
		}

		data, err := fetcher.FetchText(r.Context(), req.URL)
		if err != nil {
			middleware.WriteError(w, http.StatusBadGateway, middleware.ErrInternalError, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, ProxyResponse{Data: data})
	}
}
