package calendar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const testFeed = `BEGIN:VCALENDAR
BEGIN:VEVENT
UID:test@airbnb.com
SUMMARY:Reserved
DTSTART;VALUE=DATE:20241220
DTEND;VALUE=DATE:20241225
END:VEVENT
END:VCALENDAR`

func TestFetcher_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testFeed))
	}))
	defer server.Close()

	result := NewFetcher(5 * time.Second).Fetch(context.Background(), server.URL)
	if !result.Success {
		t.Fatalf("expected success, got error %q", result.Error)
	}
	if len(result.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(result.Events))
	}
	if result.Events[0].StartDate != "2024-12-20" {
		t.Errorf("unexpected start date: %s", result.Events[0].StartDate)
	}
}

func TestFetcher_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "calendar disabled", http.StatusForbidden)
	}))
	defer server.Close()

	result := NewFetcher(5 * time.Second).Fetch(context.Background(), server.URL)
	if result.Success {
		t.Fatal("expected failure for 403 response")
	}
	if !strings.Contains(result.Error, "403") {
		t.Errorf("error should carry the status code: %q", result.Error)
	}
	if !strings.Contains(result.Error, "calendar disabled") {
		t.Errorf("error should carry the server message: %q", result.Error)
	}
}

func TestFetcher_NetworkErrorReturned(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	result := NewFetcher(time.Second).Fetch(context.Background(), server.URL)
	if result.Success {
		t.Fatal("expected failure for unreachable host")
	}
	if result.Error == "" {
		t.Error("failure result should carry the transport error")
	}
}

func TestFetcher_EmptyFeedIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("BEGIN:VCALENDAR\nEND:VCALENDAR"))
	}))
	defer server.Close()

	result := NewFetcher(5 * time.Second).Fetch(context.Background(), server.URL)
	if !result.Success {
		t.Fatalf("feed with no bookings should succeed, got %q", result.Error)
	}
	if len(result.Events) != 0 {
		t.Errorf("expected no events, got %d", len(result.Events))
	}
}

func TestFetchText_ProxyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testFeed))
	}))
	defer server.Close()

	body, err := NewFetcher(5*time.Second).FetchText(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body != testFeed {
		t.Error("proxy body should be the raw feed text")
	}
}
