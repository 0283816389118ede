package websocket

import (
	"testing"
	"time"
)

func waitForClientCount(t *testing.T, hub *Hub, want int) {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for hub.ClientCount() != want {
		select {
		case <-deadline:
			t.Fatalf("client count = %d, want %d", hub.ClientCount(), want)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := NewClient(hub)
	hub.Register(client)
	waitForClientCount(t, hub, 1)

	hub.Unregister(client)
	waitForClientCount(t, hub, 0)

	if _, ok := <-client.Send(); ok {
		t.Error("unregistered client's channel should be closed")
	}
}

func TestHub_BroadcastReachesClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := NewClient(hub)
	hub.Register(client)
	waitForClientCount(t, hub, 1)

	hub.Broadcast([]byte("update"))

	select {
	case msg := <-client.Send():
		if string(msg) != "update" {
			t.Errorf("unexpected message: %q", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast never delivered")
	}
}

// A client that stops draining its buffer gets dropped on broadcast.
// Concurrent ClientCount readers must stay safe while that happens.
func TestHub_BroadcastDropsStalledClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	healthy := NewClient(hub)
	stalled := NewClient(hub)
	hub.Register(healthy)
	hub.Register(stalled)
	waitForClientCount(t, hub, 2)

	for len(stalled.send) < cap(stalled.send) {
		stalled.send <- []byte("backlog")
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			hub.ClientCount()
		}
	}()

	hub.Broadcast([]byte("update"))

	waitForClientCount(t, hub, 1)
	<-done

	select {
	case msg, ok := <-healthy.Send():
		if !ok {
			t.Fatal("healthy client's channel was closed")
		}
		if string(msg) != "update" {
			t.Errorf("unexpected message: %q", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("healthy client never received the broadcast")
	}
}
