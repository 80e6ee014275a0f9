package orderboard

import (
	"testing"
	"time"
)

func TestHubRegisterBroadcastUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	// create fake client
	client := &Client{
		Send: make(chan []byte, 10),
	}

	// register client
	hub.Register(client)

	data := []byte(`{"type":"order-placed","orderId":"ORDtest"}`)
	hub.Broadcast(data)

	select {
	case got := <-client.Send:
		if string(got) != string(data) {
			t.Fatalf("expected %s, got %s", data, got)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for message")
	}

	// unregister client
	hub.Unregister(client)
}

func TestHubSkipsSlowClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	slow := &Client{Send: make(chan []byte)} // unbuffered, never read
	fast := &Client{Send: make(chan []byte, 10)}

	hub.Register(slow)
	hub.Register(fast)

	data := []byte(`{"type":"order-status"}`)
	hub.Broadcast(data)

	select {
	case got := <-fast.Send:
		if string(got) != string(data) {
			t.Fatalf("expected %s, got %s", data, got)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("fast client starved by slow client")
	}
}

func TestHubUnregisterAfterStop(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{Send: make(chan []byte, 10)}
	hub.Register(client)
	hub.Stop()

	// A client disconnecting after shutdown must not hang its read loop.
	released := make(chan struct{})
	go func() {
		hub.Unregister(client)
		close(released)
	}()

	select {
	case <-released:
	case <-time.After(1 * time.Second):
		t.Fatal("Unregister blocked after Stop")
	}
}
