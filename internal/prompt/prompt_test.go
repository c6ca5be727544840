package prompt

import (
	"testing"
	"time"
)

func TestBridgeDeliversReply(t *testing.T) {
	b := NewBridge()

	go func() {
		req := <-b.Requests()
		if req.Label != "verification code" {
			t.Errorf("unexpected label %q", req.Label)
		}
		req.Reply <- "12345"
	}()

	value, ok := b.Ask("verification code")
	if !ok || value != "12345" {
		t.Fatalf("Ask = %q, %v", value, ok)
	}
}

func TestBridgeCancellation(t *testing.T) {
	b := NewBridge()

	go func() {
		req := <-b.Requests()
		close(req.Reply)
	}()

	done := make(chan struct{})
	var value string
	var ok bool
	go func() {
		value, ok = b.Ask("password")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Ask did not return after cancellation")
	}
	if ok || value != "" {
		t.Fatalf("cancelled prompt must yield an empty value, got %q, %v", value, ok)
	}
}
