package sse

import (
	"strings"
	"testing"
	"time"
)

func TestBroker_PublishReachesSubscriber(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	ch := b.Subscribe()
	waitForClients(t, b, 1)

	b.PublishBuildFinished(3, 1)

	select {
	case msg := <-ch:
		s := string(msg)
		if !strings.Contains(s, "event: site.updated") {
			t.Errorf("unexpected event: %q", s)
		}
		if !strings.Contains(s, `"pages":3`) || !strings.Contains(s, `"skipped":1`) {
			t.Errorf("unexpected payload: %q", s)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestBroker_UnsubscribeClosesChannel(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	ch := b.Subscribe()
	waitForClients(t, b, 1)

	b.Unsubscribe(ch)
	waitForClients(t, b, 0)

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected closed channel")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed")
	}
}

func TestBroker_CloseIsIdempotent(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe()
	b.Close()
	b.Close()

	if _, ok := <-ch; ok {
		t.Error("expected closed client channel after Close")
	}
	if n := b.ClientCount(); n != 0 {
		t.Errorf("ClientCount = %d after Close", n)
	}
	// Publishing after Close must not panic or block.
	b.Publish(Event{Type: "noop"})
}

func waitForClients(t *testing.T, b *Broker, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if b.ClientCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("client count never reached %d", want)
}
