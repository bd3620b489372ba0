package events

import (
	"sync"
	"testing"
	"time"
)

// collector gathers events delivered on handler goroutines.
type collector struct {
	mu     sync.Mutex
	events []Event
}

func (c *collector) handle(e Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func (c *collector) wait(t *testing.T, n int) []Event {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		c.mu.Lock()
		got := len(c.events)
		c.mu.Unlock()
		if got >= n {
			c.mu.Lock()
			defer c.mu.Unlock()
			return append([]Event(nil), c.events...)
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d events", n)
	return nil
}

func TestBus_PublishSubscribe(t *testing.T) {
	bus := NewBus(16)
	defer bus.Close()

	var c collector
	bus.Subscribe(c.handle)

	bus.Publish(NewEvent(EventTaskCreated, TaskPayload{ID: "task_1", Text: "hello"}))

	got := c.wait(t, 1)
	if got[0].Type != EventTaskCreated {
		t.Errorf("type = %q, want %q", got[0].Type, EventTaskCreated)
	}
	payload, ok := got[0].Payload.(TaskPayload)
	if !ok || payload.ID != "task_1" {
		t.Errorf("payload = %#v", got[0].Payload)
	}
	if got[0].ID == "" || got[0].Timestamp.IsZero() {
		t.Error("events must carry an id and a timestamp")
	}
}

func TestBus_TypeFilter(t *testing.T) {
	bus := NewBus(16)
	defer bus.Close()

	var badges collector
	bus.Subscribe(badges.handle, EventBadgeUpdated)

	bus.Publish(NewEvent(EventTaskCreated, nil))
	bus.Publish(NewEvent(EventBadgeUpdated, BadgePayload{Count: 3}))
	bus.Publish(NewEvent(EventTaskTrashed, nil))

	badges.wait(t, 1)
	time.Sleep(20 * time.Millisecond)

	badges.mu.Lock()
	defer badges.mu.Unlock()
	if len(badges.events) != 1 || badges.events[0].Type != EventBadgeUpdated {
		t.Errorf("filtered subscriber saw %d events", len(badges.events))
	}
}

func TestBus_DeliveryOrder(t *testing.T) {
	bus := NewBus(64)
	defer bus.Close()

	var c collector
	bus.Subscribe(c.handle, EventBadgeUpdated)

	const n = 20
	for i := 0; i < n; i++ {
		bus.Publish(NewEvent(EventBadgeUpdated, BadgePayload{Count: i}))
	}

	got := c.wait(t, n)
	for i, e := range got {
		payload, ok := e.Payload.(BadgePayload)
		if !ok {
			t.Fatalf("event %d payload = %#v", i, e.Payload)
		}
		if payload.Count != i {
			t.Fatalf("event %d carried count %d, events must arrive in publish order", i, payload.Count)
		}
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus(16)
	defer bus.Close()

	var c collector
	unsubscribe := bus.Subscribe(c.handle)

	bus.Publish(NewEvent(EventTaskCreated, nil))
	c.wait(t, 1)

	unsubscribe()
	bus.Publish(NewEvent(EventTaskCreated, nil))
	time.Sleep(20 * time.Millisecond)

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.events) != 1 {
		t.Errorf("unsubscribed handler saw %d events, want 1", len(c.events))
	}
}

func TestBus_History(t *testing.T) {
	bus := NewBus(8)
	defer bus.Close()

	var c collector
	bus.Subscribe(c.handle)
	for i := 0; i < 3; i++ {
		bus.Publish(NewEvent(EventTaskCompleted, nil))
	}
	c.wait(t, 3)

	if got := bus.History(10); len(got) != 3 {
		t.Errorf("history = %d events, want 3", len(got))
	}
	if got := bus.History(2); len(got) != 2 {
		t.Errorf("limited history = %d events, want 2", len(got))
	}
}

func TestBus_PublishAfterClose(t *testing.T) {
	bus := NewBus(4)
	bus.Close()
	bus.Close() // double close is harmless

	// Must not panic or block.
	bus.Publish(NewEvent(EventTaskCreated, nil))
}

func TestRingBuffer_Wraps(t *testing.T) {
	rb := NewRingBuffer(3)
	for i := 0; i < 5; i++ {
		rb.Add(Event{ID: string(rune('a' + i))})
	}

	got := rb.Get(3)
	if len(got) != 3 {
		t.Fatalf("get = %d events, want 3", len(got))
	}
	// Oldest two were overwritten; order is oldest to newest.
	want := []string{"c", "d", "e"}
	for i := range want {
		if got[i].ID != want[i] {
			t.Errorf("get[%d] = %q, want %q", i, got[i].ID, want[i])
		}
	}

	if got := rb.Get(0); got != nil {
		t.Error("get(0) must return nil")
	}
	if got := rb.Get(10); len(got) != 3 {
		t.Errorf("get beyond count = %d events, want 3", len(got))
	}
}
