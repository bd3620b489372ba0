// Package heartbeat provides liveness detection for the Antigravity gateway.
package heartbeat

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// Status represents the liveness state of the gateway.
type Status string

const (
	StatusAlive Status = "alive"
	StatusStale Status = "stale"
	StatusDead  Status = "dead"
)

// Heartbeat is the data written to the heartbeat file. Remaining carries the
// badge count so external watchers can read it without hitting the API.
type Heartbeat struct {
	PID       int       `json:"pid"`
	StartedAt time.Time `json:"started_at"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    string    `json:"uptime"`
	Remaining int       `json:"remaining"`
}

// Writer periodically rewrites the heartbeat file while the gateway runs.
type Writer struct {
	path      string
	interval  time.Duration
	remaining func() int
	started   time.Time

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// NewWriter creates a heartbeat writer that writes to path every 30s.
// The remaining func supplies the current active task count; nil reports zero.
func NewWriter(path string, remaining func() int) *Writer {
	if remaining == nil {
		remaining = func() int { return 0 }
	}
	return &Writer{
		path:      path,
		interval:  30 * time.Second,
		remaining: remaining,
	}
}

// Start writes one beat immediately, then keeps beating in the background
// until Stop. Calling Start on a running writer is a no-op.
func (w *Writer) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stop != nil {
		return
	}
	w.started = time.Now()
	w.stop = make(chan struct{})
	w.done = make(chan struct{})

	w.beat()
	go w.run(w.stop, w.done)
}

func (w *Writer) run(stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.beat()
		case <-stop:
			return
		}
	}
}

// Stop halts the writer and removes the heartbeat file.
func (w *Writer) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stop == nil {
		return
	}
	close(w.stop)
	<-w.done
	w.stop = nil

	os.Remove(w.path)
}

// beat writes the file through a temp file and rename, so a reader never
// sees a torn beat. Write errors are swallowed: a missed beat reads as
// stale, which is the right signal anyway.
func (w *Writer) beat() {
	now := time.Now()
	data, err := json.MarshalIndent(Heartbeat{
		PID:       os.Getpid(),
		StartedAt: w.started,
		Timestamp: now,
		Uptime:    now.Sub(w.started).Truncate(time.Second).String(),
		Remaining: w.remaining(),
	}, "", "  ")
	if err != nil {
		return
	}

	tmp := w.path + ".tmp"
	if os.WriteFile(tmp, data, 0o644) == nil {
		os.Rename(tmp, w.path)
	}
}

// Check reads a heartbeat file and classifies it: no file means dead, a
// beat older than maxAge means stale, anything newer means alive.
func Check(path string, maxAge time.Duration) (Status, *Heartbeat, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return StatusDead, nil, nil
		}
		return StatusDead, nil, fmt.Errorf("read heartbeat: %w", err)
	}

	var hb Heartbeat
	if err := json.Unmarshal(data, &hb); err != nil {
		return StatusDead, nil, fmt.Errorf("unmarshal heartbeat: %w", err)
	}

	if time.Since(hb.Timestamp) > maxAge {
		return StatusStale, &hb, nil
	}
	return StatusAlive, &hb, nil
}
