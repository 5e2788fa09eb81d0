// Package metrics provides lightweight, lock-free counters for
// tracking runtime statistics of acdbot sessions.
//
// All methods are safe for concurrent use.  A nil *Collector is a
// valid no-op receiver, so callers never need to nil-check.
package metrics

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"
)

// Collector tracks runtime metrics across both session kinds.
// A nil Collector is safe to use — all methods become no-ops.
type Collector struct {
	packetsSent     atomic.Int64
	bytesSent       atomic.Int64
	transientErrors atomic.Int64
	monitorCycles   atomic.Int64
	notifyFailures  atomic.Int64

	mu           sync.RWMutex
	startTime    time.Time
	lastError    time.Time
	lastErrorMsg string
}

// New creates a metrics collector with the start time set to now.
func New() *Collector {
	return &Collector{startTime: time.Now()}
}

// ── Traffic metrics ──────────────────────────────────────────────────

// PacketSent records one completed traffic unit of n payload bytes.
func (c *Collector) PacketSent(n int64) {
	if c == nil {
		return
	}
	c.packetsSent.Add(1)
	c.bytesSent.Add(n)
}

// PacketsSent returns the lifetime count of completed traffic units.
func (c *Collector) PacketsSent() int64 {
	if c == nil {
		return 0
	}
	return c.packetsSent.Load()
}

// BytesSent returns total payload bytes written.
func (c *Collector) BytesSent() int64 {
	if c == nil {
		return 0
	}
	return c.bytesSent.Load()
}

// ── Error metrics ────────────────────────────────────────────────────

// TransientError records a recovered in-loop failure and its message.
func (c *Collector) TransientError(msg string) {
	if c == nil {
		return
	}
	c.transientErrors.Add(1)
	c.mu.Lock()
	c.lastError = time.Now()
	c.lastErrorMsg = msg
	c.mu.Unlock()
}

// TransientErrors returns the recovered-failure count.
func (c *Collector) TransientErrors() int64 {
	if c == nil {
		return 0
	}
	return c.transientErrors.Load()
}

// ── Monitoring metrics ───────────────────────────────────────────────

// MonitorCycle records one completed monitoring sweep.
func (c *Collector) MonitorCycle() {
	if c == nil {
		return
	}
	c.monitorCycles.Add(1)
}

// MonitorCycles returns the completed sweep count.
func (c *Collector) MonitorCycles() int64 {
	if c == nil {
		return 0
	}
	return c.monitorCycles.Load()
}

// ── Notification metrics ─────────────────────────────────────────────

// NotifyFailure records a failed or dropped notification delivery.
func (c *Collector) NotifyFailure() {
	if c == nil {
		return
	}
	c.notifyFailures.Add(1)
}

// NotifyFailures returns the failed-delivery count.
func (c *Collector) NotifyFailures() int64 {
	if c == nil {
		return 0
	}
	return c.notifyFailures.Load()
}

// ── Snapshot ─────────────────────────────────────────────────────────

// Snapshot is a point-in-time view of all metrics.
type Snapshot struct {
	Uptime           string `json:"uptime"`
	PacketsSent      int64  `json:"packets_sent"`
	BytesSent        int64  `json:"bytes_sent"`
	TransientErrors  int64  `json:"transient_errors"`
	MonitorCycles    int64  `json:"monitor_cycles"`
	NotifyFailures   int64  `json:"notify_failures"`
	LastError        string `json:"last_error,omitempty"`
	LastErrorMessage string `json:"last_error_message,omitempty"`
}

// Snapshot returns a copy of all current metrics.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Snapshot{
		Uptime:          time.Since(c.startTime).Truncate(time.Second).String(),
		PacketsSent:     c.packetsSent.Load(),
		BytesSent:       c.bytesSent.Load(),
		TransientErrors: c.transientErrors.Load(),
		MonitorCycles:   c.monitorCycles.Load(),
		NotifyFailures:  c.notifyFailures.Load(),
	}
	if !c.lastError.IsZero() {
		s.LastError = c.lastError.Format(time.RFC3339)
		s.LastErrorMessage = c.lastErrorMsg
	}
	return s
}

// JSON returns the snapshot as an indented JSON string.
func (c *Collector) JSON() string {
	s := c.Snapshot()
	data, _ := json.MarshalIndent(s, "", "  ")
	return string(data)
}
