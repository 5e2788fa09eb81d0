// Package registry owns the lifecycle of both session kinds.  It is
// the only component allowed to create, observe, or stop sessions:
// the shell above it calls start/stop/status, the sessions below it
// report through the logger and notifier it wires in.
//
// The invariant it enforces: at most one traffic session and at most
// one monitoring session are active at any time.  Checking "not
// active" and marking "active" happen under one lock, so two
// near-simultaneous starts can never both launch workers.
package registry

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"acdbot/config"
	errs "acdbot/internal/errors"
	"acdbot/internal/metrics"
	"acdbot/internal/monitor"
	"acdbot/internal/probe"
	"acdbot/internal/traffic"
	"acdbot/internal/transport"
	"acdbot/util"
)

// Sink receives notification messages.  Implemented by notify.Async.
type Sink interface {
	Send(message string)
}

// Registry coordinates the two session kinds.
type Registry struct {
	store   *config.Store
	dialer  transport.Dialer
	prober  probe.Reachability
	logger  *util.Logger
	sink    Sink
	metrics *metrics.Collector

	mu      sync.Mutex
	traffic *worker
	monitor *worker
	closed  bool
}

// worker is the structured handle the registry retains for one
// background session: its identity for status, its cancel func for
// stop, and a done channel for join-on-shutdown.
type worker struct {
	target string
	port   int
	cancel context.CancelFunc
	done   chan struct{}
}

// Status is a non-blocking snapshot of both session slots.
type Status struct {
	TrafficActive bool
	TrafficTarget string
	TrafficPort   int
	MonitorActive bool
	MonitorTarget string
}

// New wires a Registry over its collaborators.
func New(store *config.Store, dialer transport.Dialer, prober probe.Reachability,
	logger *util.Logger, sink Sink, m *metrics.Collector) *Registry {
	return &Registry{
		store:   store,
		dialer:  dialer,
		prober:  prober,
		logger:  logger,
		sink:    sink,
		metrics: m,
	}
}

// ── Traffic generation ───────────────────────────────────────────────

// StartTraffic validates the request, claims the traffic slot, and
// launches the session in the background.  port, duration, and pps
// may be zero to take the configured defaults.  Returns the result
// line for the shell; ValidationError and ConflictError are surfaced
// synchronously and leave no state behind.
func (r *Registry) StartTraffic(target string, port, duration, pps int) (string, error) {
	if err := util.ValidateAddress(target); err != nil {
		return "", errs.Validation("address", target, "not a dotted-quad IPv4 literal")
	}
	if port < 0 || port > 65535 {
		return "", errs.Validation("port", fmt.Sprintf("%d", port), "out of range 1-65535")
	}
	if duration < 0 {
		return "", errs.Validation("duration", fmt.Sprintf("%d", duration), "must be positive")
	}
	if pps < 0 {
		return "", errs.Validation("rate", fmt.Sprintf("%d", pps), "must be positive")
	}

	cfg := r.store.Snapshot()
	if port == 0 {
		port = cfg.DefaultPorts[rand.Intn(len(cfg.DefaultPorts))]
	}
	if duration == 0 {
		duration = cfg.TrafficDuration
	}
	if pps == 0 {
		pps = cfg.MaxPacketsPerSec
	}

	sess := &traffic.Session{
		Target:   target,
		Port:     port,
		Rate:     pps,
		Duration: time.Duration(duration) * time.Second,
		Dialer:   r.dialer,
		Logger:   r.logger,
		Metrics:  r.metrics,
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &worker{target: target, port: port, cancel: cancel, done: make(chan struct{})}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		cancel()
		return "", errs.ErrShuttingDown
	}
	if r.traffic != nil {
		r.mu.Unlock()
		cancel()
		return "", errs.Conflict("traffic generation")
	}
	r.traffic = w
	r.mu.Unlock()

	msg := fmt.Sprintf("Starting traffic generation to %s:%d for %d seconds at %d packets/sec",
		target, port, duration, pps)
	r.logger.Activity(msg)
	r.send("<b>Traffic Generation Started</b>\n" + msg)

	go r.runTraffic(ctx, w, sess)

	return fmt.Sprintf("Started traffic generation to %s:%d", target, port), nil
}

func (r *Registry) runTraffic(ctx context.Context, w *worker, sess *traffic.Session) {
	defer close(w.done)

	sent, panicErr := guarded(func() int64 { return sess.Run(ctx) })

	// Clear the slot before reporting, so a dead session is never
	// observable as active.
	r.mu.Lock()
	if r.traffic == w {
		r.traffic = nil
	}
	r.mu.Unlock()
	w.cancel()

	if panicErr != nil {
		msg := fmt.Sprintf("Traffic generation to %s:%d failed: %v", w.target, w.port, panicErr)
		r.logger.Error("%s", msg)
		r.logger.Activity(msg)
		r.send("<b>Traffic Generation Failed</b>\n" + msg)
		return
	}

	stats := fmt.Sprintf("Traffic generation completed. Sent %d packets to %s:%d",
		sent, w.target, w.port)
	r.logger.Activity(stats)
	r.send("<b>Traffic Generation Complete</b>\n" + stats)
}

// StopTraffic requests a cooperative stop.  Idempotent: with no
// active session it returns a fixed no-op result, never an error.
func (r *Registry) StopTraffic() string {
	r.mu.Lock()
	w := r.traffic
	r.mu.Unlock()

	if w == nil {
		return "No active traffic generation to stop"
	}
	w.cancel()

	msg := fmt.Sprintf("Stopped traffic generation to %s:%d", w.target, w.port)
	r.logger.Activity(msg)
	r.send("<b>Traffic Generation Stopped</b>\n" + msg)
	return msg
}

// ── Monitoring ───────────────────────────────────────────────────────

// StartMonitor validates the target, claims the monitor slot, and
// launches the monitoring loop with the current config snapshot.
func (r *Registry) StartMonitor(target string) (string, error) {
	if err := util.ValidateAddress(target); err != nil {
		return "", errs.Validation("address", target, "not a dotted-quad IPv4 literal")
	}

	cfg := r.store.Snapshot()
	sess := &monitor.Session{
		Target:   target,
		Interval: time.Duration(cfg.MonitoringInterval) * time.Second,
		Ports:    cfg.DefaultPorts,
		Probe:    r.prober,
		Dialer:   r.dialer,
		Logger:   r.logger,
		Metrics:  r.metrics,
	}
	sess.Emit = func(rep monitor.Report) {
		r.logger.Activity("%s", rep.String())
		r.send("<b>Monitoring Update</b>\n" + rep.String())
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &worker{target: target, cancel: cancel, done: make(chan struct{})}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		cancel()
		return "", errs.ErrShuttingDown
	}
	if r.monitor != nil {
		r.mu.Unlock()
		cancel()
		return "", errs.Conflict("monitoring")
	}
	r.monitor = w
	r.mu.Unlock()

	msg := fmt.Sprintf("Starting monitoring of %s with interval %d seconds",
		target, cfg.MonitoringInterval)
	r.logger.Activity(msg)
	r.send("<b>Monitoring Started</b>\n" + msg)

	go r.runMonitor(ctx, w, sess)

	return fmt.Sprintf("Started monitoring %s", target), nil
}

func (r *Registry) runMonitor(ctx context.Context, w *worker, sess *monitor.Session) {
	defer close(w.done)

	_, panicErr := guarded(func() int64 { sess.Run(ctx); return 0 })

	r.mu.Lock()
	if r.monitor == w {
		r.monitor = nil
	}
	r.mu.Unlock()
	w.cancel()

	if panicErr != nil {
		msg := fmt.Sprintf("Monitoring of %s failed: %v", w.target, panicErr)
		r.logger.Error("%s", msg)
		r.logger.Activity(msg)
		r.send("<b>Monitoring Failed</b>\n" + msg)
		return
	}

	msg := fmt.Sprintf("Stopped monitoring of %s", w.target)
	r.logger.Activity(msg)
	r.send("<b>Monitoring Stopped</b>\n" + msg)
}

// StopMonitor requests a cooperative stop; honoured within a second.
// Idempotent like StopTraffic.
func (r *Registry) StopMonitor() string {
	r.mu.Lock()
	w := r.monitor
	r.mu.Unlock()

	if w == nil {
		return "No active monitoring to stop"
	}
	w.cancel()
	return fmt.Sprintf("Stopping monitoring of %s", w.target)
}

// ── Status & shutdown ────────────────────────────────────────────────

// Status returns a snapshot of both slots without blocking on any
// running session.
func (r *Registry) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	var s Status
	if r.traffic != nil {
		s.TrafficActive = true
		s.TrafficTarget = r.traffic.target
		s.TrafficPort = r.traffic.port
	}
	if r.monitor != nil {
		s.MonitorActive = true
		s.MonitorTarget = r.monitor.target
	}
	return s
}

// Shutdown stops both sessions and waits for their cleanup and final
// notifications, bounded by ctx.  New starts are rejected afterwards.
func (r *Registry) Shutdown(ctx context.Context) {
	r.mu.Lock()
	r.closed = true
	var handles []*worker
	if r.traffic != nil {
		handles = append(handles, r.traffic)
	}
	if r.monitor != nil {
		handles = append(handles, r.monitor)
	}
	r.mu.Unlock()

	for _, w := range handles {
		w.cancel()
	}
	for _, w := range handles {
		select {
		case <-w.done:
		case <-ctx.Done():
			r.logger.Warn("shutdown grace period elapsed before %s worker finished", w.target)
			return
		}
	}
}

// ── helpers ──────────────────────────────────────────────────────────

// guarded runs fn, converting a panic into an error so a failed
// worker always reaches its cleanup and failure report.
func guarded(fn func() int64) (n int64, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("worker panic: %v", p)
		}
	}()
	return fn(), nil
}

func (r *Registry) send(message string) {
	if r.sink != nil {
		r.sink.Send(message)
	}
}
