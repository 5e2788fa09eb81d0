// Package monitor implements the monitoring session: a periodic
// reachability and port-status sweep against one target, reported
// each cycle until stopped.
package monitor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"acdbot/config"
	"acdbot/internal/metrics"
	"acdbot/internal/probe"
	"acdbot/internal/transport"
	"acdbot/util"
)

// Report is one cycle's findings: coarse reachability plus the
// configured ports in order, each with exactly one status.
type Report struct {
	Target    string
	Reachable bool
	Ports     []probe.PortStatus
	Taken     time.Time
}

// String renders the report for the activity log and notifications.
func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Monitoring Report for %s:\n", r.Target)
	online := "No"
	if r.Reachable {
		online = "Yes"
	}
	fmt.Fprintf(&b, "Online: %s\n", online)
	b.WriteString("Port Status:\n")
	for _, p := range r.Ports {
		fmt.Fprintf(&b, "  Port %d: %s\n", p.Port, p.State)
	}
	return b.String()
}

// Session monitors one target.  All fields are frozen before Run; the
// registry owns the lifecycle and receives each report via Emit.
type Session struct {
	Target   string
	Interval time.Duration
	Ports    []int

	Probe       probe.Reachability
	Dialer      transport.Dialer
	PortTimeout time.Duration // per-port connect bound (default 1s)
	Logger      *util.Logger
	Metrics     *metrics.Collector
	Emit        func(Report)
}

// Run executes monitor cycles until ctx is cancelled.  The interval
// wait is checked once per second, so a stop request is honoured
// within a second rather than only at cycle boundaries.
func (s *Session) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		s.cycle(ctx)
		if !s.sleepInterval(ctx) {
			return
		}
	}
}

func (s *Session) cycle(ctx context.Context) {
	reachable, err := s.Probe.Reachable(ctx, s.Target)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		// An erroring probe reports unreachable; the error itself is
		// diagnostic, never session-fatal.
		s.Logger.Warn("reachability probe for %s: %v", s.Target, err)
		s.Metrics.TransientError(err.Error())
	}

	statuses := probe.SweepPorts(ctx, s.Target, s.Ports, s.PortTimeout, s.Dialer.Dial)
	if ctx.Err() != nil {
		return
	}

	s.Metrics.MonitorCycle()
	if s.Emit != nil {
		s.Emit(Report{
			Target:    s.Target,
			Reachable: reachable,
			Ports:     statuses,
			Taken:     time.Now(),
		})
	}
}

// sleepInterval waits out the configured interval in 1-second ticks,
// returning false once ctx is cancelled.
func (s *Session) sleepInterval(ctx context.Context) bool {
	interval := s.Interval
	if interval <= 0 {
		interval = time.Duration(config.DefaultMonitoringInterval) * time.Second
	}

	deadline := time.Now().Add(interval)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return true
		}
		tick := time.Second
		if remaining < tick {
			tick = remaining
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(tick):
		}
	}
}
