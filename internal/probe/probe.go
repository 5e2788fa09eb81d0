// Package probe implements the two system-level primitives behind
// monitoring: a coarse reachability check and a per-port status
// prober.  Both return within a bounded time; neither hangs.
package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	probing "github.com/prometheus-community/pro-bing"

	"acdbot/config"
	"acdbot/util"
)

// PortState classifies one port in one monitor cycle.  The three
// outcomes are mutually exclusive.
type PortState string

const (
	StateOpen   PortState = "open"
	StateClosed PortState = "closed"
	StateError  PortState = "error"
)

// PortStatus records the classification of a single port.
type PortStatus struct {
	Port  int
	State PortState
}

// DialFunc establishes a network connection.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// ── Port sweep ───────────────────────────────────────────────────────

// SweepPorts probes every port concurrently and returns results in the
// same order as the input slice, so reports keep the configured port
// ordering.
func SweepPorts(ctx context.Context, host string, ports []int, timeout time.Duration, dial DialFunc) []PortStatus {
	if timeout <= 0 {
		timeout = config.DefaultConnectTimeout
	}

	results := make([]PortStatus, len(ports))
	sem := make(chan struct{}, config.DefaultMaxConcurrentChecks)
	var wg sync.WaitGroup

	for i, port := range ports {
		wg.Add(1)
		go func(idx, p int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			checkCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			results[idx] = PortStatus{Port: p, State: checkPort(checkCtx, host, p, dial)}
		}(i, port)
	}

	wg.Wait()
	return results
}

// checkPort classifies one port: a successful connect is open; any
// network-level failure (refused, reset, timed out, unreachable) is
// closed; everything else — a failure of the check itself rather than
// of the target — is error.
func checkPort(ctx context.Context, host string, port int, dial DialFunc) PortState {
	conn, err := dial(ctx, "tcp", util.FormatAddr(host, port))
	if err == nil {
		conn.Close()
		return StateOpen
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return StateClosed
	}
	if ctx.Err() != nil {
		return StateClosed // connect attempt ran out its timeout
	}
	return StateError
}

// ── Reachability ─────────────────────────────────────────────────────

// Reachability is a coarse up/down check against a target address.
type Reachability interface {
	// Reachable reports whether the target answered within the probe's
	// time budget.  The error is diagnostic only: an erroring probe is
	// reported unreachable, never as a session failure.
	Reachable(ctx context.Context, addr string) (bool, error)
}

// ICMPProbe checks reachability with ICMP echo requests.  It runs in
// unprivileged UDP-ping mode so the console needs no raw-socket
// capability.
type ICMPProbe struct {
	Count   int           // echo requests per probe (default 3)
	Timeout time.Duration // whole-probe budget (default 3s)
}

// Reachable sends the configured number of echo requests and reports
// the target reachable iff at least one reply arrived in time.
func (p *ICMPProbe) Reachable(ctx context.Context, addr string) (bool, error) {
	stats, err := p.run(ctx, addr)
	if err != nil {
		return false, err
	}
	return stats.PacketsRecv > 0, nil
}

// Ping runs one probe and renders a human-readable summary, backing
// the interactive ping command.
func (p *ICMPProbe) Ping(ctx context.Context, addr string) (string, error) {
	stats, err := p.run(ctx, addr)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "PING %s:\n", addr)
	fmt.Fprintf(&b, "  %d packets transmitted, %d received, %.0f%% packet loss\n",
		stats.PacketsSent, stats.PacketsRecv, stats.PacketLoss)
	if stats.PacketsRecv > 0 {
		fmt.Fprintf(&b, "  rtt min/avg/max = %v/%v/%v\n",
			stats.MinRtt.Round(time.Microsecond),
			stats.AvgRtt.Round(time.Microsecond),
			stats.MaxRtt.Round(time.Microsecond))
	}
	return b.String(), nil
}

func (p *ICMPProbe) run(ctx context.Context, addr string) (*probing.Statistics, error) {
	pinger, err := probing.NewPinger(addr)
	if err != nil {
		return nil, fmt.Errorf("probe %s: %w", addr, err)
	}

	pinger.Count = p.Count
	if pinger.Count <= 0 {
		pinger.Count = config.DefaultProbeCount
	}
	pinger.Timeout = p.Timeout
	if pinger.Timeout <= 0 {
		pinger.Timeout = config.DefaultProbeTimeout
	}
	pinger.SetPrivileged(false)

	if err := pinger.RunWithContext(ctx); err != nil {
		return nil, fmt.Errorf("probe %s: %w", addr, err)
	}
	return pinger.Statistics(), nil
}
