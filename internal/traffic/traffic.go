// Package traffic implements the traffic-generation session: a
// rate-limited stream of short-lived outbound TCP connections, each
// carrying one fixed-size block of random bytes.
package traffic

import (
	"context"
	"crypto/rand"
	"time"

	"acdbot/config"
	errs "acdbot/internal/errors"
	"acdbot/internal/metrics"
	"acdbot/internal/runner"
	"acdbot/internal/transport"
	"acdbot/util"
)

// Session generates traffic to one target for a bounded duration.
// All fields are frozen before Run; the registry owns the lifecycle.
type Session struct {
	Target   string
	Port     int
	Rate     int           // connections per second
	Duration time.Duration // total session length

	Dialer         transport.Dialer
	ConnectTimeout time.Duration // per-attempt bound (default 1s)
	Logger         *util.Logger
	Metrics        *metrics.Collector
}

// Run executes the session loop and returns the number of payload
// blocks delivered.  A failed connection attempt is a transient error;
// only cancellation or duration expiry ends the run.
func (s *Session) Run(ctx context.Context) int64 {
	r := &runner.Runner{
		Rate:     s.Rate,
		Duration: s.Duration,
		Logger:   s.Logger,
		Metrics:  s.Metrics,
	}
	return r.Run(ctx, s.sendOnce)
}

// sendOnce is the unit of work: connect, write one payload block,
// close.  Each step is individually bounded so a stop request is never
// held up longer than one attempt.
func (s *Session) sendOnce(ctx context.Context) error {
	timeout := s.ConnectTimeout
	if timeout <= 0 {
		timeout = config.DefaultConnectTimeout
	}
	addr := util.FormatAddr(s.Target, s.Port)

	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	conn, err := s.Dialer.Dial(dialCtx, "tcp", addr)
	if err != nil {
		return errs.Wrap("dial", addr, err)
	}
	defer conn.Close()

	payload := util.GetPayload()
	defer util.PutPayload(payload)
	if _, err := rand.Read(*payload); err != nil {
		return errs.Wrap("payload", addr, err)
	}

	conn.SetWriteDeadline(time.Now().Add(timeout)) //nolint:errcheck
	if _, err := conn.Write(*payload); err != nil {
		return errs.Wrap("write", addr, err)
	}

	s.Metrics.PacketSent(util.PayloadSize)
	return nil
}
