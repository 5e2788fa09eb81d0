package notify

import (
	"context"
	"sync"

	errs "acdbot/internal/errors"
	"acdbot/internal/metrics"
	"acdbot/util"
)

// Async wraps a Notifier with a bounded queue and a single delivery
// goroutine, keeping notification latency off the workers' critical
// path.  When the queue is full the message is dropped and the drop
// logged; delivery failures are logged once per message and never
// retried within the same cycle.
type Async struct {
	notifier Notifier
	logger   *util.Logger
	metrics  *metrics.Collector

	queue chan string
	once  sync.Once
	done  chan struct{}
}

// NewAsync starts the dispatcher.  size bounds the queue; messages
// beyond it are dropped rather than blocking a session worker.
func NewAsync(n Notifier, size int, logger *util.Logger, m *metrics.Collector) *Async {
	if size < 1 {
		size = 1
	}
	a := &Async{
		notifier: n,
		logger:   logger,
		metrics:  m,
		queue:    make(chan string, size),
		done:     make(chan struct{}),
	}
	go a.loop()
	return a
}

// Send queues message for delivery without blocking.
func (a *Async) Send(message string) {
	select {
	case a.queue <- message:
	default:
		a.metrics.NotifyFailure()
		a.logger.Warn("notification queue full, message dropped")
	}
}

// Close stops accepting messages, drains the queue, and waits for the
// dispatcher to finish.
func (a *Async) Close() {
	a.once.Do(func() { close(a.queue) })
	<-a.done
}

func (a *Async) loop() {
	defer close(a.done)
	for msg := range a.queue {
		err := a.notifier.Send(context.Background(), msg)
		switch {
		case err == nil:
		case errs.Is(err, errs.ErrNotConfigured):
			a.logger.Verbose("telegram not configured, message not sent")
		default:
			a.metrics.NotifyFailure()
			a.logger.Error("notification delivery failed: %v", err)
		}
	}
}
