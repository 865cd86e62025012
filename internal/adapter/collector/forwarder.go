package collector

import (
	"context"
	"log/slog"
	"time"
)

const (
	// DefaultQueueSize is the number of events buffered ahead of the worker.
	DefaultQueueSize = 256

	drainTimeout = 2 * time.Second
)

type sender interface {
	Send(ctx context.Context, e Event) error
}

// Forwarder queues events and delivers them from a single worker.
type Forwarder struct {
	sender   sender
	events   chan Event
	fallback *slog.Logger
	now      func() time.Time
}

// NewForwarder creates a Forwarder delivering through s. Failed or dropped
// events are written to fallback, which must not itself forward to the
// collector.
func NewForwarder(s sender, queueSize int, fallback *slog.Logger) *Forwarder {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}

	return &Forwarder{
		sender:   s,
		events:   make(chan Event, queueSize),
		fallback: fallback,
		now:      time.Now,
	}
}

// Enqueue hands e to the worker without blocking. It reports false when the
// queue is full, in which case e goes to the fallback log.
func (f *Forwarder) Enqueue(e Event) bool {
	select {
	case f.events <- e:
		return true
	default:
		f.fallback.Warn(e.fallbackLine(f.now()), slog.String("reason", "queue full"))
		return false
	}
}

// Run delivers queued events until ctx is done, then drains what is left
// within a short grace period.
func (f *Forwarder) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			f.drain()
			return nil
		case e := <-f.events:
			f.deliver(ctx, e)
		}
	}
}

func (f *Forwarder) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()

	for {
		select {
		case e := <-f.events:
			f.deliver(ctx, e)
		default:
			return
		}
	}
}

func (f *Forwarder) deliver(ctx context.Context, e Event) {
	if err := f.sender.Send(ctx, e); err != nil {
		f.fallback.Error("logging failed", slog.Any("err", err))
		f.fallback.Info(e.fallbackLine(f.now()))
	}
}
