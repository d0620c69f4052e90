// Package dispatch forwards committed key intents to an injection sink
// without blocking the frame loop.
package dispatch

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"

	"github.com/ayusman/airkeys/internal/engine"
)

// ErrInjectorUnavailable is returned by injector constructors when the sink
// cannot be reached on this machine.
var ErrInjectorUnavailable = errors.New("injector unavailable")

// DefaultQueueSize is the number of intents that may wait for delivery.
const DefaultQueueSize = 64

// Injector delivers one key intent as a press and release.
type Injector interface {
	Inject(ctx context.Context, in engine.Intent) error
}

// Stats counts what happened to dispatched intents.
type Stats struct {
	Delivered int64
	Failed    int64
	Dropped   int64 // queue full or dispatcher closed
}

// Dispatcher queues intents and delivers them in order on one worker
// goroutine. A Dispatcher with a nil injector accepts and discards
// everything.
type Dispatcher struct {
	injector Injector
	queue    chan engine.Intent
	done     chan struct{}
	ctx      context.Context
	cancel   context.CancelFunc

	mu     sync.RWMutex
	closed bool

	delivered atomic.Int64
	failed    atomic.Int64
	dropped   atomic.Int64
}

// New creates a Dispatcher and starts its worker. A queueSize of zero or
// less selects DefaultQueueSize.
func New(injector Injector, queueSize int) *Dispatcher {
	d := &Dispatcher{injector: injector, done: make(chan struct{})}
	if injector == nil {
		close(d.done)
		return d
	}

	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	d.queue = make(chan engine.Intent, queueSize)
	d.ctx, d.cancel = context.WithCancel(context.Background())

	go d.run()
	return d
}

// Enabled reports whether intents reach a sink.
func (d *Dispatcher) Enabled() bool {
	return d.injector != nil
}

// Dispatch queues intents in order. It never blocks: when the queue is full
// the remaining intents are dropped and logged.
func (d *Dispatcher) Dispatch(intents ...engine.Intent) {
	if d.injector == nil || len(intents) == 0 {
		return
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.dropped.Add(int64(len(intents)))
		return
	}

	for i, in := range intents {
		select {
		case d.queue <- in:
		default:
			n := len(intents) - i
			d.dropped.Add(int64(n))
			log.Printf("Dispatch queue full, dropped %d intent(s) starting at %q", n, in.String())
			return
		}
	}
}

// Close stops accepting intents, delivers what is already queued and waits
// for the worker to exit. It is safe to call more than once.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		if d.queue != nil {
			close(d.queue)
		}
	}
	d.mu.Unlock()

	<-d.done
	if d.cancel != nil {
		d.cancel()
	}
	return nil
}

// Abort is Close without draining: queued intents are discarded and an
// in-flight injection sees a cancelled context.
func (d *Dispatcher) Abort() {
	if d.cancel != nil {
		d.cancel()
	}
	d.Close()
}

// Stats returns delivery counters.
func (d *Dispatcher) Stats() Stats {
	return Stats{
		Delivered: d.delivered.Load(),
		Failed:    d.failed.Load(),
		Dropped:   d.dropped.Load(),
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)

	for in := range d.queue {
		if d.ctx.Err() != nil {
			d.dropped.Add(1)
			continue
		}
		if err := d.injector.Inject(d.ctx, in); err != nil {
			d.failed.Add(1)
			log.Printf("Failed to inject %q: %v", in.String(), err)
			continue
		}
		d.delivered.Add(1)
	}
}
