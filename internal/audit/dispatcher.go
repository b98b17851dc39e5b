package audit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Config controls dispatcher buffering.
type Config struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
	// SinkTimeout bounds the context handed to each Sink.Emit call. Zero
	// means no deadline.
	SinkTimeout time.Duration
}

// Dispatcher forwards events to a sink from a single background goroutine,
// preserving emission order.
type Dispatcher struct {
	cfg       Config
	sink      Sink
	queue     chan Event
	closing   chan struct{}
	stop      chan struct{}
	wg        sync.WaitGroup
	dropped   atomic.Uint64
	delivered atomic.Uint64
	closeOnce sync.Once

	// mu is held for reading across every enqueue; Close takes it for
	// writing so no event lands in the queue after the final drain.
	mu     sync.RWMutex
	closed bool
}

// NewDispatcher returns nil when cfg.Enabled is false; every method is safe
// on a nil Dispatcher.
func NewDispatcher(cfg Config, sink Sink) *Dispatcher {
	if !cfg.Enabled {
		return nil
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1
	}
	if sink == nil {
		sink = NoOpSink{}
	}

	d := &Dispatcher{
		cfg:   cfg,
		sink:  sink,
		queue:   make(chan Event, cfg.BufferSize),
		closing: make(chan struct{}),
		stop:    make(chan struct{}),
	}

	d.wg.Add(1)
	go d.loop()

	return d
}

func (d *Dispatcher) loop() {
	defer d.wg.Done()

	for {
		select {
		case event := <-d.queue:
			d.deliver(event)
		case <-d.stop:
			for {
				select {
				case event := <-d.queue:
					d.deliver(event)
				default:
					return
				}
			}
		}
	}
}

func (d *Dispatcher) deliver(event Event) {
	ctx := context.Background()
	if d.cfg.SinkTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.SinkTimeout)
		defer cancel()
	}
	d.sink.Emit(ctx, event)
	d.delivered.Add(1)
}

// Emit enqueues event. With DropIfFull a full queue counts a drop instead of
// blocking; otherwise Emit waits for room, ctx cancellation or Close, and the
// latter two count a drop. Events emitted after Close are ignored.
func (d *Dispatcher) Emit(ctx context.Context, event Event) {
	if d == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}

	if d.cfg.DropIfFull {
		select {
		case d.queue <- event:
		default:
			d.dropped.Add(1)
		}
		return
	}

	select {
	case d.queue <- event:
	case <-ctx.Done():
		d.dropped.Add(1)
	case <-d.closing:
		d.dropped.Add(1)
	}
}

// Close stops accepting events and blocks until the queue is drained.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.closeOnce.Do(func() {
		close(d.closing)
		d.mu.Lock()
		d.closed = true
		d.mu.Unlock()
		close(d.stop)
		d.wg.Wait()
	})
}

func (d *Dispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}

func (d *Dispatcher) Delivered() uint64 {
	if d == nil {
		return 0
	}
	return d.delivered.Load()
}
