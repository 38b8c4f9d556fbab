package keystoreauth

import (
	"context"
	"sync"
	"sync/atomic"
)

// auditDispatcher decouples the decision paths from sink latency and
// enforces the verdict-aware delivery policy: allow events are advisory
// and may be filtered out or shed under buffer pressure, while deny and
// fault events always wait for buffer space, because a missing deny record
// makes an access-denial investigation impossible. Losses are counted per
// class.
type auditDispatcher struct {
	cfg   AuditConfig
	sink  AuditSink
	queue chan AuditEvent
	done  chan struct{}
	wg    sync.WaitGroup

	droppedAllows   atomic.Uint64
	droppedVerdicts atomic.Uint64

	closed    atomic.Bool
	closeOnce sync.Once
}

func newAuditDispatcher(cfg AuditConfig, sink AuditSink) *auditDispatcher {
	if !cfg.Enabled {
		return nil
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1
	}
	if sink == nil {
		sink = NoOpSink{}
	}

	d := &auditDispatcher{
		cfg:   cfg,
		sink:  sink,
		queue: make(chan AuditEvent, cfg.BufferSize),
		done:  make(chan struct{}),
	}

	d.wg.Add(1)
	go d.run()

	return d
}

func (d *auditDispatcher) run() {
	defer d.wg.Done()

	for {
		select {
		case event := <-d.queue:
			d.sink.Emit(context.Background(), event)
		case <-d.done:
			// Deliver whatever the decision paths managed to enqueue
			// before shutdown.
			for {
				select {
				case event := <-d.queue:
					d.sink.Emit(context.Background(), event)
				default:
					return
				}
			}
		}
	}
}

// Emit enqueues one decision event, applying the delivery policy.
//
// Allow events are suppressed entirely when IncludeAllowed is off, and
// with DropIfFull they are shed instead of blocking the hot path. Deny,
// system-error, and backend-error events never take the shedding path:
// they wait for buffer space, and only caller cancellation or dispatcher
// shutdown can lose one. Every loss increments the matching counter.
func (d *auditDispatcher) Emit(ctx context.Context, event AuditEvent) {
	if d == nil || d.closed.Load() {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if event.Decision == decisionAllow {
		if !d.cfg.IncludeAllowed {
			return
		}
		if d.cfg.DropIfFull {
			select {
			case d.queue <- event:
			case <-d.done:
				d.droppedAllows.Add(1)
			default:
				d.droppedAllows.Add(1)
			}
			return
		}
	}

	select {
	case d.queue <- event:
	case <-ctx.Done():
		d.countLoss(event)
	case <-d.done:
		d.countLoss(event)
	}
}

func (d *auditDispatcher) countLoss(event AuditEvent) {
	if event.Decision == decisionAllow {
		d.droppedAllows.Add(1)
		return
	}
	d.droppedVerdicts.Add(1)
}

// Close stops the dispatcher after delivering every queued event. Safe to
// call more than once.
func (d *auditDispatcher) Close() {
	if d == nil {
		return
	}
	d.closeOnce.Do(func() {
		d.closed.Store(true)
		close(d.done)
		d.wg.Wait()
	})
}

// Dropped returns the total number of lost events across both classes.
func (d *auditDispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.droppedAllows.Load() + d.droppedVerdicts.Load()
}

// DroppedVerdicts returns the number of lost deny and fault events. A
// nonzero value means the audit stream is missing records that matter for
// denial forensics.
func (d *auditDispatcher) DroppedVerdicts() uint64 {
	if d == nil {
		return 0
	}
	return d.droppedVerdicts.Load()
}
