package audit

import (
	"sync"

	"go.uber.org/zap"
)

type Event struct {
	ActorID   *uint
	ActorRole string
	Action    string
	Entity    string
	EntityID  *uint
	Metadata  any
}

type Dispatcher struct {
	sink    Sink
	log     *zap.Logger
	queue   chan Event
	dropped func()

	done      chan struct{}
	closeOnce sync.Once
}

// NewDispatcher starts a single background writer. onDrop, if set, is called
// whenever an event is discarded because the queue is full.
func NewDispatcher(sink Sink, log *zap.Logger, onDrop func()) *Dispatcher {
	if onDrop == nil {
		onDrop = func() {}
	}

	d := &Dispatcher{
		sink:    sink,
		log:     log,
		queue:   make(chan Event, 100),
		dropped: onDrop,
		done:    make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		if err := d.sink.Log(ev); err != nil {
			d.log.Warn("audit write failed",
				zap.String("action", ev.Action),
				zap.Error(err),
			)
		}
	}
}

// Dispatch never blocks the request path: a full queue drops the event.
func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		d.dropped()
		d.log.Warn("audit queue full, dropping event", zap.String("action", ev.Action))
	}
}

// Close drains pending events and stops the worker.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.queue)
	})
	<-d.done
}
