package canbus

import (
	"sync"
)

// endpointBuffer is how many undrained frames an endpoint holds before it
// starts dropping, like a controller whose receive FIFO overruns.
const endpointBuffer = 64

// LoopbackBus is an in-memory CAN bus for tests and simulations.
// Multiple endpoints opened from the same bus can exchange frames; a frame
// sent on one endpoint is delivered to every other endpoint.
type LoopbackBus struct {
	mu        sync.RWMutex
	closed    bool
	endpoints map[*loopEndpoint]struct{}
}

// NewLoopbackBus creates a new loopback bus.
func NewLoopbackBus() *LoopbackBus {
	return &LoopbackBus{endpoints: make(map[*loopEndpoint]struct{})}
}

// Open creates a new endpoint attached to the bus. Opening on a closed bus
// returns an endpoint that fails every operation with ErrClosed.
func (b *LoopbackBus) Open() Bus {
	ep := &loopEndpoint{
		bus: b,
		ch:  make(chan Frame, endpointBuffer),
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		ep.dead = true
		close(ep.ch)
		return ep
	}
	b.endpoints[ep] = struct{}{}
	return ep
}

// Close closes the bus and detaches all endpoints.
func (b *LoopbackBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for ep := range b.endpoints {
		ep.shutdown()
	}
	b.endpoints = nil
	return nil
}

type loopEndpoint struct {
	bus *LoopbackBus

	mu   sync.Mutex
	dead bool
	ch   chan Frame
}

// Send broadcasts the frame to all other endpoints on the same bus.
// Endpoints that are closed, or whose buffer is full, miss the frame.
func (e *loopEndpoint) Send(frame Frame) error {
	if err := frame.Validate(); err != nil {
		return err
	}
	if e.isDead() {
		return ErrClosed
	}
	// Snapshot the peer set so delivery runs without the bus lock held.
	e.bus.mu.RLock()
	if e.bus.closed {
		e.bus.mu.RUnlock()
		return ErrClosed
	}
	targets := make([]*loopEndpoint, 0, len(e.bus.endpoints))
	for ep := range e.bus.endpoints {
		if ep != e {
			targets = append(targets, ep)
		}
	}
	e.bus.mu.RUnlock()

	for _, t := range targets {
		t.deliver(frame)
	}
	return nil
}

// deliver hands a frame to this endpoint. The endpoint lock serializes the
// buffer write against shutdown so a closing peer is skipped, never written.
func (e *loopEndpoint) deliver(frame Frame) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.dead {
		return
	}
	select {
	case e.ch <- frame:
	default: // overrun, frame lost
	}
}

// Receive waits for the next frame.
func (e *loopEndpoint) Receive() (Frame, error) {
	f, ok := <-e.ch
	if !ok {
		return Frame{}, ErrClosed
	}
	return f, nil
}

// TryReceive returns a pending frame without blocking.
func (e *loopEndpoint) TryReceive() (Frame, bool, error) {
	select {
	case f, ok := <-e.ch:
		if !ok {
			return Frame{}, false, ErrClosed
		}
		return f, true, nil
	default:
		return Frame{}, false, nil
	}
}

// Close detaches the endpoint from the bus and closes its channel. Frames
// already buffered are still readable until drained.
func (e *loopEndpoint) Close() error {
	e.bus.mu.Lock()
	if e.bus.endpoints != nil {
		delete(e.bus.endpoints, e)
	}
	e.bus.mu.Unlock()
	e.shutdown()
	return nil
}

func (e *loopEndpoint) shutdown() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.dead {
		return
	}
	e.dead = true
	close(e.ch)
}

func (e *loopEndpoint) isDead() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dead
}
