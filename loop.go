package idrive

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/LeanWasTaken/iDrive/canbus"
)

// Transport is the bus capability the loop needs: transmit plus
// non-blocking receive.
type Transport interface {
	canbus.Sender
	canbus.TryReceiver
}

// Clock is the loop's time source. Injecting it lets the keep-alive timer
// and event timestamps run deterministically under test.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }

// Loop is the single-goroutine control loop. Each pass runs queued
// commands, checks the keep-alive deadline, and routes at most one pending
// frame. Timing is soft: deadlines are compared against the clock each
// pass, and a missed one is caught on the next.
//
// Everything the loop touches (router state, Backlight driven through Do)
// stays single-writer, so no locking is needed anywhere in the decode path.
type Loop struct {
	// KeepAliveEvery is the liveness period; 0 disables the periodic
	// keep-alive.
	KeepAliveEvery time.Duration

	// IdleSleep is the backoff applied when a pass finds no work.
	IdleSleep time.Duration

	// OnEvent receives every decoded event. Nil discards them.
	OnEvent func(Event)

	bus    Transport
	router *Router
	clock  Clock
	logger *slog.Logger

	lastKeepAlive time.Time
	cmds          chan func()
	stop          chan struct{}
	quit          sync.Once
}

// NewLoop returns a loop over the given transport and router. A nil clock
// selects the system clock; a nil logger selects slog.Default().
func NewLoop(bus Transport, router *Router, clock Clock, logger *slog.Logger) *Loop {
	if clock == nil {
		clock = systemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		KeepAliveEvery: KeepAliveInterval,
		IdleSleep:      time.Millisecond,
		bus:            bus,
		router:         router,
		clock:          clock,
		logger:         logger,
		lastKeepAlive:  clock.Now(),
		cmds:           make(chan func(), 16),
		stop:           make(chan struct{}),
	}
}

// Do queues fn to run on the loop goroutine at the start of the next pass.
// Operator commands go through here so bus writes and snapshot access keep
// a single writer. After Stop, fn is dropped.
func (l *Loop) Do(fn func()) {
	select {
	case <-l.stop:
		return
	default:
	}
	select {
	case l.cmds <- fn:
	case <-l.stop:
	}
}

// KeepAlive transmits one keep-alive frame and resets the periodic timer.
// Must run on the loop goroutine: call it directly only from tests or from
// inside Do.
func (l *Loop) KeepAlive() error {
	l.lastKeepAlive = l.clock.Now()
	return SendKeepAlive(l.bus)
}

// Step runs one pass and reports whether it did any work. Split out from
// Run so tests can drive the loop deterministically.
func (l *Loop) Step() (bool, error) {
	worked := false
drain:
	for {
		select {
		case fn := <-l.cmds:
			fn()
			worked = true
		default:
			break drain
		}
	}

	now := l.clock.Now()
	if l.KeepAliveEvery > 0 && now.Sub(l.lastKeepAlive) >= l.KeepAliveEvery {
		if err := l.KeepAlive(); err != nil {
			l.logger.Warn("keep-alive failed", "error", err)
		}
		worked = true
	}

	f, ok, err := l.bus.TryReceive()
	if err != nil {
		return worked, err
	}
	if !ok {
		return worked, nil
	}
	for _, e := range l.router.Route(f, now) {
		if l.OnEvent != nil {
			l.OnEvent(e)
		}
	}
	return true, nil
}

// Run drives Step until Stop is called or the transport fails. A transport
// that reports closed ends the run without error.
func (l *Loop) Run() error {
	for {
		select {
		case <-l.stop:
			return nil
		default:
		}
		worked, err := l.Step()
		if err != nil {
			if errors.Is(err, canbus.ErrClosed) {
				return nil
			}
			l.logger.Error("receive failed", "error", err)
			return err
		}
		if !worked && l.IdleSleep > 0 {
			time.Sleep(l.IdleSleep)
		}
	}
}

// Stop makes Run return after the current pass. Safe to call from any
// goroutine, more than once.
func (l *Loop) Stop() {
	l.quit.Do(func() { close(l.stop) })
}
