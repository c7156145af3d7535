package idrive

import (
	"sync"
	"time"

	"github.com/LeanWasTaken/iDrive/canbus"
)

// KeepAliveInterval is how often the liveness frame should go out to keep
// the controller from dropping into low power.
const KeepAliveInterval = 500 * time.Millisecond

var keepAlivePayload = [8]byte{0x40, 0x67, 0x00, 0x00, 0x00, 0x02, 0x00, 0x00}

// KeepAlive is the fixed-payload liveness command. The payload is constant
// and carries no state.
type KeepAlive struct{}

// MarshalCANFrame encodes the keep-alive command.
func (KeepAlive) MarshalCANFrame() (canbus.Frame, error) {
	return canbus.Frame{ID: IDKeepAlive, Len: 8, Data: keepAlivePayload}, nil
}

// SendKeepAlive transmits one keep-alive frame.
func SendKeepAlive(bus canbus.Sender) error {
	return Send(bus, KeepAlive{})
}

var wakeUpPayload = [8]byte{0x1D, 0xE1, 0x00, 0xF0, 0xFF, 0x7F, 0xDE, 0x04}

// WakeUp is the one-shot command that brings the controller out of sleep
// during bring-up.
type WakeUp struct{}

// MarshalCANFrame encodes the wake-up command.
func (WakeUp) MarshalCANFrame() (canbus.Frame, error) {
	return canbus.Frame{ID: IDWakeUp, Len: 8, Data: wakeUpPayload}, nil
}

// SendWakeUp transmits one wake-up frame.
func SendWakeUp(bus canbus.Sender) error {
	return Send(bus, WakeUp{})
}

// KeepAliveWriter periodically transmits keep-alive frames on its own
// goroutine. Use it when no Loop owns the bus; a Loop already keeps the
// controller alive by itself.
type KeepAliveWriter struct {
	bus      canbus.Sender
	interval time.Duration

	start sync.Once
	quit  sync.Once
	stop  chan struct{}
}

// NewKeepAliveWriter creates a writer sending at the given interval;
// interval <= 0 means KeepAliveInterval.
func NewKeepAliveWriter(bus canbus.Sender, interval time.Duration) *KeepAliveWriter {
	if interval <= 0 {
		interval = KeepAliveInterval
	}
	return &KeepAliveWriter{bus: bus, interval: interval, stop: make(chan struct{})}
}

// Start launches the background goroutine. Further calls have no effect.
func (w *KeepAliveWriter) Start() {
	w.start.Do(func() { go w.run() })
}

// Stop signals the writer to stop. Safe to call more than once.
func (w *KeepAliveWriter) Stop() {
	w.quit.Do(func() { close(w.stop) })
}

func (w *KeepAliveWriter) run() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-w.stop:
			return
		case <-ticker.C:
			_ = SendKeepAlive(w.bus)
		}
	}
}
