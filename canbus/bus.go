package canbus

import "errors"

// Sender is the transmit side of a bus. Components that only write frames
// accept a Sender so any Bus, or a narrower wrapper, can serve.
type Sender interface {
	// Send transmits a frame. It may block until the frame is queued or sent.
	Send(frame Frame) error
}

// Bus represents a CAN bus connection which can send and receive CAN frames.
// Implementations should be safe for concurrent use by multiple goroutines.
type Bus interface {
	Sender

	// Receive retrieves the next available frame, blocking until one is
	// available or the bus is closed.
	Receive() (Frame, error)

	// Close releases resources. Further Send/Receive may return an error.
	Close() error
}

// TryReceiver is implemented by buses that support non-blocking receive.
// Poll-driven consumers use it to check for pending traffic without giving
// up their thread of control.
type TryReceiver interface {
	// TryReceive returns the next pending frame if one is available.
	// ok is false when no frame is pending; err is non-nil only for real
	// transport failures (a closed bus, a broken socket), never for an
	// empty receive buffer.
	TryReceive() (f Frame, ok bool, err error)
}

// ErrClosed indicates the bus or endpoint has been closed.
var ErrClosed = errors.New("canbus: closed")
