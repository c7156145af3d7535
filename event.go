package idrive

import (
	"fmt"
	"time"

	"github.com/LeanWasTaken/iDrive/canbus"
)

// EventKind discriminates the payload of an Event.
type EventKind uint8

const (
	// EventWidget reports a knob or button state edge.
	EventWidget EventKind = iota
	// EventRotate reports one rotation step.
	EventRotate
	// EventUnknown surfaces a frame whose identifier has no established
	// meaning. The raw frame is attached; nothing is interpreted.
	EventUnknown
)

// Event is one semantic input edge decoded from the controller. Events are
// emitted only on change, in the order their source bytes are evaluated
// within a frame.
type Event struct {
	Kind EventKind
	Time time.Time

	// Widget, Gesture, Old, New describe a state edge (EventWidget).
	Widget  Widget
	Gesture Gesture
	Old     bool
	New     bool

	// Direction is the step sense and Step the cumulative position after
	// this event (EventRotate).
	Direction Direction
	Step      int

	// Frame is the untouched bus frame (EventUnknown).
	Frame canbus.Frame
}

// String renders the event the way the operator console prints it.
func (e Event) String() string {
	switch e.Kind {
	case EventRotate:
		return fmt.Sprintf("ROTATION %s (%d)", e.Direction, e.Step)
	case EventUnknown:
		return fmt.Sprintf("UNKNOWN %s", e.Frame)
	default:
		if !e.New {
			return fmt.Sprintf("%s RELEASED", e.Widget)
		}
		if e.Gesture == Touch {
			return fmt.Sprintf("%s TOUCHED", e.Widget)
		}
		return fmt.Sprintf("%s PRESSED", e.Widget)
	}
}
