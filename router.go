package idrive

import (
	"time"

	"github.com/LeanWasTaken/iDrive/canbus"
)

// Router dispatches inbound frames by arbitration identifier: controller
// frames go through the state machine, unexplained identifiers pass through
// as opaque events, and everything else is ignored. Unrecognized traffic is
// normal on a shared bus, so no path returns an error.
type Router struct {
	state *State
}

// NewRouter returns a router feeding the given state owner.
func NewRouter(state *State) *Router {
	return &Router{state: state}
}

// Route classifies one frame and returns the events it produced, in
// decode order. The timestamp is attached to every event.
func (r *Router) Route(f canbus.Frame, now time.Time) []Event {
	if f.Extended || f.RTR {
		return nil
	}
	switch f.ID {
	case IDController:
		if f.Len != 8 {
			// A short frame would decode as everything-released and
			// fire spurious release events. Drop it instead.
			return nil
		}
		return r.state.Decode(f.Data, now)
	case IDUnknown567, IDUnknown5E7:
		return []Event{{Kind: EventUnknown, Time: now, Frame: f}}
	case IDStream:
		// Continuous high-rate stream; deliberately uninterpreted.
		return nil
	default:
		return nil
	}
}
