package idrive

// Snapshot is the full decoded controller state as of one frame. It is a
// plain value; copying it copies the state.
type Snapshot struct {
	// Pressed and Touched hold one flag per widget, indexed by Widget.
	// Knob directions never touch, so their Touched entries stay false.
	Pressed [NumWidgets]bool
	Touched [NumWidgets]bool

	// Direction is the rotation sense observed in the most recent frame;
	// None whenever that frame carried no rotation. Step is the cumulative
	// position, one count per rotation frame, unbounded.
	Direction Direction
	Step      int

	// Sequence and Encoder are the last sequence counter and encoder
	// sample adopted from a frame whose sequence changed.
	Sequence uint8
	Encoder  uint8

	// FirstMessage is set until a baseline encoder value exists. It
	// suppresses the spurious rotation a first sample would produce.
	FirstMessage bool
}

// flag returns the sub-state cell for a widget and gesture.
func (s *Snapshot) flag(w Widget, g Gesture) *bool {
	if g == Touch {
		return &s.Touched[w]
	}
	return &s.Pressed[w]
}

// Active reports whether the widget currently registers the gesture.
func (s *Snapshot) Active(w Widget, g Gesture) bool {
	return *s.flag(w, g)
}

// State owns the current/previous snapshot pair used for edge detection.
// The zero value is not ready; use NewState. All methods must be called
// from a single goroutine: the snapshots have exactly one writer.
type State struct {
	current  Snapshot
	previous Snapshot
}

// NewState returns controller state with everything released, position
// zero, and no rotation baseline.
func NewState() *State {
	s := &State{}
	s.current.FirstMessage = true
	s.previous = s.current
	return s
}

// Current returns a copy of the state as of the most recent decode.
func (s *State) Current() Snapshot {
	return s.current
}

// Previous returns a copy of the state as of the decode before that.
// It always trails Current by exactly one decode, never more.
func (s *State) Previous() Snapshot {
	return s.previous
}
