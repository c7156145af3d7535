package idrive

import "testing"

func TestRotation_FirstFrameOnlySetsBaseline(t *testing.T) {
	s := NewState()
	events := s.Decode(released(1, 0x80), at)
	if len(events) != 0 {
		t.Fatalf("baseline frame emitted %v", events)
	}
	snap := s.Current()
	if snap.FirstMessage {
		t.Fatalf("baseline should be recorded")
	}
	if snap.Sequence != 1 || snap.Encoder != 0x80 {
		t.Fatalf("baseline = (%d, 0x%02X), want (1, 0x80)", snap.Sequence, snap.Encoder)
	}
	if snap.Direction != None || snap.Step != 0 {
		t.Fatalf("first frame rotated: %v step %d", snap.Direction, snap.Step)
	}
}

func TestRotation_SequenceZeroFirstFrameKeepsWaiting(t *testing.T) {
	s := NewState()

	// The very first frame can carry the counter's starting value. It
	// matches the zero-value snapshot, so no baseline is recorded yet.
	s.Decode(released(0, 0x10), at)
	if !s.Current().FirstMessage {
		t.Fatalf("unchanged counter must not establish a baseline")
	}

	// The next counter change establishes the baseline without rotating.
	events := s.Decode(released(1, 0x20), at)
	if len(events) != 0 {
		t.Fatalf("baseline frame emitted %v", events)
	}

	// Only now does a delta count.
	events = s.Decode(released(2, 0x21), at)
	if len(events) != 1 || events[0].Kind != EventRotate || events[0].Direction != Clockwise {
		t.Fatalf("events = %v, want one clockwise rotation", events)
	}
}

func TestRotation_WraparoundClockwise(t *testing.T) {
	s := NewState()
	s.Decode(released(1, 0xF0), at)

	// 0xF0 -> 0x05 normalizes to +21: one clockwise step, not 21.
	events := s.Decode(released(2, 0x05), at)
	if len(events) != 1 {
		t.Fatalf("events = %d, want 1 (%v)", len(events), events)
	}
	e := events[0]
	if e.Kind != EventRotate || e.Direction != Clockwise || e.Step != 1 {
		t.Fatalf("event = %+v, want CW step 1", e)
	}
	snap := s.Current()
	if snap.Step != 1 || snap.Direction != Clockwise {
		t.Fatalf("snapshot = %v step %d, want CW 1", snap.Direction, snap.Step)
	}
	if snap.Sequence != 2 || snap.Encoder != 0x05 {
		t.Fatalf("adopted = (%d, 0x%02X), want (2, 0x05)", snap.Sequence, snap.Encoder)
	}
}

func TestRotation_WraparoundCounterClockwise(t *testing.T) {
	s := NewState()
	s.Decode(released(1, 0x05), at)
	events := s.Decode(released(2, 0xF0), at)
	if len(events) != 1 || events[0].Direction != CounterClockwise || events[0].Step != -1 {
		t.Fatalf("events = %v, want one CCW step to -1", events)
	}
}

func TestRotation_SequenceBumpWithoutEncoderChange(t *testing.T) {
	s := NewState()
	s.Decode(released(1, 0x40), at)
	s.Decode(released(2, 0x41), at) // one CW step

	// Button activity bumps the counter without moving the encoder.
	events := s.Decode(ctrl(3, 0x41, 0x01, 0, 0, 0xC0, 0xC0), at)
	for _, e := range events {
		if e.Kind == EventRotate {
			t.Fatalf("counter bump without encoder change rotated: %v", e)
		}
	}
	snap := s.Current()
	if snap.Direction != None {
		t.Fatalf("direction = %v, want none", snap.Direction)
	}
	if snap.Step != 1 {
		t.Fatalf("step = %d, want 1 (unchanged)", snap.Step)
	}
	if snap.Sequence != 3 {
		t.Fatalf("sequence should still be adopted, got %d", snap.Sequence)
	}
}

func TestRotation_UnchangedSequenceClearsDirection(t *testing.T) {
	s := NewState()
	s.Decode(released(1, 0x10), at)
	s.Decode(released(2, 0x11), at)
	if s.Current().Direction != Clockwise {
		t.Fatalf("setup: expected CW")
	}

	// A retransmitted frame with the same counter must not report a stale
	// direction.
	s.Decode(released(2, 0x11), at)
	if got := s.Current().Direction; got != None {
		t.Fatalf("direction = %v, want none", got)
	}
	if s.Current().Step != 1 {
		t.Fatalf("step changed on retransmit")
	}
}

func TestTrackRotation_Normalization(t *testing.T) {
	cases := []struct {
		name     string
		last     uint8
		enc      uint8
		wantDir  Direction
		wantStep int
	}{
		{"forward", 10, 20, Clockwise, 1},
		{"backward", 20, 10, CounterClockwise, -1},
		{"wrap forward", 0xF0, 0x05, Clockwise, 1},
		{"wrap backward", 0x05, 0xF0, CounterClockwise, -1},
		{"no movement", 0x33, 0x33, None, 0},
	}
	for _, tc := range cases {
		next := Snapshot{Sequence: 1, Encoder: tc.last}
		dir, rotated := trackRotation(&next, 2, tc.enc)
		if dir != tc.wantDir || rotated != (tc.wantDir != None) {
			t.Fatalf("%s: dir = %v rotated = %v", tc.name, dir, rotated)
		}
		if next.Step != tc.wantStep {
			t.Fatalf("%s: step = %d, want %d", tc.name, next.Step, tc.wantStep)
		}
		if next.Sequence != 2 || next.Encoder != tc.enc {
			t.Fatalf("%s: sample not adopted", tc.name)
		}
	}
}
