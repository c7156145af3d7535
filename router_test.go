package idrive

import (
	"testing"

	"github.com/LeanWasTaken/iDrive/canbus"
)

func TestRouter_DecodesControllerFrames(t *testing.T) {
	r := NewRouter(NewState())

	f := canbus.Frame{ID: IDController, Len: 8, Data: ctrl(1, 0, 0x01, 0, 0, 0xC0, 0xC0)}
	events := r.Route(f, at)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	ev := events[0]
	if ev.Kind != EventWidget || ev.Widget != KnobCenter || !ev.New {
		t.Fatalf("event = %+v, want knob center press", ev)
	}
	if !ev.Time.Equal(at) {
		t.Fatalf("event time = %v, want %v", ev.Time, at)
	}
}

func TestRouter_DropsShortControllerFrames(t *testing.T) {
	state := NewState()
	r := NewRouter(state)

	f := canbus.Frame{ID: IDController, Len: 7, Data: ctrl(1, 0, 0x01, 0, 0, 0xC0, 0xC0)}
	if events := r.Route(f, at); events != nil {
		t.Fatalf("short frame produced events: %v", events)
	}
	if !state.Current().FirstMessage {
		t.Fatalf("short frame must not touch decoder state")
	}
}

func TestRouter_SurfacesUnexplainedFrames(t *testing.T) {
	r := NewRouter(NewState())

	for _, id := range []uint32{IDUnknown567, IDUnknown5E7} {
		f := canbus.MustFrame(id, []byte{0x40, 0x67})
		events := r.Route(f, at)
		if len(events) != 1 {
			t.Fatalf("0x%03X: got %d events, want 1", id, len(events))
		}
		ev := events[0]
		if ev.Kind != EventUnknown || ev.Frame != f || !ev.Time.Equal(at) {
			t.Fatalf("0x%03X: event = %+v", id, ev)
		}
	}

	ev := r.Route(canbus.MustFrame(IDUnknown567, []byte{0x40, 0x67}), at)[0]
	if got, want := ev.String(), "UNKNOWN 567 [2] 40 67"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestRouter_IgnoresOtherTraffic(t *testing.T) {
	r := NewRouter(NewState())

	frames := []canbus.Frame{
		{ID: IDStream, Len: 8},
		{ID: 0x123, Len: 2},
		{ID: IDController, Extended: true, Len: 8},
		{ID: IDController, RTR: true, Len: 8},
	}
	for _, f := range frames {
		if events := r.Route(f, at); len(events) != 0 {
			t.Fatalf("%v produced events: %v", f, events)
		}
	}
}
