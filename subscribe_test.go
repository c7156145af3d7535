package idrive

import (
	"testing"
	"time"

	"github.com/LeanWasTaken/iDrive/canbus"
)

func TestSubscribeEvents(t *testing.T) {
	lb := canbus.NewLoopbackBus()
	defer lb.Close()
	src := lb.Open()
	mux := canbus.NewMux(lb.Open())
	defer mux.Close()

	events, cancel := SubscribeEvents(mux, NewState(), 16)
	defer cancel()

	// The stream identifier is filtered out before the decoder; only the
	// controller frame behind it produces an event.
	if err := src.Send(canbus.Frame{ID: IDStream, Len: 8}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := src.Send(canbus.Frame{ID: IDController, Len: 8, Data: ctrl(1, 0, 0x01, 0, 0, 0xC0, 0xC0)}); err != nil {
		t.Fatalf("send: %v", err)
	}
	select {
	case ev := <-events:
		if ev.Kind != EventWidget || ev.Widget != KnobCenter || !ev.New {
			t.Fatalf("event = %v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no event from subscription")
	}

	unknown := canbus.MustFrame(IDUnknown5E7, []byte{0x01})
	if err := src.Send(unknown); err != nil {
		t.Fatalf("send: %v", err)
	}
	select {
	case ev := <-events:
		if ev.Kind != EventUnknown || ev.Frame != unknown {
			t.Fatalf("event = %v", ev)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no unknown event from subscription")
	}

	cancel()
	select {
	case _, ok := <-events:
		if ok {
			t.Fatalf("event after cancel")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("events channel not closed after cancel")
	}
}
