package idrive

import (
	"testing"
	"time"

	"github.com/LeanWasTaken/iDrive/canbus"
)

func TestKeepAlive_Payload(t *testing.T) {
	f, err := KeepAlive{}.MarshalCANFrame()
	if err != nil {
		t.Fatal(err)
	}
	if got, want := f.String(), "567 [8] 40 67 00 00 00 02 00 00"; got != want {
		t.Fatalf("frame = %q, want %q", got, want)
	}
}

func TestWakeUp_Payload(t *testing.T) {
	f, err := WakeUp{}.MarshalCANFrame()
	if err != nil {
		t.Fatal(err)
	}
	if got, want := f.String(), "273 [8] 1D E1 00 F0 FF 7F DE 04"; got != want {
		t.Fatalf("frame = %q, want %q", got, want)
	}
}

func TestSendKeepAlive(t *testing.T) {
	lb := canbus.NewLoopbackBus()
	defer lb.Close()
	tap := lb.Open()

	if err := SendKeepAlive(lb.Open()); err != nil {
		t.Fatalf("send: %v", err)
	}
	f, err := tap.Receive()
	if err != nil {
		t.Fatal(err)
	}
	if f.ID != IDKeepAlive || f.Data != keepAlivePayload {
		t.Fatalf("frame = %v", f)
	}
}

func TestKeepAliveWriter_SendsPeriodically(t *testing.T) {
	lb := canbus.NewLoopbackBus()
	defer lb.Close()
	tap := lb.Open()

	w := NewKeepAliveWriter(lb.Open(), 5*time.Millisecond)
	w.Start()
	w.Start() // still a single sender goroutine
	defer w.Stop()

	for i := 0; i < 3; i++ {
		f, err := tap.Receive()
		if err != nil {
			t.Fatalf("receive %d: %v", i, err)
		}
		if f.ID != IDKeepAlive || f.Len != 8 || f.Data != keepAlivePayload {
			t.Fatalf("frame %d = %v", i, f)
		}
	}

	w.Stop()
	w.Stop() // safe to repeat
}

func TestKeepAliveWriter_DefaultInterval(t *testing.T) {
	lb := canbus.NewLoopbackBus()
	defer lb.Close()

	w := NewKeepAliveWriter(lb.Open(), 0)
	if w.interval != KeepAliveInterval {
		t.Fatalf("interval = %v, want %v", w.interval, KeepAliveInterval)
	}
}
