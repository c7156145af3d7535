package canbus

import (
	"context"
	"log/slog"
	"testing"
)

type recordSink struct {
	records []slog.Record
}

func (s *recordSink) Enabled(context.Context, slog.Level) bool { return true }
func (s *recordSink) Handle(_ context.Context, r slog.Record) error {
	// Deep-copy attributes because slog reuses the record during processing.
	attrs := make([]slog.Attr, 0, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool { attrs = append(attrs, a); return true })
	nr := slog.Record{Time: r.Time, Level: r.Level, PC: r.PC, Message: r.Message}
	nr.AddAttrs(attrs...)
	s.records = append(s.records, nr)
	return nil
}
func (s *recordSink) WithAttrs(attrs []slog.Attr) slog.Handler { return s }
func (s *recordSink) WithGroup(name string) slog.Handler       { return s }

func hasSlogMsg(records []slog.Record, level slog.Level, msg string) bool {
	for _, r := range records {
		if r.Level == level && r.Message == msg {
			return true
		}
	}
	return false
}

func countSlogMsg(records []slog.Record, msg string) int {
	n := 0
	for _, r := range records {
		if r.Message == msg {
			n++
		}
	}
	return n
}

func TestLoggedBus_WriteAndReadLogging(t *testing.T) {
	lb := NewLoopbackBus()
	defer lb.Close()

	sink := &recordSink{}
	logger := slog.New(sink)

	// Wrap both endpoints to verify read and write logging independently.
	sender := NewLoggedBus(lb.Open(), logger, slog.LevelInfo, LogWrite)
	receiver := NewLoggedBus(lb.Open(), logger, slog.LevelInfo, LogRead)
	defer sender.Close()
	defer receiver.Close()

	frame := MustFrame(0x25B, []byte{1, 2, 3})
	if err := sender.Send(frame); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := receiver.Receive(); err != nil {
		t.Fatalf("receive: %v", err)
	}

	if !hasSlogMsg(sink.records, slog.LevelInfo, "canbus send") {
		t.Fatalf("expected write log entry")
	}
	if !hasSlogMsg(sink.records, slog.LevelInfo, "canbus receive") {
		t.Fatalf("expected read log entry")
	}
}

func TestLoggedBus_ErrorLogging(t *testing.T) {
	lb := NewLoopbackBus()
	// Create and immediately close a receiver to force an error on Receive.
	rx := lb.Open()
	_ = rx.Close()

	sink := &recordSink{}
	logger := slog.New(sink)
	wrapped := NewLoggedBus(rx, logger, slog.LevelInfo, LogRead)
	_, _ = wrapped.Receive()

	if !hasSlogMsg(sink.records, slog.LevelError, "canbus receive error") {
		t.Fatalf("expected receive error log entry")
	}
}

func TestLoggedBus_FilterChangesAtRuntime(t *testing.T) {
	lb := NewLoopbackBus()
	defer lb.Close()

	sink := &recordSink{}
	logger := slog.New(sink)

	// The filter closes over a flag so callers can mute logging on the fly.
	verbose := true
	sender := NewLoggedBusWithFilter(lb.Open(), logger, slog.LevelInfo, LogWrite,
		func(Frame) bool { return verbose })
	defer sender.Close()

	f := MustFrame(0x567, []byte{0x40, 0x67})
	if err := sender.Send(f); err != nil {
		t.Fatalf("send: %v", err)
	}
	verbose = false
	if err := sender.Send(f); err != nil {
		t.Fatalf("send: %v", err)
	}

	if got := countSlogMsg(sink.records, "canbus send"); got != 1 {
		t.Fatalf("logged sends = %d, want 1", got)
	}
}

func TestLoggedBus_PreservesTryReceive(t *testing.T) {
	lb := NewLoopbackBus()
	defer lb.Close()

	sink := &recordSink{}
	logger := slog.New(sink)

	sender := lb.Open()
	wrapped := NewLoggedBus(lb.Open(), logger, slog.LevelInfo, LogRead)
	defer wrapped.Close()

	poll, ok := wrapped.(TryReceiver)
	if !ok {
		t.Fatalf("wrapping a polling bus should preserve TryReceiver")
	}

	// An empty poll produces no log entry.
	if _, got, err := poll.TryReceive(); got || err != nil {
		t.Fatalf("empty TryReceive = (%v, %v)", got, err)
	}
	if len(sink.records) != 0 {
		t.Fatalf("empty poll should not log, got %d records", len(sink.records))
	}

	if err := sender.Send(MustFrame(0x0BF, []byte{1})); err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, got, err := poll.TryReceive(); !got || err != nil {
		t.Fatalf("TryReceive = (%v, %v), want frame", got, err)
	}
	if !hasSlogMsg(sink.records, slog.LevelInfo, "canbus receive") {
		t.Fatalf("expected read log entry after delivery")
	}
}
