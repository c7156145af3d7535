package canbus

import (
	"context"
	"log/slog"
)

// LogOption is a bitmask for selecting which operations to log.
type LogOption uint8

const (
	LogNone  LogOption = 0
	LogRead  LogOption = 1 << 0
	LogWrite LogOption = 1 << 1
	LogAll             = LogRead | LogWrite
)

// NewLoggedBus wraps the given Bus and logs selected operations at the given
// level using a slog.Logger. If the inner bus supports non-blocking receive,
// the returned bus does too.
func NewLoggedBus(inner Bus, logger *slog.Logger, level slog.Level, opts LogOption) Bus {
	return NewLoggedBusWithFilter(inner, logger, level, opts, nil)
}

// NewLoggedBusWithFilter behaves like NewLoggedBus but only logs frames that
// satisfy the provided filter. If filter is nil, all frames are logged. The
// filter is consulted per frame, so a filter closing over mutable state can
// change what is logged at runtime.
func NewLoggedBusWithFilter(inner Bus, logger *slog.Logger, level slog.Level, opts LogOption, filter FrameFilter) Bus {
	lb := &loggedBus{
		inner:  inner,
		logger: logger,
		level:  level,
		opts:   opts,
		filter: filter,
	}
	if _, ok := inner.(TryReceiver); ok {
		return &loggedPollBus{lb}
	}
	return lb
}

type loggedBus struct {
	inner  Bus
	logger *slog.Logger
	level  slog.Level
	opts   LogOption
	filter FrameFilter
}

// Send logs the frame and the result when write logging is enabled.
func (l *loggedBus) Send(frame Frame) error {
	if l.opts&LogWrite != 0 && (l.filter == nil || l.filter(frame)) {
		l.logger.Log(context.Background(), l.level, "canbus send",
			"id", frame.ID,
			"len", int(frame.Len),
			"frame", frame.String(),
		)
	}
	err := l.inner.Send(frame)
	if l.opts&LogWrite != 0 && err != nil {
		l.logger.Log(context.Background(), slog.LevelError, "canbus send error",
			"id", frame.ID,
			"error", err,
		)
	}
	return err
}

// Receive logs the received frame or error when read logging is enabled.
func (l *loggedBus) Receive() (Frame, error) {
	f, err := l.inner.Receive()
	l.logReceive(f, err, err == nil)
	return f, err
}

// Close forwards to the inner Bus without logging.
func (l *loggedBus) Close() error {
	return l.inner.Close()
}

func (l *loggedBus) logReceive(f Frame, err error, got bool) {
	if l.opts&LogRead == 0 {
		return
	}
	if err != nil {
		l.logger.Log(context.Background(), slog.LevelError, "canbus receive error",
			"error", err,
		)
		return
	}
	if got && (l.filter == nil || l.filter(f)) {
		l.logger.Log(context.Background(), l.level, "canbus receive",
			"id", f.ID,
			"len", int(f.Len),
			"frame", f.String(),
		)
	}
}

// loggedPollBus additionally forwards the non-blocking receive capability.
type loggedPollBus struct {
	*loggedBus
}

// TryReceive forwards to the inner bus and logs delivered frames. An empty
// receive buffer is not logged.
func (l *loggedPollBus) TryReceive() (Frame, bool, error) {
	f, ok, err := l.inner.(TryReceiver).TryReceive()
	l.logReceive(f, err, ok)
	return f, ok, err
}
