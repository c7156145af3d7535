//go:build tinygo

package canbus

import (
	"fmt"
	"time"

	"tinygo.org/x/drivers/mcp2515"
)

// MCP2515Bus adapts a tinygo.org/x/drivers MCP2515 controller to the Bus
// interface. The device must already be configured and started (Configure
// plus Begin) by the caller; the adapter only moves frames.
//
// The driver speaks classical CAN with standard identifiers. Sending
// extended or remote frames returns an error.
type MCP2515Bus struct {
	dev    *mcp2515.Device
	closed bool
}

// WrapMCP2515 wraps a started MCP2515 device.
func WrapMCP2515(dev *mcp2515.Device) *MCP2515Bus {
	return &MCP2515Bus{dev: dev}
}

// Send transmits one frame through the controller.
func (b *MCP2515Bus) Send(frame Frame) error {
	if b.closed {
		return ErrClosed
	}
	if err := frame.Validate(); err != nil {
		return err
	}
	if frame.Extended || frame.RTR {
		return fmt.Errorf("canbus: mcp2515: extended and remote frames not supported")
	}
	if err := b.dev.Tx(frame.ID, frame.Len, frame.Data[:frame.Len]); err != nil {
		return fmt.Errorf("canbus: mcp2515 tx: %w", err)
	}
	return nil
}

// Receive blocks until the controller reports a pending frame. The MCP2515
// has no blocking read, so this polls the interrupt flags.
func (b *MCP2515Bus) Receive() (Frame, error) {
	for {
		f, ok, err := b.TryReceive()
		if err != nil {
			return Frame{}, err
		}
		if ok {
			return f, nil
		}
		time.Sleep(500 * time.Microsecond)
	}
}

// TryReceive reads one frame if the controller holds one, without waiting.
func (b *MCP2515Bus) TryReceive() (Frame, bool, error) {
	if b.closed {
		return Frame{}, false, ErrClosed
	}
	if !b.dev.Received() {
		return Frame{}, false, nil
	}
	msg, err := b.dev.Rx()
	if err != nil {
		return Frame{}, false, fmt.Errorf("canbus: mcp2515 rx: %w", err)
	}
	var f Frame
	f.ID = msg.ID & canStdMask
	f.Len = msg.Dlc
	if f.Len > 8 {
		f.Len = 8
	}
	// The driver reuses the message buffer between reads.
	copy(f.Data[:], msg.Data[:f.Len])
	return f, true, nil
}

// Close marks the bus closed. The controller itself keeps running; the
// MCP2515 driver exposes no shutdown operation.
func (b *MCP2515Bus) Close() error {
	b.closed = true
	return nil
}
