package idrive

import (
	"github.com/LeanWasTaken/iDrive/canbus"
)

// FrameMarshaler encodes a typed controller command into a CAN frame.
type FrameMarshaler interface {
	MarshalCANFrame() (canbus.Frame, error)
}

// Send marshals the command and transmits it on the bus.
func Send(bus canbus.Sender, m FrameMarshaler) error {
	f, err := m.MarshalCANFrame()
	if err != nil {
		return err
	}
	return bus.Send(f)
}
