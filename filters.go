package idrive

import "github.com/LeanWasTaken/iDrive/canbus"

// Typed frame filters for the controller's identifiers.

// ControllerFrames matches well-formed combined input frames.
func ControllerFrames() canbus.FrameFilter {
	return canbus.And(canbus.StandardOnly(),
		canbus.And(canbus.ByID(IDController), canbus.LenExactly(8)))
}

// UnexplainedFrames matches traffic on the identifiers whose purpose is
// not established.
func UnexplainedFrames() canbus.FrameFilter {
	return canbus.And(canbus.StandardOnly(), canbus.ByIDs(IDUnknown567, IDUnknown5E7))
}

// StreamFrames matches the continuous high-rate stream.
func StreamFrames() canbus.FrameFilter {
	return canbus.And(canbus.StandardOnly(), canbus.ByID(IDStream))
}

// KnownFrames matches every identifier this package routes, excluding the
// stream.
func KnownFrames() canbus.FrameFilter {
	return canbus.Or(ControllerFrames(), UnexplainedFrames())
}
