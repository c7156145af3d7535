package idrive

// Arbitration identifiers observed on the controller bus. All are standard
// 11-bit IDs.
const (
	// IDController carries the combined input frame: sequence counter,
	// encoder sample, knob direction, and all eight buttons.
	IDController uint32 = 0x25B

	// IDUnknown567 and IDUnknown5E7 appear alongside controller traffic.
	// Their purpose is not established; frames are surfaced opaquely and
	// never interpreted.
	IDUnknown567 uint32 = 0x567
	IDUnknown5E7 uint32 = 0x5E7

	// IDStream is a continuous high-rate stream. It is excluded from
	// per-frame logging to avoid flooding the console.
	IDStream uint32 = 0x0BF
)

// Arbitration identifiers for outgoing frames.
const (
	// IDBacklight accepts brightness and light on/off commands.
	IDBacklight uint32 = 0x202

	// IDWakeUp accepts the one-shot wake-up burst sent at bring-up.
	IDWakeUp uint32 = 0x273

	// IDKeepAlive is the periodic liveness frame. It shares the 0x567
	// identifier with inbound traffic of unknown purpose.
	IDKeepAlive uint32 = 0x567
)
