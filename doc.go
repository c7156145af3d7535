// Package idrive decodes the CAN traffic of a BMW iDrive rotary controller
// into semantic input events and encodes the outgoing frames that drive it.
//
// The controller reports every input through a single combined frame:
// a sequence counter, a rotary encoder sample, a five-way knob byte, and
// four shared button bytes carrying press and touch sub-states for eight
// physical buttons. Decode compares each frame against the previously held
// snapshot and emits an Event per changed widget state, so consumers see
// edges, never steady-state repeats.
//
// The outgoing side covers backlight brightness, light on/off, a periodic
// keep-alive that holds the controller out of low power, and the one-shot
// wake-up burst used at bring-up.
//
// Routing, decoding, and snapshot bookkeeping are single-writer: either run
// everything on one goroutine through Loop, or fan frames out with
// canbus.Mux and SubscribeEvents.
package idrive
