package idrive

import (
	"fmt"
	"time"

	"github.com/LeanWasTaken/iDrive/canbus"
)

// Backlight limits and command bytes.
const (
	// MaxBrightness is the highest level the controller accepts.
	MaxBrightness uint8 = 0xFD

	// BrightnessQuantum is the step applied by Adjust.
	BrightnessQuantum uint8 = 0x20

	lightOffByte byte = 0xFE

	// settleDelay is how long the controller needs after a backlight
	// frame before it reliably accepts the next one.
	settleDelay = 30 * time.Millisecond
)

// Brightness is the single-byte brightness-set command. Zero is not a wire
// level; the light is switched off with LightOff instead.
type Brightness uint8

// MarshalCANFrame encodes the brightness set command.
func (b Brightness) MarshalCANFrame() (canbus.Frame, error) {
	if b == 0 || uint8(b) > MaxBrightness {
		return canbus.Frame{}, fmt.Errorf("idrive: brightness 0x%02X out of range (1..0x%02X)", uint8(b), MaxBrightness)
	}
	var f canbus.Frame
	f.ID = IDBacklight
	f.Len = 1
	f.Data[0] = byte(b)
	return f, nil
}

// LightOff is the two-byte light-off command.
type LightOff struct{}

// MarshalCANFrame encodes the light-off command.
func (LightOff) MarshalCANFrame() (canbus.Frame, error) {
	var f canbus.Frame
	f.ID = IDBacklight
	f.Len = 2
	f.Data[0] = lightOffByte
	return f, nil
}

// LightOn is the two-byte light-on command. It drives the backlight to
// full brightness.
type LightOn struct{}

// MarshalCANFrame encodes the light-on command.
func (LightOn) MarshalCANFrame() (canbus.Frame, error) {
	var f canbus.Frame
	f.ID = IDBacklight
	f.Len = 2
	f.Data[0] = MaxBrightness
	return f, nil
}

// Backlight drives the controller's illumination. It tracks the last
// nonzero brightness and whether the light is on; switching off retains
// the recorded brightness. Not safe for concurrent use; drive it from one
// goroutine (Loop.Do when a loop owns the bus).
type Backlight struct {
	bus   canbus.Sender
	level uint8
	on    bool
	sleep func(time.Duration)
}

// NewBacklight returns a backlight encoder assuming the controller's
// power-on default of full brightness with the light off.
func NewBacklight(bus canbus.Sender) *Backlight {
	return &Backlight{bus: bus, level: MaxBrightness, sleep: time.Sleep}
}

// Set clamps level to MaxBrightness and transmits it. Level zero sends the
// light-off frame and clears the lit flag without touching the recorded
// brightness. Every transmission is followed by the settle delay.
func (b *Backlight) Set(level uint8) error {
	if level > MaxBrightness {
		level = MaxBrightness
	}
	if level == 0 {
		if err := Send(b.bus, LightOff{}); err != nil {
			return err
		}
		b.on = false
	} else {
		if err := Send(b.bus, Brightness(level)); err != nil {
			return err
		}
		b.level = level
		b.on = true
	}
	b.sleep(settleDelay)
	return nil
}

// Adjust moves brightness one quantum up (delta > 0) or down (delta <= 0)
// and transmits the result. Raising from a recorded level of zero jumps
// straight to one quantum; lowering from one quantum or less switches the
// light off. The level that was sent is returned.
func (b *Backlight) Adjust(delta int) (uint8, error) {
	var next uint8
	if delta > 0 {
		if n := int(b.level) + int(BrightnessQuantum); n >= int(MaxBrightness) {
			next = MaxBrightness
		} else {
			next = uint8(n)
		}
		if b.level == 0 {
			next = BrightnessQuantum
		}
	} else {
		if b.level <= BrightnessQuantum {
			next = 0
		} else {
			next = b.level - BrightnessQuantum
		}
	}
	if err := b.Set(next); err != nil {
		return b.level, err
	}
	return next, nil
}

// On switches the light on at full brightness.
func (b *Backlight) On() error {
	if err := Send(b.bus, LightOn{}); err != nil {
		return err
	}
	b.level = MaxBrightness
	b.on = true
	b.sleep(settleDelay)
	return nil
}

// Off switches the light off. Equivalent to Set(0).
func (b *Backlight) Off() error {
	return b.Set(0)
}

// Level returns the recorded brightness, which survives switching off.
func (b *Backlight) Level() uint8 {
	return b.level
}

// Lit reports whether the light is on.
func (b *Backlight) Lit() bool {
	return b.on
}

// BrightnessPercent converts a wire level to a display percentage.
func BrightnessPercent(level uint8) int {
	if level == 0 {
		return 0
	}
	return int(level) * 100 / int(MaxBrightness)
}
