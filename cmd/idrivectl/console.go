package main

import (
	"fmt"
	"io"
	"strings"

	idrive "github.com/LeanWasTaken/iDrive"
	"github.com/LeanWasTaken/iDrive/canbus"
)

// Verbosity selects how much bus traffic the frame log shows next to the
// decoded events, which are always printed.
type Verbosity int

const (
	// VerbosityNormal logs no frames.
	VerbosityNormal Verbosity = iota
	// VerbosityDebug logs frames with known identifiers.
	VerbosityDebug
	// VerbosityRaw logs every frame except the 0x0BF stream.
	VerbosityRaw

	verbosityCount
)

func (v Verbosity) String() string {
	switch v {
	case VerbosityDebug:
		return "DEBUG (known packets + state changes)"
	case VerbosityRaw:
		return "RAW (all packets)"
	default:
		return "NORMAL (state changes only)"
	}
}

// ParseVerbosity reads the -verbosity flag value.
func ParseVerbosity(s string) (Verbosity, error) {
	switch strings.ToLower(s) {
	case "normal":
		return VerbosityNormal, nil
	case "debug":
		return VerbosityDebug, nil
	case "raw":
		return VerbosityRaw, nil
	}
	return 0, fmt.Errorf("unknown verbosity %q (want normal, debug or raw)", s)
}

// Console is the single-character operator interface. It reads command keys
// from rw and prints feedback lines back to it; every command effect runs on
// the loop goroutine, so the console also owns the mutable verbosity that
// the frame-log filter consults.
type Console struct {
	rw        io.ReadWriter
	verbosity Verbosity
	known     canbus.FrameFilter

	loop      *idrive.Loop
	backlight *idrive.Backlight
	bus       canbus.Sender
}

// NewConsole returns a console starting at the given verbosity. Attach must
// be called before Run; NewConsole is split out so AllowFrame can gate the
// transport the loop is then built on.
func NewConsole(rw io.ReadWriter, verbosity Verbosity) *Console {
	known := canbus.Or(idrive.KnownFrames(), canbus.ByIDs(idrive.IDBacklight, idrive.IDWakeUp))
	return &Console{rw: rw, verbosity: verbosity, known: known}
}

// Attach hands the console its loop-side collaborators.
func (c *Console) Attach(loop *idrive.Loop, backlight *idrive.Backlight, bus canbus.Sender) {
	c.loop = loop
	c.backlight = backlight
	c.bus = bus
}

// AllowFrame is the frame-log filter. The 0x0BF stream floods the bus many
// times per second and is never logged.
func (c *Console) AllowFrame(f canbus.Frame) bool {
	if f.ID == idrive.IDStream {
		return false
	}
	switch c.verbosity {
	case VerbosityRaw:
		return true
	case VerbosityDebug:
		return c.known(f)
	default:
		return false
	}
}

// Run reads operator keys until the reader fails, queueing each one onto the
// loop. Blocking reads stay on the caller's goroutine.
func (c *Console) Run() {
	buf := make([]byte, 1)
	for {
		n, err := c.rw.Read(buf)
		if err != nil {
			return
		}
		if n == 0 {
			continue
		}
		ch := buf[0]
		c.loop.Do(func() { c.handle(ch) })
	}
}

// handle executes one command key. Runs on the loop goroutine.
func (c *Console) handle(ch byte) {
	switch ch {
	case 'd', 'D':
		c.verbosity = (c.verbosity + 1) % verbosityCount
		fmt.Fprintf(c.rw, "Verbosity: %s\n", c.verbosity)

	case 'k', 'K':
		if err := c.loop.KeepAlive(); err != nil {
			fmt.Fprintf(c.rw, "Keep-alive failed: %v\n", err)
			return
		}
		fmt.Fprintln(c.rw, "Keep-alive sent")

	case '+', '=':
		c.adjust(+1)

	case '-', '_':
		c.adjust(-1)

	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		level := digitLevel(ch)
		if err := c.backlight.Set(level); err != nil {
			fmt.Fprintf(c.rw, "Brightness failed: %v\n", err)
			return
		}
		fmt.Fprintf(c.rw, "Level %c (%d%%)\n", ch, idrive.BrightnessPercent(level))

	case 'w', 'W':
		if err := idrive.SendWakeUp(c.bus); err != nil {
			fmt.Fprintf(c.rw, "Wake-up failed: %v\n", err)
			return
		}
		fmt.Fprintln(c.rw, "Wake-up sent")

	case 'h', 'H', '?':
		c.printHelp()

	case '\r', '\n', ' ', '\t':
		// line-buffered terminals send these after every key

	default:
		fmt.Fprintf(c.rw, "Unknown: %q\n", ch)
	}
}

func (c *Console) adjust(delta int) {
	level, err := c.backlight.Adjust(delta)
	if err != nil {
		fmt.Fprintf(c.rw, "Brightness failed: %v\n", err)
		return
	}
	fmt.Fprintf(c.rw, "Brightness: 0x%02X (%d%%)\n", level, idrive.BrightnessPercent(level))
}

func (c *Console) printHelp() {
	fmt.Fprint(c.rw, "\nCommands:\n"+
		"  d     - Cycle verbosity (Normal/Debug/Raw)\n"+
		"  k     - Send keep-alive now\n"+
		"  +/-   - Adjust brightness\n"+
		"  0-9   - Set brightness level\n"+
		"  w     - Send wake-up\n"+
		"  h     - Help\n"+
		"\nVerbosity:\n"+
		"  Normal: state changes only (buttons, knob, rotation)\n"+
		"  Debug:  known CAN packets + state changes\n"+
		"  Raw:    all CAN packets\n\n")
}

// digitLevel maps the '0'..'9' keys onto wire brightness levels: '0' is off
// and the rest spread from one quantum up in 0x18 increments.
func digitLevel(ch byte) uint8 {
	if ch == '0' {
		return 0
	}
	level := 0x20 + uint8(ch-'1')*0x18
	if level > idrive.MaxBrightness {
		level = idrive.MaxBrightness
	}
	return level
}
