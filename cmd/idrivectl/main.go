// Command idrivectl monitors and drives a BMW iDrive rotary controller on a
// CAN bus. It decodes the controller's input frames into widget and rotation
// events, keeps the controller awake, and exposes the single-character
// operator console over stdin, a serial port or the device UART.
//
// On linux the transport is SocketCAN; built with tinygo it is an MCP2515 on
// SPI0, matching the bench hardware.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	idrive "github.com/LeanWasTaken/iDrive"
	"github.com/LeanWasTaken/iDrive/canbus"
)

// Config is the command-line surface. Defaults are the bench setup: can0 at
// 500k, console on stdin, keep-alive every 500ms.
type Config struct {
	Interface string
	Setup     bool
	Bitrate   uint
	Console   string
	Baud      int
	KeepAlive time.Duration
	Verbosity string
}

func main() {
	cfg := Config{
		Interface: "can0",
		Bitrate:   500000,
		Baud:      115200,
		KeepAlive: idrive.KeepAliveInterval,
		Verbosity: "normal",
	}
	flag.StringVar(&cfg.Interface, "i", cfg.Interface, "CAN interface name")
	flag.BoolVar(&cfg.Setup, "setup", cfg.Setup, "configure the bitrate and bring the interface up first (needs CAP_NET_ADMIN)")
	flag.UintVar(&cfg.Bitrate, "bitrate", cfg.Bitrate, "bitrate applied by -setup")
	flag.StringVar(&cfg.Console, "console", cfg.Console, "serial device for the operator console (default stdin)")
	flag.IntVar(&cfg.Baud, "baud", cfg.Baud, "baud rate for -console")
	flag.DurationVar(&cfg.KeepAlive, "keepalive", cfg.KeepAlive, "keep-alive period, 0 disables")
	flag.StringVar(&cfg.Verbosity, "verbosity", cfg.Verbosity, "frame logging: normal, debug or raw")
	flag.Parse()

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg Config) error {
	verbosity, err := ParseVerbosity(cfg.Verbosity)
	if err != nil {
		return err
	}
	rw, err := openConsole(cfg)
	if err != nil {
		return fmt.Errorf("console: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	bus, err := openBus(cfg, logger)
	if err != nil {
		return fmt.Errorf("CAN bus: %w", err)
	}
	defer bus.Close()

	// The console's verbosity gates the frame log, so the console exists
	// before the logged transport the loop runs on.
	con := NewConsole(rw, verbosity)
	logged := canbus.NewLoggedBusWithFilter(bus, logger, slog.LevelInfo, canbus.LogAll, con.AllowFrame)
	transport, ok := logged.(idrive.Transport)
	if !ok {
		return fmt.Errorf("transport %T cannot poll", logged)
	}

	loop := idrive.NewLoop(transport, idrive.NewRouter(idrive.NewState()), nil, logger)
	loop.KeepAliveEvery = cfg.KeepAlive
	loop.OnEvent = func(e idrive.Event) { fmt.Fprintln(rw, e) }
	con.Attach(loop, idrive.NewBacklight(transport), transport)

	if err := idrive.SendWakeUp(transport); err != nil {
		logger.Warn("wake-up failed", "error", err)
	}

	fmt.Fprintln(rw, "iDrive controller ready")
	fmt.Fprintln(rw, "Press 'h' for help")

	go con.Run()
	return loop.Run()
}
