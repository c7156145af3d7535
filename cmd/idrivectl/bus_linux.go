//go:build linux && !tinygo

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/tarm/serial"

	"github.com/LeanWasTaken/iDrive/canbus"
)

// openBus dials SocketCAN, optionally configuring the interface first. The
// setup path mirrors iproute2 usage: down, set the bitrate, back up.
func openBus(cfg Config, logger *slog.Logger) (canbus.Bus, error) {
	if cfg.Setup {
		if err := canbus.SetInterfaceDown(cfg.Interface); err != nil {
			return nil, canbus.RequireRootOrCapNetAdmin(err)
		}
		bitrate := uint32(cfg.Bitrate)
		opts := canbus.LinuxCANInterfaceOptions{Bitrate: &bitrate}
		if err := canbus.ConfigureLinuxCANInterface(cfg.Interface, opts); err != nil {
			return nil, err
		}
		if err := canbus.SetInterfaceUp(cfg.Interface); err != nil {
			return nil, canbus.RequireRootOrCapNetAdmin(err)
		}
		logger.Info("interface configured", "iface", cfg.Interface, "bitrate", cfg.Bitrate)
	} else if up, err := canbus.IsInterfaceUp(cfg.Interface); err == nil && !up {
		return nil, fmt.Errorf("%s is down (run with -setup, or: ip link set %s up)",
			cfg.Interface, cfg.Interface)
	}
	return canbus.DialSocketCAN(cfg.Interface)
}

// openConsole picks the operator console: a serial device when -console is
// given, stdin/stdout otherwise.
func openConsole(cfg Config) (io.ReadWriter, error) {
	if cfg.Console == "" {
		return stdio{}, nil
	}
	return serial.OpenPort(&serial.Config{Name: cfg.Console, Baud: cfg.Baud})
}

// stdio joins stdin and stdout into the console's ReadWriter.
type stdio struct{}

func (stdio) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdio) Write(p []byte) (int, error) { return os.Stdout.Write(p) }
