//go:build tinygo

package main

import (
	"io"
	"log/slog"
	"machine"
	"time"

	"tinygo.org/x/drivers/mcp2515"

	"github.com/LeanWasTaken/iDrive/canbus"
)

// MCP2515 wiring on SPI0.
const (
	canSCK machine.Pin = 18
	canSDO machine.Pin = 19
	canSDI machine.Pin = 20
	canCS  machine.Pin = 21
)

// openBus brings up the MCP2515 at the controller's 500kbps. Interface
// flags in cfg only apply to the linux build.
func openBus(cfg Config, logger *slog.Logger) (canbus.Bus, error) {
	spi := machine.SPI0
	if err := spi.Configure(machine.SPIConfig{
		Frequency: 500000,
		SCK:       canSCK,
		SDO:       canSDO,
		SDI:       canSDI,
		Mode:      0,
	}); err != nil {
		return nil, err
	}
	dev := mcp2515.New(spi, canCS)
	dev.Configure()
	if err := dev.Begin(mcp2515.CAN500kBps, mcp2515.Clock8MHz); err != nil {
		return nil, err
	}
	logger.Info("mcp2515 up", "bitrate", 500000)
	return canbus.WrapMCP2515(dev), nil
}

// openConsole returns the USB/UART console.
func openConsole(cfg Config) (io.ReadWriter, error) {
	return machineSerial{}, nil
}

// machineSerial adapts machine.Serial to io.ReadWriter. Read blocks until
// at least one byte is buffered.
type machineSerial struct{}

func (machineSerial) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for machine.Serial.Buffered() == 0 {
		time.Sleep(time.Millisecond)
	}
	n := 0
	for n < len(p) && machine.Serial.Buffered() > 0 {
		b, err := machine.Serial.ReadByte()
		if err != nil {
			if n == 0 {
				return 0, err
			}
			break
		}
		p[n] = b
		n++
	}
	return n, nil
}

func (machineSerial) Write(p []byte) (int, error) {
	return machine.Serial.Write(p)
}
