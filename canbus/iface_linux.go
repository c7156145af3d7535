//go:build linux && !tinygo

package canbus

import (
	"errors"
	"fmt"
	"os/exec"

	"golang.org/x/sys/unix"
)

// Linux network interface helpers. Flag operations go through ioctl on a
// throwaway SOCK_DGRAM socket; bitrate changes shell out to iproute2 because
// the kernel only exposes CAN link parameters over netlink.
//
// Bringing interfaces up or down requires CAP_NET_ADMIN. Without it these
// functions return EPERM.

func getInterfaceFlags(name string) (uint16, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM, 0)
	if err != nil {
		return 0, err
	}
	defer unix.Close(fd)
	ifr, err := unix.NewIfreq(name)
	if err != nil {
		return 0, fmt.Errorf("canbus: invalid interface name %q: %w", name, err)
	}
	if err := unix.IoctlIfreq(fd, unix.SIOCGIFFLAGS, ifr); err != nil {
		return 0, err
	}
	return ifr.Uint16(), nil
}

func setInterfaceFlags(name string, flags uint16) error {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM, 0)
	if err != nil {
		return err
	}
	defer unix.Close(fd)
	ifr, err := unix.NewIfreq(name)
	if err != nil {
		return fmt.Errorf("canbus: invalid interface name %q: %w", name, err)
	}
	ifr.SetUint16(flags)
	return unix.IoctlIfreq(fd, unix.SIOCSIFFLAGS, ifr)
}

// IsInterfaceUp reports whether the interface has IFF_UP set.
func IsInterfaceUp(name string) (bool, error) {
	flags, err := getInterfaceFlags(name)
	if err != nil {
		return false, err
	}
	return flags&unix.IFF_UP != 0, nil
}

// SetInterfaceUp sets IFF_UP on the given interface. Requires CAP_NET_ADMIN.
func SetInterfaceUp(name string) error {
	flags, err := getInterfaceFlags(name)
	if err != nil {
		return err
	}
	if flags&unix.IFF_UP != 0 {
		return nil
	}
	return setInterfaceFlags(name, flags|unix.IFF_UP)
}

// SetInterfaceDown clears IFF_UP on the given interface. Requires CAP_NET_ADMIN.
func SetInterfaceDown(name string) error {
	flags, err := getInterfaceFlags(name)
	if err != nil {
		return err
	}
	if flags&unix.IFF_UP == 0 {
		return nil
	}
	return setInterfaceFlags(name, flags&^unix.IFF_UP)
}

// RequireRootOrCapNetAdmin maps EPERM to a clearer error advising the caller
// to grant CAP_NET_ADMIN to the binary.
func RequireRootOrCapNetAdmin(err error) error {
	if errors.Is(err, unix.EPERM) {
		return fmt.Errorf("operation requires CAP_NET_ADMIN (or root): %w", err)
	}
	return err
}

// LinuxCANInterfaceOptions controls common CAN interface parameters applied
// through the system `ip` tool. Only non-nil fields are touched.
//
// Changing the bitrate typically requires the interface to be down; call
// SetInterfaceDown first and bring it back up after configuring.
type LinuxCANInterfaceOptions struct {
	// Bitrate sets the arbitration bit-rate in bits per second
	// (e.g., 125000, 500000). If nil, bitrate is left unchanged.
	Bitrate *uint32

	// RestartMs sets automatic bus-off recovery delay in milliseconds.
	// Set to 0 to disable auto-restart. If nil, restart-ms is left unchanged.
	RestartMs *uint32

	// TxQueueLen sets the transmit queue length in packets.
	// If nil, txqueuelen is left unchanged.
	TxQueueLen *int
}

// ConfigureLinuxCANInterface applies the provided options to a Linux CAN
// network interface by invoking iproute2. Requires CAP_NET_ADMIN (or root).
func ConfigureLinuxCANInterface(name string, opts LinuxCANInterfaceOptions) error {
	if opts.TxQueueLen != nil {
		cmd := exec.Command("ip", "link", "set", "dev", name, "txqueuelen", fmt.Sprintf("%d", *opts.TxQueueLen))
		if out, err := cmd.CombinedOutput(); err != nil {
			return RequireRootOrCapNetAdmin(fmt.Errorf("ip link set txqueuelen failed: %w; output: %s", err, string(out)))
		}
	}
	if opts.Bitrate != nil || opts.RestartMs != nil {
		args := []string{"link", "set", "dev", name, "type", "can"}
		if opts.Bitrate != nil {
			args = append(args, "bitrate", fmt.Sprintf("%d", *opts.Bitrate))
		}
		if opts.RestartMs != nil {
			args = append(args, "restart-ms", fmt.Sprintf("%d", *opts.RestartMs))
		}
		cmd := exec.Command("ip", args...)
		if out, err := cmd.CombinedOutput(); err != nil {
			return RequireRootOrCapNetAdmin(fmt.Errorf("ip link set type can failed: %w; output: %s", err, string(out)))
		}
	}
	return nil
}
