//go:build linux && !tinygo

package canbus

import (
	"fmt"
	"net"
	"sync"

	"golang.org/x/sys/unix"
)

// socketCAN implements Bus over a Linux SocketCAN raw socket.
type socketCAN struct {
	fd int

	mu     sync.Mutex
	closed bool
}

// DialSocketCAN opens a raw CAN socket bound to the given interface name
// (e.g., "can0"). The returned bus supports non-blocking receive.
func DialSocketCAN(iface string) (Bus, error) {
	fd, err := unix.Socket(unix.AF_CAN, unix.SOCK_RAW, unix.CAN_RAW)
	if err != nil {
		return nil, fmt.Errorf("canbus: socket(AF_CAN): %w", err)
	}
	// Classic CAN only. Older kernels may not know the option; that is fine.
	if err := unix.SetsockoptInt(fd, unix.SOL_CAN_RAW, unix.CAN_RAW_FD_FRAMES, 0); err != nil && err != unix.ENOPROTOOPT {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("canbus: disable CAN FD: %w", err)
	}
	ifi, err := net.InterfaceByName(iface)
	if err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("canbus: interface %q: %w", iface, err)
	}
	if err := unix.Bind(fd, &unix.SockaddrCAN{Ifindex: ifi.Index}); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("canbus: bind(can@%s): %w", iface, err)
	}
	return &socketCAN{fd: fd}, nil
}

// Send transmits one classic CAN frame.
func (s *socketCAN) Send(frame Frame) error {
	buf, err := frame.MarshalBinary()
	if err != nil {
		return err
	}
	if s.isClosed() {
		return ErrClosed
	}
	if _, err := unix.Write(s.fd, buf); err != nil {
		return fmt.Errorf("canbus: send: %w", err)
	}
	return nil
}

// Receive blocks until the next frame arrives.
func (s *socketCAN) Receive() (Frame, error) {
	return s.read()
}

// TryReceive polls the socket and reads one frame only when data is pending.
func (s *socketCAN) TryReceive() (Frame, bool, error) {
	if s.isClosed() {
		return Frame{}, false, ErrClosed
	}
	fds := []unix.PollFd{{Fd: int32(s.fd), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, 0)
	if err != nil {
		if err == unix.EINTR {
			return Frame{}, false, nil
		}
		return Frame{}, false, fmt.Errorf("canbus: poll: %w", err)
	}
	if n == 0 || fds[0].Revents&unix.POLLIN == 0 {
		return Frame{}, false, nil
	}
	f, err := s.read()
	if err != nil {
		return Frame{}, false, err
	}
	return f, true, nil
}

func (s *socketCAN) read() (Frame, error) {
	var buf [unix.CAN_MTU]byte // classic CAN MTU = 16 bytes
	for {
		n, err := unix.Read(s.fd, buf[:])
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			if s.isClosed() {
				return Frame{}, ErrClosed
			}
			return Frame{}, fmt.Errorf("canbus: receive: %w", err)
		}
		if n != unix.CAN_MTU {
			return Frame{}, fmt.Errorf("canbus: short can_frame read: %d", n)
		}
		var f Frame
		if err := f.UnmarshalBinary(buf[:]); err != nil {
			return Frame{}, err
		}
		return f, nil
	}
}

// Close shuts the socket down. Blocked Receive calls return an error.
func (s *socketCAN) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return unix.Close(s.fd)
}

func (s *socketCAN) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
