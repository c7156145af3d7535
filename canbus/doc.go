// Package canbus provides core types and transports for working with
// Controller Area Network (CAN) frames.
//
// It includes:
//   - A core Frame type with validation and binary marshaling helpers
//   - An in-memory loopback bus for tests and simulations
//   - A Linux SocketCAN driver built on golang.org/x/sys/unix
//   - An MCP2515 adapter for TinyGo targets
//   - Frame filters, a fan-out Mux, and a structured-logging bus decorator
//
// Transports that can poll without blocking additionally implement
// TryReceiver; callers that need non-blocking reads should type-assert
// for it.
package canbus
