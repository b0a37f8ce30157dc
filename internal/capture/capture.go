// Package capture abstracts the hardware bit-timing engine that samples the
// clock/data lines and delivers assembled 11-bit frames. On the real
// converter this is a PIO block; on a host it is a serial capture pod. The
// frame callback plays the interrupt-producer role: it must stay bounded,
// only validate and push, and never touch the protocol state machines.
package capture

import "errors"

// ErrClosed is returned by SendRaw after Close.
var ErrClosed = errors.New("capture: engine closed")

// Engine is the bidirectional boundary to the timing hardware.
type Engine interface {
	// Start registers the frame callback and begins delivery. The callback
	// contract: executes in bounded time, calls only frame validation and
	// the channel's TryPush, never blocks, never logs.
	Start(onFrame func(word uint16)) error
	// SendRaw transmits raw command bytes to the device.
	SendRaw(p []byte) error
	Close() error
}
