package capture

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"go.bug.st/serial"
)

// SerialEngine reads frame words from a capture pod attached over a serial
// port. The pod streams each sampled 11-bit frame as a 2-byte little-endian
// word and forwards anything written back out on the device's clock/data
// lines.
type SerialEngine struct {
	port io.ReadWriteCloser

	mu     sync.Mutex
	closed bool
	done   chan struct{} // nil until Start launches the reader
}

// OpenSerial opens the capture pod at path with the given baud rate.
func OpenSerial(path string, baud int) (*SerialEngine, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, fmt.Errorf("capture: open %s: %w", path, err)
	}
	return &SerialEngine{port: port}, nil
}

// Start launches the reader goroutine. That goroutine is the pipeline's
// producer context: it decodes words off the wire and invokes onFrame, which
// must stay bounded and non-blocking.
func (e *SerialEngine) Start(onFrame func(word uint16)) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	e.done = make(chan struct{})
	e.mu.Unlock()

	go e.readLoop(onFrame)
	return nil
}

func (e *SerialEngine) readLoop(onFrame func(word uint16)) {
	defer close(e.done)
	var word [2]byte
	for {
		if _, err := io.ReadFull(e.port, word[:]); err != nil {
			// Port closed or pod unplugged; the dispatcher notices through
			// session timeouts, nothing to report from this context.
			return
		}
		onFrame(binary.LittleEndian.Uint16(word[:]))
	}
}

// SendRaw writes command bytes to the pod for transmission to the device.
func (e *SerialEngine) SendRaw(p []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	if _, err := e.port.Write(p); err != nil {
		return fmt.Errorf("capture: serial write: %w", err)
	}
	return nil
}

// Close shuts the port and, if Start ran, waits for the reader goroutine to
// stop, after which the producer is provably inactive and the channel may be
// Reset. Safe to call before Start when setup fails partway.
func (e *SerialEngine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	done := e.done
	e.mu.Unlock()

	err := e.port.Close()
	if done != nil {
		<-done
	}
	return err
}
