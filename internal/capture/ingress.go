package capture

import (
	"sync/atomic"

	"github.com/PaulW/rp2040-keyboard-converter-sub001/internal/ps2"
	"github.com/PaulW/rp2040-keyboard-converter-sub001/internal/ringbuf"
)

// Ingress is the producer-context glue between an Engine and the byte
// channel: validate the frame, push the data byte, count failures. Nothing
// here parses, logs, or blocks; the dispatcher reads the counters later.
type Ingress struct {
	rb        *ringbuf.Buffer
	frameErrs atomic.Uint32
}

func NewIngress(rb *ringbuf.Buffer) *Ingress {
	return &Ingress{rb: rb}
}

// OnFrame is the Engine callback. Invalid frames are dropped and counted;
// a full channel drops the byte and is counted by the channel itself.
func (i *Ingress) OnFrame(word uint16) {
	b, err := ps2.DecodeFrame(word)
	if err != nil {
		i.frameErrs.Add(1)
		return
	}
	i.rb.TryPush(b)
}

// FrameErrors reports how many frames failed start/parity/stop validation.
func (i *Ingress) FrameErrors() uint32 {
	return i.frameErrs.Load()
}
