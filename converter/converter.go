// Package converter assembles the complete input pipeline: a capture engine
// pushing validated bytes into the channel, the protocol session consuming
// them, and the dispatcher that drives both from a single polling loop.
package converter

import (
	"errors"
	"log/slog"
	"time"

	"github.com/PaulW/rp2040-keyboard-converter-sub001/internal/capture"
	"github.com/PaulW/rp2040-keyboard-converter-sub001/internal/dispatch"
	"github.com/PaulW/rp2040-keyboard-converter-sub001/internal/ps2"
	"github.com/PaulW/rp2040-keyboard-converter-sub001/internal/ringbuf"
	"github.com/PaulW/rp2040-keyboard-converter-sub001/pkg/scancode"
)

// DefaultChannelSize is used when Options.ChannelSize is zero.
const DefaultChannelSize = 64

// Options configures a Converter.
type Options struct {
	// Engine produces frame words and carries outbound command bytes.
	Engine capture.Engine
	// ChannelSize is the byte channel capacity; must be a power of two.
	ChannelSize int
	// OnEvent receives assembled key transitions in arrival order.
	OnEvent func(scancode.Event)
	Logger  *slog.Logger
}

// Converter owns the wired pipeline. All methods except Close must be called
// from the polling goroutine.
type Converter struct {
	engine  capture.Engine
	rb      *ringbuf.Buffer
	ingress *capture.Ingress
	sess    *ps2.Session
	d       *dispatch.Dispatcher
}

// New wires the pipeline but does not start the engine or the handshake.
func New(opts Options) (*Converter, error) {
	if opts.Engine == nil {
		return nil, errors.New("converter: Options.Engine is required")
	}
	size := opts.ChannelSize
	if size == 0 {
		size = DefaultChannelSize
	}
	rb, err := ringbuf.New(size)
	if err != nil {
		return nil, err
	}
	sess, err := ps2.NewSession(ps2.Config{
		Transmit: opts.Engine,
		OnEvent:  opts.OnEvent,
		Logger:   opts.Logger,
	})
	if err != nil {
		return nil, err
	}
	return &Converter{
		engine:  opts.Engine,
		rb:      rb,
		ingress: capture.NewIngress(rb),
		sess:    sess,
		d:       dispatch.New(rb, sess, opts.Logger),
	}, nil
}

// Start begins frame capture and transmits the device reset.
func (c *Converter) Start(now time.Time) error {
	if err := c.engine.Start(c.ingress.OnFrame); err != nil {
		return err
	}
	c.sess.Start(now)
	return nil
}

// RunOnce performs one bounded dispatcher iteration.
func (c *Converter) RunOnce(now time.Time) { c.d.RunOnce(now) }

// SetLEDState queues a lock-key LED update toward the device.
func (c *Converter) SetLEDState(mask byte, now time.Time) error {
	return c.d.SetLEDState(mask, now)
}

// Reinitialize drops all pipeline state and restarts the device handshake.
// The engine's producer must be quiescent for the duration of the call: the
// channel reset is only safe while nothing is pushing (see
// ringbuf.Buffer.Reset), so stop capture first or call this before Start.
func (c *Converter) Reinitialize(now time.Time) { c.d.Reinitialize(now) }

// Session exposes the protocol session for phase and counter inspection.
func (c *Converter) Session() *ps2.Session { return c.sess }

// FrameErrors reports frames rejected at the capture edge.
func (c *Converter) FrameErrors() uint32 { return c.ingress.FrameErrors() }

// Dropped reports bytes lost to channel overflow.
func (c *Converter) Dropped() uint32 { return c.rb.Dropped() }

// Close stops the capture engine.
func (c *Converter) Close() error { return c.engine.Close() }
