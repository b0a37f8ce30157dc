package dispatch

import (
	"testing"
	"time"

	"github.com/PaulW/rp2040-keyboard-converter-sub001/internal/capture"
	"github.com/PaulW/rp2040-keyboard-converter-sub001/internal/ps2"
	"github.com/PaulW/rp2040-keyboard-converter-sub001/internal/ringbuf"
	"github.com/PaulW/rp2040-keyboard-converter-sub001/pkg/scancode"
)

// TestPipelineEndToEnd drives the full path: mock engine frames through the
// ingress validator into the channel, drained one byte per iteration by the
// dispatcher, through the session handshake into assembled key events.
func TestPipelineEndToEnd(t *testing.T) {
	rb, err := ringbuf.New(64)
	if err != nil {
		t.Fatalf("ringbuf.New: %v", err)
	}
	engine := capture.NewMockEngine()

	var events []scancode.Event
	sess, err := ps2.NewSession(ps2.Config{
		Transmit: engine,
		OnEvent:  func(ev scancode.Event) { events = append(events, ev) },
	})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	ingress := capture.NewIngress(rb)
	if err := engine.Start(ingress.OnFrame); err != nil {
		t.Fatalf("engine.Start: %v", err)
	}

	d := New(rb, sess, nil)
	now := time.Unix(0, 0)
	sess.Start(now)

	// Handshake responses followed by a press and release of 0x1C.
	for _, b := range []byte{0xFA, 0xAA, 0xFA, 0xFA, 0x1C, 0xF0, 0x1C} {
		engine.Emit(ps2.EncodeFrame(b))
	}
	// One corrupted frame; it must be dropped before the channel.
	engine.Emit(ps2.EncodeFrame(0x32) ^ (1 << 4))

	for i := 0; i < 20; i++ {
		now = now.Add(time.Millisecond)
		d.RunOnce(now)
	}

	if sess.Phase() != ps2.PhaseIdle {
		t.Fatalf("phase = %v, want idle", sess.Phase())
	}
	want := []scancode.Event{
		{Code: 0x1C, Transition: scancode.Make},
		{Code: 0x1C, Transition: scancode.Break},
	}
	if len(events) != len(want) {
		t.Fatalf("got %d events (%v), want %d", len(events), events, len(want))
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("event %d: got %v, want %v", i, events[i], want[i])
		}
	}
	if ingress.FrameErrors() != 1 {
		t.Fatalf("FrameErrors = %d, want 1", ingress.FrameErrors())
	}
}

// TestBoundedWorkPerIteration checks that RunOnce never drains more than one
// byte, keeping loop latency predictable.
func TestBoundedWorkPerIteration(t *testing.T) {
	rb, _ := ringbuf.New(16)
	engine := capture.NewMockEngine()
	sess, err := ps2.NewSession(ps2.Config{Transmit: engine})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	d := New(rb, sess, nil)
	now := time.Unix(0, 0)
	sess.Start(now)

	for i := 0; i < 5; i++ {
		rb.TryPush(0xFA)
	}
	d.RunOnce(now)
	if rb.Len() != 4 {
		t.Fatalf("Len after one iteration = %d, want 4", rb.Len())
	}
}

func TestReinitializeClearsChannel(t *testing.T) {
	rb, _ := ringbuf.New(16)
	engine := capture.NewMockEngine()
	sess, err := ps2.NewSession(ps2.Config{Transmit: engine})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	d := New(rb, sess, nil)
	now := time.Unix(0, 0)
	sess.Start(now)

	rb.TryPush(0x12)
	rb.TryPush(0x34)
	d.Reinitialize(now)
	if rb.Len() != 0 {
		t.Fatalf("Len after Reinitialize = %d", rb.Len())
	}
	if sess.Phase() != ps2.PhaseReset {
		t.Fatalf("phase = %v, want reset", sess.Phase())
	}
}
