package converter

import (
	"testing"
	"time"

	"github.com/PaulW/rp2040-keyboard-converter-sub001/internal/capture"
	"github.com/PaulW/rp2040-keyboard-converter-sub001/internal/ps2"
	"github.com/PaulW/rp2040-keyboard-converter-sub001/pkg/scancode"
)

func TestNewRequiresEngine(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatal("New accepted empty options")
	}
}

func TestFacadeRunsHandshakeAndEvents(t *testing.T) {
	engine := capture.NewMockEngine()
	var events []scancode.Event
	conv, err := New(Options{
		Engine:  engine,
		OnEvent: func(ev scancode.Event) { events = append(events, ev) },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	now := time.Unix(0, 0)
	if err := conv.Start(now); err != nil {
		t.Fatalf("Start: %v", err)
	}
	for _, b := range []byte{0xFA, 0xAA, 0xFA, 0xFA, 0x76, 0xF0, 0x76} {
		engine.Emit(ps2.EncodeFrame(b))
	}
	for i := 0; i < 15; i++ {
		now = now.Add(time.Millisecond)
		conv.RunOnce(now)
	}

	if got := conv.Session().Phase(); got != ps2.PhaseIdle {
		t.Fatalf("phase = %v, want idle", got)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if conv.FrameErrors() != 0 || conv.Dropped() != 0 {
		t.Fatalf("unexpected losses: frames=%d drops=%d", conv.FrameErrors(), conv.Dropped())
	}
}
