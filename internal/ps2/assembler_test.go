package ps2

import (
	"fmt"
	"strings"
	"testing"

	"github.com/PaulW/rp2040-keyboard-converter-sub001/pkg/scancode"
)

// feedAll runs a byte sequence through the assembler, failing on framing
// errors and returning the completed events.
func feedAll(t *testing.T, a *Assembler, bytes []byte) []scancode.Event {
	t.Helper()
	var events []scancode.Event
	for _, b := range bytes {
		ev, ok, err := a.Feed(b)
		if err != nil {
			t.Fatalf("Feed(0x%02X): %v", b, err)
		}
		if ok {
			events = append(events, ev)
		}
	}
	return events
}

func TestPlainMakeAndBreak(t *testing.T) {
	var a Assembler
	events := feedAll(t, &a, []byte{0x1C, 0xF0, 0x1C})
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	want0 := scancode.Event{Code: 0x1C, Transition: scancode.Make}
	want1 := scancode.Event{Code: 0x1C, Transition: scancode.Break}
	if events[0] != want0 || events[1] != want1 {
		t.Fatalf("got %v, %v", events[0], events[1])
	}
}

func TestExtendedRoundTrip(t *testing.T) {
	var a Assembler

	// No event may be emitted after only the prefix byte.
	if _, ok, err := a.Feed(0xE0); ok || err != nil {
		t.Fatalf("prefix alone produced ok=%v err=%v", ok, err)
	}
	ev, ok, err := a.Feed(0x1C)
	if err != nil || !ok {
		t.Fatalf("extended make: ok=%v err=%v", ok, err)
	}
	if want := (scancode.Event{Code: 0x1C, Transition: scancode.Make, Extended: true}); ev != want {
		t.Fatalf("got %v, want %v", ev, want)
	}

	events := feedAll(t, &a, []byte{0xE0, 0xF0, 0x1C})
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if want := (scancode.Event{Code: 0x1C, Transition: scancode.Break, Extended: true}); events[0] != want {
		t.Fatalf("got %v, want %v", events[0], want)
	}
}

func TestPauseSequenceEmitsSingleEvent(t *testing.T) {
	var a Assembler
	events := feedAll(t, &a, pauseSequence[:])
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if want := (scancode.Event{Code: SyntheticPause, Transition: scancode.Make}); events[0] != want {
		t.Fatalf("got %v, want %v", events[0], want)
	}
}

func TestPauseSequenceCorruptionAborts(t *testing.T) {
	for i := 1; i < len(pauseSequence); i++ {
		var a Assembler
		var feedErr error
		var events int
		for j, b := range pauseSequence {
			if j == i {
				b ^= 0xFF
			}
			ev, ok, err := a.Feed(b)
			if err != nil {
				feedErr = err
				break
			}
			if ok && ev.Code == SyntheticPause {
				events++
			}
		}
		if feedErr == nil {
			t.Fatalf("corrupt byte %d: no framing error reported", i)
		}
		// The error must name the position where the sequence diverged.
		if want := fmt.Sprintf("byte %d", i); !strings.Contains(feedErr.Error(), want) {
			t.Fatalf("corrupt byte %d: error %q does not mention %q", i, feedErr, want)
		}
		if events != 0 {
			t.Fatalf("corrupt byte %d: synthetic event emitted", i)
		}
		if a.Pending() {
			t.Fatalf("corrupt byte %d: assembler not back in idle", i)
		}
		// Stream remains usable.
		ev, ok, err := a.Feed(0x1C)
		if err != nil || !ok || ev.Code != 0x1C {
			t.Fatalf("corrupt byte %d: recovery feed failed: %v %v %v", i, ev, ok, err)
		}
	}
}

func TestDoubleExtendedPrefixResets(t *testing.T) {
	var a Assembler
	a.Feed(0xE0)
	if _, ok, err := a.Feed(0xE0); err == nil || ok {
		t.Fatalf("double prefix: ok=%v err=%v", ok, err)
	}
	if a.Pending() {
		t.Fatal("assembler stuck after double prefix")
	}
}

func TestPrefixAfterBreakRejected(t *testing.T) {
	var a Assembler
	a.Feed(0xF0)
	if _, ok, err := a.Feed(0xE0); err == nil || ok {
		t.Fatalf("prefix after break: ok=%v err=%v", ok, err)
	}
}
