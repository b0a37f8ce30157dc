package ps2

import (
	"errors"
	"fmt"

	"github.com/PaulW/rp2040-keyboard-converter-sub001/pkg/scancode"
)

// SyntheticPause is the code reported for the Pause key, which has no single
// scancode of its own. 0xE1 only ever appears on the wire as the sequence
// lead, so it is free to reuse as the logical key id.
const SyntheticPause byte = 0xE1

const (
	prefixBreak    = 0xF0
	prefixExtended = 0xE0
	prefixPause    = 0xE1
)

// pauseSequence is the fixed make sequence for the Pause key in scancode
// set 2. It must match byte-for-byte; Pause emits no break sequence.
var pauseSequence = [8]byte{0xE1, 0x14, 0x77, 0xE1, 0xF0, 0x14, 0xF0, 0x77}

var errDoubleExtended = errors.New("ps2: repeated extended prefix")

type assemblerState uint8

const (
	asmIdle assemblerState = iota
	asmBreak
	asmExtended
	asmExtendedBreak
	asmPause
)

// Assembler turns the validated byte stream into key-transition events.
// It is a pure state machine: no I/O, no time, mutated only from the
// dispatcher goroutine.
type Assembler struct {
	state    assemblerState
	pauseIdx int
}

// Feed consumes one byte. When the byte completes a sequence the finished
// event is returned with ok=true. A non-nil error reports a framing problem
// (the state machine has already returned to idle); the byte sequence it
// belonged to is lost but the stream stays usable.
func (a *Assembler) Feed(b byte) (ev scancode.Event, ok bool, err error) {
	switch a.state {
	case asmIdle:
		switch b {
		case prefixBreak:
			a.state = asmBreak
		case prefixExtended:
			a.state = asmExtended
		case prefixPause:
			a.state = asmPause
			a.pauseIdx = 1
		default:
			return scancode.Event{Code: b, Transition: scancode.Make}, true, nil
		}
		return scancode.Event{}, false, nil

	case asmBreak:
		a.state = asmIdle
		if b == prefixBreak || b == prefixExtended || b == prefixPause {
			return scancode.Event{}, false, fmt.Errorf("ps2: prefix 0x%02X after break prefix", b)
		}
		return scancode.Event{Code: b, Transition: scancode.Break}, true, nil

	case asmExtended:
		switch b {
		case prefixBreak:
			a.state = asmExtendedBreak
			return scancode.Event{}, false, nil
		case prefixExtended, prefixPause:
			// Line noise; a prefix can never follow itself.
			a.state = asmIdle
			return scancode.Event{}, false, errDoubleExtended
		}
		a.state = asmIdle
		return scancode.Event{Code: b, Transition: scancode.Make, Extended: true}, true, nil

	case asmExtendedBreak:
		a.state = asmIdle
		if b == prefixBreak || b == prefixExtended || b == prefixPause {
			return scancode.Event{}, false, fmt.Errorf("ps2: prefix 0x%02X after extended break prefix", b)
		}
		return scancode.Event{Code: b, Transition: scancode.Break, Extended: true}, true, nil

	case asmPause:
		if b != pauseSequence[a.pauseIdx] {
			idx := a.pauseIdx
			a.state = asmIdle
			a.pauseIdx = 0
			return scancode.Event{}, false, fmt.Errorf("ps2: pause sequence byte %d: got 0x%02X, want 0x%02X",
				idx, b, pauseSequence[idx])
		}
		a.pauseIdx++
		if a.pauseIdx == len(pauseSequence) {
			a.state = asmIdle
			a.pauseIdx = 0
			return scancode.Event{Code: SyntheticPause, Transition: scancode.Make}, true, nil
		}
		return scancode.Event{}, false, nil
	}

	a.state = asmIdle
	return scancode.Event{}, false, fmt.Errorf("ps2: assembler in unknown state %d", a.state)
}

// Pending reports whether the assembler sits mid-sequence. The session uses
// it to expire a dangling prefix instead of holding it forever.
func (a *Assembler) Pending() bool {
	return a.state != asmIdle
}

// Reset abandons any partial sequence.
func (a *Assembler) Reset() {
	a.state = asmIdle
	a.pauseIdx = 0
}
