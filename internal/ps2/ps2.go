// Package ps2 implements the AT/PS2 keyboard side of the converter: the
// 11-bit frame check, the scancode set 2 assembler, and the bidirectional
// protocol session (reset, self-test, scancode-set negotiation, LED and
// command transmission with bounded retry).
//
// Protocol reference: IBM PS/2 Hardware Interface Technical Reference,
// keyboard/auxiliary device interface.
package ps2

import "errors"

// Host-to-device commands.
const (
	cmdSetLEDs        = 0xED
	cmdEcho           = 0xEE
	cmdSetScancodeSet = 0xF0
	cmdEnable         = 0xF4
	cmdReset          = 0xFF
)

// Device-to-host control bytes. Everything else in steady state is a
// scancode byte and belongs to the assembler.
const (
	rspOverrun      = 0x00
	rspSelfTestPass = 0xAA
	rspEcho         = 0xEE
	rspAck          = 0xFA
	rspSelfTestFail  = 0xFC
	rspSelfTestFail2 = 0xFD
	rspResend        = 0xFE
)

// LED bit assignments for the Set LEDs command payload.
const (
	LEDScrollLock byte = 1 << 0
	LEDNumLock    byte = 1 << 1
	LEDCapsLock   byte = 1 << 2

	ledMaskBits = LEDScrollLock | LEDNumLock | LEDCapsLock
)

// scancodeSet2 is the set requested during negotiation and the one the
// assembler understands. Keyboards that ignore the request power up in set 2
// anyway, which is why a failed negotiation degrades instead of faulting.
const scancodeSet2 = 0x02

// Frame validation errors, counted by the producer and never forwarded.
var (
	ErrStartBit = errors.New("ps2: start bit not low")
	ErrParity   = errors.New("ps2: parity mismatch")
	ErrStopBit  = errors.New("ps2: stop bit not high")
)

// DecodeFrame validates a raw 11-bit device-to-host frame as sampled by the
// capture engine (bit 0 first on the wire, LSB of the word) and extracts the
// data byte. Layout: start(0), eight data bits LSB-first, odd parity, stop(1).
//
// It is pure and allocation-free so the producer context may call it; a
// non-nil error means the frame must be dropped and counted.
func DecodeFrame(word uint16) (byte, error) {
	if word&0x001 != 0 {
		return 0, ErrStartBit
	}
	if word&0x400 == 0 {
		return 0, ErrStopBit
	}
	data := byte(word >> 1)
	parity := byte(word>>9) & 1
	ones := parity
	for v := data; v != 0; v >>= 1 {
		ones ^= v & 1
	}
	// Odd parity: data bits plus parity bit always hold an odd count of ones.
	if ones != 1 {
		return 0, ErrParity
	}
	return data, nil
}

// EncodeFrame builds the 11-bit host-to-device frame for a command byte.
// Used by capture engines whose transmit path wants the full frame, and by
// tests to synthesize valid traffic.
func EncodeFrame(data byte) uint16 {
	ones := byte(0)
	for v := data; v != 0; v >>= 1 {
		ones ^= v & 1
	}
	word := uint16(data) << 1
	if ones == 0 {
		word |= 1 << 9 // parity bit makes the ones count odd
	}
	word |= 1 << 10 // stop
	return word
}
