// Package hidmap resolves assembled scancode events into USB HID boot
// keyboard usages and maintains the 8-byte boot report. It is the keymap
// collaborator downstream of the input pipeline.
package hidmap

import (
	"github.com/PaulW/rp2040-keyboard-converter-sub001/pkg/scancode"
)

// Modifier usage range of the boot keyboard page.
const (
	UsageLeftCtrl   = 0xE0
	UsageLeftShift  = 0xE1
	UsageLeftAlt    = 0xE2
	UsageLeftGUI    = 0xE3
	UsageRightCtrl  = 0xE4
	UsageRightShift = 0xE5
	UsageRightAlt   = 0xE6
	UsageRightGUI   = 0xE7
)

// Lock-key usages, needed by the LED follow logic.
const (
	UsageCapsLock   = 0x39
	UsageNumLock    = 0x53
	UsageScrollLock = 0x47
	UsagePause      = 0x48
)

// base maps scancode set 2 single-byte codes to HID usages. Zero means the
// code has no boot-protocol mapping and is dropped.
var base = [256]byte{
	0x01: 0x42, // F9
	0x03: 0x3E, // F5
	0x04: 0x3C, // F3
	0x05: 0x3A, // F1
	0x06: 0x3B, // F2
	0x07: 0x45, // F12
	0x09: 0x43, // F10
	0x0A: 0x41, // F8
	0x0B: 0x3F, // F6
	0x0C: 0x3D, // F4
	0x0D: 0x2B, // Tab
	0x0E: 0x35, // ` ~
	0x11: UsageLeftAlt,
	0x12: UsageLeftShift,
	0x14: UsageLeftCtrl,
	0x15: 0x14, // Q
	0x16: 0x1E, // 1
	0x1A: 0x1D, // Z
	0x1B: 0x16, // S
	0x1C: 0x04, // A
	0x1D: 0x1A, // W
	0x1E: 0x1F, // 2
	0x21: 0x06, // C
	0x22: 0x1B, // X
	0x23: 0x07, // D
	0x24: 0x08, // E
	0x25: 0x21, // 4
	0x26: 0x20, // 3
	0x29: 0x2C, // Space
	0x2A: 0x19, // V
	0x2B: 0x09, // F
	0x2C: 0x17, // T
	0x2D: 0x15, // R
	0x2E: 0x22, // 5
	0x31: 0x11, // N
	0x32: 0x05, // B
	0x33: 0x0B, // H
	0x34: 0x0A, // G
	0x35: 0x1C, // Y
	0x36: 0x23, // 6
	0x3A: 0x10, // M
	0x3B: 0x0D, // J
	0x3C: 0x18, // U
	0x3D: 0x24, // 7
	0x3E: 0x25, // 8
	0x41: 0x36, // , <
	0x42: 0x0E, // K
	0x43: 0x0C, // I
	0x44: 0x12, // O
	0x45: 0x27, // 0
	0x46: 0x26, // 9
	0x49: 0x37, // . >
	0x4A: 0x38, // / ?
	0x4B: 0x0F, // L
	0x4C: 0x33, // ; :
	0x4D: 0x13, // P
	0x4E: 0x2D, // - _
	0x52: 0x34, // ' "
	0x54: 0x2F, // [ {
	0x55: 0x2E, // = +
	0x58: UsageCapsLock,
	0x59: UsageRightShift,
	0x5A: 0x28, // Enter
	0x5B: 0x30, // ] }
	0x5D: 0x31, // \ |
	0x61: 0x64, // ISO extra key
	0x66: 0x2A, // Backspace
	0x69: 0x59, // KP 1
	0x6B: 0x5C, // KP 4
	0x6C: 0x5F, // KP 7
	0x70: 0x62, // KP 0
	0x71: 0x63, // KP .
	0x72: 0x5A, // KP 2
	0x73: 0x5D, // KP 5
	0x74: 0x5E, // KP 6
	0x75: 0x60, // KP 8
	0x76: 0x29, // Escape
	0x77: UsageNumLock,
	0x78: 0x44, // F11
	0x79: 0x57, // KP +
	0x7A: 0x5B, // KP 3
	0x7B: 0x56, // KP -
	0x7C: 0x55, // KP *
	0x7D: 0x61, // KP 9
	0x7E: UsageScrollLock,
	0x83: 0x40, // F7
	0xE1: UsagePause,
}

// extended maps E0-prefixed codes to HID usages.
var extended = [256]byte{
	0x11: UsageRightAlt,
	0x14: UsageRightCtrl,
	0x1F: UsageLeftGUI,
	0x27: UsageRightGUI,
	0x2F: 0x65, // Application (menu)
	0x4A: 0x54, // KP /
	0x5A: 0x58, // KP Enter
	0x69: 0x4D, // End
	0x6B: 0x50, // Left
	0x6C: 0x4A, // Home
	0x70: 0x49, // Insert
	0x71: 0x4C, // Delete
	0x72: 0x51, // Down
	0x74: 0x4F, // Right
	0x75: 0x52, // Up
	0x7A: 0x4E, // Page Down
	0x7C: 0x46, // Print Screen
	0x7D: 0x4B, // Page Up
}

// Usage resolves an event to a HID usage ID. ok is false for codes with no
// boot-protocol equivalent.
func Usage(ev scancode.Event) (byte, bool) {
	var u byte
	if ev.Extended {
		u = extended[ev.Code]
	} else {
		u = base[ev.Code]
	}
	return u, u != 0
}
