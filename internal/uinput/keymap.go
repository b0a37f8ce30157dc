//go:build linux

package uinput

// usageToKey maps USB HID boot keyboard usages to Linux input KEY_* codes.
// Covers the keys a converted board can produce; unmapped usages are
// dropped. Zero means unmapped.
var usageToKey = [256]uint16{
	0x04: 30, // A
	0x05: 48, // B
	0x06: 46, // C
	0x07: 32, // D
	0x08: 18, // E
	0x09: 33, // F
	0x0A: 34, // G
	0x0B: 35, // H
	0x0C: 23, // I
	0x0D: 36, // J
	0x0E: 37, // K
	0x0F: 38, // L
	0x10: 50, // M
	0x11: 49, // N
	0x12: 24, // O
	0x13: 25, // P
	0x14: 16, // Q
	0x15: 19, // R
	0x16: 31, // S
	0x17: 20, // T
	0x18: 22, // U
	0x19: 47, // V
	0x1A: 17, // W
	0x1B: 45, // X
	0x1C: 21, // Y
	0x1D: 44, // Z
	0x1E: 2,  // 1
	0x1F: 3,  // 2
	0x20: 4,  // 3
	0x21: 5,  // 4
	0x22: 6,  // 5
	0x23: 7,  // 6
	0x24: 8,  // 7
	0x25: 9,  // 8
	0x26: 10, // 9
	0x27: 11, // 0
	0x28: 28, // Enter
	0x29: 1,  // Escape
	0x2A: 14, // Backspace
	0x2B: 15, // Tab
	0x2C: 57, // Space
	0x2D: 12, // - _
	0x2E: 13, // = +
	0x2F: 26, // [ {
	0x30: 27, // ] }
	0x31: 43, // \ |
	0x33: 39, // ; :
	0x34: 40, // ' "
	0x35: 41, // ` ~
	0x36: 51, // , <
	0x37: 52, // . >
	0x38: 53, // / ?
	0x39: 58, // Caps Lock
	0x3A: 59, // F1
	0x3B: 60,
	0x3C: 61,
	0x3D: 62,
	0x3E: 63,
	0x3F: 64,
	0x40: 65,
	0x41: 66,
	0x42: 67,
	0x43: 68,  // F10
	0x44: 87,  // F11
	0x45: 88,  // F12
	0x46: 99,  // Print Screen (SysRq)
	0x47: 70,  // Scroll Lock
	0x48: 119, // Pause
	0x49: 110, // Insert
	0x4A: 102, // Home
	0x4B: 104, // Page Up
	0x4C: 111, // Delete
	0x4D: 107, // End
	0x4E: 109, // Page Down
	0x4F: 106, // Right
	0x50: 105, // Left
	0x51: 108, // Down
	0x52: 103, // Up
	0x53: 69,  // Num Lock
	0x54: 98,  // KP /
	0x55: 55,  // KP *
	0x56: 74,  // KP -
	0x57: 78,  // KP +
	0x58: 96,  // KP Enter
	0x59: 79,  // KP 1
	0x5A: 80,
	0x5B: 81,
	0x5C: 75,
	0x5D: 76,
	0x5E: 77,
	0x5F: 71,
	0x60: 72,
	0x61: 73,  // KP 9
	0x62: 82,  // KP 0
	0x63: 83,  // KP .
	0x64: 86,  // 102nd key
	0x65: 127, // Application (compose)
	0xE0: 29,  // Left Ctrl
	0xE1: 42,  // Left Shift
	0xE2: 56,  // Left Alt
	0xE3: 125, // Left GUI
	0xE4: 97,  // Right Ctrl
	0xE5: 54,  // Right Shift
	0xE6: 100, // Right Alt
	0xE7: 126, // Right GUI
}
