// Package scancode defines the key-transition event emitted by the input
// pipeline and consumed by the keymap/HID layer.
package scancode

import "fmt"

// Transition distinguishes key press from key release.
type Transition byte

const (
	Make  Transition = iota // key pressed
	Break                   // key released
)

func (t Transition) String() string {
	switch t {
	case Make:
		return "make"
	case Break:
		return "break"
	default:
		return fmt.Sprintf("transition(%d)", byte(t))
	}
}

// Event is one complete key transition assembled from the raw byte stream.
// Code is the protocol's own key code, not a USB usage; Extended marks codes
// that arrived behind the extended prefix.
type Event struct {
	Code       byte
	Transition Transition
	Extended   bool
}

func (e Event) String() string {
	ext := ""
	if e.Extended {
		ext = " ext"
	}
	return fmt.Sprintf("%s 0x%02X%s", e.Transition, e.Code, ext)
}
