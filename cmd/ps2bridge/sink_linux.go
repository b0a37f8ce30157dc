//go:build linux

package main

import (
	"log/slog"

	"github.com/PaulW/rp2040-keyboard-converter-sub001/internal/uinput"
)

type eventSink interface {
	KeyEvent(usage byte, pressed bool) error
	Tap(usage byte) error
	Close() error
}

func newSink(log *slog.Logger) (eventSink, error) {
	return uinput.Open(log)
}
