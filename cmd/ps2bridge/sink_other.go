//go:build !linux

package main

import (
	"fmt"
	"log/slog"
)

type eventSink interface {
	KeyEvent(usage byte, pressed bool) error
	Tap(usage byte) error
	Close() error
}

// logSink is the fallback on hosts without a virtual-keyboard facility:
// events are logged instead of injected.
type logSink struct {
	log *slog.Logger
}

func newSink(log *slog.Logger) (eventSink, error) {
	log.Warn("no key injection backend on this platform, logging events only")
	return &logSink{log: log}, nil
}

func (s *logSink) KeyEvent(usage byte, pressed bool) error {
	s.log.Info("key event",
		slog.String("usage", fmt.Sprintf("0x%02X", usage)),
		slog.Bool("pressed", pressed))
	return nil
}

func (s *logSink) Tap(usage byte) error {
	if err := s.KeyEvent(usage, true); err != nil {
		return err
	}
	return s.KeyEvent(usage, false)
}

func (s *logSink) Close() error { return nil }
