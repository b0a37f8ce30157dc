package hid

import (
	"errors"
	"sync"
)

var errNoReport = errors.New("hid: no report queued")

// MockDevice is an in-memory Device for tests: queued payloads come back
// from ReadInput, written reports are recorded.
type MockDevice struct {
	mu      sync.Mutex
	queued  [][]byte
	written [][]byte
}

func NewMockDevice() *MockDevice {
	return &MockDevice{}
}

// Queue appends a payload for a later ReadInput.
func (m *MockDevice) Queue(p []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queued = append(m.queued, append([]byte(nil), p...))
}

func (m *MockDevice) ReadInput() ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.queued) == 0 {
		return nil, errNoReport
	}
	p := m.queued[0]
	m.queued = m.queued[1:]
	return p, nil
}

func (m *MockDevice) WriteOutput(reportID byte, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := append([]byte{reportID}, data...)
	m.written = append(m.written, rec)
	return nil
}

// Written returns every report sent so far, report ID first.
func (m *MockDevice) Written() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]byte(nil), m.written...)
}

func (m *MockDevice) Close() error { return nil }
