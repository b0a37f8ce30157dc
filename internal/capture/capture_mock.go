package capture

import "sync"

// MockEngine is an in-memory Engine for tests and examples. Frames injected
// with Emit are handed to the registered callback synchronously; bytes sent
// by the session are recorded for inspection.
type MockEngine struct {
	mu      sync.Mutex
	onFrame func(word uint16)
	sent    []byte
	closed  bool
}

func NewMockEngine() *MockEngine {
	return &MockEngine{}
}

func (m *MockEngine) Start(onFrame func(word uint16)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onFrame = onFrame
	return nil
}

func (m *MockEngine) SendRaw(p []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.sent = append(m.sent, p...)
	return nil
}

func (m *MockEngine) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Emit delivers one raw frame word as if the hardware had sampled it.
func (m *MockEngine) Emit(word uint16) {
	m.mu.Lock()
	cb := m.onFrame
	m.mu.Unlock()
	if cb != nil {
		cb(word)
	}
}

// Sent returns a copy of every byte transmitted so far.
func (m *MockEngine) Sent() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.sent...)
}

// DrainSent returns the transmitted bytes and clears the record.
func (m *MockEngine) DrainSent() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.sent
	m.sent = nil
	return out
}
