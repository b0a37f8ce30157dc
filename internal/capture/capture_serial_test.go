package capture

import (
	"errors"
	"io"
	"sync"
	"testing"
	"time"
)

// stubPort blocks reads until closed, like an idle serial line.
type stubPort struct {
	mu     sync.Mutex
	closed chan struct{}
}

func newStubPort() *stubPort {
	return &stubPort{closed: make(chan struct{})}
}

func (p *stubPort) Read(b []byte) (int, error) {
	<-p.closed
	return 0, io.EOF
}

func (p *stubPort) Write(b []byte) (int, error) { return len(b), nil }

func (p *stubPort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	select {
	case <-p.closed:
	default:
		close(p.closed)
	}
	return nil
}

func closeWithTimeout(t *testing.T, e *SerialEngine) {
	t.Helper()
	errc := make(chan error, 1)
	go func() { errc <- e.Close() }()
	select {
	case err := <-errc:
		if err != nil {
			t.Fatalf("Close: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not return")
	}
}

// Setup can fail between opening the port and starting the reader; Close must
// then return without waiting for a goroutine that never ran.
func TestSerialEngineCloseBeforeStart(t *testing.T) {
	e := &SerialEngine{port: newStubPort()}
	closeWithTimeout(t, e)

	if err := e.SendRaw([]byte{0xFF}); !errors.Is(err, ErrClosed) {
		t.Fatalf("SendRaw after Close = %v, want ErrClosed", err)
	}
}

func TestSerialEngineCloseStopsReader(t *testing.T) {
	e := &SerialEngine{port: newStubPort()}
	if err := e.Start(func(uint16) {}); err != nil {
		t.Fatalf("Start: %v", err)
	}
	closeWithTimeout(t, e)
}

func TestSerialEngineStartAfterCloseRejected(t *testing.T) {
	e := &SerialEngine{port: newStubPort()}
	closeWithTimeout(t, e)
	if err := e.Start(func(uint16) {}); !errors.Is(err, ErrClosed) {
		t.Fatalf("Start after Close = %v, want ErrClosed", err)
	}
}
