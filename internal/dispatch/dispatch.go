// Package dispatch is the cooperative main-loop glue: it drains the byte
// channel, feeds the protocol session, and advances its deadlines. The whole
// pipeline downstream of the channel runs on the single goroutine that calls
// RunOnce.
package dispatch

import (
	"log/slog"
	"time"

	"github.com/PaulW/rp2040-keyboard-converter-sub001/internal/ps2"
	"github.com/PaulW/rp2040-keyboard-converter-sub001/internal/ringbuf"
)

// dropLogInterval rate-limits overflow reporting so a wedged consumer does
// not flood the log sink.
const dropLogInterval = time.Second

// Dispatcher ties one byte channel to one protocol session.
type Dispatcher struct {
	rb   *ringbuf.Buffer
	sess *ps2.Session
	log  *slog.Logger

	lastDropLog time.Time
	dropsLogged uint32
}

// New builds a dispatcher. Logger may be nil.
func New(rb *ringbuf.Buffer, sess *ps2.Session, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{rb: rb, sess: sess, log: log}
}

// RunOnce performs one bounded iteration: at most one byte is popped and fed
// to the session, then the session's time-based state advances. It never
// drains the channel in a loop, keeping per-iteration work predictable.
func (d *Dispatcher) RunOnce(now time.Time) {
	if b, ok := d.rb.TryPop(); ok {
		d.sess.OnByte(b, now)
	}
	d.sess.Tick(now)
	d.reportDrops(now)
}

// SetLEDState forwards a lock-key mask from the LED-state collaborator.
func (d *Dispatcher) SetLEDState(mask byte, now time.Time) error {
	return d.sess.SetLEDState(mask, now)
}

// Session exposes the underlying session for diagnostics snapshots.
func (d *Dispatcher) Session() *ps2.Session { return d.sess }

// Reinitialize resets the channel and restarts the session. The caller must
// have stopped the producer first; see ringbuf.Buffer.Reset.
func (d *Dispatcher) Reinitialize(now time.Time) {
	d.rb.Reset()
	d.dropsLogged = 0
	d.sess.Reinitialize(now)
}

// reportDrops surfaces channel overflow at a coarse rate. Overflow means the
// loop is not being called often enough; it is a scheduling symptom, not a
// channel bug.
func (d *Dispatcher) reportDrops(now time.Time) {
	dropped := d.rb.Dropped()
	if dropped == d.dropsLogged {
		return
	}
	if now.Sub(d.lastDropLog) < dropLogInterval {
		return
	}
	d.log.Warn("byte channel overflow",
		slog.Uint64("dropped", uint64(dropped-d.dropsLogged)),
		slog.Uint64("total", uint64(dropped)))
	d.dropsLogged = dropped
	d.lastDropLog = now
}
