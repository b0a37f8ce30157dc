package ps2

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/PaulW/rp2040-keyboard-converter-sub001/pkg/scancode"
)

// Phase is the session's position in the device lifecycle.
type Phase uint8

const (
	PhaseReset Phase = iota
	PhaseSelfTest
	PhaseNegotiate
	PhaseIdle
	PhaseSendCommand
	PhaseFatal
)

func (p Phase) String() string {
	switch p {
	case PhaseReset:
		return "reset"
	case PhaseSelfTest:
		return "self-test"
	case PhaseNegotiate:
		return "negotiate"
	case PhaseIdle:
		return "idle"
	case PhaseSendCommand:
		return "send-command"
	case PhaseFatal:
		return "fatal"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

// Retry and timeout budget. Timeouts are compared against deadlines on every
// Tick; nothing here ever sleeps.
const (
	maxRetries = 3

	ackTimeout      = 250 * time.Millisecond // per transmitted command byte
	selfTestTimeout = 1 * time.Second        // BAT can take most of a second
	prefixTimeout   = 25 * time.Millisecond  // dangling assembler prefix
)

var (
	// ErrCommandPending is returned while an outbound command is in flight;
	// at most one command is ever in flight.
	ErrCommandPending = errors.New("ps2: command already pending")
	// ErrNotReady is returned when the session has not reached steady state.
	ErrNotReady = errors.New("ps2: session not in idle phase")
	// ErrFatal is returned once the session has given up on the device.
	ErrFatal = errors.New("ps2: session in fatal state")
)

// Transmitter is the host-to-device half of the capture engine. SendRaw must
// not block for longer than the underlying write.
type Transmitter interface {
	SendRaw(p []byte) error
}

// Stats are the session's error and lifecycle counters, read by the
// diagnostics report. Mutated only from the dispatcher goroutine.
type Stats struct {
	AssemblerErrors   uint32
	StrayBytes        uint32
	Overruns          uint32
	Resends           uint32
	RetriesExhausted  uint32
	Resets            uint32
	CommandsCompleted uint32
}

// Config wires a Session to its collaborators.
type Config struct {
	Transmit Transmitter
	// OnEvent receives completed key transitions in arrival order. Must not
	// block.
	OnEvent func(scancode.Event)
	Logger  *slog.Logger
}

type command struct {
	seq      []byte
	idx      int
	attempts uint8
	critical bool
}

// Session owns the device lifecycle state machine. It is mutated exclusively
// from the dispatcher goroutine; no synchronization inside.
type Session struct {
	cfg Config
	log *slog.Logger

	phase    Phase
	asm      Assembler
	pending  *command
	retries  uint8 // reset/self-test attempts
	deadline time.Time
	lastRx   time.Time
	ledMask  byte
	stats    Stats
}

// NewSession creates a session in the Reset phase. Call Start before the
// first Tick.
func NewSession(cfg Config) (*Session, error) {
	if cfg.Transmit == nil {
		return nil, errors.New("ps2: Config.Transmit is required")
	}
	if cfg.OnEvent == nil {
		cfg.OnEvent = func(scancode.Event) {}
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Session{cfg: cfg, log: log, phase: PhaseReset}, nil
}

// Start kicks off device initialization by transmitting the reset command.
func (s *Session) Start(now time.Time) {
	s.retries = 0
	s.enterReset(now)
}

// Phase reports the current lifecycle phase.
func (s *Session) Phase() Phase { return s.phase }

// LEDState reports the last LED mask acknowledged by the device.
func (s *Session) LEDState() byte { return s.ledMask }

// Stats returns a snapshot of the session counters.
func (s *Session) Stats() Stats { return s.stats }

// OnByte consumes one validated byte from the channel. Handshake bytes drive
// the phase machine; steady-state bytes are delegated to the assembler.
func (s *Session) OnByte(b byte, now time.Time) {
	s.lastRx = now

	switch s.phase {
	case PhaseReset:
		switch b {
		case rspAck:
			s.phase = PhaseSelfTest
			s.deadline = now.Add(selfTestTimeout)
		case rspSelfTestPass:
			// Some boards skip the ack after a cold power-up.
			s.enterNegotiate(now)
		case rspResend:
			s.retryReset(now, "device requested resend of reset")
		default:
			s.stray(b)
		}

	case PhaseSelfTest:
		switch b {
		case rspSelfTestPass:
			s.enterNegotiate(now)
		case rspSelfTestFail, rspSelfTestFail2:
			s.retryReset(now, "self-test failed")
		default:
			s.stray(b)
		}

	case PhaseNegotiate, PhaseSendCommand:
		switch b {
		case rspAck:
			s.advancePending(now)
		case rspResend:
			s.stats.Resends++
			s.retryPending(now, "device requested resend")
		case rspSelfTestPass:
			s.announceReplug(now)
		default:
			// Keystrokes already in flight when the command went out.
			s.feedAssembler(b)
		}

	case PhaseIdle:
		switch b {
		case rspSelfTestPass:
			s.announceReplug(now)
		case rspAck, rspEcho, rspResend:
			s.stray(b)
		case rspOverrun:
			s.stats.Overruns++
			s.log.Warn("device reported buffer overrun")
		default:
			s.feedAssembler(b)
		}

	case PhaseFatal:
		s.stats.StrayBytes++
	}
}

// Tick advances deadline-based state. Must be called every dispatcher
// iteration.
func (s *Session) Tick(now time.Time) {
	switch s.phase {
	case PhaseReset:
		if now.After(s.deadline) {
			s.retryReset(now, "no ack to reset")
		}
	case PhaseSelfTest:
		if now.After(s.deadline) {
			s.retryReset(now, "self-test timeout")
		}
	case PhaseNegotiate, PhaseSendCommand:
		if now.After(s.deadline) {
			s.retryPending(now, "ack timeout")
		}
	case PhaseIdle:
		if s.asm.Pending() && now.Sub(s.lastRx) > prefixTimeout {
			s.asm.Reset()
			s.stats.AssemblerErrors++
			s.log.Warn("dropped dangling scancode prefix")
		}
	case PhaseFatal:
		// Sticky until Reinitialize.
	}
}

// QueueCommand transmits seq to the device, one byte per acknowledgement.
// Only one command may be in flight; critical commands escalate to Fatal
// when retries are exhausted, non-critical ones are dropped.
func (s *Session) QueueCommand(seq []byte, critical bool, now time.Time) error {
	switch {
	case s.phase == PhaseFatal:
		return ErrFatal
	case s.pending != nil:
		return ErrCommandPending
	case s.phase != PhaseIdle:
		return ErrNotReady
	case len(seq) == 0:
		return errors.New("ps2: empty command")
	}

	cmd := &command{seq: append([]byte(nil), seq...), critical: critical}
	s.pending = cmd
	s.phase = PhaseSendCommand
	s.sendByte(cmd.seq[0], now)
	return nil
}

// SetLEDState queues the Set LEDs command for the given lock-key mask. A
// second request while one is in flight is rejected; the caller retries once
// the first completes or times out.
func (s *Session) SetLEDState(mask byte, now time.Time) error {
	return s.QueueCommand([]byte{cmdSetLEDs, mask & ledMaskBits}, false, now)
}

// Reinitialize discards all state, including Fatal, and restarts the device
// handshake. The caller must have reset the byte channel first.
func (s *Session) Reinitialize(now time.Time) {
	s.asm.Reset()
	s.pending = nil
	s.retries = 0
	s.stats.Resets++
	s.enterReset(now)
}

func (s *Session) enterReset(now time.Time) {
	s.phase = PhaseReset
	s.pending = nil
	s.sendByte(cmdReset, now)
}

func (s *Session) retryReset(now time.Time, reason string) {
	s.retries++
	if s.retries > maxRetries {
		s.enterFatal(reason)
		return
	}
	s.log.Warn("retrying device reset", slog.String("reason", reason), slog.Int("attempt", int(s.retries)))
	s.enterReset(now)
}

func (s *Session) enterNegotiate(now time.Time) {
	s.retries = 0
	s.phase = PhaseNegotiate
	s.pending = &command{seq: []byte{cmdSetScancodeSet, scancodeSet2}}
	s.sendByte(cmdSetScancodeSet, now)
}

func (s *Session) enterFatal(reason string) {
	s.phase = PhaseFatal
	s.pending = nil
	s.stats.RetriesExhausted++
	s.log.Error("session entered fatal state", slog.String("reason", reason))
}

// advancePending moves to the next command byte after an ack, finishing the
// command when the sequence is exhausted.
func (s *Session) advancePending(now time.Time) {
	cmd := s.pending
	if cmd == nil {
		s.stray(rspAck)
		return
	}
	cmd.idx++
	cmd.attempts = 0
	if cmd.idx < len(cmd.seq) {
		s.sendByte(cmd.seq[cmd.idx], now)
		return
	}

	negotiated := s.phase == PhaseNegotiate
	s.pending = nil
	s.phase = PhaseIdle
	if negotiated {
		s.log.Info("scancode set negotiated", slog.Int("set", scancodeSet2))
		return
	}
	s.stats.CommandsCompleted++
	if cmd.seq[0] == cmdSetLEDs && len(cmd.seq) > 1 {
		s.ledMask = cmd.seq[1]
	}
}

// retryPending retransmits the current command byte, giving up after
// maxRetries attempts.
func (s *Session) retryPending(now time.Time, reason string) {
	cmd := s.pending
	if cmd == nil {
		// Deadline fired with nothing in flight; nothing to do.
		s.phase = PhaseIdle
		return
	}
	if cmd.attempts >= maxRetries {
		s.failPending(reason)
		return
	}
	cmd.attempts++
	s.log.Warn("retransmitting command byte",
		slog.String("reason", reason),
		slog.Int("attempt", int(cmd.attempts)),
		slog.String("byte", fmt.Sprintf("0x%02X", cmd.seq[cmd.idx])))
	s.sendByte(cmd.seq[cmd.idx], now)
}

func (s *Session) failPending(reason string) {
	cmd := s.pending
	s.pending = nil
	s.stats.RetriesExhausted++

	if s.phase == PhaseNegotiate {
		// Keyboards that ignore the set selection run set 2 by default, so
		// degrade instead of faulting.
		s.phase = PhaseIdle
		s.log.Warn("scancode set negotiation failed, assuming default", slog.String("reason", reason))
		return
	}
	if cmd != nil && cmd.critical {
		s.enterFatal(reason)
		return
	}
	s.phase = PhaseIdle
	s.log.Warn("command dropped after retry exhaustion", slog.String("reason", reason))
}

// announceReplug handles an unsolicited self-test pass: the user hot-plugged
// the keyboard, which has already run BAT, so only negotiation is needed.
func (s *Session) announceReplug(now time.Time) {
	s.log.Info("device announced self-test pass, renegotiating")
	s.asm.Reset()
	s.stats.Resets++
	s.enterNegotiate(now)
}

func (s *Session) feedAssembler(b byte) {
	ev, ok, err := s.asm.Feed(b)
	if err != nil {
		s.stats.AssemblerErrors++
		s.log.Warn("scancode framing error", slog.Any("error", err))
		return
	}
	if ok {
		s.cfg.OnEvent(ev)
	}
}

func (s *Session) sendByte(b byte, now time.Time) {
	if err := s.cfg.Transmit.SendRaw([]byte{b}); err != nil {
		// Leave the deadline armed; Tick retries the transmission.
		s.log.Warn("transmit failed", slog.Any("error", err))
	}
	s.deadline = now.Add(ackTimeout)
}

func (s *Session) stray(b byte) {
	s.stats.StrayBytes++
	s.log.Debug("ignoring unexpected byte",
		slog.String("byte", fmt.Sprintf("0x%02X", b)),
		slog.String("phase", s.phase.String()))
}
