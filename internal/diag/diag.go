// Package diag defines the vendor HID report the converter firmware exposes
// for field debugging: a fixed-size little-endian snapshot of the session
// counters and phase. The convctl tool decodes it; Encode exists so tests
// and the firmware side agree on the layout byte-for-byte.
package diag

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Converter USB identity (pid.codes open-source allocation).
const (
	VendorID  uint16 = 0x1209
	ProductID uint16 = 0xC040

	// ReportID of the diagnostics input report on the vendor interface.
	ReportID byte = 0x03
	// ControlReportID carries host-to-converter control requests.
	ControlReportID byte = 0x04
)

// Control request opcodes (first payload byte of a control report).
const (
	CtrlSetLEDs byte = 0x01 // second byte: lock-key mask
	CtrlReinit  byte = 0x02 // drop the session and re-run the handshake
)

const (
	magic      = 0x4B // 'K'
	version    = 1
	headerLen  = 4
	counterLen = 8 * 4

	// ReportLen is the fixed payload size, excluding the report ID.
	ReportLen = headerLen + counterLen
)

var (
	ErrShortReport = errors.New("diag: report too short")
	ErrBadMagic    = errors.New("diag: bad magic byte")
)

// Snapshot is one diagnostics sample.
type Snapshot struct {
	Phase   byte
	LEDMask byte

	FrameErrors       uint32
	Overflows         uint32
	AssemblerErrors   uint32
	StrayBytes        uint32
	Resends           uint32
	RetriesExhausted  uint32
	Resets            uint32
	CommandsCompleted uint32
}

// Encode serializes the snapshot into a ReportLen-byte payload.
func Encode(s Snapshot) []byte {
	out := make([]byte, ReportLen)
	out[0] = magic
	out[1] = version
	out[2] = s.Phase
	out[3] = s.LEDMask
	for i, v := range []uint32{
		s.FrameErrors, s.Overflows, s.AssemblerErrors, s.StrayBytes,
		s.Resends, s.RetriesExhausted, s.Resets, s.CommandsCompleted,
	} {
		binary.LittleEndian.PutUint32(out[headerLen+4*i:], v)
	}
	return out
}

// Decode parses a diagnostics payload.
func Decode(p []byte) (Snapshot, error) {
	if len(p) < ReportLen {
		return Snapshot{}, fmt.Errorf("%w: %d bytes", ErrShortReport, len(p))
	}
	if p[0] != magic {
		return Snapshot{}, ErrBadMagic
	}
	if p[1] != version {
		return Snapshot{}, fmt.Errorf("diag: unsupported report version %d", p[1])
	}
	s := Snapshot{Phase: p[2], LEDMask: p[3]}
	vals := []*uint32{
		&s.FrameErrors, &s.Overflows, &s.AssemblerErrors, &s.StrayBytes,
		&s.Resends, &s.RetriesExhausted, &s.Resets, &s.CommandsCompleted,
	}
	for i, v := range vals {
		*v = binary.LittleEndian.Uint32(p[headerLen+4*i:])
	}
	return s, nil
}
