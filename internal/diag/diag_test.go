package diag

import (
	"errors"
	"testing"
)

func TestEncodeDecode(t *testing.T) {
	in := Snapshot{
		Phase:             3,
		LEDMask:           0x05,
		FrameErrors:       12,
		Overflows:         1,
		AssemblerErrors:   7,
		StrayBytes:        2,
		Resends:           9,
		RetriesExhausted:  1,
		Resets:            4,
		CommandsCompleted: 100000,
	}
	out, err := Decode(Encode(in))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out != in {
		t.Fatalf("round trip mismatch:\ngot  %+v\nwant %+v", out, in)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if _, err := Decode(make([]byte, 4)); !errors.Is(err, ErrShortReport) {
		t.Fatalf("short report: %v", err)
	}
	p := Encode(Snapshot{})
	p[0] = 0xFF
	if _, err := Decode(p); !errors.Is(err, ErrBadMagic) {
		t.Fatalf("bad magic: %v", err)
	}
}
