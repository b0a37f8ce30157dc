package main

import (
	"testing"

	"github.com/PaulW/rp2040-keyboard-converter-sub001/internal/diag"
	"github.com/PaulW/rp2040-keyboard-converter-sub001/internal/hid"
)

func TestReadSnapshotStripsReportID(t *testing.T) {
	want := diag.Snapshot{
		Phase:       3,
		LEDMask:     0x04,
		FrameErrors: 7,
		Resends:     2,
	}
	dev := hid.NewMockDevice()
	dev.Queue(append([]byte{diag.ReportID}, diag.Encode(want)...))

	got, err := readSnapshot(dev)
	if err != nil {
		t.Fatalf("readSnapshot: %v", err)
	}
	if got != want {
		t.Fatalf("snapshot = %+v, want %+v", got, want)
	}
}

func TestReadSnapshotBarePayload(t *testing.T) {
	want := diag.Snapshot{Phase: 5, Resets: 1}
	dev := hid.NewMockDevice()
	dev.Queue(diag.Encode(want))

	got, err := readSnapshot(dev)
	if err != nil {
		t.Fatalf("readSnapshot: %v", err)
	}
	if got != want {
		t.Fatalf("snapshot = %+v, want %+v", got, want)
	}
}

func TestReadSnapshotRejectsGarbage(t *testing.T) {
	dev := hid.NewMockDevice()
	dev.Queue([]byte{0x01, 0x02, 0x03})
	if _, err := readSnapshot(dev); err == nil {
		t.Fatal("readSnapshot accepted a malformed payload")
	}
}
