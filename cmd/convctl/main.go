// Command convctl talks to a running converter over its vendor HID
// interface: it prints the diagnostics counters, exercises the keyboard
// LEDs, and can force a protocol reinitialization.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/PaulW/rp2040-keyboard-converter-sub001/internal/diag"
	"github.com/PaulW/rp2040-keyboard-converter-sub001/internal/hid"
	"github.com/PaulW/rp2040-keyboard-converter-sub001/internal/ps2"
	"github.com/PaulW/rp2040-keyboard-converter-sub001/internal/rawusb"
)

// device is the subset of report I/O convctl needs; both the HID and the
// raw USB transports satisfy it.
type device interface {
	ReadInput() ([]byte, error)
	WriteOutput(reportID byte, data []byte) error
	Close() error
}

func main() {
	var (
		list   = flag.Bool("list", false, "list HID devices and exit")
		raw    = flag.Bool("raw", false, "use the raw USB transport instead of hidraw")
		leds   = flag.Int("leds", -1, "set the lock-key LED mask (0-7) and exit")
		reinit = flag.Bool("reinit", false, "force a protocol reinitialization and exit")
		watch  = flag.Duration("watch", 0, "keep polling diagnostics at this interval")
	)
	flag.Parse()

	if *list {
		if err := listDevices(); err != nil {
			fmt.Fprintf(os.Stderr, "convctl: %v\n", err)
			os.Exit(1)
		}
		return
	}

	dev, err := openDevice(*raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "convctl: %v\n", err)
		os.Exit(1)
	}
	defer dev.Close()

	switch {
	case *leds >= 0:
		err = dev.WriteOutput(diag.ControlReportID, []byte{diag.CtrlSetLEDs, byte(*leds) & 0x07})
	case *reinit:
		err = dev.WriteOutput(diag.ControlReportID, []byte{diag.CtrlReinit})
	default:
		err = printDiagnostics(dev, *watch)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "convctl: %v\n", err)
		os.Exit(1)
	}
}

func openDevice(raw bool) (device, error) {
	if raw {
		return rawusb.Open(diag.VendorID, diag.ProductID)
	}
	mgr, err := hid.NewManager()
	if err != nil {
		return nil, err
	}
	return mgr.OpenVIDPID(diag.VendorID, diag.ProductID)
}

func listDevices() error {
	mgr, err := hid.NewManager()
	if err != nil {
		return err
	}
	infos, err := mgr.List()
	if err != nil {
		return err
	}
	for _, info := range infos {
		marker := " "
		if info.VendorID == diag.VendorID && info.ProductID == diag.ProductID {
			marker = "*"
		}
		fmt.Printf("%s %04x:%04x %-24s %s\n", marker, info.VendorID, info.ProductID, info.Product, info.Path)
	}
	return nil
}

func printDiagnostics(dev device, watch time.Duration) error {
	for {
		snap, err := readSnapshot(dev)
		if err != nil {
			return err
		}
		printSnapshot(snap)
		if watch <= 0 {
			return nil
		}
		time.Sleep(watch)
		fmt.Println()
	}
}

func readSnapshot(dev device) (diag.Snapshot, error) {
	payload, err := dev.ReadInput()
	if err != nil {
		return diag.Snapshot{}, err
	}
	// The hidraw path may prepend the report ID.
	if len(payload) > 0 && payload[0] == diag.ReportID {
		payload = payload[1:]
	}
	return diag.Decode(payload)
}

func printSnapshot(s diag.Snapshot) {
	fmt.Printf("phase:              %s\n", ps2.Phase(s.Phase))
	fmt.Printf("led mask:           0x%02X\n", s.LEDMask)
	fmt.Printf("frame errors:       %d\n", s.FrameErrors)
	fmt.Printf("channel overflows:  %d\n", s.Overflows)
	fmt.Printf("assembler errors:   %d\n", s.AssemblerErrors)
	fmt.Printf("stray bytes:        %d\n", s.StrayBytes)
	fmt.Printf("resend requests:    %d\n", s.Resends)
	fmt.Printf("retries exhausted:  %d\n", s.RetriesExhausted)
	fmt.Printf("resets:             %d\n", s.Resets)
	fmt.Printf("commands completed: %d\n", s.CommandsCompleted)
}
