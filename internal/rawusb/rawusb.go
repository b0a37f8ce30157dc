// Package rawusb is the fallback transport for convctl on systems where the
// hidraw path is unavailable: it opens the converter's vendor interface
// directly over libusb-style bulk/interrupt endpoints.
package rawusb

import (
	"fmt"

	"github.com/karalabe/usb"
)

// Device is a converter opened via raw USB.
type Device struct {
	dev      usb.Device
	readSize int
}

// Open finds and opens the converter by VID/PID.
func Open(vendorID, productID uint16) (*Device, error) {
	infos, err := usb.Enumerate(vendorID, productID)
	if err != nil {
		return nil, fmt.Errorf("rawusb: enumerate: %w", err)
	}
	if len(infos) == 0 {
		return nil, fmt.Errorf("rawusb: converter not found (VID:0x%04X PID:0x%04X)", vendorID, productID)
	}
	dev, err := infos[0].Open()
	if err != nil {
		return nil, fmt.Errorf("rawusb: open device: %w", err)
	}
	return &Device{dev: dev, readSize: 64}, nil
}

// ReadInput reads one report from the vendor IN endpoint.
func (d *Device) ReadInput() ([]byte, error) {
	buf := make([]byte, d.readSize)
	n, err := d.dev.Read(buf)
	if err != nil {
		return nil, fmt.Errorf("rawusb: read: %w", err)
	}
	return buf[:n], nil
}

// WriteOutput writes a report to the vendor OUT endpoint, report ID first.
func (d *Device) WriteOutput(reportID byte, data []byte) error {
	buf := make([]byte, 0, len(data)+1)
	buf = append(buf, reportID)
	buf = append(buf, data...)
	if _, err := d.dev.Write(buf); err != nil {
		return fmt.Errorf("rawusb: write: %w", err)
	}
	return nil
}

func (d *Device) Close() error {
	return d.dev.Close()
}
