//go:build windows

package hid

import (
	"fmt"

	shid "github.com/sstallion/go-hid"
)

// Windows goes through hidapi; the hidraw-style path used elsewhere is not
// available there.

type winManager struct{}

func newManager() (Manager, error) {
	if err := shid.Init(); err != nil {
		return nil, fmt.Errorf("hid: init: %w", err)
	}
	return &winManager{}, nil
}

func (m *winManager) List() ([]Info, error) {
	var out []Info
	err := shid.Enumerate(shid.VendorIDAny, shid.ProductIDAny, func(info *shid.DeviceInfo) error {
		out = append(out, Info{
			Path:         info.Path,
			VendorID:     info.VendorID,
			ProductID:    info.ProductID,
			Product:      info.ProductStr,
			Manufacturer: info.MfrStr,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (m *winManager) OpenVIDPID(vendorID, productID uint16) (Device, error) {
	d, err := shid.OpenFirst(vendorID, productID)
	if err != nil {
		return nil, fmt.Errorf("hid: open %04x:%04x: %w", vendorID, productID, err)
	}
	return &winDevice{d}, nil
}

type winDevice struct{ d *shid.Device }

func (d *winDevice) ReadInput() ([]byte, error) {
	buf := make([]byte, 64)
	n, err := d.d.Read(buf)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}

func (d *winDevice) WriteOutput(reportID byte, data []byte) error {
	buf := make([]byte, 0, len(data)+1)
	buf = append(buf, reportID)
	buf = append(buf, data...)
	_, err := d.d.Write(buf)
	return err
}

func (d *winDevice) Close() error { return d.d.Close() }
