// Package hid gives host tooling access to a running converter's vendor HID
// interface: enumeration, report I/O, and a mock device for tests.
package hid

// Device represents an opened HID device capable of report I/O.
type Device interface {
	ReadInput() ([]byte, error)                   // read one input report
	WriteOutput(reportID byte, data []byte) error // send an output report
	Close() error
}

// Info represents a HID device descriptor.
type Info struct {
	Path         string
	VendorID     uint16
	ProductID    uint16
	Product      string
	Manufacturer string
}

// Manager enumerates and opens HID devices.
type Manager interface {
	List() ([]Info, error)
	OpenVIDPID(vendorID, productID uint16) (Device, error)
}

// NewManager returns the OS-specific HID manager.
func NewManager() (Manager, error) {
	return newManager()
}
