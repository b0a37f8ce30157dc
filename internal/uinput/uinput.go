//go:build linux

// Package uinput injects converted key events into the host through a
// virtual keyboard device, standing in for the converter's USB HID endpoint
// when the pipeline runs on a Linux host.
package uinput

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sys/unix"
)

// uinput ioctl requests and event types.
const (
	uiDevCreate  = 0x5501
	uiDevDestroy = 0x5502
	uiSetEvBit   = 0x40045564
	uiSetKeyBit  = 0x40045565

	evSyn = 0x00
	evKey = 0x01

	synReport = 0

	busVirtual = 0x06

	deviceName = "rp2040-keyboard-converter"
	vendorID   = 0x1209
	productID  = 0xC040
)

type inputEvent struct {
	Time  unix.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

// userDev is the legacy uinput_user_dev setup record written before
// UI_DEV_CREATE.
type userDev struct {
	Name      [80]byte
	Bus       uint16
	Vendor    uint16
	Product   uint16
	Version   uint16
	FFEffects uint32
	AbsMax    [64]int32
	AbsMin    [64]int32
	AbsFuzz   [64]int32
	AbsFlat   [64]int32
}

// Keyboard is a registered virtual keyboard backed by /dev/uinput.
type Keyboard struct {
	fd  *os.File
	log *slog.Logger
}

// Open creates and registers the virtual device. Requires the uinput module
// and write access to /dev/uinput.
func Open(log *slog.Logger) (*Keyboard, error) {
	if log == nil {
		log = slog.Default()
	}
	f, err := os.OpenFile("/dev/uinput", os.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("uinput: open /dev/uinput: %w", err)
	}
	k := &Keyboard{fd: f, log: log}

	if err := unix.IoctlSetInt(int(f.Fd()), uiSetEvBit, evKey); err != nil {
		f.Close()
		return nil, fmt.Errorf("uinput: enable EV_KEY: %w", err)
	}
	for _, code := range usageToKey {
		if code == 0 {
			continue
		}
		if err := unix.IoctlSetInt(int(f.Fd()), uiSetKeyBit, int(code)); err != nil {
			f.Close()
			return nil, fmt.Errorf("uinput: register key %d: %w", code, err)
		}
	}
	setup := userDev{Bus: busVirtual, Vendor: vendorID, Product: productID, Version: 1}
	copy(setup.Name[:], deviceName)
	if err := binary.Write(f, binary.LittleEndian, &setup); err != nil {
		f.Close()
		return nil, fmt.Errorf("uinput: device setup: %w", err)
	}
	if err := unix.IoctlSetInt(int(f.Fd()), uiDevCreate, 0); err != nil {
		f.Close()
		return nil, fmt.Errorf("uinput: create device: %w", err)
	}

	log.Info("virtual keyboard registered")
	return k, nil
}

// KeyEvent presses or releases the key for a HID usage. Usages without a
// Linux mapping are dropped with a debug log.
func (k *Keyboard) KeyEvent(usage byte, pressed bool) error {
	code := usageToKey[usage]
	if code == 0 {
		k.log.Debug("no key mapping for usage", slog.String("usage", fmt.Sprintf("0x%02X", usage)))
		return nil
	}
	value := int32(0)
	if pressed {
		value = 1
	}
	if err := k.writeEvent(evKey, code, value); err != nil {
		return err
	}
	return k.writeEvent(evSyn, synReport, 0)
}

// Tap emits a press immediately followed by a release, used for keys like
// Pause that report no break transition.
func (k *Keyboard) Tap(usage byte) error {
	if err := k.KeyEvent(usage, true); err != nil {
		return err
	}
	return k.KeyEvent(usage, false)
}

func (k *Keyboard) writeEvent(typ, code uint16, value int32) error {
	ev := inputEvent{Type: typ, Code: code, Value: value}
	if err := binary.Write(k.fd, binary.LittleEndian, &ev); err != nil {
		return fmt.Errorf("uinput: write event: %w", err)
	}
	return nil
}

// Close destroys the virtual device.
func (k *Keyboard) Close() error {
	if k.fd == nil {
		return nil
	}
	_ = unix.IoctlSetInt(int(k.fd.Fd()), uiDevDestroy, 0)
	err := k.fd.Close()
	k.fd = nil
	return err
}
