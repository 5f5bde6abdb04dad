package picontrol

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/revpi-tools/picontrol-go/pkg/log"
)

// GetBit reads a single bit at the given process-image byte address.
//
// A closed handle returns false without touching the device. A failed
// control request is logged and also returns false; GetBit never fails
// loudly, so callers can poll inputs without error plumbing. Use
// [Driver.Read] when the distinction between "bit clear" and "read failed"
// matters.
func (d *Driver) GetBit(address uint16, bit uint8) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	ev := log.Event{Op: log.OpGetBit, Address: ptr(address), Bit: ptr(bit)}

	if !d.open {
		ev.Error = errData(ErrNotOpen)
		d.emit(ev)
		return false
	}

	req := SPIValue{Address: address, Bit: bit}
	if err := d.dev.GetValue(&req); err != nil {
		ev.Error = errData(fmt.Errorf("%w: get value: %v", ErrControlRequest, err))
		d.emit(ev)
		return false
	}

	ev.Value = ptr(req.Value)
	d.emit(ev)
	return req.Value != 0
}

// SetBit writes a single bit at the given process-image byte address.
//
// A closed handle is a no-op. A failed control request is logged and has
// no further observable effect. The underlying ioctl is atomic with
// respect to other processes, unlike a read-modify-write of the byte.
func (d *Driver) SetBit(address uint16, bit uint8, value bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var raw uint8
	if value {
		raw = 1
	}
	ev := log.Event{Op: log.OpSetBit, Address: ptr(address), Bit: ptr(bit), Value: ptr(raw)}

	if !d.open {
		ev.Error = errData(ErrNotOpen)
		d.emit(ev)
		return
	}

	req := SPIValue{Address: address, Bit: bit, Value: raw}
	if err := d.dev.SetValue(&req); err != nil {
		ev.Error = errData(fmt.Errorf("%w: set value: %v", ErrControlRequest, err))
	}
	d.emit(ev)
}

// VariableInfo is the location of a configured variable as reported by the
// driver.
type VariableInfo struct {
	// Name is the variable name.
	Name string

	// Address is the byte address in the process image.
	Address uint16

	// Bit is the bit position 0-7, or >= 8 for whole-byte variables.
	Bit uint8

	// Length is the variable length in bits: 1, 8, 16 or 32.
	Length uint16
}

// FindVariable resolves a variable name to its process-image location via
// the driver's lookup control request. The name must fit the driver's
// 32-byte field including the terminating NUL.
func (d *Driver) FindVariable(name string) (VariableInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ev := log.Event{Op: log.OpFindVariable, Name: name}

	if !d.open {
		ev.Error = errData(ErrNotOpen)
		d.emit(ev)
		return VariableInfo{}, ErrNotOpen
	}
	if len(name) == 0 || len(name) >= 32 {
		err := fmt.Errorf("picontrol: variable name %q must be 1-31 bytes", name)
		ev.Error = errData(err)
		d.emit(ev)
		return VariableInfo{}, err
	}

	var req SPIVariable
	copy(req.Name[:], name)
	if err := d.dev.FindVariable(&req); err != nil {
		if errors.Is(err, unix.ENOENT) {
			ev.Error = errData(ErrVariableNotFound)
			d.emit(ev)
			return VariableInfo{}, fmt.Errorf("%w: %q", ErrVariableNotFound, name)
		}
		werr := fmt.Errorf("%w: find variable %q: %v", ErrControlRequest, name, err)
		ev.Error = errData(werr)
		d.emit(ev)
		return VariableInfo{}, werr
	}

	info := VariableInfo{
		Name:    strings.TrimRight(string(req.Name[:]), "\x00"),
		Address: req.Address,
		Bit:     req.Bit,
		Length:  req.Length,
	}
	ev.Address = ptr(info.Address)
	ev.Bit = ptr(info.Bit)
	d.emit(ev)
	return info, nil
}
