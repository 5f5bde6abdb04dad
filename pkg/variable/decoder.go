package variable

import (
	"encoding/binary"
	"fmt"

	"github.com/revpi-tools/picontrol-go/pkg/picontrol"
)

// ImageAccessor is the subset of the driver the decoder needs. *picontrol.Driver
// satisfies it.
type ImageAccessor interface {
	IsOpen() bool
	Read(offset int64, length int) ([]byte, error)
	Write(offset int64, data []byte) (int, error)
	GetBit(address uint16, bit uint8) bool
	SetBit(address uint16, bit uint8, value bool)
}

// Decoder reads and writes typed variables through a driver handle. It is
// stateless apart from the handle reference; descriptors are passed per
// call.
type Decoder struct {
	drv ImageAccessor
}

// NewDecoder creates a Decoder over the given driver handle.
func NewDecoder(drv ImageAccessor) *Decoder {
	return &Decoder{drv: drv}
}

// Read decodes the variable named by the descriptor.
//
// Single-bit variables go through the driver's atomic bit primitive and
// always surface as a one-byte raw holding 0 or 1. Everything else is a
// positioned read of ByteLength bytes at the absolute address, converted
// per the length rules of [FromRaw]. Any underlying read failure
// propagates; no partial or fabricated value is ever returned.
func (dec *Decoder) Read(d Descriptor) (Value, error) {
	if err := d.Validate(); err != nil {
		return Value{}, err
	}

	if d.IsBit() {
		if !dec.drv.IsOpen() {
			return Value{}, picontrol.ErrNotOpen
		}
		return Bit(dec.drv.GetBit(uint16(d.Absolute()), d.BitOffset)), nil
	}

	raw, err := dec.drv.Read(int64(d.Absolute()), d.ByteLength())
	if err != nil {
		return Value{}, fmt.Errorf("variable: read %s: %w", d, err)
	}
	return FromRaw(raw)
}

// Write encodes a value back into the process image at the descriptor's
// location.
//
// Bits use the atomic bit primitive. Integer widths are written
// little-endian from the value's numeric interpretation. Text widths
// require raw bytes of exactly the descriptor's byte length. A short
// write is reported as an error carrying the actual count's shortfall.
func (dec *Decoder) Write(d Descriptor, v Value) error {
	if err := d.Validate(); err != nil {
		return err
	}

	if d.IsBit() {
		if !dec.drv.IsOpen() {
			return picontrol.ErrNotOpen
		}
		dec.drv.SetBit(uint16(d.Absolute()), d.BitOffset, v.Bool())
		return nil
	}

	buf, err := encode(d, v)
	if err != nil {
		return err
	}
	n, err := dec.drv.Write(int64(d.Absolute()), buf)
	if err != nil {
		return fmt.Errorf("variable: write %s: %w", d, err)
	}
	if n != len(buf) {
		return fmt.Errorf("variable: write %s: wrote %d of %d bytes", d, n, len(buf))
	}
	return nil
}

// encode builds the on-image byte sequence for a value of the descriptor's
// width.
func encode(d Descriptor, v Value) ([]byte, error) {
	n := d.ByteLength()

	// Raw bytes of the right length win, whatever the kind.
	if len(v.Raw()) == n {
		return v.Raw(), nil
	}

	switch n {
	case 1:
		if v.Uint() > 0xFF {
			return nil, fmt.Errorf("variable: value %d does not fit 1 byte", v.Uint())
		}
		return []byte{byte(v.Uint())}, nil
	case 2:
		if v.Uint() > 0xFFFF {
			return nil, fmt.Errorf("variable: value %d does not fit 2 bytes", v.Uint())
		}
		buf := make([]byte, 2)
		binary.LittleEndian.PutUint16(buf, uint16(v.Uint()))
		return buf, nil
	case 3:
		if v.Uint() > 0xFFFFFF {
			return nil, fmt.Errorf("variable: value %d does not fit 3 bytes", v.Uint())
		}
		u := v.Uint()
		return []byte{byte(u), byte(u >> 8), byte(u >> 16)}, nil
	case 4:
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, v.Uint())
		return buf, nil
	default:
		return nil, fmt.Errorf("variable: %s needs %d raw bytes, value has %d", d, n, len(v.Raw()))
	}
}
