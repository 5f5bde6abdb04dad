package variable

import "fmt"

// Descriptor locates one variable inside the process image. Descriptors
// are supplied by an external catalog (a static table, a piCtory export or
// the driver's own lookup) and are treated as read-only input.
type Descriptor struct {
	// Offset is the byte offset of the owning module's region within the
	// process image.
	Offset int

	// Address is the byte offset of the variable within that region.
	Address int

	// BitLength is the declared width in bits: 1 for a single bit,
	// otherwise a multiple of 8 (8, 16, 32, or wider for text fields).
	BitLength int

	// BitOffset is the bit position 0-7 within the addressed byte. Only
	// meaningful when BitLength is 1.
	BitOffset uint8
}

// IsBit reports whether the descriptor names a single-bit variable.
func (d Descriptor) IsBit() bool {
	return d.BitLength == 1
}

// ByteLength returns the access width in bytes for byte-oriented reads:
// 1, 2 or 4 for the integer widths, BitLength/8 for everything else.
// Single-bit descriptors report 1, the width of their raw surface.
func (d Descriptor) ByteLength() int {
	switch d.BitLength {
	case 1, 8:
		return 1
	case 16:
		return 2
	case 32:
		return 4
	default:
		return d.BitLength / 8
	}
}

// Absolute returns the absolute byte address, container offset plus
// variable address.
func (d Descriptor) Absolute() int {
	return d.Offset + d.Address
}

// Validate checks the descriptor's internal consistency. The layer does
// not verify descriptors against the live driver layout; this only rejects
// values no layout could make valid.
func (d Descriptor) Validate() error {
	if d.Offset < 0 || d.Address < 0 {
		return fmt.Errorf("variable: negative offset in descriptor %+v", d)
	}
	if d.BitOffset > 7 {
		return fmt.Errorf("variable: bit offset %d out of range 0-7", d.BitOffset)
	}
	if d.BitLength != 1 && (d.BitLength <= 0 || d.BitLength%8 != 0) {
		return fmt.Errorf("variable: bit length %d is neither 1 nor a multiple of 8", d.BitLength)
	}
	return nil
}

// String renders the descriptor for display.
func (d Descriptor) String() string {
	if d.IsBit() {
		return fmt.Sprintf("bit @%d.%d", d.Absolute(), d.BitOffset)
	}
	return fmt.Sprintf("%d bytes @%d", d.ByteLength(), d.Absolute())
}
