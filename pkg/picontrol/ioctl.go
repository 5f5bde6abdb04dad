package picontrol

// ioctl request encoding, following the kernel's _IOC layout.
// All piControl requests are encoded _IO('K', nr): no size or direction
// bits, pointer arguments are passed through the ioctl arg untyped.

const (
	iocNrBits   = 8
	iocTypeBits = 8
	iocSizeBits = 14

	iocNrShift   = 0
	iocTypeShift = iocNrShift + iocNrBits
	iocSizeShift = iocTypeShift + iocTypeBits
	iocDirShift  = iocSizeShift + iocSizeBits

	iocDirNone = 0
)

// ioc composes an ioctl request number from direction, type, number and size.
func ioc(dir, typ, nr, size uintptr) uintptr {
	return dir<<iocDirShift | typ<<iocTypeShift | nr<<iocNrShift | size<<iocSizeShift
}

// io encodes a request that carries no payload size or direction bits.
func io(typ, nr uintptr) uintptr {
	return ioc(iocDirNone, typ, nr, 0)
}

// kbMagic is the piControl ioctl magic byte.
const kbMagic uintptr = 'K'

// piControl control requests.
var (
	// KBReset resets the piControl driver, reloading its configuration.
	KBReset = io(kbMagic, 12)

	// KBGetValue reads the value of one bit in the process image.
	KBGetValue = io(kbMagic, 15)

	// KBSetValue sets the value of one bit in the process image.
	KBSetValue = io(kbMagic, 16)

	// KBFindVariable resolves a configured variable name to its location.
	KBFindVariable = io(kbMagic, 17)
)

// SPIValue is the argument struct for KBGetValue and KBSetValue.
// Field order and widths mirror the driver's struct layout byte-for-byte;
// do not reorder or retype fields.
type SPIValue struct {
	// Address of the byte in the process image.
	Address uint16

	// Bit position 0-7 within the byte.
	Bit uint8

	// Value transferred: 0 or 1.
	Value uint8
}

// SPIVariable is the argument struct for KBFindVariable.
// Field order and widths mirror the driver's struct layout.
type SPIVariable struct {
	// Name of the variable, NUL-padded.
	Name [32]byte

	// Address of the byte in the process image.
	Address uint16

	// Bit position 0-7, or >= 8 for whole-byte variables.
	Bit uint8

	// Length of the variable in bits: 1, 8, 16 or 32.
	Length uint16
}
