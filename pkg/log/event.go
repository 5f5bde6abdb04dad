package log

import (
	"time"
)

// Event represents a single driver operation against the process image.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// HandleID uniquely identifies the driver handle (UUID, assigned per open).
	HandleID string `cbor:"2,keyasint,omitempty"`

	// Op is the driver operation that produced this event.
	Op Op `cbor:"3,keyasint"`

	// Device is the device path the handle is bound to.
	Device string `cbor:"4,keyasint,omitempty"`

	// Offset is the absolute byte offset for positioned I/O.
	Offset *int64 `cbor:"5,keyasint,omitempty"`

	// Length is the requested byte count for positioned I/O.
	Length *int `cbor:"6,keyasint,omitempty"`

	// Address is the process-image byte address for bit operations.
	Address *uint16 `cbor:"7,keyasint,omitempty"`

	// Bit is the bit position (0-7) for bit operations.
	Bit *uint8 `cbor:"8,keyasint,omitempty"`

	// Value is the bit value transferred (0 or 1).
	Value *uint8 `cbor:"9,keyasint,omitempty"`

	// Name is the variable name for lookup operations.
	Name string `cbor:"10,keyasint,omitempty"`

	// Error is set when the operation failed.
	Error *ErrorEventData `cbor:"11,keyasint,omitempty"`
}

// Op identifies the driver operation an event was captured for.
type Op uint8

const (
	// OpOpen is the opening of the device handle.
	OpOpen Op = 0
	// OpClose is the release of the device handle.
	OpClose Op = 1
	// OpReset is the parameter-less driver reset control request.
	OpReset Op = 2
	// OpRead is a positioned byte read.
	OpRead Op = 3
	// OpWrite is a positioned byte write.
	OpWrite Op = 4
	// OpGetBit is a single-bit read control request.
	OpGetBit Op = 5
	// OpSetBit is a single-bit write control request.
	OpSetBit Op = 6
	// OpFindVariable is a variable-name lookup control request.
	OpFindVariable Op = 7
)

// String returns the operation name.
func (o Op) String() string {
	switch o {
	case OpOpen:
		return "OPEN"
	case OpClose:
		return "CLOSE"
	case OpReset:
		return "RESET"
	case OpRead:
		return "READ"
	case OpWrite:
		return "WRITE"
	case OpGetBit:
		return "GET_BIT"
	case OpSetBit:
		return "SET_BIT"
	case OpFindVariable:
		return "FIND_VARIABLE"
	default:
		return "UNKNOWN"
	}
}

// ErrorEventData captures a failed operation.
type ErrorEventData struct {
	// Message is the error message.
	Message string `cbor:"1,keyasint"`

	// Errno is the OS error number, when the failure came from a syscall.
	Errno *int `cbor:"2,keyasint,omitempty"`
}
