package picontrol

import "errors"

// Sentinel errors for the expected failure modes. All of them are
// recoverable signals: no operation in this package panics on them, and
// persistent failure simply leaves the handle closed with every dependent
// operation degrading to its failure value.
var (
	// ErrNotOpen indicates the operation requires an open device handle.
	ErrNotOpen = errors.New("picontrol: driver not open")

	// ErrSeekFailed indicates positioning to the requested offset failed.
	ErrSeekFailed = errors.New("picontrol: seek failed")

	// ErrShortRead indicates fewer bytes were returned than requested.
	// A short read is a hard failure: the partial buffer is discarded so
	// truncated data is never misinterpreted as valid.
	ErrShortRead = errors.New("picontrol: short read")

	// ErrControlRequest indicates an ioctl control request failed.
	ErrControlRequest = errors.New("picontrol: control request failed")

	// ErrVariableNotFound indicates the driver knows no variable by the
	// requested name.
	ErrVariableNotFound = errors.New("picontrol: variable not found")
)

// FailureKind classifies an error returned by this package so tests and
// callers can inspect the failure mode without string matching.
type FailureKind uint8

const (
	// FailureNone indicates no failure.
	FailureNone FailureKind = 0

	// FailureNotOpen indicates the handle was not open.
	FailureNotOpen FailureKind = 1

	// FailureSeek indicates the seek to the requested offset failed.
	FailureSeek FailureKind = 2

	// FailureShortRead indicates a truncated read.
	FailureShortRead FailureKind = 3

	// FailureControlRequest indicates a failed ioctl.
	FailureControlRequest FailureKind = 4

	// FailureOther covers all remaining errors (I/O errors, bad input).
	FailureOther FailureKind = 5
)

// String returns the failure kind name.
func (k FailureKind) String() string {
	switch k {
	case FailureNone:
		return "NONE"
	case FailureNotOpen:
		return "NOT_OPEN"
	case FailureSeek:
		return "SEEK_FAILED"
	case FailureShortRead:
		return "SHORT_READ"
	case FailureControlRequest:
		return "CONTROL_REQUEST"
	case FailureOther:
		return "OTHER"
	default:
		return "UNKNOWN"
	}
}

// Classify maps an error returned by this package to its FailureKind.
// A nil error classifies as FailureNone.
func Classify(err error) FailureKind {
	switch {
	case err == nil:
		return FailureNone
	case errors.Is(err, ErrNotOpen):
		return FailureNotOpen
	case errors.Is(err, ErrSeekFailed):
		return FailureSeek
	case errors.Is(err, ErrShortRead):
		return FailureShortRead
	case errors.Is(err, ErrControlRequest), errors.Is(err, ErrVariableNotFound):
		return FailureControlRequest
	default:
		return FailureOther
	}
}
