// Package picontrol provides byte- and bit-granular access to the process
// image exposed by the piControl kernel driver on Revolution Pi devices.
//
// The process image is a shared binary block aggregating the state of all
// attached I/O modules. The driver exposes it as a character device
// (default /dev/piControl0) that supports positioned byte reads and writes
// plus a small set of ioctl control requests for atomic single-bit access
// and a full driver reset.
//
// A [Driver] owns the handle to one device node. All operations check the
// open state first and degrade to their failure value (error, false, zero)
// instead of panicking, so callers can poll without wrapping every call in
// failure handling. The syscall surface sits behind the [Device] interface,
// which lets tests run against an in-memory process image.
//
// Bit-level access deliberately goes through the driver's ioctl primitives
// rather than a read-modify-write of the containing byte: the ioctl is
// atomic with respect to other processes sharing the same image.
package picontrol
