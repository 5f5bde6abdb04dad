package picontrol

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// Device is the syscall surface of the piControl character device.
// The default implementation issues the real system calls; tests inject an
// in-memory process image instead (see internal/mock).
//
// Seek and the following Read or Write are two separate system calls with a
// race window between them. The Driver serializes its own operations, but a
// second handle to the same device node is only as consistent as the kernel
// driver makes it.
type Device interface {
	// Open opens the device node read/write.
	Open(path string) error

	// Close releases the device node. Closing a device that was never
	// opened is an error.
	Close() error

	// Seek positions the file offset to an absolute byte offset.
	Seek(offset int64) error

	// Read reads up to len(p) bytes from the current position.
	Read(p []byte) (int, error)

	// Write writes len(p) bytes at the current position and returns the
	// count actually written.
	Write(p []byte) (int, error)

	// GetValue issues the KBGetValue control request, filling v.Value.
	GetValue(v *SPIValue) error

	// SetValue issues the KBSetValue control request.
	SetValue(v *SPIValue) error

	// FindVariable issues the KBFindVariable control request, filling the
	// location fields of v from its name.
	FindVariable(v *SPIVariable) error

	// Reset issues the parameter-less KBReset control request.
	Reset() error
}

// sysDevice is the kernel-backed Device. It holds the raw file descriptor;
// -1 means not open.
type sysDevice struct {
	fd int
}

func newSysDevice() *sysDevice {
	return &sysDevice{fd: -1}
}

func (d *sysDevice) Open(path string) error {
	fd, err := unix.Open(path, unix.O_RDWR, 0)
	if err != nil {
		return err
	}
	d.fd = fd
	return nil
}

func (d *sysDevice) Close() error {
	if d.fd < 0 {
		return unix.EBADF
	}
	err := unix.Close(d.fd)
	d.fd = -1
	return err
}

func (d *sysDevice) Seek(offset int64) error {
	_, err := unix.Seek(d.fd, offset, unix.SEEK_SET)
	return err
}

func (d *sysDevice) Read(p []byte) (int, error) {
	return unix.Read(d.fd, p)
}

func (d *sysDevice) Write(p []byte) (int, error) {
	return unix.Write(d.fd, p)
}

func (d *sysDevice) GetValue(v *SPIValue) error {
	return d.ioctl(KBGetValue, unsafe.Pointer(v))
}

func (d *sysDevice) SetValue(v *SPIValue) error {
	return d.ioctl(KBSetValue, unsafe.Pointer(v))
}

func (d *sysDevice) FindVariable(v *SPIVariable) error {
	return d.ioctl(KBFindVariable, unsafe.Pointer(v))
}

func (d *sysDevice) Reset() error {
	return d.ioctl(KBReset, nil)
}

// ioctl issues a control request against the open descriptor. The argument
// struct, if any, is passed by pointer and must keep the driver's exact
// byte layout.
func (d *sysDevice) ioctl(req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(d.fd), req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}

// Compile-time interface satisfaction check.
var _ Device = (*sysDevice)(nil)
