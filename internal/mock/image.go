// Package mock provides an in-memory piControl process image for testing.
//
// Image implements picontrol.Device without any system calls. Tests can
// pre-seed image bytes, register variables for lookup, inject failures for
// the error paths and inspect syscall-attempt counters.
package mock

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/revpi-tools/picontrol-go/pkg/picontrol"
)

// Failure injection errors.
var (
	ErrOpenFailed  = errors.New("mock: open failed")
	ErrSeekFailed  = errors.New("mock: seek failed")
	ErrIoctlFailed = errors.New("mock: ioctl failed")
	ErrNotOpened   = errors.New("mock: device not opened")
)

// Image is an in-memory process image implementing picontrol.Device.
type Image struct {
	mu     sync.Mutex
	data   []byte
	pos    int64
	opened bool

	// Variables maps names to locations for FindVariable.
	Variables map[string]picontrol.VariableInfo

	// FailOpen makes Open fail.
	FailOpen bool

	// FailSeek makes Seek fail.
	FailSeek bool

	// FailIoctl makes all control requests fail.
	FailIoctl bool

	// ShortReadBy truncates every read result by that many bytes.
	ShortReadBy int

	// ShortWriteBy truncates every write by that many bytes.
	ShortWriteBy int

	// Syscall-attempt counters.
	Opens  int
	Closes int
	Seeks  int
	Reads  int
	Writes int
	Ioctls int
	Resets int
}

// NewImage creates a process image of the given size, zero-filled.
func NewImage(size int) *Image {
	return &Image{
		data:      make([]byte, size),
		Variables: make(map[string]picontrol.VariableInfo),
	}
}

// Open marks the device as opened.
func (m *Image) Open(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Opens++
	if m.FailOpen {
		return ErrOpenFailed
	}
	m.opened = true
	m.pos = 0
	return nil
}

// Close marks the device as closed.
func (m *Image) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closes++
	if !m.opened {
		return ErrNotOpened
	}
	m.opened = false
	return nil
}

// Seek positions the read/write cursor.
func (m *Image) Seek(offset int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Seeks++
	if m.FailSeek {
		return ErrSeekFailed
	}
	if offset < 0 || offset > int64(len(m.data)) {
		return fmt.Errorf("mock: seek offset %d outside image of %d bytes", offset, len(m.data))
	}
	m.pos = offset
	return nil
}

// Read copies image bytes from the cursor, honoring ShortReadBy.
func (m *Image) Read(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Reads++
	n := copy(p, m.data[m.pos:])
	if m.ShortReadBy > 0 {
		n -= m.ShortReadBy
		if n < 0 {
			n = 0
		}
	}
	m.pos += int64(n)
	return n, nil
}

// Write copies bytes into the image at the cursor, honoring ShortWriteBy.
func (m *Image) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Writes++
	if m.ShortWriteBy > 0 && len(p) > m.ShortWriteBy {
		p = p[:len(p)-m.ShortWriteBy]
	}
	n := copy(m.data[m.pos:], p)
	m.pos += int64(n)
	return n, nil
}

// GetValue returns the addressed bit (or whole byte for Bit >= 8) in
// v.Value, mirroring the driver's semantics.
func (m *Image) GetValue(v *picontrol.SPIValue) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Ioctls++
	if m.FailIoctl {
		return ErrIoctlFailed
	}
	if int(v.Address) >= len(m.data) {
		return fmt.Errorf("mock: address %d outside image of %d bytes", v.Address, len(m.data))
	}
	if v.Bit >= 8 {
		v.Value = m.data[v.Address]
		return nil
	}
	v.Value = (m.data[v.Address] >> v.Bit) & 1
	return nil
}

// SetValue sets the addressed bit (or whole byte for Bit >= 8).
func (m *Image) SetValue(v *picontrol.SPIValue) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Ioctls++
	if m.FailIoctl {
		return ErrIoctlFailed
	}
	if int(v.Address) >= len(m.data) {
		return fmt.Errorf("mock: address %d outside image of %d bytes", v.Address, len(m.data))
	}
	if v.Bit >= 8 {
		m.data[v.Address] = v.Value
		return nil
	}
	mask := uint8(1) << v.Bit
	if v.Value != 0 {
		m.data[v.Address] |= mask
	} else {
		m.data[v.Address] &^= mask
	}
	return nil
}

// FindVariable resolves a registered variable name.
func (m *Image) FindVariable(v *picontrol.SPIVariable) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Ioctls++
	if m.FailIoctl {
		return ErrIoctlFailed
	}
	name := strings.TrimRight(string(v.Name[:]), "\x00")
	info, ok := m.Variables[name]
	if !ok {
		// The real driver reports an unknown name as ENOENT.
		return unix.ENOENT
	}
	v.Address = info.Address
	v.Bit = info.Bit
	v.Length = info.Length
	return nil
}

// Reset zeroes the whole image.
func (m *Image) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Ioctls++
	m.Resets++
	if m.FailIoctl {
		return ErrIoctlFailed
	}
	for i := range m.data {
		m.data[i] = 0
	}
	return nil
}

// SetBytes copies b into the image starting at addr. Test setup helper.
func (m *Image) SetBytes(addr int, b []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copy(m.data[addr:], b)
}

// Bytes returns a copy of length n of the image starting at addr.
func (m *Image) Bytes(addr, n int) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]byte, n)
	copy(out, m.data[addr:])
	return out
}

// Compile-time interface satisfaction check.
var _ picontrol.Device = (*Image)(nil)
