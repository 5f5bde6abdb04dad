package picontrol

import (
	"fmt"

	"github.com/revpi-tools/picontrol-go/pkg/log"
)

// Read seeks to the absolute byte offset and reads exactly length bytes
// from the process image.
//
// A closed handle returns ErrNotOpen without touching the device. A failed
// seek returns an error wrapping ErrSeekFailed. A read returning fewer
// bytes than requested returns an error wrapping ErrShortRead; the partial
// buffer is never handed out.
func (d *Driver) Read(offset int64, length int) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ev := log.Event{Op: log.OpRead, Offset: ptr(offset), Length: ptr(length)}

	if !d.open {
		ev.Error = errData(ErrNotOpen)
		d.emit(ev)
		return nil, ErrNotOpen
	}
	if err := d.dev.Seek(offset); err != nil {
		werr := fmt.Errorf("%w: offset %d: %v", ErrSeekFailed, offset, err)
		ev.Error = errData(werr)
		d.emit(ev)
		return nil, werr
	}

	buf := make([]byte, length)
	n, err := d.dev.Read(buf)
	if err != nil {
		werr := fmt.Errorf("picontrol: read at offset %d: %w", offset, err)
		ev.Error = errData(werr)
		d.emit(ev)
		return nil, werr
	}
	if n != length {
		werr := fmt.Errorf("%w: got %d of %d bytes at offset %d", ErrShortRead, n, length, offset)
		ev.Error = errData(werr)
		d.emit(ev)
		return nil, werr
	}

	d.emit(ev)
	return buf, nil
}

// Write seeks to the absolute byte offset and writes data to the process
// image, returning the byte count actually written.
//
// A closed handle or a failed seek reports zero bytes written. The count
// may legitimately be less than len(data); checking it is the caller's
// responsibility.
func (d *Driver) Write(offset int64, data []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ev := log.Event{Op: log.OpWrite, Offset: ptr(offset), Length: ptr(len(data))}

	if !d.open {
		ev.Error = errData(ErrNotOpen)
		d.emit(ev)
		return 0, ErrNotOpen
	}
	if err := d.dev.Seek(offset); err != nil {
		werr := fmt.Errorf("%w: offset %d: %v", ErrSeekFailed, offset, err)
		ev.Error = errData(werr)
		d.emit(ev)
		return 0, werr
	}

	n, err := d.dev.Write(data)
	if err != nil {
		werr := fmt.Errorf("picontrol: write at offset %d: %w", offset, err)
		ev.Error = errData(werr)
		d.emit(ev)
		return n, werr
	}

	d.emit(ev)
	return n, nil
}
