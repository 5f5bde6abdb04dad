package picontrol

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"

	"github.com/revpi-tools/picontrol-go/pkg/log"
)

// DefaultPath is the device node of the piControl process image.
const DefaultPath = "/dev/piControl0"

// Config configures a Driver. The zero value is usable: it binds to
// DefaultPath, talks to the kernel device and discards log events.
type Config struct {
	// Path is the device node to open. Defaults to DefaultPath.
	Path string

	// Device overrides the syscall surface. Defaults to the kernel device.
	Device Device

	// Logger receives an event per driver operation. Defaults to
	// log.NoopLogger.
	Logger log.Logger
}

// Driver owns the handle to one piControl device node.
//
// The handle is either open or closed; every operation checks the state
// first and degrades to its failure value when closed. A mutex serializes
// all operations on the handle, so a Seek+Read pair issued through one
// Driver is never interleaved with another operation on the same Driver.
// Consistency against other processes holding their own handle is whatever
// the kernel driver guarantees.
type Driver struct {
	path string
	dev  Device
	log  log.Logger

	mu   sync.Mutex
	open bool
	id   string // handle UUID, reassigned per open
}

// NewDriver creates a Driver from the given configuration.
// The device is not opened; call Open.
func NewDriver(cfg Config) *Driver {
	if cfg.Path == "" {
		cfg.Path = DefaultPath
	}
	if cfg.Device == nil {
		cfg.Device = newSysDevice()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NoopLogger{}
	}
	return &Driver{
		path: cfg.Path,
		dev:  cfg.Device,
		log:  cfg.Logger,
	}
}

// Path returns the device node path the driver is bound to.
func (d *Driver) Path() string {
	return d.path
}

// Open opens the device node read/write if it is not open already and
// reports whether the handle is open afterwards. Calling Open on an open
// handle is a no-op success.
func (d *Driver) Open() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.openLocked()
}

func (d *Driver) openLocked() bool {
	if d.open {
		return true
	}
	if err := d.dev.Open(d.path); err != nil {
		d.emit(log.Event{Op: log.OpOpen, Error: errData(err)})
		return false
	}
	d.open = true
	d.id = uuid.NewString()
	d.emit(log.Event{Op: log.OpOpen})
	return true
}

// IsOpen reports whether the handle is currently open.
func (d *Driver) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open
}

// Close releases the device handle. Closing a closed handle is a no-op;
// Close is idempotent.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.open {
		return nil
	}
	err := d.dev.Close()
	d.open = false
	if err != nil {
		d.emit(log.Event{Op: log.OpClose, Error: errData(err)})
		return err
	}
	d.emit(log.Event{Op: log.OpClose})
	return nil
}

// Reset opens the handle if needed and issues the parameter-less reset
// control request. It returns false if opening failed or the driver
// reported failure. A false return means "reset not confirmed": the caller
// may retry or proceed in degraded mode, the process is never taken down.
func (d *Driver) Reset() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.openLocked() {
		return false
	}
	if err := d.dev.Reset(); err != nil {
		d.emit(log.Event{Op: log.OpReset, Error: errData(err)})
		return false
	}
	d.emit(log.Event{Op: log.OpReset})
	return true
}

// emit stamps and forwards a log event. Callers hold d.mu, so the handle
// ID and path are stable for the duration.
func (d *Driver) emit(ev log.Event) {
	ev.Timestamp = time.Now()
	ev.HandleID = d.id
	ev.Device = d.path
	d.log.Log(ev)
}

// errData builds the error payload for a log event.
func errData(err error) *log.ErrorEventData {
	data := &log.ErrorEventData{Message: err.Error()}
	var errno unix.Errno
	if errors.As(err, &errno) {
		n := int(errno)
		data.Errno = &n
	}
	return data
}

// ptr returns a pointer to v, for the optional event fields.
func ptr[T any](v T) *T {
	return &v
}
