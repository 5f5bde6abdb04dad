// Package snapshot persists process-image snapshots to JSON files.
//
// A snapshot is the raw process image (or a leading region of it) read
// through the access layer, wrapped in versioned metadata. Snapshots are
// useful for offline inspection and for priming an image before I/O
// simulation.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Version is the current version of the snapshot file format.
const Version = 1

// ImageSource reads bytes out of a process image. *picontrol.Driver
// satisfies it.
type ImageSource interface {
	Read(offset int64, length int) ([]byte, error)
}

// ImageSink writes bytes into a process image. *picontrol.Driver
// satisfies it.
type ImageSink interface {
	Write(offset int64, data []byte) (int, error)
}

// Snapshot is one captured process image.
type Snapshot struct {
	// Version is the snapshot file format version.
	Version int `json:"version"`

	// SavedAt is when the snapshot was taken.
	SavedAt time.Time `json:"saved_at"`

	// Device is the device path the image was read from.
	Device string `json:"device,omitempty"`

	// Length is the captured byte count.
	Length int `json:"length"`

	// Image is the raw process image (base64 in the JSON encoding).
	Image []byte `json:"image"`
}

// Store manages persistence of process-image snapshots to a JSON file.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a snapshot store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Save reads length bytes from the start of the process image and persists
// them. The device string is recorded as metadata only.
func (s *Store) Save(src ImageSource, device string, length int) error {
	image, err := src.Read(0, length)
	if err != nil {
		return fmt.Errorf("snapshot: capture image: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Ensure parent directory exists
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	snap := Snapshot{
		Version: Version,
		SavedAt: time.Now(),
		Device:  device,
		Length:  length,
		Image:   image,
	}
	data, err := json.MarshalIndent(&snap, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0644)
}

// Load reads the snapshot from disk.
// Returns nil, nil if the file doesn't exist.
func (s *Store) Load() (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{}
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, err
	}
	if snap.Version != Version {
		return nil, fmt.Errorf("snapshot: unsupported format version %d", snap.Version)
	}
	if len(snap.Image) != snap.Length {
		return nil, fmt.Errorf("snapshot: image has %d bytes, metadata says %d", len(snap.Image), snap.Length)
	}

	return snap, nil
}

// Restore loads the snapshot and writes its image back to the start of the
// process image, returning the byte count actually written.
func (s *Store) Restore(dst ImageSink) (int, error) {
	snap, err := s.Load()
	if err != nil {
		return 0, err
	}
	if snap == nil {
		return 0, fmt.Errorf("snapshot: no snapshot at %s", s.path)
	}

	n, err := dst.Write(0, snap.Image)
	if err != nil {
		return n, fmt.Errorf("snapshot: restore image: %w", err)
	}
	if n != len(snap.Image) {
		return n, fmt.Errorf("snapshot: restored %d of %d bytes", n, len(snap.Image))
	}
	return n, nil
}

// Clear removes the snapshot file.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
