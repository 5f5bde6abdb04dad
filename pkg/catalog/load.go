package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/revpi-tools/picontrol-go/pkg/variable"
)

// fileCatalog is the on-disk structure shared by the JSON and YAML
// formats: a flat list of devices, each with its region offset and
// variables addressed relative to that region.
type fileCatalog struct {
	Version int          `json:"version" yaml:"version"`
	Devices []fileDevice `json:"devices" yaml:"devices"`
}

type fileDevice struct {
	Name      string         `json:"name" yaml:"name"`
	Offset    int            `json:"offset" yaml:"offset"`
	Variables []fileVariable `json:"variables" yaml:"variables"`
}

type fileVariable struct {
	Name      string `json:"name" yaml:"name"`
	Address   int    `json:"address" yaml:"address"`
	BitLength int    `json:"bitLength" yaml:"bit_length"`
	BitOffset uint8  `json:"bitOffset,omitempty" yaml:"bit_offset,omitempty"`
	Comment   string `json:"comment,omitempty" yaml:"comment,omitempty"`
}

// LoadFile loads a catalog, picking the format from the file extension:
// .json for piCtory-style JSON exports, .yml/.yaml for YAML tables.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".rsc":
		return LoadJSON(data)
	case ".yml", ".yaml":
		return LoadYAML(data)
	default:
		return nil, fmt.Errorf("catalog: unsupported file extension in %q", path)
	}
}

// LoadJSON parses a piCtory-style JSON catalog.
func LoadJSON(data []byte) (*Registry, error) {
	var f fileCatalog
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("catalog: JSON parse error: %w", err)
	}
	return f.registry()
}

// LoadYAML parses a YAML catalog table.
func LoadYAML(data []byte) (*Registry, error) {
	var f fileCatalog
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("catalog: YAML parse error: %w", err)
	}
	return f.registry()
}

func (f *fileCatalog) registry() (*Registry, error) {
	var entries []Entry
	for _, dev := range f.Devices {
		if dev.Offset < 0 {
			return nil, fmt.Errorf("catalog: device %q has negative offset %d", dev.Name, dev.Offset)
		}
		for _, v := range dev.Variables {
			entries = append(entries, Entry{
				Name:   v.Name,
				Device: dev.Name,
				Descriptor: variable.Descriptor{
					Offset:    dev.Offset,
					Address:   v.Address,
					BitLength: v.BitLength,
					BitOffset: v.BitOffset,
				},
				Comment: v.Comment,
			})
		}
	}
	return newRegistry(entries)
}
