package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revpi-tools/picontrol-go/pkg/catalog"
	"github.com/revpi-tools/picontrol-go/pkg/variable"
)

const testJSON = `{
  "version": 1,
  "devices": [
    {
      "name": "RevPi DIO",
      "offset": 113,
      "variables": [
        {"name": "I_1", "address": 0, "bitLength": 1, "bitOffset": 0},
        {"name": "I_2", "address": 0, "bitLength": 1, "bitOffset": 1},
        {"name": "Counter_1", "address": 6, "bitLength": 32},
        {"name": "Output_Status", "address": 70, "bitLength": 16, "comment": "output word"}
      ]
    },
    {
      "name": "RevPi AIO",
      "offset": 227,
      "variables": [
        {"name": "AnalogIn_1", "address": 0, "bitLength": 16}
      ]
    }
  ]
}`

const testYAML = `version: 1
devices:
  - name: RevPi DIO
    offset: 113
    variables:
      - name: I_1
        address: 0
        bit_length: 1
        bit_offset: 0
      - name: Counter_1
        address: 6
        bit_length: 32
`

func TestLoadJSON(t *testing.T) {
	reg, err := catalog.LoadJSON([]byte(testJSON))
	require.NoError(t, err)
	assert.Equal(t, 5, reg.Len())

	e, ok := reg.Lookup("Counter_1")
	require.True(t, ok)
	assert.Equal(t, "RevPi DIO", e.Device)
	assert.Equal(t, variable.Descriptor{Offset: 113, Address: 6, BitLength: 32}, e.Descriptor)
	assert.Equal(t, 119, e.Descriptor.Absolute())

	e, ok = reg.Lookup("I_2")
	require.True(t, ok)
	assert.True(t, e.Descriptor.IsBit())
	assert.Equal(t, uint8(1), e.Descriptor.BitOffset)

	_, ok = reg.Lookup("NoSuchVar")
	assert.False(t, ok)
}

func TestLoadYAML(t *testing.T) {
	reg, err := catalog.LoadYAML([]byte(testYAML))
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Len())

	e, ok := reg.Lookup("Counter_1")
	require.True(t, ok)
	assert.Equal(t, 119, e.Descriptor.Absolute())
}

func TestLoadFileByExtension(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "config.rsc")
	require.NoError(t, os.WriteFile(jsonPath, []byte(testJSON), 0644))
	yamlPath := filepath.Join(dir, "vars.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(testYAML), 0644))

	reg, err := catalog.LoadFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, 5, reg.Len())

	reg, err = catalog.LoadFile(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Len())

	_, err = catalog.LoadFile(filepath.Join(dir, "vars.txt"))
	assert.Error(t, err)
}

func TestLoadRejectsDuplicateNames(t *testing.T) {
	data := `{"version":1,"devices":[{"name":"A","offset":0,"variables":[
		{"name":"X","address":0,"bitLength":8},
		{"name":"X","address":1,"bitLength":8}]}]}`
	_, err := catalog.LoadJSON([]byte(data))
	assert.ErrorContains(t, err, "duplicate")
}

func TestLoadRejectsBadDescriptor(t *testing.T) {
	data := `{"version":1,"devices":[{"name":"A","offset":0,"variables":[
		{"name":"X","address":0,"bitLength":1,"bitOffset":9}]}]}`
	_, err := catalog.LoadJSON([]byte(data))
	assert.Error(t, err)
}

func TestRegistryViews(t *testing.T) {
	reg, err := catalog.LoadJSON([]byte(testJSON))
	require.NoError(t, err)

	names := reg.Names()
	assert.Equal(t, []string{"AnalogIn_1", "Counter_1", "I_1", "I_2", "Output_Status"}, names)

	dio := reg.Device("RevPi DIO")
	assert.Len(t, dio, 4)
	assert.Empty(t, reg.Device("NoSuchModule"))
}
