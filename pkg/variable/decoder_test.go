package variable_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revpi-tools/picontrol-go/internal/mock"
	"github.com/revpi-tools/picontrol-go/pkg/picontrol"
	"github.com/revpi-tools/picontrol-go/pkg/variable"
)

func newTestDecoder(t *testing.T, img *mock.Image) (*variable.Decoder, *picontrol.Driver) {
	t.Helper()
	drv := picontrol.NewDriver(picontrol.Config{Device: img})
	return variable.NewDecoder(drv), drv
}

func TestDecodeWord(t *testing.T) {
	img := mock.NewImage(64)
	img.SetBytes(4, []byte{0x34, 0x12})
	dec, drv := newTestDecoder(t, img)
	require.True(t, drv.Open())

	v, err := dec.Read(variable.Descriptor{Offset: 0, Address: 4, BitLength: 16})
	require.NoError(t, err)
	assert.Equal(t, variable.KindWord, v.Kind())
	assert.Equal(t, uint32(0x1234), v.Uint())
	assert.Equal(t, []byte{0x34, 0x12}, v.Raw())
}

func TestDecodeUsesContainerOffset(t *testing.T) {
	img := mock.NewImage(256)
	img.SetBytes(119, []byte{42})
	dec, drv := newTestDecoder(t, img)
	require.True(t, drv.Open())

	v, err := dec.Read(variable.Descriptor{Offset: 113, Address: 6, BitLength: 8})
	require.NoError(t, err)
	assert.Equal(t, variable.KindByte, v.Kind())
	assert.Equal(t, uint32(42), v.Uint())
}

func TestDecodeBit(t *testing.T) {
	img := mock.NewImage(64)
	img.SetBytes(2, []byte{1 << 3})
	dec, drv := newTestDecoder(t, img)
	require.True(t, drv.Open())

	v, err := dec.Read(variable.Descriptor{Address: 2, BitLength: 1, BitOffset: 3})
	require.NoError(t, err)
	assert.Equal(t, variable.KindBit, v.Kind())
	assert.Equal(t, []byte{1}, v.Raw())
	assert.Equal(t, uint32(1), v.Uint())
	assert.True(t, v.Bool())

	// The neighboring bit reads clear.
	v, err = dec.Read(variable.Descriptor{Address: 2, BitLength: 1, BitOffset: 2})
	require.NoError(t, err)
	assert.Equal(t, uint32(0), v.Uint())
}

func TestDecodeDWord(t *testing.T) {
	img := mock.NewImage(64)
	img.SetBytes(8, []byte{0x78, 0x56, 0x34, 0x12})
	dec, drv := newTestDecoder(t, img)
	require.True(t, drv.Open())

	v, err := dec.Read(variable.Descriptor{Address: 8, BitLength: 32})
	require.NoError(t, err)
	assert.Equal(t, variable.KindDWord, v.Kind())
	assert.Equal(t, uint32(0x12345678), v.Uint())
}

func TestDecodeText(t *testing.T) {
	img := mock.NewImage(64)
	img.SetBytes(16, []byte("RevPi DIO\x00\x00\x00"))
	dec, drv := newTestDecoder(t, img)
	require.True(t, drv.Open())

	v, err := dec.Read(variable.Descriptor{Address: 16, BitLength: 96})
	require.NoError(t, err)
	assert.Equal(t, variable.KindText, v.Kind())
	// Trimming is the caller's responsibility.
	assert.Equal(t, "RevPi DIO\x00\x00\x00", v.Text())
}

func TestDecodeClosedHandle(t *testing.T) {
	img := mock.NewImage(64)
	dec, _ := newTestDecoder(t, img)

	_, err := dec.Read(variable.Descriptor{Address: 4, BitLength: 16})
	assert.ErrorIs(t, err, picontrol.ErrNotOpen)

	_, err = dec.Read(variable.Descriptor{Address: 2, BitLength: 1, BitOffset: 3})
	assert.ErrorIs(t, err, picontrol.ErrNotOpen)
}

func TestDecodeShortReadPropagates(t *testing.T) {
	img := mock.NewImage(64)
	img.ShortReadBy = 1
	dec, drv := newTestDecoder(t, img)
	require.True(t, drv.Open())

	// The failure propagates; no fabricated zero value.
	v, err := dec.Read(variable.Descriptor{Address: 0, BitLength: 32})
	require.ErrorIs(t, err, picontrol.ErrShortRead)
	assert.Equal(t, variable.KindUnknown, v.Kind())
}

func TestDecodeInvalidDescriptor(t *testing.T) {
	img := mock.NewImage(64)
	dec, drv := newTestDecoder(t, img)
	require.True(t, drv.Open())

	_, err := dec.Read(variable.Descriptor{Address: 0, BitLength: 12})
	assert.Error(t, err)
}

func TestWriteRoundTrip(t *testing.T) {
	img := mock.NewImage(64)
	dec, drv := newTestDecoder(t, img)
	require.True(t, drv.Open())

	tests := []struct {
		name string
		d    variable.Descriptor
		raw  []byte
		want uint32
	}{
		{"byte", variable.Descriptor{Address: 1, BitLength: 8}, []byte{0xAB}, 0xAB},
		{"word", variable.Descriptor{Address: 2, BitLength: 16}, []byte{0x34, 0x12}, 0x1234},
		{"dword", variable.Descriptor{Address: 8, BitLength: 32}, []byte{0x78, 0x56, 0x34, 0x12}, 0x12345678},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := variable.FromRaw(tt.raw)
			require.NoError(t, err)
			require.NoError(t, dec.Write(tt.d, v))

			got, err := dec.Read(tt.d)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Uint())
		})
	}
}

func TestWriteBit(t *testing.T) {
	img := mock.NewImage(64)
	dec, drv := newTestDecoder(t, img)
	require.True(t, drv.Open())

	d := variable.Descriptor{Address: 3, BitLength: 1, BitOffset: 5}
	require.NoError(t, dec.Write(d, variable.Bit(true)))

	v, err := dec.Read(d)
	require.NoError(t, err)
	assert.True(t, v.Bool())

	require.NoError(t, dec.Write(d, variable.Bit(false)))
	v, err = dec.Read(d)
	require.NoError(t, err)
	assert.False(t, v.Bool())
}

func TestWriteClosedHandle(t *testing.T) {
	img := mock.NewImage(64)
	dec, _ := newTestDecoder(t, img)

	err := dec.Write(variable.Descriptor{Address: 2, BitLength: 16}, variable.Bit(true))
	assert.ErrorIs(t, err, picontrol.ErrNotOpen)
}
