package picontrol_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revpi-tools/picontrol-go/internal/mock"
	piclog "github.com/revpi-tools/picontrol-go/pkg/log"
	"github.com/revpi-tools/picontrol-go/pkg/picontrol"
)

func TestBitRoundTrip(t *testing.T) {
	img := mock.NewImage(64)
	drv := newTestDriver(t, img)
	require.True(t, drv.Open())

	drv.SetBit(5, 3, true)
	assert.True(t, drv.GetBit(5, 3))

	// Neighboring bits stay untouched.
	assert.False(t, drv.GetBit(5, 2))
	assert.False(t, drv.GetBit(5, 4))

	drv.SetBit(5, 3, false)
	assert.False(t, drv.GetBit(5, 3))
}

func TestGetBitOnClosedHandle(t *testing.T) {
	img := mock.NewImage(64)
	drv := newTestDriver(t, img)

	assert.False(t, drv.GetBit(5, 3))
	assert.Zero(t, img.Ioctls)
}

func TestSetBitOnClosedHandleIsNoop(t *testing.T) {
	img := mock.NewImage(64)
	drv := newTestDriver(t, img)

	drv.SetBit(5, 3, true)
	assert.Zero(t, img.Ioctls)
	assert.Equal(t, []byte{0}, img.Bytes(5, 1))
}

func TestBitControlRequestFailureIsLogged(t *testing.T) {
	img := mock.NewImage(64)
	img.FailIoctl = true
	logger := &captureLogger{}
	drv := picontrol.NewDriver(picontrol.Config{Device: img, Logger: logger})
	require.True(t, drv.Open())

	// Get returns false, set has no observable effect; both log.
	assert.False(t, drv.GetBit(1, 0))
	drv.SetBit(1, 0, true)

	errs := logger.errors()
	require.Len(t, errs, 2)
	assert.Equal(t, piclog.OpGetBit, errs[0].Op)
	assert.Equal(t, piclog.OpSetBit, errs[1].Op)
}

func TestFindVariable(t *testing.T) {
	img := mock.NewImage(64)
	img.Variables["RevPiLED"] = picontrol.VariableInfo{
		Name:    "RevPiLED",
		Address: 119,
		Bit:     8,
		Length:  8,
	}
	drv := newTestDriver(t, img)
	require.True(t, drv.Open())

	info, err := drv.FindVariable("RevPiLED")
	require.NoError(t, err)
	assert.Equal(t, uint16(119), info.Address)
	assert.Equal(t, uint16(8), info.Length)
}

func TestFindVariableNotFound(t *testing.T) {
	img := mock.NewImage(64)
	drv := newTestDriver(t, img)
	require.True(t, drv.Open())

	_, err := drv.FindVariable("NoSuchVar")
	assert.ErrorIs(t, err, picontrol.ErrVariableNotFound)
}

func TestFindVariableValidatesName(t *testing.T) {
	img := mock.NewImage(64)
	drv := newTestDriver(t, img)
	require.True(t, drv.Open())

	_, err := drv.FindVariable("")
	assert.Error(t, err)

	_, err = drv.FindVariable("this-name-is-far-too-long-for-the-32-byte-field")
	assert.Error(t, err)
	assert.Zero(t, img.Ioctls)
}

func TestFindVariableOnClosedHandle(t *testing.T) {
	img := mock.NewImage(64)
	drv := newTestDriver(t, img)

	_, err := drv.FindVariable("RevPiLED")
	assert.ErrorIs(t, err, picontrol.ErrNotOpen)
}
