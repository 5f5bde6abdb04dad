package picontrol

import (
	"testing"
	"unsafe"
)

func TestControlRequestCodes(t *testing.T) {
	// _IO('K', nr) with no size/direction bits: 'K' (0x4B) in the type
	// byte, the request number in the low byte.
	tests := []struct {
		name string
		req  uintptr
		want uintptr
	}{
		{"reset", KBReset, 0x4B0C},
		{"get value", KBGetValue, 0x4B0F},
		{"set value", KBSetValue, 0x4B10},
		{"find variable", KBFindVariable, 0x4B11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.req != tt.want {
				t.Errorf("request code = %#x, want %#x", tt.req, tt.want)
			}
		})
	}
}

func TestSPIValueLayout(t *testing.T) {
	// The struct crosses the ioctl boundary; the driver expects exactly
	// u16 address, u8 bit, u8 value with no padding.
	var v SPIValue
	if got := unsafe.Sizeof(v); got != 4 {
		t.Errorf("SPIValue size = %d, want 4", got)
	}
	if got := unsafe.Offsetof(v.Address); got != 0 {
		t.Errorf("Address offset = %d, want 0", got)
	}
	if got := unsafe.Offsetof(v.Bit); got != 2 {
		t.Errorf("Bit offset = %d, want 2", got)
	}
	if got := unsafe.Offsetof(v.Value); got != 3 {
		t.Errorf("Value offset = %d, want 3", got)
	}
}

func TestSPIVariableLayout(t *testing.T) {
	var v SPIVariable
	if got := unsafe.Offsetof(v.Name); got != 0 {
		t.Errorf("Name offset = %d, want 0", got)
	}
	if got := unsafe.Offsetof(v.Address); got != 32 {
		t.Errorf("Address offset = %d, want 32", got)
	}
	if got := unsafe.Offsetof(v.Bit); got != 34 {
		t.Errorf("Bit offset = %d, want 34", got)
	}
	if got := unsafe.Offsetof(v.Length); got != 36 {
		t.Errorf("Length offset = %d, want 36", got)
	}
}
