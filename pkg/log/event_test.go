package log

import (
	"testing"
	"time"
)

func TestEventRoundTrip(t *testing.T) {
	offset := int64(119)
	length := 2
	errno := 5

	tests := []struct {
		name  string
		event Event
	}{
		{
			name: "read event",
			event: Event{
				Timestamp: time.Now().UTC(),
				HandleID:  "7c2e7a6e-1111-2222-3333-444455556666",
				Op:        OpRead,
				Device:    "/dev/piControl0",
				Offset:    &offset,
				Length:    &length,
			},
		},
		{
			name: "error event",
			event: Event{
				Timestamp: time.Now().UTC(),
				Op:        OpSetBit,
				Error: &ErrorEventData{
					Message: "control request failed",
					Errno:   &errno,
				},
			},
		},
		{
			name: "lookup event",
			event: Event{
				Timestamp: time.Now().UTC(),
				Op:        OpFindVariable,
				Name:      "RevPiLED",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := EncodeEvent(tt.event)
			if err != nil {
				t.Fatalf("EncodeEvent failed: %v", err)
			}

			decoded, err := DecodeEvent(data)
			if err != nil {
				t.Fatalf("DecodeEvent failed: %v", err)
			}

			if decoded.Op != tt.event.Op {
				t.Errorf("Op mismatch: got %v, want %v", decoded.Op, tt.event.Op)
			}
			if decoded.HandleID != tt.event.HandleID {
				t.Errorf("HandleID mismatch: got %q, want %q", decoded.HandleID, tt.event.HandleID)
			}
			if decoded.Name != tt.event.Name {
				t.Errorf("Name mismatch: got %q, want %q", decoded.Name, tt.event.Name)
			}
			if (decoded.Error == nil) != (tt.event.Error == nil) {
				t.Fatalf("Error presence mismatch")
			}
			if tt.event.Error != nil && decoded.Error.Message != tt.event.Error.Message {
				t.Errorf("Error message mismatch: got %q", decoded.Error.Message)
			}
			if tt.event.Offset != nil && (decoded.Offset == nil || *decoded.Offset != *tt.event.Offset) {
				t.Errorf("Offset mismatch: got %v", decoded.Offset)
			}
		})
	}
}

func TestOpString(t *testing.T) {
	ops := map[Op]string{
		OpOpen:         "OPEN",
		OpClose:        "CLOSE",
		OpReset:        "RESET",
		OpRead:         "READ",
		OpWrite:        "WRITE",
		OpGetBit:       "GET_BIT",
		OpSetBit:       "SET_BIT",
		OpFindVariable: "FIND_VARIABLE",
		Op(200):        "UNKNOWN",
	}
	for op, want := range ops {
		if op.String() != want {
			t.Errorf("Op(%d).String() = %q, want %q", op, op.String(), want)
		}
	}
}
