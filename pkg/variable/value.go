package variable

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Kind identifies the shape of a decoded value. The set is closed: every
// variable decodes to exactly one of these variants, resolved from the raw
// byte length at decode time.
type Kind uint8

const (
	// KindUnknown is the zero value; no valid decode produces it.
	KindUnknown Kind = iota

	// KindBit is a single bit, surfaced as 0 or 1.
	KindBit

	// KindByte is an 8-bit unsigned integer.
	KindByte

	// KindWord is a little-endian 16-bit unsigned integer.
	KindWord

	// KindDWord is a little-endian 24- or 32-bit unsigned integer.
	KindDWord

	// KindText is a fixed-length byte string, untrimmed.
	KindText
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindBit:
		return "BIT"
	case KindByte:
		return "BYTE"
	case KindWord:
		return "WORD"
	case KindDWord:
		return "DWORD"
	case KindText:
		return "TEXT"
	default:
		return "UNKNOWN"
	}
}

// ErrEmptyRaw indicates a decode was attempted on an empty byte sequence.
var ErrEmptyRaw = errors.New("variable: empty raw bytes")

// Value is a decoded variable: the raw bytes read from the process image
// plus the typed interpretation. Values are immutable once produced.
type Value struct {
	kind Kind
	raw  []byte
	num  uint32
	text string
}

// FromRaw converts raw process-image bytes into a typed value, classed by
// the raw length:
//
//	1 byte        -> KindByte, the byte as an 8-bit unsigned integer
//	2 bytes       -> KindWord, little-endian uint16
//	3 bytes       -> KindDWord, little-endian 24-bit value
//	4 bytes       -> KindDWord, little-endian uint32
//	anything else -> KindText, the bytes as-is (trimming is the caller's job)
//
// An empty sequence returns ErrEmptyRaw; a decode never fabricates a zero.
func FromRaw(raw []byte) (Value, error) {
	switch len(raw) {
	case 0:
		return Value{}, ErrEmptyRaw
	case 1:
		return Value{kind: KindByte, raw: raw, num: uint32(raw[0])}, nil
	case 2:
		return Value{kind: KindWord, raw: raw, num: uint32(binary.LittleEndian.Uint16(raw))}, nil
	case 3:
		// 24-bit little-endian. The composite formula stops at the bytes
		// actually read; there is no phantom fourth byte.
		num := uint32(raw[0]) | uint32(raw[1])<<8 | uint32(raw[2])<<16
		return Value{kind: KindDWord, raw: raw, num: num}, nil
	case 4:
		return Value{kind: KindDWord, raw: raw, num: binary.LittleEndian.Uint32(raw)}, nil
	default:
		return Value{kind: KindText, raw: raw, text: string(raw)}, nil
	}
}

// Bit builds the value of a single-bit variable. The raw surface is one
// byte holding 0 or 1, so the numeric accessor reports 0/1 like the other
// integer kinds and Bool derives from it.
func Bit(set bool) Value {
	var b uint8
	if set {
		b = 1
	}
	return Value{kind: KindBit, raw: []byte{b}, num: uint32(b)}
}

// Kind returns the value's variant.
func (v Value) Kind() Kind {
	return v.kind
}

// Raw returns the raw bytes the value was decoded from.
func (v Value) Raw() []byte {
	return v.raw
}

// Uint returns the numeric interpretation for the integer kinds and 0 for
// KindText.
func (v Value) Uint() uint32 {
	return v.num
}

// Bool reports whether the numeric interpretation is non-zero.
func (v Value) Bool() bool {
	return v.num != 0
}

// Text returns the textual interpretation for KindText and "" otherwise.
func (v Value) Text() string {
	return v.text
}

// String renders the value for display.
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return fmt.Sprintf("%s(%q)", v.kind, v.text)
	case KindUnknown:
		return "UNKNOWN"
	default:
		return fmt.Sprintf("%s(%d)", v.kind, v.num)
	}
}
