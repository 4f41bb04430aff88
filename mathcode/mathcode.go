// Package mathcode decodes the 15-bit packed \mathcode value the
// classical engine uses to classify a character for math typesetting
// into its class, family, and position.
//
// Grounded on original_source/src/math_code.rs.
package mathcode

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is returned by New when a packed value falls outside
// the classical 0..0x8000 range a \mathcode assignment can produce.
var ErrOutOfRange = errors.New("mathcode: value out of range 0..0x8000")

// Class is the math classification a character's math code carries.
type Class uint8

const (
	Ordinary Class = iota
	LargeOperator
	BinaryOperation
	Relation
	Opening
	Closing
	Punctuation
	VariableFamily
	Active
)

func (c Class) String() string {
	switch c {
	case Ordinary:
		return "Ordinary"
	case LargeOperator:
		return "LargeOperator"
	case BinaryOperation:
		return "BinaryOperation"
	case Relation:
		return "Relation"
	case Opening:
		return "Opening"
	case Closing:
		return "Closing"
	case Punctuation:
		return "Punctuation"
	case VariableFamily:
		return "VariableFamily"
	case Active:
		return "Active"
	default:
		return fmt.Sprintf("Class(%d)", uint8(c))
	}
}

// classFromNumber maps the 0-7 class nibble to its named Class.
func classFromNumber(n uint8) (Class, error) {
	if n > 7 {
		return 0, fmt.Errorf("mathcode: invalid class %d", n)
	}
	return Class(n), nil
}

// MathCode is a decoded \mathcode: a class, a font family (0-15), and a
// character position within that family (the classical active-math-code
// sentinel 0x8000 decodes to {Active, 0, 0}).
type MathCode struct {
	Class    Class
	Family   uint8
	Position uint8
}

// activeSentinel is the classical packed value meaning "this character
// is active in math mode", distinct from any (class, family, position)
// triple a 0..0x7FFF value could encode.
const activeSentinel = 0x8000

// New decodes a packed \mathcode value (0..0x8000), as read from a
// \mathcode assignment in source.
func New(n uint32) (MathCode, error) {
	if n > activeSentinel {
		return MathCode{}, fmt.Errorf("%d: %w", n, ErrOutOfRange)
	}
	if n == activeSentinel {
		return MathCode{Class: Active}, nil
	}
	class, err := classFromNumber(uint8(n / 0x1000))
	if err != nil {
		return MathCode{}, err
	}
	return MathCode{
		Class:    class,
		Family:   uint8((n / 0x100) % 0x10),
		Position: uint8(n % 0x100),
	}, nil
}

// FromNumber decodes n the same way New does, panicking on an
// out-of-range value. It exists for the classical default tables
// (state.New's per-character seeding), where n is always a trusted
// compile-time constant, not user input.
func FromNumber(n uint32) MathCode {
	mc, err := New(n)
	if err != nil {
		panic(err)
	}
	return mc
}

// ToNumber re-packs a MathCode into its classical 15-bit representation.
func (mc MathCode) ToNumber() uint32 {
	if mc.Class == Active {
		return activeSentinel
	}
	return uint32(mc.Class)<<12 | uint32(mc.Family)<<8 | uint32(mc.Position)
}
