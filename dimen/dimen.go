// Package dimen implements fixed-point length arithmetic (scaled points),
// the three-order "infinite glue" model (fil/fill/filll), and the glue-set
// computation used to stretch or shrink a box to a target width.
package dimen

import (
	"errors"
	"fmt"
)

// ErrOverflow is returned (wrapped) when an arithmetic operation would push
// a Dimen outside the representable range.
var ErrOverflow = errors.New("dimen: overflow")

// dimenMax/dimenMin mirror the classical engine's 2^30-1 scaled-point range.
const (
	dimenMax = (1 << 30) - 1
	dimenMin = 1 - (1 << 30)
)

// Dimen is a length in scaled points (1pt = 65536sp).
type Dimen int32

// Zero is the zero length.
func Zero() Dimen { return Dimen(0) }

// Unit names a physical or logical unit a Dimen can be expressed in.
type Unit int

const (
	Point Unit = iota
	Pica
	Inch
	BigPoint
	Centimeter
	Millimeter
	DidotPoint
	Cicero
	ScaledPoint
)

// scale returns (num, den) such that num/den scaled points make up one Unit.
func scale(u Unit) (float64, float64) {
	switch u {
	case Point:
		return 65536.0, 1.0
	case Pica:
		return 12.0 * 65536.0, 1.0
	case Inch:
		return 65536.0 * 7227.0, 100.0
	case BigPoint:
		return 65536.0 * 7227.0, 72.0 * 100.0
	case Centimeter:
		return 65536.0 * 7227.0, 254.0
	case Millimeter:
		return 65536.0 * 7227.0, 2540.0
	case DidotPoint:
		return 65536.0 * 1238.0, 1157.0
	case Cicero:
		return 65536.0 * 1238.0 * 12.0, 1157.0
	case ScaledPoint:
		return 1.0, 1.0
	default:
		panic(fmt.Sprintf("dimen: invalid unit %d", u))
	}
}

func validate(sp int64) (Dimen, error) {
	if sp < dimenMin || sp > dimenMax {
		return 0, fmt.Errorf("dimen: %d scaled points: %w", sp, ErrOverflow)
	}
	return Dimen(sp), nil
}

// FromUnit converts num units of from into a Dimen, rounding toward zero the
// way the classical engine's integer truncation does.
func FromUnit(num float64, from Unit) (Dimen, error) {
	n, d := scale(from)
	return validate(int64(num * n / d))
}

// ToUnit converts d into a floating-point count of the given unit.
func (d Dimen) ToUnit(to Unit) float64 {
	n, d2 := scale(to)
	return float64(d) * d2 / n
}

// Add returns d+other, erroring on overflow.
func (d Dimen) Add(other Dimen) (Dimen, error) {
	return validate(int64(d) + int64(other))
}

// Sub returns d-other, erroring on overflow.
func (d Dimen) Sub(other Dimen) (Dimen, error) {
	return validate(int64(d) - int64(other))
}

// MulInt returns d*n, erroring on overflow.
func (d Dimen) MulInt(n int32) (Dimen, error) {
	return validate(int64(d) * int64(n))
}

// DivInt returns d/n (truncating), erroring on overflow or division by zero.
func (d Dimen) DivInt(n int32) (Dimen, error) {
	if n == 0 {
		return 0, fmt.Errorf("dimen: division by zero: %w", ErrOverflow)
	}
	return validate(int64(d) / int64(n))
}

// Neg returns -d.
func (d Dimen) Neg() Dimen { return -d }

// Cmp returns -1, 0, or 1 as d is less than, equal to, or greater than other.
func (d Dimen) Cmp(other Dimen) int {
	switch {
	case d < other:
		return -1
	case d > other:
		return 1
	default:
		return 0
	}
}

// FilKind distinguishes the three orders of infinite stretch/shrink.
type FilKind int

const (
	Fil FilKind = iota
	Fill
	Filll
)

func (k FilKind) String() string {
	switch k {
	case Fil:
		return "fil"
	case Fill:
		return "fill"
	case Filll:
		return "filll"
	default:
		return "fil?"
	}
}

// FilDimen is an infinite-order spring component: a magnitude at one of the
// three fil orders.
type FilDimen struct {
	Kind FilKind
	Amt  float64
}

// MulFloat scales the fil amount by f.
func (f FilDimen) MulFloat(x float64) FilDimen {
	return FilDimen{Kind: f.Kind, Amt: f.Amt * x}
}

// IsZero reports whether the fil magnitude is zero.
func (f FilDimen) IsZero() bool { return f.Amt == 0 }

// SpringDimen is either a finite Dimen or an infinite-order FilDimen; exactly
// one of the two is meaningful, selected by IsFil.
type SpringDimen struct {
	IsFil bool
	Dimen Dimen
	Fil   FilDimen
}

// FiniteSpring wraps a finite Dimen as a SpringDimen.
func FiniteSpring(d Dimen) SpringDimen { return SpringDimen{Dimen: d} }

// FilSpring wraps a FilDimen as a SpringDimen.
func FilSpring(f FilDimen) SpringDimen { return SpringDimen{IsFil: true, Fil: f} }

// Add sums two spring dimensions. Two finite dimensions add normally. If
// either side is an infinite-order fil dimension, the finite side is
// absorbed (contributes nothing) and, when both sides are fil dimensions,
// only the larger order survives: the smaller order's magnitude is
// discarded entirely, matching the classical engine's rule that a higher
// fil order always overrides a lower one.
func (s SpringDimen) Add(other SpringDimen) SpringDimen {
	if !s.IsFil && !other.IsFil {
		sum, err := s.Dimen.Add(other.Dimen)
		if err != nil {
			return s
		}
		return FiniteSpring(sum)
	}
	if s.IsFil && other.IsFil {
		switch {
		case s.Fil.Kind > other.Fil.Kind:
			return s
		case other.Fil.Kind > s.Fil.Kind:
			return other
		default:
			return FilSpring(FilDimen{Kind: s.Fil.Kind, Amt: s.Fil.Amt + other.Fil.Amt})
		}
	}
	if s.IsFil {
		return s
	}
	return other
}

// MulInt scales a spring dimension by an integer repeat count.
func (s SpringDimen) MulInt(n int32) SpringDimen {
	if s.IsFil {
		return FilSpring(s.Fil.MulFloat(float64(n)))
	}
	v, err := s.Dimen.MulInt(n)
	if err != nil {
		return s
	}
	return FiniteSpring(v)
}
