package dimen

// Glue is a length with independent stretch and shrink components, the unit
// of interword spacing and of the spring material box assembly uses to
// absorb slack.
type Glue struct {
	Space   Dimen
	Stretch SpringDimen
	Shrink  SpringDimen
}

// FromDimen wraps a rigid Dimen as a Glue with no stretch or shrink.
func FromDimen(d Dimen) Glue {
	return Glue{Space: d}
}

// Add sums two glues component-wise.
func (g Glue) Add(other Glue) Glue {
	space, err := g.Space.Add(other.Space)
	if err != nil {
		space = g.Space
	}
	return Glue{
		Space:   space,
		Stretch: g.Stretch.Add(other.Stretch),
		Shrink:  g.Shrink.Add(other.Shrink),
	}
}

// Sub subtracts other from g.
func (g Glue) Sub(other Glue) Glue {
	return g.Add(Glue{
		Space:   other.Space.Neg(),
		Stretch: other.Stretch.MulInt(-1),
		Shrink:  other.Shrink.MulInt(-1),
	})
}

// GlueSetRatioKind says which order of glue a GlueSetRatio applies to: only
// springs of the matching order (or, for Finite, all finite springs) are
// scaled when the ratio is applied.
type GlueSetRatioKind int

const (
	KindFinite GlueSetRatioKind = iota
	KindFil
	KindFill
	KindFilll
)

func kindFromFilKind(k FilKind) GlueSetRatioKind {
	switch k {
	case Fil:
		return KindFil
	case Fill:
		return KindFill
	default:
		return KindFilll
	}
}

// GlueSetRatio is the per-box result of fitting glue to a target width: a
// stretch/shrink order plus a ratio, stored at 1/65536 granularity the same
// way Dimen stores scaled points.
type GlueSetRatio struct {
	Kind     GlueSetRatioKind
	stretch  int32 // ratio * 65536, rounded
}

// NewGlueSetRatio builds a ratio of the given kind from a floating-point
// stretch factor.
func NewGlueSetRatio(kind GlueSetRatioKind, ratio float64) GlueSetRatio {
	return GlueSetRatio{Kind: kind, stretch: int32(round(ratio * 65536.0))}
}

func round(f float64) float64 {
	if f < 0 {
		return -round(-f)
	}
	return float64(int64(f + 0.5))
}

// Ratio returns the floating-point stretch factor.
func (r GlueSetRatio) Ratio() float64 { return float64(r.stretch) / 65536.0 }

func (r GlueSetRatio) multiplySpring(s SpringDimen) Dimen {
	switch {
	case r.Kind == KindFinite && !s.IsFil:
		v, err := s.Dimen.MulInt(r.stretch)
		if err != nil {
			return 0
		}
		v, err = v.DivInt(65536)
		if err != nil {
			return 0
		}
		return v
	case r.Kind == KindFil && s.IsFil && s.Fil.Kind == Fil,
		r.Kind == KindFill && s.IsFil && s.Fil.Kind == Fill,
		r.Kind == KindFilll && s.IsFil && s.Fil.Kind == Filll:
		return Dimen(int64(s.Fil.Amt*65536) * int64(r.stretch) / 65536)
	default:
		return 0
	}
}

// ApplyToGlue returns the natural space of glue adjusted by this ratio: when
// the ratio is negative the shrink component is used, otherwise the stretch
// component is.
func (r GlueSetRatio) ApplyToGlue(glue Glue) Dimen {
	var adj Dimen
	if r.stretch < 0 {
		adj = r.multiplySpring(glue.Shrink)
	} else {
		adj = r.multiplySpring(glue.Stretch)
	}
	v, err := glue.Space.Add(adj)
	if err != nil {
		return glue.Space
	}
	return v
}

// Badness is TeX's classical cubic badness measure, clamped to 10000.
func (r GlueSetRatio) Badness() int64 {
	if r.Kind != KindFinite {
		return 0
	}
	x := r.Ratio()
	b := round(100.0 * abs(x*x*x))
	if b > 10000 {
		return 10000
	}
	return int64(b)
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// GlueSetResultKind distinguishes the degenerate outcomes of a glue-set
// computation (no stretch/shrink spring available, or not enough shrink to
// absorb a negative spread) from the ordinary finite/infinite-order result.
type GlueSetResultKind int

const (
	ResultOK GlueSetResultKind = iota
	ResultInsufficientShrink
	ResultZeroStretch
	ResultZeroShrink
)

// GlueSetResult is the closed-sum-type result of fitting a box's glue to a
// target size: either a degenerate outcome or a usable GlueSetRatio.
type GlueSetResult struct {
	Kind  GlueSetResultKind
	Ratio GlueSetRatio
}

// Badness mirrors GlueSetRatio.Badness, treating every degenerate outcome as
// maximally bad (10000), matching the classical engine.
func (r GlueSetResult) Badness() int64 {
	if r.Kind != ResultOK {
		return 10000
	}
	return r.Ratio.Badness()
}

// ToGlueSetRatio coerces a degenerate result into a usable ratio: -1 (full
// shrink) for insufficient shrink, 0 for the two zero-spring cases.
func (r GlueSetResult) ToGlueSetRatio() GlueSetRatio {
	switch r.Kind {
	case ResultInsufficientShrink:
		return NewGlueSetRatio(KindFinite, -1.0)
	case ResultZeroStretch, ResultZeroShrink:
		return NewGlueSetRatio(KindFinite, 0.0)
	default:
		return r.Ratio
	}
}

// setGlueForPositiveStretch computes the ratio needed to add stretchNeeded
// of length out of the given spring, whether finite or infinite-order.
func setGlueForPositiveStretch(stretchNeeded Dimen, available SpringDimen) GlueSetResult {
	if !available.IsFil {
		switch {
		case stretchNeeded == 0:
			return GlueSetResult{Kind: ResultOK, Ratio: NewGlueSetRatio(KindFinite, 0.0)}
		case available.Dimen == 0:
			if stretchNeeded < 0 {
				return GlueSetResult{Kind: ResultZeroShrink}
			}
			return GlueSetResult{Kind: ResultZeroStretch}
		default:
			ratio := float64(stretchNeeded) / float64(available.Dimen)
			if ratio < -1.0 {
				return GlueSetResult{Kind: ResultInsufficientShrink}
			}
			return GlueSetResult{Kind: ResultOK, Ratio: NewGlueSetRatio(KindFinite, ratio)}
		}
	}

	kind := kindFromFilKind(available.Fil.Kind)
	if available.Fil.IsZero() {
		return GlueSetResult{Kind: ResultOK, Ratio: NewGlueSetRatio(kind, 0.0)}
	}
	ratio := float64(stretchNeeded) / (available.Fil.Amt * 65536.0)
	return GlueSetResult{Kind: ResultOK, Ratio: NewGlueSetRatio(kind, ratio)}
}

// SetGlueForSpread computes the glue-set ratio needed to grow (spread>0) or
// shrink (spread<0) a box by the given amount using glue's stretch/shrink
// springs respectively.
func SetGlueForSpread(spread Dimen, glue Glue) GlueSetResult {
	if spread > 0 {
		return setGlueForPositiveStretch(spread, glue.Stretch)
	}
	return setGlueForPositiveStretch(spread, glue.Shrink)
}

// SetGlueForDimen computes the glue-set ratio needed to make glue's natural
// size equal to target.
func SetGlueForDimen(target Dimen, glue Glue) GlueSetResult {
	spread, err := target.Sub(glue.Space)
	if err != nil {
		spread = 0
	}
	return SetGlueForSpread(spread, glue)
}
