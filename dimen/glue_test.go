package dimen

import "testing"

func pt(n float64) Dimen {
	d, err := FromUnit(n, Point)
	if err != nil {
		panic(err)
	}
	return d
}

// TestSetGlueForDimenInsufficientShrink is seed scenario 4 from spec.md §8:
// set_glue_for_dimen(10pt, glue{space=10pt, stretch=0, shrink=5pt}) at
// target 4pt yields InsufficientShrink, downgraded to a clamped -1.0 ratio.
func TestSetGlueForDimenInsufficientShrink(t *testing.T) {
	g := Glue{Space: pt(10), Shrink: FiniteSpring(pt(5))}
	result := SetGlueForDimen(pt(4), g)
	if result.Kind != ResultInsufficientShrink {
		t.Fatalf("Kind = %v, want ResultInsufficientShrink", result.Kind)
	}
	if result.Badness() != 10000 {
		t.Errorf("Badness() = %v, want 10000", result.Badness())
	}
	ratio := result.ToGlueSetRatio()
	if ratio.Kind != KindFinite || ratio.Ratio() != -1.0 {
		t.Errorf("downgraded ratio = %v/%v, want Finite/-1.0", ratio.Kind, ratio.Ratio())
	}
}

func TestSetGlueForDimenExactShrinkBoundary(t *testing.T) {
	g := Glue{Space: pt(10), Shrink: FiniteSpring(pt(5))}
	result := SetGlueForDimen(pt(5), g)
	if result.Kind != ResultOK {
		t.Fatalf("Kind = %v, want ResultOK at exactly -1.0", result.Kind)
	}
	if ratio := result.Ratio.Ratio(); ratio != -1.0 {
		t.Errorf("ratio = %v, want -1.0", ratio)
	}
}

func TestSetGlueForDimenZeroSprings(t *testing.T) {
	g := Glue{Space: pt(10)}
	if result := SetGlueForDimen(pt(12), g); result.Kind != ResultZeroStretch {
		t.Errorf("need stretch, none available: Kind = %v, want ResultZeroStretch", result.Kind)
	}
	if result := SetGlueForDimen(pt(8), g); result.Kind != ResultZeroShrink {
		t.Errorf("need shrink, none available: Kind = %v, want ResultZeroShrink", result.Kind)
	}
	if result := SetGlueForDimen(pt(10), g); result.Kind != ResultOK || result.Ratio.Ratio() != 0 {
		t.Errorf("exact match: result = %+v, want ResultOK/0", result)
	}
}

func TestSetGlueForDimenInfiniteStretch(t *testing.T) {
	g := Glue{
		Space:   pt(10),
		Stretch: FilSpring(FilDimen{Kind: Fill, Amt: 2}),
	}
	result := SetGlueForDimen(pt(14), g)
	if result.Kind != ResultOK || result.Ratio.Kind != KindFill {
		t.Fatalf("result = %+v, want ResultOK/KindFill", result)
	}
	if result.Badness() != 0 {
		t.Errorf("Badness() of an infinite-order ratio = %v, want 0", result.Badness())
	}
}

func TestBadnessCubicClamp(t *testing.T) {
	cases := []struct {
		ratio float64
		want  int64
	}{
		{0, 0},
		{0.5, 13},   // round(100 * 0.5^3) = round(12.5) = 13
		{1.0, 100},  // round(100 * 1^3)
		{-1.0, 100}, // magnitude only
		{10, 10000}, // clamps well before 100*1000
	}
	for _, c := range cases {
		r := NewGlueSetRatio(KindFinite, c.ratio)
		if got := r.Badness(); got != c.want {
			t.Errorf("Badness(%v) = %v, want %v", c.ratio, got, c.want)
		}
	}
}

func TestGlueAddComponentwise(t *testing.T) {
	a := Glue{Space: pt(5), Stretch: FiniteSpring(pt(2)), Shrink: FiniteSpring(pt(1))}
	b := Glue{Space: pt(3), Stretch: FiniteSpring(pt(4)), Shrink: FiniteSpring(pt(1))}
	sum := a.Add(b)
	if sum.Space != pt(8) {
		t.Errorf("Space = %v, want 8pt", sum.Space)
	}
	if sum.Stretch.Dimen != pt(6) {
		t.Errorf("Stretch = %v, want 6pt", sum.Stretch.Dimen)
	}
	if sum.Shrink.Dimen != pt(2) {
		t.Errorf("Shrink = %v, want 2pt", sum.Shrink.Dimen)
	}
}

func TestGlueAddMixedFilOrderStretchKeepsLargerOrder(t *testing.T) {
	a := Glue{Space: pt(5), Stretch: FilSpring(FilDimen{Kind: Fil, Amt: 1})}
	b := Glue{Space: pt(5), Stretch: FilSpring(FilDimen{Kind: Fill, Amt: 1})}
	sum := a.Add(b)
	if !sum.Stretch.IsFil || sum.Stretch.Fil.Kind != Fill {
		t.Errorf("Stretch = %+v, want fill order to dominate", sum.Stretch)
	}
}
