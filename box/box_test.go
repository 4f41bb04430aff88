package box

import (
	"testing"

	"github.com/go-typeset/typeset/dimen"
)

func pt(n float64) dimen.Dimen {
	d, err := dimen.FromUnit(n, dimen.Point)
	if err != nil {
		panic(err)
	}
	return d
}

func TestSetGlueForDimenLimitsShrinkToNegativeOne(t *testing.T) {
	g := dimen.Glue{
		Space:   pt(10),
		Stretch: dimen.FiniteSpring(dimen.Zero()),
		Shrink:  dimen.FiniteSpring(pt(5)),
	}

	cases := []struct {
		target dimen.Dimen
		want   float64
	}{
		{pt(10), 0},
		{pt(6), -52429.0 / 65536.0}, // -4/5, rounded to 1/65536 granularity
		{pt(5), -1.0},
	}
	for _, c := range cases {
		ratio := dimen.SetGlueForDimen(c.target, g).ToGlueSetRatio()
		if got := ratio.Ratio(); got != c.want {
			t.Errorf("SetGlueForDimen(%v) ratio = %v, want %v", c.target, got, c.want)
		}
	}

	result := dimen.SetGlueForDimen(pt(4), g)
	if result.Kind != dimen.ResultInsufficientShrink {
		t.Fatalf("SetGlueForDimen(4pt) = %v, want ResultInsufficientShrink", result.Kind)
	}
	if ratio := result.ToGlueSetRatio().Ratio(); ratio != -1.0 {
		t.Errorf("coerced ratio = %v, want -1.0", ratio)
	}

	infinite := dimen.Glue{
		Space:   pt(10),
		Stretch: dimen.FiniteSpring(dimen.Zero()),
		Shrink:  dimen.FilSpring(dimen.FilDimen{Kind: dimen.Fil, Amt: 1.0}),
	}
	ratio := dimen.SetGlueForDimen(pt(4), infinite).ToGlueSetRatio()
	if ratio.Kind != dimen.KindFil || ratio.Ratio() != -6.0 {
		t.Errorf("infinite shrink ratio = %v/%v, want Fil/-6.0", ratio.Kind, ratio.Ratio())
	}
}

func TestSetGlueForDimenZeroSpring(t *testing.T) {
	fixed := dimen.Glue{Space: pt(10)}

	if result := dimen.SetGlueForDimen(pt(10), fixed); result.Kind != dimen.ResultOK {
		t.Errorf("exact match = %v, want ResultOK", result.Kind)
	}
	if result := dimen.SetGlueForDimen(pt(9), fixed); result.Kind != dimen.ResultZeroShrink {
		t.Errorf("need shrink, none available = %v, want ResultZeroShrink", result.Kind)
	}
	if result := dimen.SetGlueForDimen(pt(11), fixed); result.Kind != dimen.ResultZeroStretch {
		t.Errorf("need stretch, none available = %v, want ResultZeroStretch", result.Kind)
	}
}

type testMetrics struct{}

func (testMetrics) Width(r rune) dimen.Dimen  { return pt(10) }
func (testMetrics) Height(r rune) dimen.Dimen { return pt(7) }
func (testMetrics) Depth(r rune) dimen.Dimen  { return pt(2) }
func (testMetrics) DesignSize() dimen.Dimen   { return pt(10) }
func (testMetrics) Param(k int) dimen.Dimen   { return dimen.Zero() }

func TestNewHBoxNaturalSize(t *testing.T) {
	font := Font{Name: "cmr10", Scale: pt(10), Metrics: testMetrics{}}
	list := []HElem{
		NewCharElem('a', font),
		NewHSkipElem(dimen.FromDimen(pt(3))),
		NewCharElem('b', font),
	}

	hbox, err := NewHBox(list, NaturalLayout())
	if err != nil {
		t.Fatalf("NewHBox: %v", err)
	}
	if hbox.Height() != pt(7) {
		t.Errorf("Height = %v, want 7pt", hbox.Height())
	}
	if hbox.Depth() != pt(2) {
		t.Errorf("Depth = %v, want 2pt", hbox.Depth())
	}
	if hbox.Width() != pt(23) {
		t.Errorf("Width = %v, want 23pt", hbox.Width())
	}
	if hbox.GlueSetRatio != nil {
		t.Errorf("natural layout should need no glue set, got %v", hbox.GlueSetRatio)
	}
}

func TestNewHBoxFixedLayoutStretches(t *testing.T) {
	font := Font{Name: "cmr10", Scale: pt(10), Metrics: testMetrics{}}
	list := []HElem{
		NewCharElem('a', font),
		NewHSkipElem(dimen.Glue{Space: pt(3), Stretch: dimen.FiniteSpring(pt(3))}),
	}

	hbox, err := NewHBox(list, FixedLayout(pt(16)))
	if err != nil {
		t.Fatalf("NewHBox: %v", err)
	}
	if hbox.Width() != pt(16) {
		t.Errorf("Width = %v, want 16pt", hbox.Width())
	}
	if hbox.GlueSetRatio == nil {
		t.Fatal("expected a glue set ratio to be computed")
	}
	if ratio := hbox.GlueSetRatio.Ratio(); ratio != 1.0 {
		t.Errorf("ratio = %v, want 1.0", ratio)
	}
}

func TestNewVBoxStacksHeights(t *testing.T) {
	font := Font{Name: "cmr10", Scale: pt(10), Metrics: testMetrics{}}
	inner, err := NewHBox([]HElem{NewCharElem('a', font)}, NaturalLayout())
	if err != nil {
		t.Fatalf("NewHBox: %v", err)
	}

	vbox, err := NewVBox([]VElem{
		NewVBoxElem(inner, dimen.Zero()),
		NewVSkipElem(dimen.FromDimen(pt(2))),
		NewVBoxElem(inner, dimen.Zero()),
	}, NaturalLayout())
	if err != nil {
		t.Fatalf("NewVBox: %v", err)
	}

	want := pt(7 + 2 + 2 + 7)
	if vbox.Height() != want {
		t.Errorf("Height = %v, want %v", vbox.Height(), want)
	}
	if vbox.Depth() != pt(2) {
		t.Errorf("Depth = %v, want 2pt", vbox.Depth())
	}
	if vbox.Width() != pt(10) {
		t.Errorf("Width = %v, want 10pt", vbox.Width())
	}
}
