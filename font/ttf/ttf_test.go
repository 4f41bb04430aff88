package ttf

import (
	"testing"

	"github.com/go-fonts/liberation/liberationmonoregular"

	"github.com/go-typeset/typeset/dimen"
)

func ttfPt(n float64) dimen.Dimen {
	d, err := dimen.FromUnit(n, dimen.Point)
	if err != nil {
		panic(err)
	}
	return d
}

func TestParseReportsDesignSizeAndChecksum(t *testing.T) {
	f, err := Parse(liberationmonoregular.TTF, ttfPt(10))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if f.DesignSize() != ttfPt(10) {
		t.Errorf("DesignSize() = %v, want 10pt", f.DesignSize())
	}
	if f.Checksum() == 0 {
		t.Error("Checksum() = 0, want a non-zero CRC32 of the font bytes")
	}
}

func TestParseMonospaceGlyphsShareWidth(t *testing.T) {
	f, err := Parse(liberationmonoregular.TTF, ttfPt(10))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	wa := f.Width('a')
	wm := f.Width('m')
	if wa == dimen.Zero() {
		t.Fatal("Width('a') = 0, want a positive advance")
	}
	if wa != wm {
		t.Errorf("Width('a') = %v, Width('m') = %v, want equal in a monospace face", wa, wm)
	}
}

func TestParseUnknownGlyphIsZero(t *testing.T) {
	f, err := Parse(liberationmonoregular.TTF, ttfPt(10))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := f.Width('☃'); got != dimen.Zero() {
		t.Errorf("Width(snowman) = %v, want 0 for a glyph this face lacks", got)
	}
}

func TestParamSpaceStretchAndShrinkAreFractionsOfSpace(t *testing.T) {
	f, err := Parse(liberationmonoregular.TTF, ttfPt(10))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	space := f.Param(2)
	if space == dimen.Zero() {
		t.Fatal("Param(2) (space) = 0, want a positive advance")
	}
	wantStretch, err := space.DivInt(2)
	if err != nil {
		t.Fatalf("DivInt: %v", err)
	}
	if got := f.Param(3); got != wantStretch {
		t.Errorf("Param(3) (space stretch) = %v, want %v", got, wantStretch)
	}
	wantShrink, err := space.DivInt(3)
	if err != nil {
		t.Fatalf("DivInt: %v", err)
	}
	if got := f.Param(4); got != wantShrink {
		t.Errorf("Param(4) (space shrink) = %v, want %v", got, wantShrink)
	}
	if got := f.Param(1); got != dimen.Zero() {
		t.Errorf("Param(1) (slant) = %v, want 0", got)
	}
}
