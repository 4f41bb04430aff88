package fontcache

import (
	"errors"
	"testing"

	"github.com/go-typeset/typeset/dimen"
)

func cachePt(n float64) dimen.Dimen {
	d, err := dimen.FromUnit(n, dimen.Point)
	if err != nil {
		panic(err)
	}
	return d
}

func TestFontFallsBackToBuiltinFace(t *testing.T) {
	c := New(nil)
	f, err := c.Font("cmr10", 0)
	if err != nil {
		t.Fatalf("Font: %v", err)
	}
	if f.Name != "cmr10" {
		t.Errorf("Name = %q, want cmr10", f.Name)
	}
	if f.Scale != cachePt(10) {
		t.Errorf("Scale = %v, want 10pt (the design size, scale 0 requested)", f.Scale)
	}
	if f.Width('a') == dimen.Zero() {
		t.Error("Width('a') = 0, want a positive advance from the built-in face")
	}
}

func TestFontScalesRelativeToDesignSize(t *testing.T) {
	c := New(nil)
	design, err := c.Font("cmr10", 0)
	if err != nil {
		t.Fatalf("Font: %v", err)
	}
	doubled, err := c.Font("cmr10", cachePt(20))
	if err != nil {
		t.Fatalf("Font: %v", err)
	}
	want := design.Width('a') * 2
	if got := doubled.Width('a'); got != want {
		t.Errorf("doubled Width('a') = %v, want %v", got, want)
	}
}

func TestFontCachesRawMetricsAcrossScales(t *testing.T) {
	c := New(nil)
	if _, err := c.Font("cmr10", 0); err != nil {
		t.Fatalf("Font: %v", err)
	}
	if len(c.raw) != 1 {
		t.Fatalf("len(c.raw) = %d, want 1 after one resolution", len(c.raw))
	}
	if _, err := c.Font("cmr10", cachePt(12)); err != nil {
		t.Fatalf("Font: %v", err)
	}
	if len(c.raw) != 1 {
		t.Errorf("len(c.raw) = %d, want still 1: a second scale of the same name must reuse the cached raw metrics", len(c.raw))
	}
}

func TestFontUnknownNameWithoutResolverErrors(t *testing.T) {
	c := New(nil)
	if _, err := c.Font("nosuchfont", 0); err == nil {
		t.Fatal("Font(\"nosuchfont\") should fail when no resolver and no built-in face matches")
	}
}

type stubResolver struct{}

func (stubResolver) Resolve(name string) (string, error) {
	return "", errors.New("stub: no TFM files on disk")
}

func TestFontFallsBackWhenResolverCannotFind(t *testing.T) {
	c := New(stubResolver{})
	f, err := c.Font("cmbx10", 0)
	if err != nil {
		t.Fatalf("Font: %v", err)
	}
	if f.Width('a') == dimen.Zero() {
		t.Error("Width('a') = 0, want the built-in fallback face to measure it")
	}
}
