package linebreak

import (
	"testing"

	"github.com/go-typeset/typeset/box"
	"github.com/go-typeset/typeset/dimen"
)

func pt(n float64) dimen.Dimen {
	d, err := dimen.FromUnit(n, dimen.Point)
	if err != nil {
		panic(err)
	}
	return d
}

type fixedBox struct {
	height, depth, width dimen.Dimen
}

func (b fixedBox) Height() dimen.Dimen { return b.height }
func (b fixedBox) Depth() dimen.Dimen  { return b.depth }
func (b fixedBox) Width() dimen.Dimen  { return b.width }

func boxElem(widthPt float64) box.HElem {
	return box.NewHBoxElem(fixedBox{width: pt(widthPt)}, dimen.Zero())
}

func stretchSkip(naturalPt, stretchPt float64) box.HElem {
	return box.NewHSkipElem(dimen.Glue{
		Space:   pt(naturalPt),
		Stretch: dimen.FiniteSpring(pt(stretchPt)),
	})
}

// Four 20pt boxes separated by glue that is natural 5pt and can stretch
// 5pt, broken to a 45pt line width. The only way to land every line
// exactly on 45pt is to break after the second box; every other
// breakpoint choice leaves some line either without any glue to
// stretch or wider than 45pt with no shrink, incurring maximum badness. This mirrors the classical fixture of
// fixed boxes plus stretch glue minimizing total demerits.
func TestBreakChoosesExactFittingBreakpoint(t *testing.T) {
	list := []box.HElem{
		boxElem(20), stretchSkip(5, 5),
		boxElem(20), stretchSkip(5, 5),
		boxElem(20), stretchSkip(5, 5),
		boxElem(20),
	}

	lines, err := Break(list, Params{HSize: pt(45)})
	if err != nil {
		t.Fatalf("Break: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	for i, line := range lines {
		if line.Width() != pt(45) {
			t.Errorf("line %d width = %v, want 45pt", i, line.Width())
		}
		if line.GlueSetRatio != nil {
			t.Errorf("line %d should need no glue set (exact fit), got %v", i, line.GlueSetRatio)
		}
	}
}

func TestBreakSingleLineFitsNaturally(t *testing.T) {
	list := []box.HElem{
		boxElem(10), stretchSkip(5, 5), boxElem(10),
	}
	lines, err := Break(list, Params{HSize: pt(25)})
	if err != nil {
		t.Fatalf("Break: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	if lines[0].Width() != pt(25) {
		t.Errorf("width = %v, want 25pt", lines[0].Width())
	}
}

func TestBreakListWithNoSkipsIsOneLine(t *testing.T) {
	list := []box.HElem{boxElem(10)}
	lines, err := Break(list, Params{HSize: pt(10)})
	if err != nil {
		t.Fatalf("Break: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	if lines[0].Width() != pt(10) {
		t.Errorf("width = %v, want 10pt", lines[0].Width())
	}
}
