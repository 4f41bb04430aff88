// Package box assembles horizontal and vertical lists into the sized,
// glue-set boxes the DVI writer ultimately lays to paper: HBox/VBox
// construction (hpack/vpack) and the natural/fixed/spread layout modes
// that drive a box's final dimension and its glue set ratio.
package box

import (
	"github.com/go-typeset/typeset/dimen"
)

// Metrics answers font-metric questions for a single glyph, scaled to a
// particular font instance. A fontcache.Font backs this in the full
// pipeline; tests can supply a trivial stand-in.
type Metrics interface {
	Width(r rune) dimen.Dimen
	Height(r rune) dimen.Dimen
	Depth(r rune) dimen.Dimen
	DesignSize() dimen.Dimen
	// Param returns the k'th classical font dimension parameter
	// (1=slant, 2=space, 3=space stretch, 4=space shrink, 5=x-height,
	// 6=quad, 7=extra space), scaled to this font instance.
	Param(k int) dimen.Dimen
}

// SpaceGlue builds the interword glue a font's own space/stretch/shrink
// parameters (font dimensions 2, 3, and 4) specify for f.
func SpaceGlue(f Font) dimen.Glue {
	return dimen.Glue{
		Space:   f.Param(2),
		Stretch: dimen.FiniteSpring(f.Param(3)),
		Shrink:  dimen.FiniteSpring(f.Param(4)),
	}
}

// Font names a font instance (the face plus its scaled size) carried by
// every character box element, mirroring how a DVI fnt_def references a
// font by name and scale rather than embedding metrics inline.
type Font struct {
	Name  string
	Scale dimen.Dimen
	Metrics
}

// Layout selects how HBox/VBox sets the stretchable dimension of the
// list it assembles: at its natural size, to an exact final size, or
// spread by a fixed amount beyond natural size.
type Layout struct {
	kind   layoutKind
	amount dimen.Dimen
}

type layoutKind int

const (
	layoutNatural layoutKind = iota
	layoutFixed
	layoutSpread
)

// NaturalLayout leaves a box at the natural size of its contents.
func NaturalLayout() Layout { return Layout{kind: layoutNatural} }

// FixedLayout sets a box to exactly final, computing a glue set ratio to
// stretch or shrink the natural size to match.
func FixedLayout(final dimen.Dimen) Layout { return Layout{kind: layoutFixed, amount: final} }

// SpreadLayout sets a box to its natural size plus spread.
func SpreadLayout(spread dimen.Dimen) Layout { return Layout{kind: layoutSpread, amount: spread} }

// setDimenAndRatio resolves a layout against the accumulated glue,
// returning the box's final dimension and, if any stretching/shrinking
// was needed, the ratio to apply to each glue element in the list.
func setDimenAndRatio(g dimen.Glue, layout Layout) (dimen.Dimen, *dimen.GlueSetRatio, error) {
	switch layout.kind {
	case layoutFixed:
		if layout.amount == g.Space {
			return layout.amount, nil, nil
		}
		ratio := dimen.SetGlueForDimen(layout.amount, g).ToGlueSetRatio()
		return layout.amount, &ratio, nil

	case layoutSpread:
		ratio := dimen.SetGlueForSpread(layout.amount, g).ToGlueSetRatio()
		final, err := g.Space.Add(layout.amount)
		if err != nil {
			return 0, nil, err
		}
		return final, &ratio, nil

	default: // layoutNatural
		return g.Space, nil, nil
	}
}

// Box is satisfied by HBox and VBox: the two concrete box shapes that
// can appear nested in either list direction.
type Box interface {
	Height() dimen.Dimen
	Depth() dimen.Dimen
	Width() dimen.Dimen
}
