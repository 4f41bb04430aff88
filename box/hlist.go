package box

import "github.com/go-typeset/typeset/dimen"

// HElemKind discriminates the concrete shape of a HElem.
type HElemKind int

const (
	HChar HElemKind = iota
	HSkip
	HBoxElem
)

// HElem is one entry of a horizontal list: a single glyph set in a font,
// an interword glue, or a nested box (shifted up or down by Shift,
// matching TeX's \raise/\lower semantics for boxes inside an hlist).
type HElem struct {
	Kind  HElemKind
	Char  rune
	Font  Font
	Skip  dimen.Glue
	Box   Box
	Shift dimen.Dimen
}

// NewCharElem builds a character box-list element.
func NewCharElem(ch rune, font Font) HElem {
	return HElem{Kind: HChar, Char: ch, Font: font}
}

// NewHSkipElem builds an interword-glue element.
func NewHSkipElem(g dimen.Glue) HElem {
	return HElem{Kind: HSkip, Skip: g}
}

// NewHBoxElem wraps a nested box as a horizontal-list element, shifted
// vertically by shift.
func NewHBoxElem(b Box, shift dimen.Dimen) HElem {
	return HElem{Kind: HBoxElem, Box: b, Shift: shift}
}

// IsDiscardable reports whether e is glue: the kind of element a line
// break discards at the start of the next line.
func (e HElem) IsDiscardable() bool { return e.Kind == HSkip }

// Size exposes the (height, depth, width-as-glue) triple line breaking
// needs to measure a candidate line without depending on box internals.
func (e HElem) Size() (dimen.Dimen, dimen.Dimen, dimen.Glue) { return e.size() }

// size returns the (height, depth, width-as-glue) triple get_set_dimen_and_ratio's
// caller needs: height/depth feed the max across the list, width
// accumulates as glue since skips stretch and shrink.
func (e HElem) size() (dimen.Dimen, dimen.Dimen, dimen.Glue) {
	switch e.Kind {
	case HChar:
		return e.Font.Height(e.Char), e.Font.Depth(e.Char), dimen.FromDimen(e.Font.Width(e.Char))
	case HSkip:
		return dimen.Zero(), dimen.Zero(), e.Skip
	case HBoxElem:
		height, err := e.Box.Height().Add(e.Shift)
		if err != nil {
			height = e.Box.Height()
		}
		depth, err := e.Box.Depth().Sub(e.Shift)
		if err != nil {
			depth = e.Box.Depth()
		}
		return height, depth, dimen.FromDimen(e.Box.Width())
	default:
		return dimen.Zero(), dimen.Zero(), dimen.Glue{}
	}
}

// HBox is a horizontal box: a row of glyphs, skips, and nested boxes set
// to a common baseline.
type HBox struct {
	height       dimen.Dimen
	depth        dimen.Dimen
	width        dimen.Dimen
	List         []HElem
	GlueSetRatio *dimen.GlueSetRatio
}

// EmptyHBox returns a zero-size horizontal box with an empty list.
func EmptyHBox() *HBox { return &HBox{} }

// NewHBox assembles list into a box under the given layout: height/depth
// are the max over every element, width is resolved from the
// accumulated glue by Layout's rule (natural, fixed, or spread).
func NewHBox(list []HElem, layout Layout) (*HBox, error) {
	var height, depth dimen.Dimen
	var width dimen.Glue

	for _, elem := range list {
		h, d, w := elem.size()
		if h.Cmp(height) > 0 {
			height = h
		}
		if d.Cmp(depth) > 0 {
			depth = d
		}
		width = width.Add(w)
	}

	setWidth, ratio, err := setDimenAndRatio(width, layout)
	if err != nil {
		return nil, err
	}

	return &HBox{
		height:       height,
		depth:        depth,
		width:        setWidth,
		List:         list,
		GlueSetRatio: ratio,
	}, nil
}

func (b *HBox) Height() dimen.Dimen { return b.height }
func (b *HBox) Depth() dimen.Dimen  { return b.depth }
func (b *HBox) Width() dimen.Dimen  { return b.width }
