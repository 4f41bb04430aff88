package box

import "github.com/go-typeset/typeset/dimen"

// VElemKind discriminates the concrete shape of a VElem.
type VElemKind int

const (
	VSkip VElemKind = iota
	VBoxElem
)

// VElem is one entry of a vertical list: interline glue, or a nested box
// shifted left or right by Shift (TeX's \moveleft/\moveright).
type VElem struct {
	Kind  VElemKind
	Skip  dimen.Glue
	Box   Box
	Shift dimen.Dimen
}

// NewVSkipElem builds an interline-glue element.
func NewVSkipElem(g dimen.Glue) VElem {
	return VElem{Kind: VSkip, Skip: g}
}

// NewVBoxElem wraps a nested box as a vertical-list element, shifted
// horizontally by shift.
func NewVBoxElem(b Box, shift dimen.Dimen) VElem {
	return VElem{Kind: VBoxElem, Box: b, Shift: shift}
}

// VBox is a vertical box: a column of boxes and interline glue, stacked
// top to bottom. Its width is the max width over its contents; its
// height/depth come from stacking member heights, depths, and the glue
// between them the way TeX's vpack does (the depth of the box is the
// depth of its last element when that is a box, and zero when the list
// ends in glue; every earlier depth folds into height).
type VBox struct {
	height       dimen.Dimen
	depth        dimen.Dimen
	width        dimen.Dimen
	List         []VElem
	GlueSetRatio *dimen.GlueSetRatio
}

// EmptyVBox returns a zero-size vertical box with an empty list.
func EmptyVBox() *VBox { return &VBox{} }

// NewVBox assembles list into a box under the given layout, applied to
// the accumulated interline glue that makes up the box's natural
// height.
func NewVBox(list []VElem, layout Layout) (*VBox, error) {
	var width dimen.Dimen
	var height dimen.Glue
	var depth dimen.Dimen

	for _, elem := range list {
		switch elem.Kind {
		case VSkip:
			height = height.Add(dimen.FromDimen(depth))
			height = height.Add(elem.Skip)
			depth = dimen.Zero()
		case VBoxElem:
			height = height.Add(dimen.FromDimen(depth))
			height = height.Add(dimen.FromDimen(elem.Box.Height()))
			depth = elem.Box.Depth()

			w, err := elem.Box.Width().Add(elem.Shift)
			if err != nil {
				w = elem.Box.Width()
			}
			if w.Cmp(width) > 0 {
				width = w
			}
		}
	}

	setHeight, ratio, err := setDimenAndRatio(height, layout)
	if err != nil {
		return nil, err
	}

	return &VBox{
		height:       setHeight,
		depth:        depth,
		width:        width,
		List:         list,
		GlueSetRatio: ratio,
	}, nil
}

func (b *VBox) Height() dimen.Dimen { return b.height }
func (b *VBox) Depth() dimen.Dimen  { return b.depth }
func (b *VBox) Width() dimen.Dimen  { return b.width }
