package main

import (
	"fmt"

	"github.com/go-typeset/typeset/box"
	"github.com/go-typeset/typeset/dimen"
	"github.com/go-typeset/typeset/dvi"
)

// checksummed is implemented by the font.Metrics backends (font.Scaled,
// font/tfm.Font, font/ttf.Font) even though box.Metrics itself does not
// require it; a font with no checksum (a test stand-in) ships as 0.
type checksummed interface {
	Checksum() uint32
}

// fontTable assigns DVI font numbers to the distinct (name, scale) pairs
// a page actually uses, in first-use order, mirroring how a real
// ship_out only emits a fnt_def the first time a font is selected.
type fontTable struct {
	nums  map[string]int32
	order []box.Font
	next  int32
}

func newFontTable() *fontTable { return &fontTable{nums: map[string]int32{}} }

func (ft *fontTable) key(f box.Font) string {
	return fmt.Sprintf("%s@%d", f.Name, f.Scale)
}

func (ft *fontTable) numberFor(f box.Font) int32 {
	k := ft.key(f)
	if n, ok := ft.nums[k]; ok {
		return n
	}
	n := ft.next
	ft.next++
	ft.nums[k] = n
	ft.order = append(ft.order, f)
	return n
}

// fntDefs returns a FntDef command for every font numberFor has assigned
// so far, in assignment order.
func (ft *fontTable) fntDefs() []dvi.Command {
	cmds := make([]dvi.Command, 0, len(ft.order))
	for i, f := range ft.order {
		var checksum uint32
		if c, ok := f.Metrics.(checksummed); ok {
			checksum = c.Checksum()
		}
		cmds = append(cmds, dvi.FntDefN(4, int32(i), checksum, int32(f.Scale), int32(f.Metrics.DesignSize()), "", f.Name))
	}
	return cmds
}

// shipper walks a page's box tree emitting the DVI placement commands
// for it, tracking only the font currently selected (movement is always
// expressed as an explicit Right/Down relative to the point ship_out
// last left the cursor, so no running (h,v) needs to be tracked here).
type shipper struct {
	fonts       *fontTable
	cmds        []dvi.Command
	currentFont int32
	fontSet     bool
}

func (s *shipper) selectFont(f box.Font) {
	n := s.fonts.numberFor(f)
	if s.fontSet && s.currentFont == n {
		return
	}
	s.cmds = append(s.cmds, dvi.FntNumN(n))
	s.currentFont = n
	s.fontSet = true
}

func (s *shipper) shipHBox(b *box.HBox) error {
	for _, elem := range b.List {
		switch elem.Kind {
		case box.HChar:
			s.selectFont(elem.Font)
			s.cmds = append(s.cmds, dvi.SetCharN(int32(elem.Char)))

		case box.HSkip:
			amount := elem.Skip.Space
			if b.GlueSetRatio != nil {
				amount = b.GlueSetRatio.ApplyToGlue(elem.Skip)
			}
			if amount != dimen.Zero() {
				s.cmds = append(s.cmds, dvi.RightN(4, int32(amount)))
			}

		case box.HBoxElem:
			nested, ok := elem.Box.(*box.HBox)
			if !ok {
				return fmt.Errorf("typeset: unsupported nested box in horizontal list: %T", elem.Box)
			}
			s.cmds = append(s.cmds, dvi.Push())
			if elem.Shift != dimen.Zero() {
				s.cmds = append(s.cmds, dvi.DownN(4, int32(elem.Shift.Neg())))
			}
			if err := s.shipHBox(nested); err != nil {
				return err
			}
			s.cmds = append(s.cmds, dvi.Pop())
			s.cmds = append(s.cmds, dvi.RightN(4, int32(nested.Width())))
		}
	}
	return nil
}

func (s *shipper) shipVBox(v *box.VBox) error {
	for _, elem := range v.List {
		switch elem.Kind {
		case box.VSkip:
			amount := elem.Skip.Space
			if v.GlueSetRatio != nil {
				amount = v.GlueSetRatio.ApplyToGlue(elem.Skip)
			}
			if amount != dimen.Zero() {
				s.cmds = append(s.cmds, dvi.DownN(4, int32(amount)))
			}

		case box.VBoxElem:
			s.cmds = append(s.cmds, dvi.DownN(4, int32(elem.Box.Height())))
			s.cmds = append(s.cmds, dvi.Push())
			if elem.Shift != dimen.Zero() {
				s.cmds = append(s.cmds, dvi.RightN(4, int32(elem.Shift)))
			}
			switch inner := elem.Box.(type) {
			case *box.HBox:
				if err := s.shipHBox(inner); err != nil {
					return err
				}
			case *box.VBox:
				if err := s.shipVBox(inner); err != nil {
					return err
				}
			default:
				return fmt.Errorf("typeset: unsupported box kind in vertical list: %T", elem.Box)
			}
			s.cmds = append(s.cmds, dvi.Pop())
			s.cmds = append(s.cmds, dvi.DownN(4, int32(elem.Box.Depth())))
		}
	}
	return nil
}

// shipOutPages converts each page's top-level VBox into one Bop..Eop
// span, returning the full command stream (font definitions, then one
// span per page) a Writer can hand to a .dvi file. Each Bop's counters
// (the classical \count0..\count9 page-identification values) carry the
// page's 1-based number in counter 0 and zero in the other nine.
func shipOutPages(pages []*box.VBox) ([]dvi.Command, error) {
	fonts := newFontTable()
	var spans [][]dvi.Command

	for _, page := range pages {
		s := &shipper{fonts: fonts}
		if err := s.shipVBox(page); err != nil {
			return nil, err
		}
		spans = append(spans, s.cmds)
	}

	var cmds []dvi.Command
	cmds = append(cmds, fonts.fntDefs()...)

	for i, span := range spans {
		var counters [10]int32
		counters[0] = int32(i + 1)
		// Every Bop's back-pointer is -1: this driver never needs to walk
		// pages backward, so it skips tracking each Bop's byte offset.
		cmds = append(cmds, dvi.NewBop(counters, -1))
		cmds = append(cmds, span...)
		cmds = append(cmds, dvi.Eop())
	}
	return cmds, nil
}
