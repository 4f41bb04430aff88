// Package ttf measures glyphs from an OpenType/TrueType font, for use
// as a font.Metrics backend when no TFM file is available for a name
// fontcache is asked to resolve. It is the glyph-shape half of the
// pattern font/latex.Collection used in the teacher repo (parse the
// embedded go-fonts bytes with opentype.Parse, keep one shared
// instance behind a sync.Once); here the parsed font is consulted for
// measurement rather than handed to a rasterizer.
//
// Grounded on the teacher's font/latex/latex.go (opentype.Parse usage,
// sync.Once-guarded shared instances) and on original_source/src/font_metrics.rs
// for which quantities a font.Metrics implementation must report.
package ttf

import (
	"fmt"
	"hash/crc32"
	"sync"

	stdfnt "golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/go-typeset/typeset/dimen"
)

// Font is a font.Metrics backend measuring glyphs from a parsed
// OpenType/TrueType font at a chosen design size. Unlike font/tfm.Font,
// which reads pre-computed metrics out of a TFM file, Font derives
// widths, heights, and depths directly from the glyph outlines, the way
// a DVI previewer without the original TFM falls back to the font file
// itself.
type Font struct {
	mu   sync.Mutex
	face *sfnt.Font
	buf  sfnt.Buffer

	checksum   uint32
	designSize dimen.Dimen
}

// Parse reads an embedded OpenType/TrueType font (as the go-fonts
// packages vendor them: a []byte) and returns a Font reporting metrics
// at designSize, mirroring addColl's opentype.Parse(ttf) call.
func Parse(raw []byte, designSize dimen.Dimen) (*Font, error) {
	face, err := opentype.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("ttf: parsing font: %w", err)
	}
	return &Font{
		face:       face,
		checksum:   crc32.ChecksumIEEE(raw),
		designSize: designSize,
	}, nil
}

// ppem converts Font's design size into the pixels-per-em unit the
// sfnt API measures in, treating one point as one pixel (the
// conventional 72dpi assumption a DVI-less previewer makes).
func (f *Font) ppem() fixed.Int26_6 {
	return fixed.Int26_6(f.designSize.ToUnit(dimen.Point) * 64)
}

func fixedToDimen(v fixed.Int26_6) dimen.Dimen {
	d, err := dimen.FromUnit(float64(v)/64.0, dimen.Point)
	if err != nil {
		return dimen.Zero()
	}
	return d
}

func (f *Font) glyphIndex(ch rune) (sfnt.GlyphIndex, bool) {
	gi, err := f.face.GlyphIndex(&f.buf, ch)
	if err != nil || gi == 0 {
		return 0, false
	}
	return gi, true
}

// DesignSize reports the size Font was parsed to measure at.
func (f *Font) DesignSize() dimen.Dimen { return f.designSize }

// Checksum reports a CRC32 of the font's raw bytes, standing in for a
// TFM checksum when this backend serves a DVI writer's FntDef record.
func (f *Font) Checksum() uint32 { return f.checksum }

// Width reports ch's advance width.
func (f *Font) Width(ch rune) dimen.Dimen {
	f.mu.Lock()
	defer f.mu.Unlock()

	gi, ok := f.glyphIndex(ch)
	if !ok {
		return dimen.Zero()
	}
	adv, err := f.face.GlyphAdvance(&f.buf, gi, f.ppem(), stdfnt.HintingNone)
	if err != nil {
		return dimen.Zero()
	}
	return fixedToDimen(adv)
}

func (f *Font) bounds(ch rune) (fixed.Rectangle26_6, bool) {
	gi, ok := f.glyphIndex(ch)
	if !ok {
		return fixed.Rectangle26_6{}, false
	}
	b, _, err := f.face.GlyphBounds(&f.buf, gi, f.ppem(), stdfnt.HintingNone)
	if err != nil {
		return fixed.Rectangle26_6{}, false
	}
	return b, true
}

// Height reports ch's extent above the baseline. sfnt's y axis grows
// downward, so a glyph's top (Min.Y) is negative; Height negates it.
func (f *Font) Height(ch rune) dimen.Dimen {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bounds(ch)
	if !ok || b.Min.Y > 0 {
		return dimen.Zero()
	}
	return fixedToDimen(-b.Min.Y)
}

// Depth reports ch's extent below the baseline.
func (f *Font) Depth(ch rune) dimen.Dimen {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, ok := f.bounds(ch)
	if !ok || b.Max.Y < 0 {
		return dimen.Zero()
	}
	return fixedToDimen(b.Max.Y)
}

// Param reports the k'th classical font dimension parameter (spec.md
// §6's numbering: 1=slant, 2=space, 3=space stretch, 4=space shrink,
// 5=x-height, 6=quad, 7=extra space), derived from the font's own
// metrics rather than read from a table: the space glyph's own advance
// supplies Param(2), with stretch/shrink set to the classical cmr10
// ratios of it (1/2 and 1/3) since an OpenType file carries no
// equivalent of TeX's per-font stretch/shrink fields.
func (f *Font) Param(k int) dimen.Dimen {
	switch k {
	case 1: // slant
		return dimen.Zero()
	case 2: // space
		return f.Width(' ')
	case 3: // space stretch
		space := f.Width(' ')
		v, err := space.DivInt(2)
		if err != nil {
			return dimen.Zero()
		}
		return v
	case 4: // space shrink
		space := f.Width(' ')
		v, err := space.DivInt(3)
		if err != nil {
			return dimen.Zero()
		}
		return v
	case 5: // x-height
		f.mu.Lock()
		m, err := f.face.Metrics(&f.buf, f.ppem(), stdfnt.HintingNone)
		f.mu.Unlock()
		if err != nil {
			return dimen.Zero()
		}
		return fixedToDimen(m.XHeight)
	case 6: // quad (the font's em, one ppem at this design size)
		return f.designSize
	case 7: // extra space
		return dimen.Zero()
	default:
		return dimen.Zero()
	}
}
