// Package font defines the font-metric oracle the box, line-breaking,
// and math-list layers consult (spec.md §6's "font metric oracle"), and
// the scaling wrapper that turns a design-size-relative metrics source
// into one reporting dimensions for a particular requested size.
//
// Grounded on original_source/src/font.rs (the Font{font_name,scale}
// value) and font_metrics.rs (FontMetrics's scale_dimen).
package font

import "github.com/go-typeset/typeset/dimen"

// Resolver maps a font name (without extension) to the path of its
// metric file on disk: the "paths/environment" external collaborator
// spec.md §6 describes as "a font-name → file-path lookup callback
// (implementation-defined; a typical binding is a TeX-path search
// library)".
type Resolver interface {
	Resolve(name string) (string, error)
}

// Metrics is a font-metric oracle already scaled to one font instance:
// on request it answers a glyph's width/height/depth and the seven
// classical font dimension parameters (slant, space, space-stretch,
// space-shrink, x-height, quad, extra-space, numbered 1..7 as spec.md
// §6 and §"Supplemented features" describe).
type Metrics interface {
	DesignSize() dimen.Dimen
	Checksum() uint32
	Width(ch rune) dimen.Dimen
	Height(ch rune) dimen.Dimen
	Depth(ch rune) dimen.Dimen
	Param(k int) dimen.Dimen
}

// Raw is the unscaled metrics a font file describes at its own design
// size (e.g. a freshly-read font/tfm.Font): every dimension it reports
// is already expressed as an absolute Dimen at DesignSize, the same
// contract Metrics has, which is why Raw satisfies Metrics directly —
// Scaled exists to re-derive those same numbers at a different size.
type Raw = Metrics

// Scaled wraps a Raw metrics source read at its own design size and
// reports every dimension proportionally rescaled to a different
// requested size, mirroring font_metrics.rs's FontMetrics.scale_dimen:
// actual = raw * (scale / design_size), computed in scaled points with
// a single 64-bit intermediate; the result is converted to a Dimen
// without a range check.
type Scaled struct {
	raw   Raw
	scale dimen.Dimen
}

// NewScaled builds a Metrics reporting raw's dimensions rescaled from
// raw.DesignSize() to scale. If scale is zero, raw's own design size is
// used (the font is requested "at its natural size").
func NewScaled(raw Raw, scale dimen.Dimen) Scaled {
	if scale == 0 {
		scale = raw.DesignSize()
	}
	return Scaled{raw: raw, scale: scale}
}

func (s Scaled) scaleDimen(d dimen.Dimen) dimen.Dimen {
	design := int64(s.raw.DesignSize())
	if design == 0 {
		return d
	}
	return dimen.Dimen(int64(d) * int64(s.scale) / design)
}

func (s Scaled) DesignSize() dimen.Dimen { return s.raw.DesignSize() }
func (s Scaled) Checksum() uint32        { return s.raw.Checksum() }
func (s Scaled) Width(ch rune) dimen.Dimen  { return s.scaleDimen(s.raw.Width(ch)) }
func (s Scaled) Height(ch rune) dimen.Dimen { return s.scaleDimen(s.raw.Height(ch)) }
func (s Scaled) Depth(ch rune) dimen.Dimen  { return s.scaleDimen(s.raw.Depth(ch)) }
func (s Scaled) Param(k int) dimen.Dimen    { return s.scaleDimen(s.raw.Param(k)) }

// Scale reports the size Scaled was built to report dimensions at (its
// effective "at <dimen>" size), distinct from the wrapped Raw's own
// DesignSize.
func (s Scaled) Scale() dimen.Dimen { return s.scale }
