// Package tfm reads the classical binary font-metric format spec.md §6
// describes: big-endian 16-bit counts, a fixed 18-word header, a
// char-info table, fixnum dimension tables, a lig/kern program, and
// extensible-character recipes. It implements font.Metrics directly, at
// the font's own design size; font.NewScaled rescales it to a requested
// size.
//
// Grounded on original_source/src/tfm/{mod,read_tfm,accessors,file_reader}.rs,
// read field-for-field against the same byte layout.
package tfm

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/go-typeset/typeset/dimen"
)

// ErrMalformed is wrapped into every error this package returns for a
// structurally invalid TFM file (wrong header length, length-field
// mismatch, short read).
var ErrMalformed = errors.New("tfm: malformed font metric file")

// charInfo is one char-info-table entry (spec.md §6's "one 32-bit
// record per character").
type charInfo struct {
	widthIdx, heightIdx, depthIdx, italicIdx uint8
	tag, remainder                           uint8
}

// Font is a fully-read TFM file: every table decoded, dimensions still
// expressed in the fix_word units read_tfm.rs works in (a design-size
// multiple, not yet an absolute Dimen) until Width/Height/Depth/Param
// convert them.
type Font struct {
	firstChar, lastChar int

	checksum   uint32
	designSize dimen.Dimen // design size as a Dimen, e.g. "10pt"

	charInfos []charInfo
	widths    []float64
	heights   []float64
	depths    []float64
	italics   []float64
	kerns     []float64
	params    []float64
}

// reader wraps an io.Reader with the fixed-width big-endian and
// fix_word accessors read_tfm.rs's TeXFileReader provides.
type reader struct {
	r   io.Reader
	err error
}

func (tr *reader) read(buf []byte) {
	if tr.err != nil {
		return
	}
	_, tr.err = io.ReadFull(tr.r, buf)
}

func (tr *reader) u8() uint8 {
	var buf [1]byte
	tr.read(buf[:])
	return buf[0]
}

func (tr *reader) u16() uint16 {
	var buf [2]byte
	tr.read(buf[:])
	return binary.BigEndian.Uint16(buf[:])
}

func (tr *reader) u32() uint32 {
	var buf [4]byte
	tr.read(buf[:])
	return binary.BigEndian.Uint32(buf[:])
}

// fixword reads a 12.20 signed fixed-point quantity, spec.md §6's
// "fixnums are signed 32-bit with 12-bit integer and 20-bit fraction
// parts", and mirrors TeXFileReader::read_fixnum's sign-magnitude decode
// (two's-complement negate, then split int/frac bits).
func (tr *reader) fixword() float64 {
	const (
		signMask = 1 << 31
		intMask  = 0x7FF00000
		fracMask = 0x000FFFFF
	)
	raw := tr.u32()
	sign := 1.0
	if raw&signMask != 0 {
		raw = ^raw + 1
		sign = -1.0
	}
	intPart := float64((raw & intMask) >> 20)
	fracPart := float64(raw&fracMask) / float64(1<<20)
	return sign * (intPart + fracPart)
}

func (tr *reader) skip(n int) {
	if n <= 0 {
		return
	}
	buf := make([]byte, n)
	tr.read(buf)
}

// Read parses a TFM file from r, per the byte layout in spec.md §6.
func Read(r io.Reader) (*Font, error) {
	tr := &reader{r: r}

	lf := tr.u16()
	lh := tr.u16()
	bc := tr.u16()
	ec := tr.u16()
	nw := tr.u16()
	nh := tr.u16()
	nd := tr.u16()
	ni := tr.u16()
	nl := tr.u16()
	nk := tr.u16()
	ne := tr.u16()
	np := tr.u16()
	if tr.err != nil {
		return nil, fmt.Errorf("tfm: reading preamble: %w", tr.err)
	}

	if lh != 18 {
		return nil, fmt.Errorf("tfm: header length %d, want 18: %w", lh, ErrMalformed)
	}
	numChars := uint16(0)
	if ec >= bc {
		numChars = ec - bc + 1
	}
	wantLF := 6 + uint32(lh) + uint32(numChars) + uint32(nw) + uint32(nh) +
		uint32(nd) + uint32(ni) + uint32(nl) + uint32(nk) + uint32(ne) + uint32(np)
	if uint32(lf) != wantLF {
		return nil, fmt.Errorf("tfm: file length %d, want %d: %w", lf, wantLF, ErrMalformed)
	}

	checksum := tr.u32()
	designSizePts := tr.fixword()
	tr.skip(40) // coding scheme
	tr.skip(20) // font identifier
	tr.skip(2)  // seven-bit-safe flag + unused byte
	tr.skip(2)  // unused + face byte

	charInfos := make([]charInfo, numChars)
	for i := range charInfos {
		widthIdx := tr.u8()
		hd := tr.u8()
		icTag := tr.u8()
		remainder := tr.u8()
		charInfos[i] = charInfo{
			widthIdx:  widthIdx,
			heightIdx: hd >> 4,
			depthIdx:  hd & 0x0F,
			italicIdx: icTag >> 2,
			tag:       icTag & 0x03,
			remainder: remainder,
		}
	}

	widths := readFixwords(tr, int(nw))
	heights := readFixwords(tr, int(nh))
	depths := readFixwords(tr, int(nd))
	italics := readFixwords(tr, int(ni))
	tr.skip(int(nl) * 4) // lig/kern program: skipped, not interpreted (Non-goal)
	kerns := readFixwords(tr, int(nk))
	tr.skip(int(ne) * 4) // extensible recipes: skipped, not interpreted (Non-goal)
	params := readFixwords(tr, int(np))

	if tr.err != nil {
		if errors.Is(tr.err, io.EOF) || errors.Is(tr.err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("tfm: truncated file: %w", ErrMalformed)
		}
		return nil, tr.err
	}

	designSize, err := dimen.FromUnit(designSizePts, dimen.Point)
	if err != nil {
		return nil, err
	}

	return &Font{
		firstChar:  int(bc),
		lastChar:   int(ec),
		checksum:   checksum,
		designSize: designSize,
		charInfos:  charInfos,
		widths:     widths,
		heights:    heights,
		depths:     depths,
		italics:    italics,
		kerns:      kerns,
		params:     params,
	}, nil
}

func readFixwords(tr *reader, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = tr.fixword()
	}
	return out
}

func (f *Font) charInfoFor(ch rune) (charInfo, bool) {
	idx := int(ch)
	if idx < f.firstChar || idx > f.lastChar {
		return charInfo{}, false
	}
	return f.charInfos[idx-f.firstChar], true
}

// scaledFromPoints converts a design-size multiple into an absolute
// Dimen, mirroring accessors.rs's "design_size * table[index]" rule.
func (f *Font) scaledFromPoints(factor float64) dimen.Dimen {
	d, err := dimen.FromUnit(f.designSize.ToUnit(dimen.Point)*factor, dimen.Point)
	if err != nil {
		return dimen.Zero()
	}
	return d
}

// DesignSize reports the font's own design size, e.g. 10pt for cmr10.
func (f *Font) DesignSize() dimen.Dimen { return f.designSize }

// Checksum reports the TFM checksum, compared against a DVI FntDef's
// checksum field to detect a mismatched font file.
func (f *Font) Checksum() uint32 { return f.checksum }

// Width reports ch's advance width at the font's design size. A
// character outside the font's char range reports zero, matching how a
// missing glyph contributes nothing to a line's measured width rather
// than aborting the whole layout.
func (f *Font) Width(ch rune) dimen.Dimen {
	ci, ok := f.charInfoFor(ch)
	if !ok || int(ci.widthIdx) >= len(f.widths) {
		return dimen.Zero()
	}
	return f.scaledFromPoints(f.widths[ci.widthIdx])
}

// Height reports ch's height above the baseline.
func (f *Font) Height(ch rune) dimen.Dimen {
	ci, ok := f.charInfoFor(ch)
	if !ok || int(ci.heightIdx) >= len(f.heights) {
		return dimen.Zero()
	}
	return f.scaledFromPoints(f.heights[ci.heightIdx])
}

// Depth reports ch's extent below the baseline.
func (f *Font) Depth(ch rune) dimen.Dimen {
	ci, ok := f.charInfoFor(ch)
	if !ok || int(ci.depthIdx) >= len(f.depths) {
		return dimen.Zero()
	}
	return f.scaledFromPoints(f.depths[ci.depthIdx])
}

// ItalicCorrection reports ch's italic correction, the extra space
// classical engines add after an italic letter before a following
// upright character or the end of a box.
func (f *Font) ItalicCorrection(ch rune) dimen.Dimen {
	ci, ok := f.charInfoFor(ch)
	if !ok || int(ci.italicIdx) >= len(f.italics) {
		return dimen.Zero()
	}
	return f.scaledFromPoints(f.italics[ci.italicIdx])
}

// Param reports the k'th classical font dimension parameter (1-indexed:
// slant, space, space-stretch, space-shrink, x-height, quad,
// extra-space), per spec.md §6's font_dimension(k).
func (f *Font) Param(k int) dimen.Dimen {
	if k < 1 || k > len(f.params) {
		return dimen.Zero()
	}
	return f.scaledFromPoints(f.params[k-1])
}
