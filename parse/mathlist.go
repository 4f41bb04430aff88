package parse

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-typeset/typeset/box"
	"github.com/go-typeset/typeset/dimen"
	"github.com/go-typeset/typeset/mathcode"
	"github.com/go-typeset/typeset/mathlist"
	"github.com/go-typeset/typeset/token"
)

// ErrDoubleScript is returned when a superscript or subscript is given
// twice for the same atom (e.g. "x^2^3").
var ErrDoubleScript = errors.New("parse: double superscript or subscript")

// ErrActiveMathClass is returned when a character classified Active by
// its math code is used as a math-list nucleus; this engine has no
// math-mode character activation to resolve it against.
var ErrActiveMathClass = errors.New("parse: active math class has no nucleus")

// FontSource resolves a font name and requested size (zero meaning the
// font's design size) to the metrics a box
// needs to measure the characters set in it. fontcache.Cache implements
// this in the full pipeline.
type FontSource interface {
	Font(name string, scale dimen.Dimen) (box.Font, error)
}

var styleChangePrimitives = []struct {
	name  string
	style mathlist.MathStyle
}{
	{"displaystyle", mathlist.Display},
	{"textstyle", mathlist.Text},
	{"scriptstyle", mathlist.Script},
	{"scriptscriptstyle", mathlist.ScriptScript},
}

func (p *Parser) isStyleChangeHead() (bool, error) {
	for _, sc := range styleChangePrimitives {
		ok, err := p.peekIsPrimitive(sc.name)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func (p *Parser) parseStyleChange() (mathlist.MathStyle, error) {
	tok, err := p.LexExpandedToken()
	if err != nil {
		return 0, err
	}
	for _, sc := range styleChangePrimitives {
		if p.state.IsTokenEqualToCS(tok, sc.name) {
			return sc.style, nil
		}
	}
	return 0, fmt.Errorf("%v: invalid style change: %w", tok, ErrUnexpectedToken)
}

// isCharacterHead reports whether the next expanded token is a plain
// character (letter or other category), the simple case parse_math_symbol
// resolves through the character's own math code.
func (p *Parser) isCharacterHead() (bool, error) {
	tok, err := p.PeekExpandedToken()
	if err == io.EOF {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return tok.IsChar(token.Letter) || tok.IsChar(token.Other), nil
}

// isMathCharacterHead reports whether the next expanded token names a
// control sequence bound by \mathchardef.
func (p *Parser) isMathCharacterHead() (bool, error) {
	tok, err := p.PeekExpandedToken()
	if err == io.EOF {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	_, ok := p.state.GetMathChardef(tok)
	return ok, nil
}

func (p *Parser) isMathSymbolHead() (bool, error) {
	isChar, err := p.isCharacterHead()
	if err != nil || isChar {
		return isChar, err
	}
	return p.isMathCharacterHead()
}

// parseMathSymbol reads one math symbol head, returning its math code.
func (p *Parser) parseMathSymbol() (mathcode.MathCode, error) {
	isChar, err := p.isCharacterHead()
	if err != nil {
		return mathcode.MathCode{}, err
	}
	if isChar {
		tok, err := p.LexExpandedToken()
		if err != nil {
			return mathcode.MathCode{}, err
		}
		return p.state.GetMathCode(tok.Char), nil
	}

	tok, err := p.LexExpandedToken()
	if err != nil {
		return mathcode.MathCode{}, err
	}
	mc, ok := p.state.GetMathChardef(tok)
	if !ok {
		return mathcode.MathCode{}, fmt.Errorf("%v: not a \\mathchardef'd control sequence: %w", tok, ErrUnexpectedToken)
	}
	return mc, nil
}

// parseMathGroup parses a braced {...} group as a nested math list,
// consuming both the opening and closing braces.
func (p *Parser) parseMathGroup() (mathlist.MathList, error) {
	tok, err := p.LexExpandedToken()
	if err != nil {
		return nil, err
	}
	if !tok.IsChar(token.BeginGroup) {
		return nil, fmt.Errorf("%v: expected start of math group: %w", tok, ErrUnexpectedToken)
	}

	p.state.PushGroup()
	list, err := p.ParseMathList()
	if err != nil {
		p.state.PopGroup()
		return nil, err
	}
	if err := p.state.PopGroup(); err != nil {
		return nil, err
	}

	tok, err = p.LexExpandedToken()
	if err != nil {
		return nil, err
	}
	if !tok.IsChar(token.EndGroup) {
		return nil, fmt.Errorf("%v: math group did not end with EndGroup: %w", tok, ErrUnexpectedToken)
	}
	return list, nil
}

// parseMathField parses a single nucleus/script field: a lone math
// symbol, or a braced group read as a nested math list.
func (p *Parser) parseMathField() (mathlist.MathField, error) {
	if err := p.parseOptionalSpacesExpanded(); err != nil {
		return mathlist.MathField{}, err
	}

	isSymbol, err := p.isMathSymbolHead()
	if err != nil {
		return mathlist.MathField{}, err
	}
	if isSymbol {
		mc, err := p.parseMathSymbol()
		if err != nil {
			return mathlist.MathField{}, err
		}
		return mathlist.SymbolField(mathlist.MathSymbol{Family: mc.Family, Position: mc.Position}), nil
	}

	list, err := p.parseMathGroup()
	if err != nil {
		return mathlist.MathField{}, err
	}
	return mathlist.ListField(list), nil
}

func atomKindFromMathClass(class mathcode.Class) (mathlist.AtomKind, error) {
	switch class {
	case mathcode.Ordinary, mathcode.VariableFamily:
		return mathlist.Ord, nil
	case mathcode.LargeOperator:
		return mathlist.Op, nil
	case mathcode.BinaryOperation:
		return mathlist.Bin, nil
	case mathcode.Relation:
		return mathlist.Rel, nil
	case mathcode.Opening:
		return mathlist.Open, nil
	case mathcode.Closing:
		return mathlist.Close, nil
	case mathcode.Punctuation:
		return mathlist.Punct, nil
	default:
		return 0, fmt.Errorf("%v: %w", class, ErrActiveMathClass)
	}
}

func atomFromMathCode(mc mathcode.MathCode) (mathlist.MathAtom, error) {
	kind, err := atomKindFromMathClass(mc.Class)
	if err != nil {
		return mathlist.MathAtom{}, err
	}
	symbol := mathlist.SymbolField(mathlist.MathSymbol{Family: mc.Family, Position: mc.Position})
	return mathlist.MathAtom{Kind: kind}.WithNucleus(symbol), nil
}

// ParseMathList parses a sequence of atoms and style changes, stopping
// (without consuming) at EndGroup, MathShift, or end of input; the
// caller consumes whatever terminator ended the list.
func (p *Parser) ParseMathList() (mathlist.MathList, error) {
	var list mathlist.MathList

	for {
		isSymbol, err := p.isMathSymbolHead()
		if err != nil {
			return nil, err
		}
		if isSymbol {
			mc, err := p.parseMathSymbol()
			if err != nil {
				return nil, err
			}
			atom, err := atomFromMathCode(mc)
			if err != nil {
				return nil, err
			}
			list = append(list, mathlist.AtomElem(atom))
			continue
		}

		isSuper, err := p.isSuperscriptHead()
		if err != nil {
			return nil, err
		}
		isSub := false
		if !isSuper {
			isSub, err = p.isSubscriptHead()
			if err != nil {
				return nil, err
			}
		}
		if isSuper || isSub {
			if _, err := p.LexExpandedToken(); err != nil {
				return nil, err
			}

			var atom mathlist.MathAtom
			if n := len(list); n > 0 && list[n-1].Kind == mathlist.ElemAtom {
				atom = list[n-1].Atom
				list = list[:n-1]
			} else {
				atom = mathlist.EmptyOrd()
			}

			field, err := p.parseMathField()
			if err != nil {
				return nil, err
			}
			if isSuper {
				if atom.HasSuperscript() {
					return nil, ErrDoubleScript
				}
				atom = atom.WithSuperscript(field)
			} else {
				if atom.HasSubscript() {
					return nil, ErrDoubleScript
				}
				atom = atom.WithSubscript(field)
			}
			list = append(list, mathlist.AtomElem(atom))
			continue
		}

		isAssignment, err := p.IsAssignmentHead()
		if err != nil {
			return nil, err
		}
		if isAssignment {
			if err := p.ParseAssignment(); err != nil {
				return nil, err
			}
			continue
		}

		isStyle, err := p.isStyleChangeHead()
		if err != nil {
			return nil, err
		}
		if isStyle {
			style, err := p.parseStyleChange()
			if err != nil {
				return nil, err
			}
			list = append(list, mathlist.StyleChangeElem(style))
			continue
		}

		tok, err := p.PeekExpandedToken()
		if err == io.EOF {
			return list, nil
		}
		if err != nil {
			return nil, err
		}
		switch {
		case tok.IsChar(token.BeginGroup):
			inner, err := p.parseMathGroup()
			if err != nil {
				return nil, err
			}
			list = append(list, mathlist.AtomElem(mathlist.MathAtom{Kind: mathlist.Ord}.WithNucleus(mathlist.ListField(inner))))
		case tok.IsChar(token.Space):
			if _, err := p.LexExpandedToken(); err != nil {
				return nil, err
			}
		case tok.IsChar(token.EndGroup), tok.IsChar(token.MathShift):
			return list, nil
		default:
			return nil, wrapUnexpected(tok)
		}
	}
}

func (p *Parser) isSuperscriptHead() (bool, error) {
	tok, err := p.PeekExpandedToken()
	if err == io.EOF {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return tok.IsChar(token.Superscript), nil
}

func (p *Parser) isSubscriptHead() (bool, error) {
	tok, err := p.PeekExpandedToken()
	if err == io.EOF {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return tok.IsChar(token.Subscript), nil
}

// mathFamilyFonts names the four classical math font families: roman,
// math-italic, math-symbols, and math-extension.
var mathFamilyFonts = [4][3]struct {
	name string
	size float64
}{
	{{"cmr10", 10}, {"cmr7", 7}, {"cmr5", 5}},
	{{"cmmi10", 10}, {"cmmi7", 7}, {"cmmi5", 5}},
	{{"cmsy10", 10}, {"cmsy7", 7}, {"cmsy5", 5}},
	{{"cmex10", 10}, {"cmex7", 7}, {"cmex5", 5}},
}

// sizeClass collapses a MathStyle to the three font sizes math fonts
// come in: text size (used for both display and text style), script
// size, and scriptscript size. A style's prime bit never affects font
// selection, only the up/down-arrow transition that picks the next
// style for nested scripts.
func sizeClass(style mathlist.MathStyle) int {
	switch style {
	case mathlist.Script, mathlist.ScriptPrime:
		return 1
	case mathlist.ScriptScript, mathlist.ScriptScriptPrime:
		return 2
	default:
		return 0
	}
}

func (p *Parser) mathFont(style mathlist.MathStyle, family uint8) (box.Font, error) {
	if int(family) >= len(mathFamilyFonts) {
		return box.Font{}, fmt.Errorf("mathlist: invalid math family %d", family)
	}
	if p.fonts == nil {
		return box.Font{}, fmt.Errorf("mathlist: no font source installed")
	}
	entry := mathFamilyFonts[family][sizeClass(style)]
	scale, err := dimen.FromUnit(entry.size, dimen.Point)
	if err != nil {
		return box.Font{}, err
	}
	return p.fonts.Font(entry.name, scale)
}

// scriptShift is the amount a superscript or subscript box is shifted
// away from the baseline relative to its nucleus: up by the nucleus's
// height for a superscript, down by the nucleus's depth for a
// subscript. The classical engine instead derives this from font
// parameters (sigma13/sigma16/sigma17); this is a deliberately simple
// stand-in, since nothing upstream of this function depends on an exact
// match.
func scriptShift(nucleusHeight, nucleusDepth dimen.Dimen, raise bool) dimen.Dimen {
	if raise {
		return nucleusHeight
	}
	return nucleusDepth.Neg()
}

// resolveFieldToBox converts a math field's nucleus-shaped content (symbol or
// nested list) into a box, recursing into nested lists at the given
// style.
func (p *Parser) resolveFieldToBox(field mathlist.MathField, style mathlist.MathStyle) (box.Box, error) {
	switch field.Kind {
	case mathlist.FieldTeXBox:
		return field.Box, nil
	case mathlist.FieldSymbol:
		font, err := p.mathFont(style, field.Symbol.Family)
		if err != nil {
			return nil, err
		}
		elem := box.NewCharElem(rune(field.Symbol.Position), font)
		return box.NewHBox([]box.HElem{elem}, box.NaturalLayout())
	case mathlist.FieldMathList:
		elems, err := p.ConvertMathListToHorizontalList(field.List, style)
		if err != nil {
			return nil, err
		}
		return box.NewHBox(elems, box.NaturalLayout())
	default:
		return nil, fmt.Errorf("mathlist: invalid math field kind %d", field.Kind)
	}
}

// fontStyleForNucleus collapses a style's prime bit away, the way the
// first conversion pass looks up a nucleus's font: display and text
// style both use the text-size math fonts.
func fontStyleForNucleus(style mathlist.MathStyle) mathlist.MathStyle {
	switch style {
	case mathlist.Display, mathlist.DisplayPrime, mathlist.Text, mathlist.TextPrime:
		return mathlist.Text
	case mathlist.Script, mathlist.ScriptPrime:
		return mathlist.Script
	default:
		return mathlist.ScriptScript
	}
}

// ConvertMathListToHorizontalList flattens a math list into the ordinary
// horizontal list box assembly and line breaking consume: first every
// nucleus (and, if present, script) is resolved to a box, then
// inter-atom glue is inserted between the resulting boxes per the
// classical spacing table.
func (p *Parser) ConvertMathListToHorizontalList(list mathlist.MathList, startStyle mathlist.MathStyle) ([]box.HElem, error) {
	type resolved struct {
		kind mathlist.AtomKind
		box  box.Box
	}

	var firstPass []resolved
	style := startStyle

	for _, elem := range list {
		switch elem.Kind {
		case mathlist.ElemStyleChange:
			style = elem.Style
		case mathlist.ElemAtom:
			atom := elem.Atom
			if atom.Nucleus == nil {
				firstPass = append(firstPass, resolved{kind: atom.Kind})
				continue
			}

			nucleusBox, err := p.resolveFieldToBox(*atom.Nucleus, fontStyleForNucleus(style))
			if err != nil {
				return nil, err
			}

			elems := []box.HElem{box.NewHBoxElem(nucleusBox, dimen.Zero())}
			if atom.HasSuperscript() {
				supBox, err := p.resolveFieldToBox(*atom.Superscript, style.UpArrow())
				if err != nil {
					return nil, err
				}
				shift := scriptShift(nucleusBox.Height(), nucleusBox.Depth(), true)
				elems = append(elems, box.NewHBoxElem(supBox, shift))
			}
			if atom.HasSubscript() {
				subBox, err := p.resolveFieldToBox(*atom.Subscript, style.DownArrow())
				if err != nil {
					return nil, err
				}
				shift := scriptShift(nucleusBox.Height(), nucleusBox.Depth(), false)
				elems = append(elems, box.NewHBoxElem(subBox, shift))
			}
			combined, err := box.NewHBox(elems, box.NaturalLayout())
			if err != nil {
				return nil, err
			}
			firstPass = append(firstPass, resolved{kind: atom.Kind, box: combined})
		}
	}

	var out []box.HElem
	var lastKind *mathlist.AtomKind
	style = startStyle
	for _, r := range firstPass {
		if lastKind != nil {
			if skip, ok := getSkipForAtomPair(*lastKind, r.kind, style); ok {
				out = append(out, box.NewHSkipElem(skip))
			}
		}
		if r.box != nil {
			out = append(out, box.NewHBoxElem(r.box, dimen.Zero()))
		}
		kind := r.kind
		lastKind = &kind
	}
	return out, nil
}

// interAtomSpacing is the Appendix-G-style spacing kind the classical
// engine looks up for a pair of adjacent atom kinds.
type interAtomSpacing int

const (
	spacingNone interAtomSpacing = iota
	spacingThin
	spacingThinNonScript
	spacingMediumNonScript
	spacingThickNonScript
)

// interAtomSpacingTable is keyed [left][right] over the eight AtomKind
// values; combinations that classical math never actually produces
// (consecutive binary operators, a binary operator after an opening
// delimiter's mirror image, etc.) are left at spacingNone rather than
// treated as an error, since reaching them reflects unusual but not
// invalid input to this engine.
var interAtomSpacingTable = [8][8]interAtomSpacing{
	mathlist.Ord: {
		mathlist.Ord: spacingNone, mathlist.Op: spacingThin, mathlist.Bin: spacingMediumNonScript,
		mathlist.Rel: spacingThickNonScript, mathlist.Open: spacingNone, mathlist.Close: spacingNone,
		mathlist.Punct: spacingNone, mathlist.Inner: spacingThinNonScript,
	},
	mathlist.Op: {
		mathlist.Ord: spacingThin, mathlist.Op: spacingThin, mathlist.Bin: spacingNone,
		mathlist.Rel: spacingThickNonScript, mathlist.Open: spacingNone, mathlist.Close: spacingNone,
		mathlist.Punct: spacingNone, mathlist.Inner: spacingThinNonScript,
	},
	mathlist.Bin: {
		mathlist.Ord: spacingMediumNonScript, mathlist.Op: spacingMediumNonScript, mathlist.Bin: spacingNone,
		mathlist.Rel: spacingNone, mathlist.Open: spacingMediumNonScript, mathlist.Close: spacingNone,
		mathlist.Punct: spacingNone, mathlist.Inner: spacingMediumNonScript,
	},
	mathlist.Rel: {
		mathlist.Ord: spacingThickNonScript, mathlist.Op: spacingThickNonScript, mathlist.Bin: spacingNone,
		mathlist.Rel: spacingNone, mathlist.Open: spacingThickNonScript, mathlist.Close: spacingNone,
		mathlist.Punct: spacingNone, mathlist.Inner: spacingThickNonScript,
	},
	mathlist.Open: {
		mathlist.Ord: spacingNone, mathlist.Op: spacingNone, mathlist.Bin: spacingNone,
		mathlist.Rel: spacingNone, mathlist.Open: spacingNone, mathlist.Close: spacingNone,
		mathlist.Punct: spacingNone, mathlist.Inner: spacingNone,
	},
	mathlist.Close: {
		mathlist.Ord: spacingNone, mathlist.Op: spacingThin, mathlist.Bin: spacingMediumNonScript,
		mathlist.Rel: spacingThickNonScript, mathlist.Open: spacingNone, mathlist.Close: spacingNone,
		mathlist.Punct: spacingNone, mathlist.Inner: spacingThinNonScript,
	},
	mathlist.Punct: {
		mathlist.Ord: spacingThinNonScript, mathlist.Op: spacingThinNonScript, mathlist.Bin: spacingNone,
		mathlist.Rel: spacingThinNonScript, mathlist.Open: spacingThinNonScript, mathlist.Close: spacingThinNonScript,
		mathlist.Punct: spacingThinNonScript, mathlist.Inner: spacingThinNonScript,
	},
	mathlist.Inner: {
		mathlist.Ord: spacingThinNonScript, mathlist.Op: spacingThin, mathlist.Bin: spacingMediumNonScript,
		mathlist.Rel: spacingThickNonScript, mathlist.Open: spacingThinNonScript, mathlist.Close: spacingNone,
		mathlist.Punct: spacingThinNonScript, mathlist.Inner: spacingThinNonScript,
	},
}

func mustPt(n float64) dimen.Dimen {
	d, err := dimen.FromUnit(n, dimen.Point)
	if err != nil {
		panic(err)
	}
	return d
}

var (
	thinSkip   = dimen.Glue{Space: mustPt(3)}
	mediumSkip = dimen.Glue{Space: mustPt(4), Stretch: dimen.FiniteSpring(mustPt(2)), Shrink: dimen.FiniteSpring(mustPt(4))}
	thickSkip  = dimen.Glue{Space: mustPt(5), Stretch: dimen.FiniteSpring(mustPt(5))}
)

// getSkipForAtomPair looks up the glue to insert between two adjacent
// resolved atoms, honoring style's NonScript suppression.
func getSkipForAtomPair(left, right mathlist.AtomKind, style mathlist.MathStyle) (dimen.Glue, bool) {
	switch interAtomSpacingTable[left][right] {
	case spacingThin:
		return thinSkip, true
	case spacingThinNonScript:
		return thinSkip, !style.IsScript()
	case spacingMediumNonScript:
		return mediumSkip, !style.IsScript()
	case spacingThickNonScript:
		return thickSkip, !style.IsScript()
	default:
		return dimen.Glue{}, false
	}
}
