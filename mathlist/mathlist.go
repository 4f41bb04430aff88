// Package mathlist defines the intermediate representation math-mode
// parsing builds before it is flattened into an ordinary horizontal list:
// atoms classified by math class, their nucleus/superscript/subscript
// fields, and the style changes that alter how nested material is sized.
//
// Grounded on original_source/src/math_list.rs.
package mathlist

import (
	"fmt"

	"github.com/go-typeset/typeset/box"
)

// AtomKind is the eight-way math classification the Appendix-G-style
// inter-atom spacing table is keyed on. It is derived from a character's
// math-code class (see mathcode.Class) or assigned explicitly when an
// atom is built from something other than a single symbol.
type AtomKind int

const (
	Ord AtomKind = iota
	Op
	Bin
	Rel
	Open
	Close
	Punct
	Inner
)

func (k AtomKind) String() string {
	names := [...]string{"Ord", "Op", "Bin", "Rel", "Open", "Close", "Punct", "Inner"}
	if k < 0 || int(k) >= len(names) {
		return fmt.Sprintf("AtomKind(%d)", int(k))
	}
	return names[k]
}

// MathSymbol is a resolved math character: a font family and a position
// (character code) within that family, the two pieces of a MathCode that
// survive once its class has been folded into the enclosing atom's kind.
type MathSymbol struct {
	Family   uint8
	Position uint8
}

// FieldKind discriminates the three shapes a MathField can take.
type FieldKind int

const (
	FieldSymbol FieldKind = iota
	FieldMathList
	FieldTeXBox
)

// MathField is one of a nucleus, superscript, or subscript: either a
// single resolved symbol, a nested math list (from a braced group), or a
// box built outside math mode and dropped in directly.
type MathField struct {
	Kind   FieldKind
	Symbol MathSymbol
	List   MathList
	Box    box.Box
}

// SymbolField builds a MathField around a single resolved character.
func SymbolField(sym MathSymbol) MathField {
	return MathField{Kind: FieldSymbol, Symbol: sym}
}

// ListField builds a MathField around a nested math list, e.g. the
// contents of a braced group used as a nucleus or script.
func ListField(list MathList) MathField {
	return MathField{Kind: FieldMathList, List: list}
}

// BoxField builds a MathField around a pre-built box.
func BoxField(b box.Box) MathField {
	return MathField{Kind: FieldTeXBox, Box: b}
}

// MathAtom is one atom of a math list: a classified nucleus plus the
// optional superscript and subscript bound to it. Nucleus is nil for an
// empty-Ord atom created solely to carry a script that had no preceding
// atom to bind to.
type MathAtom struct {
	Kind        AtomKind
	Nucleus     *MathField
	Superscript *MathField
	Subscript   *MathField
}

// EmptyOrd returns the placeholder atom a bare superscript or subscript
// binds to when nothing precedes it.
func EmptyOrd() MathAtom { return MathAtom{Kind: Ord} }

// WithNucleus returns a copy of a with its nucleus set to field.
func (a MathAtom) WithNucleus(field MathField) MathAtom {
	a.Nucleus = &field
	return a
}

// HasSuperscript reports whether a has a bound superscript field.
func (a MathAtom) HasSuperscript() bool { return a.Superscript != nil }

// HasSubscript reports whether a has a bound subscript field.
func (a MathAtom) HasSubscript() bool { return a.Subscript != nil }

// WithSuperscript returns a copy of a with its superscript bound to
// field.
func (a MathAtom) WithSuperscript(field MathField) MathAtom {
	a.Superscript = &field
	return a
}

// WithSubscript returns a copy of a with its subscript bound to field.
func (a MathAtom) WithSubscript(field MathField) MathAtom {
	a.Subscript = &field
	return a
}

// MathStyle is one of the eight classical math styles: display, text,
// script, and scriptscript, each either unprimed (the style a new group
// starts in) or primed (the same size class used for material that is
// itself already a sub/superscript, e.g. a denominator in display style).
type MathStyle int

const (
	Display MathStyle = iota
	DisplayPrime
	Text
	TextPrime
	Script
	ScriptPrime
	ScriptScript
	ScriptScriptPrime
)

func (s MathStyle) String() string {
	names := [...]string{
		"Display", "DisplayPrime", "Text", "TextPrime",
		"Script", "ScriptPrime", "ScriptScript", "ScriptScriptPrime",
	}
	if s < 0 || int(s) >= len(names) {
		return fmt.Sprintf("MathStyle(%d)", int(s))
	}
	return names[s]
}

// IsScript reports whether s is one of the two script-size styles, the
// styles in which the "NonScript" inter-atom skips are suppressed.
func (s MathStyle) IsScript() bool {
	switch s {
	case Script, ScriptPrime, ScriptScript, ScriptScriptPrime:
		return true
	default:
		return false
	}
}

// Prime returns s's primed counterpart (s itself, if already primed).
func (s MathStyle) Prime() MathStyle {
	switch s {
	case Display, DisplayPrime:
		return DisplayPrime
	case Text, TextPrime:
		return TextPrime
	case Script, ScriptPrime:
		return ScriptPrime
	default:
		return ScriptScriptPrime
	}
}

// UpArrow returns the style material in a superscript field is set in:
// one size class smaller, always unprimed.
func (s MathStyle) UpArrow() MathStyle {
	switch s {
	case Display, DisplayPrime, Text, TextPrime:
		return Script
	default:
		return ScriptScript
	}
}

// DownArrow returns the style material in a subscript field is set in:
// one size class smaller, and always primed (subscripted material is
// never set in a style's unprimed cramped-equivalent the way TeX's own
// math list distinguishes cramped/uncramped; this engine folds that
// distinction away).
func (s MathStyle) DownArrow() MathStyle {
	return s.UpArrow().Prime()
}

// ElemKind discriminates the two shapes a MathListElem can take.
type ElemKind int

const (
	ElemAtom ElemKind = iota
	ElemStyleChange
)

// MathListElem is one entry of a MathList: either an atom or a style
// change (\displaystyle, \textstyle, \scriptstyle, \scriptscriptstyle)
// that governs how subsequent atoms are sized.
type MathListElem struct {
	Kind  ElemKind
	Atom  MathAtom
	Style MathStyle
}

// AtomElem wraps an atom as a list element.
func AtomElem(atom MathAtom) MathListElem {
	return MathListElem{Kind: ElemAtom, Atom: atom}
}

// StyleChangeElem wraps a style change as a list element.
func StyleChangeElem(style MathStyle) MathListElem {
	return MathListElem{Kind: ElemStyleChange, Style: style}
}

// MathList is an ordered sequence of atoms and style changes, the
// intermediate form math-mode parsing produces before it is converted to
// an ordinary horizontal list.
type MathList []MathListElem
