// Package state holds the scoped, mutable environment an expansion run
// threads through the lexer and parser: category codes, macro definitions,
// \let aliases, and numeric registers, all subject to TeX's group-local
// scoping (a value set inside a group reverts when the group closes unless
// the assignment was \global).
package state

import (
	"errors"
	"fmt"

	"github.com/go-typeset/typeset/dimen"
	"github.com/go-typeset/typeset/mathcode"
	"github.com/go-typeset/typeset/token"
)

// FontSelector names a font instance: a font file/family name plus the
// scaled size it is loaded at, the two pieces \font binds to a control
// sequence (\font\cs=name at 10pt) and that a later \cs invocation
// reselects as the current font.
type FontSelector struct {
	Name  string
	Scale dimen.Dimen
}

// ErrFrameUnderflow is returned by PopGroup when there is no group left to
// close.
var ErrFrameUnderflow = errors.New("state: no group to end")

// frame holds the values assigned within one nested group. A lookup walks
// frames from the top of the stack down to frame zero, which always exists
// and holds the classical default values.
type frame struct {
	catCodes     map[rune]token.Category
	macros       map[string]*Macro
	lets         map[string]token.Token
	counts       map[int]int32
	mathCodes    map[rune]mathcode.MathCode
	mathChardefs map[string]mathcode.MathCode
	fontIdents   map[string]FontSelector
	currentFont  *FontSelector
}

func newFrame() *frame {
	return &frame{
		catCodes:     map[rune]token.Category{},
		macros:       map[string]*Macro{},
		lets:         map[string]token.Token{},
		counts:       map[int]int32{},
		mathCodes:    map[rune]mathcode.MathCode{},
		mathChardefs: map[string]mathcode.MathCode{},
		fontIdents:   map[string]FontSelector{},
	}
}

// State is a stack of frames, with frame 0 seeded with the classical
// category-code defaults.
type State struct {
	frames []*frame
}

// New returns a State with only the bottom frame, seeded with the classical
// default category codes (letters, backslash, space, percent, braces, math
// shift, alignment tab, superscript/subscript, parameter, and end-of-line).
func New() *State {
	bottom := newFrame()
	for ch := rune('a'); ch <= 'z'; ch++ {
		bottom.catCodes[ch] = token.Letter
	}
	for ch := rune('A'); ch <= 'Z'; ch++ {
		bottom.catCodes[ch] = token.Letter
	}
	bottom.catCodes[0] = token.Ignored
	bottom.catCodes[0xff] = token.Invalid
	bottom.catCodes['\n'] = token.EndOfLine
	bottom.catCodes['\\'] = token.Escape
	bottom.catCodes['%'] = token.Comment
	bottom.catCodes[' '] = token.Space
	bottom.catCodes['{'] = token.BeginGroup
	bottom.catCodes['}'] = token.EndGroup
	bottom.catCodes['$'] = token.MathShift
	bottom.catCodes['&'] = token.AlignmentTab
	bottom.catCodes['#'] = token.Parameter
	bottom.catCodes['^'] = token.Superscript
	bottom.catCodes['_'] = token.Subscript
	bottom.catCodes[13] = 5 // CR, catcode 5 (EndOfLine)

	for ch := rune('0'); ch <= '9'; ch++ {
		bottom.mathCodes[ch] = mathcode.FromNumber(0x7000 + uint32(ch))
	}
	for ch := rune('a'); ch <= 'z'; ch++ {
		bottom.mathCodes[ch] = mathcode.FromNumber(0x7100 + uint32(ch))
	}
	for ch := rune('A'); ch <= 'Z'; ch++ {
		bottom.mathCodes[ch] = mathcode.FromNumber(0x7100 + uint32(ch))
	}

	return &State{frames: []*frame{bottom}}
}

// PushGroup opens a new nested group; values set without \global inside it
// revert when PopGroup closes it.
func (s *State) PushGroup() {
	s.frames = append(s.frames, newFrame())
}

// PopGroup closes the innermost group, discarding any non-global
// assignments made within it.
func (s *State) PopGroup() error {
	if len(s.frames) <= 1 {
		return ErrFrameUnderflow
	}
	s.frames = s.frames[:len(s.frames)-1]
	return nil
}

// Depth reports the current group nesting depth (0 at the outermost scope).
func (s *State) Depth() int { return len(s.frames) - 1 }

func (s *State) top() *frame { return s.frames[len(s.frames)-1] }
func (s *State) bottom() *frame { return s.frames[0] }

// CatCode returns the category code for ch, walking from the innermost
// frame outward; the bottom frame always has an entry or falls back to
// token.Other.
func (s *State) CatCode(ch rune) token.Category {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if cat, ok := s.frames[i].catCodes[ch]; ok {
			return cat
		}
	}
	return token.Other
}

// SetCatCode assigns ch's category code in the current group, or in the
// bottom frame (affecting all groups) if global is true.
func (s *State) SetCatCode(global bool, ch rune, cat token.Category) {
	if global {
		for _, f := range s.frames {
			delete(f.catCodes, ch)
		}
		s.bottom().catCodes[ch] = cat
		return
	}
	s.top().catCodes[ch] = cat
}

// resolveAlias follows \let aliases to the token a control sequence name
// ultimately refers to (itself, if never let to anything else).
func (s *State) resolveAlias(name string) string {
	seen := map[string]bool{}
	for {
		if seen[name] {
			return name
		}
		seen[name] = true
		target, ok := s.lookupLet(name)
		if !ok || !target.IsCS() {
			return name
		}
		name = target.ControlSequence
	}
}

func (s *State) lookupLet(name string) (token.Token, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if t, ok := s.frames[i].lets[name]; ok {
			return t, true
		}
	}
	return token.Token{}, false
}

// SetLet makes name an alias: subsequent lookups of \name follow target's
// definition (mirroring \let's classical "copy the current meaning"
// semantics at the control-sequence-name level, which suffices for the
// primitives and macros this engine defines).
func (s *State) SetLet(global bool, name string, target token.Token) {
	if global {
		for _, f := range s.frames {
			delete(f.lets, name)
		}
		s.bottom().lets[name] = target
		return
	}
	s.top().lets[name] = target
}

// IsTokenEqualToCS reports whether tok names the control sequence name
// (after following any \let aliasing), matching the classical engine's
// "is this token secretly \fi/\else/..." checks that let conditional
// primitives be aliased.
func (s *State) IsTokenEqualToCS(tok token.Token, name string) bool {
	if !tok.IsCS() {
		return false
	}
	return s.resolveAlias(tok.ControlSequence) == name
}

// GetMacro returns the macro bound to a control-sequence token, following
// \let aliases, or (nil, false) if tok does not name a macro.
func (s *State) GetMacro(tok token.Token) (*Macro, bool) {
	if !tok.IsCS() {
		return nil, false
	}
	name := s.resolveAlias(tok.ControlSequence)
	for i := len(s.frames) - 1; i >= 0; i-- {
		if m, ok := s.frames[i].macros[name]; ok {
			return m, true
		}
	}
	return nil, false
}

// SetMacro binds a control-sequence name to a macro in the current group,
// or globally if global is true.
func (s *State) SetMacro(global bool, name string, m *Macro) {
	if global {
		for _, f := range s.frames {
			delete(f.macros, name)
		}
		s.bottom().macros[name] = m
		return
	}
	s.top().macros[name] = m
}

// maxRegister is the classical 0..255 register range (\count0-\count255).
const maxRegister = 255

// ErrRegisterRange is returned when a register index is outside 0..255.
var ErrRegisterRange = errors.New("state: register index out of range")

// GetCount returns the value of \count<index>, 0 if never set.
func (s *State) GetCount(index int) (int32, error) {
	if index < 0 || index > maxRegister {
		return 0, fmt.Errorf("count %d: %w", index, ErrRegisterRange)
	}
	for i := len(s.frames) - 1; i >= 0; i-- {
		if v, ok := s.frames[i].counts[index]; ok {
			return v, nil
		}
	}
	return 0, nil
}

// SetCount assigns \count<index>, in the current group unless global.
func (s *State) SetCount(global bool, index int, value int32) error {
	if index < 0 || index > maxRegister {
		return fmt.Errorf("count %d: %w", index, ErrRegisterRange)
	}
	if global {
		for _, f := range s.frames {
			delete(f.counts, index)
		}
		s.bottom().counts[index] = value
		return nil
	}
	s.top().counts[index] = value
	return nil
}

// GetMathCode returns ch's math code, walking frames innermost-first. A
// character with no explicit \mathcode and no classical default (outside
// 0-9/a-z/A-Z) reports its own char code (class Ordinary, family 0), the
// same fallback the classical engine uses for punctuation and symbols.
func (s *State) GetMathCode(ch rune) mathcode.MathCode {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if mc, ok := s.frames[i].mathCodes[ch]; ok {
			return mc
		}
	}
	return mathcode.FromNumber(uint32(ch))
}

// SetMathCode assigns ch's math code (\mathcode<ch>=<n>), scoped like
// SetCatCode.
func (s *State) SetMathCode(global bool, ch rune, mc mathcode.MathCode) {
	if global {
		for _, f := range s.frames {
			delete(f.mathCodes, ch)
		}
		s.bottom().mathCodes[ch] = mc
		return
	}
	s.top().mathCodes[ch] = mc
}

// GetMathChardef resolves a control-sequence token bound by \mathchardef,
// following \let aliases the same way GetMacro does.
func (s *State) GetMathChardef(tok token.Token) (mathcode.MathCode, bool) {
	if !tok.IsCS() {
		return mathcode.MathCode{}, false
	}
	name := s.resolveAlias(tok.ControlSequence)
	for i := len(s.frames) - 1; i >= 0; i-- {
		if mc, ok := s.frames[i].mathChardefs[name]; ok {
			return mc, true
		}
	}
	return mathcode.MathCode{}, false
}

// SetMathChardef binds name (\mathchardef\name=<n>) to a fixed math code.
func (s *State) SetMathChardef(global bool, name string, mc mathcode.MathCode) {
	if global {
		for _, f := range s.frames {
			delete(f.mathChardefs, name)
		}
		s.bottom().mathChardefs[name] = mc
		return
	}
	s.top().mathChardefs[name] = mc
}

// SetFontIdentifier binds name (\font\name=fontfile ...) to the font
// instance it names, following \let aliases the same way macros do when
// later looked up by GetFontIdentifier.
func (s *State) SetFontIdentifier(global bool, name string, sel FontSelector) {
	if global {
		for _, f := range s.frames {
			delete(f.fontIdents, name)
		}
		s.bottom().fontIdents[name] = sel
		return
	}
	s.top().fontIdents[name] = sel
}

// GetFontIdentifier resolves a control-sequence token bound by \font,
// following \let aliases.
func (s *State) GetFontIdentifier(tok token.Token) (FontSelector, bool) {
	if !tok.IsCS() {
		return FontSelector{}, false
	}
	name := s.resolveAlias(tok.ControlSequence)
	for i := len(s.frames) - 1; i >= 0; i-- {
		if sel, ok := s.frames[i].fontIdents[name]; ok {
			return sel, true
		}
	}
	return FontSelector{}, false
}

// SetCurrentFont selects sel as the font subsequent characters are set
// in, scoped like any other assignment (reverting at the next PopGroup
// unless global).
func (s *State) SetCurrentFont(global bool, sel FontSelector) {
	if global {
		for _, fr := range s.frames {
			fr.currentFont = nil
		}
		s.bottom().currentFont = &sel
		return
	}
	s.top().currentFont = &sel
}

// CurrentFont returns the innermost-scoped current font selection, or
// (zero, false) if \font/selection has never run.
func (s *State) CurrentFont() (FontSelector, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i].currentFont != nil {
			return *s.frames[i].currentFont, true
		}
	}
	return FontSelector{}, false
}
