// Package token defines the category-code and token types shared by the
// lexer, state, and parse packages.
package token

import "fmt"

// Category is one of the sixteen classical category codes. The numeric
// values match the classical assignment so state defaults and \catcode
// assignments agree on the same integers.
type Category int

const (
	Escape Category = iota
	BeginGroup
	EndGroup
	MathShift
	AlignmentTab
	EndOfLine
	Parameter
	Superscript
	Subscript
	Ignored
	Space
	Letter
	Other
	Active
	Comment
	Invalid
)

func (c Category) String() string {
	names := [...]string{
		"Escape", "BeginGroup", "EndGroup", "MathShift", "AlignmentTab",
		"EndOfLine", "Parameter", "Superscript", "Subscript", "Ignored",
		"Space", "Letter", "Other", "Active", "Comment", "Invalid",
	}
	if c < 0 || int(c) >= len(names) {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return names[c]
}

// Token is either a control sequence (named by the text after the escape
// character) or a single character tagged with the category it was lexed
// under.
type Token struct {
	ControlSequence string
	Char            rune
	Cat             Category
	isCS            bool
}

// CS builds a control-sequence token.
func CS(name string) Token {
	return Token{ControlSequence: name, isCS: true}
}

// Chr builds a character token of the given category.
func Chr(ch rune, cat Category) Token {
	return Token{Char: ch, Cat: cat}
}

// IsCS reports whether the token is a control sequence.
func (t Token) IsCS() bool { return t.isCS }

// IsChar reports whether the token is a character of exactly the given
// category.
func (t Token) IsChar(cat Category) bool {
	return !t.isCS && t.Cat == cat
}

// Equal reports whether two tokens are the same control sequence, or the
// same character and category.
func (t Token) Equal(other Token) bool {
	if t.isCS != other.isCS {
		return false
	}
	if t.isCS {
		return t.ControlSequence == other.ControlSequence
	}
	return t.Char == other.Char && t.Cat == other.Cat
}

func (t Token) String() string {
	if t.isCS {
		return fmt.Sprintf("\\%s", t.ControlSequence)
	}
	return fmt.Sprintf("%q(%s)", t.Char, t.Cat)
}
