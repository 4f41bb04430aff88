// Package lexer turns TeX source lines into a Token stream: it decodes
// trigraphs, applies a caller-supplied category-code lookup to each
// character, and tracks the beginning-of-line / mid-line / skipping-blanks
// state that governs end-of-line and space handling.
package lexer

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-typeset/typeset/token"
)

// ErrInvalidCategory is returned when a character's category code is
// token.Invalid.
var ErrInvalidCategory = errors.New("lexer: invalid character")

// ErrUnexpectedEOF is returned when an escape character is the last
// character available, leaving no control-sequence name to read.
var ErrUnexpectedEOF = errors.New("lexer: unexpected end of input after escape")

// CatCode resolves the category code of a rune at lex time. The lexer never
// hardcodes category assignments; it always asks the caller (normally
// state.State.CatCode), so \catcode assignments made mid-document take
// effect on the next character lexed.
type CatCode func(rune) token.Category

type lexState int

const (
	beginningLine lexState = iota
	middleLine
	skippingBlanks
)

type plainKind int

const (
	plainChar plainKind = iota
	plainEOL
	plainEOF
)

type plainResult struct {
	kind plainKind
	ch   rune
}

// Lexer is a single-pass tokenizer over a fixed set of source lines.
type Lexer struct {
	lines   [][]rune
	row     int
	col     int
	state   lexState
	catCode CatCode
}

// New builds a Lexer over lines, each of which is fed through the lexer
// with an implicit trailing end-of-line character, matching the classical
// engine's line-oriented input model.
func New(lines []string, catCode CatCode) *Lexer {
	src := make([][]rune, len(lines))
	for i, l := range lines {
		r := []rune(l)
		r = append(r, '\n')
		src[i] = r
	}
	return &Lexer{lines: src, catCode: catCode, state: beginningLine}
}

func (l *Lexer) getPlainChar() plainResult {
	if l.row >= len(l.lines) {
		return plainResult{kind: plainEOF}
	}
	line := l.lines[l.row]
	if l.col == len(line) {
		l.row++
		l.col = 0
		return plainResult{kind: plainEOL}
	}
	ch := line[l.col]
	l.col++
	return plainResult{kind: plainChar, ch: ch}
}

func (l *Lexer) ungetPlainChar(r plainResult) {
	switch r.kind {
	case plainChar:
		l.col--
	case plainEOL:
		l.row--
		l.col = len(l.lines[l.row]) - 1
	case plainEOF:
	}
}

func isHexChar(ch rune) bool {
	return ('0' <= ch && ch <= '9') || ('a' <= ch && ch <= 'f')
}

func hexValue(ch rune) rune {
	switch {
	case '0' <= ch && ch <= '9':
		return ch - '0'
	default:
		return ch - 'a' + 10
	}
}

// getChar reads one character, collapsing a leading trigraph (two
// superscript-category characters followed by two lowercase hex digits, or
// one other character) into the character it denotes.
func (l *Lexer) getChar() plainResult {
	first := l.getPlainChar()
	if first.kind != plainChar {
		return first
	}
	return l.handleTrigraphs(first.ch)
}

func (l *Lexer) handleTrigraphs(first rune) plainResult {
	firstResult := plainResult{kind: plainChar, ch: first}

	if l.catCode(first) != token.Superscript {
		return firstResult
	}

	second := l.getPlainChar()
	if second.kind != plainChar {
		l.ungetPlainChar(second)
		return firstResult
	}
	if l.catCode(second.ch) != token.Superscript {
		l.ungetPlainChar(second)
		return firstResult
	}

	third := l.getPlainChar()
	if third.kind != plainChar {
		l.ungetPlainChar(third)
		l.ungetPlainChar(second)
		return firstResult
	}

	fourth := l.getPlainChar()
	if fourth.kind == plainChar && isHexChar(third.ch) && isHexChar(fourth.ch) {
		final := rune(hexValue(third.ch)*16 + hexValue(fourth.ch))
		return l.handleTrigraphs(final)
	}
	l.ungetPlainChar(fourth)
	var final rune
	if third.ch <= '?' {
		final = third.ch + 0x40
	} else {
		final = third.ch - 0x40
	}
	return l.handleTrigraphs(final)
}

// Next lexes and returns the next token. It returns io.EOF once all lines
// have been consumed.
func (l *Lexer) Next() (token.Token, error) {
	r := l.getChar()
	switch r.kind {
	case plainEOF:
		return token.Token{}, io.EOF
	case plainEOL:
		l.state = beginningLine
		return l.Next()
	}

	c := r.ch
	cat := l.catCode(c)

	switch cat {
	case token.Invalid:
		return token.Token{}, fmt.Errorf("%c: %w", c, ErrInvalidCategory)

	case token.Escape:
		l.state = skippingBlanks
		first := l.getChar()
		if first.kind != plainChar {
			return token.Token{}, ErrUnexpectedEOF
		}
		if l.catCode(first.ch) == token.Letter {
			name := []rune{first.ch}
			for {
				next := l.getChar()
				if next.kind == plainChar && l.catCode(next.ch) == token.Letter {
					name = append(name, next.ch)
					continue
				}
				l.ungetPlainChar(next)
				break
			}
			return token.CS(string(name)), nil
		}
		return token.CS(string(first.ch)), nil

	case token.EndOfLine:
		switch l.state {
		case beginningLine:
			return token.CS("par"), nil
		case middleLine:
			return token.Chr(' ', token.Space), nil
		default: // skippingBlanks
			return l.Next()
		}

	case token.Space:
		if l.state == middleLine {
			l.state = skippingBlanks
			return token.Chr(' ', token.Space), nil
		}
		return l.Next()

	case token.Comment:
		if l.row < len(l.lines) {
			l.col = len(l.lines[l.row])
		}
		return l.Next()

	case token.Ignored:
		return l.Next()

	default:
		l.state = middleLine
		return token.Chr(c, cat), nil
	}
}
