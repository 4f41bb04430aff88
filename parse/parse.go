// Package parse implements the expansion engine: a pushback-token
// discipline over the lexer, macro definition and argument matching,
// conditional expansion, and the number/dimen/glue/assignment grammar that
// together turn a token stream into the primitive operations the box
// builder consumes.
package parse

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/exp/slices"
	"github.com/go-typeset/typeset/lexer"
	"github.com/go-typeset/typeset/state"
	"github.com/go-typeset/typeset/token"
)

// ErrUnexpectedToken is wrapped into errors raised when the parser finds a
// token it cannot make sense of in its current grammar position.
var ErrUnexpectedToken = errors.New("parse: unexpected token")

// ErrExtraConditional is returned by \fi/\else with no matching \if.
var ErrExtraConditional = errors.New("parse: extra \\fi or \\else")

// Parser drives a lexer through expansion. It owns a pushback stack so that
// peeking and macro expansion never require re-reading the underlying
// lexer, and it is built as an explicit loop rather than recursion so
// arbitrarily long macro expansion chains don't grow the Go call stack.
type Parser struct {
	lex              *lexer.Lexer
	state            *state.State
	upcoming         []token.Token // stack: Pop takes the last element
	conditionalDepth int
	nextGlobal       bool // set by \global for the assignment it prefixes
	fonts            FontSource
}

// SetFontSource installs the resolver box-list and math-list conversion
// use to turn a font name and scale into metrics. It must be called
// before any box-producing parse is attempted.
func (p *Parser) SetFontSource(fonts FontSource) { p.fonts = fonts }

// New builds a Parser reading from lex and consulting/mutating st.
func New(lex *lexer.Lexer, st *state.State) *Parser {
	return &Parser{lex: lex, state: st}
}

// State exposes the underlying state.State, e.g. for a driver seeding
// initial catcodes or registers.
func (p *Parser) State() *state.State { return p.state }

func (p *Parser) addUpcomingToken(t token.Token) {
	p.upcoming = append(p.upcoming, t)
}

// addUpcomingTokens arranges for tokens to be the next ones lexed, in their
// given order. Since upcoming is a stack (last appended, first popped), the
// tokens are appended in reverse.
func (p *Parser) addUpcomingTokens(tokens []token.Token) {
	rev := slices.Clone(tokens)
	slices.Reverse(rev)
	p.upcoming = append(p.upcoming, rev...)
}

// LexUnexpandedToken returns the next token without expanding macros,
// either from the pushback stack or the underlying lexer. It returns
// io.EOF once both are exhausted.
func (p *Parser) LexUnexpandedToken() (token.Token, error) {
	if n := len(p.upcoming); n > 0 {
		t := p.upcoming[n-1]
		p.upcoming = p.upcoming[:n-1]
		return t, nil
	}
	return p.lex.Next()
}

// PeekUnexpandedToken returns the next token without consuming it.
func (p *Parser) PeekUnexpandedToken() (token.Token, error) {
	t, err := p.LexUnexpandedToken()
	if err != nil {
		return token.Token{}, err
	}
	p.addUpcomingToken(t)
	return t, nil
}

// LexExpandedToken returns the next token after fully expanding any macro
// calls. It loops instead of recursing: each expansion pushes its
// replacement text back onto the pushback stack and the loop reads from the
// top again.
func (p *Parser) LexExpandedToken() (token.Token, error) {
	for {
		tok, err := p.LexUnexpandedToken()
		if err != nil {
			return token.Token{}, err
		}
		m, ok := p.state.GetMacro(tok)
		if !ok {
			return tok, nil
		}
		values, err := p.parseReplacementMap(m)
		if err != nil {
			return token.Token{}, err
		}
		replacement, err := m.Replacement(values)
		if err != nil {
			return token.Token{}, err
		}
		p.addUpcomingTokens(replacement)
	}
}

// PeekExpandedToken returns the next fully-expanded token without consuming
// it.
func (p *Parser) PeekExpandedToken() (token.Token, error) {
	t, err := p.LexExpandedToken()
	if err != nil {
		return token.Token{}, err
	}
	p.addUpcomingToken(t)
	return t, nil
}

// parseOptionalSpaces consumes zero or more unexpanded space tokens.
func (p *Parser) parseOptionalSpaces() error {
	for {
		t, err := p.PeekUnexpandedToken()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if !t.IsChar(token.Space) {
			return nil
		}
		if _, err := p.LexUnexpandedToken(); err != nil {
			return err
		}
	}
}

// parseOptionalSpacesExpanded is the expanded-token counterpart used by the
// numeric grammar (an expanded space still ends a number).
func (p *Parser) parseOptionalSpacesExpanded() error {
	for {
		t, err := p.PeekExpandedToken()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if !t.IsChar(token.Space) {
			return nil
		}
		if _, err := p.LexExpandedToken(); err != nil {
			return err
		}
	}
}

func wrapUnexpected(tok token.Token) error {
	return fmt.Errorf("%v: %w", tok, ErrUnexpectedToken)
}
