package parse

import (
	"fmt"
	"io"
)

// IsConditionalHead reports whether the next unexpanded token is one of the
// conditional primitives (\iftrue, \iffalse, \else, \fi), following \let
// aliases.
func (p *Parser) IsConditionalHead() (bool, error) {
	tok, err := p.PeekUnexpandedToken()
	if err == io.EOF {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	st := p.state
	return st.IsTokenEqualToCS(tok, "else") ||
		st.IsTokenEqualToCS(tok, "fi") ||
		st.IsTokenEqualToCS(tok, "iftrue") ||
		st.IsTokenEqualToCS(tok, "iffalse"), nil
}

// skipToFiOrElse discards tokens until \fi or \else, reporting which one it
// found.
func (p *Parser) skipToFiOrElse() (foundElse bool, err error) {
	for {
		tok, err := p.LexUnexpandedToken()
		if err != nil {
			return false, err
		}
		if p.state.IsTokenEqualToCS(tok, "fi") {
			return false, nil
		}
		if p.state.IsTokenEqualToCS(tok, "else") {
			return true, nil
		}
	}
}

func (p *Parser) skipFromElse() error {
	for {
		tok, err := p.LexUnexpandedToken()
		if err != nil {
			return err
		}
		if p.state.IsTokenEqualToCS(tok, "fi") {
			return nil
		}
	}
}

// ExpandConditional consumes one conditional primitive token and updates
// the parser's conditional nesting, skipping the false branch of a failed
// \iffalse (or the true branch's continuation after \else).
func (p *Parser) ExpandConditional() error {
	tok, err := p.LexUnexpandedToken()
	if err != nil {
		return err
	}
	st := p.state

	switch {
	case st.IsTokenEqualToCS(tok, "fi"):
		if p.conditionalDepth == 0 {
			return fmt.Errorf("extra \\fi: %w", ErrExtraConditional)
		}
		p.conditionalDepth--
		return nil

	case st.IsTokenEqualToCS(tok, "else"):
		if p.conditionalDepth == 0 {
			return fmt.Errorf("extra \\else: %w", ErrExtraConditional)
		}
		p.conditionalDepth--
		return p.skipFromElse()

	case st.IsTokenEqualToCS(tok, "iftrue"):
		p.conditionalDepth++
		return nil

	case st.IsTokenEqualToCS(tok, "iffalse"):
		foundElse, err := p.skipToFiOrElse()
		if err != nil {
			return err
		}
		if foundElse {
			p.conditionalDepth++
		}
		return nil

	default:
		return wrapUnexpected(tok)
	}
}
