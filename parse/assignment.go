package parse

import (
	"fmt"
	"io"

	"github.com/go-typeset/typeset/token"
)

var assignmentPrimitives = []string{"def", "let", "global", "catcode", "count", "advance", "multiply", "divide", "font"}

func (p *Parser) peekIsPrimitive(name string) (bool, error) {
	tok, err := p.PeekExpandedToken()
	if err == io.EOF {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return p.state.IsTokenEqualToCS(tok, name), nil
}

// IsAssignmentHead reports whether the upcoming input begins one of the
// assignment forms this parser understands (\def, \let, \catcode, \count,
// \advance/\multiply/\divide, \font, optionally prefixed by \global).
func (p *Parser) IsAssignmentHead() (bool, error) {
	for _, name := range assignmentPrimitives {
		ok, err := p.peekIsPrimitive(name)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// parseUnexpandedControlSequence reads a single control-sequence token (the
// name being defined or aliased by \def/\let); any other token is an error.
func (p *Parser) parseUnexpandedControlSequence() (token.Token, error) {
	tok, err := p.LexUnexpandedToken()
	if err != nil {
		return token.Token{}, err
	}
	if !tok.IsCS() {
		return token.Token{}, fmt.Errorf("invalid token found while looking for control sequence: %v: %w", tok, ErrUnexpectedToken)
	}
	return tok, nil
}

func (p *Parser) parseEqualsUnexpanded() error {
	if err := p.parseOptionalSpaces(); err != nil {
		return err
	}
	tok, err := p.PeekUnexpandedToken()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return err
	}
	if tok.IsChar(token.Other) && tok.Char == '=' {
		_, err := p.LexUnexpandedToken()
		return err
	}
	return nil
}

func (p *Parser) parseEqualsExpanded() error {
	if err := p.parseOptionalSpacesExpanded(); err != nil {
		return err
	}
	tok, err := p.PeekExpandedToken()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return err
	}
	if tok.IsChar(token.Other) && tok.Char == '=' {
		_, err := p.LexExpandedToken()
		return err
	}
	return nil
}

func (p *Parser) parseOptionalSpaceUnexpanded() error {
	tok, err := p.PeekUnexpandedToken()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return err
	}
	if tok.IsChar(token.Space) {
		_, err := p.LexUnexpandedToken()
		return err
	}
	return nil
}

func (p *Parser) parseDefAssignment() error {
	name, err := p.parseUnexpandedControlSequence()
	if err != nil {
		return err
	}
	m, err := p.ParseMacroDefinition()
	if err != nil {
		return err
	}
	p.state.SetMacro(p.nextGlobal, name.ControlSequence, m)
	return nil
}

func (p *Parser) parseLetAssignment() error {
	name, err := p.parseUnexpandedControlSequence()
	if err != nil {
		return err
	}
	if err := p.parseEqualsUnexpanded(); err != nil {
		return err
	}
	if err := p.parseOptionalSpaceUnexpanded(); err != nil {
		return err
	}
	value, err := p.LexUnexpandedToken()
	if err != nil {
		return err
	}
	p.state.SetLet(p.nextGlobal, name.ControlSequence, value)
	return nil
}

func (p *Parser) parseCatcodeAssignment() error {
	idx, err := p.ParseNumber()
	if err != nil {
		return err
	}
	if err := p.parseEqualsExpanded(); err != nil {
		return err
	}
	cat, err := p.ParseNumber()
	if err != nil {
		return err
	}
	p.state.SetCatCode(p.nextGlobal, rune(idx), token.Category(cat))
	return nil
}

func (p *Parser) parseCountAssignment() error {
	idx, err := p.ParseNumber()
	if err != nil {
		return err
	}
	if err := p.parseEqualsExpanded(); err != nil {
		return err
	}
	value, err := p.ParseNumber()
	if err != nil {
		return err
	}
	return p.state.SetCount(p.nextGlobal, int(idx), value)
}

// parseCountVariable parses a \count<n> register reference used as an
// assignment target, returning the register index (not its value).
func (p *Parser) parseCountVariable() (int32, error) {
	tok, err := p.LexExpandedToken()
	if err != nil {
		return 0, err
	}
	if !p.state.IsTokenEqualToCS(tok, "count") {
		return 0, wrapUnexpected(tok)
	}
	return p.ParseNumber()
}

func (p *Parser) parseArithmetic(kind string) error {
	idx, err := p.parseCountVariable() // only \count<n> arithmetic is supported
	if err != nil {
		return err
	}
	if _, err := p.parseOptionalKeywordExpanded("by"); err != nil {
		return err
	}
	if err := p.parseOptionalSpacesExpanded(); err != nil {
		return err
	}
	number, err := p.ParseNumber()
	if err != nil {
		return err
	}
	current, err := p.state.GetCount(int(idx))
	if err != nil {
		return err
	}
	var result int32
	switch kind {
	case "advance":
		result = current + number
	case "multiply":
		result = current * number
	case "divide":
		if number == 0 {
			return fmt.Errorf("divide by zero: %w", ErrUnexpectedToken)
		}
		result = current / number
	}
	return p.state.SetCount(p.nextGlobal, int(idx), result)
}

// ParseAssignment parses and performs one assignment (\def, \let,
// \catcode, \count, \advance/\multiply/\divide, \font), honoring an optional
// leading \global.
func (p *Parser) ParseAssignment() error {
	p.nextGlobal = false
	return p.parseAssignmentGlobal()
}

// assignmentHandlers pairs each primitive this parser recognizes as an
// assignment head with the function that parses the rest of it, in the
// order they should be probed.
var assignmentHandlers = []struct {
	name    string
	handler func(*Parser) error
}{
	{name: "def", handler: (*Parser).parseDefAssignment},
	{name: "let", handler: (*Parser).parseLetAssignment},
	{name: "catcode", handler: (*Parser).parseCatcodeAssignment},
	{name: "count", handler: (*Parser).parseCountAssignment},
	{name: "advance", handler: func(p *Parser) error { return p.parseArithmetic("advance") }},
	{name: "multiply", handler: func(p *Parser) error { return p.parseArithmetic("multiply") }},
	{name: "divide", handler: func(p *Parser) error { return p.parseArithmetic("divide") }},
	{name: "font", handler: (*Parser).parseFontAssignment},
}

func (p *Parser) parseAssignmentGlobal() error {
	for _, h := range assignmentHandlers {
		ok, err := p.peekIsPrimitive(h.name)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if _, err := p.LexExpandedToken(); err != nil {
			return err
		}
		return h.handler(p)
	}

	isGlobal, err := p.peekIsPrimitive("global")
	if err != nil {
		return err
	}
	if isGlobal {
		if _, err := p.LexExpandedToken(); err != nil {
			return err
		}
		p.nextGlobal = true
		isHead, err := p.IsAssignmentHead()
		if err != nil {
			return err
		}
		if !isHead {
			return fmt.Errorf("non-assignment head found after \\global: %w", ErrUnexpectedToken)
		}
		return p.parseAssignmentGlobal()
	}

	return fmt.Errorf("invalid start found in assignment: %w", ErrUnexpectedToken)
}
