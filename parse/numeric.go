package parse

import (
	"fmt"
	"io"

	"github.com/go-typeset/typeset/dimen"
	"github.com/go-typeset/typeset/token"
)

func isTokenDigit(t token.Token) bool {
	return t.IsChar(token.Other) && t.Char >= '0' && t.Char <= '9'
}

func tokenDigitValue(t token.Token) int32 {
	return int32(t.Char - '0')
}

func isDecimalPointToken(t token.Token) bool {
	return t.IsChar(token.Other) && (t.Char == ',' || t.Char == '.')
}

// tokenEqualsKeywordChar reports whether t is the letter or other-category
// character ch, matched case-insensitively the way TeX keyword scanning
// does (a keyword letter may appear as either catcode).
func tokenEqualsKeywordChar(t token.Token, ch rune) bool {
	if t.IsCS() {
		return false
	}
	if t.Cat != token.Letter && t.Cat != token.Other {
		return false
	}
	lower := t.Char
	if lower >= 'A' && lower <= 'Z' {
		lower += 'a' - 'A'
	}
	want := ch
	if want >= 'A' && want <= 'Z' {
		want += 'a' - 'A'
	}
	return lower == want
}

// parseOptionalKeywordExpanded tries to match keyword against upcoming
// expanded tokens, case-insensitively. On success it consumes the matched
// tokens and returns true; on failure it pushes everything it read back
// onto the pushback stack (in order) and returns false.
func (p *Parser) parseOptionalKeywordExpanded(keyword string) (bool, error) {
	var read []token.Token
	for _, ch := range keyword {
		tok, err := p.LexExpandedToken()
		if err == io.EOF {
			p.addUpcomingTokens(read)
			return false, nil
		}
		if err != nil {
			return false, err
		}
		read = append(read, tok)
		if !tokenEqualsKeywordChar(tok, ch) {
			p.addUpcomingTokens(read)
			return false, nil
		}
	}
	return true, nil
}

func (p *Parser) parseKeywordExpanded(keyword string) error {
	ok, err := p.parseOptionalKeywordExpanded(keyword)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("expected keyword %q: %w", keyword, ErrUnexpectedToken)
	}
	return nil
}

// ParseOptionalSigns consumes any run of +/- tokens (and the spaces before,
// between and after them), returning the overall sign.
func (p *Parser) ParseOptionalSigns() (int32, error) {
	sign := int32(1)
	for {
		if err := p.parseOptionalSpacesExpanded(); err != nil {
			return 0, err
		}
		tok, err := p.PeekExpandedToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}
		if !tok.IsChar(token.Other) || (tok.Char != '+' && tok.Char != '-') {
			break
		}
		if _, err := p.LexExpandedToken(); err != nil {
			return 0, err
		}
		if tok.Char == '-' {
			sign = -sign
		}
	}
	return sign, nil
}

func (p *Parser) isIntegerConstantHead() (bool, error) {
	tok, err := p.PeekExpandedToken()
	if err == io.EOF {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return isTokenDigit(tok), nil
}

func (p *Parser) parseIntegerConstant() (int32, error) {
	tok, err := p.LexExpandedToken()
	if err != nil {
		return 0, err
	}
	if !isTokenDigit(tok) {
		return 0, fmt.Errorf("invalid number start: %w", ErrUnexpectedToken)
	}
	value := tokenDigitValue(tok)
	for {
		tok, err := p.PeekExpandedToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}
		if !isTokenDigit(tok) {
			break
		}
		if _, err := p.LexExpandedToken(); err != nil {
			return 0, err
		}
		value = 10*value + tokenDigitValue(tok)
	}
	if err := p.parseOptionalSpaceExpanded(); err != nil {
		return 0, err
	}
	return value, nil
}

func (p *Parser) parseOptionalSpaceExpanded() error {
	tok, err := p.PeekExpandedToken()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return err
	}
	if tok.IsChar(token.Space) {
		_, err := p.LexExpandedToken()
		return err
	}
	return nil
}

// isInternalIntegerHead reports whether the upcoming tokens begin a
// register reference (\count<n>).
func (p *Parser) isInternalIntegerHead() (bool, error) {
	tok, err := p.PeekExpandedToken()
	if err == io.EOF {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return tok.IsCS() && p.state.IsTokenEqualToCS(tok, "count"), nil
}

func (p *Parser) parseInternalInteger() (int32, error) {
	tok, err := p.LexExpandedToken()
	if err != nil {
		return 0, err
	}
	if p.state.IsTokenEqualToCS(tok, "count") {
		idx, err := p.ParseNumber()
		if err != nil {
			return 0, err
		}
		return p.state.GetCount(int(idx))
	}
	return 0, wrapUnexpected(tok)
}

func (p *Parser) parseUnsignedNumber() (int32, error) {
	isInternal, err := p.isInternalIntegerHead()
	if err != nil {
		return 0, err
	}
	if isInternal {
		return p.parseInternalInteger()
	}
	isConst, err := p.isIntegerConstantHead()
	if err != nil {
		return 0, err
	}
	if isConst {
		return p.parseIntegerConstant()
	}
	return 0, fmt.Errorf("expected a number: %w", ErrUnexpectedToken)
}

// ParseNumber parses a <number>: optional signs followed by an unsigned
// integer constant or register reference.
func (p *Parser) ParseNumber() (int32, error) {
	sign, err := p.ParseOptionalSigns()
	if err != nil {
		return 0, err
	}
	value, err := p.parseUnsignedNumber()
	if err != nil {
		return 0, err
	}
	return sign * value, nil
}

func (p *Parser) parseDecimalConstant() (float64, error) {
	var value float64
	seenPoint := false
	factor := 1.0 / 10.0
	seenAny := false

	for {
		tok, err := p.PeekExpandedToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}
		switch {
		case isTokenDigit(tok):
			if _, err := p.LexExpandedToken(); err != nil {
				return 0, err
			}
			v := float64(tokenDigitValue(tok))
			if seenPoint {
				value += v * factor
				factor /= 10.0
			} else {
				value = value*10.0 + v
			}
			seenAny = true
		case isDecimalPointToken(tok) && !seenPoint:
			if _, err := p.LexExpandedToken(); err != nil {
				return 0, err
			}
			seenPoint = true
			seenAny = true
		default:
			if !seenAny {
				return 0, fmt.Errorf("no digits found while parsing decimal constant: %w", ErrUnexpectedToken)
			}
			return value, nil
		}
	}
	if !seenAny {
		return 0, fmt.Errorf("no digits found while parsing decimal constant: %w", ErrUnexpectedToken)
	}
	return value, nil
}

func (p *Parser) parseFactor() (float64, error) {
	isInternal, err := p.isInternalIntegerHead()
	if err != nil {
		return 0, err
	}
	if isInternal {
		v, err := p.parseInternalInteger()
		return float64(v), err
	}
	return p.parseDecimalConstant()
}

var unitKeywords = []struct {
	name string
	unit dimen.Unit
}{
	{"pt", dimen.Point}, {"pc", dimen.Pica}, {"in", dimen.Inch},
	{"bp", dimen.BigPoint}, {"cm", dimen.Centimeter}, {"mm", dimen.Millimeter},
	{"dd", dimen.DidotPoint}, {"cc", dimen.Cicero}, {"sp", dimen.ScaledPoint},
}

// parseUnitOfMeasure parses the unit part of a dimension: either an
// internal-integer register (yielding scaled points directly) or a
// two-letter physical unit keyword, with an optional leading "true".
func (p *Parser) parseUnitOfMeasure() (float64, dimen.Unit, error) {
	isInternal, err := p.isInternalIntegerHead()
	if err != nil {
		return 0, 0, err
	}
	if isInternal {
		v, err := p.parseInternalInteger()
		return float64(v), dimen.ScaledPoint, err
	}

	if err := p.parseOptionalSpacesExpanded(); err != nil {
		return 0, 0, err
	}

	if _, err := p.parseOptionalKeywordExpanded("true"); err != nil {
		return 0, 0, err
	}
	if err := p.parseOptionalSpacesExpanded(); err != nil {
		return 0, 0, err
	}

	for _, uk := range unitKeywords {
		ok, err := p.parseOptionalKeywordExpanded(uk.name)
		if err != nil {
			return 0, 0, err
		}
		if ok {
			if err := p.parseOptionalSpaceExpanded(); err != nil {
				return 0, 0, err
			}
			return 1.0, uk.unit, nil
		}
	}

	return 0, 0, fmt.Errorf("invalid unit: %w", ErrUnexpectedToken)
}

// ParseDimen parses a <dimen>: an optional sign, a factor, and a unit of
// measure.
func (p *Parser) ParseDimen() (dimen.Dimen, error) {
	sign, err := p.ParseOptionalSigns()
	if err != nil {
		return 0, err
	}
	factor, err := p.parseFactor()
	if err != nil {
		return 0, err
	}
	unitFactor, unit, err := p.parseUnitOfMeasure()
	if err != nil {
		return 0, err
	}
	d, err := dimen.FromUnit(float64(sign)*factor*unitFactor, unit)
	if err != nil {
		return 0, err
	}
	return d, nil
}

func (p *Parser) parseSpringDimen() (dimen.SpringDimen, error) {
	sign, err := p.ParseOptionalSigns()
	if err != nil {
		return dimen.SpringDimen{}, err
	}
	factor, err := p.parseFactor()
	if err != nil {
		return dimen.SpringDimen{}, err
	}

	if err := p.parseOptionalSpacesExpanded(); err != nil {
		return dimen.SpringDimen{}, err
	}
	ok, err := p.parseOptionalKeywordExpanded("fil")
	if err != nil {
		return dimen.SpringDimen{}, err
	}
	if ok {
		kind := dimen.Fil
		for {
			more, err := p.parseOptionalKeywordExpanded("l")
			if err != nil {
				return dimen.SpringDimen{}, err
			}
			if !more {
				break
			}
			if kind == dimen.Fil {
				kind = dimen.Fill
			} else {
				kind = dimen.Filll
			}
		}
		if err := p.parseOptionalSpaceExpanded(); err != nil {
			return dimen.SpringDimen{}, err
		}
		return dimen.FilSpring(dimen.FilDimen{Kind: kind, Amt: float64(sign) * factor}), nil
	}

	unitFactor, unit, err := p.parseUnitOfMeasure()
	if err != nil {
		return dimen.SpringDimen{}, err
	}
	d, err := dimen.FromUnit(float64(sign)*factor*unitFactor, unit)
	if err != nil {
		return dimen.SpringDimen{}, err
	}
	return dimen.FiniteSpring(d), nil
}

// ParseGlue parses a <glue>: a dimen, optionally followed by "plus"
// <spring dimen> and/or "minus" <spring dimen>.
func (p *Parser) ParseGlue() (dimen.Glue, error) {
	space, err := p.ParseDimen()
	if err != nil {
		return dimen.Glue{}, err
	}

	g := dimen.FromDimen(space)

	hasPlus, err := p.parseOptionalKeywordExpanded("plus")
	if err != nil {
		return dimen.Glue{}, err
	}
	if hasPlus {
		stretch, err := p.parseSpringDimen()
		if err != nil {
			return dimen.Glue{}, err
		}
		g.Stretch = stretch
	}

	hasMinus, err := p.parseOptionalKeywordExpanded("minus")
	if err != nil {
		return dimen.Glue{}, err
	}
	if hasMinus {
		shrink, err := p.parseSpringDimen()
		if err != nil {
			return dimen.Glue{}, err
		}
		g.Shrink = shrink
	}

	return g, nil
}
