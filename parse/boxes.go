package parse

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-typeset/typeset/box"
	"github.com/go-typeset/typeset/dimen"
	"github.com/go-typeset/typeset/state"
	"github.com/go-typeset/typeset/token"
)

// ErrNoFontSource is returned when a box list needs to resolve a font
// name to metrics (via \font or a bare character) but no FontSource has
// been installed with SetFontSource.
var ErrNoFontSource = errors.New("parse: no font source installed")

// ErrNoCurrentFont is returned when a character is set without any
// \font selection ever having run.
var ErrNoCurrentFont = errors.New("parse: no current font selected")

// parseFontAssignment parses \font\cs=fontname, optionally followed by
// "at <dimen>" or "scaled <n>" (a factor of n/1000 applied to the font's
// own design size, the classical \magstep convention); fontname is read
// by parseFileName as a run of letter and other-category tokens.
func (p *Parser) parseFontAssignment() error {
	name, err := p.parseUnexpandedControlSequence()
	if err != nil {
		return err
	}
	if err := p.parseEqualsUnexpanded(); err != nil {
		return err
	}
	if err := p.parseOptionalSpaces(); err != nil {
		return err
	}

	fontName, err := p.parseFileName()
	if err != nil {
		return err
	}

	var scale dimen.Dimen
	hasAt, err := p.parseOptionalKeywordExpanded("at")
	if err != nil {
		return err
	}
	switch {
	case hasAt:
		if err := p.parseOptionalSpacesExpanded(); err != nil {
			return err
		}
		scale, err = p.ParseDimen()
		if err != nil {
			return err
		}
	default:
		hasScaled, err := p.parseOptionalKeywordExpanded("scaled")
		if err != nil {
			return err
		}
		if hasScaled {
			if err := p.parseOptionalSpacesExpanded(); err != nil {
				return err
			}
			mag, err := p.ParseNumber()
			if err != nil {
				return err
			}
			if p.fonts == nil {
				return fmt.Errorf("%s: %w", fontName, ErrNoFontSource)
			}
			designFont, err := p.fonts.Font(fontName, 0)
			if err != nil {
				return err
			}
			// The product is formed in 64 bits so that only the final
			// size, not design size × mag, has to fit a Dimen.
			scale, err = dimen.FromUnit(float64(int64(designFont.DesignSize())*int64(mag)/1000), dimen.ScaledPoint)
			if err != nil {
				return err
			}
		} else {
			if p.fonts == nil {
				return fmt.Errorf("%s: %w", fontName, ErrNoFontSource)
			}
			designFont, err := p.fonts.Font(fontName, 0)
			if err != nil {
				return err
			}
			scale = designFont.DesignSize()
		}
	}

	p.state.SetFontIdentifier(p.nextGlobal, name.ControlSequence, state.FontSelector{
		Name:  fontName,
		Scale: scale,
	})
	return nil
}

// parseFileName reads a classical <file name>: the maximal run of
// Letter/Other tokens (a "cmr10" style bare word), stopping at the first
// space, control sequence, or other category.
func (p *Parser) parseFileName() (string, error) {
	var name []rune
	for {
		tok, err := p.PeekUnexpandedToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		if tok.IsCS() || (!tok.IsChar(token.Letter) && !tok.IsChar(token.Other)) {
			break
		}
		if _, err := p.LexUnexpandedToken(); err != nil {
			return "", err
		}
		name = append(name, tok.Char)
	}
	if len(name) == 0 {
		return "", fmt.Errorf("expected a font file name: %w", ErrUnexpectedToken)
	}
	if err := p.parseOptionalSpaces(); err != nil {
		return "", err
	}
	return string(name), nil
}

// resolveCurrentFont resolves the current font selection to a box.Font
// with metrics attached, via the installed FontSource.
func (p *Parser) resolveCurrentFont() (box.Font, error) {
	if p.fonts == nil {
		return box.Font{}, ErrNoFontSource
	}
	sel, ok := p.state.CurrentFont()
	if !ok {
		return box.Font{}, ErrNoCurrentFont
	}
	return p.fonts.Font(sel.Name, sel.Scale)
}

// isFontSelectionHead reports whether the next unexpanded token names a
// control sequence bound by \font, i.e. invoking it selects that font as
// current rather than expanding to replacement text.
func (p *Parser) isFontSelectionHead() (bool, error) {
	tok, err := p.PeekUnexpandedToken()
	if err == io.EOF {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	_, ok := p.state.GetFontIdentifier(tok)
	return ok, nil
}

func (p *Parser) parseFontSelection() error {
	tok, err := p.LexUnexpandedToken()
	if err != nil {
		return err
	}
	sel, ok := p.state.GetFontIdentifier(tok)
	if !ok {
		return wrapUnexpected(tok)
	}
	p.state.SetCurrentFont(p.nextGlobal, sel)
	p.nextGlobal = false
	return nil
}

// parseBoxLayoutKeyword parses the optional "to <dimen>" / "spread <dimen>"
// suffix a \hbox or \vbox primitive takes before its opening brace,
// defaulting to box.NaturalLayout.
func (p *Parser) parseBoxLayoutKeyword() (box.Layout, error) {
	hasTo, err := p.parseOptionalKeywordExpanded("to")
	if err != nil {
		return box.Layout{}, err
	}
	if hasTo {
		if err := p.parseOptionalSpacesExpanded(); err != nil {
			return box.Layout{}, err
		}
		d, err := p.ParseDimen()
		if err != nil {
			return box.Layout{}, err
		}
		return box.FixedLayout(d), nil
	}

	hasSpread, err := p.parseOptionalKeywordExpanded("spread")
	if err != nil {
		return box.Layout{}, err
	}
	if hasSpread {
		if err := p.parseOptionalSpacesExpanded(); err != nil {
			return box.Layout{}, err
		}
		d, err := p.ParseDimen()
		if err != nil {
			return box.Layout{}, err
		}
		return box.SpreadLayout(d), nil
	}

	return box.NaturalLayout(), nil
}

func (p *Parser) parseBeginGroupExpanded() error {
	if err := p.parseOptionalSpacesExpanded(); err != nil {
		return err
	}
	tok, err := p.LexExpandedToken()
	if err != nil {
		return err
	}
	if !tok.IsChar(token.BeginGroup) {
		return fmt.Errorf("%v: expected {: %w", tok, ErrUnexpectedToken)
	}
	return nil
}

// ParseHBoxPrimitive parses \hbox[to <dimen>|spread <dimen>]{<hlist>},
// the opening keyword already consumed by the caller, producing a box.Box
// wrapping the nested horizontal list.
func (p *Parser) ParseHBoxPrimitive() (*box.HBox, error) {
	layout, err := p.parseBoxLayoutKeyword()
	if err != nil {
		return nil, err
	}
	if err := p.parseBeginGroupExpanded(); err != nil {
		return nil, err
	}
	p.state.PushGroup()
	list, err := p.ParseHorizontalList()
	if err != nil {
		p.state.PopGroup()
		return nil, err
	}
	if err := p.state.PopGroup(); err != nil {
		return nil, err
	}
	return box.NewHBox(list, layout)
}

// ParseVBoxPrimitive is ParseHBoxPrimitive's vertical-list counterpart.
func (p *Parser) ParseVBoxPrimitive() (*box.VBox, error) {
	layout, err := p.parseBoxLayoutKeyword()
	if err != nil {
		return nil, err
	}
	if err := p.parseBeginGroupExpanded(); err != nil {
		return nil, err
	}
	p.state.PushGroup()
	list, err := p.ParseVerticalList()
	if err != nil {
		p.state.PopGroup()
		return nil, err
	}
	if err := p.state.PopGroup(); err != nil {
		return nil, err
	}
	return box.NewVBox(list, layout)
}

// ParseHorizontalList reads horizontal-list elements (characters,
// \hskip glue, nested \hbox/\vbox, \font selection and assignments)
// until an unmatched EndGroup or end of input, consuming the EndGroup
// but not returning it as an element. It is the Go analogue of the
// original's parse_horizontal_list_to_elems, generalized from bare
// characters to the full HElem shape box.HBox assembly needs.
func (p *Parser) ParseHorizontalList() ([]box.HElem, error) {
	var list []box.HElem

	for {
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

		isFontSel, err := p.isFontSelectionHead()
		if err != nil {
			return nil, err
		}
		if isFontSel {
			if err := p.parseFontSelection(); err != nil {
				return nil, err
			}
			continue
		}

		isHSkip, err := p.peekIsPrimitive("hskip")
		if err != nil {
			return nil, err
		}
		if isHSkip {
			if _, err := p.LexExpandedToken(); err != nil {
				return nil, err
			}
			g, err := p.ParseGlue()
			if err != nil {
				return nil, err
			}
			list = append(list, box.NewHSkipElem(g))
			continue
		}

		isHBox, err := p.peekIsPrimitive("hbox")
		if err != nil {
			return nil, err
		}
		if isHBox {
			if _, err := p.LexExpandedToken(); err != nil {
				return nil, err
			}
			b, err := p.ParseHBoxPrimitive()
			if err != nil {
				return nil, err
			}
			list = append(list, box.NewHBoxElem(b, dimen.Zero()))
			continue
		}

		isVBox, err := p.peekIsPrimitive("vbox")
		if err != nil {
			return nil, err
		}
		if isVBox {
			if _, err := p.LexExpandedToken(); err != nil {
				return nil, err
			}
			b, err := p.ParseVBoxPrimitive()
			if err != nil {
				return nil, err
			}
			list = append(list, box.NewHBoxElem(b, dimen.Zero()))
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
			if _, err := p.LexExpandedToken(); err != nil {
				return nil, err
			}
			p.state.PushGroup()
			inner, err := p.ParseHorizontalList()
			if err != nil {
				p.state.PopGroup()
				return nil, err
			}
			if err := p.state.PopGroup(); err != nil {
				return nil, err
			}
			list = append(list, inner...)

		case tok.IsChar(token.EndGroup):
			if _, err := p.LexExpandedToken(); err != nil {
				return nil, err
			}
			return list, nil

		case tok.IsChar(token.Space):
			if _, err := p.LexExpandedToken(); err != nil {
				return nil, err
			}
			font, err := p.resolveCurrentFont()
			if err != nil {
				return nil, err
			}
			list = append(list, box.NewHSkipElem(box.SpaceGlue(font)))

		case tok.IsChar(token.Letter), tok.IsChar(token.Other):
			if _, err := p.LexExpandedToken(); err != nil {
				return nil, err
			}
			font, err := p.resolveCurrentFont()
			if err != nil {
				return nil, err
			}
			list = append(list, box.NewCharElem(tok.Char, font))

		default:
			return nil, wrapUnexpected(tok)
		}
	}
}

// ParseVerticalList is ParseHorizontalList's vertical-mode counterpart:
// \vskip glue, nested \hbox/\vbox, \font selection, and assignments are
// understood; bare characters are not legal in vertical mode (matching
// the classical engine's implicit "start paragraph" behavior, which this
// engine does not model).
func (p *Parser) ParseVerticalList() ([]box.VElem, error) {
	var list []box.VElem

	for {
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

		isFontSel, err := p.isFontSelectionHead()
		if err != nil {
			return nil, err
		}
		if isFontSel {
			if err := p.parseFontSelection(); err != nil {
				return nil, err
			}
			continue
		}

		isVSkip, err := p.peekIsPrimitive("vskip")
		if err != nil {
			return nil, err
		}
		if isVSkip {
			if _, err := p.LexExpandedToken(); err != nil {
				return nil, err
			}
			g, err := p.ParseGlue()
			if err != nil {
				return nil, err
			}
			list = append(list, box.NewVSkipElem(g))
			continue
		}

		isHBox, err := p.peekIsPrimitive("hbox")
		if err != nil {
			return nil, err
		}
		if isHBox {
			if _, err := p.LexExpandedToken(); err != nil {
				return nil, err
			}
			b, err := p.ParseHBoxPrimitive()
			if err != nil {
				return nil, err
			}
			list = append(list, box.NewVBoxElem(b, dimen.Zero()))
			continue
		}

		isVBox, err := p.peekIsPrimitive("vbox")
		if err != nil {
			return nil, err
		}
		if isVBox {
			if _, err := p.LexExpandedToken(); err != nil {
				return nil, err
			}
			b, err := p.ParseVBoxPrimitive()
			if err != nil {
				return nil, err
			}
			list = append(list, box.NewVBoxElem(b, dimen.Zero()))
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
			if _, err := p.LexExpandedToken(); err != nil {
				return nil, err
			}
			p.state.PushGroup()
			inner, err := p.ParseVerticalList()
			if err != nil {
				p.state.PopGroup()
				return nil, err
			}
			if err := p.state.PopGroup(); err != nil {
				return nil, err
			}
			list = append(list, inner...)

		case tok.IsChar(token.EndGroup):
			if _, err := p.LexExpandedToken(); err != nil {
				return nil, err
			}
			return list, nil

		case tok.IsChar(token.Space):
			if _, err := p.LexExpandedToken(); err != nil {
				return nil, err
			}

		default:
			return nil, wrapUnexpected(tok)
		}
	}
}
