package parse

import (
	"fmt"
	"io"

	"github.com/go-typeset/typeset/state"
	"github.com/go-typeset/typeset/token"
)

// singleTokenGroupKind distinguishes a bare token from a balanced {...}
// group when the parser reads one argument's worth of input.
type singleTokenGroupKind int

const (
	groupSingleToken singleTokenGroupKind = iota
	groupBalanced
)

type singleTokenGroup struct {
	kind  singleTokenGroupKind
	open  token.Token   // valid when kind == groupBalanced
	inner []token.Token // valid when kind == groupBalanced
	close token.Token   // valid when kind == groupBalanced
	tok   token.Token   // valid when kind == groupSingleToken
}

// parseBalancedText reads tokens up to (and including) the end-group token
// that closes the current nesting level, keeping nested {...} groups intact
// in the returned slice. It returns the tokens inside the outermost group
// and that closing token.
func (p *Parser) parseBalancedText() ([]token.Token, token.Token, error) {
	var result []token.Token
	depth := 0
	for {
		tok, err := p.LexUnexpandedToken()
		if err != nil {
			return nil, token.Token{}, err
		}
		switch {
		case tok.IsChar(token.BeginGroup):
			depth++
			result = append(result, tok)
		case tok.IsChar(token.EndGroup):
			if depth == 0 {
				return result, tok, nil
			}
			depth--
			result = append(result, tok)
		default:
			result = append(result, tok)
		}
	}
}

func (p *Parser) parseSingleTokenOrBalancedText() (singleTokenGroup, error) {
	tok, err := p.LexUnexpandedToken()
	if err != nil {
		return singleTokenGroup{}, err
	}
	if tok.IsChar(token.BeginGroup) {
		inner, close, err := p.parseBalancedText()
		if err != nil {
			return singleTokenGroup{}, err
		}
		return singleTokenGroup{kind: groupBalanced, open: tok, inner: inner, close: close}, nil
	}
	return singleTokenGroup{kind: groupSingleToken, tok: tok}, nil
}

func (p *Parser) parseSingleTokenOrBalancedTextUnwrapped() ([]token.Token, error) {
	g, err := p.parseSingleTokenOrBalancedText()
	if err != nil {
		return nil, err
	}
	if g.kind == groupBalanced {
		return g.inner, nil
	}
	return []token.Token{g.tok}, nil
}

// parseDelimitedTokens reads tokens/balanced groups until the upcoming
// input matches delimiters in sequence, then returns everything read before
// the match (the delimiters themselves are consumed but not returned).
func (p *Parser) parseDelimitedTokens(delimiters []state.MacroListElem) ([]token.Token, error) {
	var result []token.Token
	var buffer []token.Token
	delimIndex := 0

	for delimIndex < len(delimiters) {
		expected := delimiters[delimIndex].Tok

		if expected.IsChar(token.BeginGroup) {
			check, err := p.LexUnexpandedToken()
			if err != nil {
				return nil, err
			}
			if check.Equal(expected) {
				delimIndex++
				buffer = append(buffer, check)
			} else {
				delimIndex = 0
				result = append(result, buffer...)
				buffer = nil
				result = append(result, check)
			}
			continue
		}

		g, err := p.parseSingleTokenOrBalancedText()
		if err != nil {
			return nil, err
		}
		switch g.kind {
		case groupSingleToken:
			if g.tok.Equal(expected) {
				delimIndex++
				buffer = append(buffer, g.tok)
			} else {
				delimIndex = 0
				result = append(result, buffer...)
				buffer = nil
				result = append(result, g.tok)
			}
		case groupBalanced:
			delimIndex = 0
			result = append(result, buffer...)
			buffer = nil
			result = append(result, g.open)
			result = append(result, g.inner...)
			result = append(result, g.close)
		}
	}

	return result, nil
}

func nextNonTokenIndex(m *state.Macro, paramIndex int) int {
	end := paramIndex + 1
	for end < len(m.ParameterList) && !m.ParameterList[end].IsParam {
		end++
	}
	return end
}

// parseReplacementMap matches the macro's parameter list against the
// upcoming input, returning the token list bound to each parameter number.
func (p *Parser) parseReplacementMap(m *state.Macro) (map[int][]token.Token, error) {
	replacementMap := map[int][]token.Token{}

	index := 0
	for index < len(m.ParameterList) {
		elem := m.ParameterList[index]

		if elem.IsParam {
			isDelimited := index+1 < len(m.ParameterList) && !m.ParameterList[index+1].IsParam
			var toks []token.Token
			var err error
			if isDelimited {
				delimEnd := nextNonTokenIndex(m, index)
				toks, err = p.parseDelimitedTokens(m.ParameterList[index+1 : delimEnd])
				index = delimEnd
			} else {
				index++
				if err = p.parseOptionalSpaces(); err == nil {
					toks, err = p.parseSingleTokenOrBalancedTextUnwrapped()
				}
			}
			if err != nil {
				return nil, err
			}
			replacementMap[elem.Param] = toks
			continue
		}

		found, err := p.LexUnexpandedToken()
		if err != nil {
			return nil, err
		}
		if !found.Equal(elem.Tok) {
			return nil, fmt.Errorf("%w: found %v looking for parameter text, expected %v", ErrUnexpectedToken, found, elem.Tok)
		}
		index++
	}

	return replacementMap, nil
}

func parseParameterNumber(ch rune) (int, error) {
	if ch >= '1' && ch <= '9' {
		return int(ch - '0'), nil
	}
	return 0, fmt.Errorf("invalid number after parameter: %q: %w", ch, ErrUnexpectedToken)
}

// ParseMacroDefinition parses a \def-style parameter list and replacement
// list (the text after the macro's name, up to and including the closing
// brace of the replacement list) into a Macro.
func (p *Parser) ParseMacroDefinition() (*state.Macro, error) {
	var parameterList []state.MacroListElem
	var maybeFinalTok *token.Token

paramLoop:
	for {
		tok, err := p.LexUnexpandedToken()
		if err == io.EOF {
			return nil, fmt.Errorf("EOF found while parsing macro definition: %w", ErrUnexpectedToken)
		}
		if err != nil {
			return nil, err
		}
		switch {
		case tok.IsChar(token.BeginGroup):
			break paramLoop
		case tok.IsChar(token.Parameter):
			next, err := p.LexUnexpandedToken()
			if err != nil {
				return nil, err
			}
			switch {
			case next.IsChar(token.BeginGroup):
				parameterList = append(parameterList, state.ElemTok(next))
				maybeFinalTok = &next
				break paramLoop
			case next.IsChar(token.Other):
				n, err := parseParameterNumber(next.Char)
				if err != nil {
					return nil, err
				}
				parameterList = append(parameterList, state.ElemParam(n))
			default:
				return nil, fmt.Errorf("invalid token found after parameter: %w", ErrUnexpectedToken)
			}
		default:
			parameterList = append(parameterList, state.ElemTok(tok))
		}
	}

	var replacementList []state.MacroListElem
	depth := 0
	for {
		tok, err := p.LexUnexpandedToken()
		if err == io.EOF {
			return nil, fmt.Errorf("EOF found parsing macro definition: %w", ErrUnexpectedToken)
		}
		if err != nil {
			return nil, err
		}
		switch {
		case tok.IsChar(token.EndGroup):
			if depth == 0 {
				goto done
			}
			replacementList = append(replacementList, state.ElemTok(tok))
			depth--
		case tok.IsChar(token.BeginGroup):
			replacementList = append(replacementList, state.ElemTok(tok))
			depth++
		case tok.IsChar(token.Parameter):
			next, err := p.LexUnexpandedToken()
			if err != nil {
				return nil, err
			}
			switch {
			case next.IsChar(token.Parameter):
				replacementList = append(replacementList, state.ElemTok(next))
			case next.IsChar(token.Other):
				n, err := parseParameterNumber(next.Char)
				if err != nil {
					return nil, err
				}
				replacementList = append(replacementList, state.ElemParam(n))
			default:
				return nil, fmt.Errorf("invalid token found after parameter: %w", ErrUnexpectedToken)
			}
		default:
			replacementList = append(replacementList, state.ElemTok(tok))
		}
	}
done:

	if maybeFinalTok != nil {
		replacementList = append(replacementList, state.ElemTok(*maybeFinalTok))
	}

	return state.NewMacro(parameterList, replacementList)
}
