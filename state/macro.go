package state

import (
	"fmt"

	"github.com/go-typeset/typeset/token"
)

// MacroListElem is one element of a macro's parameter list or replacement
// list: either a literal token to match/emit, or a reference to the Nth
// matched parameter.
type MacroListElem struct {
	IsParam bool
	Param   int
	Tok     token.Token
}

// ElemTok wraps a literal token as a MacroListElem.
func ElemTok(t token.Token) MacroListElem { return MacroListElem{Tok: t} }

// ElemParam wraps a 1-based parameter index as a MacroListElem.
func ElemParam(n int) MacroListElem { return MacroListElem{IsParam: true, Param: n} }

// Macro is a \def-style macro: a parameter-matching pattern and a
// replacement text built from literal tokens and parameter references.
type Macro struct {
	ParameterList   []MacroListElem
	ReplacementList []MacroListElem
	numParams       int
}

// NewMacro validates and builds a Macro. Parameters in the parameter list
// must appear in order 1, 2, 3, ...; every parameter reference in the
// replacement list must be within that range.
func NewMacro(parameterList, replacementList []MacroListElem) (*Macro, error) {
	numParams := 0
	for _, elem := range parameterList {
		if elem.IsParam {
			numParams++
			if elem.Param != numParams {
				return nil, fmt.Errorf("state: out-of-order parameter %d in macro parameter list", elem.Param)
			}
		}
	}
	for _, elem := range replacementList {
		if elem.IsParam && elem.Param > numParams {
			return nil, fmt.Errorf("state: parameter %d in replacement text outside of range", elem.Param)
		}
	}
	return &Macro{ParameterList: parameterList, ReplacementList: replacementList, numParams: numParams}, nil
}

// NumParams is the number of distinct parameters the macro's pattern binds.
func (m *Macro) NumParams() int { return m.numParams }

// Replacement expands the macro's replacement list given a set of matched
// parameter values, substituting each parameter reference with its bound
// token list.
func (m *Macro) Replacement(values map[int][]token.Token) ([]token.Token, error) {
	var out []token.Token
	for _, elem := range m.ReplacementList {
		if elem.IsParam {
			toks, ok := values[elem.Param]
			if !ok {
				return nil, fmt.Errorf("state: missing parameter %d in replacement", elem.Param)
			}
			out = append(out, toks...)
			continue
		}
		out = append(out, elem.Tok)
	}
	return out, nil
}
