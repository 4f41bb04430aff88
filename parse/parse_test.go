package parse

import (
	"io"
	"testing"

	"github.com/go-typeset/typeset/dimen"
	"github.com/go-typeset/typeset/lexer"
	"github.com/go-typeset/typeset/state"
	"github.com/go-typeset/typeset/token"
)

func newTestParser(lines []string) *Parser {
	st := state.New()
	lex := lexer.New(lines, st.CatCode)
	return New(lex, st)
}

func TestLexUnexpandedToken(t *testing.T) {
	p := newTestParser([]string{"a%"})
	tok, err := p.LexUnexpandedToken()
	if err != nil {
		t.Fatalf("LexUnexpandedToken: %v", err)
	}
	if !tok.Equal(token.Chr('a', token.Letter)) {
		t.Fatalf("got %v, want 'a'", tok)
	}
	if _, err := p.LexUnexpandedToken(); err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestPeekUnexpandedToken(t *testing.T) {
	p := newTestParser([]string{"a%"})
	peeked, err := p.PeekUnexpandedToken()
	if err != nil {
		t.Fatalf("PeekUnexpandedToken: %v", err)
	}
	lexed, err := p.LexUnexpandedToken()
	if err != nil {
		t.Fatalf("LexUnexpandedToken: %v", err)
	}
	if !peeked.Equal(lexed) {
		t.Fatalf("peek %v != lex %v", peeked, lexed)
	}
}

func TestExpandsMacros(t *testing.T) {
	p := newTestParser([]string{"\\a{ab}%"})
	m, err := state.NewMacro(
		[]state.MacroListElem{state.ElemParam(1)},
		[]state.MacroListElem{
			state.ElemTok(token.Chr('x', token.Letter)),
			state.ElemParam(1), state.ElemParam(1),
		},
	)
	if err != nil {
		t.Fatalf("NewMacro: %v", err)
	}
	p.State().SetMacro(false, "a", m)

	want := []token.Token{
		token.Chr('x', token.Letter), token.Chr('a', token.Letter), token.Chr('b', token.Letter),
		token.Chr('a', token.Letter), token.Chr('b', token.Letter),
	}
	for i, w := range want {
		got, err := p.LexExpandedToken()
		if err != nil {
			t.Fatalf("token %d: %v", i, err)
		}
		if !got.Equal(w) {
			t.Errorf("token %d: got %v, want %v", i, got, w)
		}
	}
	if _, err := p.LexExpandedToken(); err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestConditionalTrueFalse(t *testing.T) {
	p := newTestParser([]string{"\\iftrue x\\else y\\fi%"})
	head, err := p.IsConditionalHead()
	if err != nil || !head {
		t.Fatalf("IsConditionalHead = %v, %v", head, err)
	}
	if err := p.ExpandConditional(); err != nil {
		t.Fatalf("ExpandConditional: %v", err)
	}
	tok, err := p.LexUnexpandedToken()
	if err != nil || !tok.Equal(token.Chr('x', token.Letter)) {
		t.Fatalf("got %v, %v, want 'x'", tok, err)
	}
	if err := p.ExpandConditional(); err != nil {
		t.Fatalf("ExpandConditional (fi): %v", err)
	}
	if _, err := p.LexUnexpandedToken(); err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
}

func TestParseNumber(t *testing.T) {
	p := newTestParser([]string{"-123 %"})
	n, err := p.ParseNumber()
	if err != nil {
		t.Fatalf("ParseNumber: %v", err)
	}
	if n != -123 {
		t.Fatalf("ParseNumber = %d, want -123", n)
	}
}

func TestParseDimenBasicUnits(t *testing.T) {
	p := newTestParser([]string{"1pt%"})
	d, err := p.ParseDimen()
	if err != nil {
		t.Fatalf("ParseDimen: %v", err)
	}
	want, _ := dimen.FromUnit(1.0, dimen.Point)
	if d != want {
		t.Fatalf("ParseDimen = %v, want %v", d, want)
	}
}

func TestParseGlueWithStretchAndShrink(t *testing.T) {
	p := newTestParser([]string{"1pt plus 2pt minus 3pt %"})
	g, err := p.ParseGlue()
	if err != nil {
		t.Fatalf("ParseGlue: %v", err)
	}
	wantSpace, _ := dimen.FromUnit(1.0, dimen.Point)
	wantStretch, _ := dimen.FromUnit(2.0, dimen.Point)
	wantShrink, _ := dimen.FromUnit(3.0, dimen.Point)
	if g.Space != wantSpace {
		t.Errorf("space = %v, want %v", g.Space, wantSpace)
	}
	if g.Stretch.IsFil || g.Stretch.Dimen != wantStretch {
		t.Errorf("stretch = %v, want %v", g.Stretch, wantStretch)
	}
	if g.Shrink.IsFil || g.Shrink.Dimen != wantShrink {
		t.Errorf("shrink = %v, want %v", g.Shrink, wantShrink)
	}
}

func TestDefAndLetAssignment(t *testing.T) {
	p := newTestParser([]string{"\\def\\a#1{x#1#1}\\a{bc}%"})
	if err := p.ParseAssignment(); err != nil {
		t.Fatalf("ParseAssignment (\\def): %v", err)
	}
	want := []token.Token{
		token.Chr('x', token.Letter), token.Chr('b', token.Letter), token.Chr('c', token.Letter),
		token.Chr('b', token.Letter), token.Chr('c', token.Letter),
	}
	for i, w := range want {
		got, err := p.LexExpandedToken()
		if err != nil {
			t.Fatalf("token %d: %v", i, err)
		}
		if !got.Equal(w) {
			t.Errorf("token %d: got %v, want %v", i, got, w)
		}
	}
}

func TestCountAssignmentAndArithmetic(t *testing.T) {
	p := newTestParser([]string{"\\count0=5 \\advance\\count0 by 3 %"})
	if err := p.ParseAssignment(); err != nil {
		t.Fatalf("ParseAssignment (\\count): %v", err)
	}
	if err := p.ParseAssignment(); err != nil {
		t.Fatalf("ParseAssignment (\\advance): %v", err)
	}
	v, err := p.State().GetCount(0)
	if err != nil {
		t.Fatalf("GetCount: %v", err)
	}
	if v != 8 {
		t.Fatalf("GetCount(0) = %d, want 8", v)
	}
}
