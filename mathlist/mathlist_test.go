package mathlist

import "testing"

func TestAtomKindString(t *testing.T) {
	if got := Ord.String(); got != "Ord" {
		t.Errorf("Ord.String() = %q, want %q", got, "Ord")
	}
	if got := AtomKind(99).String(); got != "AtomKind(99)" {
		t.Errorf("invalid AtomKind.String() = %q, want %q", got, "AtomKind(99)")
	}
}

func TestMathStyleIsScript(t *testing.T) {
	cases := []struct {
		style MathStyle
		want  bool
	}{
		{Display, false},
		{Text, false},
		{TextPrime, false},
		{Script, true},
		{ScriptPrime, true},
		{ScriptScript, true},
		{ScriptScriptPrime, true},
	}
	for _, c := range cases {
		if got := c.style.IsScript(); got != c.want {
			t.Errorf("%v.IsScript() = %v, want %v", c.style, got, c.want)
		}
	}
}

func TestMathStylePrime(t *testing.T) {
	cases := []struct {
		style MathStyle
		want  MathStyle
	}{
		{Display, DisplayPrime},
		{DisplayPrime, DisplayPrime},
		{Text, TextPrime},
		{Script, ScriptPrime},
		{ScriptScript, ScriptScriptPrime},
	}
	for _, c := range cases {
		if got := c.style.Prime(); got != c.want {
			t.Errorf("%v.Prime() = %v, want %v", c.style, got, c.want)
		}
	}
}

func TestMathStyleUpArrowUnprimedDownArrowPrimed(t *testing.T) {
	cases := []struct {
		style      MathStyle
		wantUp     MathStyle
		wantDown   MathStyle
	}{
		{Display, Script, ScriptPrime},
		{Text, Script, ScriptPrime},
		{Script, ScriptScript, ScriptScriptPrime},
		{ScriptScriptPrime, ScriptScript, ScriptScriptPrime},
	}
	for _, c := range cases {
		if got := c.style.UpArrow(); got != c.wantUp {
			t.Errorf("%v.UpArrow() = %v, want %v", c.style, got, c.wantUp)
		}
		if got := c.style.DownArrow(); got != c.wantDown {
			t.Errorf("%v.DownArrow() = %v, want %v", c.style, got, c.wantDown)
		}
	}
}

func TestMathAtomScriptBinding(t *testing.T) {
	atom := EmptyOrd()
	if atom.HasSuperscript() || atom.HasSubscript() {
		t.Fatal("fresh EmptyOrd must have no scripts")
	}

	field := SymbolField(MathSymbol{Family: 1, Position: 'x'})
	atom = atom.WithSuperscript(field)
	if !atom.HasSuperscript() {
		t.Error("WithSuperscript did not set the superscript")
	}
	if atom.HasSubscript() {
		t.Error("WithSuperscript must not affect the subscript")
	}
	if atom.Superscript.Symbol != (MathSymbol{Family: 1, Position: 'x'}) {
		t.Errorf("Superscript = %+v, want the field passed in", atom.Superscript)
	}

	atom = atom.WithSubscript(field)
	if !atom.HasSubscript() {
		t.Error("WithSubscript did not set the subscript")
	}
}

func TestWithNucleusDoesNotAliasCaller(t *testing.T) {
	field := SymbolField(MathSymbol{Family: 0, Position: 'a'})
	atom := MathAtom{Kind: Ord}.WithNucleus(field)
	field.Symbol.Position = 'b'
	if atom.Nucleus.Symbol.Position != 'a' {
		t.Errorf("WithNucleus aliased the caller's field; got %q, want 'a'", atom.Nucleus.Symbol.Position)
	}
}
