package state

import (
	"testing"

	"github.com/go-typeset/typeset/token"
)

func TestCorrectlySetsCategories(t *testing.T) {
	s := New()
	if got := s.CatCode('@'); got != token.Other {
		t.Fatalf("default category of '@' = %v, want Other", got)
	}
	s.SetCatCode(false, '@', token.Letter)
	if got := s.CatCode('@'); got != token.Letter {
		t.Fatalf("category of '@' after SetCatCode = %v, want Letter", got)
	}
}

func TestGroupScopingReverts(t *testing.T) {
	s := New()
	s.PushGroup()
	s.SetCatCode(false, '@', token.Letter)
	if got := s.CatCode('@'); got != token.Letter {
		t.Fatalf("category inside group = %v, want Letter", got)
	}
	if err := s.PopGroup(); err != nil {
		t.Fatalf("PopGroup: %v", err)
	}
	if got := s.CatCode('@'); got != token.Other {
		t.Fatalf("category after PopGroup = %v, want Other (reverted)", got)
	}
}

func TestGlobalAssignmentSurvivesPop(t *testing.T) {
	s := New()
	s.PushGroup()
	s.SetCatCode(true, '@', token.Letter)
	if err := s.PopGroup(); err != nil {
		t.Fatalf("PopGroup: %v", err)
	}
	if got := s.CatCode('@'); got != token.Letter {
		t.Fatalf("category after global set + pop = %v, want Letter", got)
	}
}

func TestPopGroupUnderflow(t *testing.T) {
	s := New()
	if err := s.PopGroup(); err == nil {
		t.Fatal("expected an error popping the bottom frame")
	}
}

func TestLetAliasesConditionalPrimitives(t *testing.T) {
	s := New()
	s.SetLet(false, "iftruex", token.CS("iftrue"))
	if !s.IsTokenEqualToCS(token.CS("iftruex"), "iftrue") {
		t.Fatal("expected iftruex to resolve to iftrue via \\let")
	}
}

func TestMacroValidation(t *testing.T) {
	if _, err := NewMacro(
		[]MacroListElem{ElemParam(2), ElemParam(1)},
		nil,
	); err == nil {
		t.Fatal("expected out-of-order parameter error")
	}

	if _, err := NewMacro(
		[]MacroListElem{ElemParam(1)},
		[]MacroListElem{ElemParam(1), ElemParam(2)},
	); err == nil {
		t.Fatal("expected out-of-range replacement parameter error")
	}
}

func TestMacroReplacement(t *testing.T) {
	m, err := NewMacro(
		[]MacroListElem{ElemParam(1), ElemParam(2)},
		[]MacroListElem{ElemParam(2), ElemTok(token.CS("boo")), ElemParam(1)},
	)
	if err != nil {
		t.Fatalf("NewMacro: %v", err)
	}

	values := map[int][]token.Token{
		1: {token.CS("c")},
		2: {token.CS("a"), token.CS("b")},
	}
	got, err := m.Replacement(values)
	if err != nil {
		t.Fatalf("Replacement: %v", err)
	}
	want := []token.Token{token.CS("a"), token.CS("b"), token.CS("boo"), token.CS("c")}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range got {
		if !got[i].Equal(want[i]) {
			t.Errorf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRegisters(t *testing.T) {
	s := New()
	if err := s.SetCount(false, 5, 42); err != nil {
		t.Fatalf("SetCount: %v", err)
	}
	v, err := s.GetCount(5)
	if err != nil {
		t.Fatalf("GetCount: %v", err)
	}
	if v != 42 {
		t.Fatalf("GetCount(5) = %d, want 42", v)
	}
	if _, err := s.GetCount(999); err == nil {
		t.Fatal("expected an out-of-range error")
	}
}
