package parse

import (
	"testing"

	"github.com/go-typeset/typeset/box"
	"github.com/go-typeset/typeset/dimen"
	"github.com/go-typeset/typeset/lexer"
	"github.com/go-typeset/typeset/state"
)

// stubMetrics gives every character the same width/height/depth, enough
// to exercise box assembly without a real font backend.
type stubMetrics struct{}

func (stubMetrics) Width(r rune) dimen.Dimen  { return testPt(10) }
func (stubMetrics) Height(r rune) dimen.Dimen { return testPt(7) }
func (stubMetrics) Depth(r rune) dimen.Dimen  { return testPt(2) }
func (stubMetrics) DesignSize() dimen.Dimen   { return testPt(10) }
func (stubMetrics) Param(k int) dimen.Dimen {
	if k == 2 { // space
		return testPt(4)
	}
	return dimen.Zero()
}

// stubFontSource resolves any font name to stubMetrics at the requested
// scale (0 meaning "design size").
type stubFontSource struct{}

func (stubFontSource) Font(name string, scale dimen.Dimen) (box.Font, error) {
	if scale == dimen.Zero() {
		scale = testPt(10)
	}
	return box.Font{Name: name, Scale: scale, Metrics: stubMetrics{}}, nil
}

func testPt(n float64) dimen.Dimen {
	d, err := dimen.FromUnit(n, dimen.Point)
	if err != nil {
		panic(err)
	}
	return d
}

func newBoxTestParser(lines []string) *Parser {
	st := state.New()
	lex := lexer.New(lines, st.CatCode)
	p := New(lex, st)
	p.SetFontSource(stubFontSource{})
	return p
}

func TestParseHorizontalListCharsAndSkip(t *testing.T) {
	p := newBoxTestParser([]string{"\\font\\f=cmr10 \\f ab\\hskip 3pt c%"})
	list, err := p.ParseHorizontalList()
	if err != nil {
		t.Fatalf("ParseHorizontalList: %v", err)
	}
	if len(list) != 4 {
		t.Fatalf("len(list) = %d, want 4 (a, b, hskip, c)", len(list))
	}
	if list[0].Kind != box.HChar || list[0].Char != 'a' {
		t.Errorf("list[0] = %+v, want char 'a'", list[0])
	}
	if list[0].Font.Name != "cmr10" {
		t.Errorf("list[0].Font.Name = %q, want cmr10", list[0].Font.Name)
	}
	if list[1].Kind != box.HChar || list[1].Char != 'b' {
		t.Errorf("list[1] = %+v, want char 'b'", list[1])
	}
	if list[2].Kind != box.HSkip {
		t.Errorf("list[2] = %+v, want hskip", list[2])
	}
	want3pt, _ := dimen.FromUnit(3.0, dimen.Point)
	if list[2].Skip.Space != want3pt {
		t.Errorf("list[2].Skip.Space = %v, want 3pt", list[2].Skip.Space)
	}
	if list[3].Kind != box.HChar || list[3].Char != 'c' {
		t.Errorf("list[3] = %+v, want char 'c'", list[3])
	}
}

func TestParseHorizontalListSpaceUsesFontSpaceGlue(t *testing.T) {
	p := newBoxTestParser([]string{"\\font\\f=cmr10 \\f a b%"})
	list, err := p.ParseHorizontalList()
	if err != nil {
		t.Fatalf("ParseHorizontalList: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("len(list) = %d, want 3 (a, space, b)", len(list))
	}
	if list[1].Kind != box.HSkip {
		t.Fatalf("list[1] = %+v, want hskip (space)", list[1])
	}
	wantSpace := testPt(4)
	if list[1].Skip.Space != wantSpace {
		t.Errorf("space glue = %v, want %v", list[1].Skip.Space, wantSpace)
	}
}

func TestParseHorizontalListWithoutCurrentFontFails(t *testing.T) {
	p := newBoxTestParser([]string{"a%"})
	if _, err := p.ParseHorizontalList(); err != ErrNoCurrentFont {
		t.Fatalf("ParseHorizontalList = %v, want ErrNoCurrentFont", err)
	}
}

func TestParseNestedHBoxElem(t *testing.T) {
	p := newBoxTestParser([]string{"\\font\\f=cmr10 \\f a\\hbox{b}%"})
	list, err := p.ParseHorizontalList()
	if err != nil {
		t.Fatalf("ParseHorizontalList: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len(list) = %d, want 2 (a, hbox)", len(list))
	}
	if list[1].Kind != box.HBoxElem {
		t.Fatalf("list[1].Kind = %v, want HBoxElem", list[1].Kind)
	}
	inner, ok := list[1].Box.(*box.HBox)
	if !ok {
		t.Fatalf("list[1].Box = %T, want *box.HBox", list[1].Box)
	}
	if len(inner.List) != 1 || inner.List[0].Char != 'b' {
		t.Errorf("inner hbox list = %+v, want single char 'b'", inner.List)
	}
}

func TestParseHBoxPrimitiveToWidthSetsGlue(t *testing.T) {
	p := newBoxTestParser([]string{"\\font\\f=cmr10 \\f \\hbox to 30pt{a\\hskip 0pt plus 1fil b}%"})
	list, err := p.ParseHorizontalList()
	if err != nil {
		t.Fatalf("ParseHorizontalList: %v", err)
	}
	if len(list) != 1 || list[0].Kind != box.HBoxElem {
		t.Fatalf("list = %+v, want a single hbox element", list)
	}
	inner, ok := list[0].Box.(*box.HBox)
	if !ok {
		t.Fatalf("list[0].Box = %T, want *box.HBox", list[0].Box)
	}
	want30pt, _ := dimen.FromUnit(30.0, dimen.Point)
	if inner.Width() != want30pt {
		t.Errorf("inner.Width() = %v, want 30pt", inner.Width())
	}
	if inner.GlueSetRatio == nil {
		t.Fatal("expected a glue set ratio for the fil stretch to absorb the shortfall")
	}
}

func TestParseVerticalListSkipAndNestedBoxes(t *testing.T) {
	p := newBoxTestParser([]string{"\\font\\f=cmr10 \\f \\vskip 5pt\\hbox{a}\\vbox{\\vskip 1pt}%"})
	list, err := p.ParseVerticalList()
	if err != nil {
		t.Fatalf("ParseVerticalList: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("len(list) = %d, want 3 (vskip, hbox, vbox)", len(list))
	}
	if list[0].Kind != box.VSkip {
		t.Errorf("list[0].Kind = %v, want VSkip", list[0].Kind)
	}
	want5pt, _ := dimen.FromUnit(5.0, dimen.Point)
	if list[0].Skip.Space != want5pt {
		t.Errorf("list[0].Skip.Space = %v, want 5pt", list[0].Skip.Space)
	}
	if list[1].Kind != box.VBoxElem {
		t.Errorf("list[1].Kind = %v, want VBoxElem", list[1].Kind)
	}
	if _, ok := list[1].Box.(*box.HBox); !ok {
		t.Errorf("list[1].Box = %T, want *box.HBox", list[1].Box)
	}
	if list[2].Kind != box.VBoxElem {
		t.Errorf("list[2].Kind = %v, want VBoxElem", list[2].Kind)
	}
	if _, ok := list[2].Box.(*box.VBox); !ok {
		t.Errorf("list[2].Box = %T, want *box.VBox", list[2].Box)
	}
}

func TestParseVerticalListRejectsBareCharacter(t *testing.T) {
	p := newBoxTestParser([]string{"\\font\\f=cmr10 \\f a%"})
	if _, err := p.ParseVerticalList(); err == nil {
		t.Fatal("ParseVerticalList should reject a bare character")
	}
}

func TestFontScaledAtAppliesRequestedSize(t *testing.T) {
	p := newBoxTestParser([]string{"\\font\\f=cmr10 at 12pt\\f a%"})
	list, err := p.ParseHorizontalList()
	if err != nil {
		t.Fatalf("ParseHorizontalList: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("len(list) = %d, want 1", len(list))
	}
	want12pt, _ := dimen.FromUnit(12.0, dimen.Point)
	if list[0].Font.Scale != want12pt {
		t.Errorf("Font.Scale = %v, want 12pt", list[0].Font.Scale)
	}
}

func TestFontScaledByMagnificationAppliesRatio(t *testing.T) {
	p := newBoxTestParser([]string{"\\font\\f=cmr10 scaled 2000\\f a%"})
	list, err := p.ParseHorizontalList()
	if err != nil {
		t.Fatalf("ParseHorizontalList: %v", err)
	}
	want20pt, _ := dimen.FromUnit(20.0, dimen.Point)
	if list[0].Font.Scale != want20pt {
		t.Errorf("Font.Scale = %v, want 20pt (cmr10 design 10pt scaled 2000)", list[0].Font.Scale)
	}
}
