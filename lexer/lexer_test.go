package lexer

import (
	"io"
	"testing"

	"github.com/go-typeset/typeset/token"
)

// testCatCode is a minimal category table sufficient to exercise the lexer
// in isolation, independent of state.State's fuller default table.
func testCatCode(ch rune) token.Category {
	switch ch {
	case '^':
		return token.Superscript
	case '%':
		return token.Comment
	case '\\':
		return token.Escape
	case '\n':
		return token.EndOfLine
	case '{':
		return token.BeginGroup
	case '}':
		return token.EndGroup
	case ' ':
		return token.Space
	case 0:
		return token.Ignored
	case 0xff:
		return token.Invalid
	default:
		return token.Letter
	}
}

func lexAll(t *testing.T, lines []string) []token.Token {
	t.Helper()
	l := New(lines, testCatCode)
	var toks []token.Token
	for {
		tok, err := l.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		toks = append(toks, tok)
	}
	return toks
}

func TestLexer(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  []token.Token
	}{
		{"char tokens", []string{"a%"}, []token.Token{
			token.Chr('a', token.Letter),
		}},
		{"multiple tokens", []string{"ab%"}, []token.Token{
			token.Chr('a', token.Letter), token.Chr('b', token.Letter),
		}},
		{"control sequences", []string{"\\ab%"}, []token.Token{
			token.CS("ab"),
		}},
		{"single char control sequence", []string{"\\@%"}, []token.Token{
			token.CS("@"),
		}},
		{"ignored tokens", []string{"a\x00b%"}, []token.Token{
			token.Chr('a', token.Letter), token.Chr('b', token.Letter),
		}},
		{"char trigraph", []string{"^^:%"}, []token.Token{
			token.Chr('z', token.Letter),
		}},
		{"recursive trigraph", []string{"^^\x1e^:%"}, []token.Token{
			token.Chr('z', token.Letter),
		}},
		{"hex trigraph", []string{"^^7a%"}, []token.Token{
			token.Chr('z', token.Letter),
		}},
		{"non-hex falls back to char trigraph", []string{"^^7g%"}, []token.Token{
			token.Chr('w', token.Letter), token.Chr('g', token.Letter),
		}},
		{"leading spaces ignored", []string{"  a%"}, []token.Token{
			token.Chr('a', token.Letter),
		}},
		{"trailing space included", []string{"a "}, []token.Token{
			token.Chr('a', token.Letter), token.Chr(' ', token.Space),
		}},
		{"space after control sequence ignored", []string{"\\a \\abc \\  %"}, []token.Token{
			token.CS("a"), token.CS("abc"), token.CS(" "),
		}},
		{"multiple spaces condensed", []string{" a  ", " a%"}, []token.Token{
			token.Chr('a', token.Letter), token.Chr(' ', token.Space), token.Chr('a', token.Letter),
		}},
		{"double newline becomes par", []string{"a%", "", "a%"}, []token.Token{
			token.Chr('a', token.Letter), token.CS("par"), token.Chr('a', token.Letter),
		}},
		{"comments ignored", []string{"a%b"}, []token.Token{
			token.Chr('a', token.Letter),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lexAll(t, tt.lines)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d tokens %v, want %d %v", len(got), got, len(tt.want), tt.want)
			}
			for i := range got {
				if !got[i].Equal(tt.want[i]) {
					t.Errorf("token %d: got %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLexerInvalidCharacter(t *testing.T) {
	l := New([]string{"ÿ"}, testCatCode)
	_, err := l.Next()
	if err == nil {
		t.Fatal("expected an error for an invalid-category character")
	}
}
