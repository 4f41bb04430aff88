package dvi

import (
	"errors"
	"fmt"
)

// ErrStackUnderflow is returned by Pop on a single-record stack.
var ErrStackUnderflow = errors.New("dvi: pop on single-record position stack")

// ErrPreambleMismatch is returned when a Pre command's numeric parameters
// don't match the classical fixed values.
var ErrPreambleMismatch = errors.New("dvi: preamble parameters do not match expected values")

// Expected classical preamble values: num/den × 10⁻⁷ m per DVI unit,
// which at 25400000/473628672 and mag 1000 makes one unit a scaled point.
const (
	ExpectedFormat = 2
	ExpectedNum    = 25_400_000
	ExpectedDen    = 473_628_672
	ExpectedMag    = 1000
)

// FontMetrics is the subset of a font metric oracle the interpreter needs
// to advance the cursor when placing characters.
type FontMetrics interface {
	Width(ch rune) (int32, error)
}

// FontResolver loads font metrics for a registered font definition.
type FontResolver interface {
	Resolve(name string, checksum uint32, scale, designSize int32) (FontMetrics, error)
}

// FontEntry records one FntDef registration.
type FontEntry struct {
	Name       string
	Checksum   uint32
	Scale      int32
	DesignSize int32
	Metrics    FontMetrics
}

// Position is a placement coordinate pair.
type Position struct{ H, V int32 }

// Placement is one glyph placed at a position.
type Placement struct {
	Char int32
	Font string
}

// Page is the output of interpreting one Bop..Eop span: a map from
// position to the set of distinct placements made there (a set so
// coincident characters at the same spot deduplicate, per the classical
// semantics).
type Page struct {
	Counters [10]int32
	Output   map[Position]map[Placement]struct{}
}

func newPage(counters [10]int32) *Page {
	return &Page{Counters: counters, Output: make(map[Position]map[Placement]struct{})}
}

func (pg *Page) add(pos Position, pl Placement) {
	set, ok := pg.Output[pos]
	if !ok {
		set = make(map[Placement]struct{})
		pg.Output[pos] = set
	}
	set[pl] = struct{}{}
}

type stackRecord struct{ h, v, w, x, y, z int32 }

// Interpreter runs a command stream as the classical stack machine and
// collects a page sequence.
type Interpreter struct {
	resolver FontResolver

	fonts       map[int32]*FontEntry
	currentFont int32
	stack       []stackRecord

	maxStackDepth int
	pages         []*Page
	postSeen      bool
}

// NewInterpreter returns an Interpreter that resolves FntDef commands
// through resolver.
func NewInterpreter(resolver FontResolver) *Interpreter {
	return &Interpreter{resolver: resolver, fonts: make(map[int32]*FontEntry)}
}

func (in *Interpreter) top() (*stackRecord, error) {
	if len(in.stack) == 0 {
		return nil, fmt.Errorf("dvi: no active page: %w", ErrStackUnderflow)
	}
	return &in.stack[len(in.stack)-1], nil
}

// Run processes cmds in order, returning the assembled pages. Commands
// after Post are validated (font/def bookkeeping still applies) but
// never placed, matching the classical interpreter's postamble handling.
func (in *Interpreter) Run(cmds []Command) ([]*Page, error) {
	for _, c := range cmds {
		if err := in.step(c); err != nil {
			return nil, err
		}
	}
	return in.pages, nil
}

func (in *Interpreter) step(c Command) error {
	switch c.Kind {
	case KindPre:
		if c.Format != ExpectedFormat || c.Num != ExpectedNum || c.Den != ExpectedDen || c.Mag != ExpectedMag {
			return fmt.Errorf("dvi: preamble format=%d num=%d den=%d mag=%d: %w",
				c.Format, c.Num, c.Den, c.Mag, ErrPreambleMismatch)
		}
		return nil

	case KindBop:
		in.currentFont = -1
		in.stack = []stackRecord{{}}
		in.pages = append(in.pages, newPage(c.Counters))
		return nil

	case KindEop:
		return nil

	case KindPush:
		rec, err := in.top()
		if err != nil {
			return err
		}
		in.stack = append(in.stack, *rec)
		if len(in.stack) > in.maxStackDepth {
			in.maxStackDepth = len(in.stack)
		}
		return nil

	case KindPop:
		if len(in.stack) <= 1 {
			return fmt.Errorf("dvi: pop with %d records on stack: %w", len(in.stack), ErrStackUnderflow)
		}
		in.stack = in.stack[:len(in.stack)-1]
		return nil

	case KindRight:
		rec, err := in.top()
		if err != nil {
			return err
		}
		rec.h += c.Amount
		return nil

	case KindDown:
		rec, err := in.top()
		if err != nil {
			return err
		}
		rec.v += c.Amount
		return nil

	case KindW0:
		rec, err := in.top()
		if err != nil {
			return err
		}
		rec.h += rec.w
		return nil
	case KindW:
		rec, err := in.top()
		if err != nil {
			return err
		}
		rec.w = c.Amount
		rec.h += rec.w
		return nil

	case KindX0:
		rec, err := in.top()
		if err != nil {
			return err
		}
		rec.h += rec.x
		return nil
	case KindX:
		rec, err := in.top()
		if err != nil {
			return err
		}
		rec.x = c.Amount
		rec.h += rec.x
		return nil

	case KindY0:
		rec, err := in.top()
		if err != nil {
			return err
		}
		rec.v += rec.y
		return nil
	case KindY:
		rec, err := in.top()
		if err != nil {
			return err
		}
		rec.y = c.Amount
		rec.v += rec.y
		return nil

	case KindZ0:
		rec, err := in.top()
		if err != nil {
			return err
		}
		rec.v += rec.z
		return nil
	case KindZ:
		rec, err := in.top()
		if err != nil {
			return err
		}
		rec.z = c.Amount
		rec.v += rec.z
		return nil

	case KindFntDef:
		metrics, err := in.resolver.Resolve(c.Name, c.Checksum, c.Scale, c.DesignSize)
		if err != nil {
			return fmt.Errorf("dvi: resolving font %q: %w", c.Name, err)
		}
		in.fonts[c.FontNum] = &FontEntry{
			Name: c.Name, Checksum: c.Checksum, Scale: c.Scale,
			DesignSize: c.DesignSize, Metrics: metrics,
		}
		return nil

	case KindFntNum, KindFnt:
		num := c.FontNum
		if _, ok := in.fonts[num]; !ok {
			return fmt.Errorf("dvi: font number %d selected before definition", num)
		}
		in.currentFont = num
		return nil

	case KindSetChar, KindSet, KindPut:
		return in.placeChar(c)

	case KindSetRule, KindPutRule:
		// Rules occupy space but place no character; cursor advance on
		// Set*Rule is handled the same as a character of that width by
		// callers that choose to model rules as zero-metric glyphs. Out
		// of scope here: no placement is recorded.
		return nil

	case KindNop, KindXXX:
		return nil

	case KindPost:
		in.postSeen = true
		return nil

	case KindPostPost:
		return nil

	default:
		return fmt.Errorf("dvi: unhandled command kind %d", c.Kind)
	}
}

func (in *Interpreter) placeChar(c Command) error {
	if in.postSeen {
		return nil
	}
	font, ok := in.fonts[in.currentFont]
	if !ok {
		return fmt.Errorf("dvi: character placed with no font selected")
	}
	rec, err := in.top()
	if err != nil {
		return err
	}
	if len(in.pages) == 0 {
		return fmt.Errorf("dvi: character placed before Bop")
	}
	page := in.pages[len(in.pages)-1]
	page.add(Position{H: rec.h, V: rec.v}, Placement{Char: c.Char, Font: font.Name})

	width, err := font.Metrics.Width(rune(c.Char))
	if err != nil {
		return fmt.Errorf("dvi: measuring char %d in font %q: %w", c.Char, font.Name, err)
	}
	if c.Kind != KindPut {
		rec.h += width
	}
	return nil
}

// MaxStackDepth reports the high-water mark of the position stack seen so
// far, the value a writer should place in a document's Post command
// (the classical format leaves this uncomputed by the caller: it is a
// property of the command stream, not a free parameter).
func (in *Interpreter) MaxStackDepth() int { return in.maxStackDepth }

// Pages returns the page sequence assembled so far.
func (in *Interpreter) Pages() []*Page { return in.pages }
