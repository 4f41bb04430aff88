// Command typeset is a minimal driver exercising the full pipeline this
// repository implements: it lexes and expands a source file into a
// horizontal list, line-breaks that list into fixed-width lines, stacks
// the lines into a page, and ships the page out to a .dvi file. Given
// -dump it does none of that: it reads an existing .dvi file back
// through the DVI parser and interpreter and prints the placements it
// recorded, the round-trip property spec.md §8 describes.
//
// Grounded on ha1tch-tsqlparser/cmd/example/main.go's shape (read input,
// run the pipeline, print diagnostics to stdout) since the teacher repo
// ships no comparable command-line entry point of its own.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/go-typeset/typeset/box"
	"github.com/go-typeset/typeset/dimen"
	"github.com/go-typeset/typeset/dvi"
	"github.com/go-typeset/typeset/fontcache"
	"github.com/go-typeset/typeset/lexer"
	"github.com/go-typeset/typeset/linebreak"
	"github.com/go-typeset/typeset/parse"
	"github.com/go-typeset/typeset/state"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "typeset:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		hsizePt = flag.Float64("hsize", 345, "line width in points")
		font    = flag.String("font", "cmr10", "default font, selected before the document's first character")
		dump    = flag.Bool("dump", false, "re-parse the .dvi output and print its placements instead of writing it")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <source.tex> <out.dvi>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}
	srcPath, dviPath := flag.Arg(0), flag.Arg(1)

	if *dump {
		return dumpDVI(dviPath)
	}
	return typeset(srcPath, dviPath, *hsizePt, *font)
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("typeset: opening %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("typeset: reading %s: %w", path, err)
	}
	return lines, nil
}

func typeset(srcPath, dviPath string, hsizePt float64, defaultFont string) error {
	lines, err := readLines(srcPath)
	if err != nil {
		return err
	}

	st := state.New()
	lex := lexer.New(lines, st.CatCode)
	p := parse.New(lex, st)

	cache := fontcache.New(nil)
	p.SetFontSource(cache)

	designFont, err := cache.Font(defaultFont, 0)
	if err != nil {
		return fmt.Errorf("typeset: loading default font %q: %w", defaultFont, err)
	}
	st.SetCurrentFont(true, state.FontSelector{Name: defaultFont, Scale: designFont.Scale})

	hlist, err := p.ParseHorizontalList()
	if err != nil {
		return fmt.Errorf("typeset: parsing %s: %w", srcPath, err)
	}

	hsize, err := dimen.FromUnit(hsizePt, dimen.Point)
	if err != nil {
		return err
	}
	lines2, err := linebreak.Break(hlist, linebreak.Params{HSize: hsize})
	if err != nil {
		return fmt.Errorf("typeset: breaking lines: %w", err)
	}

	var velems []box.VElem
	baselineskip := dimen.Glue{Space: mustPt(12)}
	for i, line := range lines2 {
		if i > 0 {
			velems = append(velems, box.NewVSkipElem(baselineskip))
		}
		velems = append(velems, box.NewVBoxElem(line, dimen.Zero()))
	}
	page, err := box.NewVBox(velems, box.NaturalLayout())
	if err != nil {
		return fmt.Errorf("typeset: stacking lines: %w", err)
	}

	cmds, err := shipOutPages([]*box.VBox{page})
	if err != nil {
		return fmt.Errorf("typeset: shipping page: %w", err)
	}

	out, err := os.Create(dviPath)
	if err != nil {
		return fmt.Errorf("typeset: creating %s: %w", dviPath, err)
	}
	defer out.Close()

	w := dvi.NewWriter(out)
	if err := w.Write(dvi.NewPre(dvi.ExpectedFormat, dvi.ExpectedNum, dvi.ExpectedDen, dvi.ExpectedMag, nil)); err != nil {
		return fmt.Errorf("typeset: writing preamble: %w", err)
	}
	if err := w.WriteAll(cmds); err != nil {
		return fmt.Errorf("typeset: writing page content: %w", err)
	}

	interp := dvi.NewInterpreter(cacheResolver{cache: cache})
	if _, err := interp.Run(cmds); err != nil {
		return fmt.Errorf("typeset: computing postamble: %w", err)
	}
	post := dvi.NewPost(-1, dvi.ExpectedNum, dvi.ExpectedDen, dvi.ExpectedMag,
		int32(page.Height()+page.Depth()), int32(page.Width()),
		uint16(interp.MaxStackDepth()), 1)
	if err := w.Write(post); err != nil {
		return fmt.Errorf("typeset: writing postamble: %w", err)
	}
	if err := w.Write(dvi.NewPostPost(-1, dvi.ExpectedFormat, 4)); err != nil {
		return fmt.Errorf("typeset: writing trailer: %w", err)
	}

	fmt.Printf("wrote %s: %d line(s), %d command(s)\n", dviPath, len(lines2), len(cmds))
	return nil
}

func dumpDVI(dviPath string) error {
	f, err := os.Open(dviPath)
	if err != nil {
		return fmt.Errorf("typeset: opening %s: %w", dviPath, err)
	}
	defer f.Close()

	cmds, err := dvi.NewParser(f).ReadAll()
	if err != nil {
		return fmt.Errorf("typeset: parsing %s: %w", dviPath, err)
	}

	cache := fontcache.New(nil)
	interp := dvi.NewInterpreter(cacheResolver{cache: cache})
	pages, err := interp.Run(cmds)
	if err != nil {
		return fmt.Errorf("typeset: interpreting %s: %w", dviPath, err)
	}

	for i, pg := range pages {
		fmt.Printf("page %d (count0=%d):\n", i+1, pg.Counters[0])
		var positions []dvi.Position
		for pos := range pg.Output {
			positions = append(positions, pos)
		}
		sort.Slice(positions, func(a, b int) bool {
			if positions[a].V != positions[b].V {
				return positions[a].V < positions[b].V
			}
			return positions[a].H < positions[b].H
		})
		for _, pos := range positions {
			for pl := range pg.Output[pos] {
				fmt.Printf("  h=%d v=%d char=%q font=%s\n", pos.H, pos.V, rune(pl.Char), pl.Font)
			}
		}
	}
	return nil
}

func mustPt(n float64) dimen.Dimen {
	d, err := dimen.FromUnit(n, dimen.Point)
	if err != nil {
		panic(err)
	}
	return d
}
