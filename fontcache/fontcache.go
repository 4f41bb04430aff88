// Package fontcache implements parse.FontSource: turning a font name
// and requested scale into sized box.Font metrics, lazily reading and
// caching each name's unscaled metrics the first time it is requested,
// the way a real TeX engine only ever opens a TFM file once per job.
//
// Grounded on the teacher's font/latex/latex.go (a sync-guarded, lazily
// populated set of parsed faces) and on original_source/src/font_metrics.rs
// (FontMetrics, built once per font name and reused at every requested scale).
package fontcache

import (
	"fmt"
	"os"
	"sync"

	"github.com/go-fonts/latin-modern/lmmono10regular"
	"github.com/go-fonts/latin-modern/lmroman10bold"
	"github.com/go-fonts/latin-modern/lmroman10italic"
	"github.com/go-fonts/latin-modern/lmroman10regular"
	"github.com/go-fonts/latin-modern/lmsans10regular"
	"github.com/go-fonts/liberation/liberationmonoregular"
	"github.com/go-fonts/liberation/liberationsansregular"
	"github.com/go-fonts/liberation/liberationserifregular"

	"github.com/go-typeset/typeset/box"
	"github.com/go-typeset/typeset/dimen"
	"github.com/go-typeset/typeset/font"
	"github.com/go-typeset/typeset/font/tfm"
	"github.com/go-typeset/typeset/font/ttf"
)

// builtin maps the font names a typical document names in \font to an
// embedded OpenType fallback, used when no Resolver is installed or the
// Resolver cannot find a TFM file on disk for that name. The classical
// Computer Modern names map to Latin Modern faces; the lmr10, lmss10
// and lmtt10 names map to Liberation's serif, sans and mono families,
// so that both go-fonts packages the teacher's font/latex package
// imported stay exercised.
var builtin = map[string]struct {
	raw  []byte
	size float64 // design size in points
}{
	"cmr10":  {lmroman10regular.TTF, 10},
	"cmbx10": {lmroman10bold.TTF, 10},
	"cmti10": {lmroman10italic.TTF, 10},
	"cmtt10": {lmmono10regular.TTF, 10},
	"cmss10": {lmsans10regular.TTF, 10},
	"lmr10":  {liberationserifregular.TTF, 10},
	"lmss10": {liberationsansregular.TTF, 10},
	"lmtt10": {liberationmonoregular.TTF, 10},
}

// Cache resolves font names to metrics, reading a TFM file through
// Resolver when one is installed and otherwise falling back to a
// built-in OpenType face. It implements parse.FontSource.
type Cache struct {
	resolver font.Resolver

	mu  sync.Mutex
	raw map[string]font.Raw
}

// New builds a Cache resolving TFM file paths through resolver. A nil
// resolver means every font name falls back to an embedded face.
func New(resolver font.Resolver) *Cache {
	return &Cache{resolver: resolver, raw: map[string]font.Raw{}}
}

// Font resolves name to sized metrics at scale (zero meaning the
// font's own design size), the parse.FontSource contract \font and bare
// character tokens both need satisfied.
func (c *Cache) Font(name string, scale dimen.Dimen) (box.Font, error) {
	raw, err := c.rawMetrics(name)
	if err != nil {
		return box.Font{}, err
	}
	scaled := font.NewScaled(raw, scale)
	return box.Font{Name: name, Scale: scaled.Scale(), Metrics: scaled}, nil
}

func (c *Cache) rawMetrics(name string) (font.Raw, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if raw, ok := c.raw[name]; ok {
		return raw, nil
	}

	raw, err := c.load(name)
	if err != nil {
		return nil, err
	}
	c.raw[name] = raw
	return raw, nil
}

func (c *Cache) load(name string) (font.Raw, error) {
	if c.resolver != nil {
		if path, err := c.resolver.Resolve(name); err == nil {
			f, err := os.Open(path)
			if err != nil {
				return nil, fmt.Errorf("fontcache: opening %s: %w", path, err)
			}
			defer f.Close()
			raw, err := tfm.Read(f)
			if err != nil {
				return nil, fmt.Errorf("fontcache: reading %s: %w", name, err)
			}
			return raw, nil
		}
	}

	face, ok := builtin[name]
	if !ok {
		return nil, fmt.Errorf("fontcache: unknown font %q", name)
	}
	designSize, err := dimen.FromUnit(face.size, dimen.Point)
	if err != nil {
		return nil, err
	}
	raw, err := ttf.Parse(face.raw, designSize)
	if err != nil {
		return nil, fmt.Errorf("fontcache: parsing built-in face for %q: %w", name, err)
	}
	return raw, nil
}
