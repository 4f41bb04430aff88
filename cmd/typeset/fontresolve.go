package main

import (
	"fmt"

	"github.com/go-typeset/typeset/dimen"
	"github.com/go-typeset/typeset/dvi"
	"github.com/go-typeset/typeset/fontcache"
)

// dviFontMetrics adapts a box.Font (what fontcache.Cache.Font returns)
// to the narrow dvi.FontMetrics contract the DVI interpreter consults
// while replaying a ship_out stream.
type dviFontMetrics struct {
	width func(ch rune) dimen.Dimen
}

func (m dviFontMetrics) Width(ch rune) (int32, error) {
	return int32(m.width(ch)), nil
}

// cacheResolver adapts a fontcache.Cache to dvi.FontResolver, so -dump
// can measure the characters a replayed .dvi file places without
// needing the FntDef's checksum/scale/designSize fields for anything
// beyond diagnostics (the cache already knows how to size a font by
// name and scale).
type cacheResolver struct {
	cache *fontcache.Cache
}

func (r cacheResolver) Resolve(name string, checksum uint32, scale, designSize int32) (dvi.FontMetrics, error) {
	f, err := r.cache.Font(name, dimen.Dimen(scale))
	if err != nil {
		return nil, fmt.Errorf("typeset: resolving font %q for replay: %w", name, err)
	}
	return dviFontMetrics{width: f.Width}, nil
}
