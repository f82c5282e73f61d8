package palette

import "image/color"

// Lookup maps an exact RGBA color to its palette index.
// It is read-only after NewLookup and safe for concurrent use.
type Lookup struct {
	index map[uint32]uint8
}

type lookupConfig struct {
	lastWins bool
}

// LookupOption configures NewLookup.
type LookupOption func(*lookupConfig)

// LastWins makes the highest index win when the palette holds the same
// color more than once. By default the lowest index wins.
func LastWins() LookupOption {
	return func(c *lookupConfig) { c.lastWins = true }
}

// NewLookup builds the reverse lookup for t.
func NewLookup(t *Table, opts ...LookupOption) *Lookup {
	var cfg lookupConfig
	for _, o := range opts {
		o(&cfg)
	}

	lk := &Lookup{index: make(map[uint32]uint8, Size)}
	for i, c := range t {
		k := pack(c.R, c.G, c.B, c.A)
		if _, dup := lk.index[k]; dup && !cfg.lastWins {
			continue
		}
		lk.index[k] = uint8(i)
	}
	return lk
}

// Index returns the palette index for c, if the palette contains it.
func (lk *Lookup) Index(c color.NRGBA) (uint8, bool) {
	idx, ok := lk.index[pack(c.R, c.G, c.B, c.A)]
	return idx, ok
}

// Len returns the number of distinct colors in the palette.
func (lk *Lookup) Len() int {
	return len(lk.index)
}

// pack folds one RGBA color into a single map key, red in the high byte.
func pack(r, g, b, a uint8) uint32 {
	return uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | uint32(a)
}
