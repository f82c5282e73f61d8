// Package palette extracts the 256-entry palette of a donor PNG and maps
// true-color pixels onto it by exact color match.
//
// A Donor carries both the canonical RGBA table used for matching and the
// verbatim PLTE and tRNS payloads, which are re-emitted unchanged so the
// output palette is byte-identical to the donor's.
package palette

import (
	"fmt"
	"image/color"
	"io"

	"github.com/carlhannes/palettize/internal/container"
	"github.com/carlhannes/palettize/mux"
)

// Size is the number of entries in a donor palette.
const Size = container.PaletteEntries

// Table is the canonical palette: entry i is the color of index i, with
// alpha taken from tRNS (255 where tRNS is absent or too short).
type Table [Size]color.NRGBA

// Palette returns the table as a color.Palette, e.g. for image.NewPaletted.
func (t *Table) Palette() color.Palette {
	p := make(color.Palette, Size)
	for i, c := range t {
		p[i] = c
	}
	return p
}

// Donor is a palette extracted from a reference PNG.
// It is immutable once returned by Extract and safe for concurrent use.
type Donor struct {
	Table Table
	PLTE  []byte // verbatim PLTE payload, always container.PaletteSize bytes
	TRNS  []byte // verbatim tRNS payload, nil when the donor has none
}

// HasTransparency reports whether the donor carried a tRNS chunk.
func (d *Donor) HasTransparency() bool {
	return d.TRNS != nil
}

// Load reads a donor PNG from r and extracts its palette.
func Load(r io.Reader) (*Donor, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("palette: reading donor: %w", err)
	}
	return Extract(data)
}

// Extract parses the chunk stream of a donor PNG and builds its palette.
// The donor must contain a PLTE chunk of exactly 256 entries; a tRNS chunk
// is optional and may hold at most 256 alpha values.
func Extract(data []byte) (*Donor, error) {
	d, err := mux.Demux(data)
	if err != nil {
		return nil, fmt.Errorf("palette: parsing donor: %w", err)
	}

	plte, err := d.Chunk(mux.TypePLTE)
	if err != nil {
		return nil, &MissingPaletteError{}
	}
	if len(plte) != container.PaletteSize {
		return nil, &MalformedPaletteError{Actual: len(plte), Expected: container.PaletteSize}
	}

	var trns []byte
	if d.HasChunk(mux.TypeTRNS) {
		trns, _ = d.Chunk(mux.TypeTRNS)
		if len(trns) > container.MaxTransparency {
			return nil, fmt.Errorf("%w: length=%d exceeds %d entries",
				ErrMalformedTransparency, len(trns), container.MaxTransparency)
		}
		trns = copyBytes(trns)
	}

	donor := &Donor{
		PLTE: copyBytes(plte),
		TRNS: trns,
	}
	donor.Table = buildTable(donor.PLTE, donor.TRNS)
	return donor, nil
}

// buildTable expands PLTE triples and tRNS alphas into RGBA entries.
func buildTable(plte, trns []byte) Table {
	var t Table
	for i := range t {
		a := uint8(0xff)
		if i < len(trns) {
			a = trns[i]
		}
		t[i] = color.NRGBA{R: plte[3*i], G: plte[3*i+1], B: plte[3*i+2], A: a}
	}
	return t
}

// copyBytes returns a copy of the slice to avoid retaining the donor file.
func copyBytes(b []byte) []byte {
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
