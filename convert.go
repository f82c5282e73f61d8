package palettize

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/carlhannes/palettize/internal/atomicfile"
	"github.com/carlhannes/palettize/palette"
)

// Options configures a Converter.
type Options struct {
	// Encoder controls PNG encoding. Nil means DefaultOptions().
	Encoder *EncoderOptions

	// LastWins resolves colors that appear more than once in the donor
	// palette to the highest index instead of the lowest.
	LastWins bool
}

// Converter converts images against one donor palette. Its state is
// read-only after NewConverter, so one Converter may serve many goroutines.
type Converter struct {
	donor  *palette.Donor
	lookup *palette.Lookup
	enc    *EncoderOptions
}

// NewConverter prepares the reverse lookup for d.
// If opts is nil, defaults are used.
func NewConverter(d *palette.Donor, opts *Options) *Converter {
	if opts == nil {
		opts = &Options{}
	}
	var lopts []palette.LookupOption
	if opts.LastWins {
		lopts = append(lopts, palette.LastWins())
	}
	enc := opts.Encoder
	if enc == nil {
		enc = DefaultOptions()
	}
	return &Converter{
		donor:  d,
		lookup: palette.NewLookup(&d.Table, lopts...),
		enc:    enc,
	}
}

// Donor returns the donor palette the converter maps onto.
func (c *Converter) Donor() *palette.Donor {
	return c.donor
}

// Convert reindexes img against the donor palette and writes the indexed
// PNG to w. When any pixel is missing from the palette it returns a
// *palette.UnmatchedColorError and writes nothing.
func (c *Converter) Convert(w io.Writer, img image.Image) error {
	n, err := ToNRGBA(img)
	if err != nil {
		return err
	}
	indices, err := palette.Reindex(n, c.lookup)
	if err != nil {
		return err
	}
	b := n.Bounds()
	return Encode(w, b.Dx(), b.Dy(), c.donor.PLTE, c.donor.TRNS, indices, c.enc)
}

// ConvertBytes is like Convert but returns the PNG file.
func (c *Converter) ConvertBytes(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Convert(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ConvertFile decodes src, converts it and writes the result to dst.
// dst is replaced atomically; on failure it is left untouched.
func (c *Converter) ConvertFile(dst, src string) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	img, _, err := DecodeRGBA(f)
	f.Close()
	if err != nil {
		return err
	}

	data, err := c.ConvertBytes(img)
	if err != nil {
		return err
	}
	if err := atomicfile.WriteFile(dst, data, 0o644); err != nil {
		return fmt.Errorf("palettize: writing %s: %w", dst, err)
	}
	return nil
}

// Convert writes img as an indexed PNG using the donor's palette.
// Callers converting many images should build one Converter instead.
func Convert(w io.Writer, img image.Image, d *palette.Donor) error {
	return NewConverter(d, nil).Convert(w, img)
}
