package mux

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/carlhannes/palettize/internal/container"
)

// Muxer assembles an indexed PNG from its chunk payloads. Payloads are
// written exactly as given; the muxer never re-derives PLTE or tRNS.
type Muxer struct {
	header  *Header
	palette []byte
	trns    []byte
	data    [][]byte
}

var (
	ErrNoHeader            = errors.New("mux: header not set")
	ErrNoData              = errors.New("mux: no image data to assemble")
	ErrDataEmpty           = errors.New("mux: image data is empty")
	ErrInvalidPalette      = errors.New("mux: invalid palette")
	ErrInvalidTransparency = errors.New("mux: invalid transparency table")
	ErrMuxValidation       = errors.New("mux: validation failed")
)

// NewMuxer creates a new Muxer.
func NewMuxer() *Muxer {
	return &Muxer{}
}

// SetHeader sets the IHDR fields.
func (m *Muxer) SetHeader(h Header) {
	m.header = &h
}

// SetPalette sets the PLTE payload (RGB triples in index order).
func (m *Muxer) SetPalette(plte []byte) {
	m.palette = plte
}

// SetTransparency sets the tRNS payload (one alpha byte per palette index,
// trailing opaque entries may be omitted). A nil slice omits the chunk.
func (m *Muxer) SetTransparency(trns []byte) {
	m.trns = trns
}

// AddData appends a compressed image data segment. Each segment becomes one
// IDAT chunk; decoders concatenate them.
func (m *Muxer) AddData(idat []byte) error {
	if len(idat) == 0 {
		return ErrDataEmpty
	}
	m.data = append(m.data, idat)
	return nil
}

// Assemble writes the complete PNG file to w. The file is built in memory
// first so that a validation or framing error leaves w untouched.
func (m *Muxer) Assemble(w io.Writer) error {
	if err := m.validate(); err != nil {
		return err
	}

	var buf bytes.Buffer
	buf.Grow(m.size())
	buf.WriteString(container.Signature)

	ihdr, err := m.header.MarshalBinary()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMuxValidation, err)
	}
	if err := WriteChunk(&buf, TypeIHDR, ihdr); err != nil {
		return err
	}
	if err := WriteChunk(&buf, TypePLTE, m.palette); err != nil {
		return err
	}
	if m.trns != nil {
		if err := WriteChunk(&buf, TypeTRNS, m.trns); err != nil {
			return err
		}
	}
	for _, d := range m.data {
		if err := WriteChunk(&buf, TypeIDAT, d); err != nil {
			return err
		}
	}
	if err := WriteChunk(&buf, TypeIEND, nil); err != nil {
		return err
	}

	_, err = w.Write(buf.Bytes())
	return err
}

// validate checks the muxer state for consistency before assembling.
func (m *Muxer) validate() error {
	if m.header == nil {
		return ErrNoHeader
	}
	if m.header.ColorType != container.ColorIndexed || m.header.BitDepth != 8 {
		return fmt.Errorf("%w: color type %d, bit depth %d; want indexed 8-bit",
			ErrMuxValidation, m.header.ColorType, m.header.BitDepth)
	}
	if len(m.palette) != container.PaletteSize {
		return fmt.Errorf("%w: PLTE length %d, want %d", ErrInvalidPalette, len(m.palette), container.PaletteSize)
	}
	if len(m.trns) > container.MaxTransparency {
		return fmt.Errorf("%w: tRNS length %d exceeds %d entries",
			ErrInvalidTransparency, len(m.trns), container.MaxTransparency)
	}
	if len(m.data) == 0 {
		return ErrNoData
	}
	return nil
}

// size returns the exact size of the assembled file.
func (m *Muxer) size() int {
	n := container.SignatureSize
	n += container.ChunkOverhead + container.HeaderSize
	n += container.ChunkOverhead + len(m.palette)
	if m.trns != nil {
		n += container.ChunkOverhead + len(m.trns)
	}
	for _, d := range m.data {
		n += container.ChunkOverhead + len(d)
	}
	return n + container.ChunkOverhead
}
