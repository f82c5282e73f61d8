package mux

import (
	"errors"
	"fmt"

	"github.com/carlhannes/palettize/internal/container"
)

// Header describes the image properties stored in IHDR.
type Header = container.Header

// Demuxer parses a PNG chunk stream.
type Demuxer struct {
	data   []byte
	chunks []Chunk
	header Header
}

// maxChunks bounds the number of chunks a single file may carry, to keep
// hostile inputs from exhausting memory with empty chunks.
const maxChunks = 1 << 16

var (
	ErrInvalidSignature = errors.New("mux: not a PNG file (bad signature)")
	ErrTruncated        = errors.New("mux: data truncated before IEND")
	ErrHeaderNotFirst   = errors.New("mux: first chunk is not IHDR")
	ErrChunkNotFound    = errors.New("mux: chunk not found")
	ErrTooManyChunks    = errors.New("mux: too many chunks")
	ErrUnknownCritical  = errors.New("mux: unknown critical chunk")
)

// knownCritical reports whether typ is a critical chunk this package can
// interpret. Unknown ancillary chunks are kept and skipped by readers.
func knownCritical(typ ChunkType) bool {
	switch typ {
	case TypeIHDR, TypePLTE, TypeIDAT, TypeIEND:
		return true
	}
	return false
}

// Demux parses a PNG file from data and returns a Demuxer.
// Chunk payloads alias data; callers that keep them beyond the lifetime of
// data must copy.
func Demux(data []byte) (*Demuxer, error) {
	d := &Demuxer{data: data}
	if err := d.parse(); err != nil {
		return nil, err
	}
	return d, nil
}

// Header returns the parsed IHDR fields.
func (d *Demuxer) Header() Header {
	return d.header
}

// Chunks returns every chunk in file order, IHDR and IEND included.
func (d *Demuxer) Chunks() []Chunk {
	return d.chunks
}

// Chunk returns the payload of the first chunk with the given type.
func (d *Demuxer) Chunk(typ ChunkType) ([]byte, error) {
	for _, c := range d.chunks {
		if c.Type == typ {
			return c.Data, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrChunkNotFound, ChunkTypeString(typ))
}

// HasChunk reports whether a chunk of the given type is present.
func (d *Demuxer) HasChunk(typ ChunkType) bool {
	_, err := d.Chunk(typ)
	return err == nil
}

// parse validates the signature and walks chunks up to and including IEND.
// Bytes after IEND are ignored.
func (d *Demuxer) parse() error {
	n, err := container.CheckSignature(d.data)
	if err != nil {
		if errors.Is(err, container.ErrTruncated) {
			return ErrTruncated
		}
		return ErrInvalidSignature
	}
	buf := d.data[n:]

	for len(buf) > 0 {
		if len(d.chunks) >= maxChunks {
			return ErrTooManyChunks
		}
		c, consumed, err := ReadChunk(buf)
		if err != nil {
			return err
		}
		if container.IsCritical(c.Type) && !knownCritical(c.Type) {
			return fmt.Errorf("%w: %s", ErrUnknownCritical, ChunkTypeString(c.Type))
		}
		if len(d.chunks) == 0 {
			if c.Type != TypeIHDR {
				return ErrHeaderNotFirst
			}
			if err := d.header.UnmarshalBinary(c.Data); err != nil {
				return fmt.Errorf("mux: %w", err)
			}
		}
		d.chunks = append(d.chunks, c)
		buf = buf[consumed:]
		if c.Type == TypeIEND {
			return nil
		}
	}
	return ErrTruncated
}
