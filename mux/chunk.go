// Package mux provides muxing and demuxing for the PNG chunk container.
//
// The demuxer splits a PNG file into its chunks, verifying the signature and
// every chunk checksum. The muxer assembles an 8-bit indexed PNG from a
// header, a palette, an optional transparency table and compressed image
// data.
package mux

import (
	"errors"
	"fmt"
	"io"

	"github.com/carlhannes/palettize/internal/container"
)

// ChunkType is a PNG chunk type tag packed big-endian into a uint32.
type ChunkType = uint32

// Chunk type tags re-exported from the container package.
var (
	TypeIHDR = container.TypeIHDR
	TypePLTE = container.TypePLTE
	TypeTRNS = container.TypeTRNS
	TypeIDAT = container.TypeIDAT
	TypeIEND = container.TypeIEND
)

// Chunk represents a single chunk in a PNG stream.
// Data is a sub-slice of the original input (zero-copy).
type Chunk struct {
	Type ChunkType
	Data []byte
	CRC  uint32
}

var (
	ErrInvalidChunkHeader = errors.New("mux: invalid chunk header: need at least 8 bytes")
	ErrChunkTooLarge      = errors.New("mux: chunk payload exceeds container limits")
	ErrChecksum           = errors.New("mux: chunk checksum mismatch")
)

// ReadChunkHeader reads a chunk payload length and type tag from data.
// A chunk header is 8 bytes: 4 bytes big-endian length + 4 bytes type.
func ReadChunkHeader(data []byte) (ChunkType, uint32, error) {
	typ, length, err := container.ReadChunkHeader(data)
	switch {
	case errors.Is(err, container.ErrTruncated):
		return 0, 0, ErrInvalidChunkHeader
	case errors.Is(err, container.ErrTooLarge):
		return 0, 0, ErrChunkTooLarge
	case err != nil:
		return 0, 0, fmt.Errorf("mux: %w", err)
	}
	return typ, length, nil
}

// ReadChunk reads a full chunk (header, payload, CRC) from data, verifies
// the CRC and returns the chunk plus the total number of bytes consumed.
func ReadChunk(data []byte) (Chunk, int, error) {
	typ, length, err := ReadChunkHeader(data)
	if err != nil {
		return Chunk{}, 0, err
	}
	payloadEnd := container.ChunkHeaderSize + int(length)
	end := payloadEnd + container.ChunkCRCSize
	if end > len(data) {
		return Chunk{}, 0, fmt.Errorf("mux: chunk %s truncated: need %d bytes, have %d",
			ChunkTypeString(typ), end, len(data))
	}
	c := Chunk{
		Type: typ,
		Data: data[container.ChunkHeaderSize:payloadEnd],
		CRC:  container.ReadBE32(data[payloadEnd:end]),
	}
	if want := container.ChunkCRC(typ, c.Data); c.CRC != want {
		return Chunk{}, 0, fmt.Errorf("%w: %s stored 0x%08x, computed 0x%08x",
			ErrChecksum, ChunkTypeString(typ), c.CRC, want)
	}
	return c, end, nil
}

// ChunkTypeString returns the four-letter form of a chunk type.
func ChunkTypeString(typ ChunkType) string {
	return container.TypeString(typ)
}

// WriteChunk frames data as a chunk of the given type and writes it to w:
// length, type, payload, then the CRC over type and payload.
func WriteChunk(w io.Writer, typ ChunkType, data []byte) error {
	if uint64(len(data)) > container.MaxChunkPayload {
		return ErrChunkTooLarge
	}
	var hdr [container.ChunkHeaderSize]byte
	writeChunkHeader(hdr[:], typ, uint32(len(data)))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	var crc [container.ChunkCRCSize]byte
	container.PutBE32(crc[:], container.ChunkCRC(typ, data))
	_, err := w.Write(crc[:])
	return err
}

// writeChunkHeader writes a chunk header (length + type) into buf.
func writeChunkHeader(buf []byte, typ ChunkType, length uint32) {
	container.PutBE32(buf[0:4], length)
	container.PutBE32(buf[4:8], typ)
}
