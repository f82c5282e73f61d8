// Package container defines constants for the PNG chunk container,
// including the file signature, chunk type tags and IHDR field values.
package container

import "encoding/binary"

// ChunkType creates a chunk type value from four ASCII bytes (big-endian,
// the order in which they appear in the file).
func ChunkType(a, b, c, d byte) uint32 {
	return uint32(a)<<24 | uint32(b)<<16 | uint32(c)<<8 | uint32(d)
}

// Chunk type tags.
var (
	TypeIHDR = ChunkType('I', 'H', 'D', 'R')
	TypePLTE = ChunkType('P', 'L', 'T', 'E')
	TypeTRNS = ChunkType('t', 'R', 'N', 'S')
	TypeIDAT = ChunkType('I', 'D', 'A', 'T')
	TypeIEND = ChunkType('I', 'E', 'N', 'D')
)

// Signature is the 8-byte magic every PNG file starts with.
const Signature = "\x89PNG\r\n\x1a\n"

// Container structure sizes.
const (
	SignatureSize   = 8  // len(Signature)
	TagSize         = 4  // Size of a chunk type tag (e.g. "IHDR")
	ChunkHeaderSize = 8  // Length + type
	ChunkCRCSize    = 4  // Trailing CRC-32
	ChunkOverhead   = 12 // Header + CRC around every payload
	HeaderSize      = 13 // IHDR payload size
)

// Limits.
const (
	MaxChunkPayload = 1<<31 - 1 // PNG lengths are 31-bit
	MaxDimension    = 1<<31 - 1 // same bound for IHDR width/height
)

// IHDR color types.
const (
	ColorIndexed = 3
	ColorRGBA    = 6
)

// IHDR method fields. PNG defines a single value for each.
const (
	CompressionDeflate = 0
	FilterMethodBase   = 0
	InterlaceNone      = 0
	InterlaceAdam7     = 1
)

// FilterNone is the only per-scanline filter type the encoder emits.
const FilterNone = 0

// Palette constants for 8-bit indexed images.
const (
	PaletteEntries  = 256
	PaletteSize     = PaletteEntries * 3 // PLTE payload for a full palette
	MaxTransparency = PaletteEntries     // tRNS may not exceed the palette
)

// ReadBE32 reads a big-endian uint32 from data.
func ReadBE32(data []byte) uint32 {
	return binary.BigEndian.Uint32(data)
}

// PutBE32 writes a big-endian uint32 to data.
func PutBE32(data []byte, v uint32) {
	binary.BigEndian.PutUint32(data, v)
}
