package container

import (
	"errors"
	"fmt"
	"hash/crc32"
)

// Common errors.
var (
	ErrInvalidSignature = errors.New("png: invalid signature")
	ErrTruncated        = errors.New("png: truncated data")
	ErrInvalidChunk     = errors.New("png: invalid chunk")
	ErrTooLarge         = errors.New("png: chunk too large")
	ErrInvalidHeader    = errors.New("png: invalid IHDR chunk")
)

// CheckSignature validates the 8-byte PNG signature at the start of data.
// Returns the number of bytes consumed.
func CheckSignature(data []byte) (int, error) {
	if len(data) < SignatureSize {
		return 0, ErrTruncated
	}
	if string(data[:SignatureSize]) != Signature {
		return 0, ErrInvalidSignature
	}
	return SignatureSize, nil
}

// ReadChunkHeader reads a chunk's payload length and type tag from data.
func ReadChunkHeader(data []byte) (typ uint32, length uint32, err error) {
	if len(data) < ChunkHeaderSize {
		return 0, 0, ErrTruncated
	}
	length = ReadBE32(data[0:4])
	if length > MaxChunkPayload {
		return 0, 0, ErrTooLarge
	}
	typ = ReadBE32(data[4:8])
	if !validType(typ) {
		return 0, 0, fmt.Errorf("%w: bad type tag %q", ErrInvalidChunk, TypeString(typ))
	}
	return typ, length, nil
}

// ChunkCRC returns the CRC-32 (IEEE) of the type tag followed by payload,
// which is what PNG stores after every chunk.
func ChunkCRC(typ uint32, payload []byte) uint32 {
	var tag [TagSize]byte
	PutBE32(tag[:], typ)
	return crc32.Update(crc32.ChecksumIEEE(tag[:]), crc32.IEEETable, payload)
}

// TypeString returns the four-letter form of a chunk type tag.
func TypeString(typ uint32) string {
	b := [4]byte{
		byte(typ >> 24),
		byte(typ >> 16),
		byte(typ >> 8),
		byte(typ),
	}
	return string(b[:])
}

// IsCritical reports whether a decoder must understand typ to render the
// image. Critical chunks have an uppercase first letter.
func IsCritical(typ uint32) bool {
	return (typ>>24)&0x20 == 0
}

// validType reports whether every byte of the tag is an ASCII letter.
func validType(typ uint32) bool {
	for shift := 24; shift >= 0; shift -= 8 {
		c := byte(typ >> shift)
		if !(c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z') {
			return false
		}
	}
	return true
}
