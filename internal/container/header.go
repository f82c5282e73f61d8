package container

import "fmt"

// Header holds the fields of an IHDR chunk.
type Header struct {
	Width       uint32
	Height      uint32
	BitDepth    uint8
	ColorType   uint8
	Compression uint8
	Filter      uint8
	Interlace   uint8
}

// IndexedHeader returns the IHDR for a non-interlaced 8-bit palette image.
func IndexedHeader(width, height int) Header {
	return Header{
		Width:       uint32(width),
		Height:      uint32(height),
		BitDepth:    8,
		ColorType:   ColorIndexed,
		Compression: CompressionDeflate,
		Filter:      FilterMethodBase,
		Interlace:   InterlaceNone,
	}
}

// Validate checks the dimensions and the method fields. Bit depth and
// color type combinations are not cross-checked.
func (h Header) Validate() error {
	if h.Width == 0 || h.Height == 0 || h.Width > MaxDimension || h.Height > MaxDimension {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidHeader, h.Width, h.Height)
	}
	if h.Compression != CompressionDeflate || h.Filter != FilterMethodBase {
		return fmt.Errorf("%w: compression %d, filter %d", ErrInvalidHeader, h.Compression, h.Filter)
	}
	if h.Interlace > InterlaceAdam7 {
		return fmt.Errorf("%w: interlace %d", ErrInvalidHeader, h.Interlace)
	}
	return nil
}

// MarshalBinary converts the header to its 13-byte IHDR payload.
func (h Header) MarshalBinary() ([]byte, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	data := make([]byte, HeaderSize)
	PutBE32(data[0:4], h.Width)
	PutBE32(data[4:8], h.Height)
	data[8] = h.BitDepth
	data[9] = h.ColorType
	data[10] = h.Compression
	data[11] = h.Filter
	data[12] = h.Interlace
	return data, nil
}

// UnmarshalBinary parses a 13-byte IHDR payload.
func (h *Header) UnmarshalBinary(data []byte) error {
	if len(data) != HeaderSize {
		return fmt.Errorf("%w: length %d, want %d", ErrInvalidHeader, len(data), HeaderSize)
	}
	h.Width = ReadBE32(data[0:4])
	h.Height = ReadBE32(data[4:8])
	h.BitDepth = data[8]
	h.ColorType = data[9]
	h.Compression = data[10]
	h.Filter = data[11]
	h.Interlace = data[12]
	return h.Validate()
}
