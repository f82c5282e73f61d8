package palettize

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/carlhannes/palettize/internal/container"
	"github.com/carlhannes/palettize/internal/pool"
	"github.com/carlhannes/palettize/mux"
)

// MaxPixels is the largest width*height the encoder accepts.
const MaxPixels = 1 << 30

// CompressionLevel selects the zlib effort for the IDAT stream. The named
// levels follow image/png; 1 through 9 select a zlib level directly.
type CompressionLevel int

const (
	DefaultCompression CompressionLevel = 0
	NoCompression      CompressionLevel = -1
	BestSpeed          CompressionLevel = -2
	BestCompression    CompressionLevel = -3
)

// zlibLevel maps l onto the compressor's level constants.
func (l CompressionLevel) zlibLevel() (int, error) {
	switch {
	case l == DefaultCompression:
		return zlib.DefaultCompression, nil
	case l == NoCompression:
		return zlib.NoCompression, nil
	case l == BestSpeed:
		return zlib.BestSpeed, nil
	case l == BestCompression:
		return zlib.BestCompression, nil
	case l >= 1 && l <= 9:
		return int(l), nil
	default:
		return 0, fmt.Errorf("%w: compression level %d", ErrInvalidOptions, l)
	}
}

// EncoderOptions controls indexed PNG encoding.
type EncoderOptions struct {
	// CompressionLevel is the zlib effort for image data.
	// The zero value is DefaultCompression.
	CompressionLevel CompressionLevel
}

// DefaultOptions returns encoding options with default compression.
func DefaultOptions() *EncoderOptions {
	return &EncoderOptions{CompressionLevel: DefaultCompression}
}

// Errors returned by the encoder.
var (
	ErrInvalidDimensions = errors.New("palettize: invalid image dimensions")
	ErrIndexCount        = errors.New("palettize: index count does not match dimensions")
	ErrInvalidOptions    = errors.New("palettize: invalid encoder options")
)

// Encode writes an 8-bit indexed PNG to w. plte must be the 768-byte PLTE
// payload and trns the tRNS payload or nil; both are emitted verbatim.
// indices holds width*height palette indices, row-major.
// If opts is nil, DefaultOptions() is used.
//
// The file is assembled in memory and handed to w in a single Write, so
// nothing reaches w when an error is returned before that point.
func Encode(w io.Writer, width, height int, plte, trns, indices []byte, opts *EncoderOptions) error {
	if opts == nil {
		opts = DefaultOptions()
	}
	level, err := opts.CompressionLevel.zlibLevel()
	if err != nil {
		return err
	}
	if err := validateInput(width, height, plte, trns, indices); err != nil {
		return err
	}

	raw := filterScanlines(width, height, indices)
	idat := pool.GetBuffer()
	defer pool.PutBuffer(idat)

	err = compress(idat, raw, level)
	pool.Put(raw)
	if err != nil {
		return err
	}

	m := mux.NewMuxer()
	m.SetHeader(container.IndexedHeader(width, height))
	m.SetPalette(plte)
	m.SetTransparency(trns)
	if err := m.AddData(idat.Bytes()); err != nil {
		return err
	}
	return m.Assemble(w)
}

// EncodeBytes is like Encode but returns the PNG file.
func EncodeBytes(width, height int, plte, trns, indices []byte, opts *EncoderOptions) ([]byte, error) {
	var out bytes.Buffer
	if err := Encode(&out, width, height, plte, trns, indices, opts); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// validateInput checks everything Encode can reject before compressing.
func validateInput(width, height int, plte, trns, indices []byte) error {
	if width <= 0 || height <= 0 || width > container.MaxDimension || height > container.MaxDimension {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if int64(width)*int64(height) > MaxPixels {
		return fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrInvalidDimensions, width, height, MaxPixels)
	}
	if len(indices) != width*height {
		return fmt.Errorf("%w: got %d, want %d", ErrIndexCount, len(indices), width*height)
	}
	if len(plte) != container.PaletteSize {
		return fmt.Errorf("%w: PLTE length %d, want %d", mux.ErrInvalidPalette, len(plte), container.PaletteSize)
	}
	if len(trns) > container.MaxTransparency {
		return fmt.Errorf("%w: tRNS length %d", mux.ErrInvalidTransparency, len(trns))
	}
	return nil
}

// filterScanlines lays out the pre-compression image data: every row is a
// filter-type byte (always FilterNone) followed by width indices.
// The returned buffer comes from the pool.
func filterScanlines(width, height int, indices []byte) []byte {
	stride := width + 1
	raw := pool.Get(height * stride)
	for y := 0; y < height; y++ {
		row := raw[y*stride : (y+1)*stride]
		row[0] = container.FilterNone
		copy(row[1:], indices[y*width:(y+1)*width])
	}
	return raw
}

// compress writes raw to dst as a zlib stream.
func compress(dst io.Writer, raw []byte, level int) error {
	zw, err := zlib.NewWriterLevel(dst, level)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	if _, err := zw.Write(raw); err != nil {
		zw.Close()
		return fmt.Errorf("palettize: compressing image data: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("palettize: compressing image data: %w", err)
	}
	return nil
}
