package palettize

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrPaletteIndex is returned for a paletted image holding an index that
// its own palette does not define.
var ErrPaletteIndex = errors.New("palettize: pixel index outside the image palette")

// DecodeRGBA decodes a target image in any registered format (PNG, GIF,
// JPEG, BMP, TIFF, WebP) and returns it as non-premultiplied RGBA together
// with the format name.
func DecodeRGBA(r io.Reader) (*image.NRGBA, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("palettize: decoding target: %w", err)
	}
	n, err := ToNRGBA(img)
	if err != nil {
		return nil, "", err
	}
	return n, format, nil
}

// ToNRGBA returns img as an *image.NRGBA whose bounds start at (0,0).
// An *image.NRGBA already at the origin is returned as is.
//
// Colors are converted without passing through premultiplied alpha
// wherever the source allows it, so a semi-transparent palette color
// survives decoding bit-exact and can still be matched. 16-bit channels
// keep their high byte.
func ToNRGBA(img image.Image) (*image.NRGBA, error) {
	b := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok && b.Min == (image.Point{}) {
		return n, nil
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))

	switch src := img.(type) {
	case *image.NRGBA:
		for y := 0; y < b.Dy(); y++ {
			copy(dst.Pix[y*dst.Stride:(y+1)*dst.Stride], src.Pix[y*src.Stride:y*src.Stride+4*b.Dx()])
		}
	case *image.Paletted:
		lut := make([]color.NRGBA, len(src.Palette))
		for i, c := range src.Palette {
			lut[i] = exactNRGBA(c)
		}
		for y := 0; y < b.Dy(); y++ {
			row := src.Pix[y*src.Stride : y*src.Stride+b.Dx()]
			for x, idx := range row {
				if int(idx) >= len(lut) {
					return nil, fmt.Errorf("%w: index %d at (%d,%d), palette has %d entries",
						ErrPaletteIndex, idx, x, y, len(lut))
				}
				dst.SetNRGBA(x, y, lut[idx])
			}
		}
	case *image.NRGBA64:
		for y := 0; y < b.Dy(); y++ {
			row := src.Pix[y*src.Stride : y*src.Stride+8*b.Dx()]
			out := dst.Pix[y*dst.Stride : (y+1)*dst.Stride]
			for x := 0; x < b.Dx(); x++ {
				out[4*x+0] = row[8*x+0]
				out[4*x+1] = row[8*x+2]
				out[4*x+2] = row[8*x+4]
				out[4*x+3] = row[8*x+6]
			}
		}
	case *image.RGBA64:
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				dst.SetNRGBA(x, y, unpremultiply(src.RGBA64At(b.Min.X+x, b.Min.Y+y)))
			}
		}
	default:
		if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
			draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
			break
		}
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				dst.SetNRGBA(x, y, exactNRGBA(img.At(b.Min.X+x, b.Min.Y+y)))
			}
		}
	}
	return dst, nil
}

// exactNRGBA converts c to 8-bit non-premultiplied RGBA, taking the
// channels directly when c is already non-premultiplied.
func exactNRGBA(c color.Color) color.NRGBA {
	switch v := c.(type) {
	case color.NRGBA:
		return v
	case color.NRGBA64:
		return color.NRGBA{R: uint8(v.R >> 8), G: uint8(v.G >> 8), B: uint8(v.B >> 8), A: uint8(v.A >> 8)}
	}
	r, g, b, a := c.RGBA()
	return unpremultiply(color.RGBA64{R: uint16(r), G: uint16(g), B: uint16(b), A: uint16(a)})
}

// unpremultiply divides out alpha at 16-bit precision before dropping to
// 8 bits.
func unpremultiply(c color.RGBA64) color.NRGBA {
	switch c.A {
	case 0:
		return color.NRGBA{}
	case 0xffff:
		return color.NRGBA{R: uint8(c.R >> 8), G: uint8(c.G >> 8), B: uint8(c.B >> 8), A: 0xff}
	}
	a := uint32(c.A)
	r := min(uint32(c.R)*0xffff/a, 0xffff)
	g := min(uint32(c.G)*0xffff/a, 0xffff)
	bl := min(uint32(c.B)*0xffff/a, 0xffff)
	return color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(bl >> 8), A: uint8(c.A >> 8)}
}
