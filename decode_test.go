package palettize

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func TestToNRGBA_OriginNRGBAReturnedAsIs(t *testing.T) {
	img := solidImage(3, 3, color.NRGBA{R: 1, G: 2, B: 3, A: 4})
	got, err := ToNRGBA(img)
	require.NoError(t, err)
	assert.Same(t, img, got)
}

func TestToNRGBA_SubImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 9, A: 77})
		}
	}
	sub := img.SubImage(image.Rect(1, 2, 4, 4)).(*image.NRGBA)

	got, err := ToNRGBA(sub)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 3, 2), got.Bounds())
	assert.Equal(t, color.NRGBA{R: 1, G: 2, B: 9, A: 77}, got.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{R: 3, G: 3, B: 9, A: 77}, got.NRGBAAt(2, 1))
}

func TestToNRGBA_PalettedKeepsAlphaExact(t *testing.T) {
	pal := color.Palette{
		color.NRGBA{R: 255, G: 0, B: 255, A: 255},
		color.NRGBA{R: 201, G: 13, B: 77, A: 3},
	}
	img := image.NewPaletted(image.Rect(0, 0, 2, 1), pal)
	img.SetColorIndex(1, 0, 1)

	got, err := ToNRGBA(img)
	require.NoError(t, err)
	assert.Equal(t, pal[0], got.NRGBAAt(0, 0))
	assert.Equal(t, pal[1], got.NRGBAAt(1, 0))
}

func TestToNRGBA_OpaqueRGBA(t *testing.T) {
	img := image.NewRGBA(image.Rect(5, 5, 7, 6))
	img.Set(5, 5, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	img.Set(6, 5, color.RGBA{R: 40, G: 50, B: 60, A: 255})

	got, err := ToNRGBA(img)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 2, 1), got.Bounds())
	assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 255}, got.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{R: 40, G: 50, B: 60, A: 255}, got.NRGBAAt(1, 0))
}

func TestToNRGBA_Gray(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 1, 1))
	img.SetGray(0, 0, color.Gray{Y: 42})
	got, err := ToNRGBA(img)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 42, G: 42, B: 42, A: 255}, got.NRGBAAt(0, 0))
}

func TestToNRGBA_PaletteIndexOutOfRange(t *testing.T) {
	img := image.NewPaletted(image.Rect(0, 0, 2, 1), color.Palette{color.NRGBA{A: 255}})
	img.Pix[1] = 7

	got, err := ToNRGBA(img)
	require.ErrorIs(t, err, ErrPaletteIndex)
	assert.Nil(t, got)
	assert.Contains(t, err.Error(), "index 7 at (1,0)")
}

func TestToNRGBA_NRGBA64KeepsHighByte(t *testing.T) {
	img := image.NewNRGBA64(image.Rect(2, 2, 4, 3))
	img.SetNRGBA64(2, 2, color.NRGBA64{R: 0x0a0a, G: 0x0a0a, B: 0x0a0a, A: 0x0101})
	img.SetNRGBA64(3, 2, color.NRGBA64{R: 0xc8ff, G: 0x6400, B: 0x3280, A: 0x80ff})

	got, err := ToNRGBA(img)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 10, G: 10, B: 10, A: 1}, got.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{R: 200, G: 100, B: 50, A: 128}, got.NRGBAAt(1, 0))
}

func TestToNRGBA_RGBA64Unpremultiplied(t *testing.T) {
	want := color.NRGBA{R: 200, G: 100, B: 50, A: 128}
	img := image.NewRGBA64(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, want)

	got, err := ToNRGBA(img)
	require.NoError(t, err)
	assert.Equal(t, want, got.NRGBAAt(0, 0))
}

func TestDecodeRGBA_SemiTransparent16BitPNG(t *testing.T) {
	src := image.NewNRGBA64(image.Rect(0, 0, 2, 1))
	src.SetNRGBA64(0, 0, color.NRGBA64{R: 0x0a0a, G: 0x0a0a, B: 0x0a0a, A: 0x0101})
	src.SetNRGBA64(1, 0, color.NRGBA64{R: 0xffff, B: 0xffff, A: 0x8080})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	img, _, err := DecodeRGBA(&buf)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 10, G: 10, B: 10, A: 1}, img.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{R: 255, B: 255, A: 128}, img.NRGBAAt(1, 0))
}

func TestDecodeRGBA(t *testing.T) {
	src := image.NewPaletted(image.Rect(0, 0, 2, 2), color.Palette{
		color.NRGBA{A: 255},
		color.NRGBA{R: 200, G: 100, B: 50, A: 255},
	})
	src.SetColorIndex(1, 1, 1)

	encoders := map[string]func(*bytes.Buffer) error{
		"png": func(b *bytes.Buffer) error { return png.Encode(b, src) },
		"gif": func(b *bytes.Buffer) error { return gif.Encode(b, src, nil) },
		"bmp": func(b *bytes.Buffer) error { return bmp.Encode(b, src) },
	}
	for name, enc := range encoders {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, enc(&buf))

			img, format, err := DecodeRGBA(&buf)
			require.NoError(t, err)
			assert.Equal(t, name, format)
			assert.Equal(t, image.Rect(0, 0, 2, 2), img.Bounds())
			assert.Equal(t, color.NRGBA{A: 255}, img.NRGBAAt(0, 0))
			assert.Equal(t, color.NRGBA{R: 200, G: 100, B: 50, A: 255}, img.NRGBAAt(1, 1))
		})
	}
}

func TestDecodeRGBA_SemiTransparentPNG(t *testing.T) {
	src := solidImage(2, 1, color.NRGBA{R: 255, G: 0, B: 255, A: 128})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	img, _, err := DecodeRGBA(&buf)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 255, G: 0, B: 255, A: 128}, img.NRGBAAt(1, 0))
}

func TestDecodeRGBA_Garbage(t *testing.T) {
	_, _, err := DecodeRGBA(bytes.NewReader([]byte("not an image")))
	assert.ErrorIs(t, err, image.ErrFormat)
}
