package palettize

import (
	"bytes"
	"image"
	"image/color"
	"io"
	"testing"

	"github.com/klauspost/compress/zlib"
	"github.com/stretchr/testify/require"

	"github.com/carlhannes/palettize/internal/container"
	"github.com/carlhannes/palettize/mux"
	"github.com/carlhannes/palettize/palette"
)

// scenarioPalette is a gray ramp (index i = i,i,i) with index 200 magenta.
func scenarioPalette() []byte {
	plte := make([]byte, container.PaletteSize)
	for i := 0; i < palette.Size; i++ {
		plte[3*i], plte[3*i+1], plte[3*i+2] = byte(i), byte(i), byte(i)
	}
	plte[600], plte[601], plte[602] = 255, 0, 255
	return plte
}

// buildDonorPNG returns a valid 1x1 indexed PNG carrying plte and trns.
func buildDonorPNG(t testing.TB, plte, trns []byte) []byte {
	t.Helper()
	data, err := EncodeBytes(1, 1, plte, trns, []byte{0}, nil)
	require.NoError(t, err)
	return data
}

func scenarioDonor(t testing.TB, trns []byte) *palette.Donor {
	t.Helper()
	d, err := palette.Extract(buildDonorPNG(t, scenarioPalette(), trns))
	require.NoError(t, err)
	return d
}

func solidImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// inflateIDAT demuxes a PNG and returns its decompressed scanlines.
func inflateIDAT(t testing.TB, data []byte) []byte {
	t.Helper()
	d, err := mux.Demux(data)
	require.NoError(t, err)

	var z []byte
	for _, c := range d.Chunks() {
		if c.Type == mux.TypeIDAT {
			z = append(z, c.Data...)
		}
	}
	zr, err := zlib.NewReader(bytes.NewReader(z))
	require.NoError(t, err)
	defer zr.Close()
	raw, err := io.ReadAll(zr)
	require.NoError(t, err)
	return raw
}
