package palette

import (
	"image"
	"image/color"
)

// Reindex maps every pixel of img to its palette index, row-major.
// It fails on the first pixel whose exact color is missing from the
// lookup, returning an *UnmatchedColorError and no indices.
func Reindex(img *image.NRGBA, lk *Lookup) ([]byte, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := make([]byte, w*h)

	q := 0
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+4*w]
		for x := 0; x < w; x++ {
			p := row[4*x : 4*x+4 : 4*x+4]
			idx, ok := lk.index[pack(p[0], p[1], p[2], p[3])]
			if !ok {
				return nil, &UnmatchedColorError{
					X:     x,
					Y:     y,
					Color: color.NRGBA{R: p[0], G: p[1], B: p[2], A: p[3]},
				}
			}
			out[q] = idx
			q++
		}
	}
	return out, nil
}
