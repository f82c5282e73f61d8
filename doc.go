// Package palettize converts true-color images into 8-bit indexed PNG files
// that share the exact palette of a donor PNG.
//
// The donor's PLTE and tRNS chunks are copied byte for byte into every
// output, so all converted images index into one identical palette. Each
// target pixel must match a donor entry exactly, alpha included; there is
// no nearest-color fallback, and a single stray color fails the image.
//
// The conversion is three pure steps:
//   - palette.Extract reads the donor's PLTE and optional tRNS
//   - palette.Reindex maps every pixel to its palette index
//   - Encode writes IHDR, PLTE, tRNS, IDAT and IEND
//
// Basic usage:
//
//	donor, err := palette.Load(donorFile)
//	...
//	err = palettize.Convert(out, img, donor)
//
// A Converter built once per donor can be shared by concurrent goroutines.
package palettize
