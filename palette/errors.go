package palette

import (
	"errors"
	"fmt"
	"image/color"
)

// Sentinels matched by the typed errors below through errors.Is.
var (
	ErrMissingPalette        = errors.New("palette: donor has no PLTE chunk")
	ErrMalformedPalette      = errors.New("palette: malformed PLTE chunk")
	ErrMalformedTransparency = errors.New("palette: malformed tRNS chunk")
	ErrUnmatchedColor        = errors.New("palette: pixel not in donor palette")
)

// MissingPaletteError is returned when the donor has no PLTE chunk.
type MissingPaletteError struct{}

func (e *MissingPaletteError) Error() string { return ErrMissingPalette.Error() }

func (e *MissingPaletteError) Is(target error) bool { return target == ErrMissingPalette }

// MalformedPaletteError is returned when the PLTE payload is not exactly
// Expected bytes long.
type MalformedPaletteError struct {
	Actual   int
	Expected int
}

func (e *MalformedPaletteError) Error() string {
	return fmt.Sprintf("palette: donor PLTE length=%d, expected %d", e.Actual, e.Expected)
}

func (e *MalformedPaletteError) Is(target error) bool { return target == ErrMalformedPalette }

// UnmatchedColorError reports the first pixel, in row-major order, whose
// exact color has no entry in the donor palette. X and Y are offsets from
// the image's bounds origin.
type UnmatchedColorError struct {
	X, Y  int
	Color color.NRGBA
}

func (e *UnmatchedColorError) Error() string {
	return fmt.Sprintf("palette: pixel not in donor palette at (%d,%d) rgba=%d,%d,%d,%d",
		e.X, e.Y, e.Color.R, e.Color.G, e.Color.B, e.Color.A)
}

func (e *UnmatchedColorError) Is(target error) bool { return target == ErrUnmatchedColor }
