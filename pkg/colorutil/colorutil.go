// Package colorutil provides packed color values and channel comparisons.
package colorutil

import (
	"fmt"
	"image/color"
)

// Channel shifts into a packed ARGB value.
const (
	ShiftRed   = 16
	ShiftGreen = 8
	ShiftBlue  = 0
)

// ARGB is a color packed as 0xAARRGGBB with non-premultiplied channels.
// Opaque colors are never zero, so zero is free to mean "no color".
type ARGB uint32

// FromColor packs any color.Color. Channels are converted to non-premultiplied
// form first, so a transparent pixel keeps its red, green and blue values.
func FromColor(c color.Color) ARGB {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return ARGB(uint32(n.A)<<24 | uint32(n.R)<<16 | uint32(n.G)<<8 | uint32(n.B))
}

// RGB builds an opaque color from 8-bit channels.
func RGB(r, g, b uint8) ARGB {
	return ARGB(0xFF<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// Channel extracts the 8-bit channel at the given shift.
func (c ARGB) Channel(shift uint) int {
	return int(uint32(c)>>shift) & 0xFF
}

// NRGBA converts back to a non-premultiplied color.
func (c ARGB) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: uint8(c.Channel(ShiftRed)),
		G: uint8(c.Channel(ShiftGreen)),
		B: uint8(c.Channel(ShiftBlue)),
		A: uint8(c.Channel(24)),
	}
}

func (c ARGB) String() string {
	return fmt.Sprintf("#%06x", uint32(c)&0xFFFFFF)
}

// CloseEnough reports whether a and b differ by less than tolerance in the
// red, green and blue channels. Alpha is ignored.
func CloseEnough(a, b ARGB, tolerance int) bool {
	for _, shift := range []uint{ShiftRed, ShiftGreen, ShiftBlue} {
		if absDiff(a.Channel(shift), b.Channel(shift)) >= tolerance {
			return false
		}
	}
	return true
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
