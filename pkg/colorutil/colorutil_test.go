package colorutil

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromColor(t *testing.T) {
	c := FromColor(color.RGBA{R: 0x12, G: 0x34, B: 0x56, A: 0xFF})
	require.Equal(t, ARGB(0xFF123456), c)
	assert.Equal(t, 0x12, c.Channel(ShiftRed))
	assert.Equal(t, 0x34, c.Channel(ShiftGreen))
	assert.Equal(t, 0x56, c.Channel(ShiftBlue))
	assert.Equal(t, "#123456", c.String())
	assert.Equal(t, color.NRGBA{R: 0x12, G: 0x34, B: 0x56, A: 0xFF}, c.NRGBA())

	// Opaque black must not collide with the "no color" zero value.
	assert.NotZero(t, FromColor(color.Black))
	assert.Equal(t, RGB(0, 0, 0), FromColor(color.Black))
}

func TestFromColorTransparent(t *testing.T) {
	// Channels survive a zero alpha; only transparent black packs to zero.
	assert.Equal(t, ARGB(0x00C80000), FromColor(color.NRGBA{R: 200, A: 0}))
	assert.Equal(t, ARGB(0x80C80000), FromColor(color.NRGBA{R: 200, A: 0x80}))
	assert.Equal(t, color.NRGBA{R: 200, A: 0x80}, ARGB(0x80C80000).NRGBA())
	assert.Zero(t, FromColor(color.Transparent))
	assert.Zero(t, FromColor(color.RGBA{}))
}

func TestCloseEnough(t *testing.T) {
	red := RGB(0xFF, 0, 0)
	darkRed := RGB(0xF0, 0, 0)
	green := RGB(0, 0xFF, 0)

	assert.True(t, CloseEnough(red, darkRed, 50))
	assert.False(t, CloseEnough(red, green, 50))
	assert.False(t, CloseEnough(darkRed, green, 50))

	// The threshold is exclusive.
	assert.True(t, CloseEnough(RGB(0, 0, 0), RGB(0, 0, 49), 50))
	assert.False(t, CloseEnough(RGB(0, 0, 0), RGB(0, 0, 50), 50))

	// Alpha does not participate.
	assert.True(t, CloseEnough(ARGB(0x00102030), ARGB(0xFF102030), 1))
}
