package niimbot

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRasterRowWidth(t *testing.T) {
	t.Parallel()

	cases := map[int]int{
		1:   1,
		7:   1,
		8:   1,
		9:   2,
		384: 48,
	}
	for width, stride := range cases {
		r := NewRaster(width, 2)
		assert.Len(t, r.Row(0), stride, "width %d", width)
		assert.Len(t, r.Row(1), stride, "width %d", width)
	}
}

func TestRasterBitPacking(t *testing.T) {
	t.Parallel()

	r := NewRaster(9, 2)
	r.Set(0, 0)
	r.Set(8, 0)
	r.Set(7, 1)

	assert.Equal(t, []byte{0x80, 0x80}, r.Row(0))
	assert.Equal(t, []byte{0x01, 0x00}, r.Row(1))

	// out of range is a no-op
	r.Set(9, 0)
	r.Set(-1, 0)
	r.Set(0, 2)
	assert.Equal(t, []byte{0x80, 0x80}, r.Row(0))
}

func TestRasterFromImageInverts(t *testing.T) {
	t.Parallel()

	img := image.NewGray(image.Rect(0, 0, 8, 1))
	for x := 0; x < 8; x++ {
		img.SetGray(x, 0, color.Gray{Y: 0xFF})
	}
	img.SetGray(2, 0, color.Gray{Y: 0x00})

	r := RasterFromImage(img)
	require.Equal(t, 8, r.Width())
	require.Equal(t, 1, r.Height())

	// only the dark source pixel prints
	assert.Equal(t, []byte{0x20}, r.Row(0))
}

func TestRowPacket(t *testing.T) {
	t.Parallel()

	r := NewRaster(8, 2)
	r.Set(0, 1)

	p := r.rowPacket(1)
	assert.Equal(t, cmdPrintLine, p.typ)
	assert.Equal(t, []byte{0x00, 0x01, 0x00, 0x00, 0x00, 0x01, 0x80}, p.data)
}
