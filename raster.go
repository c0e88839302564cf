package niimbot

import (
	"encoding/binary"
	"image"
	"image/color"
)

// Raster is a 1-bit-per-pixel bitmap, origin top-left, each row packed
// MSB-first into ceil(width/8) bytes. Bit value 1 prints ink.
type Raster struct {
	width  int
	height int
	stride int
	bits   []byte
}

// NewRaster returns a blank raster of the given pixel dimensions.
func NewRaster(width, height int) *Raster {
	stride := (width + 7) / 8
	return &Raster{
		width:  width,
		height: height,
		stride: stride,
		bits:   make([]byte, stride*height),
	}
}

func (r *Raster) Width() int {
	return r.width
}

func (r *Raster) Height() int {
	return r.height
}

// Set marks the pixel at (x, y) as ink. Out of range coordinates are
// ignored.
func (r *Raster) Set(x, y int) {
	if x < 0 || x >= r.width || y < 0 || y >= r.height {
		return
	}
	r.bits[y*r.stride+x/8] |= 0x80 >> (x % 8)
}

// Row returns the packed bytes of row y.
func (r *Raster) Row(y int) []byte {
	return r.bits[y*r.stride : (y+1)*r.stride]
}

// RasterFromImage converts any image into a print raster by luminance
// threshold. Dark source pixels become ink bits; this is the single
// point where the 0=black convention of image sources is inverted.
func RasterFromImage(img image.Image) *Raster {
	b := img.Bounds()
	r := NewRaster(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			g := color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray)
			if g.Y < 0x80 {
				r.Set(x, y)
			}
		}
	}
	return r
}

// rowPacket builds the unacknowledged print-line packet for row y:
// a big-endian row index, three repeat-count bytes and a trailing 1,
// followed by the packed row.
func (r *Raster) rowPacket(y int) packet {
	data := make([]byte, 6, 6+r.stride)
	binary.BigEndian.PutUint16(data[0:2], uint16(y))
	// bytes 2-4 are repeat counts; all known firmware accepts zeros
	data[5] = 1
	return packet{typ: cmdPrintLine, data: append(data, r.Row(y)...)}
}
