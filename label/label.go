// Package label composes barcode product labels into monochrome images
// ready for rasterisation.
package label

import (
	"image"
	"image/draw"

	"github.com/ansel1/merry/v2"
	"github.com/boombuler/barcode/code128"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// pxPerMM matches the 203 dpi class print heads of the target printers.
const pxPerMM = 8

// Spec describes one label to compose.
type Spec struct {
	WidthMM  float64
	HeightMM float64
	Barcode  string
	Lines    []string
}

func deferWrap(err *error) {
	if err != nil {
		*err = merry.WrapSkipping(*err, 1)
	}
}

// Compose renders a label onto a white canvas: the text lines from the
// top, then a Code128 barcode scaled to the available width, then the
// human-readable barcode text beneath it.
func Compose(spec Spec) (_ image.Image, err error) {
	defer deferWrap(&err)

	widthPx := int(spec.WidthMM * pxPerMM)
	heightPx := int(spec.HeightMM * pxPerMM)
	pxPerMMf := float64(pxPerMM)
	padTop := int(2.2 * pxPerMMf)
	padLeft := int(2.0 * pxPerMMf)
	padRight := int(2.3 * pxPerMMf)
	availWidth := widthPx - padLeft - padRight

	canvas := image.NewGray(image.Rect(0, 0, widthPx, heightPx))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)

	textSize := float64(heightPx) * 0.08
	face, err := newFace(textSize)
	if err != nil {
		return
	}
	defer face.Close()

	lineHeight := int(textSize) + heightPx/100
	y := padTop + face.Metrics().Ascent.Ceil()
	for _, line := range spec.Lines {
		drawText(canvas, face, padLeft, y, line)
		y += lineHeight
	}

	code, err := code128.Encode(spec.Barcode)
	if err != nil {
		return
	}
	barHeight := heightPx * 30 / 100
	dst := image.Rect(padLeft, y, padLeft+availWidth, y+barHeight)
	xdraw.NearestNeighbor.Scale(canvas, dst, code, code.Bounds(), xdraw.Src, nil)
	y += barHeight + lineHeight

	codeFace, err := newFace(float64(heightPx) * 0.09)
	if err != nil {
		return
	}
	defer codeFace.Close()
	drawText(canvas, codeFace, padLeft+availWidth/3, y, spec.Barcode)

	return canvas, nil
}

func newFace(size float64) (_ font.Face, err error) {
	defer deferWrap(&err)

	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

func drawText(dst draw.Image, face font.Face, x, y int, text string) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.Black,
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
