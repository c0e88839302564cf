package niimbot

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const (
	rowPacketDelay = 10 * time.Millisecond
	endPageSettle  = 2 * time.Second
)

// ValidateWidth checks a raster against a model's printable width
// ceiling. Callers must satisfy this before printing; the sequence
// itself does not know model limits.
func ValidateWidth(r *Raster, maxWidthPx int) error {
	if r.Width() > maxWidthPx {
		return fmt.Errorf("image width %dpx exceeds printable width %dpx", r.Width(), maxWidthPx)
	}
	return nil
}

// PrintRaster runs the full command sequence for one physical print:
// density, label type, start print, start page, dimensions, the row
// stream, end page, and after the mechanism settles, end print. Row
// packets are fire-and-forget with a small delay to respect the
// printer's ingestion rate.
//
// A false reply to a setup step is logged but not escalated; callers
// needing strict confirmation should issue the setters themselves.
func (c *Client) PrintRaster(ctx context.Context, r *Raster, density, copies int) (err error) {
	defer deferWrap(&err)

	steps := []struct {
		name string
		run  func() (bool, error)
	}{
		{"set label density", func() (bool, error) { return c.SetLabelDensity(ctx, density) }},
		{"set label type", func() (bool, error) { return c.SetLabelType(ctx, labelTypeWithGaps) }},
		{"start print", func() (bool, error) { return c.StartPrint(ctx, copies) }},
		{"start page print", func() (bool, error) { return c.StartPagePrint(ctx) }},
		{"set dimension", func() (bool, error) { return c.SetDimension(ctx, r.Height(), r.Width(), copies) }},
	}
	for _, step := range steps {
		var ok bool
		ok, err = step.run()
		if err != nil {
			return
		}
		if !ok {
			slog.Warn("printer declined setup step", "step", step.name)
		}
	}

	for y := 0; y < r.Height(); y++ {
		if ctx.Err() != nil {
			err = context.Cause(ctx)
			return
		}
		err = c.send(r.rowPacket(y))
		if err != nil {
			return
		}
		time.Sleep(rowPacketDelay)
	}

	ok, err := c.EndPagePrint(ctx)
	if err != nil {
		return
	}
	if !ok {
		slog.Warn("printer declined end of page")
	}

	// let the mechanism finish feeding before tearing the job down
	time.Sleep(endPageSettle)

	_, err = c.EndPrint(ctx)
	return
}
