package typeset

import (
	"errors"
	"fmt"
	"image"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
)

// ErrPageRange reports an invalid page range for Rasterize.
var ErrPageRange = errors.New("typeset: invalid page range")

// Rasterize renders the 1-based inclusive page range [first, last] to
// pixel grids at the given DPI. Callers pass bounded ranges so peak
// memory stays proportional to the range length, not the document.
func (e *Engine) Rasterize(doc *Document, dpi float64, first, last int) ([]*image.RGBA, error) {
	if doc == nil || doc.PageCount() == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrPageRange)
	}
	if first < 1 || last > doc.PageCount() || first > last {
		return nil, fmt.Errorf("%w: [%d, %d] of %d pages", ErrPageRange, first, last, doc.PageCount())
	}
	if dpi <= 0 {
		dpi = 72
	}

	fam, err := e.family(doc.style)
	if err != nil {
		return nil, err
	}
	face := fam.Face(doc.style.FontSize, doc.style.TextColor, canvas.FontRegular, canvas.FontNormal)
	ascent := face.Metrics().Ascent

	imgs := make([]*image.RGBA, 0, last-first+1)
	for i := first; i <= last; i++ {
		p := doc.pages[i-1]

		c := canvas.New(doc.widthMM, doc.heightMM)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // top-left origin, same as the layout

		// Page surface fill. Every page gets the identical background,
		// the first page included.
		drawRect(ctx, rect{w: doc.widthMM, h: doc.heightMM, fill: doc.bg})

		for _, r := range p.rects {
			drawRect(ctx, r)
		}
		for _, ln := range p.lines {
			baseline := ln.top + ascent
			for _, sp := range ln.spans {
				ctx.DrawText(sp.x, baseline, canvas.NewTextLine(face, sp.text, canvas.Left))
			}
		}

		imgs = append(imgs, rasterizer.Draw(c, canvas.DPI(dpi), canvas.DefaultColorSpace))
	}
	return imgs, nil
}

func drawRect(ctx *canvas.Context, r rect) {
	ctx.SetFillColor(r.fill)
	if r.strokeWidth > 0 {
		ctx.SetStrokeColor(r.stroke)
		ctx.SetStrokeWidth(r.strokeWidth)
	} else {
		ctx.SetStrokeColor(canvas.Transparent)
		ctx.SetStrokeWidth(0)
	}
	ctx.DrawPath(r.x, r.y, canvas.Rectangle(r.w, r.h))
}
