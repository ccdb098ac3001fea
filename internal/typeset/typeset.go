// Package typeset implements the flow-layout engine behind the renderer:
// it registers fonts, wraps typesetting units into lines, flows lines
// across fixed-size pages, and rasterizes pages to pixel grids at a
// target DPI. All public dimensions are in points; the engine converts
// to millimeters at the canvas boundary.
package typeset

import (
	"image/color"
)

// Conversion between points and millimeters.
const (
	PtToMm = 25.4 / 72.0
	MmToPt = 72.0 / 25.4
)

// Alignment selects horizontal placement of text within the column.
type Alignment int

const (
	AlignJustify Alignment = iota
	AlignStart
	AlignCenter
	AlignEnd
)

// String returns the keyword form of the alignment.
func (a Alignment) String() string {
	switch a {
	case AlignStart:
		return "start"
	case AlignCenter:
		return "center"
	case AlignEnd:
		return "end"
	default:
		return "justify"
	}
}

// Style carries every typesetting parameter the engine needs. Lengths
// are points unless noted otherwise.
type Style struct {
	PageWidth  float64
	PageHeight float64
	MarginX    float64
	MarginY    float64

	FontPath string
	FontName string
	FontSize float64
	Leading  float64 // line advance; 0 means FontSize + 1

	PageBackground  color.RGBA
	TextColor       color.RGBA
	ParaBackground  color.RGBA
	ParaBorderColor color.RGBA
	BorderWidth     float64
	BorderPadding   float64

	FirstLineIndent float64
	LeftIndent      float64
	RightIndent     float64
	Alignment       Alignment
	SpaceBefore     float64
	SpaceAfter      float64

	// LineBreak is the inline marker joining logical lines inside one
	// typesetting unit. Empty means DefaultLineBreak.
	LineBreak string
}

// DefaultLineBreak is the inline line-break marker.
const DefaultLineBreak = "<br/>"

// span is a run of text drawn at an absolute x offset (mm from the left
// page edge).
type span struct {
	x    float64
	text string
}

// line is one baseline-aligned row of spans. top is mm from the top of
// the page.
type line struct {
	top   float64
	spans []span
}

// rect is a filled (and optionally stroked) rectangle in page
// coordinates (mm, top-left origin).
type rect struct {
	x, y, w, h  float64
	fill        color.RGBA
	stroke      color.RGBA
	strokeWidth float64
}

// page holds the draw list for one fixed-size page. Rectangles are
// painted before text.
type page struct {
	rects []rect
	lines []line
}

// Document is an in-memory paginated document of fixed page size,
// produced by Engine.Paginate and consumed by Engine.Rasterize.
type Document struct {
	widthMM  float64
	heightMM float64
	bg       color.RGBA
	style    Style
	pages    []*page
}

// PageCount reports the number of flowed pages. It is determined solely
// by content and style, never pre-specified.
func (d *Document) PageCount() int { return len(d.pages) }

// PageSizeMM returns the page dimensions in millimeters.
func (d *Document) PageSizeMM() (w, h float64) { return d.widthMM, d.heightMM }
