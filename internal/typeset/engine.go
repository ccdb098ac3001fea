package typeset

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/tdewolff/canvas"
)

// Sentinel errors for engine operations.
var (
	ErrNoFontPath   = errors.New("typeset: style has no font path")
	ErrFontRegister = errors.New("typeset: font registration failed")
	ErrNoColumn     = errors.New("typeset: margins and indents leave no text column")
)

// Engine flows typesetting units into fixed-size pages and rasterizes
// them. It is safe for concurrent use; the font cache is the only
// shared state.
type Engine struct {
	mu       sync.Mutex
	families map[string]*canvas.FontFamily
}

// NewEngine creates an engine with an empty font cache.
func NewEngine() *Engine {
	return &Engine{families: map[string]*canvas.FontFamily{}}
}

// family returns the font family for st, loading the font file on first
// use. A cached family is reused as-is: registering the same font twice
// is not an error, any other load failure is fatal.
func (e *Engine) family(st Style) (*canvas.FontFamily, error) {
	if st.FontPath == "" {
		return nil, ErrNoFontPath
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if fam, ok := e.families[st.FontPath]; ok {
		return fam, nil
	}

	data, err := os.ReadFile(st.FontPath) // #nosec G304 -- font path comes from resolved config
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrFontRegister, st.FontPath, err)
	}

	name := st.FontName
	if name == "" {
		name = "Body"
	}
	fam := canvas.NewFontFamily(name)
	if err := fam.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFontRegister, st.FontPath, err)
	}

	e.families[st.FontPath] = fam
	return fam, nil
}

// geometry is the style converted to millimeters once per document.
type geometry struct {
	pw, ph       float64
	my           float64
	contentLeft  float64
	contentRight float64
	firstIndent  float64
	leading      float64
	spaceBefore  float64
	spaceAfter   float64
	borderPad    float64
	borderWidth  float64
}

func resolveGeometry(st Style) geometry {
	leading := st.Leading
	if leading <= 0 {
		leading = st.FontSize + 1
	}
	g := geometry{
		pw:          st.PageWidth * PtToMm,
		ph:          st.PageHeight * PtToMm,
		my:          st.MarginY * PtToMm,
		firstIndent: st.FirstLineIndent * PtToMm,
		leading:     leading * PtToMm,
		spaceBefore: st.SpaceBefore * PtToMm,
		spaceAfter:  st.SpaceAfter * PtToMm,
		borderPad:   st.BorderPadding * PtToMm,
		borderWidth: st.BorderWidth * PtToMm,
	}
	g.contentLeft = (st.MarginX + st.LeftIndent) * PtToMm
	g.contentRight = (st.PageWidth - st.MarginX - st.RightIndent) * PtToMm
	return g
}

// Paginate flows units into a fixed-size multi-page document. Each unit
// is one flow paragraph whose inline break markers become hard line
// breaks. The page count emerges from content and style alone.
func (e *Engine) Paginate(units []string, st Style) (*Document, error) {
	fam, err := e.family(st)
	if err != nil {
		return nil, err
	}
	face := fam.Face(st.FontSize, st.TextColor, canvas.FontRegular, canvas.FontNormal)

	g := resolveGeometry(st)
	if g.contentRight <= g.contentLeft || g.ph <= 2*g.my {
		return nil, ErrNoColumn
	}

	doc := &Document{
		widthMM:  g.pw,
		heightMM: g.ph,
		bg:       st.PageBackground,
		style:    st,
	}
	f := &flow{doc: doc, g: g}
	f.newPage()

	for _, unit := range units {
		f.placeUnit(unit, st, face)
	}
	return doc, nil
}

// flow tracks the vertical cursor while filling pages.
type flow struct {
	doc *Document
	g   geometry
	cur *page
	y   float64
}

func (f *flow) newPage() {
	f.cur = &page{}
	f.doc.pages = append(f.doc.pages, f.cur)
	f.y = f.g.my
}

func (f *flow) atTop() bool { return f.y <= f.g.my }

// fit breaks the page when one more line of the given height would
// overflow the bottom margin.
func (f *flow) fit(h float64) {
	if !f.atTop() && f.y+h > f.g.ph-f.g.my {
		f.newPage()
	}
}

func (f *flow) placeUnit(unit string, st Style, face *canvas.FontFace) {
	g := f.g
	if !f.atTop() {
		f.y += g.spaceBefore
	}

	width := g.contentRight - g.contentLeft
	deco := &decoTracker{}
	firstLine := true

	for _, seg := range splitSegments(unit, st.LineBreak) {
		indent := 0.0
		if firstLine && (st.Alignment == AlignStart || st.Alignment == AlignJustify) {
			indent = g.firstIndent
		}
		for _, wl := range wrapSegment(decodeEntities(seg), width, indent, face) {
			f.fit(g.leading)
			deco.observe(f)
			ln := buildLine(wl, st.Alignment, g)
			ln.top = f.y
			f.cur.lines = append(f.cur.lines, ln)
			f.y += g.leading
			deco.extend(f)
			firstLine = false
		}
		firstLine = false
	}

	deco.flush(st, g)
	f.y += g.spaceAfter
}

// decoTracker collects the paragraph background/border rectangle for
// each page a unit touches.
type decoTracker struct {
	runs []*decoRun
	cur  *decoRun
}

type decoRun struct {
	page *page
	top  float64
	bot  float64
}

func (d *decoTracker) observe(f *flow) {
	if d.cur == nil || d.cur.page != f.cur {
		d.cur = &decoRun{page: f.cur, top: f.y, bot: f.y}
		d.runs = append(d.runs, d.cur)
	}
}

func (d *decoTracker) extend(f *flow) {
	if d.cur != nil && d.cur.page == f.cur {
		d.cur.bot = f.y
	}
}

func (d *decoTracker) flush(st Style, g geometry) {
	for _, run := range d.runs {
		r := rect{
			x:    g.contentLeft - g.borderPad,
			y:    run.top - g.borderPad,
			w:    g.contentRight - g.contentLeft + 2*g.borderPad,
			h:    run.bot - run.top + 2*g.borderPad,
			fill: st.ParaBackground,
		}
		if g.borderWidth > 0 {
			r.stroke = st.ParaBorderColor
			r.strokeWidth = g.borderWidth
		}
		run.page.rects = append(run.page.rects, r)
	}
}

// token is a run of breakable spaces or an unbreakable chunk. The text
// is the display form: non-breaking spaces render as ordinary spaces
// but never offer a break opportunity.
type token struct {
	text  string
	width float64
	space bool
}

func isBreakable(r rune) bool { return r == ' ' || r == '\t' }

func tokenize(seg string, face *canvas.FontFace) []token {
	var tokens []token
	var run []rune
	runSpace := false

	flush := func() {
		if len(run) == 0 {
			return
		}
		text := string(run)
		tokens = append(tokens, token{text: text, width: face.TextWidth(text), space: runSpace})
		run = run[:0]
	}

	for _, r := range seg {
		if r == '\r' {
			continue
		}
		br := isBreakable(r)
		if r == '\u00a0' || r == '\t' {
			r = ' ' // display form; a non-breaking space never sets br
		}
		if len(run) == 0 {
			runSpace = br
		} else if runSpace != br {
			flush()
			runSpace = br
		}
		run = append(run, r)
	}
	flush()
	return tokens
}

// wrapped is one laid-out line: its tokens, their summed width, the
// extra indent of the unit's first line, and whether the line ends in a
// hard break (hard lines are never justified).
type wrapped struct {
	tokens []token
	width  float64
	indent float64
	hard   bool
}

// wrapSegment greedily fills lines of the given column width. An empty
// segment still produces one empty line so blank lines consume leading.
func wrapSegment(seg string, width, firstIndent float64, face *canvas.FontFace) []wrapped {
	var out []wrapped
	var cur []token
	var curW float64
	indent := firstIndent
	avail := width - firstIndent

	flush := func(hard bool) {
		for len(cur) > 0 && cur[len(cur)-1].space {
			curW -= cur[len(cur)-1].width
			cur = cur[:len(cur)-1]
		}
		out = append(out, wrapped{tokens: cur, width: curW, indent: indent, hard: hard})
		cur = nil
		curW = 0
		indent = 0
		avail = width
	}

	for _, tok := range tokenize(seg, face) {
		if tok.space {
			if len(cur) == 0 && len(out) > 0 {
				continue // drop leading spaces on continuation lines
			}
			cur = append(cur, tok)
			curW += tok.width
			continue
		}

		if tok.width > width {
			// A chunk wider than the column is split by width.
			if len(cur) > 0 {
				flush(false)
			}
			for _, part := range splitByWidth(tok.text, width, face) {
				w := face.TextWidth(part)
				if len(cur) > 0 && curW+w > avail {
					flush(false)
				}
				cur = append(cur, token{text: part, width: w})
				curW += w
			}
			continue
		}

		if len(cur) > 0 && curW+tok.width > avail {
			flush(false)
		}
		cur = append(cur, tok)
		curW += tok.width
	}
	flush(true)
	return out
}

// splitByWidth chops a chunk into pieces no wider than limit, keeping at
// least one rune per piece.
func splitByWidth(chunk string, limit float64, face *canvas.FontFace) []string {
	var parts []string
	var cur []rune
	for _, r := range chunk {
		cur = append(cur, r)
		if len(cur) > 1 && face.TextWidth(string(cur)) > limit {
			parts = append(parts, string(cur[:len(cur)-1]))
			cur = []rune{r}
		}
	}
	if len(cur) > 0 {
		parts = append(parts, string(cur))
	}
	return parts
}

// buildLine converts a wrapped line into positioned spans. Justified
// lines distribute the slack across breakable space runs; hard-broken
// and final lines keep their natural width.
func buildLine(wl wrapped, align Alignment, g geometry) line {
	width := g.contentRight - g.contentLeft
	x := g.contentLeft + wl.indent

	switch align {
	case AlignCenter:
		x = g.contentLeft + (width-wl.width)/2
	case AlignEnd:
		x = g.contentRight - wl.width
	}

	var extraPerSpace float64
	if align == AlignJustify && !wl.hard {
		spaces := 0
		for _, tok := range wl.tokens {
			if tok.space {
				spaces++
			}
		}
		if spaces > 0 {
			if slack := width - wl.indent - wl.width; slack > 0 {
				extraPerSpace = slack / float64(spaces)
			}
		}
	}

	var ln line
	cursor := x
	for _, tok := range wl.tokens {
		if tok.space {
			cursor += tok.width + extraPerSpace
			continue
		}
		ln.spans = append(ln.spans, span{x: cursor, text: tok.text})
		cursor += tok.width
	}
	return ln
}
