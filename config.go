package text2img

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/KMnO4-zx/go-text2img/internal/typeset"
	"github.com/KMnO4-zx/go-text2img/internal/yamlutil"
)

// Typesetting defaults, matching the documented config file contract.
const (
	DefaultFontSize = 9.0
	DefaultMargin   = 20.0
	DefaultDPI      = 72.0
	DefaultUnitSize = 30
)

// Page size keywords in points.
var pageSizes = map[string][2]float64{
	"A4":     {595.2755905511812, 841.8897637795277},
	"LETTER": {612, 792},
	"A3":     {16.5 * 72, 11.7 * 72},
}

// Settings is one configuration layer in human-readable token form:
// colors as hex strings, alignment and page size as keywords. Layers
// merge with increasing precedence and resolve to a RenderConfig before
// any typesetting work starts. Pointer fields distinguish "not set"
// from zero values.
type Settings struct {
	PageSize        string   `json:"page-size,omitempty" yaml:"page-size,omitempty"`
	MarginX         *float64 `json:"margin-x,omitempty" yaml:"margin-x,omitempty"`
	MarginY         *float64 `json:"margin-y,omitempty" yaml:"margin-y,omitempty"`
	FontPath        string   `json:"font-path,omitempty" yaml:"font-path,omitempty"`
	FontSize        *float64 `json:"font-size,omitempty" yaml:"font-size,omitempty"`
	LineHeight      *float64 `json:"line-height,omitempty" yaml:"line-height,omitempty"`
	PageBgColor     string   `json:"page-bg-color,omitempty" yaml:"page-bg-color,omitempty"`
	FontColor       string   `json:"font-color,omitempty" yaml:"font-color,omitempty"`
	ParaBgColor     string   `json:"para-bg-color,omitempty" yaml:"para-bg-color,omitempty"`
	ParaBorderColor string   `json:"para-border-color,omitempty" yaml:"para-border-color,omitempty"`
	FirstLineIndent *float64 `json:"first-line-indent,omitempty" yaml:"first-line-indent,omitempty"`
	LeftIndent      *float64 `json:"left-indent,omitempty" yaml:"left-indent,omitempty"`
	RightIndent     *float64 `json:"right-indent,omitempty" yaml:"right-indent,omitempty"`
	Alignment       string   `json:"alignment,omitempty" yaml:"alignment,omitempty"`
	SpaceBefore     *float64 `json:"space-before,omitempty" yaml:"space-before,omitempty"`
	SpaceAfter      *float64 `json:"space-after,omitempty" yaml:"space-after,omitempty"`
	BorderWidth     *float64 `json:"border-width,omitempty" yaml:"border-width,omitempty"`
	BorderPadding   *float64 `json:"border-padding,omitempty" yaml:"border-padding,omitempty"`
	HorizontalScale *float64 `json:"horizontal-scale,omitempty" yaml:"horizontal-scale,omitempty"`
	DPI             *float64 `json:"dpi,omitempty" yaml:"dpi,omitempty"`
	AutoCropWidth   *bool    `json:"auto-crop-width,omitempty" yaml:"auto-crop-width,omitempty"`
	AutoCropLast    *bool    `json:"auto-crop-last-page,omitempty" yaml:"auto-crop-last-page,omitempty"`
	AutoCropContent *bool    `json:"auto-crop-content,omitempty" yaml:"auto-crop-content,omitempty"`
	NewlineMarkup   string   `json:"newline-markup,omitempty" yaml:"newline-markup,omitempty"`
	UnitSize        *int     `json:"unit-size,omitempty" yaml:"unit-size,omitempty"`
}

// RenderConfig is the fully resolved, typed parameter bag. It is built
// once per item and immutable afterwards; no human-readable token
// survives past Resolve.
type RenderConfig struct {
	Style           typeset.Style
	HorizontalScale float64
	DPI             float64
	AutoCropWidth   bool
	AutoCropLast    bool
	AutoCropContent bool
	UnitSize        int
}

// LoadSettings reads a settings layer from a JSON or YAML config file.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var s Settings
	if err := yamlutil.UnmarshalStrict(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	return &s, nil
}

// Merge overlays layers in increasing precedence order: a set field in a
// later layer wins over any earlier layer. Nil layers are skipped; the
// inputs are never mutated.
func Merge(layers ...*Settings) *Settings {
	out := &Settings{}
	for _, layer := range layers {
		if layer == nil {
			continue
		}
		overlayStrings(out, layer)
		overlayScalars(out, layer)
	}
	return out
}

func overlayStrings(dst, src *Settings) {
	if src.PageSize != "" {
		dst.PageSize = src.PageSize
	}
	if src.FontPath != "" {
		dst.FontPath = src.FontPath
	}
	if src.PageBgColor != "" {
		dst.PageBgColor = src.PageBgColor
	}
	if src.FontColor != "" {
		dst.FontColor = src.FontColor
	}
	if src.ParaBgColor != "" {
		dst.ParaBgColor = src.ParaBgColor
	}
	if src.ParaBorderColor != "" {
		dst.ParaBorderColor = src.ParaBorderColor
	}
	if src.Alignment != "" {
		dst.Alignment = src.Alignment
	}
	if src.NewlineMarkup != "" {
		dst.NewlineMarkup = src.NewlineMarkup
	}
}

func overlayScalars(dst, src *Settings) {
	if src.MarginX != nil {
		dst.MarginX = src.MarginX
	}
	if src.MarginY != nil {
		dst.MarginY = src.MarginY
	}
	if src.FontSize != nil {
		dst.FontSize = src.FontSize
	}
	if src.LineHeight != nil {
		dst.LineHeight = src.LineHeight
	}
	if src.FirstLineIndent != nil {
		dst.FirstLineIndent = src.FirstLineIndent
	}
	if src.LeftIndent != nil {
		dst.LeftIndent = src.LeftIndent
	}
	if src.RightIndent != nil {
		dst.RightIndent = src.RightIndent
	}
	if src.SpaceBefore != nil {
		dst.SpaceBefore = src.SpaceBefore
	}
	if src.SpaceAfter != nil {
		dst.SpaceAfter = src.SpaceAfter
	}
	if src.BorderWidth != nil {
		dst.BorderWidth = src.BorderWidth
	}
	if src.BorderPadding != nil {
		dst.BorderPadding = src.BorderPadding
	}
	if src.HorizontalScale != nil {
		dst.HorizontalScale = src.HorizontalScale
	}
	if src.DPI != nil {
		dst.DPI = src.DPI
	}
	if src.AutoCropWidth != nil {
		dst.AutoCropWidth = src.AutoCropWidth
	}
	if src.AutoCropLast != nil {
		dst.AutoCropLast = src.AutoCropLast
	}
	if src.AutoCropContent != nil {
		dst.AutoCropContent = src.AutoCropContent
	}
	if src.UnitSize != nil {
		dst.UnitSize = src.UnitSize
	}
}

// Resolve converts the merged token layer into a typed RenderConfig.
// A missing or unreadable font fails here, before any rendering starts:
// cheap to detect now, expensive to discover mid-batch.
func (s *Settings) Resolve() (*RenderConfig, error) {
	if s.FontPath == "" {
		return nil, ErrMissingFont
	}
	if _, err := os.Stat(s.FontPath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFontNotFound, s.FontPath)
	}

	pageW, pageH, err := parsePageSize(s.PageSize)
	if err != nil {
		return nil, err
	}

	pageBg, err := resolveColor(s.PageBgColor, color.RGBA{255, 255, 255, 255})
	if err != nil {
		return nil, err
	}
	fontColor, err := resolveColor(s.FontColor, color.RGBA{0, 0, 0, 255})
	if err != nil {
		return nil, err
	}
	paraBg, err := resolveColor(s.ParaBgColor, color.RGBA{255, 255, 255, 255})
	if err != nil {
		return nil, err
	}
	paraBorder, err := resolveColor(s.ParaBorderColor, color.RGBA{255, 255, 255, 255})
	if err != nil {
		return nil, err
	}

	fontSize := floatOr(s.FontSize, DefaultFontSize)
	cfg := &RenderConfig{
		Style: typeset.Style{
			PageWidth:       pageW,
			PageHeight:      pageH,
			MarginX:         floatOr(s.MarginX, DefaultMargin),
			MarginY:         floatOr(s.MarginY, DefaultMargin),
			FontPath:        s.FontPath,
			FontName:        fontName(s.FontPath),
			FontSize:        fontSize,
			Leading:         floatOr(s.LineHeight, fontSize+1),
			PageBackground:  pageBg,
			TextColor:       fontColor,
			ParaBackground:  paraBg,
			ParaBorderColor: paraBorder,
			BorderWidth:     floatOr(s.BorderWidth, 0),
			BorderPadding:   floatOr(s.BorderPadding, 0),
			FirstLineIndent: floatOr(s.FirstLineIndent, 0),
			LeftIndent:      floatOr(s.LeftIndent, 0),
			RightIndent:     floatOr(s.RightIndent, 0),
			Alignment:       parseAlignment(s.Alignment),
			SpaceBefore:     floatOr(s.SpaceBefore, 0),
			SpaceAfter:      floatOr(s.SpaceAfter, 0),
			LineBreak:       stringOr(s.NewlineMarkup, typeset.DefaultLineBreak),
		},
		HorizontalScale: floatOr(s.HorizontalScale, 1.0),
		DPI:             floatOr(s.DPI, DefaultDPI),
		AutoCropWidth:   boolOr(s.AutoCropWidth, false),
		AutoCropLast:    boolOr(s.AutoCropLast, false),
		AutoCropContent: boolOr(s.AutoCropContent, false),
		UnitSize:        intOr(s.UnitSize, DefaultUnitSize),
	}
	if cfg.UnitSize < 1 {
		cfg.UnitSize = 1
	}
	return cfg, nil
}

// fontName derives the logical font name from the file name, without
// its extension.
func fontName(path string) string {
	base := filepath.Base(path)
	if i := strings.IndexByte(base, '.'); i > 0 {
		return base[:i]
	}
	return base
}

// parseAlignment maps an alignment keyword to its typed value. Unknown
// keywords silently fall back to justify: a deliberate leniency contract
// that keeps old binaries compatible with newer config files.
func parseAlignment(keyword string) typeset.Alignment {
	switch strings.ToUpper(strings.TrimSpace(keyword)) {
	case "LEFT", "START":
		return typeset.AlignStart
	case "CENTER":
		return typeset.AlignCenter
	case "RIGHT", "END":
		return typeset.AlignEnd
	default:
		return typeset.AlignJustify
	}
}

// parsePageSize accepts a page-size keyword (A4, LETTER, A3) or a
// "W,H" literal in points. Unknown keywords fall back to A4, matching
// the alignment leniency; a malformed numeric literal is an error.
func parsePageSize(token string) (w, h float64, err error) {
	token = strings.TrimSpace(token)
	if token == "" {
		size := pageSizes["A4"]
		return size[0], size[1], nil
	}

	if strings.Contains(token, ",") {
		parts := strings.SplitN(token, ",", 2)
		w, errW := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		h, errH := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if errW != nil || errH != nil || w <= 0 || h <= 0 {
			return 0, 0, fmt.Errorf("%w: %q", ErrBadPageSize, token)
		}
		return w, h, nil
	}

	if size, ok := pageSizes[strings.ToUpper(token)]; ok {
		return size[0], size[1], nil
	}
	size := pageSizes["A4"]
	return size[0], size[1], nil
}

// resolveColor parses a "#RRGGBB" (or "#RGB") token, using fallback for
// the empty string.
func resolveColor(token string, fallback color.RGBA) (color.RGBA, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return fallback, nil
	}
	return parseHexColor(token)
}

func parseHexColor(token string) (color.RGBA, error) {
	hex := strings.TrimPrefix(token, "#")
	var r, g, b uint64
	var err error
	switch len(hex) {
	case 6:
		r, err = strconv.ParseUint(hex[0:2], 16, 8)
		if err == nil {
			g, err = strconv.ParseUint(hex[2:4], 16, 8)
		}
		if err == nil {
			b, err = strconv.ParseUint(hex[4:6], 16, 8)
		}
	case 3:
		r, err = strconv.ParseUint(strings.Repeat(hex[0:1], 2), 16, 8)
		if err == nil {
			g, err = strconv.ParseUint(strings.Repeat(hex[1:2], 2), 16, 8)
		}
		if err == nil {
			b, err = strconv.ParseUint(strings.Repeat(hex[2:3], 2), 16, 8)
		}
	default:
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrBadColor, token)
	}
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrBadColor, token)
	}
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255}, nil
}

func floatOr(v *float64, fallback float64) float64 {
	if v != nil {
		return *v
	}
	return fallback
}

func boolOr(v *bool, fallback bool) bool {
	if v != nil {
		return *v
	}
	return fallback
}

func intOr(v *int, fallback int) int {
	if v != nil {
		return *v
	}
	return fallback
}

func stringOr(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
