package text2img

import (
	"image"

	"github.com/KMnO4-zx/go-text2img/internal/imaging"
)

// Crop heuristic constants. Content-crop samples a larger background
// patch and tolerates more deviation than the axis crops because short
// documents leave more page untouched.
const (
	contentCropPatch  = 10 // background sample patch edge, px
	contentCropTol    = 8  // foreground deviation threshold
	contentCropMargin = 10 // margin kept around the bounding box, px

	axisCropPatch = 2
	axisCropTol   = 5
)

// cropPolicy is one crop behavior. Policies are evaluated in a fixed
// priority order and exactly one applies per page; an enabled policy
// that finds no foreground leaves the page untouched, never cropping
// to empty.
type cropPolicy interface {
	enabled(cfg *RenderConfig) bool
	apply(img image.Image, pageIndex, pageCount int, cfg *RenderConfig) image.Image
}

// cropPolicies is the explicit priority order: content-crop wins over
// the axis crops whenever both are configured.
func cropPolicies() []cropPolicy {
	return []cropPolicy{contentCrop{}, axisCrop{}}
}

// applyCrop runs the first enabled policy on the page.
func applyCrop(img image.Image, pageIndex, pageCount int, cfg *RenderConfig) image.Image {
	for _, p := range cropPolicies() {
		if p.enabled(cfg) {
			return p.apply(img, pageIndex, pageCount, cfg)
		}
	}
	return img
}

// contentCrop crops to the bounding box of non-background pixels plus a
// fixed margin on all four sides.
type contentCrop struct{}

func (contentCrop) enabled(cfg *RenderConfig) bool { return cfg.AutoCropContent }

func (contentCrop) apply(img image.Image, _, _ int, _ *RenderConfig) image.Image {
	gray := imaging.Luminance(img)
	bg := imaging.MedianPatch(gray, contentCropPatch, contentCropPatch)
	box, ok := imaging.ForegroundBounds(gray, bg, contentCropTol)
	if !ok {
		return img // blank page: no crop
	}

	b := img.Bounds()
	box = image.Rect(
		box.Min.X-contentCropMargin,
		box.Min.Y-contentCropMargin,
		box.Max.X+contentCropMargin,
		box.Max.Y+contentCropMargin,
	).Intersect(b)
	if box.Empty() {
		return img
	}
	return imaging.Crop(img, box)
}

// axisCrop is the legacy behavior pair: trim trailing horizontal
// whitespace on every page, and trailing vertical whitespace on the
// last page only. Both trims share one foreground mask.
type axisCrop struct{}

func (axisCrop) enabled(cfg *RenderConfig) bool {
	return cfg.AutoCropWidth || cfg.AutoCropLast
}

func (axisCrop) apply(img image.Image, pageIndex, pageCount int, cfg *RenderConfig) image.Image {
	if !cfg.AutoCropWidth && !(cfg.AutoCropLast && pageIndex == pageCount) {
		return img
	}

	gray := imaging.Luminance(img)
	bg := imaging.MedianPatch(gray, axisCropPatch, axisCropPatch)
	box, ok := imaging.ForegroundBounds(gray, bg, axisCropTol)
	if !ok {
		return img // blank page: no crop
	}

	b := img.Bounds()
	right, bottom := b.Max.X, b.Max.Y
	if cfg.AutoCropWidth {
		right = min(b.Max.X, box.Max.X+int(cfg.Style.MarginX))
	}
	if cfg.AutoCropLast && pageIndex == pageCount {
		bottom = min(b.Max.Y, box.Max.Y-1+int(cfg.Style.MarginY))
	}
	if right <= b.Min.X || bottom <= b.Min.Y {
		return img
	}
	return imaging.Crop(img, image.Rect(b.Min.X, b.Min.Y, right, bottom))
}
