// Package imaging provides the pixel-grid primitives used by the crop
// policies: grayscale conversion, background estimation, foreground
// bounds detection, cropping, and horizontal rescaling.
package imaging

import (
	"image"
	stddraw "image/draw"
	"sort"

	xdraw "golang.org/x/image/draw"
)

// Luminance converts an image to 8-bit grayscale. The standard Gray
// color model applies the Rec. 601 luma weights, matching the usual
// "convert to L" behavior of raster toolkits.
func Luminance(img image.Image) *image.Gray {
	b := img.Bounds()
	g := image.NewGray(b)
	stddraw.Draw(g, b, img, b.Min, stddraw.Src)
	return g
}

// MedianPatch returns the median gray value of the top-left w x h patch.
// The patch is clamped to the image bounds; an empty image yields 0.
func MedianPatch(g *image.Gray, w, h int) uint8 {
	b := g.Bounds()
	if w > b.Dx() {
		w = b.Dx()
	}
	if h > b.Dy() {
		h = b.Dy()
	}
	if w <= 0 || h <= 0 {
		return 0
	}
	vals := make([]int, 0, w*h)
	for y := b.Min.Y; y < b.Min.Y+h; y++ {
		for x := b.Min.X; x < b.Min.X+w; x++ {
			vals = append(vals, int(g.GrayAt(x, y).Y))
		}
	}
	sort.Ints(vals)
	return uint8(vals[len(vals)/2])
}

// ForegroundBounds returns the bounding box of all pixels whose absolute
// deviation from bg exceeds tol. The second return value is false when
// no pixel qualifies (a blank page).
func ForegroundBounds(g *image.Gray, bg uint8, tol int) (image.Rectangle, bool) {
	b := g.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := g.Pix[(y-b.Min.Y)*g.Stride : (y-b.Min.Y)*g.Stride+b.Dx()]
		for i, v := range row {
			d := int(v) - int(bg)
			if d < 0 {
				d = -d
			}
			if d <= tol {
				continue
			}
			x := b.Min.X + i
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}
	if maxX < minX || maxY < minY {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}

// Crop copies the region r of img into a fresh RGBA image so the source
// can be released independently of the result.
func Crop(img image.Image, r image.Rectangle) *image.RGBA {
	r = r.Intersect(img.Bounds())
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	stddraw.Draw(dst, dst.Bounds(), img, r.Min, stddraw.Src)
	return dst
}

// ScaleWidth rescales img horizontally by factor, leaving the height
// untouched. Factor 1.0 returns a plain copy.
func ScaleWidth(img image.Image, factor float64) *image.RGBA {
	b := img.Bounds()
	w := int(float64(b.Dx()) * factor)
	if w < 1 {
		w = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, b.Dy()))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}
