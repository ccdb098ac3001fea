package text2img

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/KMnO4-zx/go-text2img/internal/imaging"
	"github.com/KMnO4-zx/go-text2img/internal/typeset"
)

// rasterBatchSize bounds how many pages one rasterization call may
// produce. Batch-by-batch processing keeps peak memory proportional to
// the batch, not the document: a backpressure mechanism, not an
// arbitrary constant.
const rasterBatchSize = 20

// rasterizeDocument converts the typeset document into cropped PNG
// files under dir and returns their absolute paths in page-index order.
func (s *Service) rasterizeDocument(ctx context.Context, doc *typeset.Document, cfg *RenderConfig, dir string) ([]string, error) {
	total := doc.PageCount()
	paths := make([]string, 0, total)

	for first := 1; first <= total; first += rasterBatchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		last := first + rasterBatchSize - 1
		if last > total {
			last = total
		}

		imgs, err := s.engine.Rasterize(doc, cfg.DPI, first, last)
		if err != nil {
			return nil, fmt.Errorf("rasterizing pages %d-%d: %w", first, last, err)
		}

		for offset, img := range imgs {
			index := first + offset
			out := transformPage(img, index, total, cfg)

			path := filepath.Join(dir, fmt.Sprintf("page_%03d.png", index))
			if err := writePNG(path, out); err != nil {
				return nil, err
			}
			abs, err := filepath.Abs(path)
			if err != nil {
				return nil, fmt.Errorf("resolving %s: %w", path, err)
			}
			paths = append(paths, abs)
			imgs[offset] = nil // release page pixels before the next batch
		}
	}
	return paths, nil
}

// transformPage applies the in-place page transforms in order: the
// horizontal-only rescale, then the first applicable crop policy.
func transformPage(img image.Image, index, total int, cfg *RenderConfig) image.Image {
	if cfg.HorizontalScale != 1.0 {
		img = imaging.ScaleWidth(img, cfg.HorizontalScale)
	}
	return applyCrop(img, index, total, cfg)
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path) // #nosec G304 -- path is built from the item identifier
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
