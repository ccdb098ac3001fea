package text2img

import (
	"context"
	"fmt"
)

// RenderSinglePage renders text onto exactly one fixed-size page and
// writes it to outputPath. There is no pagination: content that does
// not fit the first page is discarded. This is the simple code path for
// callers that want one image, not a document.
func (s *Service) RenderSinglePage(ctx context.Context, text, outputPath string, override *Settings) error {
	if text == "" {
		return ErrEmptyContent
	}
	if outputPath == "" {
		return ErrMissingOutputDir
	}

	cfg, err := Merge(s.defaults, override).Resolve()
	if err != nil {
		return err
	}

	units := groupUnits(Normalize(text), cfg.UnitSize, cfg.Style.LineBreak)
	if err := ctx.Err(); err != nil {
		return err
	}

	doc, err := s.engine.Paginate(units, cfg.Style)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRender, err)
	}

	imgs, err := s.engine.Rasterize(doc, cfg.DPI, 1, 1)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRender, err)
	}
	return writePNG(outputPath, imgs[0])
}
