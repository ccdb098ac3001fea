package text2img

import (
	"context"
	"crypto/md5" // #nosec G501 -- content fingerprint, not a security boundary
	"encoding/hex"
	"fmt"
	"path/filepath"

	"github.com/KMnO4-zx/go-text2img/internal/fileutil"
	"github.com/KMnO4-zx/go-text2img/internal/typeset"
)

// Service orchestrates the text-to-image pipeline for one item at a
// time: resolve configuration, normalize text, paginate, rasterize and
// crop. A Service is safe for concurrent use, but the batch runner
// gives each worker its own instance so the font caches never contend.
type Service struct {
	cfg      serviceConfig
	defaults *Settings
	engine   *typeset.Engine
}

// New creates a Service with default configuration.
// Use options to customize behavior (e.g., WithSettings, WithTimeout).
func New(opts ...Option) *Service {
	s := &Service{engine: typeset.NewEngine()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Render runs the full pipeline for one input and returns the produced
// image paths in page order. The context cancels between pipeline
// stages; a configured timeout bounds the whole call.
func (s *Service) Render(ctx context.Context, input Input) (*RenderResult, error) {
	if input.Text == "" {
		return nil, ErrEmptyContent
	}
	if input.OutputDir == "" {
		return nil, ErrMissingOutputDir
	}

	if s.cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.timeout)
		defer cancel()
	}

	// Layered merge, lowest precedence first: service defaults (config
	// file layer included), then the per-call override.
	cfg, err := Merge(s.defaults, input.Settings).Resolve()
	if err != nil {
		return nil, err
	}

	id := input.Identifier
	if id == "" {
		id = contentID(input.Text)
	}

	lines := Normalize(input.Text)
	units := groupUnits(lines, cfg.UnitSize, cfg.Style.LineBreak)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := s.engine.Paginate(units, cfg.Style)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir := filepath.Join(input.OutputDir, id)
	if err := fileutil.EnsureDir(dir); err != nil {
		return nil, err
	}

	paths, err := s.rasterizeDocument(ctx, doc, cfg, dir)
	if err != nil {
		return nil, err
	}

	return &RenderResult{
		Identifier: id,
		PageCount:  doc.PageCount(),
		ImagePaths: paths,
	}, nil
}

// contentID derives a stable identifier from the text content.
func contentID(text string) string {
	sum := md5.Sum([]byte(text)) // #nosec G401 -- fingerprint only
	return hex.EncodeToString(sum[:])[:16]
}
