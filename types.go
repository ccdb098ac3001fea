package text2img

import "time"

// Input contains the parameters for a single rendering call.
type Input struct {
	// Identifier names the output subdirectory. Empty means derive one
	// from the content hash.
	Identifier string

	// Text is the raw content to render (required).
	Text string

	// OutputDir is the directory under which the per-item subdirectory
	// is created (required).
	OutputDir string

	// Settings is an optional override layer merged over the service
	// defaults before resolution.
	Settings *Settings
}

// RenderResult holds the outcome of a single rendering call.
type RenderResult struct {
	Identifier string
	PageCount  int
	ImagePaths []string // absolute paths, in page-index order
}

// BatchItem is one unit of batch work. The struct round-trips through
// the items file and the run ledger, so unknown concerns stay out of it.
type BatchItem struct {
	Identifier string    `json:"identifier" yaml:"identifier"`
	Content    string    `json:"content" yaml:"content"`
	Config     *Settings `json:"config,omitempty" yaml:"config,omitempty"`

	// ImagePaths is attached once the item has been processed and is
	// persisted to the ledger.
	ImagePaths []string `json:"image_paths,omitempty" yaml:"image_paths,omitempty"`
}

// Option configures a Service.
type Option func(*Service)

// serviceConfig holds internal configuration for Service.
type serviceConfig struct {
	timeout time.Duration
}

// WithTimeout bounds the wall time of one rendering call. Zero (the
// default) means no per-item timeout.
// Panics if d < 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d < 0 {
		panic("text2img: WithTimeout duration must not be negative")
	}
	return func(s *Service) {
		s.cfg.timeout = d
	}
}

// WithSettings sets the service's default settings layer, typically
// loaded from a config file. It is applied below per-call settings.
func WithSettings(settings *Settings) Option {
	return func(s *Service) {
		s.defaults = settings
	}
}
