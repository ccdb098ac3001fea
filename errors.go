package text2img

import "errors"

// Sentinel errors for library operations.
var (
	// Configuration errors: fatal before any per-item work begins.
	ErrMissingFont    = errors.New("config must provide a font path")
	ErrFontNotFound   = errors.New("font file not found")
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config")
	ErrBadColor       = errors.New("invalid color value")
	ErrBadPageSize    = errors.New("invalid page size value")

	// Item validation errors: fatal for that item only.
	ErrMissingIdentifier = errors.New("item identifier cannot be empty")
	ErrEmptyContent      = errors.New("item content cannot be empty")
	ErrMissingOutputDir  = errors.New("output directory cannot be empty")

	// Batch-level errors: abort the run immediately.
	ErrReadItems   = errors.New("failed to read items file")
	ErrLedgerOpen  = errors.New("failed to open ledger file")
	ErrLedgerWrite = errors.New("failed to write ledger entry")

	// Rendering errors.
	ErrRender = errors.New("rendering failed")
)
