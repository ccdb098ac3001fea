package main

import (
	"errors"
	"os"

	text2img "github.com/KMnO4-zx/go-text2img"
)

// Exit codes for the text2img CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage.
const (
	ExitSuccess = 0 // Successful run
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitRender  = 4 // Typesetting/rasterization errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must wrap with
// fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, text2img.ErrRender) {
		return ExitRender
	}

	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, text2img.ErrReadItems) ||
		errors.Is(err, text2img.ErrLedgerOpen) ||
		errors.Is(err, text2img.ErrLedgerWrite) ||
		errors.Is(err, text2img.ErrConfigNotFound) ||
		errors.Is(err, text2img.ErrFontNotFound) {
		return ExitIO
	}

	if errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrNoOutput) ||
		errors.Is(err, text2img.ErrMissingFont) ||
		errors.Is(err, text2img.ErrConfigParse) ||
		errors.Is(err, text2img.ErrBadColor) ||
		errors.Is(err, text2img.ErrBadPageSize) ||
		errors.Is(err, text2img.ErrMissingIdentifier) ||
		errors.Is(err, text2img.ErrEmptyContent) ||
		errors.Is(err, text2img.ErrMissingOutputDir) {
		return ExitUsage
	}

	return ExitGeneral
}
