// Package text2img renders arbitrary text into paginated raster images.
//
// The pipeline resolves a layered configuration into concrete
// typesetting parameters, normalizes the text, paginates it into
// fixed-size pages, rasterizes each page at a target DPI, applies
// content-aware cropping, and persists one PNG per page. A batch
// orchestrator maps the pipeline over a pool of services with
// idempotent, filesystem-keyed resume.
//
// Basic usage:
//
//	svc := text2img.New(text2img.WithSettings(settings))
//	result, err := svc.Render(ctx, text2img.Input{
//		Text:      "Hello\nWorld",
//		OutputDir: "./out",
//	})
//
// Batch usage:
//
//	pool := text2img.NewServicePool(8, text2img.WithSettings(settings))
//	defer pool.Close()
//	summary, err := text2img.RunBatch(ctx, pool, items, text2img.BatchOptions{
//		OutputDir:  "./out",
//		LedgerPath: "./out.jsonl",
//		Recover:    true,
//	})
package text2img
