package text2img

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/KMnO4-zx/go-text2img/internal/fileutil"
)

// BatchOptions configures a batch run. The fields are fixed at run
// start and shared read-only by every worker.
type BatchOptions struct {
	// OutputDir receives one subdirectory per item identifier.
	OutputDir string

	// LedgerPath is the JSONL result ledger, appended across runs.
	LedgerPath string

	// Workers is the pool size; 0 means ResolvePoolSize(0).
	Workers int

	// Recover skips items whose output subdirectory already exists or
	// whose identifier appears in the ledger. Without it, the output
	// directory and ledger are cleared before processing.
	Recover bool

	// LedgerFlushSize overrides DefaultLedgerFlushSize when positive.
	LedgerFlushSize int

	// Progress, when set, is called from the orchestrating goroutine
	// for every item as results complete. Completion order is not
	// submission order.
	Progress func(ItemResult)
}

// ItemResult is the outcome of one batch item, streamed in completion
// order.
type ItemResult struct {
	Item     BatchItem
	Skipped  bool
	Err      error
	Duration time.Duration
}

// RunSummary tallies a batch run.
type RunSummary struct {
	Processed int
	Skipped   int
	Failed    int
}

// LoadItems reads a JSON array of batch items.
func LoadItems(path string) ([]BatchItem, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- items path is user-provided
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadItems, err)
	}
	var items []BatchItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadItems, err)
	}
	return items, nil
}

// RunBatch maps the single-item pipeline over the service pool.
// Item-level failures are isolated: they surface in the result stream
// and the summary without aborting the batch. Batch-level failures
// (output directory, ledger) abort immediately. Cancelling the context
// stops dispatching new items while in-flight items complete.
func RunBatch(ctx context.Context, pool *ServicePool, items []BatchItem, opts BatchOptions) (*RunSummary, error) {
	if opts.OutputDir == "" {
		return nil, ErrMissingOutputDir
	}
	if opts.LedgerPath == "" {
		return nil, fmt.Errorf("%w: empty path", ErrLedgerOpen)
	}

	if opts.Recover {
		if err := fileutil.EnsureDir(opts.OutputDir); err != nil {
			return nil, err
		}
	} else {
		// A fresh run starts from a clean slate: prior images and
		// ledger entries would otherwise masquerade as completed work.
		if err := fileutil.ClearDir(opts.OutputDir); err != nil {
			return nil, err
		}
		if err := os.Remove(opts.LedgerPath); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %v", ErrLedgerOpen, err)
		}
	}

	// The ledger filter is an upfront fast path; the per-item directory
	// check below remains authoritative.
	if opts.Recover {
		done := LoadProcessedIDs(opts.LedgerPath)
		pending := items[:0:0]
		for _, item := range items {
			if _, ok := done[item.Identifier]; !ok {
				pending = append(pending, item)
			}
		}
		items = pending
	}

	ledger, err := OpenLedger(opts.LedgerPath, opts.LedgerFlushSize)
	if err != nil {
		return nil, err
	}
	defer ledger.Close()

	summary := &RunSummary{}
	if len(items) == 0 {
		return summary, nil
	}

	workers := pool.Size()
	if workers > len(items) {
		workers = len(items)
	}

	jobs := make(chan BatchItem)
	results := make(chan ItemResult)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc := pool.Acquire()
			defer pool.Release(svc)
			for item := range jobs {
				results <- processItem(ctx, svc, item, opts)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, item := range items {
			if ctx.Err() != nil {
				return // abort not-yet-dispatched items
			}
			jobs <- item
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var ledgerErr error
	for res := range results {
		switch {
		case res.Err != nil:
			summary.Failed++
		case res.Skipped:
			summary.Skipped++
		default:
			summary.Processed++
		}
		if res.Err == nil && ledgerErr == nil {
			ledgerErr = ledger.Append(res.Item)
		}
		if opts.Progress != nil {
			opts.Progress(res)
		}
	}
	if ledgerErr != nil {
		return summary, ledgerErr
	}
	if err := ledger.Flush(); err != nil {
		return summary, err
	}
	return summary, ctx.Err()
}

// processItem runs the pipeline for one item inside a worker. Each item
// writes only to its own identifier-scoped subdirectory, so workers
// never contend on a path.
func processItem(ctx context.Context, svc *Service, item BatchItem, opts BatchOptions) ItemResult {
	start := time.Now()
	res := ItemResult{Item: item}

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}
	if item.Identifier == "" {
		res.Err = ErrMissingIdentifier
		return res
	}
	if item.Content == "" {
		res.Err = fmt.Errorf("%w: %s", ErrEmptyContent, item.Identifier)
		return res
	}

	// Filesystem state is the authoritative completion marker: presence
	// of the item's subdirectory means a prior run finished it.
	if opts.Recover && fileutil.DirExists(filepath.Join(opts.OutputDir, item.Identifier)) {
		res.Skipped = true
		res.Item.ImagePaths = nil
		res.Duration = time.Since(start)
		return res
	}

	out, err := svc.Render(ctx, Input{
		Identifier: item.Identifier,
		Text:       item.Content,
		OutputDir:  opts.OutputDir,
		Settings:   item.Config,
	})
	if err != nil {
		res.Err = err
		res.Duration = time.Since(start)
		return res
	}

	res.Item.ImagePaths = out.ImagePaths
	res.Duration = time.Since(start)
	return res
}
