package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	text2img "github.com/KMnO4-zx/go-text2img"
)

// Sentinel errors for CLI argument handling.
var (
	ErrNoInput   = errors.New("no input file specified")
	ErrNoOutput  = errors.New("no output directory specified")
	ErrReadInput = errors.New("failed to read input file")
)

// loadService builds service options from the common flags.
func serviceOptions(common *commonFlags) ([]text2img.Option, error) {
	var opts []text2img.Option
	if common.config != "" {
		settings, err := text2img.LoadSettings(common.config)
		if err != nil {
			return nil, err
		}
		opts = append(opts, text2img.WithSettings(settings))
	}
	if d, err := common.parseTimeout(); err != nil {
		return nil, err
	} else if d > 0 {
		opts = append(opts, text2img.WithTimeout(d))
	}
	return opts, nil
}

func readInputFile(args []string) (string, error) {
	if len(args) == 0 {
		return "", ErrNoInput
	}
	content, err := os.ReadFile(args[0]) // #nosec G304 -- input path is user-provided
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadInput, err)
	}
	return string(content), nil
}

// runRender renders one text file to a paginated image sequence.
func runRender(ctx context.Context, args []string) error {
	flags, rest, err := parseRenderFlags(args)
	if err != nil {
		return err
	}
	text, err := readInputFile(rest)
	if err != nil {
		return err
	}
	opts, err := serviceOptions(&flags.common)
	if err != nil {
		return err
	}

	svc := text2img.New(opts...)
	result, err := svc.Render(ctx, text2img.Input{
		Identifier: flags.id,
		Text:       text,
		OutputDir:  flags.output,
	})
	if err != nil {
		return err
	}

	if !flags.common.quiet {
		fmt.Printf("%s: generated %d pages\n", result.Identifier, result.PageCount)
		if flags.common.verbose {
			for _, p := range result.ImagePaths {
				fmt.Println(" ", p)
			}
		}
	}
	return nil
}

// runBatch renders a JSON array of items across the service pool.
func runBatch(ctx context.Context, args []string) error {
	flags, rest, err := parseBatchFlags(args)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		return ErrNoInput
	}
	if flags.output == "" {
		return ErrNoOutput
	}
	if flags.ledger == "" {
		flags.ledger = flags.output + ".jsonl"
	}
	opts, err := serviceOptions(&flags.common)
	if err != nil {
		return err
	}

	items, err := text2img.LoadItems(rest[0])
	if err != nil {
		return err
	}

	pool := text2img.NewServicePool(text2img.ResolvePoolSize(flags.workers), opts...)
	defer pool.Close()

	start := time.Now()
	summary, err := text2img.RunBatch(ctx, pool, items, text2img.BatchOptions{
		OutputDir:  flags.output,
		LedgerPath: flags.ledger,
		Recover:    flags.recover,
		Progress:   progressPrinter(&flags.common),
	})
	if err != nil {
		return err
	}

	if !flags.common.quiet {
		fmt.Printf("\n%d processed, %d skipped, %d failed (%v)\n",
			summary.Processed, summary.Skipped, summary.Failed,
			time.Since(start).Round(time.Millisecond))
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d items failed", summary.Failed)
	}
	return nil
}

// progressPrinter reports per-item outcomes as work completes, in
// completion order.
func progressPrinter(common *commonFlags) func(text2img.ItemResult) {
	return func(res text2img.ItemResult) {
		switch {
		case res.Err != nil:
			fmt.Fprintf(os.Stderr, "FAILED %s: %v\n", res.Item.Identifier, res.Err)
		case common.quiet:
		case res.Skipped:
			fmt.Printf("%s: skipped (already rendered)\n", res.Item.Identifier)
		case common.verbose:
			fmt.Printf("%s: generated %d pages (%v)\n",
				res.Item.Identifier, len(res.Item.ImagePaths), res.Duration.Round(time.Millisecond))
		default:
			fmt.Printf("%s: generated %d pages\n", res.Item.Identifier, len(res.Item.ImagePaths))
		}
	}
}

// runSingle renders one fixed-size page with no pagination.
func runSingle(ctx context.Context, args []string) error {
	flags, rest, err := parseSingleFlags(args)
	if err != nil {
		return err
	}
	text, err := readInputFile(rest)
	if err != nil {
		return err
	}
	opts, err := serviceOptions(&flags.common)
	if err != nil {
		return err
	}

	svc := text2img.New(opts...)
	if err := svc.RenderSinglePage(ctx, text, flags.output, nil); err != nil {
		return err
	}
	if !flags.common.quiet {
		fmt.Printf("Created %s\n", flags.output)
	}
	return nil
}
