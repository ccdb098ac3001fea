package main

import (
	"fmt"
	"time"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
	timeout string
}

func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file path (JSON or YAML)")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-item timeout (e.g., 30s, 2m)")
}

// parseTimeout converts the --timeout flag, empty meaning none.
func (f *commonFlags) parseTimeout() (time.Duration, error) {
	if f.timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(f.timeout)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid --timeout %q", f.timeout)
	}
	return d, nil
}

// renderFlags holds flags for the render command.
type renderFlags struct {
	common commonFlags
	output string
	id     string
}

func parseRenderFlags(args []string) (*renderFlags, []string, error) {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	f := &renderFlags{}
	addCommonFlags(fs, &f.common)
	fs.StringVarP(&f.output, "output", "o", ".", "output directory")
	fs.StringVar(&f.id, "id", "", "item identifier (default: content hash)")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// batchFlags holds flags for the batch command.
type batchFlags struct {
	common  commonFlags
	output  string
	ledger  string
	workers int
	recover bool
}

func parseBatchFlags(args []string) (*batchFlags, []string, error) {
	fs := flag.NewFlagSet("batch", flag.ContinueOnError)
	f := &batchFlags{}
	addCommonFlags(fs, &f.common)
	fs.StringVarP(&f.output, "output", "o", "", "output directory (required)")
	fs.StringVarP(&f.ledger, "ledger", "l", "", "result ledger path (default: <output>.jsonl)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = all cores)")
	fs.BoolVarP(&f.recover, "recover", "r", false, "skip items whose output already exists")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// singleFlags holds flags for the single command.
type singleFlags struct {
	common commonFlags
	output string
}

func parseSingleFlags(args []string) (*singleFlags, []string, error) {
	fs := flag.NewFlagSet("single", flag.ContinueOnError)
	f := &singleFlags{}
	addCommonFlags(fs, &f.common)
	fs.StringVarP(&f.output, "output", "o", "page.png", "output PNG path")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
