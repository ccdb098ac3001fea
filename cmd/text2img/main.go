package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage(os.Stderr)
		return ExitUsage
	}

	// Configure GOMAXPROCS silently; rendering is CPU-bound and the
	// pool sizes itself from the adjusted value.
	// Error ignored: maxprocs.Set only fails on an invalid GOMAXPROCS
	// env var, in which case Go runtime defaults apply.
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch args[0] {
	case "render":
		err = runRender(ctx, args[1:])
	case "batch":
		err = runBatch(ctx, args[1:])
	case "single":
		err = runSingle(ctx, args[1:])
	case "version":
		fmt.Println(Version)
	case "help", "-h", "--help":
		printUsage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", args[0])
		printUsage(os.Stderr)
		return ExitUsage
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

func printUsage(w *os.File) {
	fmt.Fprint(w, `text2img renders text into paginated PNG images.

Usage:
  text2img render [flags] <input.txt>   render one text file to a page sequence
  text2img batch  [flags] <items.json>  render a JSON array of items in parallel
  text2img single [flags] <input.txt>   render one fixed-size page, no pagination
  text2img version                      print the version

Run a command with -h for its flags.
`)
}
