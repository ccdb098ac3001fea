package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

// writeFixtures drops a font, a config pointing at it, and a text input
// into a temp dir.
func writeFixtures(t *testing.T) (configPath, inputPath, dir string) {
	t.Helper()
	dir = t.TempDir()

	fontPath := filepath.Join(dir, "GoRegular.ttf")
	if err := os.WriteFile(fontPath, goregular.TTF, 0o600); err != nil {
		t.Fatal(err)
	}

	configPath = filepath.Join(dir, "config.json")
	config := fmt.Sprintf(`{"font-path": %q, "page-size": "200,300"}`, fontPath)
	if err := os.WriteFile(configPath, []byte(config), 0o600); err != nil {
		t.Fatal(err)
	}

	inputPath = filepath.Join(dir, "input.txt")
	if err := os.WriteFile(inputPath, []byte("hello from the cli"), 0o600); err != nil {
		t.Fatal(err)
	}
	return configPath, inputPath, dir
}

func TestRun(t *testing.T) {
	t.Run("no arguments prints usage", func(t *testing.T) {
		if got := run(nil); got != ExitUsage {
			t.Errorf("run() = %d, want %d", got, ExitUsage)
		}
	})

	t.Run("unknown command", func(t *testing.T) {
		if got := run([]string{"transmogrify"}); got != ExitUsage {
			t.Errorf("run() = %d, want %d", got, ExitUsage)
		}
	})

	t.Run("version", func(t *testing.T) {
		if got := run([]string{"version"}); got != ExitSuccess {
			t.Errorf("run() = %d, want %d", got, ExitSuccess)
		}
	})

	t.Run("help", func(t *testing.T) {
		if got := run([]string{"help"}); got != ExitSuccess {
			t.Errorf("run() = %d, want %d", got, ExitSuccess)
		}
	})

	t.Run("render end to end", func(t *testing.T) {
		config, input, dir := writeFixtures(t)
		out := filepath.Join(dir, "out")

		code := run([]string{"render", "-q", "-c", config, "-o", out, "--id", "t1", input})
		if code != ExitSuccess {
			t.Fatalf("run() = %d, want %d", code, ExitSuccess)
		}
		if _, err := os.Stat(filepath.Join(out, "t1", "page_001.png")); err != nil {
			t.Errorf("expected output image: %v", err)
		}
	})

	t.Run("render without input file", func(t *testing.T) {
		config, _, _ := writeFixtures(t)
		if got := run([]string{"render", "-q", "-c", config}); got == ExitSuccess {
			t.Error("run() succeeded without an input file")
		}
	})

	t.Run("render with missing config", func(t *testing.T) {
		_, input, dir := writeFixtures(t)
		code := run([]string{"render", "-q", "-c", filepath.Join(dir, "absent.json"), input})
		if code != ExitIO {
			t.Errorf("run() = %d, want %d", code, ExitIO)
		}
	})

	t.Run("render without any font", func(t *testing.T) {
		_, input, _ := writeFixtures(t)
		if got := run([]string{"render", "-q", input}); got != ExitUsage {
			t.Errorf("run() = %d, want %d for a missing font", got, ExitUsage)
		}
	})

	t.Run("batch end to end", func(t *testing.T) {
		config, _, dir := writeFixtures(t)

		itemsPath := filepath.Join(dir, "items.json")
		items := `[
			{"identifier": "a", "content": "first item"},
			{"identifier": "b", "content": "second item"}
		]`
		if err := os.WriteFile(itemsPath, []byte(items), 0o600); err != nil {
			t.Fatal(err)
		}

		out := filepath.Join(dir, "out")
		code := run([]string{"batch", "-q", "-c", config, "-o", out, itemsPath})
		if code != ExitSuccess {
			t.Fatalf("run() = %d, want %d", code, ExitSuccess)
		}
		for _, id := range []string{"a", "b"} {
			if _, err := os.Stat(filepath.Join(out, id, "page_001.png")); err != nil {
				t.Errorf("missing output for %s: %v", id, err)
			}
		}
		if _, err := os.Stat(out + ".jsonl"); err != nil {
			t.Errorf("missing default ledger: %v", err)
		}
	})

	t.Run("batch requires an output dir", func(t *testing.T) {
		config, _, dir := writeFixtures(t)
		itemsPath := filepath.Join(dir, "items.json")
		if err := os.WriteFile(itemsPath, []byte(`[]`), 0o600); err != nil {
			t.Fatal(err)
		}
		if got := run([]string{"batch", "-q", "-c", config, itemsPath}); got == ExitSuccess {
			t.Error("run() succeeded without an output dir")
		}
	})

	t.Run("single end to end", func(t *testing.T) {
		config, input, dir := writeFixtures(t)
		out := filepath.Join(dir, "single.png")

		code := run([]string{"single", "-q", "-c", config, "-o", out, input})
		if code != ExitSuccess {
			t.Fatalf("run() = %d, want %d", code, ExitSuccess)
		}
		if _, err := os.Stat(out); err != nil {
			t.Errorf("expected single page image: %v", err)
		}
	})
}
