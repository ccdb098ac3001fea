package text2img

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

// writeTestFont drops a real TrueType font into a temp dir so Resolve
// and the render paths can load it.
func writeTestFont(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "GoRegular.ttf")
	if err := os.WriteFile(path, goregular.TTF, 0o600); err != nil {
		t.Fatalf("writing test font: %v", err)
	}
	return path
}

// testSettings returns a minimal valid settings layer with a small page
// so render tests stay fast.
func testSettings(t *testing.T) *Settings {
	t.Helper()
	return &Settings{
		FontPath: writeTestFont(t),
		PageSize: "200,300",
	}
}

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }
func bptr(v bool) *bool       { return &v }
