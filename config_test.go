package text2img

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/KMnO4-zx/go-text2img/internal/typeset"
)

func TestLoadSettings(t *testing.T) {
	write := func(t *testing.T, name, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), name)
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
		return path
	}

	t.Run("json config", func(t *testing.T) {
		path := write(t, "cfg.json", `{"font-size": 12, "alignment": "center"}`)
		s, err := LoadSettings(path)
		if err != nil {
			t.Fatalf("LoadSettings() error = %v", err)
		}
		if s.FontSize == nil || *s.FontSize != 12 {
			t.Errorf("FontSize = %v, want 12", s.FontSize)
		}
		if s.Alignment != "center" {
			t.Errorf("Alignment = %q, want %q", s.Alignment, "center")
		}
	})

	t.Run("yaml config", func(t *testing.T) {
		path := write(t, "cfg.yaml", "font-size: 12\npage-size: LETTER\n")
		s, err := LoadSettings(path)
		if err != nil {
			t.Fatalf("LoadSettings() error = %v", err)
		}
		if s.PageSize != "LETTER" {
			t.Errorf("PageSize = %q, want %q", s.PageSize, "LETTER")
		}
	})

	t.Run("unset fields stay nil", func(t *testing.T) {
		path := write(t, "cfg.json", `{"font-size": 0}`)
		s, err := LoadSettings(path)
		if err != nil {
			t.Fatalf("LoadSettings() error = %v", err)
		}
		if s.FontSize == nil || *s.FontSize != 0 {
			t.Error("explicit zero lost")
		}
		if s.MarginX != nil {
			t.Error("unset margin-x not nil")
		}
	})

	t.Run("unknown key rejected", func(t *testing.T) {
		path := write(t, "cfg.json", `{"font-sise": 12}`)
		if _, err := LoadSettings(path); !errors.Is(err, ErrConfigParse) {
			t.Errorf("LoadSettings() error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("malformed file", func(t *testing.T) {
		path := write(t, "cfg.json", `{"font-size": `)
		if _, err := LoadSettings(path); !errors.Is(err, ErrConfigParse) {
			t.Errorf("LoadSettings() error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "absent.json")
		if _, err := LoadSettings(path); !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("LoadSettings() error = %v, want ErrConfigNotFound", err)
		}
	})
}

func TestMerge(t *testing.T) {
	t.Run("later layers win", func(t *testing.T) {
		base := &Settings{FontPath: "base.ttf", FontSize: fptr(9), Alignment: "left"}
		over := &Settings{FontSize: fptr(14)}
		got := Merge(base, over)

		if got.FontSize == nil || *got.FontSize != 14 {
			t.Errorf("FontSize = %v, want 14", got.FontSize)
		}
		if got.FontPath != "base.ttf" {
			t.Errorf("FontPath = %q, want kept from base", got.FontPath)
		}
		if got.Alignment != "left" {
			t.Errorf("Alignment = %q, want kept from base", got.Alignment)
		}
	})

	t.Run("nil layers are skipped", func(t *testing.T) {
		got := Merge(nil, &Settings{PageSize: "A3"}, nil)
		if got.PageSize != "A3" {
			t.Errorf("PageSize = %q, want A3", got.PageSize)
		}
	})

	t.Run("explicit false overrides true", func(t *testing.T) {
		got := Merge(&Settings{AutoCropWidth: bptr(true)}, &Settings{AutoCropWidth: bptr(false)})
		if got.AutoCropWidth == nil || *got.AutoCropWidth {
			t.Errorf("AutoCropWidth = %v, want false", got.AutoCropWidth)
		}
	})

	t.Run("inputs are not mutated", func(t *testing.T) {
		base := &Settings{FontSize: fptr(9)}
		Merge(base, &Settings{FontSize: fptr(14)})
		if *base.FontSize != 9 {
			t.Errorf("base FontSize mutated to %v", *base.FontSize)
		}
	})
}

func TestResolve(t *testing.T) {
	t.Run("missing font path", func(t *testing.T) {
		if _, err := (&Settings{}).Resolve(); !errors.Is(err, ErrMissingFont) {
			t.Errorf("Resolve() error = %v, want ErrMissingFont", err)
		}
	})

	t.Run("font file not found", func(t *testing.T) {
		s := &Settings{FontPath: filepath.Join(t.TempDir(), "nope.ttf")}
		if _, err := s.Resolve(); !errors.Is(err, ErrFontNotFound) {
			t.Errorf("Resolve() error = %v, want ErrFontNotFound", err)
		}
	})

	t.Run("defaults", func(t *testing.T) {
		cfg, err := (&Settings{FontPath: writeTestFont(t)}).Resolve()
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		st := cfg.Style
		if st.PageWidth != 595.2755905511812 || st.PageHeight != 841.8897637795277 {
			t.Errorf("page = %.4fx%.4f, want A4", st.PageWidth, st.PageHeight)
		}
		if st.FontSize != 9 || st.Leading != 10 {
			t.Errorf("font size/leading = %v/%v, want 9/10", st.FontSize, st.Leading)
		}
		if st.MarginX != 20 || st.MarginY != 20 {
			t.Errorf("margins = %v/%v, want 20/20", st.MarginX, st.MarginY)
		}
		if st.Alignment != typeset.AlignJustify {
			t.Errorf("alignment = %v, want justify", st.Alignment)
		}
		white := color.RGBA{255, 255, 255, 255}
		if st.PageBackground != white || st.ParaBackground != white {
			t.Error("backgrounds not white by default")
		}
		if st.TextColor != (color.RGBA{A: 255}) {
			t.Errorf("text color = %v, want black", st.TextColor)
		}
		if cfg.DPI != 72 || cfg.HorizontalScale != 1 || cfg.UnitSize != 30 {
			t.Errorf("dpi/scale/unit = %v/%v/%v, want 72/1/30",
				cfg.DPI, cfg.HorizontalScale, cfg.UnitSize)
		}
		if cfg.AutoCropWidth || cfg.AutoCropLast || cfg.AutoCropContent {
			t.Error("crop flags on by default")
		}
		if st.LineBreak != typeset.DefaultLineBreak {
			t.Errorf("line break = %q, want %q", st.LineBreak, typeset.DefaultLineBreak)
		}
	})

	t.Run("leading follows font size", func(t *testing.T) {
		cfg, err := (&Settings{FontPath: writeTestFont(t), FontSize: fptr(14)}).Resolve()
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if cfg.Style.Leading != 15 {
			t.Errorf("leading = %v, want 15", cfg.Style.Leading)
		}
	})

	t.Run("bad color token", func(t *testing.T) {
		s := &Settings{FontPath: writeTestFont(t), FontColor: "red"}
		if _, err := s.Resolve(); !errors.Is(err, ErrBadColor) {
			t.Errorf("Resolve() error = %v, want ErrBadColor", err)
		}
	})

	t.Run("bad page size literal", func(t *testing.T) {
		s := &Settings{FontPath: writeTestFont(t), PageSize: "600,abc"}
		if _, err := s.Resolve(); !errors.Is(err, ErrBadPageSize) {
			t.Errorf("Resolve() error = %v, want ErrBadPageSize", err)
		}
	})

	t.Run("unit size clamps to one", func(t *testing.T) {
		cfg, err := (&Settings{FontPath: writeTestFont(t), UnitSize: iptr(0)}).Resolve()
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if cfg.UnitSize != 1 {
			t.Errorf("UnitSize = %d, want 1", cfg.UnitSize)
		}
	})

	t.Run("font name from file name", func(t *testing.T) {
		cfg, err := (&Settings{FontPath: writeTestFont(t)}).Resolve()
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if cfg.Style.FontName != "GoRegular" {
			t.Errorf("FontName = %q, want GoRegular", cfg.Style.FontName)
		}
	})
}

func TestParseAlignment(t *testing.T) {
	tests := []struct {
		keyword string
		want    typeset.Alignment
	}{
		{"LEFT", typeset.AlignStart},
		{"left", typeset.AlignStart},
		{"START", typeset.AlignStart},
		{"CENTER", typeset.AlignCenter},
		{"RIGHT", typeset.AlignEnd},
		{"END", typeset.AlignEnd},
		{"JUSTIFY", typeset.AlignJustify},
		{"", typeset.AlignJustify},
		{"wobbly", typeset.AlignJustify},
		{"  center  ", typeset.AlignCenter},
	}

	for _, tt := range tests {
		t.Run("keyword "+tt.keyword, func(t *testing.T) {
			if got := parseAlignment(tt.keyword); got != tt.want {
				t.Errorf("parseAlignment(%q) = %v, want %v", tt.keyword, got, tt.want)
			}
		})
	}
}

func TestParsePageSize(t *testing.T) {
	t.Run("keywords", func(t *testing.T) {
		tests := []struct {
			token string
			w, h  float64
		}{
			{"A4", 595.2755905511812, 841.8897637795277},
			{"letter", 612, 792},
			{"A3", 1188, 842.4},
			{"", 595.2755905511812, 841.8897637795277},
			{"B5", 595.2755905511812, 841.8897637795277}, // unknown falls back to A4
		}
		for _, tt := range tests {
			w, h, err := parsePageSize(tt.token)
			if err != nil {
				t.Errorf("parsePageSize(%q) error = %v", tt.token, err)
				continue
			}
			if w != tt.w || h != tt.h {
				t.Errorf("parsePageSize(%q) = %v,%v, want %v,%v", tt.token, w, h, tt.w, tt.h)
			}
		}
	})

	t.Run("numeric literal", func(t *testing.T) {
		w, h, err := parsePageSize(" 200 , 300 ")
		if err != nil {
			t.Fatalf("parsePageSize() error = %v", err)
		}
		if w != 200 || h != 300 {
			t.Errorf("parsePageSize() = %v,%v, want 200,300", w, h)
		}
	})

	t.Run("rejects bad literals", func(t *testing.T) {
		for _, token := range []string{"200,", ",300", "a,b", "-10,300", "0,300"} {
			if _, _, err := parsePageSize(token); !errors.Is(err, ErrBadPageSize) {
				t.Errorf("parsePageSize(%q) error = %v, want ErrBadPageSize", token, err)
			}
		}
	})
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		token   string
		want    color.RGBA
		wantErr bool
	}{
		{token: "#FFFFFF", want: color.RGBA{255, 255, 255, 255}},
		{token: "#000000", want: color.RGBA{0, 0, 0, 255}},
		{token: "#1a2B3c", want: color.RGBA{26, 43, 60, 255}},
		{token: "fff", want: color.RGBA{255, 255, 255, 255}},
		{token: "#abc", want: color.RGBA{170, 187, 204, 255}},
		{token: "#12345", wantErr: true},
		{token: "#GGGGGG", wantErr: true},
		{token: "blue", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, err := parseHexColor(tt.token)
			if tt.wantErr {
				if !errors.Is(err, ErrBadColor) {
					t.Errorf("parseHexColor(%q) error = %v, want ErrBadColor", tt.token, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseHexColor(%q) error = %v", tt.token, err)
			}
			if got != tt.want {
				t.Errorf("parseHexColor(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestFontName(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/fonts/SimSun.ttf", "SimSun"},
		{"Go-Regular.woff2.ttf", "Go-Regular"},
		{"bare", "bare"},
	}
	for _, tt := range tests {
		if got := fontName(tt.path); got != tt.want {
			t.Errorf("fontName(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
