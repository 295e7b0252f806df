package raster

import (
	"strings"
	"sync"
	"testing"
	"unicode/utf8"
)

func TestThemeByName(t *testing.T) {
	cases := []struct {
		name    string
		want    Theme
		wantErr bool
	}{
		{"light", lightTheme, false},
		{"", lightTheme, false},
		{"dark", darkTheme, false},
		{"DARK", darkTheme, false},
		{"sepia", Theme{}, true},
	}
	for _, tc := range cases {
		got, err := ThemeByName(tc.name)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ThemeByName(%q): expected error", tc.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("ThemeByName(%q): %v", tc.name, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ThemeByName(%q) = %+v", tc.name, got)
		}
	}
}

func TestRenderBasics(t *testing.T) {
	e, err := NewEngine()
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	img, err := e.Render("<h1>Title</h1><p>hello world</p>", 400, 1, lightTheme)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if img == nil {
		t.Fatal("nil image")
	}
	if img.Bounds().Dx() != 400 {
		t.Errorf("width = %d, want 400", img.Bounds().Dx())
	}
	if img.Bounds().Dy() <= 0 {
		t.Errorf("height = %d, want > 0", img.Bounds().Dy())
	}
	if got := img.RGBAAt(1, 1); got != lightTheme.BG {
		t.Errorf("corner pixel = %v, want background %v", got, lightTheme.BG)
	}
}

func TestRenderDarkBackground(t *testing.T) {
	e, err := NewEngine()
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	img, err := e.Render("<p>text</p>", 400, 1, darkTheme)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := img.RGBAAt(1, 1); got != darkTheme.BG {
		t.Errorf("corner pixel = %v, want background %v", got, darkTheme.BG)
	}
}

func TestRenderScaleWidensCanvas(t *testing.T) {
	e, err := NewEngine()
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	img, err := e.Render("<p>scaled</p>", 400, 2, lightTheme)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if img.Bounds().Dx() != 800 {
		t.Errorf("width = %d, want 800", img.Bounds().Dx())
	}
}

func TestRenderMoreContentIsTaller(t *testing.T) {
	e, err := NewEngine()
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	short, err := e.Render("<p>one line</p>", 400, 1, lightTheme)
	if err != nil {
		t.Fatalf("Render short: %v", err)
	}
	long, err := e.Render(strings.Repeat("<p>a paragraph of body text that keeps going</p>", 20), 400, 1, lightTheme)
	if err != nil {
		t.Fatalf("Render long: %v", err)
	}
	if long.Bounds().Dy() <= short.Bounds().Dy() {
		t.Errorf("long doc height %d not greater than short doc height %d",
			long.Bounds().Dy(), short.Bounds().Dy())
	}
}

// One engine is shared across HTTP handlers and pipeline workers, so
// simultaneous renders must not corrupt the face cache or glyph buffers.
func TestRenderConcurrent(t *testing.T) {
	e, err := NewEngine()
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	fragment := "<h1>Doc</h1><p>some <strong>bold</strong> text</p><pre><code>x := 1</code></pre>"

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			img, err := e.Render(fragment, 400, 1, lightTheme)
			if err != nil {
				t.Errorf("Render: %v", err)
				return
			}
			if img.Bounds().Dx() != 400 {
				t.Errorf("width = %d, want 400", img.Bounds().Dx())
			}
		}()
	}
	wg.Wait()
}

func TestWrapCodeLinesKeepsRunesIntact(t *testing.T) {
	e, err := NewEngine()
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	long := strings.Repeat("héllo wörld très tôt ", 30)
	wrapped := e.wrapCodeLines([]string{long}, 16, 200)
	if len(wrapped) < 2 {
		t.Fatal("long line was not wrapped")
	}
	var joined strings.Builder
	for _, chunk := range wrapped {
		if !utf8.ValidString(chunk) {
			t.Errorf("chunk %q is not valid UTF-8", chunk)
		}
		joined.WriteString(chunk)
	}
	if joined.String() != long {
		t.Error("wrapped chunks do not reassemble the original line")
	}
}

func TestRenderEmptyFragment(t *testing.T) {
	e, err := NewEngine()
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	img, err := e.Render("", 400, 1, lightTheme)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if img.Bounds().Dy() <= 0 {
		t.Error("empty fragment produced zero-height image")
	}
}
