package export

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"math"
	"testing"

	"github.com/ledongthuc/pdf"
)

func TestPageCount(t *testing.T) {
	cases := []struct {
		imgHeight  float64
		pageHeight float64
		want       int
	}{
		{650, 297, 3},
		{297, 297, 1},
		{297.1, 297, 2},
		{594, 297, 2},
		{10, 297, 1},
		{0, 297, 1},
	}
	for _, tc := range cases {
		if got := pageCount(tc.imgHeight, tc.pageHeight); got != tc.want {
			t.Errorf("pageCount(%v, %v) = %d, want %d", tc.imgHeight, tc.pageHeight, got, tc.want)
		}
	}
}

func testArticleImage(heightPx int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 794, heightPx))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return img
}

func TestBuildPDFPagination(t *testing.T) {
	cases := []struct {
		name      string
		heightPx  int
		wantPages int
	}{
		// 2458px at 794px wide scales to ~650mm on a 210mm page: 3 pages.
		{"three pages", 2458, 3},
		{"single page", 400, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data, err := buildPDF(testArticleImage(tc.heightPx), 210, 297)
			if err != nil {
				t.Fatalf("buildPDF: %v", err)
			}

			r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
			if err != nil {
				t.Fatalf("read pdf back: %v", err)
			}
			if got := r.NumPage(); got != tc.wantPages {
				t.Errorf("page count = %d, want %d", got, tc.wantPages)
			}
		})
	}
}

// Non-default page geometry must shape the physical pages themselves,
// not just the placement offsets.
func TestBuildPDFCustomPageGeometry(t *testing.T) {
	// A square 794px image at 500mm page width scales to 500mm of content:
	// five pages of 100mm each.
	data, err := buildPDF(testArticleImage(794), 500, 100)
	if err != nil {
		t.Fatalf("buildPDF: %v", err)
	}

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("read pdf back: %v", err)
	}
	if got := r.NumPage(); got != 5 {
		t.Errorf("page count = %d, want 5", got)
	}

	const mmToPt = 72.0 / 25.4
	var box pdf.Value
	for v := r.Page(1).V; !v.IsNull(); v = v.Key("Parent") {
		if b := v.Key("MediaBox"); !b.IsNull() {
			box = b
			break
		}
	}
	gotW := box.Index(2).Float64()
	gotH := box.Index(3).Float64()
	if math.Abs(gotW-500*mmToPt) > 1 || math.Abs(gotH-100*mmToPt) > 1 {
		t.Errorf("page size = %.1fx%.1fpt, want %.1fx%.1fpt", gotW, gotH, 500*mmToPt, 100*mmToPt)
	}
}

func TestBuildPDFStartsWithHeader(t *testing.T) {
	data, err := buildPDF(testArticleImage(300), 210, 297)
	if err != nil {
		t.Fatalf("buildPDF: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("artifact does not start with a PDF header: %q", data[:8])
	}
}
