package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/jung-kurt/gofpdf"
)

// buildPDF slices a single tall article image across successive pages of
// the given physical size. No cropping or re-encoding happens per page:
// each page places the same image shifted upward, revealing a different
// slice.
func buildPDF(img *image.RGBA, pageW, pageH float64) ([]byte, error) {
	var encoded bytes.Buffer
	if err := png.Encode(&encoded, img); err != nil {
		return nil, fmt.Errorf("encode article raster: %w", err)
	}

	bounds := img.Bounds()
	imgH := float64(bounds.Dy()) * pageW / float64(bounds.Dx())

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: pageW, Ht: pageH},
	})
	pdf.SetAutoPageBreak(false, 0)
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("article", opts, &encoded)

	for page := 0; page < pageCount(imgH, pageH); page++ {
		pdf.AddPage()
		pdf.ImageOptions("article", 0, -float64(page)*pageH, pageW, imgH, false, opts, 0, "")
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("pack pdf: %w", err)
	}
	return out.Bytes(), nil
}

// pageCount returns how many pages a scaled image height occupies; a
// document never has fewer than one page.
func pageCount(imgHeight, pageHeight float64) int {
	n := int(math.Ceil(imgHeight / pageHeight))
	if n < 1 {
		n = 1
	}
	return n
}
