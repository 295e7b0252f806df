// Package raster is the off-screen layout-and-raster capability behind
// the paginated export: it lays out a sanitized HTML fragment at a fixed
// pixel width and draws it onto a single tall RGBA image.
package raster

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"

	"github.com/inkpadhq/inkpad-export/internal/doctree"
	"github.com/inkpadhq/inkpad-export/internal/walker"
)

// Theme carries the colors of one visual theme.
type Theme struct {
	BG       color.RGBA
	FG       color.RGBA
	CodeBG   color.RGBA
	QuoteBar color.RGBA
	Rule     color.RGBA
	Link     color.RGBA
}

var (
	lightTheme = Theme{
		BG:       color.RGBA{0xFF, 0xFF, 0xFF, 0xFF},
		FG:       color.RGBA{0x11, 0x11, 0x11, 0xFF},
		CodeBG:   color.RGBA{0xF5, 0xF5, 0xF7, 0xFF},
		QuoteBar: color.RGBA{0xCC, 0xCC, 0xCC, 0xFF},
		Rule:     color.RGBA{0xDD, 0xDD, 0xDD, 0xFF},
		Link:     color.RGBA{0x06, 0x4F, 0xBD, 0xFF},
	}
	darkTheme = Theme{
		BG:       color.RGBA{0x12, 0x12, 0x14, 0xFF},
		FG:       color.RGBA{0xEE, 0xEE, 0xF0, 0xFF},
		CodeBG:   color.RGBA{0x1E, 0x1E, 0x22, 0xFF},
		QuoteBar: color.RGBA{0x44, 0x44, 0x48, 0xFF},
		Rule:     color.RGBA{0x33, 0x33, 0x36, 0xFF},
		Link:     color.RGBA{0x6C, 0xA5, 0xF5, 0xFF},
	}
)

// ThemeByName resolves a theme identifier.
func ThemeByName(name string) (Theme, error) {
	switch strings.ToLower(name) {
	case "light", "":
		return lightTheme, nil
	case "dark":
		return darkTheme, nil
	}
	return Theme{}, errors.New("unknown theme: " + name)
}

type fontSet struct {
	regular *truetype.Font
	bold    *truetype.Font
	mono    *truetype.Font
}

// Font parsing is the heavy part of engine construction; load once and
// cache for the process lifetime.
var loadFonts = sync.OnceValues(func() (fontSet, error) {
	var fs fontSet
	var err error
	if fs.regular, err = truetype.Parse(goregular.TTF); err != nil {
		return fs, err
	}
	if fs.bold, err = truetype.Parse(gobold.TTF); err != nil {
		return fs, err
	}
	if fs.mono, err = truetype.Parse(gomono.TTF); err != nil {
		return fs, err
	}
	return fs, nil
})

// Engine renders HTML fragments to images. A mutex serializes renders:
// the cached truetype faces and their glyph buffers are not safe for
// concurrent use, and one engine is shared by the HTTP handlers and the
// worker pool.
type Engine struct {
	mu    sync.Mutex
	fonts fontSet
	faces map[faceKey]font.Face
}

type faceKey struct {
	font *truetype.Font
	size float64
}

func NewEngine() (*Engine, error) {
	fs, err := loadFonts()
	if err != nil {
		return nil, err
	}
	return &Engine{fonts: fs, faces: make(map[faceKey]font.Face)}, nil
}

func (e *Engine) face(f *truetype.Font, size float64) font.Face {
	key := faceKey{f, size}
	if fc, ok := e.faces[key]; ok {
		return fc
	}
	fc := truetype.NewFace(f, &truetype.Options{Size: size, DPI: 96, Hinting: font.HintingFull})
	e.faces[key] = fc
	return fc
}

func (e *Engine) measure(f *truetype.Font, size float64, s string) int {
	d := font.Drawer{Face: e.face(f, size)}
	return d.MeasureString(s).Ceil()
}

// Render walks fragment and draws it at width*scale pixels wide. The
// result is a single image whose height matches the content; callers
// slice it into pages. Any parse failure aborts before drawing.
func (e *Engine) Render(fragment string, width, scale int, th Theme) (*image.RGBA, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if scale <= 0 {
		scale = 1
	}
	blocks, err := walker.Walk(fragment)
	if err != nil {
		return nil, err
	}

	c := newCanvas(width*scale, 48*scale, th)
	base := 16.0 * float64(scale)

	for _, b := range blocks {
		switch b.Kind {
		case doctree.KindHeading:
			size := base * headingScale(b.Level)
			c.addVSpace(int(base * 0.75))
			e.drawRuns(c, b.Runs, c.margin, size, true)
			c.addVSpace(int(base * 0.5))
		case doctree.KindParagraph:
			e.drawRuns(c, b.Runs, c.margin, base, false)
			c.addVSpace(int(base * 0.9))
		case doctree.KindList:
			e.drawList(c, b, base, scale)
			c.addVSpace(int(base * 0.7))
		case doctree.KindBlockquote:
			top := c.y
			e.drawRuns(c, b.Runs, c.margin+14*scale, base, false)
			c.fill(image.Rect(c.margin, top, c.margin+4*scale, c.y), th.QuoteBar)
			c.addVSpace(int(base * 0.9))
		case doctree.KindCodeBlock:
			e.drawCodeBlock(c, b.Lines, base*0.95, scale)
			c.addVSpace(int(base * 0.9))
		case doctree.KindRule:
			c.ensure(c.y + 12*scale)
			c.fill(image.Rect(c.margin, c.y+4*scale, c.width-c.margin, c.y+6*scale), th.Rule)
			c.y += 12 * scale
		case doctree.KindTable:
			for _, row := range b.Rows {
				line := strings.Join(row, " | ")
				e.drawRuns(c, []doctree.Run{{Text: line}}, c.margin, base*0.95, false)
			}
			c.addVSpace(int(base * 0.9))
		}
	}

	return c.crop(), nil
}

func headingScale(level int) float64 {
	switch level {
	case 1:
		return 1.9
	case 2:
		return 1.6
	case 3:
		return 1.4
	case 4:
		return 1.25
	case 5:
		return 1.15
	}
	return 1.1
}

// styledWord is one wrap unit with its resolved face and color.
type styledWord struct {
	text      string
	font      *truetype.Font
	size      float64
	color     color.RGBA
	underline bool
}

func (e *Engine) drawRuns(c *canvas, runs []doctree.Run, left int, size float64, headingBold bool) {
	words := e.layoutWords(c, runs, size, headingBold)
	if len(words) == 0 {
		return
	}
	right := c.width - c.margin
	lineHeight := int(size * 1.4)
	spaceW := e.measure(e.fonts.regular, size, " ")

	var line []styledWord
	lineW := 0
	flush := func() {
		if len(line) == 0 {
			return
		}
		baseline := c.y + int(size)
		c.ensure(c.y + lineHeight)
		x := left
		for _, w := range line {
			e.drawString(c, w.text, w.font, w.size, w.color, x, baseline)
			wWidth := e.measure(w.font, w.size, w.text)
			if w.underline {
				c.fill(image.Rect(x, baseline+2, x+wWidth, baseline+3), w.color)
			}
			x += wWidth + spaceW
		}
		c.y += lineHeight
		line = line[:0]
		lineW = 0
	}

	for _, w := range words {
		wWidth := e.measure(w.font, w.size, w.text)
		if lineW > 0 && left+lineW+wWidth > right {
			flush()
		}
		line = append(line, w)
		lineW += wWidth + spaceW
	}
	flush()
}

func (e *Engine) layoutWords(c *canvas, runs []doctree.Run, size float64, headingBold bool) []styledWord {
	var words []styledWord
	for _, r := range runs {
		f := e.fonts.regular
		if r.Bold || headingBold {
			f = e.fonts.bold
		}
		if r.Code {
			f = e.fonts.mono
		}
		col := c.th.FG
		if r.Link {
			col = c.th.Link
		}
		for _, w := range strings.Fields(r.Text) {
			words = append(words, styledWord{
				text:      w,
				font:      f,
				size:      size,
				color:     col,
				underline: r.Link,
			})
		}
	}
	return words
}

func (e *Engine) drawList(c *canvas, b doctree.Block, base float64, scale int) {
	marker := "•"
	if b.Ordered {
		marker = "-"
	}
	for _, item := range b.Items {
		markerLeft := c.margin + item.Indent*28*scale
		contentLeft := markerLeft + 22*scale
		baseline := c.y + int(base)
		c.ensure(baseline + 4)
		e.drawString(c, marker, e.fonts.regular, base, c.th.FG, markerLeft, baseline)
		e.drawRuns(c, item.Runs, contentLeft, base, false)
		c.addVSpace(int(base * 0.4))
	}
}

func (e *Engine) drawCodeBlock(c *canvas, lines []string, size float64, scale int) {
	pad := 10 * scale
	left := c.margin
	right := c.width - c.margin
	lineHeight := int(size * 1.4)

	wrapped := e.wrapCodeLines(lines, size, right-left-2*pad)
	height := len(wrapped)*lineHeight + 2*pad
	top := c.y
	c.ensure(top + height + 6*scale)
	c.fill(image.Rect(left, top, right, top+height), c.th.CodeBG)

	y := top + pad + int(size)
	for _, ln := range wrapped {
		e.drawString(c, ln, e.fonts.mono, size, c.th.FG, left+pad, y)
		y += lineHeight
	}
	c.y = top + height + 6*scale
}

// wrapCodeLines cuts over-long lines at rune boundaries so multi-byte
// characters are never split across chunks.
func (e *Engine) wrapCodeLines(lines []string, size float64, maxWidth int) []string {
	var out []string
	for _, ln := range lines {
		runes := []rune(ln)
		for e.measure(e.fonts.mono, size, string(runes)) > maxWidth && len(runes) > 1 {
			cut := len(runes)
			for cut > 1 && e.measure(e.fonts.mono, size, string(runes[:cut])) > maxWidth {
				cut--
			}
			out = append(out, string(runes[:cut]))
			runes = runes[cut:]
		}
		out = append(out, string(runes))
	}
	if len(out) == 0 {
		out = append(out, "")
	}
	return out
}

func (e *Engine) drawString(c *canvas, s string, f *truetype.Font, size float64, col color.RGBA, x, baseline int) {
	d := font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: e.face(f, size),
		Dot:  fixed.P(x, baseline),
	}
	d.DrawString(s)
}

// canvas is a grow-as-needed drawing surface; the cursor only moves down.
type canvas struct {
	img    *image.RGBA
	width  int
	margin int
	y      int
	th     Theme
}

func newCanvas(width, margin int, th Theme) *canvas {
	img := image.NewRGBA(image.Rect(0, 0, width, 2048))
	draw.Draw(img, img.Bounds(), image.NewUniform(th.BG), image.Point{}, draw.Src)
	return &canvas{img: img, width: width, margin: margin, y: margin, th: th}
}

// ensure grows the backing image so bottom is addressable.
func (c *canvas) ensure(bottom int) {
	h := c.img.Bounds().Dy()
	if bottom <= h {
		return
	}
	for h < bottom {
		h *= 2
	}
	grown := image.NewRGBA(image.Rect(0, 0, c.width, h))
	draw.Draw(grown, grown.Bounds(), image.NewUniform(c.th.BG), image.Point{}, draw.Src)
	draw.Draw(grown, c.img.Bounds(), c.img, image.Point{}, draw.Src)
	c.img = grown
}

func (c *canvas) fill(r image.Rectangle, col color.RGBA) {
	c.ensure(r.Max.Y)
	draw.Draw(c.img, r, image.NewUniform(col), image.Point{}, draw.Src)
}

func (c *canvas) addVSpace(px int) {
	c.y += px
	c.ensure(c.y)
}

func (c *canvas) crop() *image.RGBA {
	used := c.y + c.margin
	if min := c.margin * 2; used < min {
		used = min
	}
	c.ensure(used)
	out := image.NewRGBA(image.Rect(0, 0, c.width, used))
	draw.Draw(out, out.Bounds(), c.img, image.Point{}, draw.Src)
	return out
}
