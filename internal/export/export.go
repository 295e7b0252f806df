// Package export routes a Markdown document to one of four emitters and
// normalizes every outcome into a status message or a small error set.
package export

import (
	"errors"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/inkpadhq/inkpad-export/internal/config"
	"github.com/inkpadhq/inkpad-export/internal/raster"
	"github.com/inkpadhq/inkpad-export/internal/render"
	"github.com/inkpadhq/inkpad-export/internal/slides"
	"github.com/inkpadhq/inkpad-export/internal/walker"
)

// Format identifies an export target.
type Format string

const (
	FormatHTML Format = "HTML"
	FormatPDF  Format = "PDF"
	FormatDOCX Format = "DOCX"
	FormatPPTX Format = "PPTX"
)

var (
	// ErrEmptyDocument: nothing to export; checked before any
	// collaborator is invoked.
	ErrEmptyDocument = errors.New("document is empty")
	// ErrUnsupportedFormat: the format is not one of the four targets.
	ErrUnsupportedFormat = errors.New("unsupported export format")
	// ErrExportFailed wraps every downstream failure; emitter detail is
	// logged, not surfaced to the caller.
	ErrExportFailed = errors.New("export failed")
)

// Watermark is the block appended to free-tier source Markdown before
// any emitter runs, so it lands in all four formats uniformly.
const Watermark = "\n\n---\n\n*Made with Inkpad Free*\n"

// Watermarked applies the free-tier watermark.
func Watermarked(markdown string, pro bool) string {
	if pro {
		return markdown
	}
	return markdown + Watermark
}

// SavePrompt asks for a destination path. An empty path with a nil error
// means the user cancelled; cancellation is not an error.
type SavePrompt func(defaultPath, ext string) (string, error)

// WriteFile persists a finished artifact. It is called at most once per
// export, after the complete package is in memory.
type WriteFile func(path string, data []byte) error

type formatSpec struct {
	ext    string
	status string
}

var formatSpecs = map[Format]formatSpec{
	FormatHTML: {ext: "html", status: "Exported as HTML"},
	FormatPDF:  {ext: "pdf", status: "Exported as PDF"},
	FormatDOCX: {ext: "docx", status: "Exported as Word"},
	FormatPPTX: {ext: "pptx", status: "Exported as PPT"},
}

// Exporter is the export dispatcher. Collaborators are injected so the
// surrounding application (or a test) owns prompting and disk I/O.
type Exporter struct {
	cfg    config.Config
	prompt SavePrompt
	write  WriteFile
	engine *raster.Engine
	log    *slog.Logger
}

func New(cfg config.Config, prompt SavePrompt, write WriteFile, log *slog.Logger) (*Exporter, error) {
	engine, err := raster.NewEngine()
	if err != nil {
		return nil, err
	}
	return &Exporter{
		cfg:    cfg,
		prompt: prompt,
		write:  write,
		engine: engine,
		log:    log,
	}, nil
}

// Export converts markdown to the requested format and writes it to the
// destination chosen via the prompt collaborator. It returns a status
// message on success and ("", nil) on cancellation.
func (e *Exporter) Export(format Format, markdown, theme, sourcePath string, pro bool) (string, error) {
	if strings.TrimSpace(markdown) == "" {
		return "", ErrEmptyDocument
	}
	spec, ok := formatSpecs[format]
	if !ok {
		return "", ErrUnsupportedFormat
	}

	markdown = Watermarked(markdown, pro)

	defaultPath := defaultOutputPath(sourcePath, spec.ext)
	path, err := e.prompt(defaultPath, spec.ext)
	if err != nil {
		e.log.Error("save prompt failed", "error", err)
		return "", ErrExportFailed
	}
	if path == "" {
		// User cancelled: silent no-op.
		return "", nil
	}

	data, err := e.Build(format, markdown, theme, DisplayName(sourcePath))
	if err != nil {
		e.log.Error("emit failed", "format", format, "error", err)
		return "", ErrExportFailed
	}

	if err := e.write(path, data); err != nil {
		e.log.Error("write failed", "path", path, "error", err)
		return "", ErrExportFailed
	}
	return spec.status, nil
}

// Build produces the in-memory artifact for one format. The caller is
// responsible for watermarking and for the empty-document check.
func (e *Exporter) Build(format Format, markdown, theme, name string) ([]byte, error) {
	if theme == "" {
		theme = e.cfg.DefaultTheme
	}
	switch format {
	case FormatHTML:
		article, err := render.Markdown(markdown)
		if err != nil {
			return nil, err
		}
		return buildHTML(article, theme, name), nil

	case FormatDOCX:
		article, err := render.Markdown(markdown)
		if err != nil {
			return nil, err
		}
		blocks, err := walker.Walk(article)
		if err != nil {
			return nil, err
		}
		return buildDOCX(blocks)

	case FormatPDF:
		article, err := render.Markdown(markdown)
		if err != nil {
			return nil, err
		}
		th, err := raster.ThemeByName(theme)
		if err != nil {
			return nil, err
		}
		img, err := e.engine.Render(article, e.cfg.RasterWidth, e.cfg.RasterScale, th)
		if err != nil {
			return nil, err
		}
		return buildPDF(img, e.cfg.PageWidthMM, e.cfg.PageHeightMM)

	case FormatPPTX:
		deck := slides.Segment(markdown)
		if len(deck) == 0 {
			// Fallback title slide is a dispatcher decision, keeping
			// title-slide styling out of the segmenter.
			return buildPPTX([]slides.Slide{{Title: name}}, true)
		}
		return buildPPTX(deck, false)
	}
	return nil, ErrUnsupportedFormat
}

// defaultOutputPath swaps the source extension for the target format's,
// keeping the source directory.
func defaultOutputPath(sourcePath, ext string) string {
	base := strings.TrimSuffix(sourcePath, filepath.Ext(sourcePath))
	if base == "" {
		base = "untitled"
	}
	return base + "." + ext
}

// DisplayName is the document's human-readable name: the source file
// name without its extension.
func DisplayName(sourcePath string) string {
	name := filepath.Base(sourcePath)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if name == "" || name == "." {
		return "Untitled"
	}
	return name
}
