package export

import (
	"bytes"
	"fmt"
	"strings"

	docx "github.com/fumiama/go-docx"

	"github.com/inkpadhq/inkpad-export/internal/doctree"
)

const (
	docxLinkColor   = "0563C1"
	docxCodeShade   = "F2F2F2"
	docxMutedColor  = "AAAAAA"
	docxMonoFont    = "Consolas"
	docxIndentSpace = "    "
)

// headingSizes maps heading level to run size in half-points; levels
// beyond the table clamp to the smallest heading size.
var headingSizes = []string{"48", "40", "36", "32", "28", "26"}

// buildDOCX maps the normalized tree to a word-processor package. The
// complete document is assembled in memory; nothing is written until the
// caller decides to.
func buildDOCX(blocks []doctree.Block) ([]byte, error) {
	w := docx.New().WithDefaultTheme()

	for _, b := range blocks {
		switch b.Kind {
		case doctree.KindHeading:
			level := b.Level
			if level < 1 {
				level = 1
			}
			if level > len(headingSizes) {
				level = len(headingSizes)
			}
			p := w.AddParagraph()
			for _, r := range b.Runs {
				addRun(p, r).Size(headingSizes[level-1]).Bold()
			}
		case doctree.KindParagraph:
			p := w.AddParagraph()
			for _, r := range b.Runs {
				addRun(p, r)
			}
		case doctree.KindBlockquote:
			p := w.AddParagraph()
			p.AddText(docxIndentSpace + "▎ ").Color(docxMutedColor)
			for _, r := range b.Runs {
				addRun(p, r).Italic()
			}
		case doctree.KindList:
			for _, item := range b.Items {
				p := w.AddParagraph()
				prefix := strings.Repeat(docxIndentSpace, item.Indent+1)
				if b.Ordered {
					p.AddText(prefix + "- ")
				} else {
					p.AddText(prefix + "• ")
				}
				for _, r := range item.Runs {
					addRun(p, r)
				}
			}
		case doctree.KindCodeBlock:
			for _, line := range b.Lines {
				if line == "" {
					// Blank lines become single-space paragraphs so the
					// vertical rhythm of the block survives.
					line = " "
				}
				p := w.AddParagraph()
				p.AddText(line).Font(docxMonoFont, "", docxMonoFont, "").Shade("clear", "auto", docxCodeShade)
			}
		case doctree.KindRule:
			p := w.AddParagraph()
			p.AddText(strings.Repeat("─", 36)).Color(docxMutedColor)
		case doctree.KindTable:
			// Lossy projection: one paragraph per row, cells joined with a
			// visible separator.
			for _, row := range b.Rows {
				p := w.AddParagraph()
				p.AddText(strings.Join(row, " | "))
			}
		}
	}

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("pack docx: %w", err)
	}
	return buf.Bytes(), nil
}

func addRun(p *docx.Paragraph, r doctree.Run) *docx.Run {
	run := p.AddText(r.Text)
	if r.Bold {
		run.Bold()
	}
	if r.Italic {
		run.Italic()
	}
	if r.Code {
		run.Font(docxMonoFont, "", docxMonoFont, "").Shade("clear", "auto", docxCodeShade)
	}
	if r.Link {
		run.Color(docxLinkColor).Underline("single")
	}
	return run
}
