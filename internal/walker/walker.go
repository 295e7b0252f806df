// Package walker converts a sanitized block-level HTML fragment into the
// normalized document tree. The transform is stable: block order matches
// document order, and every visible text node lands in exactly one run.
package walker

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/inkpadhq/inkpad-export/internal/doctree"
)

// Walk parses fragment and returns its blocks in document order.
// Unrecognized block tags degrade to paragraphs rather than being
// dropped, so unanticipated markup still reaches the output.
func Walk(fragment string) ([]doctree.Block, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), ctx)
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}

	var blocks []doctree.Block
	for _, n := range nodes {
		blocks = appendBlock(blocks, n)
	}
	return blocks, nil
}

func appendBlock(blocks []doctree.Block, n *html.Node) []doctree.Block {
	if n.Type == html.TextNode {
		// Stray top-level text still becomes a paragraph.
		runs := appendRuns(nil, n, flags{})
		if len(runs) > 0 {
			blocks = append(blocks, doctree.Block{Kind: doctree.KindParagraph, Runs: runs})
		}
		return blocks
	}
	if n.Type != html.ElementNode {
		return blocks
	}

	switch n.Data {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		level := int(n.Data[1] - '0')
		runs := collectRuns(n)
		blocks = append(blocks, doctree.Block{Kind: doctree.KindHeading, Level: level, Runs: runs})
	case "p":
		runs := collectRuns(n)
		if len(runs) > 0 {
			blocks = append(blocks, doctree.Block{Kind: doctree.KindParagraph, Runs: runs})
		}
	case "ul", "ol":
		items := collectItems(nil, n, 0)
		blocks = append(blocks, doctree.Block{
			Kind:    doctree.KindList,
			Ordered: n.Data == "ol",
			Items:   items,
		})
	case "blockquote":
		runs := collectRuns(n)
		if len(runs) > 0 {
			blocks = append(blocks, doctree.Block{Kind: doctree.KindBlockquote, Runs: runs})
		}
	case "pre":
		blocks = append(blocks, doctree.Block{Kind: doctree.KindCodeBlock, Lines: codeLines(n)})
	case "hr":
		blocks = append(blocks, doctree.Block{Kind: doctree.KindRule})
	case "table":
		blocks = append(blocks, doctree.Block{Kind: doctree.KindTable, Rows: tableRows(n)})
	default:
		// Fallback: treat any other block element as a generic paragraph
		// so no text is silently lost.
		runs := collectRuns(n)
		if len(runs) > 0 {
			blocks = append(blocks, doctree.Block{Kind: doctree.KindParagraph, Runs: runs})
		}
	}
	return blocks
}

// flags is the formatting state inherited while descending inline markup.
// Inheritance is purely additive: descendants can set flags, never clear.
type flags struct {
	bold, italic, code, link bool
}

func collectRuns(n *html.Node) []doctree.Run {
	var runs []doctree.Run
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		runs = appendRuns(runs, c, flags{})
	}
	return runs
}

func appendRuns(runs []doctree.Run, n *html.Node, f flags) []doctree.Run {
	if n.Type == html.TextNode {
		text := strings.ReplaceAll(n.Data, "\n", " ")
		if strings.TrimSpace(text) == "" {
			return runs
		}
		return append(runs, doctree.Run{
			Text:   text,
			Bold:   f.bold,
			Italic: f.italic,
			Code:   f.code,
			Link:   f.link,
		})
	}
	if n.Type != html.ElementNode {
		return runs
	}

	switch n.Data {
	case "strong", "b":
		f.bold = true
	case "em", "i":
		f.italic = true
	case "code":
		f.code = true
	case "a":
		f.link = true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		runs = appendRuns(runs, c, f)
	}
	return runs
}

// collectItems flattens a possibly nested list into items with indent
// levels. Runs for an item come from its inline content; nested lists
// under the same <li> follow as deeper items.
func collectItems(items []doctree.ListItem, list *html.Node, indent int) []doctree.ListItem {
	for li := list.FirstChild; li != nil; li = li.NextSibling {
		if li.Type != html.ElementNode || li.Data != "li" {
			continue
		}
		var runs []doctree.Run
		var nested []*html.Node
		for c := li.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && (c.Data == "ul" || c.Data == "ol") {
				nested = append(nested, c)
				continue
			}
			runs = appendRuns(runs, c, flags{})
		}
		if len(runs) > 0 {
			items = append(items, doctree.ListItem{Runs: runs, Indent: indent})
		}
		for _, sub := range nested {
			items = collectItems(items, sub, indent+1)
		}
	}
	return items
}

// codeLines returns the literal lines of a <pre> block. A trailing
// newline does not produce a phantom empty line.
func codeLines(pre *html.Node) []string {
	text := strings.TrimSuffix(rawText(pre), "\n")
	return strings.Split(text, "\n")
}

func tableRows(table *html.Node) [][]string {
	var rows [][]string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			var cells []string
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
					cells = append(cells, textContent(c))
				}
			}
			rows = append(rows, cells)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(table)
	return rows
}

// textContent collapses the visible text of a subtree, cell-level
// formatting discarded.
func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

// rawText is textContent without whitespace trimming, used for code
// blocks where indentation is significant.
func rawText(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return buf.String()
}
