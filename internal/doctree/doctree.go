// Package doctree defines the normalized, format-agnostic document tree
// produced by the HTML walker and consumed by the emitters.
package doctree

// BlockKind discriminates the block node variants.
type BlockKind int

const (
	KindHeading BlockKind = iota
	KindParagraph
	KindList
	KindBlockquote
	KindCodeBlock
	KindRule
	KindTable
)

// Run is a span of text carrying inherited inline formatting flags.
// Flags accumulate top-down while walking nested inline elements and
// are never cleared by a descendant.
type Run struct {
	Text   string
	Bold   bool
	Italic bool
	Code   bool
	Link   bool
}

// ListItem is one entry of a List block. Indent is 0 for top-level items
// and grows by one per nesting level.
type ListItem struct {
	Runs   []Run
	Indent int
}

// Block is one block-level node. The kind-specific fields populated are
// selected by Kind:
//
//	KindHeading    Level, Runs
//	KindParagraph  Runs
//	KindList       Ordered, Items
//	KindBlockquote Runs
//	KindCodeBlock  Lines
//	KindRule       (no payload)
//	KindTable      Rows
type Block struct {
	Kind BlockKind

	Level   int
	Runs    []Run
	Ordered bool
	Items   []ListItem
	Lines   []string
	Rows    [][]string
}

// PlainText flattens the runs of a block into a single string.
func (b Block) PlainText() string {
	var out string
	for _, r := range b.Runs {
		out += r.Text
	}
	return out
}
