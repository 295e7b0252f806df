package render

import (
	"embed"
	"strings"
)

//go:embed assets/*.css
var styleFS embed.FS

// sheets lists the stylesheet assets in scan order.
var sheets = []string{
	"assets/theme-light.css",
	"assets/theme-dark.css",
	"assets/highlight.css",
}

// highlightClass is the universal code-highlighting root class; its rules
// are included for every theme.
const highlightClass = ".highlight"

// ExtractCSS collects the stylesheet rules relevant to the given theme:
// every rule whose selector references the theme root class, plus the
// universal code-highlighting rules. Sheets that cannot be read are
// skipped silently; a partial scan is preferred over a failed export.
func ExtractCSS(theme string) string {
	rootClass := ".theme-" + theme
	var out strings.Builder
	for _, name := range sheets {
		raw, err := styleFS.ReadFile(name)
		if err != nil {
			continue
		}
		for _, rule := range splitRules(string(raw)) {
			if strings.Contains(rule.selector, rootClass) || strings.Contains(rule.selector, highlightClass) {
				out.WriteString(rule.selector)
				out.WriteString(" {")
				out.WriteString(rule.body)
				out.WriteString("}\n")
			}
		}
	}
	return out.String()
}

type cssRule struct {
	selector string
	body     string
}

// splitRules performs a flat selector{body} scan. The embedded sheets
// carry no at-rules or nesting, so a brace split is sufficient.
func splitRules(css string) []cssRule {
	var rules []cssRule
	for _, chunk := range strings.Split(css, "}") {
		sel, body, ok := strings.Cut(chunk, "{")
		if !ok {
			continue
		}
		sel = strings.TrimSpace(sel)
		if sel == "" || strings.HasPrefix(sel, "/*") {
			continue
		}
		rules = append(rules, cssRule{selector: sel, body: strings.TrimSpace(body)})
	}
	return rules
}
