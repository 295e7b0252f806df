package export

import (
	"fmt"
	"html"

	"github.com/inkpadhq/inkpad-export/internal/render"
)

// buildHTML wraps the rendered article and the extracted theme CSS into
// a standalone document. The article fragment is already sanitized; only
// the title needs escaping.
func buildHTML(article, theme, title string) []byte {
	css := render.ExtractCSS(theme)
	page := fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
<style>
%s</style>
</head>
<body class="theme-%s">
<article class="markdown-body">
%s</article>
</body>
</html>
`, html.EscapeString(title), css, theme, article)
	return []byte(page)
}
