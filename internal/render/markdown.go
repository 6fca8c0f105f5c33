// Package render turns generated article markdown into HTML for the UI
// preview pane.
package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"

	"github.com/typelesshq/typeless/internal/models"
)

// ArticleMarkdown composes the full markdown document for an article:
// the title as an H1 heading followed by the body.
func ArticleMarkdown(article models.Article) string {
	return fmt.Sprintf("# %s\n\n%s", article.Title, article.Content)
}

// ArticleHTML renders the article (title plus markdown body) to HTML.
func ArticleHTML(article models.Article) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(ArticleMarkdown(article)), &buf); err != nil {
		return "", fmt.Errorf("rendering article markdown: %w", err)
	}
	return buf.String(), nil
}
