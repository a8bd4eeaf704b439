package forum

import (
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

// titlePolicy strips every element from extracted title text. Policies are
// safe for concurrent use.
var titlePolicy = bluemonday.StrictPolicy()

// ExtractTitle pulls a post title out of an HTML document. Strategies are
// tried in order (document title, og:title meta attribute, first h1) and the
// first one yielding a non-empty cleaned value wins. Returns "" when nothing
// matches or the document does not parse.
func ExtractTitle(doc string) string {
	parsed, err := goquery.NewDocumentFromReader(strings.NewReader(doc))
	if err != nil {
		return ""
	}

	strategies := []func() string{
		func() string { return parsed.Find("title").First().Text() },
		func() string { return parsed.Find("meta[property='og:title']").First().AttrOr("content", "") },
		func() string { return parsed.Find("h1").First().Text() },
	}

	for _, strategy := range strategies {
		if title := CleanTitle(strategy()); title != "" {
			return title
		}
	}
	return ""
}

// CleanTitle strips embedded markup and decodes HTML entities (quote,
// ampersand, less-than and greater-than included). The sanitizer re-escapes
// text nodes, so unescaping must run after it.
func CleanTitle(raw string) string {
	cleaned := titlePolicy.Sanitize(raw)
	cleaned = html.UnescapeString(cleaned)
	return strings.TrimSpace(cleaned)
}
