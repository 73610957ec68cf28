package research

import (
	"strings"

	"golang.org/x/net/html"
)

// NormalizeSnippet strips any HTML markup from a snippet and collapses
// whitespace. Search APIs sometimes return description fields with embedded
// markup; evidence snippets must be plain text for matching.
func NormalizeSnippet(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if strings.ContainsAny(s, "<>") {
		s = VisibleText(s)
	}
	return strings.Join(strings.Fields(s), " ")
}

// VisibleText extracts the visible text of an HTML fragment, skipping
// script/style/noscript/iframe subtrees
func VisibleText(htmlContent string) string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return htmlContent
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.TrimSpace(buf.String())
}

// truncateRunes cuts s to at most n runes without splitting a rune
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
