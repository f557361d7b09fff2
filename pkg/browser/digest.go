package browser

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// skippedElements are noise for diagnostic purposes.
var skippedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"svg":      true,
	"iframe":   true,
	"head":     false, // traversed for the title
}

// DigestHTML reduces raw page HTML to a compact text summary: the page
// title followed by the visible text, whitespace-collapsed and truncated
// to maxLength. It feeds failure diagnostics, never control flow.
func DigestHTML(rawHTML string, maxLength int) (string, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	var builder strings.Builder
	title := findTitle(doc)
	if title != "" {
		builder.WriteString(title)
		builder.WriteString(" | ")
	}

	collectText(doc, &builder)

	digest := strings.Join(strings.Fields(builder.String()), " ")
	if maxLength > 0 && len(digest) > maxLength {
		digest = digest[:maxLength] + "..."
	}
	return digest, nil
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
			return strings.TrimSpace(n.FirstChild.Data)
		}
		return ""
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if title := findTitle(c); title != "" {
			return title
		}
	}
	return ""
}

func collectText(n *html.Node, builder *strings.Builder) {
	if n.Type == html.CommentNode {
		return
	}
	if n.Type == html.ElementNode {
		if skip, known := skippedElements[strings.ToLower(n.Data)]; known && skip {
			return
		}
		if n.Data == "title" {
			return
		}
	}
	if n.Type == html.TextNode {
		text := strings.TrimSpace(n.Data)
		if text != "" {
			builder.WriteString(text)
			builder.WriteString(" ")
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, builder)
	}
}
