package locator

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Fragments returns the non-empty, trimmed text nodes under sel in document
// order, skipping script and style bodies.
func Fragments(sel *goquery.Selection) []string {
	var out []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				out = append(out, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return out
}

// JoinedText joins Fragments with single spaces.
func JoinedText(sel *goquery.Selection) string {
	return strings.Join(Fragments(sel), " ")
}

// Longest returns the longest fragment under sel.
func Longest(sel *goquery.Selection) string {
	var best string
	for _, f := range Fragments(sel) {
		if len([]rune(f)) > len([]rune(best)) {
			best = f
		}
	}
	return best
}

func trimmedText(sel *goquery.Selection) string {
	return strings.TrimSpace(strings.Join(Fragments(sel), ""))
}
