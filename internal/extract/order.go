package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"SalesScanner/internal/dates"
	"SalesScanner/internal/locator"
)

var (
	orderIDPatterns = []*regexp.Regexp{
		regexp.MustCompile(`#(\d+)`),
		regexp.MustCompile(`(?i)pack_id["']?\s*:\s*["']?(\d+)`),
		regexp.MustCompile(`(?i)order[_-]?id["']?\s*:\s*["']?(\d+)`),
	}
	longIDExpr  = regexp.MustCompile(`\d{10,}`)
	idClassExpr = regexp.MustCompile(`pack.id|order.id|left-column__pack-id`)
)

// OrderID looks for a pack/order id in the raw markup, then in id-classed nodes.
func (e *Extractor) OrderID(container *goquery.Selection) string {
	markup := rawMarkup(container)
	for _, pattern := range orderIDPatterns {
		if m := pattern.FindStringSubmatch(markup); m != nil {
			return m[1]
		}
	}

	var id string
	container.Find("*").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		cls, _ := s.Attr("class")
		if !idClassExpr.MatchString(cls) {
			return true
		}
		if m := longIDExpr.FindString(strings.TrimSpace(s.Text())); m != "" {
			id = m
			return false
		}
		return true
	})
	return id
}

// OrderDate finds the date printed on the card and parses it.
func (e *Extractor) OrderDate(container *goquery.Selection, parser *dates.Parser) *time.Time {
	if parser == nil {
		return nil
	}

	m := e.loc.First(container,
		locator.CSS(".pack-status-info__date"),
		locator.CSS(".ui-pack-status-date"),
		locator.CSS(`[class*="date"]`),
		locator.CSS(`[class*="fecha"]`),
		locator.Custom("date text", func(root *goquery.Selection) *goquery.Selection {
			return root.Find("*").FilterFunction(func(_ int, s *goquery.Selection) bool {
				_, ok := dates.FindIn(ownText(s))
				return ok
			})
		}),
	)

	var text string
	if m.Ok() {
		text = m.Text()
	} else {
		found, ok := dates.FindIn(locator.JoinedText(container))
		if !ok {
			return nil
		}
		text = found
	}

	parsed, ok := parser.Parse(text)
	if !ok {
		e.warn("cannot parse order date", "text", text)
		return nil
	}
	return &parsed
}

// rawMarkup renders the container and undoes entity escaping so quoted JSON
// in attributes reads as it was saved.
func rawMarkup(sel *goquery.Selection) string {
	markup, err := goquery.OuterHtml(sel)
	if err != nil {
		return ""
	}
	return html.UnescapeString(markup)
}

// ownText is the text of the node's direct text children only.
func ownText(s *goquery.Selection) string {
	var b strings.Builder
	for _, n := range s.Nodes {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				b.WriteString(c.Data)
			}
		}
	}
	return b.String()
}

func (e *Extractor) warn(msg string, args ...interface{}) {
	if e.logger != nil {
		e.logger.Warn(msg, args...)
	}
}
