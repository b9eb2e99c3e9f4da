// Package extract pulls order records out of saved sales-panel markup.
package extract

import (
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"SalesScanner/internal/domain"
	"SalesScanner/internal/locator"
)

const articleBaseURL = "https://articulo.mercadolibre.com.uy"

var (
	digitsExpr    = regexp.MustCompile(`\d+`)
	bgURLExpr     = regexp.MustCompile(`url\(([^)]+)\)`)
	absURLExpr    = regexp.MustCompile(`(?i)^https?://`)
	mlstaticImage = regexp.MustCompile(`(?i)mlstatic.*\.(jpg|jpeg|png|webp)`)
)

// Extractor reads the six product fields of a container. Every method returns
// an empty string when nothing is found.
type Extractor struct {
	loc     *locator.Locator
	baseDir string
	logger  *slog.Logger
}

// NewExtractor wires the locator; baseDir resolves relative image paths and
// may be empty.
func NewExtractor(loc *locator.Locator, baseDir string, logger *slog.Logger) *Extractor {
	if loc == nil {
		loc = locator.New(logger)
	}
	return &Extractor{loc: loc, baseDir: baseDir, logger: logger}
}

// Fields fills the product part of an OrderRecord.
func (e *Extractor) Fields(container *goquery.Selection) domain.OrderRecord {
	return domain.OrderRecord{
		Name:     e.Name(container),
		Link:     e.Link(container),
		Image:    e.Image(container),
		Price:    e.Price(container),
		Quantity: e.Quantity(container),
		SKU:      e.SKU(container),
	}
}

// productRow narrows to the product row, or the container itself.
func (e *Extractor) productRow(container *goquery.Selection) *goquery.Selection {
	m := e.loc.First(container, locator.ClassPattern(`sc-product-row`))
	if m.Ok() {
		return m.Selection()
	}
	return container
}

// Name reads the label inside the description block.
func (e *Extractor) Name(container *goquery.Selection) string {
	row := e.productRow(container)
	desc := e.loc.First(row, locator.ClassPattern(`description-container`))
	if !desc.Ok() {
		return ""
	}

	m := e.loc.First(desc.Selection(),
		locator.Class("label"),
		locator.CSS(".label"),
		locator.Custom("longest div", longestDiv),
	)
	if text := m.Text(); text != "" {
		return text
	}
	return locator.Longest(desc.Selection())
}

// Link finds the item-detail anchor.
func (e *Extractor) Link(container *goquery.Selection) string {
	row := e.productRow(container)
	m := e.loc.First(row,
		locator.CSS(".description-container a.redirect-row[href]"),
		locator.CSS(`a[href*="articulo.mercadolibre"]`),
	)
	if !m.Ok() {
		return ""
	}

	href, _ := m.Selection().Attr("href")
	href = strings.TrimSpace(href)
	if strings.HasPrefix(href, "/") && !strings.HasPrefix(href, "//") {
		href = articleBaseURL + href
	}
	return href
}

// Image prefers the high-quality "-I"/"-O" variants, then srcset, then any
// source, then background images and mlstatic thumbnails.
func (e *Extractor) Image(container *goquery.Selection) string {
	row := e.productRow(container)

	img := e.loc.First(row,
		locator.CSS(`.sc-product-picture__single-item img[src*="-I.jpg"]`),
		locator.CSS(`.sc-product-picture__single-item img[src*="-O.jpg"]`),
		locator.CSS(".sc-product-picture__single-item img"),
		locator.CSS(".sc-product-picture img"),
		locator.CSS(`a[data-testid="redirect-img"] img`),
		locator.Custom("mlstatic img", func(root *goquery.Selection) *goquery.Selection {
			return root.Find("img").FilterFunction(func(_ int, s *goquery.Selection) bool {
				src, _ := s.Attr("src")
				return mlstaticImage.MatchString(src)
			})
		}),
		locator.CSS("img"),
	)

	if img.Ok() {
		sel := img.Selection()
		var fallback string
		for _, attr := range []string{"src", "data-src", "data-lazy", "data-original"} {
			raw, ok := sel.Attr(attr)
			if !ok || strings.TrimSpace(raw) == "" {
				continue
			}
			resolved := e.resolveURL(raw)
			if strings.Contains(resolved, "-I.jpg") || strings.Contains(resolved, "-O.jpg") {
				return resolved
			}
			if fallback == "" && resolved != "" {
				fallback = resolved
			}
		}

		if srcset, ok := sel.Attr("srcset"); ok {
			if u := e.resolveURL(lastSrcsetCandidate(srcset)); u != "" {
				return u
			}
		}
		if fallback != "" {
			return fallback
		}
	}

	bg := e.loc.First(row, locator.Attr("style", `(?i)background-image`))
	if bg.Ok() {
		style, _ := bg.Selection().Attr("style")
		if m := bgURLExpr.FindStringSubmatch(style); m != nil {
			return e.resolveURL(m[1])
		}
	}

	thumb := e.loc.First(row, locator.CSS(`img[src*="mlstatic"]`))
	if thumb.Ok() {
		src, _ := thumb.Selection().Attr("src")
		return e.resolveURL(src)
	}

	return ""
}

// Price needs a currency symbol; the text fallback also needs a digit.
func (e *Extractor) Price(container *goquery.Selection) string {
	row := e.productRow(container)
	m := e.loc.First(row,
		locator.CSS(".price-container .price"),
		locator.Class("price"),
		locator.TagText("span", "$"),
	)
	if text := m.Text(); strings.Contains(text, "$") {
		return text
	}

	for _, fragment := range locator.Fragments(row) {
		if strings.Contains(fragment, "$") && strings.ContainsAny(fragment, "0123456789") {
			return fragment
		}
	}
	return ""
}

// Quantity returns the first integer next to a "unidad" marker, or "1".
func (e *Extractor) Quantity(container *goquery.Selection) string {
	row := e.productRow(container)
	m := e.loc.First(row,
		locator.Class("unit"),
		locator.CSS("span.unit"),
		locator.TagText("span", "unidad"),
	)
	if n := digitsExpr.FindString(m.Text()); n != "" {
		return n
	}

	for _, fragment := range locator.Fragments(row) {
		if strings.Contains(strings.ToLower(fragment), "unidad") {
			if n := digitsExpr.FindString(fragment); n != "" {
				return n
			}
		}
	}
	return "1"
}

// SKU strips the "SKU:" label.
func (e *Extractor) SKU(container *goquery.Selection) string {
	row := e.productRow(container)
	m := e.loc.First(row,
		locator.Class("sku"),
		locator.CSS("span.sku"),
		locator.TagText("span", "SKU:"),
	)
	if m.Ok() {
		return stripSKULabel(m.Text())
	}

	for _, fragment := range locator.Fragments(row) {
		if strings.Contains(fragment, "SKU:") {
			return stripSKULabel(fragment)
		}
	}
	return ""
}

func stripSKULabel(text string) string {
	if i := strings.LastIndex(text, "SKU:"); i >= 0 {
		return strings.TrimSpace(text[i+len("SKU:"):])
	}
	return strings.TrimSpace(text)
}

func longestDiv(root *goquery.Selection) *goquery.Selection {
	var (
		best    *goquery.Selection
		bestLen int
	)
	root.Find("div").Each(func(_ int, s *goquery.Selection) {
		if n := len([]rune(strings.TrimSpace(s.Text()))); n > bestLen {
			best, bestLen = s, n
		}
	})
	return best
}

func lastSrcsetCandidate(srcset string) string {
	var last string
	for _, part := range strings.Split(srcset, ",") {
		if fields := strings.Fields(part); len(fields) > 0 {
			last = fields[0]
		}
	}
	return last
}

// resolveURL handles protocol-relative and local relative image paths.
// A relative path is only rewritten when the file exists next to the document.
func (e *Extractor) resolveURL(src string) string {
	src = strings.Trim(strings.TrimSpace(src), `"'`)
	if src == "" {
		return ""
	}
	if strings.HasPrefix(src, "//") {
		return "https:" + src
	}
	if absURLExpr.MatchString(src) {
		return src
	}
	if e.baseDir != "" {
		full, err := filepath.Abs(filepath.Join(e.baseDir, filepath.FromSlash(src)))
		if err == nil {
			if _, statErr := os.Stat(full); statErr == nil {
				return full
			}
		}
	}
	return src
}
