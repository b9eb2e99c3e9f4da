package extract

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"SalesScanner/internal/dates"
	"SalesScanner/internal/locator"
)

const (
	statusMarker  = "sc-status-action-row__status"
	productMarker = "sc-product-row"
)

var (
	priceTextExpr    = regexp.MustCompile(`\$\s*\d+`)
	productClassExpr = regexp.MustCompile(`(?i)product`)
)

// ContainerLocator finds the per-order blocks of a sales page.
type ContainerLocator struct {
	loc        *locator.Locator
	strategies []locator.Strategy
	logger     *slog.Logger
}

// NewContainerLocator builds the cascade, from full order cards down to any
// priced block with a picture.
func NewContainerLocator(loc *locator.Locator, logger *slog.Logger) *ContainerLocator {
	if loc == nil {
		loc = locator.New(logger)
	}
	return &ContainerLocator{
		loc: loc,
		strategies: []locator.Strategy{
			locator.CSS(".row-card-container"),
			locator.ClassPattern(`row-card-container`),
			locator.CSS(".sc-row"),
			locator.ClassPattern(`sc-row`),
			locator.Custom("status and product", func(root *goquery.Selection) *goquery.Selection {
				return root.Find("div").FilterFunction(func(_ int, s *goquery.Selection) bool {
					return hasClassLike(s, statusMarker) && hasClassLike(s, productMarker)
				})
			}),
			locator.CSS("." + productMarker),
			locator.ClassPattern(productMarker),
			locator.Attr("data-testid", `product-row`),
			locator.Custom("priced picture", func(root *goquery.Selection) *goquery.Selection {
				return root.Find("div").FilterFunction(func(_ int, s *goquery.Selection) bool {
					return s.Find("img").Length() > 0 && hasPriceText(s)
				})
			}),
		},
		logger: logger,
	}
}

// Containers returns the order blocks in document order and the name of the
// strategy that found them. An empty slice means the page has no orders the
// cascade recognises.
func (c *ContainerLocator) Containers(doc *goquery.Document) ([]*goquery.Selection, string) {
	if doc == nil {
		return nil, ""
	}

	m := c.loc.All(doc.Selection, c.strategies...)
	if !m.Ok() {
		return nil, ""
	}

	out := make([]*goquery.Selection, 0, m.Selection().Length())
	m.Selection().Each(func(_ int, s *goquery.Selection) {
		out = append(out, s)
	})
	if c.logger != nil {
		c.logger.Info("containers located", "strategy", m.Strategy(), "count", len(out))
	}
	return out, m.Strategy()
}

// Diagnostics counts the markers a sales page normally carries. It is only
// computed when no container was found.
type Diagnostics struct {
	RowCards       int
	ProductClassed int
	PriceTexts     int
	MlstaticImages int
	ArticleLinks   int
	StatusClassed  int
	StatusMarkers  int
	ProductMarkers int
	BothMarkers    int
	DateTexts      int
	Scripts        int
	JSONStatuses   int

	SampleStatuses []string
	SampleDates    []string
}

// Diagnose inspects the document for the markers above.
func Diagnose(doc *goquery.Document) Diagnostics {
	var d Diagnostics
	if doc == nil {
		return d
	}

	d.RowCards = doc.Find(".row-card-container").Length()
	d.ProductClassed = doc.Find("[class]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		cls, _ := s.Attr("class")
		return productClassExpr.MatchString(cls)
	}).Length()
	for _, fragment := range locator.Fragments(doc.Selection) {
		if priceTextExpr.MatchString(fragment) {
			d.PriceTexts++
		}
	}
	d.MlstaticImages = doc.Find(`img[src*="mlstatic"]`).Length()
	d.ArticleLinks = doc.Find(`a[href*="articulo.mercadolibre"]`).Length()
	d.StatusClassed = doc.Find(`[class*="status"]`).Length()

	statuses := doc.Find("." + statusMarker)
	d.StatusMarkers = statuses.Length()
	statuses.EachWithBreak(func(i int, s *goquery.Selection) bool {
		d.SampleStatuses = append(d.SampleStatuses, strings.TrimSpace(s.Text()))
		return i < 4
	})
	d.ProductMarkers = doc.Find("." + productMarker).Length()
	d.BothMarkers = doc.Find("div").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.Find("."+statusMarker).Length() > 0 && s.Find("."+productMarker).Length() > 0
	}).Length()

	found := dates.FindAll(rawMarkup(doc.Selection))
	d.DateTexts = len(found)
	if len(found) > 3 {
		found = found[:3]
	}
	d.SampleDates = found

	scripts := doc.Find("script")
	d.Scripts = scripts.Length()
	scripts.Each(func(_ int, s *goquery.Selection) {
		for _, m := range scriptStatusExpr.FindAllStringSubmatch(s.Text(), -1) {
			if diagnosticStatusExpr.MatchString(m[1]) {
				d.JSONStatuses++
			}
		}
	})
	return d
}

// Log writes the diagnostics at info level.
func (d Diagnostics) Log(logger *slog.Logger) {
	if logger == nil {
		return
	}
	logger.Info("html diagnostics",
		"row_cards", d.RowCards,
		"product_classed", d.ProductClassed,
		"price_texts", d.PriceTexts,
		"mlstatic_images", d.MlstaticImages,
		"article_links", d.ArticleLinks,
		"status_classed", d.StatusClassed,
		"status_markers", d.StatusMarkers,
		"product_markers", d.ProductMarkers,
		"both_markers", d.BothMarkers,
		"date_texts", d.DateTexts,
		"scripts", d.Scripts,
		"json_statuses", d.JSONStatuses,
	)
	for i, status := range d.SampleStatuses {
		logger.Info("sample status", "n", i+1, "text", status)
	}
	for i, date := range d.SampleDates {
		logger.Info("sample date", "n", i+1, "text", date)
	}
}

func hasClassLike(s *goquery.Selection, class string) bool {
	return s.Find(`[class*="` + class + `"]`).Length() > 0
}

func hasPriceText(s *goquery.Selection) bool {
	for _, fragment := range locator.Fragments(s) {
		if priceTextExpr.MatchString(fragment) {
			return true
		}
	}
	return false
}
