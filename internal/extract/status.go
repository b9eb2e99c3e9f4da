package extract

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"SalesScanner/internal/domain"
	"SalesScanner/internal/locator"
	"SalesScanner/internal/textutil"
)

var (
	scriptStatusExpr  = regexp.MustCompile(`(?i)"status"\s*:\s*"([^"]*)"`)
	visibleStatusExpr = regexp.MustCompile(`(?i)reprogramado|cancelado|devuelto|reembolsado|demorado|acuerdas|acuerda|acordar`)

	temporalPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)acuerdas?\s+la\s+entrega`),
		regexp.MustCompile(`(?i)acuerdo\s+la\s+entrega`),
		regexp.MustCompile(`(?i)a\s+acordar\s+con\s+el\s+comprador`),
		regexp.MustCompile(`(?i)contacta[rt]?e?\s+con\s+tu\s+comprador`),
		regexp.MustCompile(`(?i)avisar\s+entrega`),
	}

	markupStatusPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)"status"\s*:\s*"([^"]*acuerd[^"]*)"`),
		regexp.MustCompile(`(?i)"status"\s*:\s*"([^"]*acordar[^"]*)"`),
		regexp.MustCompile(`(?i)"status"\s*:\s*"([^"]*reprogramado[^"]*)"`),
		regexp.MustCompile(`(?i)"status"\s*:\s*"([^"]*cancelad[^"]*)"`),
		regexp.MustCompile(`(?i)"status"\s*:\s*"([^"]*devuelt[^"]*)"`),
		regexp.MustCompile(`(?i)"status"\s*:\s*"([^"]*reembolsad[^"]*)"`),
		regexp.MustCompile(`(?i)"status"\s*:\s*"([^"]*demorado[^"]*)"`),
	}

	scriptStatusFamilies = []string{"cancelad", "devuelt", "reembolsad"}

	// payload statuses worth counting when a page yields no containers
	diagnosticStatusExpr = regexp.MustCompile(`(?i)reprogramado|cancelad|devuelt|reembolsad|acordar|acuerda`)
)

// StatusResolver finds the order status of a container. Strategies run in a
// fixed order and the first non-empty hit wins; "" means the status is unknown.
type StatusResolver struct {
	loc            *locator.Locator
	visible        []locator.Strategy
	filterStates   []string
	temporalStates []string
	logger         *slog.Logger
}

// NewStatusResolver needs the filter and temporal lists to validate script
// payloads and to scan free text.
func NewStatusResolver(loc *locator.Locator, filterStates, temporalStates []string, logger *slog.Logger) *StatusResolver {
	if loc == nil {
		loc = locator.New(logger)
	}
	return &StatusResolver{
		loc: loc,
		visible: []locator.Strategy{
			locator.WithText(locator.CSS(".sc-status-action-row__status")),
			locator.WithText(locator.CSS("span.sc-status-action-row__status")),
			locator.WithText(locator.Class("sc-status-action-row__status")),
			locator.WithText(locator.CSS(".sc-status-action-row-status")),
			locator.WithText(locator.CSS(`span[class*="status"]`)),
			locator.Custom("status keyword span", func(root *goquery.Selection) *goquery.Selection {
				return root.Find("span").FilterFunction(func(_ int, s *goquery.Selection) bool {
					return visibleStatusExpr.MatchString(s.Text())
				})
			}),
		},
		filterStates:   filterStates,
		temporalStates: temporalStates,
		logger:         logger,
	}
}

// Resolve returns the lower-cased status or "".
func (r *StatusResolver) Resolve(container *goquery.Selection) string {
	if m := r.loc.First(container, r.visible...); m.Ok() {
		if text := textutil.Fold(m.Text()); text != "" {
			r.debug("status from markup", "strategy", m.Strategy(), "status", text)
			return text
		}
	}

	if status := r.fromScripts(container); status != "" {
		r.debug("status from script payload", "status", status)
		return status
	}

	text := textutil.Fold(locator.JoinedText(container))
	for _, pattern := range temporalPatterns {
		if found := pattern.FindString(text); found != "" {
			r.debug("temporal status from text", "status", found)
			return found
		}
	}

	for _, state := range r.filterStates {
		if folded := textutil.Fold(state); folded != "" && strings.Contains(text, folded) {
			r.debug("status from text", "status", folded)
			return folded
		}
	}

	markup := rawMarkup(container)
	for _, pattern := range markupStatusPatterns {
		if m := pattern.FindStringSubmatch(markup); m != nil {
			status := textutil.Fold(m[1])
			r.debug("status from raw markup", "status", status)
			return status
		}
	}

	return ""
}

func (r *StatusResolver) fromScripts(container *goquery.Selection) string {
	var found string
	container.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		m := scriptStatusExpr.FindStringSubmatch(s.Text())
		if m == nil {
			return true
		}
		status := textutil.Fold(m[1])
		if r.relevant(status) {
			found = status
			return false
		}
		return true
	})
	return found
}

// relevant accepts only payload statuses that mention a known keyword.
func (r *StatusResolver) relevant(status string) bool {
	if status == "" {
		return false
	}
	for _, list := range [][]string{r.filterStates, r.temporalStates, scriptStatusFamilies} {
		for _, keyword := range list {
			if k := textutil.Fold(keyword); k != "" && strings.Contains(status, k) {
				return true
			}
		}
	}
	return false
}

// StatusElements lists every status-looking node, for the container trace.
func StatusElements(container *goquery.Selection) []domain.StatusElement {
	var out []domain.StatusElement
	container.Find("*").Each(func(_ int, s *goquery.Selection) {
		cls, ok := s.Attr("class")
		if !ok || !strings.Contains(cls, "status") {
			return
		}
		out = append(out, domain.StatusElement{
			Tag:     goquery.NodeName(s),
			Classes: strings.Fields(cls),
			Text:    strings.TrimSpace(s.Text()),
		})
	})
	return out
}

func (r *StatusResolver) debug(msg string, args ...interface{}) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}
