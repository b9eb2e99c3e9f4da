package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func document(t *testing.T, markup string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	return doc
}

func TestContainersCascade(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		markup   string
		count    int
		strategy string
	}{
		{
			name:     "order cards",
			markup:   orderCard + orderCard,
			count:    2,
			strategy: "css:.row-card-container",
		},
		{
			name:     "order cards with modifier class",
			markup:   `<section><div class="row-card-container--compact">a</div></section>`,
			count:    1,
			strategy: "class~row-card-container",
		},
		{
			name:     "section rows",
			markup:   `<section><div class="sc-row">a</div><div class="sc-row">b</div></section>`,
			count:    2,
			strategy: "css:.sc-row",
		},
		{
			name: "status and product blocks",
			markup: `<section>
			  <div class="order"><span class="sc-status-action-row__status">Entregado</span><div class="sc-product-row">A</div></div>
			  <div class="order"><span class="sc-status-action-row__status">Demorado</span><div class="sc-product-row">B</div></div>
			</section>`,
			count:    2,
			strategy: "custom:status and product",
		},
		{
			name:     "bare product rows",
			markup:   `<section><div class="sc-product-row">A</div><div class="sc-product-row">B</div></section>`,
			count:    2,
			strategy: "css:.sc-product-row",
		},
		{
			name:     "product rows by test id",
			markup:   `<section><div data-testid="product-row-1">A</div></section>`,
			count:    1,
			strategy: "attr:data-testid~product-row",
		},
		{
			name:     "priced pictures",
			markup:   `<section><div><img src="a.jpg"><span>$ 100</span></div><div><span>$ 5</span></div></section>`,
			count:    1,
			strategy: "custom:priced picture",
		},
	}

	c := NewContainerLocator(nil, nil)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, strategy := c.Containers(document(t, tc.markup))
			if len(got) != tc.count {
				t.Fatalf("expected %d containers, got %d", tc.count, len(got))
			}
			if strategy != tc.strategy {
				t.Fatalf("expected strategy %q, got %q", tc.strategy, strategy)
			}
		})
	}
}

func TestContainersNestedAncestorsAreKept(t *testing.T) {
	t.Parallel()

	markup := `<div class="list">
	  <div class="order"><span class="sc-status-action-row__status">Entregado</span><div class="sc-product-row">A</div></div>
	</div>`

	got, _ := NewContainerLocator(nil, nil).Containers(document(t, markup))
	if len(got) != 2 {
		t.Fatalf("expected wrapper and order, got %d", len(got))
	}
}

func TestContainersEmptyPage(t *testing.T) {
	t.Parallel()

	got, strategy := NewContainerLocator(nil, nil).Containers(document(t, `<p>nada por aquí</p>`))
	if len(got) != 0 || strategy != "" {
		t.Fatalf("expected no containers, got %d via %q", len(got), strategy)
	}

	if got, _ := NewContainerLocator(nil, nil).Containers(nil); got != nil {
		t.Fatalf("expected nil for nil document")
	}
}

func TestDiagnose(t *testing.T) {
	t.Parallel()

	markup := `
<div class="x">
  <span class="sc-status-action-row__status">Entregado</span>
  <div class="sc-product-row">$ 100 <img src="https://http2.mlstatic.com/x.jpg"></div>
</div>
<a href="https://articulo.mercadolibre.com.uy/MLU-1">ver</a>
<p>10 jul</p>
<script>var s = {"status":"cancelado"}; var p = {"status":"paid"}; var q = {"status":"A acordar"};</script>`

	d := Diagnose(document(t, markup))

	checks := map[string][2]int{
		"status markers":  {d.StatusMarkers, 1},
		"product markers": {d.ProductMarkers, 1},
		"both markers":    {d.BothMarkers, 1},
		"mlstatic images": {d.MlstaticImages, 1},
		"article links":   {d.ArticleLinks, 1},
		"price texts":     {d.PriceTexts, 1},
		"date texts":      {d.DateTexts, 1},
		"scripts":         {d.Scripts, 1},
		"json statuses":   {d.JSONStatuses, 2},
		"row cards":       {d.RowCards, 0},
	}
	for name, pair := range checks {
		if pair[0] != pair[1] {
			t.Fatalf("%s: expected %d, got %d", name, pair[1], pair[0])
		}
	}
	if len(d.SampleStatuses) != 1 || d.SampleStatuses[0] != "Entregado" {
		t.Fatalf("unexpected sample statuses %v", d.SampleStatuses)
	}
}
