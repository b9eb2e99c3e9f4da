package extract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"SalesScanner/internal/dates"
)

const orderCard = `
<div class="row-card-container">
  <div class="left-column__pack-id">#2000009876543210</div>
  <div class="sc-status-action-row">
    <span class="sc-status-action-row__status">Acuerdas la entrega</span>
  </div>
  <div class="pack-status-info__date">14 ago 2025 18:45 hs</div>
  <div class="sc-product-row">
    <div class="sc-product-picture__single-item">
      <img src="https://http2.mlstatic.com/D_NQ_NP_123.webp" data-src="//http2.mlstatic.com/D_NQ_NP_123-I.jpg">
    </div>
    <div class="description-container">
      <a class="redirect-row" href="/MLU-123456">
        <div class="label">Lámpara LED de escritorio</div>
      </a>
      <span class="sku">SKU: LMP-01</span>
    </div>
    <div class="price-container"><span class="price">$ 1.290</span></div>
    <span class="unit">2 unidades</span>
  </div>
</div>`

func container(t *testing.T, markup string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	return doc.Find("body").Children().First()
}

func TestFields(t *testing.T) {
	t.Parallel()

	rec := NewExtractor(nil, "", nil).Fields(container(t, orderCard))

	want := map[string][2]string{
		"name":     {rec.Name, "Lámpara LED de escritorio"},
		"link":     {rec.Link, "https://articulo.mercadolibre.com.uy/MLU-123456"},
		"image":    {rec.Image, "https://http2.mlstatic.com/D_NQ_NP_123-I.jpg"},
		"price":    {rec.Price, "$ 1.290"},
		"quantity": {rec.Quantity, "2"},
		"sku":      {rec.SKU, "LMP-01"},
	}
	for field, pair := range want {
		if pair[0] != pair[1] {
			t.Fatalf("%s: expected %q, got %q", field, pair[1], pair[0])
		}
	}
}

func TestFieldFallbacks(t *testing.T) {
	t.Parallel()

	markup := `
<div class="card">
  <div class="description-container"><span>Mate</span><span>Mate de calabaza forrado</span></div>
  <p>Total $ 450</p>
  <p>Cantidad: 3 unidades</p>
  <p>Código SKU: MT-9</p>
  <div class="thumb" style="background-image: url('//http2.mlstatic.com/mate.jpg')"></div>
</div>`

	e := NewExtractor(nil, "", nil)
	c := container(t, markup)

	if got := e.Name(c); got != "Mate de calabaza forrado" {
		t.Fatalf("name fallback: %q", got)
	}
	if got := e.Price(c); got != "Total $ 450" {
		t.Fatalf("price fallback: %q", got)
	}
	if got := e.Quantity(c); got != "3" {
		t.Fatalf("quantity fallback: %q", got)
	}
	if got := e.SKU(c); got != "MT-9" {
		t.Fatalf("sku fallback: %q", got)
	}
	if got := e.Image(c); got != "https://http2.mlstatic.com/mate.jpg" {
		t.Fatalf("background image: %q", got)
	}
	if got := e.Link(c); got != "" {
		t.Fatalf("expected no link, got %q", got)
	}
}

func TestMissingFieldsAreEmpty(t *testing.T) {
	t.Parallel()

	e := NewExtractor(nil, "", nil)
	c := container(t, `<div><span>sin datos</span><span class="price">gratis</span></div>`)

	rec := e.Fields(c)
	if rec.Name != "" || rec.Price != "" || rec.Image != "" || rec.SKU != "" {
		t.Fatalf("expected empty fields, got %+v", rec)
	}
	if rec.Quantity != "1" {
		t.Fatalf("quantity defaults to 1, got %q", rec.Quantity)
	}
}

func TestResolveLocalImage(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	assets := filepath.Join(dir, "ventas_files")
	if err := os.MkdirAll(assets, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(assets, "foto.jpg"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	e := NewExtractor(nil, dir, nil)
	c := container(t, `<div><img src="./ventas_files/foto.jpg"></div>`)
	if got := e.Image(c); got != filepath.Join(assets, "foto.jpg") {
		t.Fatalf("expected local path, got %q", got)
	}

	missing := container(t, `<div><img src="./ventas_files/otra.jpg"></div>`)
	if got := e.Image(missing); got != "./ventas_files/otra.jpg" {
		t.Fatalf("expected raw src for missing file, got %q", got)
	}
}

func TestOrderIDAndDate(t *testing.T) {
	t.Parallel()

	loc := time.UTC
	parser := dates.NewParser(func() time.Time { return time.Date(2025, time.November, 12, 10, 0, 0, 0, loc) }, loc)
	e := NewExtractor(nil, "", nil)
	c := container(t, orderCard)

	if got := e.OrderID(c); got != "2000009876543210" {
		t.Fatalf("order id: %q", got)
	}

	got := e.OrderDate(c, parser)
	if got == nil {
		t.Fatalf("expected a date")
	}
	if want := time.Date(2025, time.August, 14, 18, 45, 0, 0, loc); !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestOrderIDFromPayload(t *testing.T) {
	t.Parallel()

	e := NewExtractor(nil, "", nil)
	c := container(t, `<div data-info='{"pack_id": 2000012345678901}'><span>Venta</span></div>`)
	if got := e.OrderID(c); got != "2000012345678901" {
		t.Fatalf("pack id: %q", got)
	}

	none := container(t, `<div><span>Venta sin número</span></div>`)
	if got := e.OrderID(none); got != "" {
		t.Fatalf("expected no id, got %q", got)
	}
}

func TestOrderDateFallbacks(t *testing.T) {
	t.Parallel()

	loc := time.UTC
	parser := dates.NewParser(func() time.Time { return time.Date(2025, time.March, 2, 9, 0, 0, 0, loc) }, loc)
	e := NewExtractor(nil, "", nil)

	c := container(t, `<div><p>Vendido el 3 dic 2024</p></div>`)
	got := e.OrderDate(c, parser)
	if got == nil || !got.Equal(time.Date(2024, time.December, 3, 0, 0, 0, 0, loc)) {
		t.Fatalf("unexpected date %v", got)
	}

	if got := e.OrderDate(container(t, `<div><p>sin fecha</p></div>`), parser); got != nil {
		t.Fatalf("expected nil date, got %v", got)
	}
	if got := e.OrderDate(c, nil); got != nil {
		t.Fatalf("expected nil without parser")
	}
}
