package extract

import (
	"testing"
)

func TestResolveStatus(t *testing.T) {
	t.Parallel()

	filterStates := []string{"reprogramado", "cancelado"}
	temporalStates := []string{"acuerdas la entrega", "a acordar con el comprador"}
	r := NewStatusResolver(nil, filterStates, temporalStates, nil)

	cases := []struct {
		name   string
		markup string
		want   string
	}{
		{
			name:   "visible status element",
			markup: orderCard,
			want:   "acuerdas la entrega",
		},
		{
			name:   "status-like span",
			markup: `<div><span class="andes-status-text">  Entregado </span></div>`,
			want:   "entregado",
		},
		{
			name:   "keyword span",
			markup: `<div><span>Envío Demorado</span></div>`,
			want:   "envío demorado",
		},
		{
			name:   "empty status element is skipped",
			markup: `<div><span class="sc-status-action-row__status"></span><span>Envío reprogramado</span></div>`,
			want:   "envío reprogramado",
		},
		{
			name:   "relevant script payload",
			markup: `<div><p>Venta</p><script>window.__s = {"status": "Venta cancelada"};</script></div>`,
			want:   "venta cancelada",
		},
		{
			name:   "irrelevant payload falls through to text",
			markup: `<div><p>Tenés que contactate con tu comprador</p><script>x = {"status":"paid"}</script></div>`,
			want:   "contactate con tu comprador",
		},
		{
			name:   "filter state in text",
			markup: `<div><p>Envío reprogramado por el comprador</p></div>`,
			want:   "reprogramado",
		},
		{
			name:   "raw markup payload",
			markup: `<div data-state='{"status":"Demorado hoy"}'><p>Venta 12</p></div>`,
			want:   "demorado hoy",
		},
		{
			name:   "nothing found",
			markup: `<div><p>Venta 12</p></div>`,
			want:   "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Resolve(container(t, tc.markup)); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestStatusElements(t *testing.T) {
	t.Parallel()

	// the action row and the date block also carry "status" in their class
	elements := StatusElements(container(t, orderCard))
	if len(elements) != 3 {
		t.Fatalf("expected 3 status elements, got %d", len(elements))
	}
	el := elements[1]
	if el.Tag != "span" || el.Text != "Acuerdas la entrega" {
		t.Fatalf("unexpected element %+v", el)
	}
	if len(el.Classes) != 1 || el.Classes[0] != "sc-status-action-row__status" {
		t.Fatalf("unexpected classes %v", el.Classes)
	}
	if elements[2].Text != "14 ago 2025 18:45 hs" {
		t.Fatalf("unexpected date element %+v", elements[2])
	}
}
