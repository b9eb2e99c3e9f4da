// Package filter decides, for each extracted order, whether it is dropped,
// shipped normally, or routed to the urgent / to-review buckets.
package filter

// Categories toggles the user-selectable groups of filter states.
type Categories struct {
	Rescheduled bool `yaml:"rescheduled"`
	Cancelled   bool `yaml:"cancelled"`
	Returned    bool `yaml:"returned"`
	Delayed     bool `yaml:"delayed"`
	// InTransit keeps the "en camino"/"despachado" group in the always-on list.
	InTransit bool `yaml:"inTransit"`
}

// AllCategories enables every group.
func AllCategories() Categories {
	return Categories{Rescheduled: true, Cancelled: true, Returned: true, Delayed: true, InTransit: true}
}

var (
	rescheduledStates = []string{
		"reprogramado",
		"envío reprogramado",
		"reprogramado por el comprador",
		"envío reprogramado por el comprador",
	}
	cancelledStates = []string{"cancelado", "cancelada"}
	returnedStates  = []string{"devuelto", "reembolsado"}
	delayedStates   = []string{"está demorado", "demorado"}

	deliveredStates = []string{
		"comprador ausente",
		"entregado al conductor",
		"entregado",
		"fue entregado",
		"ya fue entregado",
		"producto entregado",
		"pedido entregado",
		"envío entregado",
		"entrega completada",
		"entrega finalizada",
	}
	cancellationStates = []string{
		"cancelado",
		"cancelada",
		"cancelación",
		"cancelacion",
		"cancelaste la venta",
		"cancelada por el comprador",
		"cancelado por el comprador",
		"venta cancelada",
		"venta cancelada por el comprador",
		"comprador canceló",
		"comprador cancelo",
		"comprador canceló la compra",
		"comprador cancelo la compra",
	}
	claimStates = []string{
		"reclamo abierto",
		"reclamo cerrado",
		"reclamo en proceso",
		"reclamo resuelto",
		"reclamo pendiente",
		"reclamo iniciado",
		"reclamo finalizado",
	}
	inTransitStates = []string{
		"en camino",
		"en tránsito",
		"en transito",
		"enviado",
		"despachado",
		"en ruta",
		"en distribución",
		"en distribucion",
	}
	mediationStates = []string{
		"mediación",
		"mediacion",
		"mediación abierta",
		"mediacion abierta",
		"mediación cerrada",
		"mediacion cerrada",
		"mediación en proceso",
		"mediacion en proceso",
		"mediación finalizada",
		"mediacion finalizada",
	}
	problemStates = []string{
		"problema con el envío",
		"problema con el envio",
		"envío con problemas",
		"envio con problemas",
		"pendiente de resolución",
		"pendiente de resolucion",
		"en revisión",
		"en revision",
		"solicitud de devolución",
		"solicitud de devolucion",
		"devolución solicitada",
		"devolucion solicitada",
	}
)

// TemporalStates are the "agree the delivery with the buyer" phrases. They are
// fixed and not user-configurable.
var TemporalStates = []string{
	"acuerdas la entrega",
	"acuerda la entrega",
	"acuerdo la entrega",
	"a acordar con el comprador",
	"contactate con tu comprador",
	"avisar entrega",
}

// States builds the filter-state substring list: the enabled categories
// followed by the always-on groups. Duplicates keep their first position.
func States(c Categories) []string {
	var groups [][]string
	if c.Rescheduled {
		groups = append(groups, rescheduledStates)
	}
	if c.Cancelled {
		groups = append(groups, cancelledStates)
	}
	if c.Returned {
		groups = append(groups, returnedStates)
	}
	if c.Delayed {
		groups = append(groups, delayedStates)
	}

	groups = append(groups, deliveredStates, cancellationStates, claimStates)
	if c.InTransit {
		groups = append(groups, inTransitStates)
	}
	groups = append(groups, mediationStates, problemStates)

	seen := map[string]struct{}{}
	var out []string
	for _, group := range groups {
		for _, state := range group {
			if _, ok := seen[state]; ok {
				continue
			}
			seen[state] = struct{}{}
			out = append(out, state)
		}
	}
	return out
}

// KnownBad holds the exact-match denylists built from earlier manual review.
type KnownBad struct {
	Reprogrammed  []string `yaml:"reprogrammed"`
	Delayed       []string `yaml:"delayed"`
	ProblemOrders []string `yaml:"problemOrders"`
}

// DefaultKnownBad returns the lists shipped with the tool.
func DefaultKnownBad() KnownBad {
	return KnownBad{
		Reprogrammed: []string{
			"STOCK A2-9",
			"Balanza Digital Joyería, Balanza Precisión, Báscula Joyería",
		},
		Delayed: []string{
			"SKU233",
			"Pulsera Con Imanes Unisex Terap. Adelgaza- Artritis Y Stress Plateado 0 Mm",
		},
		ProblemOrders: []string{
			"2000008407186271",
			"2000012378209506",
		},
	}
}
