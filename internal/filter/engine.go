package filter

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"SalesScanner/internal/domain"
	"SalesScanner/internal/textutil"
)

const rejectReason = "missing name or price"

type family struct {
	terms  []string
	reason string
}

// families fire independently of the configured state list.
var families = []family{
	{terms: []string{"cancelad"}, reason: "estado actual: cancelada (ML)"},
	{terms: []string{"cancelaste"}, reason: "estado actual: cancelaste la venta (ML)"},
	{terms: []string{"comprador cancel"}, reason: "estado actual: cancelada por comprador (ML)"},
	{terms: []string{"devuelt"}, reason: "estado actual: devuelto (ML)"},
	{terms: []string{"reembolsad"}, reason: "estado actual: reembolsado (ML)"},
	{terms: []string{"reclam"}, reason: "estado actual: reclamo (ML)"},
	{terms: []string{"mediaci"}, reason: "estado actual: mediación (ML)"},
	{terms: []string{
		"entregado al conductor",
		"entregado",
		"fue entregado",
		"ya fue entregado",
		"producto entregado",
		"pedido entregado",
		"envío entregado",
		"entrega completada",
		"entrega finalizada",
	}, reason: "estado actual: entregado (ML)"},
}

// Engine applies filter rules, known-bad lookups and the temporal split.
type Engine struct {
	states    []string
	temporal  []string
	knownBad  KnownBad
	threshold time.Time
	logger    *slog.Logger
}

// NewEngine binds the engine to one run's configuration and threshold.
func NewEngine(states []string, knownBad KnownBad, threshold time.Time, logger *slog.Logger) *Engine {
	return &Engine{
		states:    states,
		temporal:  TemporalStates,
		knownBad:  knownBad,
		threshold: threshold,
		logger:    logger,
	}
}

// Decide finalises one record. Filter rules win over the temporal split, and
// an incomplete record is rejected whatever its status.
func (e *Engine) Decide(rec domain.OrderRecord) domain.Decision {
	class := e.Classify(rec.RawStatus, rec.OrderDate)
	if reason, ok := e.filterReason(rec); ok {
		return domain.Decision{Disposition: domain.DispositionFiltered, Reason: reason, TemporalClass: class}
	}
	if !rec.Complete() {
		return domain.Decision{Disposition: domain.DispositionRejected, Reason: rejectReason, TemporalClass: class}
	}

	switch class {
	case domain.TemporalUrgent:
		return domain.Decision{
			Disposition:   domain.DispositionAcceptedUrgent,
			Reason:        "has name and price, temporal state after threshold",
			TemporalClass: class,
		}
	case domain.TemporalReview:
		return domain.Decision{
			Disposition:   domain.DispositionAcceptedReview,
			Reason:        "has name and price, temporal state at or before threshold",
			TemporalClass: class,
		}
	default:
		return domain.Decision{
			Disposition:   domain.DispositionAcceptedNormal,
			Reason:        "has name and price, normal state",
			TemporalClass: domain.TemporalNone,
		}
	}
}

// IsTemporal reports whether the status asks to agree the delivery with the buyer.
func (e *Engine) IsTemporal(status string) bool {
	folded := textutil.Fold(status)
	if folded == "" {
		return false
	}
	for _, phrase := range e.temporal {
		if p := textutil.Fold(phrase); p != "" && strings.Contains(folded, p) {
			return true
		}
	}
	return false
}

// Classify splits temporal statuses around the threshold. A temporal order
// without a date is urgent so it is never hidden.
func (e *Engine) Classify(status string, orderDate *time.Time) domain.TemporalClass {
	if !e.IsTemporal(status) {
		return domain.TemporalNone
	}
	if orderDate == nil {
		e.warn("temporal order without date, assuming urgent", "status", status)
		return domain.TemporalUrgent
	}
	if orderDate.After(e.threshold) {
		return domain.TemporalUrgent
	}
	return domain.TemporalReview
}

func (e *Engine) filterReason(rec domain.OrderRecord) (string, bool) {
	if status := textutil.Fold(rec.RawStatus); status != "" {
		for _, state := range e.states {
			if folded := textutil.Fold(state); folded != "" && strings.Contains(status, folded) {
				return "estado actual: " + state, true
			}
		}
		for _, f := range families {
			for _, term := range f.terms {
				if strings.Contains(status, term) {
					return f.reason, true
				}
			}
		}
	}

	sku := strings.TrimSpace(rec.SKU)
	name := strings.TrimSpace(rec.Name)

	if sku != "" && slices.Contains(e.knownBad.Reprogrammed, sku) {
		return fmt.Sprintf("producto conocido reprogramado (SKU: %s)", sku), true
	}
	if name != "" && slices.Contains(e.knownBad.Reprogrammed, name) {
		return fmt.Sprintf("producto conocido reprogramado (nombre: %s)", textutil.Truncate(name, 30)), true
	}
	if sku != "" && slices.Contains(e.knownBad.Delayed, sku) {
		return fmt.Sprintf("producto conocido demorado (SKU: %s)", sku), true
	}
	if name != "" && slices.Contains(e.knownBad.Delayed, name) {
		return fmt.Sprintf("producto conocido demorado (nombre: %s)", textutil.Truncate(name, 30)), true
	}
	if id := strings.TrimSpace(rec.OrderID); id != "" && slices.Contains(e.knownBad.ProblemOrders, id) {
		return fmt.Sprintf("pedido conocido problemático (ID: %s)", id), true
	}

	return "", false
}

func (e *Engine) warn(msg string, args ...interface{}) {
	if e.logger != nil {
		e.logger.Warn(msg, args...)
	}
}
