package export

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"SalesScanner/internal/domain"
	"SalesScanner/internal/ports"
	"SalesScanner/internal/threshold"
)

// ReportName is the registry name of the per-container text report.
const ReportName = "report"

const (
	reportSuffix = "_debug_report_temporal.txt"
	stampLayout  = "02/01/2006 15:04"
)

var spanishWeekdays = [...]string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"}

// ReportExporter writes a human-readable audit of every container.
type ReportExporter struct {
	logger *slog.Logger
}

var _ ports.Exporter = (*ReportExporter)(nil)

// NewReportExporter returns the exporter; logger may be nil.
func NewReportExporter(logger *slog.Logger) *ReportExporter {
	return &ReportExporter{logger: logger}
}

// Name identifies the exporter inside the registry.
func (e *ReportExporter) Name() string {
	return ReportName
}

// Export renders the report next to the other outputs.
func (e *ReportExporter) Export(ctx context.Context, result domain.Result, outDir string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(outDir, baseName(result.Source)+reportSuffix)
	if err := os.WriteFile(path, []byte(Render(result)), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if e.logger != nil {
		e.logger.Info("report saved", "path", path, "containers", len(result.Traces))
	}
	return path, nil
}

// Render builds the report text.
func Render(result domain.Result) string {
	var b strings.Builder
	line := func(format string, args ...interface{}) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}
	rule := func(ch string, n int) { line("%s", strings.Repeat(ch, n)) }

	rule("=", 80)
	line("REPORTE DETALLADO DE EXTRACCIÓN - MERCADO LIBRE CON LÓGICA TEMPORAL")
	rule("=", 80)
	line("Ejecución: %s", result.RunID)
	line("Archivo: %s", result.Source)
	line("Fecha: %s", result.GeneratedAt.Format("02/01/2006 15:04:05"))
	line("Umbral temporal usado: %s", result.Threshold.Format(stampLayout))
	line("Total contenedores procesados: %d", len(result.Traces))
	line("Productos urgentes: %d", result.Stats.UrgentCount)
	line("Productos normales: %d", result.Stats.NormalCount)
	line("Productos a revisar: %d", result.Stats.ToReviewCount)
	line("Productos filtrados: %d", result.Stats.FilteredOut)
	line("")
	line("LÓGICA TEMPORAL CON FINES DE SEMANA:")
	rule("-", 40)
	line("- Día actual: %s", weekdayStamp(result.GeneratedAt))
	line("- Umbral calculado: %s", weekdayStamp(result.Threshold))
	line("- Modo: %s", threshold.Describe(result.GeneratedAt, result.Threshold))
	line("- REGLAS:")
	line("  * LUNES: urgentes = pedidos 'a acordar' después del VIERNES 16:00")
	line("  * SÁBADO Y DOMINGO: urgentes = pedidos 'a acordar' después del VIERNES 16:00")
	line("  * MARTES-VIERNES: urgentes = pedidos 'a acordar' después de AYER 16:00")
	line("  * Pedidos 'a acordar' en o antes del umbral: A REVISAR")
	line("")
	line("FILTROS ACTIVOS:")
	rule("-", 20)
	if result.FilteringDisabled {
		line("(deshabilitados)")
	}
	for _, state := range result.FilterStates {
		line("- %s", state)
	}
	line("")
	line("DETALLE POR CONTENEDOR:")
	rule("=", 50)

	for _, trace := range result.Traces {
		writeTrace(line, rule, result, trace)
	}

	line("")
	line("RESUMEN ESTADÍSTICO:")
	rule("=", 30)
	line("Total contenedores procesados: %d", len(result.Traces))
	line("Productos urgentes: %d", countAction(result.Traces, domain.DispositionAcceptedUrgent))
	line("Productos normales: %d", countAction(result.Traces, domain.DispositionAcceptedNormal))
	line("Productos a revisar: %d", countAction(result.Traces, domain.DispositionAcceptedReview))
	line("Productos filtrados: %d", countAction(result.Traces, domain.DispositionFiltered))
	line("Productos rechazados: %d", countAction(result.Traces, domain.DispositionRejected))
	line("Contenedores con error: %d", result.Stats.FailedCount)
	if len(result.Stats.FilterReasons) > 0 {
		line("")
		line("RAZONES DE FILTRADO:")
		for _, reason := range sortedKeys(result.Stats.FilterReasons) {
			line("- %s: %d", reason, result.Stats.FilterReasons[reason])
		}
	}
	line("")
	line("COMPLETITUD DE CAMPOS:")
	for _, key := range domain.FieldKeys {
		line("- %s: %d", key, result.Stats.FieldsCompleteness[key])
	}

	return b.String()
}

func writeTrace(line func(string, ...interface{}), rule func(string, int), result domain.Result, trace domain.ContainerTrace) {
	line("")
	line("CONTENEDOR #%d", trace.Index)
	rule("-", 30)
	classes := "Sin clases"
	if len(trace.Classes) > 0 {
		classes = strings.Join(trace.Classes, ", ")
	}
	line("Clases del contenedor: %s", classes)

	if trace.Err != "" {
		line("ERROR: %s", trace.Err)
		rule("=", 50)
		return
	}

	rec := trace.Record
	line("")
	line("EXTRACCIÓN DE DATOS:")
	for _, f := range []struct{ name, value string }{
		{domain.FieldName, rec.Name},
		{domain.FieldLink, rec.Link},
		{domain.FieldImage, rec.Image},
		{domain.FieldPrice, rec.Price},
		{domain.FieldQuantity, rec.Quantity},
		{domain.FieldSKU, rec.SKU},
	} {
		line("  %s: '%s'", strings.ToUpper(f.name), f.value)
	}

	line("")
	line("DETECCIÓN DE ESTADO:")
	line("  Estado en bruto encontrado: '%s'", rec.RawStatus)
	line("  ID de pedido encontrado: '%s'", orDefault(rec.OrderID, "No encontrado"))
	orderDate := "No encontrada"
	if rec.OrderDate != nil {
		orderDate = rec.OrderDate.Format(stampLayout)
	}
	line("  Fecha de pedido encontrada: '%s'", orderDate)
	line("  Elementos de estado encontrados: %d", len(trace.StatusElements))
	for i, el := range trace.StatusElements {
		line("    Elemento %d: <%s> clases=%v texto='%s'", i+1, el.Tag, el.Classes, el.Text)
	}

	line("")
	line("ANÁLISIS TEMPORAL:")
	line("  Umbral temporal: %s", result.Threshold.Format(stampLayout))
	line("  Fecha del pedido: %s", orderDate)
	line("  ¿Es estado temporal?: %s", yesNo(trace.Decision.TemporalClass != domain.TemporalNone))
	line("  Clasificación temporal: %s", trace.Decision.TemporalClass)
	line("")
	line("  ¿Debe filtrarse?: %s", yesNo(trace.Decision.Disposition == domain.DispositionFiltered))
	line("  Texto del contenedor (primeros 200 caracteres):")
	line("    '%s'", trace.Text)

	line("")
	line("RESULTADO FINAL:")
	line("  Acción: %s", trace.Decision.Disposition)
	line("  Razón: %s", trace.Decision.Reason)
	line("  Incluido en salida: %s", yesNo(trace.Decision.Disposition.Accepted()))
	line("  Sección: %s", section(trace.Decision.Disposition))
	rule("=", 50)
}

func weekdayStamp(t time.Time) string {
	return spanishWeekdays[t.Weekday()] + " " + t.Format(stampLayout)
}

func countAction(traces []domain.ContainerTrace, d domain.Disposition) int {
	var n int
	for _, trace := range traces {
		if trace.Err == "" && trace.Decision.Disposition == d {
			n++
		}
	}
	return n
}

func section(d domain.Disposition) string {
	switch d {
	case domain.DispositionAcceptedUrgent:
		return "urgentes"
	case domain.DispositionAcceptedNormal:
		return "normales"
	case domain.DispositionAcceptedReview:
		return "a revisar"
	case domain.DispositionFiltered:
		return "filtrados"
	default:
		return "N/A"
	}
}

func yesNo(v bool) string {
	if v {
		return "sí"
	}
	return "no"
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func sortedKeys(m map[string]int) []string {
	return slices.Sorted(maps.Keys(m))
}
