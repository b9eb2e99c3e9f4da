package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"SalesScanner/internal/domain"
	"SalesScanner/internal/ports"
)

// ErrNoRecords means the page was classified but nothing was accepted.
var ErrNoRecords = errors.New("no valid records after classification")

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Loader     ports.DocumentLoader
	Classifier *Classifier
	// Reports run before the empty-result check so a failed run can still
	// be inspected.
	Reports   []ports.Exporter
	Exporters []ports.Exporter
	Notifier  ports.Notifier
	OutDir    string
	Logger    *slog.Logger
}

// Pipeline implements the load, classify, export and notify workflow.
type Pipeline struct {
	loader     ports.DocumentLoader
	classifier *Classifier
	reports    []ports.Exporter
	exporters  []ports.Exporter
	notifier   ports.Notifier
	outDir     string
	logger     *slog.Logger
}

// Outcome is what a processed page produced.
type Outcome struct {
	Result domain.Result
	Files  []string
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Pipeline{
		loader:     deps.Loader,
		classifier: deps.Classifier,
		reports:    deps.Reports,
		exporters:  deps.Exporters,
		notifier:   deps.Notifier,
		outDir:     deps.OutDir,
		logger:     logger,
	}
}

// Process runs one saved page through the whole workflow. On ErrNoRecords the
// outcome still carries the result and the report files.
func (p *Pipeline) Process(ctx context.Context, path string) (Outcome, error) {
	var out Outcome
	if p.loader == nil || p.classifier == nil {
		return out, errors.New("pipeline is not configured")
	}
	if IsViewSource(path) {
		return out, fmt.Errorf("process %s: %w", path, ErrViewSource)
	}

	doc, err := p.loader.Load(ctx, path)
	if err != nil {
		return out, fmt.Errorf("load document: %w", err)
	}
	p.logger.Info("document loaded", "path", doc.Path, "encoding", doc.Encoding)

	result, err := p.classifier.Classify(doc)
	if err != nil {
		return out, fmt.Errorf("classify: %w", err)
	}
	out.Result = result

	if err := p.export(ctx, p.reports, &out); err != nil {
		return out, err
	}

	if result.Accepted() == 0 {
		p.logger.Error("no valid records", "filtered_out", result.Stats.FilteredOut, "total_found", result.Stats.TotalFound)
		return out, ErrNoRecords
	}

	if err := p.export(ctx, p.exporters, &out); err != nil {
		return out, err
	}

	if p.notifier == nil {
		return out, nil
	}
	digest := BuildDigest(result)
	if digest == "" {
		return out, nil
	}
	if err := p.notifier.PublishDigest(ctx, digest); err != nil {
		return out, fmt.Errorf("publish digest: %w", err)
	}
	return out, nil
}

func (p *Pipeline) export(ctx context.Context, exporters []ports.Exporter, out *Outcome) error {
	for _, exporter := range exporters {
		if err := ctx.Err(); err != nil {
			return err
		}
		file, err := exporter.Export(ctx, out.Result, p.outDir)
		if err != nil {
			return fmt.Errorf("export %s: %w", exporter.Name(), err)
		}
		p.logger.Info("output written", "exporter", exporter.Name(), "path", file)
		out.Files = append(out.Files, file)
	}
	return nil
}

// BuildDigest renders the urgent and review lists for a chat message. It is
// empty when neither list has records.
func BuildDigest(result domain.Result) string {
	if len(result.Urgent) == 0 && len(result.Review) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Ventas %s\n", result.GeneratedAt.Format("02/01/2006 15:04"))
	fmt.Fprintf(&b, "Umbral: %s\n", result.Threshold.Format("02/01/2006 15:04"))
	writeSection(&b, "URGENTES", result.Urgent)
	writeSection(&b, "A REVISAR", result.Review)
	fmt.Fprintf(&b, "\nNormales: %d | Filtrados: %d\n", len(result.Normal), len(result.Filtered))
	return b.String()
}

func writeSection(b *strings.Builder, title string, records []domain.OrderRecord) {
	if len(records) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s (%d)\n", title, len(records))
	for _, rec := range records {
		fmt.Fprintf(b, "- %s x%s %s", rec.Name, rec.Quantity, rec.Price)
		if rec.SKU != "" {
			fmt.Fprintf(b, " [%s]", rec.SKU)
		}
		if rec.OrderDate != nil {
			fmt.Fprintf(b, " (%s)", rec.OrderDate.Format("02/01 15:04"))
		}
		b.WriteString("\n")
	}
}
