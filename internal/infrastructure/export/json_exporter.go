package export

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"SalesScanner/internal/domain"
	"SalesScanner/internal/ports"
)

// JSONName is the registry name of the structured export.
const JSONName = "json"

const (
	marketplace     = "Mercado Libre Uruguay"
	schemaURL       = "https://salesscanner.local/export/productos.schema.json"
	organizedSuffix = "_productos_organizados"
	plainSuffix     = "_productos"
)

//go:embed productos.schema.json
var documentSchemaSource string

var documentSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(schemaURL, strings.NewReader(documentSchemaSource)); err != nil {
		return nil, fmt.Errorf("load export schema: %w", err)
	}
	schema, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile export schema: %w", err)
	}
	return schema, nil
})

// JSONExporter writes the four record lists with their run metadata.
type JSONExporter struct {
	logger *slog.Logger
}

var _ ports.Exporter = (*JSONExporter)(nil)

// NewJSONExporter returns the exporter; logger may be nil.
func NewJSONExporter(logger *slog.Logger) *JSONExporter {
	return &JSONExporter{logger: logger}
}

// Name identifies the exporter inside the registry.
func (e *JSONExporter) Name() string {
	return JSONName
}

type document struct {
	Metadata metadata         `json:"metadata"`
	Urgent   []record         `json:"productos_urgentes"`
	Normal   []record         `json:"productos_normales"`
	Review   []record         `json:"productos_a_revisar"`
	Filtered []filteredRecord `json:"productos_filtrados"`
}

// record adds the temporal flags every exported product carries.
type record struct {
	domain.OrderRecord
	IsUrgent   bool `json:"is_urgent"`
	IsToReview bool `json:"is_to_review"`
}

type filteredRecord struct {
	domain.FilteredRecord
	IsUrgent   bool `json:"is_urgent"`
	IsToReview bool `json:"is_to_review"`
}

func records(in []domain.OrderRecord) []record {
	out := make([]record, 0, len(in))
	for _, rec := range in {
		out = append(out, record{OrderRecord: rec, IsUrgent: rec.IsUrgent(), IsToReview: rec.IsToReview()})
	}
	return out
}

func filteredRecords(in []domain.FilteredRecord) []filteredRecord {
	out := make([]filteredRecord, 0, len(in))
	for _, rec := range in {
		out = append(out, filteredRecord{FilteredRecord: rec, IsUrgent: rec.IsUrgent(), IsToReview: rec.IsToReview()})
	}
	return out
}

type metadata struct {
	RunID          string          `json:"run_id"`
	Timestamp      string          `json:"timestamp"`
	Threshold      string          `json:"temporal_threshold"`
	UrgentCount    int             `json:"total_productos_urgentes"`
	NormalCount    int             `json:"total_productos_normales"`
	ReviewCount    int             `json:"total_productos_a_revisar"`
	FilteredCount  int             `json:"productos_filtrados"`
	FilterStates   []string        `json:"filtros_aplicados"`
	TemporalStates []string        `json:"estados_temporales"`
	FilterReasons  map[string]int  `json:"razon_filtrado"`
	Marketplace    string          `json:"fuente"`
	Input          string          `json:"archivo"`
	Stats          domain.RunStats `json:"estadisticas"`
}

// Export validates the document against the embedded schema and writes it.
func (e *JSONExporter) Export(ctx context.Context, result domain.Result, outDir string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	payload, err := Encode(result)
	if err != nil {
		return "", err
	}
	if err := Validate(payload); err != nil {
		return "", err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	suffix := organizedSuffix
	if result.FilteringDisabled {
		suffix = plainSuffix
	}
	path := filepath.Join(outDir, baseName(result.Source)+suffix+".json")
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	if e.logger != nil {
		e.logger.Info("json saved", "path", path, "bytes", len(payload))
	}
	return path, nil
}

// Encode renders the export document as indented JSON.
func Encode(result domain.Result) ([]byte, error) {
	doc := document{
		Metadata: metadata{
			RunID:          result.RunID,
			Timestamp:      result.GeneratedAt.Format(time.RFC3339),
			Threshold:      result.Threshold.Format(time.RFC3339),
			UrgentCount:    len(result.Urgent),
			NormalCount:    len(result.Normal),
			ReviewCount:    len(result.Review),
			FilteredCount:  result.Stats.FilteredOut,
			FilterStates:   orEmpty(result.FilterStates),
			TemporalStates: orEmpty(result.TemporalStates),
			FilterReasons:  result.Stats.FilterReasons,
			Marketplace:    marketplace,
			Input:          filepath.Base(result.Source),
			Stats:          result.Stats,
		},
		Urgent:   records(result.Urgent),
		Normal:   records(result.Normal),
		Review:   records(result.Review),
		Filtered: filteredRecords(result.Filtered),
	}
	if doc.Metadata.FilterReasons == nil {
		doc.Metadata.FilterReasons = map[string]int{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	return buf.Bytes(), nil
}

// Validate checks an encoded export against the embedded schema.
func Validate(payload []byte) error {
	schema, err := documentSchema()
	if err != nil {
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("decode export: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("export schema validation failed: %w", err)
	}
	return nil
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
