// Package export writes classification results to disk.
package export

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"SalesScanner/internal/ports"
)

// Registry keeps a mapping from exporter names to their implementations.
type Registry struct {
	exporters map[string]ports.Exporter
}

// NewRegistry builds a registry holding the given exporters.
func NewRegistry(exporters ...ports.Exporter) *Registry {
	r := &Registry{exporters: map[string]ports.Exporter{}}
	for _, e := range exporters {
		r.Register(e)
	}
	return r
}

// Register adds or replaces an exporter implementation.
func (r *Registry) Register(exporter ports.Exporter) {
	if r.exporters == nil {
		r.exporters = map[string]ports.Exporter{}
	}
	r.exporters[exporter.Name()] = exporter
}

// Resolve returns an exporter by name or an error if it is absent.
func (r *Registry) Resolve(name string) (ports.Exporter, error) {
	if exporter, ok := r.exporters[name]; ok {
		return exporter, nil
	}
	return nil, fmt.Errorf("exporter %s is not registered (known: %s)", name, strings.Join(r.Names(), ", "))
}

// Names lists registered exporters alphabetically.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.exporters))
	for name := range r.exporters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// baseName is the input file name without directory and extension.
func baseName(source string) string {
	base := filepath.Base(source)
	if base == "." || base == string(filepath.Separator) {
		return "ventas"
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
