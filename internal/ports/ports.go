package ports

import (
	"context"

	"github.com/PuerkitoBio/goquery"

	"SalesScanner/internal/domain"
)

// Document is a parsed sales-page snapshot.
type Document struct {
	DOM      *goquery.Document
	Path     string
	BaseDir  string
	Encoding string
}

// DocumentLoader reads a saved page from disk and parses it.
type DocumentLoader interface {
	Load(ctx context.Context, path string) (Document, error)
}

// Exporter renders a classification result into one output file and returns its path.
type Exporter interface {
	Name() string
	Export(ctx context.Context, result domain.Result, outDir string) (string, error)
}

// Notifier streams selected digests to Telegram or other channels.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}
