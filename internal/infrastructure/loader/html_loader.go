// Package loader reads saved sales pages from disk.
package loader

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"SalesScanner/internal/ports"
)

// HTMLLoader detects the page encoding and parses it with goquery.
type HTMLLoader struct {
	logger *slog.Logger
}

var _ ports.DocumentLoader = (*HTMLLoader)(nil)

// NewHTMLLoader returns a loader; logger may be nil.
func NewHTMLLoader(logger *slog.Logger) *HTMLLoader {
	return &HTMLLoader{logger: logger}
}

// Load reads path and returns the parsed document with its base directory.
func (l *HTMLLoader) Load(ctx context.Context, path string) (ports.Document, error) {
	if err := ctx.Err(); err != nil {
		return ports.Document{}, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return ports.Document{}, fmt.Errorf("read %s: %w", path, err)
	}

	enc, name := detectEncoding(raw)
	doc, err := goquery.NewDocumentFromReader(transform.NewReader(bytes.NewReader(raw), enc.NewDecoder()))
	if err != nil {
		return ports.Document{}, fmt.Errorf("parse document: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	if l.logger != nil {
		l.logger.Info("file loaded", "file", filepath.Base(path), "bytes", len(raw), "encoding", name)
	}

	return ports.Document{
		DOM:      doc,
		Path:     path,
		BaseDir:  filepath.Dir(abs),
		Encoding: name,
	}, nil
}

// detectEncoding honours a BOM first. Otherwise valid UTF-8 wins, then a
// <meta> declaration, then windows-1252.
func detectEncoding(raw []byte) (encoding.Encoding, string) {
	enc, name, certain := charset.DetermineEncoding(raw, "text/html")
	if certain {
		return enc, name
	}
	if utf8.Valid(raw) {
		return encoding.Nop, "utf-8"
	}
	if name == "utf-8" {
		return charmap.Windows1252, "windows-1252"
	}
	return enc, name
}
