package loader

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

func TestLoadUTF8(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "ventas.html", []byte(`<html><body><p class="s">Envío demorado</p></body></html>`))

	doc, err := NewHTMLLoader(nil).Load(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, "utf-8", doc.Encoding)
	require.Equal(t, filepath.Dir(path), doc.BaseDir)
	require.Equal(t, "Envío demorado", doc.DOM.Find("p.s").Text())
}

func TestLoadLatin1(t *testing.T) {
	t.Parallel()

	// "Envío" with í as the single latin-1 byte 0xED
	raw := []byte("<html><body><p class=\"s\">Env\xedo</p></body></html>")
	path := writeFile(t, "ventas.html", raw)

	doc, err := NewHTMLLoader(nil).Load(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, "windows-1252", doc.Encoding)
	require.Equal(t, "Envío", doc.DOM.Find("p.s").Text())
}

func TestLoadMetaCharset(t *testing.T) {
	t.Parallel()

	raw := []byte("<html><head><meta charset=\"iso-8859-1\"></head><body><p>Acord\xe1</p></body></html>")
	path := writeFile(t, "ventas.html", raw)

	doc, err := NewHTMLLoader(nil).Load(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, "windows-1252", doc.Encoding)
	require.True(t, strings.Contains(doc.DOM.Find("p").Text(), "Acordá"))
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	_, err := NewHTMLLoader(nil).Load(context.Background(), filepath.Join(t.TempDir(), "missing.html"))
	require.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewHTMLLoader(nil).Load(ctx, "whatever.html")
	require.ErrorIs(t, err, context.Canceled)
}
