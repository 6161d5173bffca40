package download

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

func TestDownloadNamesFromURLAndContentType(t *testing.T) {
	body := pngBytes(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	dir := t.TempDir()
	path, err := Download(context.Background(), srv.URL+"/textures/wood%20grain?size=big", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "wood_grain.png"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, body, data)
}

func TestDownloadSniffsOctetStream(t *testing.T) {
	body := pngBytes(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	path, err := Download(context.Background(), srv.URL+"/blob", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, ".png", filepath.Ext(path))
}

func TestDownloadHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := Download(context.Background(), srv.URL+"/missing.png", t.TempDir())
	assert.ErrorContains(t, err, "HTTP 404")
}

func TestDownloadCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Download(ctx, srv.URL+"/slow.png", t.TempDir())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDownloadUsesContentDisposition(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="../Crate Front.PNG"`)
		_, _ = w.Write(pngBytes(t))
	}))
	defer srv.Close()

	dir := t.TempDir()
	path, err := Download(context.Background(), srv.URL+"/get?id=7", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Crate_Front.png"), path)
}

func TestDispositionName(t *testing.T) {
	assert.Equal(t, "crate.jpg", dispositionName(`attachment; filename="crate.jpg"`))
	assert.Equal(t, "crate.jpg", dispositionName(`attachment; filename*=UTF-8''crate.jpg`))
	assert.Equal(t, "", dispositionName("inline"))
	assert.Equal(t, "", dispositionName(""))
}

func TestExtensionFallbacks(t *testing.T) {
	text := []byte("not an image")
	assert.Equal(t, ".jpg", extension(text, "image/jpeg; charset=binary", "/a.png"))
	assert.Equal(t, ".webp", extension(text, "application/octet-stream", "/a.WEBP"))
	assert.Equal(t, ".jpeg", extension(text, "", "/photo.jpeg"))
	assert.Equal(t, ".bin", extension(text, "text/plain", "/blob"))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "a_b.png", sanitize("a b.png"))
	assert.Equal(t, "download", sanitize(""))
	assert.Equal(t, "download", sanitize("/"))
	assert.Len(t, sanitize(strings.Repeat("x", 200)), maxName)
}
