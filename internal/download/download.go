// Package download fetches remote files into a local cache directory.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/h2non/filetype"
)

const userAgent = "box-scene/1.0"

// MaxBytes caps a single download. Textures larger than this are rejected rather than truncated.
const MaxBytes = 32 << 20

// maxName bounds the saved file name, extension excluded.
const maxName = 96

// ErrTooLarge is returned when the response body exceeds MaxBytes.
var ErrTooLarge = errors.New("download: response too large")

// Client is used for all downloads. Tests swap it for an httptest client.
var Client = &http.Client{Timeout: 60 * time.Second}

// imageTypes maps the media types a server may announce to file extensions.
var imageTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
}

// Download fetches rawURL and saves it under destDir, which is created if needed.
// The file is named after Content-Disposition or the URL path. Its extension comes from the
// body's magic number, then Content-Type, then the URL. Returns the saved path.
func Download(ctx context.Context, rawURL string, destDir string) (string, error) {
	body, header, err := fetch(ctx, rawURL)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	saved := filepath.Join(destDir, fileName(rawURL, header, body))
	if err := os.WriteFile(saved, body, 0644); err != nil {
		_ = os.Remove(saved)
		return "", fmt.Errorf("download: %w", err)
	}
	return saved, nil
}

func fetch(ctx context.Context, rawURL string) ([]byte, http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("download: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := Client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("download: HTTP %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBytes+1))
	if err != nil {
		return nil, nil, fmt.Errorf("download: %w", err)
	}
	if len(body) > MaxBytes {
		return nil, nil, ErrTooLarge
	}
	return body, resp.Header, nil
}

// fileName picks a safe local name for the response.
func fileName(rawURL string, h http.Header, body []byte) string {
	urlPath := ""
	if u, err := url.Parse(rawURL); err == nil {
		urlPath = u.Path
	}
	base := dispositionName(h.Get("Content-Disposition"))
	if base == "" {
		base = path.Base(urlPath)
	}
	base = sanitize(strings.TrimSuffix(base, path.Ext(base)))
	return base + extension(body, h.Get("Content-Type"), urlPath)
}

// dispositionName returns the filename parameter of a Content-Disposition header, including
// the RFC 2231 filename* form, without any directory part.
func dispositionName(cd string) string {
	_, params, err := mime.ParseMediaType(cd)
	if err != nil || params["filename"] == "" {
		return ""
	}
	return path.Base(filepath.ToSlash(params["filename"]))
}

func extension(body []byte, contentType, urlPath string) string {
	if kind, err := filetype.Match(body); err == nil && kind != filetype.Unknown {
		return "." + kind.Extension
	}
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		if ext, ok := imageTypes[mt]; ok {
			return ext
		}
	}
	switch ext := strings.ToLower(path.Ext(urlPath)); ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp":
		return ext
	}
	return ".bin"
}

// sanitize keeps letters, digits, '_', '-' and '.', replacing anything else with '_'.
func sanitize(name string) string {
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-', r == '.':
			return r
		}
		return '_'
	}, name)
	name = strings.Trim(name, "._")
	if len(name) > maxName {
		name = name[:maxName]
	}
	if name == "" {
		return "download"
	}
	return name
}
