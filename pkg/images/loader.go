package images

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/matzehuels/droidview/pkg/observability"
)

// DefaultMaxBytes caps how much of one image source is read.
const DefaultMaxBytes = 32 << 20

// Loader opens the bytes behind an image source.
type Loader interface {
	Open(ctx context.Context, src string) (io.ReadCloser, error)
}

// LoaderFunc adapts a function to [Loader].
type LoaderFunc func(ctx context.Context, src string) (io.ReadCloser, error)

// Open calls f.
func (f LoaderFunc) Open(ctx context.Context, src string) (io.ReadCloser, error) {
	return f(ctx, src)
}

// SourceLoader reads data URIs inline, fetches http and https sources with
// Client and opens everything else as a file relative to Dir.
type SourceLoader struct {
	Dir      string
	Client   *http.Client
	MaxBytes int64
}

// Open implements [Loader].
func (l *SourceLoader) Open(ctx context.Context, src string) (io.ReadCloser, error) {
	limit := l.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	switch {
	case strings.HasPrefix(src, "data:"):
		data, err := decodeDataURI(src)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(bytes.NewReader(data)), nil
	case strings.HasPrefix(src, "http://"), strings.HasPrefix(src, "https://"):
		return l.fetch(ctx, src, limit)
	}

	path := strings.TrimPrefix(src, "file://")
	if !filepath.IsAbs(path) && l.Dir != "" {
		path = filepath.Join(l.Dir, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return limitedCloser{Reader: io.LimitReader(f, limit), Closer: f}, nil
}

func (l *SourceLoader) fetch(ctx context.Context, src string, limit int64) (io.ReadCloser, error) {
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, req.URL.Host, req.URL.Path)
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, req.URL.Host, req.URL.Path, err)
		return nil, err
	}
	hooks.OnResponse(ctx, req.Method, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch: %s", resp.Status)
	}
	return limitedCloser{Reader: io.LimitReader(resp.Body, limit), Closer: resp.Body}, nil
}

type limitedCloser struct {
	io.Reader
	io.Closer
}

// decodeDataURI returns the payload of a data: URI.
func decodeDataURI(src string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(src, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("malformed data uri")
	}
	if strings.HasSuffix(meta, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("data uri: %w", err)
		}
		return data, nil
	}
	s, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("data uri: %w", err)
	}
	return []byte(s), nil
}
