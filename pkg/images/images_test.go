package images

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/droidview/pkg/observability"
	"github.com/matzehuels/droidview/pkg/snapshot"
	"github.com/matzehuels/droidview/pkg/snapshot/snaptest"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func imgDoc(srcs ...string) *snapshot.Document {
	var children []*snapshot.Element
	for i, src := range srcs {
		children = append(children, snaptest.El("img", snaptest.Box(0, float64(i)*10, 10, 10), snaptest.Image(src, 0, 0)))
	}
	return snaptest.Doc(snaptest.El("body", snaptest.Box(0, 0, 100, 100), snaptest.Children(children...)))
}

// memLoader serves fixed payloads and counts opens.
type memLoader struct {
	files map[string][]byte
	opens atomic.Int32
}

func (m *memLoader) Open(_ context.Context, src string) (io.ReadCloser, error) {
	m.opens.Add(1)
	data, ok := m.files[src]
	if !ok {
		return nil, errors.New("not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func TestSettleDecodes(t *testing.T) {
	loader := &memLoader{files: map[string][]byte{
		"a.png": pngBytes(t, 3, 2),
		"b.svg": []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="40px" height="30"></svg>`),
		"c.svg": []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 64 48"></svg>`),
	}}
	doc := imgDoc("a.png", "b.svg", "c.svg", "a.png")

	stats, err := Settle(context.Background(), doc, loader, 2)
	require.NoError(t, err)
	assert.Equal(t, Stats{Pending: 3, Decoded: 3}, stats)
	assert.EqualValues(t, 3, loader.opens.Load(), "duplicate sources decode once")

	imgs := doc.Images()
	require.Len(t, imgs, 4)
	want := [][2]int{{3, 2}, {40, 30}, {64, 48}, {3, 2}}
	for i, img := range imgs {
		assert.True(t, img.Settled, img.Src)
		assert.Equal(t, want[i], [2]int{img.NaturalWidth, img.NaturalHeight}, img.Src)
	}
	assert.Empty(t, doc.Warnings)
}

func TestSettleFailuresBecomeWarnings(t *testing.T) {
	loader := &memLoader{files: map[string][]byte{
		"ok.png":      pngBytes(t, 5, 5),
		"garbage.png": []byte("not an image"),
	}}
	doc := imgDoc("ok.png", "garbage.png", "missing.png")

	stats, err := Settle(context.Background(), doc, loader, 0)
	require.NoError(t, err)
	assert.Equal(t, Stats{Pending: 3, Decoded: 1, Failed: 2}, stats)

	for _, img := range doc.Images()[1:] {
		assert.True(t, img.Settled)
		assert.False(t, img.Pending())
		assert.Zero(t, img.NaturalWidth)
		assert.Zero(t, img.NaturalHeight)
	}
	require.Len(t, doc.Warnings, 2)
	assert.Contains(t, doc.Warnings[0], "garbage.png")
	assert.Contains(t, doc.Warnings[1], "missing.png")
}

func TestSettleSkipsKnownSizes(t *testing.T) {
	doc := snaptest.Doc(snaptest.El("body", snaptest.Box(0, 0, 10, 10), snaptest.Children(
		snaptest.El("img", snaptest.Box(0, 0, 10, 10), snaptest.Image("known.png", 10, 10)),
	)))
	loader := &memLoader{}

	stats, err := Settle(context.Background(), doc, loader, 1)
	require.NoError(t, err)
	assert.Zero(t, stats.Pending)
	assert.Zero(t, loader.opens.Load())
}

func TestSettleRespectsLimit(t *testing.T) {
	var (
		mu       sync.Mutex
		inFlight int
		peak     int
	)
	data := pngBytes(t, 1, 1)
	loader := LoaderFunc(func(context.Context, string) (io.ReadCloser, error) {
		mu.Lock()
		inFlight++
		peak = max(peak, inFlight)
		mu.Unlock()
		defer func() {
			mu.Lock()
			inFlight--
			mu.Unlock()
		}()
		return io.NopCloser(bytes.NewReader(data)), nil
	})

	doc := imgDoc("1.png", "2.png", "3.png", "4.png", "5.png", "6.png")
	stats, err := Settle(context.Background(), doc, loader, 2)
	require.NoError(t, err)
	assert.Equal(t, 6, stats.Decoded)
	assert.LessOrEqual(t, peak, 2)
}

func TestSettleCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Settle(ctx, imgDoc("a.png"), &memLoader{}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSourceLoader(t *testing.T) {
	data := pngBytes(t, 4, 7)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pic.png"), data, 0o644))
	l := &SourceLoader{Dir: dir}

	tests := []struct {
		name string
		src  string
	}{
		{"relative file", "pic.png"},
		{"file url", "file://" + filepath.Join(dir, "pic.png")},
		{"data uri", "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc, err := l.Open(context.Background(), tt.src)
			require.NoError(t, err)
			defer rc.Close()
			w, h, err := DecodeSize(rc)
			require.NoError(t, err)
			assert.Equal(t, [2]int{4, 7}, [2]int{w, h})
		})
	}

	_, err := l.Open(context.Background(), "data:image/png;base64")
	assert.Error(t, err)

	rc, err := l.Open(context.Background(), "data:image/svg+xml,%3Csvg%20xmlns%3D%22http%3A%2F%2Fwww.w3.org%2F2000%2Fsvg%22%20width%3D%228%22%20height%3D%229%22%2F%3E")
	require.NoError(t, err)
	w, h, err := DecodeSize(rc)
	require.NoError(t, err)
	assert.Equal(t, [2]int{8, 9}, [2]int{w, h})
}

func TestDecodeSizeRejectsSizelessSVG(t *testing.T) {
	_, _, err := DecodeSize(strings.NewReader(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`))
	assert.ErrorContains(t, err, "no intrinsic size")
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	mu       sync.Mutex
	statuses []int
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statuses = append(h.statuses, status)
}

func TestSourceLoaderFetch(t *testing.T) {
	data := pngBytes(t, 6, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/logo.png" {
			http.NotFound(w, r)
			return
		}
		w.Write(data)
	}))
	defer srv.Close()

	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	doc := imgDoc(srv.URL+"/logo.png", srv.URL+"/missing.png")
	stats, err := Settle(context.Background(), doc, &SourceLoader{Client: srv.Client()}, 2)
	require.NoError(t, err)
	assert.Equal(t, Stats{Pending: 2, Decoded: 1, Failed: 1}, stats)
	assert.Equal(t, 6, doc.Images()[0].NaturalWidth)
	require.Len(t, doc.Warnings, 1)
	assert.Contains(t, doc.Warnings[0], "404")
	assert.ElementsMatch(t, []int{200, 404}, hooks.statuses)
}
