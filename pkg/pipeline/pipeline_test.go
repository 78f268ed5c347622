package pipeline

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/droidview/pkg/cache"
	"github.com/matzehuels/droidview/pkg/config"
	apperrors "github.com/matzehuels/droidview/pkg/errors"
	"github.com/matzehuels/droidview/pkg/images"
	"github.com/matzehuels/droidview/pkg/node"
	"github.com/matzehuels/droidview/pkg/snapshot"
	"github.com/matzehuels/droidview/pkg/snapshot/snaptest"
)

const layoutFile = "res/layout/activity_main.xml"

func quietRunner(c cache.Cache) *Runner {
	return NewRunner(c, nil, log.NewWithOptions(io.Discard, log.Options{}))
}

func page(children ...*snapshot.Element) *snapshot.Document {
	return snaptest.Doc(snaptest.El("body", snaptest.Box(0, 0, 400, 400), snaptest.Children(children...)))
}

func failingLoader(ctx context.Context, src string) (io.ReadCloser, error) {
	return nil, errors.New("decode failed")
}

func TestOptionsValidation(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		wantCode apperrors.Code
	}{
		{"no input", Options{}, apperrors.ErrCodeInvalidInput},
		{"bad format", Options{SnapshotPath: "a.json", Formats: []string{"pdf"}}, apperrors.ErrCodeInvalidFormat},
		{"negative limit", Options{SnapshotPath: "a.json", ImageLimit: -1}, apperrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, apperrors.GetCode(err))
		})
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{SnapshotPath: "page.json"}
	require.NoError(t, opts.ValidateAndSetDefaults())

	assert.Equal(t, []string{config.FormatXML}, opts.Formats)
	assert.Equal(t, images.DefaultLimit, opts.ImageLimit)
	assert.NotNil(t, opts.Settings)
	assert.NotNil(t, opts.Logger)

	// A second call keeps what the first one set.
	opts.Formats = nil
	require.NoError(t, opts.ValidateAndSetDefaults())
	assert.Nil(t, opts.Formats)
}

func TestExecuteFailedImageDecode(t *testing.T) {
	doc := page(
		snaptest.El("div", snaptest.Box(0, 0, 400, 40), snaptest.ID("title")),
		snaptest.El("img", snaptest.Box(0, 40, 0, 0), snaptest.ID("logo"), snaptest.Image("missing.png", 0, 0)),
	)

	r := quietRunner(nil)
	res, err := r.Execute(context.Background(), Options{
		Snapshot: doc,
		Loader:   images.LoaderFunc(failingLoader),
	})
	require.NoError(t, err)

	assert.Equal(t, images.Stats{Pending: 1, Failed: 1}, res.Stats.Images)
	require.NotNil(t, res.Document)
	logo := res.Document.Find("logo")
	require.NotNil(t, logo, "image leaf must survive a failed decode")
	assert.Equal(t, node.KindImage, logo.Kind)
	assert.Zero(t, logo.Bounds.Width())
	assert.Zero(t, logo.Bounds.Height())

	assert.True(t, slices.ContainsFunc(res.Warnings, func(w string) bool {
		return strings.Contains(w, "missing.png")
	}), "warnings %v", res.Warnings)
	assert.Contains(t, string(res.Artifacts[layoutFile]), `android:id="@+id/logo"`)
}

func TestExecuteCachesConversions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.json")
	require.NoError(t, snapshot.WriteFile(path, page(
		snaptest.El("div", snaptest.Box(0, 0, 400, 40), snaptest.ID("a")),
		snaptest.El("div", snaptest.Box(0, 40, 400, 40), snaptest.ID("b")),
	)))

	fc, err := cache.NewFileCache(filepath.Join(dir, "cache"))
	require.NoError(t, err)
	r := quietRunner(fc)
	defer r.Close()

	ctx := context.Background()
	first, err := r.Execute(ctx, Options{SnapshotPath: path, Formats: []string{"xml", "json"}})
	require.NoError(t, err)
	assert.False(t, first.CacheHit)
	assert.NotNil(t, first.Document)
	assert.Contains(t, first.Artifacts, layoutFile)

	second, err := r.Execute(ctx, Options{SnapshotPath: path, Formats: []string{"xml", "json"}})
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Nil(t, second.Document)
	assert.Equal(t, first.SnapshotHash, second.SnapshotHash)
	assert.Equal(t, first.Artifacts, second.Artifacts)
	assert.Equal(t, first.Stats.Views, second.Stats.Views)

	// Different formats are a different conversion.
	third, err := r.Execute(ctx, Options{SnapshotPath: path})
	require.NoError(t, err)
	assert.False(t, third.CacheHit)

	refreshed, err := r.Execute(ctx, Options{SnapshotPath: path, Formats: []string{"xml", "json"}, Refresh: true})
	require.NoError(t, err)
	assert.False(t, refreshed.CacheHit)
}

func TestExecuteBusy(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	blocking := images.LoaderFunc(func(ctx context.Context, src string) (io.ReadCloser, error) {
		close(started)
		<-release
		return nil, errors.New("gone")
	})

	r := quietRunner(nil)
	done := make(chan error, 1)
	go func() {
		_, err := r.Execute(context.Background(), Options{
			Snapshot: page(snaptest.El("img", snaptest.Box(0, 0, 10, 10), snaptest.Image("slow.png", 0, 0))),
			Loader:   blocking,
		})
		done <- err
	}()

	<-started
	assert.True(t, r.Busy())
	_, err := r.Execute(context.Background(), Options{SnapshotPath: "other.json"})
	assert.ErrorIs(t, err, ErrBusy)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeBusy))

	close(release)
	require.NoError(t, <-done)
	assert.False(t, r.Busy())
}

func TestExecuteLoadErrors(t *testing.T) {
	r := quietRunner(nil)
	ctx := context.Background()

	_, err := r.Execute(ctx, Options{SnapshotPath: filepath.Join(t.TempDir(), "missing.json")})
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeFileNotFound), "got %v", err)

	_, err = r.Execute(ctx, Options{Snapshot: &snapshot.Document{}})
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeInvalidSnapshot), "got %v", err)
}

func TestExecuteCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := quietRunner(nil)
	_, err := r.Execute(ctx, Options{
		Snapshot: page(snaptest.El("img", snaptest.Box(0, 0, 10, 10), snaptest.Image("a.png", 0, 0))),
		Loader:   images.LoaderFunc(failingLoader),
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, r.Busy())
}
