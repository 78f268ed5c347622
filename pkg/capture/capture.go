// Package capture loads a live page in headless Chrome and serializes it
// into a [snapshot.Document].
//
// A capture navigates to the page, waits for the configured selector, then
// waits until every <img> has either decoded or failed before reading
// geometry. The page is serialized in one script evaluation so the
// snapshot reflects a single layout pass.
//
// Stylesheets the page cannot read (typically cross-origin sheets) and
// images that fail to decode become warnings on the document rather than
// capture errors.
//
// # Usage
//
//	c, err := capture.New(capture.Options{Settings: settings.Capture})
//	if err != nil {
//	    return err
//	}
//	doc, err := c.Capture(ctx, "https://example.com")
package capture

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/matzehuels/droidview/pkg/cache"
	"github.com/matzehuels/droidview/pkg/config"
	apperrors "github.com/matzehuels/droidview/pkg/errors"
	"github.com/matzehuels/droidview/pkg/snapshot"
)

//go:embed snapshot.js
var serializeScript string

// awaitImagesScript settles every image on the page and returns the
// sources of the ones that failed.
const awaitImagesScript = `Promise.allSettled(Array.from(document.images, (img) => img.decode()))
  .then((results) => results.flatMap((r, i) =>
    r.status === "rejected" ? [document.images[i].currentSrc || document.images[i].src] : []))`

// DefaultWaitSelector is waited for when the settings name none.
const DefaultWaitSelector = "body"

// Options configures a [Capturer].
type Options struct {
	Settings config.Capture
	// ExecPath overrides the Chrome binary chromedp looks up.
	ExecPath string
	// Headful shows the browser window.
	Headful bool
	Logger  *log.Logger

	timeout   time.Duration
	validated bool
}

// ValidateAndSetDefaults validates options and fills in defaults.
// Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	d := config.Default().Capture
	if o.Settings.ViewportWidth == 0 {
		o.Settings.ViewportWidth = d.ViewportWidth
	}
	if o.Settings.ViewportHeight == 0 {
		o.Settings.ViewportHeight = d.ViewportHeight
	}
	if o.Settings.ViewportWidth < 0 || o.Settings.ViewportHeight < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidSettings, "viewport must not be negative")
	}
	if o.Settings.WaitSelector == "" {
		o.Settings.WaitSelector = DefaultWaitSelector
	}
	timeout, err := o.Settings.TimeoutDuration()
	if err != nil {
		return err
	}
	o.timeout = timeout
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Capturer captures pages. Every capture starts its own browser, so a
// Capturer may be used from several goroutines.
type Capturer struct {
	opts Options
}

// New returns a Capturer.
func New(opts Options) (*Capturer, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return &Capturer{opts: opts}, nil
}

// Capture loads rawURL and returns its snapshot. Failures to start the
// browser or reach the page are retried; a timeout is not.
func (c *Capturer) Capture(ctx context.Context, rawURL string) (*snapshot.Document, error) {
	if err := checkURL(rawURL); err != nil {
		return nil, err
	}

	var doc *snapshot.Document
	start := time.Now()
	err := cache.RetryWithBackoff(ctx, func() error {
		d, err := c.once(ctx, rawURL)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrCodeCapture) {
				c.opts.Logger.Warn("capture failed", "url", rawURL, "err", err)
				return cache.Retryable(err)
			}
			return err
		}
		doc = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.opts.Logger.Info("captured page",
		"url", rawURL,
		"elements", len(doc.Elements()),
		"warnings", len(doc.Warnings),
		"duration", time.Since(start))
	return doc, nil
}

func (c *Capturer) once(ctx context.Context, rawURL string) (*snapshot.Document, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, c.allocatorOptions()...)
	defer cancelAlloc()
	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(c.opts.Logger.Debugf))
	defer cancelTab()
	if c.opts.timeout > 0 {
		var cancel context.CancelFunc
		tabCtx, cancel = context.WithTimeout(tabCtx, c.opts.timeout)
		defer cancel()
	}

	s := c.opts.Settings
	var failed []string
	var raw string
	err := chromedp.Run(tabCtx,
		chromedp.EmulateViewport(int64(s.ViewportWidth), int64(s.ViewportHeight)),
		chromedp.Navigate(rawURL),
		chromedp.WaitReady(s.WaitSelector, chromedp.ByQuery),
		chromedp.Evaluate(awaitImagesScript, &failed, awaitPromise),
		chromedp.Evaluate(serializeScript, &raw),
	)
	if err != nil {
		return nil, classify(rawURL, err)
	}

	doc, err := decode(raw)
	if err != nil {
		return nil, err
	}
	for _, src := range failed {
		doc.AddWarning(fmt.Sprintf("image %s failed to decode", src))
	}
	return doc, nil
}

func (c *Capturer) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := []chromedp.ExecAllocatorOption{
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("mute-audio", true),
		chromedp.WindowSize(int(c.opts.Settings.ViewportWidth), int(c.opts.Settings.ViewportHeight)),
	}
	if !c.opts.Headful {
		opts = append(opts, chromedp.Headless)
	}
	if c.opts.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(c.opts.ExecPath))
	}
	return opts
}

func awaitPromise(p *runtime.EvaluateParams) *runtime.EvaluateParams {
	return p.WithAwaitPromise(true)
}

// decode parses the serialized page.
func decode(raw string) (*snapshot.Document, error) {
	if raw == "" {
		return nil, apperrors.New(apperrors.ErrCodeCapture, "page serialized to nothing")
	}
	doc, err := snapshot.Read(strings.NewReader(raw))
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// classify maps browser errors to error codes. Deadlines and cancellation
// keep their identity so callers can tell them apart.
func classify(rawURL string, err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.Wrap(apperrors.ErrCodeTimeout, err, "capture %s", rawURL)
	case errors.Is(err, context.Canceled):
		return err
	}
	return apperrors.Wrap(apperrors.ErrCodeCapture, err, "capture %s", rawURL)
}

func checkURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "invalid url %q", rawURL)
	}
	switch u.Scheme {
	case "http", "https", "file":
		return nil
	}
	return apperrors.New(apperrors.ErrCodeInvalidInput, "unsupported url %q", rawURL)
}
