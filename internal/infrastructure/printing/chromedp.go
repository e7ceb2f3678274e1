package printing

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const (
	defaultChromeTimeout = 30 * time.Second
	defaultScale         = 1.0

	// Invoices print on A4 only. Chrome wants inches.
	a4WidthInches  = 210.0 / 25.4
	a4HeightInches = 297.0 / 25.4
	marginInches   = 10.0 / 25.4
)

// ChromedpConfig configures the headless Chrome renderer.
type ChromedpConfig struct {
	// DefaultTimeout bounds each render when the request carries none.
	DefaultTimeout time.Duration
	// RemoteURL points at an already-running Chrome instance. Empty
	// means chromedp launches its own.
	RemoteURL string
	// NoSandbox is required when Chrome runs as root, e.g. in Docker.
	NoSandbox bool
	// Scale applied to the printed page (default 1.0).
	Scale  float64
	Logger *zap.Logger
}

// ChromedpRenderer renders HTML to PDF over the Chrome DevTools Protocol.
// The allocator is shared; each Render gets its own tab.
type ChromedpRenderer struct {
	config      *ChromedpConfig
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

var _ PDFRenderer = (*ChromedpRenderer)(nil)

// NewChromedpRenderer creates a new chromedp-based PDF renderer
func NewChromedpRenderer(config *ChromedpConfig) (*ChromedpRenderer, error) {
	if config == nil {
		config = &ChromedpConfig{}
	}
	if config.DefaultTimeout == 0 {
		config.DefaultTimeout = defaultChromeTimeout
	}
	if config.Scale == 0 {
		config.Scale = defaultScale
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &ChromedpRenderer{config: config, logger: logger}

	if config.RemoteURL != "" {
		r.allocCtx, r.allocCancel = chromedp.NewRemoteAllocator(context.Background(), config.RemoteURL)
		return r, nil
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true), // Important for Docker
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if config.NoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}
	r.allocCtx, r.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)

	return r, nil
}

// Render converts HTML content to PDF
func (r *ChromedpRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	if req == nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "render request is nil", nil)
	}
	if strings.TrimSpace(req.HTML) == "" {
		return nil, NewRenderError(ErrCodeInvalidHTML, "HTML content is empty", nil)
	}

	timeout := req.Timeout
	if timeout == 0 {
		timeout = r.config.DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	tabCtx, tabCancel := chromedp.NewContext(r.allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			r.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)
	defer tabCancel()

	start := time.Now()
	var pdfData []byte
	err := chromedp.Run(tabCtx,
		chromedp.Navigate("about:blank"),
		setDocumentContent(completeDocument(req)),
		printToPDF(req.Landscape, r.config.Scale, &pdfData),
	)
	if err != nil {
		return nil, r.renderFailure(ctx, timeout, err)
	}
	if len(pdfData) == 0 {
		return nil, NewRenderError(ErrCodeRenderFailed, "generated PDF is empty", nil)
	}

	elapsed := time.Since(start)
	pages := countPages(pdfData)
	r.logger.Info("PDF rendered successfully",
		zap.Int("bytes", len(pdfData)),
		zap.Int("pages", pages),
		zap.Duration("duration", elapsed))

	return &RenderResult{
		PDFData:        pdfData,
		PageCount:      pages,
		RenderDuration: elapsed,
	}, nil
}

// setDocumentContent injects html into the blank tab through the CDP
// frame API, avoiding data: URLs and their size limits.
func setDocumentContent(html string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		frameTree, err := page.GetFrameTree().Do(ctx)
		if err != nil {
			return err
		}
		return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
	})
}

func printToPDF(landscape bool, scale float64, out *[]byte) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		data, _, err := page.PrintToPDF().
			WithPrintBackground(true).
			WithPaperWidth(a4WidthInches).
			WithPaperHeight(a4HeightInches).
			WithMarginTop(marginInches).
			WithMarginRight(marginInches).
			WithMarginBottom(marginInches).
			WithMarginLeft(marginInches).
			WithScale(scale).
			WithLandscape(landscape).
			Do(ctx)
		if err != nil {
			return err
		}
		*out = data
		return nil
	})
}

func (r *ChromedpRenderer) renderFailure(ctx context.Context, timeout time.Duration, err error) error {
	switch ctx.Err() {
	case context.DeadlineExceeded:
		return NewRenderError(ErrCodeRenderTimeout,
			fmt.Sprintf("PDF rendering timed out after %v", timeout), err)
	case context.Canceled:
		return NewRenderError(ErrCodeRenderTimeout, "PDF rendering was cancelled", err)
	}
	r.logger.Error("chromedp rendering failed", zap.Error(err))
	return NewRenderError(ErrCodeRenderFailed, "chromedp execution failed: "+err.Error(), err)
}

// completeDocument wraps a bare HTML fragment in a minimal document.
// Full documents pass through untouched.
func completeDocument(req *RenderRequest) string {
	lower := strings.ToLower(req.HTML)
	if strings.Contains(lower, "<!doctype") || strings.Contains(lower, "<html") {
		return req.HTML
	}

	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><head><meta charset="UTF-8">`)
	b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1.0">`)
	if req.Title != "" {
		b.WriteString("<title>")
		b.WriteString(req.Title)
		b.WriteString("</title>")
	}
	b.WriteString("</head><body>")
	b.WriteString(req.HTML)
	b.WriteString("</body></html>")
	return b.String()
}

// Close releases resources held by the renderer
func (r *ChromedpRenderer) Close() error {
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}

// countPages counts page objects in the raw PDF. "/Type /Page" also
// matches the parent "/Type /Pages" object, so subtract those.
func countPages(pdfData []byte) int {
	count := bytes.Count(pdfData, []byte("/Type /Page")) -
		bytes.Count(pdfData, []byte("/Type /Pages"))
	return max(count, 1)
}
