package render

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// PDFRenderer prints the HTML form through headless Chrome.
type PDFRenderer struct {
	chromePath string
	timeout    time.Duration
}

// NewPDFRenderer builds a renderer. An empty chromePath lets chromedp find
// the browser on PATH.
func NewPDFRenderer(chromePath string, timeout time.Duration) *PDFRenderer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &PDFRenderer{chromePath: chromePath, timeout: timeout}
}

// Render loads the page from a data URL and prints it to A4.
func (r *PDFRenderer) Render(ctx context.Context, doc *Document) ([]byte, error) {
	htmlDoc, err := HTML(doc)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.NoSandbox)
	if r.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	chromeCtx, chromeCancel := chromedp.NewContext(allocCtx)
	defer chromeCancel()

	url := "data:text/html;charset=utf-8;base64," + base64.StdEncoding.EncodeToString(htmlDoc)
	var pdf []byte
	err = chromedp.Run(chromeCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4 in inches.
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0.5).
				WithMarginBottom(0.5).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("print pdf: %w", err)
	}
	return pdf, nil
}

var chromeCandidates = []string{
	"/usr/bin/chromium",
	"/usr/bin/chromium-browser",
	"/usr/bin/google-chrome",
	"/usr/bin/google-chrome-stable",
	"/snap/bin/chromium",
	"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
}

// DetectChrome returns configured if it exists, otherwise the first
// well-known browser install found, or "" when there is none.
func DetectChrome(configured string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
	}
	for _, path := range chromeCandidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
